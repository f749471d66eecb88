package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RakanBA/AYAN/internal/model"
)

func TestDefaultCatalogLoads(t *testing.T) {
	c := Default()
	require.Equal(t, 9, c.Len())
	for _, lm := range c.All() {
		assert.NotEmpty(t, lm.Name.EN, lm.ID)
		assert.NotEmpty(t, lm.Name.AR, lm.ID)
	}
	lm, ok := c.ByID("masmak-fortress")
	require.True(t, ok)
	require.NotNil(t, lm.Coordinates)
	assert.InDelta(t, 24.6312, lm.Coordinates.Lat, 1e-9)

	farid, ok := c.ByID("qasr-al-farid")
	require.True(t, ok)
	assert.Nil(t, farid.Coordinates)
}

func TestMatchNameFoldsCaseOnly(t *testing.T) {
	c, err := New([]model.Landmark{
		{ID: "tower-1", Name: model.Text{EN: "Example Tower", AR: "برج المثال"}},
	})
	require.NoError(t, err)

	lm, ok := c.MatchName("example TOWER")
	require.True(t, ok)
	assert.Equal(t, "tower-1", lm.ID)

	_, ok = c.MatchName("Example Towers")
	assert.False(t, ok)
	_, ok = c.MatchName("برج المثال")
	assert.False(t, ok)
}

func TestReturnedLandmarksDoNotAliasCatalog(t *testing.T) {
	c := Default()
	lm, ok := c.ByID("hegra")
	require.True(t, ok)
	lm.Description.EN = "changed"
	lm.Coordinates.Lat = 0

	again, _ := c.ByID("hegra")
	assert.NotEqual(t, "changed", again.Description.EN)
	assert.NotZero(t, again.Coordinates.Lat)
}

func TestNewRejectsBadEntries(t *testing.T) {
	_, err := New([]model.Landmark{{ID: "", Name: model.Text{EN: "x"}}})
	assert.Error(t, err)
	_, err = New([]model.Landmark{{ID: "a"}})
	assert.Error(t, err)
	_, err = New([]model.Landmark{
		{ID: "a", Name: model.Text{EN: "x"}},
		{ID: "a", Name: model.Text{EN: "y"}},
	})
	assert.Error(t, err)
}

func TestCategories(t *testing.T) {
	c := Default()
	assert.Equal(t, []string{CategoryAll, "Modern", "Historical", "Heritage"}, c.Categories(model.LanguageEN))
	assert.Equal(t, []string{CategoryAll, "حديث", "تاريخي", "تراث"}, c.Categories(model.LanguageAR))
}

func TestQueryPaginatesCumulatively(t *testing.T) {
	c := Default()

	first := c.Query(Query{Lang: model.LanguageEN, Sort: SortNameAsc, Page: 1})
	assert.Len(t, first.Items, PageSize)
	assert.Equal(t, 9, first.Total)
	assert.True(t, first.HasMore)
	assert.Equal(t, "al-faisaliah", first.Items[0].ID)

	second := c.Query(Query{Lang: model.LanguageEN, Sort: SortNameAsc, Page: 2})
	assert.Len(t, second.Items, 9)
	assert.False(t, second.HasMore)
	assert.Equal(t, first.Items, second.Items[:PageSize])
	assert.Equal(t, "qasr-al-farid", second.Items[8].ID)
}

func TestQuerySortDescending(t *testing.T) {
	res := Default().Query(Query{Lang: model.LanguageEN, Sort: SortNameDesc, Page: 2})
	require.Len(t, res.Items, 9)
	assert.Equal(t, "qasr-al-farid", res.Items[0].ID)
	assert.Equal(t, "al-faisaliah", res.Items[8].ID)
}

func TestQuerySearchAndCategory(t *testing.T) {
	c := Default()

	towers := c.Query(Query{Lang: model.LanguageEN, Search: "TOWER"})
	assert.Equal(t, 2, towers.Total)

	arabic := c.Query(Query{Lang: model.LanguageAR, Search: "برج"})
	assert.Equal(t, 2, arabic.Total)

	heritage := c.Query(Query{Lang: model.LanguageEN, Category: "Heritage"})
	assert.Equal(t, 3, heritage.Total)
	for _, lm := range heritage.Items {
		assert.Equal(t, "Heritage", lm.Category.EN)
	}

	// Categories are matched in the query language.
	none := c.Query(Query{Lang: model.LanguageAR, Category: "Heritage"})
	assert.Zero(t, none.Total)
	assert.Empty(t, none.Items)

	all := c.Query(Query{Lang: model.LanguageEN, Category: CategoryAll})
	assert.Equal(t, 9, all.Total)
}

func TestQueryDefaults(t *testing.T) {
	res := Default().Query(Query{Page: 0, Lang: "fr"})
	assert.Equal(t, 1, res.Page)
	assert.Len(t, res.Items, PageSize)
}
