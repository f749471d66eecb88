package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/RakanBA/AYAN/internal/model"
)

const (
	// PageSize is the number of landmarks added by each "load more".
	PageSize = 6

	CategoryAll = "All"

	SortNameAsc  = "name-asc"
	SortNameDesc = "name-desc"
)

//go:embed landmarks.json
var landmarksRawJSON []byte

type catalogFile struct {
	Landmarks []model.Landmark `json:"landmarks"`
}

// Catalog is the read-only set of known landmarks.
type Catalog struct {
	items []model.Landmark
	byID  map[string]int
}

// Default returns the bundled catalog.
func Default() *Catalog {
	var file catalogFile
	if err := json.Unmarshal(landmarksRawJSON, &file); err != nil {
		panic(fmt.Sprintf("bundled landmarks.json: %v", err))
	}
	c, err := New(file.Landmarks)
	if err != nil {
		panic(fmt.Sprintf("bundled landmarks.json: %v", err))
	}
	return c
}

func New(landmarks []model.Landmark) (*Catalog, error) {
	c := &Catalog{
		items: make([]model.Landmark, 0, len(landmarks)),
		byID:  make(map[string]int, len(landmarks)),
	}
	for _, lm := range landmarks {
		lm.ID = strings.TrimSpace(lm.ID)
		if lm.ID == "" {
			return nil, fmt.Errorf("landmark %q: id is required", lm.Name.EN)
		}
		if strings.TrimSpace(lm.Name.EN) == "" {
			return nil, fmt.Errorf("landmark %s: english name is required", lm.ID)
		}
		if _, dup := c.byID[lm.ID]; dup {
			return nil, fmt.Errorf("landmark %s: duplicate id", lm.ID)
		}
		c.byID[lm.ID] = len(c.items)
		c.items = append(c.items, lm.Clone())
	}
	return c, nil
}

func (c *Catalog) Len() int {
	return len(c.items)
}

// All returns copies of every landmark in catalog order.
func (c *Catalog) All() []model.Landmark {
	out := make([]model.Landmark, 0, len(c.items))
	for _, lm := range c.items {
		out = append(out, lm.Clone())
	}
	return out
}

func (c *Catalog) ByID(id string) (model.Landmark, bool) {
	idx, ok := c.byID[strings.TrimSpace(id)]
	if !ok {
		return model.Landmark{}, false
	}
	return c.items[idx].Clone(), true
}

// MatchName resolves a classifier label against the English names. Matching
// folds case only.
func (c *Catalog) MatchName(label string) (model.Landmark, bool) {
	for _, lm := range c.items {
		if strings.EqualFold(lm.Name.EN, label) {
			return lm.Clone(), true
		}
	}
	return model.Landmark{}, false
}

// Categories lists the distinct localized categories in first-seen order,
// prefixed by CategoryAll.
func (c *Catalog) Categories(lang model.Language) []string {
	out := []string{CategoryAll}
	seen := map[string]struct{}{}
	for _, lm := range c.items {
		name := lm.Category.Get(lang)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

type Query struct {
	Search   string
	Category string
	Sort     string
	Page     int
	Lang     model.Language
}

type Result struct {
	Items   []model.Landmark `json:"items"`
	Total   int              `json:"total"`
	Page    int              `json:"page"`
	HasMore bool             `json:"has_more"`
}

// Query filters by name substring and category in the query language, sorts
// by localized name and returns the first Page*PageSize matches.
func (c *Catalog) Query(q Query) Result {
	if !q.Lang.Valid() {
		q.Lang = model.LanguageEN
	}
	if q.Page < 1 {
		q.Page = 1
	}
	search := strings.ToLower(strings.TrimSpace(q.Search))
	category := strings.TrimSpace(q.Category)

	matched := make([]model.Landmark, 0, len(c.items))
	for _, lm := range c.items {
		if search != "" && !strings.Contains(strings.ToLower(lm.Name.Get(q.Lang)), search) {
			continue
		}
		if category != "" && category != CategoryAll && lm.Category.Get(q.Lang) != category {
			continue
		}
		matched = append(matched, lm)
	}

	col := collate.New(languageTag(q.Lang))
	desc := q.Sort == SortNameDesc
	sort.SliceStable(matched, func(i, j int) bool {
		cmp := col.CompareString(matched[i].Name.Get(q.Lang), matched[j].Name.Get(q.Lang))
		if desc {
			return cmp > 0
		}
		return cmp < 0
	})

	limit := q.Page * PageSize
	if limit > len(matched) {
		limit = len(matched)
	}
	items := make([]model.Landmark, 0, limit)
	for _, lm := range matched[:limit] {
		items = append(items, lm.Clone())
	}
	return Result{
		Items:   items,
		Total:   len(matched),
		Page:    q.Page,
		HasMore: limit < len(matched),
	}
}

func languageTag(lang model.Language) language.Tag {
	if lang == model.LanguageAR {
		return language.Arabic
	}
	return language.English
}
