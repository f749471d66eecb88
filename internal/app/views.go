package app

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/RakanBA/AYAN/internal/catalog"
	"github.com/RakanBA/AYAN/internal/i18n"
	"github.com/RakanBA/AYAN/internal/model"
	"github.com/RakanBA/AYAN/internal/navigation"
)

// View is what a client needs to draw the current screen.
type View struct {
	Screen       navigation.Screen `json:"screen"`
	Language     model.Language    `json:"language"`
	Direction    i18n.Direction    `json:"direction"`
	Points       int               `json:"points"`
	CanGoBack    bool              `json:"can_go_back"`
	Nav          []NavItem         `json:"nav"`
	Notification *BadgeNotice      `json:"notification,omitempty"`
	Body         ScreenView        `json:"body"`
}

type NavItem struct {
	Screen navigation.Screen `json:"screen"`
	Label  string            `json:"label"`
	Active bool              `json:"active"`
}

type BadgeNotice struct {
	Title string `json:"title"`
	ID    string `json:"id"`
	Name  string `json:"name"`
}

// ScreenView is one variant per screen. The set is closed.
type ScreenView interface {
	Screen() navigation.Screen
	screenView()
}

type ScanView struct {
	Title  string `json:"title"`
	Prompt string `json:"prompt"`
}

type CameraView struct {
	Aim    string `json:"aim"`
	Upload string `json:"upload"`
	Close  string `json:"close"`
}

type LoadingView struct {
	Status      string   `json:"status"`
	HasCapture  bool     `json:"has_capture"`
	Identifying bool     `json:"identifying"`
	Failure     *Failure `json:"failure,omitempty"`
	TryAgain    string   `json:"try_again"`
	Cancel      string   `json:"cancel"`
}

type ResultsView struct {
	Landmark    LandmarkView `json:"landmark"`
	ImageSource string       `json:"image_source"`
	FromCapture bool         `json:"from_capture"`
}

type ExploreView struct {
	Title      string         `json:"title"`
	Search     string         `json:"search"`
	Category   string         `json:"category"`
	Sort       string         `json:"sort"`
	Categories []CategoryItem `json:"categories"`
	Items      []LandmarkCard `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	HasMore    bool           `json:"has_more"`
	LoadMore   string         `json:"load_more"`
}

type RewardsView struct {
	Title       string      `json:"title"`
	Subtitle    string      `json:"subtitle"`
	TotalPoints int         `json:"total_points"`
	Badges      []BadgeView `json:"badges"`
}

type ProfileView struct {
	Title       string         `json:"title"`
	Language    model.Language `json:"language"`
	Direction   i18n.Direction `json:"direction"`
	History     []HistoryEntry `json:"history"`
	EmptyTitle  string         `json:"empty_title,omitempty"`
	EmptyDetail string         `json:"empty_detail,omitempty"`
	Guide       []GuideSection `json:"guide"`
}

func (ScanView) Screen() navigation.Screen    { return navigation.ScreenScan }
func (CameraView) Screen() navigation.Screen  { return navigation.ScreenCamera }
func (LoadingView) Screen() navigation.Screen { return navigation.ScreenLoading }
func (ResultsView) Screen() navigation.Screen { return navigation.ScreenResults }
func (ExploreView) Screen() navigation.Screen { return navigation.ScreenExplore }
func (RewardsView) Screen() navigation.Screen { return navigation.ScreenRewards }
func (ProfileView) Screen() navigation.Screen { return navigation.ScreenProfile }

func (ScanView) screenView()    {}
func (CameraView) screenView()  {}
func (LoadingView) screenView() {}
func (ResultsView) screenView() {}
func (ExploreView) screenView() {}
func (RewardsView) screenView() {}
func (ProfileView) screenView() {}

type LandmarkCard struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Region string `json:"region"`
	Image  string `json:"image"`
}

type LandmarkView struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Built        string             `json:"built,omitempty"`
	Image        string             `json:"image"`
	Region       string             `json:"region"`
	Category     string             `json:"category"`
	Description  string             `json:"description"`
	History      string             `json:"history"`
	Location     string             `json:"location"`
	Coordinates  *model.Coordinates `json:"coordinates,omitempty"`
	MapAvailable bool               `json:"map_available"`
	MapNotice    string             `json:"map_notice,omitempty"`
}

type CategoryItem struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

type BadgeView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Points   int    `json:"points"`
	Unlocked bool   `json:"unlocked"`
}

type HistoryEntry struct {
	Landmark LandmarkCard `json:"landmark"`
	Date     time.Time    `json:"date"`
	DateText string       `json:"date_text"`
	ImageURL string       `json:"image_url,omitempty"`
}

type GuideSection struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

var navScreens = []struct {
	screen navigation.Screen
	key    string
}{
	{navigation.ScreenScan, "nav_scan"},
	{navigation.ScreenExplore, "nav_explore"},
	{navigation.ScreenRewards, "nav_rewards"},
	{navigation.ScreenProfile, "nav_profile"},
}

// View renders the current screen. A results screen without a selected
// landmark renders as the scan screen; the stack is left as it is.
func (c *Core) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := c.game.Snapshot()
	lang := snap.Language
	t := i18n.Translator(lang)
	current := c.nav.Current()
	if current == navigation.ScreenResults && c.selected == nil {
		current = navigation.ScreenScan
	}

	v := View{
		Screen:    current,
		Language:  lang,
		Direction: i18n.DirectionOf(lang),
		Points:    snap.Points,
		CanGoBack: c.nav.Depth() > 0,
		Body:      c.renderLocked(current, lang),
	}
	for _, item := range navScreens {
		v.Nav = append(v.Nav, NavItem{Screen: item.screen, Label: t(item.key), Active: item.screen == current})
	}
	if snap.LastEarnedBadge != nil {
		v.Notification = &BadgeNotice{
			Title: t("badge_unlocked"),
			ID:    snap.LastEarnedBadge.ID,
			Name:  snap.LastEarnedBadge.Name.Get(lang),
		}
	}
	return v
}

func (c *Core) renderLocked(screen navigation.Screen, lang model.Language) ScreenView {
	t := i18n.Translator(lang)
	switch screen {
	case navigation.ScreenScan:
		return ScanView{Title: t("scan_landmark"), Prompt: t("scan_prompt")}
	case navigation.ScreenCamera:
		return CameraView{Aim: t("camera_aim"), Upload: t("upload_photo"), Close: t("close")}
	case navigation.ScreenLoading:
		return c.loadingViewLocked(lang)
	case navigation.ScreenResults:
		return c.resultsViewLocked(lang)
	case navigation.ScreenExplore:
		return c.exploreViewLocked(lang)
	case navigation.ScreenRewards:
		return c.rewardsView(lang)
	case navigation.ScreenProfile:
		return ProfileView{
			Title:       t("profile"),
			Language:    lang,
			Direction:   i18n.DirectionOf(lang),
			History:     c.history(lang),
			EmptyTitle:  t("no_scans_yet"),
			EmptyDetail: t("no_scans_desc"),
			Guide:       guide(lang),
		}
	}
	panic(fmt.Sprintf("no view for screen %q", screen))
}

func (c *Core) loadingViewLocked(lang model.Language) LoadingView {
	t := i18n.Translator(lang)
	v := LoadingView{
		Status:      t("identifying"),
		HasCapture:  c.captured != nil,
		Identifying: c.identifying,
		TryAgain:    t("try_again"),
		Cancel:      t("cancel"),
	}
	switch {
	case c.identifying:
		v.Status = t("analyzing")
	case c.failure != nil:
		f := FailureFor(c.failure, lang)
		v.Failure = &f
	case c.captured != nil:
		v.Status = t("initializing")
	}
	return v
}

func (c *Core) resultsViewLocked(lang model.Language) ResultsView {
	lm := *c.selected
	v := ResultsView{
		Landmark:    localizeLandmark(lm, lang),
		ImageSource: lm.Image,
	}
	if c.captured != nil {
		v.ImageSource = dataURL(c.captured.MIMEType, c.captured.Data)
		v.FromCapture = true
	}
	return v
}

func (c *Core) exploreViewLocked(lang model.Language) ExploreView {
	t := i18n.Translator(lang)
	q := c.explore
	q.Lang = lang
	res := c.catalog.Query(q)

	v := ExploreView{
		Title:    t("explore"),
		Search:   q.Search,
		Category: q.Category,
		Sort:     q.Sort,
		Total:    res.Total,
		Page:     res.Page,
		HasMore:  res.HasMore,
		LoadMore: t("load_more"),
		Items:    make([]LandmarkCard, 0, len(res.Items)),
	}
	for _, category := range c.catalog.Categories(lang) {
		label := category
		if category == catalog.CategoryAll {
			label = t("all_categories")
		}
		v.Categories = append(v.Categories, CategoryItem{Value: category, Label: label, Selected: category == q.Category})
	}
	for _, lm := range res.Items {
		v.Items = append(v.Items, card(lm, lang))
	}
	return v
}

func (c *Core) rewardsView(lang model.Language) RewardsView {
	t := i18n.Translator(lang)
	snap := c.game.Snapshot()
	earned := make(map[string]struct{}, len(snap.EarnedBadges))
	for _, b := range snap.EarnedBadges {
		earned[b.ID] = struct{}{}
	}
	v := RewardsView{
		Title:       t("rewards"),
		Subtitle:    t("rewards_desc"),
		TotalPoints: snap.Points,
	}
	for _, m := range c.game.Rules().Milestones {
		_, unlocked := earned[m.ID]
		v.Badges = append(v.Badges, BadgeView{ID: m.ID, Name: m.Name.Get(lang), Points: m.Points, Unlocked: unlocked})
	}
	return v
}

// History resolves the scan history against the catalog, newest first.
// Entries whose landmark is unknown are left out.
func (c *Core) History() []HistoryEntry {
	return c.history(c.game.Language())
}

func (c *Core) history(lang model.Language) []HistoryEntry {
	items := c.game.Snapshot().ScanHistory
	out := make([]HistoryEntry, 0, len(items))
	for _, item := range items {
		lm, ok := c.catalog.ByID(item.LandmarkID)
		if !ok {
			continue
		}
		out = append(out, HistoryEntry{
			Landmark: card(lm, lang),
			Date:     item.Date,
			DateText: formatDate(item.Date, lang),
			ImageURL: item.ImageURL,
		})
	}
	return out
}

func card(lm model.Landmark, lang model.Language) LandmarkCard {
	return LandmarkCard{ID: lm.ID, Name: lm.Name.Get(lang), Region: lm.Region.Get(lang), Image: lm.Image}
}

func localizeLandmark(lm model.Landmark, lang model.Language) LandmarkView {
	t := i18n.Translator(lang)
	orDefault := func(text model.Text, key string) string {
		if v := text.Get(lang); v != "" {
			return v
		}
		return t(key)
	}
	v := LandmarkView{
		ID:          lm.ID,
		Name:        lm.Name.Get(lang),
		Built:       lm.Built,
		Image:       lm.Image,
		Region:      orDefault(lm.Region, "region_not_available"),
		Category:    lm.Category.Get(lang),
		Description: orDefault(lm.Description, "info_not_available"),
		History:     orDefault(lm.History, "info_not_available"),
		Location:    orDefault(lm.Location, "info_not_available"),
	}
	if lm.Coordinates != nil {
		c := *lm.Coordinates
		v.Coordinates = &c
		v.MapAvailable = true
	} else {
		v.MapNotice = t("map_data_not_available")
	}
	return v
}

func guide(lang model.Language) []GuideSection {
	t := i18n.Translator(lang)
	return []GuideSection{
		{Title: t("guide_welcome"), Body: t("guide_intro")},
		{Title: t("guide_scan_title"), Body: t("guide_scan_desc")},
		{Title: t("guide_explore_title"), Body: t("guide_explore_desc")},
		{Title: t("guide_progress_title"), Body: t("guide_progress_desc")},
		{Title: t("guide_closing")},
	}
}

func dataURL(mime string, data []byte) string {
	if mime == "" {
		mime = "image/jpeg"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

var arabicMonths = [...]string{
	"يناير", "فبراير", "مارس", "أبريل", "مايو", "يونيو",
	"يوليو", "أغسطس", "سبتمبر", "أكتوبر", "نوفمبر", "ديسمبر",
}

// formatDate renders a long date: "March 1, 2025" or "١ مارس ٢٠٢٥".
func formatDate(d time.Time, lang model.Language) string {
	if lang != model.LanguageAR {
		return d.Format("January 2, 2006")
	}
	s := strconv.Itoa(d.Day()) + " " + arabicMonths[d.Month()-1] + " " + strconv.Itoa(d.Year())
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return '٠' + (r - '0')
		}
		return r
	}, s)
}
