package app

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/RakanBA/AYAN/internal/archive"
	"github.com/RakanBA/AYAN/internal/catalog"
	"github.com/RakanBA/AYAN/internal/gamification"
	"github.com/RakanBA/AYAN/internal/logger"
	"github.com/RakanBA/AYAN/internal/model"
	"github.com/RakanBA/AYAN/internal/navigation"
	"github.com/RakanBA/AYAN/internal/recognition"
)

var (
	ErrNoCapture          = errors.New("no captured image")
	ErrIdentifyInProgress = errors.New("identification already in progress")
	ErrCaptureDiscarded   = errors.New("capture was discarded during identification")
	ErrUnknownLandmark    = errors.New("unknown landmark")
	ErrFailurePending     = errors.New("scan failure must be dismissed with retry or cancel")
	ErrNothingSelected    = errors.New("no landmark selected")
)

// Identifier resolves a capture to a landmark.
type Identifier interface {
	Identify(ctx context.Context, req recognition.Request) (model.Landmark, error)
}

type Deps struct {
	Game       *gamification.State
	Catalog    *catalog.Catalog
	Identifier Identifier
	Archiver   archive.Archiver
	Logger     *logger.Logger
}

// Core is the single application state shared by every screen. All methods
// are safe for concurrent use.
type Core struct {
	mu sync.Mutex

	nav        *navigation.Stack
	game       *gamification.State
	catalog    *catalog.Catalog
	identifier Identifier
	archiver   archive.Archiver
	log        *logger.Logger

	captured    *recognition.Image
	captureSeq  uint64
	selected    *model.Landmark
	failure     error
	identifying bool
	explore     catalog.Query
}

func New(deps Deps) *Core {
	if deps.Archiver == nil {
		deps.Archiver = archive.Nop{}
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNop()
	}
	return &Core{
		nav:        navigation.NewStack(navigation.ScreenScan),
		game:       deps.Game,
		catalog:    deps.Catalog,
		identifier: deps.Identifier,
		archiver:   deps.Archiver,
		log:        deps.Logger,
		explore:    catalog.Query{Category: catalog.CategoryAll, Sort: catalog.SortNameAsc, Page: 1},
	}
}

// Navigate pushes screen. Forward navigation is blocked while a scan
// failure is pending, and the results screen needs a selected landmark.
func (c *Core) Navigate(screen navigation.Screen) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failure != nil {
		return ErrFailurePending
	}
	if screen == navigation.ScreenResults && c.selected == nil {
		return ErrNothingSelected
	}
	return c.nav.Navigate(screen)
}

// GoBack pops the stack. With a failure pending it acts as Retry.
func (c *Core) GoBack() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failure = nil
	return c.nav.GoBack()
}

func (c *Core) CurrentScreen() navigation.Screen {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nav.Current()
}

func (c *Core) StartScan() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failure != nil {
		return ErrFailurePending
	}
	c.navigateLocked(navigation.ScreenCamera)
	return nil
}

// SubmitCapture replaces the captured image and moves to the loading screen.
func (c *Core) SubmitCapture(img recognition.Image) error {
	if img.Empty() {
		return recognition.ErrEmptyImage
	}
	if strings.TrimSpace(img.FileName) == "" {
		img.FileName = recognition.DefaultFileName
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failure != nil {
		return ErrFailurePending
	}
	c.setCaptureLocked(&img)
	c.navigateLocked(navigation.ScreenLoading)
	return nil
}

// Identify runs the pipeline on the captured image. On success the landmark
// is selected, the scan is rewarded and recorded, and the results screen is
// shown. On failure the loading screen stays current with the failure set.
func (c *Core) Identify(ctx context.Context, originSecure bool) (model.Landmark, error) {
	c.mu.Lock()
	if c.identifying {
		c.mu.Unlock()
		return model.Landmark{}, ErrIdentifyInProgress
	}
	if c.captured == nil {
		c.navigateLocked(navigation.ScreenScan)
		c.mu.Unlock()
		return model.Landmark{}, ErrNoCapture
	}
	img := *c.captured
	seq := c.captureSeq
	c.identifying = true
	c.failure = nil
	c.mu.Unlock()

	lm, err := c.identifier.Identify(ctx, recognition.Request{Image: img, OriginSecure: originSecure})
	var imageURL string
	if err == nil {
		url, archiveErr := c.archiver.Archive(ctx, img)
		if archiveErr != nil {
			c.log.Warn("archive capture failed", "landmark_id", lm.ID, "err", archiveErr)
		}
		imageURL = url
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.identifying = false
	if seq != c.captureSeq {
		c.log.Info("dropping identification result for discarded capture", "landmark_id", lm.ID)
		return model.Landmark{}, ErrCaptureDiscarded
	}
	if err != nil {
		c.failure = err
		return model.Landmark{}, err
	}

	selected := lm.Clone()
	c.selected = &selected
	if err := c.game.AddPoints(ctx, c.game.Rules().PointsPerScan); err != nil {
		c.log.Error("award scan points failed", "err", err)
	}
	c.game.AddScanToHistory(ctx, lm.ID, imageURL)
	c.navigateLocked(navigation.ScreenResults)
	return lm.Clone(), nil
}

// Retry dismisses the failure and returns to the previous screen.
func (c *Core) Retry() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failure = nil
	c.nav.GoBack()
}

// Cancel dismisses the failure, discards the capture and starts over.
func (c *Core) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failure = nil
	c.setCaptureLocked(nil)
	c.navigateLocked(navigation.ScreenScan)
}

func (c *Core) ScanAgain() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failure != nil {
		return ErrFailurePending
	}
	c.setCaptureLocked(nil)
	c.navigateLocked(navigation.ScreenScan)
	return nil
}

// OpenLandmark shows a catalog landmark on the results screen without a
// capture.
func (c *Core) OpenLandmark(id string) (model.Landmark, error) {
	lm, ok := c.catalog.ByID(id)
	if !ok {
		return model.Landmark{}, ErrUnknownLandmark
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failure != nil {
		return model.Landmark{}, ErrFailurePending
	}
	c.selected = &lm
	c.setCaptureLocked(nil)
	c.navigateLocked(navigation.ScreenResults)
	return lm.Clone(), nil
}

func (c *Core) DismissBadge() {
	c.game.ClearLastEarnedBadge()
}

// SetLanguage switches the UI language. The explore category filter is
// localized, so it resets to all categories.
func (c *Core) SetLanguage(ctx context.Context, lang model.Language) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.game.SetLanguage(ctx, lang); err != nil {
		return err
	}
	c.explore.Category = catalog.CategoryAll
	c.explore.Page = 1
	return nil
}

func (c *Core) Language() model.Language {
	return c.game.Language()
}

// Explore runs q in the current language and remembers it for the explore
// view.
func (c *Core) Explore(q catalog.Query) catalog.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	q.Lang = c.game.Language()
	if strings.TrimSpace(q.Category) == "" {
		q.Category = catalog.CategoryAll
	}
	if q.Sort != catalog.SortNameDesc {
		q.Sort = catalog.SortNameAsc
	}
	if q.Page < 1 {
		q.Page = 1
	}
	c.explore = q
	return c.catalog.Query(q)
}

func (c *Core) Failure() (Failure, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failure == nil {
		return Failure{}, false
	}
	return FailureFor(c.failure, c.game.Language()), true
}

func (c *Core) SelectedLandmark() (model.Landmark, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected == nil {
		return model.Landmark{}, false
	}
	return c.selected.Clone(), true
}

func (c *Core) HasCapture() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.captured != nil
}

func (c *Core) Game() gamification.Snapshot {
	return c.game.Snapshot()
}

func (c *Core) setCaptureLocked(img *recognition.Image) {
	c.captured = img
	c.captureSeq++
}

func (c *Core) navigateLocked(screen navigation.Screen) {
	if err := c.nav.Navigate(screen); err != nil {
		c.log.Error("navigate failed", "screen", screen, "err", err)
	}
}
