package gamification

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/RakanBA/AYAN/internal/logger"
	"github.com/RakanBA/AYAN/internal/metrics"
	"github.com/RakanBA/AYAN/internal/model"
	"github.com/RakanBA/AYAN/internal/store"
)

const (
	KeyPoints   = "ayan_points"
	KeyBadges   = "ayan_badges"
	KeyHistory  = "ayan_scan_history"
	KeyLanguage = "ayan_language"
)

var (
	ErrInvalidAmount   = errors.New("points amount must be positive")
	ErrInvalidLanguage = errors.New("unsupported language")
	ErrInvalidBadge    = errors.New("badge id is required")
)

// Snapshot is a copy of the gamification state.
type Snapshot struct {
	Points          int                     `json:"points"`
	EarnedBadges    []model.Badge           `json:"earned_badges"`
	ScanHistory     []model.ScanHistoryItem `json:"scan_history"`
	Language        model.Language          `json:"language"`
	LastEarnedBadge *model.Badge            `json:"last_earned_badge,omitempty"`
}

// State owns points, badges, scan history and the language preference. Each
// mutation writes its record through to the store; write failures are logged
// and the in-memory value stays authoritative.
type State struct {
	mu    sync.Mutex
	store store.Store
	log   *logger.Logger
	rules Rules
	now   func() time.Time

	points     int
	badges     []model.Badge
	history    []model.ScanHistoryItem
	language   model.Language
	lastEarned *model.Badge
}

func New(st store.Store, rules Rules, log *logger.Logger) *State {
	if log == nil {
		log = logger.NewNop()
	}
	return &State{
		store:    st,
		log:      log,
		rules:    rules,
		now:      time.Now,
		language: model.LanguageEN,
		badges:   []model.Badge{},
		history:  []model.ScanHistoryItem{},
	}
}

func (s *State) Rules() Rules {
	return s.rules
}

// Load reads the persisted records. A missing or unreadable record leaves
// that field at its default.
func (s *State) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var points int
	if s.load(ctx, KeyPoints, &points) && points >= 0 {
		s.points = points
	}

	var badges []model.Badge
	if s.load(ctx, KeyBadges, &badges) {
		s.badges = dedupeBadges(badges)
	}

	var history []model.ScanHistoryItem
	if s.load(ctx, KeyHistory, &history) {
		s.history = history
	}

	raw, ok, err := s.store.Get(ctx, KeyLanguage)
	switch {
	case err != nil:
		s.log.Warn("load record failed", "key", KeyLanguage, "err", err)
	case ok:
		if lang := model.Language(strings.TrimSpace(raw)); lang.Valid() {
			s.language = lang
		} else {
			s.log.Warn("ignoring stored language", "key", KeyLanguage, "value", raw)
		}
	}
}

func (s *State) load(ctx context.Context, key string, dst any) bool {
	ok, err := store.GetJSON(ctx, s.store, key, dst)
	if err != nil {
		s.log.Warn("load record failed", "key", key, "err", err)
		return false
	}
	return ok
}

// AddPoints adds amount and earns every milestone the new total reaches.
func (s *State) AddPoints(ctx context.Context, amount int) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.points += amount
	s.persistJSON(ctx, KeyPoints, s.points)

	for _, m := range s.rules.Milestones {
		if s.points >= m.Points {
			s.earnLocked(ctx, m.ID, m.Name)
		}
	}
	return nil
}

// EarnBadge records a badge once. Earning a known id again changes nothing.
func (s *State) EarnBadge(ctx context.Context, id string, name model.Text) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidBadge
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.earnLocked(ctx, id, name)
	return nil
}

func (s *State) earnLocked(ctx context.Context, id string, name model.Text) {
	if s.hasBadgeLocked(id) {
		return
	}
	badge := model.Badge{ID: id, Name: name}
	s.badges = append(s.badges, badge)
	s.persistJSON(ctx, KeyBadges, s.badges)
	s.lastEarned = &badge
	s.log.Info("badge earned", "badge_id", id, "points", s.points)
}

func (s *State) hasBadgeLocked(id string) bool {
	for _, b := range s.badges {
		if b.ID == id {
			return true
		}
	}
	return false
}

func (s *State) ClearLastEarnedBadge() {
	s.mu.Lock()
	s.lastEarned = nil
	s.mu.Unlock()
}

func (s *State) LastEarnedBadge() (model.Badge, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastEarned == nil {
		return model.Badge{}, false
	}
	return *s.lastEarned, true
}

// AddScanToHistory prepends a scan of landmarkID dated now.
func (s *State) AddScanToHistory(ctx context.Context, landmarkID, imageURL string) model.ScanHistoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := model.ScanHistoryItem{
		LandmarkID: landmarkID,
		Date:       s.now().UTC(),
		ImageURL:   imageURL,
	}
	history := make([]model.ScanHistoryItem, 0, len(s.history)+1)
	history = append(history, item)
	history = append(history, s.history...)
	s.history = history
	s.persistJSON(ctx, KeyHistory, s.history)
	return item
}

func (s *State) SetLanguage(ctx context.Context, lang model.Language) error {
	if !lang.Valid() {
		return ErrInvalidLanguage
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.language = lang
	if err := s.store.Set(ctx, KeyLanguage, string(lang)); err != nil {
		s.persistFailed(KeyLanguage, err)
	}
	return nil
}

func (s *State) Language() model.Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.language
}

func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		Points:       s.points,
		EarnedBadges: append([]model.Badge{}, s.badges...),
		ScanHistory:  append([]model.ScanHistoryItem{}, s.history...),
		Language:     s.language,
	}
	if s.lastEarned != nil {
		b := *s.lastEarned
		snap.LastEarnedBadge = &b
	}
	return snap
}

func (s *State) persistJSON(ctx context.Context, key string, value any) {
	if err := store.SetJSON(ctx, s.store, key, value); err != nil {
		s.persistFailed(key, err)
	}
}

func (s *State) persistFailed(key string, err error) {
	metrics.RecordPersistenceFailure(key)
	s.log.Error("persist record failed", "key", key, "err", err)
}

func dedupeBadges(in []model.Badge) []model.Badge {
	out := make([]model.Badge, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, b := range in {
		if b.ID == "" {
			continue
		}
		if _, ok := seen[b.ID]; ok {
			continue
		}
		seen[b.ID] = struct{}{}
		out = append(out, b)
	}
	return out
}
