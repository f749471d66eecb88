package gamification

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/RakanBA/AYAN/internal/model"
)

//go:embed milestones.yaml
var milestonesRawYAML []byte

// Milestone unlocks a badge once the point total reaches Points.
type Milestone struct {
	ID     string     `yaml:"id"`
	Name   model.Text `yaml:"name"`
	Points int        `yaml:"points"`
}

type Rules struct {
	PointsPerScan int         `yaml:"points_per_scan"`
	Milestones    []Milestone `yaml:"milestones"`
}

// DefaultRules returns the bundled milestone configuration.
func DefaultRules() Rules {
	rules, err := ParseRules(milestonesRawYAML)
	if err != nil {
		panic(fmt.Sprintf("bundled milestones.yaml: %v", err))
	}
	return rules
}

// ParseRules reads a milestone configuration. Milestones are ordered by
// threshold; ids must be unique.
func ParseRules(raw []byte) (Rules, error) {
	var rules Rules
	if err := yaml.Unmarshal(raw, &rules); err != nil {
		return Rules{}, err
	}
	if rules.PointsPerScan <= 0 {
		return Rules{}, fmt.Errorf("points_per_scan must be positive, got %d", rules.PointsPerScan)
	}
	seen := make(map[string]struct{}, len(rules.Milestones))
	for i := range rules.Milestones {
		m := &rules.Milestones[i]
		m.ID = strings.TrimSpace(m.ID)
		if m.ID == "" {
			return Rules{}, fmt.Errorf("milestone %d: id is required", i)
		}
		if _, dup := seen[m.ID]; dup {
			return Rules{}, fmt.Errorf("milestone %s: duplicate id", m.ID)
		}
		if m.Points <= 0 {
			return Rules{}, fmt.Errorf("milestone %s: points must be positive", m.ID)
		}
		seen[m.ID] = struct{}{}
	}
	sort.SliceStable(rules.Milestones, func(i, j int) bool {
		return rules.Milestones[i].Points < rules.Milestones[j].Points
	})
	return rules, nil
}

func (r Rules) Milestone(id string) (Milestone, bool) {
	for _, m := range r.Milestones {
		if m.ID == id {
			return m, true
		}
	}
	return Milestone{}, false
}
