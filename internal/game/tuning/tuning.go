// Package tuning holds the numeric knobs of a game: turn limits, score
// weights, starting resources. Values ship with sensible defaults and
// can be overridden from a YAML file.
package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	TurnLimit     int    `yaml:"turn_limit"`
	StartingMoney int    `yaml:"starting_money"`
	StartingSpace string `yaml:"starting_space"`

	// TryAgainTimePenalty is the days charged for reverting a space.
	TryAgainTimePenalty int `yaml:"try_again_time_penalty"`

	Score ScoreWeights `yaml:"score"`

	// ScopeThreshold splits projects into small and large scope for
	// conditional effects, in dollars.
	ScopeThreshold int `yaml:"scope_threshold"`
}

// ScoreWeights are the per-unit contributions to the final score.
type ScoreWeights struct {
	LoanPenalty int `yaml:"loan_penalty"`
	TimePenalty int `yaml:"time_penalty"`
}

// Default returns the standard game tuning.
func Default() Tuning {
	return Tuning{
		TurnLimit:           50,
		StartingMoney:       0,
		StartingSpace:       "OWNER-SCOPE-INITIATION",
		TryAgainTimePenalty: 1,
		Score: ScoreWeights{
			LoanPenalty: 5000,
			TimePenalty: 1000,
		},
		ScopeThreshold: 4_000_000,
	}
}

// Load reads a tuning file, layering its values over the defaults.
// Zero-valued fields in the file keep their default.
func Load(path string) (Tuning, error) {
	t := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	var overrides Tuning
	if err := yaml.Unmarshal(raw, &overrides); err != nil {
		return t, fmt.Errorf("tuning file: %w", err)
	}
	t.merge(overrides)
	return t, nil
}

func (t *Tuning) merge(o Tuning) {
	if o.TurnLimit > 0 {
		t.TurnLimit = o.TurnLimit
	}
	if o.StartingMoney > 0 {
		t.StartingMoney = o.StartingMoney
	}
	if o.StartingSpace != "" {
		t.StartingSpace = o.StartingSpace
	}
	if o.TryAgainTimePenalty > 0 {
		t.TryAgainTimePenalty = o.TryAgainTimePenalty
	}
	if o.Score.LoanPenalty > 0 {
		t.Score.LoanPenalty = o.Score.LoanPenalty
	}
	if o.Score.TimePenalty > 0 {
		t.Score.TimePenalty = o.Score.TimePenalty
	}
	if o.ScopeThreshold > 0 {
		t.ScopeThreshold = o.ScopeThreshold
	}
}
