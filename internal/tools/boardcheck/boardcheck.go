// Package boardcheck validates a board data directory: every movement
// rule, effect row, and dice table must reference spaces and cards that
// exist.
package boardcheck

import (
	"flag"
	"fmt"
	"io"

	"github.com/louisbranch/groundbreak/internal/game/data"
	"github.com/louisbranch/groundbreak/internal/game/domain"
	"github.com/louisbranch/groundbreak/internal/game/tuning"
	platformcmd "github.com/louisbranch/groundbreak/internal/platform/cmd"
)

// Config holds boardcheck command configuration.
type Config struct {
	DataDir    string `env:"GROUNDBREAK_DATA_DIR" envDefault:"data"`
	TuningPath string `env:"GROUNDBREAK_TUNING_PATH"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "directory holding the board CSV files")
	fs.StringVar(&cfg.TuningPath, "tuning", cfg.TuningPath, "YAML tuning overrides (empty uses defaults)")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run loads the board and reports referential problems. A non-nil error
// means the board is not playable.
func Run(cfg Config, out io.Writer) error {
	t := tuning.Default()
	if cfg.TuningPath != "" {
		var err error
		t, err = tuning.Load(cfg.TuningPath)
		if err != nil {
			return fmt.Errorf("load tuning: %w", err)
		}
	}

	provider, err := data.LoadDir(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("load board data: %w", err)
	}

	problems := Check(provider, t)
	for _, problem := range problems {
		fmt.Fprintln(out, problem)
	}
	if len(problems) > 0 {
		return fmt.Errorf("%d problems found", len(problems))
	}

	fmt.Fprintf(out, "board ok: %d spaces\n", len(provider.Spaces()))
	return nil
}

// Check returns a human-readable problem list for the loaded board.
func Check(provider *data.Memory, t tuning.Tuning) []string {
	var problems []string

	spaces := provider.Spaces()
	known := make(map[string]bool, len(spaces))
	hasEnding := false
	for _, space := range spaces {
		known[space.Name] = true
		if space.IsEndingSpace {
			hasEnding = true
		}
	}

	if !known[t.StartingSpace] {
		problems = append(problems, fmt.Sprintf("starting space %s does not exist", t.StartingSpace))
	}
	if !hasEnding {
		problems = append(problems, "board has no ending space")
	}

	for _, space := range spaces {
		for _, visit := range []domain.VisitType{domain.VisitFirst, domain.VisitSubsequent} {
			rule, err := provider.MovementRule(space.Name, visit)
			if err != nil {
				continue
			}
			for _, destination := range rule.Destinations {
				if !known[destination] {
					problems = append(problems, fmt.Sprintf("space %s moves to unknown space %s", space.Name, destination))
				}
			}
			if rule.MovementType == domain.MovementDice {
				for face := 1; face <= 6; face++ {
					destination, ok := provider.DiceDestination(space.Name, visit, face)
					if !ok {
						problems = append(problems, fmt.Sprintf("space %s has no destination for face %d", space.Name, face))
						continue
					}
					if !known[destination] {
						problems = append(problems, fmt.Sprintf("space %s face %d leads to unknown space %s", space.Name, face, destination))
					}
				}
			}
		}
	}

	return problems
}
