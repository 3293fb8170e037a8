package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/louisbranch/groundbreak/internal/game/domain"
)

// CSV file names within a content directory. The shapes follow the
// original CLEAN_FILES layout the game data pipeline produces.
const (
	spacesFile       = "SPACES.csv"
	movementFile     = "MOVEMENT.csv"
	diceOutcomesFile = "DICE_OUTCOMES.csv"
	spaceEffectsFile = "SPACE_EFFECTS.csv"
	diceEffectsFile  = "DICE_EFFECTS.csv"
	cardsFile        = "CARDS_EXPANDED.csv"
)

// LoadDir populates a Memory provider from a directory of content CSVs.
// Missing optional files (dice tables, effects) are skipped; SPACES.csv
// and MOVEMENT.csv are required.
func LoadDir(dir string) (*Memory, error) {
	provider := NewMemory()

	if err := loadCSV(filepath.Join(dir, spacesFile), provider.addSpaceRecord); err != nil {
		return nil, fmt.Errorf("load spaces: %w", err)
	}
	if err := loadCSV(filepath.Join(dir, movementFile), provider.addMovementRecord); err != nil {
		return nil, fmt.Errorf("load movement: %w", err)
	}
	for file, add := range map[string]func(map[string]string) error{
		diceOutcomesFile: provider.addDiceOutcomeRecord,
		spaceEffectsFile: provider.addSpaceEffectRecord,
		diceEffectsFile:  provider.addDiceEffectRecord,
		cardsFile:        provider.addCardRecord,
	} {
		err := loadCSV(filepath.Join(dir, file), add)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("load %s: %w", file, err)
		}
	}

	return provider, nil
}

// loadCSV streams a headered CSV file, passing each row as a
// column-name keyed map.
func loadCSV(path string, add func(map[string]string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		record := make(map[string]string, len(header))
		for i, column := range header {
			if i < len(row) {
				record[column] = strings.TrimSpace(row[i])
			}
		}
		if err := add(record); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
}

func (m *Memory) addSpaceRecord(record map[string]string) error {
	name := record["space_name"]
	if name == "" {
		return fmt.Errorf("space_name is required")
	}
	space := domain.SpaceConfig{
		Name:            name,
		Phase:           record["phase"],
		IsStartingSpace: parseBool(record["is_starting_space"]),
		IsEndingSpace:   parseBool(record["is_ending_space"]),
		CanNegotiate:    parseBool(record["can_negotiate"]),
	}
	if categories := record["action_categories"]; categories != "" {
		for _, category := range strings.Split(categories, "|") {
			if category = strings.TrimSpace(category); category != "" {
				space.ActionCategories = append(space.ActionCategories, category)
			}
		}
	}
	m.AddSpace(space)
	return nil
}

func (m *Memory) addMovementRecord(record map[string]string) error {
	rule := domain.MovementRule{
		SpaceName:    record["space_name"],
		VisitType:    parseVisitType(record["visit_type"]),
		MovementType: domain.MovementType(strings.ToLower(record["movement_type"])),
	}
	if rule.SpaceName == "" {
		return fmt.Errorf("space_name is required")
	}
	for i := 1; i <= 5; i++ {
		if destination := record[fmt.Sprintf("destination_%d", i)]; destination != "" {
			rule.Destinations = append(rule.Destinations, destination)
		}
	}
	m.AddMovement(rule)
	return nil
}

func (m *Memory) addDiceOutcomeRecord(record map[string]string) error {
	spaceName := record["space_name"]
	if spaceName == "" {
		return fmt.Errorf("space_name is required")
	}
	visit := parseVisitType(record["visit_type"])
	for face := 1; face <= 6; face++ {
		destination := record[fmt.Sprintf("roll_%d", face)]
		m.AddDiceDestination(spaceName, visit, face, destination)
	}
	return nil
}

func (m *Memory) addSpaceEffectRecord(record map[string]string) error {
	row, err := parseEffectRow(record)
	if err != nil {
		return err
	}
	m.AddSpaceEffect(row)
	return nil
}

func (m *Memory) addDiceEffectRecord(record map[string]string) error {
	row, err := parseEffectRow(record)
	if err != nil {
		return err
	}
	row.Trigger = domain.TriggerDiceRoll
	m.AddDiceEffect(row)
	return nil
}

func parseEffectRow(record map[string]string) (domain.SpaceEffectRow, error) {
	row := domain.SpaceEffectRow{
		SpaceName:   record["space_name"],
		VisitType:   parseVisitType(record["visit_type"]),
		EffectType:  strings.ToLower(record["effect_type"]),
		Action:      strings.ToLower(record["effect_action"]),
		Condition:   record["condition"],
		Description: record["description"],
	}
	if row.SpaceName == "" {
		return row, fmt.Errorf("space_name is required")
	}
	switch strings.ToLower(record["trigger_type"]) {
	case "manual":
		row.Trigger = domain.TriggerManual
	default:
		row.Trigger = domain.TriggerAuto
	}
	if value := record["effect_value"]; value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return row, fmt.Errorf("effect_value %q: %w", value, err)
		}
		row.Value = parsed
	}
	return row, nil
}

func (m *Memory) addCardRecord(record map[string]string) error {
	cardType, err := domain.ParseCardType(record["card_type"])
	if err != nil {
		return err
	}
	card := domain.Card{
		ID:               record["card_id"],
		Name:             record["card_name"],
		Type:             cardType,
		Description:      record["description"],
		PhaseRestriction: defaultString(record["phase_restriction"], domain.PhaseAny),
		Duration:         defaultString(record["duration"], "Immediate"),
		DurationCount:    parseInt(record["duration_count"]),
		LoanAmount:       parseInt(record["loan_amount"]),
		LoanRate:         parseFloat(record["loan_rate"]),
		InvestmentAmount: parseInt(record["investment_amount"]),
		WorkCost:         parseInt(record["work_cost"]),
		MoneyEffect:      parseInt(record["money_effect"]),
		TickModifier:     parseInt(record["tick_modifier"]),
		DrawCards:        record["draw_cards"],
		DiscardCards:     record["discard_cards"],
		Target:           defaultString(record["target"], "Self"),
	}
	if card.ID == "" {
		return fmt.Errorf("card_id is required")
	}
	m.AddCard(card)
	return nil
}

func parseVisitType(value string) domain.VisitType {
	if strings.EqualFold(value, string(domain.VisitSubsequent)) {
		return domain.VisitSubsequent
	}
	return domain.VisitFirst
}

func parseBool(value string) bool {
	switch strings.ToLower(value) {
	case "yes", "true", "1":
		return true
	}
	return false
}

func parseInt(value string) int {
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return parsed
}

func parseFloat(value string) float64 {
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return parsed
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
