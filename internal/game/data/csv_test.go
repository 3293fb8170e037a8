package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/louisbranch/groundbreak/internal/game/domain"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func loadTestDir(t *testing.T) *Memory {
	t.Helper()
	dir := t.TempDir()

	writeFile(t, dir, "SPACES.csv",
		"space_name,phase,is_starting_space,is_ending_space,can_negotiate,action_categories\n"+
			"START,SETUP,Yes,No,No,\n"+
			"OWNER-FUND-INITIATION,FUNDING,No,No,Yes,funding\n"+
			"FINISH,CONSTRUCTION,No,Yes,No,\n")
	writeFile(t, dir, "MOVEMENT.csv",
		"space_name,visit_type,movement_type,destination_1,destination_2\n"+
			"START,First,fixed,OWNER-FUND-INITIATION,\n"+
			"OWNER-FUND-INITIATION,First,dice,,\n"+
			"FINISH,First,none,,\n")
	writeFile(t, dir, "DICE_OUTCOMES.csv",
		"space_name,visit_type,roll_1,roll_2,roll_3,roll_4,roll_5,roll_6\n"+
			"OWNER-FUND-INITIATION,First,FINISH,FINISH,START,START,,FINISH\n")
	writeFile(t, dir, "SPACE_EFFECTS.csv",
		"space_name,visit_type,trigger_type,effect_type,effect_action,effect_value,condition,description\n"+
			"OWNER-FUND-INITIATION,First,auto,time,spend,2,,Filing takes 2 days\n"+
			"OWNER-FUND-INITIATION,First,manual,cards,draw_e,1,,Consult an expeditor\n")
	writeFile(t, dir, "DICE_EFFECTS.csv",
		"space_name,visit_type,effect_type,effect_action,effect_value,condition,description\n"+
			"OWNER-FUND-INITIATION,First,cards,draw_l,1,dice_roll_1,Draw L card on roll of 1\n")
	writeFile(t, dir, "CARDS_EXPANDED.csv",
		"card_id,card_name,card_type,description,phase_restriction,duration,duration_count,loan_amount,loan_rate,investment_amount,work_cost,money_effect,tick_modifier,draw_cards,discard_cards,target\n"+
			"B001,Small Loan,B,A modest bank loan,Any,Immediate,0,2000,5,0,0,0,0,,,Self\n"+
			"W001,Foundation Work,W,Pour the foundation,CONSTRUCTION,Immediate,0,0,0,0,300000,0,0,,,Self\n")

	provider, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("load dir: %v", err)
	}
	return provider
}

func TestLoadDirSpaces(t *testing.T) {
	provider := loadTestDir(t)

	space, err := provider.SpaceByName("OWNER-FUND-INITIATION")
	if err != nil {
		t.Fatalf("space: %v", err)
	}
	if !space.CanNegotiate {
		t.Fatal("expected negotiable space")
	}
	if space.Phase != "FUNDING" {
		t.Fatalf("phase = %s, want FUNDING", space.Phase)
	}
	if len(space.ActionCategories) != 1 || space.ActionCategories[0] != "funding" {
		t.Fatalf("action categories = %v", space.ActionCategories)
	}

	finish, err := provider.SpaceByName("FINISH")
	if err != nil {
		t.Fatalf("space: %v", err)
	}
	if !finish.IsEndingSpace {
		t.Fatal("expected ending space")
	}
}

func TestLoadDirMovementAndDice(t *testing.T) {
	provider := loadTestDir(t)

	rule, err := provider.MovementRule("START", domain.VisitFirst)
	if err != nil {
		t.Fatalf("movement: %v", err)
	}
	if rule.MovementType != domain.MovementFixed {
		t.Fatalf("movement type = %s, want fixed", rule.MovementType)
	}
	if len(rule.Destinations) != 1 || rule.Destinations[0] != "OWNER-FUND-INITIATION" {
		t.Fatalf("destinations = %v", rule.Destinations)
	}

	// Subsequent visits fall back to the First row when unspecified.
	if _, err := provider.MovementRule("START", domain.VisitSubsequent); err != nil {
		t.Fatalf("subsequent fallback: %v", err)
	}

	destination, ok := provider.DiceDestination("OWNER-FUND-INITIATION", domain.VisitFirst, 1)
	if !ok || destination != "FINISH" {
		t.Fatalf("face 1 = %q ok=%v", destination, ok)
	}
	if _, ok := provider.DiceDestination("OWNER-FUND-INITIATION", domain.VisitFirst, 5); ok {
		t.Fatal("blank face should not resolve")
	}
}

func TestLoadDirEffects(t *testing.T) {
	provider := loadTestDir(t)

	rows := provider.SpaceEffects("OWNER-FUND-INITIATION", domain.VisitFirst)
	if len(rows) != 2 {
		t.Fatalf("space effects = %d, want 2", len(rows))
	}
	if rows[0].Trigger != domain.TriggerAuto || rows[1].Trigger != domain.TriggerManual {
		t.Fatalf("triggers = %s, %s", rows[0].Trigger, rows[1].Trigger)
	}
	if rows[0].Value != 2 {
		t.Fatalf("value = %d, want 2", rows[0].Value)
	}

	diceRows := provider.DiceEffects("OWNER-FUND-INITIATION", domain.VisitFirst)
	if len(diceRows) != 1 {
		t.Fatalf("dice effects = %d, want 1", len(diceRows))
	}
	if diceRows[0].Trigger != domain.TriggerDiceRoll {
		t.Fatalf("trigger = %s, want dice_roll", diceRows[0].Trigger)
	}
	if diceRows[0].Condition != "dice_roll_1" {
		t.Fatalf("condition = %s", diceRows[0].Condition)
	}
}

func TestLoadDirCards(t *testing.T) {
	provider := loadTestDir(t)

	card, err := provider.CardByID("B001")
	if err != nil {
		t.Fatalf("card: %v", err)
	}
	if card.Type != domain.CardTypeBank || card.LoanAmount != 2000 || card.LoanRate != 5 {
		t.Fatalf("card = %+v", card)
	}

	work := provider.CardsByType(domain.CardTypeWork)
	if len(work) != 1 || work[0].ID != "W001" {
		t.Fatalf("work cards = %+v", work)
	}
	if work[0].Cost() != 300000 {
		t.Fatalf("work cost = %d", work[0].Cost())
	}
}

func TestLoadDirMissingRequiredFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "SPACES.csv", "space_name,phase\nSTART,SETUP\n")

	if _, err := LoadDir(dir); err == nil {
		t.Fatal("expected error when MOVEMENT.csv is missing")
	}
}
