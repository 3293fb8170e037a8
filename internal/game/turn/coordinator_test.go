package turn

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/louisbranch/groundbreak/internal/game/cards"
	"github.com/louisbranch/groundbreak/internal/game/choice"
	"github.com/louisbranch/groundbreak/internal/game/data"
	"github.com/louisbranch/groundbreak/internal/game/domain"
	"github.com/louisbranch/groundbreak/internal/game/effect"
	"github.com/louisbranch/groundbreak/internal/game/ledger"
	"github.com/louisbranch/groundbreak/internal/game/rules"
	"github.com/louisbranch/groundbreak/internal/game/state"
	"github.com/louisbranch/groundbreak/internal/game/tuning"
	perrors "github.com/louisbranch/groundbreak/internal/platform/errors"
)

type fixture struct {
	coordinator *Coordinator
	engine      *effect.Engine
	state       *state.Store
	broker      *choice.Broker
	cards       *cards.Store
	ledger      *ledger.Ledger
	provider    *data.Memory
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	provider := data.NewMemory()
	provider.AddSpace(domain.SpaceConfig{Name: "START", Phase: "SETUP", IsStartingSpace: true})
	provider.AddSpace(domain.SpaceConfig{Name: "FUND", Phase: "FUNDING", CanNegotiate: true})
	provider.AddSpace(domain.SpaceConfig{Name: "MID", Phase: "CONSTRUCTION"})
	provider.AddSpace(domain.SpaceConfig{Name: "FINISH", Phase: "CONSTRUCTION", IsEndingSpace: true})

	provider.AddMovement(domain.MovementRule{
		SpaceName: "START", VisitType: domain.VisitFirst,
		MovementType: domain.MovementFixed, Destinations: []string{"FUND"},
	})
	provider.AddMovement(domain.MovementRule{
		SpaceName: "FUND", VisitType: domain.VisitFirst,
		MovementType: domain.MovementDice,
	})
	provider.AddMovement(domain.MovementRule{
		SpaceName: "MID", VisitType: domain.VisitFirst,
		MovementType: domain.MovementFixed, Destinations: []string{"FINISH"},
	})
	provider.AddMovement(domain.MovementRule{
		SpaceName: "FINISH", VisitType: domain.VisitFirst,
		MovementType: domain.MovementNone,
	})
	for face := 1; face <= 6; face++ {
		provider.AddDiceDestination("FUND", domain.VisitFirst, face, "MID")
	}

	// Entering FUND charges two days automatically; its one manual
	// action pays out a fee refund.
	provider.AddSpaceEffect(domain.SpaceEffectRow{
		SpaceName: "FUND", VisitType: domain.VisitFirst,
		Trigger: domain.TriggerAuto, EffectType: "time", Action: "spend", Value: 2,
		Description: "Filing time",
	})
	provider.AddSpaceEffect(domain.SpaceEffectRow{
		SpaceName: "FUND", VisitType: domain.VisitFirst,
		Trigger: domain.TriggerManual, EffectType: "money", Action: "add", Value: 100,
		Description: "Fee refund",
	})
	provider.AddDiceEffect(domain.SpaceEffectRow{
		SpaceName: "FUND", VisitType: domain.VisitFirst,
		Trigger: domain.TriggerDiceRoll, EffectType: "cards", Action: "draw_e", Value: 1,
		Condition: "always", Description: "Consult",
	})

	provider.AddCard(domain.Card{ID: "B001", Name: "Small Loan", Type: domain.CardTypeBank, LoanAmount: 2000, LoanRate: 5})
	provider.AddCard(domain.Card{ID: "E001", Name: "Expeditor", Type: domain.CardTypeExpeditor})
	provider.AddCard(domain.Card{ID: "W001", Name: "Framing", Type: domain.CardTypeWork, WorkCost: 2_000_000})

	st := state.NewStore(domain.GameState{
		Players: []domain.Player{
			{ID: "p1", Name: "Alice", Money: 1000, CurrentSpace: "START", VisitType: domain.VisitFirst},
			{ID: "p2", Name: "Bob", Money: 1000, CurrentSpace: "START", VisitType: domain.VisitFirst},
		},
		CurrentPlayerID:  "p1",
		Phase:            domain.PhasePlay,
		Turn:             1,
		CompletedActions: map[string]bool{},
	})

	l := ledger.New(st)
	oracle := rules.New(st, provider, tuning.Default())
	broker := choice.New(st)
	cardStore := cards.NewStore(st, provider, cards.WithRand(rand.New(rand.NewSource(1))))
	if err := cardStore.InitializeDecks(); err != nil {
		t.Fatal(err)
	}

	engine := effect.New(st, l, oracle, broker, provider)
	coordinator := New(st, provider, l, oracle, broker, cardStore, tuning.Default(),
		WithRand(rand.New(rand.NewSource(7))))
	engine.SetCardStore(cardStore)
	engine.SetTurnControl(coordinator)
	coordinator.SetEffectProcessor(engine)

	return &fixture{
		coordinator: coordinator,
		engine:      engine,
		state:       st,
		broker:      broker,
		cards:       cardStore,
		ledger:      l,
		provider:    provider,
	}
}

// enterFund moves the current player onto the negotiable dice space.
func (f *fixture) enterFund(t *testing.T) {
	t.Helper()
	if err := f.coordinator.MovePlayer("p1", "FUND"); err != nil {
		t.Fatalf("move to FUND: %v", err)
	}
}

func TestMovePlayerRunsAutoEffects(t *testing.T) {
	f := newFixture(t)
	f.enterFund(t)

	player, _ := f.state.Player("p1")
	if player.CurrentSpace != "FUND" {
		t.Fatalf("space = %s, want FUND", player.CurrentSpace)
	}
	if player.TimeSpent != 2 {
		t.Fatalf("time = %d, want 2 (auto entry effect)", player.TimeSpent)
	}
	if player.VisitType != domain.VisitFirst {
		t.Fatalf("visit = %s, want First", player.VisitType)
	}

	game := f.state.GameState()
	if game.RequiredActions != 1 || len(game.AvailableActionTypes) != 1 {
		t.Fatalf("actions = %d/%v", game.RequiredActions, game.AvailableActionTypes)
	}
	if _, ok := f.state.PlayerSnapshot("p1"); !ok {
		t.Fatal("space entry should capture a snapshot")
	}
}

func TestMovePlayerResolvesVisitType(t *testing.T) {
	f := newFixture(t)
	f.enterFund(t)
	if err := f.coordinator.MovePlayer("p1", "MID"); err != nil {
		t.Fatal(err)
	}
	if err := f.coordinator.MovePlayer("p1", "FUND"); err != nil {
		t.Fatal(err)
	}

	player, _ := f.state.Player("p1")
	if player.VisitType != domain.VisitSubsequent {
		t.Fatalf("visit = %s, want Subsequent", player.VisitType)
	}
}

func TestRollDice(t *testing.T) {
	f := newFixture(t)
	f.enterFund(t)

	feedback, err := f.coordinator.RollDice(context.Background(), "p1")
	if err != nil {
		t.Fatalf("roll: %v", err)
	}
	if feedback.DiceRoll < 1 || feedback.DiceRoll > 6 {
		t.Fatalf("roll = %d", feedback.DiceRoll)
	}
	if feedback.Destination != "MID" {
		t.Fatalf("destination = %s, want MID", feedback.Destination)
	}

	game := f.state.GameState()
	if !game.HasRolledDice || game.LastDiceRoll != feedback.DiceRoll {
		t.Fatalf("game = rolled=%v face=%d", game.HasRolledDice, game.LastDiceRoll)
	}
	if game.PendingDestination != "MID" {
		t.Fatalf("pending = %s", game.PendingDestination)
	}

	// The always-on dice effect drew an expeditor card.
	player, _ := f.state.Player("p1")
	if len(player.Hand) != 1 {
		t.Fatalf("hand = %v, want one drawn card", player.Hand)
	}
}

func TestRollDiceTwiceNeedsRerollGrant(t *testing.T) {
	f := newFixture(t)
	f.enterFund(t)

	if _, err := f.coordinator.RollDice(context.Background(), "p1"); err != nil {
		t.Fatal(err)
	}
	_, err := f.coordinator.RollDice(context.Background(), "p1")
	if !errors.Is(err, perrors.New(perrors.CodeTurnDiceAlreadyRolled, "")) {
		t.Fatalf("err = %v, want TURN_DICE_ALREADY_ROLLED", err)
	}

	if err := f.coordinator.SetTurnModifier("p1", domain.TurnControlGrantReroll, "card:E001"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.coordinator.RollDice(context.Background(), "p1"); err != nil {
		t.Fatalf("reroll: %v", err)
	}

	// The grant is one-shot.
	_, err = f.coordinator.RollDice(context.Background(), "p1")
	if !errors.Is(err, perrors.New(perrors.CodeTurnDiceAlreadyRolled, "")) {
		t.Fatalf("err = %v, want TURN_DICE_ALREADY_ROLLED after grant consumed", err)
	}
}

func TestRollDiceRerollGrantClearedInStore(t *testing.T) {
	f := newFixture(t)
	f.enterFund(t)

	if _, err := f.coordinator.RollDice(context.Background(), "p1"); err != nil {
		t.Fatal(err)
	}
	if err := f.coordinator.SetTurnModifier("p1", domain.TurnControlGrantReroll, "card:E001"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.coordinator.RollDice(context.Background(), "p1"); err != nil {
		t.Fatalf("reroll: %v", err)
	}

	player, _ := f.state.Player("p1")
	if player.TurnModifiers.CanReroll {
		t.Fatal("reroll grant should be consumed in the store")
	}
}

func TestRollDiceWrongPlayer(t *testing.T) {
	f := newFixture(t)
	_, err := f.coordinator.RollDice(context.Background(), "p2")
	if !errors.Is(err, perrors.New(perrors.CodeTurnNotPlayerTurn, "")) {
		t.Fatalf("err = %v, want TURN_NOT_PLAYER_TURN", err)
	}
}

func TestTriggerManualEffect(t *testing.T) {
	f := newFixture(t)
	f.enterFund(t)

	feedback, err := f.coordinator.TriggerManualEffect(context.Background(), "p1", "money")
	if err != nil {
		t.Fatalf("trigger: %v", err)
	}
	if !feedback.Success {
		t.Fatalf("feedback = %+v", feedback)
	}

	player, _ := f.state.Player("p1")
	if player.Money != 1100 {
		t.Fatalf("money = %d, want 1100", player.Money)
	}
	game := f.state.GameState()
	if !game.CompletedActions["money"] {
		t.Fatal("category should be completed")
	}

	_, err = f.coordinator.TriggerManualEffect(context.Background(), "p1", "money")
	if !errors.Is(err, perrors.New(perrors.CodeTurnActionCompleted, "")) {
		t.Fatalf("err = %v, want TURN_ACTION_ALREADY_COMPLETED", err)
	}
}

func TestTriggerManualEffectFailureLeavesCategoryOpen(t *testing.T) {
	f := newFixture(t)
	f.provider.AddSpace(domain.SpaceConfig{Name: "TOLL", Phase: "CONSTRUCTION"})
	f.provider.AddSpaceEffect(domain.SpaceEffectRow{
		SpaceName: "TOLL", VisitType: domain.VisitFirst,
		Trigger: domain.TriggerManual, EffectType: "money", Action: "spend", Value: 5000,
		Description: "Toll",
	})
	if err := f.coordinator.MovePlayer("p1", "TOLL"); err != nil {
		t.Fatal(err)
	}

	// p1 holds 1000, so the 5000 toll fails.
	feedback, err := f.coordinator.TriggerManualEffect(context.Background(), "p1", "money")
	if err != nil {
		t.Fatalf("trigger: %v", err)
	}
	if feedback.Success {
		t.Fatalf("feedback = %+v, want failed batch", feedback)
	}
	if f.state.GameState().CompletedActions["money"] {
		t.Fatal("failed action should not count as completed")
	}

	// The attempt can be repeated.
	if _, err := f.coordinator.TriggerManualEffect(context.Background(), "p1", "money"); err != nil {
		t.Fatalf("retry: %v", err)
	}
}

func TestEndTurnGating(t *testing.T) {
	f := newFixture(t)
	f.enterFund(t)

	// Required manual action not completed yet.
	err := f.coordinator.EndTurn(context.Background(), "p1")
	if !errors.Is(err, perrors.New(perrors.CodeTurnActionsPending, "")) {
		t.Fatalf("err = %v, want TURN_ACTIONS_PENDING", err)
	}

	if _, err := f.coordinator.TriggerManualEffect(context.Background(), "p1", "money"); err != nil {
		t.Fatal(err)
	}

	// Dice-type space requires a roll before ending.
	err = f.coordinator.EndTurn(context.Background(), "p1")
	if !errors.Is(err, perrors.New(perrors.CodeTurnDiceNotRolled, "")) {
		t.Fatalf("err = %v, want TURN_DICE_NOT_ROLLED", err)
	}

	if _, err := f.coordinator.RollDice(context.Background(), "p1"); err != nil {
		t.Fatal(err)
	}
	if err := f.coordinator.EndTurn(context.Background(), "p1"); err != nil {
		t.Fatalf("end turn: %v", err)
	}

	game := f.state.GameState()
	if game.CurrentPlayerID != "p2" {
		t.Fatalf("current = %s, want p2", game.CurrentPlayerID)
	}
	if game.Turn != 2 {
		t.Fatalf("turn = %d, want 2", game.Turn)
	}
	if game.HasRolledDice || game.HasMoved || game.LastDiceRoll != 0 || game.PendingDestination != "" {
		t.Fatalf("bookkeeping not reset: %+v", game)
	}

	// The pending movement committed on end turn.
	player, _ := f.state.Player("p1")
	if player.CurrentSpace != "MID" {
		t.Fatalf("space = %s, want MID", player.CurrentSpace)
	}
}

func TestEndTurnCommitsForcedMove(t *testing.T) {
	f := newFixture(t)

	// START's fixed rule has a single destination; ending the turn
	// moves there without a choice.
	if err := f.coordinator.EndTurn(context.Background(), "p1"); err != nil {
		t.Fatalf("end turn: %v", err)
	}
	player, _ := f.state.Player("p1")
	if player.CurrentSpace != "FUND" {
		t.Fatalf("space = %s, want FUND", player.CurrentSpace)
	}
}

func TestEndTurnOffersMovementChoice(t *testing.T) {
	f := newFixture(t)
	f.provider.AddSpace(domain.SpaceConfig{Name: "FORK", Phase: "CONSTRUCTION"})
	f.provider.AddMovement(domain.MovementRule{
		SpaceName: "FORK", VisitType: domain.VisitFirst,
		MovementType: domain.MovementChoice, Destinations: []string{"FUND", "MID"},
	})
	if err := f.coordinator.MovePlayer("p1", "FORK"); err != nil {
		t.Fatal(err)
	}
	// Open a fresh turn with p1 already seated on the fork.
	if err := f.coordinator.BeginTurn("p1"); err != nil {
		t.Fatal(err)
	}

	err := f.coordinator.EndTurn(context.Background(), "p1")
	if !errors.Is(err, perrors.New(perrors.CodeTurnChoiceOutstanding, "")) {
		t.Fatalf("err = %v, want TURN_CHOICE_OUTSTANDING", err)
	}

	choice, ok := f.broker.Active()
	if !ok || choice.Type != domain.ChoiceMovement || choice.PlayerID != "p1" {
		t.Fatalf("choice = %+v, want a movement choice for p1", choice)
	}
	if len(choice.Options) != 2 {
		t.Fatalf("options = %v, want FUND and MID", choice.Options)
	}

	// A second end turn attempt must not publish another choice.
	if err := f.coordinator.EndTurn(context.Background(), "p1"); !errors.Is(err, perrors.New(perrors.CodeTurnChoiceOutstanding, "")) {
		t.Fatalf("err = %v, want TURN_CHOICE_OUTSTANDING", err)
	}
	if active, _ := f.broker.Active(); active.ID != choice.ID {
		t.Fatal("retrying end turn should keep the original choice")
	}

	if !f.broker.Resolve(choice.ID, "MID") {
		t.Fatal("selection should resolve")
	}
	if err := f.coordinator.CommitDestination("p1", "MID"); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if err := f.coordinator.EndTurn(context.Background(), "p1"); err != nil {
		t.Fatalf("end turn: %v", err)
	}

	player, _ := f.state.Player("p1")
	if player.CurrentSpace != "MID" {
		t.Fatalf("space = %s, want MID", player.CurrentSpace)
	}
}

func TestCommitDestinationRejectsUnreachableSpace(t *testing.T) {
	f := newFixture(t)

	err := f.coordinator.CommitDestination("p1", "MID")
	if !errors.Is(err, perrors.New(perrors.CodeTurnMoveInvalid, "")) {
		t.Fatalf("err = %v, want TURN_MOVE_INVALID", err)
	}
	if f.state.GameState().PendingDestination != "" {
		t.Fatal("invalid destination must not be recorded")
	}
}

func TestEndTurnBlockedByChoice(t *testing.T) {
	f := newFixture(t)

	if _, err := f.broker.Create("p1", domain.ChoiceGeneral, "Pick", []domain.ChoiceOption{{ID: "a", Label: "A"}}); err != nil {
		t.Fatal(err)
	}
	err := f.coordinator.EndTurn(context.Background(), "p1")
	if !errors.Is(err, perrors.New(perrors.CodeTurnChoiceOutstanding, "")) {
		t.Fatalf("err = %v, want TURN_CHOICE_OUTSTANDING", err)
	}
}

func TestEndTurnBlockedByNegotiation(t *testing.T) {
	f := newFixture(t)
	f.enterFund(t)

	if _, err := f.coordinator.OpenNegotiation("p1", "p2"); err != nil {
		t.Fatal(err)
	}
	err := f.coordinator.EndTurn(context.Background(), "p1")
	if !errors.Is(err, perrors.New(perrors.CodeTurnNegotiationActive, "")) {
		t.Fatalf("err = %v, want TURN_NEGOTIATION_ACTIVE", err)
	}
}

func TestSkipTurnConsumedOnAdvance(t *testing.T) {
	f := newFixture(t)

	if err := f.coordinator.SetTurnModifier("p2", domain.TurnControlSkipTurn, "card:L001"); err != nil {
		t.Fatal(err)
	}
	if err := f.coordinator.EndTurn(context.Background(), "p1"); err != nil {
		t.Fatalf("end turn: %v", err)
	}

	// Bob's turn was skipped; play returns to Alice.
	game := f.state.GameState()
	if game.CurrentPlayerID != "p1" {
		t.Fatalf("current = %s, want p1", game.CurrentPlayerID)
	}
	player, _ := f.state.Player("p2")
	if player.TurnModifiers.SkipTurns != 0 {
		t.Fatalf("skip turns = %d, want 0", player.TurnModifiers.SkipTurns)
	}

	// The skip survives in the action log past the turn handover.
	found := false
	for _, entry := range game.ActionLog {
		if entry.PlayerID == "p2" && entry.Message == "Bob skips a turn" {
			found = true
		}
	}
	if !found {
		t.Fatalf("log = %+v, want a skip entry for Bob", game.ActionLog)
	}
}

func TestTryAgainUnavailableOffNegotiableSpace(t *testing.T) {
	f := newFixture(t)

	before, _ := f.state.Player("p1")
	feedback := f.coordinator.TryAgain("p1")
	if feedback.Success {
		t.Fatal("try again should fail on START")
	}
	if feedback.Message != "Try again not available on this space" {
		t.Fatalf("message = %q", feedback.Message)
	}

	after, _ := f.state.Player("p1")
	if after.Money != before.Money || after.TimeSpent != before.TimeSpent {
		t.Fatal("failed try again must not mutate the player")
	}
}

func TestTryAgainRevertsToSpaceEntry(t *testing.T) {
	f := newFixture(t)
	f.enterFund(t)

	if _, err := f.coordinator.RollDice(context.Background(), "p1"); err != nil {
		t.Fatal(err)
	}
	if err := f.ledger.SpendMoney("p1", 400, "construction"); err != nil {
		t.Fatal(err)
	}

	feedback := f.coordinator.TryAgain("p1")
	if !feedback.Success {
		t.Fatalf("feedback = %+v", feedback)
	}

	player, _ := f.state.Player("p1")
	if player.Money != 1000 {
		t.Fatalf("money = %d, want 1000 (reverted)", player.Money)
	}
	// Snapshot precedes the auto entry effect; only the penalty remains.
	if player.TimeSpent != 1 {
		t.Fatalf("time = %d, want 1 (penalty)", player.TimeSpent)
	}

	game := f.state.GameState()
	if game.HasRolledDice || game.LastDiceRoll != 0 || game.PendingDestination != "" {
		t.Fatalf("bookkeeping not reset: %+v", game)
	}
}

func TestTryAgainRequiresDiceRoll(t *testing.T) {
	f := newFixture(t)
	f.enterFund(t)

	if feedback := f.coordinator.TryAgain("p1"); feedback.Success {
		t.Fatal("try again before rolling should fail")
	}
}

func TestWinEndsGame(t *testing.T) {
	f := newFixture(t)

	if err := f.coordinator.MovePlayer("p1", "FINISH"); err != nil {
		t.Fatal(err)
	}
	if err := f.coordinator.EndTurn(context.Background(), "p1"); err != nil {
		t.Fatalf("end turn: %v", err)
	}

	game := f.state.GameState()
	if game.Phase != domain.PhaseEnd {
		t.Fatalf("phase = %s, want END", game.Phase)
	}
	if game.Winner != "p1" {
		t.Fatalf("winner = %s, want p1", game.Winner)
	}
}

func TestDrawAndApplyCard(t *testing.T) {
	f := newFixture(t)

	feedback, err := f.coordinator.DrawAndApplyCard(context.Background(), "p1", domain.CardTypeBank, "automatic-funding", "Funding")
	if err != nil {
		t.Fatalf("draw and apply: %v", err)
	}
	if !feedback.Success || feedback.DrawnCardID != "B001" {
		t.Fatalf("feedback = %+v", feedback)
	}

	// The draw and its loan are observable as one step.
	player, _ := f.state.Player("p1")
	if !player.HasCard("B001") {
		t.Fatal("card should be in hand")
	}
	if player.Money != 3000 {
		t.Fatalf("money = %d, want 3000 (loan credited)", player.Money)
	}
	if len(player.Loans) != 1 || player.Loans[0].Principal != 2000 {
		t.Fatalf("loans = %+v", player.Loans)
	}
}

func TestPlayCardAppliesEffectsAndDiscards(t *testing.T) {
	f := newFixture(t)
	f.provider.AddCard(domain.Card{ID: "E009", Name: "Grease the Wheels", Type: domain.CardTypeExpeditor, MoneyEffect: 250})

	player, _ := f.state.Player("p1")
	player.Hand = append(player.Hand, "E009")
	if err := f.state.UpdatePlayer(player); err != nil {
		t.Fatal(err)
	}

	feedback, err := f.coordinator.PlayCard(context.Background(), "p1", "E009")
	if err != nil {
		t.Fatalf("play card: %v", err)
	}
	if !feedback.Success {
		t.Fatalf("feedback = %+v", feedback)
	}

	player, _ = f.state.Player("p1")
	if player.Money != 1250 {
		t.Fatalf("money = %d, want 1250", player.Money)
	}
	if player.HasCard("E009") {
		t.Fatal("card should leave the hand after play")
	}
	game := f.state.GameState()
	discard := game.DiscardPiles[domain.CardTypeExpeditor]
	if len(discard) == 0 || discard[len(discard)-1] != "E009" {
		t.Fatalf("discard pile = %v, want E009 on top", discard)
	}
}

func TestPlayCardWithDurationStaysActive(t *testing.T) {
	f := newFixture(t)
	f.provider.AddCard(domain.Card{
		ID: "E011", Name: "Standing Permit", Type: domain.CardTypeExpeditor,
		Duration: "Turns", DurationCount: 2, MoneyEffect: 50,
	})

	player, _ := f.state.Player("p1")
	player.Hand = append(player.Hand, "E011")
	if err := f.state.UpdatePlayer(player); err != nil {
		t.Fatal(err)
	}

	if _, err := f.coordinator.PlayCard(context.Background(), "p1", "E011"); err != nil {
		t.Fatalf("play card: %v", err)
	}

	player, _ = f.state.Player("p1")
	if len(player.ActiveCards) != 1 {
		t.Fatalf("active cards = %+v, want one", player.ActiveCards)
	}
	if player.ActiveCards[0].CardID != "E011" || player.ActiveCards[0].ExpirationTurn != 3 {
		t.Fatalf("active card = %+v, want E011 expiring on turn 3", player.ActiveCards[0])
	}

	// Turn 2: still active. Turn 3: expired.
	if err := f.coordinator.EndTurn(context.Background(), "p1"); err != nil {
		t.Fatal(err)
	}
	player, _ = f.state.Player("p1")
	if len(player.ActiveCards) != 1 {
		t.Fatalf("active cards = %+v, want one on turn 2", player.ActiveCards)
	}

	if err := f.coordinator.EndTurn(context.Background(), "p2"); err != nil {
		t.Fatal(err)
	}
	player, _ = f.state.Player("p1")
	if len(player.ActiveCards) != 0 {
		t.Fatalf("active cards = %+v, want expired on turn 3", player.ActiveCards)
	}
}

func TestPlayCardImmediateLeavesNoActiveCard(t *testing.T) {
	f := newFixture(t)
	f.provider.AddCard(domain.Card{ID: "E012", Name: "Quick Favor", Type: domain.CardTypeExpeditor, MoneyEffect: 25})

	player, _ := f.state.Player("p1")
	player.Hand = append(player.Hand, "E012")
	if err := f.state.UpdatePlayer(player); err != nil {
		t.Fatal(err)
	}

	if _, err := f.coordinator.PlayCard(context.Background(), "p1", "E012"); err != nil {
		t.Fatal(err)
	}
	player, _ = f.state.Player("p1")
	if len(player.ActiveCards) != 0 {
		t.Fatalf("active cards = %+v, want none for an immediate card", player.ActiveCards)
	}
}

func TestPlayCardRejectsWrongPhase(t *testing.T) {
	f := newFixture(t)
	f.provider.AddCard(domain.Card{ID: "E010", Name: "Permit Push", Type: domain.CardTypeExpeditor, PhaseRestriction: "FUNDING"})

	player, _ := f.state.Player("p1")
	player.Hand = append(player.Hand, "E010")
	if err := f.state.UpdatePlayer(player); err != nil {
		t.Fatal(err)
	}

	// p1 is still on START, which is a SETUP-phase space.
	if _, err := f.coordinator.PlayCard(context.Background(), "p1", "E010"); !errors.Is(err, perrors.New(perrors.CodeCardNotOwned, "")) {
		t.Fatalf("err = %v, want CARD_NOT_OWNED", err)
	}
	player, _ = f.state.Player("p1")
	if !player.HasCard("E010") {
		t.Fatal("card should stay in hand on rejection")
	}
}

func TestNegotiationAcceptTransfersOffer(t *testing.T) {
	f := newFixture(t)
	f.enterFund(t)

	negotiation, err := f.coordinator.OpenNegotiation("p1", "p2")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if negotiation.Status != domain.NegotiationOpen {
		t.Fatalf("status = %s", negotiation.Status)
	}

	if err := f.coordinator.MakeOffer("p1", domain.NegotiationOffer{Money: 300, Note: "split the fee"}); err != nil {
		t.Fatalf("offer: %v", err)
	}
	if err := f.coordinator.AcceptNegotiation(context.Background(), "p2"); err != nil {
		t.Fatalf("accept: %v", err)
	}

	initiator, _ := f.state.Player("p1")
	partner, _ := f.state.Player("p2")
	if initiator.Money != 700 || partner.Money != 1300 {
		t.Fatalf("money = %d/%d, want 700/1300", initiator.Money, partner.Money)
	}
	if f.state.GameState().ActiveNegotiation != nil {
		t.Fatal("negotiation should be closed")
	}
}

func TestNegotiationDecline(t *testing.T) {
	f := newFixture(t)
	f.enterFund(t)

	if _, err := f.coordinator.OpenNegotiation("p1", "p2"); err != nil {
		t.Fatal(err)
	}
	if err := f.coordinator.DeclineNegotiation("p2"); err != nil {
		t.Fatalf("decline: %v", err)
	}
	if f.state.GameState().ActiveNegotiation != nil {
		t.Fatal("negotiation should be closed")
	}

	err := f.coordinator.DeclineNegotiation("p2")
	if !errors.Is(err, perrors.New(perrors.CodeTurnNoNegotiation, "")) {
		t.Fatalf("err = %v, want TURN_NO_NEGOTIATION", err)
	}
}

func TestOpenNegotiationOnlyOnNegotiableSpace(t *testing.T) {
	f := newFixture(t)

	_, err := f.coordinator.OpenNegotiation("p1", "p2")
	if !errors.Is(err, perrors.New(perrors.CodeTurnTryAgainUnavailable, "")) {
		t.Fatalf("err = %v, want rejection on START", err)
	}
}
