package ledger

import (
	"errors"
	"testing"

	"github.com/louisbranch/groundbreak/internal/game/domain"
	"github.com/louisbranch/groundbreak/internal/game/state"
	perrors "github.com/louisbranch/groundbreak/internal/platform/errors"
)

func newTestLedger(money, timeSpent int) (*Ledger, *state.Store) {
	st := state.NewStore(domain.GameState{
		Players: []domain.Player{
			{ID: "p1", Name: "Alice", Money: money, TimeSpent: timeSpent},
		},
		Phase: domain.PhasePlay,
		Turn:  3,
	})
	return New(st), st
}

func TestAddAndSpendMoney(t *testing.T) {
	l, st := newTestLedger(100, 0)

	if err := l.AddMoney("p1", 50, "grant"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := l.SpendMoney("p1", 120, "fee"); err != nil {
		t.Fatalf("spend: %v", err)
	}

	player, _ := st.Player("p1")
	if player.Money != 30 {
		t.Fatalf("money = %d, want 30", player.Money)
	}
	if player.MoneySources["grant"] != 50 || player.MoneySources["fee"] != -120 {
		t.Fatalf("sources = %v", player.MoneySources)
	}
}

func TestSpendMoneyInsufficientDoesNotMutate(t *testing.T) {
	l, st := newTestLedger(100, 0)

	err := l.SpendMoney("p1", 150, "fee")
	if !errors.Is(err, perrors.New(perrors.CodeLedgerInsufficientFunds, "")) {
		t.Fatalf("err = %v, want LEDGER_INSUFFICIENT_FUNDS", err)
	}

	player, _ := st.Player("p1")
	if player.Money != 100 {
		t.Fatalf("money = %d, want 100", player.Money)
	}
	if len(l.History("p1")) != 0 {
		t.Fatal("failed spend must not record a transaction")
	}

	// A failed spend is safely retryable after funding.
	if err := l.AddMoney("p1", 50, "grant"); err != nil {
		t.Fatal(err)
	}
	if err := l.SpendMoney("p1", 150, "fee"); err != nil {
		t.Fatalf("retry: %v", err)
	}
	player, _ = st.Player("p1")
	if player.Money != 0 {
		t.Fatalf("money = %d, want 0", player.Money)
	}
}

func TestAmountMustBePositive(t *testing.T) {
	l, _ := newTestLedger(100, 5)

	for name, err := range map[string]error{
		"add zero":  l.AddMoney("p1", 0, "x"),
		"spend neg": l.SpendMoney("p1", -5, "x"),
		"time zero": l.AddTime("p1", 0, "x"),
		"time neg":  l.SpendTime("p1", -1, "x"),
	} {
		if !errors.Is(err, perrors.New(perrors.CodeLedgerAmountNotPositive, "")) {
			t.Fatalf("%s: err = %v, want LEDGER_AMOUNT_NOT_POSITIVE", name, err)
		}
	}
}

func TestSpendTimeClampsAtZero(t *testing.T) {
	l, st := newTestLedger(0, 3)

	if err := l.SpendTime("p1", 10, "revert"); err != nil {
		t.Fatalf("spend time: %v", err)
	}
	player, _ := st.Player("p1")
	if player.TimeSpent != 0 {
		t.Fatalf("time = %d, want 0", player.TimeSpent)
	}
}

func TestUpdateResourcesAllOrNothing(t *testing.T) {
	l, st := newTestLedger(100, 5)

	err := l.UpdateResources("p1", -150, 2, "combined")
	if !errors.Is(err, perrors.New(perrors.CodeLedgerInsufficientFunds, "")) {
		t.Fatalf("err = %v, want LEDGER_INSUFFICIENT_FUNDS", err)
	}
	player, _ := st.Player("p1")
	if player.Money != 100 || player.TimeSpent != 5 {
		t.Fatalf("player mutated: money=%d time=%d", player.Money, player.TimeSpent)
	}

	if err := l.UpdateResources("p1", -60, 2, "combined"); err != nil {
		t.Fatalf("update: %v", err)
	}
	player, _ = st.Player("p1")
	if player.Money != 40 || player.TimeSpent != 7 {
		t.Fatalf("money=%d time=%d, want 40/7", player.Money, player.TimeSpent)
	}
}

func TestCanAfford(t *testing.T) {
	l, _ := newTestLedger(100, 0)

	if !l.CanAfford("p1", 100) {
		t.Fatal("should afford exact balance")
	}
	if l.CanAfford("p1", 101) {
		t.Fatal("should not afford more than balance")
	}
	if l.CanAfford("ghost", 1) {
		t.Fatal("unknown player affords nothing")
	}
}

func TestValidateResourceChange(t *testing.T) {
	l, _ := newTestLedger(100, 2)

	result := l.ValidateResourceChange("p1", -50, 1)
	if !result.Valid || len(result.Errors) != 0 {
		t.Fatalf("result = %+v", result)
	}

	result = l.ValidateResourceChange("p1", -150, -5)
	if result.Valid {
		t.Fatal("overdraft should be invalid")
	}
	if len(result.Errors) == 0 {
		t.Fatal("expected an error message")
	}
	if len(result.Warnings) == 0 {
		t.Fatal("expected a time clamp warning")
	}
}

func TestTakeOutLoan(t *testing.T) {
	l, st := newTestLedger(0, 0)

	loan, err := l.TakeOutLoan("p1", 2000, 5)
	if err != nil {
		t.Fatalf("loan: %v", err)
	}
	if loan.Principal != 2000 || loan.InterestRate != 0.05 || loan.StartTurn != 3 {
		t.Fatalf("loan = %+v", loan)
	}

	player, _ := st.Player("p1")
	if player.Money != 2000 {
		t.Fatalf("money = %d, want 2000", player.Money)
	}
	if len(player.Loans) != 1 || player.Loans[0].ID != loan.ID {
		t.Fatalf("loans = %+v", player.Loans)
	}
}

func TestTakeOutLoanRejectsBadTerms(t *testing.T) {
	l, _ := newTestLedger(0, 0)

	if _, err := l.TakeOutLoan("p1", 0, 5); !errors.Is(err, perrors.New(perrors.CodeLedgerLoanInvalid, "")) {
		t.Fatalf("err = %v, want LEDGER_LOAN_INVALID", err)
	}
	if _, err := l.TakeOutLoan("p1", 100, -1); !errors.Is(err, perrors.New(perrors.CodeLedgerLoanInvalid, "")) {
		t.Fatalf("err = %v, want LEDGER_LOAN_INVALID", err)
	}
}

func TestApplyInterest(t *testing.T) {
	l, st := newTestLedger(0, 0)

	if _, err := l.TakeOutLoan("p1", 2000, 5); err != nil {
		t.Fatal(err)
	}
	if _, err := l.TakeOutLoan("p1", 1000, 10); err != nil {
		t.Fatal(err)
	}

	charged, err := l.ApplyInterest("p1")
	if err != nil {
		t.Fatalf("interest: %v", err)
	}
	if charged != 200 {
		t.Fatalf("charged = %d, want 200", charged)
	}
	player, _ := st.Player("p1")
	if player.Money != 2800 {
		t.Fatalf("money = %d, want 2800", player.Money)
	}
}

func TestApplyInterestPartial(t *testing.T) {
	l, st := newTestLedger(0, 0)

	if _, err := l.TakeOutLoan("p1", 2000, 5); err != nil {
		t.Fatal(err)
	}
	// Drain the wallet below the upcoming interest charge.
	if err := l.SpendMoney("p1", 1950, "construction"); err != nil {
		t.Fatal(err)
	}

	charged, err := l.ApplyInterest("p1")
	if err != nil {
		t.Fatalf("interest: %v", err)
	}
	if charged != 50 {
		t.Fatalf("charged = %d, want 50", charged)
	}
	player, _ := st.Player("p1")
	if player.Money != 0 {
		t.Fatalf("money = %d, want 0", player.Money)
	}
}

func TestRecordCost(t *testing.T) {
	l, st := newTestLedger(100, 0)

	if err := l.RecordCost("p1", domain.CostRegulatory, 100, "filing fee"); err != nil {
		t.Fatalf("record: %v", err)
	}
	player, _ := st.Player("p1")
	if player.CostTotal(domain.CostRegulatory) != 100 {
		t.Fatalf("cost total = %d, want 100", player.CostTotal(domain.CostRegulatory))
	}
	if player.CostHistory[0].Turn != 3 {
		t.Fatalf("turn = %d, want 3", player.CostHistory[0].Turn)
	}
}

func TestHistoryRecordsTransactions(t *testing.T) {
	l, _ := newTestLedger(100, 0)

	_ = l.AddMoney("p1", 50, "grant")
	_ = l.SpendMoney("p1", 20, "fee")

	history := l.History("p1")
	if len(history) != 2 {
		t.Fatalf("history = %d entries, want 2", len(history))
	}
	if history[0].Balance != 150 || history[1].Balance != 130 {
		t.Fatalf("balances = %d, %d", history[0].Balance, history[1].Balance)
	}
}
