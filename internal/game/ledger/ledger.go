// Package ledger is the authority for player money and time. Every
// resource mutation in the game flows through it.
//
// Money and time are asymmetric on subtraction: spending more money than
// the balance fails without mutating, while spending more time than
// accrued clamps the total at zero.
package ledger

import (
	"fmt"
	"log"
	"sync"

	"github.com/louisbranch/groundbreak/internal/game/domain"
	"github.com/louisbranch/groundbreak/internal/game/state"
	perrors "github.com/louisbranch/groundbreak/internal/platform/errors"
	"github.com/louisbranch/groundbreak/internal/platform/id"
)

// Transaction is one applied ledger mutation, kept in memory for audit.
type Transaction struct {
	PlayerID string
	Resource domain.Resource
	Amount   int
	Balance  int
	Source   string
	Turn     int
}

// Ledger applies resource mutations through the shared state store.
type Ledger struct {
	mu      sync.Mutex
	state   *state.Store
	history map[string][]Transaction
}

// New creates a ledger over the shared game state.
func New(st *state.Store) *Ledger {
	return &Ledger{
		state:   st,
		history: make(map[string][]Transaction),
	}
}

// AddMoney credits the player. Amount must be positive.
func (l *Ledger) AddMoney(playerID string, amount int, source string) error {
	if amount <= 0 {
		return perrors.New(perrors.CodeLedgerAmountNotPositive, "amount must be positive")
	}
	return l.apply(playerID, amount, 0, source)
}

// SpendMoney debits the player. The debit fails without mutating when
// the balance is insufficient.
func (l *Ledger) SpendMoney(playerID string, amount int, source string) error {
	if amount <= 0 {
		return perrors.New(perrors.CodeLedgerAmountNotPositive, "amount must be positive")
	}
	return l.apply(playerID, -amount, 0, source)
}

// AddTime accrues days against the player's project clock.
func (l *Ledger) AddTime(playerID string, days int, source string) error {
	if days <= 0 {
		return perrors.New(perrors.CodeLedgerAmountNotPositive, "days must be positive")
	}
	return l.apply(playerID, 0, days, source)
}

// SpendTime removes accrued days, clamping at zero.
func (l *Ledger) SpendTime(playerID string, days int, source string) error {
	if days <= 0 {
		return perrors.New(perrors.CodeLedgerAmountNotPositive, "days must be positive")
	}
	return l.apply(playerID, 0, -days, source)
}

// UpdateResources applies a combined money and time delta atomically.
// When the money delta would drive the balance negative, nothing is
// applied, including the time delta.
func (l *Ledger) UpdateResources(playerID string, moneyDelta, timeDelta int, source string) error {
	return l.apply(playerID, moneyDelta, timeDelta, source)
}

func (l *Ledger) apply(playerID string, moneyDelta, timeDelta int, source string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	player, err := l.state.Player(playerID)
	if err != nil {
		return err
	}

	newMoney := player.Money + moneyDelta
	if newMoney < 0 {
		return perrors.WithMetadata(perrors.CodeLedgerInsufficientFunds,
			"insufficient funds", map[string]string{
				"Amount":  fmt.Sprint(-moneyDelta),
				"Balance": fmt.Sprint(player.Money),
			})
	}
	newTime := player.TimeSpent + timeDelta
	if newTime < 0 {
		newTime = 0
	}

	turn := l.state.GameState().Turn
	if moneyDelta != 0 {
		player.Money = newMoney
		if player.MoneySources == nil {
			player.MoneySources = make(map[string]int)
		}
		player.MoneySources[source] += moneyDelta
		l.history[playerID] = append(l.history[playerID], Transaction{
			PlayerID: playerID,
			Resource: domain.ResourceMoney,
			Amount:   moneyDelta,
			Balance:  newMoney,
			Source:   source,
			Turn:     turn,
		})
	}
	if timeDelta != 0 {
		player.TimeSpent = newTime
		l.history[playerID] = append(l.history[playerID], Transaction{
			PlayerID: playerID,
			Resource: domain.ResourceTime,
			Amount:   timeDelta,
			Balance:  newTime,
			Source:   source,
			Turn:     turn,
		})
	}

	return l.state.UpdatePlayer(player)
}

// CanAfford reports whether the player's balance covers the amount.
// Unknown players cannot afford anything.
func (l *Ledger) CanAfford(playerID string, amount int) bool {
	player, err := l.state.Player(playerID)
	if err != nil {
		return false
	}
	return player.Money >= amount
}

// ValidationResult reports whether a proposed change would succeed.
type ValidationResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// ValidateResourceChange dry-runs a combined delta without applying it.
func (l *Ledger) ValidateResourceChange(playerID string, moneyDelta, timeDelta int) ValidationResult {
	player, err := l.state.Player(playerID)
	if err != nil {
		return ValidationResult{Errors: []string{"player not found"}}
	}

	result := ValidationResult{Valid: true}
	if player.Money+moneyDelta < 0 {
		result.Valid = false
		result.Errors = append(result.Errors,
			fmt.Sprintf("insufficient funds: need $%d, have $%d", -moneyDelta, player.Money))
	}
	if player.TimeSpent+timeDelta < 0 {
		result.Warnings = append(result.Warnings, "time would clamp at zero")
	}
	return result
}

// TakeOutLoan records a loan and credits the principal. The two steps
// are reconciled: if the credit fails the loan record is removed again,
// best effort.
func (l *Ledger) TakeOutLoan(playerID string, principal int, annualRate float64) (domain.Loan, error) {
	if principal <= 0 {
		return domain.Loan{}, perrors.New(perrors.CodeLedgerLoanInvalid, "loan principal must be positive")
	}
	if annualRate < 0 {
		return domain.Loan{}, perrors.New(perrors.CodeLedgerLoanInvalid, "loan rate must not be negative")
	}

	player, err := l.state.Player(playerID)
	if err != nil {
		return domain.Loan{}, err
	}

	loan := domain.Loan{
		ID:           id.NewID(),
		Principal:    principal,
		InterestRate: annualRate / 100,
		StartTurn:    l.state.GameState().Turn,
	}
	player.Loans = append(player.Loans, loan)
	if err := l.state.UpdatePlayer(player); err != nil {
		return domain.Loan{}, err
	}

	if err := l.AddMoney(playerID, principal, "loan:"+loan.ID); err != nil {
		if rollbackErr := l.removeLoan(playerID, loan.ID); rollbackErr != nil {
			log.Printf("loan rollback failed for player %s: %v", playerID, rollbackErr)
		}
		return domain.Loan{}, err
	}
	return loan, nil
}

func (l *Ledger) removeLoan(playerID, loanID string) error {
	player, err := l.state.Player(playerID)
	if err != nil {
		return err
	}
	for i, loan := range player.Loans {
		if loan.ID == loanID {
			player.Loans = append(player.Loans[:i:i], player.Loans[i+1:]...)
			return l.state.UpdatePlayer(player)
		}
	}
	return nil
}

// ApplyInterest charges the per-turn interest across every outstanding
// loan. A player who cannot cover the full amount pays what they have;
// the balance never goes negative and the charge never fails.
func (l *Ledger) ApplyInterest(playerID string) (int, error) {
	player, err := l.state.Player(playerID)
	if err != nil {
		return 0, err
	}

	due := 0
	for _, loan := range player.Loans {
		interest := int(float64(loan.Principal) * loan.InterestRate)
		if interest > 0 {
			due += interest
		}
	}
	if due == 0 {
		return 0, nil
	}

	charged := due
	if charged > player.Money {
		charged = player.Money
	}
	if charged == 0 {
		return 0, nil
	}
	if err := l.SpendMoney(playerID, charged, "interest"); err != nil {
		return 0, err
	}
	return charged, nil
}

// RecordCost appends a cost-history entry without moving money; pair it
// with SpendMoney when the cost is actually paid.
func (l *Ledger) RecordCost(playerID string, category domain.CostCategory, amount int, description string) error {
	player, err := l.state.Player(playerID)
	if err != nil {
		return err
	}
	game := l.state.GameState()
	player.CostHistory = append(player.CostHistory, domain.CostEntry{
		Category:    category,
		Amount:      amount,
		Description: description,
		Turn:        game.Turn,
		Space:       player.CurrentSpace,
	})
	return l.state.UpdatePlayer(player)
}

// History returns the player's applied transactions, oldest first.
func (l *Ledger) History(playerID string) []Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Transaction(nil), l.history[playerID]...)
}
