// Package choice brokers blocking player decisions. Game logic creates
// a choice and receives a pending handle to await; the input layer
// resolves it later with the selected option.
//
// The broker tracks every pending handle independently, but only one
// choice is ever published as the state store's awaiting choice.
package choice

import (
	"context"
	"strconv"
	"sync"

	"github.com/louisbranch/groundbreak/internal/game/domain"
	"github.com/louisbranch/groundbreak/internal/game/state"
	perrors "github.com/louisbranch/groundbreak/internal/platform/errors"
	"github.com/louisbranch/groundbreak/internal/platform/id"
)

type settlement struct {
	optionID string
	err      error
}

// Pending is the awaitable half of a created choice. Await blocks until
// the choice is resolved, the broker is cleared, or the context ends.
type Pending struct {
	ID string
	ch chan settlement
}

// Await returns the selected option id once the choice resolves.
func (p *Pending) Await(ctx context.Context) (string, error) {
	select {
	case s := <-p.ch:
		return s.optionID, s.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Settled reports whether the choice has already been resolved or
// cleared, without blocking.
func (p *Pending) Settled() (string, error, bool) {
	select {
	case s := <-p.ch:
		// Re-arm so Await still observes the settlement.
		p.ch <- s
		return s.optionID, s.err, true
	default:
		return "", nil, false
	}
}

// Broker manages pending choices over the shared state store.
type Broker struct {
	mu      sync.Mutex
	state   *state.Store
	pending map[string]*Pending
}

// New creates a choice broker.
func New(st *state.Store) *Broker {
	return &Broker{
		state:   st,
		pending: make(map[string]*Pending),
	}
}

// Create validates and publishes a new choice, returning a pending
// handle the caller may await. Malformed arguments are caller bugs and
// fail immediately without publishing anything.
func (b *Broker) Create(playerID string, choiceType domain.ChoiceType, prompt string, options []domain.ChoiceOption) (*Pending, error) {
	if playerID == "" {
		return nil, perrors.New(perrors.CodeChoicePlayerRequired, "choice requires a player id")
	}
	if len(options) == 0 {
		return nil, perrors.New(perrors.CodeChoiceOptionsRequired, "choice requires at least one option")
	}
	for i, option := range options {
		if option.ID == "" || option.Label == "" {
			return nil, perrors.WithMetadata(perrors.CodeChoiceOptionMalformed,
				"choice option must have an id and a label",
				map[string]string{"Index": strconv.Itoa(i)})
		}
	}

	c := domain.Choice{
		ID:       id.NewID(),
		PlayerID: playerID,
		Type:     choiceType,
		Prompt:   prompt,
		Options:  append([]domain.ChoiceOption(nil), options...),
	}
	pending := &Pending{ID: c.ID, ch: make(chan settlement, 1)}

	b.mu.Lock()
	b.pending[c.ID] = pending
	b.mu.Unlock()

	b.state.SetAwaitingChoice(c)
	return pending, nil
}

// Resolve settles the named choice with the selected option. Any
// mismatch (unknown choice, inactive choice, unknown option) returns
// false without side effects.
func (b *Broker) Resolve(choiceID, optionID string) bool {
	active, ok := b.state.AwaitingChoice()
	if !ok || active.ID != choiceID {
		return false
	}
	if !active.HasOption(optionID) {
		return false
	}

	b.mu.Lock()
	pending, ok := b.pending[choiceID]
	if ok {
		delete(b.pending, choiceID)
	}
	b.mu.Unlock()
	if !ok {
		return false
	}

	b.state.ClearAwaitingChoice()
	pending.ch <- settlement{optionID: optionID}
	return true
}

// HasActive reports whether a choice is currently awaiting input.
func (b *Broker) HasActive() bool {
	_, ok := b.state.AwaitingChoice()
	return ok
}

// Active returns the currently awaiting choice, if any.
func (b *Broker) Active() (domain.Choice, bool) {
	return b.state.AwaitingChoice()
}

// ClearAll force-rejects every pending choice and clears the awaiting
// choice. Used on game reset.
func (b *Broker) ClearAll() {
	b.mu.Lock()
	cleared := b.pending
	b.pending = make(map[string]*Pending)
	b.mu.Unlock()

	for _, pending := range cleared {
		pending.ch <- settlement{err: perrors.New(perrors.CodeChoiceCleared, "choice cleared by game reset")}
	}
	b.state.ClearAwaitingChoice()
}
