// Package reveal registers page elements with a scroll-triggered entrance
// animation service and tracks each element's animation state for one render.
package reveal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Stagger is the extra delay applied per card index.
const Stagger = 100 * time.Millisecond

var (
	ErrAlreadyBegun  = errors.New("reveal: mount already registered")
	ErrUnknownHandle = errors.New("reveal: unknown handle")
	ErrNotAnimating  = errors.New("reveal: element is not animating")
)

// State is the animation state of a single tracked element.
type State int

const (
	NotAnimated State = iota
	Animating
	Settled
)

func (s State) String() string {
	switch s {
	case NotAnimated:
		return "not-animated"
	case Animating:
		return "animating"
	case Settled:
		return "settled"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Kind distinguishes the elements a section registers.
type Kind string

const (
	KindHeading Kind = "heading"
	KindCard    Kind = "card"
)

// Target names an element within a section.
type Target struct {
	Kind  Kind `json:"kind"`
	Index int  `json:"index"`
}

// Handle is an opaque element identifier, rendered as data-reveal.
type Handle string

// Registration is one element handed to the animation service.
type Registration struct {
	Handle Handle `json:"handle"`
	Target Target `json:"target"`
	Config Config `json:"config"`
}

// Service is the animate-on-scroll backend. Reveal receives every element of
// a mount in a single call.
type Service interface {
	Reveal(ctx context.Context, batch []Registration) error
}

// Mount tracks the elements of one rendered section. It is not safe for
// concurrent use; a render owns its Mount.
//
// In the browser the reveal.js bootstrap settles elements on its own and
// reports nothing back. Mount mirrors that lifecycle on the server for
// callers that drive the trigger themselves, such as a Service that
// animates in-process; page rendering only uses Track and Begin.
type Mount struct {
	regs   []Registration
	states map[Handle]State
	cards  map[int]Handle
	begun  bool
}

// NewMount returns an empty Mount.
func NewMount() *Mount {
	return &Mount{
		states: make(map[Handle]State),
		cards:  make(map[int]Handle),
	}
}

// Track assigns a handle to target. Tracked elements stay NotAnimated until Begin.
func (m *Mount) Track(target Target, cfg Config) Handle {
	h := Handle("sr-" + uuid.NewString())
	m.regs = append(m.regs, Registration{Handle: h, Target: target, Config: cfg})
	m.states[h] = NotAnimated
	if target.Kind == KindCard {
		m.cards[target.Index] = h
	}
	return h
}

// Cards maps card index to handle.
func (m *Mount) Cards() map[int]Handle {
	out := make(map[int]Handle, len(m.cards))
	for i, h := range m.cards {
		out[i] = h
	}
	return out
}

// Registrations returns the tracked elements in tracking order.
func (m *Mount) Registrations() []Registration {
	return append([]Registration(nil), m.regs...)
}

// Begin hands every tracked element to svc in one call and moves them to
// Animating. It may only run once per Mount.
func (m *Mount) Begin(ctx context.Context, svc Service) error {
	if m.begun {
		return ErrAlreadyBegun
	}
	m.begun = true
	if len(m.regs) == 0 {
		return nil
	}
	if err := svc.Reveal(ctx, m.Registrations()); err != nil {
		return fmt.Errorf("reveal: register %d elements: %w", len(m.regs), err)
	}
	for h := range m.states {
		m.states[h] = Animating
	}
	return nil
}

// Settle records that the reveal trigger for h has fired. Nothing in the
// HTTP path calls it; see Mount.
func (m *Mount) Settle(h Handle) error {
	st, ok := m.states[h]
	if !ok {
		return ErrUnknownHandle
	}
	switch st {
	case Settled:
		return nil
	case Animating:
		m.states[h] = Settled
		return nil
	}
	return ErrNotAnimating
}

// State reports the current state of h. Unknown handles report NotAnimated.
func (m *Mount) State(h Handle) State {
	return m.states[h]
}
