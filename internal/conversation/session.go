package conversation

import (
	"sync"

	"github.com/spolyanaa/MyBarKeeperBot/internal/ledger"

	"github.com/shopspring/decimal"
)

// Flow carries the selections of one branch of the conversation. Each
// branch has its own variant, so a session never mixes fields of two flows.
type Flow interface {
	flow()
}

type BarmanFlow struct {
	Category string
	Product  string
	// Recorded is the quantity of the last consume, shown on confirmation.
	Recorded decimal.Decimal
}

type ThresholdFlow struct {
	Mode     ledger.Mode
	Category string
	Product  string
}

type ReceiveFlow struct {
	Category string
	Product  string
}

type NewProductFlow struct {
	Name string
}

type ExpiryFlow struct {
	Product string
}

func (BarmanFlow) flow()     {}
func (ThresholdFlow) flow()  {}
func (ReceiveFlow) flow()    {}
func (NewProductFlow) flow() {}
func (ExpiryFlow) flow()     {}

// retain keeps the selections that state s still depends on and drops the
// rest. It returns nil when s is outside the flow's branch.
func retain(f Flow, s State) Flow {
	switch f := f.(type) {
	case BarmanFlow:
		switch s {
		case StateBarmanCategory:
			return BarmanFlow{}
		case StateBarmanItem:
			return BarmanFlow{Category: f.Category}
		case StateBarmanQuantity:
			return BarmanFlow{Category: f.Category, Product: f.Product}
		case StateBarmanConfirm:
			return f
		}
	case ThresholdFlow:
		switch s {
		case StateThresholdMode:
			return ThresholdFlow{}
		case StateThresholdCategory:
			return ThresholdFlow{Mode: f.Mode}
		case StateThresholdItem:
			return ThresholdFlow{Mode: f.Mode, Category: f.Category}
		case StateThresholdValue:
			return f
		}
	case ReceiveFlow:
		switch s {
		case StateReceiveCategory:
			return ReceiveFlow{}
		case StateReceiveItem:
			return ReceiveFlow{Category: f.Category}
		case StateReceiveQuantity:
			return f
		}
	case NewProductFlow:
		switch s {
		case StateNewProductName:
			return NewProductFlow{}
		case StateNewProductQuantity:
			return f
		}
	case ExpiryFlow:
		switch s {
		case StateExpiryItem:
			return ExpiryFlow{}
		case StateExpiryDateQty:
			return f
		}
	}
	return nil
}

// Session is the per-user conversation state.
type Session struct {
	State State
	Role  ledger.Role
	Flow  Flow
	// Page is the listing page shown in the current state.
	Page int
	// LastOrderMode is the reorder mode auto-receive uses.
	LastOrderMode ledger.Mode
}

// Reset returns the session to the root with every selection cleared.
func (s *Session) Reset() {
	*s = Session{State: StateRoleSelect}
}

func (s *Session) enter(state State) {
	s.State = state
	s.Flow = retain(s.Flow, state)
	s.Page = 0
}

func (s *Session) orderMode() ledger.Mode {
	if s.LastOrderMode == "" {
		return ledger.ModePoor
	}
	return s.LastOrderMode
}

type sessionEntry struct {
	mu      sync.Mutex
	session Session
}

// Sessions holds one session per user. Acquire serializes inputs of one user
// while different users proceed in parallel.
type Sessions struct {
	mu      sync.Mutex
	entries map[int64]*sessionEntry
}

func NewSessions() *Sessions {
	return &Sessions{entries: make(map[int64]*sessionEntry)}
}

// Acquire locks the user's session, creating it at the root if needed. The
// returned func releases the lock.
func (s *Sessions) Acquire(userID int64) (*Session, func()) {
	s.mu.Lock()
	entry, ok := s.entries[userID]
	if !ok {
		entry = &sessionEntry{session: Session{State: StateRoleSelect}}
		s.entries[userID] = entry
	}
	s.mu.Unlock()

	entry.mu.Lock()
	return &entry.session, entry.mu.Unlock
}

// Get returns a copy of the user's session.
func (s *Sessions) Get(userID int64) (Session, bool) {
	s.mu.Lock()
	entry, ok := s.entries[userID]
	s.mu.Unlock()
	if !ok {
		return Session{}, false
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.session, true
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
