// Package ledger implements the event-sourced inventory ledger: the movement
// recorder, threshold registry, replenishment planner, expiry tracker and the
// read models built on top of them.
//
// Balances are a derived aggregate of the movement log:
//
//	balance(p) = Σ receive(p) − Σ consume(p)
//
// The store maintains them incrementally; Verifier recomputes them by replay.
package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidQuantity = errors.New("quantity must be non-negative")
	ErrInvalidAction   = errors.New("unknown movement action")
	ErrInvalidRole     = errors.New("unknown actor role")
	ErrInvalidMode     = errors.New("unknown reorder mode")
	ErrEmptyProduct    = errors.New("product name is empty")
)

type Action string

const (
	ActionConsume Action = "consume"
	ActionReceive Action = "receive"
)

func (a Action) Valid() bool {
	return a == ActionConsume || a == ActionReceive
}

type Role string

const (
	RoleBarman Role = "barman"
	RoleAdmin  Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleBarman || r == RoleAdmin
}

// Mode selects one of the two reorder threshold profiles.
type Mode string

const (
	ModePoor Mode = "poor"
	ModeLuxe Mode = "luxe"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModePoor, ModeLuxe:
		return Mode(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// Title is the mode name shown to admins.
func (m Mode) Title() string {
	if m == ModeLuxe {
		return "Люксовый"
	}
	return "Нищий"
}

// Movement is an immutable consume or receive fact.
type Movement struct {
	ID       uuid.UUID
	At       time.Time
	Role     Role
	ActorID  int64
	Action   Action
	Product  string
	Quantity decimal.Decimal
}

// Delta is the signed effect of the movement on an existing balance.
func (m Movement) Delta() decimal.Decimal {
	if m.Action == ActionConsume {
		return m.Quantity.Neg()
	}
	return m.Quantity
}

// OpeningBalance is the balance of a product that had no row before m.
// A consume of an unseen product is discarded rather than inventing
// negative stock.
func (m Movement) OpeningBalance() decimal.Decimal {
	if m.Action == ActionReceive {
		return decimal.Max(decimal.Zero, m.Quantity)
	}
	return decimal.Zero
}

// Applied is the outcome of recording one movement.
type Applied struct {
	Movement Movement
	Balance  decimal.Decimal
}

type Balance struct {
	Product  string
	Unit     string
	Quantity decimal.Decimal
}

// Threshold holds both reorder modes of one product.
type Threshold struct {
	Product string
	Poor    decimal.Decimal
	Luxe    decimal.Decimal
}

func (t Threshold) For(mode Mode) decimal.Decimal {
	if mode == ModeLuxe {
		return t.Luxe
	}
	return t.Poor
}

// ExpiryLot is the quantity of a product sharing one expiry date.
// Date is a calendar day at UTC midnight.
type ExpiryLot struct {
	Product  string
	Date     time.Time
	Quantity decimal.Decimal
}

// Need is one line of a shortfall or consumption report.
type Need struct {
	Product  string
	Quantity decimal.Decimal
}

// MovementFilter narrows ListMovements. Zero fields match everything.
type MovementFilter struct {
	Since   time.Time
	Action  Action
	Product string
}

// Day truncates t to its calendar day in t's location and returns it as a
// UTC midnight, the canonical form for expiry dates.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
