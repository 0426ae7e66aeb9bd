package reward

import (
	"errors"

	"cart-engine/internal/pkg/money"

	"github.com/shopspring/decimal"
)

var ErrNegativeReward = errors.New("reward value cannot be negative")

// State is the persisted form of a ledger.
type State struct {
	Applied bool            `json:"applied"`
	Value   decimal.Decimal `json:"value"`
}

// Ledger tracks the single loyalty redemption applied to a cart. It works on
// cart aggregates only and never looks at line promotions.
type Ledger struct {
	applied bool
	value   decimal.Decimal
}

func NewLedger() *Ledger {
	return &Ledger{}
}

func RestoreLedger(s State) *Ledger {
	if !s.Applied || s.Value.IsNegative() {
		return &Ledger{}
	}
	return &Ledger{applied: true, value: s.Value}
}

// Apply replaces any active redemption with value.
func (l *Ledger) Apply(value decimal.Decimal) error {
	if value.IsNegative() {
		return ErrNegativeReward
	}
	l.applied = true
	l.value = value
	return nil
}

func (l *Ledger) Clear() {
	l.applied = false
	l.value = decimal.Zero
}

// Settle subtracts the active redemption from total, never going below zero.
func (l *Ledger) Settle(total decimal.Decimal) decimal.Decimal {
	if !l.applied {
		return total
	}
	return money.Floor0(total.Sub(l.value))
}

func (l *Ledger) Applied() bool          { return l.applied }
func (l *Ledger) Value() decimal.Decimal { return l.value }

func (l *Ledger) State() State {
	return State{Applied: l.applied, Value: l.value}
}
