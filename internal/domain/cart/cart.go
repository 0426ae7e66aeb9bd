package cart

import (
	"cart-engine/internal/domain/reward"
	"cart-engine/internal/pkg/money"

	"github.com/shopspring/decimal"
)

// Snapshot is a detached copy of the cart state, used for persistence and
// checkout hand-off.
type Snapshot struct {
	Lines  []Line
	Reward reward.State
}

// Cart is the aggregate root. Every mutation keeps (ProductID, VariantKey)
// unique and recomputes the derived totals before returning.
type Cart struct {
	lines         []Line
	subtotal      decimal.Decimal
	discountTotal decimal.Decimal
	ledger        *reward.Ledger
}

func New() *Cart {
	return &Cart{ledger: reward.NewLedger()}
}

// Restore rebuilds a cart from a snapshot, discarding invalid or duplicate lines.
func Restore(s Snapshot) *Cart {
	c := &Cart{
		lines:  Normalize(s.Lines),
		ledger: reward.RestoreLedger(s.Reward),
	}
	c.recompute()
	return c
}

func (c *Cart) find(k Key) int {
	for i := range c.lines {
		if c.lines[i].Key() == k {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(i int) {
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

func (c *Cart) recompute() {
	c.subtotal = decimal.Zero
	c.discountTotal = decimal.Zero
	for _, l := range c.lines {
		c.subtotal = c.subtotal.Add(l.Subtotal())
		c.discountTotal = c.discountTotal.Add(l.DiscountTotal())
	}
}

// Add sums quantity into an existing line or appends a new one. No stock
// ceiling is enforced here.
func (c *Cart) Add(productID, variantKey string, quantity int, unitPrice decimal.Decimal) ([]Change, error) {
	l := Line{
		ProductID:  productID,
		VariantKey: variantKey,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}

	if i := c.find(l.Key()); i >= 0 {
		c.lines[i].Quantity += quantity
		l = c.lines[i]
	} else {
		c.lines = append(c.lines, l)
	}
	c.recompute()
	return []Change{{Key: l.Key(), Quantity: l.Quantity}}, nil
}

func (c *Cart) Remove(k Key) []Change {
	i := c.find(k)
	if i < 0 {
		return nil
	}
	c.removeAt(i)
	c.recompute()
	return []Change{{Key: k}}
}

// SetQuantity is an absolute set. Absent lines and unchanged values are no-ops.
func (c *Cart) SetQuantity(k Key, quantity int) ([]Change, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	i := c.find(k)
	if i < 0 || c.lines[i].Quantity == quantity {
		return nil, nil
	}
	c.lines[i].Quantity = quantity
	c.recompute()
	return []Change{{Key: k, Quantity: quantity}}, nil
}

// Increment adds one unit while the result stays within available stock.
// A rejected increment changes nothing and is not an error.
func (c *Cart) Increment(k Key, available int) []Change {
	i := c.find(k)
	if i < 0 || c.lines[i].Quantity+1 > available {
		return nil
	}
	c.lines[i].Quantity++
	c.recompute()
	return []Change{{Key: k, Quantity: c.lines[i].Quantity}}
}

// Decrement removes one unit; the last unit removes the line.
func (c *Cart) Decrement(k Key) []Change {
	i := c.find(k)
	if i < 0 {
		return nil
	}
	if c.lines[i].Quantity <= 1 {
		c.removeAt(i)
		c.recompute()
		return []Change{{Key: k}}
	}
	c.lines[i].Quantity--
	c.recompute()
	return []Change{{Key: k, Quantity: c.lines[i].Quantity}}
}

// ReplaceAll swaps the line set wholesale. Input is normalized first.
func (c *Cart) ReplaceAll(lines []Line) []Change {
	next := Normalize(lines)
	changes := diff(c.lines, next)
	c.lines = next
	c.recompute()
	return changes
}

// AppendMerging adds a batch with sum-on-duplicate. The batch is rejected as
// a whole if any line is invalid.
func (c *Cart) AppendMerging(lines []Line) ([]Change, error) {
	for _, l := range lines {
		if err := l.Validate(); err != nil {
			return nil, err
		}
	}
	next := Merge(c.lines, lines)
	changes := diff(c.lines, next)
	c.lines = next
	c.recompute()
	return changes, nil
}

// Clear empties the lines and drops the reward.
func (c *Cart) Clear() []Change {
	changes := make([]Change, 0, len(c.lines))
	for _, l := range c.lines {
		changes = append(changes, Change{Key: l.Key()})
	}
	c.lines = nil
	c.ledger.Clear()
	c.recompute()
	return changes
}

// ApplyDiscounts stores per-unit discounts keyed by line. Each value is
// clamped to [0, UnitPrice]; lines absent from the map keep their discount.
// It reports whether any line changed.
func (c *Cart) ApplyDiscounts(discounts map[Key]decimal.Decimal) bool {
	changed := false
	for i := range c.lines {
		raw, ok := discounts[c.lines[i].Key()]
		if !ok {
			continue
		}
		d := money.Min(money.Floor0(raw), c.lines[i].UnitPrice)
		if !d.Equal(c.lines[i].UnitDiscount) {
			c.lines[i].UnitDiscount = d
			changed = true
		}
	}
	if changed {
		c.recompute()
	}
	return changed
}

func (c *Cart) ApplyReward(value decimal.Decimal) error {
	return c.ledger.Apply(value)
}

func (c *Cart) ClearReward() {
	c.ledger.Clear()
}

// Lines returns a copy in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Line(k Key) (Line, bool) {
	if i := c.find(k); i >= 0 {
		return c.lines[i], true
	}
	return Line{}, false
}

func (c *Cart) Len() int { return len(c.lines) }

func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

func (c *Cart) TotalQuantity() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) Subtotal() decimal.Decimal      { return c.subtotal }
func (c *Cart) DiscountTotal() decimal.Decimal { return c.discountTotal }
func (c *Cart) Reward() reward.State           { return c.ledger.State() }

// Payable is the subtotal after line promotions.
func (c *Cart) Payable() decimal.Decimal {
	return money.Floor0(c.subtotal.Sub(c.discountTotal))
}

// CheckoutTotal is the payable amount after the reward redemption.
func (c *Cart) CheckoutTotal() decimal.Decimal {
	return c.ledger.Settle(c.Payable())
}

func (c *Cart) Snapshot() Snapshot {
	return Snapshot{Lines: c.Lines(), Reward: c.ledger.State()}
}

func diff(prev, next []Line) []Change {
	var changes []Change
	seen := make(map[Key]int, len(prev))
	for _, l := range prev {
		seen[l.Key()] = l.Quantity
	}
	for _, l := range next {
		if q, ok := seen[l.Key()]; !ok || q != l.Quantity {
			changes = append(changes, Change{Key: l.Key(), Quantity: l.Quantity})
		}
		delete(seen, l.Key())
	}
	for _, l := range prev {
		if _, gone := seen[l.Key()]; gone {
			changes = append(changes, Change{Key: l.Key()})
		}
	}
	return changes
}
