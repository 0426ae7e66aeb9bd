package usecase

import (
	"context"
	"log/slog"

	"cart-engine/internal/domain/cart"
	"cart-engine/internal/domain/promotion"
	"cart-engine/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// CartStore owns the cart of one session. Every mutation recomputes the
// derived totals, persists the snapshot and notifies the listener.
// It is not safe for concurrent use; Session serializes access.
type CartStore struct {
	sessionID   string
	cart        *cart.Cart
	quotes      map[cart.Key]promotion.Quote
	persistence CartPersistence
	pricing     PricingService
	listener    ChangeListener
}

// NewCartStore hydrates the session's cart from persistence, starting empty
// when nothing usable is stored.
func NewCartStore(ctx context.Context, sessionID string, persistence CartPersistence, pricing PricingService) *CartStore {
	c := cart.New()
	if snapshot, ok := persistence.Load(ctx, sessionID); ok {
		c = cart.Restore(snapshot)
	}

	return &CartStore{
		sessionID:   sessionID,
		cart:        c,
		quotes:      make(map[cart.Key]promotion.Quote),
		persistence: persistence,
		pricing:     pricing,
	}
}

func (s *CartStore) SessionID() string { return s.sessionID }

func (s *CartStore) SetListener(listener ChangeListener) {
	s.listener = listener
}

func (s *CartStore) Add(ctx context.Context, productID, variantKey string, quantity int, unitPrice decimal.Decimal) error {
	changes, err := s.cart.Add(productID, variantKey, quantity, unitPrice)
	if err != nil {
		return errs.Mark(err, errs.ErrInvalidLine)
	}
	return s.commit(ctx, changes)
}

// AddProduct adds a catalog product at its current price and quotes the
// resulting line straight away.
func (s *CartStore) AddProduct(ctx context.Context, productID, variantKey string, quantity int) error {
	if quantity < 1 {
		return errs.Mark(cart.ErrInvalidQuantity, errs.ErrInvalidLine)
	}

	products, err := s.pricing.Lookup(ctx, []string{productID})
	if err != nil {
		return err
	}
	product, ok := products[productID]
	if !ok {
		return errs.Wrapf(errs.ErrProductNotFound, "product %s", productID)
	}

	changes, err := s.cart.Add(product.ID, variantKey, quantity, product.Price)
	if err != nil {
		return errs.Mark(err, errs.ErrInvalidLine)
	}

	key := cart.NewKey(product.ID, variantKey)
	if line, found := s.cart.Line(key); found {
		quote := s.pricing.Quote(product, line)
		s.quotes[key] = quote
		s.cart.ApplyDiscounts(map[cart.Key]decimal.Decimal{key: line.UnitPrice.Sub(quote.FinalPrice)})
	}
	return s.commit(ctx, changes)
}

func (s *CartStore) Remove(ctx context.Context, key cart.Key) error {
	return s.commit(ctx, s.cart.Remove(key))
}

func (s *CartStore) SetQuantity(ctx context.Context, key cart.Key, quantity int) error {
	changes, err := s.cart.SetQuantity(key, quantity)
	if err != nil {
		return errs.Mark(err, errs.ErrInvalidQuantity)
	}
	return s.commit(ctx, changes)
}

// Increment adds one unit when stock allows it. A rejected step is not an
// error; the boolean reports whether the quantity changed.
func (s *CartStore) Increment(ctx context.Context, key cart.Key, available int) (bool, error) {
	changes := s.cart.Increment(key, available)
	if len(changes) == 0 {
		return false, nil
	}
	return true, s.commit(ctx, changes)
}

func (s *CartStore) Decrement(ctx context.Context, key cart.Key) error {
	return s.commit(ctx, s.cart.Decrement(key))
}

func (s *CartStore) ReplaceAll(ctx context.Context, lines []cart.Line) error {
	return s.commit(ctx, s.cart.ReplaceAll(lines))
}

func (s *CartStore) AppendMerging(ctx context.Context, lines []cart.Line) error {
	changes, err := s.cart.AppendMerging(lines)
	if err != nil {
		return errs.Mark(err, errs.ErrInvalidLine)
	}
	return s.commit(ctx, changes)
}

// Clear empties the cart and erases everything persisted for the session.
func (s *CartStore) Clear(ctx context.Context) error {
	changes := s.cart.Clear()
	clear(s.quotes)
	if err := s.persistence.Clear(ctx, s.sessionID); err != nil {
		slog.Warn("failed to clear persisted cart", "session_id", s.sessionID, "error", err.Error())
	}
	return s.notify(ctx, changes)
}

func (s *CartStore) ApplyReward(ctx context.Context, value decimal.Decimal) error {
	if err := s.cart.ApplyReward(value); err != nil {
		return errs.Mark(err, errs.ErrInvalidReward)
	}
	s.save(ctx)
	return nil
}

func (s *CartStore) ClearReward(ctx context.Context) {
	if !s.cart.Reward().Applied {
		return
	}
	s.cart.ClearReward()
	s.save(ctx)
}

// Reprice quotes every line against the catalog and stores the resulting
// per-unit discounts. On failure the previous discounts stay in place.
func (s *CartStore) Reprice(ctx context.Context) error {
	if s.cart.IsEmpty() {
		return nil
	}

	quotes, err := s.pricing.QuoteLines(ctx, s.cart.Lines())
	if err != nil {
		return err
	}

	discounts := make(map[cart.Key]decimal.Decimal, len(quotes))
	for _, line := range s.cart.Lines() {
		quote, ok := quotes[line.Key()]
		if !ok {
			continue
		}
		discounts[line.Key()] = line.UnitPrice.Sub(quote.FinalPrice)
	}
	s.quotes = quotes
	if s.cart.ApplyDiscounts(discounts) {
		s.save(ctx)
	}
	return nil
}

func (s *CartStore) MarkFetched(ctx context.Context) {
	if err := s.persistence.MarkFetched(ctx, s.sessionID); err != nil {
		slog.Warn("failed to mark cart as fetched", "session_id", s.sessionID, "error", err.Error())
	}
}

func (s *CartStore) Fetched(ctx context.Context) bool {
	return s.persistence.Fetched(ctx, s.sessionID)
}

func (s *CartStore) Lines() []cart.Line { return s.cart.Lines() }

func (s *CartStore) Snapshot() cart.Snapshot { return s.cart.Snapshot() }

func (s *CartStore) commit(ctx context.Context, changes []cart.Change) error {
	if len(changes) == 0 {
		return nil
	}
	for _, change := range changes {
		if change.Quantity == 0 {
			delete(s.quotes, change.Key)
		}
	}
	s.save(ctx)
	return s.notify(ctx, changes)
}

func (s *CartStore) notify(ctx context.Context, changes []cart.Change) error {
	if len(changes) == 0 || s.listener == nil {
		return nil
	}
	return s.listener.CartChanged(ctx, changes)
}

// save never fails the mutation: the in-memory cart stays authoritative for
// the session and the next successful save catches persistence up.
func (s *CartStore) save(ctx context.Context) {
	if err := s.persistence.Save(ctx, s.sessionID, s.cart.Snapshot()); err != nil {
		slog.Warn("failed to persist cart", "session_id", s.sessionID, "error", err.Error())
	}
}
