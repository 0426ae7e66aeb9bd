package usecase

import (
	"cmp"
	"context"
	"log/slog"
	"slices"

	"cart-engine/internal/domain/cart"
	"cart-engine/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

type SyncState int

const (
	Anonymous SyncState = iota
	Authenticating
	Authenticated
)

func (s SyncState) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

type Transition struct {
	SessionID string
	From      SyncState
	To        SyncState
}

// SyncCoordinator keeps a session's local cart and the account cart in step.
// On login the remote cart is merged with the local one and pushed back in a
// single batch; while authenticated every local change is pushed as absolute
// quantities. A failed push never rolls the local cart back.
type SyncCoordinator struct {
	state        SyncState
	principal    Principal
	mergePending bool
	pending      map[cart.Key]int

	store     *CartStore
	remote    RemoteCart
	tokens    TokenValidator
	pricing   PricingService
	observers []func(Transition)
}

func NewSyncCoordinator(store *CartStore, remote RemoteCart, tokens TokenValidator, pricing PricingService) *SyncCoordinator {
	c := &SyncCoordinator{
		state:   Anonymous,
		pending: make(map[cart.Key]int),
		store:   store,
		remote:  remote,
		tokens:  tokens,
		pricing: pricing,
	}
	store.SetListener(c)
	return c
}

func (c *SyncCoordinator) State() SyncState { return c.state }

// Pending reports whether local changes are waiting for a successful push.
func (c *SyncCoordinator) Pending() bool {
	return c.mergePending || len(c.pending) > 0
}

// OnTransition registers an observer called synchronously after every state
// change. Observers must not call back into the session.
func (c *SyncCoordinator) OnTransition(fn func(Transition)) {
	c.observers = append(c.observers, fn)
}

// BeginLogin is called once the credentials were accepted upstream.
func (c *SyncCoordinator) BeginLogin() error {
	if c.state != Anonymous {
		return errs.Wrapf(errs.ErrInvalidTransition, "begin login from %s", c.state)
	}
	c.transition(Authenticating)
	return nil
}

// AbandonLogin returns an unfinished login to Anonymous.
func (c *SyncCoordinator) AbandonLogin() error {
	if c.state != Authenticating {
		return errs.Wrapf(errs.ErrInvalidTransition, "abandon login from %s", c.state)
	}
	c.transition(Anonymous)
	return nil
}

// CompleteLogin validates the session token and merges the carts. A network
// failure still authenticates the session but leaves the merge pending for
// Flush; a cancelled ctx abandons the login with the local cart untouched.
func (c *SyncCoordinator) CompleteLogin(ctx context.Context, token string) error {
	if c.state != Authenticating {
		return errs.Wrapf(errs.ErrInvalidTransition, "complete login from %s", c.state)
	}

	userID, err := c.tokens.ValidateToken(token)
	if err != nil {
		c.transition(Anonymous)
		return errs.Mark(errs.Wrap(err, "validate session token"), errs.ErrInvalidToken)
	}
	if err := ctx.Err(); err != nil {
		c.transition(Anonymous)
		return errs.Mark(err, errs.ErrLoginAbandoned)
	}

	c.principal = Principal{UserID: userID, Token: token}
	if err := c.merge(ctx); err != nil {
		if ctx.Err() != nil {
			c.principal = Principal{}
			c.transition(Anonymous)
			return errs.Mark(err, errs.ErrLoginAbandoned)
		}
		slog.Warn("login merge failed, will retry on flush",
			"session_id", c.store.SessionID(), "user_id", userID, "error", err.Error())
		c.mergePending = true
		c.transition(Authenticated)
		return errs.Mark(err, errs.ErrRemoteSync)
	}

	c.transition(Authenticated)
	return nil
}

// Logout keeps the local cart and drops anything not yet pushed.
func (c *SyncCoordinator) Logout() {
	if c.state == Anonymous {
		return
	}
	c.principal = Principal{}
	c.mergePending = false
	clear(c.pending)
	c.transition(Anonymous)
}

// Flush retries whatever a previous push left behind.
func (c *SyncCoordinator) Flush(ctx context.Context) error {
	if c.state != Authenticated {
		return nil
	}
	if c.mergePending {
		if err := c.merge(ctx); err != nil {
			return errs.Mark(err, errs.ErrRemoteSync)
		}
		return nil
	}
	return c.push(ctx)
}

// CartChanged implements ChangeListener.
func (c *SyncCoordinator) CartChanged(ctx context.Context, changes []cart.Change) error {
	if c.state != Authenticated || c.mergePending {
		return nil
	}
	for _, change := range changes {
		c.pending[change.Key] = change.Quantity
	}
	return c.push(ctx)
}

func (c *SyncCoordinator) merge(ctx context.Context) error {
	remoteLines, err := c.remote.Fetch(ctx, c.principal)
	if err != nil {
		return errs.Wrap(err, "fetch remote cart")
	}

	base, unpriced := fromRemoteLines(remoteLines)
	local := c.store.Lines()
	prices := localPrices(local)
	merged := cart.Merge(base, local)
	for i := range merged {
		if price, ok := prices[merged[i].Key()]; ok {
			merged[i].UnitPrice = price
			delete(unpriced, merged[i].Key())
		}
	}

	hydrated, err := c.pricing.HydratePrices(ctx, merged, unpriced)
	if err != nil {
		return err
	}

	items := toRemoteItems(hydrated)
	items = append(items, droppedItems(merged, hydrated)...)
	if err := c.remote.Upsert(ctx, c.principal, items); err != nil {
		return errs.Wrap(err, "push merged cart")
	}

	// Not pushed back: merged is already the remote state.
	if err := c.store.ReplaceAll(ctx, hydrated); err != nil {
		return err
	}
	c.mergePending = false
	clear(c.pending)
	c.store.MarkFetched(ctx)
	if err := c.store.Reprice(ctx); err != nil {
		slog.Warn("failed to reprice merged cart", "session_id", c.store.SessionID(), "error", err.Error())
	}
	return nil
}

func (c *SyncCoordinator) push(ctx context.Context) error {
	if len(c.pending) == 0 {
		return nil
	}

	items := make([]RemoteItem, 0, len(c.pending))
	for key, quantity := range c.pending {
		items = append(items, RemoteItem{ProductID: key.ProductID, VariantKey: key.VariantKey, Quantity: quantity})
	}
	slices.SortFunc(items, compareItems)

	if err := c.remote.Upsert(ctx, c.principal, items); err != nil {
		slog.Warn("failed to push cart changes",
			"session_id", c.store.SessionID(), "pending", len(items), "error", err.Error())
		return errs.Mark(errs.Wrap(err, "push cart changes"), errs.ErrRemoteSync)
	}
	clear(c.pending)
	return nil
}

func (c *SyncCoordinator) transition(to SyncState) {
	if c.state == to {
		return
	}
	t := Transition{SessionID: c.store.SessionID(), From: c.state, To: to}
	c.state = to
	slog.Info("sync state changed", "session_id", t.SessionID, "from", t.From.String(), "to", t.To.String())
	for _, fn := range c.observers {
		fn(t)
	}
}

func toRemoteItems(lines []cart.Line) []RemoteItem {
	items := make([]RemoteItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, RemoteItem{ProductID: line.ProductID, VariantKey: line.VariantKey, Quantity: line.Quantity})
	}
	return items
}

// fromRemoteLines normalizes the account cart and reports the keys whose
// first valid entry came without a price.
func fromRemoteLines(remote []RemoteLine) ([]cart.Line, map[cart.Key]bool) {
	lines := make([]cart.Line, 0, len(remote))
	unpriced := make(map[cart.Key]bool)
	seen := make(map[cart.Key]bool, len(remote))
	for _, r := range remote {
		line := cart.Line{ProductID: r.ProductID, VariantKey: r.VariantKey, Quantity: r.Quantity}
		if r.UnitPrice != nil {
			line.UnitPrice = *r.UnitPrice
		}
		if line.Validate() != nil {
			continue
		}
		if !seen[line.Key()] {
			seen[line.Key()] = true
			unpriced[line.Key()] = r.UnitPrice == nil
		}
		lines = append(lines, line)
	}
	for key, missing := range unpriced {
		if !missing {
			delete(unpriced, key)
		}
	}
	return cart.Normalize(lines), unpriced
}

// localPrices indexes the price snapshots of the local cart. They win over
// remote prices on merge.
func localPrices(local []cart.Line) map[cart.Key]decimal.Decimal {
	prices := make(map[cart.Key]decimal.Decimal, len(local))
	for _, line := range local {
		prices[line.Key()] = line.UnitPrice
	}
	return prices
}

// droppedItems deletes remotely the merged keys that did not survive hydration.
func droppedItems(merged, kept []cart.Line) []RemoteItem {
	survivors := make(map[cart.Key]bool, len(kept))
	for _, line := range kept {
		survivors[line.Key()] = true
	}
	var items []RemoteItem
	for _, line := range merged {
		if !survivors[line.Key()] {
			items = append(items, RemoteItem{ProductID: line.ProductID, VariantKey: line.VariantKey})
		}
	}
	return items
}

func compareItems(a, b RemoteItem) int {
	if c := cmp.Compare(a.ProductID, b.ProductID); c != 0 {
		return c
	}
	return cmp.Compare(a.VariantKey, b.VariantKey)
}
