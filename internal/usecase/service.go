package usecase

//go:generate mockgen -source=service.go -destination=mocks/mock_service.go -package=mocks

import (
	"context"
	"log/slog"

	"cart-engine/internal/domain/cart"

	"github.com/shopspring/decimal"
)

// CartService drives a session's cart. Mutations return the updated view even
// when the error is errs.ErrRemoteSync, since the local change was kept.
type CartService interface {
	Get(ctx context.Context, sessionID string) (CartView, error)
	AddItem(ctx context.Context, sessionID, productID, variantKey string, quantity int) (CartView, error)
	SetQuantity(ctx context.Context, sessionID string, key cart.Key, quantity int) (CartView, error)
	RemoveItem(ctx context.Context, sessionID string, key cart.Key) (CartView, error)
	Increment(ctx context.Context, sessionID string, key cart.Key, available int) (CartView, bool, error)
	Decrement(ctx context.Context, sessionID string, key cart.Key) (CartView, error)
	Clear(ctx context.Context, sessionID string) (CartView, error)
	ApplyReward(ctx context.Context, sessionID string, value decimal.Decimal) (CartView, error)
	ClearReward(ctx context.Context, sessionID string) (CartView, error)
	Checkout(ctx context.Context, sessionID string) (Checkout, error)
}

// SessionService moves a session through the login lifecycle.
type SessionService interface {
	BeginLogin(ctx context.Context, sessionID string) (CartView, error)
	CompleteLogin(ctx context.Context, sessionID, token string) (CartView, error)
	AbandonLogin(ctx context.Context, sessionID string) (CartView, error)
	Logout(ctx context.Context, sessionID string) (CartView, error)
	Flush(ctx context.Context, sessionID string) (CartView, error)
}

type cartServiceImpl struct {
	sessions *SessionRegistry
}

func NewCartService(sessions *SessionRegistry) CartService {
	return &cartServiceImpl{sessions: sessions}
}

type sessionServiceImpl struct {
	sessions *SessionRegistry
}

func NewSessionService(sessions *SessionRegistry) SessionService {
	return &sessionServiceImpl{sessions: sessions}
}

func (s *cartServiceImpl) Get(ctx context.Context, sessionID string) (CartView, error) {
	return within(ctx, s.sessions, sessionID, func(store *CartStore, _ *SyncCoordinator) error {
		repriceQuietly(ctx, store)
		return nil
	})
}

func (s *cartServiceImpl) AddItem(ctx context.Context, sessionID, productID, variantKey string, quantity int) (CartView, error) {
	return within(ctx, s.sessions, sessionID, func(store *CartStore, _ *SyncCoordinator) error {
		return store.AddProduct(ctx, productID, variantKey, quantity)
	})
}

func (s *cartServiceImpl) SetQuantity(ctx context.Context, sessionID string, key cart.Key, quantity int) (CartView, error) {
	return within(ctx, s.sessions, sessionID, func(store *CartStore, _ *SyncCoordinator) error {
		return store.SetQuantity(ctx, key, quantity)
	})
}

func (s *cartServiceImpl) RemoveItem(ctx context.Context, sessionID string, key cart.Key) (CartView, error) {
	return within(ctx, s.sessions, sessionID, func(store *CartStore, _ *SyncCoordinator) error {
		return store.Remove(ctx, key)
	})
}

func (s *cartServiceImpl) Increment(ctx context.Context, sessionID string, key cart.Key, available int) (CartView, bool, error) {
	var changed bool
	view, err := within(ctx, s.sessions, sessionID, func(store *CartStore, _ *SyncCoordinator) error {
		var err error
		changed, err = store.Increment(ctx, key, available)
		return err
	})
	return view, changed, err
}

func (s *cartServiceImpl) Decrement(ctx context.Context, sessionID string, key cart.Key) (CartView, error) {
	return within(ctx, s.sessions, sessionID, func(store *CartStore, _ *SyncCoordinator) error {
		return store.Decrement(ctx, key)
	})
}

func (s *cartServiceImpl) Clear(ctx context.Context, sessionID string) (CartView, error) {
	return within(ctx, s.sessions, sessionID, func(store *CartStore, _ *SyncCoordinator) error {
		return store.Clear(ctx)
	})
}

func (s *cartServiceImpl) ApplyReward(ctx context.Context, sessionID string, value decimal.Decimal) (CartView, error) {
	return within(ctx, s.sessions, sessionID, func(store *CartStore, _ *SyncCoordinator) error {
		return store.ApplyReward(ctx, value)
	})
}

func (s *cartServiceImpl) ClearReward(ctx context.Context, sessionID string) (CartView, error) {
	return within(ctx, s.sessions, sessionID, func(store *CartStore, _ *SyncCoordinator) error {
		store.ClearReward(ctx)
		return nil
	})
}

func (s *cartServiceImpl) Checkout(ctx context.Context, sessionID string) (Checkout, error) {
	var out Checkout
	err := s.sessions.With(ctx, sessionID, func(store *CartStore, _ *SyncCoordinator) error {
		repriceQuietly(ctx, store)
		out = store.checkout()
		return nil
	})
	return out, err
}

func (s *sessionServiceImpl) BeginLogin(ctx context.Context, sessionID string) (CartView, error) {
	return within(ctx, s.sessions, sessionID, func(_ *CartStore, sync *SyncCoordinator) error {
		return sync.BeginLogin()
	})
}

func (s *sessionServiceImpl) CompleteLogin(ctx context.Context, sessionID, token string) (CartView, error) {
	return within(ctx, s.sessions, sessionID, func(_ *CartStore, sync *SyncCoordinator) error {
		return sync.CompleteLogin(ctx, token)
	})
}

func (s *sessionServiceImpl) AbandonLogin(ctx context.Context, sessionID string) (CartView, error) {
	return within(ctx, s.sessions, sessionID, func(_ *CartStore, sync *SyncCoordinator) error {
		return sync.AbandonLogin()
	})
}

func (s *sessionServiceImpl) Logout(ctx context.Context, sessionID string) (CartView, error) {
	return within(ctx, s.sessions, sessionID, func(_ *CartStore, sync *SyncCoordinator) error {
		sync.Logout()
		return nil
	})
}

func (s *sessionServiceImpl) Flush(ctx context.Context, sessionID string) (CartView, error) {
	return within(ctx, s.sessions, sessionID, func(_ *CartStore, sync *SyncCoordinator) error {
		return sync.Flush(ctx)
	})
}

func within(
	ctx context.Context,
	sessions *SessionRegistry,
	sessionID string,
	fn func(*CartStore, *SyncCoordinator) error,
) (CartView, error) {
	var view CartView
	err := sessions.With(ctx, sessionID, func(store *CartStore, sync *SyncCoordinator) error {
		err := fn(store, sync)
		view = store.view()
		view.Fetched = store.Fetched(ctx)
		view.SyncState = sync.State()
		view.SyncPending = sync.Pending()
		return err
	})
	return view, err
}

func repriceQuietly(ctx context.Context, store *CartStore) {
	if err := store.Reprice(ctx); err != nil {
		slog.Warn("serving cart with last known discounts", "session_id", store.SessionID(), "error", err.Error())
	}
}
