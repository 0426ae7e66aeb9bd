package usecase

//go:generate mockgen -source=ports.go -destination=mocks/mock_ports.go -package=mocks

import (
	"context"

	"cart-engine/internal/domain/cart"
	"cart-engine/internal/domain/promotion"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartPersistence stores one cart snapshot per browser session. Load never
// fails: missing or unreadable data is reported as absent.
type CartPersistence interface {
	Load(ctx context.Context, sessionID string) (cart.Snapshot, bool)
	Save(ctx context.Context, sessionID string, snapshot cart.Snapshot) error
	Clear(ctx context.Context, sessionID string) error
	MarkFetched(ctx context.Context, sessionID string) error
	Fetched(ctx context.Context, sessionID string) bool
}

type Product struct {
	ID         string
	BrandID    string
	Name       string
	Price      decimal.Decimal
	Promotions []promotion.Raw
}

type Catalog interface {
	FetchByIDs(ctx context.Context, ids []string) ([]Product, error)
}

// Principal is the authenticated account a session pushes its cart to.
type Principal struct {
	UserID uuid.UUID
	Token  string
}

// RemoteItem carries an absolute quantity; 0 deletes the line remotely.
type RemoteItem struct {
	ProductID  string
	VariantKey string
	Quantity   int
}

// RemoteLine is one entry of the account cart. UnitPrice is nil when the
// backend does not store prices.
type RemoteLine struct {
	ProductID  string
	VariantKey string
	Quantity   int
	UnitPrice  *decimal.Decimal
}

type RemoteCart interface {
	Fetch(ctx context.Context, principal Principal) ([]RemoteLine, error)
	Upsert(ctx context.Context, principal Principal, items []RemoteItem) error
}

// ChangeListener receives the keys touched by a store mutation together with
// their new absolute quantities.
type ChangeListener interface {
	CartChanged(ctx context.Context, changes []cart.Change) error
}
