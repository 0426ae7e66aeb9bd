package usecase

import (
	"context"
	"log/slog"

	"cart-engine/internal/domain/cart"
	"cart-engine/internal/domain/promotion"
	"cart-engine/internal/pkg/errs"
)

// PricingService resolves catalog products and quotes cart lines against
// their promotions.
type PricingService interface {
	Lookup(ctx context.Context, productIDs []string) (map[string]Product, error)
	Quote(product Product, line cart.Line) promotion.Quote
	QuoteLines(ctx context.Context, lines []cart.Line) (map[cart.Key]promotion.Quote, error)
	HydratePrices(ctx context.Context, lines []cart.Line, missing map[cart.Key]bool) ([]cart.Line, error)
}

type pricingServiceImpl struct {
	catalog Catalog
	engine  *promotion.Engine
}

func NewPricingService(catalog Catalog, engine *promotion.Engine) PricingService {
	return &pricingServiceImpl{
		catalog: catalog,
		engine:  engine,
	}
}

func (p *pricingServiceImpl) Lookup(ctx context.Context, productIDs []string) (map[string]Product, error) {
	ids := uniqueIDs(productIDs)
	if len(ids) == 0 {
		return map[string]Product{}, nil
	}

	products, err := p.catalog.FetchByIDs(ctx, ids)
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "fetch catalog products"), errs.ErrCatalogFailed)
	}

	byID := make(map[string]Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}
	return byID, nil
}

// Quote prices one unit of line, using the line's own price snapshot as the base.
func (p *pricingServiceImpl) Quote(product Product, line cart.Line) promotion.Quote {
	promotions := promotion.DecodeAll(product.Promotions)
	for _, promo := range promotions {
		if err := promo.Err(); err != nil {
			slog.Debug("ignoring malformed promotion", "product_id", product.ID, "promotion_id", promo.ID(), "error", err.Error())
		}
	}

	subject := promotion.Subject{ProductID: product.ID, BrandID: product.BrandID}
	return p.engine.PriceFor(subject, line.UnitPrice, promotions)
}

// QuoteLines quotes every line in one catalog round trip. Lines whose product
// is no longer listed get an undiscounted quote.
func (p *pricingServiceImpl) QuoteLines(ctx context.Context, lines []cart.Line) (map[cart.Key]promotion.Quote, error) {
	products, err := p.Lookup(ctx, productIDs(lines))
	if err != nil {
		return nil, err
	}

	quotes := make(map[cart.Key]promotion.Quote, len(lines))
	for _, line := range lines {
		product, ok := products[line.ProductID]
		if !ok {
			quotes[line.Key()] = promotion.Quote{FinalPrice: line.UnitPrice}
			continue
		}
		quotes[line.Key()] = p.Quote(product, line)
	}
	return quotes, nil
}

// HydratePrices sets the catalog price on the lines whose key is in missing.
// Lines the catalog no longer lists are dropped. Other lines are never
// repriced, so a line priced at zero stays free.
func (p *pricingServiceImpl) HydratePrices(ctx context.Context, lines []cart.Line, missing map[cart.Key]bool) ([]cart.Line, error) {
	var ids []string
	for _, line := range lines {
		if missing[line.Key()] {
			ids = append(ids, line.ProductID)
		}
	}
	if len(ids) == 0 {
		return lines, nil
	}

	products, err := p.Lookup(ctx, ids)
	if err != nil {
		return nil, errs.Wrap(err, "hydrate line prices")
	}

	out := make([]cart.Line, 0, len(lines))
	for _, line := range lines {
		if !missing[line.Key()] {
			out = append(out, line)
			continue
		}
		product, ok := products[line.ProductID]
		if !ok {
			slog.Warn("dropping line without a catalog price", "product_id", line.ProductID, "variant_key", line.VariantKey)
			continue
		}
		line.UnitPrice = product.Price
		out = append(out, line)
	}
	return out, nil
}

func productIDs(lines []cart.Line) []string {
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}
	return ids
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
