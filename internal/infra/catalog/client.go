// Package catalog talks to the product catalog service.
package catalog

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"cart-engine/internal/domain/promotion"
	"cart-engine/internal/infra"
	"cart-engine/internal/pkg/config"
	"cart-engine/internal/usecase"

	"github.com/shopspring/decimal"
)

const maxBodyBytes = 4 << 20

type productDTO struct {
	ID         string          `json:"id"`
	BrandID    string          `json:"brandId"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Promotions []promotion.Raw `json:"promotions"`
}

type productsResponse struct {
	Products []productDTO `json:"products"`
}

// Client fetches products with GET {base}/products?ids=a,b,c.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

func NewClient(cfg config.CatalogConfig, logger *slog.Logger) *Client {
	return NewClientWithHTTP(cfg.BaseURL, &http.Client{Timeout: cfg.Timeout}, logger)
}

func NewClientWithHTTP(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    httpClient,
		logger:  logger,
	}
}

var _ usecase.Catalog = (*Client)(nil)

// FetchByIDs returns the products the catalog knows; unknown ids are simply
// missing from the result.
func (c *Client) FetchByIDs(ctx context.Context, ids []string) ([]usecase.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := url.Values{}
	query.Set("ids", strings.Join(ids, ","))
	endpoint := c.baseURL + "/products?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, infra.WrapRepoErr(c.logger, infra.KindUpstreamFailure, "build catalog request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, infra.WrapRepoErr(c.logger, infra.KindUpstreamFailure, "catalog request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, infra.WrapRepoErr(c.logger, infra.KindUpstreamFailure, "catalog responded "+resp.Status, nil)
	}

	var body productsResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&body); err != nil {
		return nil, infra.WrapRepoErr(c.logger, infra.KindMalformed, "decode catalog response", err)
	}

	products := make([]usecase.Product, 0, len(body.Products))
	for _, p := range body.Products {
		if p.ID == "" || p.Price.IsNegative() {
			c.logger.Warn("skipping unusable catalog product", "product_id", p.ID)
			continue
		}
		products = append(products, usecase.Product{
			ID:         p.ID,
			BrandID:    p.BrandID,
			Name:       p.Name,
			Price:      p.Price,
			Promotions: p.Promotions,
		})
	}
	return products, nil
}
