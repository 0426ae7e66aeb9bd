// Package remotecart holds the account-cart backends a signed-in session
// synchronizes with.
package remotecart

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"cart-engine/internal/infra"
	"cart-engine/internal/pkg/config"
	"cart-engine/internal/usecase"

	"github.com/shopspring/decimal"
)

const maxBodyBytes = 4 << 20

type itemDTO struct {
	ProductID  string           `json:"productId"`
	VariantKey string           `json:"variantKey"`
	Quantity   int              `json:"quantity"`
	UnitPrice  *decimal.Decimal `json:"unitPrice,omitempty"`
}

type itemsBody struct {
	Items []itemDTO `json:"items"`
}

// HTTPClient talks to the account cart endpoint:
//
//	GET {base}/cart         -> {"items":[...]}
//	PUT {base}/cart/items   <- {"items":[...]} absolute quantities, 0 deletes
//
// Both requests carry the session token as a bearer credential.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

func NewHTTPClient(cfg config.RemoteCartConfig, logger *slog.Logger) *HTTPClient {
	return NewHTTPClientWith(cfg.BaseURL, &http.Client{Timeout: cfg.Timeout}, logger)
}

func NewHTTPClientWith(baseURL string, httpClient *http.Client, logger *slog.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    httpClient,
		logger:  logger,
	}
}

var _ usecase.RemoteCart = (*HTTPClient)(nil)

func (c *HTTPClient) Fetch(ctx context.Context, principal usecase.Principal) ([]usecase.RemoteLine, error) {
	resp, err := c.do(ctx, http.MethodGet, "/cart", principal, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var body itemsBody
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&body); err != nil {
		return nil, infra.WrapRepoErr(c.logger, infra.KindMalformed, "decode account cart", err)
	}

	lines := make([]usecase.RemoteLine, 0, len(body.Items))
	for _, item := range body.Items {
		lines = append(lines, usecase.RemoteLine{
			ProductID:  item.ProductID,
			VariantKey: item.VariantKey,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
		})
	}
	return lines, nil
}

func (c *HTTPClient) Upsert(ctx context.Context, principal usecase.Principal, items []usecase.RemoteItem) error {
	if len(items) == 0 {
		return nil
	}

	body := itemsBody{Items: make([]itemDTO, 0, len(items))}
	for _, item := range items {
		body.Items = append(body.Items, itemDTO{
			ProductID:  item.ProductID,
			VariantKey: item.VariantKey,
			Quantity:   item.Quantity,
		})
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return infra.WrapRepoErr(c.logger, infra.KindUpstreamFailure, "encode account cart items", err)
	}

	resp, err := c.do(ctx, http.MethodPut, "/cart/items", principal, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
	return nil
}

// do returns the response only for 2xx statuses; the caller closes the body.
func (c *HTTPClient) do(ctx context.Context, method, path string, principal usecase.Principal, payload []byte) (*http.Response, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, infra.WrapRepoErr(c.logger, infra.KindUpstreamFailure, "build account cart request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+principal.Token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, infra.WrapRepoErr(c.logger, infra.KindUpstreamFailure, "account cart request", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
	resp.Body.Close()

	kind := infra.KindUpstreamFailure
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		kind = infra.KindUnauthorized
	}
	return nil, infra.WrapRepoErr(c.logger, kind, method+" "+path+" responded "+resp.Status, nil)
}
