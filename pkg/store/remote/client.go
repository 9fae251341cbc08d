// Package remote is the HTTP client for the freight back office, the
// system of record batches are committed to and orders are read back from.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/freight-tools/loadsheet/pkg/adapters"
	"github.com/freight-tools/loadsheet/pkg/models/domain"
	"github.com/freight-tools/loadsheet/pkg/models/store"
)

const defaultTimeout = 30 * time.Second

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// CommitBatch submits the whole batch in one request. Any remote rejection
// comes back as a CommitFailure carrying the remote's message verbatim.
func (c *Client) CommitBatch(ctx context.Context, batch *domain.Batch) (int, error) {
	logger := zerolog.Ctx(ctx)

	payload, err := json.Marshal(adapters.MapBatchDomainToStore(batch))
	if err != nil {
		return 0, fmt.Errorf("failed to marshal batch %s: %w", batch.ID, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/v1/batches", bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		logger.Warn().Err(err).Str("batch_id", batch.ID).Msg("batch commit request failed")
		return 0, &domain.CommitFailure{BatchID: batch.ID, Message: err.Error()}
	}
	defer closeBody(logger, resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, &domain.CommitFailure{BatchID: batch.ID, Status: resp.StatusCode, Message: err.Error()}
	}

	var ack store.BatchResponse
	if err := json.Unmarshal(body, &ack); err != nil {
		return 0, &domain.CommitFailure{
			BatchID: batch.ID,
			Status:  resp.StatusCode,
			Message: strings.TrimSpace(string(body)),
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !ack.Success {
		msg := ack.ErrorMessage
		if msg == "" {
			msg = strings.TrimSpace(string(body))
		}
		return 0, &domain.CommitFailure{BatchID: batch.ID, Status: resp.StatusCode, Message: msg}
	}
	return ack.AcceptedCount, nil
}

// QueryOrders fetches the committed order set reports run over.
func (c *Client) QueryOrders(ctx context.Context) ([]domain.Order, error) {
	var res store.OrderQueryResponse
	if err := c.get(ctx, "/api/v1/orders", &res); err != nil {
		return nil, err
	}
	orders := make([]domain.Order, 0, len(res.Items))
	for _, o := range res.Items {
		orders = append(orders, adapters.MapOrderStoreToDomain(o))
	}
	return orders, nil
}

// QueryPrices fetches the current price configuration.
func (c *Client) QueryPrices(ctx context.Context) ([]domain.PriceEntry, error) {
	var res store.PriceQueryResponse
	if err := c.get(ctx, "/api/v1/prices", &res); err != nil {
		return nil, err
	}
	prices := make([]domain.PriceEntry, 0, len(res.Items))
	for _, p := range res.Items {
		prices = append(prices, adapters.MapPriceEntryStoreToDomain(p))
	}
	return prices, nil
}

// PriceIndex builds a route lookup over the current price configuration.
func (c *Client) PriceIndex(ctx context.Context) (*domain.PriceIndex, error) {
	prices, err := c.QueryPrices(ctx)
	if err != nil {
		return nil, err
	}
	return domain.NewPriceIndex(prices), nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	logger := zerolog.Ctx(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("query request failed")
		return &domain.QueryFailure{Message: err.Error()}
	}
	defer closeBody(logger, resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.QueryFailure{Status: resp.StatusCode, Message: err.Error()}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &domain.QueryFailure{
			Status:  resp.StatusCode,
			Message: strings.TrimSpace(string(body)),
		}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &domain.QueryFailure{Status: resp.StatusCode, Message: err.Error()}
	}
	return nil
}

func closeBody(logger *zerolog.Logger, body io.ReadCloser) {
	if err := body.Close(); err != nil {
		logger.Warn().Err(err).Msg("failed to close response body")
	}
}
