package highlow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/wonny/rsystem/internal/contracts"
	"github.com/wonny/rsystem/pkg/config"
	"github.com/wonny/rsystem/pkg/httputil"
	"github.com/wonny/rsystem/pkg/logger"
)

// Client talks to the high/low breakout API
// ⭐ SSOT: upstream API calls happen in this client only
type Client struct {
	bulk          *httputil.Client // snapshots and batch prices
	single        *httputil.Client // per-stock quote and candle lookups
	logger        *logger.Logger
	baseURL       string
	singleTimeout time.Duration
	bulkTimeout   time.Duration
}

// NewClient creates a new high/low API client.
// single may carry a rate limit; bulk should not.
func NewClient(cfg config.HighLowConfig, bulk, single *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		bulk:          bulk,
		single:        single,
		logger:        log,
		baseURL:       cfg.BaseURL,
		singleTimeout: cfg.SingleTimeout,
		bulkTimeout:   cfg.BulkTimeout,
	}
}

// FetchSnapshot fetches one breakout snapshot as raw rows
func (c *Client) FetchSnapshot(ctx context.Context, source contracts.Source) ([]contracts.RawRow, error) {
	if !source.Valid() {
		return nil, fmt.Errorf("fetch snapshot: unknown source %q", source)
	}

	endpoint := "/api/highlow/" + string(source)
	body, err := c.getJSON(ctx, c.bulk, endpoint, nil, c.bulkTimeout)
	if err != nil {
		return nil, err
	}

	rows, err := decodeRows(endpoint, body)
	if err != nil {
		return nil, err
	}

	if len(rows) > 0 && !anyHasKey(rows, "code") {
		return nil, fmt.Errorf("%s: no code field: %w", endpoint, ErrSchemaMismatch)
	}

	c.logger.WithFields(map[string]interface{}{
		"source": source,
		"count":  len(rows),
	}).Debug("Fetched snapshot")

	return rows, nil
}

// FetchBatchPrices fetches the bulk current-price list as raw rows
func (c *Client) FetchBatchPrices(ctx context.Context) ([]contracts.RawRow, error) {
	endpoint := "/api/highlow/batch"
	body, err := c.getJSON(ctx, c.bulk, endpoint, nil, c.bulkTimeout)
	if err != nil {
		return nil, err
	}

	rows, err := decodeRows(endpoint, body)
	if err != nil {
		return nil, err
	}

	c.logger.WithField("count", len(rows)).Debug("Fetched batch prices")
	return rows, nil
}

// FetchQuote fetches the single-stock record carrying current_price
func (c *Client) FetchQuote(ctx context.Context, code string) (contracts.RawRow, error) {
	endpoint := "/api/highlow"
	body, err := c.getJSON(ctx, c.single, endpoint, url.Values{"code": {code}}, c.singleTimeout)
	if err != nil {
		return nil, err
	}

	decoded, err := decodeAny(endpoint, body)
	if err != nil {
		return nil, err
	}

	obj, ok := decoded.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%s: expected object: %w", endpoint, ErrSchemaMismatch)
	}
	return contracts.RawRow(obj), nil
}

// FetchCandles fetches daily candles ordered oldest to newest.
// Bars without a parsable date or OHLC value are skipped.
func (c *Client) FetchCandles(ctx context.Context, code string) ([]contracts.Candle, error) {
	endpoint := "/api/candle"
	body, err := c.getJSON(ctx, c.single, endpoint, url.Values{"code": {code}}, c.singleTimeout)
	if err != nil {
		return nil, err
	}

	decoded, err := decodeAny(endpoint, body)
	if err != nil {
		return nil, err
	}

	obj, ok := decoded.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%s: expected object: %w", endpoint, ErrSchemaMismatch)
	}

	data, ok := obj["data"].([]interface{})
	if !ok {
		return nil, nil
	}

	candles := make([]contracts.Candle, 0, len(data))
	for _, item := range data {
		bar, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		candle, ok := parseCandle(bar)
		if !ok {
			continue
		}
		candles = append(candles, candle)
	}

	c.logger.WithFields(map[string]interface{}{
		"code":  code,
		"count": len(candles),
	}).Debug("Fetched candles")

	return candles, nil
}

// LatestClose returns the close of the most recent candle
func LatestClose(candles []contracts.Candle) (float64, bool) {
	if len(candles) == 0 {
		return 0, false
	}
	return candles[len(candles)-1].Close, true
}

// getJSON performs a bounded GET and returns the body of a 2xx response
func (c *Client) getJSON(ctx context.Context, hc *httputil.Client, endpoint string, params url.Values, timeout time.Duration) ([]byte, error) {
	fullURL := c.baseURL + endpoint
	if len(params) > 0 {
		fullURL = fmt.Sprintf("%s?%s", fullURL, params.Encode())
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := hc.Get(ctx, fullURL)
	if err != nil {
		return nil, &UpstreamError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{Endpoint: endpoint, Err: fmt.Errorf("read response body: %w", err)}
	}

	return body, nil
}

func decodeAny(endpoint string, body []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var decoded interface{}
	if err := dec.Decode(&decoded); err != nil {
		return nil, &UpstreamError{Endpoint: endpoint, Err: fmt.Errorf("decode response: %w", err)}
	}
	return decoded, nil
}

// decodeRows requires a JSON array of objects
func decodeRows(endpoint string, body []byte) ([]contracts.RawRow, error) {
	decoded, err := decodeAny(endpoint, body)
	if err != nil {
		return nil, err
	}

	if decoded == nil {
		return []contracts.RawRow{}, nil
	}

	items, ok := decoded.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%s: expected array: %w", endpoint, ErrSchemaMismatch)
	}

	rows := make([]contracts.RawRow, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%s: expected array of objects: %w", endpoint, ErrSchemaMismatch)
		}
		rows = append(rows, contracts.RawRow(obj))
	}
	return rows, nil
}

func anyHasKey(rows []contracts.RawRow, key string) bool {
	for _, row := range rows {
		if _, ok := row[key]; ok {
			return true
		}
	}
	return false
}

func parseCandle(bar map[string]interface{}) (contracts.Candle, bool) {
	date := ParseDate(bar["date"])
	if date == nil {
		return contracts.Candle{}, false
	}

	open, okOpen := ToFloat(bar["open"])
	high, okHigh := ToFloat(bar["high"])
	low, okLow := ToFloat(bar["low"])
	closePrice, okClose := ToFloat(bar["close"])
	if !okOpen || !okHigh || !okLow || !okClose {
		return contracts.Candle{}, false
	}

	return contracts.Candle{
		Date:  *date,
		Open:  open,
		High:  high,
		Low:   low,
		Close: closePrice,
	}, true
}
