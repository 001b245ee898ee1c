package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"crashcourse/internal/game"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// StatusError is returned for any non-2xx answer from the API.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api status %d: %s", e.Status, e.Body)
}

type InstrumentSummary struct {
	Instrument int                `json:"instrument"`
	Name       string             `json:"name"`
	Summary    game.SeriesSummary `json:"summary"`
}

type Summary struct {
	Day         int                 `json:"day"`
	Instruments []InstrumentSummary `json:"instruments"`
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) Health(ctx context.Context) error {
	return c.jsonRequest(ctx, http.MethodGet, "/healthz", nil, nil)
}

func (c *Client) State(ctx context.Context) (game.Snapshot, error) {
	var out game.Snapshot
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/state", nil, &out)
	return out, err
}

func (c *Client) Summary(ctx context.Context) (Summary, error) {
	var out Summary
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/summary", nil, &out)
	return out, err
}

func (c *Client) Prices(ctx context.Context, index int) (game.PriceHistory, error) {
	var out game.PriceHistory
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/instruments/"+strconv.Itoa(index)+"/prices", nil, &out)
	return out, err
}

func (c *Client) Buy(ctx context.Context, index int) (game.TradeResult, error) {
	var out game.TradeResult
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/instruments/"+strconv.Itoa(index)+"/buy", nil, &out)
	return out, err
}

func (c *Client) Sell(ctx context.Context, index int) (game.TradeResult, error) {
	var out game.TradeResult
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/instruments/"+strconv.Itoa(index)+"/sell", nil, &out)
	return out, err
}

func (c *Client) PlaceOrder(ctx context.Context, side game.TradeSide, index int) (game.TradeResult, error) {
	var out game.TradeResult
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/orders", map[string]any{
		"side":       string(side),
		"instrument": index,
	}, &out)
	return out, err
}

func (c *Client) Scores(ctx context.Context, limit int) ([]game.ScoreRow, error) {
	path := "/v1/scores"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var out struct {
		Rows []game.ScoreRow `json:"rows"`
	}
	err := c.jsonRequest(ctx, http.MethodGet, path, nil, &out)
	return out.Rows, err
}

func (c *Client) jsonRequest(ctx context.Context, method, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
