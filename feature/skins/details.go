package skins

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"skinledger/core/detail"
)

// DetailAPI resolves inspect links into float, pattern and phase data.
// It implements detail.Provider.
type DetailAPI struct {
	baseURL string
	client  *http.Client
}

// NewDetailFactory returns a detail.ProviderFactory that builds a fresh
// client, and therefore a fresh transport, for every attempt.
func NewDetailFactory(cfg Config) detail.ProviderFactory {
	return func() detail.Provider {
		return &DetailAPI{
			baseURL: cfg.DetailURL,
			client:  &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		}
	}
}

type detailResponse struct {
	ItemInfo struct {
		FloatValue *float64 `json:"floatvalue"`
		PaintSeed  int      `json:"paintseed"`
		Phase      string   `json:"phase"`
	} `json:"iteminfo"`
}

// FetchDetail resolves one inspect link. A 404 means the item has no
// detail record; 429 signals rate limiting to the retry loop.
func (p *DetailAPI) FetchDetail(ctx context.Context, handle string) (detail.Record, error) {
	endpoint := fmt.Sprintf("%s/?url=%s", p.baseURL, url.QueryEscape(handle))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return detail.Record{}, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return detail.Record{}, fmt.Errorf("fetch detail: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return detail.Record{}, detail.ErrUnavailable
	case http.StatusTooManyRequests:
		return detail.Record{}, fmt.Errorf("%w: status 429", detail.ErrRateLimited)
	default:
		return detail.Record{}, fmt.Errorf("fetch detail: unexpected status %d", resp.StatusCode)
	}

	var payload detailResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return detail.Record{}, fmt.Errorf("decode detail: %w", err)
	}
	return detail.Record{
		Condition:   payload.ItemInfo.FloatValue,
		PatternSeed: payload.ItemInfo.PaintSeed,
		Phase:       payload.ItemInfo.Phase,
	}, nil
}
