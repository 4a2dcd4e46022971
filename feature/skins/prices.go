package skins

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"skinledger/core/pricing"
)

// maxDocumentBytes caps a market document download; the biggest real
// documents run a few megabytes.
const maxDocumentBytes = 64 << 20

// PriceAPI fetches per-market price documents over HTTP. It implements
// marketcache.Fetcher.
type PriceAPI struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

// NewPriceAPI creates a market data provider client.
func NewPriceAPI(cfg Config, log *zap.Logger) *PriceAPI {
	return &PriceAPI{
		baseURL: cfg.PriceURL,
		client:  &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		log:     log,
	}
}

// FetchDocument downloads the raw price document for one market.
func (p *PriceAPI) FetchDocument(ctx context.Context, market, provider string) (pricing.Document, error) {
	endpoint := fmt.Sprintf("%s/v1/prices/%s?source=%s",
		p.baseURL, url.PathEscape(market), url.QueryEscape(provider))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return pricing.Document{}, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return pricing.Document{}, fmt.Errorf("fetch prices for %s: %w", market, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return pricing.Document{}, fmt.Errorf("fetch prices for %s: unexpected status %d", market, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return pricing.Document{}, fmt.Errorf("read prices for %s: %w", market, err)
	}

	doc, err := pricing.ParseDocument(raw)
	if err != nil {
		return pricing.Document{}, fmt.Errorf("parse prices for %s: %w", market, err)
	}
	p.log.Debug("market document fetched",
		zap.String("market", market),
		zap.Int("entries", doc.Len()))
	return doc, nil
}
