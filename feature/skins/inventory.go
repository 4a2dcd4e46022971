package skins

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"skinledger/core/reconcile"
)

// InventoryAPI fetches account inventories over HTTP. It implements
// reconcile.InventoryProvider.
type InventoryAPI struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

// NewInventoryAPI creates an inventory provider client.
func NewInventoryAPI(cfg Config, log *zap.Logger) *InventoryAPI {
	return &InventoryAPI{
		baseURL: cfg.InventoryURL,
		client:  &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		log:     log,
	}
}

type inventoryItem struct {
	MarketName  string   `json:"market_hash_name"`
	Amount      int      `json:"amount"`
	AssetID     string   `json:"assetid"`
	InspectLink string   `json:"inspect_link"`
	FloatValue  *float64 `json:"float_value,omitempty"`
	PaintSeed   int      `json:"paint_seed,omitempty"`
	Phase       string   `json:"phase,omitempty"`
}

type inventoryResponse struct {
	Items       []inventoryItem `json:"assets"`
	TotalCount  int             `json:"total_inventory_count"`
	MoreItems   int             `json:"more_items"`
	LastAssetID string          `json:"last_assetid"`
}

// FetchInventory retrieves the ordered inventory snapshot for one
// account. Returned counters let the engine detect held-back results.
func (p *InventoryAPI) FetchInventory(ctx context.Context, accountID, credential string) (reconcile.Inventory, error) {
	endpoint := fmt.Sprintf("%s/inventory/%s", p.baseURL, url.PathEscape(accountID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return reconcile.Inventory{}, err
	}
	if credential != "" {
		req.Header.Set("Authorization", "Bearer "+credential)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return reconcile.Inventory{}, fmt.Errorf("fetch inventory for %s: %w", accountID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return reconcile.Inventory{}, fmt.Errorf("fetch inventory for %s: unexpected status %d", accountID, resp.StatusCode)
	}

	var payload inventoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return reconcile.Inventory{}, fmt.Errorf("decode inventory for %s: %w", accountID, err)
	}

	inv := reconcile.Inventory{
		Returned:      len(payload.Items),
		ExpectedTotal: payload.TotalCount,
	}
	for _, it := range payload.Items {
		qty := it.Amount
		if qty < 1 {
			qty = 1
		}
		inv.Items = append(inv.Items, reconcile.Item{
			Name:         it.MarketName,
			Quantity:     qty,
			InstanceID:   it.AssetID,
			DetailHandle: it.InspectLink,
			Condition:    it.FloatValue,
			PatternSeed:  it.PaintSeed,
			Phase:        it.Phase,
		})
	}

	p.log.Info("inventory fetched",
		zap.String("account", accountID),
		zap.Int("returned", inv.Returned),
		zap.Int("expected", inv.ExpectedTotal))
	return inv, nil
}
