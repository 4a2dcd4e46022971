package skins

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"skinledger/core/detail"
)

func testProviderConfig(serverURL string) Config {
	return Config{
		InventoryURL:   serverURL,
		PriceURL:       serverURL,
		DetailURL:      serverURL,
		TimeoutSeconds: 5,
	}
}

func TestPriceAPIFetchDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/prices/steam", r.URL.Path)
		assert.Equal(t, "pricekit", r.URL.Query().Get("source"))
		w.Write([]byte(`{"AK-47 | Redline (Field-Tested)": 12.5}`))
	}))
	defer srv.Close()

	api := NewPriceAPI(testProviderConfig(srv.URL), zap.NewNop())
	doc, err := api.FetchDocument(context.Background(), "steam", "pricekit")

	require.NoError(t, err)
	assert.Equal(t, 1, doc.Len())
	assert.True(t, doc.Has("AK-47 | Redline (Field-Tested)"))
}

func TestPriceAPIFetchDocumentErrors(t *testing.T) {
	t.Run("BadStatus", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		api := NewPriceAPI(testProviderConfig(srv.URL), zap.NewNop())
		_, err := api.FetchDocument(context.Background(), "steam", "pricekit")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected status 502")
	})

	t.Run("BadJSON", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		}))
		defer srv.Close()

		api := NewPriceAPI(testProviderConfig(srv.URL), zap.NewNop())
		_, err := api.FetchDocument(context.Background(), "steam", "pricekit")
		require.Error(t, err)
	})
}

func TestInventoryAPIFetchInventory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/inventory/7656119", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Write([]byte(`{
			"assets": [
				{"market_hash_name": "Chroma 2 Case", "amount": 4, "assetid": "a1"},
				{"market_hash_name": "AK-47 | Redline (Field-Tested)", "assetid": "a2",
				 "inspect_link": "steam://inspect/a2", "float_value": 0.21, "paint_seed": 333}
			],
			"total_inventory_count": 2
		}`))
	}))
	defer srv.Close()

	api := NewInventoryAPI(testProviderConfig(srv.URL), zap.NewNop())
	inv, err := api.FetchInventory(context.Background(), "7656119", "secret")

	require.NoError(t, err)
	assert.Equal(t, 2, inv.Returned)
	assert.Equal(t, 2, inv.ExpectedTotal)
	assert.False(t, inv.Partial())
	require.Len(t, inv.Items, 2)

	assert.Equal(t, "Chroma 2 Case", inv.Items[0].Name)
	assert.Equal(t, 4, inv.Items[0].Quantity)
	assert.Equal(t, "a1", inv.Items[0].InstanceID)

	assert.Equal(t, 1, inv.Items[1].Quantity, "missing amount defaults to a single unit")
	assert.Equal(t, "steam://inspect/a2", inv.Items[1].DetailHandle)
	require.NotNil(t, inv.Items[1].Condition)
	assert.InDelta(t, 0.21, *inv.Items[1].Condition, 1e-9)
	assert.Equal(t, 333, inv.Items[1].PatternSeed)
}

func TestInventoryAPIDetectsPartialResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"assets": [{"market_hash_name": "Chroma 2 Case", "amount": 1, "assetid": "a1"}],
			"total_inventory_count": 250,
			"more_items": 1
		}`))
	}))
	defer srv.Close()

	api := NewInventoryAPI(testProviderConfig(srv.URL), zap.NewNop())
	inv, err := api.FetchInventory(context.Background(), "7656119", "")

	require.NoError(t, err)
	assert.True(t, inv.Partial())
}

func TestDetailAPIFetchDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "steam://inspect/x", r.URL.Query().Get("url"))
		w.Write([]byte(`{"iteminfo": {"floatvalue": 0.015, "paintseed": 387, "phase": "Phase 2"}}`))
	}))
	defer srv.Close()

	provider := NewDetailFactory(testProviderConfig(srv.URL))()
	rec, err := provider.FetchDetail(context.Background(), "steam://inspect/x")

	require.NoError(t, err)
	require.NotNil(t, rec.Condition)
	assert.InDelta(t, 0.015, *rec.Condition, 1e-9)
	assert.Equal(t, 387, rec.PatternSeed)
	assert.Equal(t, "Phase 2", rec.Phase)
}

func TestDetailAPIStatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{"NotFound", http.StatusNotFound, detail.ErrUnavailable},
		{"RateLimited", http.StatusTooManyRequests, detail.ErrRateLimited},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			provider := NewDetailFactory(testProviderConfig(srv.URL))()
			_, err := provider.FetchDetail(context.Background(), "steam://inspect/x")
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDetailFactoryBuildsFreshProviders(t *testing.T) {
	factory := NewDetailFactory(testProviderConfig("http://localhost"))
	first := factory()
	second := factory()
	assert.NotSame(t, first, second)
}
