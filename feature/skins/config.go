package skins

// Config holds the endpoints of the external skin data providers.
type Config struct {
	// InventoryURL is the base URL of the inventory provider.
	InventoryURL string `mapstructure:"inventory_url" default:"https://steamcommunity.com"`
	// PriceURL is the base URL of the market data provider.
	PriceURL string `mapstructure:"price_url" default:"https://api.pricempire.com"`
	// DetailURL is the base URL of the item detail provider.
	DetailURL string `mapstructure:"detail_url" default:"https://api.csfloat.com"`
	// TimeoutSeconds bounds every provider HTTP call.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
