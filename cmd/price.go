package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"skinledger/core/config"
	"skinledger/core/logger"
	"skinledger/core/marketcache"
	"skinledger/core/pricing"
	"skinledger/feature/skins"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var pricePhase string

// priceCmd resolves the price of one item across the configured markets
// using the same cache, resolver and selection strategy as a full run.
var priceCmd = &cobra.Command{
	Use:   "price <name>",
	Short: "Resolve an item's market price without touching the ledger",
	Long: `Loads the configured market documents (through the local cache), resolves
the item's price on every market, and prints the quote list plus the pick
the configured selection mode would make.

Examples:
  skinledger price "AK-47 | Redline (Field-Tested)"
  skinledger price --phase "Phase 2" "Karambit | Doppler (Factory New)"`,
	Args: cobra.ExactArgs(1),
	RunE: runPrice,
}

func init() {
	priceCmd.Flags().StringVar(&pricePhase, "phase", "", "Resolve a specific doppler phase")
	RootCmd.AddCommand(priceCmd)
}

func runPrice(cmd *cobra.Command, args []string) error {
	name := args[0]

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logg, err := logger.New(&cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logg.Sync()

	if err := cfg.Run.Validate(); err != nil {
		return err
	}
	if pricePhase != "" && !skins.ValidPhase(pricePhase) {
		return fmt.Errorf("unknown phase %q (valid: %v)", pricePhase, skins.Phases)
	}

	cache, err := marketcache.New(cfg.Cache, skins.NewPriceAPI(cfg.Providers, logg), logg)
	if err != nil {
		logg.Fatal("Failed to initialize market cache", zap.Error(err))
	}

	ctx := context.Background()
	docs := make(map[string]pricing.Document, len(cfg.Run.Markets))
	for _, market := range cfg.Run.Markets {
		doc, err := cache.Get(ctx, market, cfg.Run.PriceProvider)
		if err != nil {
			return err
		}
		docs[market] = doc
	}

	rates, err := pricing.ParseRateTable(cfg.Run.Rates)
	if err != nil {
		return err
	}
	rate, err := rates.Rate(cfg.Run.Currency)
	if err != nil {
		return err
	}

	selector := pricing.NewSelector(pricing.NewResolver(logg), logg, cfg.Run.PhaseSupport(), nil)
	quotes := selector.Quotes(name, cfg.Run.Markets, docs, cfg.Run.PriceKind, pricePhase, rate)

	out := map[string]any{"name": name, "quotes": quotes}
	pick, err := selector.Select(name, cfg.Run.Markets, docs, cfg.Run.PriceKind, pricePhase,
		pricing.Mode(cfg.Run.SelectionMode), rate, cfg.Run.PercentThreshold)
	if err != nil {
		out["selected"] = nil
	} else {
		out["selected"] = pick
	}

	payload, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(payload))
	return nil
}
