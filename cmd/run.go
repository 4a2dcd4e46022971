package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"skinledger/core/config"
	"skinledger/core/database"
	"skinledger/core/detail"
	"skinledger/core/ledger"
	"skinledger/core/logger"
	"skinledger/core/marketcache"
	"skinledger/core/pricing"
	"skinledger/core/reconcile"
	"skinledger/core/report"
	"skinledger/core/storage"
	"skinledger/feature/skins"
	"skinledger/feature/status"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	runAccountID  string
	runCredential string
)

// runCmd executes one full reconciliation run.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Reconcile the account inventory against the ledger",
	Long: `Runs one full reconciliation: fetches the inventory snapshot, folds it
into the ledger sheet row by row, refreshes the prices of pre-existing
rows, and commits everything with a single flush at the end.

The persisted ledger is only touched by that final flush; any failure
before it leaves the ledger exactly as it was.`,
	RunE: runReconciliation,
}

func init() {
	runCmd.Flags().StringVar(&runAccountID, "account", "", "Account whose inventory is reconciled (defaults to ACCOUNT_ID)")
	runCmd.Flags().StringVar(&runCredential, "credential", "", "Optional provider credential")
	RootCmd.AddCommand(runCmd)
}

func runReconciliation(cmd *cobra.Command, args []string) error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Initialize Logger
	logg, err := logger.New(&cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logg.Sync()
	zap.ReplaceGlobals(logg)

	account := runAccountID
	if account == "" {
		account = cfg.AccountID
	}
	if account == "" {
		logg.Fatal("No account configured; pass --account or set ACCOUNT_ID")
	}

	// 3. Connect to the ledger database and verify the cell table
	db, err := database.Connect(cfg.Database)
	if err != nil {
		logg.Fatal("Failed to connect to ledger database", zap.Error(err))
	}
	cellTable := ledger.CellRecord{}.TableName()
	if err := database.VerifyTable(db, cellTable, ledger.RequiredColumns()); err != nil {
		logg.Fatal("Ledger table verification failed", zap.Error(err))
	}
	sheet := ledger.NewSheet(ledger.NewGormStore(db, cfg.LedgerSheet))

	// 4. Market price cache over the price provider
	cache, err := marketcache.New(cfg.Cache, skins.NewPriceAPI(cfg.Providers, logg), logg)
	if err != nil {
		logg.Fatal("Failed to initialize market cache", zap.Error(err))
	}

	// 5. Detail fetcher with the canonical backoff policy
	fetcher := detail.NewFetcher(cfg.Detail, skins.NewDetailFactory(cfg.Providers), nil, logg)

	// 6. Exchange rates
	rates, err := pricing.ParseRateTable(cfg.Run.Rates)
	if err != nil {
		logg.Fatal("Bad exchange rate configuration", zap.Error(err))
	}

	// 7. Progress tracking, optionally served over HTTP
	progress := make(chan reconcile.Progress, 256)
	tracker := status.NewTracker()
	go tracker.Watch(progress)

	var app *fiber.App
	if cfg.Server.Enabled {
		app = fiber.New(fiber.Config{DisableStartupMessage: true})
		status.NewHandler(tracker, logg).RegisterRoutes(app)
		go func() {
			logg.Info("Status server listening", zap.String("port", cfg.Server.Port))
			if err := app.Listen(cfg.Server.Addr()); err != nil {
				logg.Error("Status server stopped", zap.Error(err))
			}
		}()
		defer func() { _ = app.Shutdown() }()
	}

	// 8. Build and run the engine
	selector := pricing.NewSelector(pricing.NewResolver(logg), logg, cfg.Run.PhaseSupport(), nil)
	engine, err := reconcile.NewEngine(&cfg.Run, reconcile.Deps{
		Sheet:      sheet,
		Inventory:  skins.NewInventoryAPI(cfg.Providers, logg),
		Prices:     cache,
		Selector:   selector,
		Classifier: skins.NewClassifier(),
		Details:    fetcher,
		Rates:      rates,
		Progress:   progress,
		Log:        logg,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rep, err := engine.Run(ctx, account, runCredential)
	close(progress)
	if err != nil {
		return err
	}

	// 9. Optionally archive the run report
	if cfg.ArchiveReports {
		store, err := storage.NewClient(cfg.Storage)
		if err != nil {
			logg.Error("Failed to create storage client, skipping archive", zap.Error(err))
			return nil
		}
		if err := report.NewArchiver(store, cfg.Storage.Bucket, logg).Archive(ctx, rep); err != nil {
			logg.Error("Failed to archive run report", zap.Error(err))
		}
	}
	return nil
}
