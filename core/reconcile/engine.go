package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"skinledger/core/detail"
	"skinledger/core/ledger"
	"skinledger/core/logger"
	"skinledger/core/pricing"
	"skinledger/core/report"
	"skinledger/core/utils"
)

// Deps bundles the collaborators an Engine needs.
type Deps struct {
	Sheet      *ledger.Sheet
	Inventory  InventoryProvider
	Prices     PriceSource
	Selector   *pricing.Selector
	Classifier Classifier
	// Details may be nil when detail fetching is disabled.
	Details DetailFetcher
	// Rates is consulted only for a non-default currency.
	Rates pricing.RateTable
	// Progress receives fire-and-forget run events; may be nil.
	Progress chan<- Progress
	Log      *zap.Logger
}

// Engine reconciles one inventory snapshot against the ledger. It is
// single-threaded and strictly sequential: item order determines row
// insertion order, and all network calls are serialized.
type Engine struct {
	cfg  *Config
	deps Deps
}

// NewEngine validates the configuration and builds an engine.
func NewEngine(cfg *Config, deps Deps) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.FetchDetails && deps.Details == nil {
		return nil, errors.New("fetch_details is enabled but no detail fetcher was provided")
	}
	return &Engine{cfg: cfg, deps: deps}, nil
}

// run carries the per-run state so the pass helpers stay short.
type run struct {
	e   *Engine
	cfg *Config
	log *zap.Logger
	id  string

	docs map[string]pricing.Document
	rate float64
	idx  *rowIndex
	rep  *report.RunReport
}

// Run executes one full reconciliation: inventory fetch, first pass over
// items, refresh pass over pre-existing rows, then a single flush. Any
// failure before the flush leaves the persisted ledger untouched.
func (e *Engine) Run(ctx context.Context, accountID, credential string) (*report.RunReport, error) {
	runID := uuid.NewString()
	start := time.Now()

	r := &run{
		e:   e,
		cfg: e.cfg,
		log: logger.WithRunID(e.deps.Log, runID),
		id:  runID,
		rep: report.New(runID),
	}
	r.log.Info("reconciliation run starting",
		zap.String("group_by", e.cfg.GroupBy),
		zap.String("selection_mode", e.cfg.SelectionMode))

	rate, err := r.exchangeRate(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve exchange rate: %w", err)
	}
	r.rate = rate

	r.emit(StageInventory, "", 0, 0)
	inv, err := e.deps.Inventory.FetchInventory(ctx, accountID, credential)
	if err != nil {
		return nil, fmt.Errorf("fetch inventory: %w", err)
	}
	if inv.Partial() {
		return nil, fmt.Errorf("%w: got %d of %d", ErrPartialInventory, inv.Returned, inv.ExpectedTotal)
	}

	if err := r.loadDocuments(ctx); err != nil {
		return nil, err
	}
	if err := r.buildIndex(ctx); err != nil {
		return nil, fmt.Errorf("index ledger rows: %w", err)
	}

	for i, item := range inv.Items {
		r.emit(StagePassOne, item.Name, i+1, len(inv.Items))
		if err := r.reconcileItem(ctx, item); err != nil {
			return nil, fmt.Errorf("reconcile %q: %w", item.Name, err)
		}
	}

	r.emit(StagePassTwo, "", 0, 0)
	if err := r.refreshRows(ctx); err != nil {
		return nil, err
	}

	r.emit(StageFlush, "", 0, 0)
	r.rep.CellsFlushed = e.deps.Sheet.PendingWrites()
	if err := e.deps.Sheet.Flush(ctx); err != nil {
		return nil, err
	}

	r.rep.Finish(time.Since(start))
	r.emit(StageDone, "", 0, 0)
	r.log.Info("reconciliation run finished",
		zap.Int("inserted", r.rep.Inserted),
		zap.Int("updated", r.rep.Updated),
		zap.Int("repriced", r.rep.Repriced),
		zap.Int("skipped", r.rep.Skipped),
		zap.Int("cells_flushed", r.rep.CellsFlushed),
		zap.Int64("duration_ms", r.rep.DurationMS))
	return r.rep, nil
}

// emit sends a progress event without ever blocking the run. A slow
// observer loses events rather than stalling the pass.
func (r *run) emit(stage Stage, name string, index, total int) {
	if r.e.deps.Progress == nil {
		return
	}
	select {
	case r.e.deps.Progress <- Progress{RunID: r.id, Stage: stage, ItemName: name, Index: index, Total: total}:
	default:
	}
}

// exchangeRate resolves the price scaling factor. A non-default currency
// must have a rate table entry; otherwise an optional manual rate is
// read from the configured ledger cell.
func (r *run) exchangeRate(ctx context.Context) (float64, error) {
	if r.cfg.Currency != "" && r.cfg.Currency != pricing.DefaultCurrency {
		return r.e.deps.Rates.Rate(r.cfg.Currency)
	}
	if r.cfg.ManualRateCell != "" {
		coord, err := ledger.ParseCoordinate(r.cfg.ManualRateCell)
		if err != nil {
			return 0, err
		}
		raw, err := r.e.deps.Sheet.GetCell(ctx, coord)
		if err != nil {
			return 0, err
		}
		if rate := utils.ToFloat(raw); rate > 0 {
			return rate, nil
		}
		return 1, nil
	}
	return 1, nil
}

// loadDocuments fetches every configured market document up front, one
// at a time, through the price source.
func (r *run) loadDocuments(ctx context.Context) error {
	r.docs = make(map[string]pricing.Document, len(r.cfg.Markets))
	for _, market := range r.cfg.Markets {
		doc, err := r.e.deps.Prices.Get(ctx, market, r.cfg.PriceProvider)
		if err != nil {
			return fmt.Errorf("load market %q: %w", market, err)
		}
		r.docs[market] = doc
	}
	return nil
}

// rowIndex maps ledger keys to physical row numbers. Rows at or below
// preexistingMax existed before this run; anything above was inserted by
// the current first pass.
type rowIndex struct {
	byName     map[string]int
	byPhase    map[string]int
	byInstance map[string]int

	preexistingMax int
	next           int
}

func phaseKey(name, phase string) string { return name + "\x00" + phase }

// buildIndex scans the name column once and records where every existing
// row lives. The first occurrence of a duplicate name wins.
func (r *run) buildIndex(ctx context.Context) error {
	idx := &rowIndex{
		byName:     make(map[string]int),
		byPhase:    make(map[string]int),
		byInstance: make(map[string]int),
	}

	maxRow, err := r.e.deps.Sheet.MaxRow(ctx, r.cfg.Columns.Name)
	if err != nil {
		return err
	}
	idx.preexistingMax = maxRow
	idx.next = maxRow + 1
	if idx.next < r.cfg.RowOffset {
		idx.next = r.cfg.RowOffset
	}

	for row := r.cfg.RowOffset; row <= maxRow; row++ {
		name, err := r.cell(ctx, r.cfg.Columns.Name, row)
		if err != nil {
			return err
		}
		if name == "" {
			continue
		}
		if _, ok := idx.byName[name]; !ok {
			idx.byName[name] = row
		}
		phase, err := r.cell(ctx, r.cfg.Columns.Phase, row)
		if err != nil {
			return err
		}
		if phase != "" {
			if _, ok := idx.byPhase[phaseKey(name, phase)]; !ok {
				idx.byPhase[phaseKey(name, phase)] = row
			}
		}
		instance, err := r.cell(ctx, r.cfg.Columns.InstanceID, row)
		if err != nil {
			return err
		}
		if instance != "" {
			idx.byInstance[instance] = row
		}
	}

	r.idx = idx
	return nil
}

func (r *run) cell(ctx context.Context, col string, row int) (string, error) {
	return r.e.deps.Sheet.GetCell(ctx, ledger.Cell(col, row))
}

// set buffers a cell write only when the value actually changes, so an
// unchanged run produces zero mutations.
func (r *run) set(ctx context.Context, col string, row int, value any) (bool, error) {
	current, err := r.cell(ctx, col, row)
	if err != nil {
		return false, err
	}
	next := utils.ToString(value)
	if current == next {
		return false, nil
	}
	r.e.deps.Sheet.SetCell(ledger.Cell(col, row), value)
	return true, nil
}

// writable reports whether row is below the write-stop boundary.
func (r *run) writable(row int) bool {
	return r.cfg.WriteStopRow == 0 || row < r.cfg.WriteStopRow
}

func (r *run) sold(ctx context.Context, row int) (bool, error) {
	v, err := r.cell(ctx, r.cfg.Columns.Sold, row)
	if err != nil {
		return false, err
	}
	return v != "", nil
}

// reconcileItem dispatches one inventory item on the grouping mode.
func (r *run) reconcileItem(ctx context.Context, item Item) error {
	if r.cfg.GroupBy == GroupByInstance {
		return r.reconcileByInstance(ctx, item)
	}
	return r.reconcileByName(ctx, item)
}

func (r *run) reconcileByName(ctx context.Context, item Item) error {
	row, ok := r.idx.byName[item.Name]
	if !ok {
		// Insertions are suppressed entirely below a write-stop boundary.
		if r.cfg.WriteStopRow > 0 {
			r.rep.Skipped++
			return nil
		}
		return r.insertItem(ctx, item)
	}

	phase, err := r.cell(ctx, r.cfg.Columns.Phase, row)
	if err != nil {
		return err
	}

	// A row that already carries a phase means several same-named items
	// differing only by phase: re-key the match to (name, phase).
	if phase != "" && r.cfg.FetchDetails && item.DetailHandle != "" {
		itemPhase, rec, err := r.resolvePhase(ctx, item)
		if err != nil {
			return err
		}
		// No phase resolved (detail unavailable): merging on the
		// matched row keeps reruns from stacking phaseless duplicates.
		if itemPhase == "" {
			return r.mergeQuantity(ctx, item, row)
		}
		if prow, ok := r.idx.byPhase[phaseKey(item.Name, itemPhase)]; ok {
			return r.mergeQuantity(ctx, item, prow)
		}
		if r.cfg.WriteStopRow > 0 {
			r.rep.Skipped++
			return nil
		}
		return r.appendRow(ctx, item, itemPhase, rec)
	}

	if phase == "" && r.cfg.FetchDetails && item.DetailHandle != "" &&
		item.Quantity == 1 && r.e.deps.Classifier.IsMultiVariant(item.Name) {
		// Per-unit fields only make sense while the row still covers a
		// single unit, so the stored quantity gates the resolution too.
		raw, err := r.cell(ctx, r.cfg.Columns.Quantity, row)
		if err != nil {
			return err
		}
		if utils.ToInt(raw) <= 1 {
			return r.resolvePhaseOnRow(ctx, item, row)
		}
	}

	return r.mergeQuantity(ctx, item, row)
}

func (r *run) reconcileByInstance(ctx context.Context, item Item) error {
	row, ok := r.idx.byInstance[item.InstanceID]
	if !ok {
		if r.cfg.WriteStopRow > 0 {
			r.rep.Skipped++
			return nil
		}
		return r.insertItem(ctx, item)
	}

	phase, err := r.cell(ctx, r.cfg.Columns.Phase, row)
	if err != nil {
		return err
	}
	if phase == "" && r.e.deps.Classifier.IsMultiVariant(item.Name) {
		return r.resolvePhaseOnRow(ctx, item, row)
	}
	r.rep.Skipped++
	return nil
}

// resolvePhase determines the item's phase, preferring inline inventory
// data over a detail fetch.
func (r *run) resolvePhase(ctx context.Context, item Item) (string, detail.Record, error) {
	if item.Phase != "" {
		return item.Phase, detail.Record{Condition: item.Condition, PatternSeed: item.PatternSeed, Phase: item.Phase}, nil
	}
	rec, err := r.fetchDetail(ctx, item)
	if err != nil {
		return "", detail.Record{}, err
	}
	return rec.Phase, rec, nil
}

// fetchDetail calls the detail provider for the item's handle.
// "Unavailable" is a normal outcome and yields an empty record; retry
// exhaustion aborts the run.
func (r *run) fetchDetail(ctx context.Context, item Item) (detail.Record, error) {
	if !r.cfg.FetchDetails || item.DetailHandle == "" {
		return detail.Record{}, nil
	}
	r.rep.DetailFetches++
	rec, err := r.e.deps.Details.Fetch(ctx, item.DetailHandle)
	if errors.Is(err, detail.ErrUnavailable) {
		return detail.Record{}, nil
	}
	if err != nil {
		return detail.Record{}, err
	}
	return rec, nil
}

// resolvePhaseOnRow fetches detail for an existing phase-less row and
// writes phase, per-unit fields and a fresh price unless the row is
// marked sold.
func (r *run) resolvePhaseOnRow(ctx context.Context, item Item, row int) error {
	itemPhase, rec, err := r.resolvePhase(ctx, item)
	if err != nil {
		return err
	}

	isSold, err := r.sold(ctx, row)
	if err != nil {
		return err
	}
	if isSold || !r.writable(row) {
		r.rep.Skipped++
		return nil
	}

	changed := false
	if itemPhase != "" {
		c, err := r.set(ctx, r.cfg.Columns.Phase, row, itemPhase)
		if err != nil {
			return err
		}
		changed = changed || c
		r.idx.byPhase[phaseKey(item.Name, itemPhase)] = row
	}
	c, err := r.writeUnitFields(ctx, row, item, rec)
	if err != nil {
		return err
	}
	changed = changed || c

	if quote, err := r.selectQuote(item.Name, itemPhase); err == nil {
		c, err := r.writeQuote(ctx, row, quote)
		if err != nil {
			return err
		}
		changed = changed || c
	}

	if changed {
		r.rep.Updated++
	} else {
		r.rep.Skipped++
	}
	return nil
}

// mergeQuantity bumps the stored quantity to max(existing, incoming).
// Once a row covers more than one unit, its per-unit fields no longer
// describe a single physical item and are cleared.
func (r *run) mergeQuantity(ctx context.Context, item Item, row int) error {
	if !r.writable(row) {
		r.rep.Skipped++
		return nil
	}

	raw, err := r.cell(ctx, r.cfg.Columns.Quantity, row)
	if err != nil {
		return err
	}
	existing := utils.ToInt(raw)
	merged := existing
	if item.Quantity > merged {
		merged = item.Quantity
	}
	if merged < 1 {
		merged = 1
	}

	changed := false
	if merged != existing {
		if _, err := r.set(ctx, r.cfg.Columns.Quantity, row, merged); err != nil {
			return err
		}
		changed = true
	}
	if merged > 1 {
		for _, col := range []string{r.cfg.Columns.Condition, r.cfg.Columns.Pattern, r.cfg.Columns.DetailLink} {
			c, err := r.set(ctx, col, row, "")
			if err != nil {
				return err
			}
			changed = changed || c
		}
	}

	if changed {
		r.rep.Updated++
	} else {
		r.rep.Skipped++
	}
	return nil
}

// insertItem appends a brand-new row for the item: detail when
// warranted, classification, price, then every derived column.
func (r *run) insertItem(ctx context.Context, item Item) error {
	rec := detail.Record{Condition: item.Condition, PatternSeed: item.PatternSeed, Phase: item.Phase}
	itemPhase := item.Phase
	wantDetail := r.cfg.GroupBy == GroupByInstance ||
		item.Quantity == 1 || r.e.deps.Classifier.IsMultiVariant(item.Name)
	// An inline phase alone does not skip the fetch: the record may
	// still supply the condition and pattern the inventory left out.
	if wantDetail && (itemPhase == "" || item.Condition == nil) {
		fetched, err := r.fetchDetail(ctx, item)
		if err != nil {
			return err
		}
		rec = fetched
		if itemPhase == "" {
			itemPhase = rec.Phase
		}
	}
	return r.appendRow(ctx, item, itemPhase, rec)
}

// appendRow writes a full new row at the next strictly increasing index.
func (r *run) appendRow(ctx context.Context, item Item, itemPhase string, rec detail.Record) error {
	row := r.idx.next
	r.idx.next++

	class := r.e.deps.Classifier.Classify(item.Name)

	if _, err := r.set(ctx, r.cfg.Columns.Name, row, item.Name); err != nil {
		return err
	}
	if r.cfg.GroupBy == GroupByInstance {
		if _, err := r.set(ctx, r.cfg.Columns.InstanceID, row, item.InstanceID); err != nil {
			return err
		}
	} else {
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		if _, err := r.set(ctx, r.cfg.Columns.Quantity, row, qty); err != nil {
			return err
		}
	}
	if _, err := r.set(ctx, r.cfg.Columns.Category, row, class.Category); err != nil {
		return err
	}
	if _, err := r.set(ctx, r.cfg.Columns.Subname, row, class.Subname); err != nil {
		return err
	}
	if _, err := r.set(ctx, r.cfg.Columns.Variant, row, class.Variant); err != nil {
		return err
	}
	if itemPhase != "" {
		if _, err := r.set(ctx, r.cfg.Columns.Phase, row, itemPhase); err != nil {
			return err
		}
	}
	if _, err := r.writeUnitFields(ctx, row, item, rec); err != nil {
		return err
	}
	if quote, err := r.selectQuote(item.Name, itemPhase); err == nil {
		if _, err := r.writeQuote(ctx, row, quote); err != nil {
			return err
		}
	} else {
		r.log.Debug("no market price for item", zap.String("name", item.Name))
	}

	if r.cfg.GroupBy == GroupByInstance {
		r.idx.byInstance[item.InstanceID] = row
	} else {
		if _, ok := r.idx.byName[item.Name]; !ok {
			r.idx.byName[item.Name] = row
		}
		if itemPhase != "" {
			r.idx.byPhase[phaseKey(item.Name, itemPhase)] = row
		}
	}
	r.rep.Inserted++
	return nil
}

// writeUnitFields writes condition, pattern seed and detail link when
// present. Inline inventory data wins over the fetched record.
func (r *run) writeUnitFields(ctx context.Context, row int, item Item, rec detail.Record) (bool, error) {
	changed := false

	cond := item.Condition
	if cond == nil {
		cond = rec.Condition
	}
	if cond != nil {
		c, err := r.set(ctx, r.cfg.Columns.Condition, row, *cond)
		if err != nil {
			return changed, err
		}
		changed = changed || c
	}

	seed := item.PatternSeed
	if seed == 0 {
		seed = rec.PatternSeed
	}
	if seed != 0 {
		c, err := r.set(ctx, r.cfg.Columns.Pattern, row, seed)
		if err != nil {
			return changed, err
		}
		changed = changed || c
	}

	if item.DetailHandle != "" {
		c, err := r.set(ctx, r.cfg.Columns.DetailLink, row, item.DetailHandle)
		if err != nil {
			return changed, err
		}
		changed = changed || c
	}
	return changed, nil
}

func (r *run) selectQuote(name, itemPhase string) (pricing.Quote, error) {
	return r.e.deps.Selector.Select(name, r.cfg.Markets, r.docs,
		r.cfg.PriceKind, itemPhase, pricing.Mode(r.cfg.SelectionMode),
		r.rate, r.cfg.PercentThreshold)
}

func (r *run) writeQuote(ctx context.Context, row int, quote pricing.Quote) (bool, error) {
	c1, err := r.set(ctx, r.cfg.Columns.Price, row, quote.Price)
	if err != nil {
		return false, err
	}
	c2, err := r.set(ctx, r.cfg.Columns.Market, row, quote.Market)
	if err != nil {
		return c1, err
	}
	return c1 || c2, nil
}

// refreshRows is the second pass: it revisits only rows that existed
// before this run and refreshes their market label and price, honoring
// the sold-exclusion flag, the ignore list and the write-stop boundary.
func (r *run) refreshRows(ctx context.Context) error {
	for row := r.cfg.RowOffset; row <= r.idx.preexistingMax; row++ {
		name, err := r.cell(ctx, r.cfg.Columns.Name, row)
		if err != nil {
			return err
		}
		if name == "" || r.cfg.ignored(name) || !r.writable(row) {
			continue
		}
		if r.cfg.ExcludeSold {
			isSold, err := r.sold(ctx, row)
			if err != nil {
				return err
			}
			if isSold {
				r.rep.Skipped++
				continue
			}
		}

		rowPhase, err := r.cell(ctx, r.cfg.Columns.Phase, row)
		if err != nil {
			return err
		}
		quote, err := r.selectQuote(name, rowPhase)
		if errors.Is(err, pricing.ErrNoMarketFound) {
			r.log.Debug("refresh found no market", zap.String("name", name), zap.Int("row", row))
			continue
		}
		if err != nil {
			return err
		}
		changed, err := r.writeQuote(ctx, row, quote)
		if err != nil {
			return err
		}
		if changed {
			r.rep.Repriced++
		}
	}
	return nil
}
