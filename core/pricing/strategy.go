package pricing

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"go.uber.org/zap"
)

// ErrNoMarketFound is the sentinel returned when no configured market
// yields a price for an item.
var ErrNoMarketFound = errors.New("no market found")

// Mode selects how the per-market quotes are aggregated into one pick.
type Mode string

const (
	// ModeCheapest picks the lowest quote.
	ModeCheapest Mode = "cheapest"
	// ModeMostExpensive picks the highest quote.
	ModeMostExpensive Mode = "most_expensive"
	// ModeRandom picks uniformly among the quotes.
	ModeRandom Mode = "random"
	// ModeHierarchical starts at the cheapest quote and walks toward
	// pricier ones only while they stay within the percent threshold.
	ModeHierarchical Mode = "hierarchical"
)

// ParseMode validates a configured selection mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeCheapest, ModeMostExpensive, ModeRandom, ModeHierarchical:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown selection mode %q (valid: cheapest, most_expensive, random, hierarchical)", s)
	}
}

// Quote is a resolved (market, price) pair for one item.
type Quote struct {
	// Market is the market label the price came from.
	Market string `json:"market"`
	// Price is the resolved price, already scaled by the exchange rate.
	Price float64 `json:"price"`
}

// Selector aggregates per-market quotes into a single pick.
type Selector struct {
	resolver *Resolver
	log      *zap.Logger

	// phaseSupport marks markets that carry multi-variant pricing. When
	// a phase is requested, unsupported markets are skipped entirely.
	phaseSupport map[string]bool

	// rng drives ModeRandom; injected for deterministic tests.
	rng *rand.Rand
}

// NewSelector creates a selector. phaseSupport lists the markets capable
// of multi-variant pricing; rng may be nil for a default source.
func NewSelector(resolver *Resolver, log *zap.Logger, phaseSupport map[string]bool, rng *rand.Rand) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Selector{
		resolver:     resolver,
		log:          log,
		phaseSupport: phaseSupport,
		rng:          rng,
	}
}

// Quotes builds the quote list for one item across markets, in the
// configured market order, scaling each price by exchangeRate.
func (s *Selector) Quotes(name string, markets []string, docs map[string]Document, priceKind, phase string, exchangeRate float64) []Quote {
	if exchangeRate == 0 {
		exchangeRate = 1
	}
	var quotes []Quote
	for _, market := range markets {
		if phase != "" && !s.phaseSupport[market] {
			continue
		}
		doc, ok := docs[market]
		if !ok {
			continue
		}
		price, ok := s.resolver.Resolve(name, doc, priceKind, phase)
		if !ok {
			continue
		}
		quotes = append(quotes, Quote{Market: market, Price: price * exchangeRate})
	}
	return quotes
}

// Select resolves one (market, price) pick for the item, or
// ErrNoMarketFound when no market yields a price.
//
// percentThreshold is a 0-100 fraction used only by ModeHierarchical.
func (s *Selector) Select(name string, markets []string, docs map[string]Document, priceKind, phase string, mode Mode, exchangeRate, percentThreshold float64) (Quote, error) {
	quotes := s.Quotes(name, markets, docs, priceKind, phase, exchangeRate)
	if len(quotes) == 0 {
		return Quote{}, fmt.Errorf("%w for %q", ErrNoMarketFound, name)
	}

	switch mode {
	case ModeCheapest:
		return pickBy(quotes, func(q, best Quote) bool { return q.Price < best.Price }), nil
	case ModeMostExpensive:
		return pickBy(quotes, func(q, best Quote) bool { return q.Price > best.Price }), nil
	case ModeRandom:
		return quotes[s.rng.Intn(len(quotes))], nil
	case ModeHierarchical:
		return hierarchical(quotes, percentThreshold), nil
	default:
		return pickBy(quotes, func(q, best Quote) bool { return q.Price < best.Price }), nil
	}
}

// pickBy returns the quote preferred by better, keeping the first-seen
// quote on ties so the configured market order breaks them stably.
func pickBy(quotes []Quote, better func(q, best Quote) bool) Quote {
	best := quotes[0]
	for _, q := range quotes[1:] {
		if better(q, best) {
			best = q
		}
	}
	return best
}

// hierarchical sorts the quotes ascending (stable, preserving first-seen
// order for equal prices), starts at the cheapest, and advances to the
// next quote only while that quote stays at or below the current pick
// scaled by percentThreshold/100. The walk stops the first time a
// candidate exceeds the threshold; equal prices never switch.
func hierarchical(quotes []Quote, percentThreshold float64) Quote {
	sorted := make([]Quote, len(quotes))
	copy(sorted, quotes)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Price < sorted[j].Price })

	current := sorted[0]
	for _, candidate := range sorted[1:] {
		if candidate.Price == current.Price {
			break
		}
		if candidate.Price > current.Price*(percentThreshold/100) {
			break
		}
		current = candidate
	}
	return current
}
