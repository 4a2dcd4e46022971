// Package pricing resolves item prices from heterogeneous market
// documents and aggregates per-market quotes into one pick.
//
// # Documents
//
// Each market publishes its price tree in one of four known JSON shapes:
// a flat name-to-number map, a per-phase map, an object with a generic
// "price" field, or an object keyed by price kind with time-windowed
// fallback fields. Document decodes all of them into one tagged union;
// anything else becomes an unrecognized entry that resolves to an absent
// price, never an error.
//
// # Resolution
//
// Resolver.Resolve walks a fixed precedence over the entry for an item:
// flat number, phase lookup, generic "price", priceKind field (numeric
// or nested), then time-windowed averages, most recent window first.
// Absence of a price is a normal outcome.
//
// # Selection
//
// Selector builds the quote list over the configured markets (skipping
// markets without multi-variant pricing when a phase is requested),
// scales by the exchange rate, and picks per the configured mode:
// cheapest, most expensive, random, or a hierarchical threshold walk.
// An empty quote list yields the ErrNoMarketFound sentinel.
package pricing
