package pricing

import (
	"go.uber.org/zap"
)

// Resolver extracts a numeric price for one item from one market
// document. It never fails: absence of a price is a normal outcome.
type Resolver struct {
	log *zap.Logger
}

// NewResolver creates a resolver logging through the given logger.
func NewResolver(log *zap.Logger) *Resolver {
	return &Resolver{log: log}
}

// Resolve returns the price for name in doc, honoring priceKind and an
// optional phase. Precedence, first match wins:
//
//  1. Flat schema: name maps directly to a number.
//  2. Phase lookup: name maps to an object carrying the phase either as
//     a direct key or nested under the phase container.
//  3. Generic "price" field.
//  4. priceKind-named field: numeric, or an object consulted for its
//     phase map and then its own "price" subfield.
//  5. Time-windowed fallback fields, most recent window first.
func (r *Resolver) Resolve(name string, doc Document, priceKind, phase string) (float64, bool) {
	e, ok := doc.entries[name]
	if !ok {
		return 0, false
	}

	switch e.kind {
	case kindNumber:
		return e.number, true
	case kindObject:
		return r.resolveObject(name, e.object, priceKind, phase, true, true)
	default:
		return 0, false
	}
}

func (r *Resolver) resolveObject(name string, o *priceObject, priceKind, phase string, allowKind, allowWindows bool) (float64, bool) {
	if phase != "" {
		if p, ok := o.numberField(phase); ok {
			return p, true
		}
		if container, ok := o.objectField(phaseContainerKey); ok {
			if p, ok := container.numberField(phase); ok {
				return p, true
			}
			// The family is priced here but this phase is not; keep
			// resolving, the item may still have a generic price.
			r.log.Debug("phase entry missing from priced family",
				zap.String("name", name),
				zap.String("phase", phase))
		}
	}

	if p, ok := o.numberField("price"); ok {
		return p, true
	}

	if allowKind && priceKind != "" {
		if p, ok := o.numberField(priceKind); ok {
			return p, true
		}
		if nested, ok := o.objectField(priceKind); ok {
			// Only the nested phase map and "price" subfield apply here.
			if p, ok := r.resolveObject(name, nested, priceKind, phase, false, false); ok {
				return p, true
			}
		}
	}

	if allowWindows {
		for _, w := range windowFields {
			if p, ok := o.numberField(w); ok {
				return p, true
			}
		}
	}

	return 0, false
}
