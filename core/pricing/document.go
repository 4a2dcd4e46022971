package pricing

import (
	"encoding/json"
)

// phaseContainerKey is the object field under which several market
// schemas nest their per-phase price map.
const phaseContainerKey = "doppler"

// windowFields is the ordered fallback list of time-windowed average
// price fields, most recent window first.
var windowFields = []string{"last_24h", "last_7d", "last_30d", "last_90d"}

// entryKind tags one variant of the per-name price entry union.
type entryKind int

const (
	// kindNumber is a bare numeric price (flat schema).
	kindNumber entryKind = iota
	// kindObject is a structured price object.
	kindObject
	// kindUnrecognized is anything else; it resolves to absent price,
	// never an error.
	kindUnrecognized
)

// entry is one name's price data in a market document: a tagged union of
// the known shapes plus unrecognized.
type entry struct {
	kind   entryKind
	number float64
	object *priceObject
}

// priceObject is the structured form of a price entry. Fields keeps every
// sub-entry by key so the resolver can look up phase names, the generic
// "price" field, priceKind-named fields, and time-window fields without
// committing to one provider's schema.
type priceObject struct {
	fields map[string]entry
}

// number returns the numeric value of the field, if present and numeric.
func (o *priceObject) numberField(key string) (float64, bool) {
	if o == nil {
		return 0, false
	}
	f, ok := o.fields[key]
	if !ok || f.kind != kindNumber {
		return 0, false
	}
	return f.number, true
}

// objectField returns the nested object under key, if present.
func (o *priceObject) objectField(key string) (*priceObject, bool) {
	if o == nil {
		return nil, false
	}
	f, ok := o.fields[key]
	if !ok || f.kind != kindObject {
		return nil, false
	}
	return f.object, true
}

// Document is one market's raw price tree, keyed by item name. Decoding
// is tolerant: entries that match none of the known shapes are kept as
// unrecognized and simply never yield a price.
type Document struct {
	entries map[string]entry
}

// ParseDocument decodes a raw market document. Only a top-level shape
// that is not a JSON object at all is an error; per-entry oddities are
// downgraded to unrecognized entries.
func ParseDocument(raw []byte) (Document, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return Document{}, err
	}
	doc := Document{entries: make(map[string]entry, len(top))}
	for name, v := range top {
		doc.entries[name] = decodeEntry(v)
	}
	return doc, nil
}

// Len returns the number of item entries in the document.
func (d Document) Len() int { return len(d.entries) }

// Has reports whether the document carries an entry for name.
func (d Document) Has(name string) bool {
	_, ok := d.entries[name]
	return ok
}

func decodeEntry(raw json.RawMessage) entry {
	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return entry{kind: kindNumber, number: num}
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err == nil {
		po := &priceObject{fields: make(map[string]entry, len(obj))}
		for k, v := range obj {
			po.fields[k] = decodeEntry(v)
		}
		return entry{kind: kindObject, object: po}
	}

	return entry{kind: kindUnrecognized}
}

// MarshalJSON re-encodes the document for cache persistence. The decoded
// union is lossy only for unrecognized entries, which are persisted as
// null; they carried no price either way.
func (d Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(encodeEntries(d.entries))
}

// UnmarshalJSON restores a cached document.
func (d *Document) UnmarshalJSON(data []byte) error {
	doc, err := ParseDocument(data)
	if err != nil {
		return err
	}
	*d = doc
	return nil
}

func encodeEntries(entries map[string]entry) map[string]any {
	out := make(map[string]any, len(entries))
	for k, e := range entries {
		out[k] = encodeEntry(e)
	}
	return out
}

func encodeEntry(e entry) any {
	switch e.kind {
	case kindNumber:
		return e.number
	case kindObject:
		return encodeEntries(e.object.fields)
	default:
		return nil
	}
}
