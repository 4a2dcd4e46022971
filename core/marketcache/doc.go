// Package marketcache persists market price documents locally with
// TTL-based refresh.
//
// Each (market, provider) pair maps to one JSON file
// {document, fetched_at_utc} under the platform cache directory. A read
// within the TTL returns the cached document unchanged; a stale read
// triggers exactly one refetch (deduplicated through singleflight) and
// overwrites the file.
//
// A corrupt or unreadable entry is logged and degraded to a cache miss;
// only a failed refetch surfaces as an error. Concurrent runs of the
// whole tool can race on the files; a single-instance deployment is
// assumed.
package marketcache
