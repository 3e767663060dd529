// Package session orchestrates the three access patterns over the
// token-budgeted packing engine: full-site crawl, search-result retrieval,
// and fixed-URL batch fetch.
//
// # Architecture
//
// A session owns one packer for its lifetime and is the only layer that
// touches external I/O, through three collaborator interfaces:
//
//   - Fetcher: retrieves one page's content
//   - Mapper: enumerates a site's URLs in crawl order
//   - Searcher: returns ordered search results
//
// Each session runs a strictly sequential fetch loop with one request in
// flight at a time, separated by a politeness delay. That sequencing is
// what guarantees page order within and across chunks; there is no
// parallel fan-out to race.
//
// # Error policy
//
// A failed map or search call is fatal: there is no partial enumeration
// to fall back on. A failed page fetch is recovered locally: the URL is
// logged, counted, and skipped, never retried. Cancellation is not an
// error: the packer is always flushed so buffered pages are never
// silently dropped, and the report carries a Cancelled state with a
// resume cursor.
//
// # Contract asymmetry
//
// Crawl returns every chunk the run produced. Search and batch return
// only the first chunk and a cursor, so callers page through results
// statelessly by re-invoking with the cursor. Preserve this asymmetry;
// it is part of the external contract, not an accident.
package session
