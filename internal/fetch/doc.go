// Package fetch provides the default HTTP implementations of the
// session collaborator interfaces: a content fetcher, a same-host link
// mapper, and a JSON search API client.
//
// # Architecture
//
//   - HTTPFetcher retrieves one page, decodes it charset-aware, and
//     optionally extracts plain text from HTML
//   - LinkMapper discovers a site's URLs breadth-first by following
//     same-host links, returning them in discovery order
//   - JSONSearcher queries a SearXNG-compatible search API
//
// Design decision: We implement our own mapper rather than using a
// crawling framework because:
//  1. The session layer needs a plain ordered URL list, not callbacks
//  2. Discovery order must be deterministic for cursor resumability
//  3. Politeness timing stays under the engine's control
//
// All three types enforce their own request timeouts and body size
// limits; the session layer treats any failure uniformly.
package fetch
