// Package tind implements the catalogue client for the TIND digital
// collections API.
//
// # Endpoints
//
// The client uses four endpoints relative to the API base URL:
//
//   - record/{id}/?of=xm: the MARCXML record for one catalogue ID
//   - record/{id}/files: a JSON list of attached files
//   - record/{id}/files/{name}/download/: the file content
//   - search?p={query}&of=xm: one page of MARCXML search hits
//
// # Authentication
//
// Every request carries an "Authorization: Token <key>" header. A missing
// key fails before any request is made and a 401 response fails with
// [domain.ErrAuthorization]. Neither is retried.
//
// # Pagination
//
// Search results are paged with an opaque search_id cursor returned in
// each page. The pager requests pages until one comes back empty. A
// failure on any page, including an expired cursor, is reported as a
// [domain.CatalogueError] rather than a silently shortened result.
//
// # Rate Limiting
//
// Requests are throttled by a token bucket (golang.org/x/time/rate). A
// 429 response surfaces as a [RateLimitError] carrying the Retry-After time.
package tind
