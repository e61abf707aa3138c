// Package zendesk provides an ArticleSource for Zendesk Help Center.
//
// It pages through the Help Center articles API (most recently updated
// first) until the API reports no further page. Requests are throttled
// proactively and back off on HTTP 429 using the Retry-After header.
//
// Authentication is optional for public help centers. When configured it
// uses either an API token (email/token basic auth) or an OAuth bearer token.
package zendesk
