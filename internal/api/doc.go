// Package api provides the rate-limited Polygon.io REST client.
//
// Endpoints used:
//   - GET /v2/aggs/ticker/{ticker}/prev        previous-close aggregate
//   - GET /v3/reference/options/contracts      option contract listing
//   - GET /v2/last/trade/{ticker}              last trade
//   - GET /v3/quotes/{ticker}                  latest quote
//
// Every call waits on a shared token-bucket limiter before going out so the
// whole run stays under the provider's free-tier budget of 5 calls/minute.
package api
