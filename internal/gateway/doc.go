// Package gateway implements the HTTP front end of the WebCode editor.
//
// The gateway is a single-process server that fronts the browser-hosted
// editor client. It owns four concerns:
//
//   - Bootstrap rendering: the root document with its embedded JSON
//     configuration, theme colors and per-request Content-Security-Policy
//   - Static assets: sandboxed file serving under the application root
//     with weak-validator conditional GETs
//   - PWA manifest: absolute icon URLs derived from forwarded headers so
//     reverse-proxy deployments install correctly
//   - Callback broker: the redirect-callback + polling protocol that
//     hands a browser-delivered URI to an out-of-band client
//
// # Routing
//
// Requests are classified by an ordered list of predicates evaluated top
// to bottom; the first match wins. The order is part of the contract:
// icon, service-worker and /static/ requests are matched before anything
// that could require an access token. Unmatched paths go to an optional
// fallback handler, letting the gateway be embedded in a larger server.
//
// # Concurrency
//
// Handlers share no mutable state except the callback broker, which is a
// mutex-guarded map mutated only by its Register and Consume operations.
// Register overwrites unconditionally; Consume deletes on read, giving
// at-most-once delivery. Entries have no TTL: an unconsumed callback
// lives until the process exits.
//
// # Usage
//
//	cfg := config.Default()
//	cfg.AppRoot = "/srv/webcode"
//	srv, err := gateway.New(cfg, product.Default(), themeProvider)
//	if err != nil {
//		return err
//	}
//	return srv.Start()
package gateway
