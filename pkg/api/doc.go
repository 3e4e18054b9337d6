// Package api serves layouts and coordinate transforms over HTTP.
//
// # Endpoints
//
//	GET  /healthz        liveness and build information
//	GET  /metrics        Prometheus exposition (when a registry is configured)
//	GET  /v1/algorithms  available layout algorithms
//	POST /v1/layout      lay out a graph, optionally through a view, and render it
//	POST /v1/transform   map points through a view (or back with "inverse")
//
// Errors are answered as {"code": ..., "message": ...} with the status
// derived from the error code, see [errors.HTTPStatus].
//
// The router is built on chi. Every response carries an X-Request-ID header
// which is also attached to the request log line.
package api
