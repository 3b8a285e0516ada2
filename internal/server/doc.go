// Package server exposes alignment over HTTP.
//
// Routes:
//
//	GET  /healthz        readiness and supported interpolation methods
//	POST /v1/align       align one request body (see api.DecodeAlignPayload)
//	GET  /v1/runs        recorded runs, newest first (?limit=N)
//	GET  /v1/runs/:id    one recorded run with its result
//	GET  /v1/logs        recent server log events (?since=N&follow=1&component=)
//
// Every response carries an X-Request-ID header; the same value is attached
// to log lines emitted while serving the request. When api.token is set,
// the /v1 routes require a matching bearer token. Serve holds an exclusive
// lock in the state directory so only one server runs per state directory.
package server
