// Package inspect serves a window's committed widget tree over HTTP.
//
// A Server is an app.Renderer: each commit is encoded as JSON, kept for
// GET /tree and pushed to every WebSocket client on /ws. Clients and HTTP
// callers can press widgets by ID.
//
// Routes:
//
//	GET  /healthz      liveness
//	GET  /tree         latest snapshot
//	POST /press/{id}   press a widget
//	GET  /ws           snapshot stream; accepts {"type":"press","id":N}
//	GET  /metrics      Prometheus exposition, when a gatherer is set
package inspect
