// Package server exposes the comment model over local HTTP.
//
// Endpoints:
//   - GET  /status           - {"status":"ready"} (200) or {"status":"loading"} (503)
//   - POST /generate-comment - {"code": "..."} -> {"comment": "..."}
//
// Until LoadModel succeeds every generation request is answered with 503.
package server
