// Package server exposes the bridge's device states over HTTP.
//
// The endpoints are read-only:
//
//	GET /devices  — JSON array of every hosted device's current state
//	GET /ws       — WebSocket stream of state updates as they arrive
//	GET /healthz  — liveness probe
//
// The server is an observation surface only; commands always travel over
// the message bus, never through HTTP.
package server
