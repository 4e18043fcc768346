// Package api implements the HTTP REST API and WebSocket server for Omni Core.
//
// This package provides:
//   - REST endpoints for automation CRUD, templates, manual triggers, and run history
//   - Context endpoints for inspecting the snapshot and applying manual overrides
//   - WebSocket hub for real-time run completion broadcasts
//   - Middleware stack (request ID, logging, recovery, CORS, body size limits)
//   - TLS support for production deployments
//
// # Architecture
//
// The API server sits between user interfaces (web dashboard, mobile apps)
// and the automation catalog. Mutations go straight to the catalog; manual
// triggers execute synchronously and return the full run result. Run
// completions are broadcast to WebSocket clients on the "automations"
// channel, whether the run was started over HTTP, by the scheduler, or by
// an MQTT event.
//
// # Graceful Degradation
//
// The server operates without MQTT and without a run repository — automation
// management and manual triggers still work, only event ingestion over the
// broker and run history queries are unavailable.
package api
