// Package state keeps per-user conversation sessions for multi-step Telegram flows.
// Stores are generic over the session type and interchangeable: an in-memory map
// for single-process deployments and Redis for sessions that outlive restarts.
package state
