// Package api provides the local HTTP control API for a strands co-op
// participant.
//
// The api package implements:
//   - RESTful endpoints over the multiplayer service
//   - WebSocket upgrade for the observer stream
//   - The Prometheus scrape endpoint
//
// Endpoints:
//
// Identity:
//   - GET  /api/session - Current identity and room membership
//   - POST /api/login - Log in with the cached identity ({"fresh": true} for a new one)
//   - POST /api/connect - Reopen a lost server link and log in again
//
// Rooms:
//   - GET  /api/rooms - List rooms on the server
//   - POST /api/rooms - Create a room and join it as host
//   - POST /api/rooms/{id}/join - Join a room
//   - POST /api/room/leave - Leave the current room
//
// Play:
//   - GET  /api/state - Membership, puzzle status and progress
//   - POST /api/guess - Touch the letter at {"x": col, "y": row}
//   - POST /api/guess/end - End the current selection
//   - POST /api/hint - Spend the hint budget
//
// Boards:
//   - GET  /api/catalog - List the server's board catalog
//   - POST /api/catalog/{date}/download - Download, save and play a catalog board
//   - GET  /api/boards - List the local board library
//   - POST /api/boards/{name}/load - Play a library board
//
// Streams:
//   - GET /ws?room={id} - Progress snapshots for a room (defaults to the current one)
//   - GET /metrics - Prometheus metrics
//   - GET /health - Liveness
//
// Error Handling:
//
// Errors are returned as JSON with a status code derived from the error:
//
//	{
//	  "error": "error message"
//	}
//
// Missing boards are 404, malformed input 400, a missing identity 401,
// conflicts with room or hint rules 409 (a reconnect over an open link
// too), a lost link 503 and a server that did not answer in time 504.
//
// Usage:
//
//	server := api.NewServer(svc, hub, collector.Handler())
//	http.ListenAndServe("localhost:8090", server)
package api
