// Package websocket carries the cooperative puzzle over WebSocket.
//
// The package has two halves:
//   - Link, the client connection to the game server
//   - Hub, a local fan-out of room progress to observer connections
//
// Link:
//
// A Link moves through Disconnected → Connecting → Open → Disconnected. Once
// open it sends a PING line immediately and then every PingInterval (two
// minutes by default); the server's PONG travels up with every other frame
// and is discarded by the event router. Each text frame received is handed
// to the onFrame callback from a single read goroutine, so frames are seen
// in transport order. A frame may hold several newline-terminated lines.
//
// When the connection drops the Link returns to Disconnected and calls
// onLost exactly once. It never redials: the protocol has no resumable
// session beyond the cached identity, so the owner has to Connect, log in
// and rejoin its room again. Close is the caller's own shutdown and does
// not trigger onLost.
//
// Hub:
//
// The Hub keeps observers grouped by room id and pushes JSON messages:
//
//	{"room_id": "r1", "event": "snapshot", "snapshot": {...}}
//	{"room_id": "r1", "event": "notice", "data": {"level": "info", ...}}
//
// Observers are read-only; anything they send other than control frames is
// ignored. A slow observer whose buffer fills is dropped.
//
// Usage:
//
//	link := websocket.NewLink(websocket.LinkConfig{URL: "ws://localhost:8802"})
//	err := link.Connect(ctx, onFrame, onLost)
//
//	hub := websocket.NewHub(logger)
//	go hub.Run(ctx)
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, roomID)
//	})
//
// Concurrency:
//
// Send is safe from any goroutine; writes are serialized. The Hub registry
// is owned by the Run goroutine and reached only through channels.
package websocket
