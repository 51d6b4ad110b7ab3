// Package mcp exposes a strands co-op participant to AI agents over the Model
// Context Protocol.
//
// The Client is a thin proxy: every tool calls the participant's local REST
// API (see package api) and renders the JSON response as text.
//
// MCP Tools:
//   - session_info, login, reconnect: Identity and the server link
//   - list_rooms, create_room, join_room, leave_room: Rooms
//   - game_state, touch_letter, end_selection, use_hint: Play
//   - list_catalog, download_board, list_boards, load_board: Boards
//   - game_instructions: Rules
//
// Transport Modes:
//
// The server is served either over stdio for local agents or through the
// /mcp HTTP endpoint mounted by the main binary.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8090")
//	server.ServeStdio(client.GetMCPServer())
package mcp
