// Package service provides the blocking facade over the multiplayer client.
//
// The service package implements:
//   - Login with the cached identity or a fresh one
//   - Room listing, creation, joining and leaving
//   - Local play (touch, end selection, hint) relayed to the room
//   - Catalog listing and board download into the local library
//   - Loading library boards, published to the room when hosting
//
// Core Interfaces:
//
// MultiplayerService is the interface the REST API and MCP tools call.
// Multiplayer is the part of *multiplayer.Client it drives and
// BoardLibrary is the part of *config.Manager it reads and writes.
//
// Architecture:
//
// The multiplayer client never blocks: each command returns a completion
// handle. The service waits on those handles with the caller's context,
// bounded by a request timeout, so transports get plain request/response
// calls. Local moves are applied to the engine first and then relayed, one
// at a time, so peers see them in the same order.
//
// Usage:
//
//	progress := engine.NewProgress(nil)
//	client := multiplayer.New(link, progress)
//	boards, _ := config.NewManager("boards")
//	svc := service.NewMultiplayerService(client, progress, boards, 10*time.Second)
//
//	if _, err := svc.Login(ctx, false); err != nil {
//		log.Fatal(err)
//	}
//	room, err := svc.CreateRoom(ctx, "Friday puzzle", "")
package service
