// Package session holds the participant's view of who they are and where
// they are.
//
// Core Types:
//
// Identity is the (id, secret) pair the server issues on HELLO. It is
// presented as a bearer pair on every command that needs one. A client has
// at most one identity; adopting a new one replaces the old.
//
// Room is the current membership: id, display name, the password used to
// join, and the board document once a host publishes it. The zero Room
// means "not in a room".
//
// State bundles Identity, Room and the host flag. It carries no lock of its
// own; the multiplayer client guards it with a single mutex together with
// the room directory.
//
// Persistence:
//
// IdentityPersistence caches the identity between runs so the next login
// can resume it. FilePersistence keeps it in a small JSON file;
// MemoryPersistence is used when no file is configured.
//
//	store := session.NewFilePersistence("identity.json")
//	id, err := store.Load()
//	if errors.Is(err, session.ErrNoIdentityCached) {
//		// first run
//	}
package session
