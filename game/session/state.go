package session

// Identity is a server-issued participant id and its secret.
type Identity struct {
	ID     string `json:"uid"`
	Secret string `json:"key"`
}

// Empty reports whether no identity has been issued.
func (i Identity) Empty() bool {
	return i.ID == "" || i.Secret == ""
}

// Room is the current room membership. Board stays empty until the host
// publishes a document and is set at most once per room.
type Room struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Password string `json:"-"`
	Board    string `json:"-"`
}

// Empty reports whether the participant is outside any room.
func (r Room) Empty() bool {
	return r.ID == ""
}

// State is the participant's session: identity, membership and host flag.
type State struct {
	Identity Identity
	Room     Room
	Host     bool
}

// InRoom reports whether room-scoped commands may be sent.
func (s *State) InRoom() bool {
	return !s.Room.Empty()
}

// Adopt replaces the identity.
func (s *State) Adopt(id Identity) {
	s.Identity = id
}

// EnterRoom resets membership to a fresh room with no board.
func (s *State) EnterRoom(id, name, password string) {
	s.Room = Room{ID: id, Name: name, Password: password}
}

// LeaveRoom clears membership and the host flag.
func (s *State) LeaveRoom() {
	s.Room = Room{}
	s.Host = false
}

// View is a copy of State safe to hand outside the owning lock.
type View struct {
	ParticipantID string `json:"participant_id,omitempty"`
	RoomID        string `json:"room_id,omitempty"`
	RoomName      string `json:"room_name,omitempty"`
	Host          bool   `json:"host"`
	BoardLoaded   bool   `json:"board_loaded"`
}

// View returns an exported copy. The secret is never included.
func (s *State) View() View {
	return View{
		ParticipantID: s.Identity.ID,
		RoomID:        s.Room.ID,
		RoomName:      s.Room.Name,
		Host:          s.Host,
		BoardLoaded:   s.Room.Board != "",
	}
}
