package session

import "testing"

func TestState(t *testing.T) {
	var s State

	if s.InRoom() {
		t.Fatal("zero state should not be in a room")
	}
	if !s.Identity.Empty() {
		t.Fatal("zero state should have no identity")
	}

	s.Adopt(Identity{ID: "u", Secret: "k"})
	s.EnterRoom("r1", "Alpha", "pw")
	s.Host = true
	s.Room.Board = "{}"

	v := s.View()
	if v.ParticipantID != "u" || v.RoomID != "r1" || v.RoomName != "Alpha" || !v.Host || !v.BoardLoaded {
		t.Errorf("unexpected view %+v", v)
	}

	s.EnterRoom("r2", "", "")
	if s.Room.Board != "" || s.Room.Password != "" {
		t.Errorf("entering a room should start from an empty room, got %+v", s.Room)
	}

	s.LeaveRoom()
	if s.InRoom() || s.Host {
		t.Errorf("leaving should clear room and host, got %+v", s)
	}
	if s.Identity.ID != "u" {
		t.Error("leaving must keep the identity")
	}
}
