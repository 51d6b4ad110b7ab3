package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/wricardo/strands-coop/game/config"
	"github.com/wricardo/strands-coop/game/engine"
	"github.com/wricardo/strands-coop/game/multiplayer"
	"github.com/wricardo/strands-coop/game/service"
	"github.com/wricardo/strands-coop/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service service.MultiplayerService
	hub     *websocket.Hub
	metrics http.Handler
	router  *mux.Router
}

// NewServer creates a new API server. metrics may be nil.
func NewServer(svc service.MultiplayerService, hub *websocket.Hub, metrics http.Handler) *Server {
	s := &Server{
		service: svc,
		hub:     hub,
		metrics: metrics,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Identity
	api.HandleFunc("/session", s.handleGetSession).Methods("GET")
	api.HandleFunc("/login", s.handleLogin).Methods("POST")
	api.HandleFunc("/connect", s.handleReconnect).Methods("POST")

	// Rooms
	api.HandleFunc("/rooms", s.handleListRooms).Methods("GET")
	api.HandleFunc("/rooms", s.handleCreateRoom).Methods("POST")
	api.HandleFunc("/rooms/{id}/join", s.handleJoinRoom).Methods("POST")
	api.HandleFunc("/room/leave", s.handleLeaveRoom).Methods("POST")

	// Play
	api.HandleFunc("/state", s.handleGetGameState).Methods("GET")
	api.HandleFunc("/guess", s.handleTouch).Methods("POST")
	api.HandleFunc("/guess/end", s.handleEndSelection).Methods("POST")
	api.HandleFunc("/hint", s.handleHint).Methods("POST")

	// Boards
	api.HandleFunc("/catalog", s.handleListCatalog).Methods("GET")
	api.HandleFunc("/catalog/{date}/download", s.handleDownloadBoard).Methods("POST")
	api.HandleFunc("/boards", s.handleListBoards).Methods("GET")
	api.HandleFunc("/boards/{name}/load", s.handleLoadBoard).Methods("POST")

	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	if s.metrics != nil {
		s.router.Handle("/metrics", s.metrics).Methods("GET")
	}

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps service errors onto status codes.
func respondServiceError(w http.ResponseWriter, err error) {
	respondError(w, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, config.ErrBoardNotFound):
		return http.StatusNotFound
	case errors.Is(err, config.ErrInvalidBoard), errors.Is(err, service.ErrInvalidDate):
		return http.StatusBadRequest
	case errors.Is(err, multiplayer.ErrNoIdentity):
		return http.StatusUnauthorized
	case errors.Is(err, multiplayer.ErrNotHost),
		errors.Is(err, multiplayer.ErrBoardPublished),
		errors.Is(err, multiplayer.ErrRequestPending),
		errors.Is(err, websocket.ErrAlreadyConnected),
		errors.Is(err, service.ErrRoomBoardFixed),
		errors.Is(err, engine.ErrHintUnavailable),
		errors.Is(err, engine.ErrNothingToHint):
		return http.StatusConflict
	case errors.Is(err, multiplayer.ErrLinkLost), errors.Is(err, websocket.ErrNotConnected):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// decodeOptional reads an optional JSON body into v. An empty body is fine.
func decodeOptional(r *http.Request, v interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// Identity Handlers

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	info, err := s.service.GetSession(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Fresh bool `json:"fresh,omitempty"`
	}
	if err := decodeOptional(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	info, err := s.service.Login(r.Context(), req.Fresh)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleReconnect(w http.ResponseWriter, r *http.Request) {
	info, err := s.service.Reconnect(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, info)
}

// Room Handlers

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := s.service.ListRooms(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(rooms),
		"rooms": rooms,
	})
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name,omitempty"`
		Password string `json:"password,omitempty"`
	}
	if err := decodeOptional(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.service.CreateRoom(r.Context(), req.Name, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	status := http.StatusCreated
	if !result.Accepted {
		status = http.StatusConflict
	}
	respondJSON(w, status, result)
}

func (s *Server) handleJoinRoom(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["id"]

	var req struct {
		Password string `json:"password,omitempty"`
	}
	if err := decodeOptional(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.service.JoinRoom(r.Context(), roomID, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	status := http.StatusOK
	if !result.Accepted {
		status = http.StatusForbidden
	}
	respondJSON(w, status, result)
}

func (s *Server) handleLeaveRoom(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.LeaveRoom(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Play Handlers

func (s *Server) handleGetGameState(w http.ResponseWriter, r *http.Request) {
	state, err := s.service.GetGameState(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleTouch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		X *int `json:"x"`
		Y *int `json:"y"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.X == nil || req.Y == nil {
		respondError(w, http.StatusBadRequest, "x and y are required")
		return
	}

	state, err := s.service.Touch(r.Context(), *req.X, *req.Y)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			status = http.StatusBadRequest
		}
		respondError(w, status, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleEndSelection(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.EndSelection(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.UseHint(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Board Handlers

func (s *Server) handleListCatalog(w http.ResponseWriter, r *http.Request) {
	entries, err := s.service.ListCatalog(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(entries),
		"entries": entries,
	})
}

func (s *Server) handleDownloadBoard(w http.ResponseWriter, r *http.Request) {
	date := mux.Vars(r)["date"]

	result, err := s.service.DownloadBoard(r.Context(), date)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleListBoards(w http.ResponseWriter, r *http.Request) {
	boards, err := s.service.ListBoards(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":  len(boards),
		"boards": boards,
	})
}

func (s *Server) handleLoadBoard(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	result, err := s.service.LoadBoard(r.Context(), name)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// WebSocket Handler

// handleWebSocket streams progress for ?room=, defaulting to the current
// room, or SoloRoom outside one.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		http.Error(w, "observer stream disabled", http.StatusNotFound)
		return
	}

	roomID := r.URL.Query().Get("room")
	if roomID == "" {
		info, err := s.service.GetSession(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		roomID = ObserverRoom(info.Session.RoomID)
	}

	s.hub.ServeWS(w, r, roomID)
}

// ObserverRoom returns the hub key for progress in roomID.
func ObserverRoom(roomID string) string {
	if roomID == "" {
		return websocket.SoloRoom
	}
	return roomID
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
