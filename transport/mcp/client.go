package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/strands-coop/game/board"
	"github.com/wricardo/strands-coop/game/config"
	"github.com/wricardo/strands-coop/game/multiplayer"
	"github.com/wricardo/strands-coop/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Strands Co-op",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Strands Co-op - MCP Interface

This is a thin client that proxies all requests to the local control API of
one strands co-op participant.

GAME OBJECTIVE:
Find every theme word and the spangram hidden in the letter grid. Words are
spelled by touching adjacent letters (including diagonals) and ending the
selection. Players in the same room share progress.

AVAILABLE TOOLS:
- session_info: Current identity and room
- login: Log in (reuses the cached identity unless fresh is set)
- reconnect: Reopen a lost server link and log in again
- list_rooms / create_room / join_room / leave_room: Room management
- game_state: Grid, clue and progress
- touch_letter: Add the letter at column x, row y to the selection
- end_selection: Check the selected word
- use_hint: Reveal a theme word once enough other words were found
- list_catalog / download_board: Server board catalog
- list_boards / load_board: Local board library
- game_instructions: Rules and tips`),
	)

	c.registerTools()
}

func emptySchema() mcp.ToolInputSchema {
	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: map[string]interface{}{},
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Identity
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "session_info",
		Description: "Show the participant id, the current room and whether you are host",
		InputSchema: emptySchema(),
	}, c.handleSessionInfo)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "login",
		Description: "Log in to the game server with the cached identity, or a new one",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"fresh": map[string]interface{}{
					"type":        "boolean",
					"description": "Ask for a brand new identity instead of the cached one",
				},
			},
		},
	}, c.handleLogin)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reconnect",
		Description: "Reopen the server connection after it was lost and log in with the cached identity; rooms must be joined again",
		InputSchema: emptySchema(),
	}, c.handleReconnect)

	// Rooms
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_rooms",
		Description: "List the rooms open on the server",
		InputSchema: emptySchema(),
	}, c.handleListRooms)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_room",
		Description: "Create a room and join it as host; your current board is published to it",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Display name (optional)",
				},
				"password": map[string]interface{}{
					"type":        "string",
					"description": "Password guests must give (optional)",
				},
			},
		},
	}, c.handleCreateRoom)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "join_room",
		Description: "Join a room; its board and the host's progress are loaded",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"room_id": map[string]interface{}{
					"type":        "string",
					"description": "Room id from list_rooms",
				},
				"password": map[string]interface{}{
					"type":        "string",
					"description": "Room password, if it has one",
				},
			},
			Required: []string{"room_id"},
		},
	}, c.handleJoinRoom)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "leave_room",
		Description: "Leave the current room",
		InputSchema: emptySchema(),
	}, c.handleLeaveRoom)

	// Play
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the grid, clue, found words and current selection",
		InputSchema: emptySchema(),
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "touch_letter",
		Description: "Touch the letter at column x, row y. Touching the previous letter again backs up one step",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "Column, 0-based",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Row, 0-based",
				},
			},
			Required: []string{"x", "y"},
		},
	}, c.handleTouch)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "end_selection",
		Description: "End the current selection and check the word",
		InputSchema: emptySchema(),
	}, c.handleEndSelection)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "use_hint",
		Description: "Reveal a theme word. Needs enough non-theme words found first",
		InputSchema: emptySchema(),
	}, c.handleHint)

	// Boards
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_catalog",
		Description: "List the boards the server can send",
		InputSchema: emptySchema(),
	}, c.handleListCatalog)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "download_board",
		Description: "Download a catalog board by date, save it locally and play it",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"date": map[string]interface{}{
					"type":        "string",
					"description": "Print date, YYYY-MM-DD",
				},
			},
			Required: []string{"date"},
		},
	}, c.handleDownloadBoard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_boards",
		Description: "List the boards in the local library",
		InputSchema: emptySchema(),
	}, c.handleListBoards)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "load_board",
		Description: "Play a board from the local library",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Board id from list_boards",
				},
			},
			Required: []string{"name"},
		},
	}, c.handleLoadBoard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the rules and tips for playing",
		InputSchema: emptySchema(),
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"].(string); ok {
			return fmt.Errorf("%s", msg)
		}
		if msg, ok := errResp["message"].(string); ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		args = map[string]interface{}{}
	}
	return args
}

// intArg reads a JSON number argument.
func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), v == float64(int(v))
	case int:
		return v, true
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	}
	return 0, false
}

// Tool handlers

func (c *Client) handleSessionInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var info service.SessionInfo
	if err := c.apiCall(ctx, "GET", "/api/session", nil, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSessionInfo(&info)), nil
}

func (c *Client) handleLogin(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fresh, _ := arguments(request)["fresh"].(bool)

	var info service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/login", map[string]bool{"fresh": fresh}, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSessionInfo(&info)), nil
}

func (c *Client) handleReconnect(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var info service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/connect", nil, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSessionInfo(&info)), nil
}

func (c *Client) handleListRooms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count int                          `json:"count"`
		Rooms []multiplayer.RoomDescriptor `json:"rooms"`
	}
	if err := c.apiCall(ctx, "GET", "/api/rooms", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatRooms(response.Rooms)), nil
}

func (c *Client) handleCreateRoom(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	name, _ := args["name"].(string)
	password, _ := args["password"].(string)

	body := map[string]string{}
	if name != "" {
		body["name"] = name
	}
	if password != "" {
		body["password"] = password
	}

	var result service.RoomResult
	if err := c.apiCall(ctx, "POST", "/api/rooms", body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatRoomResult(&result)), nil
}

func (c *Client) handleJoinRoom(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	roomID, _ := args["room_id"].(string)
	password, _ := args["password"].(string)
	if roomID == "" {
		return mcp.NewToolResultError("room_id is required"), nil
	}

	body := map[string]string{}
	if password != "" {
		body["password"] = password
	}

	var result service.RoomResult
	if err := c.apiCall(ctx, "POST", fmt.Sprintf("/api/rooms/%s/join", roomID), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatRoomResult(&result)), nil
}

func (c *Client) handleLeaveRoom(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var result service.RoomResult
	if err := c.apiCall(ctx, "POST", "/api/room/leave", nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatRoomResult(&result)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var state service.GameState
	if err := c.apiCall(ctx, "GET", "/api/state", nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleTouch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	x, okX := intArg(args, "x")
	y, okY := intArg(args, "y")
	if !okX || !okY {
		return mcp.NewToolResultError("x and y must be whole numbers"), nil
	}

	var state service.GameState
	if err := c.apiCall(ctx, "POST", "/api/guess", map[string]int{"x": x, "y": y}, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Selection: %s\n", selectionText(state.Status.Selection))), nil
}

func (c *Client) handleEndSelection(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var result service.GuessResult
	if err := c.apiCall(ctx, "POST", "/api/guess/end", nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatGuessResult(&result)), nil
}

func (c *Client) handleHint(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var result service.HintResult
	if err := c.apiCall(ctx, "POST", "/api/hint", nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text := fmt.Sprintf("Hint: %s (%d letters)\n", result.Word, len(result.Word))
	if result.Relayed {
		text += "The room was told about the hint.\n"
	}
	return mcp.NewToolResultText(text), nil
}

func (c *Client) handleListCatalog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count   int             `json:"count"`
		Entries []board.Summary `json:"entries"`
	}
	if err := c.apiCall(ctx, "GET", "/api/catalog", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("Catalog (%d boards):\n\n", response.Count))
	for _, e := range response.Entries {
		result.WriteString(fmt.Sprintf("- %s: %q by %s\n", e.Date, e.Clue, e.Editor))
	}
	return mcp.NewToolResultText(result.String()), nil
}

func (c *Client) handleDownloadBoard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, _ := arguments(request)["date"].(string)
	if date == "" {
		return mcp.NewToolResultError("date is required"), nil
	}

	var result service.BoardResult
	if err := c.apiCall(ctx, "POST", fmt.Sprintf("/api/catalog/%s/download", date), nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatBoardResult(&result)), nil
}

func (c *Client) handleListBoards(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count  int                  `json:"count"`
		Boards []*config.BoardInfo `json:"boards"`
	}
	if err := c.apiCall(ctx, "GET", "/api/boards", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("Local boards (%d):\n\n", response.Count))
	for _, b := range response.Boards {
		result.WriteString(fmt.Sprintf("- %s (%s): %q\n", b.BoardID, b.PrintDate, b.Clue))
	}
	return mcp.NewToolResultText(result.String()), nil
}

func (c *Client) handleLoadBoard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, _ := arguments(request)["name"].(string)
	if name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}

	var result service.BoardResult
	if err := c.apiCall(ctx, "POST", fmt.Sprintf("/api/boards/%s/load", name), nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatBoardResult(&result)), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

const instructions = `Strands Co-op - Complete Instructions

GAME OBJECTIVE:
Every letter on the board belongs to exactly one answer. Find all theme
words, which share the clue's theme, and the spangram, which names the theme
and touches two opposite sides of the board.

SPELLING WORDS:
- touch_letter adds a letter; x is the column and y the row, both 0-based
- each new letter must touch the previous one, diagonals included
- touching the letter before the last one again removes the last one
- end_selection checks the word and clears the selection

RESULTS:
- spangram: the theme's name, found once
- theme_word: a word from the theme, highlighted for everyone in the room
- word: a valid non-theme word; these earn hints
- too_short, repeated, invalid: nothing changes

HINTS:
Every 3 valid non-theme words earn a hint. use_hint reveals the first theme
word not yet found and resets the count.

PLAYING TOGETHER:
1. login
2. create_room (you become host and your board is shared) or join_room
3. Guests receive the host's board and progress when they join
4. Every touch, word and hint is mirrored to the whole room

BOARDS:
- list_catalog and download_board fetch boards from the server
- list_boards and load_board use boards saved locally
- In a room only the host picks the board, before anyone has it

Good luck finding the spangram!`

// Formatting helpers

func formatSessionInfo(info *service.SessionInfo) string {
	if !info.LoggedIn {
		return "Not logged in. Use the login tool first.\n"
	}
	v := info.Session
	text := fmt.Sprintf("Participant: %s\n", v.ParticipantID)
	if v.RoomID == "" {
		return text + "Room: none\n"
	}
	text += fmt.Sprintf("Room: %s", v.RoomID)
	if v.RoomName != "" {
		text += fmt.Sprintf(" (%s)", v.RoomName)
	}
	text += "\n"
	if v.Host {
		text += "Role: host\n"
	} else {
		text += "Role: guest\n"
	}
	return text
}

func formatRooms(rooms []multiplayer.RoomDescriptor) string {
	if len(rooms) == 0 {
		return "No rooms open. Use create_room to start one.\n"
	}
	var result strings.Builder
	result.WriteString(fmt.Sprintf("Rooms (%d):\n\n", len(rooms)))
	for _, r := range rooms {
		name := r.Name
		if name == "" {
			name = "unnamed"
		}
		lock := ""
		if r.HasPassword {
			lock = ", password"
		}
		result.WriteString(fmt.Sprintf("- %s: %s (%d players%s)\n", r.ID, name, r.Occupants, lock))
	}
	return result.String()
}

func formatRoomResult(result *service.RoomResult) string {
	mark := "✓"
	if !result.Accepted {
		mark = "✗"
	}
	return fmt.Sprintf("%s %s\n", mark, result.Message)
}

func formatGameState(state *service.GameState) string {
	if state == nil {
		return "No game state available"
	}
	st := state.Status

	var result strings.Builder
	result.WriteString(fmt.Sprintf("Clue: %s\n", st.Clue))
	if st.Credits != "" {
		result.WriteString(fmt.Sprintf("By: %s\n", st.Credits))
	}
	result.WriteString(fmt.Sprintf("Theme words: %d/%d", len(st.ThemeWordsFound), st.ThemeWordCount))
	if st.SpangramFound {
		result.WriteString(" | Spangram: found")
	} else {
		result.WriteString(" | Spangram: not found")
	}
	result.WriteString(fmt.Sprintf(" | Words to next hint: %d\n\n", st.WordsToHint))

	// Grid with column and row numbers
	if len(st.Grid) > 0 {
		result.WriteString("   ")
		for x := range st.Grid[0] {
			result.WriteString(fmt.Sprintf("%d", x%10))
		}
		result.WriteString("\n")
		for y, row := range st.Grid {
			result.WriteString(fmt.Sprintf("%2d %s\n", y, row))
		}
	}

	if len(st.ThemeWordsFound) > 0 {
		result.WriteString(fmt.Sprintf("\nFound: %s\n", strings.Join(st.ThemeWordsFound, ", ")))
	}
	if st.Hinted != "" {
		result.WriteString(fmt.Sprintf("Hinted: %s\n", st.Hinted))
	}
	result.WriteString(fmt.Sprintf("Selection: %s\n", selectionText(st.Selection)))

	if state.Session.RoomID != "" {
		role := "guest"
		if state.Session.Host {
			role = "host"
		}
		result.WriteString(fmt.Sprintf("Room: %s (%s, %d other players)\n", state.Session.RoomID, role, len(st.Peers)))
	}

	if st.Won {
		result.WriteString("\n🎉 SOLVED!")
	}
	return result.String()
}

func selectionText(s string) string {
	if s == "" {
		return "(empty)"
	}
	return s
}

func formatGuessResult(result *service.GuessResult) string {
	g := result.Guess
	var text string
	switch g.Kind {
	case "spangram":
		text = fmt.Sprintf("✓ %s is the spangram!", g.Word)
	case "theme_word":
		text = fmt.Sprintf("✓ %s is a theme word", g.Word)
	case "word":
		text = fmt.Sprintf("%s is a word, but not in the theme", g.Word)
	case "repeated":
		text = fmt.Sprintf("%s was already found", g.Word)
	case "too_short":
		text = "✗ Too short"
	default:
		text = fmt.Sprintf("✗ %s is not a word on this board", selectionText(g.Word))
	}
	text += "\n"
	if result.GameState != nil {
		st := result.GameState.Status
		text += fmt.Sprintf("Theme words: %d/%d | Words to next hint: %d\n",
			len(st.ThemeWordsFound), st.ThemeWordCount, st.WordsToHint)
		if st.Won {
			text += "🎉 SOLVED!\n"
		}
	}
	return text
}

func formatBoardResult(result *service.BoardResult) string {
	text := fmt.Sprintf("Playing %s (%s): %q\n", result.BoardID, result.PrintDate, result.Clue)
	if result.Credits != "" {
		text += fmt.Sprintf("By: %s\n", result.Credits)
	}
	if result.Published {
		text += "Published to the room.\n"
	}
	return text
}
