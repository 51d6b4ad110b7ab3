// Command strands-coop runs one participant of a co-op Strands game.
//
// It supports two modes:
//  1. "play" (default) – connects to the game server and serves the local REST API, the
//     observer WebSocket, /metrics and an /mcp HTTP endpoint
//  2. "mcp" – runs an MCP stdio server, reusing a running local API or starting an internal one
//
// Settings come from an optional settings.yaml, STRANDS_* environment variables
// and flags, in increasing precedence. A .env file is loaded first when present.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/strands-coop/api"
	"github.com/wricardo/strands-coop/game/board"
	"github.com/wricardo/strands-coop/game/config"
	"github.com/wricardo/strands-coop/game/engine"
	"github.com/wricardo/strands-coop/game/multiplayer"
	"github.com/wricardo/strands-coop/game/service"
	"github.com/wricardo/strands-coop/game/session"
	"github.com/wricardo/strands-coop/metrics"
	"github.com/wricardo/strands-coop/settings"
	"github.com/wricardo/strands-coop/transport/mcp"
	"github.com/wricardo/strands-coop/transport/websocket"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Strands Co-op"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "warning: loading .env: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().Run(ctx, os.Args); err != nil {
		slog.Error("exit", "err", err)
		os.Exit(1)
	}
}

func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:    "strands-coop",
		Usage:   "play Strands together over a shared game server",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "settings YAML file (default ./settings.yaml when present)", Sources: cli.EnvVars("STRANDS_CONFIG")},
			&cli.BoolFlag{Name: "debug", Usage: "enable debug logging", Sources: cli.EnvVars("STRANDS_DEBUG")},
			&cli.StringFlag{Name: "server-url", Usage: "game server websocket URL"},
			&cli.StringFlag{Name: "host", Usage: "local API host"},
			&cli.IntFlag{Name: "port", Usage: "local API port"},
			&cli.StringFlag{Name: "boards-dir", Usage: "directory of board JSON files"},
			&cli.StringFlag{Name: "identity-file", Usage: "where the server-issued identity is cached"},
			&cli.BoolFlag{Name: "ngrok", Usage: "expose the local API through an ngrok tunnel", Sources: cli.EnvVars("NGROK_ENABLED")},
			&cli.StringFlag{Name: "ngrok-auth", Usage: "ngrok auth token", Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN")},
			&cli.StringFlag{Name: "ngrok-domain", Usage: "custom ngrok domain", Sources: cli.EnvVars("NGROK_DOMAIN")},
		},
		Action: runPlay,
		Commands: []*cli.Command{
			{
				Name:   "play",
				Usage:  "connect to the game server and serve the local API (default)",
				Action: runPlay,
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp", "mcp-stdio"},
				Usage:   "run an MCP stdio server backed by the local API",
				Action:  runMCP,
			},
		},
	}
}

// setupLogging installs a text handler on stderr tagged with a per-process run id.
func setupLogging(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	runID := uuid.NewString()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})).With("run_id", runID)
	slog.SetDefault(logger)
	return logger
}

// loadSettings reads settings and applies flags set on the command line.
func loadSettings(cmd *cli.Command) (settings.Settings, error) {
	st, err := settings.Load(cmd.String("config"))
	if err != nil {
		return st, err
	}

	if cmd.IsSet("server-url") {
		st.ServerURL = cmd.String("server-url")
	}
	if cmd.IsSet("host") {
		st.HTTPHost = cmd.String("host")
	}
	if cmd.IsSet("port") {
		st.HTTPPort = int(cmd.Int("port"))
	}
	if cmd.IsSet("boards-dir") {
		st.BoardsDir = cmd.String("boards-dir")
	}
	if cmd.IsSet("identity-file") {
		st.IdentityFile = cmd.String("identity-file")
	}

	if err := st.Validate(); err != nil {
		return st, err
	}
	return st, nil
}

// app holds the wired components of one participant.
type app struct {
	settings  settings.Settings
	logger    *slog.Logger
	client    *multiplayer.Client
	progress  *engine.Progress
	boards    *config.Manager
	service   service.MultiplayerService
	hub       *websocket.Hub
	collector *metrics.Collector
}

// buildApp wires the link, client, game logic, board library and service.
// Nothing is connected yet.
func buildApp(st settings.Settings, logger *slog.Logger) (*app, error) {
	boards, err := config.NewManager(st.BoardsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create board library: %w", err)
	}

	link := websocket.NewLink(websocket.LinkConfig{
		URL:          st.ServerURL,
		PingInterval: st.PingInterval,
		WriteWait:    st.WriteWait,
		Logger:       logger,
	})

	progress := engine.NewProgress(boards.GetDefault())
	progress.SetLogger(logger.With("component", "engine"))
	collector := metrics.NewCollector()
	hub := websocket.NewHub(logger)
	notifier := &observerNotifier{hub: hub, logger: logger.With("component", "notifier")}

	client := multiplayer.New(link, progress,
		multiplayer.WithLogger(logger),
		multiplayer.WithRecorder(collector),
		multiplayer.WithNotifier(notifier),
		multiplayer.WithReplayStep(st.ReplayStep),
		multiplayer.WithIdentityStore(session.NewFilePersistence(st.IdentityFile)),
	)
	notifier.room = func() string { return api.ObserverRoom(client.State().RoomID) }

	progress.OnChange(func(snap board.Snapshot) {
		hub.BroadcastSnapshot(api.ObserverRoom(client.State().RoomID), snap)
	})

	return &app{
		settings:  st,
		logger:    logger,
		client:    client,
		progress:  progress,
		boards:    boards,
		service:   service.NewMultiplayerService(client, progress, boards, st.RequestTimeout),
		hub:       hub,
		collector: collector,
	}, nil
}

// connect opens the server link and logs in with the cached identity. A
// failed login is logged; the API stays up so the caller can retry.
func (a *app) connect(ctx context.Context) error {
	if err := a.client.Connect(ctx); err != nil {
		return err
	}

	loginCtx, cancel := context.WithTimeout(ctx, a.settings.RequestTimeout)
	defer cancel()
	id, err := a.client.LoginCached().Wait(loginCtx)
	if err != nil {
		a.logger.Warn("login failed", "err", err)
		return nil
	}
	a.logger.Info("logged in", "participant", id.ID)
	return nil
}

// handler combines the REST API with the /mcp endpoint.
func (a *app) handler(baseURL string) http.Handler {
	apiServer := api.NewServer(a.service, a.hub, a.collector.Handler())
	mcpClient := mcp.NewClient(baseURL)

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", mcpHandler(mcpClient.GetMCPServer()))
	return mainRouter
}

// mcpHandler serves single JSON-RPC messages over HTTP POST.
func mcpHandler(s *server.MCPServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := s.HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	}
}

func newHTTPServer(handler http.Handler) *http.Server {
	return &http.Server{
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// runPlay connects to the game server and serves the local API until the
// context is cancelled.
func runPlay(ctx context.Context, cmd *cli.Command) error {
	logger := setupLogging(cmd.Bool("debug"))

	st, err := loadSettings(cmd)
	if err != nil {
		return fmt.Errorf("settings: %w", err)
	}

	a, err := buildApp(st, logger)
	if err != nil {
		return err
	}
	go a.hub.Run(ctx)

	logger.Info("starting", "app", AppName, "version", Version, "server", st.ServerURL)
	if err := a.connect(ctx); err != nil {
		return err
	}
	defer a.client.Close()

	addr := st.Addr()
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	mainRouter := a.handler("http://" + addr)
	httpServer := newHTTPServer(mainRouter)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("local API listening",
			"api", fmt.Sprintf("http://%s/api", addr),
			"ws", fmt.Sprintf("ws://%s/ws", addr),
			"mcp", fmt.Sprintf("http://%s/mcp", addr),
		)
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "err", err)
		}
	}()

	if cmd.Bool("ngrok") {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrok(ctx, logger, cmd.String("ngrok-auth"), cmd.String("ngrok-domain"), mainRouter)
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP server shutdown", "err", err)
	}

	wg.Wait()
	logger.Info("stopped")
	return nil
}

// runNgrok serves handler through an ngrok tunnel until ctx is done.
func runNgrok(ctx context.Context, logger *slog.Logger, authToken, domain string, handler http.Handler) {
	if authToken == "" {
		logger.Warn("ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN)")
		return
	}

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		logger.Error("ngrok tunnel failed", "err", err)
		return
	}

	go func() {
		<-ctx.Done()
		tun.Close()
	}()

	logger.Info("ngrok tunnel established", "url", tun.URL(), "mcp", tun.URL()+"/mcp")
	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		logger.Warn("ngrok server stopped", "err", err)
	}
}

// runMCP serves MCP over stdio. It proxies to a local API already running at
// the configured address, or starts an internal one on a random port.
func runMCP(ctx context.Context, cmd *cli.Command) error {
	logger := setupLogging(cmd.Bool("debug"))

	st, err := loadSettings(cmd)
	if err != nil {
		return fmt.Errorf("settings: %w", err)
	}

	baseURL := "http://" + st.Addr()
	if apiAvailable(ctx, baseURL) {
		logger.Info("using running local API", "url", baseURL)
		return server.ServeStdio(mcp.NewClient(baseURL).GetMCPServer())
	}

	a, err := buildApp(st, logger)
	if err != nil {
		return err
	}
	go a.hub.Run(ctx)

	if err := a.connect(ctx); err != nil {
		return err
	}
	defer a.client.Close()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("internal listener: %w", err)
	}
	baseURL = "http://" + listener.Addr().String()

	httpServer := newHTTPServer(a.handler(baseURL))
	go func() {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("internal HTTP server failed", "err", err)
		}
	}()
	defer httpServer.Close()

	logger.Info("internal API started", "url", baseURL)
	return server.ServeStdio(mcp.NewClient(baseURL).GetMCPServer())
}

// apiAvailable reports whether a local API answers /health at baseURL.
func apiAvailable(ctx context.Context, baseURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// observerNotifier logs player-facing notices and forwards them to the
// observers of the current room.
type observerNotifier struct {
	hub    *websocket.Hub
	logger *slog.Logger
	room   func() string
}

func (n *observerNotifier) Error(key, msg string) {
	n.logger.Warn(msg, "key", key)
	n.broadcast("error", key, msg)
}

func (n *observerNotifier) Info(key, msg string) {
	n.logger.Info(msg, "key", key)
	n.broadcast("info", key, msg)
}

func (n *observerNotifier) broadcast(level, key, msg string) {
	room := websocket.SoloRoom
	if n.room != nil {
		room = n.room()
	}
	n.hub.BroadcastEvent(room, "notice", map[string]string{
		"level":   level,
		"key":     key,
		"message": msg,
	})
}
