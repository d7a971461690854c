// Package remote bridges the bot to a game client over a websocket. An
// instrumentation hook in the client pushes board snapshots and receives
// aim commands.
package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"

	"github.com/vovakirdan/bubblebot/internal/bot"
	"github.com/vovakirdan/bubblebot/internal/config"
	"github.com/vovakirdan/bubblebot/internal/planner"
	"github.com/vovakirdan/bubblebot/internal/snapshot"
)

// ErrNoClient is returned by Aim when no game client is connected.
var ErrNoClient = errors.New("remote: no client connected")

// Message types.
const (
	TypeSnapshot = "snapshot"
	TypeAim      = "aim"
)

// SnapshotMessage is pushed by the client whenever the board changes.
type SnapshotMessage struct {
	Type string `json:"type"`
	snapshot.Document
}

// AimMessage is pushed to the client for every shot.
type AimMessage struct {
	Type    string `json:"type"`
	ID      string `json:"id"`
	Round   int    `json:"round"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	TargetX int    `json:"target_x"`
	TargetY int    `json:"target_y"`
}

// Bridge is a websocket endpoint serving one game client at a time.
// It implements bot.Source and bot.Actuator.
type Bridge struct {
	cfg    config.RemoteConfig
	logger *log.Logger

	mu     sync.Mutex
	busy   bool
	conn   *websocket.Conn
	connID uuid.UUID

	snapshots chan planner.Snapshot
}

// New creates a bridge. A nil logger discards log output.
func New(cfg config.RemoteConfig, logger *log.Logger) *Bridge {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cfg.Path == "" {
		cfg.Path = "/ws"
	}
	return &Bridge{
		cfg:       cfg,
		logger:    logger,
		snapshots: make(chan planner.Snapshot, 1),
	}
}

// Handler returns the HTTP handler serving the websocket endpoint.
func (b *Bridge) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(b.cfg.Path, b)
	return mux
}

// ListenAndServe serves the bridge on cfg.Addr until ctx is done.
func (b *Bridge) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              b.cfg.Addr,
		Handler:           b.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		b.logger.Info("waiting for game client", "address", b.cfg.Addr, "path", b.cfg.Path)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("remote: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// ServeHTTP accepts a game client connection.
func (b *Bridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	if b.busy {
		b.mu.Unlock()
		http.Error(w, "a game client is already connected", http.StatusConflict)
		return
	}
	b.busy = true
	b.mu.Unlock()

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Game pages are served from arbitrary origins
	})
	if err != nil {
		b.release(nil)
		b.logger.Error("failed to accept", "error", err)
		return
	}

	id := uuid.New()
	b.mu.Lock()
	b.conn = conn
	b.connID = id
	b.mu.Unlock()

	b.logger.Info("client connected", "client", id, "remote", r.RemoteAddr)
	err = b.readLoop(r.Context(), conn)
	b.release(conn)
	b.logger.Info("client disconnected", "client", id, "reason", err)
}

// release detaches conn and drops any snapshot it left unread, so the next
// Snapshot call waits for a live client.
func (b *Bridge) release(conn *websocket.Conn) {
	b.mu.Lock()
	select {
	case <-b.snapshots:
	default:
	}
	b.busy = false
	b.conn = nil
	b.mu.Unlock()

	if conn != nil {
		conn.Close(websocket.StatusNormalClosure, "")
	}
}

func (b *Bridge) readLoop(ctx context.Context, conn *websocket.Conn) error {
	for {
		var msg SnapshotMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			return err
		}
		if msg.Type != TypeSnapshot {
			b.logger.Warn("ignoring message", "type", msg.Type)
			continue
		}

		snap, err := msg.Document.Snapshot()
		if err != nil {
			b.logger.Warn("ignoring snapshot", "error", err)
			continue
		}
		b.publish(snap)
	}
}

// publish replaces any unread snapshot with snap.
func (b *Bridge) publish(snap planner.Snapshot) {
	select {
	case <-b.snapshots:
	default:
	}
	select {
	case b.snapshots <- snap:
	default:
	}
}

// Connected reports whether a game client is attached.
func (b *Bridge) Connected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conn != nil
}

// Snapshot blocks until the client pushes a snapshot.
func (b *Bridge) Snapshot(ctx context.Context) (planner.Snapshot, error) {
	select {
	case <-ctx.Done():
		return planner.Snapshot{}, ctx.Err()
	case s := <-b.snapshots:
		return s, nil
	}
}

// Aim sends cmd to the connected client.
func (b *Bridge) Aim(ctx context.Context, cmd bot.Command) error {
	b.mu.Lock()
	conn, id := b.conn, b.connID
	b.mu.Unlock()
	if conn == nil {
		return ErrNoClient
	}

	if b.cfg.WriteTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.cfg.WriteTimeout)
		defer cancel()
	}

	msg := AimMessage{
		Type:    TypeAim,
		ID:      cmd.ID.String(),
		Round:   cmd.Round,
		X:       cmd.Aim.X,
		Y:       cmd.Aim.Y,
		TargetX: cmd.Target.X,
		TargetY: cmd.Target.Y,
	}
	if err := wsjson.Write(ctx, conn, msg); err != nil {
		return fmt.Errorf("remote: send aim: %w", err)
	}
	b.logger.Debug("aim sent", "client", id, "command", cmd.ID, "x", msg.X, "y", msg.Y)
	return nil
}
