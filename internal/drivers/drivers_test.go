package drivers

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/bubblebot/internal/bot"
	"github.com/vovakirdan/bubblebot/internal/config"
	"github.com/vovakirdan/bubblebot/internal/core"
	"github.com/vovakirdan/bubblebot/internal/planner"
	"github.com/vovakirdan/bubblebot/internal/registry"
	"github.com/vovakirdan/bubblebot/internal/snapshot"
	"github.com/vovakirdan/bubblebot/internal/storage"
)

func reference() planner.Snapshot {
	return planner.Snapshot{
		Bubbles: []planner.Bubble{
			{X: 200, Y: 150, Radius: 25, HitCount: 2},
			{X: 300, Y: 200, Radius: 20, HitCount: 1},
			{X: 500, Y: 100, Radius: 30, HitCount: 3},
		},
		Shooter:  core.Pt(400, 500),
		PlayArea: core.NewRect(0, 0, 800, 600),
	}
}

func TestBuiltinsRegistered(t *testing.T) {
	for _, id := range []string{Sim, File, DB, Remote} {
		if !registry.Exists(id) {
			t.Errorf("driver %q is not registered", id)
		}
	}
}

func TestSimDriver(t *testing.T) {
	d, err := registry.Create(Sim, registry.Options{Config: config.DefaultBotConfig()})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	defer d.Shutdown()

	snap, err := d.Source.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	cfg := config.DefaultBotConfig().Sim
	if len(snap.Bubbles) != cfg.Rows*cfg.Cols {
		t.Errorf("Snapshot() = %d bubbles, expected %d", len(snap.Bubbles), cfg.Rows*cfg.Cols)
	}
	if d.Reset == nil {
		t.Error("sim driver has no Reset")
	}
}

func TestFileDriver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.yaml")
	data, err := snapshot.Encode(reference())
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	d, err := registry.Create(File, registry.Options{Config: config.DefaultBotConfig(), Path: path})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	snap, err := d.Source.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if len(snap.Bubbles) != 3 {
		t.Errorf("Snapshot() = %d bubbles, expected 3", len(snap.Bubbles))
	}
	if err := d.Actuator.Aim(context.Background(), bot.Command{}); err != nil {
		t.Errorf("Aim() error = %v", err)
	}
}

func TestDBDriver(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "boards.db")
	store, err := storage.Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.SaveBoard("reference", reference()); err != nil {
		t.Fatal(err)
	}
	store.Close()

	opts := registry.Options{Config: config.DefaultBotConfig(), DBPath: dbPath, Board: "reference"}
	d, err := registry.Create(DB, opts)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	snap, err := d.Source.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if snap.Shooter != core.Pt(400, 500) || len(snap.Bubbles) != 3 {
		t.Errorf("Snapshot() = %+v, expected the stored board", snap)
	}

	opts.Board = "missing"
	if _, err := registry.Create(DB, opts); !errors.Is(err, storage.ErrBoardNotFound) {
		t.Errorf("Create() error = %v, expected %v", err, storage.ErrBoardNotFound)
	}
}

func TestDriverOptionErrors(t *testing.T) {
	tests := []struct {
		id   string
		opts registry.Options
	}{
		{File, registry.Options{}},
		{File, registry.Options{Path: filepath.Join(t.TempDir(), "missing.yaml")}},
		{DB, registry.Options{}},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if _, err := registry.Create(tt.id, tt.opts); err == nil {
				t.Error("Create() error = nil")
			}
		})
	}
}

func TestRemoteDriver(t *testing.T) {
	d, err := registry.Create(Remote, registry.Options{Config: config.DefaultBotConfig()})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if d.Serve == nil {
		t.Fatal("remote driver has no Serve")
	}
	if err := d.Actuator.Aim(context.Background(), bot.Command{}); err == nil {
		t.Error("Aim() without a client succeeded")
	}
}
