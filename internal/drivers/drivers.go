// Package drivers registers the built-in bot drivers. Import it for its
// side effects:
//
//	import _ "github.com/vovakirdan/bubblebot/internal/drivers"
package drivers

import (
	"errors"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/bubblebot/internal/bot"
	"github.com/vovakirdan/bubblebot/internal/registry"
	"github.com/vovakirdan/bubblebot/internal/remote"
	"github.com/vovakirdan/bubblebot/internal/sim"
	"github.com/vovakirdan/bubblebot/internal/snapshot"
	"github.com/vovakirdan/bubblebot/internal/storage"
)

// Driver IDs.
const (
	Sim    = "sim"
	File   = "file"
	DB     = "db"
	Remote = "remote"
)

func init() {
	registry.Register(Sim, "Simulated board", newSim)
	registry.Register(File, "Recorded snapshot files", newFile)
	registry.Register(DB, "Stored board fixture", newDB)
	registry.Register(Remote, "Websocket game client", newRemote)
}

func logger(opts registry.Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return log.New(io.Discard)
}

func newSim(opts registry.Options) (*registry.Driver, error) {
	g := sim.New(opts.Config.Sim, opts.Config.Planner.Physics)
	return &registry.Driver{Source: g, Actuator: g, Reset: g.Reset}, nil
}

func newFile(opts registry.Options) (*registry.Driver, error) {
	if opts.Path == "" {
		return nil, errors.New("a snapshot path is required")
	}
	src, err := snapshot.NewFileSource(opts.Path)
	if err != nil {
		return nil, err
	}
	return &registry.Driver{
		Source:   src,
		Actuator: bot.LogActuator{Logger: logger(opts)},
	}, nil
}

// newDB replays a stored board in the simulator, so shots change it.
func newDB(opts registry.Options) (*registry.Driver, error) {
	if opts.Board == "" {
		return nil, errors.New("a board name is required")
	}

	store, err := storage.Open(opts.DBPath)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	entry, err := store.Board(opts.Board)
	if err != nil {
		return nil, err
	}

	g := sim.NewFromSnapshot(entry.Snapshot, opts.Config.Planner.Physics, opts.Config.Sim.DriftEvery)
	return &registry.Driver{Source: g, Actuator: g, Reset: g.Reset}, nil
}

func newRemote(opts registry.Options) (*registry.Driver, error) {
	b := remote.New(opts.Config.Remote, logger(opts))
	return &registry.Driver{Source: b, Actuator: b, Serve: b.ListenAndServe}, nil
}
