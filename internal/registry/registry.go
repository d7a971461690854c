// Package registry provides a global registry for bot drivers. A driver
// pairs a Source the bot observes with an Actuator it shoots through.
// Drivers register themselves in init() functions, allowing the CLI to
// discover and instantiate them without hardcoded dependencies.
package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/bubblebot/internal/bot"
	"github.com/vovakirdan/bubblebot/internal/config"
)

// Options carries everything a factory may need. Drivers ignore the
// fields they have no use for.
type Options struct {
	Config config.BotConfig
	Path   string // Snapshot file or directory
	Board  string // Stored board name
	DBPath string // Board fixture database
	Logger *log.Logger
}

// Driver is an instantiated driver.
type Driver struct {
	Source   bot.Source
	Actuator bot.Actuator

	// Serve runs a background service the driver needs, such as a
	// listener. Nil when there is none.
	Serve func(ctx context.Context) error

	// Reset restarts the game behind the driver. Nil when unsupported.
	Reset func()

	// Close releases driver resources. Nil when there is nothing to release.
	Close func() error
}

// Shutdown calls Close if the driver has one.
func (d *Driver) Shutdown() error {
	if d.Close == nil {
		return nil
	}
	return d.Close()
}

// DriverInfo contains metadata about a registered driver.
type DriverInfo struct {
	ID    string
	Title string
}

// Factory creates a new driver instance.
type Factory func(opts Options) (*Driver, error)

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a driver factory to the registry.
// Typically called from an init() function.
// Panics if a driver with the same ID is already registered.
func Register(id, title string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: driver %q already registered", id))
	}

	factories[id] = f
	titles[id] = title
}

// List returns information about all registered drivers, sorted by ID.
func List() []DriverInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]DriverInfo, 0, len(factories))
	for id := range factories {
		result = append(result, DriverInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a driver by its ID.
// Returns an error if the driver ID is not registered.
func Create(id string, opts Options) (*Driver, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown driver %q", id)
	}

	d, err := f(opts)
	if err != nil {
		return nil, fmt.Errorf("registry: driver %q: %w", id, err)
	}
	return d, nil
}

// Exists checks if a driver with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
