//go:build desktop

package desktop

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-vgo/robotgo"
	hook "github.com/robotn/gohook"
	"gocv.io/x/gocv"

	"github.com/vovakirdan/bubblebot/internal/bot"
	"github.com/vovakirdan/bubblebot/internal/planner"
	"github.com/vovakirdan/bubblebot/internal/registry"
)

// ErrNoScreen is returned when the screen cannot be captured.
var ErrNoScreen = errors.New("desktop: screen capture failed")

// aimPause lets the game register the pointer before the click.
const aimPause = 100 * time.Millisecond

// ID is the registry ID of the desktop driver.
const ID = "desktop"

func init() {
	registry.Register(ID, "Local desktop (screen capture + mouse)", newDriver)
}

// Desktop observes the screen and shoots with the mouse.
type Desktop struct {
	detector *Detector
	stopKey  string
	logger   *log.Logger
}

func newDriver(opts registry.Options) (*registry.Driver, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	d := &Desktop{
		detector: NewDetector(opts.Config.Detect),
		stopKey:  opts.Config.Detect.StopKey,
		logger:   logger,
	}
	drv := &registry.Driver{Source: d, Actuator: d}
	if d.stopKey != "" {
		drv.Serve = d.Serve
	}
	return drv, nil
}

// capture grabs the whole screen.
func capture() (image.Image, error) {
	w, h := robotgo.GetScreenSize()
	if w <= 0 || h <= 0 {
		return nil, ErrNoScreen
	}

	bitmap := robotgo.CaptureScreen(0, 0, w, h)
	if bitmap == nil {
		return nil, ErrNoScreen
	}
	defer robotgo.FreeBitmap(bitmap)

	return robotgo.ToImage(bitmap), nil
}

// Snapshot captures the screen and detects the board.
func (d *Desktop) Snapshot(ctx context.Context) (planner.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return planner.Snapshot{}, err
	}

	img, err := capture()
	if err != nil {
		return planner.Snapshot{}, err
	}

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return planner.Snapshot{}, err
	}
	defer mat.Close()

	snap := d.detector.Detect(mat)
	d.logger.Debug("detected board", "bubbles", len(snap.Bubbles), "area", snap.PlayArea)
	return snap, nil
}

// Aim moves the pointer to the aim point and clicks.
func (d *Desktop) Aim(ctx context.Context, cmd bot.Command) error {
	robotgo.Move(cmd.Aim.X, cmd.Aim.Y)

	t := time.NewTimer(aimPause)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
	}

	robotgo.Click("left", false)
	d.logger.Info("clicked", "x", cmd.Aim.X, "y", cmd.Aim.Y, "round", cmd.Round)
	return nil
}

// Serve listens for the global stop key until ctx is done. A press ends the
// session with an error wrapping context.Canceled.
func (d *Desktop) Serve(ctx context.Context) error {
	pressed := make(chan struct{}, 1)
	hook.Register(hook.KeyDown, []string{d.stopKey}, func(hook.Event) {
		select {
		case pressed <- struct{}{}:
		default:
		}
	})

	events := hook.Start()
	done := hook.Process(events)
	defer func() {
		hook.End()
		<-done
	}()

	d.logger.Info("stop key armed", "key", d.stopKey)

	select {
	case <-ctx.Done():
		return nil
	case <-pressed:
		d.logger.Warn("stop key pressed", "key", d.stopKey)
		return fmt.Errorf("desktop: stop key %q: %w", d.stopKey, context.Canceled)
	}
}
