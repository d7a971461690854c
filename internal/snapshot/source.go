package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/vovakirdan/bubblebot/internal/planner"
)

// FileSource replays recorded snapshot documents. A directory is read as a
// sequence of frames in lexical order; once exhausted the last frame repeats.
type FileSource struct {
	mu     sync.Mutex
	frames []planner.Snapshot
	next   int
}

// NewFileSource loads a single document or every .yaml, .yml and .json file
// in a directory.
func NewFileSource(path string) (*FileSource, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}

	paths := []string{path}
	if info.IsDir() {
		paths, err = framePaths(path)
		if err != nil {
			return nil, err
		}
	}

	src := &FileSource{}
	for _, p := range paths {
		s, err := LoadFile(p)
		if err != nil {
			return nil, err
		}
		src.frames = append(src.frames, s)
	}
	return src, nil
}

// NewStaticSource replays the given frames.
func NewStaticSource(frames ...planner.Snapshot) *FileSource {
	return &FileSource{frames: frames}
}

// Len returns the number of recorded frames.
func (f *FileSource) Len() int {
	return len(f.frames)
}

// Snapshot returns the next recorded frame.
func (f *FileSource) Snapshot(ctx context.Context) (planner.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return planner.Snapshot{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.frames) == 0 {
		return planner.Snapshot{}, fmt.Errorf("snapshot: no frames recorded")
	}
	s := f.frames[f.next]
	if f.next < len(f.frames)-1 {
		f.next++
	}
	return s.Clone(), nil
}

func framePaths(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml", ".json":
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("snapshot: no frames in %s", dir)
	}
	sort.Strings(paths)
	return paths, nil
}
