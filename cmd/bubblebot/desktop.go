//go:build desktop

package main

// Register the desktop driver in binaries built with -tags desktop.
import _ "github.com/vovakirdan/bubblebot/internal/desktop"
