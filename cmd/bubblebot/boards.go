package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/bubblebot/internal/planner"
	"github.com/vovakirdan/bubblebot/internal/platform/tui"
	"github.com/vovakirdan/bubblebot/internal/snapshot"
	"github.com/vovakirdan/bubblebot/internal/storage"
)

var boardsCmd = &cobra.Command{
	Use:   "boards",
	Short: "Manage stored board fixtures",
	Long: `Store recorded boards in the fixture database so the db driver can
replay them.

Examples:
  bubblebot boards import level1 board.yaml
  bubblebot boards list
  bubblebot boards show level1
  bubblebot boards delete level1
  bubblebot play --driver db --board level1`,
}

var boardsImportCmd = &cobra.Command{
	Use:   "import <name> <snapshot>",
	Short: "Store a snapshot file under a name",
	Args:  cobra.ExactArgs(2),
	Run:   runBoardsImport,
}

var boardsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored boards",
	Args:  cobra.NoArgs,
	Run:   runBoardsList,
}

var boardsShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Render a stored board with its planned shot",
	Args:  cobra.ExactArgs(1),
	Run:   runBoardsShow,
}

var boardsDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Remove a stored board",
	Args:  cobra.ExactArgs(1),
	Run:   runBoardsDelete,
}

func init() {
	boardsCmd.AddCommand(boardsImportCmd)
	boardsCmd.AddCommand(boardsListCmd)
	boardsCmd.AddCommand(boardsShowCmd)
	boardsCmd.AddCommand(boardsDeleteCmd)
}

func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening board database: %v\n", err)
		os.Exit(1)
	}
	return store
}

func runBoardsImport(_ *cobra.Command, args []string) {
	name, path := args[0], args[1]

	snap, err := snapshot.LoadFile(path)
	exitOnError(err)

	store := openStore()
	defer store.Close()

	if _, err := store.SaveBoard(name, snap); err != nil {
		store.Close()
		exitOnError(err)
	}
	fmt.Printf("Stored board %q (%d bubbles)\n", name, len(snap.Bubbles))
}

func runBoardsList(_ *cobra.Command, _ []string) {
	store := openStore()
	defer store.Close()

	boards, err := store.ListBoards()
	if err != nil {
		store.Close()
		exitOnError(err)
	}

	if len(boards) == 0 {
		fmt.Println("No boards stored yet.")
		fmt.Println()
		fmt.Println("Run 'bubblebot boards import <name> <snapshot>' to add one.")
		return
	}

	// Calculate column widths
	maxNameLen := 4 // "Name" header
	for _, b := range boards {
		maxNameLen = max(maxNameLen, len(b.Name))
	}

	fmt.Printf("  %-*s  %-7s  %s\n", maxNameLen, "Name", "Bubbles", "Stored")
	fmt.Printf("  %-*s  %-7s  %s\n", maxNameLen, "----", "-------", "------")
	for _, b := range boards {
		fmt.Printf("  %-*s  %-7d  %s\n", maxNameLen, b.Name, b.Bubbles, b.CreatedAt.Format("2006-01-02 15:04"))
	}
}

func runBoardsShow(_ *cobra.Command, args []string) {
	cfg, err := loadConfig()
	exitOnError(err)

	store := openStore()
	entry, err := store.Board(args[0])
	store.Close()
	exitOnError(err)

	p, err := planner.New(cfg.Planner)
	exitOnError(err)

	shot, err := p.Plan(entry.Snapshot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	fmt.Println(tui.DebugFrame(entry.Snapshot, shot, cfg.Runner.AimDistance))
	fmt.Println()
	fmt.Printf("%s: %d bubbles, stored %s\n", entry.Name, entry.Bubbles, entry.CreatedAt.Format("2006-01-02 15:04"))
	if shot != nil {
		fmt.Printf("Best shot: bubble #%d (%s, score %.1f)\n", shot.Index, shot.Kind, shot.Score)
	}
}

func runBoardsDelete(_ *cobra.Command, args []string) {
	store := openStore()
	defer store.Close()

	if err := store.DeleteBoard(args[0]); err != nil {
		store.Close()
		exitOnError(err)
	}
	fmt.Printf("Deleted board %q\n", args[0])
}
