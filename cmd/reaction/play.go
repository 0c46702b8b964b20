package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-reaction/internal/core"
	"github.com/vovakirdan/tui-reaction/internal/games/reaction"
	"github.com/vovakirdan/tui-reaction/internal/platform/tui"
	"github.com/vovakirdan/tui-reaction/internal/storage"
)

var flagLogFile string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play on the local terminal",
	Long: `Start the cabinet on the local terminal.

Controls:
  C/5          - Insert coin
  Space/Enter  - GO/STOP
  Tab          - Scoreboard
  Q/Ctrl+C     - Quit

Timing presets:
  easy   - Longer timeout and result hold, shorter cue range
  normal - Default machine timing
  hard   - Short timeout, wide and unpredictable cue range

Examples:
  reaction play
  reaction play --preset hard
  reaction play --seed 42 --log-file ./reaction.log`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write debug log to file (disabled if empty)")
}

func runPlay(_ *cobra.Command, _ []string) {
	appCfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// The alternate screen owns stdout, so logs only go to a file.
	logOut, closeLog, err := openLog(flagLogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}
	logger := log.NewWithOptions(logOut, log.Options{
		ReportTimestamp: true,
		Prefix:          "reaction",
		Level:           logLevel(appCfg.Log.Level),
	})

	// Get terminal size
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: appCfg.Timing.TickRate,
		Seed:     flagSeed,
	}

	// Results only live for this process
	store, err := storage.Open(storage.MemoryDSN)
	if err != nil {
		logger.Warn("could not open results board", "error", err)
		fmt.Fprintf(os.Stderr, "Warning: could not open results board: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}

	player := os.Getenv("USER")
	if player == "" {
		player = "player"
	}

	game := reaction.New(reaction.TimingFromConfig(appCfg.Timing))
	runErr := tui.Run(game, store, cfg, player, logger)

	// Close store and log before potential exit
	if store != nil {
		store.Close()
	}
	closeLog()

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}

// openLog opens the append-only debug log, or discards output when path is empty.
// The returned close function is always safe to call.
func openLog(path string) (io.Writer, func(), error) {
	if path == "" {
		return io.Discard, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}
