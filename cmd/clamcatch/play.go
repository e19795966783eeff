package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/clamcatch/internal/core"
	"github.com/vovakirdan/clamcatch/internal/games/clamcatch"
	"github.com/vovakirdan/clamcatch/internal/platform/tui"
	"github.com/vovakirdan/clamcatch/internal/registry"
	"github.com/vovakirdan/clamcatch/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
	flagRecord     bool
	flagReplayDir  string
	flagPlayer     string
)

var playCmd = &cobra.Command{
	Use:   "play <game>",
	Short: "Play a variant",
	Long: `Start playing the specified variant.

Controls:
  Left/A/H     - Move left
  Right/D/L    - Move right
  Enter/Space  - Start (or click the button)
  P            - Pause
  R            - Restart (after game over)
  Esc/B        - Leave (when paused or after game over)
  Ctrl+S       - Screenshot
  Q/Ctrl+C     - Quit

Difficulty options:
  easy   - Start with the slowest spawns, speeds up with score and time
  normal - Start at 30% difficulty
  hard   - Start at 70% difficulty
  fixed  - No progression, keeps the configured spawn interval

Examples:
  clamcatch play clamcatch
  clamcatch play clamcatch --difficulty hard
  clamcatch play clamcatch_classic --record
  clamcatch play clamcatch --config ./my-clamcatch.yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().BoolVar(&flagRecord, "record", false, "Record a replay of the session")
	playCmd.Flags().StringVar(&flagReplayDir, "replay-dir", "", "Where to write replays (default ~/.arcade/replays)")
	playCmd.Flags().StringVar(&flagPlayer, "player", defaultPlayer(), "Player name stored with scores")
}

func runPlay(cmd *cobra.Command, args []string) {
	gameID := args[0]

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'clamcatch list' to see available games.")
		os.Exit(1)
	}

	if err := applyGameConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	store := openStore()

	logger.Info("session started", "game", gameID, "player", flagPlayer, "record", flagRecord)
	result, runErr := tui.Run(game, terminalConfig(), gameOptions(store))

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}

	logger.Info("session ended", "game", gameID, "score", result.State.Score)
	if result.ReplayPath != "" {
		if _, err := os.Stat(result.ReplayPath); err == nil {
			fmt.Printf("Replay saved to %s\n", result.ReplayPath)
		}
	}
}

// applyGameConfig hands --config and --difficulty to the game package.
// An explicit config file that cannot be loaded is an error.
func applyGameConfig() error {
	clamcatch.SetConfigPath(flagConfig)
	clamcatch.SetDifficultyPreset(flagDifficulty)

	if flagConfig == "" {
		return nil
	}
	if _, err := clamcatch.LoadConfig(); err != nil {
		return fmt.Errorf("cannot load config %s: %w", flagConfig, err)
	}
	return nil
}

// terminalConfig builds a runtime config sized to the current terminal.
func terminalConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// openStore opens the scores database. Play goes on without it.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		logger.Warn("could not open scores database", "path", flagDBPath, "err", err)
		return nil
	}
	return store
}

func gameOptions(store *storage.Store) tui.Options {
	return tui.Options{
		Store:     store,
		Logger:    logger,
		Player:    flagPlayer,
		Record:    flagRecord,
		ReplayDir: flagReplayDir,
	}
}
