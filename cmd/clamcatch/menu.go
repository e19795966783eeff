package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/clamcatch/internal/platform/tui"
	"github.com/vovakirdan/clamcatch/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a variant picker menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a variant.
Leaving a game (Esc after game over) returns to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select variant
  Tab          - High scores
  Q            - Quit

Examples:
  clamcatch menu
  clamcatch menu --fps 30
  clamcatch menu --record --db ./scores.db`,
	Run: runMenu,
}

func init() {
	// Game flags are shared with play
	menuCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	menuCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	menuCmd.Flags().BoolVar(&flagRecord, "record", false, "Record a replay of every game")
	menuCmd.Flags().StringVar(&flagReplayDir, "replay-dir", "", "Where to write replays (default ~/.arcade/replays)")
	menuCmd.Flags().StringVar(&flagPlayer, "player", defaultPlayer(), "Player name stored with scores")
}

func runMenu(_ *cobra.Command, _ []string) {
	if err := applyGameConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	store := openStore()
	cfg := terminalConfig()

	// Menu loop
	for {
		menuResult, err := tui.RunMenu(store, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}

		// Update config with any size changes
		cfg = menuResult.Config

		if menuResult.Quit {
			break
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue // Back to menu
			}
			break // User quit from scoreboard
		}

		if menuResult.GameID == "" {
			break
		}

		game, err := registry.Create(menuResult.GameID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
			continue
		}

		// Fresh seed for each game unless one was given
		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}

		logger.Info("session started", "game", menuResult.GameID, "player", flagPlayer)
		result, err := tui.Run(game, cfg, gameOptions(store))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
			break
		}
		cfg.ScreenW, cfg.ScreenH = result.Config.ScreenW, result.Config.ScreenH

		if !result.BackToMenu {
			break // Quit from inside the game
		}
	}

	if store != nil {
		store.Close()
	}
}
