package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/clamcatch/internal/registry"
	"github.com/vovakirdan/clamcatch/internal/storage"
)

var (
	flagScoresLimit  int
	flagScoresPlayer string
)

var scoresCmd = &cobra.Command{
	Use:   "scores <game>",
	Short: "Show high scores for a variant",
	Long: `Display the high scores and run statistics for the specified variant.

Examples:
  clamcatch scores clamcatch
  clamcatch scores clamcatch_classic --limit 25
  clamcatch scores clamcatch --player alice`,
	Args: cobra.ExactArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of scores to show")
	scoresCmd.Flags().StringVar(&flagScoresPlayer, "player", "", "Show this player's recent runs instead")
}

func runScores(cmd *cobra.Command, args []string) {
	gameID := args[0]

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'clamcatch list' to see available games.")
		os.Exit(1)
	}

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}
	title := game.Title()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	var entries []storage.ScoreEntry
	if flagScoresPlayer != "" {
		entries, err = playerRuns(store, gameID, flagScoresPlayer, flagScoresLimit)
	} else {
		entries, err = store.TopScores(gameID, flagScoresLimit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		os.Exit(1)
	}

	if flagScoresPlayer != "" {
		fmt.Printf("Recent runs - %s - %s\n", title, flagScoresPlayer)
	} else {
		fmt.Printf("High Scores - %s\n", title)
	}
	fmt.Println()

	if len(entries) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'clamcatch play %s' to set the first high score!\n", gameID)
		return
	}

	fmt.Printf("  %-4s  %-8s  %-12s  %-16s  %s\n", "Rank", "Score", "Player", "When", "Replay")
	fmt.Printf("  %-4s  %-8s  %-12s  %-16s  %s\n", "----", "-----", "------", "----", "------")

	for i, e := range entries {
		player := e.Player
		if player == "" {
			player = "-"
		}
		fmt.Printf("  %-4d  %-8s  %-12s  %-16s  %s\n",
			i+1, humanize.Comma(int64(e.Score)), player, humanize.Time(e.CreatedAt), e.ReplayPath)
	}

	stats, err := store.GetGameStats(gameID)
	if err != nil || stats.GamesCount == 0 {
		return
	}
	fmt.Println()
	fmt.Printf("%s runs by %d players, best %s, average %.1f, last played %s\n",
		humanize.Comma(int64(stats.GamesCount)),
		stats.Players,
		humanize.Comma(int64(stats.HighScore)),
		stats.AvgScore,
		humanize.Time(stats.LastPlayed),
	)
}

// playerRuns filters a player's recent runs down to one game.
func playerRuns(store *storage.Store, gameID, player string, limit int) ([]storage.ScoreEntry, error) {
	runs, err := store.PlayerRuns(player, 500)
	if err != nil {
		return nil, err
	}

	var out []storage.ScoreEntry
	for _, r := range runs {
		if r.GameID != gameID {
			continue
		}
		out = append(out, r)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
