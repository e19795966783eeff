package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/clamcatch/internal/platform/tui"
	"github.com/vovakirdan/clamcatch/internal/replay"
	"github.com/vovakirdan/clamcatch/internal/storage"
)

var (
	flagVerify bool
	flagRunID  bool
)

var replayCmd = &cobra.Command{
	Use:   "replay <file|run-id>",
	Short: "Watch or verify a recorded session",
	Long: `Play back a session recorded with --record.

The simulation is deterministic, so a replay re-runs the recorded inputs
against the recorded seed and configuration. --verify does this without
a terminal UI and checks that the final state matches the recording.

Controls:
  Space/P  - Pause
  .        - Step one tick while paused
  +/-      - Change speed
  Q/Esc    - Quit

Examples:
  clamcatch replay ~/.arcade/replays/clamcatch_<id>.replay
  clamcatch replay --run 5f1c2a4e-...   # look the file up in the scores database
  clamcatch replay --verify run.replay`,
	Args: cobra.ExactArgs(1),
	Run:  runReplay,
}

func init() {
	replayCmd.Flags().BoolVar(&flagVerify, "verify", false, "Re-run headlessly and check the final state")
	replayCmd.Flags().BoolVar(&flagRunID, "run", false, "Treat the argument as a run ID from the scores database")
}

func runReplay(_ *cobra.Command, args []string) {
	path := args[0]
	if flagRunID {
		p, err := replayPathForRun(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		path = p
	}

	rec, err := replay.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.Debug("replay loaded", "path", path, "game", rec.GameID, "ticks", rec.Ticks)

	if flagVerify {
		verifyReplay(rec)
		return
	}

	if err := tui.RunReplay(rec); err != nil {
		fmt.Fprintf(os.Stderr, "Error playing replay: %v\n", err)
		os.Exit(1)
	}
}

func verifyReplay(rec *replay.Recording) {
	player := rec.Player
	if player == "" {
		player = "anonymous"
	}
	fmt.Printf("Replay %s\n", rec.ID)
	fmt.Printf("  game      %s\n", rec.GameID)
	fmt.Printf("  player    %s\n", player)
	fmt.Printf("  recorded  %s\n", humanize.Time(rec.RecordedAt))
	fmt.Printf("  ticks     %s (%s at %d fps)\n",
		humanize.Comma(int64(rec.Ticks)), tickDuration(rec), rec.TickRate)

	got, err := replay.Verify(rec)
	if errors.Is(err, replay.ErrMismatch) {
		fmt.Println("  result    MISMATCH")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("  result    OK, final score %d\n", got.Score)
}

// tickDuration renders the recording length in wall-clock terms.
func tickDuration(rec *replay.Recording) string {
	if rec.TickRate <= 0 {
		return "?"
	}
	secs := rec.Ticks / uint64(rec.TickRate)
	return fmt.Sprintf("%dm%02ds", secs/60, secs%60)
}

// replayPathForRun finds the replay file stored with a run.
func replayPathForRun(runID string) (string, error) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return "", err
	}
	defer store.Close()

	run, err := store.RunByID(runID)
	if err != nil {
		return "", err
	}
	if run.ReplayPath == "" {
		return "", fmt.Errorf("run %s was not recorded", runID)
	}
	return run.ReplayPath, nil
}
