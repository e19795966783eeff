package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const rulesMarkdown = `# Clam Catch

A clam rests on the seabed. Beavers and stones fall from above.

## Rules

- Every **beaver** that lands in the clam scores one point.
- A single **stone** ends the run. The clam turns red.
- Whatever falls past the clam is simply gone.
- Each catch opens the lid for half a second.

## Controls

| Key | Action |
|---|---|
| Left / A / H | Move left |
| Right / D / L | Move right |
| Enter / Space / click | Start, or restart after game over |
| P | Pause |
| R | Restart after game over |
| Esc / B | Back to the menu while nothing is moving |
| Ctrl+S | Screenshot |
| Q | Quit |

## Variants

- ` + "`clamcatch`" + `: title screen, objects drop in from above the field.
- ` + "`clamcatch_classic`" + `: starts right away, objects appear on screen.

## Difficulty

` + "`--difficulty easy|normal|hard|fixed`" + ` sets where the spawn rate starts.
Except on *fixed*, objects come faster as the score goes up.
`

var howtoCmd = &cobra.Command{
	Use:   "howto",
	Short: "Show the rules and controls",
	Run:   runHowto,
}

func runHowto(_ *cobra.Command, _ []string) {
	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 20 {
		width = min(w, 100)
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-4),
	)
	if err != nil {
		fmt.Print(rulesMarkdown)
		return
	}

	out, err := r.Render(rulesMarkdown)
	if err != nil {
		fmt.Print(rulesMarkdown)
		return
	}
	fmt.Print(out)
}
