package clamcatch

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/clamcatch/internal/core"
)

// Visual characters for rendering
const (
	GroundChar = '▔'
	SandChar   = '░'
	PearlChar  = 'o'
)

const (
	startLabel   = "Start"
	restartLabel = "Restart"
)

// Lid angles at which the drawing switches pose.
const (
	lidAjar = 25.0
	lidOpen = 60.0
)

// dialog is a centered message box with one button.
type dialog struct {
	box    core.Rect
	button core.Rect
}

// layoutDialog places the message box and its button. Rendering and click
// hit-testing both use it, so they always agree.
func layoutDialog(screenW, screenH int, label string) dialog {
	boxW := min(32, screenW-2)
	boxH := 9
	boxX := (screenW - boxW) / 2
	boxY := (screenH - boxH) / 2

	btnW := len([]rune(label)) + 6
	btnH := 3
	return dialog{
		box:    core.NewRect(boxX, boxY, boxW, boxH),
		button: core.NewRect(boxX+(boxW-btnW)/2, boxY+boxH-btnH-1, btnW, btnH),
	}
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.world == nil {
		return
	}
	if g.screenTooSmall {
		dst.DrawTextCentered(dst.Height()/2-1, "Terminal too small")
		dst.DrawTextCentered(dst.Height()/2+1, fmt.Sprintf("Need at least %dx%d", MinScreenW, MinScreenH))
		return
	}

	top := g.cfg.Field.HUDRows

	g.drawSeabed(dst, top)
	for _, obj := range g.world.Objects() {
		g.drawObject(dst, top, obj)
	}
	g.drawClam(dst, top)
	g.drawHUD(dst)

	switch g.world.Scene() {
	case SceneTitle:
		g.drawDialog(dst, "CLAM CATCH", "Catch beavers, dodge stones", startLabel)
	case SceneGameOver:
		g.drawDialog(dst, "GAME OVER", fmt.Sprintf("Final Score: %d", g.ctrl.Session().Score), restartLabel)
	}

	if g.paused {
		g.drawPaused(dst)
	}
}

func (g *Game) drawHUD(dst *core.Screen) {
	text := g.world.Text()
	color := core.ColorBrightWhite
	if g.ctrl.Session().Over {
		color = core.ColorBrightRed
	}
	dst.DrawTextColored(1, 0, text, color)

	hint := "P pause  Q quit"
	switch {
	case g.world.Scene() == ScenePlay && g.ctrl.Session().Over:
		hint = "R restart  Q quit"
	case g.world.Scene() != ScenePlay:
		hint = "Q quit"
	}
	dst.DrawTextColored(dst.Width()-len(hint)-1, 0, hint, core.ColorGray)
}

func (g *Game) drawSeabed(dst *core.Screen, top int) {
	ground := top + g.world.AvatarRow() + 1
	for x := 0; x < dst.Width(); x++ {
		dst.SetColored(x, ground, GroundChar, core.ColorSand)
		for y := ground + 1; y < dst.Height(); y++ {
			dst.SetColored(x, y, SandChar, core.ColorSand)
		}
	}
}

// objectSprite returns a sprite of the given width for a kind of object.
func objectSprite(kind Kind, width int) (string, core.Color) {
	left, body, right, color := '(', '@', ')', core.ColorGray
	if kind == Beneficial {
		left, body, right, color = 'ʕ', 'ᴥ', 'ʔ', core.ColorBrown
	}
	if width <= 1 {
		return string(body), color
	}
	return string(left) + strings.Repeat(string(body), width-2) + string(right), color
}

func (g *Game) drawObject(dst *core.Screen, top int, obj FallingObject) {
	if obj.Y < 0 {
		return
	}
	sprite, color := objectSprite(obj.Kind, g.world.ObjectWidth())
	dst.DrawTextColored(int(obj.X), top+int(obj.Y), sprite, color)
}

// drawClam draws the shell on the avatar row and the lid in one of three
// poses depending on the animated lid angle.
func (g *Game) drawClam(dst *core.Screen, top int) {
	x := int(g.world.AvatarX())
	w := g.world.AvatarWidth()
	shellY := top + g.world.AvatarRow()
	lidY := top + g.world.LidRow()

	shellColor, lidColor := core.ColorPeach, core.ColorSalmon
	if tint := g.world.Tint(); tint != core.ColorDefault {
		shellColor, lidColor = tint, tint
	}

	inner := max(w-2, 0)
	dst.DrawTextColored(x, shellY, "╰"+strings.Repeat("▄", inner)+"╯", shellColor)

	angle := g.world.LidAngle()
	switch {
	case angle < lidAjar:
		dst.DrawTextColored(x, lidY, "╭"+strings.Repeat("▀", inner)+"╮", lidColor)
	case angle < lidOpen:
		dst.DrawTextColored(x, lidY, "│"+strings.Repeat(" ", inner)+"│", shellColor)
		dst.DrawTextColored(x, lidY-1, "╱"+strings.Repeat("▔", max(inner/2, 1)), lidColor)
	default:
		dst.DrawTextColored(x, lidY, "│"+strings.Repeat(" ", inner)+"│", shellColor)
		dst.SetColored(x+w/2, lidY, PearlChar, core.ColorBrightWhite)
		dst.SetColored(x, lidY-1, '┃', lidColor)
		dst.SetColored(x, lidY-2, '┃', lidColor)
	}
}

func (g *Game) drawDialog(dst *core.Screen, title, subtitle, label string) {
	d := layoutDialog(dst.Width(), dst.Height(), label)

	dst.DrawRect(d.box, ' ')
	dst.DrawBoxColored(d.box, core.ColorBrightCyan)
	g.drawCenteredIn(dst, d.box, d.box.Y+2, title, core.ColorBrightYellow)
	g.drawCenteredIn(dst, d.box, d.box.Y+3, subtitle, core.ColorWhite)

	dst.DrawBoxColored(d.button, core.ColorGreen)
	g.drawCenteredIn(dst, d.button, d.button.Y+1, label, core.ColorBrightWhite)
}

func (g *Game) drawPaused(dst *core.Screen) {
	const title, subtitle = "PAUSED", "Press P to resume"
	w := len(subtitle) + 4
	box := core.NewRect((dst.Width()-w)/2, (dst.Height()-5)/2, w, 5)
	dst.DrawRect(box, ' ')
	dst.DrawBox(box)
	g.drawCenteredIn(dst, box, box.Y+1, title, core.ColorBrightYellow)
	g.drawCenteredIn(dst, box, box.Y+3, subtitle, core.ColorDefault)
}

func (g *Game) drawCenteredIn(dst *core.Screen, r core.Rect, y int, text string, c core.Color) {
	n := len([]rune(text))
	dst.DrawTextColored(r.X+(r.W-n)/2, y, text, c)
}
