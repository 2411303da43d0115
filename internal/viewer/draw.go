package viewer

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/ivlev/roundreplay/internal/camera"
	"github.com/ivlev/roundreplay/internal/narration"
)

const playerRadius = 6

var (
	backgroundCol = color.RGBA{R: 14, G: 16, B: 20, A: 255}
	gridCol       = color.RGBA{R: 40, G: 46, B: 56, A: 255}
	attackCol     = color.RGBA{R: 235, G: 86, B: 86, A: 255}
	defenseCol    = color.RGBA{R: 80, G: 200, B: 190, A: 255}
	neutralCol    = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	deadCol       = color.RGBA{R: 90, G: 90, B: 90, A: 200}
	highlightCol  = color.RGBA{R: 255, G: 214, B: 64, A: 255}
	spikeCol      = color.RGBA{R: 255, G: 120, B: 40, A: 255}
	labelBg       = color.RGBA{R: 0, G: 0, B: 0, A: 180}
)

// project maps a unit-square point to screen pixels under cam. The unit
// square fills the shorter side of the screen at zoom 1.
func project(cam camera.Transform, x, y float64, w, h int) (float32, float32) {
	side := math.Min(float64(w), float64(h)) * cam.Zoom
	sx := float64(w)/2 + (x-cam.X)*side
	sy := float64(h)/2 + (y-cam.Y)*side
	return float32(sx), float32(sy)
}

func playerColor(p narration.PlayerPosition) color.Color {
	if !p.IsAlive {
		return deadCol
	}
	switch p.Side {
	case narration.SideAttack:
		return attackCol
	case narration.SideDefense:
		return defenseCol
	default:
		return neutralCol
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundCol)

	st := g.store.Snapshot()
	cam := st.Camera

	g.drawMap(screen, cam)

	highlighted := make(map[string]bool, len(st.Highlighted))
	for _, id := range st.Highlighted {
		highlighted[id] = true
	}
	for _, p := range st.Players {
		g.drawPlayer(screen, cam, p, highlighted[p.PlayerID])
	}

	if st.FocusLabel != "" {
		g.drawLabel(screen, st.FocusLabel)
	}
	if g.showHUD {
		g.drawHUD(screen, cam, st.Animating)
	}
}

func (g *Game) drawMap(screen *ebiten.Image, cam camera.Transform) {
	x0, y0 := project(cam, 0, 0, g.width, g.height)
	x1, y1 := project(cam, 1, 1, g.width, g.height)

	if g.mapImage != nil {
		b := g.mapImage.Bounds()
		opts := &ebiten.DrawImageOptions{}
		opts.GeoM.Scale(float64(x1-x0)/float64(b.Dx()), float64(y1-y0)/float64(b.Dy()))
		opts.GeoM.Translate(float64(x0), float64(y0))
		opts.Filter = ebiten.FilterLinear
		screen.DrawImage(g.mapImage, opts)
		return
	}

	// No backdrop: a 10x10 grid over the unit square
	for i := 0; i <= 10; i++ {
		f := float64(i) / 10
		ax, ay := project(cam, f, 0, g.width, g.height)
		bx, by := project(cam, f, 1, g.width, g.height)
		vector.StrokeLine(screen, ax, ay, bx, by, 1, gridCol, false)
		ax, ay = project(cam, 0, f, g.width, g.height)
		bx, by = project(cam, 1, f, g.width, g.height)
		vector.StrokeLine(screen, ax, ay, bx, by, 1, gridCol, false)
	}
}

func (g *Game) drawPlayer(screen *ebiten.Image, cam camera.Transform, p narration.PlayerPosition, highlighted bool) {
	sx, sy := project(cam, p.X, p.Y, g.width, g.height)
	r := float32(playerRadius)

	if p.IsAlive && p.HasFacing {
		a := p.FacingAngle * math.Pi / 180
		fx := sx + float32(math.Cos(a))*r*2.2
		fy := sy + float32(math.Sin(a))*r*2.2
		vector.StrokeLine(screen, sx, sy, fx, fy, 1.5, playerColor(p), true)
	}

	vector.FillCircle(screen, sx, sy, r, playerColor(p), true)
	if p.HasSpike {
		vector.FillCircle(screen, sx, sy, r/2.5, spikeCol, true)
	}
	if highlighted {
		vector.StrokeCircle(screen, sx, sy, r+3, 2, highlightCol, true)
	}

	if p.IsAlive && p.Health < 100 {
		w := r * 2
		vector.FillRect(screen, sx-r, sy+r+3, w, 2, deadCol, false)
		vector.FillRect(screen, sx-r, sy+r+3, w*float32(max(p.Health, 0))/100, 2, playerColor(p), false)
	}
}

func (g *Game) drawLabel(screen *ebiten.Image, label string) {
	const pad = 8
	tw, th := text.Measure(label, g.face, 0)

	bx := (float64(g.width) - tw) / 2
	by := float64(g.height) - th - 3*pad
	vector.FillRect(screen, float32(bx-pad), float32(by-pad), float32(tw+2*pad), float32(th+2*pad), labelBg, false)

	opts := &text.DrawOptions{}
	opts.GeoM.Translate(bx, by)
	opts.ColorScale.ScaleWithColor(color.White)
	text.Draw(screen, label, g.face, opts)
}

func (g *Game) drawHUD(screen *ebiten.Image, cam camera.Transform, animating bool) {
	c := g.player.Cursor()
	count := 0
	if live := g.player.Live(); live != nil {
		count = live.Timeline().MomentCount()
	}

	moment := "-"
	if c.MomentIndex >= 0 {
		moment = fmt.Sprintf("%d/%d", c.MomentIndex+1, count)
	}
	status := fmt.Sprintf("%s  moment %s  t=%.2fs  cam (%.2f, %.2f) x%.2f",
		c.State, moment, c.Elapsed, cam.X, cam.Y, cam.Zoom)
	if animating {
		status += "  panning"
	}
	ebitenutil.DebugPrintAt(screen, status, 8, 8)
	ebitenutil.DebugPrintAt(screen, "[Space] play/pause  [S] stop  [<-/->] seek  [H] hud", 8, 24)
}
