package viewer

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"github.com/ivlev/roundreplay/internal/driver"
	"github.com/ivlev/roundreplay/internal/playback"
	"github.com/ivlev/roundreplay/internal/surface"
)

// Config configures the debug viewer window
type Config struct {
	Store  *surface.Store
	Player *playback.Player
	Frame  *driver.Frame
	Width  int
	Height int
	TPS    int
	Map    image.Image // optional backdrop covering the unit square
}

// Game is the ebiten game that steps playback once per tick and draws the
// shared surface.
type Game struct {
	store  *surface.Store
	player *playback.Player
	frame  *driver.Frame

	width, height int
	tps           int

	mapImage *ebiten.Image
	face     text.Face

	pressed  func(ebiten.Key) bool
	prevKeys map[ebiten.Key]bool
	showHUD  bool
}

// New creates the viewer game
func New(cfg Config) *Game {
	if cfg.Width <= 0 {
		cfg.Width = 1280
	}
	if cfg.Height <= 0 {
		cfg.Height = 720
	}
	if cfg.TPS <= 0 {
		cfg.TPS = 60
	}

	g := &Game{
		store:    cfg.Store,
		player:   cfg.Player,
		frame:    cfg.Frame,
		width:    cfg.Width,
		height:   cfg.Height,
		tps:      cfg.TPS,
		face:     text.NewGoXFace(basicfont.Face7x13),
		pressed:  ebiten.IsKeyPressed,
		prevKeys: map[ebiten.Key]bool{},
		showHUD:  true,
	}
	if cfg.Map != nil {
		g.mapImage = ebiten.NewImageFromImage(cfg.Map)
	}
	return g
}

// Run opens the window and blocks until it is closed
func Run(g *Game, title string) error {
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(g.width, g.height)
	ebiten.SetTPS(g.tps)
	return ebiten.RunGame(g)
}

func (g *Game) Update() error {
	g.handleInput()
	g.frame.Advance(1 / float64(g.tps))
	return nil
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}

func (g *Game) justPressed(current map[ebiten.Key]bool, k ebiten.Key) bool {
	current[k] = g.pressed(k)
	return current[k] && !g.prevKeys[k]
}

func (g *Game) handleInput() {
	currentKeys := map[ebiten.Key]bool{}

	// Space: play / pause
	if g.justPressed(currentKeys, ebiten.KeySpace) {
		g.player.Toggle()
	}

	// S: stop and reset camera
	if g.justPressed(currentKeys, ebiten.KeyS) {
		g.player.Stop()
	}

	// Arrows: previous / next moment
	count := 0
	if live := g.player.Live(); live != nil {
		count = live.Timeline().MomentCount()
	}
	if g.justPressed(currentKeys, ebiten.KeyArrowLeft) {
		g.player.SeekToMoment(seekTarget(g.player.CurrentMomentIndex(), -1, count))
	}
	if g.justPressed(currentKeys, ebiten.KeyArrowRight) {
		g.player.SeekToMoment(seekTarget(g.player.CurrentMomentIndex(), 1, count))
	}

	// H: toggle HUD
	if g.justPressed(currentKeys, ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}

	g.prevKeys = currentKeys
}

// seekTarget steps from the current moment; from idle the next moment is
// the first one.
func seekTarget(current, delta, count int) int {
	if count == 0 {
		return 0
	}
	if current < 0 {
		if delta > 0 {
			return 0
		}
		return count - 1
	}
	target := current + delta
	if target < 0 {
		return 0
	}
	if target > count-1 {
		return count - 1
	}
	return target
}
