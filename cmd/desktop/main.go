// 桌面窗口宿主：ebiten 以固定 TPS 调用 Update（自带补帧），每帧调用一次 Draw
package main

import (
	"flag"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"gamename/config"
	"gamename/desktop"
	"gamename/entity"
	"gamename/logger"
)

// ebitenKeys 把按键名映射到 ebiten.Key，供 desktop.Session 查询
type ebitenKeys map[string]ebiten.Key

func newEbitenKeys(names []string) (ebitenKeys, error) {
	keys := make(ebitenKeys, len(names))
	for _, name := range names {
		var k ebiten.Key
		if err := k.UnmarshalText([]byte(name)); err != nil {
			return nil, err
		}
		keys[name] = k
	}
	return keys, nil
}

func (k ebitenKeys) JustPressed(name string) bool  { return inpututil.IsKeyJustPressed(k[name]) }
func (k ebitenKeys) JustReleased(name string) bool { return inpututil.IsKeyJustReleased(k[name]) }

// screenRenderer 把 DrawParam 的仿射矩阵换成 GeoM，缩放 1x1 白色像素画出矩形
type screenRenderer struct {
	screen *ebiten.Image
	pixel  *ebiten.Image
}

func (r screenRenderer) Draw(d entity.Drawable, p entity.DrawParam) {
	w, h := d.Dimensions()
	m := p.Transform.Matrix()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.SetElement(0, 0, float64(m.At(0, 0)))
	op.GeoM.SetElement(0, 1, float64(m.At(0, 1)))
	op.GeoM.SetElement(0, 2, float64(m.At(0, 2)))
	op.GeoM.SetElement(1, 0, float64(m.At(1, 0)))
	op.GeoM.SetElement(1, 1, float64(m.At(1, 1)))
	op.GeoM.SetElement(1, 2, float64(m.At(1, 2)))
	// 单位像素先放大到形状尺寸，再应用实体变换
	var size ebiten.GeoM
	size.Scale(float64(w), float64(h))
	size.Concat(op.GeoM)
	op.GeoM = size
	c := p.Color
	op.ColorScale.ScaleWithColor(color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A})
	r.screen.DrawImage(r.pixel, op)
}

type game struct {
	cfg     config.Config
	session *desktop.Session
	keys    ebitenKeys
	pixel   *ebiten.Image
	debug   bool
}

func (g *game) Update() error {
	// 先应用本帧全部按键边沿，再推进 Tick
	g.session.HandleKeys(g.keys)
	g.session.Update()
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.debug = !g.debug
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 0x10, G: 0x12, B: 0x18, A: 0xff})
	g.session.Draw(screenRenderer{screen: screen, pixel: g.pixel})
	if g.debug {
		ebitenutil.DebugPrint(screen, g.session.DebugText())
	}
}

// Layout 固定逻辑尺寸，窗口缩放由 ebiten 处理
func (g *game) Layout(int, int) (int, int) {
	return g.cfg.Window.Width, g.cfg.Window.Height
}

func main() {
	var cfgPath string
	var debug bool
	flag.StringVar(&cfgPath, "config", "", "path to YAML config, defaults are used when empty")
	flag.BoolVar(&debug, "debug", false, "show position/velocity overlay (toggle with F3)")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		panic(err)
	}
	if err := logger.InitLogger(logger.Options{File: cfg.Log.File, Level: cfg.Log.Level, Console: cfg.Log.Console}); err != nil {
		panic(err)
	}
	defer logger.SyncLogger()
	log := logger.Log

	session, err := desktop.NewSession(cfg)
	if err != nil {
		log.Fatalf("session: %v", err)
	}
	keys, err := newEbitenKeys(session.Keys())
	if err != nil {
		log.Fatalf("key bindings: %v", err)
	}
	pixel := ebiten.NewImage(1, 1)
	pixel.Fill(color.White)

	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	if cfg.Window.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	ebiten.SetTPS(cfg.Tick.Rate)

	log.Infof("%s window %dx%d, tick=%d/s", cfg.Window.Title, cfg.Window.Width, cfg.Window.Height, cfg.Tick.Rate)
	g := &game{cfg: cfg, session: session, keys: keys, pixel: pixel, debug: debug}
	if err := ebiten.RunGame(g); err != nil {
		log.Errorf("game exited: %v", err)
	}
}
