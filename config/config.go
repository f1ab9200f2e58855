// Package config 游戏配置：窗口、Tick 频率、角色参数、场景摆件、日志与服务地址
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"gamename/entity"
)

// ErrInvalidConfig 配置校验失败
var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Window Window `yaml:"window"`
	Tick   Tick   `yaml:"tick"`
	Player Player `yaml:"player"`
	Props  []Prop `yaml:"props"`
	Log    Log    `yaml:"log"`
	Server Server `yaml:"server"`
}

// Window 宿主窗口配置（逻辑尺寸 720p）
type Window struct {
	Title     string `yaml:"title" json:"title"`
	Width     int    `yaml:"width" json:"width"`
	Height    int    `yaml:"height" json:"height"`
	Resizable bool   `yaml:"resizable" json:"resizable"`
}

type Tick struct {
	Rate       int `yaml:"rate"`         // 仿真 Tick/秒
	FrameRate  int `yaml:"frame_rate"`   // 广播帧/秒
	MaxCatchUp int `yaml:"max_catch_up"` // 每帧最多补几个 Tick
}

type XY struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`
}

type Size struct {
	W float32 `yaml:"w"`
	H float32 `yaml:"h"`
}

type Player struct {
	MaxVelocity   XY     `yaml:"max_velocity"`
	Size          Size   `yaml:"size"`
	Color         string `yaml:"color"`
	IdlePolicy    string `yaml:"idle_policy"`
	ClampToWindow bool   `yaml:"clamp_to_window"`
}

// Prop 静态摆件
type Prop struct {
	Name  string  `yaml:"name"`
	X     float32 `yaml:"x"`
	Y     float32 `yaml:"y"`
	W     float32 `yaml:"w"`
	H     float32 `yaml:"h"`
	Color string  `yaml:"color"`
}

type Log struct {
	File    string `yaml:"file"`
	Level   string `yaml:"level"`
	Console bool   `yaml:"console"`
}

type Server struct {
	Addr      string `yaml:"addr"`
	StaticDir string `yaml:"static_dir"`
}

// Default 默认配置
func Default() Config {
	return Config{
		Window: Window{Title: "gamename", Width: 1280, Height: 720, Resizable: true},
		Tick:   Tick{Rate: 60, FrameRate: 30, MaxCatchUp: 5},
		Player: Player{
			MaxVelocity:   XY{X: 500, Y: 500},
			Size:          Size{W: 32, H: 32},
			Color:         "#e0c050",
			IdlePolicy:    entity.IdlePerAxis.String(),
			ClampToWindow: true,
		},
		Log:    Log{File: "app.log", Level: "debug"},
		Server: Server{Addr: ":8080", StaticDir: "web"},
	}
}

// Load 读取 YAML 并覆盖到默认配置上；path 为空直接返回默认配置
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate 检查取值范围
func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	case c.Tick.Rate <= 0 || c.Tick.FrameRate <= 0:
		return fmt.Errorf("%w: tick rate %d, frame rate %d", ErrInvalidConfig, c.Tick.Rate, c.Tick.FrameRate)
	case c.Tick.MaxCatchUp <= 0:
		return fmt.Errorf("%w: max_catch_up %d", ErrInvalidConfig, c.Tick.MaxCatchUp)
	case c.Player.MaxVelocity.X < 0 || c.Player.MaxVelocity.Y < 0:
		return fmt.Errorf("%w: negative max velocity", ErrInvalidConfig)
	case c.Player.Size.W <= 0 || c.Player.Size.H <= 0:
		return fmt.Errorf("%w: player size", ErrInvalidConfig)
	case c.Player.ClampToWindow && !c.Window.Bounds(c.Player.Size).Valid():
		return fmt.Errorf("%w: window %dx%d smaller than player %gx%g", ErrInvalidConfig,
			c.Window.Width, c.Window.Height, c.Player.Size.W, c.Player.Size.H)
	}
	if _, err := entity.ParseIdlePolicy(c.Player.IdlePolicy); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := entity.ParseColor(c.Player.Color); err != nil {
		return fmt.Errorf("%w: player: %v", ErrInvalidConfig, err)
	}
	for _, p := range c.Props {
		if p.W <= 0 || p.H <= 0 {
			return fmt.Errorf("%w: prop %q size", ErrInvalidConfig, p.Name)
		}
		if p.Color != "" {
			if _, err := entity.ParseColor(p.Color); err != nil {
				return fmt.Errorf("%w: prop %q: %v", ErrInvalidConfig, p.Name, err)
			}
		}
	}
	return nil
}

// Step 一个仿真 Tick 的时长
func (t Tick) Step() time.Duration {
	return time.Second / time.Duration(t.Rate)
}

// DT 一个仿真 Tick 的秒数，传给 Update(dt)
func (t Tick) DT() float32 {
	return 1 / float32(t.Rate)
}

// FrameInterval 广播帧间隔
func (t Tick) FrameInterval() time.Duration {
	return time.Second / time.Duration(t.FrameRate)
}

// Bounds 角色可活动范围：窗口减去角色尺寸
func (w Window) Bounds(s Size) entity.Bounds {
	return entity.Bounds{
		Max: entity.Vec2{X: float32(w.Width) - s.W, Y: float32(w.Height) - s.H},
	}
}

// Policy 已校验过的空闲策略
func (p Player) Policy() entity.IdlePolicy {
	policy, _ := entity.ParseIdlePolicy(p.IdlePolicy)
	return policy
}

// RGBA 角色颜色，解析失败退回白色
func (p Player) RGBA() entity.Color {
	return colorOr(p.Color, entity.White)
}

func (p Prop) RGBA() entity.Color {
	return colorOr(p.Color, entity.Color{R: 0x30, G: 0x50, B: 0xa0, A: 0xff})
}

func colorOr(s string, fallback entity.Color) entity.Color {
	if s == "" {
		return fallback
	}
	c, err := entity.ParseColor(s)
	if err != nil {
		return fallback
	}
	return c
}

// PlayerOptions 由配置生成角色构造选项；窗口放不下角色时不加边界
func (c Config) PlayerOptions() []entity.PlayerOption {
	opts := []entity.PlayerOption{
		entity.WithIdlePolicy(c.Player.Policy()),
		entity.WithDrawable(entity.Rect{W: c.Player.Size.W, H: c.Player.Size.H}),
	}
	if b := c.Window.Bounds(c.Player.Size); c.Player.ClampToWindow && b.Valid() {
		opts = append(opts, entity.WithBounds(b))
	}
	return opts
}

// NewPlayer 按配置创建角色
func (c Config) NewPlayer(spawn entity.Vec2) *entity.Player {
	opts := append(c.PlayerOptions(), entity.WithSpawn(spawn))
	p := entity.NewPlayer(c.Player.MaxVelocity.X, c.Player.MaxVelocity.Y, opts...)
	p.Entity().SetColor(c.Player.RGBA())
	return p
}

// NewProps 按配置创建静态摆件
func (c Config) NewProps() []*entity.Static {
	props := make([]*entity.Static, 0, len(c.Props))
	for _, p := range c.Props {
		s := entity.NewStatic(entity.Vec2{X: p.X, Y: p.Y}, entity.Rect{W: p.W, H: p.H})
		s.Entity().SetColor(p.RGBA())
		props = append(props, s)
	}
	return props
}

// Spawn 窗口中心（角色左上角坐标）
func (c Config) Spawn() entity.Vec2 {
	return entity.Vec2{
		X: float32(c.Window.Width)/2 - c.Player.Size.W/2,
		Y: float32(c.Window.Height)/2 - c.Player.Size.H/2,
	}
}
