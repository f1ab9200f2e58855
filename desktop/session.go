// Package desktop 桌面窗口宿主的会话逻辑：按键 -> 方向状态，固定步长推进，提交绘制。
// 不依赖具体窗口库，窗口胶水代码在 cmd/desktop。
package desktop

import (
	"fmt"

	"gamename/config"
	"gamename/entity"
	"gamename/logger"
)

// KeyQuery 本帧按键边沿查询，按键名与 ebiten.Key.String() 一致（"ArrowUp"、"W"）
type KeyQuery interface {
	JustPressed(key string) bool
	JustReleased(key string) bool
}

// DefaultKeys 方向键 + WASD
var DefaultKeys = []string{"ArrowUp", "ArrowDown", "ArrowLeft", "ArrowRight", "W", "S", "A", "D"}

type binding struct {
	key string
	dir entity.Direction
}

// Session 单人本地会话
type Session struct {
	Player *entity.Player
	props  []*entity.Static

	bindings []binding
	held     map[string]bool
	dt       float32
	ticks    int64
}

// NewSession 按配置创建角色与摆件；keys 为空时使用 DefaultKeys
func NewSession(cfg config.Config, keys ...string) (*Session, error) {
	if len(keys) == 0 {
		keys = DefaultKeys
	}
	s := &Session{
		Player: cfg.NewPlayer(cfg.Spawn()),
		props:  cfg.NewProps(),
		held:   make(map[string]bool, len(keys)),
		dt:     cfg.Tick.DT(),
	}
	for _, k := range keys {
		dir, err := entity.ParseDirection(k)
		if err != nil {
			return nil, fmt.Errorf("key binding %q: %w", k, err)
		}
		s.bindings = append(s.bindings, binding{key: k, dir: dir})
	}
	return s, nil
}

// Keys 已绑定的按键名
func (s *Session) Keys() []string {
	keys := make([]string, len(s.bindings))
	for i, b := range s.bindings {
		keys[i] = b.key
	}
	return keys
}

// HandleKeys 应用本帧的按下/松开边沿；同一方向绑定多个键时，任一键按住即视为按住
func (s *Session) HandleKeys(q KeyQuery) {
	changed := false
	for _, b := range s.bindings {
		if q.JustPressed(b.key) {
			s.held[b.key] = true
			changed = true
		}
		if q.JustReleased(b.key) {
			s.held[b.key] = false
			changed = true
		}
	}
	if !changed {
		return
	}
	for _, dir := range entity.Directions {
		if s.anyHeld(dir) {
			s.Player.Press(dir)
		} else {
			s.Player.Release(dir)
		}
	}
	logger.Log.Debugw("move state", "state", s.Player.MoveState())
}

func (s *Session) anyHeld(dir entity.Direction) bool {
	for _, b := range s.bindings {
		if b.dir == dir && s.held[b.key] {
			return true
		}
	}
	return false
}

// Update 一个固定步长 Tick；窗口宿主按 TPS 调用（含补帧）
func (s *Session) Update() {
	s.Player.Update(s.dt)
	for _, p := range s.props {
		p.Update(s.dt)
	}
	s.ticks++
}

// Draw 每帧一次，先摆件后角色
func (s *Session) Draw(r entity.Renderer) {
	for _, p := range s.props {
		p.Draw(r)
	}
	s.Player.Draw(r)
}

func (s *Session) Ticks() int64 { return s.ticks }

// DebugText 调试叠加层文本
func (s *Session) DebugText() string {
	pos, vel := s.Player.ViewPosition(), s.Player.ViewVelocity()
	return fmt.Sprintf("tick %d\npos (%.1f, %.1f)\nvel (%.0f, %.0f)", s.ticks, pos.X, pos.Y, vel.X, vel.Y)
}
