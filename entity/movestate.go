package entity

import (
	"fmt"
	"strings"
)

// MoveState 四个相互独立的按键标志
type MoveState struct {
	Up    bool
	Down  bool
	Left  bool
	Right bool
}

// Press 按下；重复按下无副作用
func (m *MoveState) Press(d Direction) { m.set(d, true) }

// Release 松开
func (m *MoveState) Release(d Direction) { m.set(d, false) }

func (m *MoveState) set(d Direction, v bool) {
	switch d {
	case DirUp:
		m.Up = v
	case DirDown:
		m.Down = v
	case DirLeft:
		m.Left = v
	case DirRight:
		m.Right = v
	default:
		// no-op
	}
}

// Held 指定方向是否按住
func (m MoveState) Held(d Direction) bool {
	switch d {
	case DirUp:
		return m.Up
	case DirDown:
		return m.Down
	case DirLeft:
		return m.Left
	case DirRight:
		return m.Right
	}
	return false
}

// Idle 四个方向都未按住
func (m MoveState) Idle() bool {
	return !m.Up && !m.Down && !m.Left && !m.Right
}

// IdlePolicy 某一轴两个方向都未按住时该轴速度如何处理
type IdlePolicy int

const (
	// IdlePerAxis 该轴速度归零，速度完全由当前按键决定
	IdlePerAxis IdlePolicy = iota
	// IdleAll 保留该轴上一 Tick 的速度，只有四个方向全部松开才整体归零；
	// 同轴抵消只清零该轴，另一轴的旧速度不受影响
	IdleAll
)

func (p IdlePolicy) String() string {
	if p == IdleAll {
		return "all"
	}
	return "per-axis"
}

// ParseIdlePolicy 解析 "per-axis" / "all"，空串为默认
func ParseIdlePolicy(s string) (IdlePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "per-axis", "axis":
		return IdlePerAxis, nil
	case "all":
		return IdleAll, nil
	default:
		return IdlePerAxis, fmt.Errorf("unknown idle policy %q", s)
	}
}

// Resolve 由按键状态重新计算速度（非增量）。两轴独立：
// 同轴两键同时按住则抵消为 0，只按一键取 ±limit，都不按由 policy 决定；
// 四键全松开时速度总是 (0,0)
func Resolve(ms MoveState, prev, limit Vec2, policy IdlePolicy) Vec2 {
	if ms.Idle() {
		return Vec2{}
	}
	return Vec2{
		X: resolveAxis(ms.Left, ms.Right, prev.X, limit.X, policy),
		Y: resolveAxis(ms.Up, ms.Down, prev.Y, limit.Y, policy),
	}
}

func resolveAxis(neg, pos bool, prev, limit float32, policy IdlePolicy) float32 {
	switch {
	case neg && pos:
		return 0
	case neg:
		return -limit
	case pos:
		return limit
	case policy == IdleAll:
		return prev
	default:
		return 0
	}
}
