package entity

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownDirection 无法识别的方向
var ErrUnknownDirection = errors.New("unknown direction")

// Direction 方向键
type Direction int

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

// Directions 全部有效方向
var Directions = [...]Direction{DirUp, DirDown, DirLeft, DirRight}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "none"
	}
}

// ParseDirection 解析方向名，兼容方向键与 WASD 写法，大小写不敏感
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "w", "arrowup":
		return DirUp, nil
	case "down", "s", "arrowdown":
		return DirDown, nil
	case "left", "a", "arrowleft":
		return DirLeft, nil
	case "right", "d", "arrowright":
		return DirRight, nil
	default:
		return DirNone, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
	}
}
