package entity

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

type transformKind uint8

const (
	transformValues transformKind = iota // 显式目标坐标 + 缩放/旋转
	transformMatrix                      // 渲染端自带的仿射矩阵
)

// Transform 渲染变换，两种表示：分量形式（Dest/Scale/Offset/Rotation）或矩阵形式
type Transform struct {
	kind     transformKind
	Dest     Point2
	Scale    Vec2
	Offset   Point2
	Rotation float32 // 弧度
	matrix   mgl32.Mat3
}

// NewTransform 分量形式，位于原点，缩放为 1
func NewTransform() Transform {
	return Transform{kind: transformValues, Scale: Vec2{X: 1, Y: 1}}
}

// MatrixTransform 矩阵形式；实体自身从不构造这种形式
func MatrixTransform(m mgl32.Mat3) Transform {
	return Transform{kind: transformMatrix, matrix: m}
}

// IsMatrix 是否为矩阵形式
func (t Transform) IsMatrix() bool { return t.kind == transformMatrix }

// Matrix 返回等价仿射矩阵：分量形式按 平移 * 旋转 * 缩放 * (-偏移) 组合
func (t Transform) Matrix() mgl32.Mat3 {
	if t.kind == transformMatrix {
		return t.matrix
	}
	return mgl32.Translate2D(t.Dest.X, t.Dest.Y).
		Mul3(mgl32.HomogRotate2D(t.Rotation)).
		Mul3(mgl32.Scale2D(t.Scale.X, t.Scale.Y)).
		Mul3(mgl32.Translate2D(-t.Offset.X, -t.Offset.Y))
}

// dest 返回可写的目标坐标；矩阵形式无法拆出目标坐标，属于调用约定错误，直接 panic
func (t *Transform) dest() *Point2 {
	if t.kind != transformValues {
		panic("entity: cannot resolve destination of a matrix transform")
	}
	return &t.Dest
}

// Color RGBA 颜色
type Color struct {
	R, G, B, A uint8
}

// White 默认绘制颜色
var White = Color{R: 255, G: 255, B: 255, A: 255}

// Hex 输出 #rrggbbaa
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// ParseColor 解析 #rgb / #rrggbb / #rrggbbaa
func ParseColor(s string) (Color, error) {
	if !strings.HasPrefix(s, "#") {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	digits := s[1:]
	if len(digits) == 3 {
		digits = string([]byte{digits[0], digits[0], digits[1], digits[1], digits[2], digits[2]})
	}
	if len(digits) == 6 {
		digits += "ff"
	}
	if len(digits) != 8 {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	n, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color{R: uint8(n >> 24), G: uint8(n >> 16), B: uint8(n >> 8), A: uint8(n)}, nil
}

// DrawParam 提交给渲染端的参数
type DrawParam struct {
	Transform Transform
	Color     Color
}

// DefaultDrawParam 原点、白色
func DefaultDrawParam() DrawParam {
	return DrawParam{Transform: NewTransform(), Color: White}
}
