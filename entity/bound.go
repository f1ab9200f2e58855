package entity

// BoundF32 带上下界的值
type BoundF32 struct {
	Value float32
	Lower float32
	Upper float32
}

// MaintainBounds 将 Value 裁剪到 [Lower, Upper]；原本在范围内返回 true，发生裁剪返回 false
func (b *BoundF32) MaintainBounds() bool {
	if b.Value > b.Upper {
		b.Value = b.Upper
		return false
	} else if b.Value < b.Lower {
		b.Value = b.Lower
		return false
	}
	return true
}

// Bounds 世界边界（仿真坐标，闭区间）
type Bounds struct {
	Min Vec2
	Max Vec2
}

// Valid 每个轴 Min <= Max
func (b Bounds) Valid() bool {
	return b.Min.X <= b.Max.X && b.Min.Y <= b.Max.Y
}

// Clamp 逐轴裁剪；任一轴触边返回 true
func (b Bounds) Clamp(p Vec2) (Vec2, bool) {
	x := BoundF32{Value: p.X, Lower: b.Min.X, Upper: b.Max.X}
	y := BoundF32{Value: p.Y, Lower: b.Min.Y, Upper: b.Max.Y}
	inX := x.MaintainBounds()
	inY := y.MaintainBounds()
	return Vec2{X: x.Value, Y: y.Value}, !(inX && inY)
}
