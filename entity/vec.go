package entity

// Vec2 仿真空间中的二维向量（位置 / 速度），与渲染端表示无关
type Vec2 struct {
	X float32
	Y float32
}

// Add 逐分量相加
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Scale 逐分量乘以标量
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Point2 渲染端使用的目标坐标
type Point2 struct {
	X float32
	Y float32
}
