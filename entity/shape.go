package entity

// Rect 纯尺寸的矩形形状，具体怎么画由渲染端决定
type Rect struct {
	W float32
	H float32
}

func (r Rect) Dimensions() (float32, float32) { return r.W, r.H }
