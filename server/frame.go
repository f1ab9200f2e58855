package server

import "gamename/entity"

// DrawCommand 一次绘制：矩形 + 目标坐标 + 颜色，由浏览器端画到 canvas
type DrawCommand struct {
	ID       string  `json:"id"`
	X        float32 `json:"x"`
	Y        float32 `json:"y"`
	W        float32 `json:"w"`
	H        float32 `json:"h"`
	Rotation float32 `json:"rot,omitempty"`
	Color    string  `json:"color"`
}

// Frame 收集一帧内所有实体的绘制提交
type Frame struct {
	Tick  int64
	Draws []DrawCommand
}

// For 返回标记了实体 id 的渲染目标，实体仍然只看到 entity.Renderer
func (f *Frame) For(id string) entity.Renderer {
	return frameTarget{f: f, id: id}
}

type frameTarget struct {
	f  *Frame
	id string
}

func (t frameTarget) Draw(d entity.Drawable, p entity.DrawParam) {
	w, h := d.Dimensions()
	cmd := DrawCommand{ID: t.id, W: w, H: h, Color: p.Color.Hex()}
	tr := p.Transform
	// 原点取矩阵平移分量，与桌面端 GeoM 一致（Offset 先经缩放、旋转）
	m := tr.Matrix()
	cmd.X, cmd.Y = m.At(0, 2), m.At(1, 2)
	if !tr.IsMatrix() {
		cmd.W, cmd.H = w*tr.Scale.X, h*tr.Scale.Y
		cmd.Rotation = tr.Rotation
	}
	t.f.Draws = append(t.f.Draws, cmd)
}
