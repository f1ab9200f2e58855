package server

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"gamename/entity"
)

func TestFrame_ValuesTransform(t *testing.T) {
	f := &Frame{}
	p := entity.DefaultDrawParam()
	p.Transform.Dest = entity.Point2{X: 10, Y: 20}
	p.Transform.Offset = entity.Point2{X: 2, Y: 4}
	p.Transform.Scale = entity.Vec2{X: 2, Y: 0.5}
	p.Color = entity.Color{R: 0xff, A: 0xff}
	f.For("alice").Draw(entity.Rect{W: 8, H: 8}, p)

	if len(f.Draws) != 1 {
		t.Fatalf("expected 1 draw, got %d", len(f.Draws))
	}
	// Offset 在缩放后的局部坐标中：10-2*2, 20-4*0.5
	want := DrawCommand{ID: "alice", X: 6, Y: 18, W: 16, H: 4, Color: "#ff0000ff"}
	if f.Draws[0] != want {
		t.Errorf("got %+v, want %+v", f.Draws[0], want)
	}
}

func TestFrame_RotatedOffsetMatchesMatrix(t *testing.T) {
	f := &Frame{}
	p := entity.DefaultDrawParam()
	p.Transform.Dest = entity.Point2{X: 10, Y: 20}
	p.Transform.Offset = entity.Point2{X: 4, Y: 0}
	p.Transform.Scale = entity.Vec2{X: 2, Y: 2}
	p.Transform.Rotation = math.Pi / 2
	f.For("r").Draw(entity.Rect{W: 8, H: 8}, p)

	m := p.Transform.Matrix()
	d := f.Draws[0]
	if d.X != m.At(0, 2) || d.Y != m.At(1, 2) {
		t.Errorf("origin (%v,%v) differs from matrix (%v,%v)", d.X, d.Y, m.At(0, 2), m.At(1, 2))
	}
	// 旋转 90° 后 Offset 沿 y 方向：约 (10, 12)
	if math.Abs(float64(d.X-10)) > 1e-4 || math.Abs(float64(d.Y-12)) > 1e-4 {
		t.Errorf("unexpected origin (%v,%v)", d.X, d.Y)
	}
	if d.Rotation != math.Pi/2 || d.W != 16 || d.H != 16 {
		t.Errorf("unexpected draw %+v", d)
	}
}

func TestFrame_MatrixTransform(t *testing.T) {
	f := &Frame{}
	p := entity.DrawParam{Transform: entity.MatrixTransform(mgl32.Translate2D(3, 4)), Color: entity.White}
	f.For("m").Draw(entity.Rect{W: 1, H: 2}, p)
	d := f.Draws[0]
	if d.X != 3 || d.Y != 4 || d.W != 1 || d.H != 2 {
		t.Errorf("unexpected draw %+v", d)
	}
}
