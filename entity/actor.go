package entity

// Actor 每个 Tick 被宿主推进、每帧被绘制一次的对象
type Actor interface {
	Update(dt float32)
	Draw(r Renderer)
	ViewPosition() Vec2
}

// Controllable 接受方向键输入的对象；只有真正需要方向控制的类型实现它
type Controllable interface {
	Press(d Direction)
	Release(d Direction)
}

var (
	_ Actor        = (*Player)(nil)
	_ Controllable = (*Player)(nil)
	_ Actor        = (*Static)(nil)
)

// Static 不会移动的实体（场景摆件等）
type Static struct {
	e *Entity
}

// NewStatic 固定在 pos 的实体
func NewStatic(pos Vec2, d Drawable) *Static {
	e := NewEntity()
	e.position = pos
	e.drawable = d
	return &Static{e: e}
}

// Update 只做刷新
func (s *Static) Update(float32) { s.e.Update() }

func (s *Static) Draw(r Renderer)    { s.e.Draw(r) }
func (s *Static) ViewPosition() Vec2 { return s.e.ViewPosition() }
func (s *Static) Entity() *Entity    { return s.e }
