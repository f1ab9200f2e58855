// Package entity 实体移动核心：仿真位置与渲染变换分离，方向键状态每个 Tick 解析为速度
package entity

// Drawable 可被渲染端绘制的形状，核心只需要知道尺寸
type Drawable interface {
	Dimensions() (w, h float32)
}

// Renderer 渲染端：接收形状与绘制参数
type Renderer interface {
	Draw(d Drawable, p DrawParam)
}

// Entity 所有实体的基础：父结构在更新阶段修改仿真位置，随后调用 Update 刷新到渲染变换
type Entity struct {
	drawable Drawable
	position Vec2      // 仿真坐标，仅由积分修改
	flush    DrawParam // 渲染参数，仅由 Update 修改
}

// NewEntity 位于原点，无形状
func NewEntity() *Entity {
	return &Entity{flush: DefaultDrawParam()}
}

// Update 将仿真位置刷新到渲染变换的目标坐标；每个 Tick 在所有位置修改之后调用一次
func (e *Entity) Update() {
	d := e.flush.Transform.dest()
	d.X = e.position.X
	d.Y = e.position.Y
}

// Draw 有形状时提交给渲染端，否则什么都不做
func (e *Entity) Draw(r Renderer) {
	if e.drawable == nil {
		return
	}
	r.Draw(e.drawable, e.flush)
}

func (e *Entity) ViewPosition() Vec2 { return e.position }

// DrawParam 当前渲染参数（副本）
func (e *Entity) DrawParam() DrawParam { return e.flush }

func (e *Entity) Drawable() Drawable { return e.drawable }

// SetDrawable 由渲染协作方在 Draw 之前设置
func (e *Entity) SetDrawable(d Drawable) { e.drawable = d }

// SetColor 绘制颜色，不影响位置
func (e *Entity) SetColor(c Color) { e.flush.Color = c }
