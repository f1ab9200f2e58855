package entity

// Player 可控角色：持有实体、按键状态、当前速度与每轴最大速度
type Player struct {
	e           *Entity
	moveState   MoveState
	velocity    Vec2
	maxVelocity Vec2 // 构造后固定
	policy      IdlePolicy

	bounds      *Bounds
	hitBoundary bool // 最近一次积分是否触边
}

// PlayerOption 构造选项
type PlayerOption func(*Player)

// WithIdlePolicy 设置单轴空闲时的速度策略，默认 IdlePerAxis
func WithIdlePolicy(p IdlePolicy) PlayerOption {
	return func(pl *Player) { pl.policy = p }
}

// WithBounds 积分后按世界边界逐轴裁剪位置
func WithBounds(b Bounds) PlayerOption {
	return func(pl *Player) { pl.bounds = &b }
}

// WithSpawn 初始仿真位置；渲染变换仍在原点，直到第一次 Update
func WithSpawn(p Vec2) PlayerOption {
	return func(pl *Player) { pl.e.position = p }
}

// WithDrawable 初始形状
func WithDrawable(d Drawable) PlayerOption {
	return func(pl *Player) { pl.e.drawable = d }
}

// NewPlayer maxX/maxY 为每轴最大速度（单位/秒）
func NewPlayer(maxX, maxY float32, opts ...PlayerOption) *Player {
	p := &Player{
		e:           NewEntity(),
		maxVelocity: Vec2{X: maxX, Y: maxY},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Player) Press(d Direction)   { p.moveState.Press(d) }
func (p *Player) Release(d Direction) { p.moveState.Release(d) }

// Apply 用完整的输入快照替换当前按键状态
func (p *Player) Apply(ms MoveState) { p.moveState = ms }

// Integrate position += velocity * dt，设置了边界时再逐轴裁剪
func (p *Player) Integrate(dt float32) {
	p.e.position = p.e.position.Add(p.velocity.Scale(dt))
	p.hitBoundary = false
	if p.bounds != nil {
		p.e.position, p.hitBoundary = p.bounds.Clamp(p.e.position)
	}
}

// Update 一个 Tick：解析速度 -> 积分 -> 刷新实体，顺序不可调换
func (p *Player) Update(dt float32) {
	p.velocity = Resolve(p.moveState, p.velocity, p.maxVelocity, p.policy)
	p.Integrate(dt)
	p.e.Update()
}

// TickWith 以显式输入推进一个 Tick
func (p *Player) TickWith(ms MoveState, dt float32) {
	p.Apply(ms)
	p.Update(dt)
}

func (p *Player) Draw(r Renderer) { p.e.Draw(r) }

func (p *Player) ViewPosition() Vec2     { return p.e.ViewPosition() }
func (p *Player) ViewVelocity() Vec2     { return p.velocity }
func (p *Player) MaxVelocity() Vec2      { return p.maxVelocity }
func (p *Player) MoveState() MoveState   { return p.moveState }
func (p *Player) IdlePolicy() IdlePolicy { return p.policy }
func (p *Player) HitBoundary() bool      { return p.hitBoundary }
func (p *Player) Entity() *Entity        { return p.e }
