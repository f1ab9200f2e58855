package server

import (
	"encoding/json"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"gamename/config"
	"gamename/entity"
	"gamename/logger"
)

// PlayerSettings 新加入玩家的角色参数，可通过 /admin/config 热更新
type PlayerSettings struct {
	MaxVelocityX  float32
	MaxVelocityY  float32
	IdlePolicy    entity.IdlePolicy
	ClampToWindow bool
}

// Room 房间世界：权威状态维护在内存，单线程 Tick 推进
type Room struct {
	ID string

	Players   map[PlayerID]*Player
	props     []*entity.Static
	joinChan  chan *Player
	inputChan chan Input
	leaveChan chan leaveRequest

	cfg     config.Config
	dt      float32
	step    FixedStep
	tickSeq int64

	mu       sync.RWMutex
	settings PlayerSettings

	metrics *RoomMetrics

	// closed 置位后不再接受加入；joinChan 中残留的玩家由 closeAll 关闭
	joinMu sync.Mutex
	closed bool

	tickerStarted bool
	stop          chan struct{}
	stopOnce      sync.Once
	done          chan struct{}
}

// NewRoom 创建房间，初始化数据结构
func NewRoom(id string, cfg config.Config) *Room {
	return &Room{
		ID:        id,
		Players:   make(map[PlayerID]*Player),
		props:     cfg.NewProps(),
		joinChan:  make(chan *Player, 64),
		inputChan: make(chan Input, 256), // 足够缓冲，避免网络读阻塞影响 Tick
		leaveChan: make(chan leaveRequest, 64),
		cfg:       cfg,
		dt:        cfg.Tick.DT(),
		step:      FixedStep{Step: cfg.Tick.Step(), MaxCatchUp: cfg.Tick.MaxCatchUp},
		settings: PlayerSettings{
			MaxVelocityX:  cfg.Player.MaxVelocity.X,
			MaxVelocityY:  cfg.Player.MaxVelocity.Y,
			IdlePolicy:    cfg.Player.Policy(),
			ClampToWindow: cfg.Player.ClampToWindow,
		},
		metrics: &RoomMetrics{},
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (r *Room) Metrics() *RoomMetrics { return r.metrics }

// Settings 当前新玩家参数
func (r *Room) Settings() PlayerSettings {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.settings
}

// UpdateSettings 修改新玩家参数；已在场的玩家最大速度在构造时固定，不受影响
func (r *Room) UpdateSettings(fn func(*PlayerSettings)) PlayerSettings {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(&r.settings)
	return r.settings
}

// TickSeq 已执行的仿真 Tick 数
func (r *Room) TickSeq() int64 {
	return atomic.LoadInt64(&r.tickSeq)
}

// JoinPlayer 创建玩家并请求在 Tick 线程中加入房间；
// 房间已停止或加入队列已满时关闭 conn 并返回 false
func (r *Room) JoinPlayer(id PlayerID, conn Conn) (*Player, bool) {
	s := r.Settings()
	cfg := r.cfg
	cfg.Player.MaxVelocity = config.XY{X: s.MaxVelocityX, Y: s.MaxVelocityY}
	cfg.Player.IdlePolicy = s.IdlePolicy.String()
	cfg.Player.ClampToWindow = s.ClampToWindow
	p := &Player{ID: id, Actor: cfg.NewPlayer(cfg.Spawn()), Conn: conn}

	r.joinMu.Lock()
	defer r.joinMu.Unlock()
	if !r.closed {
		select {
		case r.joinChan <- p:
			return p, true
		default:
			logger.Log.Warnw("join rejected, queue full", "room", r.ID, "player", id)
		}
	}
	if conn != nil {
		conn.Close()
	}
	return nil, false
}

// addPlayer 在 Tick 线程中执行；同 id 重连时关闭旧连接
func (r *Room) addPlayer(p *Player) {
	if old, ok := r.Players[p.ID]; ok && old.Conn != nil && old.Conn != p.Conn {
		old.Conn.Close()
	}
	r.Players[p.ID] = p
	logger.Log.Infow("player joined", "room", r.ID, "player", p.ID, "players", len(r.Players))
	if p.Conn != nil {
		p.Conn.Enqueue(r.welcome(p.ID))
	}
}

// LeavePlayer 将玩家移出房间
func (r *Room) LeavePlayer(id PlayerID) {
	if p, ok := r.Players[id]; ok {
		if p.Conn != nil {
			p.Conn.Close()
		}
		delete(r.Players, id)
		logger.Log.Infow("player left", "room", r.ID, "player", id, "players", len(r.Players))
	}
}

// OnInput 入站输入（不立即改变按键状态），等下一帧开始时处理
func (r *Room) OnInput(in Input) {
	// 不阻塞：输入拥塞时丢弃，保证 Tick 准时
	select {
	case r.inputChan <- in:
	default:
		r.metrics.IncChanFullDiscarded()
		logger.Log.Debugw("input dropped, channel full", "room", r.ID, "player", in.PlayerID)
	}
}

type leaveRequest struct {
	id   PlayerID
	conn Conn
}

// RequestLeave 请求在 Tick 线程中移除玩家，避免并发改动房间状态；
// conn 用于区分同 id 重连后的新连接
func (r *Room) RequestLeave(pid PlayerID, conn Conn) {
	select {
	case r.leaveChan <- leaveRequest{id: pid, conn: conn}:
	case <-r.done:
	}
}

// ProcessInputs 处理当前帧的所有加入/离开/输入（非阻塞 drain）；
// 保证本帧的所有按键事件都在速度解析之前生效
func (r *Room) ProcessInputs() {
	for {
		select {
		case p := <-r.joinChan:
			r.addPlayer(p)
		case req := <-r.leaveChan:
			if p, ok := r.Players[req.id]; ok && (req.conn == nil || p.Conn == req.conn) {
				r.LeavePlayer(req.id)
			}
		case in := <-r.inputChan:
			r.applyInput(in)
		default:
			return
		}
	}
}

func (r *Room) applyInput(in Input) {
	p, ok := r.Players[in.PlayerID]
	if !ok {
		return
	}
	if in.Seq > 0 {
		if in.Seq <= p.lastSeq {
			r.metrics.IncOldSeqIgnored()
			return
		}
		p.lastSeq = in.Seq
	}
	if in.Pressed {
		p.Actor.Press(in.Command)
	} else {
		p.Actor.Release(in.Command)
	}
	r.metrics.IncAccepted()
}

// UpdateWorld 推进一个仿真 Tick
func (r *Room) UpdateWorld(dt float32) {
	for _, p := range r.Players {
		p.Actor.Update(dt)
		if p.Actor.HitBoundary() {
			r.metrics.IncBoundaryHit()
		}
	}
	for _, s := range r.props {
		s.Update(dt)
	}
}

// Frame 一帧：处理输入 → 按累计时间补齐若干 Tick → 绘制一次并广播
func (r *Room) Frame(elapsed time.Duration) {
	start := time.Now()
	r.ProcessInputs()
	n, clamped := r.step.Advance(elapsed)
	if clamped {
		r.metrics.IncCatchUpClamped()
		logger.Log.Warnw("tick catch-up clamped", "room", r.ID, "elapsed", elapsed, "ticks", n)
	}
	for i := 0; i < n; i++ {
		r.UpdateWorld(r.dt)
	}
	atomic.AddInt64(&r.tickSeq, int64(n))
	r.metrics.AddTicks(n)
	r.Broadcast(r.Draw())
	r.metrics.AddFrame(time.Since(start).Nanoseconds())
}

// Draw 所有实体提交一次绘制
func (r *Room) Draw() *Frame {
	f := &Frame{Tick: r.TickSeq(), Draws: make([]DrawCommand, 0, len(r.props)+len(r.Players))}
	for i, s := range r.props {
		id := "prop"
		if i < len(r.cfg.Props) && r.cfg.Props[i].Name != "" {
			id = r.cfg.Props[i].Name
		}
		s.Draw(f.For(id))
	}
	for _, id := range r.playerIDs() {
		r.Players[id].Actor.Draw(f.For(string(id)))
	}
	return f
}

func (r *Room) playerIDs() []PlayerID {
	ids := make([]PlayerID, 0, len(r.Players))
	for id := range r.Players {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// FrameMessage 每帧广播给客户端的消息
type FrameMessage struct {
	Type    string        `json:"type"`
	Tick    int64         `json:"tick"`
	Draws   []DrawCommand `json:"draws"`
	Players []PlayerState `json:"players"`
}

// WelcomeMessage 加入房间后的第一条消息，客户端据此设置画布
type WelcomeMessage struct {
	Type     string        `json:"type"`
	ID       string        `json:"id"`
	Window   config.Window `json:"window"`
	TickRate int           `json:"tick_rate"`
}

func (r *Room) welcome(id PlayerID) []byte {
	b, _ := json.Marshal(WelcomeMessage{Type: "welcome", ID: string(id), Window: r.cfg.Window, TickRate: r.cfg.Tick.Rate})
	return b
}

// Broadcast 将当前帧广播给所有玩家（文本 JSON）
func (r *Room) Broadcast(f *Frame) {
	if len(r.Players) == 0 {
		return
	}
	msg := FrameMessage{Type: "frame", Tick: f.Tick, Draws: f.Draws, Players: make([]PlayerState, 0, len(r.Players))}
	for _, id := range r.playerIDs() {
		msg.Players = append(msg.Players, r.Players[id].State())
	}
	b, _ := json.Marshal(msg)
	for _, p := range r.Players {
		if p.Conn != nil {
			p.Conn.Enqueue(b)
		}
	}
}

// Stop 停止帧循环并断开所有玩家
func (r *Room) Stop() {
	r.stopOnce.Do(func() {
		close(r.stop)
		if !r.tickerStarted {
			r.closeAll()
			close(r.done)
		}
	})
	<-r.done
}

// Done 帧循环退出后关闭
func (r *Room) Done() <-chan struct{} { return r.done }

func (r *Room) closeAll() {
	r.joinMu.Lock()
	r.closed = true
	r.joinMu.Unlock()
	for drained := false; !drained; {
		select {
		case p := <-r.joinChan:
			if p.Conn != nil {
				p.Conn.Close()
			}
		default:
			drained = true
		}
	}
	for id := range r.Players {
		r.LeavePlayer(id)
	}
}
