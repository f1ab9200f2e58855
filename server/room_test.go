package server

import (
	"encoding/json"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"gamename/entity"
	"gamename/logger"
)

func TestRoom_JoinSendsWelcome(t *testing.T) {
	r := NewRoom("room-t", testConfig())
	conn := &fakeConn{}
	r.JoinPlayer("alice", conn)
	r.Frame(0)

	if _, ok := r.Players["alice"]; !ok {
		t.Fatal("player not added on frame")
	}
	if conn.count() != 2 {
		t.Fatalf("expected welcome + frame, got %d messages", conn.count())
	}
	var w WelcomeMessage
	if err := json.Unmarshal(conn.msgs[0], &w); err != nil {
		t.Fatal(err)
	}
	if w.Type != "welcome" || w.ID != "alice" || w.Window.Width != 1280 || w.TickRate != 2 {
		t.Errorf("unexpected welcome %+v", w)
	}
}

func TestRoom_InputAppliedBeforeTick(t *testing.T) {
	r := NewRoom("room-t", testConfig())
	conn := &fakeConn{}
	r.JoinPlayer("alice", conn)
	r.Frame(0)
	spawn := r.Players["alice"].Actor.ViewPosition()

	r.OnInput(Input{PlayerID: "alice", Pressed: true, Command: entity.DirRight})
	r.Frame(500 * time.Millisecond)

	f := conn.lastFrame(t)
	if f.Tick != 1 || len(f.Players) != 1 {
		t.Fatalf("unexpected frame %+v", f)
	}
	st := f.Players[0]
	if st.VX != 500 || st.VY != 0 {
		t.Errorf("expected velocity (500,0), got (%v,%v)", st.VX, st.VY)
	}
	if st.X != spawn.X+250 || st.Y != spawn.Y {
		t.Errorf("expected position (%v,%v), got (%v,%v)", spawn.X+250, spawn.Y, st.X, st.Y)
	}
	if len(f.Draws) != 1 || f.Draws[0].X != st.X || f.Draws[0].ID != "alice" {
		t.Errorf("draw does not match flushed position: %+v", f.Draws)
	}

	r.OnInput(Input{PlayerID: "alice", Pressed: false, Command: entity.DirRight})
	r.Frame(500 * time.Millisecond)
	if again := conn.lastFrame(t).Players[0]; again.X != st.X || again.VX != 0 {
		t.Errorf("expected to stop at %v, got %+v", st.X, again)
	}
	if got := r.Metrics().Snapshot()["inputs_accepted"]; got != int64(2) {
		t.Errorf("expected 2 accepted inputs, got %v", got)
	}
}

func TestRoom_OldSeqIgnored(t *testing.T) {
	r := NewRoom("room-t", testConfig())
	r.JoinPlayer("alice", &fakeConn{})
	r.OnInput(Input{PlayerID: "alice", Pressed: true, Command: entity.DirUp, Seq: 2})
	r.OnInput(Input{PlayerID: "alice", Pressed: false, Command: entity.DirUp, Seq: 1})
	r.OnInput(Input{PlayerID: "ghost", Pressed: true, Command: entity.DirUp})
	r.Frame(0)

	if !r.Players["alice"].Actor.MoveState().Up {
		t.Error("stale release should have been ignored")
	}
	snap := r.Metrics().Snapshot()
	if snap["old_seq_ignored"] != int64(1) || snap["inputs_accepted"] != int64(1) {
		t.Errorf("unexpected metrics %+v", snap)
	}
}

func TestRoom_CatchUpClamped(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	logger.SetLogger(zap.New(core))
	defer logger.SetLogger(zap.NewNop())

	r := NewRoom("room-t", testConfig())
	r.Frame(10 * time.Second)
	if r.TickSeq() != 5 {
		t.Errorf("expected 5 ticks, got %d", r.TickSeq())
	}
	if r.Metrics().Snapshot()["catch_up_clamped"] != int64(1) {
		t.Error("expected clamp to be counted")
	}
	if recorded.FilterMessage("tick catch-up clamped").Len() != 1 {
		t.Error("expected a warning log")
	}
}

func TestRoom_ReconnectKeepsNewConnection(t *testing.T) {
	r := NewRoom("room-t", testConfig())
	first, second := &fakeConn{}, &fakeConn{}
	r.JoinPlayer("alice", first)
	r.Frame(0)
	r.JoinPlayer("alice", second)
	r.Frame(0)
	if !first.isClosed() {
		t.Error("old connection should be closed")
	}

	r.RequestLeave("alice", first)
	r.Frame(0)
	if _, ok := r.Players["alice"]; !ok {
		t.Fatal("stale leave removed the reconnected player")
	}
	r.RequestLeave("alice", second)
	r.Frame(0)
	if _, ok := r.Players["alice"]; ok {
		t.Fatal("player should have left")
	}
	if !second.isClosed() {
		t.Error("connection should be closed on leave")
	}
}

func TestRoom_BoundaryHitsCounted(t *testing.T) {
	cfg := testConfig()
	cfg.Window.Width = 100
	cfg.Window.Height = 100
	r := NewRoom("room-t", cfg)
	r.JoinPlayer("alice", &fakeConn{})
	r.OnInput(Input{PlayerID: "alice", Pressed: true, Command: entity.DirLeft})
	r.Frame(time.Second)

	if pos := r.Players["alice"].Actor.ViewPosition(); pos.X != 0 {
		t.Errorf("expected clamp to x=0, got %+v", pos)
	}
	if got := r.Metrics().Snapshot()["boundary_hits"]; got != int64(2) {
		t.Errorf("expected 2 boundary hits, got %v", got)
	}
}

func TestRoom_PropsDrawn(t *testing.T) {
	cfg := testConfig()
	cfg.Props = append(cfg.Props, cfgProp("pad", 10, 20))
	r := NewRoom("room-t", cfg)
	f := r.Draw()
	if len(f.Draws) != 1 || f.Draws[0].ID != "pad" {
		t.Fatalf("unexpected draws %+v", f.Draws)
	}
	// 刷新前位于原点，第一个 Tick 后到达配置位置
	if f.Draws[0].X != 0 || f.Draws[0].Y != 0 {
		t.Errorf("expected origin before first tick, got %+v", f.Draws[0])
	}
	r.UpdateWorld(0.5)
	if d := r.Draw().Draws[0]; d.X != 10 || d.Y != 20 {
		t.Errorf("unexpected prop draw %+v", d)
	}
}

func TestRoom_TickerRunsAndStops(t *testing.T) {
	cfg := testConfig()
	cfg.Tick.Rate = 200
	cfg.Tick.FrameRate = 100
	r := NewRoom("room-t", cfg)
	r.StartTicker()
	conn := &fakeConn{}
	r.JoinPlayer("alice", conn)
	waitFor(t, 2*time.Second, func() bool { return conn.count() >= 3 })

	r.Stop()
	if !conn.isClosed() {
		t.Error("stop should disconnect players")
	}
	select {
	case <-r.Done():
	default:
		t.Fatal("done should be closed after stop")
	}
}

func TestRoom_PanicClosesRoom(t *testing.T) {
	cfg := testConfig()
	cfg.Tick.FrameRate = 100
	r := NewRoom("room-t", cfg)
	r.Players["broken"] = &Player{ID: "broken"} // 缺少角色，第一帧即 panic
	r.StartTicker()

	select {
	case <-r.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("room should close after a panicking frame")
	}
	if len(r.Players) != 0 {
		t.Errorf("expected players to be removed, got %d", len(r.Players))
	}
}

func TestRoom_JoinUsesCurrentSettings(t *testing.T) {
	r := NewRoom("room-t", testConfig())
	r.UpdateSettings(func(s *PlayerSettings) {
		s.MaxVelocityX, s.MaxVelocityY = 120, 80
		s.IdlePolicy = entity.IdleAll
		s.ClampToWindow = false
	})
	p, ok := r.JoinPlayer("alice", &fakeConn{})
	if !ok {
		t.Fatal("join refused on an open room")
	}
	if v := p.Actor.MaxVelocity(); v != (entity.Vec2{X: 120, Y: 80}) {
		t.Errorf("unexpected max velocity %+v", v)
	}
	if p.Actor.IdlePolicy() != entity.IdleAll {
		t.Errorf("unexpected policy %v", p.Actor.IdlePolicy())
	}
	cfg := testConfig()
	if pos := p.Actor.ViewPosition(); pos != cfg.Spawn() {
		t.Errorf("expected spawn %+v, got %+v", cfg.Spawn(), pos)
	}
	if c := p.Actor.Entity().DrawParam().Color; c != cfg.Player.RGBA() {
		t.Errorf("unexpected color %+v", c)
	}

	// 关闭裁剪后可以越过窗口边界
	p.Actor.Press(entity.DirLeft)
	p.Actor.Update(cfg.Spawn().X)
	if p.Actor.HitBoundary() || p.Actor.ViewPosition().X >= 0 {
		t.Errorf("expected unclamped movement, got %+v", p.Actor.ViewPosition())
	}
}

func TestRoom_JoinAfterStopRefused(t *testing.T) {
	r := NewRoom("room-t", testConfig())
	r.Stop()

	conn := &fakeConn{}
	if p, ok := r.JoinPlayer("late", conn); ok || p != nil {
		t.Fatalf("expected join refused after stop, got %v %+v", ok, p)
	}
	if !conn.isClosed() {
		t.Error("refused connection should be closed")
	}
}

func TestRoom_StopClosesPendingJoins(t *testing.T) {
	r := NewRoom("room-t", testConfig())
	conn := &fakeConn{}
	if _, ok := r.JoinPlayer("alice", conn); !ok {
		t.Fatal("join refused on an open room")
	}
	// 加入请求尚未被帧处理即停止
	r.Stop()
	if !conn.isClosed() {
		t.Error("queued join should be closed on stop")
	}
	if len(r.Players) != 0 {
		t.Errorf("expected no players, got %d", len(r.Players))
	}
}
