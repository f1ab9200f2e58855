package server

import (
	"runtime/debug"
	"time"

	"gamename/logger"
)

// FixedStep 固定步长累加器：把墙钟时间换算成整数个仿真 Tick
type FixedStep struct {
	Step       time.Duration
	MaxCatchUp int // 每帧最多补几个 Tick，超出的时间直接丢弃

	acc time.Duration
}

// Advance 累加 elapsed，返回本帧要执行的 Tick 数；clamped 表示超过上限丢弃了时间
func (f *FixedStep) Advance(elapsed time.Duration) (n int, clamped bool) {
	if elapsed > 0 {
		f.acc += elapsed
	}
	n = int(f.acc / f.Step)
	if f.MaxCatchUp > 0 && n > f.MaxCatchUp {
		n = f.MaxCatchUp
		clamped = true
		f.acc %= f.Step
		return n, clamped
	}
	f.acc -= time.Duration(n) * f.Step
	return n, false
}

// Alpha 剩余未消耗时间占一个 Tick 的比例，[0,1)
func (f *FixedStep) Alpha() float64 {
	return float64(f.acc) / float64(f.Step)
}

// StartTicker 启动房间的帧循环（单线程推进世界）
func (r *Room) StartTicker() {
	if r.tickerStarted {
		return
	}
	r.tickerStarted = true
	go r.run()
}

func (r *Room) run() {
	defer close(r.done)
	defer func() {
		if v := recover(); v != nil {
			// 核心的契约错误不做恢复：记录后关闭该房间，其他房间继续服务
			logger.Log.Errorw("room tick panicked, closing room", "room", r.ID, "panic", v, "stack", string(debug.Stack()))
			r.closeAll()
		}
	}()

	ticker := time.NewTicker(r.cfg.Tick.FrameInterval())
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case <-r.stop:
			r.closeAll()
			return
		case now := <-ticker.C:
			// 核心循环：处理输入 → 补齐 Tick → 绘制并广播
			elapsed := now.Sub(last)
			last = now
			r.Frame(elapsed)
		}
	}
}
