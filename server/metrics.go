package server

import (
	"sync/atomic"
)

// RoomMetrics 记录房间运行期的关键指标（用于监控与调试）
type RoomMetrics struct {
	TickCount         int64 // 仿真 Tick 次数
	FrameCount        int64 // 绘制/广播帧数
	InputsAccepted    int64 // 被接受的输入数
	InputsUnknown     int64 // 无法解析的消息数
	OldSeqIgnored     int64 // 因旧序列被忽略的输入数
	ChanFullDiscarded int64 // 因通道满被丢弃的输入数
	CatchUpClamped    int64 // 补帧超过上限被丢弃时间的次数
	BoundaryHits      int64 // 角色触边次数
	TotalFrameNs      int64 // 帧累计耗时（纳秒）
}

func (m *RoomMetrics) IncAccepted()          { atomic.AddInt64(&m.InputsAccepted, 1) }
func (m *RoomMetrics) IncUnknown()           { atomic.AddInt64(&m.InputsUnknown, 1) }
func (m *RoomMetrics) IncOldSeqIgnored()     { atomic.AddInt64(&m.OldSeqIgnored, 1) }
func (m *RoomMetrics) IncChanFullDiscarded() { atomic.AddInt64(&m.ChanFullDiscarded, 1) }
func (m *RoomMetrics) IncCatchUpClamped()    { atomic.AddInt64(&m.CatchUpClamped, 1) }
func (m *RoomMetrics) IncBoundaryHit()       { atomic.AddInt64(&m.BoundaryHits, 1) }
func (m *RoomMetrics) AddTicks(n int)        { atomic.AddInt64(&m.TickCount, int64(n)) }
func (m *RoomMetrics) AddFrame(ns int64) {
	atomic.AddInt64(&m.FrameCount, 1)
	atomic.AddInt64(&m.TotalFrameNs, ns)
}

// Snapshot 返回只读副本，便于 HTTP 输出
func (m *RoomMetrics) Snapshot() map[string]any {
	frames := atomic.LoadInt64(&m.FrameCount)
	total := atomic.LoadInt64(&m.TotalFrameNs)
	var avgMs float64
	if frames > 0 {
		avgMs = float64(total) / float64(frames) / 1e6
	}
	return map[string]any{
		"tick_count":          atomic.LoadInt64(&m.TickCount),
		"frame_count":         frames,
		"inputs_accepted":     atomic.LoadInt64(&m.InputsAccepted),
		"inputs_unknown":      atomic.LoadInt64(&m.InputsUnknown),
		"old_seq_ignored":     atomic.LoadInt64(&m.OldSeqIgnored),
		"chan_full_discarded": atomic.LoadInt64(&m.ChanFullDiscarded),
		"catch_up_clamped":    atomic.LoadInt64(&m.CatchUpClamped),
		"boundary_hits":       atomic.LoadInt64(&m.BoundaryHits),
		"avg_frame_ms":        avgMs,
	}
}
