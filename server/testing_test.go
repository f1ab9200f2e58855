package server

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"gamename/config"
)

// fakeConn 记录房间发给客户端的消息
type fakeConn struct {
	mu     sync.Mutex
	msgs   [][]byte
	closed bool
}

func (c *fakeConn) Enqueue(b []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, b)
}

func (c *fakeConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *fakeConn) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.msgs)
}

// lastFrame 最近一条 frame 消息
func (c *fakeConn) lastFrame(t *testing.T) FrameMessage {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.msgs) - 1; i >= 0; i-- {
		var msg FrameMessage
		if err := json.Unmarshal(c.msgs[i], &msg); err != nil {
			t.Fatal(err)
		}
		if msg.Type == "frame" {
			return msg
		}
	}
	t.Fatal("no frame message received")
	return FrameMessage{}
}

// testConfig 每 Tick 0.5 秒，便于精确断言位置
func testConfig() config.Config {
	cfg := config.Default()
	cfg.Tick.Rate = 2
	cfg.Tick.FrameRate = 2
	cfg.Tick.MaxCatchUp = 5
	return cfg
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func cfgProp(name string, x, y float32) config.Prop {
	return config.Prop{Name: name, X: x, Y: y, W: 8, H: 8}
}
