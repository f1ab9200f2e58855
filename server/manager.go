package server

import (
	"context"
	"sort"
	"sync"

	"gamename/config"
)

// RoomManager 管理多个房间的生命周期
type RoomManager struct {
	mu    sync.RWMutex
	cfg   config.Config
	rooms map[string]*Room

	// pumps 跟踪每个连接的读写协程，Shutdown 等待其退出
	pumps sync.WaitGroup
}

var (
	defaultManager *RoomManager
	once           sync.Once
)

// NewRoomManager 新房间按 cfg 创建
func NewRoomManager(cfg config.Config) *RoomManager {
	return &RoomManager{cfg: cfg, rooms: make(map[string]*Room)}
}

// GetRoomManager 单例房间管理器
func GetRoomManager() *RoomManager {
	once.Do(func() {
		defaultManager = NewRoomManager(config.Default())
	})
	return defaultManager
}

// Configure 替换之后新建房间使用的配置
func (m *RoomManager) Configure(cfg config.Config) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg = cfg
}

// GetOrCreateRoom 获取或创建房间，并确保开始 Tick
func (m *RoomManager) GetOrCreateRoom(id string) *Room {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[id]
	if ok {
		select {
		case <-r.Done():
			// 房间已关闭（例如 Tick panic），重新创建
		default:
			return r
		}
	}
	r = NewRoom(id, m.cfg)
	m.rooms[id] = r
	r.StartTicker()
	return r
}

// Room 查找已有房间
func (m *RoomManager) Room(id string) (*Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[id]
	return r, ok
}

// Rooms 所有房间 id（有序）
func (m *RoomManager) Rooms() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.rooms))
	for id := range m.rooms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Shutdown 停止所有房间并等待连接读写协程退出；ctx 到期则提前返回
func (m *RoomManager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	rooms := make([]*Room, 0, len(m.rooms))
	for id, r := range m.rooms {
		rooms = append(rooms, r)
		delete(m.rooms, id)
	}
	m.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, r := range rooms {
			r.Stop()
		}
		// 房间关闭连接后写协程关闭 ws，读协程随之返回
		m.pumps.Wait()
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
