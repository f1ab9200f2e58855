package server

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"gamename/entity"
	"gamename/logger"
)

// ClientConn 负责发送（写）数据到客户端的轻量包装
type ClientConn struct {
	ws   *websocket.Conn
	send chan []byte
	once sync.Once
}

func NewClientConn(ws *websocket.Conn) *ClientConn {
	return &ClientConn{
		ws:   ws,
		send: make(chan []byte, 64),
	}
}

// Enqueue 将要发送的消息压入队列（非阻塞，满则丢弃）；只在 Tick 线程调用
func (c *ClientConn) Enqueue(b []byte) {
	if c.send == nil {
		return
	}
	select {
	case c.send <- b:
	default:
		// 为了实时性，丢弃新消息（防止阻塞 Tick）
	}
}

// Close 关闭发送队列，写协程写完后关闭底层连接
func (c *ClientConn) Close() {
	c.once.Do(func() {
		close(c.send)
		c.send = nil
	})
}

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait / 2
)

// writePump 独立协程，负责从 send 队列写出到 WS，并定期 ping 保活
func (c *ClientConn) writePump(send <-chan []byte) {
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ping.Stop()
		c.ws.Close()
	}()
	for {
		select {
		case msg, ok := <-send:
			if !ok {
				_ = c.ws.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
				return
			}
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ping.C:
			if err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// readPump 读取客户端输入，转换为 Input 注入房间
func (c *ClientConn) readPump(room *Room, playerID PlayerID) {
	defer c.ws.Close()
	// 读泵退出时，通知房间在 Tick 线程中移除该玩家
	defer room.RequestLeave(playerID, c)
	c.ws.SetReadLimit(1 << 20) // 1MB
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error { c.ws.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		in, err := ParseInputMessage(payload)
		if err != nil {
			room.metrics.IncUnknown()
			if !errors.Is(err, ErrUnknownMessage) && !errors.Is(err, entity.ErrUnknownDirection) {
				logger.Log.Warnw("unexpected input error", "room", room.ID, "player", playerID, "err", err)
			} else {
				logger.Log.Debugw("input ignored", "room", room.ID, "player", playerID, "err", err)
			}
			continue
		}
		in.PlayerID = playerID
		room.OnInput(in)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// 演示环境：允许所有来源（生产环境需严格限制）
		return true
	},
}

// HandleWS WebSocket 接入：?room=room-1&player=alice，未带 player 时分配 uuid
func (m *RoomManager) HandleWS(w http.ResponseWriter, r *http.Request) {
	roomID := roomParam(r)
	playerID := r.URL.Query().Get("player")
	if playerID == "" {
		playerID = uuid.NewString()
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Warnw("upgrade error", "err", err)
		return
	}

	room := m.GetOrCreateRoom(roomID)

	client := NewClientConn(ws)
	send := client.send
	if _, ok := room.JoinPlayer(PlayerID(playerID), client); !ok {
		logger.Log.Infow("join refused", "room", roomID, "player", playerID)
		ws.Close()
		return
	}

	m.pumps.Add(2)
	go func() {
		defer m.pumps.Done()
		client.writePump(send)
	}()
	go func() {
		defer m.pumps.Done()
		client.readPump(room, PlayerID(playerID))
	}()
}
