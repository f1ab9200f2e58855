package server

import "gamename/entity"

// PlayerID 表示玩家唯一标识
type PlayerID string

// Conn 玩家连接的发送端；由 Tick 线程调用
type Conn interface {
	Enqueue(b []byte)
	Close()
}

// PlayerState 为广播给客户端的轻量状态
type PlayerState struct {
	ID string  `json:"id"`
	X  float32 `json:"x"`
	Y  float32 `json:"y"`
	VX float32 `json:"vx"`
	VY float32 `json:"vy"`
}

// Player 房间内的玩家：连接 + 服务端权威的可控角色
type Player struct {
	ID    PlayerID
	Actor *entity.Player
	Conn  Conn

	lastSeq int64 // 最近接受的输入序列号
}

func (p *Player) State() PlayerState {
	pos, vel := p.Actor.ViewPosition(), p.Actor.ViewVelocity()
	return PlayerState{ID: string(p.ID), X: pos.X, Y: pos.Y, VX: vel.X, VY: vel.Y}
}
