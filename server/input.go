package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gamename/entity"
)

// ErrUnknownMessage 无法识别的入站消息
var ErrUnknownMessage = errors.New("unknown message")

// Input 客户端输入（按下 / 松开某个方向），由 Tick 线程在下一帧开始时应用
type Input struct {
	PlayerID PlayerID
	Pressed  bool
	Command  entity.Direction
	Seq      int64 // 客户端本地序列号，用于去重；0 表示不检查
}

// 入站输入的简单 JSON 结构（WebSocket 文本消息）
// 示例：{"type":"press","command":"up","seq":3}
type InputMessage struct {
	Type    string `json:"type"`
	Command string `json:"command"`
	Seq     int64  `json:"seq,omitempty"`
}

// ParseInputMessage 解析一条文本消息为 Input（不含 PlayerID）
func ParseInputMessage(payload []byte) (Input, error) {
	var im InputMessage
	if err := json.Unmarshal(payload, &im); err != nil {
		return Input{}, fmt.Errorf("%w: %v", ErrUnknownMessage, err)
	}
	var in Input
	switch strings.ToLower(im.Type) {
	case "press", "keydown":
		in.Pressed = true
	case "release", "keyup":
		in.Pressed = false
	default:
		return Input{}, fmt.Errorf("%w: type %q", ErrUnknownMessage, im.Type)
	}
	dir, err := entity.ParseDirection(im.Command)
	if err != nil {
		return Input{}, err
	}
	in.Command = dir
	in.Seq = im.Seq
	return in, nil
}
