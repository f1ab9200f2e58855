package server

import (
	"encoding/json"
	"net/http"

	"gamename/entity"
	"gamename/logger"
)

func roomParam(r *http.Request) string {
	roomID := r.URL.Query().Get("room")
	if roomID == "" {
		roomID = "room-1"
	}
	return roomID
}

type adminConfig struct {
	MaxVelocityX  *float32 `json:"maxVelocityX,omitempty"`
	MaxVelocityY  *float32 `json:"maxVelocityY,omitempty"`
	IdlePolicy    *string  `json:"idlePolicy,omitempty"`
	ClampToWindow *bool    `json:"clampToWindow,omitempty"`
}

func toAdminConfig(s PlayerSettings) adminConfig {
	policy := s.IdlePolicy.String()
	return adminConfig{
		MaxVelocityX:  &s.MaxVelocityX,
		MaxVelocityY:  &s.MaxVelocityY,
		IdlePolicy:    &policy,
		ClampToWindow: &s.ClampToWindow,
	}
}

// HandleAdminConfig 新加入玩家角色参数的读取与更新（热更新）
// GET /admin/config?room=room-1  返回当前配置
// POST /admin/config?room=room-1 以 JSON 载荷更新部分字段
func (m *RoomManager) HandleAdminConfig(w http.ResponseWriter, r *http.Request) {
	roomID := roomParam(r)
	room := m.GetOrCreateRoom(roomID)

	switch r.Method {
	case http.MethodGet:
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(toAdminConfig(room.Settings()))
		return
	case http.MethodPost:
		var body adminConfig
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if (body.MaxVelocityX != nil && *body.MaxVelocityX < 0) || (body.MaxVelocityY != nil && *body.MaxVelocityY < 0) {
			http.Error(w, "max velocity must be non-negative", http.StatusBadRequest)
			return
		}
		var policy entity.IdlePolicy
		if body.IdlePolicy != nil {
			p, err := entity.ParseIdlePolicy(*body.IdlePolicy)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			policy = p
		}
		s := room.UpdateSettings(func(s *PlayerSettings) {
			if body.MaxVelocityX != nil {
				s.MaxVelocityX = *body.MaxVelocityX
			}
			if body.MaxVelocityY != nil {
				s.MaxVelocityY = *body.MaxVelocityY
			}
			if body.IdlePolicy != nil {
				s.IdlePolicy = policy
			}
			if body.ClampToWindow != nil {
				s.ClampToWindow = *body.ClampToWindow
			}
		})
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
		logger.Log.Infof("config updated: room=%s maxVelocity=(%.1f,%.1f) idle=%s clamp=%t",
			roomID, s.MaxVelocityX, s.MaxVelocityY, s.IdlePolicy, s.ClampToWindow)
		return
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
}

// HandleMetrics 输出指定房间的运行指标
// GET /metrics?room=room-1
func (m *RoomManager) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	roomID := roomParam(r)
	room, ok := m.Room(roomID)
	if !ok {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}
	payload := map[string]any{
		"room":    roomID,
		"tick":    room.TickSeq(),
		"metrics": room.Metrics().Snapshot(),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}
