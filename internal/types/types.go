package types

import (
	"time"
)

// User is a room member. A user exists only for the lifetime of its
// room membership; the connection id ties it to a live websocket and
// is never sent over the wire.
type User struct {
	Id           string    `json:"id"`
	Nickname     string    `json:"nickname"`
	ConnectionId string    `json:"-"`
	JoinedAt     time.Time `json:"joined_at"`
	IsOnline     bool      `json:"is_online"`
	IsEditing    bool      `json:"is_editing"`
	LastActivity time.Time `json:"last_activity"`
}

// ChatMessage is immutable once appended to a room's history.
type ChatMessage struct {
	Id        string    `json:"id"`
	UserId    string    `json:"user_id"`
	Nickname  string    `json:"nickname"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type CapacityInfo struct {
	Current int `json:"current"`
	Max     int `json:"max"`
}

type Stats struct {
	TotalRooms int `json:"total_rooms"`
	TotalUsers int `json:"total_users"`
}
