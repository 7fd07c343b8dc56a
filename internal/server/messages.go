package server

import (
	"time"

	"github.com/mcanfield/huddle/internal/registry"
	"github.com/mcanfield/huddle/internal/types"
)

// Inbound and outbound events are closed tagged variants: exactly one
// pointer field is set per message, keyed by the event name.

const (
	// maxNicknameLen and maxContentLen bound inbound text in runes,
	// measured after whitespace trimming.
	maxNicknameLen = 32
	maxContentLen  = 2000
)

type ClientMessage struct {
	Join    *JoinRoom    `json:"join_room,omitempty"`
	Publish *SendMessage `json:"send_message,omitempty"`
	Typing  *UserTyping  `json:"user_typing,omitempty"`
}

type JoinRoom struct {
	RoomId   string `json:"room_id" validate:"required"`
	Nickname string `json:"nickname" validate:"required,max=32"`
}

type SendMessage struct {
	Content string `json:"content" validate:"required,max=2000"`
}

type UserTyping struct {
	IsTyping bool `json:"is_typing"`
}

type ServerMessage struct {
	Timestamp    time.Time          `json:"timestamp"`
	RoomJoined   *RoomJoined        `json:"room_joined,omitempty"`
	UserJoined   *UserJoined        `json:"user_joined,omitempty"`
	Message      *types.ChatMessage `json:"new_message,omitempty"`
	TypingStatus *TypingStatus      `json:"user_typing_status,omitempty"`
	UserLeft     *UserLeft          `json:"user_left,omitempty"`
	Error        *ErrorPayload      `json:"error,omitempty"`
}

type RoomJoined struct {
	Success       bool                `json:"success"`
	Users         []types.User        `json:"users"`
	Messages      []types.ChatMessage `json:"messages"`
	UserId        string              `json:"user_id"`
	OwnerId       string              `json:"owner_id"`
	OwnerNickname string              `json:"owner_nickname"`
	Capacity      types.CapacityInfo  `json:"capacity"`
}

type UserJoined struct {
	User types.User `json:"user"`
}

type TypingStatus struct {
	UserId   string `json:"user_id"`
	Nickname string `json:"nickname"`
	IsTyping bool   `json:"is_typing"`
}

type UserLeft struct {
	UserId string `json:"user_id"`
}

func newServerMessage() *ServerMessage {
	return &ServerMessage{Timestamp: Now()}
}

func roomJoinedMsg(userId string, snap registry.RoomSnapshot) *ServerMessage {
	msg := newServerMessage()
	msg.RoomJoined = &RoomJoined{
		Success:       true,
		Users:         snap.Users,
		Messages:      snap.Messages,
		UserId:        userId,
		OwnerId:       snap.OwnerId,
		OwnerNickname: snap.OwnerNickname,
		Capacity:      snap.Capacity,
	}
	return msg
}

func userJoinedMsg(user types.User) *ServerMessage {
	msg := newServerMessage()
	msg.UserJoined = &UserJoined{User: user}
	return msg
}

func newMessageMsg(chatMsg types.ChatMessage) *ServerMessage {
	msg := newServerMessage()
	msg.Message = &chatMsg
	return msg
}

func typingStatusMsg(user types.User, isTyping bool) *ServerMessage {
	msg := newServerMessage()
	msg.TypingStatus = &TypingStatus{
		UserId:   user.Id,
		Nickname: user.Nickname,
		IsTyping: isTyping,
	}
	return msg
}

func userLeftMsg(userId string) *ServerMessage {
	msg := newServerMessage()
	msg.UserLeft = &UserLeft{UserId: userId}
	return msg
}

func Now() time.Time {
	return time.Now().UTC().Round(time.Millisecond)
}
