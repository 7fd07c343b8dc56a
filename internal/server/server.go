package server

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/mcanfield/huddle/internal/registry"
	"github.com/mcanfield/huddle/internal/stats"
	"github.com/mcanfield/huddle/internal/types"
)

// Metric names registered with the stats provider.
const (
	StatActiveConnections = "ActiveConnections"
	StatJoinsTotal        = "JoinsTotal"
	StatMessagesSent      = "MessagesSent"
)

// ChatServer is the realtime session coordinator. Each connection's
// read goroutine dispatches inbound events here; registry calls are
// serialized by the registry's own lock, and room fan-out goes through
// each member's buffered send channel, so no lock is ever held across
// network I/O.
type ChatServer struct {
	log         *log.Logger
	registry    registry.RoomRegistry
	stats       stats.StatsProvider
	validate    *validator.Validate
	clients     map[*Client]struct{}
	clientsLock sync.Mutex
	// subs maps room id to the room's broadcast group.
	subs     map[string]map[*Client]struct{}
	subsLock sync.RWMutex
}

func NewChatServer(logger *log.Logger, reg registry.RoomRegistry, sp stats.StatsProvider) *ChatServer {
	cs := &ChatServer{
		log:      logger,
		registry: reg,
		stats:    sp,
		validate: validator.New(),
		clients:  make(map[*Client]struct{}),
		subs:     make(map[string]map[*Client]struct{}),
	}

	sp.RegisterMetric(StatActiveConnections)
	sp.RegisterMetric(StatJoinsTotal)
	sp.RegisterMetric(StatMessagesSent)

	return cs
}

func (cs *ChatServer) RegisterClient(c *Client) {
	cs.clientsLock.Lock()
	defer cs.clientsLock.Unlock()
	cs.clients[c] = struct{}{}
	cs.stats.Incr(StatActiveConnections)
}

func (cs *ChatServer) deregisterClient(c *Client) {
	cs.clientsLock.Lock()
	defer cs.clientsLock.Unlock()
	if _, ok := cs.clients[c]; ok {
		delete(cs.clients, c)
		cs.stats.Decr(StatActiveConnections)
	}
}

// dispatch routes one inbound event. A panic in a handler is reported
// to the connection as INTERNAL_ERROR and never takes down the pump.
func (cs *ChatServer) dispatch(c *Client, msg *ClientMessage) {
	defer func() {
		if err := recover(); err != nil {
			cs.log.Printf("panic handling message from connection %q: %v", c.connId, err)
			c.queueMessage(ErrInternalError())
		}
	}()

	switch {
	case msg.Join != nil:
		cs.handleJoin(c, msg.Join)
	case msg.Publish != nil:
		cs.handlePublish(c, msg.Publish)
	case msg.Typing != nil:
		cs.handleTyping(c, msg.Typing)
	default:
		c.queueMessage(ErrValidation("unknown event"))
	}
}

// handleJoin moves a connection to the joined state. A connection that
// is already in a room leaves it first, so a second join behaves as a
// room switch.
func (cs *ChatServer) handleJoin(c *Client, join *JoinRoom) {
	roomId := strings.TrimSpace(join.RoomId)
	nickname := strings.TrimSpace(join.Nickname)

	if err := cs.validate.Struct(&JoinRoom{RoomId: roomId, Nickname: nickname}); err != nil {
		c.queueMessage(ErrValidation(fmt.Sprintf("room id and nickname are required, nickname at most %d characters", maxNicknameLen)))
		return
	}

	if c.joined() {
		cs.leaveRoom(c)
	}

	now := Now()
	user := types.User{
		Id:           uuid.NewString(),
		Nickname:     nickname,
		ConnectionId: c.connId,
		JoinedAt:     now,
		IsOnline:     true,
		LastActivity: now,
	}

	status, snap := cs.registry.Join(roomId, user)
	switch status {
	case registry.JoinRoomNotFound:
		c.queueMessage(ErrRoomNotFound())
		return
	case registry.JoinRoomFull:
		c.queueMessage(ErrRoomFull())
		return
	case registry.JoinNicknameTaken:
		c.queueMessage(ErrNicknameTaken())
		return
	case registry.JoinOK:
	default:
		c.queueMessage(ErrJoinFailed())
		return
	}

	c.userId = user.Id
	c.roomId = roomId
	cs.subscribe(roomId, c)

	c.queueMessage(roomJoinedMsg(user.Id, snap))
	cs.broadcast(roomId, userJoinedMsg(user), c)

	cs.stats.Incr(StatJoinsTotal)
	cs.log.Printf("user %q joined room %q as %q", user.Id, roomId, nickname)
}

func (cs *ChatServer) handlePublish(c *Client, pub *SendMessage) {
	if !c.joined() {
		c.queueMessage(ErrNotInRoom())
		return
	}

	content := strings.TrimSpace(pub.Content)
	if err := cs.validate.Struct(&SendMessage{Content: content}); err != nil {
		c.queueMessage(ErrValidation(fmt.Sprintf("message content is required, at most %d characters", maxContentLen)))
		return
	}

	user, ok := cs.registry.GetUserInRoom(c.roomId, c.userId)
	if !ok {
		c.queueMessage(ErrUserNotFound())
		return
	}

	chatMsg := types.ChatMessage{
		Id:        uuid.NewString(),
		UserId:    user.Id,
		Nickname:  user.Nickname,
		Content:   content,
		Timestamp: Now(),
	}

	if !cs.registry.AddMessage(c.roomId, chatMsg) {
		c.queueMessage(ErrMessageFailed())
		return
	}

	// the sender receives the broadcast too
	cs.broadcast(c.roomId, newMessageMsg(chatMsg), nil)
	cs.stats.Incr(StatMessagesSent)
}

// handleTyping is best-effort: a user record missing due to a racing
// disconnect is ignored rather than surfaced.
func (cs *ChatServer) handleTyping(c *Client, typing *UserTyping) {
	if !c.joined() {
		return
	}

	user, ok := cs.registry.GetUserInRoom(c.roomId, c.userId)
	if !ok {
		return
	}

	cs.registry.UpdateUserEditingStatus(c.roomId, c.userId, typing.IsTyping)
	cs.broadcast(c.roomId, typingStatusMsg(user, typing.IsTyping), c)
}

func (cs *ChatServer) handleDisconnect(c *Client) {
	if !c.joined() {
		return
	}

	cs.leaveRoom(c)
}

// leaveRoom removes the connection's user from its room and notifies
// the remaining members. It clears the connection's binding.
func (cs *ChatServer) leaveRoom(c *Client) {
	roomId, userId := c.roomId, c.userId
	c.roomId, c.userId = "", ""

	cs.unsubscribe(roomId, c)

	if _, ok := cs.registry.RemoveUserFromRoom(roomId, userId); ok {
		cs.broadcast(roomId, userLeftMsg(userId), c)
		cs.log.Printf("user %q left room %q", userId, roomId)
	}
}

func (cs *ChatServer) subscribe(roomId string, c *Client) {
	cs.subsLock.Lock()
	defer cs.subsLock.Unlock()

	if cs.subs[roomId] == nil {
		cs.subs[roomId] = make(map[*Client]struct{})
	}
	cs.subs[roomId][c] = struct{}{}
}

func (cs *ChatServer) unsubscribe(roomId string, c *Client) {
	cs.subsLock.Lock()
	defer cs.subsLock.Unlock()

	if group, ok := cs.subs[roomId]; ok {
		delete(group, c)
		if len(group) == 0 {
			delete(cs.subs, roomId)
		}
	}
}

// broadcast fans a message out to the room's broadcast group, skipping
// skip when non-nil. Delivery is fire-and-forget; a full peer buffer
// never affects the others.
func (cs *ChatServer) broadcast(roomId string, msg *ServerMessage, skip *Client) {
	cs.subsLock.RLock()
	defer cs.subsLock.RUnlock()

	for client := range cs.subs[roomId] {
		if client == skip {
			continue
		}
		client.queueMessage(msg)
	}
}

// Shutdown stops every connected client's pumps.
func (cs *ChatServer) Shutdown() {
	cs.log.Println("shutting down chat server")

	cs.clientsLock.Lock()
	defer cs.clientsLock.Unlock()
	for c := range cs.clients {
		c.stopClient()
	}
}
