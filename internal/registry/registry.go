package registry

import (
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/teris-io/shortid"

	"github.com/mcanfield/huddle/internal/types"
)

// maxRoomMessages caps each room's rolling history. Older messages are
// evicted FIFO once the cap is reached.
const maxRoomMessages = 100

// JoinStatus is the outcome of the compound Join operation.
type JoinStatus int

const (
	JoinOK JoinStatus = iota
	JoinRoomNotFound
	JoinRoomFull
	JoinNicknameTaken
)

// RoomSnapshot is the state handed to a member at join time: the full
// member list, message history and room metadata as of the join.
type RoomSnapshot struct {
	Users         []types.User
	Messages      []types.ChatMessage
	OwnerId       string
	OwnerNickname string
	Capacity      types.CapacityInfo
}

// RoomRegistry is the authoritative in-memory room state. Queries on
// missing rooms or users return false/zero values, never errors;
// classification of failures is left to callers.
type RoomRegistry interface {
	CreateRoom(capacity int) string
	RoomExists(roomId string) bool
	HasCapacity(roomId string) bool
	IsNicknameAvailable(roomId, nickname string) bool
	IsNicknameAvailableForUser(roomId, nickname, userId string) bool
	Join(roomId string, user types.User) (JoinStatus, RoomSnapshot)
	AddUserToRoom(roomId string, user types.User) bool
	RemoveUserFromRoom(roomId, userId string) (types.User, bool)
	UpdateUserInRoom(roomId, userId, nickname, connectionId string) bool
	UpdateUserStatus(roomId, userId string, online bool) bool
	UpdateUserEditingStatus(roomId, userId string, editing bool) bool
	AddMessage(roomId string, msg types.ChatMessage) bool
	GetMessages(roomId string) []types.ChatMessage
	GetUsersInRoom(roomId string) []types.User
	GetUserInRoom(roomId, userId string) (types.User, bool)
	IsUserInRoom(roomId, userId string) bool
	GetRoomCapacityInfo(roomId string) (types.CapacityInfo, bool)
	CleanupExpiredRooms(maxIdle time.Duration) int
	Stats() types.Stats
}

type room struct {
	id            string
	createdAt     time.Time
	lastActivity  time.Time
	capacity      int
	ownerId       string
	ownerNickname string
	members       map[string]*types.User
	messages      []types.ChatMessage
}

// Registry implements RoomRegistry behind a single mutex. Every
// mutation runs in one critical section, so compound operations like
// Join can check and act without another writer interleaving. The lock
// is never held across network I/O.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*room
	log   *log.Logger
}

func NewRegistry(logger *log.Logger) *Registry {
	return &Registry{
		rooms: make(map[string]*room),
		log:   logger,
	}
}

// CreateRoom allocates an empty room with a fresh opaque id and a
// fixed capacity. It never fails; if the short id generator errors the
// id falls back to a UUID.
func (r *Registry) CreateRoom(capacity int) string {
	id, err := shortid.Generate()
	if err != nil {
		id = uuid.NewString()
	}

	now := time.Now()
	r.mu.Lock()
	r.rooms[id] = &room{
		id:           id,
		createdAt:    now,
		lastActivity: now,
		capacity:     capacity,
		members:      make(map[string]*types.User),
	}
	r.mu.Unlock()

	r.log.Printf("created room %q with capacity %d", id, capacity)
	return id
}

func (r *Registry) RoomExists(roomId string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.rooms[roomId]
	return ok
}

func (r *Registry) HasCapacity(roomId string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rm, ok := r.rooms[roomId]
	return ok && len(rm.members) < rm.capacity
}

func (r *Registry) IsNicknameAvailable(roomId, nickname string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rm, ok := r.rooms[roomId]
	if !ok {
		return false
	}

	return rm.nicknameAvailable(nickname, "")
}

// IsNicknameAvailableForUser is like IsNicknameAvailable except the
// given user may keep its own current nickname.
func (r *Registry) IsNicknameAvailableForUser(roomId, nickname, userId string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rm, ok := r.rooms[roomId]
	if !ok {
		return false
	}

	return rm.nicknameAvailable(nickname, userId)
}

// nicknameAvailable reports whether nickname collides case-insensitively
// with an online member other than exceptUserId. Callers hold r.mu.
func (rm *room) nicknameAvailable(nickname, exceptUserId string) bool {
	for _, u := range rm.members {
		if u.Id == exceptUserId || !u.IsOnline {
			continue
		}
		if strings.EqualFold(u.Nickname, nickname) {
			return false
		}
	}
	return true
}

// Join validates room existence, capacity and nickname availability
// and inserts the user, all in one critical section. Two concurrent
// joins can therefore never both pass the checks before either
// writes. On success it returns a snapshot of the room taken after the
// insert.
func (r *Registry) Join(roomId string, user types.User) (JoinStatus, RoomSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.rooms[roomId]
	if !ok {
		return JoinRoomNotFound, RoomSnapshot{}
	}
	if len(rm.members) >= rm.capacity {
		return JoinRoomFull, RoomSnapshot{}
	}
	if !rm.nicknameAvailable(user.Nickname, user.Id) {
		return JoinNicknameTaken, RoomSnapshot{}
	}

	rm.insertUser(user)

	return JoinOK, RoomSnapshot{
		Users:         rm.userList(),
		Messages:      rm.messageList(),
		OwnerId:       rm.ownerId,
		OwnerNickname: rm.ownerNickname,
		Capacity: types.CapacityInfo{
			Current: len(rm.members),
			Max:     rm.capacity,
		},
	}
}

// AddUserToRoom inserts without re-validating capacity or nickname;
// callers that need the checks must use Join so check and insert share
// one critical section.
func (r *Registry) AddUserToRoom(roomId string, user types.User) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.rooms[roomId]
	if !ok {
		return false
	}

	rm.insertUser(user)
	return true
}

// insertUser stamps owner fields on the 0->1 member transition. Callers
// hold r.mu.
func (rm *room) insertUser(user types.User) {
	if len(rm.members) == 0 {
		rm.ownerId = user.Id
		rm.ownerNickname = user.Nickname
	}

	u := user
	rm.members[u.Id] = &u
	rm.touch()
}

func (r *Registry) RemoveUserFromRoom(roomId, userId string) (types.User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.rooms[roomId]
	if !ok {
		return types.User{}, false
	}

	u, ok := rm.members[userId]
	if !ok {
		return types.User{}, false
	}

	delete(rm.members, userId)
	rm.touch()
	return *u, true
}

// UpdateUserInRoom renames and/or rebinds a member to a new connection,
// marking it online again.
func (r *Registry) UpdateUserInRoom(roomId, userId, nickname, connectionId string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.rooms[roomId]
	if !ok {
		return false
	}

	u, ok := rm.members[userId]
	if !ok {
		return false
	}

	u.Nickname = nickname
	u.ConnectionId = connectionId
	u.IsOnline = true
	u.LastActivity = time.Now()
	rm.touch()
	return true
}

func (r *Registry) UpdateUserStatus(roomId, userId string, online bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.rooms[roomId]
	if !ok {
		return false
	}

	u, ok := rm.members[userId]
	if !ok {
		return false
	}

	u.IsOnline = online
	u.LastActivity = time.Now()
	rm.touch()
	return true
}

func (r *Registry) UpdateUserEditingStatus(roomId, userId string, editing bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.rooms[roomId]
	if !ok {
		return false
	}

	u, ok := rm.members[userId]
	if !ok {
		return false
	}

	u.IsEditing = editing
	u.LastActivity = time.Now()
	rm.touch()
	return true
}

// AddMessage appends to the room's history, evicting the oldest
// entries beyond the cap.
func (r *Registry) AddMessage(roomId string, msg types.ChatMessage) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.rooms[roomId]
	if !ok {
		return false
	}

	rm.messages = append(rm.messages, msg)
	if n := len(rm.messages); n > maxRoomMessages {
		rm.messages = rm.messages[n-maxRoomMessages:]
	}
	rm.touch()
	return true
}

func (r *Registry) GetMessages(roomId string) []types.ChatMessage {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rm, ok := r.rooms[roomId]
	if !ok {
		return nil
	}

	return rm.messageList()
}

func (r *Registry) GetUsersInRoom(roomId string) []types.User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rm, ok := r.rooms[roomId]
	if !ok {
		return nil
	}

	return rm.userList()
}

func (r *Registry) GetUserInRoom(roomId, userId string) (types.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rm, ok := r.rooms[roomId]
	if !ok {
		return types.User{}, false
	}

	u, ok := rm.members[userId]
	if !ok {
		return types.User{}, false
	}

	return *u, true
}

func (r *Registry) IsUserInRoom(roomId, userId string) bool {
	_, ok := r.GetUserInRoom(roomId, userId)
	return ok
}

func (r *Registry) GetRoomCapacityInfo(roomId string) (types.CapacityInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rm, ok := r.rooms[roomId]
	if !ok {
		return types.CapacityInfo{}, false
	}

	return types.CapacityInfo{Current: len(rm.members), Max: rm.capacity}, true
}

// CleanupExpiredRooms destroys every empty room and, when maxIdle is
// positive, every room idle longer than maxIdle. It takes the same
// lock as all mutations, so a room can never be destroyed while
// concurrently gaining a member.
func (r *Registry) CleanupExpiredRooms(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	var removed int
	for id, rm := range r.rooms {
		if len(rm.members) == 0 || (maxIdle > 0 && now.Sub(rm.lastActivity) > maxIdle) {
			delete(r.rooms, id)
			removed++
		}
	}

	if removed > 0 {
		r.log.Printf("cleaned up %d expired rooms, %d remaining", removed, len(r.rooms))
	}
	return removed
}

func (r *Registry) Stats() types.Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := types.Stats{TotalRooms: len(r.rooms)}
	for _, rm := range r.rooms {
		s.TotalUsers += len(rm.members)
	}
	return s
}

// userList and messageList return copies so callers never share memory
// with the registry. Callers hold r.mu.
func (rm *room) userList() []types.User {
	return lo.Map(lo.Values(rm.members), func(u *types.User, _ int) types.User {
		return *u
	})
}

func (rm *room) messageList() []types.ChatMessage {
	msgs := make([]types.ChatMessage, len(rm.messages))
	copy(msgs, rm.messages)
	return msgs
}

func (rm *room) touch() {
	if now := time.Now(); now.After(rm.lastActivity) {
		rm.lastActivity = now
	}
}
