package registry

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/mcanfield/huddle/internal/types"
)

type MockRoomRegistry struct {
	mock.Mock
}

func (m *MockRoomRegistry) CreateRoom(capacity int) string {
	args := m.Called(capacity)
	return args.String(0)
}
func (m *MockRoomRegistry) RoomExists(roomId string) bool {
	args := m.Called(roomId)
	return args.Bool(0)
}
func (m *MockRoomRegistry) HasCapacity(roomId string) bool {
	args := m.Called(roomId)
	return args.Bool(0)
}
func (m *MockRoomRegistry) IsNicknameAvailable(roomId, nickname string) bool {
	args := m.Called(roomId, nickname)
	return args.Bool(0)
}
func (m *MockRoomRegistry) IsNicknameAvailableForUser(roomId, nickname, userId string) bool {
	args := m.Called(roomId, nickname, userId)
	return args.Bool(0)
}
func (m *MockRoomRegistry) Join(roomId string, user types.User) (JoinStatus, RoomSnapshot) {
	args := m.Called(roomId, user)
	return args.Get(0).(JoinStatus), args.Get(1).(RoomSnapshot)
}
func (m *MockRoomRegistry) AddUserToRoom(roomId string, user types.User) bool {
	args := m.Called(roomId, user)
	return args.Bool(0)
}
func (m *MockRoomRegistry) RemoveUserFromRoom(roomId, userId string) (types.User, bool) {
	args := m.Called(roomId, userId)
	return args.Get(0).(types.User), args.Bool(1)
}
func (m *MockRoomRegistry) UpdateUserInRoom(roomId, userId, nickname, connectionId string) bool {
	args := m.Called(roomId, userId, nickname, connectionId)
	return args.Bool(0)
}
func (m *MockRoomRegistry) UpdateUserStatus(roomId, userId string, online bool) bool {
	args := m.Called(roomId, userId, online)
	return args.Bool(0)
}
func (m *MockRoomRegistry) UpdateUserEditingStatus(roomId, userId string, editing bool) bool {
	args := m.Called(roomId, userId, editing)
	return args.Bool(0)
}
func (m *MockRoomRegistry) AddMessage(roomId string, msg types.ChatMessage) bool {
	args := m.Called(roomId, msg)
	return args.Bool(0)
}
func (m *MockRoomRegistry) GetMessages(roomId string) []types.ChatMessage {
	args := m.Called(roomId)
	if msgs, ok := args.Get(0).([]types.ChatMessage); ok {
		return msgs
	}
	return nil
}
func (m *MockRoomRegistry) GetUsersInRoom(roomId string) []types.User {
	args := m.Called(roomId)
	if users, ok := args.Get(0).([]types.User); ok {
		return users
	}
	return nil
}
func (m *MockRoomRegistry) GetUserInRoom(roomId, userId string) (types.User, bool) {
	args := m.Called(roomId, userId)
	return args.Get(0).(types.User), args.Bool(1)
}
func (m *MockRoomRegistry) IsUserInRoom(roomId, userId string) bool {
	args := m.Called(roomId, userId)
	return args.Bool(0)
}
func (m *MockRoomRegistry) GetRoomCapacityInfo(roomId string) (types.CapacityInfo, bool) {
	args := m.Called(roomId)
	return args.Get(0).(types.CapacityInfo), args.Bool(1)
}
func (m *MockRoomRegistry) CleanupExpiredRooms(maxIdle time.Duration) int {
	args := m.Called(maxIdle)
	return args.Int(0)
}
func (m *MockRoomRegistry) Stats() types.Stats {
	args := m.Called()
	return args.Get(0).(types.Stats)
}
