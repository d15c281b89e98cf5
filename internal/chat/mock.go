package chat

import (
	"github.com/stretchr/testify/mock"
)

type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) CreateUser(username, password string) (Result, error) {
	args := m.Called(username, password)
	return args.Get(0).(Result), args.Error(1)
}
func (m *MockChatService) GetUser(token string, userId int64) (Result, error) {
	args := m.Called(token, userId)
	return args.Get(0).(Result), args.Error(1)
}
func (m *MockChatService) ListUsers(token string) (Result, error) {
	args := m.Called(token)
	return args.Get(0).(Result), args.Error(1)
}
func (m *MockChatService) CreateServer(token, name string) (Result, error) {
	args := m.Called(token, name)
	return args.Get(0).(Result), args.Error(1)
}
func (m *MockChatService) ListServers(token string) (Result, error) {
	args := m.Called(token)
	return args.Get(0).(Result), args.Error(1)
}
func (m *MockChatService) MemberServers(token string) (Result, error) {
	args := m.Called(token)
	return args.Get(0).(Result), args.Error(1)
}
func (m *MockChatService) ListMembers(token string, serverId int64) (Result, error) {
	args := m.Called(token, serverId)
	return args.Get(0).(Result), args.Error(1)
}
func (m *MockChatService) CreateChannel(token string, serverId int64, name, channelType string) (Result, error) {
	args := m.Called(token, serverId, name, channelType)
	return args.Get(0).(Result), args.Error(1)
}
func (m *MockChatService) CreateInvite(token string, serverId int64) (Result, error) {
	args := m.Called(token, serverId)
	return args.Get(0).(Result), args.Error(1)
}
func (m *MockChatService) JoinServer(token, code string) (Result, error) {
	args := m.Called(token, code)
	return args.Get(0).(Result), args.Error(1)
}
func (m *MockChatService) SendMessage(token string, channelId int64, content string) (Result, error) {
	args := m.Called(token, channelId, content)
	return args.Get(0).(Result), args.Error(1)
}
func (m *MockChatService) GetMessages(token string, channelId, beforeId int64) (Result, error) {
	args := m.Called(token, channelId, beforeId)
	return args.Get(0).(Result), args.Error(1)
}
func (m *MockChatService) SendDirectMessage(token string, recipientId int64, content string) (Result, error) {
	args := m.Called(token, recipientId, content)
	return args.Get(0).(Result), args.Error(1)
}
func (m *MockChatService) GetDirectMessages(token string, otherId, beforeId int64) (Result, error) {
	args := m.Called(token, otherId, beforeId)
	return args.Get(0).(Result), args.Error(1)
}
