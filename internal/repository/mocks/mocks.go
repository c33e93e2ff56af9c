// Package mocks 提供 repository 接口的 testify Mock 实现，仅用于测试。
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/chandud1124/whiteboard/internal/domain"
)

// UserRepository 是 repository.UserRepository 的 Mock 实现
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) Save(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *UserRepository) UpdateLastLogin(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *UserRepository) UpdateProfile(ctx context.Context, id uint, displayName string) error {
	args := m.Called(ctx, id, displayName)
	return args.Error(0)
}

// BoardRepository 是 repository.BoardRepository 的 Mock 实现
type BoardRepository struct {
	mock.Mock
}

func (m *BoardRepository) Save(ctx context.Context, board *domain.Board) error {
	args := m.Called(ctx, board)
	return args.Error(0)
}

func (m *BoardRepository) FindByID(ctx context.Context, id uint) (*domain.Board, error) {
	args := m.Called(ctx, id)
	if b := args.Get(0); b != nil {
		return b.(*domain.Board), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *BoardRepository) FindByUser(ctx context.Context, userID uint) ([]domain.Board, error) {
	args := m.Called(ctx, userID)
	if b := args.Get(0); b != nil {
		return b.([]domain.Board), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *BoardRepository) UpdateCanvas(ctx context.Context, id uint, canvasData string) error {
	args := m.Called(ctx, id, canvasData)
	return args.Error(0)
}

func (m *BoardRepository) UpdateTitle(ctx context.Context, id uint, title string) error {
	args := m.Called(ctx, id, title)
	return args.Error(0)
}

func (m *BoardRepository) Delete(ctx context.Context, id uint, ownerID uint) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}

func (m *BoardRepository) Duplicate(ctx context.Context, id uint, ownerID uint) (*domain.Board, error) {
	args := m.Called(ctx, id, ownerID)
	if b := args.Get(0); b != nil {
		return b.(*domain.Board), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *BoardRepository) TouchLastAccessed(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// EventRepository 是 repository.EventRepository 的 Mock 实现
type EventRepository struct {
	mock.Mock
}

func (m *EventRepository) Save(ctx context.Context, event *domain.DrawingEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *EventRepository) SaveBatch(ctx context.Context, events []domain.DrawingEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func (m *EventRepository) FindByBoard(ctx context.Context, boardID uint) ([]domain.DrawingEvent, error) {
	args := m.Called(ctx, boardID)
	if e := args.Get(0); e != nil {
		return e.([]domain.DrawingEvent), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *EventRepository) FindByRoom(ctx context.Context, roomCode string) ([]domain.DrawingEvent, error) {
	args := m.Called(ctx, roomCode)
	if e := args.Get(0); e != nil {
		return e.([]domain.DrawingEvent), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *EventRepository) FindAll(ctx context.Context) ([]domain.DrawingEvent, error) {
	args := m.Called(ctx)
	if e := args.Get(0); e != nil {
		return e.([]domain.DrawingEvent), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *EventRepository) ClearByBoard(ctx context.Context, boardID uint) error {
	args := m.Called(ctx, boardID)
	return args.Error(0)
}

func (m *EventRepository) ClearByRoom(ctx context.Context, roomCode string) error {
	args := m.Called(ctx, roomCode)
	return args.Error(0)
}

func (m *EventRepository) ClearAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// GuestSessionRepository 是 repository.GuestSessionRepository 的 Mock 实现
type GuestSessionRepository struct {
	mock.Mock
}

func (m *GuestSessionRepository) Save(ctx context.Context, session *domain.GuestSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *GuestSessionRepository) FindBySessionID(ctx context.Context, sessionID string) (*domain.GuestSession, error) {
	args := m.Called(ctx, sessionID)
	if s := args.Get(0); s != nil {
		return s.(*domain.GuestSession), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *GuestSessionRepository) CleanupExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
