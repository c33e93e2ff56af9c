package repository

import (
	"context"

	"github.com/chandud1124/whiteboard/internal/domain"
)

// GuestSessionRepository 定义了访客会话的存储操作。
type GuestSessionRepository interface {
	// Save 保存访客会话记录。
	Save(ctx context.Context, session *domain.GuestSession) error

	// FindBySessionID 根据会话 ID 查找访客会话。不存在时返回 ErrGuestSessionNotFound。
	FindBySessionID(ctx context.Context, sessionID string) (*domain.GuestSession, error)

	// CleanupExpired 删除所有已过期的访客会话，返回删除的数量。
	CleanupExpired(ctx context.Context) (int64, error)
}
