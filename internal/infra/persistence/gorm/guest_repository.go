package gormpersistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/chandud1124/whiteboard/internal/domain"
	"github.com/chandud1124/whiteboard/internal/repository"
)

// GormGuestSessionRepository 是 GuestSessionRepository 接口的 GORM 实现
type GormGuestSessionRepository struct {
	db *gorm.DB
}

// NewGormGuestSessionRepository 创建 GormGuestSessionRepository 实例
func NewGormGuestSessionRepository(db *gorm.DB) *GormGuestSessionRepository {
	if db == nil {
		panic("database connection cannot be nil for GormGuestSessionRepository")
	}
	return &GormGuestSessionRepository{db: db}
}

// Save 实现保存访客会话记录
func (r *GormGuestSessionRepository) Save(ctx context.Context, session *domain.GuestSession) error {
	err := r.db.WithContext(ctx).Save(session).Error
	if err != nil {
		if isDuplicateEntry(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: save guest session '%s': %w", session.SessionID, err)
	}
	return nil
}

// FindBySessionID 实现根据会话 ID 查找访客会话
func (r *GormGuestSessionRepository) FindBySessionID(ctx context.Context, sessionID string) (*domain.GuestSession, error) {
	var session domain.GuestSession
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrGuestSessionNotFound
		}
		return nil, fmt.Errorf("gorm: find guest session '%s': %w", sessionID, err)
	}
	return &session, nil
}

// CleanupExpired 实现删除所有已过期的访客会话
func (r *GormGuestSessionRepository) CleanupExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&domain.GuestSession{})
	if result.Error != nil {
		return 0, fmt.Errorf("gorm: cleanup expired guest sessions: %w", result.Error)
	}
	return result.RowsAffected, nil
}
