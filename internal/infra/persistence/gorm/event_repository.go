package gormpersistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/chandud1124/whiteboard/internal/domain"
)

// GormEventRepository 是 EventRepository 接口的 GORM 实现。
// 回放查询统一按主键升序返回，保证历史事件的持久化顺序。
type GormEventRepository struct {
	db *gorm.DB
}

// NewGormEventRepository 创建 GormEventRepository 实例
func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	if db == nil {
		panic("database connection cannot be nil for GormEventRepository")
	}
	return &GormEventRepository{db: db}
}

// Save 实现保存单个绘图事件
func (r *GormEventRepository) Save(ctx context.Context, event *domain.DrawingEvent) error {
	err := r.db.WithContext(ctx).Create(event).Error
	if err != nil {
		return fmt.Errorf("gorm: save drawing event: %w", err)
	}
	return nil
}

// SaveBatch 实现批量保存绘图事件
// GORM 的 Create 方法支持传入切片进行批量插入
func (r *GormEventRepository) SaveBatch(ctx context.Context, events []domain.DrawingEvent) error {
	if len(events) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Create(&events).Error
	if err != nil {
		return fmt.Errorf("gorm: save drawing event batch (size %d): %w", len(events), err)
	}
	return nil
}

// FindByBoard 实现返回指定画板的全部事件
func (r *GormEventRepository) FindByBoard(ctx context.Context, boardID uint) ([]domain.DrawingEvent, error) {
	var events []domain.DrawingEvent
	err := r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Order("id ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find events for board %d: %w", boardID, err)
	}
	return events, nil
}

// FindByRoom 实现返回指定房间的全部事件
func (r *GormEventRepository) FindByRoom(ctx context.Context, roomCode string) ([]domain.DrawingEvent, error) {
	var events []domain.DrawingEvent
	err := r.db.WithContext(ctx).
		Where("room_code = ?", roomCode).
		Order("id ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find events for room '%s': %w", roomCode, err)
	}
	return events, nil
}

// FindAll 实现返回所有事件 (无作用域的旧式回退)
func (r *GormEventRepository) FindAll(ctx context.Context) ([]domain.DrawingEvent, error) {
	var events []domain.DrawingEvent
	err := r.db.WithContext(ctx).Order("id ASC").Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find all events: %w", err)
	}
	return events, nil
}

// ClearByBoard 实现删除指定画板的全部事件
func (r *GormEventRepository) ClearByBoard(ctx context.Context, boardID uint) error {
	err := r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Delete(&domain.DrawingEvent{}).Error
	if err != nil {
		return fmt.Errorf("gorm: clear events for board %d: %w", boardID, err)
	}
	return nil
}

// ClearByRoom 实现删除指定房间的全部事件
func (r *GormEventRepository) ClearByRoom(ctx context.Context, roomCode string) error {
	err := r.db.WithContext(ctx).
		Where("room_code = ?", roomCode).
		Delete(&domain.DrawingEvent{}).Error
	if err != nil {
		return fmt.Errorf("gorm: clear events for room '%s': %w", roomCode, err)
	}
	return nil
}

// ClearAll 实现删除所有事件
func (r *GormEventRepository) ClearAll(ctx context.Context) error {
	err := r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&domain.DrawingEvent{}).Error
	if err != nil {
		return fmt.Errorf("gorm: clear all events: %w", err)
	}
	return nil
}
