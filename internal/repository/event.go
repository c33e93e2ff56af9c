package repository

import (
	"context"

	"github.com/chandud1124/whiteboard/internal/domain"
)

// EventRepository 定义了绘图事件的存储、回放查询和清除操作。
// 查询结果按持久化顺序 (主键升序) 返回，供历史回放使用。
type EventRepository interface {
	// Save 保存单个绘图事件。
	Save(ctx context.Context, event *domain.DrawingEvent) error

	// SaveBatch 批量保存绘图事件 (后台持久化任务使用)。
	SaveBatch(ctx context.Context, events []domain.DrawingEvent) error

	// FindByBoard 返回指定画板的全部事件。
	FindByBoard(ctx context.Context, boardID uint) ([]domain.DrawingEvent, error)

	// FindByRoom 返回指定房间的全部事件。
	FindByRoom(ctx context.Context, roomCode string) ([]domain.DrawingEvent, error)

	// FindAll 返回所有事件 (无作用域的旧式回退)。
	FindAll(ctx context.Context) ([]domain.DrawingEvent, error)

	// ClearByBoard 删除指定画板的全部事件。
	ClearByBoard(ctx context.Context, boardID uint) error

	// ClearByRoom 删除指定房间的全部事件。
	ClearByRoom(ctx context.Context, roomCode string) error

	// ClearAll 删除所有事件。
	ClearAll(ctx context.Context) error
}
