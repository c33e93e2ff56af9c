package repository

import (
	"context"

	"github.com/chandud1124/whiteboard/internal/domain"
)

// BoardRepository 定义了画板数据的存储和检索操作。
type BoardRepository interface {
	// Save 保存画板。ID 为零时创建，否则更新。
	Save(ctx context.Context, board *domain.Board) error

	// FindByID 根据画板 ID 查找画板。不存在时返回 ErrBoardNotFound。
	FindByID(ctx context.Context, id uint) (*domain.Board, error)

	// FindByUser 返回指定用户的所有有效画板，按最后更新时间倒序。
	FindByUser(ctx context.Context, userID uint) ([]domain.Board, error)

	// UpdateCanvas 覆盖写入画板的画布数据。
	UpdateCanvas(ctx context.Context, id uint, canvasData string) error

	// UpdateTitle 更新画板标题。
	UpdateTitle(ctx context.Context, id uint, title string) error

	// Delete 删除指定用户名下的画板；画板不存在或不属于该用户时返回 ErrBoardNotFound。
	Delete(ctx context.Context, id uint, ownerID uint) error

	// Duplicate 复制指定用户名下的画板并返回新副本。
	// 原画板不存在或不属于该用户时返回 ErrBoardNotFound。
	Duplicate(ctx context.Context, id uint, ownerID uint) (*domain.Board, error)

	// TouchLastAccessed 将画板的最后打开时间更新为当前时间。
	TouchLastAccessed(ctx context.Context, id uint) error
}
