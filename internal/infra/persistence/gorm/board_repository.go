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

// GormBoardRepository 是 BoardRepository 接口的 GORM 实现
type GormBoardRepository struct {
	db *gorm.DB
}

// NewGormBoardRepository 创建 GormBoardRepository 实例
func NewGormBoardRepository(db *gorm.DB) *GormBoardRepository {
	if db == nil {
		panic("database connection cannot be nil for GormBoardRepository")
	}
	return &GormBoardRepository{db: db}
}

// Save 实现保存画板（创建或更新）
func (r *GormBoardRepository) Save(ctx context.Context, board *domain.Board) error {
	err := r.db.WithContext(ctx).Save(board).Error
	if err != nil {
		return fmt.Errorf("gorm: save board (id: %d): %w", board.ID, err)
	}
	return nil
}

// FindByID 实现根据画板 ID 查找画板
func (r *GormBoardRepository) FindByID(ctx context.Context, id uint) (*domain.Board, error) {
	var board domain.Board
	err := r.db.WithContext(ctx).Where("is_active = ?", true).First(&board, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrBoardNotFound
		}
		return nil, fmt.Errorf("gorm: find board by id %d: %w", id, err)
	}
	return &board, nil
}

// FindByUser 实现返回指定用户的所有有效画板，按最后更新时间倒序
func (r *GormBoardRepository) FindByUser(ctx context.Context, userID uint) ([]domain.Board, error) {
	var boards []domain.Board
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("updated_at DESC").
		Find(&boards).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find boards for user %d: %w", userID, err)
	}
	return boards, nil
}

// UpdateCanvas 实现覆盖写入画布数据
func (r *GormBoardRepository) UpdateCanvas(ctx context.Context, id uint, canvasData string) error {
	result := r.db.WithContext(ctx).Model(&domain.Board{}).Where("id = ?", id).
		Update("canvas_data", canvasData)
	if result.Error != nil {
		return fmt.Errorf("gorm: update canvas for board %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrBoardNotFound
	}
	return nil
}

// UpdateTitle 实现更新画板标题
func (r *GormBoardRepository) UpdateTitle(ctx context.Context, id uint, title string) error {
	result := r.db.WithContext(ctx).Model(&domain.Board{}).Where("id = ?", id).
		Update("title", title)
	if result.Error != nil {
		return fmt.Errorf("gorm: update title for board %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrBoardNotFound
	}
	return nil
}

// Delete 实现删除指定用户名下的画板 (软删除)
func (r *GormBoardRepository) Delete(ctx context.Context, id uint, ownerID uint) error {
	result := r.db.WithContext(ctx).Model(&domain.Board{}).
		Where("id = ? AND user_id = ?", id, ownerID).
		Update("is_active", false)
	if result.Error != nil {
		return fmt.Errorf("gorm: delete board %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrBoardNotFound
	}
	return nil
}

// Duplicate 实现复制指定用户名下的画板
func (r *GormBoardRepository) Duplicate(ctx context.Context, id uint, ownerID uint) (*domain.Board, error) {
	original, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if original.UserID != ownerID {
		return nil, repository.ErrBoardNotFound
	}

	copyBoard := domain.Board{
		UserID:      ownerID,
		Title:       original.Title + " (Copy)",
		Description: original.Description,
		Thumbnail:   original.Thumbnail,
		CanvasData:  original.CanvasData,
		IsActive:    true,
	}
	if err := r.db.WithContext(ctx).Create(&copyBoard).Error; err != nil {
		return nil, fmt.Errorf("gorm: duplicate board %d: %w", id, err)
	}
	return &copyBoard, nil
}

// TouchLastAccessed 实现更新画板的最后打开时间
func (r *GormBoardRepository) TouchLastAccessed(ctx context.Context, id uint) error {
	now := time.Now()
	err := r.db.WithContext(ctx).Model(&domain.Board{}).Where("id = ?", id).
		Update("last_accessed", &now).Error
	if err != nil {
		return fmt.Errorf("gorm: touch last accessed for board %d: %w", id, err)
	}
	return nil
}
