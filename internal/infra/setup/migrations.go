package setup

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/chandud1124/whiteboard/internal/domain"
)

// MigrateDB 迁移所有数据库表结构。
// User/Board 的 TEXT 列已在模型中限制了索引列长度 (varchar(191))，
// 因此这里可以直接使用 AutoMigrate。
func MigrateDB(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("cannot migrate database with nil DB connection")
	}

	err := db.AutoMigrate(
		&domain.User{},
		&domain.Board{},
		&domain.DrawingEvent{},
		&domain.GuestSession{},
	)
	if err != nil {
		logrus.Errorf("Failed to auto-migrate tables: %v", err)
		return fmt.Errorf("failed to auto-migrate tables: %w", err)
	}

	logrus.Info("Database migration completed successfully")
	return nil
}
