// Package repository 定义了持久化协作方的接口。
// 核心只依赖这些接口；具体实现位于 internal/infra/persistence 下。
// 所有操作彼此独立、可安全重试，失败时调用方降级为 "功能暂不可用" 而非中断会话。
package repository

import (
	"context"

	"github.com/chandud1124/whiteboard/internal/domain"
)

// UserRepository 定义了用户数据的存储和检索操作。
type UserRepository interface {
	// Save 保存用户信息。ID 为零时创建新用户，否则更新。
	// 违反唯一约束时返回 ErrDuplicateEntry。
	Save(ctx context.Context, user *domain.User) error

	// FindByUsername 根据用户名查找用户。不存在时返回 ErrUserNotFound。
	FindByUsername(ctx context.Context, username string) (*domain.User, error)

	// FindByEmail 根据邮箱查找用户。不存在时返回 ErrUserNotFound。
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindByID 根据用户 ID 查找用户。不存在时返回 ErrUserNotFound。
	FindByID(ctx context.Context, id uint) (*domain.User, error)

	// UsernameExists 检查用户名是否已被占用。
	UsernameExists(ctx context.Context, username string) (bool, error)

	// EmailExists 检查邮箱是否已被注册。
	EmailExists(ctx context.Context, email string) (bool, error)

	// UpdateLastLogin 将用户的最后登录时间更新为当前时间。
	UpdateLastLogin(ctx context.Context, id uint) error

	// UpdateProfile 更新用户的展示名。
	UpdateProfile(ctx context.Context, id uint, displayName string) error
}
