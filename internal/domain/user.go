// Package domain 定义了应用程序中使用的数据结构 (数据库模型)。
package domain

import "time"

// User 表示一个注册用户账号。
type User struct {
	ID           uint       `gorm:"primaryKey"`                                          // 用户唯一标识符 (主键)
	Username     string     `gorm:"type:varchar(191);uniqueIndex:idx_username;not null"` // 登录用户名，必须唯一
	Email        string     `gorm:"type:varchar(191);uniqueIndex:idx_email"`             // 邮箱，必须唯一
	PasswordHash string     `gorm:"type:text;not null"`                                  // 存储的是哈希后的密码，不能为空
	DisplayName  string     `gorm:"type:varchar(191)"`                                   // 展示名，默认与用户名相同
	IsActive     bool       `gorm:"default:true"`                                        // 账号是否可用
	LastLogin    *time.Time `gorm:"index"`                                               // 最后登录时间 (可为空)
	CreatedAt    time.Time  `gorm:"autoCreateTime"`                                      // 用户记录创建时间 (GORM 自动填充)
	UpdatedAt    time.Time  `gorm:"autoUpdateTime"`                                      // 用户记录最后更新时间 (GORM 自动填充)
}
