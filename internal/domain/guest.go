package domain

import "time"

// GuestSession 表示一个临时的访客会话记录。
// 访客会话在创建后的固定时间内有效，过期后由后台任务清理。
type GuestSession struct {
	ID          uint      `gorm:"primaryKey"`                                  // 记录主键
	SessionID   string    `gorm:"type:varchar(191);uniqueIndex;not null"`      // 关联的连接会话 ID
	SessionData string    `gorm:"type:longtext"`                               // 访客暂存的画布数据 (可选)
	IsActive    bool      `gorm:"default:true"`                                // 会话是否仍然有效
	ExpiresAt   time.Time `gorm:"index;not null"`                              // 过期时间
	CreatedAt   time.Time `gorm:"autoCreateTime"`                              // 创建时间 (GORM 自动填充)
}

// IsExpired 判断访客会话是否已经过期。
func (g *GuestSession) IsExpired() bool {
	return !g.ExpiresAt.IsZero() && g.ExpiresAt.Before(time.Now())
}
