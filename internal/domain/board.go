package domain

import "time"

// Board 表示一块归属于某个注册用户的持久化画板。
// 每个用户可以拥有多块画板，画板独立于任何协作房间存在。
type Board struct {
	ID           uint       `gorm:"primaryKey"`           // 画板唯一标识符 (主键)
	UserID       uint       `gorm:"index;not null"`       // 画板所有者的用户 ID (外键关联 User.ID)
	Title        string     `gorm:"size:191;not null"`    // 画板标题
	Description  string     `gorm:"type:text"`            // 描述 (可选)
	Thumbnail    string     `gorm:"type:mediumtext"`      // 缩略图 data URL (可选)
	CanvasData   string     `gorm:"type:longtext"`        // 整张画布的序列化数据 (自动保存写入)
	IsActive     bool       `gorm:"default:true"`         // 软删除标记
	LastAccessed *time.Time `gorm:"index"`                // 最后打开时间 (可为空)
	CreatedAt    time.Time  `gorm:"autoCreateTime"`       // 创建时间 (GORM 自动填充)
	UpdatedAt    time.Time  `gorm:"autoUpdateTime;index"` // 最后更新时间 (GORM 自动填充)
}
