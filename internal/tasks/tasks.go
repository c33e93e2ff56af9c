// Package tasks 定义 asynq 任务类型和 payload 构造函数。
package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/chandud1124/whiteboard/internal/domain"
)

// 任务类型常量
const (
	TypeEventPersistence = "event:persist" // 绘图事件持久化
	TypeGuestCleanup     = "guest:cleanup" // 过期访客会话清理 (周期任务)
)

// EventPersistencePayload 是绘图事件持久化任务的数据结构
type EventPersistencePayload struct {
	Event domain.DrawingEvent
}

// NewEventPersistTask 创建一个绘图事件持久化任务
func NewEventPersistTask(event *domain.DrawingEvent) (*asynq.Task, error) {
	payload, err := json.Marshal(EventPersistencePayload{Event: *event})
	if err != nil {
		return nil, fmt.Errorf("marshal event persistence payload: %w", err)
	}
	return asynq.NewTask(TypeEventPersistence, payload), nil
}

// NewGuestCleanupTask 创建一个访客会话清理任务 (无 payload)
func NewGuestCleanupTask() *asynq.Task {
	return asynq.NewTask(TypeGuestCleanup, nil)
}
