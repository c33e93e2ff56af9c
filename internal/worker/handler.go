package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/chandud1124/whiteboard/internal/repository"
	"github.com/chandud1124/whiteboard/internal/tasks"
)

// EventPersistenceHandler 处理绘图事件持久化任务
type EventPersistenceHandler struct {
	eventRepo repository.EventRepository
}

// NewEventPersistenceHandler 创建 Handler 实例
func NewEventPersistenceHandler(eventRepo repository.EventRepository) *EventPersistenceHandler {
	return &EventPersistenceHandler{eventRepo: eventRepo}
}

// ProcessTask 实现 asynq.Handler 接口
func (h *EventPersistenceHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	retryCount, _ := asynq.GetRetryCount(ctx)
	logCtx := logrus.WithFields(logrus.Fields{
		"task_type": t.Type(),
		"retry":     retryCount,
	})

	var payload tasks.EventPersistencePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		logCtx.WithError(err).Error("Failed to unmarshal task payload")
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	if err := h.eventRepo.Save(ctx, &payload.Event); err != nil {
		logCtx.WithError(err).Error("Failed to save drawing event")
		return fmt.Errorf("failed to save drawing event: %w", err)
	}

	logCtx.WithFields(logrus.Fields{
		"session_id": payload.Event.SessionID,
		"room_code":  payload.Event.RoomCode,
	}).Debug("Drawing event persisted")
	return nil
}

// GuestCleanupHandler 处理过期访客会话的周期清理任务
type GuestCleanupHandler struct {
	guestRepo repository.GuestSessionRepository
}

// NewGuestCleanupHandler 创建 Handler 实例
func NewGuestCleanupHandler(guestRepo repository.GuestSessionRepository) *GuestCleanupHandler {
	return &GuestCleanupHandler{guestRepo: guestRepo}
}

// ProcessTask 实现 asynq.Handler 接口
func (h *GuestCleanupHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	removed, err := h.guestRepo.CleanupExpired(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to cleanup expired guest sessions")
		return fmt.Errorf("failed to cleanup expired guest sessions: %w", err)
	}
	if removed > 0 {
		logrus.WithField("removed", removed).Info("Expired guest sessions cleaned up")
	}
	return nil
}
