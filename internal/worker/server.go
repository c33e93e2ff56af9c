// Package worker 运行 asynq 后台任务：绘图事件落库和访客会话清理。
package worker

import (
	"context"
	"errors"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/chandud1124/whiteboard/internal/repository"
	"github.com/chandud1124/whiteboard/internal/tasks"
)

// 访客会话清理周期
const guestCleanupSchedule = "@every 10m"

// WorkerServer 封装 asynq Server/Scheduler 的启动和关闭逻辑
type WorkerServer struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler
	log       *logrus.Entry
	eventRepo repository.EventRepository
	guestRepo repository.GuestSessionRepository
}

// NewWorkerServer 创建 WorkerServer 实例
func NewWorkerServer(
	redisOpt asynq.RedisClientOpt,
	eventRepo repository.EventRepository,
	guestRepo repository.GuestSessionRepository,
	logger *logrus.Logger,
) *WorkerServer {
	logEntry := logger.WithField("component", "worker_server")

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				retryCount, _ := asynq.GetRetryCount(ctx)
				maxRetry, _ := asynq.GetMaxRetry(ctx)
				logEntry.WithFields(logrus.Fields{
					"task_type": task.Type(),
					"retries":   retryCount,
					"max_retry": maxRetry,
				}).Errorf("Task failed: %v", err)
			}),
		},
	)

	scheduler := asynq.NewScheduler(redisOpt, nil)

	return &WorkerServer{
		server:    server,
		scheduler: scheduler,
		log:       logEntry,
		eventRepo: eventRepo,
		guestRepo: guestRepo,
	}
}

// Start 运行 Worker Server 和周期任务调度器。
// 应该在单独的 goroutine 中调用。
func (ws *WorkerServer) Start() {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeEventPersistence, NewEventPersistenceHandler(ws.eventRepo).ProcessTask)
	mux.HandleFunc(tasks.TypeGuestCleanup, NewGuestCleanupHandler(ws.guestRepo).ProcessTask)

	if _, err := ws.scheduler.Register(guestCleanupSchedule, tasks.NewGuestCleanupTask()); err != nil {
		ws.log.WithError(err).Error("Failed to register guest cleanup schedule")
	}
	go func() {
		if err := ws.scheduler.Run(); err != nil {
			ws.log.WithError(err).Error("Scheduler stopped with error")
		}
	}()

	ws.log.Info("Worker server starting...")
	if err := ws.server.Run(mux); err != nil {
		if !errors.Is(err, asynq.ErrServerClosed) {
			ws.log.Fatalf("Could not run worker server: %v", err)
		}
		ws.log.Info("Worker server stopped.")
	}
}

// Shutdown 优雅关闭 Worker Server 和调度器
func (ws *WorkerServer) Shutdown() {
	ws.log.Info("Shutting down worker server...")
	ws.scheduler.Shutdown()
	ws.server.Shutdown()
	ws.log.Info("Worker server shut down complete.")
}
