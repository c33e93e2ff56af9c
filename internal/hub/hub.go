// Package hub 实现实时协作核心：连接注册表、房间审批状态机、
// 消息路由和按作用域的广播与历史回放。
// 所有房间与会话状态都在内存中，进程重启即丢失。
package hub

import (
	"sync"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/chandud1124/whiteboard/internal/repository"
	"github.com/chandud1124/whiteboard/internal/service"
)

// Hub 是协作服务器对象，持有全部共享注册表并组合各处理器。
// 每个测试可以创建独立实例，不依赖进程级全局状态。
type Hub struct {
	registry *Registry
	rooms    *RoomManager

	auth   *service.AuthService
	boards repository.BoardRepository
	events repository.EventRepository
	guests repository.GuestSessionRepository

	// asynqClient 用于绘图事件的异步落库，nil 时退化为直接写库
	asynqClient *asynq.Client

	// 重连令牌映射：每个用户只有一个存活令牌，登录时替换，登出时删除
	tokenMu     sync.Mutex
	tokenToUser map[string]uint
	userToToken map[uint]string
}

// NewHub 创建 Hub 实例。asynqClient 可以为 nil (事件改为同步落库)。
func NewHub(
	auth *service.AuthService,
	boards repository.BoardRepository,
	events repository.EventRepository,
	guests repository.GuestSessionRepository,
	asynqClient *asynq.Client,
) *Hub {
	if auth == nil {
		panic("AuthService cannot be nil for Hub")
	}
	if boards == nil {
		panic("BoardRepository cannot be nil for Hub")
	}
	if events == nil {
		panic("EventRepository cannot be nil for Hub")
	}
	if guests == nil {
		panic("GuestSessionRepository cannot be nil for Hub")
	}
	return &Hub{
		registry:    NewRegistry(),
		rooms:       NewRoomManager(),
		auth:        auth,
		boards:      boards,
		events:      events,
		guests:      guests,
		asynqClient: asynqClient,
		tokenToUser: make(map[string]uint),
		userToToken: make(map[uint]string),
	}
}

// NewConnection 为一个刚升级完成的 WebSocket 连接创建并注册客户端。
func (h *Hub) NewConnection(conn Conn) *Client {
	c := NewClient(h, conn, uuid.NewString())
	h.Register(c)
	return c
}

// Register 将客户端加入注册表并下发欢迎帧 (携带当前在线连接数)。
func (h *Hub) Register(c *Client) {
	h.registry.Register(c)
	total := h.registry.Count()
	logrus.WithFields(logrus.Fields{"conn_id": c.ID, "total_clients": total}).Info("New connection registered")

	h.sendFrame(c, welcomeFrame{
		Type:             "welcome",
		SessionID:        c.ID,
		ConnectedClients: total,
	})
}

// Unregister 将客户端移出注册表并执行房间清理。
// 幂等，可与仍在引用该连接的处理器并发运行；
// 之后对该连接的写入软失败，不会崩溃。
func (h *Hub) Unregister(c *Client) {
	h.registry.Unregister(c)
	h.departRoom(c)
	c.closeSend()
	logrus.WithFields(logrus.Fields{"conn_id": c.ID, "remaining_clients": h.registry.Count()}).Info("Connection closed")
}

// Registry 返回连接注册表 (供 HTTP 健康检查读取在线数)
func (h *Hub) Registry() *Registry {
	return h.registry
}

// --- 重连令牌 ---

// storeToken 记录 userID 的新令牌，旧令牌立即失效。
func (h *Hub) storeToken(userID uint, token string) {
	h.tokenMu.Lock()
	defer h.tokenMu.Unlock()
	if old, ok := h.userToToken[userID]; ok {
		delete(h.tokenToUser, old)
	}
	h.userToToken[userID] = token
	h.tokenToUser[token] = userID
}

// lookupToken 返回令牌对应的 userID
func (h *Hub) lookupToken(token string) (uint, bool) {
	h.tokenMu.Lock()
	defer h.tokenMu.Unlock()
	userID, ok := h.tokenToUser[token]
	return userID, ok
}

// dropTokenForUser 删除用户的存活令牌 (登出或账号失效时)
func (h *Hub) dropTokenForUser(userID uint) {
	h.tokenMu.Lock()
	defer h.tokenMu.Unlock()
	if token, ok := h.userToToken[userID]; ok {
		delete(h.tokenToUser, token)
		delete(h.userToToken, userID)
	}
}

// --- 发送辅助 ---

// sendFrame 编码并尽力发送一帧给单个客户端
func (h *Hub) sendFrame(c *Client, v interface{}) {
	c.TrySend(encodeFrame(v))
}

// sendError 发送通用错误帧
func (h *Hub) sendError(c *Client, message string) {
	h.sendFrame(c, errorFrame{Type: "error", Message: message})
}

// sendScopedError 发送带类型的错误帧，例如 registerFailed/loginFailed
func (h *Hub) sendScopedError(c *Client, errorType, message string) {
	h.sendFrame(c, errorFrame{Type: errorType, Message: message})
}
