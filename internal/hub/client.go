package hub

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	// 写操作超时
	writeWait = 10 * time.Second
	// Pong 等待时间，超过视为连接断开
	pongWait = 60 * time.Second
	// Ping 周期，必须小于 pongWait
	pingPeriod = (pongWait * 9) / 10
	// 最大消息大小 10MB，画布自动保存的 payload 可能很大
	maxMessageSize = 10 * 1024 * 1024
	// 发送通道缓冲区大小
	sendBufferSize = 256
)

// Conn 抽象底层 WebSocket 连接，gorilla 的 *websocket.Conn 直接满足。
// 测试中可以用内存实现替换。
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	Close() error
}

// Client 代表一个连接到 Hub 的 WebSocket 客户端。
// 会话上下文 (用户、房间、画板绑定) 由各处理器修改，连接关闭时销毁。
type Client struct {
	ID   string // 连接会话 ID，注册时生成，生命周期内不变
	hub  *Hub
	conn Conn
	send chan []byte

	// sendMu 保护 send 通道的关闭状态，防止向已关闭通道写入
	sendMu     sync.Mutex
	sendClosed bool

	// mu 保护以下会话上下文字段
	mu         sync.RWMutex
	userID     uint   // 0 表示未登录
	username   string // 登录用户名或加入房间时提供的展示名
	roomCode   string // 当前所在房间邀请码，空表示不在任何房间
	boardID    uint   // 当前打开的画板 ID，0 表示未绑定
	boardTitle string // 当前画板标题，随 boardID 一起维护
	isGuest    bool
}

// NewClient 创建一个新的 Client 实例，会话上下文初始为空。
func NewClient(hub *Hub, conn Conn, id string) *Client {
	return &Client{
		ID:   id,
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
}

// Run 启动客户端的读写 goroutine
func (c *Client) Run() {
	go c.WritePump()
	go c.ReadPump()
}

// --- 会话上下文访问 ---

func (c *Client) UserID() uint {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userID
}

func (c *Client) Username() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.username
}

func (c *Client) RoomCode() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.roomCode
}

func (c *Client) BoardID() uint {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.boardID
}

func (c *Client) BoardTitle() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.boardTitle
}

func (c *Client) IsGuest() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isGuest
}

// bindUser 绑定登录身份
func (c *Client) bindUser(userID uint, username string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userID = userID
	c.username = username
}

// clearIdentity 清除登录身份、画板绑定和访客标记 (登出时调用)
func (c *Client) clearIdentity() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userID = 0
	c.username = ""
	c.boardID = 0
	c.boardTitle = ""
	c.isGuest = false
}

func (c *Client) setUsername(username string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.username = username
}

func (c *Client) setRoom(roomCode string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roomCode = roomCode
}

// setBoard 绑定当前画板及其标题
func (c *Client) setBoard(boardID uint, title string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.boardID = boardID
	c.boardTitle = title
}

func (c *Client) setGuest(isGuest bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.isGuest = isGuest
}

// --- 发送 ---

// TrySend 尝试向客户端发送一帧，非阻塞。
// 通道已满或已关闭时返回 false，调用方只记录日志不中断。
func (c *Client) TrySend(message []byte) bool {
	if message == nil {
		return false
	}
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.sendClosed {
		return false
	}
	select {
	case c.send <- message:
		return true
	default:
		logrus.WithField("conn_id", c.ID).Warn("Client send channel full, dropping frame")
		return false
	}
}

// closeSend 关闭发送通道，幂等。之后的 TrySend 软失败。
func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if !c.sendClosed {
		c.sendClosed = true
		close(c.send)
	}
}

// ReadPump 从 WebSocket 连接读取消息并同步分发给路由器。
// 它在自己的 goroutine 中运行，退出时触发注销清理。
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
		logrus.WithField("conn_id", c.ID).Info("readPump exited, unregistered client")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			logCtx := logrus.WithField("conn_id", c.ID)
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logCtx.WithError(err).Warn("WebSocket read error (unexpected close)")
			} else {
				logCtx.Debug("WebSocket connection closed normally or read error")
			}
			break
		}

		if messageType != websocket.TextMessage {
			logrus.WithField("conn_id", c.ID).Debugf("Received non-text message type: %d", messageType)
			continue
		}

		// 同步分发：单个连接的消息按到达顺序处理，
		// 处理器发出的响应帧顺序因此得到保证。
		c.hub.route(c, message)
	}
}

// WritePump 将 send 通道中的帧写入 WebSocket 连接，并定期发送 Ping。
// 它在自己的 goroutine 中运行。
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		logrus.WithField("conn_id", c.ID).Info("writePump exited")
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// send 通道已被关闭 (注销时)
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logrus.WithField("conn_id", c.ID).WithError(err).Warn("Failed to write message to websocket")
				return
			}
			_ = c.conn.SetWriteDeadline(time.Time{})

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logrus.WithField("conn_id", c.ID).WithError(err).Warn("Failed to send ping message")
				return
			}
			_ = c.conn.SetWriteDeadline(time.Time{})
		}
	}
}
