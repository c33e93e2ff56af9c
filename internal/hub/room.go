package hub

import (
	"crypto/rand"
	"math/big"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// 房间邀请码字母表：去掉易混淆的 0/1/O/I
const roomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const roomCodeLength = 6

// generateRoomCode 生成一个 6 位随机邀请码
func generateRoomCode() string {
	max := big.NewInt(int64(len(roomCodeAlphabet)))
	code := make([]byte, roomCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand 读取失败在实践中不会发生；
			// 兜底使用固定字符保证长度不变
			logrus.WithError(err).Error("Failed to read random bytes for room code")
			code[i] = roomCodeAlphabet[0]
			continue
		}
		code[i] = roomCodeAlphabet[n.Int64()]
	}
	return string(code)
}

// pendingEntry 记录等待审批的连接及其展示名
type pendingEntry struct {
	client   *Client
	username string
}

// Room 是一个邀请码协作会话。
// ownerID 在房间生命周期内不变，所有权不可转移。
// 一个连接在同一房间中最多处于 approved/pending 之一。
type Room struct {
	ID   string // 持久唯一 ID
	Code string // 6 位人类可分享的邀请码

	mu       sync.Mutex
	ownerID  string
	approved map[string]*Client
	pending  map[string]pendingEntry

	// 画板镜像：让新批准的成员无需存储往返即可拿到最新画布
	boardID     uint
	boardTitle  string
	boardCanvas string
}

func newRoom(owner *Client, code string) *Room {
	r := &Room{
		ID:       uuid.NewString(),
		Code:     code,
		ownerID:  owner.ID,
		approved: make(map[string]*Client),
		pending:  make(map[string]pendingEntry),
	}
	// 房主从创建起即为成员，跳过 Pending
	r.approved[owner.ID] = owner
	return r
}

// IsOwner 判断连接是否为房主
func (r *Room) IsOwner(connID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ownerID == connID
}

// OwnerID 返回房主连接 ID
func (r *Room) OwnerID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ownerID
}

// AddPending 将连接加入待审批集合。
// 已是成员的连接不会被降级回 Pending。
func (r *Room) AddPending(c *Client, username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.approved[c.ID]; ok {
		return
	}
	if username == "" {
		username = "Anonymous"
	}
	r.pending[c.ID] = pendingEntry{client: c, username: username}
}

// Approve 将目标从 Pending 原子地移入 Approved。
// 目标不在 Pending 时返回 false：并发的 approve/reject 竞争中
// 只有第一个调用成功，后续调用观察到"请求不存在"。
func (r *Room) Approve(targetID string) (*Client, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.pending[targetID]
	if !ok {
		return nil, false
	}
	delete(r.pending, targetID)
	r.approved[targetID] = entry.client
	return entry.client, true
}

// Reject 将目标从 Pending 原子地移除。语义与 Approve 对称。
func (r *Room) Reject(targetID string) (*Client, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.pending[targetID]
	if !ok {
		return nil, false
	}
	delete(r.pending, targetID)
	return entry.client, true
}

// Remove 将连接从所有集合中移除 (主动离开或断线时调用)
func (r *Room) Remove(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.approved, connID)
	delete(r.pending, connID)
}

// IsApproved 判断连接是否为已批准成员
func (r *Room) IsApproved(connID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.approved[connID]
	return ok
}

// IsPending 判断连接是否在待审批集合中
func (r *Room) IsPending(connID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.pending[connID]
	return ok
}

// ApprovedCount 返回已批准成员数
func (r *Room) ApprovedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.approved)
}

// PendingCount 返回待审批请求数
func (r *Room) PendingCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// ApprovedClients 返回已批准成员的快照切片
func (r *Room) ApprovedClients() []*Client {
	r.mu.Lock()
	defer r.mu.Unlock()
	snapshot := make([]*Client, 0, len(r.approved))
	for _, c := range r.approved {
		snapshot = append(snapshot, c)
	}
	return snapshot
}

// PendingClients 返回待审批连接的快照切片
func (r *Room) PendingClients() []*Client {
	r.mu.Lock()
	defer r.mu.Unlock()
	snapshot := make([]*Client, 0, len(r.pending))
	for _, entry := range r.pending {
		snapshot = append(snapshot, entry.client)
	}
	return snapshot
}

// SetBoardMirror 设置房间的画板镜像
func (r *Room) SetBoardMirror(boardID uint, title, canvas string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.boardID = boardID
	r.boardTitle = title
	r.boardCanvas = canvas
}

// SetBoardCanvas 更新镜像中的画布数据 (房主保存画板时调用)
func (r *Room) SetBoardCanvas(canvas string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.boardCanvas = canvas
}

// SetBoardTitle 更新镜像中的画板标题
func (r *Room) SetBoardTitle(title string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.boardTitle = title
}

// BoardMirror 返回镜像的 (boardID, title, canvas) 快照
func (r *Room) BoardMirror() (uint, string, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.boardID, r.boardTitle, r.boardCanvas
}

// ClearBoardMirror 清空画板镜像 (房间关闭时调用)
func (r *Room) ClearBoardMirror() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.boardID = 0
	r.boardTitle = ""
	r.boardCanvas = ""
}

// RoomManager 管理全部存活房间，按邀请码索引。
// 邀请码只对存活房间查重，房间关闭后邀请码可复用。
type RoomManager struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

// NewRoomManager 创建一个空的房间管理器
func NewRoomManager() *RoomManager {
	return &RoomManager{
		rooms: make(map[string]*Room),
	}
}

// Create 为 owner 创建一个新房间，邀请码冲突时重新生成。
func (m *RoomManager) Create(owner *Client) *Room {
	m.mu.Lock()
	defer m.mu.Unlock()
	var code string
	for {
		code = generateRoomCode()
		if _, exists := m.rooms[code]; !exists {
			break
		}
	}
	room := newRoom(owner, code)
	m.rooms[code] = room
	return room
}

// Find 按邀请码查找存活房间，不存在返回 nil。
func (m *RoomManager) Find(code string) *Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rooms[code]
}

// Delete 将房间移出管理器，幂等。
func (m *RoomManager) Delete(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rooms, code)
}

// Count 返回存活房间数
func (m *RoomManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}
