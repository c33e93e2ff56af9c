package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/chandud1124/whiteboard/internal/domain"
	"github.com/chandud1124/whiteboard/internal/repository/mocks"
	"github.com/chandud1124/whiteboard/internal/service"
)

// testHub 捆绑 Hub 和它依赖的全部 Mock
type testHub struct {
	hub    *Hub
	users  *mocks.UserRepository
	boards *mocks.BoardRepository
	events *mocks.EventRepository
	guests *mocks.GuestSessionRepository
}

func newTestHub(t *testing.T) *testHub {
	t.Helper()
	users := new(mocks.UserRepository)
	auth, err := service.NewAuthService(users, "test-secret", 1)
	require.NoError(t, err)
	boards := new(mocks.BoardRepository)
	events := new(mocks.EventRepository)
	guests := new(mocks.GuestSessionRepository)
	return &testHub{
		hub:    NewHub(auth, boards, events, guests, nil),
		users:  users,
		boards: boards,
		events: events,
		guests: guests,
	}
}

// connect 注册一个新连接并丢弃欢迎帧
func (th *testHub) connect(t *testing.T) *Client {
	t.Helper()
	c := th.hub.NewConnection(&fakeConn{})
	frames := recvFrames(t, c)
	require.Len(t, frames, 1)
	require.Equal(t, "welcome", frames[0]["type"])
	return c
}

// recvFrames 读出客户端 send 通道中当前积压的全部帧
func recvFrames(t *testing.T, c *Client) []map[string]interface{} {
	t.Helper()
	var frames []map[string]interface{}
	for {
		select {
		case raw := <-c.send:
			var frame map[string]interface{}
			require.NoError(t, json.Unmarshal(raw, &frame))
			frames = append(frames, frame)
		default:
			return frames
		}
	}
}

func frameTypes(frames []map[string]interface{}) []string {
	types := make([]string, 0, len(frames))
	for _, f := range frames {
		types = append(types, f["type"].(string))
	}
	return types
}

// --- 欢迎帧与注册表 ---

func TestWelcomeFrameReportsRegistrySize(t *testing.T) {
	th := newTestHub(t)

	a := th.hub.NewConnection(&fakeConn{})
	frames := recvFrames(t, a)
	require.Len(t, frames, 1)
	assert.Equal(t, "welcome", frames[0]["type"])
	assert.Equal(t, a.ID, frames[0]["sessionId"])
	assert.Equal(t, float64(1), frames[0]["connectedClients"])

	b := th.hub.NewConnection(&fakeConn{})
	frames = recvFrames(t, b)
	assert.Equal(t, float64(2), frames[0]["connectedClients"])
}

// --- 房间审批全流程 ---

func TestRoomApprovalFlow(t *testing.T) {
	th := newTestHub(t)
	th.events.On("FindByRoom", mock.Anything, mock.AnythingOfType("string")).
		Return([]domain.DrawingEvent{}, nil)

	a := th.connect(t)
	b := th.connect(t)

	// A 创建房间
	th.hub.route(a, []byte(`{"type":"createRoom"}`))
	aFrames := recvFrames(t, a)
	require.Equal(t, []string{"roomCreated", "userCount"}, frameTypes(aFrames))
	roomCode := aFrames[0]["roomCode"].(string)
	assert.Regexp(t, roomCodePattern, roomCode)
	assert.Equal(t, true, aFrames[0]["isOwner"])

	// B 请求加入
	joinFrame := fmt.Sprintf(`{"type":"joinRoom","roomCode":%q,"username":"bob"}`, roomCode)
	th.hub.route(b, []byte(joinFrame))

	bFrames := recvFrames(t, b)
	require.Equal(t, []string{"waitingApproval"}, frameTypes(bFrames))
	assert.Equal(t, roomCode, bFrames[0]["roomCode"])

	aFrames = recvFrames(t, a)
	require.Equal(t, []string{"joinRequest"}, frameTypes(aFrames))
	assert.Equal(t, b.ID, aFrames[0]["sessionId"])
	assert.Equal(t, "bob", aFrames[0]["username"])
	assert.Equal(t, float64(1), aFrames[0]["pendingCount"])

	// A 批准 B
	approveFrame := fmt.Sprintf(`{"type":"approveUser","sessionId":%q}`, b.ID)
	th.hub.route(a, []byte(approveFrame))

	// B: 批准响应严格先于历史回放标记
	bFrames = recvFrames(t, b)
	require.Equal(t, []string{"approved", "historyStart", "historyEnd", "userJoined"}, frameTypes(bFrames))
	assert.Equal(t, roomCode, bFrames[0]["roomCode"])
	assert.Equal(t, float64(2), bFrames[0]["userCount"])

	// A: 成员通知和待审批数归零
	aFrames = recvFrames(t, a)
	require.Equal(t, []string{"userJoined", "pendingUpdate"}, frameTypes(aFrames))
	assert.Equal(t, float64(0), aFrames[1]["pendingCount"])

	// 重复批准观察到"请求不存在"
	th.hub.route(a, []byte(approveFrame))
	aFrames = recvFrames(t, a)
	require.Equal(t, []string{"error"}, frameTypes(aFrames))
	assert.Equal(t, "User request not found or already processed", aFrames[0]["message"])
}

func TestRejectUser(t *testing.T) {
	th := newTestHub(t)
	a := th.connect(t)
	b := th.connect(t)

	th.hub.route(a, []byte(`{"type":"createRoom"}`))
	roomCode := recvFrames(t, a)[0]["roomCode"].(string)
	th.hub.route(b, []byte(fmt.Sprintf(`{"type":"joinRoom","roomCode":%q}`, roomCode)))
	recvFrames(t, a)
	recvFrames(t, b)

	th.hub.route(a, []byte(fmt.Sprintf(`{"type":"rejectUser","sessionId":%q}`, b.ID)))

	bFrames := recvFrames(t, b)
	require.Equal(t, []string{"rejected"}, frameTypes(bFrames))
	assert.Empty(t, b.RoomCode(), "被拒绝后房间归属应被清除")

	aFrames := recvFrames(t, a)
	require.Equal(t, []string{"pendingUpdate"}, frameTypes(aFrames))
	assert.Equal(t, float64(0), aFrames[0]["pendingCount"])
}

func TestCreateRoomBoardLoadFailureFallsBackToSessionTitle(t *testing.T) {
	th := newTestHub(t)
	th.boards.On("FindByID", mock.Anything, uint(7)).
		Return(nil, fmt.Errorf("db down")).Once()

	a := th.connect(t)
	a.setBoard(7, "Design Draft")

	th.hub.route(a, []byte(`{"type":"createRoom"}`))

	frames := recvFrames(t, a)
	require.Equal(t, []string{"roomCreated", "userCount"}, frameTypes(frames))
	assert.Equal(t, float64(7), frames[0]["boardId"])
	assert.Equal(t, "Design Draft", frames[0]["boardTitle"], "存储读取失败时标题回退到会话记录的值")

	// 镜像标题同样回退，画布留空等待批准时重读
	room := th.hub.rooms.Find(frames[0]["roomCode"].(string))
	require.NotNil(t, room)
	id, title, canvas := room.BoardMirror()
	assert.Equal(t, uint(7), id)
	assert.Equal(t, "Design Draft", title)
	assert.Empty(t, canvas)

	th.boards.AssertExpectations(t)
}

func TestOwnerLeaveClosesRoom(t *testing.T) {
	th := newTestHub(t)
	th.events.On("FindByRoom", mock.Anything, mock.AnythingOfType("string")).
		Return([]domain.DrawingEvent{}, nil)

	owner := th.connect(t)
	member := th.connect(t)
	waiter := th.connect(t)

	th.hub.route(owner, []byte(`{"type":"createRoom"}`))
	roomCode := recvFrames(t, owner)[0]["roomCode"].(string)

	th.hub.route(member, []byte(fmt.Sprintf(`{"type":"joinRoom","roomCode":%q}`, roomCode)))
	th.hub.route(owner, []byte(fmt.Sprintf(`{"type":"approveUser","sessionId":%q}`, member.ID)))
	th.hub.route(waiter, []byte(fmt.Sprintf(`{"type":"joinRoom","roomCode":%q}`, roomCode)))
	recvFrames(t, owner)
	recvFrames(t, member)
	recvFrames(t, waiter)

	// 房主离开，房间关闭
	th.hub.route(owner, []byte(`{"type":"leaveRoom"}`))

	ownerFrames := recvFrames(t, owner)
	require.Equal(t, []string{"leftRoom"}, frameTypes(ownerFrames))

	memberFrames := recvFrames(t, member)
	require.Equal(t, []string{"roomClosed"}, frameTypes(memberFrames), "已批准成员恰好收到一次关闭通知")
	assert.Empty(t, member.RoomCode())

	waiterFrames := recvFrames(t, waiter)
	require.Equal(t, []string{"roomClosed"}, frameTypes(waiterFrames), "待审批成员恰好收到一次关闭通知")
	assert.Empty(t, waiter.RoomCode())

	// 旧邀请码随即失效
	late := th.connect(t)
	th.hub.route(late, []byte(fmt.Sprintf(`{"type":"joinRoom","roomCode":%q}`, roomCode)))
	lateFrames := recvFrames(t, late)
	require.Equal(t, []string{"error"}, frameTypes(lateFrames))
	assert.Equal(t, "Room not found. Please check the code and try again.", lateFrames[0]["message"])
}

func TestNonOwnerLeaveUpdatesCount(t *testing.T) {
	th := newTestHub(t)
	th.events.On("FindByRoom", mock.Anything, mock.AnythingOfType("string")).
		Return([]domain.DrawingEvent{}, nil)

	owner := th.connect(t)
	member := th.connect(t)

	th.hub.route(owner, []byte(`{"type":"createRoom"}`))
	roomCode := recvFrames(t, owner)[0]["roomCode"].(string)
	th.hub.route(member, []byte(fmt.Sprintf(`{"type":"joinRoom","roomCode":%q}`, roomCode)))
	th.hub.route(owner, []byte(fmt.Sprintf(`{"type":"approveUser","sessionId":%q}`, member.ID)))
	recvFrames(t, owner)
	recvFrames(t, member)

	th.hub.route(member, []byte(`{"type":"leaveRoom"}`))

	memberFrames := recvFrames(t, member)
	require.Equal(t, []string{"leftRoom"}, frameTypes(memberFrames))

	ownerFrames := recvFrames(t, owner)
	require.Equal(t, []string{"userLeft"}, frameTypes(ownerFrames))
	assert.Equal(t, member.ID, ownerFrames[0]["sessionId"])
	assert.Equal(t, float64(1), ownerFrames[0]["userCount"])

	// 房间仍然存活
	assert.NotNil(t, th.hub.rooms.Find(roomCode))
}

// --- 广播作用域 ---

func TestBroadcastToRoomExcludingSender(t *testing.T) {
	th := newTestHub(t)
	a := th.connect(t)
	b := th.connect(t)
	c := th.connect(t)

	room := th.hub.rooms.Create(a)
	room.AddPending(b, "b")
	room.AddPending(c, "c")
	room.Approve(b.ID)
	room.Approve(c.ID)

	th.hub.broadcastToRoom(room, []byte(`{"type":"chat"}`), a)

	assert.Empty(t, recvFrames(t, a), "被排除的发送者不应收到")
	assert.Len(t, recvFrames(t, b), 1)
	assert.Len(t, recvFrames(t, c), 1)
}

func TestBoardScopedDrawIsolation(t *testing.T) {
	th := newTestHub(t)
	th.events.On("Save", mock.Anything, mock.AnythingOfType("*domain.DrawingEvent")).Return(nil)

	a := th.connect(t)
	b := th.connect(t)
	c := th.connect(t)
	a.setBoard(7, "Sprint")
	b.setBoard(7, "Sprint")
	c.setBoard(8, "Other")

	th.hub.route(a, []byte(`{"type":"draw","x1":1,"y1":2,"x2":3,"y2":4,"color":"#ff0000","tool":"pen","strokeWidth":3,"lineStyle":"solid"}`))

	bFrames := recvFrames(t, b)
	require.Len(t, bFrames, 1, "同画板的连接应收到事件")
	assert.Equal(t, "draw", bFrames[0]["type"])
	assert.Equal(t, float64(7), bFrames[0]["boardId"])
	assert.Equal(t, a.ID, bFrames[0]["sessionId"])

	assert.Empty(t, recvFrames(t, c), "其他画板的连接不应收到")
	assert.Empty(t, recvFrames(t, a), "画板作用域不回显给发送者")

	th.events.AssertCalled(t, "Save", mock.Anything, mock.AnythingOfType("*domain.DrawingEvent"))
}

func TestRoomScopedDrawEchoesSender(t *testing.T) {
	th := newTestHub(t)
	th.events.On("Save", mock.Anything, mock.AnythingOfType("*domain.DrawingEvent")).Return(nil)
	th.events.On("FindByRoom", mock.Anything, mock.AnythingOfType("string")).
		Return([]domain.DrawingEvent{}, nil)

	owner := th.connect(t)
	member := th.connect(t)
	outsider := th.connect(t)

	th.hub.route(owner, []byte(`{"type":"createRoom"}`))
	roomCode := recvFrames(t, owner)[0]["roomCode"].(string)
	th.hub.route(member, []byte(fmt.Sprintf(`{"type":"joinRoom","roomCode":%q}`, roomCode)))
	th.hub.route(owner, []byte(fmt.Sprintf(`{"type":"approveUser","sessionId":%q}`, member.ID)))
	recvFrames(t, owner)
	recvFrames(t, member)

	th.hub.route(owner, []byte(`{"type":"draw","x1":0,"y1":0,"x2":5,"y2":5}`))

	ownerFrames := recvFrames(t, owner)
	require.Len(t, ownerFrames, 1, "房间作用域回显给发送者")
	assert.Equal(t, "draw", ownerFrames[0]["type"])
	assert.Equal(t, roomCode, ownerFrames[0]["roomCode"])

	assert.Len(t, recvFrames(t, member), 1)
	assert.Empty(t, recvFrames(t, outsider), "房间外的连接不应收到")
}

func TestPendingMemberDrawIgnored(t *testing.T) {
	th := newTestHub(t)

	owner := th.connect(t)
	waiter := th.connect(t)

	th.hub.route(owner, []byte(`{"type":"createRoom"}`))
	roomCode := recvFrames(t, owner)[0]["roomCode"].(string)
	th.hub.route(waiter, []byte(fmt.Sprintf(`{"type":"joinRoom","roomCode":%q}`, roomCode)))
	recvFrames(t, owner)
	recvFrames(t, waiter)

	// 未批准成员的绘图事件被忽略，不落库不广播
	th.hub.route(waiter, []byte(`{"type":"draw","x1":1,"y1":1,"x2":2,"y2":2}`))

	assert.Empty(t, recvFrames(t, owner))
	assert.Empty(t, recvFrames(t, waiter))
	th.events.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// --- 历史回放 ---

func TestHistoryReplayEmptySendsMarkers(t *testing.T) {
	th := newTestHub(t)
	th.events.On("FindAll", mock.Anything).Return([]domain.DrawingEvent{}, nil)

	c := th.connect(t)
	th.hub.sendCanvasHistory(context.Background(), c)

	frames := recvFrames(t, c)
	assert.Equal(t, []string{"historyStart", "historyEnd"}, frameTypes(frames), "空历史也要发出起止标记")
}

func TestHistoryReplayPreservesOrder(t *testing.T) {
	th := newTestHub(t)
	stored := []domain.DrawingEvent{
		{ID: 1, X1: 1, Tool: "pen"},
		{ID: 2, X1: 2, Tool: "pen"},
		{ID: 3, X1: 3, Tool: "pen"},
	}
	th.events.On("FindByBoard", mock.Anything, uint(7)).Return(stored, nil)

	c := th.connect(t)
	c.setBoard(7, "Sprint")
	th.hub.sendCanvasHistory(context.Background(), c)

	frames := recvFrames(t, c)
	require.Equal(t, []string{"historyStart", "draw", "draw", "draw", "historyEnd"}, frameTypes(frames))
	assert.Equal(t, float64(1), frames[1]["x1"])
	assert.Equal(t, float64(2), frames[2]["x1"])
	assert.Equal(t, float64(3), frames[3]["x1"])
}

func TestHistoryReplayStorageFailureDegradesToEmpty(t *testing.T) {
	th := newTestHub(t)
	th.events.On("FindByBoard", mock.Anything, uint(7)).
		Return(nil, fmt.Errorf("db down"))

	c := th.connect(t)
	c.setBoard(7, "Sprint")
	th.hub.sendCanvasHistory(context.Background(), c)

	frames := recvFrames(t, c)
	assert.Equal(t, []string{"historyStart", "historyEnd"}, frameTypes(frames))
}

// --- 路由器 ---

func TestRouterIgnoresUnknownType(t *testing.T) {
	th := newTestHub(t)
	c := th.connect(t)

	th.hub.route(c, []byte(`{"type":"teleport"}`))
	assert.Empty(t, recvFrames(t, c), "未知类型静默忽略")
}

func TestRouterIgnoresMalformedFrame(t *testing.T) {
	th := newTestHub(t)
	c := th.connect(t)

	th.hub.route(c, []byte(`{"type":`))
	th.hub.route(c, []byte(`{"noType":true}`))
	assert.Empty(t, recvFrames(t, c))
}

func TestPingPong(t *testing.T) {
	th := newTestHub(t)
	c := th.connect(t)

	th.hub.route(c, []byte(`{"type":"ping"}`))
	frames := recvFrames(t, c)
	assert.Equal(t, []string{"pong"}, frameTypes(frames))
}

// --- 认证与重连令牌 ---

func TestLoginRestoreAndLogoutTokenLifecycle(t *testing.T) {
	th := newTestHub(t)
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &domain.User{ID: 9, Username: "alice", DisplayName: "Alice", PasswordHash: string(hash)}
	th.users.On("FindByUsername", mock.Anything, "alice").Return(user, nil)
	th.users.On("UpdateLastLogin", mock.Anything, uint(9)).Return(nil)
	th.users.On("FindByID", mock.Anything, uint(9)).Return(user, nil)

	a := th.connect(t)
	th.hub.route(a, []byte(`{"type":"login","username":"alice","password":"password123"}`))

	aFrames := recvFrames(t, a)
	require.Equal(t, []string{"loginSuccess"}, frameTypes(aFrames))
	assert.Equal(t, float64(9), aFrames[0]["userId"])
	token := aFrames[0]["token"].(string)
	require.NotEmpty(t, token)
	assert.Equal(t, uint(9), a.UserID())

	// 新连接用令牌静默恢复
	b := th.connect(t)
	th.hub.route(b, []byte(fmt.Sprintf(`{"type":"restoreSession","token":%q}`, token)))
	bFrames := recvFrames(t, b)
	require.Equal(t, []string{"sessionRestored"}, frameTypes(bFrames))
	assert.Equal(t, uint(9), b.UserID())

	// 登出作废令牌
	th.hub.route(a, []byte(`{"type":"logout"}`))
	aFrames = recvFrames(t, a)
	require.Equal(t, []string{"logoutSuccess"}, frameTypes(aFrames))
	assert.Zero(t, a.UserID())

	c := th.connect(t)
	th.hub.route(c, []byte(fmt.Sprintf(`{"type":"restoreSession","token":%q}`, token)))
	cFrames := recvFrames(t, c)
	require.Equal(t, []string{"sessionRestoreFailed"}, frameTypes(cFrames))
	assert.Equal(t, "Session expired. Please log in again.", cFrames[0]["message"])
}

func TestLoginReplacesPriorToken(t *testing.T) {
	th := newTestHub(t)
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &domain.User{ID: 9, Username: "alice", PasswordHash: string(hash)}
	th.users.On("FindByUsername", mock.Anything, "alice").Return(user, nil)
	th.users.On("UpdateLastLogin", mock.Anything, uint(9)).Return(nil)

	a := th.connect(t)
	th.hub.route(a, []byte(`{"type":"login","username":"alice","password":"password123"}`))
	firstToken := recvFrames(t, a)[0]["token"].(string)

	th.hub.route(a, []byte(`{"type":"login","username":"alice","password":"password123"}`))
	secondToken := recvFrames(t, a)[0]["token"].(string)

	// 旧令牌失效，新令牌生效
	_, ok := th.hub.lookupToken(firstToken)
	assert.False(t, ok, "重新登录后旧令牌应失效")
	userID, ok := th.hub.lookupToken(secondToken)
	assert.True(t, ok)
	assert.Equal(t, uint(9), userID)
}

func TestGuestMode(t *testing.T) {
	th := newTestHub(t)
	th.guests.On("Save", mock.Anything, mock.MatchedBy(func(s *domain.GuestSession) bool {
		return s.SessionID != "" && s.IsActive && !s.ExpiresAt.IsZero()
	})).Return(nil).Once()

	c := th.connect(t)
	th.hub.route(c, []byte(`{"type":"guestMode"}`))

	frames := recvFrames(t, c)
	require.Equal(t, []string{"guestModeActivated"}, frameTypes(frames))
	assert.Equal(t, c.ID, frames[0]["sessionId"])
	assert.True(t, c.IsGuest())

	th.guests.AssertExpectations(t)
}

func TestGuestModePersistenceFailureIsSoft(t *testing.T) {
	th := newTestHub(t)
	th.guests.On("Save", mock.Anything, mock.AnythingOfType("*domain.GuestSession")).
		Return(fmt.Errorf("db down")).Once()

	c := th.connect(t)
	th.hub.route(c, []byte(`{"type":"guestMode"}`))

	// 落库失败不影响访客模式激活
	frames := recvFrames(t, c)
	assert.Equal(t, []string{"guestModeActivated"}, frameTypes(frames))
}

// --- 断线清理 ---

func TestUnregisterOwnerClosesRoom(t *testing.T) {
	th := newTestHub(t)
	th.events.On("FindByRoom", mock.Anything, mock.AnythingOfType("string")).
		Return([]domain.DrawingEvent{}, nil)

	owner := th.connect(t)
	member := th.connect(t)

	th.hub.route(owner, []byte(`{"type":"createRoom"}`))
	roomCode := recvFrames(t, owner)[0]["roomCode"].(string)
	th.hub.route(member, []byte(fmt.Sprintf(`{"type":"joinRoom","roomCode":%q}`, roomCode)))
	th.hub.route(owner, []byte(fmt.Sprintf(`{"type":"approveUser","sessionId":%q}`, member.ID)))
	recvFrames(t, owner)
	recvFrames(t, member)

	// 房主断线等同于离开
	th.hub.Unregister(owner)

	memberFrames := recvFrames(t, member)
	assert.Equal(t, []string{"roomClosed"}, frameTypes(memberFrames))
	assert.Nil(t, th.hub.rooms.Find(roomCode))

	// 注销后写入软失败
	assert.False(t, owner.TrySend([]byte(`{"type":"pong"}`)))
}

// --- 画布清空 ---

func TestClearBoardScope(t *testing.T) {
	th := newTestHub(t)
	th.events.On("ClearByBoard", mock.Anything, uint(7)).Return(nil).Once()

	a := th.connect(t)
	b := th.connect(t)
	a.setBoard(7, "Sprint")
	b.setBoard(7, "Sprint")

	th.hub.route(a, []byte(`{"type":"clear"}`))

	bFrames := recvFrames(t, b)
	require.Equal(t, []string{"clear"}, frameTypes(bFrames))
	assert.Equal(t, float64(7), bFrames[0]["boardId"])

	th.events.AssertExpectations(t)
}

func TestClearWithoutScopeConfirmsToSenderOnly(t *testing.T) {
	th := newTestHub(t)
	th.events.On("ClearAll", mock.Anything).Return(nil).Once()

	a := th.connect(t)
	other := th.connect(t)

	th.hub.route(a, []byte(`{"type":"clear"}`))

	assert.Equal(t, []string{"clear"}, frameTypes(recvFrames(t, a)))
	assert.Empty(t, recvFrames(t, other), "无作用域的清空只回发确认给发起者")

	th.events.AssertExpectations(t)
}

// --- 注册失败映射 ---

func TestRegisterFailedValidationMessage(t *testing.T) {
	th := newTestHub(t)
	c := th.connect(t)

	th.hub.route(c, []byte(`{"type":"register","username":"ab","email":"a@b.co","password":"secret1"}`))

	frames := recvFrames(t, c)
	require.Equal(t, []string{"registerFailed"}, frameTypes(frames))
	assert.Equal(t, "Username must be 3-50 characters (alphanumeric and underscore only)", frames[0]["message"])

	th.users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestRegisterSuccessFrame(t *testing.T) {
	th := newTestHub(t)
	th.users.On("UsernameExists", mock.Anything, "carol").Return(false, nil).Once()
	th.users.On("EmailExists", mock.Anything, "carol@example.com").Return(false, nil).Once()
	th.users.On("Save", mock.Anything, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.User).ID = 3
		}).
		Return(nil).Once()

	c := th.connect(t)
	th.hub.route(c, []byte(`{"type":"register","username":"carol","email":"carol@example.com","password":"secret1"}`))

	frames := recvFrames(t, c)
	require.Equal(t, []string{"registerSuccess"}, frameTypes(frames))
	assert.Equal(t, float64(3), frames[0]["userId"])
	assert.Equal(t, "Registration successful. Please log in.", frames[0]["message"])
}
