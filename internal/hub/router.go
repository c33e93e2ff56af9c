package hub

import (
	"github.com/sirupsen/logrus"
)

// route 解码一帧入站消息并按 type 分发给对应处理器。
// 无法识别的 type 只记录日志，不回错误帧也不断开连接。
// 单个连接的处理失败不允许波及进程，因此兜底 recover。
func (h *Hub) route(c *Client, raw []byte) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithFields(logrus.Fields{"conn_id": c.ID, "panic": r}).Error("Recovered from panic while handling message")
		}
	}()

	msg, err := DecodeMessage(raw)
	if err != nil {
		logrus.WithField("conn_id", c.ID).WithError(err).Warn("Ignoring malformed message frame")
		return
	}

	logrus.WithFields(logrus.Fields{"conn_id": c.ID, "type": msg.Type}).Debugf("Routing message (size: %d)", len(raw))

	switch msg.Type {
	// 认证与访客
	case "guestMode":
		h.handleGuestMode(c)
	case "register":
		h.handleRegister(c, msg)
	case "login":
		h.handleLogin(c, msg)
	case "restoreSession":
		h.handleRestoreSession(c, msg)
	case "logout":
		h.handleLogout(c)
	// 画板管理
	case "createBoard":
		h.handleCreateBoard(c, msg)
	case "getBoards":
		h.handleGetBoards(c)
	case "openBoard":
		h.handleOpenBoard(c, msg)
	case "saveBoard":
		h.handleSaveBoard(c, msg)
	case "updateBoardTitle":
		h.handleUpdateBoardTitle(c, msg)
	case "deleteBoard":
		h.handleDeleteBoard(c, msg)
	case "duplicateBoard":
		h.handleDuplicateBoard(c, msg)
	// 房间管理
	case "createRoom":
		h.handleCreateRoom(c)
	case "joinRoom":
		h.handleJoinRoom(c, msg)
	case "approveUser":
		h.handleApproveUser(c, msg)
	case "rejectUser":
		h.handleRejectUser(c, msg)
	case "leaveRoom":
		h.handleLeaveRoom(c)
	// 实时绘图
	case "draw":
		h.handleDraw(c, raw)
	case "shape":
		h.handleShape(c, raw)
	case "chat":
		h.handleChat(c, raw)
	case "clear":
		h.handleClear(c, msg)
	case "ping":
		h.handlePing(c)
	default:
		logrus.WithFields(logrus.Fields{"conn_id": c.ID, "type": msg.Type}).Warn("Unknown message type, ignoring")
	}
}
