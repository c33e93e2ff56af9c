package hub

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
)

// handleCreateRoom 创建房间。创建者即房主，从创建起就是已批准成员。
// 创建者已打开画板时，用画板内容初始化房间镜像。
func (h *Hub) handleCreateRoom(c *Client) {
	if c.RoomCode() != "" {
		h.sendError(c, "You are already in a room")
		return
	}

	room := h.rooms.Create(c)
	c.setRoom(room.Code)

	boardID := c.BoardID()
	var boardTitle string
	if boardID != 0 {
		board, err := h.boards.FindByID(context.Background(), boardID)
		if err != nil {
			logrus.WithField("board_id", boardID).WithError(err).Warn("Failed to load board for room mirror")
			// 标题回退到会话记录的值；镜像画布留空，批准时会重读存储
			boardTitle = c.BoardTitle()
			room.SetBoardMirror(boardID, boardTitle, "")
		} else {
			boardTitle = board.Title
			room.SetBoardMirror(boardID, board.Title, board.CanvasData)
		}
	}

	h.sendFrame(c, roomCreatedFrame{
		Type:       "roomCreated",
		RoomCode:   room.Code,
		RoomID:     room.ID,
		IsOwner:    true,
		BoardID:    optBoardID(boardID),
		BoardTitle: optStr(boardTitle),
	})
	h.broadcastRoomUserCount(room)

	logrus.WithFields(logrus.Fields{"room_code": room.Code, "conn_id": c.ID}).Info("Room created")
}

// handleJoinRoom 发起加入请求：进入 Pending 集合等待房主审批。
func (h *Hub) handleJoinRoom(c *Client, msg *Message) {
	if msg.RoomCode == "" {
		h.sendError(c, "Room code is required")
		return
	}
	if c.RoomCode() != "" {
		h.sendError(c, "You are already in a room")
		return
	}

	username := msg.Username
	if username == "" {
		username = c.Username()
	}

	roomCode := strings.ToUpper(msg.RoomCode)
	room := h.rooms.Find(roomCode)
	if room == nil {
		h.sendError(c, "Room not found. Please check the code and try again.")
		return
	}

	room.AddPending(c, username)
	c.setRoom(roomCode)
	if username != "" {
		c.setUsername(username)
	}

	h.sendFrame(c, waitingApprovalFrame{Type: "waitingApproval", RoomCode: roomCode})

	if owner := h.registry.FindByID(room.OwnerID()); owner != nil {
		if username == "" {
			username = "Anonymous"
		}
		h.sendFrame(owner, joinRequestFrame{
			Type:         "joinRequest",
			SessionID:    c.ID,
			Username:     username,
			PendingCount: room.PendingCount(),
		})
	}

	logrus.WithFields(logrus.Fields{"room_code": roomCode, "conn_id": c.ID, "username": username}).Info("Join request received")
}

// handleApproveUser 房主批准一个待审批请求。
// Pending 成员资格在移除时重新校验：并发的两次 approve 只有
// 第一次成功，第二次观察到"请求不存在"。
func (h *Hub) handleApproveUser(owner *Client, msg *Message) {
	roomCode := owner.RoomCode()
	if roomCode == "" {
		h.sendError(owner, "You are not in a room")
		return
	}
	room := h.rooms.Find(roomCode)
	if room == nil || !room.IsOwner(owner.ID) {
		h.sendError(owner, "Only room owner can approve users")
		return
	}

	target, ok := room.Approve(msg.SessionID)
	if !ok {
		h.sendError(owner, "User request not found or already processed")
		return
	}

	// 新成员继承房间镜像的画板绑定；镜像画布为空时回退读一次存储
	boardID, boardTitle, boardCanvas := room.BoardMirror()
	if boardID != 0 {
		if boardCanvas == "" {
			board, err := h.boards.FindByID(context.Background(), boardID)
			if err != nil {
				logrus.WithField("board_id", boardID).WithError(err).Warn("Failed to refresh board mirror for approval")
			} else {
				if boardTitle == "" {
					boardTitle = board.Title
				}
				boardCanvas = board.CanvasData
				if boardCanvas != "" {
					room.SetBoardCanvas(boardCanvas)
				}
			}
		}
		target.setBoard(boardID, boardTitle)
	}

	// 批准响应必须先于历史回放的 start 标记到达
	h.sendFrame(target, approvedFrame{
		Type:       "approved",
		RoomCode:   roomCode,
		UserCount:  room.ApprovedCount(),
		BoardID:    optBoardID(boardID),
		BoardTitle: optStr(boardTitle),
		CanvasData: optStr(boardCanvas),
	})
	h.sendCanvasHistory(context.Background(), target)

	h.broadcastToRoom(room, encodeFrame(userJoinedFrame{
		Type:      "userJoined",
		SessionID: target.ID,
		UserCount: room.ApprovedCount(),
	}), nil)

	h.sendFrame(owner, pendingUpdateFrame{Type: "pendingUpdate", PendingCount: room.PendingCount()})

	logrus.WithFields(logrus.Fields{"room_code": roomCode, "conn_id": target.ID}).Info("User approved")
}

// handleRejectUser 房主拒绝一个待审批请求。
// 与原始客户端约定一致，非法调用静默忽略，不回错误帧。
func (h *Hub) handleRejectUser(owner *Client, msg *Message) {
	roomCode := owner.RoomCode()
	if roomCode == "" {
		return
	}
	room := h.rooms.Find(roomCode)
	if room == nil || !room.IsOwner(owner.ID) {
		return
	}

	target, ok := room.Reject(msg.SessionID)
	if !ok {
		return
	}
	target.setRoom("")

	h.sendFrame(target, simpleFrame{Type: "rejected"})
	h.sendFrame(owner, pendingUpdateFrame{Type: "pendingUpdate", PendingCount: room.PendingCount()})

	logrus.WithFields(logrus.Fields{"room_code": roomCode, "conn_id": target.ID}).Info("User rejected")
}

// handleLeaveRoom 主动离开房间，离开者收到 leftRoom 确认。
func (h *Hub) handleLeaveRoom(c *Client) {
	h.departRoom(c)
	h.sendFrame(c, simpleFrame{Type: "leftRoom"})
}

// departRoom 执行离开房间的共享逻辑，断线清理和 leaveRoom 都走这里。
// 房主离开则关闭整个房间，普通成员离开只更新人数。
func (h *Hub) departRoom(c *Client) {
	roomCode := c.RoomCode()
	if roomCode == "" {
		return
	}
	c.setRoom("")

	room := h.rooms.Find(roomCode)
	if room == nil {
		return
	}

	if room.IsOwner(c.ID) {
		h.closeRoom(room)
		return
	}

	room.Remove(c.ID)
	h.broadcastToRoom(room, encodeFrame(userLeftFrame{
		Type:      "userLeft",
		SessionID: c.ID,
		UserCount: room.ApprovedCount(),
	}), nil)
}

// closeRoom 关闭房间：所有已批准和待审批成员各收到一次 roomClosed，
// 房间归属被清除，邀请码立即可复用。
func (h *Hub) closeRoom(room *Room) {
	h.rooms.Delete(room.Code)

	notice := encodeFrame(roomClosedFrame{Type: "roomClosed", Reason: "Owner left the room"})
	ownerID := room.OwnerID()
	for _, member := range room.ApprovedClients() {
		if member.ID == ownerID {
			continue
		}
		member.setRoom("")
		member.TrySend(notice)
	}
	for _, waiter := range room.PendingClients() {
		waiter.setRoom("")
		waiter.TrySend(notice)
	}
	room.ClearBoardMirror()

	logrus.WithField("room_code", room.Code).Info("Room closed")
}
