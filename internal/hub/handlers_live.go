package hub

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/chandud1124/whiteboard/internal/domain"
	"github.com/chandud1124/whiteboard/internal/tasks"
)

// shapeTools 是会被持久化的图形工具集合
var shapeTools = map[string]bool{
	"line":      true,
	"rectangle": true,
	"circle":    true,
	"arrow":     true,
}

// roomForSender 返回发送者所在的房间。
// 第二个返回值为 false 表示发送者在房间内但尚未被批准，事件应忽略。
func (h *Hub) roomForSender(c *Client) (*Room, bool) {
	roomCode := c.RoomCode()
	if roomCode == "" {
		return nil, true
	}
	room := h.rooms.Find(roomCode)
	if room == nil {
		return nil, true
	}
	if !room.IsApproved(c.ID) {
		return nil, false
	}
	return room, true
}

// enrichEvent 用会话上下文补齐事件的服务端字段
func (h *Hub) enrichEvent(event *domain.DrawingEvent, c *Client, roomCode string) {
	event.SessionID = c.ID
	event.RoomCode = roomCode
	if event.BoardID == nil {
		if boardID := c.BoardID(); boardID != 0 {
			event.BoardID = &boardID
		}
	}
	if event.Username == "" {
		event.Username = c.Username()
	}
	event.Timestamp = time.Now()
}

// persistEvent 持久化绘图事件，相对广播是 fire-and-forget：
// 优先入 asynq 队列，入队失败或未配置队列时直接落库，
// 两者都失败只记录日志，广播照常进行。
func (h *Hub) persistEvent(event *domain.DrawingEvent) {
	if h.asynqClient != nil {
		task, err := tasks.NewEventPersistTask(event)
		if err == nil {
			if _, err = h.asynqClient.Enqueue(task); err == nil {
				return
			}
		}
		logrus.WithError(err).Warn("Failed to enqueue drawing event, saving directly")
	}
	if err := h.events.Save(context.Background(), event); err != nil {
		logrus.WithError(err).Error("Failed to save drawing event")
	}
}

// handleDraw 处理自由绘制事件：补齐服务端字段，持久化，
// 再按 房间 > 画板 > 全局 的作用域广播。
func (h *Hub) handleDraw(c *Client, raw []byte) {
	room, approved := h.roomForSender(c)
	if !approved {
		return
	}

	event, err := domain.DecodeWireEvent(raw)
	if err != nil {
		logrus.WithField("conn_id", c.ID).WithError(err).Warn("Ignoring malformed draw event")
		return
	}
	h.enrichEvent(event, c, c.RoomCode())

	h.persistEvent(event)

	frame, err := event.EncodeWire()
	if err != nil {
		logrus.WithField("conn_id", c.ID).WithError(err).Error("Failed to encode draw event for broadcast")
		return
	}
	h.broadcastScoped(c, room, frame)
}

// handleShape 处理图形事件。已知图形工具的事件持久化为标准
// 绘图记录；广播转发原始帧，保留客户端附加的图形字段。
func (h *Hub) handleShape(c *Client, raw []byte) {
	room, approved := h.roomForSender(c)
	if !approved {
		return
	}

	event, err := domain.DecodeWireEvent(raw)
	if err != nil {
		logrus.WithField("conn_id", c.ID).WithError(err).Warn("Ignoring malformed shape event")
		return
	}
	if shapeTools[event.Tool] {
		h.enrichEvent(event, c, c.RoomCode())
		h.persistEvent(event)
	}

	h.broadcastScoped(c, room, raw)
}

// handleChat 转发聊天消息：房间内回显给包括发送者在内的全部成员，
// 不在房间时全局广播。聊天不持久化。
func (h *Hub) handleChat(c *Client, raw []byte) {
	room, approved := h.roomForSender(c)
	if !approved {
		return
	}

	if room != nil {
		h.broadcastToRoom(room, raw, nil)
		return
	}
	h.broadcastAll(raw)
}

// handleClear 清空画布：帧里显式指定的 boardId/roomCode 优先，
// 否则用会话绑定；按相同作用域清除持久化事件后广播 clear 帧。
func (h *Hub) handleClear(c *Client, msg *Message) {
	roomCode := msg.RoomCode
	if roomCode == "" {
		roomCode = c.RoomCode()
	}
	var boardID uint
	if msg.BoardID != nil {
		boardID = *msg.BoardID
	} else {
		boardID = c.BoardID()
	}

	logrus.WithFields(logrus.Fields{"conn_id": c.ID, "board_id": boardID, "room_code": roomCode}).Info("Canvas clear requested")

	ctx := context.Background()
	var err error
	switch {
	case boardID != 0:
		err = h.events.ClearByBoard(ctx, boardID)
	case roomCode != "":
		err = h.events.ClearByRoom(ctx, roomCode)
	default:
		err = h.events.ClearAll(ctx)
	}
	if err != nil {
		logrus.WithError(err).Warn("Failed to clear persisted events, broadcasting clear anyway")
	}

	frame := encodeFrame(clearFrame{Type: "clear", BoardID: optBoardID(boardID), RoomCode: roomCode})

	if room := h.rooms.Find(roomCode); room != nil {
		h.broadcastToRoom(room, frame, nil)
		return
	}
	if boardID != 0 {
		h.broadcastToBoard(boardID, frame, c)
		return
	}
	// 无任何作用域时只回发确认给发起者
	c.TrySend(frame)
}

// handlePing 心跳保活
func (h *Hub) handlePing(c *Client) {
	h.sendFrame(c, simpleFrame{Type: "pong"})
}
