package hub

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/chandud1124/whiteboard/internal/domain"
)

// sendCanvasHistory 向刚加入的连接回放历史事件。
// 作用域按 画板 > 房间 > 全局 解析；始终先发 historyStart 再发
// historyEnd，即使事件集为空，客户端可以用一次"替换画布"动画处理
// 任意长度的历史。存储失败时降级为空回放。
func (h *Hub) sendCanvasHistory(ctx context.Context, c *Client) {
	logCtx := logrus.WithField("conn_id", c.ID)

	var (
		events []domain.DrawingEvent
		err    error
	)
	boardID := c.BoardID()
	roomCode := c.RoomCode()
	switch {
	case boardID != 0:
		events, err = h.events.FindByBoard(ctx, boardID)
		logCtx = logCtx.WithField("board_id", boardID)
	case roomCode != "":
		events, err = h.events.FindByRoom(ctx, roomCode)
		logCtx = logCtx.WithField("room_code", roomCode)
	default:
		events, err = h.events.FindAll(ctx)
	}
	if err != nil {
		logCtx.WithError(err).Warn("Failed to load canvas history, sending empty replay")
		events = nil
	}

	h.sendFrame(c, simpleFrame{Type: "historyStart"})
	sent := 0
	for i := range events {
		frame, encErr := events[i].EncodeWire()
		if encErr != nil {
			logCtx.WithError(encErr).Warn("Failed to encode historical event, skipping")
			continue
		}
		c.TrySend(frame)
		sent++
	}
	h.sendFrame(c, simpleFrame{Type: "historyEnd"})

	logCtx.WithField("event_count", sent).Info("Sent canvas history")
}
