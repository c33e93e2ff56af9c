package hub

import "github.com/sirupsen/logrus"

// 广播引擎：三级作用域，按 房间 > 画板 > 全局 的优先级解析受众。
// 每个接收方的投递都是尽力而为，单个失败不影响其余接收方。

// broadcastToRoom 向房间的全部已批准成员投递，exclude 非 nil 时跳过该连接。
func (h *Hub) broadcastToRoom(room *Room, message []byte, exclude *Client) {
	if message == nil {
		return
	}
	for _, c := range room.ApprovedClients() {
		if exclude != nil && c.ID == exclude.ID {
			continue
		}
		if !c.TrySend(message) {
			logrus.WithFields(logrus.Fields{"conn_id": c.ID, "room_code": room.Code}).Debug("Skipped unreachable room member during broadcast")
		}
	}
}

// broadcastToBoard 向当前绑定了同一画板的其他连接投递 (不含发送者)。
// 支持同一画板的多标签页/多设备同时编辑，无需进入房间。
func (h *Hub) broadcastToBoard(boardID uint, message []byte, exclude *Client) {
	if message == nil || boardID == 0 {
		return
	}
	for _, c := range h.registry.All() {
		if exclude != nil && c.ID == exclude.ID {
			continue
		}
		if c.BoardID() != boardID {
			continue
		}
		if !c.TrySend(message) {
			logrus.WithFields(logrus.Fields{"conn_id": c.ID, "board_id": boardID}).Debug("Skipped unreachable board session during broadcast")
		}
	}
}

// broadcastAll 向全部存活连接投递 (无作用域的回退路径)
func (h *Hub) broadcastAll(message []byte) {
	if message == nil {
		return
	}
	for _, c := range h.registry.All() {
		if !c.TrySend(message) {
			logrus.WithField("conn_id", c.ID).Debug("Skipped unreachable client during global broadcast")
		}
	}
}

// broadcastScoped 按优先级解析作用域并投递：
// 发送者在房间内则房间广播 (回显给发送者)；
// 否则绑定了画板则画板广播 (不含发送者)；
// 否则全局广播。
func (h *Hub) broadcastScoped(sender *Client, room *Room, message []byte) {
	if room != nil {
		h.broadcastToRoom(room, message, nil)
		return
	}
	if boardID := sender.BoardID(); boardID != 0 {
		h.broadcastToBoard(boardID, message, sender)
		return
	}
	h.broadcastAll(message)
}

// broadcastRoomUserCount 向房间成员广播当前成员数
func (h *Hub) broadcastRoomUserCount(room *Room) {
	h.broadcastToRoom(room, encodeFrame(userCountFrame{Type: "userCount", Count: room.ApprovedCount()}), nil)
}
