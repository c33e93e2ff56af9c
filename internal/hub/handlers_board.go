package hub

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/chandud1124/whiteboard/internal/domain"
	"github.com/chandud1124/whiteboard/internal/repository"
)

// 画板处理器都要求已登录 (绑定了 userId)，授权检查在每条消息上
// 重新执行，不缓存任何"已授权"结论。

// handleCreateBoard 创建画板并绑定为当前会话的活动画板。
func (h *Hub) handleCreateBoard(c *Client, msg *Message) {
	userID := c.UserID()
	if userID == 0 {
		h.sendError(c, "You must be logged in to create a board")
		return
	}

	title := msg.Title
	if title == "" {
		title = "Untitled Board"
	}

	board := &domain.Board{
		UserID:      userID,
		Title:       title,
		Description: msg.Description,
		IsActive:    true,
	}
	if err := h.boards.Save(context.Background(), board); err != nil {
		logrus.WithFields(logrus.Fields{"conn_id": c.ID, "user_id": userID}).WithError(err).Error("Failed to create board")
		h.sendError(c, "Failed to create board")
		return
	}

	c.setBoard(board.ID, title)
	h.sendFrame(c, boardCreatedFrame{Type: "boardCreated", BoardID: board.ID, Title: title})
	logrus.WithFields(logrus.Fields{"board_id": board.ID, "user_id": userID}).Info("Board created")
}

// handleGetBoards 返回当前用户的画板列表 (仪表盘用)。
func (h *Hub) handleGetBoards(c *Client) {
	userID := c.UserID()
	if userID == 0 {
		h.sendError(c, "You must be logged in to view boards")
		return
	}

	boards, err := h.boards.FindByUser(context.Background(), userID)
	if err != nil {
		logrus.WithField("user_id", userID).WithError(err).Error("Failed to load boards")
		h.sendError(c, "Failed to load boards")
		return
	}

	summaries := make([]boardSummary, 0, len(boards))
	for i := range boards {
		b := &boards[i]
		summaries = append(summaries, boardSummary{
			ID:          b.ID,
			Title:       b.Title,
			Description: b.Description,
			Thumbnail:   b.Thumbnail,
			UpdatedAt:   b.UpdatedAt.Format(time.RFC3339),
		})
	}
	h.sendFrame(c, boardsListFrame{Type: "boardsList", Boards: summaries})
}

// handleOpenBoard 打开画板：校验所有权，刷新访问时间，绑定会话，
// 房主打开时同步刷新房间的画板镜像。
func (h *Hub) handleOpenBoard(c *Client, msg *Message) {
	userID := c.UserID()
	if userID == 0 {
		h.sendError(c, "You must be logged in to open a board")
		return
	}
	if msg.BoardID == nil {
		h.sendError(c, "Board not found")
		return
	}

	ctx := context.Background()
	board, err := h.boards.FindByID(ctx, *msg.BoardID)
	if err != nil {
		if errors.Is(err, repository.ErrBoardNotFound) {
			h.sendError(c, "Board not found")
		} else {
			logrus.WithField("board_id", *msg.BoardID).WithError(err).Error("Failed to load board")
			h.sendError(c, "Failed to load board")
		}
		return
	}
	if board.UserID != userID {
		h.sendError(c, "Unauthorized: You don't own this board")
		return
	}

	if err := h.boards.TouchLastAccessed(ctx, board.ID); err != nil {
		logrus.WithField("board_id", board.ID).WithError(err).Warn("Failed to update board last accessed time")
	}

	c.setBoard(board.ID, board.Title)
	if room := h.ownedRoom(c); room != nil {
		room.SetBoardMirror(board.ID, board.Title, board.CanvasData)
	}

	h.sendFrame(c, boardOpenedFrame{
		Type:       "boardOpened",
		BoardID:    board.ID,
		Title:      optStr(board.Title),
		CanvasData: optStr(board.CanvasData),
	})
	logrus.WithFields(logrus.Fields{"board_id": board.ID, "user_id": userID}).Info("Board opened")
}

// handleSaveBoard 保存当前活动画板的画布数据。
// 发起者是房主时同步更新房间镜像，之后批准的新成员直接拿到最新画布。
func (h *Hub) handleSaveBoard(c *Client, msg *Message) {
	userID := c.UserID()
	if userID == 0 {
		h.sendError(c, "You must be logged in to save a board")
		return
	}
	boardID := c.BoardID()
	if boardID == 0 {
		h.sendError(c, "No active board to save")
		return
	}

	if err := h.boards.UpdateCanvas(context.Background(), boardID, msg.CanvasData); err != nil {
		logrus.WithField("board_id", boardID).WithError(err).Error("Failed to save board")
		h.sendError(c, "Failed to save board")
		return
	}

	h.sendFrame(c, simpleFrame{Type: "boardSaved"})
	if room := h.ownedRoom(c); room != nil {
		room.SetBoardCanvas(msg.CanvasData)
	}
	logrus.WithField("board_id", boardID).Debug("Board saved")
}

// handleUpdateBoardTitle 重命名画板，所有权校验后生效。
func (h *Hub) handleUpdateBoardTitle(c *Client, msg *Message) {
	userID := c.UserID()
	if userID == 0 {
		h.sendError(c, "You must be logged in")
		return
	}
	if msg.BoardID == nil {
		h.sendError(c, "Board not found or unauthorized")
		return
	}

	ctx := context.Background()
	board, err := h.boards.FindByID(ctx, *msg.BoardID)
	if err != nil || board.UserID != userID {
		h.sendError(c, "Board not found or unauthorized")
		return
	}

	if err := h.boards.UpdateTitle(ctx, board.ID, msg.Title); err != nil {
		logrus.WithField("board_id", board.ID).WithError(err).Error("Failed to update board title")
		h.sendError(c, "Failed to update title")
		return
	}

	h.sendFrame(c, boardTitleUpdatedFrame{Type: "boardTitleUpdated", BoardID: board.ID, Title: msg.Title})
	if board.ID == c.BoardID() {
		c.setBoard(board.ID, msg.Title)
	}
	if room := h.ownedRoom(c); room != nil {
		room.SetBoardTitle(msg.Title)
	}
}

// handleDeleteBoard 删除画板 (软删除)，仅限所有者。
func (h *Hub) handleDeleteBoard(c *Client, msg *Message) {
	userID := c.UserID()
	if userID == 0 {
		h.sendError(c, "You must be logged in")
		return
	}
	if msg.BoardID == nil {
		h.sendError(c, "Failed to delete board")
		return
	}

	if err := h.boards.Delete(context.Background(), *msg.BoardID, userID); err != nil {
		logrus.WithField("board_id", *msg.BoardID).WithError(err).Warn("Failed to delete board")
		h.sendError(c, "Failed to delete board")
		return
	}

	h.sendFrame(c, boardDeletedFrame{Type: "boardDeleted", BoardID: *msg.BoardID})
	logrus.WithField("board_id", *msg.BoardID).Info("Board deleted")
}

// handleDuplicateBoard 复制画板并回发更新后的画板列表。
func (h *Hub) handleDuplicateBoard(c *Client, msg *Message) {
	userID := c.UserID()
	if userID == 0 {
		h.sendError(c, "You must be logged in")
		return
	}
	if msg.BoardID == nil {
		h.sendError(c, "Failed to duplicate board")
		return
	}

	if _, err := h.boards.Duplicate(context.Background(), *msg.BoardID, userID); err != nil {
		logrus.WithField("board_id", *msg.BoardID).WithError(err).Warn("Failed to duplicate board")
		h.sendError(c, "Failed to duplicate board")
		return
	}

	h.sendFrame(c, simpleFrame{Type: "boardDuplicated"})
	h.handleGetBoards(c)
}

// ownedRoom 返回 c 作为房主的房间，不在房间或不是房主时返回 nil。
func (h *Hub) ownedRoom(c *Client) *Room {
	code := c.RoomCode()
	if code == "" {
		return nil
	}
	room := h.rooms.Find(code)
	if room == nil || !room.IsOwner(c.ID) {
		return nil
	}
	return room
}
