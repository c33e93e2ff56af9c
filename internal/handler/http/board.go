package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/chandud1124/whiteboard/internal/repository"
)

// BoardHandler 提供画板列表的只读 REST 接口 (需要 JWT 认证)
type BoardHandler struct {
	boardRepo repository.BoardRepository
}

// NewBoardHandler 创建 BoardHandler 实例
func NewBoardHandler(boardRepo repository.BoardRepository) *BoardHandler {
	if boardRepo == nil {
		panic("BoardRepository cannot be nil for BoardHandler")
	}
	return &BoardHandler{boardRepo: boardRepo}
}

// BoardListItem 是列表响应中的单个画板
type BoardListItem struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
	UpdatedAt   string `json:"updated_at"`
}

// List 返回当前登录用户的画板列表
func (h *BoardHandler) List(c *gin.Context) {
	userIDAny, exists := c.Get("user_id")
	if !exists {
		ErrorResponse(c, http.StatusUnauthorized, "User not authenticated")
		return
	}
	userID, ok := userIDAny.(uint)
	if !ok {
		logrus.Error("BoardHandler.List: user_id in context is not uint")
		ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	boards, err := h.boardRepo.FindByUser(c.Request.Context(), userID)
	if err != nil {
		logrus.WithField("user_id", userID).WithError(err).Error("BoardHandler.List: Failed to load boards")
		ErrorResponse(c, http.StatusInternalServerError, "Failed to load boards")
		return
	}

	items := make([]BoardListItem, 0, len(boards))
	for i := range boards {
		b := &boards[i]
		items = append(items, BoardListItem{
			ID:          b.ID,
			Title:       b.Title,
			Description: b.Description,
			Thumbnail:   b.Thumbnail,
			UpdatedAt:   b.UpdatedAt.Format(time.RFC3339),
		})
	}
	SuccessResponse(c, http.StatusOK, gin.H{"boards": items})
}
