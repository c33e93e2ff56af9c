package hub

import (
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Message 是入站帧的统一解码结构。
// type 字段必填，其余字段按消息类型选用；处理器只读取
// 自己关心的字段，不接触原始文本。
type Message struct {
	Type        string `json:"type"`
	Username    string `json:"username,omitempty"`
	Email       string `json:"email,omitempty"`
	Password    string `json:"password,omitempty"`
	Token       string `json:"token,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	BoardID     *uint  `json:"boardId,omitempty"`
	CanvasData  string `json:"canvasData,omitempty"`
	RoomCode    string `json:"roomCode,omitempty"`
	SessionID   string `json:"sessionId,omitempty"`
	Text        string `json:"text,omitempty"`
}

// DecodeMessage 将原始帧解码为 Message；type 缺失视为协议错误。
func DecodeMessage(raw []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, fmt.Errorf("decode message frame: %w", err)
	}
	if msg.Type == "" {
		return nil, fmt.Errorf("message frame missing type field")
	}
	return &msg, nil
}

// --- 出站控制帧 ---

type welcomeFrame struct {
	Type             string `json:"type"`
	SessionID        string `json:"sessionId"`
	ConnectedClients int    `json:"connectedClients"`
}

type errorFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type simpleFrame struct {
	Type string `json:"type"`
}

type registerSuccessFrame struct {
	Type     string `json:"type"`
	UserID   uint   `json:"userId"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

type loginSuccessFrame struct {
	Type        string `json:"type"`
	UserID      uint   `json:"userId"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Token       string `json:"token"`
}

type guestModeActivatedFrame struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId"`
	ExpiresAt string `json:"expiresAt"`
	Message   string `json:"message"`
}

type boardCreatedFrame struct {
	Type    string `json:"type"`
	BoardID uint   `json:"boardId"`
	Title   string `json:"title"`
}

type boardSummary struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
	UpdatedAt   string `json:"updatedAt"`
}

type boardsListFrame struct {
	Type   string         `json:"type"`
	Boards []boardSummary `json:"boards"`
}

type boardOpenedFrame struct {
	Type       string  `json:"type"`
	BoardID    uint    `json:"boardId"`
	Title      *string `json:"title"`
	CanvasData *string `json:"canvasData"`
}

type boardTitleUpdatedFrame struct {
	Type    string `json:"type"`
	BoardID uint   `json:"boardId"`
	Title   string `json:"title"`
}

type boardDeletedFrame struct {
	Type    string `json:"type"`
	BoardID uint   `json:"boardId"`
}

type roomCreatedFrame struct {
	Type       string  `json:"type"`
	RoomCode   string  `json:"roomCode"`
	RoomID     string  `json:"roomId"`
	IsOwner    bool    `json:"isOwner"`
	BoardID    *uint   `json:"boardId"`
	BoardTitle *string `json:"boardTitle"`
}

type waitingApprovalFrame struct {
	Type     string `json:"type"`
	RoomCode string `json:"roomCode"`
}

type joinRequestFrame struct {
	Type         string `json:"type"`
	SessionID    string `json:"sessionId"`
	Username     string `json:"username"`
	PendingCount int    `json:"pendingCount"`
}

type approvedFrame struct {
	Type       string  `json:"type"`
	RoomCode   string  `json:"roomCode"`
	UserCount  int     `json:"userCount"`
	BoardID    *uint   `json:"boardId"`
	BoardTitle *string `json:"boardTitle"`
	CanvasData *string `json:"canvasData"`
}

type pendingUpdateFrame struct {
	Type         string `json:"type"`
	PendingCount int    `json:"pendingCount"`
}

type userJoinedFrame struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId"`
	UserCount int    `json:"userCount"`
}

type userLeftFrame struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId"`
	UserCount int    `json:"userCount"`
}

type userCountFrame struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

type roomClosedFrame struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

type clearFrame struct {
	Type     string `json:"type"`
	BoardID  *uint  `json:"boardId"`
	RoomCode string `json:"roomCode,omitempty"`
}

// encodeFrame 序列化出站帧。帧结构都是静态定义的，序列化失败
// 属于编程错误，记录日志后返回 nil，发送端会跳过 nil 帧。
func encodeFrame(v interface{}) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		logrus.WithError(err).Errorf("Failed to encode outbound frame: %T", v)
		return nil
	}
	return data
}

// optStr 将空串视为 null，配合指针字段输出 JSON null。
func optStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// optBoardID 将 0 视为未绑定画板，输出 JSON null。
func optBoardID(id uint) *uint {
	if id == 0 {
		return nil
	}
	return &id
}
