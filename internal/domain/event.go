package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// 绘图事件字段的默认值，与客户端画笔的初始状态保持一致。
const (
	DefaultColor       = "#000000"
	DefaultTool        = "pen"
	DefaultStrokeWidth = 3
	DefaultLineStyle   = "solid"
)

// DrawingEvent 表示画板上的一段笔划或一个图形。
// 事件一经产生即不可变：先持久化 (尽力而为)，再按作用域原样广播。
type DrawingEvent struct {
	ID          uint      `gorm:"primaryKey"`       // 事件主键 (服务端分配)
	BoardID     *uint     `gorm:"index"`            // 所属画板 ID (可为空，房间/全局模式下没有画板)
	RoomCode    string    `gorm:"size:16;index"`    // 所属房间邀请码 (可为空)
	SessionID   string    `gorm:"size:191;index"`   // 产生事件的连接会话 ID
	Username    string    `gorm:"size:191"`         // 产生事件的用户展示名 (可为空)
	X1          int       `gorm:"not null"`         // 起点 X
	Y1          int       `gorm:"not null"`         // 起点 Y
	X2          int       `gorm:"not null"`         // 终点 X
	Y2          int       `gorm:"not null"`         // 终点 Y
	Color       string    `gorm:"size:32"`          // 颜色，例如 "#FF0000"
	Tool        string    `gorm:"size:32"`          // 工具: pen/eraser/line/rectangle/circle/arrow
	StrokeWidth int       `gorm:"not null"`         // 笔划宽度
	LineStyle   string    `gorm:"size:32"`          // 线型: solid/dashed/dotted
	Timestamp   time.Time `gorm:"index;not null"`   // 事件时间戳 (服务端分配)
}

// wireDrawingEvent 是 DrawingEvent 在 WebSocket 上的传输形态。
// boardId 为数字或 null，其余字段始终输出，保持与客户端约定一致。
type wireDrawingEvent struct {
	Type        string `json:"type"`
	X1          int    `json:"x1"`
	Y1          int    `json:"y1"`
	X2          int    `json:"x2"`
	Y2          int    `json:"y2"`
	Color       string `json:"color"`
	Tool        string `json:"tool"`
	StrokeWidth int    `json:"strokeWidth"`
	LineStyle   string `json:"lineStyle"`
	SessionID   string `json:"sessionId"`
	Username    string `json:"username"`
	BoardID     *uint  `json:"boardId"`
	RoomCode    string `json:"roomCode,omitempty"`
}

// applyDefaults 补齐缺失的样式字段。
func (e *DrawingEvent) applyDefaults() {
	if e.Color == "" {
		e.Color = DefaultColor
	}
	if e.Tool == "" {
		e.Tool = DefaultTool
	}
	if e.StrokeWidth == 0 {
		e.StrokeWidth = DefaultStrokeWidth
	}
	if e.LineStyle == "" {
		e.LineStyle = DefaultLineStyle
	}
}

// EncodeWire 将事件序列化为对外广播的 JSON 帧 (type 固定为 "draw")。
func (e *DrawingEvent) EncodeWire() ([]byte, error) {
	e.applyDefaults()
	frame := wireDrawingEvent{
		Type:        "draw",
		X1:          e.X1,
		Y1:          e.Y1,
		X2:          e.X2,
		Y2:          e.Y2,
		Color:       e.Color,
		Tool:        e.Tool,
		StrokeWidth: e.StrokeWidth,
		LineStyle:   e.LineStyle,
		SessionID:   e.SessionID,
		Username:    e.Username,
		BoardID:     e.BoardID,
		RoomCode:    e.RoomCode,
	}
	data, err := json.Marshal(frame)
	if err != nil {
		return nil, fmt.Errorf("encode drawing event: %w", err)
	}
	return data, nil
}

// DecodeWireEvent 从 JSON 帧还原 DrawingEvent。
// ID 和 Timestamp 是服务端分配的字段，不参与传输，解码后为零值。
func DecodeWireEvent(data []byte) (*DrawingEvent, error) {
	var frame wireDrawingEvent
	if err := json.Unmarshal(data, &frame); err != nil {
		return nil, fmt.Errorf("decode drawing event: %w", err)
	}
	event := &DrawingEvent{
		BoardID:     frame.BoardID,
		RoomCode:    frame.RoomCode,
		SessionID:   frame.SessionID,
		Username:    frame.Username,
		X1:          frame.X1,
		Y1:          frame.Y1,
		X2:          frame.X2,
		Y2:          frame.Y2,
		Color:       frame.Color,
		Tool:        frame.Tool,
		StrokeWidth: frame.StrokeWidth,
		LineStyle:   frame.LineStyle,
	}
	event.applyDefaults()
	return event, nil
}
