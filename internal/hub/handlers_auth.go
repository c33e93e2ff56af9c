package hub

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/chandud1124/whiteboard/internal/domain"
	"github.com/chandud1124/whiteboard/internal/service"
)

// 访客会话有效期
const guestSessionTTL = 24 * time.Hour

// handleGuestMode 激活访客模式并创建一条带过期时间的访客会话记录。
// 落库失败只记录日志，访客仍可继续使用 (工作成果不保证保留)。
func (h *Hub) handleGuestMode(c *Client) {
	c.setGuest(true)

	expiresAt := time.Now().Add(guestSessionTTL)
	session := &domain.GuestSession{
		SessionID: c.ID,
		IsActive:  true,
		ExpiresAt: expiresAt,
	}
	if err := h.guests.Save(context.Background(), session); err != nil {
		logrus.WithField("conn_id", c.ID).WithError(err).Warn("Failed to persist guest session")
	}

	h.sendFrame(c, guestModeActivatedFrame{
		Type:      "guestModeActivated",
		SessionID: c.ID,
		ExpiresAt: expiresAt.Format(time.RFC3339),
		Message:   "Login to save your work permanently",
	})
	logrus.WithField("conn_id", c.ID).Info("Guest mode activated")
}

// handleRegister 处理注册请求，校验和唯一性检查在 AuthService 中完成。
func (h *Hub) handleRegister(c *Client, msg *Message) {
	user, err := h.auth.Register(context.Background(), msg.Username, msg.Email, msg.Password)
	if err != nil {
		h.sendScopedError(c, "registerFailed", registerErrorMessage(err))
		return
	}

	h.sendFrame(c, registerSuccessFrame{
		Type:     "registerSuccess",
		UserID:   user.ID,
		Username: user.Username,
		Message:  "Registration successful. Please log in.",
	})
}

// registerErrorMessage 将服务层错误映射为客户端可读的提示
func registerErrorMessage(err error) string {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	switch {
	case errors.Is(err, service.ErrUsernameTaken):
		return "Username already exists"
	case errors.Is(err, service.ErrEmailTaken):
		return "Email already registered"
	case errors.Is(err, service.ErrRegistrationFailed):
		return "Registration failed. Please try again."
	default:
		return "Database connection error. Please try again later."
	}
}

// handleLogin 处理登录请求，成功后绑定会话身份并记录重连令牌。
func (h *Hub) handleLogin(c *Client, msg *Message) {
	if msg.Username == "" {
		h.sendScopedError(c, "loginFailed", "Username is required")
		return
	}
	if msg.Password == "" {
		h.sendScopedError(c, "loginFailed", "Password is required")
		return
	}

	user, token, err := h.auth.Login(context.Background(), msg.Username, msg.Password)
	if err != nil {
		if errors.Is(err, service.ErrAuthenticationFailed) {
			h.sendScopedError(c, "loginFailed", "Invalid username or password")
		} else {
			h.sendScopedError(c, "loginFailed", "Database connection error. Please try again later.")
		}
		return
	}

	c.bindUser(user.ID, user.Username)
	h.storeToken(user.ID, token)

	h.sendFrame(c, loginSuccessFrame{
		Type:        "loginSuccess",
		UserID:      user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Token:       token,
	})
	logrus.WithFields(logrus.Fields{"conn_id": c.ID, "user_id": user.ID}).Info("User logged in")
}

// handleRestoreSession 用重连令牌静默恢复登录态。
// 令牌只是重连捷径，不替代凭据校验：账号已失效时令牌一并作废。
func (h *Hub) handleRestoreSession(c *Client, msg *Message) {
	if msg.Token == "" {
		h.sendScopedError(c, "sessionRestoreFailed", "Session token missing. Please log in again.")
		return
	}

	userID, ok := h.lookupToken(msg.Token)
	if !ok {
		h.sendScopedError(c, "sessionRestoreFailed", "Session expired. Please log in again.")
		return
	}

	user, err := h.auth.FindUserByID(context.Background(), userID)
	if err != nil {
		h.dropTokenForUser(userID)
		h.sendScopedError(c, "sessionRestoreFailed", "Account not found. Please log in again.")
		return
	}

	c.bindUser(user.ID, user.Username)

	h.sendFrame(c, loginSuccessFrame{
		Type:        "sessionRestored",
		UserID:      user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Token:       msg.Token,
	})
	logrus.WithFields(logrus.Fields{"conn_id": c.ID, "user_id": user.ID}).Info("Session restored")
}

// handleLogout 清除会话身份和画板绑定，并作废重连令牌。
func (h *Hub) handleLogout(c *Client) {
	userID := c.UserID()
	c.clearIdentity()
	if userID != 0 {
		h.dropTokenForUser(userID)
	}

	h.sendFrame(c, simpleFrame{Type: "logoutSuccess"})
	logrus.WithField("conn_id", c.ID).Info("User logged out")
}
