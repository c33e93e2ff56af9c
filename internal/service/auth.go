// Package service 实现用户认证相关的业务逻辑。
package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/chandud1124/whiteboard/internal/domain"
	"github.com/chandud1124/whiteboard/internal/repository"
)

var (
	usernameRegexp = regexp.MustCompile(`^[a-zA-Z0-9_]{3,50}$`)
	emailRegexp    = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
)

// IsValidUsername 校验用户名格式: 3-50 个字符，仅限字母、数字和下划线
func IsValidUsername(username string) bool {
	return usernameRegexp.MatchString(username)
}

// IsValidEmail 校验邮箱格式
func IsValidEmail(email string) bool {
	return emailRegexp.MatchString(email)
}

// IsValidPassword 校验密码强度: 至少 6 个字符
func IsValidPassword(password string) bool {
	return len(password) >= 6
}

// AuthService 负责用户注册、登录和重连令牌的签发。
type AuthService struct {
	userRepo  repository.UserRepository
	jwtSecret []byte        // 密钥的字节形式
	jwtExpiry time.Duration // 令牌过期时间
}

// NewAuthService 创建 AuthService 实例。
// jwtSecretKey 应从安全配置中获取；jwtExpiryHours 定义令牌过期的小时数。
func NewAuthService(userRepo repository.UserRepository, jwtSecretKey string, jwtExpiryHours int) (*AuthService, error) {
	if userRepo == nil {
		panic("UserRepository cannot be nil for AuthService")
	}
	if jwtSecretKey == "" {
		return nil, fmt.Errorf("JWT secret key cannot be empty")
	}
	if jwtExpiryHours <= 0 {
		jwtExpiryHours = 24 // 默认 24 小时
	}
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecretKey),
		jwtExpiry: time.Duration(jwtExpiryHours) * time.Hour,
	}, nil
}

// Register 处理用户注册。
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	logCtx := logrus.WithFields(logrus.Fields{"username": username, "email": email})

	// 1. 字段格式校验
	if username == "" {
		return nil, NewValidationError("Username is required")
	}
	if !IsValidUsername(username) {
		return nil, NewValidationError("Username must be 3-50 characters (alphanumeric and underscore only)")
	}
	if email == "" {
		return nil, NewValidationError("Email is required")
	}
	if !IsValidEmail(email) {
		return nil, NewValidationError("Invalid email format")
	}
	if password == "" {
		return nil, NewValidationError("Password is required")
	}
	if !IsValidPassword(password) {
		return nil, NewValidationError("Password must be at least 6 characters")
	}

	// 2. 唯一性预检查。
	// 检查本身出错时只记录日志并继续 (可用性优先)，
	// 数据库唯一索引仍是最终权威，冲突会在 Save 时被捕获。
	taken, err := s.userRepo.UsernameExists(ctx, username)
	if err != nil {
		logCtx.WithError(err).Warn("Username uniqueness check failed, proceeding")
	} else if taken {
		return nil, ErrUsernameTaken
	}
	taken, err = s.userRepo.EmailExists(ctx, email)
	if err != nil {
		logCtx.WithError(err).Warn("Email uniqueness check failed, proceeding")
	} else if taken {
		return nil, ErrEmailTaken
	}

	// 3. 哈希密码
	hash, err := hashPassword(password)
	if err != nil {
		logCtx.WithError(err).Error("Failed to hash password during registration")
		return nil, ErrInternalServer
	}

	// 4. 保存用户
	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		DisplayName:  username,
		IsActive:     true,
	}
	err = s.userRepo.Save(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			logCtx.WithError(err).Warn("Registration failed: username or email already exists (repo error)")
			return nil, ErrRegistrationFailed
		}
		logCtx.WithError(err).Error("Database error during user creation")
		return nil, ErrInternalServer
	}

	logCtx.WithField("user_id", user.ID).Info("User registered successfully")
	user.PasswordHash = "" // 清除密码哈希再返回
	return user, nil
}

// Login 处理用户登录，成功时返回用户信息和重连令牌。
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	logCtx := logrus.WithField("username", username)

	// 1. 查找用户
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			logCtx.Warn("Login attempt failed: User not found")
		} else {
			logCtx.WithError(err).Warn("Login attempt failed: Error finding user")
		}
		return nil, "", ErrAuthenticationFailed // 对客户端统一返回认证失败
	}
	if user == nil {
		logCtx.Warn("Login attempt failed: User not found (repo returned nil user without error)")
		return nil, "", ErrAuthenticationFailed
	}

	// 2. 验证密码
	if !checkPassword(password, user.PasswordHash) {
		logCtx.Warn("Login attempt failed: Invalid password")
		return nil, "", ErrAuthenticationFailed
	}

	// 3. 更新最后登录时间 (失败不影响登录)
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		logCtx.WithError(err).Warn("Failed to update last login timestamp")
	}

	// 4. 签发重连令牌
	token, err := s.GenerateToken(user.ID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to generate token during login")
		return nil, "", ErrInternalServer
	}

	logCtx.WithField("user_id", user.ID).Info("User logged in successfully")
	return user, token, nil
}

// FindUserByID 根据用户 ID 查找用户 (供会话恢复使用)。
func (s *AuthService) FindUserByID(ctx context.Context, id uint) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		logrus.WithError(err).WithField("user_id", id).Error("FindUserByID: Repository error")
		return nil, ErrInternalServer
	}
	return user, nil
}

// GenerateToken 为指定用户 ID 签发 JWT 令牌
func (s *AuthService) GenerateToken(userID uint) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(s.jwtExpiry).Unix(),
		"iat":     time.Now().Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// --- 私有辅助函数 ---

// hashPassword 使用 bcrypt 对密码进行哈希处理
func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to generate hash from password: %w", err)
	}
	return string(bytes), nil
}

// checkPassword 验证提供的密码是否与存储的哈希匹配
func checkPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
