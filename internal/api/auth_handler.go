package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Onimix/SVIRTUAL/internal/config"
	"github.com/Onimix/SVIRTUAL/internal/model"
	"github.com/Onimix/SVIRTUAL/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// contextUserKey 鉴权中间件写入 gin.Context 的用户ID键
const contextUserKey = "user_id"

// AuthHandler 登录与当前用户接口
type AuthHandler struct {
	userRepo repository.UserRepository
	cfg      *config.AuthConfig
	logger   *logrus.Logger
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(db *gorm.DB, logger *logrus.Logger, cfg *config.AuthConfig) *AuthHandler {
	return &AuthHandler{
		userRepo: repository.NewUserRepository(db),
		cfg:      cfg,
		logger:   logger,
	}
}

// loginRequest 登录请求体
type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// userView 对外返回的用户信息（不含密码哈希）
type userView struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	ProfileImageURL  string `json:"profile_image_url"`
	SubscriptionTier string `json:"subscription_tier"`
}

func toUserView(u *model.User) userView {
	return userView{
		ID:               u.ID,
		Email:            u.Email,
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		ProfileImageURL:  u.ProfileImageURL,
		SubscriptionTier: u.SubscriptionTier,
	}
}

// Login 登录接口：校验邮箱密码，签发JWT
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	user, err := h.userRepo.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		h.logger.WithError(err).Error("查询登录用户失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch user"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(h.cfg.TokenTTL)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.cfg.JWTSecret))
	if err != nil {
		h.logger.WithError(err).Error("签发Token失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  toUserView(user),
	})
}

// CurrentUser 当前登录用户信息
// GET /api/auth/user
func (h *AuthHandler) CurrentUser(c *gin.Context) {
	userID := c.GetString(contextUserKey)
	user, err := h.userRepo.GetUser(c.Request.Context(), userID)
	if err != nil {
		h.logger.WithError(err).WithField("user_id", userID).Error("查询当前用户失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch user"})
		return
	}
	c.JSON(http.StatusOK, toUserView(user))
}

// AuthRequired 鉴权中间件：校验 Bearer Token，失败返回401
func AuthRequired(cfg *config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid || claims.Subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		c.Set(contextUserKey, claims.Subject)
		c.Next()
	}
}
