package jwt

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/scooter7/credo-etl/config"
)

var (
	ErrTokenExpired = errors.New("token 已过期")
	ErrTokenInvalid = errors.New("token 无效")
)

const issuer = "space-analysis"

// Claims 会话令牌声明：Subject 为会话 ID
type Claims struct {
	SessionID string `json:"session_id"`
	TokenType string `json:"token_type"` // 固定为 "session"
	jwtv5.RegisteredClaims
}

// Manager 会话令牌管理器
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager 创建令牌管理器；TTL 未配置时默认 4 小时
func NewManager(cfg *config.AuthConfig) *Manager {
	ttl := cfg.SessionTokenTTL
	if ttl <= 0 {
		ttl = 4 * time.Hour
	}
	return &Manager{secret: []byte(cfg.JWTSecret), ttl: ttl}
}

// GenerateSessionToken 为会话签发令牌，返回令牌与过期时间
func (m *Manager) GenerateSessionToken(sessionID string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(m.ttl)
	claims := Claims{
		SessionID: sessionID,
		TokenType: "session",
		RegisteredClaims: jwtv5.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   sessionID,
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(expiresAt),
			Issuer:    issuer,
		},
	}

	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseToken 解析并验证令牌
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwtv5.ParseWithClaims(tokenString, &Claims{}, func(t *jwtv5.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return m.secret, nil
	}, jwtv5.WithIssuer(issuer))

	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.TokenType != "session" || claims.SessionID == "" {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
