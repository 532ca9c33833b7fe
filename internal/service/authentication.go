package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"recipe-api/internal/cache"
	"recipe-api/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

var (
	randRead        = rand.Read
	jsonMarshal     = json.Marshal
	jsonUnmarshal   = json.Unmarshal
	timeNow         = time.Now
	parseWithClaims = jwt.ParseWithClaims
)

var (
	// ErrInvalidCredentials 帳號不存在、停用或密碼錯誤
	ErrInvalidCredentials = errors.New("unable to authenticate with provided credentials")
	// ErrInvalidRefreshToken refresh token 不存在或已過期
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

const refreshTokenPrefix = "refresh_token:"

// CustomClaims 定義 JWT 負載內容
type CustomClaims struct {
	UserID int `json:"user_id"`
	jwt.RegisteredClaims
}

// RefreshTokenData 是存在快取中的 refresh token 內容
type RefreshTokenData struct {
	UserID int `json:"user_id"`
}

// AuthenticateUser 比對使用者與明文密碼，停用帳號一律視為驗證失敗
func AuthenticateUser(ctx context.Context, user model.User, password string) error {
	if !user.IsActive {
		return ErrInvalidCredentials
	}
	if err := ComparePassword(user.PasswordHash, password); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// configuredSecret 由 SetJWTSecret 在啟動時設定
var configuredSecret []byte

// SetJWTSecret 設定 JWT 簽章金鑰；未設定時退回讀取 JWT_SECRET 環境變數
func SetJWTSecret(secret string) {
	configuredSecret = []byte(secret)
}

func jwtSecret() ([]byte, error) {
	if len(configuredSecret) > 0 {
		return configuredSecret, nil
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET not set")
	}
	return []byte(secret), nil
}

// IssueAccessToken 依據使用者資訊與 TTL 產生 JWT
func IssueAccessToken(user model.User, ttl time.Duration) (string, error) {
	secret, err := jwtSecret()
	if err != nil {
		return "", err
	}

	now := timeNow()
	claims := CustomClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// VerifyAccessToken 驗證並解析 JWT 令牌
func VerifyAccessToken(tokenString string) (*CustomClaims, error) {
	secret, err := jwtSecret()
	if err != nil {
		return nil, err
	}

	token, err := parseWithClaims(tokenString, &CustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

// IssueRefreshToken 產生 32 bytes 隨機 token，存入快取並設定 TTL
func IssueRefreshToken(ctx context.Context, c cache.Cache, userID int, ttl time.Duration) (string, error) {
	b := make([]byte, 32)
	if _, err := randRead(b); err != nil {
		return "", err
	}
	token := base64.RawURLEncoding.EncodeToString(b)

	data, err := jsonMarshal(RefreshTokenData{UserID: userID})
	if err != nil {
		return "", err
	}
	if err := c.Set(ctx, refreshTokenPrefix+token, data, ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// ValidateRefreshToken 從快取讀回 token 對應的使用者
func ValidateRefreshToken(ctx context.Context, c cache.Cache, token string) (*RefreshTokenData, error) {
	val, err := c.Get(ctx, refreshTokenPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrInvalidRefreshToken
	}
	if err != nil {
		return nil, err
	}

	var data RefreshTokenData
	if err := jsonUnmarshal([]byte(val), &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// RevokeRefreshToken 刪除 token；已不存在時回傳 ErrInvalidRefreshToken，確保同一 token 只能輪替一次
func RevokeRefreshToken(ctx context.Context, c cache.Cache, token string) error {
	n, err := c.Del(ctx, refreshTokenPrefix+token).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInvalidRefreshToken
	}
	return nil
}
