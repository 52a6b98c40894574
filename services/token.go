package services

import (
	"fmt"
	"time"

	apperrors "market/errors"

	"github.com/golang-jwt/jwt/v5"
)

// UserInfo is the payload stored under the "userinfo" claim.
type UserInfo struct {
	UserId uint `json:"userid"`
	Role   int  `json:"role"`
}

type Claims struct {
	UserInfo UserInfo `json:"userinfo"`
	jwt.RegisteredClaims
}

type TokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration, issuer string) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: issuer,
		now:    time.Now,
	}
}

// GenerateToken ký access token HS256 cho user
func (s *TokenService) GenerateToken(info UserInfo) (string, error) {
	now := s.now()
	claims := Claims{
		UserInfo: info,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   fmt.Sprint(info.UserId),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies the signature and expiry and returns the user info.
func (s *TokenService) ParseToken(tokenString string) (UserInfo, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return UserInfo{}, apperrors.NewAppError(apperrors.ErrCodeInvalidToken, "Invalid token", err)
	}
	if claims.UserInfo.UserId == 0 {
		return UserInfo{}, apperrors.NewAppError(apperrors.ErrCodeInvalidToken, "Token has no user", nil)
	}
	return claims.UserInfo, nil
}
