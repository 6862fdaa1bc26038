package auth

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Identity 는 검증된 토큰의 주체다. role 클레임이 없으면 RoleUser 로 본다.
type Identity struct {
	UID  string
	Role string
}

// JWTManager 는 HS256 단일 시크릿으로 JWT 를 검증한다.
// 토큰은 외부 identity provider 가 발급하며 sub 클레임이 사용자 uid 다.
// Sign 은 로컬 개발/테스트용이다.
type JWTManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewJWTManagerFromEnv 는 환경변수에서 시크릿/issuer 를 읽어 JWTManager 를 생성한다.
//
// - JWT_SECRET: HS256 서명 시크릿(필수)
// - JWT_ISSUER: 기대하는 iss 클레임(선택, 기본값 "post-pilot")
func NewJWTManagerFromEnv() (*JWTManager, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	issuer := os.Getenv("JWT_ISSUER")
	if issuer == "" {
		issuer = "post-pilot"
	}

	return NewJWTManager(secret, issuer, 24*time.Hour), nil
}

func NewJWTManager(secret, issuer string, ttl time.Duration) *JWTManager {
	return &JWTManager{secret: []byte(secret), issuer: issuer, ttl: ttl}
}

func (m *JWTManager) Sign(uid string) (string, error) {
	return m.SignWithRole(uid, RoleUser)
}

// SignWithRole 은 role 클레임을 포함한 토큰을 발급한다. (결제 콜백 등 운영용 토큰)
func (m *JWTManager) SignWithRole(uid, role string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  uid,
		"role": role,
		"iss":  m.issuer,
		"exp":  time.Now().Add(m.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse 는 토큰을 검증하고 uid(sub) 와 role 을 반환한다.
func (m *JWTManager) Parse(tokenString string) (Identity, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return Identity{}, err
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return Identity{}, fmt.Errorf("invalid token claims")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return Identity{}, fmt.Errorf("token missing sub claim")
	}
	role, _ := claims["role"].(string)
	if role == "" {
		role = RoleUser
	}
	return Identity{UID: sub, Role: role}, nil
}
