package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"unihub/pkg/models"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// TokenService verifies HS256 tokens issued by the identity provider.
// Sign exists for development tooling and tests.
type TokenService struct {
	Secret   []byte
	Issuer   string
	Duration time.Duration
}

type Claims struct {
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	Role        string `json:"role,omitempty"`
	LoginMethod string `json:"login_method,omitempty"`
	jwt.RegisteredClaims
}

// OpenID is the identity provider's subject id.
func (c *Claims) OpenID() string { return c.Subject }

func (c *Claims) IsAdmin() bool { return c.Role == RoleAdmin }

func NormalizeRole(r string) string {
	if r == RoleAdmin {
		return RoleAdmin
	}
	return RoleUser
}

func (ts TokenService) Sign(u models.User) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(ts.Duration)

	claims := Claims{
		Name:        u.Name,
		Email:       u.Email,
		Role:        NormalizeRole(u.Role),
		LoginMethod: u.LoginMethod,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.Issuer,
			Subject:   u.OpenID,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(ts.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return s, exp, nil
}

func (ts TokenService) Parse(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if ts.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(ts.Issuer))
	}

	tok, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		// enforce HS256
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return ts.Secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	claims.Role = NormalizeRole(claims.Role)
	return claims, nil
}
