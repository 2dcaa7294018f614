package admin

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrInvalidToken    = errors.New("invalid token")
)

const tokenValidity = 24 * time.Hour

// AuthService issues and validates the bearer tokens that guard the scan
// trigger. The admin password is only ever held as a bcrypt hash.
type AuthService struct {
	passwordHash []byte
	jwtSecret    []byte
}

type claims struct {
	Admin bool `json:"admin"`
	jwt.RegisteredClaims
}

func NewAuthService(adminPassword, jwtSecret string) (*AuthService, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	secret := []byte(jwtSecret)
	if jwtSecret == "" {
		// Ephemeral secret: tokens stop working on restart, which is
		// acceptable for an unconfigured deployment.
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, err
		}
	}

	return &AuthService{
		passwordHash: hash,
		jwtSecret:    secret,
	}, nil
}

func (a *AuthService) ValidatePassword(password string) error {
	if err := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)); err != nil {
		return ErrInvalidPassword
	}
	return nil
}

func (a *AuthService) GenerateToken() (string, error) {
	c := &claims{
		Admin: true,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenValidity)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString(a.jwtSecret)
}

func (a *AuthService) ValidateToken(tokenString string) error {
	token, err := jwt.ParseWithClaims(tokenString, &claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return a.jwtSecret, nil
	})
	if err != nil {
		return ErrInvalidToken
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid || !c.Admin {
		return ErrInvalidToken
	}
	return nil
}
