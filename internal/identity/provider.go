package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"mangashelf/internal/config"
	"mangashelf/internal/session"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailInUse         = errors.New("email already in use")
	ErrInvalidToken       = errors.New("invalid token")
)

// Provider is the identity source for the engine: it authenticates users
// against the user store and pushes every sign-in/out transition into the
// shared session state, which is what drives the library binding.
type Provider struct {
	users     UserRepository
	session   *session.State
	jwtSecret string
	tokenTTL  time.Duration
}

func NewProvider(users UserRepository, sess *session.State, cfg *config.Config) *Provider {
	return &Provider{
		users:     users,
		session:   sess,
		jwtSecret: cfg.JWTSecret,
		tokenTTL:  cfg.AccessTokenTTL,
	}
}

// SignUp registers a new user, signs them in and returns an access token.
func (p *Provider) SignUp(ctx context.Context, email, password string) (*session.Identity, string, error) {
	email = strings.TrimSpace(email)
	password = strings.TrimSpace(password)

	// Only a confirmed miss means the email is free; a lookup failure
	// must not fall through to Create.
	if _, err := p.users.FindByEmail(ctx, email); err == nil {
		return nil, "", ErrEmailInUse
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", fmt.Errorf("check email availability: %w", err)
	}

	hashedPassword, err := HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	user := &User{
		ID:       uuid.New().String(),
		Email:    email,
		Password: hashedPassword,
	}

	if err := p.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	return p.establishSession(user)
}

// SignIn authenticates an existing user, signs them in and returns an
// access token.
func (p *Provider) SignIn(ctx context.Context, email, password string) (*session.Identity, string, error) {
	email = strings.TrimSpace(email)
	password = strings.TrimSpace(password)

	user, err := p.users.FindByEmail(ctx, email)
	if err != nil {
		// Dummy compare to mitigate timing attacks (always take same time)
		VerifyPassword("$2a$10$7EqJtq98hPqEX7fNZaFWoOHi6VbU5h6K9v8u5rO0m3j0h6dX5r8e", password)
		return nil, "", ErrInvalidCredentials
	}

	if err := VerifyPassword(user.Password, password); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	return p.establishSession(user)
}

// SignOut clears the current session.
func (p *Provider) SignOut() {
	p.session.Clear()
}

// CurrentIdentity returns the signed-in identity or nil.
func (p *Provider) CurrentIdentity() *session.Identity {
	return p.session.Current()
}

func (p *Provider) establishSession(user *User) (*session.Identity, string, error) {
	token, err := p.generateAccessToken(user)
	if err != nil {
		return nil, "", err
	}

	identity := &session.Identity{ID: user.ID, Email: user.Email}
	p.session.Set(identity)
	return identity, token, nil
}

func (p *Provider) generateAccessToken(user *User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(p.tokenTTL).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(p.jwtSecret))
}

// ValidateToken parses and verifies an access token, returning the
// identity it was issued to.
func (p *Provider) ValidateToken(tokenString string) (*session.Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(p.jwtSecret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	userID, _ := claims["user_id"].(string)
	email, _ := claims["email"].(string)
	if userID == "" {
		return nil, ErrInvalidToken
	}

	return &session.Identity{ID: userID, Email: email}, nil
}
