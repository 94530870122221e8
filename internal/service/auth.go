package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/Skotchmaster/shopfront/internal/events"
	"github.com/Skotchmaster/shopfront/internal/models"
	"github.com/Skotchmaster/shopfront/internal/repo"
	"github.com/Skotchmaster/shopfront/pkg/hash"
	"github.com/Skotchmaster/shopfront/pkg/logging"
	authmw "github.com/Skotchmaster/shopfront/pkg/middleware/auth"
	"github.com/Skotchmaster/shopfront/pkg/tokens"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuthService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
	Events        EventPublisher
}

type RegisterInput struct {
	UserName string
	Email    string
	Password string
}

type LoginResult struct {
	tokens.Pair
	User *models.User
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	return s.register(ctx, in, authmw.RoleUser)
}

func (s *AuthService) register(ctx context.Context, in RegisterInput, role string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	name := strings.TrimSpace(in.UserName)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if name == "" || email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: userName, email and password are required", ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email", ErrValidation)
	}

	pwHash, err := hash.HashPassword(in.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}
	user := &models.User{
		UserName:     name,
		Email:        email,
		PasswordHash: pwHash,
		Role:         role,
	}
	if err := s.Repo.CreateUserIfNotExists(ctx, user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			l.Warn("register_error", "status", 409, "reason", "user already exist")
			return nil, fmt.Errorf("%w: User already exists with the same email or user name! Please try again", ErrConflict)
		}
		l.Error("register_error", "status", 500, "error", err)
		return nil, err
	}

	publish(ctx, s.Events, events.TopicUsers, user.ID.String(), "user_registered", map[string]any{"userId": user.ID.String(), "role": role})
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "unknown email")
			return nil, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "wrong password", "user_id", user.ID)
		return nil, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	}

	pair, row, err := s.issue(user.ID.String(), user.Role)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.SaveRefreshToken(ctx, row); err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}
	return &LoginResult{Pair: *pair, User: user}, nil
}

// Refresh exchanges a refresh token for a new pair. The presented token is
// revoked, so each refresh token works once.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*tokens.Pair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid refresh token", ErrUnauthorized)
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, fmt.Errorf("%w: invalid refresh token", ErrUnauthorized)
	}

	pair, row, err := s.issue(claims.Subject, claims.Role)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.RotateRefreshToken(ctx, claims.ID, row); err != nil {
		if errors.Is(err, repo.ErrTokenNotUsable) || errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("refresh_rejected", "jti", claims.ID, "error", err)
			return nil, fmt.Errorf("%w: refresh token expired or revoked", ErrUnauthorized)
		}
		return nil, err
	}
	return pair, nil
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.Repo.RevokeRefreshToken(ctx, tokens.Sha256Hex(refreshToken))
}

func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: Unauthorised user!", ErrUnauthorized)
	}
	user, err := s.Repo.GetUserByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: Unauthorised user!", ErrUnauthorized)
	}
	return user, err
}

// EnsureAdmin creates the bootstrap admin account when it does not exist yet.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	if _, err := s.Repo.GetUserByEmail(ctx, strings.ToLower(email)); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	name, _, _ := strings.Cut(email, "@")
	_, err := s.register(ctx, RegisterInput{UserName: name, Email: email, Password: password}, authmw.RoleAdmin)
	if errors.Is(err, ErrConflict) {
		return nil
	}
	return err
}

func (s *AuthService) issue(subject, role string) (*tokens.Pair, *models.RefreshToken, error) {
	userID, err := uuid.Parse(subject)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: invalid subject", ErrUnauthorized)
	}

	now := time.Now()
	accessExp := now.Add(tokens.AccessTTL)
	refreshExp := now.Add(tokens.RefreshTTL)

	access, err := tokens.NewAccessToken(s.JWTSecret, subject, role, accessExp)
	if err != nil {
		return nil, nil, err
	}
	jti := tokens.NewJTI()
	refresh, err := tokens.NewRefreshToken(s.RefreshSecret, subject, role, jti, refreshExp)
	if err != nil {
		return nil, nil, err
	}

	row := &models.RefreshToken{
		UserID:    userID,
		Role:      role,
		TokenHash: tokens.Sha256Hex(refresh),
		JTI:       jti,
		ExpiresAt: refreshExp.Unix(),
	}
	return &tokens.Pair{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, row, nil
}
