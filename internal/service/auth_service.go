package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"ai-therapy-be/internal/apperror"
	"ai-therapy-be/internal/dto"
	"ai-therapy-be/internal/entity"
	"ai-therapy-be/internal/pkg/logger"
	"ai-therapy-be/internal/pkg/mailer"
	"ai-therapy-be/internal/repository/unitofwork"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenLifetime      = 24 * time.Hour
	resetTokenLifetime = 15 * time.Minute
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest, deviceInfo string) (*dto.LoginResponse, error)
	Logout(ctx context.Context, token string) error
	ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest)
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error
}

type authService struct {
	uowFactory unitofwork.RepositoryFactory
	mailer     mailer.IEmailService
	logger     logger.ILogger
	jwtSecret  []byte
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	log logger.ILogger,
	jwtSecret string,
) IAuthService {
	return &authService{
		uowFactory: uowFactory,
		mailer:     emailService,
		logger:     log,
		jwtSecret:  []byte(jwtSecret),
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	userRepo := uow.UserRepository()

	existing, err := userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperror.NewStorage("find user by email", err)
	}
	if existing != nil {
		return nil, apperror.NewValidation("email is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
	}
	if err := userRepo.Create(ctx, user); err != nil {
		return nil, apperror.NewStorage("create user", err)
	}

	s.logger.Info("auth", "user registered", map[string]interface{}{
		"user_id": user.Id.String(),
	})

	return &dto.RegisterResponse{
		Id:        user.Id,
		Email:     user.Email,
		FullName:  user.FullName,
		CreatedAt: user.CreatedAt,
	}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest, deviceInfo string) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	userRepo := uow.UserRepository()

	user, err := userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperror.NewStorage("find user by email", err)
	}
	if user == nil {
		return nil, apperror.NewForbidden("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.NewForbidden("invalid email or password")
	}

	expiresAt := time.Now().Add(tokenLifetime)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.Id.String(),
		"exp":     expiresAt.Unix(),
		"iat":     time.Now().Unix(),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	session := &entity.UserSession{
		UserId:     user.Id,
		TokenHash:  hashToken(signed),
		ExpiresAt:  expiresAt,
		DeviceInfo: deviceInfo,
	}
	if err := userRepo.CreateUserSession(ctx, session); err != nil {
		return nil, apperror.NewStorage("create login session", err)
	}

	return &dto.LoginResponse{
		Token:     signed,
		ExpiresAt: expiresAt,
		User: dto.UserInfo{
			Id:       user.Id,
			Email:    user.Email,
			FullName: user.FullName,
		},
	}, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.UserRepository().DeleteUserSessionByTokenHash(ctx, hashToken(token)); err != nil {
		return apperror.NewStorage("delete login session", err)
	}
	return nil
}

// ForgotPassword never reports whether the account exists.
func (s *authService) ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	userRepo := uow.UserRepository()

	user, err := userRepo.FindByEmail(ctx, req.Email)
	if err != nil || user == nil {
		return
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		s.logger.Error("auth", "failed to generate reset token", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	plainToken := hex.EncodeToString(raw)

	resetToken := &entity.PasswordResetToken{
		UserId:    user.Id,
		TokenHash: hashToken(plainToken),
		ExpiresAt: time.Now().Add(resetTokenLifetime),
	}
	if err := userRepo.CreatePasswordResetToken(ctx, resetToken); err != nil {
		s.logger.Error("auth", "failed to store reset token", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	if err := s.mailer.SendResetToken(user.Email, plainToken); err != nil {
		s.logger.Error("auth", "failed to send reset email", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (s *authService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	userRepo := uow.UserRepository()

	token, err := userRepo.FindPasswordResetToken(ctx, hashToken(req.Token))
	if err != nil {
		return apperror.NewStorage("find reset token", err)
	}
	if token == nil || token.Used || time.Now().After(token.ExpiresAt) {
		return apperror.NewValidation("reset token is invalid or expired")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := userRepo.UpdatePassword(ctx, token.UserId, string(hash)); err != nil {
		return apperror.NewStorage("update password", err)
	}
	if err := userRepo.MarkTokenUsed(ctx, token.Id); err != nil {
		return apperror.NewStorage("mark token used", err)
	}

	return nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
