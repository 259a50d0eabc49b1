// Package auth handles registration and credential verification.
// Registering a user also opens their wallet; the wallet service is the
// authority for everything that happens to it afterwards.
package auth

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"plata/internal/models"
	"plata/internal/repositories"
	"plata/internal/services/wallet"
	"plata/internal/utils"
	"plata/internal/validation"
)

var (
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrEmailTaken         = errors.New("email already exists")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const minPasswordLength = 8

type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*models.User, error)
	// Login verifies credentials and issues a session token.
	Login(ctx context.Context, username, password string) (*models.User, string, error)
	GetUserByID(id uint) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUserTokenVersion(userID uint) (int, error)
}

type service struct {
	userRepo  repositories.UserRepository
	walletSvc wallet.Service
}

func NewService(userRepo repositories.UserRepository, walletSvc wallet.Service) Service {
	if userRepo == nil {
		panic("user repo is required")
	}
	if walletSvc == nil {
		panic("wallet service is required")
	}
	return &service{userRepo: userRepo, walletSvc: walletSvc}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	if !validation.IsEmail(req.Email) {
		return nil, ErrInvalidEmail
	}
	if len(req.Password) < minPasswordLength {
		return nil, ErrWeakPassword
	}
	if existing, _ := s.userRepo.GetByEmail(req.Email); existing != nil {
		return nil, ErrEmailTaken
	}
	if existing, _ := s.userRepo.GetByUsername(req.Username); existing != nil {
		return nil, ErrUsernameTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	user := &models.User{
		Email:    req.Email,
		Username: req.Username,
		Password: string(hashed),
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	// Every account owns exactly one wallet, opened at registration.
	if _, err := s.walletSvc.CreateWallet(ctx, user.ID); err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("failed to create wallet for new user")
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
	}).Info("user registered")
	return user, nil
}

func (s *service) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		logrus.WithField("user_id", user.ID).Info("login failed: wrong password")
		return nil, "", ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(&models.UserClaims{
		UserID:       user.ID,
		Username:     user.Username,
		Email:        user.Email,
		TokenVersion: user.TokenVersion,
	})
	if err != nil {
		logrus.WithError(err).Error("failed to generate token")
		return nil, "", errors.New("error generating token")
	}

	return user, token, nil
}

func (s *service) GetUserByID(id uint) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

func (s *service) GetUserByUsername(username string) (*models.User, error) {
	return s.userRepo.GetByUsername(username)
}

func (s *service) GetUserTokenVersion(userID uint) (int, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return 0, err
	}
	return user.TokenVersion, nil
}
