package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/agamariel/clickqueue/internal/auth"
	"github.com/agamariel/clickqueue/internal/models"
	"github.com/agamariel/clickqueue/internal/storage"
	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmptyCredentials   = errors.New("login and password are required")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	// ErrRegistrationClosed - учётная запись владельца уже существует.
	ErrRegistrationClosed = errors.New("owner account already exists")
)

// minPasswordLen - минимальная длина пароля владельца.
const minPasswordLen = 8

// OwnerService - регистрация и вход владельца фотоателье.
type OwnerService interface {
	Register(ctx context.Context, login, password string) (*models.Owner, string, error)
	Login(ctx context.Context, login, password string) (*models.Owner, string, error)
}

// OwnerServiceImpl реализует OwnerService.
type OwnerServiceImpl struct {
	owners   storage.OwnerStorage
	secret   string
	tokenTTL time.Duration
}

// NewOwnerService создаёт новый экземпляр OwnerService.
func NewOwnerService(owners storage.OwnerStorage, secret string, tokenTTL time.Duration) *OwnerServiceImpl {
	return &OwnerServiceImpl{
		owners:   owners,
		secret:   secret,
		tokenTTL: tokenTTL,
	}
}

// Register создаёт учётную запись владельца и сразу выдаёт токен.
// У фотоателье один владелец: после первой регистрации эндпоинт
// закрыт и возвращает ErrRegistrationClosed.
func (s *OwnerServiceImpl) Register(ctx context.Context, login, password string) (*models.Owner, string, error) {
	if login == "" || password == "" {
		return nil, "", ErrEmptyCredentials
	}
	if len(password) < minPasswordLen {
		return nil, "", ErrWeakPassword
	}

	count, err := s.owners.Count(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to count owners: %w", err)
	}
	if count > 0 {
		return nil, "", ErrRegistrationClosed
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	owner := &models.Owner{
		ID:           uuid.New(),
		Login:        login,
		PasswordHash: passwordHash,
	}

	if err := s.owners.Create(ctx, owner); err != nil {
		if errors.Is(err, storage.ErrLoginTaken) {
			return nil, "", storage.ErrLoginTaken
		}
		return nil, "", fmt.Errorf("failed to create owner: %w", err)
	}

	token, err := s.issueToken(owner)
	if err != nil {
		return nil, "", err
	}

	return owner, token, nil
}

// Login аутентифицирует владельца по логину и паролю.
func (s *OwnerServiceImpl) Login(ctx context.Context, login, password string) (*models.Owner, string, error) {
	if login == "" || password == "" {
		return nil, "", ErrEmptyCredentials
	}

	owner, err := s.owners.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, storage.ErrOwnerNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to get owner: %w", err)
	}

	if !auth.CheckPassword(password, owner.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(owner)
	if err != nil {
		return nil, "", err
	}

	return owner, token, nil
}

// issueToken выпускает JWT для учётной записи владельца.
func (s *OwnerServiceImpl) issueToken(owner *models.Owner) (string, error) {
	token, err := auth.NewOwnerToken(owner, s.secret, s.tokenTTL)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	return token, nil
}
