package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"lumora/internal/models"
	"lumora/internal/repositories"
	"lumora/internal/services/wallet"
	"lumora/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

// RegisterRequest carries the fields needed to create an account.
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	IsCreator   bool   `json:"is_creator"`
}

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, string, string, error)
	RefreshTokens(refreshToken string) (string, string, error)
	GetUserByID(id uint) (*models.User, error)
}

type service struct {
	userRepo repositories.UserRepository
	wallets  wallet.Service
}

func NewService(userRepo repositories.UserRepository, wallets wallet.Service) Service {
	if userRepo == nil {
		panic("user repository is required")
	}
	if wallets == nil {
		panic("wallet service is required")
	}
	return &service{
		userRepo: userRepo,
		wallets:  wallets,
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, errors.New("valid email is required")
	}
	if len(req.Password) < 8 {
		return nil, ErrWeakPassword
	}
	if strings.TrimSpace(req.DisplayName) == "" {
		return nil, errors.New("display name is required")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:       email,
		Password:    string(hashed),
		DisplayName: strings.TrimSpace(req.DisplayName),
		Role:        "user",
		IsCreator:   req.IsCreator,
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	// Every account gets a coin wallet up front so the first top-up or
	// gift does not race wallet creation.
	w, err := s.wallets.GetOrCreate(ctx, user.ID)
	if err != nil {
		log.Printf("wallet creation failed for user %d: %v", user.ID, err)
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}
	user.WalletID = &w.ID
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to link wallet: %w", err)
	}

	user.Password = ""
	return user, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*models.User, string, string, error) {
	user, err := s.userRepo.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		log.Printf("login failed: incorrect password for user %d", user.ID)
		return nil, "", "", ErrInvalidCredentials
	}

	accessToken, refreshToken, err := utils.GenerateTokens(claimsFor(user))
	if err != nil {
		log.Println("error generating tokens:", err)
		return nil, "", "", errors.New("error generating tokens")
	}

	user.Password = ""
	return user, accessToken, refreshToken, nil
}

func (s *service) RefreshTokens(refreshToken string) (string, string, error) {
	_, claims, err := utils.ParseToken(refreshToken)
	if err != nil {
		return "", "", ErrInvalidRefresh
	}

	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		return "", "", ErrInvalidRefresh
	}

	return utils.GenerateTokens(claimsFor(user))
}

func (s *service) GetUserByID(id uint) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

// claimsFor builds token claims with permissions derived from the user's
// current role and creator flag, so a promotion takes effect on next login.
func claimsFor(user *models.User) *models.UserClaims {
	permissions := models.GetDefaultPermissions(user.Role)
	if user.IsCreator {
		permissions = append(permissions, models.CreatorPermissions()...)
	}
	return &models.UserClaims{
		UserID:      user.ID,
		Email:       user.Email,
		Role:        user.Role,
		IsCreator:   user.IsCreator,
		Permissions: permissions,
	}
}
