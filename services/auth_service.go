package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"market/constants"
	"market/dto"
	apperrors "market/errors"
	"market/models"
	"market/services/logger"

	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/idtoken"
	"gorm.io/gorm"
)

// GoogleVerifier validates a Google ID token for the given audience.
type GoogleVerifier func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

type AuthService struct {
	db             *gorm.DB
	tokens         *TokenService
	logger         logger.Logger
	googleClientID string
	verifyGoogle   GoogleVerifier
}

type AuthServiceOptions struct {
	DB             *gorm.DB
	Tokens         *TokenService
	Logger         logger.Logger
	GoogleClientID string
	VerifyGoogle   GoogleVerifier
}

func NewAuthService(opts AuthServiceOptions) *AuthService {
	verify := opts.VerifyGoogle
	if verify == nil {
		verify = idtoken.Validate
	}
	return &AuthService{
		db:             opts.DB,
		tokens:         opts.Tokens,
		logger:         opts.Logger,
		googleClientID: opts.GoogleClientID,
		verifyGoogle:   verify,
	}
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Register tạo tài khoản customer hoặc provider
func (s *AuthService) Register(ctx context.Context, input dto.RegisterInput) (*models.User, error) {
	if input.Role != constants.RoleCustomer && input.Role != constants.RoleProvider {
		return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidRole, "Role must be customer or provider", nil)
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))

	var phone *string
	if p := strings.TrimSpace(input.PhoneNumber); p != "" {
		phone = &p
	}

	db := s.db.WithContext(ctx)
	var taken int64
	q := db.Model(&models.User{}).Where("email = ?", email)
	if phone != nil {
		q = q.Or("phone_number = ?", *phone)
	}
	if err := q.Count(&taken).Error; err != nil {
		return nil, dbError(err, apperrors.ErrUserNotFound)
	}
	if taken > 0 {
		return nil, apperrors.ErrUserAlreadyExists
	}

	hashed, err := HashPassword(input.Password)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidOperation, "Could not register", err)
	}

	user := &models.User{
		Name:        strings.TrimSpace(input.Name),
		Email:       email,
		Password:    hashed,
		PhoneNumber: phone,
		Role:        input.Role,
		Status:      constants.UserStatusActive,
	}
	if err := db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrUserAlreadyExists
		}
		return nil, dbError(err, apperrors.ErrUserNotFound)
	}
	s.logger.Info("✅ registered user %d (%s) role %d", user.ID, user.Email, user.Role)
	return user, nil
}

// Login accepts an email or a phone number as identifier.
func (s *AuthService) Login(ctx context.Context, input dto.LoginInput) (*dto.LoginResponse, error) {
	identifier := strings.ToLower(strings.TrimSpace(input.Identifier))

	var user models.User
	err := s.db.WithContext(ctx).
		Where("email = ? OR phone_number = ?", identifier, identifier).
		First(&user).Error
	if err != nil {
		return nil, dbError(err, apperrors.ErrInvalidPassword)
	}
	if user.Password == "" {
		return nil, apperrors.ErrInvalidPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return nil, apperrors.ErrInvalidPassword
	}
	if user.Status == constants.UserStatusBlocked {
		return nil, apperrors.ErrUserBlocked
	}
	return s.issue(&user)
}

// LoginWithGoogle verifies the ID token and signs the user in, creating a
// customer account on first use.
func (s *AuthService) LoginWithGoogle(ctx context.Context, input dto.GoogleLoginInput) (*dto.LoginResponse, error) {
	payload, err := s.verifyGoogle(ctx, input.IDToken, s.googleClientID)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidToken, "Invalid Google token", err)
	}
	email, _ := payload.Claims["email"].(string)
	verified, _ := payload.Claims["email_verified"].(bool)
	if email == "" || !verified {
		return nil, apperrors.NewAppError(apperrors.ErrCodeUnauthorized, "Email has not been verified", nil)
	}
	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)
	email = strings.ToLower(email)

	db := s.db.WithContext(ctx)
	var user models.User
	err = db.Where("email = ?", email).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		// Nếu chưa có tài khoản thì tạo tài khoản mới
		user = models.User{
			Name:   name,
			Email:  email,
			Avatar: picture,
			Role:   constants.RoleCustomer,
			Status: constants.UserStatusActive,
		}
		if err := db.Create(&user).Error; err != nil {
			return nil, dbError(err, apperrors.ErrUserNotFound)
		}
		s.logger.Info("✅ created google user %d (%s)", user.ID, user.Email)
	case err != nil:
		return nil, dbError(err, apperrors.ErrUserNotFound)
	}

	if user.Status == constants.UserStatusBlocked {
		return nil, apperrors.ErrUserBlocked
	}
	return s.issue(&user)
}

func (s *AuthService) issue(user *models.User) (*dto.LoginResponse, error) {
	token, err := s.tokens.GenerateToken(UserInfo{UserId: user.ID, Role: user.Role})
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, User: user}, nil
}
