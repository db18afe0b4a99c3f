package service

import (
	"context"
	"strings"
	"time"

	"github.com/ikkim/emporium-backend/internal/app/model"
	"github.com/ikkim/emporium-backend/internal/app/repository"
	"github.com/ikkim/emporium-backend/internal/db"
	apperrors "github.com/ikkim/emporium-backend/internal/errors"
	"github.com/ikkim/emporium-backend/internal/validation"
	"github.com/ikkim/emporium-backend/pkg/logger"
	"github.com/ikkim/emporium-backend/pkg/util"
	"gorm.io/gorm"
)

const (
	msgEmailTaken           = "user with this email already exists."
	msgUnableToAuthenticate = "Unable to authenticate user"
)

// TokenRevoker records that a token may no longer be used
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
}

type RegisterInput struct {
	Email    string
	Name     string
	Password string
}

// UpdateUserInput holds the fields present in a profile patch
type UpdateUserInput struct {
	Email    *string
	Name     *string
	Password *string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*model.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context, claims *util.Claims) error
	GetUserByID(ctx context.Context, id uint) (*model.User, error)
	UpdateProfile(ctx context.Context, userID uint, input UpdateUserInput) (*model.User, error)
}

type authService struct {
	db           *gorm.DB
	userRepo     repository.UserRepository
	jwtSecret    string
	accessExpiry time.Duration
	revoker      TokenRevoker
}

// NewAuthService wires authentication. revoker may be nil, in which case
// logout succeeds without invalidating the token.
func NewAuthService(
	database *gorm.DB,
	userRepo repository.UserRepository,
	jwtSecret string,
	accessExpiry time.Duration,
	revoker TokenRevoker,
) AuthService {
	return &authService{
		db:           database,
		userRepo:     userRepo,
		jwtSecret:    jwtSecret,
		accessExpiry: accessExpiry,
		revoker:      revoker,
	}
}

// normalizeEmail lowercases the domain part; the local part is case-sensitive.
func normalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	local, domain, ok := strings.Cut(email, "@")
	if !ok {
		return email
	}
	return local + "@" + strings.ToLower(domain)
}

func emailTaken() error {
	errs := validation.NewErrors()
	errs.AddMessage(fieldEmail, validation.CodeUnique, msgEmailTaken)
	return errs.Err()
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	email := normalizeEmail(input.Email)
	logger.Info("Attempting user registration", map[string]interface{}{
		"email": email,
	})

	errs := validation.NewErrors()
	errs.Add(validation.Name(fieldName, input.Name, ""))

	hashedPassword, err := util.HashPassword(input.Password)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}

	user := &model.User{
		Email:        email,
		Name:         strings.TrimSpace(input.Name),
		PasswordHash: hashedPassword,
	}

	err = db.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		users := s.userRepo.WithTx(tx)
		exists, err := users.EmailExists(ctx, email, 0)
		if err != nil {
			return err
		}
		if exists {
			errs.AddMessage(fieldEmail, validation.CodeUnique, msgEmailTaken)
		}
		if err := errs.Err(); err != nil {
			return err
		}
		if err := users.Create(ctx, user); err != nil {
			if apperrors.IsUniqueViolation(err) {
				return emailTaken()
			}
			return err
		}
		return nil
	})
	if err != nil {
		logger.Warn("User registration rejected", map[string]interface{}{
			"email": email,
			"error": err.Error(),
		})
		return nil, err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return user, nil
}

// Login exchanges credentials for a bearer token. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)
	logger.Info("Attempting user login", map[string]interface{}{
		"email": email,
	})

	rejected := func() error {
		errs := validation.NewErrors()
		errs.AddMessage(validation.NonFieldErrors, validation.CodeInvalid, msgUnableToAuthenticate)
		return errs.Err()
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if apperrors.IsExpected(err) {
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"email": email,
			})
			return "", rejected()
		}
		return "", err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"user_id": user.ID,
		})
		return "", rejected()
	}

	token, err := util.GenerateToken(user.ID, user.Email, s.jwtSecret, s.accessExpiry)
	if err != nil {
		logger.Error("Failed to generate token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return "", err
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID,
	})
	return token, nil
}

// Logout revokes the presented token for the rest of its lifetime
func (s *authService) Logout(ctx context.Context, claims *util.Claims) error {
	if s.revoker == nil || claims == nil {
		return nil
	}
	if err := s.revoker.Revoke(ctx, claims.ID, claims.RemainingValidity()); err != nil {
		logger.Error("Failed to revoke token", err, map[string]interface{}{
			"user_id": claims.UserID,
		})
		return err
	}

	logger.Info("User logged out", map[string]interface{}{
		"user_id": claims.UserID,
	})
	return nil
}

func (s *authService) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "User")
	}
	return user, nil
}

// UpdateProfile applies the fields present in input; absent fields keep their values.
func (s *authService) UpdateProfile(ctx context.Context, userID uint, input UpdateUserInput) (*model.User, error) {
	logger.Info("Updating user profile", map[string]interface{}{
		"user_id": userID,
	})

	errs := validation.NewErrors()
	fields := map[string]interface{}{}
	if input.Name != nil {
		errs.Add(validation.Name(fieldName, *input.Name, ""))
		fields["name"] = strings.TrimSpace(*input.Name)
	}
	var email string
	if input.Email != nil {
		email = normalizeEmail(*input.Email)
		fields["email"] = email
	}
	if input.Password != nil {
		hashed, err := util.HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		fields["password_hash"] = hashed
	}

	var user *model.User
	err := db.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		users := s.userRepo.WithTx(tx)
		current, err := users.FindByID(ctx, userID)
		if err != nil {
			return notFound(err, "User")
		}

		if input.Email != nil {
			exists, err := users.EmailExists(ctx, email, userID)
			if err != nil {
				return err
			}
			if exists {
				errs.AddMessage(fieldEmail, validation.CodeUnique, msgEmailTaken)
			}
		}
		if err := errs.Err(); err != nil {
			return err
		}

		if len(fields) > 0 {
			if err := users.Update(ctx, current, fields); err != nil {
				if apperrors.IsUniqueViolation(err) {
					return emailTaken()
				}
				return err
			}
		}

		user, err = users.FindByID(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info("User profile updated", map[string]interface{}{
		"user_id": userID,
	})
	return user, nil
}
