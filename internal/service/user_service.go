// Package service implements the business rules of the application. Every
// mutation is validated here, inside the transaction that performs the
// write, and violations are reported as a complete list rather than
// first-failure-only.
package service

import (
	"context"
	"strings"

	"stayspot/internal/models"
	"stayspot/internal/repository"
	"stayspot/internal/validation"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService owns user account rules: case-insensitive email/username
// uniqueness, password hashing, and profile updates.
type UserService struct {
	db       *gorm.DB
	userRepo repository.UserRepository
}

// RegisterInput carries the fields for a new account.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Username  string
	Password  string
}

// UpdateProfileInput carries a partial profile update.
type UpdateProfileInput struct {
	UserID    uint
	FirstName string
	LastName  string
	Email     string
	Username  string
}

// NewUserService creates a UserService.
func NewUserService(db *gorm.DB, userRepo repository.UserRepository) *UserService {
	return &UserService{db: db, userRepo: userRepo}
}

// Register creates a new user. Email and username are normalized to lower
// case so uniqueness is case-insensitive. Uniqueness is re-checked inside
// the transaction that performs the insert.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	username := strings.ToLower(strings.TrimSpace(in.Username))

	v := models.NewViolations(models.CodeValidationError, "Validation error")
	if strings.TrimSpace(in.FirstName) == "" {
		v.Add("First name is required")
	}
	if strings.TrimSpace(in.LastName) == "" {
		v.Add("Last name is required")
	}
	if err := validation.ValidateEmail(email); err != nil {
		v.Add("%s", err.Error())
	}
	if err := validation.ValidateUsername(username); err != nil {
		v.Add("%s", err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		v.Add("%s", err.Error())
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		FirstName:      strings.TrimSpace(in.FirstName),
		LastName:       strings.TrimSpace(in.LastName),
		Email:          email,
		Username:       username,
		HashedPassword: string(hashed),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.NewUserRepository(tx)

		var dup []string
		if existing, err := repo.GetByEmail(ctx, email); err != nil {
			return err
		} else if existing != nil {
			dup = append(dup, "email")
		}
		if existing, err := repo.GetByUsername(ctx, username); err != nil {
			return err
		} else if existing != nil {
			dup = append(dup, "username")
		}
		if len(dup) > 0 {
			return models.NewDuplicateFieldError(dup...)
		}

		return repo.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies credentials against the stored bcrypt hash. The
// login identifier may be an email or a username.
func (s *UserService) Authenticate(ctx context.Context, credential, password string) (*models.User, error) {
	credential = strings.ToLower(strings.TrimSpace(credential))

	user, err := s.userRepo.GetByEmail(ctx, credential)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user, err = s.userRepo.GetByUsername(ctx, credential)
		if err != nil {
			return nil, err
		}
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	return user, nil
}

// GetUserByID returns a single user.
func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// ListUsers returns a page of users.
func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

// UpdateProfile applies a partial update, re-checking uniqueness for any
// changed email or username (excluding the user's own row).
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	var updated *models.User

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.NewUserRepository(tx)

		user, err := repo.GetByID(ctx, in.UserID)
		if err != nil {
			return err
		}

		var dup []string
		if in.Email != "" {
			email := strings.ToLower(strings.TrimSpace(in.Email))
			if err := validation.ValidateEmail(email); err != nil {
				return models.NewValidationError(err.Error())
			}
			if existing, err := repo.GetByEmail(ctx, email); err != nil {
				return err
			} else if existing != nil && existing.ID != user.ID {
				dup = append(dup, "email")
			}
			user.Email = email
		}
		if in.Username != "" {
			username := strings.ToLower(strings.TrimSpace(in.Username))
			if err := validation.ValidateUsername(username); err != nil {
				return models.NewValidationError(err.Error())
			}
			if existing, err := repo.GetByUsername(ctx, username); err != nil {
				return err
			} else if existing != nil && existing.ID != user.ID {
				dup = append(dup, "username")
			}
			user.Username = username
		}
		if len(dup) > 0 {
			return models.NewDuplicateFieldError(dup...)
		}

		if in.FirstName != "" {
			user.FirstName = strings.TrimSpace(in.FirstName)
		}
		if in.LastName != "" {
			user.LastName = strings.TrimSpace(in.LastName)
		}

		if err := repo.Update(ctx, user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
