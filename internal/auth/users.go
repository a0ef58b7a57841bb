package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/GoMenu-Admin/GoMenu-Admin/internal/db/models"
)

// Authenticate checks a username and password against the local database.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User

	err := s.db.WithContext(ctx).Preload("Role").Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if !user.Active {
		return nil, ErrUserAccountDisabled
	}

	if !user.VerifyPassword(password) {
		return nil, ErrInvalidPassword
	}

	return &user, nil
}

// CreateUser creates an active local user with the given role.
func (s *Service) CreateUser(ctx context.Context, username, email, password, roleName string) (*models.User, error) {
	var existing models.User

	err := s.db.WithContext(ctx).Where("username = ? OR email = ?", username, email).First(&existing).Error
	if err == nil {
		return nil, ErrUserNameOrEmailExists
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	role, err := s.findRole(ctx, s.db, roleName)
	if err != nil {
		return nil, err
	}

	hashed, err := models.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Active:      true,
		Username:    username,
		Email:       email,
		Password:    hashed,
		DisplayName: username,
		RoleID:      role.ID,
	}

	if err = s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	user.Role = *role

	return &user, nil
}

// GetUserByID retrieves an active user by ID.
func (s *Service) GetUserByID(ctx context.Context, userID uint64) (*models.User, error) {
	var user models.User

	err := s.db.WithContext(ctx).Preload("Role").Where("active = ?", true).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &user, nil
}

// CountUsers returns the number of users.
func (s *Service) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}

	return n, nil
}

// UserPage is one page of the user list.
type UserPage struct {
	Users []models.User
	Total int64
}

// ListUsers returns the users matching search, newest first.
func (s *Service) ListUsers(ctx context.Context, search string, offset, limit int) (UserPage, error) {
	var (
		out UserPage
		tx  = s.db.WithContext(ctx).Model(&models.User{})
	)

	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		tx = tx.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ? OR LOWER(display_name) LIKE ?", like, like, like)
	}

	if err := tx.Count(&out.Total).Error; err != nil {
		return out, fmt.Errorf("failed to count users: %w", err)
	}

	if err := tx.Preload("Role").Order("id DESC").Offset(offset).Limit(limit).Find(&out.Users).Error; err != nil {
		return out, fmt.Errorf("failed to list users: %w", err)
	}

	return out, nil
}

// GetUser retrieves a user by ID, active or not.
func (s *Service) GetUser(ctx context.Context, userID uint64) (*models.User, error) {
	var user models.User

	err := s.db.WithContext(ctx).Preload("Role").First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &user, nil
}

// UpdateUser changes role, status and display name of a user. An empty password keeps the current one.
func (s *Service) UpdateUser(ctx context.Context, userID uint64, roleName, displayName, password string, active bool) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		role, err := s.findRole(ctx, tx, roleName)
		if err != nil {
			return err
		}

		updates := map[string]any{
			"role_id":      role.ID,
			"display_name": displayName,
			"active":       active,
		}

		if password != "" {
			hashed, errHash := models.HashPassword(password)
			if errHash != nil {
				return fmt.Errorf("failed to hash password: %w", errHash)
			}

			updates["password"] = hashed
		}

		res := tx.Model(&models.User{}).Where("id = ?", userID).Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("failed to update user: %w", res.Error)
		}

		if res.RowsAffected == 0 {
			return ErrUserNotFound
		}

		return nil
	})
}
