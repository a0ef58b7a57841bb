package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/GoMenu-Admin/GoMenu-Admin/internal/db/models"
)

// Service provides authentication and authorization functionality.
type Service struct {
	db *gorm.DB
}

// NewService creates a new auth service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) userCapabilities(ctx context.Context, userID uint64) *gorm.DB {
	return s.db.WithContext(ctx).Table("capabilities").
		Joins("JOIN role_capabilities ON role_capabilities.capability_id = capabilities.id").
		Joins("JOIN users ON users.role_id = role_capabilities.role_id").
		Where("users.id = ? AND users.active = ?", userID, true)
}

// HasCapability checks if the user's role holds a capability. Inactive users hold none.
func (s *Service) HasCapability(ctx context.Context, userID uint64, capability string) (bool, error) {
	var count int64

	err := s.userCapabilities(ctx, userID).
		Where("capabilities.name = ?", capability).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check capability %s: %w", capability, err)
	}

	return count > 0, nil
}

// HasAllCapabilities checks if the user holds every capability given.
func (s *Service) HasAllCapabilities(ctx context.Context, userID uint64, capabilities ...string) (bool, error) {
	for _, c := range capabilities {
		has, err := s.HasCapability(ctx, userID, c)
		if err != nil {
			return false, err
		}

		if !has {
			return false, nil
		}
	}

	return true, nil
}

// GetUserCapabilities returns the sorted capabilities of the user's role.
func (s *Service) GetUserCapabilities(ctx context.Context, userID uint64) ([]string, error) {
	var caps []string

	err := s.userCapabilities(ctx, userID).
		Distinct("capabilities.name").
		Order("capabilities.name").
		Pluck("capabilities.name", &caps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user capabilities: %w", err)
	}

	return caps, nil
}

// RoleCapabilities returns the sorted capabilities of a role.
func (s *Service) RoleCapabilities(ctx context.Context, roleName string) ([]string, error) {
	role, err := s.findRole(ctx, s.db, roleName)
	if err != nil {
		return nil, err
	}

	var caps []string

	err = s.db.WithContext(ctx).Table("capabilities").
		Joins("JOIN role_capabilities ON role_capabilities.capability_id = capabilities.id").
		Where("role_capabilities.role_id = ?", role.ID).
		Order("capabilities.name").
		Pluck("capabilities.name", &caps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get capabilities of role %s: %w", roleName, err)
	}

	return caps, nil
}

func (s *Service) findRole(ctx context.Context, tx *gorm.DB, name string) (*models.Role, error) {
	var role models.Role

	err := tx.WithContext(ctx).Where("name = ?", name).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrRoleNotFound, name)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query role %s: %w", name, err)
	}

	return &role, nil
}

// GrantCapabilities adds capabilities to an existing role. Granting a capability the role
// already holds is a no-op.
func (s *Service) GrantCapabilities(ctx context.Context, roleName string, capabilities ...string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		role, err := s.findRole(ctx, tx, roleName)
		if err != nil {
			return err
		}

		for _, name := range capabilities {
			capability := models.Capability{Name: name}
			if err = tx.Where("name = ?", name).FirstOrCreate(&capability).Error; err != nil {
				return fmt.Errorf("failed to create capability %s: %w", name, err)
			}

			grant := models.RoleCapability{RoleID: role.ID, CapabilityID: capability.ID}
			if err = tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&grant).Error; err != nil {
				return fmt.Errorf("failed to grant %s to %s: %w", name, roleName, err)
			}
		}

		log.Debug().Str("role", roleName).Strs("capabilities", capabilities).Msg("capabilities granted")

		return nil
	})
}

// EnsureRole creates the role when missing and grants it capabilities.
func (s *Service) EnsureRole(ctx context.Context, name, displayName string, capabilities ...string) (*models.Role, error) {
	role := models.Role{Name: name, DisplayName: displayName, IsSystem: true}

	if err := s.db.WithContext(ctx).Where("name = ?", name).FirstOrCreate(&role).Error; err != nil {
		return nil, fmt.Errorf("failed to create role %s: %w", name, err)
	}

	if err := s.GrantCapabilities(ctx, name, capabilities...); err != nil {
		return nil, err
	}

	return &role, nil
}

// Roles returns every role sorted by name.
func (s *Service) Roles(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	if err := s.db.WithContext(ctx).Order("name").Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}

	return roles, nil
}
