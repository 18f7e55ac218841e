package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/tair/mini-erp/internal/user/domain"
	"github.com/tair/mini-erp/pkg/database"
)

const (
	usernameIndex = "idx_users_username"
	emailIndex    = "idx_users_email"
)

// GormUserRepository implements UserRepository interface using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GORM user repository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// AutoMigrate runs database migrations
func (r *GormUserRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.User{})
}

// Create inserts a new user. Concurrent registrations that slip past the
// handler's prechecks are caught here by the unique indexes.
func (r *GormUserRepository) Create(ctx context.Context, user *domain.User) error {
	err := database.Conn(ctx, r.db).Create(user).Error
	switch {
	case err == nil:
		return nil
	case database.IsUniqueViolation(err, usernameIndex):
		return domain.ErrUsernameExists
	case database.IsUniqueViolation(err, emailIndex):
		return domain.ErrEmailExists
	default:
		return fmt.Errorf("failed to create user: %w", err)
	}
}

func (r *GormUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *GormUserRepository) first(ctx context.Context, cond string, arg interface{}) (*domain.User, error) {
	var user domain.User
	err := database.Conn(ctx, r.db).Where(cond, arg).First(&user).Error
	if database.IsNotFound(err) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// FindAll retrieves users ordered by id with pagination
func (r *GormUserRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.User, error) {
	var users []domain.User
	query := database.Conn(ctx, r.db).Order("id")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to find users: %w", err)
	}
	return users, nil
}

func (r *GormUserRepository) UpdateRole(ctx context.Context, id uint, role string) error {
	return r.updateColumn(ctx, id, "role", role)
}

func (r *GormUserRepository) SetActive(ctx context.Context, id uint, active bool) error {
	return r.updateColumn(ctx, id, "is_active", active)
}

func (r *GormUserRepository) updateColumn(ctx context.Context, id uint, column string, value interface{}) error {
	result := database.Conn(ctx, r.db).Model(&domain.User{}).Where("id = ?", id).Update(column, value)
	if result.Error != nil {
		return fmt.Errorf("failed to update user %s: %w", column, result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Count returns the total number of users
func (r *GormUserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := database.Conn(ctx, r.db).Model(&domain.User{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
