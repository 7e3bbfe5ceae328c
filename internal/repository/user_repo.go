package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/Steffany-Martins/botCheckin/internal/model"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	FindByPhone(ctx context.Context, phone string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	SearchByName(ctx context.Context, fragment string, limit int) ([]model.User, error)
	List(ctx context.Context) ([]model.User, error)
	ListByRole(ctx context.Context, role model.Role) ([]model.User, error)
	UpdateCategories(ctx context.Context, id string, categories string) (int64, error)
	UpdateExpectedHours(ctx context.Context, id string, hours float64) (int64, error)
	Update(ctx context.Context, u *model.User) error
}

type userRepo struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepo{db: db} }

func (r *userRepo) Create(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

// FindByPhone returns (nil, nil) when no user owns the number; the caller
// uses the nil result to route into registration.
func (r *userRepo) FindByPhone(ctx context.Context, phone string) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) SearchByName(ctx context.Context, fragment string, limit int) ([]model.User, error) {
	var users []model.User
	pattern := "%" + strings.TrimSpace(fragment) + "%"
	err := r.db.WithContext(ctx).
		Where("name ILIKE ?", pattern).
		Order("name asc").
		Limit(limit).
		Find(&users).Error
	return users, err
}

func (r *userRepo) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).Order("name asc").Find(&users).Error
	return users, err
}

func (r *userRepo) ListByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).Where("role = ?", role).Order("name asc").Find(&users).Error
	return users, err
}

func (r *userRepo) UpdateCategories(ctx context.Context, id string, categories string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("categories", categories)
	return res.RowsAffected, res.Error
}

func (r *userRepo) UpdateExpectedHours(ctx context.Context, id string, hours float64) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("expected_weekly_hours", hours)
	return res.RowsAffected, res.Error
}

func (r *userRepo) Update(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}
