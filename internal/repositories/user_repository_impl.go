package repositories

import (
	"context"
	"errors"
	"fmt"

	"plata/internal/models"
	"plata/internal/repositories/cache"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type userRepository struct {
	db    *gorm.DB
	cache *cache.CacheService
}

// NewUserRepository returns a user repository. cacheService may be nil;
// lookups then always hit the database.
func NewUserRepository(db *gorm.DB, cacheService *cache.CacheService) UserRepository {
	return &userRepository{db: db, cache: cacheService}
}

func (r *userRepository) Create(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// The unique index that fired is not reported; callers check
			// both fields up front and treat this as a race fallback.
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	r.cacheUser(user)
	return nil
}

func (r *userRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	return r.getBy("email", email)
}

func (r *userRepository) GetByUsername(username string) (*models.User, error) {
	return r.getBy("username", username)
}

func (r *userRepository) getBy(field, value string) (*models.User, error) {
	if r.cache != nil {
		key := r.cache.GenerateKey("user", field, value)
		var cached models.User
		if found, err := r.cache.Get(context.Background(), key, &cached); found && err == nil {
			return &cached, nil
		}
	}

	var user models.User
	if err := r.db.Where(field+" = ?", value).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	r.cacheUser(&user)
	return &user, nil
}

func (r *userRepository) Update(user *models.User) error {
	if err := r.db.Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	r.invalidateUser(user)
	return nil
}

func (r *userRepository) IncrementTokenVersion(userID uint) error {
	user, err := r.GetByID(userID)
	if err != nil {
		return err
	}
	result := r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("token_version", gorm.Expr("token_version + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to increment token version: %w", result.Error)
	}
	r.invalidateUser(user)
	return nil
}

func (r *userRepository) cacheUser(user *models.User) {
	if r.cache == nil {
		return
	}
	ctx := context.Background()
	for _, key := range r.userKeys(user) {
		if err := r.cache.Set(ctx, key, user); err != nil {
			logrus.WithError(err).WithField("user_id", user.ID).Warn("failed to cache user")
			return
		}
	}
}

func (r *userRepository) invalidateUser(user *models.User) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Delete(context.Background(), r.userKeys(user)...); err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Warn("failed to invalidate user cache")
	}
}

func (r *userRepository) userKeys(user *models.User) []string {
	return []string{
		r.cache.GenerateKey("user", "email", user.Email),
		r.cache.GenerateKey("user", "username", user.Username),
	}
}
