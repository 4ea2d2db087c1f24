package services

import (
	"aidirectory-backend/internal/database"
	"aidirectory-backend/internal/githubapi"
	"aidirectory-backend/internal/models"
	"aidirectory-backend/pkg/logger"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const UserCacheDuration = time.Hour

func userCacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

// UserProfile is the public view of a user.
type UserProfile struct {
	User          models.User                  `json:"user"`
	ContentCounts map[models.ContentType]int64 `json:"content_counts"`
	Collections   []models.Collection          `json:"collections"`
}

func FindUserByID(userID uint) (models.User, error) {
	var user models.User
	if cacheGet(userCacheKey(userID), &user) {
		return user, nil
	}

	if err := database.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user, ErrUserNotFound
		}
		return user, err
	}

	cacheSet(userCacheKey(userID), user, UserCacheDuration)
	return user, nil
}

func FindUserByLogin(login string) (models.User, error) {
	var user models.User
	if err := database.DB.Where("LOWER(login) = LOWER(?)", login).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user, ErrUserNotFound
		}
		return user, err
	}
	return user, nil
}

// FindUsers retrieves a page of users, newest first.
func FindUsers(offset, limit int) (*Page[models.User], error) {
	offset, limit = NormalizePage(offset, limit)

	var total int64
	if err := database.DB.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, err
	}

	var users []models.User
	if err := database.DB.Order("id DESC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, err
	}
	return NewPage(users, offset, total), nil
}

// UpsertGitHubUser creates or refreshes the user behind a GitHub login. Listed
// admin logins are promoted; existing admins are never demoted here.
func UpsertGitHubUser(p *githubapi.Profile, isAdmin bool) (*models.User, error) {
	var user models.User
	err := database.DB.Where("github_id = ?", p.ID).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{
			GitHubID:  p.ID,
			Login:     p.Login,
			Name:      p.Name,
			AvatarURL: p.AvatarURL,
			Email:     p.Email,
			Bio:       p.Bio,
			Role:      models.RoleUser,
		}
		if isAdmin {
			user.Role = models.RoleAdmin
		}
		if err := database.DB.Create(&user).Error; err != nil {
			return nil, err
		}
		logger.Log.Info("User signed up", zap.String("login", user.Login), zap.Uint("id", user.ID))
		return &user, nil
	case err != nil:
		return nil, err
	}

	updates := map[string]interface{}{
		"login":      p.Login,
		"name":       p.Name,
		"avatar_url": p.AvatarURL,
		"email":      p.Email,
		"bio":        p.Bio,
	}
	if isAdmin && user.Role != models.RoleAdmin {
		updates["role"] = models.RoleAdmin
	}
	if err := database.DB.Model(&user).Updates(updates).Error; err != nil {
		return nil, err
	}
	cacheDel(userCacheKey(user.ID))

	if err := database.DB.First(&user, user.ID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser updates a user with optimistic locking. expectedVersion of 0 skips
// the caller-side check but the write is still guarded by the loaded version.
func UpdateUser(id uint, expectedVersion int, updates map[string]interface{}, operator string) (*models.User, error) {
	var user models.User
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if expectedVersion != 0 && expectedVersion != user.Version {
			return ErrOptimisticLock
		}

		currentVersion := user.Version
		updates["version"] = currentVersion + 1

		result := tx.Model(&user).Where("version = ?", currentVersion).Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrOptimisticLock
		}
		return tx.First(&user, id).Error
	})
	if err != nil {
		return nil, err
	}

	cacheDel(userCacheKey(id))
	logger.Log.Info("User updated",
		zap.Uint("user_id", id),
		zap.String("operator", operator),
		zap.Any("updates", updates),
	)
	return &user, nil
}

// GetUserProfile gathers a user's public footprint: approved content counts and public collections.
func GetUserProfile(login string) (*UserProfile, error) {
	user, err := FindUserByLogin(login)
	if err != nil {
		return nil, err
	}

	counts := make(map[models.ContentType]int64, len(models.AllContentTypes()))
	for _, t := range models.AllContentTypes() {
		model, _ := models.NewContent(t)
		var n int64
		err := database.DB.Model(model).
			Where("author_id = ? AND status = ?", user.ID, models.ContentStatusApproved).
			Count(&n).Error
		if err != nil {
			return nil, err
		}
		counts[t] = n
	}

	collections := []models.Collection{}
	err = database.DB.Where("user_id = ? AND is_public = ?", user.ID, true).
		Order("updated_at DESC").
		Limit(MaxPageLimit).
		Find(&collections).Error
	if err != nil {
		return nil, err
	}
	if err := fillItemCounts(collections); err != nil {
		return nil, err
	}

	return &UserProfile{User: user, ContentCounts: counts, Collections: collections}, nil
}
