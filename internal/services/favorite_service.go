package services

import (
	"aidirectory-backend/internal/database"
	"aidirectory-backend/internal/models"
	"errors"
	"time"

	"gorm.io/gorm"
)

type FavoriteResult struct {
	Favorited bool `json:"favorited"`
	Count     int  `json:"count"`
}

// FavoriteEntry is one saved item with its content resolved.
type FavoriteEntry struct {
	ID        uint               `json:"id"`
	Type      models.ContentType `json:"type"`
	Item      models.Content     `json:"item"`
	CreatedAt time.Time          `json:"created_at"`
}

var decrementFavoriteCount = gorm.Expr("CASE WHEN favorite_count > 0 THEN favorite_count - 1 ELSE 0 END")

// ToggleFavorite saves the item for the user, or unsaves it when already saved.
func ToggleFavorite(userID uint, t models.ContentType, targetID uint) (*FavoriteResult, error) {
	if !t.Valid() {
		return nil, ErrInvalidContentType
	}

	result := &FavoriteResult{}
	var slug string
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		item, err := contentIDExists(tx, t, targetID, PublicStatuses)
		if err != nil {
			return err
		}
		slug = item.Base().Slug

		var fav models.Favorite
		err = tx.Where("user_id = ? AND target_type = ? AND target_id = ?", userID, t, targetID).First(&fav).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			fav = models.Favorite{UserID: userID, TargetType: t, TargetID: targetID}
			if err := tx.Create(&fav).Error; err != nil {
				return err
			}
			if err := tx.Model(item).UpdateColumn("favorite_count", gorm.Expr("favorite_count + 1")).Error; err != nil {
				return err
			}
			result.Favorited = true
		case err != nil:
			return err
		default:
			if err := tx.Delete(&fav).Error; err != nil {
				return err
			}
			if err := tx.Model(item).UpdateColumn("favorite_count", decrementFavoriteCount).Error; err != nil {
				return err
			}
		}

		fresh, err := contentIDExists(tx, t, targetID, nil)
		if err != nil {
			return err
		}
		result.Count = fresh.Base().FavoriteCount
		return nil
	})
	if err != nil {
		return nil, err
	}

	cacheDel(contentCacheKey(t, slug))
	return result, nil
}

// RemoveFavorite unsaves an item; it fails with ErrFavoriteNotFound when it was not saved.
func RemoveFavorite(userID uint, t models.ContentType, targetID uint) error {
	if !t.Valid() {
		return ErrInvalidContentType
	}

	var slug string
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND target_type = ? AND target_id = ?", userID, t, targetID).Delete(&models.Favorite{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrFavoriteNotFound
		}

		item, err := contentIDExists(tx, t, targetID, nil)
		if errors.Is(err, ErrContentNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		slug = item.Base().Slug
		return tx.Model(item).UpdateColumn("favorite_count", decrementFavoriteCount).Error
	})
	if err != nil {
		return err
	}

	if slug != "" {
		cacheDel(contentCacheKey(t, slug))
	}
	return nil
}

// ListFavorites pages through the user's saved items, newest first. Saved items
// that were since removed or unpublished are dropped from the page, so the
// continuation offset counts favorites rather than returned items.
func ListFavorites(userID uint, offset, limit int) (*Page[FavoriteEntry], error) {
	offset, limit = NormalizePage(offset, limit)

	var total int64
	if err := database.DB.Model(&models.Favorite{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, err
	}

	var favs []models.Favorite
	err := database.DB.Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&favs).Error
	if err != nil {
		return nil, err
	}

	resolved, err := resolveTargets(favs, func(f models.Favorite) (models.ContentType, uint) {
		return f.TargetType, f.TargetID
	})
	if err != nil {
		return nil, err
	}

	entries := make([]FavoriteEntry, 0, len(favs))
	for _, f := range favs {
		item, ok := resolved[f.TargetType][f.TargetID]
		if !ok {
			continue
		}
		entries = append(entries, FavoriteEntry{ID: f.ID, Type: f.TargetType, Item: item, CreatedAt: f.CreatedAt})
	}

	page := NewPage(entries, offset, total)
	page.NextOffset = offset + len(favs)
	page.HasMore = int64(page.NextOffset) < total
	return page, nil
}

// GetUserFavoriteIDs reports which of the given items the user has saved.
func GetUserFavoriteIDs(userID uint, t models.ContentType, ids []uint) (map[uint]bool, error) {
	out := map[uint]bool{}
	if len(ids) == 0 {
		return out, nil
	}
	var favs []models.Favorite
	err := database.DB.
		Where("user_id = ? AND target_type = ? AND target_id IN ?", userID, t, ids).
		Find(&favs).Error
	if err != nil {
		return nil, err
	}
	for _, f := range favs {
		out[f.TargetID] = true
	}
	return out, nil
}

// resolveTargets loads approved content for polymorphic rows, one query per type.
func resolveTargets[T any](rows []T, target func(T) (models.ContentType, uint)) (map[models.ContentType]map[uint]models.Content, error) {
	idsByType := map[models.ContentType][]uint{}
	for _, r := range rows {
		t, id := target(r)
		if t.Valid() {
			idsByType[t] = append(idsByType[t], id)
		}
	}

	out := make(map[models.ContentType]map[uint]models.Content, len(idsByType))
	for t, ids := range idsByType {
		items, err := loadContentByIDs(database.DB, t, ids, PublicStatuses)
		if err != nil {
			return nil, err
		}
		out[t] = items
	}
	return out, nil
}
