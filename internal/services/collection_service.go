package services

import (
	"aidirectory-backend/internal/database"
	"aidirectory-backend/internal/models"
	"aidirectory-backend/internal/utils"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

const (
	maxCollectionNameLength        = 100
	maxCollectionDescriptionLength = 500
)

// CollectionUpdate carries the fields an owner may change; nil means unchanged.
type CollectionUpdate struct {
	Name        *string
	Description *string
	IsPublic    *bool
}

func validateCollectionFields(name, description string) error {
	if name == "" {
		return ErrCollectionNameRequired
	}
	var details []utils.ValidationErrorDetail
	if utf8.RuneCountInString(name) > maxCollectionNameLength {
		details = append(details, utils.ValidationErrorDetail{
			Field: "name", Message: "Field 'name' must be at most 100 long", Expected: "max 100", Received: name,
		})
	}
	if utf8.RuneCountInString(description) > maxCollectionDescriptionLength {
		details = append(details, utils.ValidationErrorDetail{
			Field: "description", Message: "Field 'description' must be at most 500 long", Expected: "max 500", Received: len(description),
		})
	}
	if len(details) > 0 {
		return &utils.ValidationError{Details: details}
	}
	return nil
}

// CreateCollection creates an empty collection. A blank name is rejected.
func CreateCollection(userID uint, name, description string, isPublic bool) (*models.Collection, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if err := validateCollectionFields(name, description); err != nil {
		return nil, err
	}

	c := &models.Collection{
		UserID:      userID,
		Name:        name,
		Slug:        slug.Make(name),
		Description: description,
		IsPublic:    isPublic,
	}
	if err := database.DB.Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// ListCollections pages through the user's own collections, newest first.
func ListCollections(userID uint, offset, limit int) (*Page[models.Collection], error) {
	return listCollections(func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}, offset, limit)
}

// ListPublicCollections pages through public collections, optionally matching query by name.
func ListPublicCollections(offset, limit int, query string) (*Page[models.Collection], error) {
	q := strings.TrimSpace(query)
	return listCollections(func(db *gorm.DB) *gorm.DB {
		db = db.Where("is_public = ?", true)
		if q != "" {
			p := containsPattern(q)
			db = db.Where("(LOWER(name) LIKE ? ESCAPE '\\' OR LOWER(description) LIKE ? ESCAPE '\\')", p, p)
		}
		return db
	}, offset, limit, "User")
}

func listCollections(scope func(*gorm.DB) *gorm.DB, offset, limit int, preloads ...string) (*Page[models.Collection], error) {
	offset, limit = NormalizePage(offset, limit)

	var total int64
	if err := database.DB.Model(&models.Collection{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, err
	}

	query := database.DB.Scopes(scope)
	for _, p := range preloads {
		query = query.Preload(p)
	}
	var collections []models.Collection
	err := query.Order("updated_at DESC").Order("id DESC").Offset(offset).Limit(limit).Find(&collections).Error
	if err != nil {
		return nil, err
	}
	if err := fillItemCounts(collections); err != nil {
		return nil, err
	}
	return NewPage(collections, offset, total), nil
}

func fillItemCounts(collections []models.Collection) error {
	if len(collections) == 0 {
		return nil
	}
	ids := make([]uint, len(collections))
	for i, c := range collections {
		ids[i] = c.ID
	}

	var rows []struct {
		CollectionID uint
		Total        int
	}
	err := database.DB.Model(&models.CollectionItem{}).
		Select("collection_id, COUNT(*) AS total").
		Where("collection_id IN ?", ids).
		Group("collection_id").
		Scan(&rows).Error
	if err != nil {
		return err
	}
	counts := make(map[uint]int, len(rows))
	for _, r := range rows {
		counts[r.CollectionID] = r.Total
	}
	for i := range collections {
		collections[i].ItemCount = counts[collections[i].ID]
	}
	return nil
}

// GetCollection returns a collection visible to viewer with its items resolved.
// Items pointing at content the viewer cannot see are omitted.
func GetCollection(id uint, viewer *models.User) (*models.Collection, error) {
	var c models.Collection
	err := database.DB.Preload("User").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC").Order("id ASC") }).
		First(&c, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCollectionNotFound
		}
		return nil, err
	}
	isOwner := viewer != nil && viewer.ID == c.UserID
	if !c.IsPublic && !isOwner {
		return nil, ErrCollectionNotFound
	}

	idsByType := map[models.ContentType][]uint{}
	for _, item := range c.Items {
		idsByType[item.ItemType] = append(idsByType[item.ItemType], item.ItemID)
	}
	loaded := map[models.ContentType]map[uint]models.Content{}
	for t, ids := range idsByType {
		if !t.Valid() {
			continue
		}
		items, err := loadContentByIDs(database.DB, t, ids, nil)
		if err != nil {
			return nil, err
		}
		loaded[t] = items
	}

	visible := make([]models.CollectionItem, 0, len(c.Items))
	for _, item := range c.Items {
		content, ok := loaded[item.ItemType][item.ItemID]
		if !ok {
			continue
		}
		base := content.Base()
		if base.Status != models.ContentStatusApproved && !canManage(base, viewer) {
			continue
		}
		item.Item = content
		visible = append(visible, item)
	}
	c.Items = visible
	c.ItemCount = len(visible)
	return &c, nil
}

// ownedCollection loads a collection for modification by userID. Private
// collections of other users are reported as missing.
func ownedCollection(db *gorm.DB, id, userID uint) (*models.Collection, error) {
	var c models.Collection
	if err := db.First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCollectionNotFound
		}
		return nil, err
	}
	if c.UserID != userID {
		if !c.IsPublic {
			return nil, ErrCollectionNotFound
		}
		return nil, ErrPermissionDenied
	}
	return &c, nil
}

func UpdateCollection(id, userID uint, upd CollectionUpdate) (*models.Collection, error) {
	c, err := ownedCollection(database.DB, id, userID)
	if err != nil {
		return nil, err
	}

	name, description := c.Name, c.Description
	if upd.Name != nil {
		name = strings.TrimSpace(*upd.Name)
	}
	if upd.Description != nil {
		description = strings.TrimSpace(*upd.Description)
	}
	if err := validateCollectionFields(name, description); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"name":        name,
		"slug":        slug.Make(name),
		"description": description,
	}
	if upd.IsPublic != nil {
		updates["is_public"] = *upd.IsPublic
	}
	if err := database.DB.Model(c).Updates(updates).Error; err != nil {
		return nil, err
	}
	if err := database.DB.First(c, id).Error; err != nil {
		return nil, err
	}
	collections := []models.Collection{*c}
	if err := fillItemCounts(collections); err != nil {
		return nil, err
	}
	return &collections[0], nil
}

func DeleteCollection(id, userID uint) error {
	c, err := ownedCollection(database.DB, id, userID)
	if err != nil {
		return err
	}
	return database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("collection_id = ?", c.ID).Delete(&models.CollectionItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(c).Error
	})
}

// AddCollectionItem appends a content reference to the end of the collection.
func AddCollectionItem(collectionID, userID uint, t models.ContentType, itemID uint, note string) (*models.CollectionItem, error) {
	if !t.Valid() {
		return nil, ErrInvalidContentType
	}
	note = strings.TrimSpace(note)
	if utf8.RuneCountInString(note) > 500 {
		return nil, &utils.ValidationError{Details: []utils.ValidationErrorDetail{{
			Field: "note", Message: "Field 'note' must be at most 500 long", Expected: "max 500", Received: len(note),
		}}}
	}

	var created models.CollectionItem
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		c, err := ownedCollection(tx, collectionID, userID)
		if err != nil {
			return err
		}

		content, err := contentIDExists(tx, t, itemID, nil)
		if err != nil {
			return err
		}
		if base := content.Base(); base.Status != models.ContentStatusApproved && !base.IsOwnedBy(userID) {
			return ErrContentNotFound
		}

		var existing int64
		if err := tx.Model(&models.CollectionItem{}).
			Where("collection_id = ? AND item_type = ? AND item_id = ?", c.ID, t, itemID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrItemAlreadyInCollection
		}

		var position int64
		if err := tx.Model(&models.CollectionItem{}).Where("collection_id = ?", c.ID).Count(&position).Error; err != nil {
			return err
		}

		created = models.CollectionItem{
			CollectionID: c.ID,
			ItemType:     t,
			ItemID:       itemID,
			Note:         note,
			Position:     int(position),
		}
		if err := tx.Create(&created).Error; err != nil {
			return err
		}
		created.Item = content
		return tx.Model(c).Update("updated_at", time.Now()).Error
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// RemoveCollectionItem deletes one membership row from a collection the user owns.
func RemoveCollectionItem(collectionID, userID, itemID uint) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		c, err := ownedCollection(tx, collectionID, userID)
		if err != nil {
			return err
		}
		res := tx.Where("id = ? AND collection_id = ?", itemID, c.ID).Delete(&models.CollectionItem{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrCollectionItemNotFound
		}
		return nil
	})
}
