package services

import (
	"aidirectory-backend/internal/database"
	"aidirectory-backend/internal/markdown"
	"aidirectory-backend/internal/models"
	"aidirectory-backend/internal/utils"
	"aidirectory-backend/pkg/logger"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	ContentCacheKeyPrefix = "content:"
	ContentCacheDuration  = time.Hour

	maxTags                  = 10
	maxSlugLength            = 200
	descriptionExcerptLength = 280
)

const (
	SortNewest  = "newest"
	SortOldest  = "oldest"
	SortPopular = "popular"
	SortTitle   = "title"
)

// PublicStatuses is the visibility gate for anonymous and non-owner readers.
var PublicStatuses = []models.ContentStatus{models.ContentStatusApproved}

// Columns that callers cannot change through an update patch.
var protectedContentFields = map[string]bool{
	"id": true, "slug": true, "author_id": true, "author": true, "status": true,
	"vote_score": true, "favorite_count": true, "created_at": true, "updated_at": true,
}

var protectedContentColumns = []string{"id", "slug", "author_id", "status", "vote_score", "favorite_count", "created_at"}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContentFilter narrows a content listing. Zero values mean "no restriction",
// except Statuses which should always be set by the caller.
type ContentFilter struct {
	Offset     int
	Limit      int
	Category   string
	Query      string
	Tag        string
	Difficulty models.Difficulty
	Sort       string
	AuthorID   *uint
	Statuses   []models.ContentStatus
}

type CategoryCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count" gorm:"column:total"`
}

type SearchGroup struct {
	Type  models.ContentType `json:"type"`
	Items []models.Content   `json:"items"`
	Total int64              `json:"total"`
}

// PendingGroup is one content type's page of the moderation queue.
type PendingGroup struct {
	Type       models.ContentType `json:"type"`
	Items      []models.Content   `json:"items"`
	Total      int64              `json:"total"`
	HasMore    bool               `json:"hasMore"`
	NextOffset int                `json:"nextOffset"`
}

func contentCacheKey(t models.ContentType, slug string) string {
	return fmt.Sprintf("%s%s:slug:%s", ContentCacheKeyPrefix, t, slug)
}

func canManage(base *models.ContentBase, viewer *models.User) bool {
	if viewer == nil {
		return false
	}
	return viewer.IsAdmin() || base.IsOwnedBy(viewer.ID)
}

func newContentModel(t models.ContentType) (models.Content, error) {
	if !t.Valid() {
		return nil, ErrInvalidContentType
	}
	return models.NewContent(t)
}

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

func applyContentFilter(db *gorm.DB, f ContentFilter) *gorm.DB {
	if len(f.Statuses) > 0 {
		db = db.Where("status IN ?", f.Statuses)
	}
	if c := strings.TrimSpace(f.Category); c != "" && !strings.EqualFold(c, "all") {
		db = db.Where("category = ?", c)
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		p := containsPattern(q)
		db = db.Where("(LOWER(title) LIKE ? ESCAPE '\\' OR LOWER(description) LIKE ? ESCAPE '\\' OR LOWER(tags) LIKE ? ESCAPE '\\')", p, p, p)
	}
	if tag := strings.TrimSpace(f.Tag); tag != "" {
		db = db.Where("tags LIKE ? ESCAPE '\\'", `%"`+likeEscaper.Replace(strings.ToLower(tag))+`"%`)
	}
	if f.Difficulty != "" {
		db = db.Where("difficulty = ?", f.Difficulty)
	}
	if f.AuthorID != nil {
		db = db.Where("author_id = ?", *f.AuthorID)
	}
	return db
}

func applyContentSort(db *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case SortPopular:
		return db.Order("vote_score DESC").Order("created_at DESC").Order("id DESC")
	case SortTitle:
		return db.Order("title ASC").Order("id ASC")
	case SortOldest:
		return db.Order("created_at ASC").Order("id ASC")
	default:
		return db.Order("created_at DESC").Order("id DESC")
	}
}

// ListContent returns one page of content of type t.
func ListContent(t models.ContentType, f ContentFilter) (*Page[models.Content], error) {
	return listContent(database.DB, t, f)
}

func listContent(db *gorm.DB, t models.ContentType, f ContentFilter) (*Page[models.Content], error) {
	model, err := newContentModel(t)
	if err != nil {
		return nil, err
	}
	f.Offset, f.Limit = NormalizePage(f.Offset, f.Limit)

	var total int64
	if err := applyContentFilter(db.Model(model), f).Count(&total).Error; err != nil {
		return nil, err
	}

	list, _ := models.NewContentList(t)
	query := applyContentSort(applyContentFilter(db.Model(model), f), f.Sort)
	if err := query.Offset(f.Offset).Limit(f.Limit).Find(list).Error; err != nil {
		return nil, err
	}

	items := models.ContentListItems(t, list)
	attachAuthors(db, items)
	return NewPage(items, f.Offset, total), nil
}

// attachAuthors fills Author on each item with one query.
func attachAuthors(db *gorm.DB, items []models.Content) {
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		if id := item.Base().AuthorID; id != nil {
			ids = append(ids, *id)
		}
	}
	if len(ids) == 0 {
		return
	}

	var users []models.User
	if err := db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		logger.Log.Warn("Failed to load content authors", zap.Error(err))
		return
	}
	byID := make(map[uint]*models.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	for _, item := range items {
		if id := item.Base().AuthorID; id != nil {
			item.Base().Author = byID[*id]
		}
	}
}

func findContent(db *gorm.DB, t models.ContentType, query string, args ...interface{}) (models.Content, error) {
	item, err := newContentModel(t)
	if err != nil {
		return nil, err
	}
	if err := db.Where(query, args...).First(item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}
	return item, nil
}

// GetContentBySlug returns an item visible to viewer. Approved items are public;
// anything else is only shown to its author and to admins.
func GetContentBySlug(t models.ContentType, slug string, viewer *models.User) (models.Content, error) {
	cached, err := newContentModel(t)
	if err != nil {
		return nil, err
	}
	key := contentCacheKey(t, slug)
	if cacheGet(key, cached) {
		return cached, nil
	}

	item, err := findContent(database.DB, t, "slug = ?", slug)
	if err != nil {
		return nil, err
	}
	base := item.Base()
	if base.Status != models.ContentStatusApproved && !canManage(base, viewer) {
		return nil, ErrContentNotFound
	}

	attachAuthors(database.DB, []models.Content{item})
	if base.Status == models.ContentStatusApproved {
		cacheSet(key, item, ContentCacheDuration)
	}
	return item, nil
}

func slugFor(t models.ContentType, title string) string {
	s := slug.Make(title)
	if len(s) > maxSlugLength {
		s = strings.TrimRight(s[:maxSlugLength], "-")
	}
	if s == "" {
		s = t.Dir() + "-" + uuid.NewString()[:8]
	}
	if utils.IsReservedSlug(s) {
		s = s + "-" + string(t)
	}
	return s
}

func normalizeTags(tags models.StringList) models.StringList {
	out := make(models.StringList, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
		if len(out) == maxTags {
			break
		}
	}
	return out
}

// prepareContent trims input and derives the slug and description when missing.
func prepareContent(t models.ContentType, base *models.ContentBase) {
	base.Title = strings.TrimSpace(base.Title)
	base.Slug = strings.TrimSpace(base.Slug)
	if base.Slug == "" {
		base.Slug = slugFor(t, base.Title)
	}
	base.Description = strings.TrimSpace(base.Description)
	if base.Description == "" && base.Content != "" {
		base.Description = markdown.Excerpt(base.Content, descriptionExcerptLength)
	}
	base.Category = strings.TrimSpace(base.Category)
	base.Tags = normalizeTags(base.Tags)
}

func slugTaken(db *gorm.DB, t models.ContentType, slug string, exceptID uint) (bool, error) {
	model, err := newContentModel(t)
	if err != nil {
		return false, err
	}
	var count int64
	q := db.Model(model).Where("slug = ?", slug)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateContent stores a new item authored by author. Admin submissions are
// approved immediately, everything else waits for moderation.
func CreateContent(t models.ContentType, item models.Content, author *models.User) (models.Content, error) {
	if !t.Valid() || item == nil || item.ContentType() != t {
		return nil, ErrInvalidContentType
	}
	if author == nil {
		return nil, ErrPermissionDenied
	}

	base := item.Base()
	authorID := author.ID
	base.ID = 0
	base.AuthorID = &authorID
	base.Author = nil
	base.VoteScore = 0
	base.FavoriteCount = 0
	base.CreatedAt = time.Time{}
	base.UpdatedAt = time.Time{}
	base.Status = models.ContentStatusPending
	if author.IsAdmin() {
		base.Status = models.ContentStatusApproved
	}

	prepareContent(t, base)
	if err := utils.DefaultValidator().Validate(item); err != nil {
		return nil, err
	}

	taken, err := slugTaken(database.DB, t, base.Slug, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrDuplicateSlug
	}

	if err := database.DB.Create(item).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateSlug
		}
		return nil, err
	}
	base.Author = author

	logger.Log.Info("Content created",
		zap.String("type", string(t)),
		zap.String("slug", base.Slug),
		zap.Uint("author_id", authorID),
		zap.String("status", string(base.Status)),
	)
	return item, nil
}

// UpdateContent applies a JSON patch to an item owned by editor (or any item for admins).
func UpdateContent(t models.ContentType, slug string, patch map[string]interface{}, editor *models.User) (models.Content, error) {
	existing, err := findContent(database.DB, t, "slug = ?", slug)
	if err != nil {
		return nil, err
	}
	eb := existing.Base()
	if !canManage(eb, editor) {
		if eb.Status != models.ContentStatusApproved {
			return nil, ErrContentNotFound
		}
		return nil, ErrPermissionDenied
	}

	current, err := json.Marshal(existing)
	if err != nil {
		return nil, err
	}
	merged := map[string]interface{}{}
	if err := json.Unmarshal(current, &merged); err != nil {
		return nil, err
	}
	for k, v := range patch {
		if !protectedContentFields[k] {
			merged[k] = v
		}
	}
	raw, err := json.Marshal(merged)
	if err != nil {
		return nil, err
	}

	updated, _ := models.NewContent(t)
	if err := json.Unmarshal(raw, updated); err != nil {
		return nil, &utils.ValidationError{Details: []utils.ValidationErrorDetail{{
			Field:    "body",
			Message:  err.Error(),
			Expected: "fields matching the " + t.Label() + " schema",
			Received: "invalid",
		}}}
	}

	ub := updated.Base()
	ub.ID = eb.ID
	ub.Slug = eb.Slug
	ub.AuthorID = eb.AuthorID
	ub.Author = nil
	ub.Status = eb.Status
	ub.VoteScore = eb.VoteScore
	ub.FavoriteCount = eb.FavoriteCount
	ub.CreatedAt = eb.CreatedAt

	prepareContent(t, ub)
	if err := utils.DefaultValidator().Validate(updated); err != nil {
		return nil, err
	}

	if err := database.DB.Model(updated).Select("*").Omit(protectedContentColumns...).Updates(updated).Error; err != nil {
		return nil, err
	}
	cacheDel(contentCacheKey(t, slug))

	reloaded, err := findContent(database.DB, t, "id = ?", eb.ID)
	if err != nil {
		return nil, err
	}
	attachAuthors(database.DB, []models.Content{reloaded})
	return reloaded, nil
}

// DeleteContent removes an item together with the votes, favorites and
// collection entries that point at it.
func DeleteContent(t models.ContentType, slug string, editor *models.User) error {
	existing, err := findContent(database.DB, t, "slug = ?", slug)
	if err != nil {
		return err
	}
	base := existing.Base()
	if !canManage(base, editor) {
		if base.Status != models.ContentStatusApproved {
			return ErrContentNotFound
		}
		return ErrPermissionDenied
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("target_type = ? AND target_id = ?", t, base.ID).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("target_type = ? AND target_id = ?", t, base.ID).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("item_type = ? AND item_id = ?", t, base.ID).Delete(&models.CollectionItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(existing).Error
	})
	if err != nil {
		return err
	}

	cacheDel(contentCacheKey(t, slug))
	logger.Log.Info("Content deleted", zap.String("type", string(t)), zap.String("slug", slug), zap.Uint("by", editor.ID))
	return nil
}

// SetContentStatus moves an item through moderation.
func SetContentStatus(t models.ContentType, slug string, status models.ContentStatus) (models.Content, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	item, err := findContent(database.DB, t, "slug = ?", slug)
	if err != nil {
		return nil, err
	}
	if err := database.DB.Model(item).Update("status", status).Error; err != nil {
		return nil, err
	}
	item.Base().Status = status
	cacheDel(contentCacheKey(t, slug))
	attachAuthors(database.DB, []models.Content{item})
	return item, nil
}

// ListCategories counts approved items per category, most used first.
func ListCategories(t models.ContentType) ([]CategoryCount, error) {
	model, err := newContentModel(t)
	if err != nil {
		return nil, err
	}
	out := []CategoryCount{}
	err = database.DB.Model(model).
		Select("category AS name, COUNT(*) AS total").
		Where("status = ? AND category <> ''", models.ContentStatusApproved).
		Group("category").
		Order("total DESC").Order("name ASC").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func contentIDExists(db *gorm.DB, t models.ContentType, id uint, statuses []models.ContentStatus) (models.Content, error) {
	item, err := newContentModel(t)
	if err != nil {
		return nil, err
	}
	q := db.Where("id = ?", id)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	if err := q.First(item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}
	return item, nil
}

// loadContentByIDs fetches items of one type keyed by ID, optionally filtered by status.
func loadContentByIDs(db *gorm.DB, t models.ContentType, ids []uint, statuses []models.ContentStatus) (map[uint]models.Content, error) {
	out := map[uint]models.Content{}
	if len(ids) == 0 {
		return out, nil
	}
	list, err := models.NewContentList(t)
	if err != nil {
		return nil, err
	}
	q := db.Where("id IN ?", ids)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	if err := q.Find(list).Error; err != nil {
		return nil, err
	}
	items := models.ContentListItems(t, list)
	attachAuthors(db, items)
	for _, item := range items {
		out[item.Base().ID] = item
	}
	return out, nil
}
