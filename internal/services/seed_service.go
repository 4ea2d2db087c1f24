package services

import (
	"aidirectory-backend/internal/catalogfile"
	"aidirectory-backend/internal/database"
	"aidirectory-backend/internal/models"
	"aidirectory-backend/internal/utils"
	"aidirectory-backend/pkg/logger"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// SeedResult summarizes one seed run.
type SeedResult struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Failed  []string `json:"failed"`
}

// SeedFromDir loads <dir>/<type-dir>/*.md for every content type and upserts
// the entries by slug as approved content. Files that fail to parse or validate
// are reported in Failed and do not stop the run. When uploader is set, a local
// `image` path in the front matter is uploaded and stored as image_url.
func SeedFromDir(dir string, uploader ImageUploader) (*SeedResult, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, err
	}

	result := &SeedResult{Failed: []string{}}
	for _, t := range models.AllContentTypes() {
		typeDir := filepath.Join(dir, t.Dir())
		files, err := filepath.Glob(filepath.Join(typeDir, "*.md"))
		if err != nil {
			return nil, err
		}
		sort.Strings(files)

		for _, path := range files {
			created, err := seedFile(t, path, uploader)
			if err != nil {
				logger.Log.Warn("Skipping seed file", zap.String("file", path), zap.Error(err))
				result.Failed = append(result.Failed, fmt.Sprintf("%s: %v", path, err))
				continue
			}
			if created {
				result.Created++
			} else {
				result.Updated++
			}
		}
	}

	logger.Log.Info("Seed finished",
		zap.String("dir", dir),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("failed", len(result.Failed)),
	)
	return result, nil
}

func seedFile(t models.ContentType, path string, uploader ImageUploader) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	doc, err := catalogfile.Parse(data)
	if err != nil {
		return false, err
	}
	if doc.Meta.Slug == "" {
		doc.Meta.Slug = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	item, err := doc.ToContent(t)
	if err != nil {
		return false, err
	}

	if img := doc.Meta.Image; img != "" && uploader != nil {
		local := img
		if !filepath.IsAbs(local) {
			local = filepath.Join(filepath.Dir(path), img)
		}
		if _, statErr := os.Stat(local); errors.Is(statErr, fs.ErrNotExist) {
			return false, fmt.Errorf("image %s not found", img)
		}
		url, err := uploader.UploadFile(local)
		if err != nil {
			return false, fmt.Errorf("upload image: %w", err)
		}
		item.Base().ImageURL = url
	}

	return UpsertSeedContent(t, item)
}

// UpsertSeedContent inserts item as approved content, or overwrites the editable
// fields of the existing row with the same slug. It reports whether a row was created.
func UpsertSeedContent(t models.ContentType, item models.Content) (bool, error) {
	base := item.Base()
	base.Status = models.ContentStatusApproved
	base.Author = nil
	base.VoteScore = 0
	base.FavoriteCount = 0
	prepareContent(t, base)
	if err := utils.DefaultValidator().Validate(item); err != nil {
		return false, err
	}

	existing, err := findContent(database.DB, t, "slug = ?", base.Slug)
	switch {
	case errors.Is(err, ErrContentNotFound):
		base.ID = 0
		base.AuthorID = nil
		return true, database.DB.Create(item).Error
	case err != nil:
		return false, err
	}

	eb := existing.Base()
	base.ID = eb.ID
	base.AuthorID = eb.AuthorID
	base.CreatedAt = eb.CreatedAt
	omit := []string{"id", "slug", "author_id", "vote_score", "favorite_count", "created_at"}
	if err := database.DB.Model(item).Select("*").Omit(omit...).Updates(item).Error; err != nil {
		return false, err
	}
	cacheDel(contentCacheKey(t, base.Slug))
	return false, nil
}
