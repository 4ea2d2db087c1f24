package services

import (
	"aidirectory-backend/internal/database"
	"aidirectory-backend/internal/models"
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"
)

// ExportContentCSV dumps every row of one content type, regardless of status.
func ExportContentCSV(t models.ContentType) ([]byte, error) {
	list, err := models.NewContentList(t)
	if err != nil {
		return nil, ErrInvalidContentType
	}
	if err := database.DB.Order("id ASC").Find(list).Error; err != nil {
		return nil, err
	}
	return GenerateContentCSV(models.ContentListItems(t, list))
}

// GenerateContentCSV generates a CSV file content for content items
func GenerateContentCSV(items []models.Content) ([]byte, error) {
	b := &bytes.Buffer{}
	w := csv.NewWriter(b)

	header := []string{
		"ID", "Type", "Slug", "Title", "Status", "Category", "Difficulty",
		"Tags", "Author ID", "Vote Score", "Favorite Count", "Created At", "Updated At",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, item := range items {
		base := item.Base()
		author := ""
		if base.AuthorID != nil {
			author = fmt.Sprintf("%d", *base.AuthorID)
		}
		record := []string{
			fmt.Sprintf("%d", base.ID),
			string(item.ContentType()),
			base.Slug,
			base.Title,
			string(base.Status),
			base.Category,
			string(base.Difficulty),
			strings.Join(base.Tags, ";"),
			author,
			fmt.Sprintf("%d", base.VoteScore),
			fmt.Sprintf("%d", base.FavoriteCount),
			base.CreatedAt.Format(time.RFC3339),
			base.UpdatedAt.Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}
