// Package catalogfile reads and writes content entries as markdown files with a
// YAML front matter header:
//
//	---
//	title: Code review prompt
//	tags: [review, go]
//	---
//	Body in markdown.
package catalogfile

import (
	"aidirectory-backend/internal/models"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrNoFrontMatter = errors.New("document does not start with a front matter block")

const delimiter = "---"

// Meta is the front matter of a content file. Fields specific to one content
// type (apply_to, steps, install_command, ...) are kept in Extra.
type Meta struct {
	Title       string                 `yaml:"title"`
	Slug        string                 `yaml:"slug,omitempty"`
	Description string                 `yaml:"description,omitempty"`
	Category    string                 `yaml:"category,omitempty"`
	Difficulty  string                 `yaml:"difficulty,omitempty"`
	Tags        []string               `yaml:"tags,omitempty"`
	SourceURL   string                 `yaml:"source_url,omitempty"`
	ImageURL    string                 `yaml:"image_url,omitempty"`
	Image       string                 `yaml:"image,omitempty"`
	Extra       map[string]interface{} `yaml:",inline"`
}

type Document struct {
	Meta Meta
	Body string
}

// serverManaged keys never travel through files.
var serverManaged = map[string]bool{
	"id": true, "status": true, "author_id": true, "author": true,
	"vote_score": true, "favorite_count": true, "created_at": true, "updated_at": true,
}

var metaKeys = []string{"title", "slug", "description", "category", "difficulty", "tags", "source_url", "image_url", "content"}

// Parse splits a file into front matter and body.
func Parse(data []byte) (*Document, error) {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.TrimPrefix(text, "\ufeff")
	if !strings.HasPrefix(text, delimiter+"\n") {
		return nil, ErrNoFrontMatter
	}
	rest := text[len(delimiter)+1:]

	var header, body string
	if strings.HasPrefix(rest, delimiter+"\n") || rest == delimiter {
		body = strings.TrimPrefix(rest, delimiter)
	} else {
		end := strings.Index(rest, "\n"+delimiter+"\n")
		if end < 0 {
			if !strings.HasSuffix(rest, "\n"+delimiter) {
				return nil, fmt.Errorf("unterminated front matter: %w", ErrNoFrontMatter)
			}
			end = len(rest) - len(delimiter) - 1
		}
		header = rest[:end]
		body = rest[min(end+len(delimiter)+2, len(rest)):]
	}

	doc := &Document{Body: strings.TrimSpace(body)}
	if err := yaml.Unmarshal([]byte(header), &doc.Meta); err != nil {
		return nil, fmt.Errorf("invalid front matter: %w", err)
	}
	return doc, nil
}

// Render writes the document back in its file form.
func Render(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(delimiter + "\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc.Meta); err != nil {
		return nil, fmt.Errorf("encode front matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	buf.WriteString(delimiter + "\n\n")
	if body := strings.TrimSpace(doc.Body); body != "" {
		buf.WriteString(body)
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

// FilePath is where a content item lives in the content repository.
func FilePath(t models.ContentType, slug string) string {
	return path.Join("content", t.Dir(), slug+".md")
}

// FromContent builds the file form of a content item.
func FromContent(item models.Content) (*Document, error) {
	raw, err := json.Marshal(item)
	if err != nil {
		return nil, err
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	for _, k := range metaKeys {
		delete(fields, k)
	}
	for k, v := range fields {
		if serverManaged[k] || isEmpty(v) {
			delete(fields, k)
		}
	}

	base := item.Base()
	doc := &Document{
		Meta: Meta{
			Title:       base.Title,
			Slug:        base.Slug,
			Description: base.Description,
			Category:    base.Category,
			Difficulty:  string(base.Difficulty),
			Tags:        []string(base.Tags),
			SourceURL:   base.SourceURL,
			ImageURL:    base.ImageURL,
		},
		Body: base.Content,
	}
	if len(fields) > 0 {
		doc.Meta.Extra = fields
	}
	return doc, nil
}

// ToContent decodes the document into a new entity of type t.
func (d *Document) ToContent(t models.ContentType) (models.Content, error) {
	item, err := models.NewContent(t)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]interface{}, len(d.Meta.Extra)+len(metaKeys))
	for k, v := range d.Meta.Extra {
		if !serverManaged[k] {
			fields[k] = v
		}
	}
	fields["title"] = d.Meta.Title
	fields["slug"] = d.Meta.Slug
	fields["description"] = d.Meta.Description
	fields["category"] = d.Meta.Category
	fields["difficulty"] = d.Meta.Difficulty
	fields["tags"] = d.Meta.Tags
	fields["source_url"] = d.Meta.SourceURL
	fields["image_url"] = d.Meta.ImageURL
	fields["content"] = d.Body

	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("front matter is not representable as JSON: %w", err)
	}
	if err := json.Unmarshal(raw, item); err != nil {
		return nil, fmt.Errorf("front matter does not match %s fields: %w", t, err)
	}
	return item, nil
}

func isEmpty(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case float64:
		return val == 0
	case []interface{}:
		return len(val) == 0
	case map[string]interface{}:
		return len(val) == 0
	}
	return false
}
