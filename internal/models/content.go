package models

import (
	"fmt"
	"strings"
	"time"
)

// ContentType identifies one of the catalogued resource kinds. It is also the
// discriminator stored in polymorphic rows (votes, favorites, collection items).
type ContentType string

const (
	ContentTypePrompt         ContentType = "prompt"
	ContentTypeInstruction    ContentType = "instruction"
	ContentTypeAgent          ContentType = "agent"
	ContentTypeMcpServer      ContentType = "mcp"
	ContentTypeTool           ContentType = "tool"
	ContentTypeWorkflow       ContentType = "workflow"
	ContentTypeCodeRecipe     ContentType = "recipe"
	ContentTypeMigrationGuide ContentType = "migration"
	ContentTypeLearningPath   ContentType = "learning_path"
)

type ContentStatus string

const (
	ContentStatusPending  ContentStatus = "PENDING"
	ContentStatusApproved ContentStatus = "APPROVED"
	ContentStatusRejected ContentStatus = "REJECTED"
)

func (s ContentStatus) Valid() bool {
	switch s {
	case ContentStatusPending, ContentStatusApproved, ContentStatusRejected:
		return true
	}
	return false
}

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "BEGINNER"
	DifficultyIntermediate Difficulty = "INTERMEDIATE"
	DifficultyAdvanced     Difficulty = "ADVANCED"
)

// ContentBase holds the columns shared by every content table.
type ContentBase struct {
	ID            uint          `gorm:"primarykey" json:"id"`
	Title         string        `gorm:"size:200;not null" json:"title" validate:"required,max=200"`
	Slug          string        `gorm:"size:220;not null;uniqueIndex" json:"slug" validate:"omitempty,max=220,slug"`
	Description   string        `gorm:"size:500" json:"description" validate:"omitempty,max=500"`
	Content       string        `gorm:"type:text" json:"content"`
	Tags          StringList    `json:"tags" validate:"max=10,dive,max=40"`
	Category      string        `gorm:"size:60;index" json:"category" validate:"omitempty,max=60"`
	Difficulty    Difficulty    `gorm:"size:20" json:"difficulty,omitempty" validate:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED"`
	Status        ContentStatus `gorm:"size:20;not null;default:'PENDING';index" json:"status"`
	AuthorID      *uint         `gorm:"index" json:"author_id,omitempty"`
	Author        *User         `gorm:"-" json:"author,omitempty" validate:"-"`
	SourceURL     string        `gorm:"size:500" json:"source_url,omitempty" validate:"omitempty,url,max=500"`
	ImageURL      string        `gorm:"size:500" json:"image_url,omitempty" validate:"omitempty,url,max=500"`
	VoteScore     int           `gorm:"not null;default:0;index" json:"vote_score"`
	FavoriteCount int           `gorm:"not null;default:0" json:"favorite_count"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Base gives access to the shared columns of any content entity.
func (b *ContentBase) Base() *ContentBase {
	return b
}

// IsOwnedBy reports whether userID authored the item.
func (b *ContentBase) IsOwnedBy(userID uint) bool {
	return b.AuthorID != nil && *b.AuthorID == userID
}

// Content is implemented by pointers to every catalogued entity.
type Content interface {
	Base() *ContentBase
	ContentType() ContentType
}

type contentKind struct {
	routePath string
	dir       string
	label     string
	newOne    func() Content
	newList   func() interface{}
	toList    func(interface{}) []Content
}

func kindOf[T any, PT interface {
	*T
	Content
}](routePath, dir, label string) contentKind {
	return contentKind{
		routePath: routePath,
		dir:       dir,
		label:     label,
		newOne:    func() Content { return PT(new(T)) },
		newList:   func() interface{} { return &[]PT{} },
		toList: func(v interface{}) []Content {
			list := *(v.(*[]PT))
			out := make([]Content, len(list))
			for i, item := range list {
				out[i] = item
			}
			return out
		},
	}
}

var kinds = map[ContentType]contentKind{
	ContentTypePrompt:         kindOf[Prompt]("prompts", "prompts", "Prompt"),
	ContentTypeInstruction:    kindOf[Instruction]("instructions", "instructions", "Instruction"),
	ContentTypeAgent:          kindOf[Agent]("agents", "agents", "Agent"),
	ContentTypeMcpServer:      kindOf[McpServer]("mcps", "mcps", "MCP server"),
	ContentTypeTool:           kindOf[Tool]("tools", "tools", "Tool"),
	ContentTypeWorkflow:       kindOf[Workflow]("workflows", "workflows", "Workflow"),
	ContentTypeCodeRecipe:     kindOf[CodeRecipe]("recipes", "recipes", "Code recipe"),
	ContentTypeMigrationGuide: kindOf[MigrationGuide]("migrations", "migrations", "Migration guide"),
	ContentTypeLearningPath:   kindOf[LearningPath]("learning-paths", "learning-paths", "Learning path"),
}

// AllContentTypes lists the catalogued kinds in display order.
func AllContentTypes() []ContentType {
	return []ContentType{
		ContentTypePrompt,
		ContentTypeInstruction,
		ContentTypeAgent,
		ContentTypeMcpServer,
		ContentTypeTool,
		ContentTypeWorkflow,
		ContentTypeCodeRecipe,
		ContentTypeMigrationGuide,
		ContentTypeLearningPath,
	}
}

// ParseContentType accepts the stored discriminator, the route path, or the
// content directory name ("mcp", "mcps", "learning-paths", ...).
func ParseContentType(s string) (ContentType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, k := range kinds {
		if s == string(t) || s == k.routePath || s == k.dir {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown content type %q", s)
}

func (t ContentType) Valid() bool {
	_, ok := kinds[t]
	return ok
}

// RoutePath is the API collection segment, e.g. "learning-paths".
func (t ContentType) RoutePath() string {
	return kinds[t].routePath
}

// Dir is the directory holding markdown files of this kind in the content repository.
func (t ContentType) Dir() string {
	return kinds[t].dir
}

func (t ContentType) Label() string {
	return kinds[t].label
}

// NewContent returns an empty entity of the given kind.
func NewContent(t ContentType) (Content, error) {
	k, ok := kinds[t]
	if !ok {
		return nil, fmt.Errorf("unknown content type %q", t)
	}
	return k.newOne(), nil
}

// NewContentList returns a pointer to an empty typed slice suitable for gorm's Find.
// Use ContentListItems to read it back.
func NewContentList(t ContentType) (interface{}, error) {
	k, ok := kinds[t]
	if !ok {
		return nil, fmt.Errorf("unknown content type %q", t)
	}
	return k.newList(), nil
}

// ContentListItems converts a list created by NewContentList into Content values.
func ContentListItems(t ContentType, list interface{}) []Content {
	return kinds[t].toList(list)
}

// AllModels returns every model handled by AutoMigrate.
func AllModels() []interface{} {
	out := []interface{}{&User{}}
	for _, t := range AllContentTypes() {
		out = append(out, kinds[t].newOne())
	}
	return append(out,
		&Vote{},
		&Favorite{},
		&Collection{},
		&CollectionItem{},
		&Contribution{},
	)
}
