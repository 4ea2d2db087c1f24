package models

import "time"

type ContributionStatus string

const (
	ContributionStatusQueued     ContributionStatus = "queued"
	ContributionStatusProcessing ContributionStatus = "processing"
	ContributionStatusOpened     ContributionStatus = "opened"
	ContributionStatusFailed     ContributionStatus = "failed"
)

// Contribution tracks a submitted content file until it lands as a pull request.
type Contribution struct {
	ID          uint               `gorm:"primarykey" json:"id"`
	UserID      uint               `gorm:"not null;index" json:"user_id"`
	User        *User              `gorm:"foreignKey:UserID" json:"-"`
	ContentType ContentType        `gorm:"size:20;not null" json:"content_type"`
	Title       string             `gorm:"size:200;not null" json:"title"`
	Slug        string             `gorm:"size:220;not null" json:"slug"`
	FilePath    string             `gorm:"size:300;not null" json:"file_path"`
	Document    string             `gorm:"type:text;not null" json:"-"`
	Status      ContributionStatus `gorm:"size:20;not null;default:'queued';index" json:"status"`
	Branch      string             `gorm:"size:200" json:"branch,omitempty"`
	PRNumber    int                `json:"pr_number,omitempty"`
	PRURL       string             `gorm:"size:500" json:"pr_url,omitempty"`
	RetryCount  int                `gorm:"default:0" json:"retry_count"`
	MaxRetries  int                `gorm:"default:3" json:"max_retries"`
	ErrorLog    string             `gorm:"type:text" json:"error_log,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}
