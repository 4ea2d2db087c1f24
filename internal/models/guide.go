package models

import "gorm.io/datatypes"

// Workflow is an ordered, multi-step process. Steps holds a JSON array.
type Workflow struct {
	ContentBase
	Steps datatypes.JSON `json:"steps,omitempty" swaggertype:"array,object"`
}

func (Workflow) ContentType() ContentType { return ContentTypeWorkflow }

type CodeRecipe struct {
	ContentBase
	Language  string `gorm:"size:60;index" json:"language,omitempty" validate:"omitempty,max=60"`
	Framework string `gorm:"size:60" json:"framework,omitempty" validate:"omitempty,max=60"`
}

func (CodeRecipe) ContentType() ContentType { return ContentTypeCodeRecipe }

type MigrationGuide struct {
	ContentBase
	FromTechnology string `gorm:"size:100" json:"from_technology,omitempty" validate:"omitempty,max=100"`
	ToTechnology   string `gorm:"size:100" json:"to_technology,omitempty" validate:"omitempty,max=100"`
}

func (MigrationGuide) ContentType() ContentType { return ContentTypeMigrationGuide }

// LearningPath groups ordered modules. Modules holds a JSON array.
type LearningPath struct {
	ContentBase
	Modules        datatypes.JSON `json:"modules,omitempty" swaggertype:"array,object"`
	EstimatedHours int            `gorm:"default:0" json:"estimated_hours" validate:"gte=0,lte=1000"`
}

func (LearningPath) ContentType() ContentType { return ContentTypeLearningPath }
