package models

// Prompt is a reusable prompt template.
type Prompt struct {
	ContentBase
	TargetModel string     `gorm:"size:100" json:"target_model,omitempty" validate:"omitempty,max=100"`
	Variables   StringList `json:"variables" validate:"max=20,dive,max=60"`
}

func (Prompt) ContentType() ContentType { return ContentTypePrompt }

// Instruction is a custom instructions file scoped to matching paths.
type Instruction struct {
	ContentBase
	ApplyTo  string `gorm:"size:200" json:"apply_to,omitempty" validate:"omitempty,max=200"`
	Language string `gorm:"size:60;index" json:"language,omitempty" validate:"omitempty,max=60"`
}

func (Instruction) ContentType() ContentType { return ContentTypeInstruction }
