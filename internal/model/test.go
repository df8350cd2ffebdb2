package model

import (
	"encoding/json"
	"time"
)

// Test-taking modes. Race mode gates progression question by question and
// resets all progress on a wrong answer.
const (
	ModePractice = "practice"
	ModeTesting  = "testing"
	ModeRace     = "race"
)

type Test struct {
	UUIDBase
	Title            string     `gorm:"size:255;not null" json:"title"`
	Description      string     `gorm:"type:text" json:"description"`
	Mode             string     `gorm:"size:20;default:'practice'" json:"mode"`
	TimeLimit        int        `gorm:"default:0" json:"timeLimit"` // Seconds, 0 = unlimited
	ShuffleQuestions bool       `gorm:"default:false" json:"shuffleQuestions"`
	IsPublished      bool       `gorm:"default:false" json:"isPublished"`
	PublishedAt      *time.Time `json:"publishedAt,omitempty"`
	CreatorID        uint       `gorm:"index;type:bigint unsigned" json:"creatorId"`
}

func (Test) TableName() string {
	return "tests"
}

// Question stores the type-specific reference collections as JSON columns.
// The encoded correct answer lives in Answer and must never reach the
// student-facing view.
type Question struct {
	UUIDBase
	TestID            string          `gorm:"index;type:varchar(36)" json:"testId"`
	QuestionType      string          `gorm:"size:50;not null" json:"questionType"`
	Content           string          `gorm:"type:text;not null" json:"content"`
	Points            int             `gorm:"default:1" json:"points"`
	Order             int             `gorm:"default:0" json:"order"`
	Options           json.RawMessage `gorm:"type:json" json:"options,omitempty"`
	Statements        json.RawMessage `gorm:"type:json" json:"statements,omitempty"`
	Categories        json.RawMessage `gorm:"type:json" json:"categories,omitempty"`
	Hotspots          json.RawMessage `gorm:"type:json" json:"hotspots,omitempty"`
	Prompts           json.RawMessage `gorm:"type:json" json:"prompts,omitempty"`
	Choices           json.RawMessage `gorm:"type:json" json:"choices,omitempty"`
	DraggableItems    json.RawMessage `gorm:"type:json" json:"draggableItems,omitempty"`
	TargetItems       json.RawMessage `gorm:"type:json" json:"targetItems,omitempty"`
	MultipleSelection bool            `gorm:"default:false" json:"multipleSelection"`
	AllowShuffle      bool            `gorm:"default:false" json:"allowShuffle"`
	ImageURL          string          `gorm:"size:255" json:"imageUrl,omitempty"`
	Answer            string          `gorm:"type:text" json:"answer"`
	Explanation       string          `gorm:"type:text" json:"explanation"`
}

func (Question) TableName() string {
	return "questions"
}
