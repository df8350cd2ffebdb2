package model

import "encoding/json"

// TestResult is the append-only record of one graded submission. Score and
// TotalPoints are computed once at submission time and never recomputed.
type TestResult struct {
	UUIDBase
	TestID      string          `gorm:"index;type:varchar(36)" json:"testId"`
	UserID      uint            `gorm:"index;type:bigint unsigned" json:"userId"`
	User        *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	TestTitle   string          `gorm:"size:255" json:"testTitle"`
	Mode        string          `gorm:"size:20" json:"mode"`
	Score       int             `gorm:"not null" json:"score"`
	TotalPoints int             `gorm:"not null" json:"totalPoints"`
	TimeTaken   int             `gorm:"default:0" json:"timeTaken"` // Seconds
	Results     []QuestionResult `gorm:"foreignKey:ResultID" json:"questionResults,omitempty"`
}

func (TestResult) TableName() string {
	return "test_results"
}

// QuestionResult is the per-question audit row. It snapshots enough of the
// question's reference data to render a result breakdown after the question
// itself has been edited or deleted.
type QuestionResult struct {
	UUIDBase
	ResultID       string          `gorm:"index;type:varchar(36)" json:"resultId"`
	QuestionID     string          `gorm:"index;type:varchar(36)" json:"questionId"`
	QuestionType   string          `gorm:"size:50" json:"questionType"`
	Content        string          `gorm:"type:text" json:"content"`
	Options        json.RawMessage `gorm:"type:json" json:"options,omitempty"`
	Statements     json.RawMessage `gorm:"type:json" json:"statements,omitempty"`
	Categories     json.RawMessage `gorm:"type:json" json:"categories,omitempty"`
	Hotspots       json.RawMessage `gorm:"type:json" json:"hotspots,omitempty"`
	Prompts        json.RawMessage `gorm:"type:json" json:"prompts,omitempty"`
	Choices        json.RawMessage `gorm:"type:json" json:"choices,omitempty"`
	DraggableItems json.RawMessage `gorm:"type:json" json:"draggableItems,omitempty"`
	TargetItems    json.RawMessage `gorm:"type:json" json:"targetItems,omitempty"`
	UserAnswer     string          `gorm:"type:text" json:"userAnswer"`
	CorrectAnswer  string          `gorm:"type:text" json:"correctAnswer"`
	IsCorrect      bool            `gorm:"default:false" json:"isCorrect"`
	PointsEarned   int             `gorm:"default:0" json:"pointsEarned"`
	PointsPossible int             `gorm:"default:0" json:"pointsPossible"`
}

func (QuestionResult) TableName() string {
	return "question_results"
}
