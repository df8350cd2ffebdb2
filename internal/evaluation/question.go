// Package evaluation is the single source of truth for answer encoding,
// completeness checking and grading across all nine question types. Both the
// live completeness endpoint and the authoritative submission grader go
// through this package.
package evaluation

// Question type identifiers, stored on the question row.
const (
	TypeSingleChoice        = "single_choice"
	TypeMultipleChoice      = "multiple_choice"
	TypeTrueFalse           = "true_false"
	TypeShortAnswer         = "short_answer"
	TypeMultipleTrueFalse   = "multiple_true_false"
	TypeMatrixChoice        = "matrix_choice"
	TypeHotspot             = "hotspot"
	TypeMatchingSelect      = "matching_select"
	TypeMatchingDragAndDrop = "matching_drag_drop"
)

// Option is one selectable answer option.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Statement is one row of a multiple-true-false or matrix question. Position
// in the statement list is identity for those types.
type Statement struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Category is one column of a matrix question.
type Category struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// HotspotArea is a clickable region with normalized 0-1 coordinates.
// Shape is one of rect, circle, polygon.
type HotspotArea struct {
	ID     string `json:"id"`
	Shape  string `json:"shape"`
	Coords string `json:"coords"`
}

// MatchingItem is a prompt, choice, draggable or target of a matching question.
type MatchingItem struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Match pairs a prompt with the choice the student selected for it. A nil
// ChoiceID means the prompt is still unmatched.
type Match struct {
	PromptID string  `json:"promptId"`
	ChoiceID *string `json:"choiceId"`
}

// DragMatch pairs a draggable item with the target it was dropped on. A nil
// TargetItemID means the item has not been placed.
type DragMatch struct {
	DraggableItemID string  `json:"draggableItemId"`
	TargetItemID    *string `json:"targetItemId"`
}

// Question is the server-trusted read model the evaluator operates on.
// CorrectAnswer holds the encoded reference answer; the student-view
// projection blanks it out before anything leaves the server.
type Question struct {
	ID                string
	Type              string
	Points            int
	Options           []Option
	Statements        []Statement
	Categories        []Category
	Hotspots          []HotspotArea
	MultipleSelection bool
	Prompts           []MatchingItem
	Choices           []MatchingItem
	DraggableItems    []MatchingItem
	TargetItems       []MatchingItem
	AllowShuffle      bool
	CorrectAnswer     string
}

// UserAnswer is the student's encoded response for one question. A student
// has at most one UserAnswer per question; a resubmission replaces it.
type UserAnswer struct {
	QuestionID string `json:"questionId"`
	Answer     string `json:"answer"`
}
