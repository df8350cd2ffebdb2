package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestEvaluator() *Evaluator {
	return NewEvaluator(zap.NewNop())
}

func singleChoiceQuestion() Question {
	return Question{
		ID:     "q-single",
		Type:   TypeSingleChoice,
		Points: 2,
		Options: []Option{
			{ID: "o1", Text: "A"},
			{ID: "o2", Text: "B"},
			{ID: "o3", Text: "C"},
		},
		CorrectAnswer: "B",
	}
}

func TestIsCorrectSingleChoice(t *testing.T) {
	e := newTestEvaluator()
	q := singleChoiceQuestion()

	tests := []struct {
		name   string
		answer string
		want   bool
	}{
		{name: "exact match", answer: "B", want: true},
		{name: "wrong option", answer: "A", want: false},
		{name: "case matters", answer: "b", want: false},
		{name: "empty", answer: "", want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, e.IsCorrect(q, tc.answer))
		})
	}
}

func TestIsCorrectTrueFalse(t *testing.T) {
	e := newTestEvaluator()
	q := Question{ID: "q-tf", Type: TypeTrueFalse, Points: 1, CorrectAnswer: "true"}

	assert.True(t, e.IsCorrect(q, "true"))
	assert.True(t, e.IsCorrect(q, "TRUE"))
	assert.False(t, e.IsCorrect(q, "false"))
	assert.False(t, e.IsCorrect(q, ""))
}

func TestIsCorrectShortAnswer(t *testing.T) {
	e := newTestEvaluator()
	q := Question{ID: "q-short", Type: TypeShortAnswer, Points: 1, CorrectAnswer: " Photosynthesis "}

	tests := []struct {
		name   string
		answer string
		want   bool
	}{
		{name: "exact", answer: "Photosynthesis", want: true},
		{name: "case insensitive", answer: "photosynthesis", want: true},
		{name: "surrounding whitespace trimmed", answer: "  PHOTOSYNTHESIS\n", want: true},
		{name: "different word", answer: "respiration", want: false},
		{name: "inner whitespace matters", answer: "photo synthesis", want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, e.IsCorrect(q, tc.answer))
		})
	}
}

func TestIsCorrectMultipleChoice(t *testing.T) {
	e := newTestEvaluator()
	q := Question{
		ID:   "q-multi",
		Type: TypeMultipleChoice,
		Options: []Option{
			{ID: "o1", Text: "A"}, {ID: "o2", Text: "B"}, {ID: "o3", Text: "C"},
		},
		CorrectAnswer: `["A","C"]`,
	}

	tests := []struct {
		name   string
		answer string
		want   bool
	}{
		{name: "same order", answer: `["A","C"]`, want: true},
		{name: "order independent", answer: `["C","A"]`, want: true},
		{name: "missing one", answer: `["A"]`, want: false},
		{name: "extra one", answer: `["A","B","C"]`, want: false},
		{name: "duplicate sensitive", answer: `["A","A","C"]`, want: false},
		{name: "empty array", answer: `[]`, want: false},
		{name: "malformed", answer: `not valid json{{{`, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, e.IsCorrect(q, tc.answer))
		})
	}
}

func mtfQuestion() Question {
	return Question{
		ID:   "q-mtf",
		Type: TypeMultipleTrueFalse,
		Statements: []Statement{
			{ID: "s1", Text: "First"},
			{ID: "s2", Text: "Second"},
			{ID: "s3", Text: "Third"},
		},
		CorrectAnswer: `["true","false","true"]`,
	}
}

func TestIsCorrectMultipleTrueFalse(t *testing.T) {
	e := newTestEvaluator()
	q := mtfQuestion()

	tests := []struct {
		name   string
		answer string
		want   bool
	}{
		{name: "all match", answer: `["true","false","true"]`, want: true},
		{name: "case insensitive per position", answer: `["TRUE","False","true"]`, want: true},
		{name: "order dependent", answer: `["false","true","true"]`, want: false},
		{name: "short array", answer: `["true","false"]`, want: false},
		{name: "long array", answer: `["true","false","true","true"]`, want: false},
		{name: "malformed", answer: `{{{`, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, e.IsCorrect(q, tc.answer))
		})
	}
}

func TestIsCorrectMatrixChoice(t *testing.T) {
	e := newTestEvaluator()
	q := Question{
		ID:   "q-matrix",
		Type: TypeMatrixChoice,
		Statements: []Statement{
			{ID: "s1", Text: "Dog"},
			{ID: "s2", Text: "Oak"},
		},
		Categories: []Category{
			{ID: "c1", Text: "Animal"},
			{ID: "c2", Text: "Plant"},
		},
		CorrectAnswer: `["Animal","Plant"]`,
	}

	assert.True(t, e.IsCorrect(q, `["Animal","Plant"]`))
	// matrix comparison is case sensitive, unlike multiple true/false
	assert.False(t, e.IsCorrect(q, `["animal","Plant"]`))
	assert.False(t, e.IsCorrect(q, `["Plant","Animal"]`))
	assert.False(t, e.IsCorrect(q, `["Animal"]`))
}

func hotspotQuestion(multi bool, correct string) Question {
	return Question{
		ID:   "q-hotspot",
		Type: TypeHotspot,
		Hotspots: []HotspotArea{
			{ID: "h1", Shape: "rect", Coords: "0.1,0.1,0.3,0.3"},
			{ID: "h2", Shape: "circle", Coords: "0.5,0.5,0.1"},
			{ID: "h3", Shape: "polygon", Coords: "0.6,0.6,0.7,0.8,0.9,0.6"},
		},
		MultipleSelection: multi,
		CorrectAnswer:     correct,
	}
}

func TestIsCorrectHotspotMulti(t *testing.T) {
	e := newTestEvaluator()
	q := hotspotQuestion(true, `["h1","h3"]`)

	assert.True(t, e.IsCorrect(q, `["h1","h3"]`))
	assert.True(t, e.IsCorrect(q, `["h3","h1"]`))
	assert.False(t, e.IsCorrect(q, `["h1"]`))
	assert.False(t, e.IsCorrect(q, `["h1","h2","h3"]`))
	assert.False(t, e.IsCorrect(q, `{{{`))
}

func TestIsCorrectHotspotSingle(t *testing.T) {
	e := newTestEvaluator()
	// single selection stores the reference as a bare id, not an array
	q := hotspotQuestion(false, "h2")

	tests := []struct {
		name   string
		answer string
		want   bool
	}{
		{name: "right id", answer: `["h2"]`, want: true},
		{name: "wrong id", answer: `["h1"]`, want: false},
		{name: "two ids", answer: `["h2","h1"]`, want: false},
		{name: "empty array", answer: `[]`, want: false},
		{name: "empty id", answer: `[""]`, want: false},
		{name: "malformed", answer: `h2`, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, e.IsCorrect(q, tc.answer))
		})
	}
}

func TestIsCorrectHotspotSingleEmptyReference(t *testing.T) {
	e := newTestEvaluator()
	// an empty reference never grades correct, whatever the answer claims
	q := hotspotQuestion(false, "")

	assert.False(t, e.IsCorrect(q, `[]`))
	assert.False(t, e.IsCorrect(q, `[""]`))
}

func matchingSelectQuestion() Question {
	return Question{
		ID:   "q-match",
		Type: TypeMatchingSelect,
		Prompts: []MatchingItem{
			{ID: "p1", Text: "France"},
			{ID: "p2", Text: "Japan"},
		},
		Choices: []MatchingItem{
			{ID: "c1", Text: "Paris"},
			{ID: "c2", Text: "Tokyo"},
		},
		CorrectAnswer: `[{"promptId":"p1","choiceId":"c1"},{"promptId":"p2","choiceId":"c2"}]`,
	}
}

func TestIsCorrectMatchingSelect(t *testing.T) {
	e := newTestEvaluator()
	q := matchingSelectQuestion()

	tests := []struct {
		name   string
		answer string
		want   bool
	}{
		{
			name:   "all matched",
			answer: `[{"promptId":"p1","choiceId":"c1"},{"promptId":"p2","choiceId":"c2"}]`,
			want:   true,
		},
		{
			name:   "entry order irrelevant",
			answer: `[{"promptId":"p2","choiceId":"c2"},{"promptId":"p1","choiceId":"c1"}]`,
			want:   true,
		},
		{
			name:   "one null choice",
			answer: `[{"promptId":"p1","choiceId":"c1"},{"promptId":"p2","choiceId":null}]`,
			want:   false,
		},
		{
			name:   "swapped choices",
			answer: `[{"promptId":"p1","choiceId":"c2"},{"promptId":"p2","choiceId":"c1"}]`,
			want:   false,
		},
		{
			name:   "missing prompt",
			answer: `[{"promptId":"p1","choiceId":"c1"}]`,
			want:   false,
		},
		{name: "malformed", answer: `[{"promptId":`, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, e.IsCorrect(q, tc.answer))
		})
	}
}

func TestIsCorrectMatchingSelectNoPrompts(t *testing.T) {
	e := newTestEvaluator()
	q := Question{ID: "q-empty", Type: TypeMatchingSelect, CorrectAnswer: `[]`}

	// degenerate zero-prompt question is vacuously correct
	assert.True(t, e.IsCorrect(q, `[]`))
}

func dragDropQuestion() Question {
	return Question{
		ID:   "q-drag",
		Type: TypeMatchingDragAndDrop,
		DraggableItems: []MatchingItem{
			{ID: "d1", Text: "H2O"},
			{ID: "d2", Text: "CO2"},
		},
		TargetItems: []MatchingItem{
			{ID: "t1", Text: "Water"},
			{ID: "t2", Text: "Carbon dioxide"},
		},
		CorrectAnswer: `[{"draggableItemId":"d1","targetItemId":"t1"},{"draggableItemId":"d2","targetItemId":"t2"}]`,
	}
}

func TestIsCorrectMatchingDragAndDrop(t *testing.T) {
	e := newTestEvaluator()
	q := dragDropQuestion()

	tests := []struct {
		name   string
		answer string
		want   bool
	}{
		{
			name:   "all placed",
			answer: `[{"draggableItemId":"d1","targetItemId":"t1"},{"draggableItemId":"d2","targetItemId":"t2"}]`,
			want:   true,
		},
		{
			name:   "pair order irrelevant",
			answer: `[{"draggableItemId":"d2","targetItemId":"t2"},{"draggableItemId":"d1","targetItemId":"t1"}]`,
			want:   true,
		},
		{
			name:   "unplaced entries ignored",
			answer: `[{"draggableItemId":"d1","targetItemId":"t1"},{"draggableItemId":"d2","targetItemId":"t2"},{"draggableItemId":"d3","targetItemId":null}]`,
			want:   true,
		},
		{
			name:   "swapped targets",
			answer: `[{"draggableItemId":"d1","targetItemId":"t2"},{"draggableItemId":"d2","targetItemId":"t1"}]`,
			want:   false,
		},
		{
			name:   "missing pair",
			answer: `[{"draggableItemId":"d1","targetItemId":"t1"}]`,
			want:   false,
		},
		{name: "malformed", answer: `{{{`, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, e.IsCorrect(q, tc.answer))
		})
	}
}

func TestIsCorrectUnknownType(t *testing.T) {
	e := newTestEvaluator()
	q := Question{ID: "q-odd", Type: "essay", CorrectAnswer: "whatever"}

	assert.False(t, e.IsCorrect(q, "whatever"))
	assert.False(t, e.IsComplete(q, "whatever"))
}

func TestIsCompleteTextTypes(t *testing.T) {
	e := newTestEvaluator()

	for _, typ := range []string{TypeSingleChoice, TypeTrueFalse, TypeShortAnswer} {
		q := Question{ID: "q", Type: typ, CorrectAnswer: "x"}
		assert.True(t, e.IsComplete(q, "something"), typ)
		assert.False(t, e.IsComplete(q, ""), typ)
		assert.False(t, e.IsComplete(q, "   \t"), typ)
	}
}

func TestIsCompleteMultipleChoice(t *testing.T) {
	e := newTestEvaluator()
	q := Question{ID: "q", Type: TypeMultipleChoice, CorrectAnswer: `["A"]`}

	assert.True(t, e.IsComplete(q, `["B"]`))
	assert.False(t, e.IsComplete(q, `[]`))
	assert.False(t, e.IsComplete(q, ""))
	assert.False(t, e.IsComplete(q, `{{{`))
}

func TestIsCompletePositionalTypes(t *testing.T) {
	e := newTestEvaluator()

	mtf := mtfQuestion()
	assert.True(t, e.IsComplete(mtf, `["true","true","false"]`))
	assert.False(t, e.IsComplete(mtf, `["true","true"]`))
	assert.False(t, e.IsComplete(mtf, `["true","","false"]`))
	assert.False(t, e.IsComplete(mtf, ""))

	matrix := Question{
		ID:         "q-matrix",
		Type:       TypeMatrixChoice,
		Statements: []Statement{{ID: "s1"}, {ID: "s2"}},
	}
	assert.True(t, e.IsComplete(matrix, `["Animal","Plant"]`))
	assert.False(t, e.IsComplete(matrix, `["Animal",""]`))
	assert.False(t, e.IsComplete(matrix, `["Animal"]`))
}

func TestIsCompleteHotspot(t *testing.T) {
	e := newTestEvaluator()

	multi := hotspotQuestion(true, `["h1"]`)
	assert.True(t, e.IsComplete(multi, `["h1","h2"]`))
	assert.False(t, e.IsComplete(multi, `[]`))

	single := hotspotQuestion(false, "h1")
	assert.True(t, e.IsComplete(single, `["h2"]`))
	assert.False(t, e.IsComplete(single, `["h1","h2"]`))
	assert.False(t, e.IsComplete(single, `[""]`))
	assert.False(t, e.IsComplete(single, `[]`))
}

func TestIsCompleteMatchingSelect(t *testing.T) {
	e := newTestEvaluator()
	q := matchingSelectQuestion()

	assert.True(t, e.IsComplete(q, `[{"promptId":"p1","choiceId":"c2"},{"promptId":"p2","choiceId":"c1"}]`))
	assert.False(t, e.IsComplete(q, `[{"promptId":"p1","choiceId":"c1"},{"promptId":"p2","choiceId":null}]`))
	assert.False(t, e.IsComplete(q, `[{"promptId":"p1","choiceId":"c1"}]`))
	assert.False(t, e.IsComplete(q, ""))
}

func TestIsCompleteMatchingDragAndDropLenient(t *testing.T) {
	e := newTestEvaluator()
	q := dragDropQuestion()

	// One placed item counts as complete even with the second still floating.
	// Arguably every item should need placing (as matching_select does); this
	// pins the current product behavior.
	assert.True(t, e.IsComplete(q, `[{"draggableItemId":"d1","targetItemId":"t1"},{"draggableItemId":"d2","targetItemId":null}]`))
	assert.False(t, e.IsComplete(q, `[{"draggableItemId":"d1","targetItemId":null}]`))
	assert.False(t, e.IsComplete(q, `[]`))
	assert.False(t, e.IsComplete(q, ""))
}

func TestBrokenReferenceAnswerGradesFalse(t *testing.T) {
	e := newTestEvaluator()

	garbageDrag := dragDropQuestion()
	garbageDrag.CorrectAnswer = `{{{not json`
	unplacedDrag := dragDropQuestion()
	unplacedDrag.CorrectAnswer = `[{"draggableItemId":"d1","targetItemId":null}]`

	tests := []struct {
		name string
		q    Question
	}{
		{name: "multiple choice garbage", q: Question{ID: "q", Type: TypeMultipleChoice, CorrectAnswer: `{{{not json`}},
		{name: "multiple choice empty array", q: Question{ID: "q", Type: TypeMultipleChoice, CorrectAnswer: `[]`}},
		{name: "hotspot multi garbage", q: hotspotQuestion(true, `{{{not json`)},
		{name: "hotspot multi empty array", q: hotspotQuestion(true, `[]`)},
		{name: "drag and drop garbage", q: garbageDrag},
		{name: "drag and drop nothing placed", q: unplacedDrag},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// an unanswered question must never match a reference that
			// decodes to nothing
			assert.False(t, e.IsCorrect(tc.q, ""))
			assert.False(t, e.IsCorrect(tc.q, `[]`))
			assert.False(t, e.IsCorrect(tc.q, `{{{not json`))
		})
	}
}

func TestMalformedInputNeverPanics(t *testing.T) {
	e := newTestEvaluator()
	garbage := []string{``, `not valid json{{{`, `null`, `[{]`, `"`, `[[[[`}

	questions := []Question{
		singleChoiceQuestion(),
		{ID: "tf", Type: TypeTrueFalse, CorrectAnswer: "true"},
		{ID: "sa", Type: TypeShortAnswer, CorrectAnswer: "x"},
		{ID: "mc", Type: TypeMultipleChoice, CorrectAnswer: `["A"]`},
		mtfQuestion(),
		{ID: "mx", Type: TypeMatrixChoice, Statements: []Statement{{ID: "s1"}}, CorrectAnswer: `["A"]`},
		hotspotQuestion(true, `["h1"]`),
		hotspotQuestion(false, "h1"),
		matchingSelectQuestion(),
		dragDropQuestion(),
	}

	for _, q := range questions {
		for _, g := range garbage {
			assert.NotPanics(t, func() {
				e.IsCorrect(q, g)
				e.IsComplete(q, g)
			}, "type %s input %q", q.Type, g)
		}
	}
}

func TestEvaluationIsIdempotent(t *testing.T) {
	e := newTestEvaluator()
	q := matchingSelectQuestion()
	answer := `[{"promptId":"p1","choiceId":"c1"},{"promptId":"p2","choiceId":"c2"}]`

	first := e.IsCorrect(q, answer)
	second := e.IsCorrect(q, answer)
	assert.Equal(t, first, second)
	assert.True(t, first)

	assert.Equal(t, e.IsComplete(q, answer), e.IsComplete(q, answer))
}
