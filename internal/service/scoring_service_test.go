package service

import (
	"encoding/json"
	"errors"
	"testing"

	"testwave_backend/internal/evaluation"
	"testwave_backend/internal/model"
	"testwave_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeTestStore struct {
	test      *model.Test
	questions []model.Question
}

func (f *fakeTestStore) FindTestByID(id string) (*model.Test, error) {
	if f.test == nil || f.test.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return f.test, nil
}

func (f *fakeTestStore) ListQuestions(testID string) ([]model.Question, error) {
	return f.questions, nil
}

type fakeResultStore struct {
	count int64
	fail  bool
	saved *model.TestResult
	rows  []model.QuestionResult
}

func (f *fakeResultStore) SaveResult(result *model.TestResult, rows []model.QuestionResult) error {
	if f.fail {
		return errors.New("database unavailable")
	}
	f.saved = result
	f.rows = rows
	return nil
}

func (f *fakeResultStore) FindByID(id string) (*model.TestResult, error) {
	if f.saved == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.saved, nil
}

func (f *fakeResultStore) ListByUser(userID uint, page, limit int) ([]model.TestResult, int64, error) {
	return nil, 0, nil
}

func (f *fakeResultStore) ListByTest(testID string, page, limit int) ([]model.TestResult, int64, error) {
	return nil, 0, nil
}

func (f *fakeResultStore) CountByUserAndTest(userID uint, testID string) (int64, error) {
	return f.count, nil
}

func (f *fakeResultStore) DeleteResult(id string) error {
	return nil
}

func gradingService() *ScoringService {
	return NewScoringService(nil, nil, evaluation.NewEvaluator(zap.NewNop()), zap.NewNop())
}

func question(id, typ, content, answer string, points int) model.Question {
	q := model.Question{
		QuestionType: typ,
		Content:      content,
		Points:       points,
		Answer:       answer,
	}
	q.ID = id
	return q
}

func gradingTest(mode string) *model.Test {
	t := &model.Test{Title: "Biology basics", Mode: mode}
	t.ID = "test-1"
	return t
}

func TestGradeScoresAndTotals(t *testing.T) {
	s := gradingService()
	questions := []model.Question{
		question("q1", evaluation.TypeSingleChoice, "Pick B", "B", 2),
		question("q2", evaluation.TypeTrueFalse, "Sky is blue", "true", 1),
		question("q3", evaluation.TypeShortAnswer, "Name the process", "photosynthesis", 3),
	}

	answers := []evaluation.UserAnswer{
		{QuestionID: "q1", Answer: "B"},
		{QuestionID: "q2", Answer: "false"},
		{QuestionID: "q3", Answer: " PHOTOSYNTHESIS "},
	}

	result, rows := s.Grade(gradingTest(model.ModePractice), questions, 7, answers, 125)

	assert.Equal(t, "test-1", result.TestID)
	assert.Equal(t, uint(7), result.UserID)
	assert.Equal(t, "Biology basics", result.TestTitle)
	assert.Equal(t, model.ModePractice, result.Mode)
	assert.Equal(t, 125, result.TimeTaken)
	assert.Equal(t, 5, result.Score)
	assert.Equal(t, 6, result.TotalPoints)

	require.Len(t, rows, 3)
	assert.True(t, rows[0].IsCorrect)
	assert.Equal(t, 2, rows[0].PointsEarned)
	assert.False(t, rows[1].IsCorrect)
	assert.Equal(t, 0, rows[1].PointsEarned)
	assert.Equal(t, 1, rows[1].PointsPossible)
	assert.True(t, rows[2].IsCorrect)
}

func TestGradeMissingAnswersCountAsEmpty(t *testing.T) {
	s := gradingService()
	questions := []model.Question{
		question("q1", evaluation.TypeSingleChoice, "Pick A", "A", 2),
		question("q2", evaluation.TypeMultipleChoice, "Pick some", `["x"]`, 4),
	}

	// no answers at all: everything grades incorrect, totals still full
	result, rows := s.Grade(gradingTest(model.ModePractice), questions, 7, nil, 0)

	assert.Equal(t, 0, result.Score)
	assert.Equal(t, 6, result.TotalPoints)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.False(t, row.IsCorrect)
		assert.Equal(t, "", row.UserAnswer)
	}
}

func TestGradeExtraAnswersAreIgnored(t *testing.T) {
	s := gradingService()
	questions := []model.Question{
		question("q1", evaluation.TypeSingleChoice, "Pick A", "A", 1),
	}
	answers := []evaluation.UserAnswer{
		{QuestionID: "q1", Answer: "A"},
		{QuestionID: "ghost", Answer: "A"},
	}

	result, rows := s.Grade(gradingTest(model.ModeTesting), questions, 7, answers, 10)

	assert.Equal(t, 1, result.Score)
	assert.Equal(t, 1, result.TotalPoints)
	require.Len(t, rows, 1)
}

func TestGradeSnapshotsQuestionData(t *testing.T) {
	s := gradingService()
	q := question("q1", evaluation.TypeMultipleChoice, "Pick A and C", `["A","C"]`, 2)
	q.Options = json.RawMessage(`[{"id":"o1","text":"A"},{"id":"o2","text":"B"},{"id":"o3","text":"C"}]`)

	answers := []evaluation.UserAnswer{{QuestionID: "q1", Answer: `["C","A"]`}}
	result, rows := s.Grade(gradingTest(model.ModePractice), []model.Question{q}, 7, answers, 30)

	assert.Equal(t, 2, result.Score)
	require.Len(t, rows, 1)
	assert.Equal(t, `["C","A"]`, rows[0].UserAnswer)
	assert.Equal(t, `["A","C"]`, rows[0].CorrectAnswer)
	assert.JSONEq(t, string(q.Options), string(rows[0].Options))
	assert.Equal(t, evaluation.TypeMultipleChoice, rows[0].QuestionType)
	assert.Equal(t, "Pick A and C", rows[0].Content)
}

func TestGradeUnknownTypeIncorrectNotFatal(t *testing.T) {
	s := gradingService()
	questions := []model.Question{
		question("q1", "essay", "Write freely", "n/a", 5),
		question("q2", evaluation.TypeTrueFalse, "Sky is blue", "true", 1),
	}
	answers := []evaluation.UserAnswer{
		{QuestionID: "q1", Answer: "long text"},
		{QuestionID: "q2", Answer: "true"},
	}

	result, rows := s.Grade(gradingTest(model.ModePractice), questions, 7, answers, 0)

	// the unknown type contributes its points to the total but never to the score
	assert.Equal(t, 1, result.Score)
	assert.Equal(t, 6, result.TotalPoints)
	assert.False(t, rows[0].IsCorrect)
	assert.True(t, rows[1].IsCorrect)
}

func TestGradeQuestionRecoversFromPanic(t *testing.T) {
	s := gradingService()

	assert.NotPanics(t, func() {
		correct := s.gradeQuestion(evaluation.Question{ID: "q1", Type: evaluation.TypeSingleChoice, CorrectAnswer: "A"}, "A")
		assert.True(t, correct)
	})
}

func TestSubmitTestRequiresIdentity(t *testing.T) {
	s := gradingService()

	_, err := s.SubmitTest(0, "test-1", SubmitReq{})
	assert.ErrorIs(t, err, util.ErrMissingIdentity)
}

func submitService(test *model.Test, questions []model.Question, results *fakeResultStore) *ScoringService {
	return NewScoringService(
		&fakeTestStore{test: test, questions: questions},
		results,
		evaluation.NewEvaluator(zap.NewNop()),
		zap.NewNop(),
	)
}

func TestSubmitTestPersistsGradedResult(t *testing.T) {
	test := gradingTest(model.ModePractice)
	test.IsPublished = true
	questions := []model.Question{
		question("q1", evaluation.TypeSingleChoice, "Pick A", "A", 2),
		question("q2", evaluation.TypeTrueFalse, "Sky is blue", "true", 1),
	}
	results := &fakeResultStore{}
	s := submitService(test, questions, results)

	result, err := s.SubmitTest(7, "test-1", SubmitReq{
		Answers:   []evaluation.UserAnswer{{QuestionID: "q1", Answer: "A"}},
		TimeTaken: 30,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Score)
	assert.Equal(t, 3, result.TotalPoints)
	require.NotNil(t, results.saved)
	assert.Len(t, results.rows, 2)
}

func TestSubmitTestRejectsUnpublished(t *testing.T) {
	test := gradingTest(model.ModePractice)
	results := &fakeResultStore{}
	s := submitService(test, nil, results)

	_, err := s.SubmitTest(7, "test-1", SubmitReq{})
	assert.ErrorIs(t, err, util.ErrTestNotPublished)
	assert.Nil(t, results.saved)
}

func TestSubmitTestUnknownTest(t *testing.T) {
	s := submitService(nil, nil, &fakeResultStore{})

	_, err := s.SubmitTest(7, "missing", SubmitReq{})
	assert.ErrorIs(t, err, util.ErrTestNotFound)
}

func TestSubmitTestSingleAttemptInTestingMode(t *testing.T) {
	test := gradingTest(model.ModeTesting)
	test.IsPublished = true
	s := submitService(test, nil, &fakeResultStore{count: 1})

	_, err := s.SubmitTest(7, "test-1", SubmitReq{})
	assert.ErrorIs(t, err, util.ErrAlreadySubmitted)
}

func TestSubmitTestPersistenceFailure(t *testing.T) {
	test := gradingTest(model.ModePractice)
	test.IsPublished = true
	questions := []model.Question{
		question("q1", evaluation.TypeSingleChoice, "Pick A", "A", 1),
	}
	s := submitService(test, questions, &fakeResultStore{fail: true})

	_, err := s.SubmitTest(7, "test-1", SubmitReq{})
	assert.ErrorIs(t, err, util.ErrPersistenceFailure)
}
