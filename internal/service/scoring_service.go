package service

import (
	"errors"
	"fmt"
	"sync"
	"testwave_backend/internal/evaluation"
	"testwave_backend/internal/model"
	"testwave_backend/internal/util"
	"testwave_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TestStore and ResultStore are the repository slices the scoring path
// reads and writes. *repository.TestRepository and
// *repository.ResultRepository satisfy them.
type TestStore interface {
	FindTestByID(id string) (*model.Test, error)
	ListQuestions(testID string) ([]model.Question, error)
}

type ResultStore interface {
	SaveResult(result *model.TestResult, rows []model.QuestionResult) error
	FindByID(id string) (*model.TestResult, error)
	ListByUser(userID uint, page, limit int) ([]model.TestResult, int64, error)
	ListByTest(testID string, page, limit int) ([]model.TestResult, int64, error)
	CountByUserAndTest(userID uint, testID string) (int64, error)
	DeleteResult(id string) error
}

// ScoringService grades whole submissions. Grading itself is pure and
// per-question isolated; persistence happens once, after every question has
// been evaluated.
type ScoringService struct {
	TestRepo   TestStore
	ResultRepo ResultStore
	Evaluator  *evaluation.Evaluator
	log        *zap.Logger

	// One submission per user+test may be in flight at a time. The guard
	// makes concurrent submits (manual vs. timer expiry) first-one-wins.
	inFlight sync.Map
}

func NewScoringService(testRepo TestStore, resultRepo ResultStore, eval *evaluation.Evaluator, log *zap.Logger) *ScoringService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ScoringService{
		TestRepo:   testRepo,
		ResultRepo: resultRepo,
		Evaluator:  eval,
		log:        log,
	}
}

type SubmitReq struct {
	Answers   []evaluation.UserAnswer `json:"answers"`
	TimeTaken int                     `json:"timeTaken"`
}

// SubmitTest grades the submission against the server-trusted question list
// and persists the result. A failed submission persists nothing; the caller
// retries with the same answer set.
func (s *ScoringService) SubmitTest(userID uint, testID string, req SubmitReq) (*model.TestResult, error) {
	if userID == 0 {
		return nil, util.ErrMissingIdentity
	}

	key := fmt.Sprintf("%d:%s", userID, testID)
	if _, loaded := s.inFlight.LoadOrStore(key, struct{}{}); loaded {
		return nil, util.ErrSubmissionInFlight
	}
	defer s.inFlight.Delete(key)

	test, err := s.TestRepo.FindTestByID(testID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTestNotFound
		}
		return nil, err
	}

	// Same gate as the view and completeness endpoints: an unpublished test
	// takes no submissions.
	if !test.IsPublished {
		return nil, util.ErrTestNotPublished
	}

	if test.Mode == model.ModeTesting {
		// Testing mode allows exactly one graded attempt.
		count, err := s.ResultRepo.CountByUserAndTest(userID, testID)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, util.ErrAlreadySubmitted
		}
	}

	questions, err := s.TestRepo.ListQuestions(testID)
	if err != nil {
		return nil, err
	}

	result, rows := s.Grade(test, questions, userID, req.Answers, req.TimeTaken)

	if err := s.ResultRepo.SaveResult(result, rows); err != nil {
		s.log.Error("failed to persist test result",
			zap.String("testId", testID),
			zap.Uint("userId", userID),
			zap.Error(err),
		)
		return nil, util.ErrPersistenceFailure
	}

	monitoring.SubmissionCounter.WithLabelValues(test.Mode).Inc()
	result.Results = rows
	return result, nil
}

// Grade evaluates every question of the test against the submitted answers.
// An unanswered question grades as an empty answer; total points always sums
// the points of all questions, answered or not. Each question's grading is
// independent, so order never matters and one bad question cannot take down
// the submission.
func (s *ScoringService) Grade(test *model.Test, questions []model.Question, userID uint, answers []evaluation.UserAnswer, timeTaken int) (*model.TestResult, []model.QuestionResult) {
	byQuestion := make(map[string]string, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a.Answer
	}

	result := &model.TestResult{
		TestID:    test.ID,
		UserID:    userID,
		TestTitle: test.Title,
		Mode:      test.Mode,
		TimeTaken: timeTaken,
	}

	rows := make([]model.QuestionResult, 0, len(questions))
	for i := range questions {
		q := &questions[i]
		answer := byQuestion[q.ID]

		correct := s.gradeQuestion(ToEvalQuestion(q), answer)

		earned := 0
		if correct {
			earned = q.Points
		}
		result.Score += earned
		result.TotalPoints += q.Points

		rows = append(rows, model.QuestionResult{
			QuestionID:     q.ID,
			QuestionType:   q.QuestionType,
			Content:        q.Content,
			Options:        q.Options,
			Statements:     q.Statements,
			Categories:     q.Categories,
			Hotspots:       q.Hotspots,
			Prompts:        q.Prompts,
			Choices:        q.Choices,
			DraggableItems: q.DraggableItems,
			TargetItems:    q.TargetItems,
			UserAnswer:     answer,
			CorrectAnswer:  q.Answer,
			IsCorrect:      correct,
			PointsEarned:   earned,
			PointsPossible: q.Points,
		})
	}

	return result, rows
}

// gradeQuestion confines any grading panic to the question that caused it.
func (s *ScoringService) gradeQuestion(q evaluation.Question, answer string) (correct bool) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("grading panic, question marked incorrect",
				zap.String("questionId", q.ID),
				zap.String("questionType", q.Type),
				zap.Any("panic", r),
			)
			correct = false
		}
	}()
	return s.Evaluator.IsCorrect(q, answer)
}

func (s *ScoringService) GetResult(id string) (*model.TestResult, error) {
	result, err := s.ResultRepo.FindByID(id)
	if err != nil {
		return nil, util.ErrResultNotFound
	}
	return result, nil
}

func (s *ScoringService) ListUserResults(userID uint, page, limit int) ([]model.TestResult, int64, error) {
	return s.ResultRepo.ListByUser(userID, page, limit)
}

func (s *ScoringService) ListTestResults(testID string, page, limit int) ([]model.TestResult, int64, error) {
	return s.ResultRepo.ListByTest(testID, page, limit)
}

func (s *ScoringService) DeleteResult(id string) error {
	return s.ResultRepo.DeleteResult(id)
}
