package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testwave_backend/internal/evaluation"
	"testwave_backend/internal/model"
	"testwave_backend/internal/repository"
	"testwave_backend/internal/util"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RaceService runs race-mode attempts. The gate state lives in Redis between
// requests so a session survives server restarts and load-balanced replicas;
// on the final correct answer the accumulated answers go through the regular
// scoring path and the session key is removed.
type RaceService struct {
	TestRepo  *repository.TestRepository
	Scoring   *ScoringService
	Evaluator *evaluation.Evaluator
	Redis     *redis.Client
	TTL       time.Duration
	log       *zap.Logger
}

func NewRaceService(testRepo *repository.TestRepository, scoring *ScoringService, eval *evaluation.Evaluator, rdb *redis.Client, ttl time.Duration, log *zap.Logger) *RaceService {
	if log == nil {
		log = zap.NewNop()
	}
	return &RaceService{
		TestRepo:  testRepo,
		Scoring:   scoring,
		Evaluator: eval,
		Redis:     rdb,
		TTL:       ttl,
		log:       log,
	}
}

// raceState is the serialized session: gate progress plus the attempt seed
// that keeps the question order stable across requests.
type raceState struct {
	TestID    string            `json:"testId"`
	Seed      int64             `json:"seed"`
	StartedAt time.Time         `json:"startedAt"`
	Index     int               `json:"index"`
	Answers   map[string]string `json:"answers"`
	Finished  bool              `json:"finished"`
}

// RaceStatus is the per-request snapshot returned to the client. Seed is the
// attempt seed the gate derives its question order from; the client passes it
// to the student-view endpoint so both sides render and grade the same order.
type RaceStatus struct {
	TestID        string              `json:"testId"`
	Seed          int64               `json:"seed"`
	QuestionIndex int                 `json:"questionIndex"`
	QuestionCount int                 `json:"questionCount"`
	Feedback      evaluation.Feedback `json:"feedback,omitempty"`
	Finished      bool                `json:"finished"`
	ResultID      string              `json:"resultId,omitempty"`
}

func raceKey(userID uint, testID string) string {
	return fmt.Sprintf("race:%d:%s", userID, testID)
}

func (s *RaceService) questionOrder(test *model.Test, seed int64) ([]evaluation.Question, error) {
	qs, err := s.TestRepo.ListQuestions(test.ID)
	if err != nil {
		return nil, err
	}
	evalQs := ToEvalQuestions(qs)
	if test.ShuffleQuestions {
		evalQs = evaluation.Shuffle(evalQs, seed)
	}
	return evalQs, nil
}

// Start creates (or resumes) a race session for the user.
func (s *RaceService) Start(ctx context.Context, userID uint, testID string) (*RaceStatus, error) {
	if userID == 0 {
		return nil, util.ErrMissingIdentity
	}

	test, err := s.TestRepo.FindTestByID(testID)
	if err != nil {
		return nil, util.ErrTestNotFound
	}
	if !test.IsPublished || test.Mode != model.ModeRace {
		return nil, util.ErrTestNotPublished
	}

	if existing, err := s.loadState(ctx, userID, testID); err == nil {
		questions, qErr := s.questionOrder(test, existing.Seed)
		if qErr != nil {
			return nil, qErr
		}
		return &RaceStatus{
			TestID:        testID,
			Seed:          existing.Seed,
			QuestionIndex: existing.Index,
			QuestionCount: len(questions),
			Finished:      existing.Finished,
		}, nil
	}

	state := &raceState{
		TestID:    testID,
		Seed:      time.Now().UnixNano(),
		StartedAt: time.Now(),
		Answers:   make(map[string]string),
	}
	if err := s.saveState(ctx, userID, state); err != nil {
		return nil, err
	}

	questions, err := s.questionOrder(test, state.Seed)
	if err != nil {
		return nil, err
	}

	return &RaceStatus{
		TestID:        testID,
		Seed:          state.Seed,
		QuestionIndex: 0,
		QuestionCount: len(questions),
	}, nil
}

// Advance grades the current question. A wrong answer resets the session to
// question one and wipes every recorded answer; the last correct answer
// finishes the race, grades the accumulated answers and deletes the session.
func (s *RaceService) Advance(ctx context.Context, userID uint, testID string, answer string) (*RaceStatus, error) {
	if userID == 0 {
		return nil, util.ErrMissingIdentity
	}

	state, err := s.loadState(ctx, userID, testID)
	if err != nil {
		return nil, util.ErrRaceSessionNotFound
	}
	if state.Finished {
		return nil, util.ErrAlreadySubmitted
	}

	test, err := s.TestRepo.FindTestByID(testID)
	if err != nil {
		return nil, util.ErrTestNotFound
	}

	questions, err := s.questionOrder(test, state.Seed)
	if err != nil {
		return nil, err
	}

	gate := &evaluation.RaceGate{
		Index:    state.Index,
		Answers:  state.Answers,
		Finished: state.Finished,
	}
	gate.Rehydrate(s.Evaluator, questions)

	feedback := gate.Advance(answer)

	status := &RaceStatus{
		TestID:        testID,
		Seed:          state.Seed,
		QuestionIndex: gate.Index,
		QuestionCount: len(questions),
		Feedback:      feedback,
		Finished:      gate.Finished,
	}

	if !gate.Finished {
		state.Index = gate.Index
		state.Answers = gate.Answers
		if err := s.saveState(ctx, userID, state); err != nil {
			return nil, err
		}
		return status, nil
	}

	timeTaken := int(time.Since(state.StartedAt).Seconds())
	result, err := s.Scoring.SubmitTest(userID, testID, SubmitReq{
		Answers:   gate.RecordedAnswers(),
		TimeTaken: timeTaken,
	})
	if err != nil {
		// The session stays alive so the finish can be retried.
		if saveErr := s.saveState(ctx, userID, state); saveErr != nil {
			s.log.Error("failed to keep race session after scoring failure", zap.Error(saveErr))
		}
		return nil, err
	}

	if err := s.Redis.Del(ctx, raceKey(userID, testID)).Err(); err != nil {
		s.log.Warn("failed to delete finished race session", zap.Error(err))
	}

	status.ResultID = result.ID
	return status, nil
}

// Abandon drops an in-flight session so the student can start over.
func (s *RaceService) Abandon(ctx context.Context, userID uint, testID string) error {
	return s.Redis.Del(ctx, raceKey(userID, testID)).Err()
}

func (s *RaceService) loadState(ctx context.Context, userID uint, testID string) (*raceState, error) {
	raw, err := s.Redis.Get(ctx, raceKey(userID, testID)).Result()
	if err != nil {
		return nil, err
	}
	var state raceState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, errors.New("corrupt race session")
	}
	if state.Answers == nil {
		state.Answers = make(map[string]string)
	}
	return &state, nil
}

func (s *RaceService) saveState(ctx context.Context, userID uint, state *raceState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.Redis.Set(ctx, raceKey(userID, state.TestID), raw, s.TTL).Err()
}
