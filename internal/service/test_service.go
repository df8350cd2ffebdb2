package service

import (
	"encoding/json"
	"errors"
	"testwave_backend/internal/evaluation"
	"testwave_backend/internal/model"
	"testwave_backend/internal/repository"
	"testwave_backend/internal/util"
	"time"
)

type TestService struct {
	Repo      *repository.TestRepository
	Evaluator *evaluation.Evaluator
}

func NewTestService(repo *repository.TestRepository, eval *evaluation.Evaluator) *TestService {
	return &TestService{Repo: repo, Evaluator: eval}
}

type QuestionReq struct {
	ID                string          `json:"id"`
	QuestionType      string          `json:"questionType" binding:"required"`
	Content           string          `json:"content" binding:"required"`
	Points            int             `json:"points"`
	Order             int             `json:"order"`
	Options           json.RawMessage `json:"options"`
	Statements        json.RawMessage `json:"statements"`
	Categories        json.RawMessage `json:"categories"`
	Hotspots          json.RawMessage `json:"hotspots"`
	Prompts           json.RawMessage `json:"prompts"`
	Choices           json.RawMessage `json:"choices"`
	DraggableItems    json.RawMessage `json:"draggableItems"`
	TargetItems       json.RawMessage `json:"targetItems"`
	MultipleSelection bool            `json:"multipleSelection"`
	AllowShuffle      bool            `json:"allowShuffle"`
	ImageURL          string          `json:"imageUrl"`
	Answer            string          `json:"answer" binding:"required"`
	Explanation       string          `json:"explanation"`
}

type TestReq struct {
	Title            *string        `json:"title"`
	Description      *string        `json:"description"`
	Mode             *string        `json:"mode"`
	TimeLimit        *int           `json:"timeLimit"`
	ShuffleQuestions *bool          `json:"shuffleQuestions"`
	IsPublished      *bool          `json:"isPublished"`
	Questions        *[]QuestionReq `json:"questions"`
}

func questionFromReq(testID string, qReq QuestionReq) *model.Question {
	points := qReq.Points
	if points <= 0 {
		points = 1
	}
	return &model.Question{
		TestID:            testID,
		QuestionType:      qReq.QuestionType,
		Content:           qReq.Content,
		Points:            points,
		Order:             qReq.Order,
		Options:           qReq.Options,
		Statements:        qReq.Statements,
		Categories:        qReq.Categories,
		Hotspots:          qReq.Hotspots,
		Prompts:           qReq.Prompts,
		Choices:           qReq.Choices,
		DraggableItems:    qReq.DraggableItems,
		TargetItems:       qReq.TargetItems,
		MultipleSelection: qReq.MultipleSelection,
		AllowShuffle:      qReq.AllowShuffle,
		ImageURL:          qReq.ImageURL,
		Answer:            qReq.Answer,
		Explanation:       qReq.Explanation,
	}
}

func (s *TestService) CreateTest(creatorID uint, req TestReq) (*model.Test, error) {
	if req.Title == nil || *req.Title == "" {
		return nil, errors.New("title is required")
	}

	test := &model.Test{
		Title:     *req.Title,
		Mode:      model.ModePractice,
		CreatorID: creatorID,
	}

	if req.Description != nil {
		test.Description = *req.Description
	}
	if req.Mode != nil {
		test.Mode = *req.Mode
	}
	if req.TimeLimit != nil {
		test.TimeLimit = *req.TimeLimit
	}
	if req.ShuffleQuestions != nil {
		test.ShuffleQuestions = *req.ShuffleQuestions
	}
	if req.IsPublished != nil {
		test.IsPublished = *req.IsPublished
		if test.IsPublished {
			now := time.Now()
			test.PublishedAt = &now
		}
	}

	if err := s.Repo.CreateTest(test); err != nil {
		return nil, err
	}

	if req.Questions != nil {
		for _, qReq := range *req.Questions {
			if err := s.Repo.CreateQuestion(questionFromReq(test.ID, qReq)); err != nil {
				return nil, err
			}
		}
	}

	return test, nil
}

// UpdateTest applies a partial update; when a question list is supplied it is
// diffed against the stored one (update by id, create without id, delete the
// rest).
func (s *TestService) UpdateTest(testID string, req TestReq) (*model.Test, error) {
	test, err := s.Repo.FindTestByID(testID)
	if err != nil {
		return nil, util.ErrTestNotFound
	}

	if req.Title != nil {
		test.Title = *req.Title
	}
	if req.Description != nil {
		test.Description = *req.Description
	}
	if req.Mode != nil {
		test.Mode = *req.Mode
	}
	if req.TimeLimit != nil {
		test.TimeLimit = *req.TimeLimit
	}
	if req.ShuffleQuestions != nil {
		test.ShuffleQuestions = *req.ShuffleQuestions
	}
	if req.IsPublished != nil {
		if *req.IsPublished && !test.IsPublished {
			now := time.Now()
			test.PublishedAt = &now
		}
		test.IsPublished = *req.IsPublished
	}

	if err := s.Repo.UpdateTest(test); err != nil {
		return nil, err
	}

	if req.Questions != nil {
		existingQs, _ := s.Repo.ListQuestions(testID)
		existingMap := make(map[string]*model.Question)
		for i := range existingQs {
			existingMap[existingQs[i].ID] = &existingQs[i]
		}

		keptIDs := make(map[string]bool)
		for _, qReq := range *req.Questions {
			if qReq.ID != "" {
				if q, ok := existingMap[qReq.ID]; ok {
					updated := questionFromReq(testID, qReq)
					updated.UUIDBase = q.UUIDBase
					s.Repo.UpdateQuestion(updated)
					keptIDs[q.ID] = true
					continue
				}
			}
			s.Repo.CreateQuestion(questionFromReq(testID, qReq))
		}

		for id := range existingMap {
			if !keptIDs[id] {
				s.Repo.DeleteQuestion(id)
			}
		}
	}

	return test, nil
}

func (s *TestService) DeleteTest(testID string) error {
	return s.Repo.DeleteTest(testID)
}

func (s *TestService) GetTest(testID string) (*model.Test, []model.Question, error) {
	test, err := s.Repo.FindTestByID(testID)
	if err != nil {
		return nil, nil, util.ErrTestNotFound
	}
	qs, err := s.Repo.ListQuestions(testID)
	return test, qs, err
}

func (s *TestService) ListTests(page, limit int) ([]repository.TestListRow, int64, error) {
	return s.Repo.ListTests(page, limit)
}

func (s *TestService) ListPublishedTests() ([]model.Test, error) {
	return s.Repo.ListPublishedTests()
}

// StudentQuestion is the projection that goes to the test taker: reference
// collections for rendering, never the correct answer.
type StudentQuestion struct {
	ID                string                    `json:"id"`
	QuestionType      string                    `json:"questionType"`
	Content           string                    `json:"content"`
	Points            int                       `json:"points"`
	Order             int                       `json:"order"`
	Options           []evaluation.Option       `json:"options,omitempty"`
	Statements        []evaluation.Statement    `json:"statements,omitempty"`
	Categories        []evaluation.Category     `json:"categories,omitempty"`
	Hotspots          []evaluation.HotspotArea  `json:"hotspots,omitempty"`
	Prompts           []evaluation.MatchingItem `json:"prompts,omitempty"`
	Choices           []evaluation.MatchingItem `json:"choices,omitempty"`
	DraggableItems    []evaluation.MatchingItem `json:"draggableItems,omitempty"`
	TargetItems       []evaluation.MatchingItem `json:"targetItems,omitempty"`
	MultipleSelection bool                      `json:"multipleSelection"`
	ImageURL          string                    `json:"imageUrl,omitempty"`
}

type StudentTestView struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Mode      string            `json:"mode"`
	TimeLimit int               `json:"timeLimit"`
	Seed      int64             `json:"seed"`
	Questions []StudentQuestion `json:"questions"`
}

// StudentView builds the shuffled, answer-stripped projection of a published
// test. The seed makes the shuffle reproducible for the whole attempt;
// grading compares by id and text, so display order never matters.
func (s *TestService) StudentView(testID string, seed int64) (*StudentTestView, error) {
	test, err := s.Repo.FindTestByID(testID)
	if err != nil {
		return nil, util.ErrTestNotFound
	}
	if !test.IsPublished {
		return nil, util.ErrTestNotPublished
	}

	qs, err := s.Repo.ListQuestions(testID)
	if err != nil {
		return nil, err
	}

	shuffleDisplay := test.Mode == model.ModeTesting || test.Mode == model.ModeRace

	view := &StudentTestView{
		ID:        test.ID,
		Title:     test.Title,
		Mode:      test.Mode,
		TimeLimit: test.TimeLimit,
		Seed:      seed,
	}

	evalQs := ToEvalQuestions(qs)
	view.Questions = make([]StudentQuestion, len(qs))
	for i := range qs {
		eq := evalQs[i]
		sq := StudentQuestion{
			ID:                qs[i].ID,
			QuestionType:      qs[i].QuestionType,
			Content:           qs[i].Content,
			Points:            qs[i].Points,
			Order:             qs[i].Order,
			Options:           eq.Options,
			Statements:        eq.Statements,
			Categories:        eq.Categories,
			Hotspots:          eq.Hotspots,
			Prompts:           eq.Prompts,
			Choices:           eq.Choices,
			DraggableItems:    eq.DraggableItems,
			TargetItems:       eq.TargetItems,
			MultipleSelection: qs[i].MultipleSelection,
			ImageURL:          qs[i].ImageURL,
		}

		if shuffleDisplay && eq.AllowShuffle {
			qSeed := seed + int64(i)
			sq.Options = evaluation.Shuffle(sq.Options, qSeed)
			sq.Choices = evaluation.Shuffle(sq.Choices, qSeed)
			sq.DraggableItems = evaluation.Shuffle(sq.DraggableItems, qSeed)
		}

		view.Questions[i] = sq
	}

	if test.ShuffleQuestions && shuffleDisplay {
		view.Questions = evaluation.Shuffle(view.Questions, seed)
	}

	return view, nil
}

// CompletenessReport is the live informational check; it uses the same
// evaluator as final grading so the two can never disagree.
type CompletenessReport struct {
	AllComplete bool            `json:"allComplete"`
	Questions   map[string]bool `json:"questions"`
}

func (s *TestService) CheckCompleteness(testID string, answers []evaluation.UserAnswer) (*CompletenessReport, error) {
	test, err := s.Repo.FindTestByID(testID)
	if err != nil {
		return nil, util.ErrTestNotFound
	}
	if !test.IsPublished {
		return nil, util.ErrTestNotPublished
	}

	qs, err := s.Repo.ListQuestions(testID)
	if err != nil {
		return nil, err
	}

	byQuestion := make(map[string]string, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a.Answer
	}

	report := &CompletenessReport{
		AllComplete: true,
		Questions:   make(map[string]bool, len(qs)),
	}
	for i := range qs {
		eq := ToEvalQuestion(&qs[i])
		complete := s.Evaluator.IsComplete(eq, byQuestion[qs[i].ID])
		report.Questions[qs[i].ID] = complete
		if !complete {
			report.AllComplete = false
		}
	}
	return report, nil
}
