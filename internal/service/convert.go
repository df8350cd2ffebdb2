package service

import (
	"encoding/json"
	"testwave_backend/internal/evaluation"
	"testwave_backend/internal/model"
)

// ToEvalQuestion converts a question row into the read model the evaluation
// engine operates on. JSON columns that fail to parse simply leave their
// collection empty; the evaluator treats those questions as unanswerable
// rather than crashing.
func ToEvalQuestion(q *model.Question) evaluation.Question {
	eq := evaluation.Question{
		ID:                q.ID,
		Type:              q.QuestionType,
		Points:            q.Points,
		MultipleSelection: q.MultipleSelection,
		AllowShuffle:      q.AllowShuffle,
		CorrectAnswer:     q.Answer,
	}

	decodeColumn(q.Options, &eq.Options)
	decodeColumn(q.Statements, &eq.Statements)
	decodeColumn(q.Categories, &eq.Categories)
	decodeColumn(q.Hotspots, &eq.Hotspots)
	decodeColumn(q.Prompts, &eq.Prompts)
	decodeColumn(q.Choices, &eq.Choices)
	decodeColumn(q.DraggableItems, &eq.DraggableItems)
	decodeColumn(q.TargetItems, &eq.TargetItems)

	return eq
}

func ToEvalQuestions(qs []model.Question) []evaluation.Question {
	out := make([]evaluation.Question, len(qs))
	for i := range qs {
		out[i] = ToEvalQuestion(&qs[i])
	}
	return out
}

func decodeColumn(raw json.RawMessage, dst interface{}) {
	if len(raw) == 0 {
		return
	}
	_ = json.Unmarshal(raw, dst)
}
