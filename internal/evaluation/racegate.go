package evaluation

// Feedback is the signal the gate emits after an advance attempt. The UI
// shows it for a moment before the next question (or the reset) is rendered.
type Feedback string

const (
	FeedbackCorrect   Feedback = "correct"
	FeedbackIncorrect Feedback = "incorrect"
)

// RaceGate is the race-mode state machine: forward-only, one question at a
// time, and a single wrong answer wipes every recorded answer and sends the
// student back to question one. Backward navigation and question jumps do
// not exist in this mode.
//
// Index, Answers and Finished are exported so a session store can serialize
// the gate between requests; Questions are re-attached on rehydration.
type RaceGate struct {
	eval      *Evaluator
	questions []Question

	Index    int               `json:"index"`
	Answers  map[string]string `json:"answers"`
	Finished bool              `json:"finished"`
}

func NewRaceGate(eval *Evaluator, questions []Question) *RaceGate {
	return &RaceGate{
		eval:      eval,
		questions: questions,
		Answers:   make(map[string]string),
	}
}

// Rehydrate re-attaches the non-serialized dependencies after the gate state
// has been loaded from a session store.
func (g *RaceGate) Rehydrate(eval *Evaluator, questions []Question) {
	g.eval = eval
	g.questions = questions
	if g.Answers == nil {
		g.Answers = make(map[string]string)
	}
	if g.Index < 0 || g.Index >= len(questions) {
		g.Index = 0
	}
}

// Current returns the question the gate is waiting on.
func (g *RaceGate) Current() (Question, bool) {
	if g.Finished || g.Index >= len(g.questions) {
		return Question{}, false
	}
	return g.questions[g.Index], true
}

// Advance grades the answer for the current question. Wrong answers clear
// all progress, including answers that were previously correct. The final
// correct answer finishes the gate; afterwards Advance is a no-op.
func (g *RaceGate) Advance(answer string) Feedback {
	q, ok := g.Current()
	if !ok {
		return FeedbackIncorrect
	}

	if !g.eval.IsCorrect(q, answer) {
		g.Answers = make(map[string]string)
		g.Index = 0
		return FeedbackIncorrect
	}

	g.Answers[q.ID] = answer
	if g.Index == len(g.questions)-1 {
		g.Finished = true
	} else {
		g.Index++
	}
	return FeedbackCorrect
}

// RecordedAnswers returns the answers accumulated on the current pass in
// the shape the scoring session expects.
func (g *RaceGate) RecordedAnswers() []UserAnswer {
	answers := make([]UserAnswer, 0, len(g.Answers))
	for _, q := range g.questions {
		if a, ok := g.Answers[q.ID]; ok {
			answers = append(answers, UserAnswer{QuestionID: q.ID, Answer: a})
		}
	}
	return answers
}
