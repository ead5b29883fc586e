package awareness

import (
	"errors"
	"math/rand"
)

var (
	// ErrQuizDone is returned by Answer once every question has been answered.
	ErrQuizDone = errors.New("quiz finished")
	// ErrBadChoice is returned for an option index outside the question.
	ErrBadChoice = errors.New("choice out of range")
)

// Feedback describes the outcome of one answer.
type Feedback struct {
	Correct     bool
	Answer      int
	Explanation string
}

// Quiz walks a shuffled copy of the question bank. It is not safe for
// concurrent use.
type Quiz struct {
	questions []Question
	pos       int
	score     int
}

// NewQuiz shuffles qs with rng. A nil rng keeps the given order.
func NewQuiz(qs []Question, rng *rand.Rand) *Quiz {
	cp := make([]Question, len(qs))
	copy(cp, qs)
	if rng != nil {
		rng.Shuffle(len(cp), func(i, j int) { cp[i], cp[j] = cp[j], cp[i] })
	}
	return &Quiz{questions: cp}
}

// Len returns the number of questions.
func (q *Quiz) Len() int { return len(q.questions) }

// Position returns the zero-based index of the current question.
func (q *Quiz) Position() int { return q.pos }

// Current returns the question awaiting an answer.
func (q *Quiz) Current() (Question, bool) {
	if q.Done() {
		return Question{}, false
	}
	return q.questions[q.pos], true
}

// Answer scores choice against the current question and advances.
func (q *Quiz) Answer(choice int) (Feedback, error) {
	cur, ok := q.Current()
	if !ok {
		return Feedback{}, ErrQuizDone
	}
	if choice < 0 || choice >= len(cur.Options) {
		return Feedback{}, ErrBadChoice
	}
	fb := Feedback{
		Correct:     choice == cur.Answer,
		Answer:      cur.Answer,
		Explanation: cur.Explanation,
	}
	if fb.Correct {
		q.score++
	}
	q.pos++
	return fb, nil
}

// Done reports whether every question has been answered.
func (q *Quiz) Done() bool { return q.pos >= len(q.questions) }

// Score returns the number of correct answers so far.
func (q *Quiz) Score() int { return q.score }

// Percentage returns the rounded share of correct answers over all questions.
func (q *Quiz) Percentage() int {
	if len(q.questions) == 0 {
		return 0
	}
	return (q.score*100 + len(q.questions)/2) / len(q.questions)
}
