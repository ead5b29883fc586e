package awareness

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestions(t *testing.T) {
	qs, err := Questions()
	require.NoError(t, err)
	require.Len(t, qs, 8)

	ids := map[int]bool{}
	for _, q := range qs {
		assert.False(t, ids[q.ID], "duplicate id %d", q.ID)
		ids[q.ID] = true
		assert.Len(t, q.Options, 4, q.Question)
		assert.NotEmpty(t, q.Explanation)
	}
	assert.Equal(t, "https://www.paypa1.com/login", qs[2].Options[qs[2].Answer])
	assert.Equal(t, "Invoice #12345 for your recent purchase", qs[5].Options[3])
}

func TestThreats(t *testing.T) {
	ts, err := Threats()
	require.NoError(t, err)
	require.Len(t, ts, 3)
	assert.Equal(t, "paypa1-secure.com", ts[0].Domain)
	assert.Equal(t, 2024, ts[0].DetectedAt.Year())
	assert.Equal(t, "Blocked", ts[2].Status)
}

func TestGuide(t *testing.T) {
	gs, err := Guide()
	require.NoError(t, err)
	require.Len(t, gs, 7)
	for _, g := range gs {
		assert.NotEmpty(t, g.Title)
		assert.Len(t, g.Tips, 5, g.Title)
	}
}

func TestQuiz_AllCorrect(t *testing.T) {
	qs, err := Questions()
	require.NoError(t, err)

	q := NewQuiz(qs, rand.New(rand.NewSource(1)))
	require.Equal(t, len(qs), q.Len())
	for !q.Done() {
		cur, ok := q.Current()
		require.True(t, ok)
		fb, err := q.Answer(cur.Answer)
		require.NoError(t, err)
		assert.True(t, fb.Correct)
		assert.Equal(t, cur.Explanation, fb.Explanation)
	}
	assert.Equal(t, len(qs), q.Score())
	assert.Equal(t, 100, q.Percentage())

	_, err = q.Answer(0)
	assert.ErrorIs(t, err, ErrQuizDone)
	_, ok := q.Current()
	assert.False(t, ok)
}

func TestQuiz_ScoringAndRounding(t *testing.T) {
	qs := []Question{
		{ID: 1, Options: []string{"a", "b"}, Answer: 0},
		{ID: 2, Options: []string{"a", "b"}, Answer: 1},
		{ID: 3, Options: []string{"a", "b"}, Answer: 1},
	}
	q := NewQuiz(qs, nil)

	fb, err := q.Answer(0)
	require.NoError(t, err)
	assert.True(t, fb.Correct)

	fb, err = q.Answer(0)
	require.NoError(t, err)
	assert.False(t, fb.Correct)
	assert.Equal(t, 1, fb.Answer)

	_, err = q.Answer(5)
	assert.ErrorIs(t, err, ErrBadChoice)
	assert.Equal(t, 2, q.Position())

	_, err = q.Answer(1)
	require.NoError(t, err)
	assert.Equal(t, 2, q.Score())
	assert.Equal(t, 67, q.Percentage())
}

func TestNewQuiz_ShuffleKeepsBank(t *testing.T) {
	qs, err := Questions()
	require.NoError(t, err)

	q := NewQuiz(qs, rand.New(rand.NewSource(42)))
	got := map[int]bool{}
	for !q.Done() {
		cur, _ := q.Current()
		got[cur.ID] = true
		_, err := q.Answer(0)
		require.NoError(t, err)
	}
	assert.Len(t, got, len(qs))

	// source slice untouched
	fresh, err := Questions()
	require.NoError(t, err)
	assert.Equal(t, fresh, qs)
}

func TestQuiz_Empty(t *testing.T) {
	q := NewQuiz(nil, nil)
	assert.True(t, q.Done())
	assert.Equal(t, 0, q.Percentage())
}
