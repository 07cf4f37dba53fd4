package exam

import (
	"fmt"

	"github.com/dmitrijs2005/cfsexam/internal/common"
	"github.com/dmitrijs2005/cfsexam/internal/server/models"
)

// Session is one user's progress through one year's question set: the
// current page, the selected answers, and the verification results. It is
// exclusively owned by a single user's sitting; the Store serializes access.
type Session struct {
	year        int
	questions   []models.Question
	byKey       map[models.QuestionKey]*models.Question
	pageSize    int
	currentPage int
	answers     map[models.QuestionKey]string
	verified    map[models.QuestionKey]bool
}

func NewSession(year int, questions []models.Question, pageSize int) *Session {
	byKey := make(map[models.QuestionKey]*models.Question, len(questions))
	for i := range questions {
		byKey[questions[i].Key()] = &questions[i]
	}
	return &Session{
		year:      year,
		questions: questions,
		byKey:     byKey,
		pageSize:  pageSize,
		answers:   make(map[models.QuestionKey]string),
		verified:  make(map[models.QuestionKey]bool),
	}
}

func (s *Session) Year() int           { return s.year }
func (s *Session) CurrentPage() int    { return s.currentPage }
func (s *Session) TotalQuestions() int { return len(s.questions) }

// TotalPages is ceil(totalQuestions / pageSize).
func (s *Session) TotalPages() int {
	return (len(s.questions) + s.pageSize - 1) / s.pageSize
}

// SelectAnswer records letter as the answer for the question identified by
// key. The letter must be one of the alternatives actually offered; the
// question must belong to this session. A re-selection overwrites the
// previous one and invalidates any verification result for the key.
func (s *Session) SelectAnswer(key models.QuestionKey, letter string) error {
	q, ok := s.byKey[key]
	if !ok {
		return fmt.Errorf("%w: question %d/%d is not part of this exam", common.ErrInvalidOperation, key.Year, key.Number)
	}

	normalized := models.NormalizeLetter(letter)
	if !q.Offered(normalized) {
		return fmt.Errorf("%w: alternative %q is not offered for question %d", common.ErrInvalidOperation, letter, key.Number)
	}

	s.answers[key] = normalized
	delete(s.verified, key)
	return nil
}

// VerifyAnswer compares the previously selected answer for key against the
// answer key and records the outcome. Verifying an unanswered question is an
// error; re-verifying an unchanged selection is permitted and yields the
// same result.
func (s *Session) VerifyAnswer(key models.QuestionKey) (bool, error) {
	q, ok := s.byKey[key]
	if !ok {
		return false, fmt.Errorf("%w: question %d/%d is not part of this exam", common.ErrInvalidOperation, key.Year, key.Number)
	}

	selected, ok := s.answers[key]
	if !ok {
		return false, fmt.Errorf("%w: question %d has no selected answer", common.ErrInvalidOperation, key.Number)
	}

	correct := selected == q.AnswerKey
	s.verified[key] = correct
	return correct, nil
}

// GoToPage moves to the page at index. Out-of-range indices are rejected,
// not clamped.
func (s *Session) GoToPage(index int) error {
	if index < 0 || index >= s.TotalPages() {
		return fmt.Errorf("%w: page %d out of range [0, %d)", common.ErrInvalidOperation, index, s.TotalPages())
	}
	s.currentPage = index
	return nil
}

// Reset clears all answers and verification results and returns to the
// first page.
func (s *Session) Reset() {
	s.answers = make(map[models.QuestionKey]string)
	s.verified = make(map[models.QuestionKey]bool)
	s.currentPage = 0
}

func (s *Session) AnsweredCount() int { return len(s.answers) }

// ProgressFraction is answered/total, and 0 for an empty exam.
func (s *Session) ProgressFraction() float64 {
	if len(s.questions) == 0 {
		return 0
	}
	return float64(len(s.answers)) / float64(len(s.questions))
}

// PageSlice returns the questions of the page at index in exam order.
func (s *Session) PageSlice(index int) ([]models.Question, error) {
	if index < 0 || index >= s.TotalPages() {
		return nil, fmt.Errorf("%w: page %d out of range [0, %d)", common.ErrInvalidOperation, index, s.TotalPages())
	}
	start := index * s.pageSize
	end := min(start+s.pageSize, len(s.questions))
	return s.questions[start:end], nil
}

// Answer returns the currently selected letter for key, if any.
func (s *Session) Answer(key models.QuestionKey) (string, bool) {
	letter, ok := s.answers[key]
	return letter, ok
}

// Verified returns the recorded verification outcome for key, if any.
func (s *Session) Verified(key models.QuestionKey) (bool, bool) {
	correct, ok := s.verified[key]
	return correct, ok
}

// Question returns the session's question for key.
func (s *Session) Question(key models.QuestionKey) (*models.Question, bool) {
	q, ok := s.byKey[key]
	return q, ok
}
