package models

import "strings"

// AnswerLetters is the fixed ordered alternative set. A question may offer
// fewer alternatives; blank ones are simply absent from its map.
var AnswerLetters = []string{"A", "B", "C", "D"}

// QuestionKey identifies a question across exams: the pair (year, number).
type QuestionKey struct {
	Year   int
	Number int
}

// Question is an immutable exam question as loaded from the content source.
type Question struct {
	Year         int
	Number       int
	Discipline   string
	Statement    string
	Alternatives map[string]string
	AnswerKey    string
}

func (q *Question) Key() QuestionKey {
	return QuestionKey{Year: q.Year, Number: q.Number}
}

// Offered reports whether the (normalized) letter is an alternative actually
// present on this question.
func (q *Question) Offered(letter string) bool {
	_, ok := q.Alternatives[NormalizeLetter(letter)]
	return ok
}

// NormalizeLetter trims and upper-cases an alternative letter so selections
// and answer keys compare case-insensitively.
func NormalizeLetter(letter string) string {
	return strings.ToUpper(strings.TrimSpace(letter))
}

// QuestionView is the projection served to clients. The answer key is only
// revealed through the explicit verify operation.
type QuestionView struct {
	Year         int               `json:"year"`
	Number       int               `json:"number"`
	Discipline   string            `json:"discipline,omitempty"`
	Statement    string            `json:"statement"`
	Alternatives map[string]string `json:"alternatives"`
	Selected     string            `json:"selected,omitempty"`
	Correct      *bool             `json:"correct,omitempty"`
}

func (q *Question) View() QuestionView {
	return QuestionView{
		Year:         q.Year,
		Number:       q.Number,
		Discipline:   q.Discipline,
		Statement:    q.Statement,
		Alternatives: q.Alternatives,
	}
}
