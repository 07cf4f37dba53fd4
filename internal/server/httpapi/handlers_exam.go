package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/cfsexam/internal/common"
	"github.com/dmitrijs2005/cfsexam/internal/server/exam"
	"github.com/dmitrijs2005/cfsexam/internal/server/models"
)

// sessionView is the session snapshot returned by the exam endpoints: the
// questions of one page plus the caller's progress through the whole exam.
type sessionView struct {
	Year           int                   `json:"year"`
	Page           int                   `json:"page"`
	TotalPages     int                   `json:"total_pages"`
	TotalQuestions int                   `json:"total_questions"`
	AnsweredCount  int                   `json:"answered_count"`
	Progress       float64               `json:"progress"`
	Questions      []models.QuestionView `json:"questions"`
}

func buildSessionView(s *exam.Session) (sessionView, error) {
	view := sessionView{
		Year:           s.Year(),
		Page:           s.CurrentPage(),
		TotalPages:     s.TotalPages(),
		TotalQuestions: s.TotalQuestions(),
		AnsweredCount:  s.AnsweredCount(),
		Progress:       s.ProgressFraction(),
		Questions:      []models.QuestionView{},
	}

	if s.TotalPages() == 0 {
		return view, nil
	}

	page, err := s.PageSlice(s.CurrentPage())
	if err != nil {
		return sessionView{}, err
	}

	for i := range page {
		q := &page[i]
		qv := q.View()
		if selected, ok := s.Answer(q.Key()); ok {
			qv.Selected = selected
		}
		if correct, ok := s.Verified(q.Key()); ok {
			c := correct
			qv.Correct = &c
		}
		view.Questions = append(view.Questions, qv)
	}

	return view, nil
}

// yearFromRequest parses the {year} route parameter and checks it against
// the configured exam range. Anything outside the range is a not-found, the
// same as a year with no questions.
func (s *Server) yearFromRequest(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "year")
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid exam year %q", common.ErrValidation, raw)
	}
	if year < s.yearFrom || year > s.yearTo {
		return 0, fmt.Errorf("%w: no exam for year %d", common.ErrNotFound, year)
	}
	return year, nil
}

// withSession resolves the caller and year and runs fn against the caller's
// session, answering with the resulting view unless fn already replied.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(sess *exam.Session) error) {
	user, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	year, err := s.yearFromRequest(r)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	var view sessionView
	err = s.exams.With(r.Context(), user.ID, year, func(sess *exam.Session) error {
		if err := fn(sess); err != nil {
			return err
		}
		v, err := buildSessionView(sess)
		if err != nil {
			return err
		}
		view = v
		return nil
	})
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// handleGetExam opens (or resumes) the caller's session for the year and
// returns the current page.
func (s *Server) handleGetExam(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *exam.Session) error { return nil })
}

func (s *Server) handleGetPage(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		s.writeError(r.Context(), w, fmt.Errorf("%w: invalid page index", common.ErrValidation))
		return
	}

	s.withSession(w, r, func(sess *exam.Session) error {
		return sess.GoToPage(index)
	})
}

type selectAnswerRequest struct {
	Number int    `json:"number"`
	Letter string `json:"letter"`
}

func (s *Server) handleSelectAnswer(w http.ResponseWriter, r *http.Request) {
	var req selectAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(r.Context(), w, fmt.Errorf("%w: malformed request body", common.ErrValidation))
		return
	}

	s.withSession(w, r, func(sess *exam.Session) error {
		return sess.SelectAnswer(models.QuestionKey{Year: sess.Year(), Number: req.Number}, req.Letter)
	})
}

type verifyAnswerRequest struct {
	Number int `json:"number"`
}

// verifyAnswerResponse reveals the answer key; that only ever happens through
// this endpoint, after an explicit verification request.
type verifyAnswerResponse struct {
	Number    int    `json:"number"`
	Selected  string `json:"selected"`
	Correct   bool   `json:"correct"`
	AnswerKey string `json:"answer_key"`
}

func (s *Server) handleVerifyAnswer(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	year, err := s.yearFromRequest(r)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	var req verifyAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(r.Context(), w, fmt.Errorf("%w: malformed request body", common.ErrValidation))
		return
	}

	var resp verifyAnswerResponse
	err = s.exams.With(r.Context(), user.ID, year, func(sess *exam.Session) error {
		key := models.QuestionKey{Year: sess.Year(), Number: req.Number}

		correct, err := sess.VerifyAnswer(key)
		if err != nil {
			return err
		}

		question, _ := sess.Question(key)
		selected, _ := sess.Answer(key)
		resp = verifyAnswerResponse{
			Number:    req.Number,
			Selected:  selected,
			Correct:   correct,
			AnswerKey: question.AnswerKey,
		}
		return nil
	})
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResetExam(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *exam.Session) error {
		sess.Reset()
		return nil
	})
}
