package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/cfsexam/internal/common"
	"github.com/dmitrijs2005/cfsexam/internal/server/auth"
	"github.com/dmitrijs2005/cfsexam/internal/server/models"
	"github.com/dmitrijs2005/cfsexam/internal/server/users"
)

type createUserRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FullName  string `json:"full_name"`
	BirthDate string `json:"birth_date"`
	Role      string `json:"role"`
	Rank      string `json:"rank"`
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(r.Context(), w, fmt.Errorf("%w: malformed request body", common.ErrValidation))
		return
	}

	birthDate, err := models.ParseBirthDate(req.BirthDate)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	user, err := s.users.Register(r.Context(), users.RegisterParams{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FullName:  req.FullName,
		BirthDate: birthDate,
		Role:      req.Role,
		Rank:      req.Rank,
	})
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user.Public())
}

func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, user.Public())
}

type updateUserRequest struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	FullName  *string `json:"full_name"`
	BirthDate *string `json:"birth_date"`
	Rank      *string `json:"rank"`
	Password  *string `json:"password"`
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(r.Context(), w, fmt.Errorf("%w: malformed request body", common.ErrValidation))
		return
	}

	params := users.UpdateParams{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Rank:     req.Rank,
		Password: req.Password,
	}
	if req.BirthDate != nil {
		birthDate, err := models.ParseBirthDate(*req.BirthDate)
		if err != nil {
			s.writeError(r.Context(), w, err)
			return
		}
		params.BirthDate = &birthDate
	}

	updated, err := s.users.UpdateSelf(r.Context(), user, params)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated.Public())
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if _, err := auth.RequireSelfOrRole(user, id, models.RoleAdmin, models.RoleInstrutor); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	target, err := s.users.Get(r.Context(), id)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, target.Public())
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	if _, err := auth.RequireRole(user, models.RoleAdmin); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	id := chi.URLParam(r, "id")
	if err := s.users.Delete(r.Context(), id); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}
