package httpapi

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/cfsexam/internal/common"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// handleToken implements the OAuth2 password flow: it accepts a form-encoded
// username/password pair and returns a bearer access token.
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.writeError(r.Context(), w, fmt.Errorf("%w: malformed form body", common.ErrValidation))
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		s.writeError(r.Context(), w, fmt.Errorf("%w: username and password are required", common.ErrValidation))
		return
	}

	token, err := s.users.Login(r.Context(), username, password)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}
