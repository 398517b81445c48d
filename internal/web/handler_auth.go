package web

import (
	"net/http"
	"strings"

	"github.com/vbonduro/memoryvault/internal/service"
)

// handleRegister creates an account and signs the new user in.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.writeMessage(w, http.StatusBadRequest, "malformed form data")
		return
	}

	user, err := s.users.Register(r.Context(), s.registerParams(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	if err := s.signIn(w, r, user.ID, user.IsAdmin); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]any{
		"user_id":  user.ID,
		"username": user.Username,
	})
}

func (s *Server) registerParams(r *http.Request) service.RegisterParams {
	return service.RegisterParams{
		Username:       s.sanitize(r.PostFormValue("username")),
		Password:       r.PostFormValue("password"),
		PasswordRepeat: r.PostFormValue("password_repeat"),
		Firstname:      s.sanitize(r.PostFormValue("firstname")),
		Lastname:       s.sanitize(r.PostFormValue("lastname")),
		Birthday:       strings.TrimSpace(r.PostFormValue("birthday")),
		AdminToken:     r.PostFormValue("admin_token"),
	}
}

func (s *Server) sanitize(value string) string {
	return strings.TrimSpace(s.sanitizer.Sanitize(value))
}

// handleLogin verifies credentials. Unknown usernames and wrong passwords
// get distinct messages so users know which one to fix.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.writeMessage(w, http.StatusBadRequest, "malformed form data")
		return
	}
	username := s.sanitize(r.PostFormValue("username"))
	password := r.PostFormValue("password")

	userID, err := s.users.CheckLogin(r.Context(), username, password)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if userID == 0 {
		taken, err := s.users.UsernameTaken(r.Context(), username)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		if taken {
			s.writeMessage(w, http.StatusUnauthorized, "Wrong password.")
		} else {
			s.writeMessage(w, http.StatusUnauthorized, "User does not exist.")
		}
		return
	}

	user, err := s.users.Get(r.Context(), userID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if err := s.signIn(w, r, user.ID, user.IsAdmin); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"user_id":  user.ID,
		"username": user.Username,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.signOut(w, r); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleUsernameTaken supports live availability checks during signup.
func (s *Server) handleUsernameTaken(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.URL.Query().Get("username"))
	taken, err := s.users.UsernameTaken(r.Context(), username)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"taken": taken})
}
