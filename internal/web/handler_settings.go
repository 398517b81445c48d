package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/vbonduro/memoryvault/internal/service"
)

// settingsResponse summarizes the signed-in user's account, vaults and
// family. It is rebuilt from storage on every request; the session only
// carries the user id.
type settingsResponse struct {
	UserID      int64               `json:"user_id"`
	Username    string              `json:"username"`
	Firstname   string              `json:"firstname"`
	Lastname    string              `json:"lastname"`
	IsAdmin     bool                `json:"is_admin"`
	OwnVault    *service.VaultInfo  `json:"own_vault"`
	FamilyVault *service.VaultInfo  `json:"family_vault"`
	Family      *service.FamilyInfo `json:"family"`
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.Get(r.Context(), requestUserID(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	resp := settingsResponse{
		UserID:    user.ID,
		Username:  user.Username,
		Firstname: user.Firstname,
		Lastname:  user.Lastname,
		IsAdmin:   user.IsAdmin,
	}

	resp.OwnVault, err = s.vaults.Info(r.Context(), service.Selector{UserID: &user.ID})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	if user.FamilyID != nil {
		resp.FamilyVault, err = s.vaults.Info(r.Context(), service.Selector{FamilyID: user.FamilyID})
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		resp.Family, err = s.users.FamilyInfo(r.Context(), *user.FamilyID)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
	}

	s.writeJSON(w, http.StatusOK, resp)
}

// handleCreateVault creates either the user's personal vault or their
// family's vault, depending on the "kind" form field.
func (s *Server) handleCreateVault(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.writeMessage(w, http.StatusBadRequest, "malformed form data")
		return
	}

	user, err := s.users.Get(r.Context(), requestUserID(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	var ownerUser, ownerFamily *int64
	switch kind := r.PostFormValue("kind"); kind {
	case "own_vault":
		ownerUser = &user.ID
	case "family_vault":
		if user.FamilyID == nil {
			s.writeMessage(w, http.StatusForbidden, "join a family before creating a family vault")
			return
		}
		ownerFamily = user.FamilyID
	default:
		s.writeMessage(w, http.StatusBadRequest, "kind must be own_vault or family_vault")
		return
	}

	duration, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("period_duration")))
	if err != nil {
		s.writeMessage(w, http.StatusBadRequest, "period_duration must be a number of months")
		return
	}

	vault, err := s.vaults.Create(r.Context(), ownerUser, ownerFamily, duration, strings.TrimSpace(r.PostFormValue("first_period_start")))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]int64{"vault_id": vault.ID})
}

func (s *Server) handleCreateFamily(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.writeMessage(w, http.StatusBadRequest, "malformed form data")
		return
	}

	user, err := s.users.Get(r.Context(), requestUserID(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if user.FamilyID != nil {
		s.writeServiceError(w, r, service.ErrAlreadyInFamily)
		return
	}

	name := s.sanitize(r.PostFormValue("family_name"))
	if name == "" {
		s.writeMessage(w, http.StatusBadRequest, "family_name is required")
		return
	}

	familyID, err := s.users.CreateFamily(r.Context(), user.ID, name)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	info, err := s.users.FamilyInfo(r.Context(), familyID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, info)
}

func (s *Server) handleJoinFamily(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.writeMessage(w, http.StatusBadRequest, "malformed form data")
		return
	}

	user, err := s.users.Get(r.Context(), requestUserID(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if user.FamilyID != nil {
		s.writeServiceError(w, r, service.ErrAlreadyInFamily)
		return
	}

	code := strings.TrimSpace(r.PostFormValue("invite_code"))
	familyID, err := s.users.JoinFamily(r.Context(), user.ID, code)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int64{"family_id": familyID})
}

func (s *Server) handleQuitFamily(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.Get(r.Context(), requestUserID(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if user.FamilyID == nil {
		s.writeServiceError(w, r, service.ErrNotInFamily)
		return
	}

	if err := s.users.QuitFamily(r.Context(), user.ID); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
