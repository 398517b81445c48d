package web

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/vbonduro/memoryvault/internal/domain"
	"github.com/vbonduro/memoryvault/internal/service"
)

type slideshowPeriod struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type slideshowVault struct {
	Kind    string            `json:"kind"`
	Periods []slideshowPeriod `json:"periods"`
}

// handleSlideshowOptions lists, per accessible vault, the collection
// periods available for playback, latest first. The currently open
// period is listed only for admins; everyone else sees only closed
// periods.
func (s *Server) handleSlideshowOptions(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.Get(r.Context(), requestUserID(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	selectors := []struct {
		kind string
		sel  service.Selector
	}{
		{kind: "own_vault", sel: service.Selector{UserID: &user.ID}},
	}
	if user.FamilyID != nil {
		selectors = append(selectors, struct {
			kind string
			sel  service.Selector
		}{kind: "family_vault", sel: service.Selector{FamilyID: user.FamilyID}})
	}

	vaults := []slideshowVault{}
	for _, entry := range selectors {
		periods, err := s.vaults.AllPeriods(r.Context(), entry.sel)
		if err != nil {
			if service.KindOf(err) == service.KindNotFound {
				continue
			}
			s.writeServiceError(w, r, err)
			return
		}

		if !user.IsAdmin && len(periods) > 0 {
			// The last period is the one still collecting memories.
			periods = periods[:len(periods)-1]
		}

		listed := make([]slideshowPeriod, 0, len(periods))
		for i := len(periods) - 1; i >= 0; i-- {
			listed = append(listed, slideshowPeriod{
				Start: periods[i].Start.Format(domain.DateLayout),
				End:   periods[i].End.Format(domain.DateLayout),
			})
		}
		vaults = append(vaults, slideshowVault{Kind: entry.kind, Periods: listed})
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"vaults": vaults})
}

// handleStartSlideshow computes a playback order for the requested vault,
// period and mode, and stashes it in the session for stepping through.
func (s *Server) handleStartSlideshow(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.writeMessage(w, http.StatusBadRequest, "malformed form data")
		return
	}

	vault, err := s.selectVault(r, r.PostFormValue("vault"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if vault == nil {
		s.writeMessage(w, http.StatusNotFound, "no such vault")
		return
	}

	start, err := time.Parse(domain.DateLayout, strings.TrimSpace(r.PostFormValue("period_start")))
	if err != nil {
		s.writeMessage(w, http.StatusBadRequest, "period_start must be in YYYY-MM-DD format")
		return
	}
	end, err := time.Parse(domain.DateLayout, strings.TrimSpace(r.PostFormValue("period_end")))
	if err != nil {
		s.writeMessage(w, http.StatusBadRequest, "period_end must be in YYYY-MM-DD format")
		return
	}

	mode := domain.ParseSlideshowMode(r.PostFormValue("mode"))
	order, err := s.memories.SlideshowOrder(r.Context(), vault.VaultID, mode, start, end)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if len(order) == 0 {
		s.writeJSON(w, http.StatusOK, map[string]any{
			"count":   0,
			"message": "no memories in this period",
		})
		return
	}

	sess := s.currentSession(r)
	sess.Values[sessionKeyShowOrder] = order
	if err := sess.Save(r, w); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"count": len(order)})
}

type slideshowStepResponse struct {
	Number      int      `json:"number"`
	Count       int      `json:"count"`
	MemoryID    int64    `json:"memory_id"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	HasImage    bool     `json:"has_image"`
}

// handleSlideshowStep returns the slide at position "number" in the order
// started by handleStartSlideshow. Out-of-range positions are clamped to
// the nearest end rather than rejected.
func (s *Server) handleSlideshowStep(w http.ResponseWriter, r *http.Request) {
	order, ok := s.currentSession(r).Values[sessionKeyShowOrder].([]int64)
	if !ok || len(order) == 0 {
		s.writeMessage(w, http.StatusNotFound, "no slideshow is running")
		return
	}

	number, err := strconv.Atoi(r.URL.Query().Get("number"))
	if err != nil {
		number = 0
	}
	if number < 0 {
		number = 0
	}
	if number >= len(order) {
		number = len(order) - 1
	}

	memory, err := s.memories.MemoryData(r.Context(), order[number])
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, slideshowStepResponse{
		Number:      number,
		Count:       len(order),
		MemoryID:    memory.ID,
		Description: memory.Description,
		Date:        memory.Date.Format(domain.DateLayout),
		Latitude:    memory.Latitude,
		Longitude:   memory.Longitude,
		HasImage:    memory.ImageURI != nil,
	})
}
