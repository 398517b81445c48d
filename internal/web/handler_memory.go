package web

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vbonduro/memoryvault/internal/domain"
	"github.com/vbonduro/memoryvault/internal/service"
)

// allowedImageTypes is the set of MIME types accepted for uploaded images.
// net/http.DetectContentType handles JPEG, PNG, and GIF via magic-byte
// sniffing. WebP is detected separately because the WHATWG sniff spec (and
// therefore the stdlib) does not include a WebP signature.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// isWebP reports whether data is a WebP image (RIFF container with "WEBP" at
// offset 8).
func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		string(data[0:4]) == "RIFF" &&
		string(data[8:12]) == "WEBP"
}

// allowedImageMIME returns the detected MIME type and true if the data is an
// accepted image format, or ("", false) otherwise.
func allowedImageMIME(data []byte) (string, bool) {
	if isWebP(data) {
		return "image/webp", true
	}
	mime := http.DetectContentType(data)
	if allowedImageTypes[mime] {
		return mime, true
	}
	return "", false
}

// selectVault resolves the vault named by the "vault" form field
// (own_vault or family_vault) for the signed-in user.
func (s *Server) selectVault(r *http.Request, kind string) (*service.VaultInfo, error) {
	user, err := s.users.Get(r.Context(), requestUserID(r))
	if err != nil {
		return nil, err
	}

	var sel service.Selector
	switch kind {
	case "own_vault":
		sel.UserID = &user.ID
	case "family_vault":
		if user.FamilyID == nil {
			return nil, nil
		}
		sel.FamilyID = user.FamilyID
	default:
		return nil, nil
	}
	return s.vaults.Info(r.Context(), sel)
}

func (s *Server) handleUploadMemory(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		s.writeMessage(w, http.StatusBadRequest, "failed to parse form")
		return
	}

	vault, err := s.selectVault(r, r.PostFormValue("vault"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if vault == nil {
		s.writeMessage(w, http.StatusForbidden, "create a vault before uploading memories")
		return
	}

	dateRaw := strings.TrimSpace(r.PostFormValue("date"))
	date, err := time.Parse(domain.DateLayout, dateRaw)
	if err != nil {
		s.writeMessage(w, http.StatusBadRequest, "date must be in YYYY-MM-DD format")
		return
	}
	if date.Before(vault.CurrentPeriodStart) || date.After(vault.CurrentPeriodEnd) {
		s.writeMessage(w, http.StatusBadRequest, "date must fall inside the current collection period")
		return
	}

	params := service.UploadParams{
		VaultID:     vault.VaultID,
		Description: s.sanitize(r.PostFormValue("description")),
		Date:        dateRaw,
		Latitude:    parseCoordinate(r.PostFormValue("latitude")),
		Longitude:   parseCoordinate(r.PostFormValue("longitude")),
	}

	if file, _, err := r.FormFile("image"); err == nil {
		defer closeWithLog(file, "upload file", s.logger)

		imageData, err := io.ReadAll(file)
		if err != nil {
			s.writeMessage(w, http.StatusInternalServerError, "failed to read file")
			s.logger.Error("read upload failed", "vault_id", vault.VaultID, "error", err)
			return
		}
		mimeType, ok := allowedImageMIME(imageData)
		if !ok {
			s.writeMessage(w, http.StatusBadRequest, "unsupported image format")
			return
		}
		params.Image = bytes.NewReader(imageData)
		params.ImageMIME = mimeType
		params.ImagePrefix = fmt.Sprintf("user_%d", requestUserID(r))
	}

	memory, err := s.memories.Upload(r.Context(), params)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]int64{"memory_id": memory.ID})
}

func parseCoordinate(value string) *float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &f
}

func (s *Server) handleGetMemoryImage(w http.ResponseWriter, r *http.Request) {
	memoryID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.writeMessage(w, http.StatusBadRequest, "invalid memory id")
		return
	}

	memory, err := s.memories.MemoryData(r.Context(), memoryID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if memory.ImageURI == nil {
		http.NotFound(w, r)
		return
	}

	reader, mimeType, err := s.images.Get(r.Context(), *memory.ImageURI)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer closeWithLog(reader, "memory image reader", s.logger)

	w.Header().Set("Content-Type", mimeType)
	if _, err := io.Copy(w, reader); err != nil {
		s.logger.Error("write image failed", "memory_id", memoryID, "error", err)
	}
}

// closeWithLog closes c and logs any error, using label to identify the resource.
func closeWithLog(c io.Closer, label string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource", "label", label, "error", err)
	}
}
