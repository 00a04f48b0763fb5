package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	apperrors "github.com/Deba1597/backendProject/internal/errors"
	"github.com/Deba1597/backendProject/internal/middleware"
	"github.com/Deba1597/backendProject/internal/service"
)

// UserHandler handles HTTP requests for the current-user endpoints.
type UserHandler struct {
	service *service.UserService
	logger  *slog.Logger
}

// NewUserHandler creates a new user HTTP handler.
func NewUserHandler(svc *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{service: svc, logger: logger}
}

// UpdateProfileRequest is the JSON request body for profile updates. Absent
// fields are left unchanged.
type UpdateProfileRequest struct {
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
}

// Me handles GET /api/v1/users/me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	user, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: user})
}

// UpdateProfile handles PUT /api/v1/users/me.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAppError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()))
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	user, err := h.service.UpdateProfile(r.Context(), userID, service.UpdateProfileInput{
		FullName: req.FullName,
		Email:    req.Email,
	})
	if err != nil {
		writeValidationOrAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: user})
}

// UpdateAvatar handles PATCH /api/v1/users/me/avatar (multipart/form-data).
func (h *UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "avatar")
}

// UpdateCoverImage handles PATCH /api/v1/users/me/cover-image
// (multipart/form-data).
func (h *UserHandler) UpdateCoverImage(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "cover_image")
}

func (h *UserHandler) updateImage(w http.ResponseWriter, r *http.Request, field string) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeAppError(w, r, apperrors.InvalidInput("invalid multipart form: "+err.Error()))
		return
	}
	defer cleanupMultipart(r)

	file, err := firstFile(r, field)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	if file == nil {
		writeAppError(w, r, apperrors.InvalidInput(field+" file is required"))
		return
	}
	defer file.close()

	userID := middleware.UserIDFromContext(r.Context())

	var user any
	if field == "avatar" {
		user, err = h.service.UpdateAvatar(r.Context(), userID, file.UploadInput)
	} else {
		user, err = h.service.UpdateCoverImage(r.Context(), userID, file.UploadInput)
	}
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: user})
}
