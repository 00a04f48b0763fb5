package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	apperrors "github.com/Deba1597/backendProject/internal/errors"
	"github.com/Deba1597/backendProject/internal/middleware"
	"github.com/Deba1597/backendProject/internal/service"
	"github.com/Deba1597/backendProject/internal/storage"
	"github.com/Deba1597/backendProject/internal/validator"
)

// maxUploadSize caps multipart request bodies (20 MB).
const maxUploadSize = 20 << 20

// Cookie names for the session token pair.
const (
	accessTokenCookie  = "access_token"
	refreshTokenCookie = "refresh_token"
)

// CookieConfig controls the session cookie attributes.
type CookieConfig struct {
	Domain        string
	Secure        bool
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// AuthHandler handles HTTP requests for the auth endpoints.
type AuthHandler struct {
	service *service.UserService
	cookies CookieConfig
	logger  *slog.Logger
}

// NewAuthHandler creates a new auth HTTP handler.
func NewAuthHandler(svc *service.UserService, cookies CookieConfig, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{service: svc, cookies: cookies, logger: logger}
}

// LoginRequest is the JSON request body for login. Identifier takes
// precedence; username and email are accepted as aliases.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

// RefreshRequest is the JSON request body for session renewal, used when the
// renewal token is not supplied as a cookie.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ChangePasswordRequest is the JSON request body for changing a password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// AuthResponse wraps user data with the issued token pair.
type AuthResponse struct {
	User   any `json:"user"`
	Tokens any `json:"tokens"`
}

// Register handles POST /api/v1/auth/register (multipart/form-data).
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeAppError(w, r, apperrors.InvalidInput("invalid multipart form: "+err.Error()))
		return
	}
	defer cleanupMultipart(r)

	avatar, err := firstFile(r, "avatar")
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	if avatar != nil {
		defer avatar.close()
	}
	cover, err := firstFile(r, "cover_image")
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	if cover != nil {
		defer cover.close()
	}

	input := service.RegisterInput{
		Username: r.FormValue("username"),
		Email:    r.FormValue("email"),
		FullName: r.FormValue("full_name"),
		Password: r.FormValue("password"),
	}
	if avatar != nil {
		input.Avatar = &avatar.UploadInput
	}
	if cover != nil {
		input.CoverImage = &cover.UploadInput
	}

	user, tokens, err := h.service.Register(r.Context(), input)
	if err != nil {
		writeValidationOrAppError(w, r, err)
		return
	}

	h.setAuthCookies(w, tokens.AccessToken, tokens.RefreshToken)
	writeJSON(w, http.StatusCreated, response{
		Data: AuthResponse{User: user, Tokens: tokens},
	})
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAppError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()))
		return
	}

	identifier := req.Identifier
	if identifier == "" {
		identifier = req.Username
	}
	if identifier == "" {
		identifier = req.Email
	}

	user, tokens, err := h.service.Login(r.Context(), service.LoginInput{
		Identifier: identifier,
		Password:   req.Password,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	h.setAuthCookies(w, tokens.AccessToken, tokens.RefreshToken)
	writeJSON(w, http.StatusOK, response{
		Data: AuthResponse{User: user, Tokens: tokens},
	})
}

// Refresh handles POST /api/v1/auth/refresh. The renewal token is read from
// the refresh_token cookie when present, otherwise from the JSON body.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	presented := ""
	if c, err := r.Cookie(refreshTokenCookie); err == nil {
		presented = c.Value
	}
	if presented == "" {
		var req RefreshRequest
		// A missing or empty body is fine; the service rejects empty tokens.
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil || errors.Is(err, io.EOF) {
			presented = req.RefreshToken
		}
	}

	tokens, err := h.service.Refresh(r.Context(), presented)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	h.setAuthCookies(w, tokens.AccessToken, tokens.RefreshToken)
	writeJSON(w, http.StatusOK, response{Data: tokens})
}

// Logout handles POST /api/v1/auth/logout (protected).
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	if err := h.service.Logout(r.Context(), userID); err != nil {
		writeAppError(w, r, err)
		return
	}

	h.clearAuthCookies(w)
	writeJSON(w, http.StatusOK, response{Data: map[string]string{"message": "logged out"}})
}

// ChangePassword handles POST /api/v1/auth/change-password (protected).
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAppError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()))
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	if err := h.service.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		writeAppError(w, r, err)
		return
	}

	// The stored renewal credential was cleared, so the cookies are dead.
	h.clearAuthCookies(w)
	writeJSON(w, http.StatusOK, response{Data: map[string]string{"message": "password changed"}})
}

func (h *AuthHandler) setAuthCookies(w http.ResponseWriter, accessToken, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    accessToken,
		Path:     "/",
		Domain:   h.cookies.Domain,
		MaxAge:   int(h.cookies.AccessExpiry.Seconds()),
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    refreshToken,
		Path:     "/",
		Domain:   h.cookies.Domain,
		MaxAge:   int(h.cookies.RefreshExpiry.Seconds()),
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{accessTokenCookie, refreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Domain:   h.cookies.Domain,
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   h.cookies.Secure,
			SameSite: http.SameSiteStrictMode,
		})
	}
}

// formFile wraps an opened multipart file so callers can close it after the
// service has consumed the stream.
type formFile struct {
	storage.UploadInput
	file multipart.File
}

func (f *formFile) close() { _ = f.file.Close() }

// firstFile returns the first uploaded file for the given form field, or nil
// when the field is absent or carries no file.
func firstFile(r *http.Request, field string) (*formFile, error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File[field]) == 0 {
		return nil, nil
	}

	header := r.MultipartForm.File[field][0]
	file, err := header.Open()
	if err != nil {
		return nil, apperrors.InvalidInput("could not read uploaded file " + field)
	}

	return &formFile{
		UploadInput: storage.UploadInput{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Content:     file,
			Size:        header.Size,
		},
		file: file,
	}, nil
}

func cleanupMultipart(r *http.Request) {
	if r.MultipartForm != nil {
		_ = r.MultipartForm.RemoveAll()
	}
}

// writeValidationOrAppError renders validator errors with field details and
// everything else through the standard error mapping.
func writeValidationOrAppError(w http.ResponseWriter, r *http.Request, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		writeValidationError(w, err)
		return
	}
	writeAppError(w, r, err)
}
