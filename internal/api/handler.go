package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"timecapsule-backend/internal/auth"
	"timecapsule-backend/internal/capsule"
	"timecapsule-backend/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Handler holds the dependencies for the HTTP handlers.
type Handler struct {
	userService    *service.UserService
	capsuleService *service.CapsuleService
	tokenService   *auth.TokenService
	validate       *validator.Validate
}

// NewHandler creates a new Handler instance.
func NewHandler(
	userSvc *service.UserService,
	capsuleSvc *service.CapsuleService,
	tokenSvc *auth.TokenService,
) *Handler {
	return &Handler{
		userService:    userSvc,
		capsuleService: capsuleSvc,
		tokenService:   tokenSvc,
		validate:       validator.New(),
	}
}

// === Response helpers ===

func (h *Handler) respondWithError(w http.ResponseWriter, code int, message string) {
	h.respondWithJSON(w, code, map[string]string{"message": message})
}

func (h *Handler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error serializing JSON response: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"Internal Server Error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// === Response schemas ===

type (
	// CapsuleResponse is the full record returned by GET /capsules/{id}.
	CapsuleResponse struct {
		ID         uuid.UUID `json:"id"`
		Message    string    `json:"message"`
		UnlockAt   time.Time `json:"unlock_at"`
		UnlockCode string    `json:"unlock_code"`
		UserID     uuid.UUID `json:"user_id"`
	}

	// CapsuleListEntry is one element of the paginated listing. Message is
	// omitted while the capsule is locked.
	CapsuleListEntry struct {
		ID         uuid.UUID `json:"id"`
		Message    string    `json:"message,omitempty"`
		UnlockAt   time.Time `json:"unlock_at"`
		UnlockCode string    `json:"unlock_code"`
		UserID     uuid.UUID `json:"user_id"`
	}

	// CapsuleListResponse wraps a page of capsules with pagination metadata.
	CapsuleListResponse struct {
		Page     int                `json:"page"`
		Limit    int                `json:"limit"`
		Total    int                `json:"total"`
		Capsules []CapsuleListEntry `json:"capsules"`
	}
)

// === Auth handlers ===

// handleRegister (POST /auth/register)
func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	_, err := h.userService.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserExists):
			h.respondWithError(w, http.StatusBadRequest, "Username already exists")
		case errors.Is(err, service.ErrValidation):
			h.respondWithError(w, http.StatusBadRequest, "Username and password are required")
		default:
			h.respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	h.respondWithJSON(w, http.StatusCreated, map[string]string{"message": "User registered successfully"})
}

// handleLogin (POST /auth/login)
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	token, err := h.userService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			h.respondWithError(w, http.StatusBadRequest, "User not found")
		case errors.Is(err, service.ErrBadCredentials):
			h.respondWithError(w, http.StatusBadRequest, "Invalid credentials")
		default:
			h.respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]string{
		"message": "Login successful",
		"token":   token,
	})
}

// === Capsule handlers ===

// handleCreateCapsule (POST /capsules)
func (h *Handler) handleCreateCapsule(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := callerID(r)
	if !ok {
		h.respondWithError(w, http.StatusUnauthorized, "Invalid user context")
		return
	}

	var req struct {
		Message  string    `json:"message"`
		UnlockAt time.Time `json:"unlock_at"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	c, err := h.capsuleService.Create(r.Context(), ownerID, req.Message, req.UnlockAt)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			h.respondWithError(w, http.StatusBadRequest, "Message and unlock time are required")
			return
		}
		h.respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	h.respondWithJSON(w, http.StatusCreated, map[string]string{
		"id":          c.ID.String(),
		"unlock_code": c.UnlockCode,
	})
}

// handleGetCapsule (GET /capsules/{id}?code=)
func (h *Handler) handleGetCapsule(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid capsule ID")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.respondWithError(w, http.StatusUnauthorized, "Unlock code is required")
		return
	}

	c, err := h.capsuleService.Get(r.Context(), id, code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			h.respondWithError(w, http.StatusNotFound, "Capsule not found")
		case errors.Is(err, service.ErrInvalidCode):
			h.respondWithError(w, http.StatusUnauthorized, "Invalid unlock code")
		case errors.Is(err, service.ErrLocked):
			h.respondWithError(w, http.StatusForbidden, "Capsule is locked")
		case errors.Is(err, service.ErrGone):
			h.respondWithError(w, http.StatusGone, "Capsule expired and no longer available")
		default:
			h.respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	h.respondWithJSON(w, http.StatusOK, CapsuleResponse{
		ID:         c.ID,
		Message:    c.Message,
		UnlockAt:   c.UnlockAt,
		UnlockCode: c.UnlockCode,
		UserID:     c.UserID,
	})
}

// handleListCapsules (GET /capsules?page=&limit=)
func (h *Handler) handleListCapsules(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := callerID(r)
	if !ok {
		h.respondWithError(w, http.StatusUnauthorized, "Invalid user context")
		return
	}

	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 10)

	capsules, total, err := h.capsuleService.List(r.Context(), ownerID, page, limit)
	if err != nil {
		h.respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	now := time.Now()
	entries := make([]CapsuleListEntry, 0, len(capsules))
	for _, c := range capsules {
		entry := CapsuleListEntry{
			ID:         c.ID,
			UnlockAt:   c.UnlockAt,
			UnlockCode: c.UnlockCode,
			UserID:     c.UserID,
		}
		// The message stays hidden while the capsule is locked. Expired
		// capsules are listed like unlocked ones.
		if capsule.Classify(c.UnlockAt, now) != capsule.StateLocked {
			entry.Message = c.Message
		}
		entries = append(entries, entry)
	}

	h.respondWithJSON(w, http.StatusOK, CapsuleListResponse{
		Page:     page,
		Limit:    limit,
		Total:    total,
		Capsules: entries,
	})
}

// handleUpdateCapsule (PUT /capsules/{id}?code=)
func (h *Handler) handleUpdateCapsule(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := callerID(r)
	if !ok {
		h.respondWithError(w, http.StatusUnauthorized, "Invalid user context")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid capsule ID")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.respondWithError(w, http.StatusBadRequest, "Unlock code is required as query parameter.")
		return
	}

	var req struct {
		Message  string    `json:"message"`
		UnlockAt time.Time `json:"unlock_at"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if err := h.capsuleService.Update(r.Context(), id, ownerID, code, req.Message, req.UnlockAt); err != nil {
		h.respondMutationError(w, err, "Capsule already unlocked. Cannot update.")
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]string{"message": "Capsule updated successfully."})
}

// handleDeleteCapsule (DELETE /capsules/{id}?code=)
func (h *Handler) handleDeleteCapsule(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := callerID(r)
	if !ok {
		h.respondWithError(w, http.StatusUnauthorized, "Invalid user context")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid capsule ID")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.respondWithError(w, http.StatusBadRequest, "Unlock code is required as query parameter.")
		return
	}

	if err := h.capsuleService.Delete(r.Context(), id, ownerID, code); err != nil {
		h.respondMutationError(w, err, "Capsule already unlocked. Cannot delete.")
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]string{"message": "Capsule deleted successfully."})
}

// respondMutationError maps the shared Update/Delete failure modes. Ownership
// mismatches surface as 404, never 403, so the API does not confirm the
// capsule's existence to non-owners.
func (h *Handler) respondMutationError(w http.ResponseWriter, err error, unlockedMsg string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		h.respondWithError(w, http.StatusNotFound, "Capsule not found.")
	case errors.Is(err, service.ErrInvalidCode):
		h.respondWithError(w, http.StatusForbidden, "Invalid unlock code.")
	case errors.Is(err, service.ErrAlreadyUnlocked):
		h.respondWithError(w, http.StatusForbidden, unlockedMsg)
	case errors.Is(err, service.ErrCodeRequired):
		h.respondWithError(w, http.StatusBadRequest, "Unlock code is required as query parameter.")
	default:
		h.respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

// queryInt parses an integer query parameter, falling back to def when the
// parameter is absent or not a positive number.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return def
	}
	return v
}
