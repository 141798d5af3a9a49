package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/minhquang4309/social-be/internal/gateway/middleware"
	authdomain "github.com/minhquang4309/social-be/internal/modules/auth/domain"
	filedomain "github.com/minhquang4309/social-be/internal/modules/filestorage/domain"
	"github.com/minhquang4309/social-be/internal/modules/user/application"
	"github.com/minhquang4309/social-be/internal/shared/utils"
)

const maxAvatarSize = 5 << 20 // 5 MB

type UserHandler struct {
	service *application.UserService
}

func NewUserHandler(service *application.UserService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, authdomain.ErrUserNotFound) {
			utils.WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, "failed to fetch profile")
		return
	}

	utils.WriteJSON(w, http.StatusOK, user)
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextKeyUserId).(uuid.UUID)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req application.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		if errors.Is(err, authdomain.ErrUserNotFound) {
			utils.WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.WriteJSON(w, http.StatusOK, user)
}

func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextKeyUserId).(uuid.UUID)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := r.ParseMultipartForm(maxAvatarSize); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "avatar file is required")
		return
	}
	defer file.Close()

	user, err := h.service.UploadAvatar(r.Context(), userID, file, header)
	if err != nil {
		if errors.Is(err, filedomain.ErrUnsupportedContentType) {
			utils.WriteError(w, http.StatusUnsupportedMediaType, err.Error())
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, "failed to upload avatar")
		return
	}

	utils.WriteJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextKeyUserId).(uuid.UUID)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			limit = v
		}
	}

	suggestions, err := h.service.Suggestions(r.Context(), userID, limit)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "failed to fetch suggestions")
		return
	}

	utils.WriteJSON(w, http.StatusOK, suggestions)
}
