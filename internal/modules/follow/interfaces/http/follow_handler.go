package http

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/minhquang4309/social-be/internal/gateway/middleware"
	authdomain "github.com/minhquang4309/social-be/internal/modules/auth/domain"
	"github.com/minhquang4309/social-be/internal/modules/follow/application"
	"github.com/minhquang4309/social-be/internal/modules/follow/domain"
	"github.com/minhquang4309/social-be/internal/shared/utils"
)

type FollowHandler struct {
	service *application.FollowService
}

func NewFollowHandler(service *application.FollowService) *FollowHandler {
	return &FollowHandler{service: service}
}

func (h *FollowHandler) Follow(w http.ResponseWriter, r *http.Request) {
	followerID, ok := r.Context().Value(middleware.ContextKeyUserId).(uuid.UUID)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	followingID, err := uuid.Parse(r.PathValue("userId"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.service.Follow(r.Context(), followerID, followingID); err != nil {
		writeFollowError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, map[string]string{"status": "following"})
}

func (h *FollowHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	followerID, ok := r.Context().Value(middleware.ContextKeyUserId).(uuid.UUID)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	followingID, err := uuid.Parse(r.PathValue("userId"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.service.Unfollow(r.Context(), followerID, followingID); err != nil {
		writeFollowError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeFollowError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrSelfFollow):
		utils.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrAlreadyFollowing):
		utils.WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrNotFollowing), errors.Is(err, authdomain.ErrUserNotFound):
		utils.WriteError(w, http.StatusNotFound, err.Error())
	default:
		utils.WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}
