package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/minhquang4309/social-be/internal/gateway/middleware"
	"github.com/minhquang4309/social-be/internal/modules/engagement/application"
	"github.com/minhquang4309/social-be/internal/modules/engagement/domain"
	postdomain "github.com/minhquang4309/social-be/internal/modules/post/domain"
	"github.com/minhquang4309/social-be/internal/shared/utils"
)

type EngagementHandler struct {
	service *application.EngagementService
}

func NewEngagementHandler(service *application.EngagementService) *EngagementHandler {
	return &EngagementHandler{service: service}
}

func (h *EngagementHandler) Like(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.service.Like, http.StatusCreated)
}

func (h *EngagementHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.service.Unlike, http.StatusNoContent)
}

func (h *EngagementHandler) Repost(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.service.Repost, http.StatusCreated)
}

func (h *EngagementHandler) Unrepost(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.service.Unrepost, http.StatusNoContent)
}

func (h *EngagementHandler) Bookmark(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.service.Bookmark, http.StatusCreated)
}

func (h *EngagementHandler) Unbookmark(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.service.Unbookmark, http.StatusNoContent)
}

func (h *EngagementHandler) ListBookmarks(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextKeyUserId).(uuid.UUID)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var cursor *time.Time
	if c := r.URL.Query().Get("cursor"); c != "" {
		parsed, err := time.Parse(time.RFC3339Nano, c)
		if err != nil {
			utils.WriteError(w, http.StatusBadRequest, "invalid cursor")
			return
		}
		cursor = &parsed
	}

	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			limit = v
		}
	}

	page, err := h.service.ListBookmarks(r.Context(), userID, cursor, limit)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "failed to fetch bookmarks")
		return
	}

	utils.WriteJSON(w, http.StatusOK, page)
}

func (h *EngagementHandler) mutate(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, userID, postID uuid.UUID) error, okStatus int) {
	userID, ok := r.Context().Value(middleware.ContextKeyUserId).(uuid.UUID)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	postID, err := uuid.Parse(r.PathValue("postId"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	if err := op(r.Context(), userID, postID); err != nil {
		writeEngagementError(w, err)
		return
	}

	if okStatus == http.StatusNoContent {
		w.WriteHeader(okStatus)
		return
	}
	utils.WriteJSON(w, okStatus, map[string]string{"status": "ok"})
}

func writeEngagementError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, postdomain.ErrPostNotFound):
		utils.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrAlreadyLiked),
		errors.Is(err, domain.ErrAlreadyReposted),
		errors.Is(err, domain.ErrAlreadySaved):
		utils.WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrNotLiked),
		errors.Is(err, domain.ErrNotReposted),
		errors.Is(err, domain.ErrNotSaved):
		utils.WriteError(w, http.StatusNotFound, err.Error())
	default:
		utils.WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}
