package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/minhquang4309/social-be/internal/gateway/middleware"
	"github.com/minhquang4309/social-be/internal/modules/post/application"
	"github.com/minhquang4309/social-be/internal/modules/post/domain"
	"github.com/minhquang4309/social-be/internal/shared/utils"
)

type PostHandler struct {
	service *application.PostService
}

func NewPostHandler(service *application.PostService) *PostHandler {
	return &PostHandler{service: service}
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextKeyUserId).(uuid.UUID)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req application.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	post, err := h.service.CreatePost(r.Context(), userID, req)
	if err != nil {
		writePostError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, post)
}

func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	postID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	post, err := h.service.GetPost(r.Context(), postID)
	if err != nil {
		writePostError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, post)
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextKeyUserId).(uuid.UUID)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	postID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	if err := h.service.DeletePost(r.Context(), postID, userID); err != nil {
		writePostError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *PostHandler) CreateReply(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextKeyUserId).(uuid.UUID)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	parentID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	var req application.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := h.service.CreateReply(r.Context(), userID, parentID, req)
	if err != nil {
		writePostError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, reply)
}

func (h *PostHandler) ListReplies(w http.ResponseWriter, r *http.Request) {
	parentID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	cursor, limit, err := pageParams(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid cursor")
		return
	}

	page, err := h.service.ListReplies(r.Context(), parentID, cursor, limit)
	if err != nil {
		writePostError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, page)
}

func (h *PostHandler) Feed(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextKeyUserId).(uuid.UUID)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	cursor, limit, err := pageParams(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid cursor")
		return
	}

	page, err := h.service.Feed(r.Context(), userID, cursor, limit)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "failed to fetch feed")
		return
	}

	utils.WriteJSON(w, http.StatusOK, page)
}

func pageParams(r *http.Request) (*time.Time, int, error) {
	var cursor *time.Time
	if c := r.URL.Query().Get("cursor"); c != "" {
		parsed, err := time.Parse(time.RFC3339Nano, c)
		if err != nil {
			return nil, 0, err
		}
		cursor = &parsed
	}

	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			limit = v
		}
	}
	return cursor, limit, nil
}

func writePostError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrPostNotFound):
		utils.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrNotPostOwner):
		utils.WriteError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrEmptyContent), errors.Is(err, domain.ErrContentTooLong):
		utils.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		utils.WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}
