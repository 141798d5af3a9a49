package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/minhquang4309/social-be/internal/gateway/middleware"
	"github.com/minhquang4309/social-be/internal/modules/notification/application"
	"github.com/minhquang4309/social-be/internal/modules/notification/infrastructure/ws"
	"github.com/minhquang4309/social-be/internal/shared/utils"
)

// NotificationHandler exposes the REST notification surface and the
// websocket upgrade endpoint. REST identity comes from the auth middleware;
// websocket identity is established in-band by the gateway.
type NotificationHandler struct {
	service *application.NotificationService
	gateway *ws.Gateway
}

func NewNotificationHandler(service *application.NotificationService, gateway *ws.Gateway) *NotificationHandler {
	return &NotificationHandler{service: service, gateway: gateway}
}

// Subscribe upgrades to a websocket connection. No middleware guards this
// route: the connection authenticates itself with its first frame.
func (h *NotificationHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	h.gateway.ServeWS(w, r)
}

// ListNotifications returns one page of the caller's backlog, the same shape
// the sync protocol delivers over the socket.
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
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

	page, err := h.service.Backlog(r.Context(), userID, cursor, limit)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "failed to fetch notifications")
		return
	}

	utils.WriteJSON(w, http.StatusOK, page)
}

func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextKeyUserId).(uuid.UUID)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	notificationID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid notification id")
		return
	}

	affected, err := h.service.MarkRead(r.Context(), notificationID, userID)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "failed to mark notification as read")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]int64{"updated": affected})
}

func (h *NotificationHandler) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextKeyUserId).(uuid.UUID)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	affected, err := h.service.MarkAllRead(r.Context(), userID)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "failed to mark all notifications as read")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]int64{"updated": affected})
}

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextKeyUserId).(uuid.UUID)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	count, err := h.service.UnreadCount(r.Context(), userID)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "failed to get unread count")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]int{"count": count})
}
