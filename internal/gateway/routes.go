package gateway

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/minhquang4309/social-be/internal/gateway/middleware"
	auth_http "github.com/minhquang4309/social-be/internal/modules/auth/interfaces/http"
	engagement_http "github.com/minhquang4309/social-be/internal/modules/engagement/interfaces/http"
	follow_http "github.com/minhquang4309/social-be/internal/modules/follow/interfaces/http"
	notification_http "github.com/minhquang4309/social-be/internal/modules/notification/interfaces/http"
	post_http "github.com/minhquang4309/social-be/internal/modules/post/interfaces/http"
	user_http "github.com/minhquang4309/social-be/internal/modules/user/interfaces/http"
)

// RouterConfig holds all the handlers and middleware needed for routing
type RouterConfig struct {
	AuthMiddleware      *middleware.AuthMiddleware
	AuthHandler         *auth_http.AuthHandler
	UserHandler         *user_http.UserHandler
	PostHandler         *post_http.PostHandler
	EngagementHandler   *engagement_http.EngagementHandler
	FollowHandler       *follow_http.FollowHandler
	NotificationHandler *notification_http.NotificationHandler
}

// SetupRoutes creates and configures all application routes
func SetupRoutes(config RouterConfig) *http.ServeMux {
	mux := http.NewServeMux()
	requireAuth := func(h http.HandlerFunc) http.Handler {
		return config.AuthMiddleware.RequireAuth(h)
	}
	flexAuth := func(h http.HandlerFunc) http.Handler {
		return config.AuthMiddleware.FlexibleAuth(h)
	}

	// Health Check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus Metrics Endpoint
	mux.Handle("/metrics", promhttp.Handler())

	// Auth Routes
	mux.HandleFunc("POST /register", config.AuthHandler.Register)
	mux.HandleFunc("POST /login", config.AuthHandler.Login)
	mux.HandleFunc("POST /auth/google", config.AuthHandler.GoogleLogin)
	mux.HandleFunc("POST /auth/forgot-password", config.AuthHandler.ForgotPassword)
	mux.HandleFunc("POST /auth/reset-password", config.AuthHandler.ResetPassword)
	mux.Handle("GET /me", requireAuth(config.AuthHandler.Me))

	// User Routes
	mux.Handle("GET /users/{id}", flexAuth(config.UserHandler.GetProfile))
	mux.Handle("PATCH /users/profile", requireAuth(config.UserHandler.UpdateProfile))
	mux.Handle("POST /users/profile/avatar", requireAuth(config.UserHandler.UploadAvatar))
	mux.Handle("GET /suggestions", requireAuth(config.UserHandler.Suggestions))

	// Post / Feed Routes
	mux.Handle("POST /posts", requireAuth(config.PostHandler.Create))
	mux.Handle("GET /posts/{id}", flexAuth(config.PostHandler.Get))
	mux.Handle("DELETE /posts/{id}", requireAuth(config.PostHandler.Delete))
	mux.Handle("GET /posts/{id}/replies", flexAuth(config.PostHandler.ListReplies))
	mux.Handle("POST /posts/{id}/replies", requireAuth(config.PostHandler.CreateReply))
	mux.Handle("GET /feed", requireAuth(config.PostHandler.Feed))

	// Engagement Routes
	mux.Handle("POST /likes/{postId}", requireAuth(config.EngagementHandler.Like))
	mux.Handle("DELETE /likes/{postId}", requireAuth(config.EngagementHandler.Unlike))
	mux.Handle("POST /reposts/{postId}", requireAuth(config.EngagementHandler.Repost))
	mux.Handle("DELETE /reposts/{postId}", requireAuth(config.EngagementHandler.Unrepost))
	mux.Handle("POST /bookmarks/{postId}", requireAuth(config.EngagementHandler.Bookmark))
	mux.Handle("DELETE /bookmarks/{postId}", requireAuth(config.EngagementHandler.Unbookmark))
	mux.Handle("GET /bookmarks", requireAuth(config.EngagementHandler.ListBookmarks))

	// Follow Routes
	mux.Handle("POST /follows/{userId}", requireAuth(config.FollowHandler.Follow))
	mux.Handle("DELETE /follows/{userId}", requireAuth(config.FollowHandler.Unfollow))

	// Notification Routes
	mux.Handle("GET /notifications", requireAuth(config.NotificationHandler.ListNotifications))
	mux.Handle("PATCH /notifications/{id}/read", requireAuth(config.NotificationHandler.MarkAsRead))
	mux.Handle("PATCH /notifications/read-all", requireAuth(config.NotificationHandler.MarkAllAsRead))
	mux.Handle("GET /notifications/unread-count", requireAuth(config.NotificationHandler.UnreadCount))

	// Websocket endpoint; authentication happens in-band on the connection.
	mux.HandleFunc("GET /ws", config.NotificationHandler.Subscribe)

	return mux
}
