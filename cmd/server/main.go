package main

import (
	"context"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/minhquang4309/social-be/internal/gateway"
	"github.com/minhquang4309/social-be/internal/gateway/middleware"
	"github.com/minhquang4309/social-be/internal/modules/auth"
	authjwt "github.com/minhquang4309/social-be/internal/modules/auth/infrastructure/jwt"
	"github.com/minhquang4309/social-be/internal/modules/engagement"
	"github.com/minhquang4309/social-be/internal/modules/filestorage"
	"github.com/minhquang4309/social-be/internal/modules/follow"
	"github.com/minhquang4309/social-be/internal/modules/notification"
	"github.com/minhquang4309/social-be/internal/modules/post"
	"github.com/minhquang4309/social-be/internal/modules/user"
	"github.com/minhquang4309/social-be/internal/shared/infrastructure/config"
	"github.com/minhquang4309/social-be/internal/shared/infrastructure/database"
	"github.com/minhquang4309/social-be/pkg/migration"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.Load()

	if cfg.Server.LogJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	logrus.SetOutput(os.Stdout)
	log := logrus.WithField("module", "main")

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("postgres connection failed")
	}
	defer db.Close()

	rdb, err := database.NewRedis(cfg.Redis)
	if err != nil {
		log.WithError(err).Fatal("redis connection failed")
	}
	defer rdb.Close()

	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "migrations"
	}
	if err := migration.AutoMigrate(cfg.Database.URL(), migrationsPath, logrus.WithField("module", "migration")); err != nil {
		log.WithError(err).Fatal("migrations failed")
	}

	fileModule, err := filestorage.NewModule(context.Background(), cfg.FileStorage)
	if err != nil {
		log.WithError(err).Fatal("file storage init failed")
	}

	authModule := auth.NewModule(db, rdb, cfg.JWT, cfg.Mail, cfg.Google.ClientID)

	// Websocket connections authenticate with the same tokens the REST
	// surface issues.
	verify := func(token string) (uuid.UUID, error) {
		claims, err := authjwt.ValidateToken(token, cfg.JWT.Secret)
		if err != nil {
			return uuid.Nil, err
		}
		return claims.UserID, nil
	}

	notificationModule := notification.NewModule(db, cfg.Notification, verify)
	notifier := notificationModule.Service()

	userModule := user.NewModule(db, authModule.UserRepository(), fileModule.Service())
	postModule := post.NewModule(db, notifier, cfg.Notification.BacklogPageSize)
	engagementModule := engagement.NewModule(db, notifier, cfg.Notification.BacklogPageSize)
	followModule := follow.NewModule(db, authModule.UserFinder(), notifier)

	mux := gateway.SetupRoutes(gateway.RouterConfig{
		AuthMiddleware:      middleware.NewAuthMiddleware(cfg.JWT.Secret),
		AuthHandler:         authModule.HTTPHandler(),
		UserHandler:         userModule.HTTPHandler(),
		PostHandler:         postModule.HTTPHandler(),
		EngagementHandler:   engagementModule.HTTPHandler(),
		FollowHandler:       followModule.HTTPHandler(),
		NotificationHandler: notificationModule.HTTPHandler(),
	})

	handler := middleware.CORSMiddleware(middleware.PrometheusMiddleware(mux), cfg.Server.AllowedOrigins)

	server := gateway.NewServer(cfg.Server.Port, handler)
	if err := server.Start(); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}
