package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"portal/internal/domain/auth"
	"portal/internal/domain/evaluation"
	"portal/internal/domain/event"
	"portal/internal/domain/reservation"
	"portal/internal/domain/room"
	"portal/internal/domain/ticket"
	"portal/internal/middleware"
	"portal/internal/pkg/events"
	jwtsvc "portal/internal/pkg/jwt"
	"portal/internal/pkg/keylock"
	"portal/internal/pkg/response"
	"portal/internal/realtime"
)

type routerDeps struct {
	db        *gorm.DB
	rdb       *redis.Client // optional
	jwt       *jwtsvc.Service
	locker    keylock.Locker
	publisher events.Publisher
	hub       *realtime.Hub // nil disables /api/salas/ws
	origins   []string
}

func newRouter(d routerDeps) *gin.Engine {
	// Repositories
	userRepo := auth.NewUserRepository(d.db)
	roomRepo := room.NewRepository(d.db)
	reservationRepo := reservation.NewRepository(d.db)
	ticketRepo := ticket.NewRepository(d.db)
	evaluationRepo := evaluation.NewRepository(d.db)
	eventRepo := event.NewRepository(d.db)

	// Services & handlers
	var feed reservation.Feed
	if d.hub != nil {
		feed = d.hub
	}

	authHandler := auth.NewHandler(auth.NewService(userRepo, d.jwt))
	roomHandler := room.NewHandler(room.NewService(roomRepo))
	reservationHandler := reservation.NewHandler(
		reservation.NewService(reservationRepo, roomRepo, userRepo, d.locker, d.publisher),
		feed,
	)
	ticketHandler := ticket.NewHandler(ticket.NewService(ticketRepo, userRepo, d.locker, d.publisher))
	evaluationHandler := evaluation.NewHandler(evaluation.NewService(evaluationRepo, userRepo, d.publisher))
	eventHandler := event.NewHandler(event.NewService(eventRepo, userRepo))

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.ErrorLogger())
	r.Use(middleware.CORS(d.origins))

	r.GET("/health", healthHandler(d.db, d.rdb))

	api := r.Group("/api")
	{
		authHandler.RegisterPublicRoutes(api)

		protected := api.Group("")
		protected.Use(middleware.JWTAuth(d.jwt))
		{
			authHandler.RegisterProtectedRoutes(protected)
			roomHandler.RegisterProtectedRoutes(protected)
			reservationHandler.RegisterProtectedRoutes(protected)
			ticketHandler.RegisterProtectedRoutes(protected)
			eventHandler.RegisterProtectedRoutes(protected)
			evaluationHandler.RegisterProtectedRoutes(protected, middleware.RequireRole(string(auth.RoleAdmin), string(auth.RoleManager)))
		}

		admin := api.Group("/admin")
		admin.Use(middleware.JWTAuth(d.jwt), middleware.AdminOnly())
		{
			authHandler.RegisterAdminRoutes(admin)
			roomHandler.RegisterAdminRoutes(admin)
		}
	}

	return r
}

func healthHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := gin.H{"database": "ok"}
		healthy := true
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			status["database"] = "down"
			healthy = false
		}
		if rdb != nil {
			status["redis"] = "ok"
			if err := rdb.Ping(ctx).Err(); err != nil {
				status["redis"] = "down"
				healthy = false
			}
		}

		if !healthy {
			response.ErrorWithDetails(c, http.StatusServiceUnavailable, "UNHEALTHY", "Dependency check failed", status)
			return
		}
		response.Success(c, http.StatusOK, status)
	}
}
