package server

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/ahmetclq/web-final-projesi/internal/config"
	"github.com/ahmetclq/web-final-projesi/internal/handler"
	appmw "github.com/ahmetclq/web-final-projesi/internal/middleware"
	"github.com/ahmetclq/web-final-projesi/internal/repository"
	"github.com/ahmetclq/web-final-projesi/internal/service"
	"github.com/ahmetclq/web-final-projesi/internal/storage"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"
)

type Server struct {
	e     *echo.Echo
	sha   string
	build string
}

func New(ctx context.Context, cfg *config.Config, db *gorm.DB, blobs storage.BlobStore, sha, buildTime string) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) (bool, error) {
			low := strings.ToLower(origin)
			if strings.HasPrefix(low, "http://localhost:") || strings.HasPrefix(low, "http://127.0.0.1:") ||
				strings.HasPrefix(low, "https://localhost:") || strings.HasPrefix(low, "https://127.0.0.1:") {
				return true, nil
			}
			u, err := url.Parse(origin)
			if err != nil {
				return false, nil
			}
			if u.Scheme != "http" && u.Scheme != "https" {
				return false, nil
			}
			if strings.HasSuffix(u.Hostname(), "vercel.app") {
				return true, nil
			}
			return false, nil
		},
	}))

	userRepo := repository.NewUserRepository(db)
	itemRepo := repository.NewItemRepository(db)
	offerRepo := repository.NewTradeOfferRepository(db)

	itemSvc := service.NewItemService(db, itemRepo, offerRepo, userRepo, blobs)
	matchSvc := service.NewMatchService(itemRepo)
	tradeSvc := service.NewTradeService(db, offerRepo, itemRepo, userRepo, cfg.WhatsAppCountryCode)

	itemHandler := handler.NewItemHandler(itemSvc, matchSvc)
	tradeHandler := handler.NewTradeHandler(tradeSvc)
	userHandler := handler.NewUserHandler(userRepo)

	authMw, err := appmw.NewAuthMiddleware(ctx, cfg.FirebaseProjectID)
	if err != nil {
		return nil, err
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"ok":         "true",
			"git_sha":    sha,
			"build_time": buildTime,
		})
	})

	api := e.Group("/api")

	api.GET("/me", userHandler.Me, authMw.RequireAuth)
	api.PUT("/me", userHandler.UpdateMe, authMw.RequireAuth)
	api.GET("/users/:uid/public", userHandler.GetPublic)

	api.POST("/items", itemHandler.Create, authMw.RequireAuth)
	api.GET("/items", itemHandler.ListRegion, authMw.RequireAuth)
	api.GET("/items/:id", itemHandler.Get)
	api.PUT("/items/:id", itemHandler.Update, authMw.RequireAuth)
	api.DELETE("/items/:id", itemHandler.Delete, authMw.RequireAuth)
	api.GET("/me/items", itemHandler.ListMine, authMw.RequireAuth)
	api.GET("/me/recommended", itemHandler.Recommended, authMw.RequireAuth)

	api.POST("/trades", tradeHandler.Send, authMw.RequireAuth)
	api.POST("/trades/:id/accept", tradeHandler.Accept, authMw.RequireAuth)
	api.POST("/trades/:id/reject", tradeHandler.Reject, authMw.RequireAuth)
	api.POST("/trades/:id/complete", tradeHandler.Complete, authMw.RequireAuth)
	api.GET("/me/trades/incoming", tradeHandler.ListIncoming, authMw.RequireAuth)
	api.GET("/me/trades/outgoing", tradeHandler.ListOutgoing, authMw.RequireAuth)

	return &Server{e: e, sha: sha, build: buildTime}, nil
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}
