package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/mystore/internal/cart"
	"github.com/smallbiznis/mystore/internal/catalog/cache"
	catalogdomain "github.com/smallbiznis/mystore/internal/catalog/domain"
	"github.com/smallbiznis/mystore/internal/config"
	draftservice "github.com/smallbiznis/mystore/internal/draft/service"
	"github.com/smallbiznis/mystore/internal/media"
	"github.com/smallbiznis/mystore/internal/observability"
	obsmiddleware "github.com/smallbiznis/mystore/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/mystore/internal/observability/metrics"
	obstracing "github.com/smallbiznis/mystore/internal/observability/tracing"
	productservice "github.com/smallbiznis/mystore/internal/product/service"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	log        *zap.Logger
	reader     catalogdomain.Reader
	creator    catalogdomain.Creator
	prefetcher *cache.Reader
	uploader   media.Uploader
	categories *config.CategoryHolder

	// nil when the process does not host the admin or the database
	drafts   *draftservice.Manager
	products *productservice.Service
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	Log        *zap.Logger
	Reader     catalogdomain.Reader
	Creator    catalogdomain.Creator
	Prefetcher *cache.Reader
	Uploader   media.Uploader
	Categories *config.CategoryHolder

	Drafts   *draftservice.Manager   `optional:"true"`
	Products *productservice.Service `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		log:        p.Log.Named("http.server"),
		reader:     p.Reader,
		creator:    p.Creator,
		prefetcher: p.Prefetcher,
		uploader:   p.Uploader,
		categories: p.Categories,
		drafts:     p.Drafts,
		products:   p.Products,
	}

	svc.registerAPIRoutes()
	svc.registerStoreRoutes()
	svc.registerAdminRoutes()
	svc.registerFallback()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Products --------
	api.GET("/products", s.ListProducts)
	api.POST("/products", s.CreateProduct)
	api.GET("/products/:id", s.GetProductByID)

	// -------- Uploads --------
	api.POST("/uploads", s.UploadImage)

	// -------- Categories --------
	api.GET("/categories", s.ListCategories)
}

func (s *Server) registerStoreRoutes() {
	store := s.engine.Group("/store", cart.Middleware())

	store.GET("/products", s.StoreListProducts)
	store.GET("/products/:id", s.StoreGetProduct)
	store.POST("/products/:id/prefetch", s.PrefetchProduct)
	store.GET("/cart", s.GetCart)
	store.POST("/cart", s.AddToCart)
}

func (s *Server) registerAdminRoutes() {
	if s.drafts == nil {
		return
	}
	admin := s.engine.Group("/admin", draftLogContext())

	// -------- Drafts --------
	admin.POST("/drafts", s.OpenDraft)
	admin.GET("/drafts/:id", s.GetDraft)
	admin.PATCH("/drafts/:id", s.UpdateDraft)
	admin.DELETE("/drafts/:id", s.CloseDraft)
	admin.POST("/drafts/:id/variants", s.AddVariant)
	admin.PATCH("/drafts/:id/variants/:localId", s.UpdateVariant)
	admin.DELETE("/drafts/:id/variants/:localId", s.RemoveVariant)
	admin.POST("/drafts/:id/images/:slot", s.UploadDraftImage)
	admin.DELETE("/drafts/:id/images/:slot", s.RemoveDraftImage)
	admin.POST("/drafts/:id/submit", s.SubmitDraft)
	admin.POST("/drafts/:id/cancel", s.CancelDraft)
	admin.DELETE("/drafts/:id/ack", s.DismissDraftAck)
}

func (s *Server) registerFallback() {
	s.engine.NoRoute(func(c *gin.Context) {
		AbortWithError(c, ErrNotFound)
	})
}
