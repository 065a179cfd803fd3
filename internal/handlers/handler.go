package handlers

import (
	"printshop/internal/logger"
	"printshop/internal/service"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "printshop/docs"
)

const defaultMaxUploadBytes = 200 << 20

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services  *service.Service
	log       *logger.Logger
	maxUpload int64
}

// NewHandler constructs a new HTTP handler with dependencies. maxUpload caps
// the size of analyzed files; zero or less picks the default.
func NewHandler(services *service.Service, log *logger.Logger, maxUpload int64) *Handler {
	if maxUpload <= 0 {
		maxUpload = defaultMaxUploadBytes
	}
	return &Handler{services: services, log: log, maxUpload: maxUpload}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestID())
	if h.log != nil {
		router.Use(h.accessLog())
	}
	router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/ws"})))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	// Low-stock feed; authenticates itself so browsers can pass ?token=
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.userIdMiddleware)
	{
		h.registerFilamentRoutes(api)
		h.registerPrinterRoutes(api)
		h.registerProjectRoutes(api)
		h.registerMovementRoutes(api)
		h.registerFileRoutes(api)
		api.POST("/quotes", h.quote)
	}
}

func (h *Handler) registerFilamentRoutes(api *gin.RouterGroup) {
	filaments := api.Group("/filaments")
	{
		filaments.GET("", h.listFilaments)
		filaments.POST("", h.createFilament)
		filaments.GET("/low-stock", h.lowStock)
		filaments.GET("/:id", h.getFilament)
		filaments.PUT("/:id", h.updateFilament)
		filaments.DELETE("/:id", h.deleteFilament)
		// Body example: {"peso": 12.5, "nota": "purge"}
		filaments.POST("/:id/consume", h.consumeFilament)
	}
}

func (h *Handler) registerPrinterRoutes(api *gin.RouterGroup) {
	printers := api.Group("/printers")
	{
		printers.GET("", h.listPrinters)
		printers.POST("", h.createPrinter)
		printers.GET("/:id", h.getPrinter)
		printers.PUT("/:id", h.updatePrinter)
		printers.DELETE("/:id", h.deletePrinter)
	}
}

func (h *Handler) registerProjectRoutes(api *gin.RouterGroup) {
	projects := api.Group("/projects")
	{
		projects.GET("", h.listProjects)
		projects.POST("", h.createProject)
		// Body example: {"projectId":"p1","printerId":"pr1","filaments":[{"id":"f1","peso":42}],"totalTime":3.5}
		projects.POST("/approve", h.approveProject)
		projects.GET("/:id", h.getProject)
		projects.PUT("/:id", h.updateProject)
		projects.DELETE("/:id", h.deleteProject)
		projects.POST("/:id/status", h.advanceProjectStatus)
	}
}

func (h *Handler) registerMovementRoutes(api *gin.RouterGroup) {
	movements := api.Group("/movements")
	{
		movements.GET("", h.getMovements)
	}
}

func (h *Handler) registerFileRoutes(api *gin.RouterGroup) {
	files := api.Group("/files")
	{
		files.POST("/analyze", h.analyzeFile)
	}
}
