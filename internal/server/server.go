package server

import (
	"context"
	"log/slog"
	"strings"

	"github.com/forosuite/foro/internal/config"
	"github.com/forosuite/foro/internal/handler"
	"github.com/forosuite/foro/internal/middleware"
	"github.com/forosuite/foro/internal/model"
	"github.com/forosuite/foro/internal/repository"
	"github.com/forosuite/foro/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine *gin.Engine
	cfg    *config.Config
}

func NewServer(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, logger *slog.Logger) *Server {
	uowFactory := repository.NewFactory(db)

	usuarioSvc := service.NewUsuarioService(uowFactory, cfg.JWTSecret, logger)
	authHandler := handler.NewAuthHandler(usuarioSvc)

	categoriaSvc := service.NewCategoriaService(uowFactory, logger)
	categoriaHandler := handler.NewCategoriaHandler(categoriaSvc)

	vistaSvc := service.NewVistaService(redisClient, uowFactory, logger)
	if redisClient != nil {
		go vistaSvc.StartSyncWorker(context.Background())
	}

	temaSvc := service.NewTemaService(uowFactory, vistaSvc, logger)
	temaHandler := handler.NewTemaHandler(temaSvc, redisClient, cfg.RateLimitTema)

	mensajeSvc := service.NewMensajeService(uowFactory, logger)
	mensajeHandler := handler.NewMensajeHandler(mensajeSvc, redisClient, cfg.RateLimitMensaje)

	statSvc := service.NewStatService(uowFactory)
	statHandler := handler.NewStatHandler(statSvc)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	setupCORS(router, cfg)

	authMiddleware := middleware.NewAuthMiddleware(usuarioSvc, cfg.JWTSecret)

	api := router.Group("/api")

	// Public routes (no auth required)
	auth := api.Group("/auth")
	{
		auth.POST("/registro", authHandler.Registro)
		auth.POST("/login", authHandler.Login)
	}

	api.GET("/categorias", categoriaHandler.GetCategorias)
	api.GET("/temas", temaHandler.GetTemas)
	api.GET("/temas/slug/:slug", temaHandler.GetTemaPorSlug)
	api.GET("/temas/:tema_id/mensajes", mensajeHandler.GetMensajesPorTema)
	api.GET("/stats", statHandler.GetEstadisticas)

	// Protected routes
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.POST("/temas", temaHandler.CrearTema)
		protected.PUT("/temas/:tema_id", temaHandler.EditarTema)
		protected.DELETE("/temas/:tema_id", temaHandler.EliminarTema)
		protected.POST("/temas/:tema_id/mensajes", mensajeHandler.CrearMensaje)
		protected.PUT("/mensajes/:id", mensajeHandler.EditarMensaje)
		protected.POST("/mensajes/:id/megusta", mensajeHandler.DarMeGusta)

		moderacion := protected.Group("")
		moderacion.Use(authMiddleware.RequireRol(model.RolAdministrador, model.RolModerador))
		{
			moderacion.POST("/mensajes/:id/ocultar", mensajeHandler.OcultarMensaje)
			moderacion.PATCH("/temas/:tema_id/cerrar", temaHandler.CerrarTema)
			moderacion.PATCH("/temas/:tema_id/fijar", temaHandler.FijarTema)
		}

		admin := protected.Group("/admin")
		admin.Use(authMiddleware.RequireRol(model.RolAdministrador))
		{
			admin.POST("/categorias", categoriaHandler.CrearCategoria)
			admin.PUT("/categorias/:id", categoriaHandler.ActualizarCategoria)
			admin.DELETE("/categorias/:id", categoriaHandler.EliminarCategoria)
		}
	}

	return &Server{engine: router, cfg: cfg}
}

func (s *Server) Run() error {
	return s.engine.Run(":" + s.cfg.Port)
}

func setupCORS(router *gin.Engine, cfg *config.Config) {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(cfg.AllowedOrigins, ",")
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))
}
