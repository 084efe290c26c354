package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/forosuite/foro/internal/dto"
	"github.com/forosuite/foro/internal/service"
	"github.com/forosuite/foro/pkg/response"
	"github.com/forosuite/foro/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type MensajeHandler struct {
	mensajes         service.MensajeService
	redisClient      *redis.Client
	rateLimitMensaje time.Duration
}

func NewMensajeHandler(mensajes service.MensajeService, redisClient *redis.Client, rateLimitMensaje time.Duration) *MensajeHandler {
	return &MensajeHandler{
		mensajes:         mensajes,
		redisClient:      redisClient,
		rateLimitMensaje: rateLimitMensaje,
	}
}

func (h *MensajeHandler) CrearMensaje(c *gin.Context) {
	temaID, err := strconv.ParseUint(c.Param("tema_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id de tema inválido"})
		return
	}

	var req dto.CrearMensajeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	usuarioID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	permitido, err := service.CheckAndSetRateLimit(c.Request.Context(), h.redisClient, usuarioID, "crear_mensaje", h.rateLimitMensaje)
	if err == nil && !permitido {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "debe esperar antes de publicar otro mensaje"})
		return
	}

	mensaje, err := h.mensajes.CrearMensaje(c.Request.Context(), dto.CrearMensajeCommand{
		TemaID:         uint(temaID),
		UsuarioID:      usuarioID,
		Contenido:      req.Contenido,
		MensajePadreID: req.MensajePadreID,
	})
	if err != nil {
		_ = service.ClearRateLimit(c.Request.Context(), h.redisClient, usuarioID, "crear_mensaje")
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, mensaje)
}

func (h *MensajeHandler) GetMensajesPorTema(c *gin.Context) {
	temaID, err := strconv.ParseUint(c.Param("tema_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id de tema inválido"})
		return
	}

	mensajes, err := h.mensajes.GetMensajesPorTema(c.Request.Context(), uint(temaID))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, mensajes)
}

func (h *MensajeHandler) EditarMensaje(c *gin.Context) {
	mensajeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id de mensaje inválido"})
		return
	}

	var req dto.EditarMensajeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	usuarioID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.mensajes.EditarMensaje(c.Request.Context(), usuarioID, uint(mensajeID), req.Contenido); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "mensaje editado"})
}

func (h *MensajeHandler) OcultarMensaje(c *gin.Context) {
	mensajeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id de mensaje inválido"})
		return
	}

	var req dto.OcultarMensajeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	if err := h.mensajes.OcultarMensaje(c.Request.Context(), uint(mensajeID), req.Razon); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "mensaje ocultado"})
}

func (h *MensajeHandler) DarMeGusta(c *gin.Context) {
	mensajeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id de mensaje inválido"})
		return
	}

	if err := h.mensajes.DarMeGusta(c.Request.Context(), uint(mensajeID)); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "me gusta registrado"})
}
