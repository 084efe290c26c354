package handler

import (
	"net/http"

	"github.com/forosuite/foro/internal/dto"
	"github.com/forosuite/foro/internal/service"
	"github.com/forosuite/foro/pkg/response"
	"github.com/forosuite/foro/pkg/validator"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	usuarios service.UsuarioService
}

func NewAuthHandler(usuarios service.UsuarioService) *AuthHandler {
	return &AuthHandler{usuarios: usuarios}
}

func (h *AuthHandler) Registro(c *gin.Context) {
	var req dto.RegistroRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	usuario, err := h.usuarios.Registrar(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, usuario)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	resp, err := h.usuarios.Login(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
