package handler

import (
	"net/http"
	"strconv"

	"github.com/forosuite/foro/internal/dto"
	"github.com/forosuite/foro/internal/service"
	"github.com/forosuite/foro/pkg/response"
	"github.com/forosuite/foro/pkg/validator"
	"github.com/gin-gonic/gin"
)

type CategoriaHandler struct {
	categorias service.CategoriaService
}

func NewCategoriaHandler(categorias service.CategoriaService) *CategoriaHandler {
	return &CategoriaHandler{categorias: categorias}
}

func (h *CategoriaHandler) GetCategorias(c *gin.Context) {
	incluirInactivas := c.Query("todas") == "true"

	categorias, err := h.categorias.GetCategorias(c.Request.Context(), incluirInactivas)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, categorias)
}

func (h *CategoriaHandler) CrearCategoria(c *gin.Context) {
	var req dto.CrearCategoriaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	categoria, err := h.categorias.CrearCategoria(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, categoria)
}

func (h *CategoriaHandler) ActualizarCategoria(c *gin.Context) {
	categoriaID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id de categoría inválido"})
		return
	}

	var req dto.ActualizarCategoriaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	if err := h.categorias.ActualizarCategoria(c.Request.Context(), uint(categoriaID), req); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "categoría actualizada"})
}

func (h *CategoriaHandler) EliminarCategoria(c *gin.Context) {
	categoriaID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id de categoría inválido"})
		return
	}

	if err := h.categorias.EliminarCategoria(c.Request.Context(), uint(categoriaID)); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "categoría eliminada"})
}
