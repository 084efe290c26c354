package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forosuite/foro/internal/dto"
	"github.com/forosuite/foro/internal/model"
	"github.com/forosuite/foro/pkg/apperror"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTemaFixture() (*fakeUoW, TemaService) {
	uow := newFakeUoW()
	uow.categorias.seed(model.Categoria{ID: 1, Nombre: "General", Slug: "general", Activa: true})
	uow.categorias.seed(model.Categoria{ID: 2, Nombre: "Archivada", Slug: "archivada", Activa: false})
	uow.usuarios.seed(model.Usuario{ID: 1, Nombre: "Ana García", Email: "ana@foro.local", Activo: true})
	uow.usuarios.seed(model.Usuario{ID: 2, Nombre: "Baja Temporal", Email: "baja@foro.local", Activo: false})
	uow.usuarios.seed(model.Usuario{ID: 3, Nombre: "Admin Foro", Email: "admin@foro.local", Activo: true, Rol: model.RolAdministrador})
	uow.usuarios.seed(model.Usuario{ID: 4, Nombre: "Luis Ortega", Email: "luis@foro.local", Activo: true})

	svc := NewTemaService(&fakeFactory{uow: uow}, nil, testLogger())
	return uow, svc
}

func comandoValido() dto.CrearTemaCommand {
	return dto.CrearTemaCommand{
		Titulo:      "Mi Primer Tema",
		Contenido:   "Este es el contenido del mensaje de apertura.",
		CategoriaID: 1,
		UsuarioID:   1,
	}
}

func TestCrearTemaLongitudTitulo(t *testing.T) {
	casos := []struct {
		longitud int
		valido   bool
	}{
		{4, false},
		{5, true},
		{200, true},
		{201, false},
	}

	for _, c := range casos {
		uow, svc := newTemaFixture()
		cmd := comandoValido()
		cmd.Titulo = strings.Repeat("a", c.longitud)

		res := svc.CrearTema(context.Background(), cmd)

		if c.valido {
			assert.True(t, res.Success, "título de %d caracteres debería aceptarse", c.longitud)
			continue
		}
		assert.False(t, res.Success, "título de %d caracteres debería rechazarse", c.longitud)
		assert.Contains(t, res.ValidationErrors, "el título debe tener entre 5 y 200 caracteres")
		assert.Zero(t, uow.begins, "la validación debe fallar antes de abrir transacción")
		assert.Empty(t, uow.temas.rows)
	}
}

func TestCrearTemaLongitudContenido(t *testing.T) {
	casos := []struct {
		longitud int
		valido   bool
	}{
		{9, false},
		{10, true},
		{5000, true},
		{5001, false},
	}

	for _, c := range casos {
		uow, svc := newTemaFixture()
		cmd := comandoValido()
		cmd.Contenido = strings.Repeat("b", c.longitud)

		res := svc.CrearTema(context.Background(), cmd)

		if c.valido {
			assert.True(t, res.Success, "contenido de %d caracteres debería aceptarse", c.longitud)
			continue
		}
		assert.False(t, res.Success, "contenido de %d caracteres debería rechazarse", c.longitud)
		assert.Contains(t, res.ValidationErrors, "el contenido debe tener entre 10 y 5000 caracteres")
		assert.Zero(t, uow.begins)
		assert.Empty(t, uow.mensajes.rows)
	}
}

func TestCrearTemaCamposEnBlanco(t *testing.T) {
	uow, svc := newTemaFixture()

	res := svc.CrearTema(context.Background(), dto.CrearTemaCommand{
		Titulo:    "   ",
		Contenido: "\t\n",
	})

	assert.False(t, res.Success)
	assert.Equal(t, "errores de validación", res.ErrorMessage)
	assert.Contains(t, res.ValidationErrors, "el título es obligatorio")
	assert.Contains(t, res.ValidationErrors, "el contenido del mensaje es obligatorio")
	assert.Contains(t, res.ValidationErrors, "debe seleccionar una categoría válida")
	assert.Contains(t, res.ValidationErrors, "el usuario no es válido")
	assert.Zero(t, uow.begins)
}

func TestCrearTemaCategoriaInexistente(t *testing.T) {
	uow, svc := newTemaFixture()
	cmd := comandoValido()
	cmd.CategoriaID = 99

	res := svc.CrearTema(context.Background(), cmd)

	assert.False(t, res.Success)
	assert.Equal(t, "la categoría seleccionada no existe o no está activa", res.ErrorMessage)
	assert.Empty(t, res.ValidationErrors)
	assert.Empty(t, uow.temas.rows)
	assert.False(t, uow.txOpen, "la transacción debe quedar revertida")
}

func TestCrearTemaCategoriaInactiva(t *testing.T) {
	uow, svc := newTemaFixture()
	cmd := comandoValido()
	cmd.CategoriaID = 2

	res := svc.CrearTema(context.Background(), cmd)

	assert.False(t, res.Success)
	assert.Equal(t, "la categoría seleccionada no existe o no está activa", res.ErrorMessage)
	assert.Empty(t, uow.temas.rows)
	assert.False(t, uow.txOpen)
}

func TestCrearTemaUsuarioInexistente(t *testing.T) {
	uow, svc := newTemaFixture()
	cmd := comandoValido()
	cmd.UsuarioID = 99

	res := svc.CrearTema(context.Background(), cmd)

	assert.False(t, res.Success)
	assert.Equal(t, "el usuario no existe o no está activo", res.ErrorMessage)
	assert.Empty(t, uow.temas.rows)
	assert.False(t, uow.txOpen)
}

func TestCrearTemaUsuarioInactivo(t *testing.T) {
	uow, svc := newTemaFixture()
	cmd := comandoValido()
	cmd.UsuarioID = 2

	res := svc.CrearTema(context.Background(), cmd)

	assert.False(t, res.Success)
	assert.Equal(t, "el usuario no existe o no está activo", res.ErrorMessage)
	assert.Empty(t, uow.temas.rows)
	assert.False(t, uow.txOpen)
}

// El fallo al persistir el mensaje de apertura debe revertir también el tema ya
// flusheado: nunca puede quedar un tema sin su primer mensaje.
func TestCrearTemaRollbackSiFallaElMensaje(t *testing.T) {
	uow, svc := newTemaFixture()
	uow.mensajes.addErr = errors.New("fallo de almacenamiento simulado")

	res := svc.CrearTema(context.Background(), comandoValido())

	assert.False(t, res.Success)
	assert.Contains(t, res.ErrorMessage, "error al crear el tema")
	assert.Empty(t, uow.temas.rows, "el tema flusheado debe revertirse con el rollback")
	assert.Empty(t, uow.mensajes.rows)
	assert.False(t, uow.txOpen)
}

func TestCrearTemaExito(t *testing.T) {
	uow, svc := newTemaFixture()

	res := svc.CrearTema(context.Background(), comandoValido())

	require.True(t, res.Success, "error inesperado: %s", res.ErrorMessage)
	require.NotZero(t, res.TemaID)
	require.NotZero(t, res.MensajeID)
	assert.False(t, uow.txOpen)

	tema, ok := uow.temas.rows[res.TemaID]
	require.True(t, ok)
	assert.Equal(t, "Mi Primer Tema", tema.Titulo)
	assert.Equal(t, "mi-primer-tema", tema.Slug)
	assert.Equal(t, uint(1), tema.CategoriaID)
	assert.Equal(t, uint(1), tema.UsuarioID)
	assert.False(t, tema.Cerrado)
	assert.Zero(t, tema.NumeroVistas)
	assert.Equal(t, tema.FechaCreacion, tema.FechaUltimaActividad)

	require.Len(t, uow.mensajes.rows, 1)
	mensaje := uow.mensajes.rows[res.MensajeID]
	assert.Equal(t, res.TemaID, mensaje.TemaID)
	assert.Equal(t, uint(1), mensaje.UsuarioID)
	assert.Equal(t, tema.Contenido, mensaje.Contenido)
	assert.Nil(t, mensaje.MensajePadreID)
}

func TestCrearTemaRecortaEspacios(t *testing.T) {
	uow, svc := newTemaFixture()
	cmd := comandoValido()
	cmd.Titulo = "  Título de Prueba  "
	cmd.Contenido = "  contenido con espacios alrededor  "

	res := svc.CrearTema(context.Background(), cmd)

	require.True(t, res.Success)
	tema := uow.temas.rows[res.TemaID]
	assert.Equal(t, "Título de Prueba", tema.Titulo)
	assert.Equal(t, "titulo-de-prueba", tema.Slug)
	assert.Equal(t, "contenido con espacios alrededor", tema.Contenido)
}

func TestCrearTemaFijado(t *testing.T) {
	uow, svc := newTemaFixture()
	cmd := comandoValido()
	cmd.Fijado = true

	res := svc.CrearTema(context.Background(), cmd)

	require.True(t, res.Success)
	assert.True(t, uow.temas.rows[res.TemaID].Fijado)
}

func seedTemaConMensaje(uow *fakeUoW) {
	uow.temas.seed(model.Tema{ID: 4, Titulo: "Tema Original", Slug: "tema-original", CategoriaID: 1, UsuarioID: 1})
	uow.mensajes.seed(model.Mensaje{ID: 7, TemaID: 4, UsuarioID: 1, Contenido: "mensaje de apertura"})
}

func TestEditarTema(t *testing.T) {
	uow, svc := newTemaFixture()
	seedTemaConMensaje(uow)

	err := svc.EditarTema(context.Background(), 1, 4, dto.EditarTemaRequest{
		Titulo:      "  Título Corregido  ",
		CategoriaID: 1,
	})

	require.NoError(t, err)
	tema := uow.temas.rows[4]
	assert.Equal(t, "Título Corregido", tema.Titulo)
	assert.Equal(t, "titulo-corregido", tema.Slug, "editar el título rederiva el slug")
	assert.Equal(t, uint(1), tema.CategoriaID)
}

func TestEditarTemaCambiaCategoria(t *testing.T) {
	uow, svc := newTemaFixture()
	seedTemaConMensaje(uow)
	uow.categorias.seed(model.Categoria{ID: 3, Nombre: "Ayuda", Slug: "ayuda", Activa: true})

	err := svc.EditarTema(context.Background(), 1, 4, dto.EditarTemaRequest{
		Titulo:      "Tema Original",
		CategoriaID: 3,
	})

	require.NoError(t, err)
	assert.Equal(t, uint(3), uow.temas.rows[4].CategoriaID)
}

func TestEditarTemaCategoriaInactiva(t *testing.T) {
	uow, svc := newTemaFixture()
	seedTemaConMensaje(uow)

	err := svc.EditarTema(context.Background(), 1, 4, dto.EditarTemaRequest{
		Titulo:      "Tema Original",
		CategoriaID: 2,
	})

	require.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, apperror.MapErrorToStatus(err))
	assert.Equal(t, uint(1), uow.temas.rows[4].CategoriaID, "la categoría no debe cambiar")
}

func TestEditarTemaNoPropietario(t *testing.T) {
	uow, svc := newTemaFixture()
	seedTemaConMensaje(uow)

	err := svc.EditarTema(context.Background(), 4, 4, dto.EditarTemaRequest{
		Titulo:      "Intento Ajeno",
		CategoriaID: 1,
	})

	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, apperror.MapErrorToStatus(err))
	assert.Equal(t, "Tema Original", uow.temas.rows[4].Titulo)
}

func TestEditarTemaComoAdministrador(t *testing.T) {
	uow, svc := newTemaFixture()
	seedTemaConMensaje(uow)

	err := svc.EditarTema(context.Background(), 3, 4, dto.EditarTemaRequest{
		Titulo:      "Editado por Moderación",
		CategoriaID: 1,
	})

	require.NoError(t, err)
	assert.Equal(t, "Editado por Moderación", uow.temas.rows[4].Titulo)
}

func TestEditarTemaInexistente(t *testing.T) {
	_, svc := newTemaFixture()

	err := svc.EditarTema(context.Background(), 1, 99, dto.EditarTemaRequest{
		Titulo:      "Da Igual Cuál",
		CategoriaID: 1,
	})

	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperror.MapErrorToStatus(err))
}

func TestEliminarTema(t *testing.T) {
	uow, svc := newTemaFixture()
	seedTemaConMensaje(uow)

	require.NoError(t, svc.EliminarTema(context.Background(), 1, 4))
	assert.NotContains(t, uow.temas.rows, uint(4))
}

func TestEliminarTemaNoPropietario(t *testing.T) {
	uow, svc := newTemaFixture()
	seedTemaConMensaje(uow)

	err := svc.EliminarTema(context.Background(), 4, 4)

	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, apperror.MapErrorToStatus(err))
	assert.Contains(t, uow.temas.rows, uint(4))
}

func TestEliminarTemaComoAdministrador(t *testing.T) {
	uow, svc := newTemaFixture()
	seedTemaConMensaje(uow)

	require.NoError(t, svc.EliminarTema(context.Background(), 3, 4))
	assert.NotContains(t, uow.temas.rows, uint(4))
}

func TestEliminarTemaInexistente(t *testing.T) {
	_, svc := newTemaFixture()

	err := svc.EliminarTema(context.Background(), 1, 99)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperror.MapErrorToStatus(err))
}

func TestCerrarTema(t *testing.T) {
	uow, svc := newTemaFixture()
	uow.temas.seed(model.Tema{ID: 4, Titulo: "Debate abierto", Slug: "debate-abierto", CategoriaID: 1, UsuarioID: 1})

	require.NoError(t, svc.CerrarTema(context.Background(), 4, true))
	assert.True(t, uow.temas.rows[4].Cerrado)

	require.NoError(t, svc.CerrarTema(context.Background(), 4, false))
	assert.False(t, uow.temas.rows[4].Cerrado)
}

func TestCerrarTemaInexistente(t *testing.T) {
	_, svc := newTemaFixture()

	err := svc.CerrarTema(context.Background(), 99, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "el tema no existe")
}

func TestFijarTema(t *testing.T) {
	uow, svc := newTemaFixture()
	uow.temas.seed(model.Tema{ID: 4, Titulo: "Normas del foro", Slug: "normas-del-foro", CategoriaID: 1, UsuarioID: 1})

	require.NoError(t, svc.FijarTema(context.Background(), 4, true))
	assert.True(t, uow.temas.rows[4].Fijado)
}
