package service

import (
	"time"

	"github.com/forosuite/foro/internal/dto"
	"github.com/forosuite/foro/internal/model"
)

const fechaFormato = "2006-01-02 15:04:05"

func buildTemaResponse(tema *model.Tema, numeroMensajes int64) dto.TemaResponse {
	autor := "Desconocido"
	if tema.Usuario.Nombre != "" {
		autor = tema.Usuario.Nombre
	}

	return dto.TemaResponse{
		ID:                   tema.ID,
		Titulo:               tema.Titulo,
		Slug:                 tema.Slug,
		Contenido:            tema.Contenido,
		Categoria:            tema.Categoria.Nombre,
		Autor:                autor,
		NumeroVistas:         tema.NumeroVistas,
		NumeroMensajes:       numeroMensajes,
		Cerrado:              tema.Cerrado,
		Fijado:               tema.Fijado,
		FechaCreacion:        tema.FechaCreacion.Format(fechaFormato),
		FechaUltimaActividad: tema.FechaUltimaActividad.Format(fechaFormato),
	}
}

func buildMensajeResponse(m *model.Mensaje) dto.MensajeResponse {
	autor := "Desconocido"
	if m.Usuario.Nombre != "" {
		autor = m.Usuario.Nombre
	}

	contenido := m.Contenido
	if m.Oculto {
		contenido = "[mensaje oculto por moderación]"
	}

	resp := dto.MensajeResponse{
		ID:             m.ID,
		Contenido:      contenido,
		Autor:          autor,
		UsuarioID:      m.UsuarioID,
		TemaID:         m.TemaID,
		MensajePadreID: m.MensajePadreID,
		Editado:        m.Editado,
		NumeroMeGusta:  m.NumeroMeGusta,
		Oculto:         m.Oculto,
		FechaCreacion:  m.FechaCreacion.Format(fechaFormato),
	}
	if m.FechaEdicion != nil {
		resp.FechaEdicion = m.FechaEdicion.Format(fechaFormato)
	}
	return resp
}

// buildArbolMensajes reconstruye el árbol de respuestas a partir de la lista
// plana: las respuestas cuelgan de su mensaje padre, el resto queda en la raíz.
// La referencia padre es estrictamente padre→id, así que no hay ciclos.
func buildArbolMensajes(mensajes []model.Mensaje) []dto.MensajeResponse {
	conocidos := make(map[uint]bool, len(mensajes))
	hijosDe := make(map[uint][]*model.Mensaje, len(mensajes))
	var raices []*model.Mensaje

	for i := range mensajes {
		conocidos[mensajes[i].ID] = true
	}
	for i := range mensajes {
		m := &mensajes[i]
		if m.MensajePadreID != nil && conocidos[*m.MensajePadreID] {
			hijosDe[*m.MensajePadreID] = append(hijosDe[*m.MensajePadreID], m)
		} else {
			raices = append(raices, m)
		}
	}

	var build func(m *model.Mensaje) dto.MensajeResponse
	build = func(m *model.Mensaje) dto.MensajeResponse {
		resp := buildMensajeResponse(m)
		for _, hijo := range hijosDe[m.ID] {
			resp.Respuestas = append(resp.Respuestas, build(hijo))
		}
		return resp
	}

	respuestas := make([]dto.MensajeResponse, 0, len(raices))
	for _, m := range raices {
		respuestas = append(respuestas, build(m))
	}
	return respuestas
}

func timePtr(t time.Time) *time.Time {
	return &t
}
