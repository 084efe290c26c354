package dto

type CrearMensajeRequest struct {
	Contenido      string `json:"contenido" binding:"required,min=1,max=5000"`
	MensajePadreID *uint  `json:"mensaje_padre_id"`
}

type CrearMensajeCommand struct {
	TemaID         uint
	UsuarioID      uint
	Contenido      string
	MensajePadreID *uint
}

type EditarMensajeRequest struct {
	Contenido string `json:"contenido" binding:"required,min=1,max=5000"`
}

type OcultarMensajeRequest struct {
	Razon string `json:"razon" binding:"required,max=500"`
}

type MensajeResponse struct {
	ID             uint              `json:"id"`
	Contenido      string            `json:"contenido"`
	Autor          string            `json:"autor"`
	UsuarioID      uint              `json:"usuario_id"`
	TemaID         uint              `json:"tema_id"`
	MensajePadreID *uint             `json:"mensaje_padre_id,omitempty"`
	Editado        bool              `json:"editado"`
	FechaEdicion   string            `json:"fecha_edicion,omitempty"`
	NumeroMeGusta  int               `json:"numero_me_gusta"`
	Oculto         bool              `json:"oculto"`
	FechaCreacion  string            `json:"fecha_creacion"`
	Respuestas     []MensajeResponse `json:"respuestas,omitempty"`
}
