package dto

// CrearTemaRequest is the inbound payload; the authenticated user comes from
// the request context, never from the body.
type CrearTemaRequest struct {
	Titulo      string `json:"titulo" binding:"required"`
	Contenido   string `json:"contenido" binding:"required"`
	CategoriaID uint   `json:"categoria_id" binding:"required"`
	Fijado      bool   `json:"fijado"`
}

// CrearTemaCommand is the full input of the thread-creation use case.
type CrearTemaCommand struct {
	Titulo      string
	Contenido   string
	CategoriaID uint
	UsuarioID   uint
	Fijado      bool
}

// CrearTemaResult is the tagged outcome of the use case: success with the new
// IDs, a list of validation messages, or a single domain/infrastructure error.
type CrearTemaResult struct {
	Success          bool     `json:"success"`
	TemaID           uint     `json:"tema_id,omitempty"`
	MensajeID        uint     `json:"mensaje_id,omitempty"`
	ErrorMessage     string   `json:"error_message,omitempty"`
	ValidationErrors []string `json:"validation_errors,omitempty"`
}

func CrearTemaExito(temaID, mensajeID uint) CrearTemaResult {
	return CrearTemaResult{Success: true, TemaID: temaID, MensajeID: mensajeID}
}

func CrearTemaError(mensaje string) CrearTemaResult {
	return CrearTemaResult{Success: false, ErrorMessage: mensaje}
}

func CrearTemaValidacion(errores []string) CrearTemaResult {
	return CrearTemaResult{
		Success:          false,
		ErrorMessage:     "errores de validación",
		ValidationErrors: errores,
	}
}

// EditarTemaRequest permite al autor corregir título y categoría; el contenido
// de apertura se edita a través de su mensaje.
type EditarTemaRequest struct {
	Titulo      string `json:"titulo" binding:"required,min=5,max=200"`
	CategoriaID uint   `json:"categoria_id" binding:"required"`
}

type TemaFilter struct {
	Page        int    `form:"page"`
	Limit       int    `form:"limit"`
	Busqueda    string `form:"q"`
	CategoriaID uint   `form:"categoria_id"`
}

type TemaResponse struct {
	ID                   uint   `json:"id"`
	Titulo               string `json:"titulo"`
	Slug                 string `json:"slug"`
	Contenido            string `json:"contenido"`
	Categoria            string `json:"categoria"`
	Autor                string `json:"autor"`
	NumeroVistas         int    `json:"numero_vistas"`
	NumeroMensajes       int64  `json:"numero_mensajes"`
	Cerrado              bool   `json:"cerrado"`
	Fijado               bool   `json:"fijado"`
	FechaCreacion        string `json:"fecha_creacion"`
	FechaUltimaActividad string `json:"fecha_ultima_actividad"`
}

type TemaDetalleResponse struct {
	TemaResponse
	Mensajes []MensajeResponse `json:"mensajes"`
}

type PaginatedTemaResponse struct {
	Data []TemaResponse `json:"data"`
	Meta PaginationMeta `json:"meta"`
}
