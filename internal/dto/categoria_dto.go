package dto

type CrearCategoriaRequest struct {
	Nombre      string `json:"nombre" binding:"required,min=3,max=100"`
	Descripcion string `json:"descripcion" binding:"max=500"`
	Orden       int    `json:"orden"`
}

type ActualizarCategoriaRequest struct {
	Nombre      *string `json:"nombre" binding:"omitempty,min=3,max=100"`
	Descripcion *string `json:"descripcion" binding:"omitempty,max=500"`
	Orden       *int    `json:"orden"`
	Activa      *bool   `json:"activa"`
}

type CategoriaResponse struct {
	ID          uint   `json:"id"`
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion"`
	Slug        string `json:"slug"`
	Orden       int    `json:"orden"`
	Activa      bool   `json:"activa"`
	NumeroTemas int64  `json:"numero_temas"`
}
