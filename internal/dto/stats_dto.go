package dto

type EstadisticasResponse struct {
	TotalUsuarios  int64          `json:"total_usuarios"`
	TotalTemas     int64          `json:"total_temas"`
	TotalMensajes  int64          `json:"total_mensajes"`
	TemasRecientes []TemaResponse `json:"temas_recientes"`
}
