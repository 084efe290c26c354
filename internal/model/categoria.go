package model

import (
	"time"
)

// Categoria es dato de referencia: un tema solo puede crearse sobre una
// categoría existente y activa.
type Categoria struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Nombre        string    `gorm:"size:100;uniqueIndex;not null" json:"nombre"`
	Descripcion   string    `gorm:"size:500" json:"descripcion"`
	Slug          string    `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Orden         int       `gorm:"default:0" json:"orden"`
	Activa        bool      `gorm:"default:true" json:"activa"`
	FechaCreacion time.Time `gorm:"autoCreateTime" json:"fecha_creacion"`
	Temas         []Tema    `gorm:"foreignKey:CategoriaID" json:"temas,omitempty"`
}
