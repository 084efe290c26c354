package model

import (
	"time"
)

// Tema es un hilo de discusión. Un tema completamente creado siempre tiene al
// menos un mensaje (su mensaje de apertura); esa pareja se inserta en una sola
// transacción y nunca debe existir a medias.
type Tema struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	Titulo               string    `gorm:"size:200;not null" json:"titulo"`
	Contenido            string    `gorm:"type:text;not null" json:"contenido"`
	Slug                 string    `gorm:"size:250;not null;index" json:"slug"`
	NumeroVistas         int       `gorm:"default:0" json:"numero_vistas"`
	Cerrado              bool      `gorm:"default:false" json:"cerrado"`
	Fijado               bool      `gorm:"default:false" json:"fijado"`
	FechaCreacion        time.Time `gorm:"autoCreateTime" json:"fecha_creacion"`
	FechaUltimaActividad time.Time `gorm:"not null" json:"fecha_ultima_actividad"`
	CategoriaID          uint      `gorm:"not null;index" json:"categoria_id"`
	Categoria            Categoria `gorm:"constraint:OnDelete:RESTRICT" json:"categoria,omitempty"`
	UsuarioID            uint      `gorm:"not null;index" json:"usuario_id"`
	Usuario              Usuario   `gorm:"constraint:OnDelete:RESTRICT" json:"usuario,omitempty"`
	Mensajes             []Mensaje `gorm:"foreignKey:TemaID;constraint:OnDelete:CASCADE" json:"mensajes,omitempty"`
}
