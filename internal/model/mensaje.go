package model

import (
	"time"
)

type Mensaje struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Contenido      string     `gorm:"type:text;not null" json:"contenido"`
	FechaCreacion  time.Time  `gorm:"autoCreateTime" json:"fecha_creacion"`
	FechaEdicion   *time.Time `json:"fecha_edicion,omitempty"`
	Editado        bool       `gorm:"default:false" json:"editado"`
	NumeroMeGusta  int        `gorm:"default:0" json:"numero_me_gusta"`
	Oculto         bool       `gorm:"default:false" json:"oculto"`
	RazonOculto    *string    `gorm:"size:500" json:"razon_oculto,omitempty"`
	TemaID         uint       `gorm:"not null;index" json:"tema_id"`
	Tema           Tema       `gorm:"constraint:OnDelete:CASCADE" json:"tema,omitempty"`
	UsuarioID      uint       `gorm:"not null;index" json:"usuario_id"`
	Usuario        Usuario    `gorm:"constraint:OnDelete:RESTRICT" json:"usuario,omitempty"`
	MensajePadreID *uint      `gorm:"index" json:"mensaje_padre_id,omitempty"`
	MensajePadre   *Mensaje   `gorm:"foreignKey:MensajePadreID;constraint:OnDelete:RESTRICT" json:"mensaje_padre,omitempty"`
	Respuestas     []Mensaje  `gorm:"foreignKey:MensajePadreID" json:"respuestas,omitempty"`
}
