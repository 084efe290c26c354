package model

import (
	"time"
)

const (
	RolAdministrador = "Administrador"
	RolModerador     = "Moderador"
	RolUsuario       = "Usuario"
)

type Usuario struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Nombre        string     `gorm:"size:100;not null" json:"nombre"`
	Email         string     `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash  string     `gorm:"size:255;not null" json:"-"`
	Activo        bool       `gorm:"default:true" json:"activo"`
	FechaRegistro time.Time  `gorm:"autoCreateTime" json:"fecha_registro"`
	UltimoAcceso  *time.Time `json:"ultimo_acceso,omitempty"`
	Rol           string     `gorm:"size:50;not null;default:Usuario" json:"rol"`
	Temas         []Tema     `gorm:"foreignKey:UsuarioID" json:"temas,omitempty"`
	Mensajes      []Mensaje  `gorm:"foreignKey:UsuarioID" json:"mensajes,omitempty"`
}
