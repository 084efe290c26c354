package bootstrap

import (
	"log"

	"github.com/forosuite/foro/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Usuario{},
		&model.Categoria{},
		&model.Tema{},
		&model.Mensaje{},
	)
}

func SeedCategorias(db *gorm.DB) error {
	categorias := []model.Categoria{
		{Nombre: "Anuncios", Descripcion: "Anuncios oficiales y noticias importantes del foro", Slug: "anuncios", Orden: 1, Activa: true},
		{Nombre: "General", Descripcion: "Discusiones generales sobre diversos temas", Slug: "general", Orden: 2, Activa: true},
		{Nombre: "Programacion", Descripcion: "Discusiones sobre desarrollo de software, lenguajes y frameworks", Slug: "programacion", Orden: 3, Activa: true},
		{Nombre: "Bases de Datos", Descripcion: "SQL Server, PostgreSQL, MongoDB y otros sistemas de bases de datos", Slug: "bases-datos", Orden: 4, Activa: true},
		{Nombre: "Arquitectura de Software", Descripcion: "Patrones de diseno, Clean Architecture, DDD y mejores practicas", Slug: "arquitectura-software", Orden: 5, Activa: true},
		{Nombre: "Ayuda y Soporte", Descripcion: "Necesitas ayuda? Pregunta aqui y la comunidad te ayudara", Slug: "ayuda-soporte", Orden: 6, Activa: true},
		{Nombre: "Off-Topic", Descripcion: "Temas fuera del ambito tecnico, charlas casuales", Slug: "off-topic", Orden: 7, Activa: true},
	}

	for _, categoria := range categorias {
		var count int64
		if err := db.Model(&model.Categoria{}).
			Where("nombre = ?", categoria.Nombre).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			if err := db.Create(&categoria).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

func SeedAdminUsuario(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Usuario{}).
		Where("email = ?", "admin@foro.local").
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Admin user already exists, skipping seed")
		return nil
	}

	password := "admin123"
	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := model.Usuario{
		Nombre:       "Administrador del Sistema",
		Email:        "admin@foro.local",
		PasswordHash: string(hashedPasswordBytes),
		Activo:       true,
		Rol:          model.RolAdministrador,
	}

	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Println("✅ Admin user seeded successfully")
	log.Println("   Email: admin@foro.local")
	log.Println("   Password: admin123")

	return nil
}
