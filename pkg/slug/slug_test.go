package slug

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerivar(t *testing.T) {
	tests := []struct {
		name   string
		titulo string
		want   string
	}{
		{"titulo con acentos", "Título de Prueba", "titulo-de-prueba"},
		{"espacios y simbolos", "  Hello   World!!  ", "hello-world"},
		{"vacio", "", ""},
		{"solo espacios", "   ", ""},
		{"solo simbolos", "!!!***", ""},
		{"enie", "Año de diseño", "ano-de-diseno"},
		{"dieresis", "pingüino", "pinguino"},
		{"guiones multiples", "uno -- dos --- tres", "uno-dos-tres"},
		{"guiones en los bordes", "-foo-", "-foo-"},
		{"guion inicial", "-- borrador importante", "-borrador-importante"},
		{"numeros", "Top 10 frameworks 2024", "top-10-frameworks-2024"},
		{"mayusculas", "ASP.NET Core", "aspnet-core"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Derivar(tt.titulo))
		})
	}
}

func TestDerivarTrunca(t *testing.T) {
	largo := strings.Repeat("palabra ", 40)
	got := Derivar(largo)

	assert.LessOrEqual(t, len(got), 100)
	assert.False(t, strings.HasSuffix(got, "-"), "la truncación no debe dejar guion final")
}

func TestDerivarIdempotente(t *testing.T) {
	entradas := []string{
		"Título de Prueba",
		"  Hello   World!!  ",
		"Año de diseño",
		"-foo-",
		"",
		strings.Repeat("río ", 50),
	}

	for _, in := range entradas {
		una := Derivar(in)
		assert.Equal(t, una, Derivar(una), "Derivar(Derivar(%q))", in)
	}
}
