package categories

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Faros, Parrillas", "faros-parrillas"},
		{"Ítem  Núm. 1", "item-num-1"},
		{"Frenos", "frenos"},
		{"Suspensión y Dirección", "suspension-y-direccion"},
		{"Caño de Escape ñandú", "cano-de-escape-nandu"},
		{"  bordes  ", "-bordes-"},
		{"Faros\u00a0Parrillas", "faros-parrillas"},
		{"Luz\u2003Trasera", "luz-trasera"},
		{"Caja\u3000\u00a0Cambios", "caja-cambios"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.in), tc.in)
	}
}

func TestSlugifyOnlyEmitsSlugCharacters(t *testing.T) {
	valid := regexp.MustCompile(`^[a-z0-9-]*$`)
	for _, in := range []string{"Ä€ß 100%!", "Ünïcödé\tTabs\nNew", "ОПТИКА 2024", "a/b\\c?d"} {
		assert.Regexp(t, valid, Slugify(in), in)
	}
}

func TestChangeNameDerivesSlugOnlyWhenCreating(t *testing.T) {
	create := NewCreateForm()
	create.ChangeName("Faros, Parrillas")
	assert.Equal(t, "faros-parrillas", create.Draft.Slug)
	assert.Equal(t, "faros-parrillas", create.Value("slug"))

	stored := Category{ID: "c1", Name: "Faros", Slug: "faros-clasicos"}
	edit := NewEditForm(stored)
	edit.ChangeName("Faros, Parrillas")
	edit.ChangeName("Otra cosa")
	assert.Equal(t, "Otra cosa", edit.Draft.Name)
	assert.Equal(t, "faros-clasicos", edit.Draft.Slug)
}

func TestDraftValuesRoundTrip(t *testing.T) {
	line := 42
	desc := "Ópticas"
	draft := DraftFrom(Category{Name: "Faros", Slug: "faros", Description: &desc, CodLinea: &line})
	parsed, err := ParseDraft(draft.Values())
	assert.NoError(t, err)
	assert.Equal(t, draft, parsed)

	_, err = ParseDraft(map[string]string{"name": "x", "slug": "x", "codLinea": "doce"})
	assert.Error(t, err)
}
