package products

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logiparts/logiparts-admin/internal/catalog/vehicles"
	internalShared "github.com/logiparts/logiparts-admin/internal/shared"
)

func TestSelectionSetSemantics(t *testing.T) {
	s := NewSelection("v2", "v1", "v2", "")
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"v1", "v2"}, s.IDs())

	s.Toggle("v3")
	assert.True(t, s.Has("v3"))
	s.Toggle("v3")
	assert.False(t, s.Has("v3"))
	assert.Equal(t, []string{"v1", "v2"}, s.IDs())

	var zero Selection
	zero.Toggle("v9")
	assert.Equal(t, []string{"v9"}, zero.IDs())
}

func TestSelectionFromProductVehicles(t *testing.T) {
	s := SelectionFrom([]vehicles.Vehicle{{ID: "b"}, {ID: "a"}})
	assert.Equal(t, []string{"a", "b"}, s.IDs())
	assert.Equal(t, 0, SelectionFrom(nil).Len())
}

func TestCreateFormDefaults(t *testing.T) {
	form := NewCreateForm()
	assert.False(t, form.Editing())
	assert.True(t, form.Draft.CostoFinal.IsZero())
	assert.Nil(t, form.Draft.CategoryID)
	assert.Equal(t, 0, form.Draft.Vehicles.Len())
	assert.Equal(t, "0", form.Value("cantDisponible"))
}

func TestEditFormSeedsFromProduct(t *testing.T) {
	cat := "c1"
	code := 7
	p := Product{
		ID:          "p1",
		Description: "Filtro",
		CostoFinal:  decimal.RequireFromString("1500.5"),
		CategoryID:  &cat,
		CodMarca:    &code,
		Vehicles:    []vehicles.Vehicle{{ID: "v1"}},
	}
	form := NewEditForm(p)
	assert.True(t, form.Editing())
	assert.Equal(t, "1500.5", form.Value("costoFinal"))
	assert.Equal(t, "c1", form.Value("categoryId"))
	assert.Equal(t, "7", form.Value("codMarca"))
	assert.Equal(t, "", form.Value("codOrigen"))
	assert.True(t, form.Draft.Vehicles.Has("v1"))
}

func TestParseDraftConvertsText(t *testing.T) {
	d, err := ParseDraft(map[string]string{
		"descripcion":    " Amortiguador ",
		"costoFinal":     "250000,75",
		"cantDisponible": "012",
		"codDeposito":    "3",
		"categoryId":     "c2",
		"isFeatured":     "on",
	}, []string{"v2", "v1", "v2"})
	require.NoError(t, err)
	assert.Equal(t, "Amortiguador", d.Descripcion)
	assert.Equal(t, "250000.75", d.CostoFinal.String())
	assert.Equal(t, 12, d.CantDisponible)
	require.NotNil(t, d.CodDeposito)
	assert.Equal(t, 3, *d.CodDeposito)
	assert.Nil(t, d.CodMarca)
	assert.Equal(t, "c2", *d.CategoryID)
	assert.True(t, d.IsFeatured)
	assert.Equal(t, []string{"v1", "v2"}, d.Vehicles.IDs())
}

func TestParseDraftReportsEveryBadField(t *testing.T) {
	d, err := ParseDraft(map[string]string{
		"descripcion":    "Bujía",
		"costoFinal":     "mucho",
		"costoEstimado":  "-1",
		"cantDisponible": "1.5",
		"codOrigen":      "x",
	}, []string{"v1"})
	var verr *internalShared.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 4)
	assert.Equal(t, "No puede ser negativo", verr.Fields["costoEstimado"])
	assert.True(t, d.Vehicles.Has("v1"), "selection survives a parse failure")
}

func TestValidateDraftRequiresDescription(t *testing.T) {
	err := internalShared.ValidateDraft(Draft{CantDisponible: -1})
	var verr *internalShared.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Campo obligatorio", verr.Fields["descripcion"])
	assert.Contains(t, verr.Fields, "cantDisponible")
}

func TestMultipartRepeatsVehicleIDs(t *testing.T) {
	d := Draft{Descripcion: "Faro", CostoFinal: decimal.NewFromInt(10), Vehicles: NewSelection("v2", "v1")}
	form := d.Multipart()
	assert.Equal(t, []string{"v1", "v2"}, form.Values("vehicleIds"))
	assert.Equal(t, []string{"10"}, form.Values("costoFinal"))
	assert.Empty(t, form.Values("categoryId"))
	assert.Empty(t, form.Values("codigoBarra"))

	d.Vehicles = NewSelection()
	assert.Empty(t, d.Multipart().Values("vehicleIds"))
}

func TestFiltersQueryOmitsUnset(t *testing.T) {
	assert.Equal(t, "", Filters{}.Query().Encode())
	assert.Equal(t, "categoryId=c1&featured=true&vehicleId=v1",
		Filters{CategoryID: "c1", Featured: true, VehicleID: "v1"}.Query().Encode())
}
