package products

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCanonicalNames(t *testing.T) {
	raw := `{
		"id": "p1",
		"descripcion": "Pastilla de freno",
		"costoFinal": 150000,
		"costoEstimado": "120000.50",
		"cantDisponible": 4,
		"codigoBarra": "7790001",
		"image": "products/p1.png",
		"isFeatured": true,
		"categoryId": "c1",
		"vehicles": [{"id": "v1", "anio": 2015, "nombreMarca": "Toyota"}],
		"createdAt": "2024-03-01T10:00:00Z"
	}`
	var p Product
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	assert.Equal(t, "Pastilla de freno", p.Description)
	assert.True(t, decimal.NewFromInt(150000).Equal(p.CostoFinal))
	assert.Equal(t, "120000.5", p.CostoEstimado.String())
	assert.Equal(t, 4, p.CantDisponible)
	assert.Equal(t, "products/p1.png", p.Image)
	require.NotNil(t, p.CategoryID)
	assert.Equal(t, "c1", *p.CategoryID)
	require.Len(t, p.Vehicles, 1)
	assert.Equal(t, "Toyota", p.Vehicles[0].NombreMarca)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), p.CreatedAt.UTC())
}

func TestDecodeAliases(t *testing.T) {
	raw := `[
		{"id": "a", "name": "Por nombre", "price": 10, "image_url": "a.png", "category_id": "c9", "created_at": "2024-01-02T00:00:00Z"},
		{"id": "b", "title": "Por título"},
		{"id": "c", "description": "Por descripción"},
		{"id": "d", "descripcion": "", "name": "Descripción vacía cae al alias"},
		{"id": "e", "category": {"id": "c3", "name": "Faros", "slug": "faros"}}
	]`
	var items []Product
	require.NoError(t, json.Unmarshal([]byte(raw), &items))

	assert.Equal(t, "Por nombre", items[0].Description)
	assert.Equal(t, "10", items[0].CostoFinal.String())
	assert.Equal(t, "a.png", items[0].Image)
	assert.Equal(t, "c9", *items[0].CategoryID)
	assert.Equal(t, 2024, items[0].CreatedAt.Year())

	assert.Equal(t, "Por título", items[1].Description)
	assert.Nil(t, items[1].CategoryID)
	assert.True(t, items[1].CreatedAt.IsZero())

	assert.Equal(t, "Por descripción", items[2].Description)
	assert.Equal(t, "Descripción vacía cae al alias", items[3].Description)

	require.NotNil(t, items[4].CategoryID)
	assert.Equal(t, "c3", *items[4].CategoryID)
	assert.Equal(t, "Faros", items[4].Category.Name)
}

func TestCostoFinalWinsOverPrice(t *testing.T) {
	var p Product
	require.NoError(t, json.Unmarshal([]byte(`{"id":"x","price":1,"costoFinal":2}`), &p))
	assert.Equal(t, "2", p.CostoFinal.String())
}
