package products

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/logiparts/logiparts-admin/internal/catalog/categories"
	"github.com/logiparts/logiparts-admin/internal/catalog/vehicles"
)

// wireProduct mirrors the API payload, where several fields arrive under
// more than one name depending on the backend version.
type wireProduct struct {
	ID string `json:"id"`

	Descripcion *string `json:"descripcion"`
	Name        *string `json:"name"`
	Title       *string `json:"title"`
	Description *string `json:"description"`

	CostoFinal      *decimal.Decimal `json:"costoFinal"`
	Price           *decimal.Decimal `json:"price"`
	CostoEstimado   decimal.Decimal  `json:"costoEstimado"`
	CostoReparacion decimal.Decimal  `json:"costoReparacion"`

	CantDisponible int `json:"cantDisponible"`
	CantMaxima     int `json:"cantMaxima"`
	CantMinima     int `json:"cantMinima"`
	CantPend       int `json:"cantPend"`

	CodDeposito       *int    `json:"codDeposito"`
	NombreDeposito    *string `json:"nombreDeposito"`
	CodigoBarra       *string `json:"codigoBarra"`
	CodigoImportacion *string `json:"codigoImportacion"`
	CodMarca          *int    `json:"codMarca"`
	CodOrigen         *int    `json:"codOrigen"`
	EstadoRepuesto    *int    `json:"estadoRepuesto"`

	Image    *string `json:"image"`
	ImageURL *string `json:"image_url"`

	IsFeatured bool `json:"isFeatured"`

	CategoryID      *string              `json:"categoryId"`
	CategoryIDSnake *string              `json:"category_id"`
	Category        *categories.Category `json:"category"`
	Vehicles        []vehicles.Vehicle   `json:"vehicles"`

	CreatedAt      *time.Time `json:"createdAt"`
	CreatedAtSnake *time.Time `json:"created_at"`
}

func firstString(candidates ...*string) string {
	for _, c := range candidates {
		if c != nil && *c != "" {
			return *c
		}
	}
	return ""
}

func firstPtr[T any](candidates ...*T) *T {
	for _, c := range candidates {
		if c != nil {
			return c
		}
	}
	return nil
}

// toProduct collapses every alias into one canonical field.
func (w wireProduct) toProduct() Product {
	p := Product{
		ID:                w.ID,
		Description:       firstString(w.Descripcion, w.Name, w.Title, w.Description),
		CostoEstimado:     w.CostoEstimado,
		CostoReparacion:   w.CostoReparacion,
		CantDisponible:    w.CantDisponible,
		CantMaxima:        w.CantMaxima,
		CantMinima:        w.CantMinima,
		CantPend:          w.CantPend,
		CodDeposito:       w.CodDeposito,
		NombreDeposito:    firstString(w.NombreDeposito),
		CodigoBarra:       firstString(w.CodigoBarra),
		CodigoImportacion: firstString(w.CodigoImportacion),
		CodMarca:          w.CodMarca,
		CodOrigen:         w.CodOrigen,
		EstadoRepuesto:    w.EstadoRepuesto,
		Image:             firstString(w.Image, w.ImageURL),
		IsFeatured:        w.IsFeatured,
		Category:          w.Category,
		Vehicles:          w.Vehicles,
	}
	if price := firstPtr(w.CostoFinal, w.Price); price != nil {
		p.CostoFinal = *price
	}
	if id := firstString(w.CategoryID, w.CategoryIDSnake); id != "" {
		p.CategoryID = &id
	} else if w.Category != nil && w.Category.ID != "" {
		id := w.Category.ID
		p.CategoryID = &id
	}
	if created := firstPtr(w.CreatedAt, w.CreatedAtSnake); created != nil {
		p.CreatedAt = *created
	}
	return p
}

// UnmarshalJSON decodes any accepted wire shape into the canonical product.
func (p *Product) UnmarshalJSON(data []byte) error {
	var w wireProduct
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*p = w.toProduct()
	return nil
}
