package products

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/logiparts/logiparts-admin/internal/apiclient"
	"github.com/logiparts/logiparts-admin/internal/catalog/categories"
	"github.com/logiparts/logiparts-admin/internal/catalog/vehicles"
	internalShared "github.com/logiparts/logiparts-admin/internal/shared"
)

// Product is a catalog part with one canonical field per attribute.
type Product struct {
	ID          string
	Description string

	CostoFinal      decimal.Decimal
	CostoEstimado   decimal.Decimal
	CostoReparacion decimal.Decimal

	CantDisponible int
	CantMaxima     int
	CantMinima     int
	CantPend       int

	CodDeposito       *int
	NombreDeposito    string
	CodigoBarra       string
	CodigoImportacion string
	CodMarca          *int
	CodOrigen         *int
	EstadoRepuesto    *int

	Image      string
	IsFeatured bool
	CategoryID *string
	Category   *categories.Category
	Vehicles   []vehicles.Vehicle
	CreatedAt  time.Time
}

// SearchFields are the fields the list search term is matched against.
func SearchFields(p Product) []string {
	return []string{p.Description, p.CodigoBarra, p.CodigoImportacion, p.ID}
}

// Filters narrows a product listing server side. Zero values are not sent.
type Filters struct {
	CategoryID string
	Featured   bool
	VehicleID  string
}

// Input is the JSON body of a create without image.
type Input struct {
	Descripcion       string           `json:"descripcion"`
	CostoFinal        decimal.Decimal  `json:"costoFinal"`
	CostoEstimado     *decimal.Decimal `json:"costoEstimado,omitempty"`
	CostoReparacion   *decimal.Decimal `json:"costoReparacion,omitempty"`
	CantDisponible    int              `json:"cantDisponible"`
	CategoryID        *string          `json:"categoryId,omitempty"`
	IsFeatured        bool             `json:"isFeatured"`
	CodigoBarra       string           `json:"codigoBarra,omitempty"`
	CodigoImportacion string           `json:"codigoImportacion,omitempty"`
}

// Patch is a partial JSON update; nil fields are left untouched.
type Patch struct {
	Descripcion *string          `json:"descripcion,omitempty"`
	CostoFinal  *decimal.Decimal `json:"costoFinal,omitempty"`
	IsFeatured  *bool            `json:"isFeatured,omitempty"`
	CategoryID  *string          `json:"categoryId,omitempty"`
}

// Draft is the writable part of a product while it is being edited.
// Optional references are pointers; nil means "not set".
type Draft struct {
	Descripcion     string          `form:"descripcion" validate:"required"`
	CostoFinal      decimal.Decimal `form:"costoFinal"`
	CostoEstimado   decimal.Decimal `form:"costoEstimado"`
	CostoReparacion decimal.Decimal `form:"costoReparacion"`

	CantDisponible int `form:"cantDisponible" validate:"gte=0"`
	CantMaxima     int `form:"cantMaxima" validate:"gte=0"`
	CantMinima     int `form:"cantMinima" validate:"gte=0"`
	CantPend       int `form:"cantPend" validate:"gte=0"`

	CodDeposito       *int   `form:"codDeposito" validate:"omitempty,gte=0"`
	NombreDeposito    string `form:"nombreDeposito"`
	CodigoBarra       string `form:"codigoBarra"`
	CodigoImportacion string `form:"codigoImportacion"`
	CodMarca          *int   `form:"codMarca" validate:"omitempty,gte=0"`
	CodOrigen         *int   `form:"codOrigen" validate:"omitempty,gte=0"`
	EstadoRepuesto    *int   `form:"estadoRepuesto" validate:"omitempty,gte=0"`

	IsFeatured bool    `form:"isFeatured"`
	CategoryID *string `form:"categoryId"`
	Vehicles   Selection
}

// DraftFrom seeds a draft from a stored product.
func DraftFrom(p Product) Draft {
	d := Draft{
		Descripcion:       p.Description,
		CostoFinal:        p.CostoFinal,
		CostoEstimado:     p.CostoEstimado,
		CostoReparacion:   p.CostoReparacion,
		CantDisponible:    p.CantDisponible,
		CantMaxima:        p.CantMaxima,
		CantMinima:        p.CantMinima,
		CantPend:          p.CantPend,
		CodDeposito:       p.CodDeposito,
		NombreDeposito:    p.NombreDeposito,
		CodigoBarra:       p.CodigoBarra,
		CodigoImportacion: p.CodigoImportacion,
		CodMarca:          p.CodMarca,
		CodOrigen:         p.CodOrigen,
		EstadoRepuesto:    p.EstadoRepuesto,
		IsFeatured:        p.IsFeatured,
		CategoryID:        p.CategoryID,
		Vehicles:          SelectionFrom(p.Vehicles),
	}
	return d
}

func optText(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// Values renders the draft as input text. The vehicle selection travels
// separately as repeated vehicleIds.
func (d Draft) Values() map[string]string {
	values := map[string]string{
		"descripcion":       d.Descripcion,
		"costoFinal":        d.CostoFinal.String(),
		"costoEstimado":     d.CostoEstimado.String(),
		"costoReparacion":   d.CostoReparacion.String(),
		"cantDisponible":    strconv.Itoa(d.CantDisponible),
		"cantMaxima":        strconv.Itoa(d.CantMaxima),
		"cantMinima":        strconv.Itoa(d.CantMinima),
		"cantPend":          strconv.Itoa(d.CantPend),
		"codDeposito":       optText(d.CodDeposito),
		"nombreDeposito":    d.NombreDeposito,
		"codigoBarra":       d.CodigoBarra,
		"codigoImportacion": d.CodigoImportacion,
		"codMarca":          optText(d.CodMarca),
		"codOrigen":         optText(d.CodOrigen),
		"estadoRepuesto":    optText(d.EstadoRepuesto),
		"categoryId":        "",
		"isFeatured":        "",
	}
	if d.CategoryID != nil {
		values["categoryId"] = *d.CategoryID
	}
	if d.IsFeatured {
		values["isFeatured"] = "true"
	}
	return values
}

const msgNotNumber = "Debe ser un número"

// ParseDraft converts posted text and the posted vehicle ids into a draft.
func ParseDraft(values map[string]string, vehicleIDs []string) (Draft, error) {
	d := Draft{
		Descripcion:       strings.TrimSpace(values["descripcion"]),
		NombreDeposito:    strings.TrimSpace(values["nombreDeposito"]),
		CodigoBarra:       strings.TrimSpace(values["codigoBarra"]),
		CodigoImportacion: strings.TrimSpace(values["codigoImportacion"]),
		IsFeatured:        values["isFeatured"] == "true" || values["isFeatured"] == "on",
		Vehicles:          NewSelection(vehicleIDs...),
	}
	if id := strings.TrimSpace(values["categoryId"]); id != "" {
		d.CategoryID = &id
	}

	fields := map[string]string{}
	money := map[string]*decimal.Decimal{
		"costoFinal":      &d.CostoFinal,
		"costoEstimado":   &d.CostoEstimado,
		"costoReparacion": &d.CostoReparacion,
	}
	for name, dst := range money {
		raw := strings.TrimSpace(values[name])
		if raw == "" {
			continue
		}
		amount, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
		if err != nil {
			fields[name] = msgNotNumber
			continue
		}
		if amount.IsNegative() {
			fields[name] = "No puede ser negativo"
			continue
		}
		*dst = amount
	}

	counts := map[string]*int{
		"cantDisponible": &d.CantDisponible,
		"cantMaxima":     &d.CantMaxima,
		"cantMinima":     &d.CantMinima,
		"cantPend":       &d.CantPend,
	}
	for name, dst := range counts {
		raw := strings.TrimSpace(values[name])
		if raw == "" {
			continue
		}
		n, err := internalShared.ParseInt(raw)
		if err != nil {
			fields[name] = "Debe ser un número entero"
			continue
		}
		*dst = n
	}

	codes := map[string]**int{
		"codDeposito":    &d.CodDeposito,
		"codMarca":       &d.CodMarca,
		"codOrigen":      &d.CodOrigen,
		"estadoRepuesto": &d.EstadoRepuesto,
	}
	for name, dst := range codes {
		raw := strings.TrimSpace(values[name])
		if raw == "" {
			continue
		}
		n, err := internalShared.ParseInt(raw)
		if err != nil {
			fields[name] = "Debe ser un número entero"
			continue
		}
		*dst = &n
	}

	if len(fields) > 0 {
		return d, &internalShared.ValidationError{Fields: fields}
	}
	return d, nil
}

// Multipart serialises the draft for an image-capable write. Selected
// vehicles become one vehicleIds entry each; none selected sends none.
func (d Draft) Multipart() *apiclient.Multipart {
	form := apiclient.NewMultipart().
		Add("descripcion", d.Descripcion).
		Add("costoFinal", d.CostoFinal.String()).
		Add("costoEstimado", d.CostoEstimado.String()).
		Add("costoReparacion", d.CostoReparacion.String()).
		Add("cantDisponible", strconv.Itoa(d.CantDisponible)).
		Add("cantMaxima", strconv.Itoa(d.CantMaxima)).
		Add("cantMinima", strconv.Itoa(d.CantMinima)).
		Add("cantPend", strconv.Itoa(d.CantPend)).
		Add("isFeatured", strconv.FormatBool(d.IsFeatured)).
		AddIf("nombreDeposito", d.NombreDeposito).
		AddIf("codigoBarra", d.CodigoBarra).
		AddIf("codigoImportacion", d.CodigoImportacion).
		AddIf("codDeposito", optText(d.CodDeposito)).
		AddIf("codMarca", optText(d.CodMarca)).
		AddIf("codOrigen", optText(d.CodOrigen)).
		AddIf("estadoRepuesto", optText(d.EstadoRepuesto))
	if d.CategoryID != nil {
		form.Add("categoryId", *d.CategoryID)
	}
	for _, id := range d.Vehicles.IDs() {
		form.Add("vehicleIds", id)
	}
	return form
}

// Form is the product form state.
type Form struct {
	internalShared.FormState[Draft]
}

// NewCreateForm opens the form with defaults: zero figures, no category,
// no vehicles.
func NewCreateForm() Form {
	d := Draft{Vehicles: NewSelection()}
	return Form{internalShared.FormState[Draft]{Draft: d, Values: d.Values()}}
}

// NewEditForm opens the form seeded from p.
func NewEditForm(p Product) Form {
	d := DraftFrom(p)
	return Form{internalShared.FormState[Draft]{Draft: d, EditingID: p.ID, Values: d.Values()}}
}
