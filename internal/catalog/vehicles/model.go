package vehicles

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	internalShared "github.com/logiparts/logiparts-admin/internal/shared"
)

// Vehicle is a vehicle that parts can be compatible with.
type Vehicle struct {
	ID           string `json:"id"`
	Anio         int    `json:"anio"`
	NombreTipo   string `json:"nombreTipo"`
	NombreMarca  string `json:"nombreMarca"`
	NombreModelo string `json:"nombreModelo"`
	CodTipo      *int   `json:"codTipo"`
	CodModelo    *int   `json:"codModelo"`
	CodOrigen    *int   `json:"codOrigen"`
}

// Label is the one-line description used in selectors.
func (v Vehicle) Label() string {
	return fmt.Sprintf("%s %s %d (%s)", v.NombreMarca, v.NombreModelo, v.Anio, v.NombreTipo)
}

// SearchFields are the fields the list search term is matched against.
func SearchFields(v Vehicle) []string {
	return []string{v.NombreMarca, v.NombreModelo, strconv.Itoa(v.Anio), v.NombreTipo}
}

// Filters narrows a vehicle listing server side.
type Filters struct {
	Brand string
	Type  string
}

// Input is the JSON body of a create.
type Input struct {
	Anio         int    `json:"anio"`
	NombreTipo   string `json:"nombreTipo"`
	NombreMarca  string `json:"nombreMarca"`
	NombreModelo string `json:"nombreModelo"`
	CodTipo      *int   `json:"codTipo,omitempty"`
	CodModelo    *int   `json:"codModelo,omitempty"`
	CodOrigen    *int   `json:"codOrigen,omitempty"`
}

// Patch is a partial update; nil fields are left untouched.
type Patch struct {
	Anio         *int    `json:"anio,omitempty"`
	NombreTipo   *string `json:"nombreTipo,omitempty"`
	NombreMarca  *string `json:"nombreMarca,omitempty"`
	NombreModelo *string `json:"nombreModelo,omitempty"`
	CodTipo      *int    `json:"codTipo,omitempty"`
	CodModelo    *int    `json:"codModelo,omitempty"`
	CodOrigen    *int    `json:"codOrigen,omitempty"`
}

// Draft is the writable part of a vehicle while it is being edited.
type Draft struct {
	Anio         int    `form:"anio" validate:"gte=1900,lte=2100"`
	NombreTipo   string `form:"nombreTipo" validate:"required"`
	NombreMarca  string `form:"nombreMarca" validate:"required"`
	NombreModelo string `form:"nombreModelo" validate:"required"`
	CodTipo      *int   `form:"codTipo" validate:"omitempty,gte=0"`
	CodModelo    *int   `form:"codModelo" validate:"omitempty,gte=0"`
	CodOrigen    *int   `form:"codOrigen" validate:"omitempty,gte=0"`
}

// NewDraft returns the defaults of a new vehicle: the current model year.
func NewDraft(now time.Time) Draft {
	return Draft{Anio: now.Year()}
}

// DraftFrom seeds a draft from a stored vehicle.
func DraftFrom(v Vehicle) Draft {
	return Draft{
		Anio:         v.Anio,
		NombreTipo:   v.NombreTipo,
		NombreMarca:  v.NombreMarca,
		NombreModelo: v.NombreModelo,
		CodTipo:      v.CodTipo,
		CodModelo:    v.CodModelo,
		CodOrigen:    v.CodOrigen,
	}
}

func optText(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// Values renders the draft as input text.
func (d Draft) Values() map[string]string {
	return map[string]string{
		"anio":         strconv.Itoa(d.Anio),
		"nombreTipo":   d.NombreTipo,
		"nombreMarca":  d.NombreMarca,
		"nombreModelo": d.NombreModelo,
		"codTipo":      optText(d.CodTipo),
		"codModelo":    optText(d.CodModelo),
		"codOrigen":    optText(d.CodOrigen),
	}
}

// ParseDraft converts posted text back into a draft.
func ParseDraft(values map[string]string) (Draft, error) {
	d := Draft{
		NombreTipo:   strings.TrimSpace(values["nombreTipo"]),
		NombreMarca:  strings.TrimSpace(values["nombreMarca"]),
		NombreModelo: strings.TrimSpace(values["nombreModelo"]),
	}
	fields := map[string]string{}
	if n, err := internalShared.ParseInt(strings.TrimSpace(values["anio"])); err == nil {
		d.Anio = n
	} else {
		fields["anio"] = "Debe ser un número entero"
	}
	for name, dst := range map[string]**int{"codTipo": &d.CodTipo, "codModelo": &d.CodModelo, "codOrigen": &d.CodOrigen} {
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

// Input converts a draft to a create body.
func (d Draft) Input() Input {
	return Input{
		Anio:         d.Anio,
		NombreTipo:   d.NombreTipo,
		NombreMarca:  d.NombreMarca,
		NombreModelo: d.NombreModelo,
		CodTipo:      d.CodTipo,
		CodModelo:    d.CodModelo,
		CodOrigen:    d.CodOrigen,
	}
}

// Patch converts a draft to an update carrying every field of the form.
func (d Draft) Patch() Patch {
	return Patch{
		Anio:         &d.Anio,
		NombreTipo:   &d.NombreTipo,
		NombreMarca:  &d.NombreMarca,
		NombreModelo: &d.NombreModelo,
		CodTipo:      d.CodTipo,
		CodModelo:    d.CodModelo,
		CodOrigen:    d.CodOrigen,
	}
}

// Form is the vehicle form state.
type Form struct {
	internalShared.FormState[Draft]
}

// NewCreateForm opens the form with defaults.
func NewCreateForm(now time.Time) Form {
	d := NewDraft(now)
	return Form{internalShared.FormState[Draft]{Draft: d, Values: d.Values()}}
}

// NewEditForm opens the form seeded from v.
func NewEditForm(v Vehicle) Form {
	d := DraftFrom(v)
	return Form{internalShared.FormState[Draft]{Draft: d, EditingID: v.ID, Values: d.Values()}}
}
