package categories

import (
	"strconv"
	"strings"
	"time"

	"github.com/logiparts/logiparts-admin/internal/apiclient"
	internalShared "github.com/logiparts/logiparts-admin/internal/shared"
)

// Category is a product category as stored by the catalog API.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	ImageURL    *string   `json:"imageUrl"`
	CodLinea    *int      `json:"codLinea"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Image returns the stored image reference or "".
func (c Category) Image() string {
	if c.ImageURL == nil {
		return ""
	}
	return *c.ImageURL
}

// CreateInput is the JSON body of a create without image.
type CreateInput struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description,omitempty"`
	CodLinea    *int    `json:"codLinea,omitempty"`
}

// UpdateInput is a partial JSON update; nil fields are left untouched.
type UpdateInput struct {
	Name        *string `json:"name,omitempty"`
	Slug        *string `json:"slug,omitempty"`
	Description *string `json:"description,omitempty"`
	CodLinea    *int    `json:"codLinea,omitempty"`
}

// Draft is the writable part of a category while it is being edited.
type Draft struct {
	Name        string `form:"name" validate:"required"`
	Slug        string `form:"slug" validate:"required,slug"`
	Description string `form:"description"`
	CodLinea    *int   `form:"codLinea" validate:"omitempty,gte=0"`
}

// DraftFrom seeds a draft from a stored category.
func DraftFrom(c Category) Draft {
	d := Draft{Name: c.Name, Slug: c.Slug, CodLinea: c.CodLinea}
	if c.Description != nil {
		d.Description = *c.Description
	}
	return d
}

// Values renders the draft as input text.
func (d Draft) Values() map[string]string {
	values := map[string]string{
		"name":        d.Name,
		"slug":        d.Slug,
		"description": d.Description,
		"codLinea":    "",
	}
	if d.CodLinea != nil {
		values["codLinea"] = strconv.Itoa(*d.CodLinea)
	}
	return values
}

// ParseDraft converts posted text back into a draft.
func ParseDraft(values map[string]string) (Draft, error) {
	d := Draft{
		Name:        strings.TrimSpace(values["name"]),
		Slug:        strings.TrimSpace(values["slug"]),
		Description: strings.TrimSpace(values["description"]),
	}
	if raw := strings.TrimSpace(values["codLinea"]); raw != "" {
		n, err := internalShared.ParseInt(raw)
		if err != nil {
			return d, &internalShared.ValidationError{Fields: map[string]string{"codLinea": "Debe ser un número entero"}}
		}
		d.CodLinea = &n
	}
	return d, nil
}

// Multipart serialises the draft for an image-capable write.
func (d Draft) Multipart() *apiclient.Multipart {
	form := apiclient.NewMultipart().
		Add("name", d.Name).
		Add("slug", d.Slug).
		AddIf("description", d.Description)
	if d.CodLinea != nil {
		form.Add("codLinea", strconv.Itoa(*d.CodLinea))
	}
	return form
}

// Form is the category form state.
type Form struct {
	internalShared.FormState[Draft]
}

// NewCreateForm opens the form with defaults.
func NewCreateForm() Form {
	d := Draft{}
	return Form{internalShared.FormState[Draft]{Draft: d, Values: d.Values()}}
}

// NewEditForm opens the form seeded from c.
func NewEditForm(c Category) Form {
	d := DraftFrom(c)
	return Form{internalShared.FormState[Draft]{Draft: d, EditingID: c.ID, Values: d.Values()}}
}

// ChangeName updates the name. In create mode the slug follows the name;
// in edit mode the stored slug is kept so existing links keep working.
func (f *Form) ChangeName(name string) {
	f.Draft.Name = name
	if !f.Editing() {
		f.Draft.Slug = Slugify(name)
	}
	f.Values = f.Draft.Values()
}
