package view

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/logiparts/logiparts-admin/internal/apiclient"
	"github.com/logiparts/logiparts-admin/internal/shared"
	"github.com/logiparts/logiparts-admin/web"
)

// Engine renders HTML templates.
type Engine struct {
	templates *template.Template
}

// TemplateData contains values shared across templates.
type TemplateData struct {
	Title         string
	CSRFToken     string
	Flash         *shared.FlashMessage
	CurrentPath   string
	Authenticated bool
	Data          any
}

// NewEngine parses the embedded templates. uploadsBase is where relative
// image references resolve.
func NewEngine(uploadsBase string) (*Engine, error) {
	funcMap := template.FuncMap{
		"imageURL": func(path string) string {
			return apiclient.UploadsURL(uploadsBase, path)
		},
		"formatPrice": FormatPrice,
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("02/01/2006 15:04")
		},
		"optInt": func(v *int) string {
			if v == nil {
				return "—"
			}
			return strconv.Itoa(*v)
		},
		"hasPrefix": strings.HasPrefix,
	}
	tpl, err := template.New("root").Funcs(funcMap).ParseFS(web.Templates, "templates/layouts/*.html", "templates/partials/*.html", "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	return &Engine{templates: tpl}, nil
}

// Render executes a named template with TemplateData.
func (e *Engine) Render(w http.ResponseWriter, name string, data TemplateData) error {
	return e.RenderStatus(w, http.StatusOK, name, data)
}

// RenderStatus executes name into a buffer and writes it with status, so a
// template failure never leaves a half-written page.
func (e *Engine) RenderStatus(w http.ResponseWriter, status int, name string, data TemplateData) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}
	var buf bytes.Buffer
	if err := e.templates.ExecuteTemplate(&buf, name, data); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// FormatPrice renders an amount in guaraníes the way the storefront does:
// dot thousands, comma decimals, at most three fraction digits.
func FormatPrice(amount decimal.Decimal) string {
	rounded := amount.Round(3)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}
	text := rounded.String()
	intPart, fracPart, _ := strings.Cut(text, ".")
	fracPart = strings.TrimRight(fracPart, "0")

	var grouped strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(r)
	}
	out := sign + grouped.String()
	if fracPart != "" {
		out += "," + fracPart
	}
	return out + " Gs"
}
