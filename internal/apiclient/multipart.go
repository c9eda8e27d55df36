package apiclient

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// File is a binary attachment carried by a Multipart body.
type File struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

type formField struct {
	name  string
	value string
}

// Multipart is an ordered multipart/form-data body. Fields keep insertion
// order and may repeat.
type Multipart struct {
	fields []formField
	files  []File
}

// NewMultipart returns an empty body.
func NewMultipart() *Multipart {
	return &Multipart{}
}

// Add appends a text field.
func (m *Multipart) Add(name, value string) *Multipart {
	m.fields = append(m.fields, formField{name: name, value: value})
	return m
}

// AddIf appends a text field only when value is non-empty.
func (m *Multipart) AddIf(name, value string) *Multipart {
	if value == "" {
		return m
	}
	return m.Add(name, value)
}

// AddFile appends a file part.
func (m *Multipart) AddFile(f File) *Multipart {
	m.files = append(m.files, f)
	return m
}

// Values returns every value recorded for name, in order.
func (m *Multipart) Values(name string) []string {
	var out []string
	for _, f := range m.fields {
		if f.name == name {
			out = append(out, f.value)
		}
	}
	return out
}

// Files returns the attached files.
func (m *Multipart) Files() []File {
	return m.files
}

// Encode renders the body and returns it with its boundary content type.
func (m *Multipart) Encode() (io.Reader, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, f := range m.fields {
		if err := writer.WriteField(f.name, f.value); err != nil {
			return nil, "", err
		}
	}
	for _, f := range m.files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(f.Field), quoteEscaper.Replace(f.Filename)))
		contentType := f.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)
		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}
