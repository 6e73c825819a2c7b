package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"reflect"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Upload is a file picked by the user for a multipart mutation.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// Form collects multipart fields and files. Nil values are skipped so only defined fields are sent.
type Form struct {
	fields []formField
	files  []formFile
	err    error
}

type formField struct {
	name  string
	value string
}

type formFile struct {
	field  string
	upload Upload
}

func NewForm() *Form {
	return &Form{}
}

// Field appends name=v. Strings go as-is, numbers and bools are formatted, anything else is JSON-encoded.
func (f *Form) Field(name string, v any) *Form {
	if f.err != nil {
		return f
	}
	s, ok, err := formValue(v)
	if err != nil {
		f.err = fmt.Errorf("form field %s: %w", name, err)
		return f
	}
	if ok {
		f.fields = append(f.fields, formField{name: name, value: s})
	}
	return f
}

// File appends an upload under field; the same field may carry many files.
func (f *Form) File(field string, u Upload) *Form {
	if u.Reader == nil {
		return f
	}
	f.files = append(f.files, formFile{field: field, upload: u})
	return f
}

func (f *Form) Len() int {
	return len(f.fields) + len(f.files)
}

// Encode returns the multipart body and its Content-Type.
func (f *Form) Encode() (io.Reader, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, fld := range f.fields {
		if err := w.WriteField(fld.name, fld.value); err != nil {
			return nil, "", err
		}
	}

	for _, ff := range f.files {
		ct := ff.upload.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(ff.field), quoteEscaper.Replace(ff.upload.Filename)))
		h.Set("Content-Type", ct)

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, ff.upload.Reader); err != nil {
			return nil, "", fmt.Errorf("copy %s: %w", ff.upload.Filename, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func formValue(v any) (string, bool, error) {
	if v == nil {
		return "", false, nil
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", false, nil
		}
		rv = rv.Elem()
	}
	if (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Map) && rv.IsNil() {
		return "", false, nil
	}

	switch x := rv.Interface().(type) {
	case string:
		return x, true, nil
	case decimal.Decimal:
		return x.String(), true, nil
	case bool:
		return strconv.FormatBool(x), true, nil
	case int:
		return strconv.Itoa(x), true, nil
	case int64:
		return strconv.FormatInt(x, 10), true, nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true, nil
	}

	b, err := json.Marshal(rv.Interface())
	if err != nil {
		return "", false, err
	}
	return string(b), true, nil
}
