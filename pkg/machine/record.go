package machine

import (
	"errors"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/openfroyo/vendcheck/pkg/inventory"
)

// Wire field names of a machine record document.
const (
	FieldMachine   = "machine"
	FieldOutlets   = "outlets"
	FieldCount     = "count_n"
	FieldInventory = "total_items_quantity"
	FieldBeverages = "beverages"
)

// Record is one decoded machine: its stock and its beverage catalog.
type Record struct {
	// Name identifies the record, usually the input file name.
	Name string `json:"name" validate:"required" wire:"name"`

	// OutletCount is the number of dispensing outlets. Informational only.
	OutletCount int `json:"outlet_count" validate:"gte=0" wire:"machine.outlets.count_n"`

	// Inventory is the current stock.
	Inventory *inventory.Inventory `json:"inventory" validate:"required" wire:"machine.total_items_quantity"`

	// Catalog lists beverages in document order.
	Catalog inventory.Catalog `json:"beverages" validate:"required" wire:"machine.beverages"`
}

// Format is the encoding of a record document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the format from a file name. Anything that is not a YAML
// extension is treated as JSON.
func FormatFor(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// IsRecordFile reports whether the name has an extension Decode understands.
func IsRecordFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

var recordValidator = newRecordValidator()

func newRecordValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("wire"); name != "" {
			return name
		}
		return fld.Name
	})
	return v
}

// Decode parses a machine record. The format is chosen from the name's
// extension. Missing or malformed sections yield a *StructuralError.
func Decode(name string, data []byte) (*Record, error) {
	var (
		rec *Record
		err error
	)
	switch FormatFor(name) {
	case FormatYAML:
		rec, err = decodeYAML(data)
	default:
		rec, err = decodeJSON(data)
	}
	if err != nil {
		return nil, withSource(err, name)
	}

	rec.Name = name
	if err := rec.Validate(); err != nil {
		return nil, withSource(err, name)
	}
	return rec, nil
}

// Validate checks that the record has every section evaluation needs.
func (r *Record) Validate() error {
	err := recordValidator.Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return structural(fe.Field(), "required field is missing")
		default:
			return structural(fe.Field(), "failed %s=%s check", fe.Tag(), fe.Param())
		}
	}
	return &StructuralError{Message: "invalid record", Err: err}
}

func withSource(err error, source string) error {
	var se *StructuralError
	if errors.As(err, &se) && se.Source == "" {
		se.Source = source
	}
	return err
}
