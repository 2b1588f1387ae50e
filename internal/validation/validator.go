package validation

import (
	"reflect"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns a validator that reports fields by their form or yaml name
// rather than the Go field name.
func New() *validatorv10.Validate {
	v := validatorv10.New()
	v.RegisterTagNameFunc(fieldName)
	v.RegisterStructValidation(remoteOrderStructValidation, RemoteOrder{})
	return v
}

func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"form", "yaml", "json"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// remoteOrderStructValidation rejects selections that carry no mapping at all:
// the page always posts the mapping for the catalog it rendered.
func remoteOrderStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(RemoteOrder)
	if len(req.SelectedProductIDs) > 0 && len(req.VariantMapping) == 0 {
		sl.ReportError(req.VariantMapping, "variantMapping", "VariantMapping", "required_with_selection", "")
	}
}
