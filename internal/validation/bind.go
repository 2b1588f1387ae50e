package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/imrishuroy/orderdesk/internal/orders"
)

// Messages for submissions the forms could not have produced.
const (
	MsgInvalidForm      = "Invalid order form"
	MsgInvalidSelection = "Invalid product selection"
	MsgInvalidMapping   = "Invalid variant mapping"
)

// BindSessionForm binds and validates the session order form. Problems are
// returned as *orders.ValidationError; an empty selection is left to the
// workflow, which owns that message.
func BindSessionForm(c *gin.Context, v *validatorv10.Validate) (SessionOrderForm, error) {
	var form SessionOrderForm
	if err := c.ShouldBind(&form); err != nil {
		return SessionOrderForm{}, invalid(MsgInvalidForm, err)
	}
	if err := v.Struct(form); err != nil {
		return SessionOrderForm{}, invalid(MsgInvalidSelection, err)
	}
	return form, nil
}

// BindRemoteForm binds the remote order form and decodes its two JSON fields.
// A missing field decodes as empty; malformed JSON is a validation error.
func BindRemoteForm(c *gin.Context, v *validatorv10.Validate) (RemoteOrder, error) {
	var form RemoteOrderForm
	if err := c.ShouldBind(&form); err != nil {
		return RemoteOrder{}, invalid(MsgInvalidForm, err)
	}
	return DecodeRemoteForm(form, v)
}

// DecodeRemoteForm parses and validates an already bound RemoteOrderForm.
func DecodeRemoteForm(form RemoteOrderForm, v *validatorv10.Validate) (RemoteOrder, error) {
	var out RemoteOrder
	if err := decodeJSONField(form.SelectedProductIDs, &out.SelectedProductIDs); err != nil {
		return RemoteOrder{}, invalid(MsgInvalidSelection, err)
	}
	if err := decodeJSONField(form.VariantMapping, &out.VariantMapping); err != nil {
		return RemoteOrder{}, invalid(MsgInvalidMapping, err)
	}
	if err := v.Struct(out); err != nil {
		msg := MsgInvalidSelection
		if fields := ValidationErrorsToMap(err); hasPrefix(fields, "RemoteOrder.variantMapping") {
			msg = MsgInvalidMapping
		}
		return RemoteOrder{}, invalid(msg, err)
	}
	return out, nil
}

func decodeJSONField(raw string, out any) error {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil
	}
	return json.Unmarshal([]byte(raw), out)
}

// ValidationErrorsToMap flattens validator errors into namespace -> message.
func ValidationErrorsToMap(err error) map[string]string {
	out := map[string]string{}
	var ve validatorv10.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			out[fe.Namespace()] = fe.Error()
		}
	} else if err != nil {
		out["error"] = err.Error()
	}
	return out
}

func hasPrefix(fields map[string]string, prefix string) bool {
	for k := range fields {
		if strings.HasPrefix(k, prefix) {
			return true
		}
	}
	return false
}

// invalid keeps the user message short; the cause stays reachable for logs.
func invalid(msg string, cause error) error {
	return fmt.Errorf("%w: %v", &orders.ValidationError{Message: msg}, cause)
}
