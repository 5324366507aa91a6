package schema

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/smallbiznis/mystore/internal/catalog/domain"
)

// Schema validates create requests and reports failures by field path.
type Schema struct {
	validate *validator.Validate
}

func New() *Schema {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Schema{validate: v}
}

var defaultSchema = New()

// Validate runs the default schema.
func Validate(req domain.CreateRequest) domain.FieldErrors {
	return defaultSchema.Validate(req)
}

// Validate checks every field and every variant; it never stops at the
// first failure. The result is empty when req is valid.
func (s *Schema) Validate(req domain.CreateRequest) domain.FieldErrors {
	out := domain.FieldErrors{}

	err := s.validate.Struct(req)
	if err == nil {
		return out
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["request"] = MsgInvalidValue
		return out
	}
	for _, fe := range verrs {
		path := Path(fe.Namespace())
		if _, seen := out[path]; seen {
			continue
		}
		out[path] = message(fe.Field(), fe.Tag())
	}
	return out
}

// Path converts a validator namespace such as
// "CreateRequest.variants[1].sku" into "variants.1.sku".
func Path(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		namespace = namespace[i+1:]
	}
	return strings.NewReplacer("[", ".", "]", "").Replace(namespace)
}

// VariantPath builds the positional key for a variant field.
func VariantPath(index int, field string) string {
	return fmt.Sprintf("variants.%d.%s", index, field)
}

// ParseVariantPath splits "variants.<index>.<field>".
func ParseVariantPath(path string) (index int, field string, ok bool) {
	parts := strings.SplitN(path, ".", 3)
	if len(parts) != 3 || parts[0] != "variants" {
		return 0, "", false
	}
	index, err := strconv.Atoi(parts[1])
	if err != nil || index < 0 {
		return 0, "", false
	}
	return index, parts[2], true
}
