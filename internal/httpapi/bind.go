package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20

var errNotObject = errors.New("request body must be a JSON object")

type registerBody struct {
	Email        string `json:"email" validate:"required,email,max=255"`
	Name         string `json:"name" validate:"required,max=255"`
	Password     string `json:"password" validate:"required,strongpassword,max=72"`
	PersonalInfo string `json:"personalInfo" validate:"required,max=255"`
}

type loginBody struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return strongPassword(fl.Field().String())
	})
	return v
}

// strongPassword wants at least six characters with a lowercase letter, an
// uppercase letter, a digit and a symbol.
func strongPassword(s string) bool {
	if len([]rune(s)) < 6 {
		return false
	}
	var lower, upper, digit, symbol bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}

// bindBody decodes the request into dst after trimming, then validates it. On
// failure it has already written a 400.
func (h *handlers) bindBody(c *gin.Context, dst any) bool {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		writeStatus(c, http.StatusBadRequest, "Unable to read request body")
		return false
	}

	cleaned, err := trimmedObject(raw)
	if err != nil {
		writeStatus(c, http.StatusBadRequest, err.Error())
		return false
	}
	if err := json.Unmarshal(cleaned, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			writeValidation(c, []string{fmt.Sprintf("%s must be a %s", typeErr.Field, typeErr.Type)})
			return false
		}
		writeStatus(c, http.StatusBadRequest, "Malformed JSON body")
		return false
	}

	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			writeValidation(c, validationMessages(verrs))
			return false
		}
		writeStatus(c, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// trimmedObject requires raw to be a JSON object and trims every string in it,
// at any depth, except values under a "password" key.
func trimmedObject(raw []byte) ([]byte, error) {
	var body any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, errNotObject
	}
	obj, ok := body.(map[string]any)
	if !ok {
		return nil, errNotObject
	}
	return json.Marshal(trimValue(obj))
}

func trimValue(v any) any {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case map[string]any:
		for k, inner := range t {
			if k == "password" {
				continue
			}
			t[k] = trimValue(inner)
		}
		return t
	case []any:
		for i := range t {
			t[i] = trimValue(t[i])
		}
		return t
	default:
		return v
	}
}

func validationMessages(verrs validator.ValidationErrors) []string {
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			out = append(out, field+" should not be empty")
		case "email":
			out = append(out, field+" must be an email")
		case "strongpassword":
			out = append(out, field+" is not strong enough")
		case "max":
			out = append(out, fmt.Sprintf("%s must be shorter than or equal to %s characters", field, fe.Param()))
		default:
			out = append(out, field+" is invalid")
		}
	}
	return out
}
