package leads

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FormSubmission is the trusted web form payload. It is validated strictly;
// anything the client sends beyond these fields (id, timestamp) is dropped.
type FormSubmission struct {
	FromAirportOrCity string `json:"from_airport_or_city" validate:"required,max=100"`
	ToAirportOrCity   string `json:"to_airport_or_city" validate:"required,max=100"`
	DateTime          string `json:"date_time" validate:"required"`
	Pax               int    `json:"pax" validate:"min=1,max=50"`
	Name              string `json:"name" validate:"required,max=100"`
	Phone             string `json:"phone" validate:"required,max=50"`
	Email             string `json:"email" validate:"required,max=254"`
	Urgency           string `json:"urgency" validate:"required,oneof=normal urgent critical"`
	Notes             string `json:"notes" validate:"max=1000"`
}

// DecodeForm reads a web form body. A voice tool call that posts here wraps the
// form in message.toolCalls[0].function.arguments; that form is used instead.
func DecodeForm(body []byte) (FormSubmission, error) {
	var f FormSubmission
	var wrapper struct {
		Message map[string]any `json:"message"`
	}
	if err := json.Unmarshal(body, &wrapper); err == nil && wrapper.Message != nil {
		if args, ok := toolArguments(wrapper.Message); ok {
			inner, err := json.Marshal(args)
			if err != nil {
				return f, err
			}
			body = inner
		}
	}
	if err := json.Unmarshal(body, &f); err != nil {
		return f, err
	}
	return f, nil
}

// ValidationError carries the failed rule per json field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "leads: invalid form: " + strings.Join(parts, ", ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the submission and converts it to the canonical record.
func (f FormSubmission) Validate() (Input, error) {
	if err := validate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			out := &ValidationError{Fields: make(map[string]string, len(verrs))}
			for _, fe := range verrs {
				rule := fe.Tag()
				if fe.Param() != "" {
					rule += "=" + fe.Param()
				}
				out.Fields[fe.Field()] = rule
			}
			return Input{}, out
		}
		return Input{}, err
	}

	return Input{
		FromAirportOrCity: f.FromAirportOrCity,
		ToAirportOrCity:   f.ToAirportOrCity,
		DateTime:          f.DateTime,
		Pax:               f.Pax,
		Name:              f.Name,
		Phone:             f.Phone,
		Email:             f.Email,
		Urgency:           Urgency(f.Urgency),
		Notes:             f.Notes,
	}, nil
}
