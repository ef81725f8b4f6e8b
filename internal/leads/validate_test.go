package leads

import (
	"errors"
	"strings"
	"testing"
)

func validForm() FormSubmission {
	return FormSubmission{
		FromAirportOrCity: "LAX",
		ToAirportOrCity:   "JFK",
		DateTime:          "2025-01-01T10:00",
		Pax:               2,
		Name:              "A B",
		Phone:             "555-1111",
		Email:             "a@b.com",
		Urgency:           "critical",
	}
}

func TestFormSubmission_Valid(t *testing.T) {
	in, err := validForm().Validate()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if in.Urgency != UrgencyCritical || in.Pax != 2 {
		t.Fatalf("unexpected input: %+v", in)
	}
}

func TestFormSubmission_UrgencyRequired(t *testing.T) {
	f := validForm()
	f.Urgency = ""
	_, err := f.Validate()

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if verr.Fields["urgency"] != "required" {
		t.Fatalf("expected urgency required, got %v", verr.Fields)
	}
}

func TestFormSubmission_Bounds(t *testing.T) {
	f := validForm()
	f.Pax = 51
	f.FromAirportOrCity = strings.Repeat("x", 101)
	f.Notes = strings.Repeat("n", 1001)
	f.Urgency = "whenever"

	_, err := f.Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	want := map[string]string{
		"pax":                  "max=50",
		"from_airport_or_city": "max=100",
		"notes":                "max=1000",
		"urgency":              "oneof=normal urgent critical",
	}
	for k, v := range want {
		if verr.Fields[k] != v {
			t.Fatalf("field %s: expected %q, got %q (all: %v)", k, v, verr.Fields[k], verr.Fields)
		}
	}
}

func TestFormSubmission_PaxMissing(t *testing.T) {
	f := validForm()
	f.Pax = 0
	_, err := f.Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Fields["pax"] != "min=1" {
		t.Fatalf("expected pax min error, got %v", err)
	}
}

func TestDecodeForm_UnwrapsToolCall(t *testing.T) {
	args := `{\"from_airport_or_city\":\"LAX\",\"name\":\"A B\",\"pax\":3}`
	f, err := DecodeForm([]byte(`{"message":{"toolCalls":[{"function":{"arguments":"` + args + `"}}]}}`))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if f.FromAirportOrCity != "LAX" || f.Name != "A B" || f.Pax != 3 {
		t.Fatalf("unexpected form %+v", f)
	}

	f, err = DecodeForm([]byte(`{"from_airport_or_city":"SFO","message":"hi"}`))
	if err != nil || f.FromAirportOrCity != "SFO" {
		t.Fatalf("expected plain form, got %+v %v", f, err)
	}

	if _, err := DecodeForm([]byte(`{"pax":"four"}`)); err == nil {
		t.Fatalf("expected type error")
	}
}
