package leads

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Defaults applied by the voice pipeline when a field is missing.
const (
	DefaultPlace    = "Not provided"
	DefaultDateTime = "To be confirmed"
	DefaultPax      = 1
	DefaultName     = "Phone Lead"
	DefaultPhone    = "Not provided"
	DefaultEmail    = "noemail@phonelead.com"
	DefaultUrgency  = UrgencyUrgent
)

// Matcher recognizes one inbound payload shape. Extract reports whether the
// shape applies and, if so, returns the map that holds the lead fields.
type Matcher struct {
	Name    string
	Extract func(payload map[string]any) (map[string]any, bool)
}

// ShapeNone is reported when no matcher applied and every field was defaulted.
const ShapeNone = "none"

// DefaultMatchers are evaluated in order; the first match wins.
func DefaultMatchers() []Matcher {
	return []Matcher{
		{Name: "direct", Extract: matchDirect},
		{Name: "tool_call", Extract: matchToolCall},
		{Name: "call_messages", Extract: matchCallMessages},
		{Name: "call_analysis", Extract: matchCallAnalysis},
	}
}

// Normalizer turns loosely shaped voice-AI payloads into a canonical Input.
// It never fails: unknown shapes and missing fields fall back to defaults.
type Normalizer struct {
	matchers []Matcher
}

// NewNormalizer uses DefaultMatchers when none are given.
func NewNormalizer(matchers ...Matcher) *Normalizer {
	if len(matchers) == 0 {
		matchers = DefaultMatchers()
	}
	return &Normalizer{matchers: matchers}
}

// Normalize returns the canonical record and the name of the shape that matched.
func (n *Normalizer) Normalize(payload map[string]any) (Input, string) {
	fields, shape := map[string]any{}, ShapeNone
	for _, m := range n.matchers {
		if f, ok := m.Extract(payload); ok {
			fields, shape = f, m.Name
			break
		}
	}
	return fromFields(fields), shape
}

func fromFields(f map[string]any) Input {
	in := Input{
		FromAirportOrCity: truncate(firstString(f, DefaultPlace, "from_airport_or_city", "departure"), MaxPlaceLen),
		ToAirportOrCity:   truncate(firstString(f, DefaultPlace, "to_airport_or_city", "destination"), MaxPlaceLen),
		DateTime:          firstString(f, DefaultDateTime, "date_time", "departure_date"),
		Pax:               paxValue(f["pax"]),
		Name:              truncate(firstString(f, DefaultName, "name"), MaxNameLen),
		Phone:             truncate(firstString(f, DefaultPhone, "phone"), MaxPhoneLen),
		Email:             truncate(firstString(f, DefaultEmail, "email"), MaxEmailLen),
		Urgency:           DefaultUrgency,
		Notes:             truncate(firstString(f, "", "notes"), MaxNotesLen),
	}
	if u := Urgency(strings.ToLower(firstString(f, "", "urgency"))); u.Valid() {
		in.Urgency = u
	}
	return in
}

func matchDirect(p map[string]any) (map[string]any, bool) {
	if truthy(p["from_airport_or_city"]) || truthy(p["departure"]) {
		return p, true
	}
	return nil, false
}

func matchToolCall(p map[string]any) (map[string]any, bool) {
	msg, _ := p["message"].(map[string]any)
	return toolArguments(msg)
}

func matchCallMessages(p map[string]any) (map[string]any, bool) {
	call, _ := p["call"].(map[string]any)
	msgs, _ := call["messages"].([]any)
	for _, raw := range msgs {
		msg, _ := raw.(map[string]any)
		if args, ok := toolArguments(msg); ok {
			return args, true
		}
	}
	return nil, false
}

func matchCallAnalysis(p map[string]any) (map[string]any, bool) {
	call, _ := p["call"].(map[string]any)
	if !truthy(call["analysis"]) && !truthy(call["transcript"]) {
		return nil, false
	}
	analysis, _ := call["analysis"].(map[string]any)
	vars, _ := analysis["successEvaluationVariables"].(map[string]any)
	if vars == nil {
		vars = map[string]any{}
	}
	return vars, true
}

// toolArguments reads msg.toolCalls[0].function.arguments, which providers send
// either as a JSON-encoded string or as an object.
func toolArguments(msg map[string]any) (map[string]any, bool) {
	calls, _ := msg["toolCalls"].([]any)
	if len(calls) == 0 {
		return nil, false
	}
	first, _ := calls[0].(map[string]any)
	fn, _ := first["function"].(map[string]any)
	switch args := fn["arguments"].(type) {
	case map[string]any:
		return args, true
	case string:
		if strings.TrimSpace(args) == "" {
			return nil, false
		}
		var out map[string]any
		if err := json.Unmarshal([]byte(args), &out); err != nil || out == nil {
			return nil, false
		}
		return out, true
	default:
		return nil, false
	}
}

func firstString(f map[string]any, def string, keys ...string) string {
	for _, k := range keys {
		if s := asString(f[k]); s != "" {
			return s
		}
	}
	return def
}

func asString(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	default:
		return ""
	}
}

func paxValue(v any) int {
	n := 0
	switch x := v.(type) {
	case float64:
		n = clampFloat(x)
	case json.Number:
		if f, err := x.Float64(); err == nil {
			n = clampFloat(f)
		}
	case string:
		n = leadingInt(x)
	}
	switch {
	case n < MinPax:
		return DefaultPax
	case n > MaxPax:
		return MaxPax
	default:
		return n
	}
}

// clampFloat bounds x before converting so large values cannot overflow int.
func clampFloat(x float64) int {
	switch {
	case math.IsNaN(x):
		return 0
	case x > MaxPax:
		return MaxPax
	case x < MinPax:
		return 0
	default:
		return int(x)
	}
}

// leadingInt parses the digits at the start of s ("3 adults" -> 3).
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && end < 6 && unicode.IsDigit(rune(s[end])) {
		end++
	}
	if end == 0 {
		return 0
	}
	n, _ := strconv.Atoi(s[:end])
	return n
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case bool:
		return x
	case float64:
		return x != 0 && !math.IsNaN(x)
	default:
		return true
	}
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max])
}
