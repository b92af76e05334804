// Package schema validates untrusted Trail payloads and converts them into
// domain values.
//
// The validator declaration (trailShape) is the source of truth for the wire
// shape. domain.Trail is a separate struct kept in step with it; the package
// tests compare the two field sets so they cannot drift apart.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/pkordes/trails/internal/domain"
)

// trailShape is what the validator checks. Pointer fields keep "absent"
// distinct from the zero value, so a distance of 0 is still present.
type trailShape struct {
	ID             *string  `json:"id" validate:"required,trailuuid"`
	Name           *string  `json:"name" validate:"required,min=1"`
	Distance       *float64 `json:"distance" validate:"required"`
	Difficulty     *string  `json:"difficulty" validate:"required,oneof=easy moderate hard"`
	LastMaintained *string  `json:"lastMaintained" validate:"omitempty,isodatetime"`
}

var (
	fieldsOnce sync.Once
	fieldNames []string
)

// Fields returns the JSON field names of the Trail shape in declaration order.
func Fields() []string {
	fieldsOnce.Do(func() {
		rt := reflect.TypeOf(trailShape{})
		for i := 0; i < rt.NumField(); i++ {
			fieldNames = append(fieldNames, strings.SplitN(rt.Field(i).Tag.Get("json"), ",", 2)[0])
		}
	})
	return append([]string(nil), fieldNames...)
}

// ParseTrail validates a single JSON object against the Trail shape.
// On failure the error is a *domain.ValidationError listing every issue.
func ParseTrail(raw []byte) (domain.Trail, error) {
	if issue, ok := checkJSON(raw); !ok {
		return domain.Trail{}, &domain.ValidationError{Issues: []domain.Issue{issue}}
	}
	t, issues := parseObject(raw, "")
	if len(issues) > 0 {
		return domain.Trail{}, &domain.ValidationError{Issues: issues}
	}
	return t, nil
}

// ParseTrails validates a JSON array of Trail objects element by element.
// Issue paths are prefixed with the element index, e.g. "[3].name". Either
// every element is valid and the full slice is returned, or nothing is.
func ParseTrails(raw []byte) ([]domain.Trail, error) {
	if issue, ok := checkJSON(raw); !ok {
		return nil, &domain.ValidationError{Issues: []domain.Issue{issue}}
	}
	if k := kindOf(raw); k != "array" {
		return nil, &domain.ValidationError{Issues: []domain.Issue{
			{Code: "invalid_type", Message: "expected array, received " + k},
		}}
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, &domain.ValidationError{Issues: []domain.Issue{
			{Code: "invalid_json", Message: "payload is not valid JSON"},
		}}
	}

	trails := make([]domain.Trail, 0, len(elems))
	var issues []domain.Issue
	for i, el := range elems {
		t, iss := parseObject(el, fmt.Sprintf("[%d]", i))
		if len(iss) > 0 {
			issues = append(issues, iss...)
			continue
		}
		trails = append(trails, t)
	}
	if len(issues) > 0 {
		return nil, &domain.ValidationError{Issues: issues}
	}
	return trails, nil
}

// ValidateValue validates an arbitrary Go value (a map, a struct with json
// tags, or a domain.Trail) by way of its JSON encoding.
// Validating a value that already passed returns an equal value.
func ValidateValue(v any) (domain.Trail, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return domain.Trail{}, &domain.ValidationError{Issues: []domain.Issue{
			{Code: "invalid_type", Message: "value cannot be encoded as JSON: " + err.Error()},
		}}
	}
	return ParseTrail(raw)
}

// parseObject validates one element. raw must already be valid JSON.
func parseObject(raw json.RawMessage, prefix string) (domain.Trail, []domain.Issue) {
	if k := kindOf(raw); k != "object" {
		return domain.Trail{}, []domain.Issue{
			{Path: prefix, Code: "invalid_type", Message: "expected object, received " + k},
		}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return domain.Trail{}, []domain.Issue{{Path: prefix, Code: "invalid_json", Message: "payload is not valid JSON"}}
	}

	var shape trailShape
	byField := make(map[string]domain.Issue)

	decode := func(name string, dst any, want string) {
		v, ok := fields[name]
		if !ok {
			return
		}
		if kindOf(v) == "null" || json.Unmarshal(v, dst) != nil {
			byField[name] = domain.Issue{
				Path:    joinPath(prefix, name),
				Code:    "invalid_type",
				Message: "expected " + want + ", received " + kindOf(v),
			}
		}
	}
	decode("id", &shape.ID, "string")
	decode("name", &shape.Name, "string")
	decode("distance", &shape.Distance, "number")
	decode("difficulty", &shape.Difficulty, "string")
	decode("lastMaintained", &shape.LastMaintained, "string")

	if err := engine().Struct(&shape); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return domain.Trail{}, []domain.Issue{{Path: prefix, Code: "invalid_type", Message: err.Error()}}
		}
		for _, fe := range verrs {
			if _, seen := byField[fe.Field()]; seen {
				continue
			}
			code, msg := issueFor(fe)
			byField[fe.Field()] = domain.Issue{Path: joinPath(prefix, fe.Field()), Code: code, Message: msg}
		}
	}

	if len(byField) > 0 {
		issues := make([]domain.Issue, 0, len(byField))
		for _, name := range Fields() {
			if is, ok := byField[name]; ok {
				issues = append(issues, is)
			}
		}
		return domain.Trail{}, issues
	}

	t := domain.Trail{
		ID:         uuid.MustParse(*shape.ID),
		Name:       *shape.Name,
		Distance:   *shape.Distance,
		Difficulty: domain.Difficulty(*shape.Difficulty),
	}
	if shape.LastMaintained != nil {
		lm, _ := parseISODateTime(*shape.LastMaintained)
		t.LastMaintained = &lm
	}
	return t, nil
}

func checkJSON(raw []byte) (domain.Issue, bool) {
	if len(bytes.TrimSpace(raw)) == 0 || !json.Valid(raw) {
		return domain.Issue{Code: "invalid_json", Message: "payload is not valid JSON"}, false
	}
	return domain.Issue{}, true
}

// kindOf names the JSON type of a valid JSON value.
func kindOf(raw []byte) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "nothing"
	}
	switch raw[0] {
	case '{':
		return "object"
	case '[':
		return "array"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "number"
	}
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
