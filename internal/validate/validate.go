// Package validate applies declarative per-field rules to request payloads
// before any mutation runs. Every rule is evaluated so the caller gets the
// complete violation list in one round trip; handlers must stop when the
// list is non-empty.
package validate

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/qri-io/jsonschema"
)

// Violation mirrors the wire shape of the original API's validation errors.
type Violation struct {
	Msg   string `json:"msg"`
	Param string `json:"param"`
}

// Rule checks a single field. A rule with a nil schema only requires the
// field to be present and non-null.
type Rule struct {
	Field   string
	Message string
	schema  *jsonschema.Schema
}

// Rules is an ordered rule set; violations come back in rule order.
type Rules []Rule

func mustCompile(schemaJSON string) *jsonschema.Schema {
	rs := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(schemaJSON), rs); err != nil {
		panic(fmt.Sprintf("validate: bad schema %s: %v", schemaJSON, err))
	}
	return rs
}

// Exists requires the field to be present with any non-null value.
func Exists(field, message string) Rule {
	return Rule{Field: field, Message: message}
}

// NonEmpty requires a non-empty string.
func NonEmpty(field, message string) Rule {
	return Rule{Field: field, Message: message, schema: mustCompile(`{"type":"string","minLength":1}`)}
}

// Email requires a plausible email address.
func Email(field, message string) Rule {
	return Rule{Field: field, Message: message, schema: mustCompile(`{"type":"string","pattern":"^[^@\\s]+@[^@\\s]+\\.[^@\\s]+$"}`)}
}

// MinLength requires a string of at least n characters.
func MinLength(field, message string, n int) Rule {
	return Rule{Field: field, Message: message, schema: mustCompile(fmt.Sprintf(`{"type":"string","minLength":%d}`, n))}
}

// Check evaluates every rule against the JSON payload and returns all
// violations in rule order. A missing or null field always violates its
// rule. Payloads that are not JSON objects violate every rule, which keeps
// malformed bodies from ever reaching a mutation engine.
func (rs Rules) Check(ctx context.Context, payload []byte) []Violation {
	violations := []Violation{}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		for _, r := range rs {
			violations = append(violations, Violation{Msg: r.Message, Param: r.Field})
		}
		return violations
	}

	for _, r := range rs {
		raw, ok := fields[r.Field]
		if !ok || string(raw) == "null" {
			violations = append(violations, Violation{Msg: r.Message, Param: r.Field})
			continue
		}
		if r.schema == nil {
			continue
		}
		keyErrs, err := r.schema.ValidateBytes(ctx, raw)
		if err != nil || len(keyErrs) > 0 {
			violations = append(violations, Violation{Msg: r.Message, Param: r.Field})
		}
	}

	return violations
}
