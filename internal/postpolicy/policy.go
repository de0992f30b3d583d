// Package postpolicy models the S3 browser-POST policy document: the signed
// JSON that fixes what an upload grant allows. It decodes the policy a
// storage SDK signed and evaluates a candidate upload against every
// condition.
package postpolicy

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ExpirationFormat is the timestamp layout S3 requires for "expiration".
const ExpirationFormat = "2006-01-02T15:04:05.000Z"

const (
	MatchEq                 = "eq"
	MatchStartsWith         = "starts-with"
	MatchContentLengthRange = "content-length-range"
)

var (
	ErrPolicyExpired    = errors.New("policy expired")
	ErrConditionFailed  = errors.New("policy condition failed")
	ErrUnknownCondition = errors.New("unknown policy condition")
	ErrMalformedPolicy  = errors.New("malformed policy document")
)

// Condition is one entry of a policy's "conditions" array. Field is the form
// field name without the leading "$".
type Condition struct {
	Match string `json:"match"`
	Field string `json:"field,omitempty"`
	Value string `json:"value,omitempty"`
	Min   int64  `json:"min"`
	Max   int64  `json:"max"`
}

// Eq requires form field to equal value exactly.
func Eq(field, value string) Condition {
	return Condition{Match: MatchEq, Field: field, Value: value}
}

// ContentLengthRange bounds the uploaded body size, inclusive on both ends.
func ContentLengthRange(minBytes, maxBytes int64) Condition {
	return Condition{Match: MatchContentLengthRange, Min: minBytes, Max: maxBytes}
}

// Document is a complete POST policy.
type Document struct {
	Expiration time.Time
	Conditions []Condition
}

type wireDocument struct {
	Expiration string            `json:"expiration"`
	Conditions []json.RawMessage `json:"conditions"`
}

// UnmarshalJSON accepts both the array form (["eq", "$key", "v"]) and the
// object shorthand ({"bucket": "v"}) of a condition.
func (d *Document) UnmarshalJSON(b []byte) error {
	var w wireDocument
	if err := json.Unmarshal(b, &w); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPolicy, err)
	}

	exp, err := time.Parse(ExpirationFormat, w.Expiration)
	if err != nil {
		exp, err = time.Parse(time.RFC3339, w.Expiration)
		if err != nil {
			return fmt.Errorf("%w: expiration %q", ErrMalformedPolicy, w.Expiration)
		}
	}

	conds := make([]Condition, 0, len(w.Conditions))
	for _, raw := range w.Conditions {
		parsed, err := parseCondition(raw)
		if err != nil {
			return err
		}
		conds = append(conds, parsed...)
	}

	d.Expiration = exp.UTC()
	d.Conditions = conds
	return nil
}

func parseCondition(raw json.RawMessage) ([]Condition, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty condition", ErrMalformedPolicy)
	}

	if raw[0] == '{' {
		var obj map[string]string
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedPolicy, err)
		}
		out := make([]Condition, 0, len(obj))
		for k, v := range obj {
			out = append(out, Eq(k, v))
		}
		return out, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var arr []any
	if err := dec.Decode(&arr); err != nil || len(arr) != 3 {
		return nil, fmt.Errorf("%w: condition %s", ErrMalformedPolicy, raw)
	}
	match, ok := arr[0].(string)
	if !ok {
		return nil, fmt.Errorf("%w: condition %s", ErrMalformedPolicy, raw)
	}
	match = strings.ToLower(match)

	if match == MatchContentLengthRange {
		lo, err1 := toInt(arr[1])
		hi, err2 := toInt(arr[2])
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("%w: condition %s", ErrMalformedPolicy, raw)
		}
		return []Condition{ContentLengthRange(lo, hi)}, nil
	}

	field, ok1 := arr[1].(string)
	value, ok2 := arr[2].(string)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("%w: condition %s", ErrMalformedPolicy, raw)
	}
	return []Condition{{Match: match, Field: strings.TrimPrefix(field, "$"), Value: value}}, nil
}

func toInt(v any) (int64, error) {
	switch n := v.(type) {
	case json.Number:
		return n.Int64()
	case string:
		return json.Number(n).Int64()
	default:
		return 0, fmt.Errorf("not a number: %v", v)
	}
}

// Decode parses a base64 "policy" form field.
func Decode(encoded string) (*Document, error) {
	b, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPolicy, err)
	}
	var d Document
	if err := json.Unmarshal(b, &d); err != nil {
		if errors.Is(err, ErrMalformedPolicy) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedPolicy, err)
	}
	return &d, nil
}

// Upload describes a simulated POST against a grant.
type Upload struct {
	Bucket string
	Fields map[string]string
	Size   int64
	At     time.Time
}

func (u Upload) field(name string) string {
	for k, v := range u.Fields {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	if strings.EqualFold(name, "bucket") {
		return u.Bucket
	}
	return ""
}

// Check reports the first condition the upload violates, or nil if the
// storage service would accept it.
func (d Document) Check(u Upload) error {
	if !u.At.IsZero() && u.At.After(d.Expiration) {
		return ErrPolicyExpired
	}

	for _, c := range d.Conditions {
		switch c.Match {
		case MatchEq:
			if got := u.field(c.Field); got != c.Value {
				return fmt.Errorf("%w: %s must equal %q, got %q", ErrConditionFailed, c.Field, c.Value, got)
			}
		case MatchStartsWith:
			if got := u.field(c.Field); !strings.HasPrefix(got, c.Value) {
				return fmt.Errorf("%w: %s must start with %q, got %q", ErrConditionFailed, c.Field, c.Value, got)
			}
		case MatchContentLengthRange:
			if u.Size < c.Min || u.Size > c.Max {
				return fmt.Errorf("%w: size %d outside [%d, %d]", ErrConditionFailed, u.Size, c.Min, c.Max)
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownCondition, c.Match)
		}
	}
	return nil
}

// Find returns the first condition with the given match type and field.
// Field is ignored for content-length-range.
func (d Document) Find(match, field string) (Condition, bool) {
	for _, c := range d.Conditions {
		if c.Match != match {
			continue
		}
		if match == MatchContentLengthRange || strings.EqualFold(c.Field, field) {
			return c, true
		}
	}
	return Condition{}, false
}
