package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// Type is the expected JSON type of a field
type Type string

const (
	TypeString Type = "string"
	TypeNumber Type = "number"
	TypeBool   Type = "bool"
	TypeObject Type = "object"
	TypeArray  Type = "array"
)

// Format names a well-known string format constraint
type Format string

const (
	FormatNone     Format = ""
	FormatEmail    Format = "email"
	FormatURL      Format = "url"
	FormatHexColor Format = "hexcolor"
)

var (
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	urlRe      = regexp.MustCompile(`^https?://[^\s]+$`)
	hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

// Field declares the constraints for a single document field
type Field struct {
	Name     string
	Type     Type
	Required bool

	// String constraints
	MinLen     int
	MaxLen     int
	Enum       []string
	Format     Format
	AllowEmpty bool // an empty string bypasses format checks (optional URLs etc.)

	// Number constraints
	Min *float64
	Max *float64

	// Object fields (Type == TypeObject)
	Fields []Field

	// Array element constraints (Type == TypeArray)
	Elem *Field
}

// Schema declares the shape of a request body
type Schema struct {
	Fields []Field
}

// FieldError carries the offending field path and a human-readable message
type FieldError struct {
	Path    string `json:"field"`
	Message string `json:"message"`
}

// Result is the outcome of validating a document against a schema
type Result struct {
	Valid  bool
	Errors []*FieldError
}

func (r *Result) addError(path, message string) {
	r.Errors = append(r.Errors, &FieldError{Path: path, Message: message})
	r.Valid = false
}

// Validate checks a decoded JSON document against the schema. It is a pure
// function: no side effects, never panics, unknown fields are ignored.
func (s *Schema) Validate(doc map[string]interface{}) *Result {
	result := &Result{Valid: true}
	validateFields(s.Fields, doc, "", result)
	return result
}

func validateFields(fields []Field, doc map[string]interface{}, prefix string, result *Result) {
	for _, f := range fields {
		path := f.Name
		if prefix != "" {
			path = prefix + "." + f.Name
		}

		value, present := doc[f.Name]
		if !present || value == nil {
			if f.Required {
				result.addError(path, fmt.Sprintf("%s is required", f.Name))
			}
			continue
		}

		validateValue(&f, value, path, result)
	}
}

func validateValue(f *Field, value interface{}, path string, result *Result) {
	switch f.Type {
	case TypeString:
		str, ok := value.(string)
		if !ok {
			result.addError(path, "must be a string")
			return
		}
		validateString(f, str, path, result)

	case TypeNumber:
		// encoding/json decodes all JSON numbers as float64
		num, ok := value.(float64)
		if !ok {
			result.addError(path, "must be a number")
			return
		}
		if f.Min != nil && num < *f.Min {
			result.addError(path, fmt.Sprintf("must be at least %v", *f.Min))
		}
		if f.Max != nil && num > *f.Max {
			result.addError(path, fmt.Sprintf("must be at most %v", *f.Max))
		}

	case TypeBool:
		if _, ok := value.(bool); !ok {
			result.addError(path, "must be a boolean")
		}

	case TypeObject:
		obj, ok := value.(map[string]interface{})
		if !ok {
			result.addError(path, "must be an object")
			return
		}
		validateFields(f.Fields, obj, path, result)

	case TypeArray:
		arr, ok := value.([]interface{})
		if !ok {
			result.addError(path, "must be an array")
			return
		}
		if f.Elem != nil {
			for i, elem := range arr {
				validateValue(f.Elem, elem, fmt.Sprintf("%s[%d]", path, i), result)
			}
		}

	default:
		result.addError(path, "unknown field type")
	}
}

func validateString(f *Field, str, path string, result *Result) {
	if f.Required && strings.TrimSpace(str) == "" {
		result.addError(path, fmt.Sprintf("%s is required", f.Name))
		return
	}
	if str == "" && f.AllowEmpty {
		return
	}

	if f.MinLen > 0 && len(str) < f.MinLen {
		result.addError(path, fmt.Sprintf("must be at least %d characters", f.MinLen))
	}
	if f.MaxLen > 0 && len(str) > f.MaxLen {
		result.addError(path, fmt.Sprintf("must be at most %d characters", f.MaxLen))
	}

	if len(f.Enum) > 0 {
		found := false
		for _, allowed := range f.Enum {
			if str == allowed {
				found = true
				break
			}
		}
		if !found {
			result.addError(path, fmt.Sprintf("must be one of: %s", strings.Join(f.Enum, ", ")))
		}
	}

	switch f.Format {
	case FormatEmail:
		if !emailRe.MatchString(str) {
			result.addError(path, "must be a valid email address")
		}
	case FormatURL:
		if !urlRe.MatchString(str) {
			result.addError(path, "must be a valid URL")
		}
	case FormatHexColor:
		if !hexColorRe.MatchString(str) {
			result.addError(path, "must be a hex color like #3b82f6")
		}
	}
}
