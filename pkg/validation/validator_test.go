package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestValidate_RequiredAndFormats(t *testing.T) {
	schema := &Schema{Fields: []Field{
		{Name: "name", Type: TypeString, Required: true, MinLen: 2, MaxLen: 50},
		{Name: "email", Type: TypeString, Required: true, Format: FormatEmail},
		{Name: "website", Type: TypeString, Format: FormatURL, AllowEmpty: true},
	}}

	result := schema.Validate(map[string]interface{}{
		"name":  "Amal",
		"email": "amal@example.com",
	})
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)

	result = schema.Validate(map[string]interface{}{
		"name":  "A",
		"email": "not-an-email",
	})
	require.False(t, result.Valid)
	require.Len(t, result.Errors, 2)

	paths := []string{result.Errors[0].Path, result.Errors[1].Path}
	assert.Contains(t, paths, "name")
	assert.Contains(t, paths, "email")
}

func TestValidate_MissingRequired(t *testing.T) {
	schema := &Schema{Fields: []Field{
		{Name: "phone", Type: TypeString, Required: true},
	}}

	result := schema.Validate(map[string]interface{}{})
	require.False(t, result.Valid)
	assert.Equal(t, "phone", result.Errors[0].Path)
}

func TestValidate_Enum(t *testing.T) {
	schema := &Schema{Fields: []Field{
		{Name: "role", Type: TypeString, Enum: []string{"admin", "user"}},
	}}

	assert.True(t, schema.Validate(map[string]interface{}{"role": "admin"}).Valid)

	result := schema.Validate(map[string]interface{}{"role": "superuser"})
	require.False(t, result.Valid)
	assert.Contains(t, result.Errors[0].Message, "must be one of")
}

func TestValidate_NumberBounds(t *testing.T) {
	schema := &Schema{Fields: []Field{
		{Name: "passwordMinLength", Type: TypeNumber, Required: true, Min: floatPtr(6), Max: floatPtr(20)},
	}}

	assert.True(t, schema.Validate(map[string]interface{}{"passwordMinLength": float64(8)}).Valid)
	assert.False(t, schema.Validate(map[string]interface{}{"passwordMinLength": float64(3)}).Valid)
	assert.False(t, schema.Validate(map[string]interface{}{"passwordMinLength": float64(25)}).Valid)
	assert.False(t, schema.Validate(map[string]interface{}{"passwordMinLength": "8"}).Valid)
}

func TestValidate_NestedObjectPaths(t *testing.T) {
	schema := &Schema{Fields: []Field{
		{Name: "appearance", Type: TypeObject, Required: true, Fields: []Field{
			{Name: "theme", Type: TypeString, Required: true, Enum: []string{"light", "dark", "auto"}},
			{Name: "primaryColor", Type: TypeString, Required: true, Format: FormatHexColor},
		}},
	}}

	result := schema.Validate(map[string]interface{}{
		"appearance": map[string]interface{}{
			"theme":        "neon",
			"primaryColor": "blue",
		},
	})
	require.False(t, result.Valid)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, "appearance.theme", result.Errors[0].Path)
	assert.Equal(t, "appearance.primaryColor", result.Errors[1].Path)
}

func TestValidate_ArrayElements(t *testing.T) {
	schema := &Schema{Fields: []Field{
		{Name: "ipWhitelist", Type: TypeArray, Elem: &Field{Name: "ipWhitelist", Type: TypeString}},
	}}

	assert.True(t, schema.Validate(map[string]interface{}{
		"ipWhitelist": []interface{}{"10.0.0.1", "10.0.0.2"},
	}).Valid)

	result := schema.Validate(map[string]interface{}{
		"ipWhitelist": []interface{}{"10.0.0.1", float64(42)},
	})
	require.False(t, result.Valid)
	assert.Equal(t, "ipWhitelist[1]", result.Errors[0].Path)
}

func TestValidate_UnknownFieldsIgnored(t *testing.T) {
	schema := &Schema{Fields: []Field{
		{Name: "name", Type: TypeString, Required: true},
	}}

	result := schema.Validate(map[string]interface{}{
		"name":       "ok",
		"unexpected": "ignored",
	})
	assert.True(t, result.Valid)
}

func TestValidate_HexColor(t *testing.T) {
	schema := &Schema{Fields: []Field{
		{Name: "primaryColor", Type: TypeString, Format: FormatHexColor},
	}}

	assert.True(t, schema.Validate(map[string]interface{}{"primaryColor": "#3b82f6"}).Valid)
	assert.True(t, schema.Validate(map[string]interface{}{"primaryColor": "#FFAA00"}).Valid)
	assert.False(t, schema.Validate(map[string]interface{}{"primaryColor": "3b82f6"}).Valid)
	assert.False(t, schema.Validate(map[string]interface{}{"primaryColor": "#3b8"}).Valid)
}
