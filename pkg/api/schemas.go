package api

import (
	"github.com/raf-aleaqarih/project-raf25/pkg/validation"
)

func floatPtr(v float64) *float64 { return &v }

var createUserSchema = &validation.Schema{
	Fields: []validation.Field{
		{Name: "name", Type: validation.TypeString, Required: true, MinLen: 2, MaxLen: 50},
		{Name: "email", Type: validation.TypeString, Required: true, Format: validation.FormatEmail},
		{Name: "password", Type: validation.TypeString, Required: true, MinLen: 6},
		{Name: "role", Type: validation.TypeString, Enum: []string{"admin", "user", "moderator"}},
		{Name: "isActive", Type: validation.TypeBool},
	},
}

var updateUserSchema = &validation.Schema{
	Fields: []validation.Field{
		{Name: "name", Type: validation.TypeString, MinLen: 2, MaxLen: 50},
		{Name: "email", Type: validation.TypeString, Format: validation.FormatEmail},
		{Name: "password", Type: validation.TypeString, MinLen: 6},
		{Name: "role", Type: validation.TypeString, Enum: []string{"admin", "user", "moderator"}},
		{Name: "isActive", Type: validation.TypeBool},
	},
}

var sendEmailSchema = &validation.Schema{
	Fields: []validation.Field{
		{Name: "phone", Type: validation.TypeString, Required: true},
		{Name: "name", Type: validation.TypeString},
		{Name: "notes", Type: validation.TypeString},
		{Name: "source", Type: validation.TypeString},
		{Name: "socialMedia", Type: validation.TypeString},
	},
}

// settingsSchema mirrors the admin settings document section by section
var settingsSchema = &validation.Schema{
	Fields: []validation.Field{
		{Name: "general", Type: validation.TypeObject, Required: true, Fields: []validation.Field{
			{Name: "siteName", Type: validation.TypeString, Required: true, MinLen: 1},
			{Name: "siteDescription", Type: validation.TypeString, Required: true, MinLen: 1},
			{Name: "contactEmail", Type: validation.TypeString, Required: true, Format: validation.FormatEmail},
			{Name: "supportPhone", Type: validation.TypeString, Required: true, MinLen: 1},
			{Name: "maintenanceMode", Type: validation.TypeBool, Required: true},
			{Name: "registrationEnabled", Type: validation.TypeBool, Required: true},
		}},
		{Name: "security", Type: validation.TypeObject, Required: true, Fields: []validation.Field{
			{Name: "passwordMinLength", Type: validation.TypeNumber, Required: true, Min: floatPtr(6), Max: floatPtr(20)},
			{Name: "sessionTimeout", Type: validation.TypeNumber, Required: true, Min: floatPtr(5), Max: floatPtr(1440)},
			{Name: "maxLoginAttempts", Type: validation.TypeNumber, Required: true, Min: floatPtr(3), Max: floatPtr(10)},
			{Name: "twoFactorEnabled", Type: validation.TypeBool, Required: true},
			{Name: "ipWhitelist", Type: validation.TypeArray, Elem: &validation.Field{Name: "ipWhitelist", Type: validation.TypeString}},
		}},
		{Name: "notifications", Type: validation.TypeObject, Required: true, Fields: []validation.Field{
			{Name: "emailNotifications", Type: validation.TypeBool, Required: true},
			{Name: "smsNotifications", Type: validation.TypeBool, Required: true},
			{Name: "pushNotifications", Type: validation.TypeBool, Required: true},
			{Name: "adminAlerts", Type: validation.TypeBool, Required: true},
			{Name: "userWelcomeEmail", Type: validation.TypeBool, Required: true},
		}},
		{Name: "appearance", Type: validation.TypeObject, Required: true, Fields: []validation.Field{
			{Name: "theme", Type: validation.TypeString, Required: true, Enum: []string{"light", "dark", "auto"}},
			{Name: "primaryColor", Type: validation.TypeString, Required: true, Format: validation.FormatHexColor},
			{Name: "logoUrl", Type: validation.TypeString, Format: validation.FormatURL, AllowEmpty: true},
			{Name: "faviconUrl", Type: validation.TypeString, Format: validation.FormatURL, AllowEmpty: true},
			{Name: "customCSS", Type: validation.TypeString, AllowEmpty: true},
		}},
		{Name: "integrations", Type: validation.TypeObject, Required: true, Fields: []validation.Field{
			{Name: "googleAnalytics", Type: validation.TypeString, AllowEmpty: true},
			{Name: "facebookPixel", Type: validation.TypeString, AllowEmpty: true},
			{Name: "whatsappNumber", Type: validation.TypeString, AllowEmpty: true},
			{Name: "socialMediaLinks", Type: validation.TypeObject, Required: true, Fields: []validation.Field{
				{Name: "facebook", Type: validation.TypeString, Format: validation.FormatURL, AllowEmpty: true},
				{Name: "twitter", Type: validation.TypeString, Format: validation.FormatURL, AllowEmpty: true},
				{Name: "instagram", Type: validation.TypeString, Format: validation.FormatURL, AllowEmpty: true},
				{Name: "linkedin", Type: validation.TypeString, Format: validation.FormatURL, AllowEmpty: true},
			}},
		}},
	},
}

var patchSettingsSchema = &validation.Schema{
	Fields: []validation.Field{
		{Name: "section", Type: validation.TypeString, Required: true, Enum: []string{
			"general", "security", "notifications", "appearance", "integrations",
		}},
		{Name: "data", Type: validation.TypeObject, Required: true},
	},
}

// DefaultSettings returns the settings served before an admin has saved
// any, and the document written by a reset.
func DefaultSettings() map[string]interface{} {
	return map[string]interface{}{
		"general": map[string]interface{}{
			"siteName":            "مشروع جدة السكني",
			"siteDescription":     "أفضل المشاريع السكنية في جدة",
			"contactEmail":        "info@jeddah-residential.com",
			"supportPhone":        "+966 12 345 6789",
			"maintenanceMode":     false,
			"registrationEnabled": true,
		},
		"security": map[string]interface{}{
			"passwordMinLength": float64(8),
			"sessionTimeout":    float64(30),
			"maxLoginAttempts":  float64(5),
			"twoFactorEnabled":  false,
			"ipWhitelist":       []interface{}{},
		},
		"notifications": map[string]interface{}{
			"emailNotifications": true,
			"smsNotifications":   false,
			"pushNotifications":  true,
			"adminAlerts":        true,
			"userWelcomeEmail":   true,
		},
		"appearance": map[string]interface{}{
			"theme":        "light",
			"primaryColor": "#3b82f6",
			"logoUrl":      "",
			"faviconUrl":   "",
			"customCSS":    "",
		},
		"integrations": map[string]interface{}{
			"googleAnalytics": "",
			"facebookPixel":   "",
			"whatsappNumber":  "+966501234567",
			"socialMediaLinks": map[string]interface{}{
				"facebook":  "",
				"twitter":   "",
				"instagram": "",
				"linkedin":  "",
			},
		},
	}
}
