// Package config provides environment-variable loaders with validation and
// fall-back-to-default behavior shared by every component of the service.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// ConfigLoadResult represents the result of loading a configuration value.
// It contains the loaded value, any warnings generated during loading,
// and a flag indicating whether a fallback value was used.
//
// Example:
//
//	result := LoadEnvDuration("MOUNT_TTL", 30*time.Minute, func(d time.Duration) error {
//	    return ValidateDuration(d, time.Minute, 24*time.Hour)
//	})
//	if result.FallbackApplied {
//	    for _, warning := range result.Warnings {
//	        logger.Warn("configuration warning", slog.String("warning", warning))
//	    }
//	}
//	ttl := result.Value.(time.Duration)
type ConfigLoadResult struct {
	Value           interface{}
	Warnings        []string
	FallbackApplied bool
}

// LoadEnvString loads a string value from an environment variable.
// If the environment variable is not set, the default value is returned.
// No validation is performed.
func LoadEnvString(envKey, defaultValue string) string {
	value := os.Getenv(envKey)
	if value == "" {
		return defaultValue
	}
	return value
}

// LoadEnvStringList loads a comma-separated list. Items are trimmed and empty items dropped.
// If the variable is unset or yields no items, defaultValue is returned.
func LoadEnvStringList(envKey string, defaultValue []string) []string {
	value := strings.TrimSpace(os.Getenv(envKey))
	if value == "" {
		return defaultValue
	}

	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			items = append(items, p)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}

// LoadEnvWithFallback loads a string value from an environment variable
// with validation and automatic fallback to default on validation failure.
//
// This function never returns an error. Validation failures result in warnings, not errors.
//
// Warning format:
//
//	"Invalid {envKey}='{value}': {error}, falling back to default '{default}'"
func LoadEnvWithFallback(envKey, defaultValue string, validator func(string) error) ConfigLoadResult {
	value := os.Getenv(envKey)

	if value == "" {
		return ConfigLoadResult{Value: defaultValue}
	}

	if validator != nil {
		if err := validator(value); err != nil {
			return fallback(envKey, value, err, defaultValue)
		}
	}

	return ConfigLoadResult{Value: value}
}

// LoadEnvDuration loads a time.Duration value from an environment variable.
// The value must be parseable by time.ParseDuration. Parse and validation
// failures fall back to defaultValue with a warning.
func LoadEnvDuration(envKey string, defaultValue time.Duration, validator func(time.Duration) error) ConfigLoadResult {
	valueStr := os.Getenv(envKey)

	if valueStr == "" {
		return ConfigLoadResult{Value: defaultValue}
	}

	parsedDuration, err := time.ParseDuration(valueStr)
	if err != nil {
		return fallback(envKey, valueStr, err, defaultValue)
	}

	if validator != nil {
		if err := validator(parsedDuration); err != nil {
			return fallback(envKey, valueStr, err, defaultValue)
		}
	}

	return ConfigLoadResult{Value: parsedDuration}
}

// LoadEnvInt loads an integer value from an environment variable.
// Parse and validation failures fall back to defaultValue with a warning.
func LoadEnvInt(envKey string, defaultValue int, validator func(int) error) ConfigLoadResult {
	valueStr := os.Getenv(envKey)

	if valueStr == "" {
		return ConfigLoadResult{Value: defaultValue}
	}

	var parsedInt int
	if _, err := fmt.Sscanf(valueStr, "%d", &parsedInt); err != nil {
		return fallback(envKey, valueStr, fmt.Errorf("invalid integer format"), defaultValue)
	}

	if validator != nil {
		if err := validator(parsedInt); err != nil {
			return fallback(envKey, valueStr, err, defaultValue)
		}
	}

	return ConfigLoadResult{Value: parsedInt}
}

// LoadEnvBool loads a boolean value from an environment variable.
//
// Accepted true values: "1", "t", "T", "true", "TRUE", "True"
// Accepted false values: "0", "f", "F", "false", "FALSE", "False"
func LoadEnvBool(envKey string, defaultValue bool) ConfigLoadResult {
	valueStr := os.Getenv(envKey)

	if valueStr == "" {
		return ConfigLoadResult{Value: defaultValue}
	}

	switch valueStr {
	case "1", "t", "T", "true", "TRUE", "True":
		return ConfigLoadResult{Value: true}
	case "0", "f", "F", "false", "FALSE", "False":
		return ConfigLoadResult{Value: false}
	default:
		return fallback(envKey, valueStr, fmt.Errorf("invalid boolean format, expected 'true' or 'false'"), defaultValue)
	}
}

func fallback(envKey, value string, err error, defaultValue interface{}) ConfigLoadResult {
	warning := fmt.Sprintf(
		"Invalid %s='%s': %v, falling back to default '%v'",
		envKey,
		value,
		err,
		defaultValue,
	)
	return ConfigLoadResult{
		Value:           defaultValue,
		Warnings:        []string{warning},
		FallbackApplied: true,
	}
}
