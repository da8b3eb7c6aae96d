// Package config provides configuration validation
// with comprehensive error handling
package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed for %s: %s (value: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}

	return fmt.Sprintf("configuration validation failed: %s", strings.Join(messages, "; "))
}

// Has checks if ValidationErrors contains any errors
func (ve ValidationErrors) Has() bool {
	return len(ve) > 0
}

// Validate validates the entire configuration
func (c *Config) Validate() error {
	var validationErrors ValidationErrors

	validationErrors = append(validationErrors, c.validateServer()...)
	validationErrors = append(validationErrors, c.validateGallery()...)
	validationErrors = append(validationErrors, c.validateStorage()...)
	validationErrors = append(validationErrors, c.validateCache()...)
	validationErrors = append(validationErrors, c.validateDatabase()...)
	validationErrors = append(validationErrors, c.validateLogging()...)

	if validationErrors.Has() {
		return validationErrors
	}

	return nil
}

func (c *Config) validateServer() ValidationErrors {
	var errs ValidationErrors

	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		errs = append(errs, ValidationError{
			Field:   "Port",
			Value:   c.Port,
			Message: "must be a number between 1 and 65535",
		})
	}

	if c.Server != nil {
		if c.Server.ReadTimeout <= 0 {
			errs = append(errs, ValidationError{
				Field:   "Server.ReadTimeout",
				Value:   c.Server.ReadTimeout,
				Message: "must be positive",
			})
		}
		if c.Server.WriteTimeout <= 0 {
			errs = append(errs, ValidationError{
				Field:   "Server.WriteTimeout",
				Value:   c.Server.WriteTimeout,
				Message: "must be positive",
			})
		}
	}

	return errs
}

func (c *Config) validateGallery() ValidationErrors {
	var errs ValidationErrors

	for field, raw := range map[string]string{
		"Gallery.ManifestURL": c.Gallery.ManifestURL,
		"Gallery.ListingURL":  c.Gallery.ListingURL,
		"Gallery.BaseURL":     c.Gallery.BaseURL,
	} {
		if raw == "" {
			continue
		}
		if u, err := url.Parse(raw); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, ValidationError{
				Field:   field,
				Value:   raw,
				Message: "must be an absolute http(s) URL",
			})
		}
	}

	if c.Gallery.Workers < 1 {
		errs = append(errs, ValidationError{
			Field:   "Gallery.Workers",
			Value:   c.Gallery.Workers,
			Message: "must be at least 1",
		})
	}

	if c.Gallery.MaxImageSize < 1 {
		errs = append(errs, ValidationError{
			Field:   "Gallery.MaxImageSize",
			Value:   c.Gallery.MaxImageSize,
			Message: "must be positive",
		})
	}

	if c.Gallery.HTTPTimeout < 0 {
		errs = append(errs, ValidationError{
			Field:   "Gallery.HTTPTimeout",
			Value:   c.Gallery.HTTPTimeout,
			Message: "must not be negative",
		})
	}

	return errs
}

func (c *Config) validateStorage() ValidationErrors {
	var errs ValidationErrors

	if !c.Storage.Enabled {
		return errs
	}

	if c.Storage.Endpoint == "" {
		errs = append(errs, ValidationError{
			Field:   "Storage.Endpoint",
			Value:   c.Storage.Endpoint,
			Message: "required when storage is enabled",
		})
	}

	if c.Storage.BucketName == "" {
		errs = append(errs, ValidationError{
			Field:   "Storage.BucketName",
			Value:   c.Storage.BucketName,
			Message: "required when storage is enabled",
		})
	}

	return errs
}

func (c *Config) validateCache() ValidationErrors {
	var errs ValidationErrors

	if !c.Cache.Enabled {
		return errs
	}

	if c.Cache.Address == "" {
		errs = append(errs, ValidationError{
			Field:   "Cache.Address",
			Value:   c.Cache.Address,
			Message: "required when cache is enabled",
		})
	}

	if c.Cache.DefaultTTL <= 0 {
		errs = append(errs, ValidationError{
			Field:   "Cache.DefaultTTL",
			Value:   c.Cache.DefaultTTL,
			Message: "must be positive",
		})
	}

	return errs
}

func (c *Config) validateDatabase() ValidationErrors {
	var errs ValidationErrors

	if c.DatabaseURL == "" {
		// Database is optional: load-pass auditing is simply disabled.
		return errs
	}

	u, err := url.Parse(c.DatabaseURL)
	if err != nil || (u.Scheme != "postgres" && u.Scheme != "postgresql") {
		errs = append(errs, ValidationError{
			Field:   "DatabaseURL",
			Value:   c.DatabaseURL,
			Message: "must be a postgres:// URL",
		})
	}

	return errs
}

func (c *Config) validateLogging() ValidationErrors {
	var errs ValidationErrors

	if c.Logging == nil {
		return errs
	}

	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "warning": true,
		"error": true, "fatal": true, "panic": true,
	}
	if !validLevels[c.Logging.Level] {
		errs = append(errs, ValidationError{
			Field:   "Logging.Level",
			Value:   c.Logging.Level,
			Message: "must be one of debug, info, warn, error, fatal, panic",
		})
	}

	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		errs = append(errs, ValidationError{
			Field:   "Logging.Format",
			Value:   c.Logging.Format,
			Message: "must be json or console",
		})
	}

	return errs
}
