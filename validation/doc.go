// Package validation provides input validation utilities shared by the
// exchange model and the configuration structs.
//
// It supports both struct tag validation (using the validator library) and
// programmatic validation with error collection.
//
// # Struct Tag Validation
//
//	type Endpoints struct {
//	    TokenURL string `mapstructure:"token_url" validate:"required,url"`
//	}
//	err := validation.Struct(cfg)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Check(cfg.Timeout > 0, "timeout", "must be positive")
//	err := v.Err()
package validation
