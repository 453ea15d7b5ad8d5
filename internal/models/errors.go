package models

import "errors"

// ErrValidation marks input that failed validation (e.g. a non-numeric weight).
var ErrValidation = errors.New("validation failed")
