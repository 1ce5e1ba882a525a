package contract

import "errors"

var (
	ErrModelInvoke     = errors.New("model invoke failed")
	ErrToolInvoke      = errors.New("tool invoke failed")
	ErrToolNotFound    = errors.New("tool not registered")
	ErrPromptNotFound  = errors.New("prompt not found")
	ErrMissingVariable = errors.New("template variable missing")
	ErrValidation      = errors.New("validation failed")
)
