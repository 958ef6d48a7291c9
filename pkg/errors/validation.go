package errors

import (
	"strings"
	"unicode"
)

const (
	newnessNew = "NEW"
	newnessOld = "OLD"
)

// ValidateScale checks a drawing scale denominator (the 100 in 1/100).
func ValidateScale(scale float64) error {
	if scale <= 0 {
		return New(ErrCodeInvalidInput, "scale must be positive, got %g", scale)
	}
	if scale > 100000 {
		return New(ErrCodeInvalidInput, "scale 1/%g is out of range", scale)
	}
	return nil
}

// ValidatePipeSize checks a nominal pipe diameter in millimetres.
func ValidatePipeSize(size float64) error {
	if size <= 0 || size != float64(int(size)) {
		return New(ErrCodeInvalidInput, "pipe size must be a positive whole number of millimetres, got %g", size)
	}
	return nil
}

// ValidateNewness checks a pipe newness flag: NEW or OLD.
func ValidateNewness(s string) error {
	if s != newnessNew && s != newnessOld {
		return New(ErrCodeInvalidInput, "pipe newness must be %s or %s, got %q", newnessNew, newnessOld, s)
	}
	return nil
}

// ValidatePath validates an output path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 1024 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}
	if len(path) > 1024 {
		return New(ErrCodeInvalidPath, "path too long (max 1024 characters)")
	}
	if strings.ContainsRune(path, 0) {
		return New(ErrCodeInvalidPath, "path contains null byte")
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid control characters")
		}
	}
	return nil
}
