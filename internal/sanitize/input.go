package sanitize

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"unicode"
	"unicode/utf8"
)

var (
	// DefaultMaxInputSize is 64KB of tape.
	DefaultMaxInputSize = 64 * 1024
	// EnvMaxInputSize is the environment variable to override the default
	EnvMaxInputSize = "TURING_MAX_INPUT_SIZE"
)

var (
	ErrInputTooLarge    = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8      = errors.New("input contains invalid UTF-8 sequences")
	ErrControlCharacter = errors.New("input contains control characters")
)

// Input checks a tape received from a remote caller. Offending input is
// rejected, never rewritten.
func Input(input string) error {
	limit := maxInputSize()
	if len(input) > limit {
		return fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}

	if !utf8.ValidString(input) {
		return ErrInvalidUTF8
	}

	for i, r := range input {
		if unicode.IsControl(r) && r != '\t' {
			return fmt.Errorf("%w: %U at byte %d", ErrControlCharacter, r, i)
		}
	}
	return nil
}

func maxInputSize() int {
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}
