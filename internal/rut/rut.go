// Package rut validates and formats Chilean RUT tax identifiers.
//
// A RUT is a digit body followed by a check character computed with the
// modulus-11 scheme. Input is accepted in free form ("12.345.678-5",
// "123456785", "12345678-K"); the canonical form returned by Validate is
// "{body}-{check}" with a lower-case k.
//
// The package has no state and every function is safe for concurrent use.
package rut

import (
	"errors"
	"strconv"
	"strings"
)

// ErrInvalid is returned for malformed input and for check-digit mismatches.
// Both cases deliberately collapse into this single error.
var ErrInvalid = errors.New("invalid rut")

// TaxID is a parsed RUT: the digit body and the check character as given.
type TaxID struct {
	Body  string
	Check byte
}

// String renders t in canonical form.
func (t TaxID) String() string {
	return t.Body + "-" + string(t.Check)
}

// Parse normalizes raw and splits it into body and check character without
// verifying the check digit.
//
// Normalization keeps only ASCII decimal digits and the letter k (either
// case). A k is kept only when it is the final kept character.
func Parse(raw string) (TaxID, error) {
	if raw == "" {
		return TaxID{}, ErrInvalid
	}

	cleaned := clean(raw)
	if len(cleaned) < 2 {
		return TaxID{}, ErrInvalid
	}

	return TaxID{Body: cleaned[:len(cleaned)-1], Check: cleaned[len(cleaned)-1]}, nil
}

func clean(raw string) string {
	kept := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c == 'K' {
			c = 'k'
		}
		if (c >= '0' && c <= '9') || c == 'k' {
			kept = append(kept, c)
		}
	}

	// k is only meaningful as the check character
	out := kept[:0]
	for i, c := range kept {
		if c == 'k' && i != len(kept)-1 {
			continue
		}
		out = append(out, c)
	}
	return string(out)
}

// CheckDigit computes the modulus-11 check character for a body of decimal
// digits. Weights 2..7 are applied from the least significant digit and wrap
// back to 2 after 7.
func CheckDigit(body string) (byte, error) {
	if body == "" {
		return 0, ErrInvalid
	}

	sum, weight := 0, 2
	for i := len(body) - 1; i >= 0; i-- {
		c := body[i]
		if c < '0' || c > '9' {
			return 0, ErrInvalid
		}
		sum += int(c-'0') * weight
		weight++
		if weight > 7 {
			weight = 2
		}
	}

	switch r := 11 - sum%11; r {
	case 11:
		return '0', nil
	case 10:
		return 'k', nil
	default:
		return strconv.Itoa(r)[0], nil
	}
}

// Validate verifies the check digit of raw and returns its canonical form
// "{body}-{check}". Any failure yields ErrInvalid.
func Validate(raw string) (string, error) {
	id, err := Parse(raw)
	if err != nil {
		return "", err
	}

	expected, err := CheckDigit(id.Body)
	if err != nil {
		return "", ErrInvalid
	}
	if expected != id.Check {
		return "", ErrInvalid
	}

	return TaxID{Body: id.Body, Check: expected}.String(), nil
}

// IsValid reports whether raw carries a correct check digit.
func IsValid(raw string) bool {
	_, err := Validate(raw)
	return err == nil
}

// Format validates raw and renders the display form with thousands
// separators, e.g. "12.345.678-5".
func Format(raw string) (string, error) {
	canonical, err := Validate(raw)
	if err != nil {
		return "", err
	}

	body, check := canonical[:len(canonical)-2], canonical[len(canonical)-1:]

	var b strings.Builder
	lead := len(body) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(body[:lead])
	for i := lead; i < len(body); i += 3 {
		b.WriteByte('.')
		b.WriteString(body[i : i+3])
	}
	b.WriteByte('-')
	b.WriteString(check)

	return b.String(), nil
}
