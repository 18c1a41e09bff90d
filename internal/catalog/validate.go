package catalog

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// NameMinLen and NameMaxLen bound a journal name, counted in runes after trimming.
	NameMinLen = 3
	NameMaxLen = 200
)

var (
	ErrNameTooShort   = errors.New("catalog: name too short")
	ErrNameTooLong    = errors.New("catalog: name too long")
	ErrInvalidURL     = errors.New("catalog: invalid url")
	ErrInvalidContact = errors.New("catalog: invalid contact link")
	ErrEmptyValue     = errors.New("catalog: empty value")
	// ErrImageRequired is returned when a text value is offered for the image field.
	ErrImageRequired = errors.New("catalog: image expected")
)

var (
	urlRe = regexp.MustCompile(`(?i)^https?://` +
		`(?:(?:[A-Z0-9](?:[A-Z0-9-]{0,61}[A-Z0-9])?\.)+[A-Z]{2,6}\.?|` +
		`localhost|` +
		`\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})` +
		`(?::\d+)?` +
		`(?:/?|[/?]\S+)$`)
	mailtoRe = regexp.MustCompile(`^mailto:[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// ValidateName trims s and checks its length.
func ValidateName(s string) (string, error) {
	name := strings.TrimSpace(s)
	n := utf8.RuneCountInString(name)
	switch {
	case n < NameMinLen:
		return "", fmt.Errorf("%w: %d < %d", ErrNameTooShort, n, NameMinLen)
	case n > NameMaxLen:
		return "", fmt.Errorf("%w: %d > %d", ErrNameTooLong, n, NameMaxLen)
	}
	return name, nil
}

// ValidateURL accepts absolute http and https URLs with a domain, localhost or IPv4 host.
func ValidateURL(s string) (string, error) {
	u := strings.TrimSpace(s)
	if !urlRe.MatchString(u) {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, u)
	}
	return u, nil
}

// ValidateContact accepts a mailto: address or anything ValidateURL accepts.
func ValidateContact(s string) (string, error) {
	c := strings.TrimSpace(s)
	if mailtoRe.MatchString(c) {
		return c, nil
	}
	if urlRe.MatchString(c) {
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidContact, c)
}

// ValidateText checks a text value offered for field f and returns its stored form.
func ValidateText(f Field, s string) (string, error) {
	switch f {
	case FieldName:
		return ValidateName(s)
	case FieldWebsite, FieldRequirements:
		return ValidateURL(s)
	case FieldContact:
		return ValidateContact(s)
	case FieldFrequency:
		v := strings.TrimSpace(s)
		if v == "" {
			return "", ErrEmptyValue
		}
		return v, nil
	case FieldImage:
		return "", ErrImageRequired
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, f)
}
