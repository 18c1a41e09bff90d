package catalog

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateNameBoundaries(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		wantErr error
	}{
		{"two chars", "ab", ErrNameTooShort},
		{"three chars", "abc", nil},
		{"padded two chars", "   ab   ", ErrNameTooShort},
		{"two hundred", strings.Repeat("a", 200), nil},
		{"two hundred and one", strings.Repeat("a", 201), ErrNameTooLong},
		{"runes not bytes", strings.Repeat("oʻ", 100), nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ValidateName(tc.in)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("ValidateName(%q) err = %v, want %v", tc.in, err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateName(%q) unexpected err: %v", tc.in, err)
			}
			if got != strings.TrimSpace(tc.in) {
				t.Fatalf("ValidateName(%q) = %q, want trimmed input", tc.in, got)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	ok := []string{
		"https://journal.uz",
		"http://example.com/path?x=1",
		"https://sub.domain.org:8080/a/b",
		"http://localhost",
		"http://127.0.0.1:3000/",
		"HTTPS://EXAMPLE.COM",
	}
	for _, in := range ok {
		if _, err := ValidateURL(in); err != nil {
			t.Errorf("ValidateURL(%q) unexpected err: %v", in, err)
		}
	}
	bad := []string{
		"ftp://x",
		"journal.uz",
		"https://",
		"https://bad host.com",
		"mailto:a@b.co",
		"",
	}
	for _, in := range bad {
		if _, err := ValidateURL(in); !errors.Is(err, ErrInvalidURL) {
			t.Errorf("ValidateURL(%q) err = %v, want ErrInvalidURL", in, err)
		}
	}
}

func TestValidateContact(t *testing.T) {
	ok := []string{"mailto:a@b.co", "mailto:editor.office+1@journal.uz", "https://t.me/editor"}
	for _, in := range ok {
		if _, err := ValidateContact(in); err != nil {
			t.Errorf("ValidateContact(%q) unexpected err: %v", in, err)
		}
	}
	bad := []string{"a@b.co", "mailto:a@b", "mailto:", "ftp://x", "t.me/editor"}
	for _, in := range bad {
		if _, err := ValidateContact(in); !errors.Is(err, ErrInvalidContact) {
			t.Errorf("ValidateContact(%q) err = %v, want ErrInvalidContact", in, err)
		}
	}
}

func TestValidateTextByField(t *testing.T) {
	if _, err := ValidateText(FieldImage, "anything"); !errors.Is(err, ErrImageRequired) {
		t.Fatalf("image field err = %v, want ErrImageRequired", err)
	}
	if _, err := ValidateText(FieldFrequency, "  "); !errors.Is(err, ErrEmptyValue) {
		t.Fatalf("blank frequency err = %v, want ErrEmptyValue", err)
	}
	if got, err := ValidateText(FieldFrequency, " Oyiga 1 marta "); err != nil || got != "Oyiga 1 marta" {
		t.Fatalf("frequency = %q, %v", got, err)
	}
	if _, err := ValidateText(FieldRequirements, "mailto:a@b.co"); !errors.Is(err, ErrInvalidURL) {
		t.Fatalf("requirements accepts mailto: err = %v", err)
	}
	if _, err := ValidateText(Field("issn"), "x"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("unknown field err = %v", err)
	}
}

func TestParseField(t *testing.T) {
	for _, f := range Fields {
		got, err := ParseField(" " + strings.ToUpper(string(f)) + " ")
		if err != nil || got != f {
			t.Fatalf("ParseField(%q) = %q, %v", f, got, err)
		}
	}
	if _, err := ParseField("name; DROP TABLE journals"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("ParseField accepted injection: %v", err)
	}
}
