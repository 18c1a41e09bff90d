// Package catalog holds the journal catalog: subjects, regional sections and the
// journals filed under them, together with the validation rules shared by every
// flow that writes a journal.
package catalog

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a subject, section or journal id does not exist.
	ErrNotFound = errors.New("catalog: not found")
	// ErrInvalidReference is returned when a journal would point at a missing subject or section.
	ErrInvalidReference = errors.New("catalog: invalid subject or section reference")
	// ErrUnknownField is returned for field names outside the editable set.
	ErrUnknownField = errors.New("catalog: unknown field")
)

// Subject is a top level catalog category (a field of science).
type Subject struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

// Section groups journals by the region of publication.
type Section struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

// SectionCount pairs a section with the number of journals it holds for one subject.
type SectionCount struct {
	Section
	Journals int `db:"journals"`
}

// Journal is a catalog item. Optional fields are nil when not provided.
type Journal struct {
	ID               int64     `db:"id"`
	SubjectID        int64     `db:"subject_id"`
	SectionID        int64     `db:"section_id"`
	Name             string    `db:"name"`
	ImageRef         *string   `db:"image_ref"`
	Frequency        *string   `db:"frequency"`
	WebsiteURL       *string   `db:"website_url"`
	ContactLink      *string   `db:"contact_link"`
	RequirementsLink *string   `db:"requirements_link"`
	CreatedAt        time.Time `db:"created_at"`
}

// JournalDetail is a journal joined with its subject and section names.
type JournalDetail struct {
	Journal
	SubjectName string `db:"subject_name"`
	SectionName string `db:"section_name"`
}

// Draft accumulates the fields of a journal that has not been created yet.
type Draft struct {
	SubjectID        int64   `json:"subject_id"`
	SectionID        int64   `json:"section_id"`
	Name             string  `json:"name,omitempty"`
	ImageRef         *string `json:"image_ref,omitempty"`
	Frequency        *string `json:"frequency,omitempty"`
	WebsiteURL       *string `json:"website_url,omitempty"`
	ContactLink      *string `json:"contact_link,omitempty"`
	RequirementsLink *string `json:"requirements_link,omitempty"`
}

// Set stores value into the draft field f. A nil value clears the field.
func (d *Draft) Set(f Field, value *string) error {
	switch f {
	case FieldName:
		if value == nil {
			return fmt.Errorf("catalog: name cannot be empty")
		}
		d.Name = *value
	case FieldImage:
		d.ImageRef = value
	case FieldFrequency:
		d.Frequency = value
	case FieldWebsite:
		d.WebsiteURL = value
	case FieldContact:
		d.ContactLink = value
	case FieldRequirements:
		d.RequirementsLink = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
	return nil
}

// Field names an editable journal attribute.
type Field string

const (
	FieldName         Field = "name"
	FieldImage        Field = "image"
	FieldFrequency    Field = "frequency"
	FieldWebsite      Field = "website"
	FieldContact      Field = "contact"
	FieldRequirements Field = "requirements"
)

// Fields lists the editable fields in display order.
var Fields = []Field{FieldName, FieldImage, FieldFrequency, FieldWebsite, FieldContact, FieldRequirements}

var fieldColumns = map[Field]string{
	FieldName:         "name",
	FieldImage:        "image_ref",
	FieldFrequency:    "frequency",
	FieldWebsite:      "website_url",
	FieldContact:      "contact_link",
	FieldRequirements: "requirements_link",
}

// ParseField maps a field name to a Field.
func ParseField(s string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := fieldColumns[f]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
	}
	return f, nil
}

// Column returns the storage column backing the field.
func (f Field) Column() (string, error) {
	col, ok := fieldColumns[f]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
	return col, nil
}

// Optional reports whether the field may be left empty.
func (f Field) Optional() bool { return f != FieldName }

// TakesImage reports whether the field is filled by an image upload rather than text.
func (f Field) TakesImage() bool { return f == FieldImage }

// Stats summarises catalog contents.
type Stats struct {
	Subjects           int    `db:"subjects"`
	Sections           int    `db:"sections"`
	Journals           int    `db:"journals"`
	TopSubject         string `db:"top_subject"`
	TopSubjectJournals int    `db:"top_subject_journals"`
}
