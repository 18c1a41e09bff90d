package admin

import (
	"encoding/json"
	"fmt"

	"github.com/m3rciful/journalbot/core/telegram/state"
	"github.com/m3rciful/journalbot/internal/catalog"
)

// Step is a state of the add-journal wizard.
type Step string

const (
	StepChooseSubject Step = "choose_subject"
	StepChooseSection Step = "choose_section"
	StepName          Step = "enter_name"
	StepImage         Step = "enter_image"
	StepFrequency     Step = "enter_frequency"
	StepWebsite       Step = "enter_website"
	StepContact       Step = "enter_contact"
	StepRequirements  Step = "enter_requirements"
)

// valueSteps are the steps fed by typed or uploaded input, in order.
var valueSteps = []Step{StepName, StepImage, StepFrequency, StepWebsite, StepContact, StepRequirements}

var stepFields = map[Step]catalog.Field{
	StepName:         catalog.FieldName,
	StepImage:        catalog.FieldImage,
	StepFrequency:    catalog.FieldFrequency,
	StepWebsite:      catalog.FieldWebsite,
	StepContact:      catalog.FieldContact,
	StepRequirements: catalog.FieldRequirements,
}

// Field returns the journal field collected at the step, if any.
func (s Step) Field() (catalog.Field, bool) {
	f, ok := stepFields[s]
	return f, ok
}

// next returns the step after s; the zero Step means commit.
func (s Step) next() Step {
	for i, v := range valueSteps {
		if v == s && i+1 < len(valueSteps) {
			return valueSteps[i+1]
		}
	}
	return ""
}

// Session is the per-administrator conversation state: either an AddSession or
// an EditSession. Starting any flow replaces the previous session.
type Session interface {
	kind() string
}

// AddSession carries the wizard step and the draft collected so far.
type AddSession struct {
	Step  Step          `json:"step"`
	Draft catalog.Draft `json:"draft"`
}

// EditSession carries the journal being edited and, once chosen, the field.
type EditSession struct {
	JournalID int64         `json:"journal_id"`
	Field     catalog.Field `json:"field,omitempty"`
}

func (AddSession) kind() string  { return "add" }
func (EditSession) kind() string { return "edit" }

// SessionStore is the session map keyed by administrator id.
type SessionStore = state.Store[Session]

// NewMemorySessions returns an in-process session map.
func NewMemorySessions() SessionStore {
	return state.NewMemoryStore[Session]()
}

// JSONCodec encodes sessions with a kind tag so Redis can hold them.
type JSONCodec struct{}

type envelope struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// Marshal implements state.Codec.
func (JSONCodec) Marshal(s Session) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("admin: nil session")
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Kind: s.kind(), Data: data})
}

// Unmarshal implements state.Codec.
func (JSONCodec) Unmarshal(b []byte) (Session, error) {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, err
	}
	switch env.Kind {
	case AddSession{}.kind():
		var s AddSession
		if err := json.Unmarshal(env.Data, &s); err != nil {
			return nil, err
		}
		return s, nil
	case EditSession{}.kind():
		var s EditSession
		if err := json.Unmarshal(env.Data, &s); err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("admin: unknown session kind %q", env.Kind)
}
