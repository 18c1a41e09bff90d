// Package action names the callback actions of the bot and encodes their
// coordinates. The telebot unique carries the kind; the payload carries ids as
// colon separated positional tokens.
package action

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/m3rciful/journalbot/core/telegram/callbacks"
	"github.com/m3rciful/journalbot/core/telegram/keyboard"
	"github.com/m3rciful/journalbot/internal/catalog"
)

// Browser actions.
const (
	Subjects = "subjects"
	Subject  = "subject"
	List     = "list"
	Journal  = "journal"
	BackList = "back_list"
	PageNoop = "page_noop"
	CheckSub = "check_sub"
)

// Admin actions.
const (
	AdminMenu   = "adm_menu"
	AdminStats  = "adm_stats"
	AdminCancel = "adm_cancel"

	AddStart   = "adm_add"
	AddSubject = "add_subject"
	AddSection = "add_section"
	AddSkip    = "add_skip"

	EditStart   = "adm_edit"
	EditSubject = "edit_subject"
	EditSection = "edit_section"
	EditJournal = "edit_journal"
	EditField   = "edit_field"
	EditClear   = "edit_clear"

	DeleteStart   = "adm_delete"
	DeleteSubject = "del_subject"
	DeleteSection = "del_section"
	DeleteJournal = "del_journal"
	DeleteConfirm = "del_confirm"
	DeleteCancel  = "del_cancel"
)

// Browse lists the actions subject to the subscription gate.
var Browse = []string{Subjects, Subject, List, Journal, BackList, PageNoop}

// Admin lists every administrator action.
var Admin = []string{
	AdminMenu, AdminStats, AdminCancel,
	AddStart, AddSubject, AddSection, AddSkip,
	EditStart, EditSubject, EditSection, EditJournal, EditField, EditClear,
	DeleteStart, DeleteSubject, DeleteSection, DeleteJournal, DeleteConfirm, DeleteCancel,
}

// Nav addresses a section listing of one subject. Page is 1-indexed; zero means
// the coordinate carries no page.
type Nav struct {
	Subject int64
	Section int64
	Page    int
}

// Payload encodes subject:section[:page].
func (n Nav) Payload() string {
	if n.Page == 0 {
		return callbacks.JoinInt64s(n.Subject, n.Section)
	}
	return callbacks.JoinInt64s(n.Subject, n.Section, int64(n.Page))
}

// WithPage returns a copy pointing at page p.
func (n Nav) WithPage(p int) Nav {
	n.Page = p
	return n
}

// ParseNav decodes subject:section:page.
func ParseNav(payload string) (Nav, error) {
	ids, err := callbacks.ParseInt64s(payload, 3)
	if err != nil {
		return Nav{}, err
	}
	if ids[2] < 1 {
		return Nav{}, fmt.Errorf("payload %q: page must be >= 1", payload)
	}
	return Nav{Subject: ids[0], Section: ids[1], Page: int(ids[2])}, nil
}

// ParsePair decodes subject:section.
func ParsePair(payload string) (Nav, error) {
	ids, err := callbacks.ParseInt64s(payload, 2)
	if err != nil {
		return Nav{}, err
	}
	return Nav{Subject: ids[0], Section: ids[1]}, nil
}

// ParseID decodes a single id.
func ParseID(payload string) (int64, error) {
	ids, err := callbacks.ParseInt64s(payload, 1)
	if err != nil {
		return 0, err
	}
	return ids[0], nil
}

// JournalPayload encodes journal:page so the detail view can return to the page it came from.
func JournalPayload(journalID int64, page int) string {
	return callbacks.JoinInt64s(journalID, int64(page))
}

// ParseJournal decodes journal:page. A bare journal id maps to page 1.
func ParseJournal(payload string) (int64, int, error) {
	if !strings.Contains(payload, callbacks.PayloadSep) {
		id, err := ParseID(payload)
		return id, 1, err
	}
	ids, err := callbacks.ParseInt64s(payload, 2)
	if err != nil {
		return 0, 0, err
	}
	page := int(ids[1])
	if page < 1 {
		page = 1
	}
	return ids[0], page, nil
}

// FieldPayload encodes journal:field.
func FieldPayload(journalID int64, f catalog.Field) string {
	return strconv.FormatInt(journalID, 10) + callbacks.PayloadSep + string(f)
}

// ParseFieldPayload decodes journal:field.
func ParseFieldPayload(payload string) (int64, catalog.Field, error) {
	id, name, ok := strings.Cut(payload, callbacks.PayloadSep)
	if !ok {
		return 0, "", fmt.Errorf("payload %q: want journal:field", payload)
	}
	journalID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("payload %q: %w", payload, err)
	}
	f, err := catalog.ParseField(name)
	if err != nil {
		return 0, "", err
	}
	return journalID, f, nil
}

// Button builds a callback button for kind with an already encoded payload.
func Button(text, kind, payload string) keyboard.InlineBtn {
	return keyboard.InlineBtn{Text: text, Unique: kind, Data: payload}
}

// IDButton builds a callback button whose payload is the given ids.
func IDButton(text, kind string, ids ...int64) keyboard.InlineBtn {
	return keyboard.InlineBtn{Text: text, Unique: kind, Data: callbacks.JoinInt64s(ids...)}
}

// Link builds a URL button.
func Link(text, url string) keyboard.InlineBtn {
	return keyboard.InlineBtn{Text: text, URL: url}
}
