package action

import (
	"testing"

	"github.com/m3rciful/journalbot/internal/catalog"
)

func TestNavPayloadRoundTrip(t *testing.T) {
	n := Nav{Subject: 3, Section: 2, Page: 1}
	if got := n.Payload(); got != "3:2:1" {
		t.Fatalf("Payload = %q", got)
	}
	back, err := ParseNav(n.Payload())
	if err != nil || back != n {
		t.Fatalf("ParseNav = %+v, %v", back, err)
	}
	if got := (Nav{Subject: 3, Section: 2}).Payload(); got != "3:2" {
		t.Fatalf("pair payload = %q", got)
	}
}

func TestParseNavRejectsBadPayloads(t *testing.T) {
	for _, p := range []string{"", "3:2", "3:2:0", "a:b:c", "1:2:3:4"} {
		if _, err := ParseNav(p); err == nil {
			t.Fatalf("ParseNav(%q) accepted", p)
		}
	}
}

func TestJournalPayload(t *testing.T) {
	id, page, err := ParseJournal(JournalPayload(9, 3))
	if err != nil || id != 9 || page != 3 {
		t.Fatalf("ParseJournal = %d, %d, %v", id, page, err)
	}
	id, page, err = ParseJournal("9")
	if err != nil || id != 9 || page != 1 {
		t.Fatalf("bare id = %d, %d, %v", id, page, err)
	}
}

func TestFieldPayload(t *testing.T) {
	p := FieldPayload(12, catalog.FieldWebsite)
	id, f, err := ParseFieldPayload(p)
	if err != nil || id != 12 || f != catalog.FieldWebsite {
		t.Fatalf("ParseFieldPayload(%q) = %d, %q, %v", p, id, f, err)
	}
	if _, _, err := ParseFieldPayload("12:colour"); err == nil {
		t.Fatal("unknown field accepted")
	}
	if _, _, err := ParseFieldPayload("12"); err == nil {
		t.Fatal("missing field accepted")
	}
}

func TestActionKindsAreUnique(t *testing.T) {
	seen := map[string]bool{CheckSub: true}
	for _, k := range append(append([]string{}, Browse...), Admin...) {
		if seen[k] {
			t.Fatalf("duplicate action kind %q", k)
		}
		seen[k] = true
	}
}
