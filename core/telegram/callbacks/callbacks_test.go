package callbacks

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

func TestParseRawCallbackData(t *testing.T) {
	key, payload := Parse(&tele.Callback{Data: "\flist|3:2:1"})
	if key != "list" || payload != "3:2:1" {
		t.Fatalf("Parse = (%q, %q), want (list, 3:2:1)", key, payload)
	}
}

func TestParsePrefersUnique(t *testing.T) {
	key, payload := Parse(&tele.Callback{Unique: "journal", Data: "17"})
	if key != "journal" || payload != "17" {
		t.Fatalf("Parse = (%q, %q), want (journal, 17)", key, payload)
	}
}

func TestParseWithoutPayload(t *testing.T) {
	key, payload := Parse(&tele.Callback{Data: "\fsubjects"})
	if key != "subjects" || payload != "" {
		t.Fatalf("Parse = (%q, %q), want (subjects, \"\")", key, payload)
	}
	if k, p := Parse(nil); k != "" || p != "" {
		t.Fatalf("Parse(nil) = (%q, %q)", k, p)
	}
}

func TestParseInt64s(t *testing.T) {
	ids, err := ParseInt64s(JoinInt64s(3, 2, 1), 3)
	if err != nil {
		t.Fatalf("ParseInt64s: %v", err)
	}
	if ids[0] != 3 || ids[1] != 2 || ids[2] != 1 {
		t.Fatalf("unexpected ids %v", ids)
	}
	if _, err := ParseInt64s("3:2", 3); err == nil {
		t.Fatal("expected token count error")
	}
	if _, err := ParseInt64s("3:x:1", 3); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := ParseInt64s("", 1); err == nil {
		t.Fatal("expected error on empty payload")
	}
}
