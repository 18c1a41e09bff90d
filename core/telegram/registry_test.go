package telegram

import (
	"errors"
	"testing"

	"github.com/m3rciful/journalbot/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

func noop(tele.Context) error { return nil }

func TestRegistryCommands(t *testing.T) {
	reg := NewRegistry()
	for name, cmd := range map[string]commands.Command{
		"/start": {Handler: noop, Description: "start"},
		"/admin": {Handler: noop, Description: "panel", AdminOnly: true, Aliases: []string{"panel"}},
		"/debug": {Handler: noop, Description: "debug", Hidden: true},
	} {
		if err := reg.RegisterCommand(name, cmd); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}
	if err := reg.RegisterCommand("help", commands.Command{Handler: noop, Description: "no slash"}); !errors.Is(err, ErrInvalidRegistration) {
		t.Fatalf("missing slash: %v", err)
	}
	if err := reg.RegisterCommand("/start", commands.Command{Handler: noop, Description: "again"}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate: %v", err)
	}
	if key, _, ok := reg.LookupCommand("/panel"); !ok || key != "/admin" {
		t.Fatalf("alias lookup = %q, %v", key, ok)
	}

	public := reg.ListCommands(true)
	if len(public) != 1 || public[0].Text != "start" {
		t.Fatalf("public commands = %+v", public)
	}
	if all := reg.ListCommands(false); len(all) != 3 {
		t.Fatalf("all commands = %d, want 3", len(all))
	}
	if key, _, ok := reg.LookupCommand("admin"); !ok || key != "/admin" {
		t.Fatalf("LookupCommand(admin) = %q, %v", key, ok)
	}
}

func TestRegistryCallbacks(t *testing.T) {
	reg := NewRegistry()
	if err := reg.RegisterCallback("list", noop); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.RegisterCallback("list", noop); err == nil {
		t.Fatal("duplicate registration must fail")
	}
	if err := reg.RegisterCallback("", noop); err == nil {
		t.Fatal("empty key must fail")
	}
	if _, ok := reg.GetCallback("list"); !ok {
		t.Fatal("callback not found")
	}
	if got := reg.ListCallbacks(); len(got) != 1 || got[0] != "list" {
		t.Fatalf("ListCallbacks = %v", got)
	}
}
