package keyboard

import "testing"

func TestChunkedRows(t *testing.T) {
	buttons := []InlineBtn{
		{Text: "a", Unique: "subject", Data: "1"},
		{Text: "b", Unique: "subject", Data: "2"},
		{Text: "c", Unique: "subject", Data: "3"},
	}
	markup := InlineButtonsRows(Chunk(buttons, 2)...)
	if len(markup.InlineKeyboard) != 2 {
		t.Fatalf("rows = %d, want 2", len(markup.InlineKeyboard))
	}
	if len(markup.InlineKeyboard[0]) != 2 || len(markup.InlineKeyboard[1]) != 1 {
		t.Fatalf("unexpected row sizes %d/%d", len(markup.InlineKeyboard[0]), len(markup.InlineKeyboard[1]))
	}
	if got := markup.InlineKeyboard[1][0]; got.Unique != "subject" || got.Data != "3" {
		t.Fatalf("unexpected button %+v", got)
	}
}

func TestURLButtonAndEmptyRows(t *testing.T) {
	markup := InlineButtonsRows(
		nil,
		[]InlineBtn{{Text: "site", URL: "https://journal.uz"}},
	)
	if len(markup.InlineKeyboard) != 1 {
		t.Fatalf("rows = %d, want 1", len(markup.InlineKeyboard))
	}
	btn := markup.InlineKeyboard[0][0]
	if btn.URL != "https://journal.uz" || btn.Data != "" {
		t.Fatalf("unexpected url button %+v", btn)
	}
}

func TestCancelButton(t *testing.T) {
	btn := CancelButton("adm_cancel")
	if btn.Text != defaultCancelButtonText || btn.Unique != "adm_cancel" || btn.Data != "" {
		t.Fatalf("unexpected cancel button %+v", btn)
	}
	btn = CancelButton("del_cancel", "4:2", "Ortga")
	if btn.Text != "Ortga" || btn.Data != "4:2" {
		t.Fatalf("unexpected cancel override %+v", btn)
	}
}
