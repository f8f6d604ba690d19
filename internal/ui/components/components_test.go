package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func key(s string) tea.KeyPressMsg {
	switch s {
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	}
	return tea.KeyPressMsg{Code: rune(s[0]), Text: s}
}

func TestOptionList_CursorMovement(t *testing.T) {
	o := NewOptionList([]string{"a1", "b1", "c1", "d1"})

	o, _ = o.Update(key("up"))
	if o.Cursor != 0 {
		t.Errorf("cursor = %d, want 0 (clamped)", o.Cursor)
	}
	o, _ = o.Update(key("down"))
	o, _ = o.Update(key("down"))
	if o.Highlighted() != "c1" {
		t.Errorf("highlighted = %q, want c1", o.Highlighted())
	}
	o, _ = o.Update(key("4"))
	if o.Cursor != 3 {
		t.Errorf("cursor = %d, want 3", o.Cursor)
	}
	o, _ = o.Update(key("down"))
	if o.Cursor != 3 {
		t.Errorf("cursor = %d, want 3 (clamped)", o.Cursor)
	}
}

func TestLabelIndex(t *testing.T) {
	tests := []struct {
		key  string
		want int
	}{
		{"a", 0}, {"D", 3}, {"1", 0}, {"4", 3}, {"e", -1}, {"5", -1}, {"up", -1},
	}
	for _, tt := range tests {
		if got := LabelIndex(tt.key); got != tt.want {
			t.Errorf("LabelIndex(%q) = %d, want %d", tt.key, got, tt.want)
		}
	}
}

func TestOptionList_ViewMarksReveal(t *testing.T) {
	o := NewOptionList([]string{"Paris", "Rome", "Oslo", "Bern"})
	o.Answer = "Rome"
	o.Correct = "Paris"

	view := o.View(40)
	if !strings.Contains(view, "✓") || !strings.Contains(view, "✗") {
		t.Errorf("expected correct and wrong marks in view:\n%s", view)
	}
	if !o.Revealed() {
		t.Error("expected list to be revealed")
	}
}

func TestMenu_SkipsDisabled(t *testing.T) {
	called := ""
	m := NewMenu([]MenuItem{
		{Label: "Off", Disabled: true},
		{Label: "One", Action: func() tea.Cmd { called = "one"; return nil }},
		{Label: "Off", Disabled: true},
		{Label: "Two", Action: func() tea.Cmd { called = "two"; return nil }},
	})
	if m.Selected != 1 {
		t.Fatalf("Selected = %d, want 1", m.Selected)
	}

	m, _ = m.Update(key("down"))
	if m.Selected != 3 {
		t.Fatalf("Selected = %d, want 3", m.Selected)
	}
	m.Update(key("enter"))
	if called != "two" {
		t.Errorf("called = %q, want two", called)
	}
}

func TestTextInput_NumericOnly(t *testing.T) {
	ti := NewTextInput("Page", "", true, 4)
	ti.Focus()
	ti, _ = ti.Update(key("x"))
	ti, _ = ti.Update(key("7"))
	if ti.Value() != "7" {
		t.Errorf("Value = %q, want 7", ti.Value())
	}
	n, err := ti.NumericValue()
	if err != nil || n != 7 {
		t.Errorf("NumericValue = %d, %v", n, err)
	}
}

func TestProgressBar_ClampsFill(t *testing.T) {
	for _, p := range []float64{-1, 0, 0.5, 1, 2} {
		if NewProgressBar("x", p, true, 30).View() == "" {
			t.Errorf("empty view for percent %v", p)
		}
	}
}
