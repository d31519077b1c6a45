package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func testOptions() []Option {
	return []Option{{"", "ללא"}, {"video", "סרטון"}, {"image", "תמונה"}}
}

func TestPickerSelectsCurrentValue(t *testing.T) {
	p := NewPicker("מסך 1", testOptions(), "image")
	if p.Value() != "image" {
		t.Errorf("Value() = %q, want image", p.Value())
	}

	p = NewPicker("מסך 1", testOptions(), "unknown")
	if p.Selected != 0 {
		t.Errorf("Selected = %d, want 0 for unknown value", p.Selected)
	}
}

func TestPickerWraps(t *testing.T) {
	p := NewPicker("מסך 1", testOptions(), "image")
	p.Next()
	if p.Value() != "" {
		t.Errorf("Next from last = %q, want empty option", p.Value())
	}
	p.Prev()
	if p.Value() != "image" {
		t.Errorf("Prev from first = %q, want image", p.Value())
	}
}

func TestPickerUpdateArrows(t *testing.T) {
	p := NewPicker("מסך 1", testOptions(), "")
	p, _ = p.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	if p.Value() != "video" {
		t.Errorf("after right = %q, want video", p.Value())
	}
	p, _ = p.Update(tea.KeyPressMsg{Code: tea.KeyLeft})
	if p.Value() != "" {
		t.Errorf("after left = %q, want empty", p.Value())
	}
	if !strings.Contains(p.View(true), "ללא") {
		t.Error("view should show the selected label")
	}
}

type pressedMsg struct{ label string }

func TestButtonRowPressesFocused(t *testing.T) {
	press := func(label string) func() tea.Cmd {
		return func() tea.Cmd {
			return func() tea.Msg { return pressedMsg{label} }
		}
	}
	r := NewButtonRow(NewButton("הקודם", false, press("prev")), NewButton("הבא", false, press("next")))

	r, _ = r.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	if r.Focus != 1 || !r.Buttons[1].Active || r.Buttons[0].Active {
		t.Fatalf("focus not moved to second button: %+v", r)
	}

	_, cmd := r.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should press the focused button")
	}
	if got := cmd().(pressedMsg).label; got != "next" {
		t.Errorf("pressed %q, want next", got)
	}
}

func TestButtonRowClampsFocus(t *testing.T) {
	r := NewButtonRow(NewButton("א", false, nil))
	r, _ = r.Update(tea.KeyPressMsg{Code: tea.KeyLeft})
	r, _ = r.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	if r.Focus != 0 {
		t.Errorf("Focus = %d, want 0", r.Focus)
	}
}

func TestTextInputFocusAndValue(t *testing.T) {
	in := NewTextInput("נושא", "", 0)
	in, _ = in.Update(tea.KeyPressMsg{Code: 'a', Text: "a"})
	if in.Value() != "" {
		t.Errorf("unfocused input accepted text: %q", in.Value())
	}

	in.Focus()
	in, _ = in.Update(tea.KeyPressMsg{Code: 'a', Text: "a"})
	if in.Value() != "a" {
		t.Errorf("Value() = %q, want a", in.Value())
	}
	if !strings.Contains(in.View(), "נושא") {
		t.Error("view should include the label")
	}
}

func TestStepBarShowsLabels(t *testing.T) {
	out := StepBar([]string{"אחד", "שתיים", "שלוש"}, 2, 40)
	for _, want := range []string{"1. אחד", "2. שתיים", "3. שלוש"} {
		if !strings.Contains(out, want) {
			t.Errorf("StepBar missing %q", want)
		}
	}
}
