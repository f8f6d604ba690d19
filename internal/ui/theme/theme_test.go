package theme

import "testing"

func TestSetHighContrast(t *testing.T) {
	t.Cleanup(func() { SetHighContrast(false) })

	SetHighContrast(true)
	if !IsHighContrast() {
		t.Fatal("expected high contrast to be active")
	}
	if Text != HighContrast.Text || Primary != HighContrast.Primary {
		t.Error("expected active colors to come from the high-contrast palette")
	}

	SetHighContrast(false)
	if IsHighContrast() {
		t.Fatal("expected high contrast to be off")
	}
	if Text != Default.Text || Border != Default.Border {
		t.Error("expected active colors to come from the default palette")
	}
}
