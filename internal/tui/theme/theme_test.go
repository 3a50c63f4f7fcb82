package theme

import "testing"

func TestByNameFallsBack(t *testing.T) {
	if got := ByName("tokyo-night"); got.Name != "tokyo-night" {
		t.Fatalf("ByName(tokyo-night) = %q", got.Name)
	}
	if got := ByName("no-such-theme"); got.Name != FlexokiDark.Name {
		t.Fatalf("unknown theme should fall back to %q, got %q", FlexokiDark.Name, got.Name)
	}
}

func TestNamesMatchesAll(t *testing.T) {
	names := Names()
	if len(names) != len(All) {
		t.Fatalf("Names() has %d entries, want %d", len(names), len(All))
	}
	for i, n := range names {
		if n != All[i].Name {
			t.Fatalf("Names()[%d] = %q, want %q", i, n, All[i].Name)
		}
	}
}

func TestSigned(t *testing.T) {
	th := FlexokiDark
	if th.Signed(-1) != th.Loss {
		t.Fatal("negative should use Loss")
	}
	if th.Signed(0) != th.Gain || th.Signed(5) != th.Gain {
		t.Fatal("zero and positive should use Gain")
	}
}
