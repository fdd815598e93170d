package normalize

import "testing"

func TestKey(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"1234", "1234"},
		{"1234.0", "1234"},
		{"1234.00", "1234"},
		{" 1234 ", "1234"},
		{"  1234.0  ", "1234"},
		{"1234.5", "1234.5"},
		{"1234.50", "1234.50"}, // trailing zero after non-zero digit is not a zero suffix
		{"2000#1", "2000#1"},
		{"3000-2", "3000-2"},
		{"ABC.0", "ABC.0"}, // non-numeric prefix keeps its suffix
		{"", ""},
		{"   ", ""},
		{"null", ""},
		{"NULL", ""},
		{"None", ""},
		{"nan", ""},
		{".0", ".0"}, // no integer part, leave alone
	}

	for _, tc := range testCases {
		if got := Key(tc.in); got != tc.want {
			t.Errorf("Key(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestKeyIdempotent(t *testing.T) {
	inputs := []string{"1234.0", " 55 ", "2000#1", "3000-2", "null", "", "12.00", "abc"}
	for _, in := range inputs {
		once := Key(in)
		twice := Key(once)
		if once != twice {
			t.Errorf("Key not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestHasSerialMarker(t *testing.T) {
	testCases := []struct {
		key  string
		want bool
	}{
		{"2000#1", true},
		{"2000#12", true},
		{"2000#", false},
		{"2000", false},
		{"#5", true},
		{"2000#1x", false},
	}

	for _, tc := range testCases {
		if got := HasSerialMarker(tc.key); got != tc.want {
			t.Errorf("HasSerialMarker(%q) = %v, want %v", tc.key, got, tc.want)
		}
	}
}

func TestHasStoreSlot(t *testing.T) {
	testCases := []struct {
		key  string
		want bool
	}{
		{"3000-1", true},
		{"3000-2", true},
		{"3000-4", true},
		{"3000-5", false},
		{"3000-", false},
		{"3000", false},
		{"3000-22", false}, // slot marker is a single digit suffix
	}

	for _, tc := range testCases {
		if got := HasStoreSlot(tc.key); got != tc.want {
			t.Errorf("HasStoreSlot(%q) = %v, want %v", tc.key, got, tc.want)
		}
	}
}

func TestIsFullTag(t *testing.T) {
	testCases := []struct {
		tag  string
		want bool
	}{
		{"3039303030303030303030A1", true},
		{"3039303030303030303030a1", true},
		{"303930303030303030", false},      // too short
		{"3039303030303030303030A1FF", false}, // too long
		{"GGGG03030303030303030301", false},   // non-hex
		{"", false},
	}

	for _, tc := range testCases {
		if got := IsFullTag(tc.tag); got != tc.want {
			t.Errorf("IsFullTag(%q) = %v, want %v", tc.tag, got, tc.want)
		}
	}
}
