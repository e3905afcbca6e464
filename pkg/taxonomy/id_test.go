package taxonomy

import "testing"

func TestParse_Valid(t *testing.T) {
	cases := []struct {
		raw   string
		level int
	}{
		{"9", 1},
		{"9.2", 2},
		{"9.2.1", 3},
		{"9.2.1.1", 4},
		{"9.2.1.1.3", 5},
		{"12.0.7", 3},
	}

	for _, tc := range cases {
		id, err := Parse(tc.raw)
		if err != nil {
			t.Errorf("Parse(%q) returned error: %v", tc.raw, err)
			continue
		}
		if id.Level() != tc.level {
			t.Errorf("Parse(%q).Level() = %d, want %d", tc.raw, id.Level(), tc.level)
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	cases := []string{
		"",
		".",
		"9.",
		".9",
		"9..2",
		"9.2.1.1.3.4", // six segments
		"a.b",
		"9.x",
		"9 .2",
	}

	for _, raw := range cases {
		if _, err := Parse(raw); err == nil {
			t.Errorf("Parse(%q) should have failed", raw)
		}
	}
}

func TestID_Parent(t *testing.T) {
	cases := []struct {
		id     ID
		parent ID
	}{
		{"9.2.1.1", "9.2.1"},
		{"9.2", "9"},
		{"9", ""},
	}

	for _, tc := range cases {
		if got := tc.id.Parent(); got != tc.parent {
			t.Errorf("%q.Parent() = %q, want %q", tc.id, got, tc.parent)
		}
	}
}

func TestID_IsAncestorOf(t *testing.T) {
	if !ID("9.2").IsAncestorOf("9.2.1.1") {
		t.Error("9.2 should be an ancestor of 9.2.1.1")
	}
	if ID("9.2").IsAncestorOf("9.2") {
		t.Error("a node is not its own ancestor")
	}
	if ID("9.2").IsAncestorOf("9.20.1") {
		t.Error("prefix match must respect segment boundaries")
	}
}

func TestCompare_NumericOrder(t *testing.T) {
	cases := []struct {
		a, b ID
		want int
	}{
		{"9", "10", -1},
		{"10", "9", 1},
		{"9.2", "10", -1},
		{"9.2", "9.10", -1},
		{"9", "9.1", -1},
		{"9.2", "9.2", 0},
		{"9.02", "9.2", 0},
	}

	for _, tc := range cases {
		if got := Compare(tc.a, tc.b); got != tc.want {
			t.Errorf("Compare(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestMustParse_PanicsOnInvalid(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParse should panic on invalid input")
		}
	}()
	MustParse("not-an-id")
}
