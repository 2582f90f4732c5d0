package matching

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Chicken", "chicken"},
		{"  Red Onion  ", "red onion"},
		{"TOMATOES", "tomatoes"},
		{"extra-virgin olive oil", "extra virgin olive oil"},
		{"salt,", "salt"},
		{"bell   pepper", "bell pepper"},
		{"crème fraîche", "crème fraîche"},
		{"", ""},
		{"   ", ""},
		{"!!!", ""},
	}

	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSingularCandidates(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"tomatoes", []string{"tomato", "tomatoe"}},
		{"carrots", []string{"carrot"}},
		{"peas", []string{"pea"}},
		{"rice", nil},
		{"s", nil},
	}

	for _, c := range cases {
		got := singularCandidates(c.in)
		if len(got) != len(c.want) {
			t.Errorf("singularCandidates(%q) = %v, want %v", c.in, got, c.want)
			continue
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Errorf("singularCandidates(%q) = %v, want %v", c.in, got, c.want)
				break
			}
		}
	}
}
