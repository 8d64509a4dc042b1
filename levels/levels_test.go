package levels

import (
	"strings"
	"testing"
)

func TestLoadEmbeddedDefault(t *testing.T) {
	lvl, err := Load("default")
	if err != nil {
		t.Fatalf("load default: %v", err)
	}
	if len(lvl.Boundaries) == 0 {
		t.Fatalf("expected boundaries in default level")
	}
	if len(lvl.Entities) == 0 {
		t.Fatalf("expected entities in default level")
	}
	found := false
	for _, e := range lvl.Entities {
		if e.Name == "player" {
			found = true
			if e.Prefab != "player" {
				t.Fatalf("player should use the player prefab, got %q", e.Prefab)
			}
		}
	}
	if !found {
		t.Fatalf("expected a player entity")
	}
}

func TestParseRejects(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "dimensions",
			src:  "name: x\nwidth: 0\nheight: 10\n",
			want: "dimensions",
		},
		{
			name: "short_boundary",
			src:  "name: x\nwidth: 10\nheight: 10\nboundaries:\n  - points: [{x: 0, y: 0}]\n",
			want: "at least 2 points",
		},
		{
			name: "friction",
			src:  "name: x\nwidth: 10\nheight: 10\nboundaries:\n  - friction: 1.2\n    points: [{x: 0, y: 0}, {x: 1, y: 0}]\n",
			want: "friction",
		},
		{
			name: "empty_entity",
			src:  "name: x\nwidth: 10\nheight: 10\nentities:\n  - name: ghost\n",
			want: "no components or prefab",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Parse([]byte(c.src))
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), c.want) {
				t.Fatalf("expected %q in error, got %v", c.want, err)
			}
		})
	}
}

func TestCleanLevelPath(t *testing.T) {
	cases := map[string]string{
		"default":             "default.yaml",
		"default.yaml":        "default.yaml",
		"levels/default.yaml": "default.yaml",
	}
	for in, want := range cases {
		if got := cleanLevelPath(in); got != want {
			t.Fatalf("cleanLevelPath(%q) = %q, want %q", in, got, want)
		}
	}
}
