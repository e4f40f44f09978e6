package project

import (
	"fmt"
	"strings"
	"testing"

	"github.com/yeisme/appforge/pkg/models"
)

func candidateKeys(cs []Candidate) string {
	keys := make([]string, len(cs))
	for i, c := range cs {
		mark := ""
		if c.Configured {
			mark = "*"
		}
		keys[i] = fmt.Sprintf("%s%s%v", c.Spec, mark, c.Platforms)
	}
	return strings.Join(keys, " ")
}

func TestCandidates_DefaultsThenBuiltins(t *testing.T) {
	f := newFixture(t)
	cfg := writeProject(t, nil, nil)
	got := candidateKeys(f.resolver.Candidates(cfg, []models.Platform{models.PlatformDarwin, models.PlatformLinux}))
	want := "zip*[darwin linux] deb*[linux] rpm*[linux] dmg[darwin]"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCandidates_ConfiguredTargetsFirst(t *testing.T) {
	f := newFixture(t)
	cfg := writeProject(t, map[string]any{
		"make_targets": map[string]any{"linux": []string{"zip", "./makers/custom"}},
	}, nil)
	got := candidateKeys(f.resolver.Candidates(cfg, []models.Platform{models.PlatformLinux}))
	want := "zip*[linux] ./makers/custom*[linux] deb[linux] rpm[linux]"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSelectMakers_NoCandidates(t *testing.T) {
	if _, err := SelectMakers(nil); err == nil {
		t.Fatal("expected error for empty candidate list")
	}
}

func TestCandidatePreview(t *testing.T) {
	out := candidatePreview(Candidate{Spec: "deb", Platforms: []models.Platform{models.PlatformLinux}, Description: "Debian package"})
	for _, want := range []string{"maker:     deb", "platforms: linux", "Debian package"} {
		if !strings.Contains(out, want) {
			t.Errorf("preview missing %q:\n%s", want, out)
		}
	}
}
