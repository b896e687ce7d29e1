package update

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestChecker(t *testing.T, current string, latest LatestFunc) (*Checker, *int) {
	t.Helper()
	calls := 0
	c := NewChecker(current, t.TempDir(), nil)
	c.latest = func(ctx context.Context) (*Release, error) {
		calls++
		return latest(ctx)
	}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return c, &calls
}

func fixed(version string) LatestFunc {
	return func(context.Context) (*Release, error) {
		return &Release{Version: version}, nil
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		current string
		latest  string
		want    bool
	}{
		{"newer patch", "v0.1.0", "0.1.1", true},
		{"newer minor", "0.1.9", "0.2.0", true},
		{"same", "v1.2.3", "1.2.3", false},
		{"older", "v2.0.0", "1.9.9", false},
		{"two digit minor", "v0.9.0", "0.10.0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestChecker(t, tt.current, fixed(tt.latest))
			_, got, err := c.Check(context.Background())
			if err != nil {
				t.Fatalf("Check() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Check() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheck_DevBuild(t *testing.T) {
	for _, v := range []string{"dev", "", "vdev"} {
		c, calls := newTestChecker(t, v, fixed("9.9.9"))
		release, has, err := c.Check(context.Background())
		if release != nil || has || err != nil {
			t.Errorf("Check(%q) = %v, %v, %v", v, release, has, err)
		}
		if *calls != 0 {
			t.Errorf("dev build %q hit the release source", v)
		}
	}
}

func TestNotice_CachesForInterval(t *testing.T) {
	c, calls := newTestChecker(t, "v0.1.0", fixed("0.2.0"))
	ctx := context.Background()

	notice := c.Notice(ctx)
	if !strings.Contains(notice, "0.1.0 -> 0.2.0") {
		t.Errorf("Notice() = %q", notice)
	}
	if _, err := os.Stat(filepath.Join(c.CacheDir, cacheFile)); err != nil {
		t.Errorf("cache not written: %v", err)
	}

	if again := c.Notice(ctx); again != notice {
		t.Errorf("cached Notice() = %q, want %q", again, notice)
	}
	if *calls != 1 {
		t.Errorf("release source called %d times, want 1", *calls)
	}

	// After upgrading, the stale cache must not nag.
	c.Current = "v0.2.0"
	if got := c.Notice(ctx); got != "" {
		t.Errorf("Notice() after upgrade = %q, want empty", got)
	}
}

func TestNotice_RefreshesAfterInterval(t *testing.T) {
	c, calls := newTestChecker(t, "v0.1.0", fixed("0.1.0"))
	ctx := context.Background()

	if got := c.Notice(ctx); got != "" {
		t.Errorf("Notice() = %q, want empty", got)
	}

	later := time.Date(2025, 6, 3, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return later }
	c.Notice(ctx)
	if *calls != 2 {
		t.Errorf("release source called %d times, want 2", *calls)
	}
}

func TestNotice_ErrorIsSilent(t *testing.T) {
	c, _ := newTestChecker(t, "v0.1.0", func(context.Context) (*Release, error) {
		return nil, errors.New("rate limited")
	})
	if got := c.Notice(context.Background()); got != "" {
		t.Errorf("Notice() = %q, want empty", got)
	}
}

func TestNotice_NoCacheDir(t *testing.T) {
	c, calls := newTestChecker(t, "v0.1.0", fixed("0.2.0"))
	c.CacheDir = ""

	c.Notice(context.Background())
	c.Notice(context.Background())
	if *calls != 2 {
		t.Errorf("release source called %d times, want 2 without a cache", *calls)
	}
}

func TestInstallMethodFor(t *testing.T) {
	tests := []struct {
		path string
		want InstallMethod
	}{
		{"/opt/homebrew/Cellar/twq/0.1.0/bin/twq", InstallHomebrew},
		{"/usr/local/Cellar/twq/0.1.0/bin/twq", InstallHomebrew},
		{"/home/linuxbrew/.linuxbrew/bin/twq", InstallHomebrew},
		{"/home/me/go/bin/twq", InstallScript},
	}
	for _, tt := range tests {
		if got := installMethodFor(tt.path); got != tt.want {
			t.Errorf("installMethodFor(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestFormatNotice(t *testing.T) {
	got := FormatNotice("v0.1.0", "0.2.0", InstallHomebrew)
	if !strings.Contains(got, "brew upgrade pengelbrecht/tap/twq") {
		t.Errorf("FormatNotice() = %q", got)
	}
	got = FormatNotice("v0.1.0", "0.2.0", InstallScript)
	if got != "Update available: v0.1.0 -> 0.2.0 (run: twq upgrade)" {
		t.Errorf("FormatNotice() = %q", got)
	}
}

func TestInstallMethodString(t *testing.T) {
	if InstallHomebrew.String() != "homebrew" || InstallScript.String() != "script" || InstallUnknown.String() != "unknown" {
		t.Error("unexpected InstallMethod strings")
	}
}

func TestUpgrade_DevBuild(t *testing.T) {
	if DetectInstallMethod() == InstallHomebrew {
		t.Skip("test binary runs from a Homebrew prefix")
	}
	if _, err := Upgrade(context.Background(), "dev"); !errors.Is(err, ErrDevBuild) {
		t.Errorf("Upgrade(dev) error = %v, want ErrDevBuild", err)
	}
}
