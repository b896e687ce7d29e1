// Package update checks GitHub for newer twq releases and replaces the
// running binary.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/creativeprojects/go-selfupdate"
)

const (
	repoOwner     = "pengelbrecht"
	repoName      = "twq"
	checkInterval = 24 * time.Hour
	checkTimeout  = 3 * time.Second
	cacheFile     = "update-cache.json"
)

// ErrDevBuild is returned when the running binary has no release version.
var ErrDevBuild = errors.New("cannot update dev builds")

// Release describes a published release.
type Release struct {
	Version    string
	ReleaseURL string
}

// cache stores the last check result between runs.
type cache struct {
	LastCheck       time.Time `json:"last_check"`
	LatestVersion   string    `json:"latest_version,omitempty"`
	UpdateAvailable bool      `json:"update_available"`
}

// LatestFunc looks up the newest published release.
type LatestFunc func(ctx context.Context) (*Release, error)

// Checker answers "is there a newer twq?", remembering the answer for a day.
type Checker struct {
	// Current is the running version (e.g., "v0.3.1" or "dev").
	Current string

	// CacheDir holds update-cache.json. Empty disables caching.
	CacheDir string

	// Interval is how long a cached answer is trusted.
	Interval time.Duration

	latest LatestFunc
	now    func() time.Time
	logger *slog.Logger
}

// NewChecker creates a Checker that queries GitHub.
func NewChecker(current, cacheDir string, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Checker{
		Current:  current,
		CacheDir: cacheDir,
		Interval: checkInterval,
		latest:   detectLatest,
		now:      time.Now,
		logger:   logger,
	}
}

// Check asks the release source directly, bypassing the cache.
// Dev builds never have an update.
func (c *Checker) Check(ctx context.Context) (*Release, bool, error) {
	if isDev(c.Current) {
		return nil, false, nil
	}
	release, err := c.latest(ctx)
	if err != nil {
		return nil, false, err
	}
	if release == nil {
		return nil, false, nil
	}
	return release, isNewer(release.Version, c.Current), nil
}

// Notice returns a one-line upgrade hint, or "" when up to date. It hits the
// network at most once per Interval; lookup failures are silent.
func (c *Checker) Notice(ctx context.Context) string {
	if isDev(c.Current) {
		return ""
	}

	if cached := c.load(); cached != nil && c.now().Sub(cached.LastCheck) < c.Interval {
		// The binary may have been upgraded since the cache was written.
		if cached.UpdateAvailable && isNewer(cached.LatestVersion, c.Current) {
			return FormatNotice(c.Current, cached.LatestVersion, DetectInstallMethod())
		}
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	release, hasUpdate, err := c.Check(ctx)
	if err != nil {
		c.logger.Debug("update check failed", "error", err)
	}

	next := &cache{
		LastCheck:       c.now(),
		UpdateAvailable: hasUpdate && err == nil,
	}
	if release != nil {
		next.LatestVersion = release.Version
	}
	c.save(next)

	if err != nil || !hasUpdate {
		return ""
	}
	return FormatNotice(c.Current, release.Version, DetectInstallMethod())
}

func (c *Checker) cachePath() string {
	if c.CacheDir == "" {
		return ""
	}
	return filepath.Join(c.CacheDir, cacheFile)
}

func (c *Checker) load() *cache {
	path := c.cachePath()
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var cached cache
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil
	}
	return &cached
}

func (c *Checker) save(entry *cache) {
	path := c.cachePath()
	if path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		c.logger.Debug("writing update cache failed", "path", path, "error", err)
	}
}

// InstallMethod represents how twq was installed.
type InstallMethod int

const (
	// InstallUnknown means the install method could not be determined.
	InstallUnknown InstallMethod = iota
	// InstallHomebrew means twq lives in a Homebrew prefix.
	InstallHomebrew
	// InstallScript means twq was installed by script or go install.
	InstallScript
)

func (m InstallMethod) String() string {
	switch m {
	case InstallHomebrew:
		return "homebrew"
	case InstallScript:
		return "script"
	default:
		return "unknown"
	}
}

// DetectInstallMethod inspects the resolved binary path.
func DetectInstallMethod() InstallMethod {
	exe, err := os.Executable()
	if err != nil {
		return InstallUnknown
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return InstallUnknown
	}
	return installMethodFor(exe)
}

func installMethodFor(path string) InstallMethod {
	if strings.Contains(path, "/Cellar/") ||
		strings.HasPrefix(path, "/opt/homebrew/") ||
		strings.HasPrefix(path, "/usr/local/Homebrew/") ||
		strings.Contains(path, "linuxbrew") {
		return InstallHomebrew
	}
	return InstallScript
}

// Instructions tells the user how to upgrade for the given install method.
func Instructions(method InstallMethod) string {
	switch method {
	case InstallHomebrew:
		return "Run: brew upgrade pengelbrecht/tap/twq"
	default:
		return "Run: twq upgrade\nOr: go install github.com/pengelbrecht/twq/cmd/twq@latest"
	}
}

// FormatNotice renders the upgrade hint shown after commands.
func FormatNotice(current, latest string, method InstallMethod) string {
	cmd := "twq upgrade"
	if method == InstallHomebrew {
		cmd = "brew upgrade pengelbrecht/tap/twq"
	}
	return fmt.Sprintf("Update available: %s -> %s (run: %s)", current, latest, cmd)
}

// Upgrade downloads the newest release and replaces the running binary.
// Homebrew installs must be upgraded through brew.
func Upgrade(ctx context.Context, current string) (*Release, error) {
	if DetectInstallMethod() == InstallHomebrew {
		return nil, fmt.Errorf("twq was installed via Homebrew. %s", Instructions(InstallHomebrew))
	}
	if isDev(current) {
		return nil, ErrDevBuild
	}

	updater, err := newUpdater()
	if err != nil {
		return nil, err
	}
	latest, found, err := updater.DetectLatest(ctx, selfupdate.NewRepositorySlug(repoOwner, repoName))
	if err != nil {
		return nil, fmt.Errorf("detect latest version: %w", err)
	}
	if !found {
		return nil, errors.New("no releases found")
	}
	if !isNewer(latest.Version(), current) {
		return nil, fmt.Errorf("already at latest version (%s)", current)
	}

	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("locate executable: %w", err)
	}
	if err := updater.UpdateTo(ctx, latest, exe); err != nil {
		return nil, fmt.Errorf("update: %w", err)
	}
	return &Release{Version: latest.Version(), ReleaseURL: latest.URL}, nil
}

func newUpdater() (*selfupdate.Updater, error) {
	source, err := selfupdate.NewGitHubSource(selfupdate.GitHubConfig{})
	if err != nil {
		return nil, fmt.Errorf("create GitHub source: %w", err)
	}
	updater, err := selfupdate.NewUpdater(selfupdate.Config{Source: source})
	if err != nil {
		return nil, fmt.Errorf("create updater: %w", err)
	}
	return updater, nil
}

func detectLatest(ctx context.Context) (*Release, error) {
	updater, err := newUpdater()
	if err != nil {
		return nil, err
	}
	latest, found, err := updater.DetectLatest(ctx, selfupdate.NewRepositorySlug(repoOwner, repoName))
	if err != nil {
		return nil, fmt.Errorf("detect latest version: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &Release{Version: latest.Version(), ReleaseURL: latest.URL}, nil
}

func isDev(version string) bool {
	v := strings.TrimPrefix(version, "v")
	return v == "" || v == "dev"
}

// isNewer reports whether version a is a later semver than b.
// Unparseable versions are never newer.
func isNewer(a, b string) bool {
	va, err := semver.NewVersion(a)
	if err != nil {
		return false
	}
	vb, err := semver.NewVersion(b)
	if err != nil {
		return false
	}
	return va.GreaterThan(vb)
}
