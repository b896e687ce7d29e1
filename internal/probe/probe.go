// Package probe checks whether the external tools twq drives are installed
// and answering. A probe runs "<tool> --version"; a zero exit means available.
package probe

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/pengelbrecht/twq/internal/process"
)

// DefaultTimeout bounds a single version probe.
const DefaultTimeout = 2 * time.Second

// Runner runs a bounded command. *process.Executor satisfies it.
type Runner interface {
	Run(ctx context.Context, timeout time.Duration, name string, args ...string) (*process.Result, error)
}

// Result contains the outcome of one probe.
type Result struct {
	// Tool is the probed command (e.g., "task").
	Tool string

	// Available indicates whether the version probe succeeded.
	Available bool

	// Version is the first line of the probe's stdout.
	Version string

	// Duration is how long the probe took.
	Duration time.Duration

	// Error holds the underlying error when the probe failed.
	Error error
}

// String returns a human-readable representation of the result.
func (r *Result) String() string {
	if !r.Available {
		return fmt.Sprintf("[MISSING] %s: %v", r.Tool, r.Error)
	}
	if r.Version == "" {
		return fmt.Sprintf("[OK] %s (%v)", r.Tool, r.Duration.Round(time.Millisecond))
	}
	return fmt.Sprintf("[OK] %s %s (%v)", r.Tool, r.Version, r.Duration.Round(time.Millisecond))
}

// Prober probes one tool. Every call to Available re-runs the probe unless a
// TTL is set, in which case a result is reused until it expires or Invalidate
// is called.
type Prober struct {
	// Command is the tool binary to probe.
	Command string

	// Timeout bounds each probe (0 = DefaultTimeout).
	Timeout time.Duration

	// TTL is how long a result may be reused (0 = probe every time).
	TTL time.Duration

	runner Runner
	logger *slog.Logger
	now    func() time.Time

	mu      sync.Mutex
	last    *Result
	checked time.Time
}

// New creates a Prober for command.
func New(command string, runner Runner, logger *slog.Logger) *Prober {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Prober{
		Command: command,
		runner:  runner,
		logger:  logger,
		now:     time.Now,
	}
}

// Available reports whether the tool answered its version probe.
func (p *Prober) Available(ctx context.Context) bool {
	return p.Check(ctx).Available
}

// Check runs the probe (or returns a still-valid cached result).
func (p *Prober) Check(ctx context.Context) *Result {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.TTL > 0 && p.last != nil && p.now().Sub(p.checked) < p.TTL {
		return p.last
	}

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	start := p.now()
	result := &Result{Tool: p.Command}
	res, err := p.runner.Run(ctx, timeout, p.Command, "--version")
	result.Duration = p.now().Sub(start)
	if err != nil {
		result.Error = err
		p.logger.Warn("tool probe failed", "tool", p.Command, "error", err)
	} else {
		result.Available = true
		result.Version = firstLine(string(res.Stdout))
	}

	p.last = result
	p.checked = p.now()
	return result
}

// Invalidate drops any cached result so the next call probes again.
func (p *Prober) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.last = nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// Results aggregates several probe results.
type Results struct {
	// Results contains individual probe results.
	Results []*Result

	// AllAvailable indicates whether every probed tool is available.
	AllAvailable bool
}

// NewResults creates a Results from a slice of Result pointers.
func NewResults(results []*Result) *Results {
	all := true
	for _, r := range results {
		if !r.Available {
			all = false
			break
		}
	}
	return &Results{Results: results, AllAvailable: all}
}

// Summary returns a human-readable summary of all results.
func (r *Results) Summary() string {
	if len(r.Results) == 0 {
		return "No tools probed"
	}

	var sb strings.Builder
	available := 0
	for _, result := range r.Results {
		if result.Available {
			available++
		}
	}
	sb.WriteString(fmt.Sprintf("%d/%d tools available\n", available, len(r.Results)))
	for _, result := range r.Results {
		sb.WriteString(fmt.Sprintf("  %s\n", result.String()))
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
