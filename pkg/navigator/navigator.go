// Package navigator exposes a cursor over an HTTP-served repository tree.
// Verification code walks suites through this single capability interface
// without knowing whether the server underneath renders HTML directory
// listings or only answers requests for paths the caller already knows —
// the two concrete strategies in this package (HTMLNavigator and
// PredefinedNavigator) hide that difference behind identical Directions/
// Navigate/checkpoint semantics.
package navigator

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// InvalidDirectionError is a usage error: the caller asked to navigate to an
// item that Directions does not currently offer.
type InvalidDirectionError struct {
	Direction string
}

func (e *InvalidDirectionError) Error() string {
	return fmt.Sprintf("%q is not a valid direction from the current location", e.Direction)
}

// InvalidCheckpointError is a usage error: UseCheckpoint was called with an
// empty checkpoint stack.
type InvalidCheckpointError struct{}

func (e *InvalidCheckpointError) Error() string {
	return "no checkpoint to restore"
}

// Navigator is the single capability trait every navigation strategy
// implements. A concrete strategy supplies only parseDirections (see
// directionSource below); everything else — checkpointing, base-URL
// normalization, the ".." visibility rule — lives once in core and
// is shared by every strategy.
type Navigator interface {
	// Directions returns the set of valid next steps from the current
	// location. It never contains the empty string, and contains ".." iff
	// the cursor is strictly below the base URL.
	Directions(ctx context.Context) ([]string, error)

	// Navigate moves the cursor. item may be a single path segment, "..",
	// or a "/"-separated sequence of those, applied left to right. It stops
	// without error if a hop leaves the cursor unchanged, and fails with
	// *InvalidDirectionError if a single segment is not in Directions.
	Navigate(ctx context.Context, item string) error

	// CurrentURL returns the cursor's present location.
	CurrentURL() *url.URL

	// SetCheckpoint pushes the current location onto the checkpoint stack.
	SetCheckpoint()

	// UseCheckpoint pops the most recent checkpoint and restores the cursor
	// to it. It fails with *InvalidCheckpointError if the stack is empty.
	UseCheckpoint() error

	// ClearCheckpoints empties the checkpoint stack.
	ClearCheckpoints()

	// Reset returns the cursor to the base URL.
	Reset()
}

// directionSource is the one piece of behavior a concrete navigation
// strategy must supply: given the current cursor, what can be reached next.
type directionSource interface {
	parseDirections(ctx context.Context, current *url.URL) ([]string, error)
}

// core implements Navigator's checkpoint and traversal bookkeeping; concrete
// strategies embed it and supply a directionSource.
type core struct {
	base    *url.URL
	current *url.URL
	source  directionSource

	checkpoints []string // each entry a "/"-joined path relative to base, "" for the base itself
}

func newCore(base *url.URL, source directionSource) *core {
	b := withTrailingSlash(base)
	return &core{base: b, current: b, source: source}
}

func withTrailingSlash(u *url.URL) *url.URL {
	clone := *u
	if !strings.HasSuffix(clone.Path, "/") {
		clone.Path += "/"
	}
	if clone.RawPath != "" {
		clone.RawPath = ""
	}
	return &clone
}

func segments(u *url.URL) []string {
	trimmed := strings.Trim(u.Path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// belowBase reports whether current lies strictly below base, by segment count.
func (c *core) belowBase() bool {
	return len(segments(c.current)) > len(segments(c.base))
}

func (c *core) Directions(ctx context.Context) ([]string, error) {
	raw, err := c.source.parseDirections(ctx, c.current)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(raw)+1)
	var dirs []string
	for _, d := range raw {
		d = strings.Trim(d, "/")
		if d == "" {
			continue
		}
		if idx := strings.Index(d, "/"); idx >= 0 {
			d = d[:idx]
		}
		if seen[d] {
			continue
		}
		seen[d] = true
		dirs = append(dirs, d)
	}

	if c.belowBase() && !seen[".."] {
		dirs = append(dirs, "..")
	}
	return dirs, nil
}

func (c *core) CurrentURL() *url.URL {
	clone := *c.current
	return &clone
}

func (c *core) Reset() {
	c.current = c.base
}

func (c *core) relativeDiff() string {
	return strings.Join(segments(c.current)[len(segments(c.base)):], "/")
}

func (c *core) SetCheckpoint() {
	c.checkpoints = append(c.checkpoints, c.relativeDiff())
}

func (c *core) UseCheckpoint() error {
	if len(c.checkpoints) == 0 {
		return &InvalidCheckpointError{}
	}
	diff := c.checkpoints[len(c.checkpoints)-1]
	c.checkpoints = c.checkpoints[:len(c.checkpoints)-1]

	u := *c.base
	if diff != "" {
		u = *c.base.JoinPath(diff)
		u.Path += "/"
	}
	c.current = &u
	return nil
}

func (c *core) ClearCheckpoints() {
	c.checkpoints = nil
}

func (c *core) Navigate(ctx context.Context, item string) error {
	item = strings.Trim(item, "/")
	if item == "" {
		return fmt.Errorf("navigate: item must not be empty")
	}

	if strings.Contains(item, "/") {
		for _, seg := range strings.Split(item, "/") {
			before := c.current.String()
			if err := c.Navigate(ctx, seg); err != nil {
				return err
			}
			if c.current.String() == before {
				return nil
			}
		}
		return nil
	}

	dirs, err := c.Directions(ctx)
	if err != nil {
		return err
	}
	found := false
	for _, d := range dirs {
		if d == item {
			found = true
			break
		}
	}
	if !found {
		return &InvalidDirectionError{Direction: item}
	}

	if item == ".." {
		rel := segments(c.current)[len(segments(c.base)):]
		parent := *c.base
		if len(rel) > 1 {
			parent = *c.base.JoinPath(rel[:len(rel)-1]...)
			parent.Path += "/"
		}
		c.current = &parent
		return nil
	}

	next := *c.current.JoinPath(item)
	next.Path += "/"
	c.current = &next
	return nil
}
