package assembler

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// QueryFunc returns the version output of an assembler.
type QueryFunc func(ctx context.Context, info Info) (string, error)

type cacheEntry struct {
	version Version
	err     error
}

// VersionCache queries the versions of the installed assemblers once and
// caches the results, including failed queries. Concurrent requests for the
// same assembler share a single query.
type VersionCache struct {
	query QueryFunc
	group singleflight.Group

	mu      sync.Mutex
	entries map[ID]cacheEntry
}

// NewVersionCache returns a new cache. If query is nil, the assembler
// executables are run to get their versions.
func NewVersionCache(query QueryFunc) *VersionCache {
	if query == nil {
		query = QueryExecutable
	}
	return &VersionCache{
		query:   query,
		entries: map[ID]cacheEntry{},
	}
}

// Get returns the version of the assembler.
func (c *VersionCache) Get(ctx context.Context, id ID) (Version, error) {
	if entry, ok := c.load(id); ok {
		return entry.version, entry.err
	}

	info, ok := Lookup(id)
	if !ok {
		return Version{}, fmt.Errorf("unsupported assembler %d", id)
	}

	result, err, _ := c.group.Do(info.CLIName, func() (any, error) {
		if entry, ok := c.load(id); ok {
			return entry.version, entry.err
		}

		output, err := c.query(ctx, info)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return Version{}, err // not cached, a later request can succeed
			}
			c.store(id, cacheEntry{err: err})
			return Version{}, err
		}

		version, err := info.ParseVersion(output)
		c.store(id, cacheEntry{version: version, err: err})
		return version, err
	})
	version, _ := result.(Version)
	return version, err
}

func (c *VersionCache) load(id ID) (cacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[id]
	return entry, ok
}

func (c *VersionCache) store(id ID, entry cacheEntry) {
	c.mu.Lock()
	c.entries[id] = entry
	c.mu.Unlock()
}

// QueryExecutable runs the assembler executable and returns its combined
// output.
func QueryExecutable(ctx context.Context, info Info) (string, error) {
	executable := info.ExecutableName()
	if _, err := exec.LookPath(executable); err != nil {
		return "", fmt.Errorf("%s is not installed", executable)
	}

	cmd := exec.CommandContext(ctx, executable, info.VersionArgs...)
	out, err := cmd.CombinedOutput()
	output := strings.TrimSpace(string(out))
	if err != nil && output == "" {
		return "", fmt.Errorf("querying %s version: %w", info.Name, err)
	}
	// some assemblers exit with an error code when printing their version
	return output, nil
}
