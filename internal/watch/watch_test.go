package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydrostack-labs/tuflowqa/internal/engine"
	"github.com/hydrostack-labs/tuflowqa/internal/testutil"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// collector records handler invocations.
type collector struct {
	mu      sync.Mutex
	results []*engine.Result
}

func (c *collector) handle(res *engine.Result, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, res)
}

func (c *collector) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.results)
}

func TestWatcher_ValidatesOnStartAndOnChange(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "model.tcf")
	writeFile(t, root, "BC Database == bc_dbase.csv\n")

	eng, err := engine.New(engine.Config{Logger: testutil.NewTestLogger(t)})
	require.NoError(t, err)
	defer eng.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c := &collector{}
	w := New(eng, root, Options{Debounce: 50 * time.Millisecond})

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, c.handle) }()

	// Initial validation.
	require.Eventually(t, func() bool { return c.count() >= 1 }, 2*time.Second, 10*time.Millisecond)

	// Touch the root control file; the debounced re-validation fires.
	writeFile(t, root, "BC Database == bc_dbase.csv\nRead Grid == dem.tif\n")
	require.Eventually(t, func() bool { return c.count() >= 2 }, 3*time.Second, 10*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	c.mu.Lock()
	defer c.mu.Unlock()
	last := c.results[len(c.results)-1]
	require.NotNil(t, last.Scan)
	assert.Len(t, last.Scan.Inputs, 2)
}

func TestWatcher_IgnoresNonControlFiles(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "model.tcf")
	writeFile(t, root, "BC Database == bc_dbase.csv\n")

	eng, err := engine.New(engine.Config{Logger: testutil.NewTestLogger(t)})
	require.NoError(t, err)
	defer eng.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	c := &collector{}
	w := New(eng, root, Options{Debounce: 50 * time.Millisecond})

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, c.handle) }()

	require.Eventually(t, func() bool { return c.count() == 1 }, 2*time.Second, 10*time.Millisecond)

	// A data file change must not trigger re-validation.
	writeFile(t, filepath.Join(dir, "bc_dbase.csv"), "name,source\n")
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, 1, c.count())

	cancel()
	<-done
}
