package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/claimroute/internal/model"
	"github.com/ppiankov/claimroute/internal/pipeline"
)

type mockProcessor struct {
	calls atomic.Int32
}

func (m *mockProcessor) Process(ctx context.Context, source string) (*pipeline.Result, error) {
	m.calls.Add(1)
	time.Sleep(time.Millisecond)
	if strings.Contains(source, "broken") {
		return nil, errors.New("pdftotext: exit status 1")
	}
	return &pipeline.Result{
		Source: source,
		Output: model.ClaimOutput{RecommendedRoute: model.RouteFastTrack},
	}, nil
}

func TestBatchProcessor_ProcessSources(t *testing.T) {
	processor := &mockProcessor{}
	batch := NewBatchProcessor(processor, 2, NewLimiter(0, 1))

	sources := []string{"a.pdf", "broken.pdf", "c.html", "https://portal.example.com/d.txt"}
	results := batch.ProcessSources(context.Background(), sources)

	require.Len(t, results, len(sources))
	for i, r := range results {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, sources[i], r.Source, "results keep input order")
	}

	assert.Error(t, results[1].Error)
	assert.Nil(t, results[1].Result)
	assert.NoError(t, results[0].Error)
	assert.Equal(t, model.RouteFastTrack, results[2].Result.Output.RecommendedRoute)
	assert.Equal(t, int32(4), processor.calls.Load(), "a failure does not stop the batch")
}

func TestBatchProcessor_Empty(t *testing.T) {
	results := NewBatchProcessor(&mockProcessor{}, 2, nil).ProcessSources(context.Background(), nil)
	assert.Empty(t, results)
	assert.NotNil(t, results)
}

func TestBatchProcessor_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := NewBatchProcessor(&mockProcessor{}, 1, nil).ProcessSources(ctx, []string{"a.pdf", "b.pdf", "c.pdf"})
	require.Len(t, results, 3)
	for _, r := range results {
		require.NotNil(t, r)
	}
}

func TestReadSourcesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "claims.txt")
	content := "# nightly batch\ndata/input/ACORD_1.pdf\n\n  https://portal.example.com/fnol/7  \ndata/input/ACORD_1.pdf\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	sources, err := ReadSourcesFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"data/input/ACORD_1.pdf", "https://portal.example.com/fnol/7"}, sources)

	_, err = ReadSourcesFromFile(filepath.Join(t.TempDir(), "absent.txt"))
	assert.Error(t, err)
}

func TestListDocuments(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.PDF", "a.html", "c.htm", "d.txt", "notes.md", "e.json"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.pdf"), 0o755))

	sources, err := ListDocuments(dir)
	require.NoError(t, err)

	var names []string
	for _, s := range sources {
		names = append(names, filepath.Base(s))
	}
	assert.Equal(t, []string{"a.html", "b.PDF", "c.htm", "d.txt"}, names)
}

func TestCollectSources(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.pdf"), []byte("x"), 0o644))
	list := filepath.Join(t.TempDir(), "list.txt")
	require.NoError(t, os.WriteFile(list, []byte("x.pdf\ny.pdf\n"), 0o644))

	fromDir, err := CollectSources(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.pdf")}, fromDir)

	fromList, err := CollectSources(list)
	require.NoError(t, err)
	assert.Equal(t, []string{"x.pdf", "y.pdf"}, fromList)

	_, err = CollectSources(filepath.Join(dir, "absent"))
	assert.Error(t, err)
}
