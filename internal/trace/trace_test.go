package trace

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/termdemo/internal/replay"
	"github.com/san-kum/termdemo/internal/script"
)

func testSequence() *script.Sequence {
	return script.MustNew("t", []script.Step{
		{Kind: script.Command, Text: "ls", PostDelay: 100 * time.Millisecond},
		{Kind: script.Progress, Text: "Working...", PostDelay: 50 * time.Millisecond},
		{Kind: script.Success, Text: "ok"},
	}, script.Timing{
		Cooldown:     time.Second,
		TypeInterval: 10 * time.Millisecond,
		TickInterval: 20 * time.Millisecond,
		Ticks:        2,
		Entrance:     30 * time.Millisecond,
	})
}

func TestLines(t *testing.T) {
	assert.Equal(t, []string{"$ ▋"}, Lines(replay.View{Prompt: "$", Cursor: -1}))

	v := replay.View{Prompt: "$", Cursor: 4, Lines: []replay.Line{
		{Kind: script.Command, Text: "git", Active: true},
		{Kind: script.Progress, Text: "Analyzing.."},
		{Kind: script.Announcement, Text: "feat: x"},
		{Kind: script.Success, Text: "Done"},
		{Kind: script.Output, Text: "1 file"},
	}}
	assert.Equal(t, []string{"$ git▋", "  Analyzing..", "  [ feat: x ]", "  ✓ Done", "  1 file"}, Lines(v))
}

func TestRecord(t *testing.T) {
	frames := Record(testSequence(), 1)
	require.NotEmpty(t, frames)

	assert.Equal(t, []string{"$ ▋"}, frames[0].Lines)
	assert.Equal(t, time.Duration(0), frames[0].At)

	var screens []string
	for _, f := range frames {
		screens = append(screens, f.Lines[len(f.Lines)-1])
	}
	assert.Contains(t, screens, "$ l▋")
	assert.Contains(t, screens, "$ ls")
	assert.Contains(t, screens, "  Working.")
	assert.Contains(t, screens, "  ✓ ok")

	for i := 1; i < len(frames); i++ {
		assert.GreaterOrEqual(t, frames[i].At, frames[i-1].At)
	}

	last := frames[len(frames)-1]
	assert.Equal(t, 2, last.Pass)
	assert.Equal(t, 0, last.Cursor)
	assert.Equal(t, testSequence().PassDuration(), last.At)
}

func TestRecordZeroLengthPass(t *testing.T) {
	seq := script.MustNew("instant", []script.Step{
		{Kind: script.Success, Text: "done"},
	}, script.Timing{TickInterval: 20 * time.Millisecond})

	done := make(chan []Frame, 1)
	go func() { done <- Record(seq, 2) }()

	select {
	case frames := <-done:
		require.Len(t, frames, 2)
		assert.Equal(t, []string{"  ✓ done"}, frames[1].Lines)
	case <-time.After(3 * time.Second):
		t.Fatal("Record did not return")
	}
}

func TestSeries(t *testing.T) {
	frames := []Frame{
		{At: 0, Lines: []string{"ab"}},
		{At: 20 * time.Millisecond, Lines: []string{"abcd"}},
	}
	assert.Equal(t, []float64{2, 2, 4}, Series(frames, 10*time.Millisecond))
	assert.Nil(t, Series(nil, time.Millisecond))
}

func TestStoreSaveLoad(t *testing.T) {
	st := NewStore(t.TempDir())
	require.NoError(t, st.Init())

	seq := testSequence()
	frames := Record(seq, 1)
	id, err := st.Save(seq, 1, frames)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	meta, err := st.Load(id)
	require.NoError(t, err)
	assert.Equal(t, "t", meta.Sequence)
	assert.Equal(t, len(frames), meta.Frames)
	assert.Equal(t, Duration(frames), meta.Duration())

	got, err := st.LoadFrames(id)
	require.NoError(t, err)
	assert.Equal(t, frames, got)
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	st := NewStore(dir)

	runs, err := NewStore(filepath.Join(dir, "missing")).List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	require.NoError(t, st.Init())
	_, err = st.Save(testSequence(), 1, Record(testSequence(), 1))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stray.txt"), []byte("x"), 0644))

	runs, err = st.List()
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestWriteCast(t *testing.T) {
	var buf bytes.Buffer
	frames := Record(testSequence(), 1)
	require.NoError(t, WriteCast(&buf, "demo", frames))

	sc := bufio.NewScanner(&buf)
	require.True(t, sc.Scan())
	var header castHeader
	require.NoError(t, json.Unmarshal(sc.Bytes(), &header))
	assert.Equal(t, 2, header.Version)
	assert.Equal(t, "demo", header.Title)

	events := 0
	for sc.Scan() {
		var ev []any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &ev))
		require.Len(t, ev, 3)
		assert.Equal(t, "o", ev[1])
		events++
	}
	assert.Equal(t, len(frames), events)
}
