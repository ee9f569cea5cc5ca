package logbuf

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendEvictsOldestAtCapacity(t *testing.T) {
	b := New(DefaultCapacity)
	for i := 0; i < 1050; i++ {
		b.Info("test", fmt.Sprintf("msg-%d", i), nil)
	}

	all := b.Query(Filter{})
	require.Len(t, all, 1000)
	assert.Equal(t, "msg-50", all[0].Message)
	assert.Equal(t, "msg-1049", all[len(all)-1].Message)
	assert.Equal(t, 1000, b.Stats().Total)

	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].Seq, all[i].Seq)
	}
}

func TestQueryFiltersAndTailLimit(t *testing.T) {
	b := New(10)
	b.Info("programs", "a", nil)
	b.Warn("programs", "b", nil)
	b.Info("auth", "c", nil)
	b.Info("programs", "d", nil)
	b.Info("programs", "e", nil)

	got := b.Query(Filter{Level: LevelInfo, Module: "programs"})
	require.Len(t, got, 3)
	assert.Equal(t, []string{"a", "d", "e"}, messages(got))

	got = b.Query(Filter{Level: LevelInfo, Module: "programs", Limit: 2})
	assert.Equal(t, []string{"d", "e"}, messages(got))

	got = b.Query(Filter{Limit: 100})
	assert.Len(t, got, 5)

	assert.Empty(t, b.Query(Filter{Module: "missing"}))
}

func TestStatsCountsPerLevel(t *testing.T) {
	b := New(10)
	b.Debug("m", "1", nil)
	b.Info("m", "2", nil)
	b.Info("m", "3", nil)
	b.Warn("m", "4", nil)
	b.Error("m", "5", nil, errors.New("boom"))

	assert.Equal(t, Stats{Total: 5, Debug: 1, Info: 2, Warn: 1, Error: 1}, b.Stats())

	errs := b.Query(Filter{Level: LevelError})
	require.Len(t, errs, 1)
	assert.Equal(t, "boom", errs[0].Error)
}

func TestUnknownLevelIsStoredAsInfo(t *testing.T) {
	b := New(10)
	e := b.Append(Level("bogus"), "m", "1", nil, nil)
	assert.Equal(t, LevelInfo, e.Level)
	b.Append(Level("WARNING"), "m", "2", nil, nil)
	b.Append("", "m", "3", nil, nil)

	st := b.Stats()
	assert.Equal(t, Stats{Total: 3, Info: 2, Warn: 1}, st)
	assert.Equal(t, st.Total, st.Debug+st.Info+st.Warn+st.Error)
	assert.Len(t, b.Query(Filter{Level: LevelInfo}), 2)
}

func TestClear(t *testing.T) {
	b := New(3)
	b.Info("m", "a", nil)
	b.Info("m", "b", nil)
	b.Clear()

	assert.Empty(t, b.Query(Filter{}))
	assert.Equal(t, Stats{}, b.Stats())

	e := b.Append(LevelInfo, "m", "c", nil, nil)
	assert.Equal(t, uint64(3), e.Seq)
	assert.Len(t, b.Query(Filter{}), 1)
}

func TestAppendCopiesData(t *testing.T) {
	b := New(3)
	data := map[string]any{"id": 1}
	b.Info("m", "a", data)
	data["id"] = 2

	assert.Equal(t, 1, b.Query(Filter{})[0].Data["id"])
}

func TestTimestampsUseClock(t *testing.T) {
	b := New(3)
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return fixed }

	e := b.Append(LevelWarn, "m", "x", nil, nil)
	assert.Equal(t, fixed, e.Timestamp)
}

func TestSinksReceiveEntriesAndPanicsAreContained(t *testing.T) {
	b := New(5)
	var got []Entry
	b.AddSink(SinkFunc(func(Entry) { panic("sink exploded") }))
	b.AddSink(SinkFunc(func(e Entry) { got = append(got, e) }))

	assert.NotPanics(t, func() { b.Info("m", "hello", nil) })
	require.Len(t, got, 1)
	assert.Equal(t, "hello", got[0].Message)
	assert.Equal(t, 1, b.Len())
}

func TestConcurrentAppendNeverExceedsCapacity(t *testing.T) {
	b := New(100)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				b.Info(fmt.Sprintf("g%d", g), "m", nil)
				if i%50 == 0 {
					_ = b.Query(Filter{Limit: 10})
					_ = b.Stats()
				}
			}
		}(g)
	}
	wg.Wait()

	all := b.Query(Filter{})
	require.Len(t, all, 100)
	assert.Equal(t, uint64(4000), all[len(all)-1].Seq)
	for i := 1; i < len(all); i++ {
		assert.Equal(t, all[i-1].Seq+1, all[i].Seq)
	}
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel(" WARN ")
	require.NoError(t, err)
	assert.Equal(t, LevelWarn, l)

	_, err = ParseLevel("fatal")
	assert.Error(t, err)
}

func messages(es []Entry) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.Message
	}
	return out
}
