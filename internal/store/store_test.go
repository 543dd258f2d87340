package store

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir, err := os.MkdirTemp("", "quiverdb-store")
	require.NoError(t, err)
	s, err := Open(dir)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Close()
		_ = os.RemoveAll(dir)
	})
	return s
}

func TestStringSetGet(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Set([]byte("foo"), []byte("bar"), 0))
	v, ok, err := s.Get([]byte("foo"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("bar"), v)

	_, ok, err = s.Get([]byte("missing"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStringAppend(t *testing.T) {
	s := newTestStore(t)

	n, err := s.Append([]byte("k"), []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = s.Append([]byte("k"), []byte(" world"))
	require.NoError(t, err)
	assert.Equal(t, 11, n)

	v, ok, err := s.Get([]byte("k"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "hello world", string(v))
}

func TestStringIncrDecr(t *testing.T) {
	s := newTestStore(t)

	v, err := s.Incr([]byte("counter"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	v, err = s.Incr([]byte("counter"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)

	v, err = s.Decr([]byte("counter"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
}

func TestStringIncrNonNumeric(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Set([]byte("k"), []byte("not a number"), 0))
	_, err := s.Incr([]byte("k"))
	assert.ErrorIs(t, err, ErrNotInteger)
}

func TestExistsAndDel(t *testing.T) {
	s := newTestStore(t)

	ok, err := s.Exists([]byte("k"))
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set([]byte("k"), []byte("v"), 0))
	ok, err = s.Exists([]byte("k"))
	require.NoError(t, err)
	assert.True(t, ok)

	deleted, err := s.Del([]byte("k"))
	require.NoError(t, err)
	assert.True(t, deleted)

	ok, err = s.Exists([]byte("k"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExpireAndTTL(t *testing.T) {
	s := newTestStore(t)

	seconds, err := s.TTL([]byte("missing"))
	require.NoError(t, err)
	assert.Equal(t, int64(-2), seconds)

	require.NoError(t, s.Set([]byte("k"), []byte("v"), 0))
	seconds, err = s.TTL([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, int64(-1), seconds)

	ok, err := s.Expire([]byte("k"), nowMs()+5000)
	require.NoError(t, err)
	assert.True(t, ok)

	seconds, err = s.TTL([]byte("k"))
	require.NoError(t, err)
	assert.InDelta(t, 5, seconds, 1)
}

func TestWrongType(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Set([]byte("k"), []byte("v"), 0))

	_, err := s.HSet([]byte("k"), [][]byte{[]byte("f")}, [][]byte{[]byte("v")})
	assert.ErrorIs(t, err, ErrWrongType)
}

func TestHashBasics(t *testing.T) {
	s := newTestStore(t)

	added, err := s.HSet([]byte("h"), [][]byte{[]byte("f1")}, [][]byte{[]byte("v1")})
	require.NoError(t, err)
	assert.Equal(t, int64(1), added)

	added, err = s.HSet([]byte("h"), [][]byte{[]byte("f1")}, [][]byte{[]byte("v2")})
	require.NoError(t, err)
	assert.Equal(t, int64(0), added)

	added, err = s.HSet([]byte("h"), [][]byte{[]byte("f2"), []byte("f2")}, [][]byte{[]byte("a"), []byte("b")})
	require.NoError(t, err)
	assert.Equal(t, int64(1), added, "f2 repeated in one call is one new field, last value wins")
	v2, ok, err := s.HGet([]byte("h"), []byte("f2"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("b"), v2)

	v, ok, err := s.HGet([]byte("h"), []byte("f1"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v2"), v)

	length, err := s.HLen([]byte("h"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), length)

	fields, values, err := s.HGetAll([]byte("h"))
	require.NoError(t, err)
	assert.ElementsMatch(t, [][]byte{[]byte("f1"), []byte("f2")}, fields)
	assert.ElementsMatch(t, [][]byte{[]byte("v2"), []byte("b")}, values)

	removed, err := s.HDel([]byte("h"), [][]byte{[]byte("f1"), []byte("f2")})
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	ok, err = s.Exists([]byte("h"))
	require.NoError(t, err)
	assert.False(t, ok, "hash metadata should be deleted once empty")
}

func TestListPushPopRange(t *testing.T) {
	s := newTestStore(t)

	length, err := s.RPush([]byte("l"), [][]byte{[]byte("a"), []byte("b"), []byte("c")})
	require.NoError(t, err)
	assert.Equal(t, int64(3), length)

	elements, err := s.LRange([]byte("l"), 0, -1)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("a"), []byte("b"), []byte("c")}, elements)

	v, ok, err := s.LPop([]byte("l"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("a"), v)

	length, err = s.LLen([]byte("l"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), length)
}

func TestSetBasics(t *testing.T) {
	s := newTestStore(t)

	added, err := s.SAdd([]byte("s"), [][]byte{[]byte("a"), []byte("b"), []byte("a")})
	require.NoError(t, err)
	assert.Equal(t, int64(2), added)

	isMember, err := s.SIsMember([]byte("s"), []byte("a"))
	require.NoError(t, err)
	assert.True(t, isMember)

	card, err := s.SCard([]byte("s"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), card)

	removed, err := s.SRem([]byte("s"), [][]byte{[]byte("a")})
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	card, err = s.SCard([]byte("s"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), card)
}

func TestZSetBasics(t *testing.T) {
	s := newTestStore(t)

	added, err := s.ZAdd([]byte("z"),
		[]float64{1, 2, 3},
		[][]byte{[]byte("one"), []byte("two"), []byte("three")})
	require.NoError(t, err)
	assert.Equal(t, int64(3), added)

	// Re-adding "two" with a new score updates it in place, not as a new member.
	added, err = s.ZAdd([]byte("z"), []float64{5}, [][]byte{[]byte("two")})
	require.NoError(t, err)
	assert.Equal(t, int64(0), added)

	score, ok, err := s.ZScore([]byte("z"), []byte("two"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 5.0, score)

	entries, err := s.ZRange([]byte("z"), 0, -1)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "one", string(entries[0].Member))
	assert.Equal(t, "three", string(entries[1].Member))
	assert.Equal(t, "two", string(entries[2].Member))

	card, err := s.ZCard([]byte("z"))
	require.NoError(t, err)
	assert.Equal(t, int64(3), card)
}

func TestZAddDedupesRepeatedMemberWithinOneCall(t *testing.T) {
	s := newTestStore(t)

	added, err := s.ZAdd([]byte("z"), []float64{1, 2}, [][]byte{[]byte("m"), []byte("m")})
	require.NoError(t, err)
	assert.Equal(t, int64(1), added, "one physical sub-key written, so only one member is new")

	card, err := s.ZCard([]byte("z"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), card)

	score, ok, err := s.ZScore([]byte("z"), []byte("m"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2.0, score, "the later pair in the same call wins")

	entries, err := s.ZRange([]byte("z"), 0, -1)
	require.NoError(t, err)
	require.Len(t, entries, 1, "the stale score-index entry from the first pair must not leak")
	assert.Equal(t, "m", string(entries[0].Member))
}

func TestZAddRejectsNaN(t *testing.T) {
	s := newTestStore(t)
	_, err := s.ZAdd([]byte("z"), []float64{nan()}, [][]byte{[]byte("m")})
	assert.ErrorIs(t, err, ErrNotFloat)

	card, err := s.ZCard([]byte("z"))
	require.NoError(t, err)
	assert.Equal(t, int64(0), card, "a rejected NaN score must not create the key")
}

func nan() float64 {
	var zero float64
	return zero / zero
}

func TestVersionGCAfterFlush(t *testing.T) {
	s := newTestStore(t)

	_, err := s.ZAdd([]byte("k"), []float64{1}, [][]byte{[]byte("m")})
	require.NoError(t, err)

	require.NoError(t, s.Flush())

	_, err = s.ZAdd([]byte("k"), []float64{1}, [][]byte{[]byte("m")})
	require.NoError(t, err)

	card, err := s.ZCard([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), card, "old sub-keys from before FLUSHDB must not leak into the new generation")

	entries, err := s.ZRange([]byte("k"), 0, -1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "m", string(entries[0].Member))
}
