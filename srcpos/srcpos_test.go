package srcpos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feedString(t *Tracker, c *Cursor, s string) {
	for _, ch := range []byte(s) {
		c.Advance([]byte{ch}, ch == '\n')
	}
}

func Test_Query_singleLine(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	tracker := New("test.txt")
	cursor := NewCursor(tracker)
	feedString(tracker, cursor, "hello")

	p, err := tracker.Query(0)
	require.NoError(err)
	assert.Equal(Pos{Line: 1, Column: 1}, p)

	p, err = tracker.Query(4)
	require.NoError(err)
	assert.Equal(Pos{Line: 1, Column: 5}, p)
}

func Test_Query_multiLine(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	tracker := New("test.txt")
	cursor := NewCursor(tracker)
	feedString(tracker, cursor, "ab\ncd\nef")

	// offsets: a=0 b=1 \n=2 c=3 d=4 \n=5 e=6 f=7
	p, err := tracker.Query(3)
	require.NoError(err)
	assert.Equal(Pos{Line: 2, Column: 1}, p)

	p, err = tracker.Query(7)
	require.NoError(err)
	assert.Equal(Pos{Line: 3, Column: 2}, p)
}

func Test_Query_outOfRange(t *testing.T) {
	assert := assert.New(t)

	tracker := New("test.txt")
	cursor := NewCursor(tracker)
	feedString(tracker, cursor, "ab")

	_, err := tracker.Query(5)
	assert.Error(err)
}

func Test_LineRange_and_QueryString(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	tracker := New("test.txt")
	cursor := NewCursor(tracker)
	feedString(tracker, cursor, "ab\ncd\nef")

	begin, end, err := tracker.LineRange(2)
	require.NoError(err)
	s, err := tracker.QueryString(begin, end)
	require.NoError(err)
	assert.Equal("cd\n", s)

	begin, end, err = tracker.LineRange(3)
	require.NoError(err)
	s, err = tracker.QueryString(begin, end)
	require.NoError(err)
	assert.Equal("ef", s)
}

func Test_FullLine(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	tracker := New("test.txt")
	cursor := NewCursor(tracker)
	feedString(tracker, cursor, "ab\ncd\nef")

	s, err := tracker.FullLine(4) // 'd' is on line 2
	require.NoError(err)
	assert.Equal("cd\n", s)
}

func Test_Cursor_trackingMatchesQuery(t *testing.T) {
	assert := assert.New(t)

	tracker := New("test.txt")
	cursor := NewCursor(tracker)

	feedString(tracker, cursor, "ab\n")
	pos, offset := cursor.Snapshot()

	assert.Equal(3, offset)
	assert.Equal(Pos{Line: 2, Column: 1}, pos)
	assert.Equal(3, cursor.Offset)
	assert.Equal(2, cursor.Line)
	assert.Equal(1, cursor.Column)
}
