package srt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `1
00:00:01,000 --> 00:00:04,500
Hello there.

2
00:00:05,000 --> 00:00:08,250
This line wraps
onto a second row.

not-a-number
00:00:09,000 --> 00:00:10,000
Skipped block.

3
01:02:03,400 --> 01:02:04,000
Final line.`

func TestParse(t *testing.T) {
	lines := Parse(sample)
	require.Len(t, lines, 3)

	assert.Equal(t, 1, lines[0].ID)
	assert.InDelta(t, 1.0, lines[0].StartTime, 0.001)
	assert.InDelta(t, 4.5, lines[0].EndTime, 0.001)
	assert.Equal(t, "Hello there.", lines[0].Text)

	assert.Equal(t, "This line wraps onto a second row.", lines[1].Text)

	assert.Equal(t, 3, lines[2].ID)
	assert.InDelta(t, 3723.4, lines[2].StartTime, 0.001)
}

func TestParseCRLF(t *testing.T) {
	lines := Parse("1\r\n00:00:00,500 --> 00:00:02,000\r\nWindows line endings.\r\n\r\n2\r\n00:00:02,500 --> 00:00:03,000\r\nSecond.")
	require.Len(t, lines, 2)
	assert.Equal(t, "Windows line endings.", lines[0].Text)
	assert.InDelta(t, 0.5, lines[0].StartTime, 0.001)
}

func TestParseEmpty(t *testing.T) {
	assert.Empty(t, Parse(""))
	assert.Empty(t, Parse("garbage without structure"))
}

func TestText(t *testing.T) {
	lines := Parse(sample)
	assert.Equal(t, "Hello there.\nThis line wraps onto a second row.\nFinal line.", Text(lines))
}
