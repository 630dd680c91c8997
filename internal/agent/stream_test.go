// Copyright (c) 2025 Courtside Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package agent

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chunkReader yields at most n bytes per Read to simulate arbitrary network
// chunk boundaries.
type chunkReader struct {
	r io.Reader
	n int
}

func (c *chunkReader) Read(p []byte) (int, error) {
	if len(p) > c.n {
		p = p[:c.n]
	}
	return c.r.Read(p)
}

func readAllFrames(t *testing.T, r io.Reader) []Frame {
	t.Helper()
	fr := NewFrameReader(r)
	var frames []Frame
	for {
		frame, err := fr.Next()
		if err == io.EOF {
			return frames
		}
		require.NoError(t, err)
		frames = append(frames, frame)
	}
}

const sampleStream = "data: {\"type\":\"tool_start\",\"tool\":\"find_slots\"}\n" +
	"\n" +
	"data: {\"type\":\"message\",\"text\":\"Looking...\"}\n" +
	"data: {\"type\":\"message\",\"text\":\"Found 3 slots\"}\n" +
	": keep-alive comment\n" +
	"data: {\"type\":\"tool_end\"}\n"

func TestFrameReader_DecodesOrderedFrames(t *testing.T) {
	frames := readAllFrames(t, strings.NewReader(sampleStream))

	require.Len(t, frames, 4)
	assert.Equal(t, FrameToolStart, frames[0].Type)
	assert.Equal(t, "find_slots", frames[0].Tool)
	assert.Equal(t, "Looking...", frames[1].Text)
	assert.Equal(t, "Found 3 slots", frames[2].Text)
	assert.Equal(t, FrameToolEnd, frames[3].Type)
}

func TestFrameReader_ChunkBoundaryInvariance(t *testing.T) {
	want := readAllFrames(t, strings.NewReader(sampleStream))

	for _, size := range []int{1, 2, 3, 7, 16, 64, 4096} {
		got := readAllFrames(t, &chunkReader{r: strings.NewReader(sampleStream), n: size})
		assert.Equal(t, want, got, "chunk size %d", size)
	}
}

func TestFrameReader_SkipsMalformedPayloads(t *testing.T) {
	stream := "data: {not json\n" +
		"data: {\"type\":\"message\",\"text\":\"ok\"}\n" +
		"data: \n" +
		"data: {\"type\":\"message\",\"text\":\"still ok\"}\n"

	frames := readAllFrames(t, strings.NewReader(stream))
	require.Len(t, frames, 2)
	assert.Equal(t, "ok", frames[0].Text)
	assert.Equal(t, "still ok", frames[1].Text)
}

func TestFrameReader_SkipsUnknownTypes(t *testing.T) {
	stream := "data: {\"type\":\"telemetry\",\"text\":\"x\"}\n" +
		"data: {\"type\":\"message\",\"text\":\"hello\"}\n"

	frames := readAllFrames(t, strings.NewReader(stream))
	require.Len(t, frames, 1)
	assert.Equal(t, "hello", frames[0].Text)
}

func TestFrameReader_CRLFAndFinalUnterminatedLine(t *testing.T) {
	stream := "data: {\"type\":\"message\",\"text\":\"a\"}\r\n" +
		"data: {\"type\":\"message\",\"text\":\"b\"}" // no trailing newline

	frames := readAllFrames(t, strings.NewReader(stream))
	require.Len(t, frames, 2)
	assert.Equal(t, "a", frames[0].Text)
	assert.Equal(t, "b", frames[1].Text)
}

func TestFrameReader_DecodesAllFrameTypes(t *testing.T) {
	stream := "data: {\"type\":\"profile_suggestion\",\"key\":\"duration\",\"value\":\"90\"}\n" +
		"data: {\"type\":\"suggestion_chips\",\"options\":[\"Tomorrow at 18:00\",\"Show doubles\"]}\n" +
		"data: {\"type\":\"error\",\"code\":\"club_not_found\",\"message\":\"No club matched\"}\n"

	frames := readAllFrames(t, strings.NewReader(stream))
	require.Len(t, frames, 3)

	assert.Equal(t, "duration", frames[0].Key)
	assert.Equal(t, "90", frames[0].Value)
	assert.Equal(t, []string{"Tomorrow at 18:00", "Show doubles"}, frames[1].Options)
	assert.Equal(t, "club_not_found", frames[2].Code)
	assert.Equal(t, "No club matched", frames[2].Message)
}

func TestFrameReader_EmptyStream(t *testing.T) {
	fr := NewFrameReader(strings.NewReader(""))
	_, err := fr.Next()
	assert.Equal(t, io.EOF, err)
}

func TestFrameReader_OversizedLineAborts(t *testing.T) {
	huge := "data: {\"type\":\"message\",\"text\":\"" + strings.Repeat("x", MaxLineSize+1024) + "\"}"
	fr := NewFrameReader(strings.NewReader(huge))
	_, err := fr.Next()
	// The final unterminated line is parsed at EOF only if under the cap;
	// here it must abort instead.
	require.Error(t, err)
	assert.NotEqual(t, io.EOF, err)
}
