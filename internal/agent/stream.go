// Copyright (c) 2025 Courtside Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package agent

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/rs/zerolog/log"
)

// =============================================================================
// STREAMING CONSTANTS
// =============================================================================

// readChunkSize is how much is pulled from the network per read.
const readChunkSize = 4 * 1024

// MaxLineSize is the maximum allowed size for a single event line (64KB).
// A line that grows past this without a newline aborts the stream.
const MaxLineSize = 64 * 1024

// dataPrefix marks the lines that carry event payloads. Everything else
// (blank separators, comments, other SSE fields) is tolerated and skipped.
var dataPrefix = []byte("data: ")

// =============================================================================
// FRAME READER
// =============================================================================

// FrameReader incrementally decodes a byte stream into Frames. It keeps a
// growing buffer of unparsed input; a trailing partial line at the end of a
// read is retained and completed by the next read, so the frame sequence is
// identical no matter how the stream is split into chunks.
//
// A FrameReader is single-use: one instance per response body.
type FrameReader struct {
	r    io.Reader
	buf  []byte
	done bool
}

// NewFrameReader creates a frame reader over r.
func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{r: r}
}

// Next returns the next decoded frame. It returns io.EOF when the stream is
// exhausted and any other read error as-is. Malformed payloads and unknown
// frame types are logged and skipped; they never abort the stream.
func (fr *FrameReader) Next() (Frame, error) {
	for {
		line, ok := fr.takeLine()
		if !ok {
			if fr.done {
				// Stream ended; a final unterminated line is still a
				// complete line at this point.
				if len(fr.buf) > 0 {
					line = fr.buf
					fr.buf = nil
					if frame, ok := fr.decodeLine(line); ok {
						return frame, nil
					}
				}
				return Frame{}, io.EOF
			}
			if err := fr.fill(); err != nil {
				if err == io.EOF {
					fr.done = true
					continue
				}
				return Frame{}, err
			}
			continue
		}

		if frame, ok := fr.decodeLine(line); ok {
			return frame, nil
		}
	}
}

// takeLine removes the first complete line from the buffer. The second
// return value is false when no full line is buffered yet.
func (fr *FrameReader) takeLine() ([]byte, bool) {
	idx := bytes.IndexByte(fr.buf, '\n')
	if idx < 0 {
		return nil, false
	}
	line := fr.buf[:idx]
	fr.buf = fr.buf[idx+1:]
	return line, true
}

// fill reads the next chunk from the underlying stream into the buffer.
func (fr *FrameReader) fill() error {
	if len(fr.buf) > MaxLineSize {
		return &oversizedLineError{size: len(fr.buf)}
	}
	chunk := make([]byte, readChunkSize)
	n, err := fr.r.Read(chunk)
	if n > 0 {
		fr.buf = append(fr.buf, chunk[:n]...)
		return nil
	}
	return err
}

// decodeLine parses one line into a frame. Returns ok=false for lines that
// carry no usable frame: non-data lines, malformed JSON, unknown types.
func (fr *FrameReader) decodeLine(line []byte) (Frame, bool) {
	line = bytes.TrimRight(line, "\r")
	if !bytes.HasPrefix(line, dataPrefix) {
		return Frame{}, false
	}
	payload := line[len(dataPrefix):]

	var frame Frame
	if err := json.Unmarshal(payload, &frame); err != nil {
		log.Debug().Err(err).Int("bytes", len(payload)).Msg("skipping malformed event payload")
		return Frame{}, false
	}
	if !frame.IsKnown() {
		log.Debug().Str("type", string(frame.Type)).Msg("skipping unknown frame type")
		return Frame{}, false
	}
	return frame, true
}

// oversizedLineError aborts a stream whose current line never terminates.
type oversizedLineError struct {
	size int
}

// Error implements the error interface.
func (e *oversizedLineError) Error() string {
	return "event line exceeds maximum size"
}
