// Package sse decodes the chat-completion event stream returned by the relay.
//
// Network reads can end anywhere, including in the middle of a frame or a
// multi-byte character, so the decoder keeps the trailing partial line
// between writes and only parses complete lines.
package sse

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/a-h/glamcare/models"
)

var (
	dataPrefix = []byte("data: ")
	done       = []byte("[DONE]")
)

// DeltaFunc receives the text of each frame in arrival order.
type DeltaFunc func(delta string) error

func NewDecoder(f DeltaFunc) *Decoder {
	return &Decoder{
		f: f,
	}
}

type Decoder struct {
	f   DeltaFunc
	buf []byte
}

// Write buffers p and processes every complete line in the buffer.
func (d *Decoder) Write(p []byte) (n int, err error) {
	d.buf = append(d.buf, p...)
	var start int
	for {
		i := bytes.IndexByte(d.buf[start:], '\n')
		if i < 0 {
			break
		}
		line := d.buf[start : start+i]
		start += i + 1
		if err = d.line(line); err != nil {
			d.buf = append(d.buf[:0], d.buf[start:]...)
			return len(p), err
		}
	}
	d.buf = append(d.buf[:0], d.buf[start:]...)
	return len(p), nil
}

// Flush processes whatever is left in the buffer, so that a final frame
// without a trailing newline isn't lost.
func (d *Decoder) Flush() error {
	if len(d.buf) == 0 {
		return nil
	}
	line := d.buf
	d.buf = nil
	return d.line(line)
}

func (d *Decoder) line(line []byte) error {
	line = bytes.TrimSuffix(line, []byte("\r"))
	payload, ok := bytes.CutPrefix(line, dataPrefix)
	if !ok {
		return nil
	}
	payload = bytes.TrimSpace(payload)
	if bytes.Equal(payload, done) {
		return nil
	}
	var chunk models.CompletionChunk
	if err := json.Unmarshal(payload, &chunk); err != nil {
		// Skip malformed frames, the rest of the stream is still usable.
		return nil
	}
	text, ok := chunk.Text()
	if !ok {
		return nil
	}
	return d.f(text)
}

// Decode reads r until EOF in chunks of bufferSize bytes, calling f for each
// delta.
func Decode(r io.Reader, bufferSize int, f DeltaFunc) error {
	d := NewDecoder(f)
	chunk := make([]byte, bufferSize)
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			if _, werr := d.Write(chunk[:n]); werr != nil {
				return werr
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read stream: %w", err)
		}
	}
	return d.Flush()
}
