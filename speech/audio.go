package speech

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
)

// wavHeaderSize is the canonical 44-byte PCM WAV header.
const wavHeaderSize = 44

// OpenAudio opens a raw linear16 PCM source. "-" reads stdin; a RIFF/WAV
// file has its header skipped.
func OpenAudio(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audio: %w", err)
	}
	r, err := SkipWAVHeader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return readCloser{r, f}, nil
}

// SkipWAVHeader drops a leading RIFF header, if present.
func SkipWAVHeader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(4)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("audio: %w", err)
	}
	if bytes.Equal(head, []byte("RIFF")) {
		if _, err := br.Discard(wavHeaderSize); err != nil {
			return nil, fmt.Errorf("audio: short wav header: %w", err)
		}
	}
	return br, nil
}

type readCloser struct {
	io.Reader
	io.Closer
}
