// Package video abstracts video decoding behind a frame-at-a-time source.
// The analysis pipeline only ever asks for the next decoded frame or
// end-of-stream; where the frames come from is this package's concern.
package video

import "context"

// Frame is one decoded raster frame in packed RGB, 8 bits per channel.
type Frame struct {
	Index  int
	Width  int
	Height int
	RGB    []byte
}

// Source yields decoded frames in presentation order. Next returns io.EOF
// when the stream is exhausted. Sources are single-use and not safe for
// concurrent calls.
type Source interface {
	Next(ctx context.Context) (*Frame, error)
	Close() error
}

// Opener resolves a video reference and opens it for decoding.
type Opener interface {
	// Resolve reports whether the reference points at readable video data
	// without opening a decode session.
	Resolve(reference string) error
	Open(ctx context.Context, reference string) (Source, error)
}
