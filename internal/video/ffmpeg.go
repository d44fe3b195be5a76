package video

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// FFmpegOpener decodes video files by piping raw RGB frames out of an
// ffmpeg subprocess. The Go side never touches a container format.
type FFmpegOpener struct {
	FFmpegPath  string
	FFprobePath string
}

func NewFFmpegOpener() *FFmpegOpener {
	return &FFmpegOpener{FFmpegPath: "ffmpeg", FFprobePath: "ffprobe"}
}

func (o *FFmpegOpener) Resolve(reference string) error {
	info, err := os.Stat(reference)
	if err != nil {
		return errors.Wrapf(err, "resolving video reference %q", reference)
	}
	if info.IsDir() {
		return errors.Errorf("video reference %q is a directory", reference)
	}
	return nil
}

func (o *FFmpegOpener) Open(ctx context.Context, reference string) (Source, error) {
	width, height, err := o.probeDimensions(ctx, reference)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, o.FFmpegPath,
		"-v", "error",
		"-i", reference,
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"pipe:1",
	)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.Wrap(err, "creating ffmpeg stdout pipe")
	}
	if err := cmd.Start(); err != nil {
		return nil, errors.Wrapf(err, "starting ffmpeg for %q", reference)
	}

	return &ffmpegSource{
		cmd:    cmd,
		out:    bufio.NewReaderSize(stdout, 1<<20),
		width:  width,
		height: height,
	}, nil
}

func (o *FFmpegOpener) probeDimensions(ctx context.Context, reference string) (int, int, error) {
	out, err := exec.CommandContext(ctx, o.FFprobePath,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height",
		"-of", "csv=p=0",
		reference,
	).Output()
	if err != nil {
		return 0, 0, errors.Wrapf(err, "probing %q", reference)
	}

	parts := strings.Split(strings.TrimSpace(string(out)), ",")
	if len(parts) != 2 {
		return 0, 0, errors.Errorf("unexpected ffprobe output %q", string(out))
	}
	width, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, errors.Wrap(err, "parsing stream width")
	}
	height, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, errors.Wrap(err, "parsing stream height")
	}
	if width <= 0 || height <= 0 {
		return 0, 0, errors.Errorf("invalid stream dimensions %dx%d", width, height)
	}
	return width, height, nil
}

type ffmpegSource struct {
	cmd    *exec.Cmd
	out    *bufio.Reader
	width  int
	height int
	index  int
}

func (s *ffmpegSource) Next(ctx context.Context) (*Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	buf := make([]byte, s.width*s.height*3)
	if _, err := io.ReadFull(s.out, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("reading frame %d: %w", s.index, err)
	}

	frame := &Frame{Index: s.index, Width: s.width, Height: s.height, RGB: buf}
	s.index++
	return frame, nil
}

func (s *ffmpegSource) Close() error {
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	return s.cmd.Wait()
}
