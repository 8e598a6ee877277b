package frames

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
)

var (
	// ErrInvalidInterval is returned by Sample for an interval below 1.
	ErrInvalidInterval = errors.New("frames: interval must be >= 1")
	// ErrNoFrames is returned when a path holds no decodable frames.
	ErrNoFrames = errors.New("frames: no frames")
)

// Source yields frames in order.
type Source interface {
	// Next returns the next frame, or io.EOF after the last one.
	Next(ctx context.Context) (image.Image, error)
	// Len is the total number of frames.
	Len() int
	Close() error
}

// Skipper is implemented by sources that can pass over a frame without
// decoding it. Sample uses it for the frames it drops.
type Skipper interface {
	// Skip advances past the next frame, or returns io.EOF after the last one.
	Skip(ctx context.Context) error
}

// imageExts are the still-image extensions OpenDir picks up.
var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// Open returns a Source for path: OpenDir for a directory, OpenGIF for a
// .gif file, and a one-frame source for any other image file.
func Open(path string) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open frames: %w", err)
	}
	if info.IsDir() {
		return OpenDir(path)
	}
	if strings.EqualFold(filepath.Ext(path), ".gif") {
		return OpenGIF(path)
	}
	return &fileSource{paths: []string{path}}, nil
}

// OpenDir returns a Source over the image files directly inside dir, in
// lexical file name order. Zero-padded names keep frame order.
// Subdirectories and other files are skipped.
func OpenDir(dir string) (Source, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read frame directory: %w", err)
	}

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoFrames)
	}
	sort.Strings(paths)

	return &fileSource{paths: paths}, nil
}

// fileSource decodes one file per frame on demand.
type fileSource struct {
	paths []string
	next  int
}

func (s *fileSource) Next(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.next >= len(s.paths) {
		return nil, io.EOF
	}
	path := s.paths[s.next]
	s.next++

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("frame %d (%s): %w", s.next-1, filepath.Base(path), err)
	}
	return img, nil
}

// Skip advances without opening the file, so a dropped frame that would not
// decode does not stop sampling.
func (s *fileSource) Skip(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.next >= len(s.paths) {
		return io.EOF
	}
	s.next++
	return nil
}

func (s *fileSource) Len() int { return len(s.paths) }

func (s *fileSource) Close() error { return nil }

// Sample reads src to the end and calls fn with frames 0, every, 2*every
// and so on, passing each frame's index in the source. It returns how many
// frames were passed to fn.
//
// Dropped frames are skipped without decoding when src implements Skipper.
// Sample stops early when ctx is done, when src fails, or when fn returns
// an error, and returns that error.
func Sample(ctx context.Context, src Source, every int, fn func(index int, img image.Image) error) (int, error) {
	if every < 1 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidInterval, every)
	}
	skipper, canSkip := src.(Skipper)

	sent := 0
	for index := 0; ; index++ {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		if index%every != 0 && canSkip {
			err := skipper.Skip(ctx)
			if errors.Is(err, io.EOF) {
				return sent, nil
			}
			if err != nil {
				return sent, err
			}
			continue
		}

		img, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			return sent, nil
		}
		if err != nil {
			return sent, err
		}
		if index%every != 0 {
			continue
		}
		if err := fn(index, img); err != nil {
			return sent, err
		}
		sent++
	}
}

// Sampled reports how many frames Sample forwards from a source of n
// frames.
func Sampled(n, every int) int {
	if n <= 0 || every < 1 {
		return 0
	}
	return (n + every - 1) / every
}
