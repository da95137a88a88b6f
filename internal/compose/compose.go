package compose

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"
)

var ErrTooLarge = errors.New("sheet exceeds the size limit at minimum quality")

// Options controls cell size and JPEG encoding
type Options struct {
	CellWidth   int
	CellHeight  int
	MaxBytes    int64 // Zero disables the limit
	Quality     int   // Starting JPEG quality, 1-100
	QualityStep int   // Quality reduction per retry
	Background  color.Color
}

// DefaultOptions matches TTS card proportions and Cloudinary's free-tier upload limit
func DefaultOptions() Options {
	return Options{
		CellWidth:   750,
		CellHeight:  1050,
		MaxBytes:    10485760,
		Quality:     100,
		QualityStep: 2,
		Background:  color.Black,
	}
}

// ParseBackground parses a hex color such as "#1a1a1a"
func ParseBackground(hex string) (color.Color, error) {
	if hex == "" {
		return color.Black, nil
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return nil, fmt.Errorf("invalid background color %q: %v", hex, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// Result describes a written sheet image
type Result struct {
	Path    string
	Bytes   int
	Quality int
	Missing []string // Source images that could not be read, left blank
}

// Compositor renders sheet images
type Compositor struct {
	opts Options
	log  *slog.Logger
}

// New creates a compositor; zero option fields take their defaults
func New(opts Options, log *slog.Logger) *Compositor {
	def := DefaultOptions()
	if opts.CellWidth <= 0 {
		opts.CellWidth = def.CellWidth
	}
	if opts.CellHeight <= 0 {
		opts.CellHeight = def.CellHeight
	}
	if opts.Quality <= 0 || opts.Quality > 100 {
		opts.Quality = def.Quality
	}
	if opts.QualityStep <= 0 {
		opts.QualityStep = def.QualityStep
	}
	if opts.Background == nil {
		opts.Background = def.Background
	}
	if log == nil {
		log = slog.Default()
	}
	return &Compositor{opts: opts, log: log}
}

// Sheet pastes images row-major into a rows×cols grid and writes it to out
// as JPEG, lowering quality until the file fits the size limit.
func (c *Compositor) Sheet(paths []string, rows, cols int, out string) (Result, error) {
	if rows <= 0 || cols <= 0 || len(paths) > rows*cols {
		return Result{}, fmt.Errorf("grid %dx%d cannot hold %d images", rows, cols, len(paths))
	}

	w, h := c.opts.CellWidth, c.opts.CellHeight
	canvas := imaging.New(cols*w, rows*h, c.opts.Background)

	res := Result{Path: out}
	for i, p := range paths {
		img, err := imaging.Open(p)
		if err != nil {
			c.log.Warn("Leaving slot blank", "image", p, "error", err)
			res.Missing = append(res.Missing, p)
			continue
		}
		cell := resize.Resize(uint(w), uint(h), img, resize.Lanczos3)
		canvas = imaging.Paste(canvas, cell, image.Pt((i%cols)*w, (i/cols)*h))
	}

	data, quality, err := c.encode(canvas)
	if err != nil {
		return res, fmt.Errorf("%s: %w", filepath.Base(out), err)
	}
	if err := writeFile(out, data); err != nil {
		return res, err
	}

	res.Bytes = len(data)
	res.Quality = quality
	return res, nil
}

func (c *Compositor) encode(img image.Image) ([]byte, int, error) {
	var buf bytes.Buffer
	quality := c.opts.Quality
	for {
		buf.Reset()
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
			return nil, quality, fmt.Errorf("encode jpeg: %w", err)
		}
		if c.opts.MaxBytes <= 0 || int64(buf.Len()) <= c.opts.MaxBytes {
			return buf.Bytes(), quality, nil
		}
		if quality <= c.opts.QualityStep {
			return nil, quality, fmt.Errorf("%w (%d bytes at quality %d)", ErrTooLarge, buf.Len(), quality)
		}
		quality -= c.opts.QualityStep
		c.log.Debug("Sheet too big, lowering quality", "bytes", buf.Len(), "quality", quality)
	}
}

// writeFile replaces path atomically through a temp file in the same folder
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	tmp := filepath.Join(dir, ".tmp-"+filepath.Base(path)+"-"+strconv.FormatInt(time.Now().UnixNano(), 10))
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
