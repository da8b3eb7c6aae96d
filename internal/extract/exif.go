// Package extract recovers embedded metadata from image files. Extraction is
// strictly best-effort: any failure, including the tag-reading capability
// being unavailable, degrades to empty metadata rather than failing the
// caller.
package extract

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"sync"
	"time"
	"unicode/utf16"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"
	"github.com/rwcarlsen/goexif/tiff"

	"art-gallery/internal/domain/artwork"
	"art-gallery/internal/observability"
)

// goexif has no constant for ProcessingSoftware (TIFF tag 0x000B).
const processingSoftware = exif.FieldName("ProcessingSoftware")

// exifDateLayout is the timestamp format used inside EXIF blocks.
const exifDateLayout = "2006:01:02 15:04:05"

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// TagReader is the tag-reading capability. It returns every string-valued
// tag found in the stream, keyed by EXIF field name.
type TagReader interface {
	ReadTags(r io.Reader) (map[string]string, error)
}

// Extractor derives artwork metadata from embedded image tags. The tag
// reader is initialized lazily on first use; when it cannot be obtained,
// every call degrades to empty metadata.
type Extractor struct {
	log *observability.Logger

	mu     sync.Mutex
	ready  bool
	reader TagReader
}

func New(log *observability.Logger) *Extractor {
	return &Extractor{log: log}
}

// NewWithReader creates an extractor with an explicit tag reader. Used by
// tests; a nil reader models the capability being unavailable.
func NewWithReader(log *observability.Logger, reader TagReader) *Extractor {
	return &Extractor{log: log, ready: true, reader: reader}
}

func (e *Extractor) tagReader() TagReader {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready {
		e.reader = newEXIFReader()
		e.ready = true
	}
	return e.reader
}

// Extract reads embedded tags from r and maps them onto artwork metadata.
// It never returns an error; absent or unreadable tags leave fields empty.
func (e *Extractor) Extract(r io.Reader) artwork.Metadata {
	if r == nil {
		return artwork.Metadata{}
	}

	br := bufio.NewReader(r)

	// PNG stores metadata in tEXt/iTXt chunks rather than EXIF. That
	// convention is an unimplemented extension point: extraction yields
	// nothing for PNG files.
	if sig, err := br.Peek(len(pngSignature)); err == nil && bytes.Equal(sig, pngSignature) {
		return artwork.Metadata{}
	}

	reader := e.tagReader()
	if reader == nil {
		return artwork.Metadata{}
	}

	tags, err := reader.ReadTags(br)
	if err != nil {
		return artwork.Metadata{}
	}

	return mapTags(tags)
}

// mapTags applies the per-field priority order over the raw tag set.
func mapTags(tags map[string]string) artwork.Metadata {
	meta := artwork.Metadata{
		Title:       first(tags, string(exif.ImageDescription), string(exif.XPTitle), string(exif.XPSubject)),
		Description: first(tags, string(exif.XPComment), string(exif.UserComment), string(exif.ImageDescription)),
		Software:    first(tags, string(exif.Software), string(processingSoftware)),
	}

	if raw := first(tags, string(exif.DateTimeOriginal), string(exif.DateTime), string(exif.DateTimeDigitized)); raw != "" {
		if ts, err := time.Parse(exifDateLayout, raw); err == nil {
			meta.CapturedAt = ts
		}
	}

	cameraMake, cameraModel := tags[string(exif.Make)], tags[string(exif.Model)]
	if cameraMake != "" && cameraModel != "" {
		meta.Camera = cameraMake + " " + cameraModel
	}

	return meta
}

func first(tags map[string]string, names ...string) string {
	for _, name := range names {
		if v := tags[name]; v != "" {
			return v
		}
	}
	return ""
}

// exifReader reads EXIF tags with goexif.
type exifReader struct{}

func newEXIFReader() *exifReader {
	exif.RegisterParsers(mknote.All...)
	return &exifReader{}
}

func (er *exifReader) ReadTags(r io.Reader) (map[string]string, error) {
	x, err := exif.Decode(r)
	if err != nil {
		return nil, err
	}

	tags := make(tagCollector)
	_ = x.Walk(tags) //nolint:errcheck // collector never returns an error
	return tags, nil
}

// tagCollector gathers string-valued tags during an EXIF walk.
type tagCollector map[string]string

func (c tagCollector) Walk(name exif.FieldName, tag *tiff.Tag) error {
	if v, err := tag.StringVal(); err == nil {
		if v = strings.TrimSpace(strings.Trim(v, "\x00")); v != "" {
			c[string(name)] = v
		}
		return nil
	}

	// Windows XP* tags hold UTF-16LE bytes rather than an ASCII string.
	if strings.HasPrefix(string(name), "XP") {
		if v := decodeUTF16LE(tag.Val); v != "" {
			c[string(name)] = v
		}
	}

	return nil
}

func decodeUTF16LE(b []byte) string {
	if len(b) < 2 {
		return ""
	}
	u := make([]uint16, 0, len(b)/2)
	for i := 0; i+1 < len(b); i += 2 {
		u = append(u, uint16(b[i])|uint16(b[i+1])<<8)
	}
	return strings.TrimSpace(strings.Trim(string(utf16.Decode(u)), "\x00"))
}
