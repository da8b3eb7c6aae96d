package extract

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"art-gallery/internal/observability"
)

// stubReader returns a fixed tag set or error.
type stubReader struct {
	tags map[string]string
	err  error
}

func (s *stubReader) ReadTags(r io.Reader) (map[string]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.tags, nil
}

func TestExtract_TagPriorities(t *testing.T) {
	tests := []struct {
		name     string
		tags     map[string]string
		expected func(t *testing.T, e *extracted)
	}{
		{
			name: "full tag set",
			tags: map[string]string{
				"DateTimeOriginal": "2024:06:01 14:30:00",
				"DateTime":         "2024:07:01 00:00:00",
				"ImageDescription": "A sunset study",
				"XPComment":        "Painted over a weekend",
				"Make":             "Canon",
				"Model":            "EOS R5",
				"Software":         "Krita 5.2",
			},
			expected: func(t *testing.T, e *extracted) {
				assert.Equal(t, time.Date(2024, 6, 1, 14, 30, 0, 0, time.UTC), e.capturedAt)
				assert.Equal(t, "A sunset study", e.title)
				assert.Equal(t, "Painted over a weekend", e.description)
				assert.Equal(t, "Canon EOS R5", e.camera)
				assert.Equal(t, "Krita 5.2", e.software)
			},
		},
		{
			name: "DateTime fallback when original absent",
			tags: map[string]string{"DateTime": "2023:12:24 08:00:00"},
			expected: func(t *testing.T, e *extracted) {
				assert.Equal(t, time.Date(2023, 12, 24, 8, 0, 0, 0, time.UTC), e.capturedAt)
			},
		},
		{
			name: "XPTitle fallback when no description",
			tags: map[string]string{"XPTitle": "Night Sketch"},
			expected: func(t *testing.T, e *extracted) {
				assert.Equal(t, "Night Sketch", e.title)
			},
		},
		{
			name: "camera requires both make and model",
			tags: map[string]string{"Make": "Canon"},
			expected: func(t *testing.T, e *extracted) {
				assert.Empty(t, e.camera)
			},
		},
		{
			name: "ProcessingSoftware fallback",
			tags: map[string]string{"ProcessingSoftware": "darktable"},
			expected: func(t *testing.T, e *extracted) {
				assert.Equal(t, "darktable", e.software)
			},
		},
		{
			name: "unparseable date leaves zero timestamp",
			tags: map[string]string{"DateTimeOriginal": "yesterday-ish"},
			expected: func(t *testing.T, e *extracted) {
				assert.True(t, e.capturedAt.IsZero())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewWithReader(observability.NewNop(), &stubReader{tags: tt.tags})
			meta := e.Extract(strings.NewReader("jpeg-ish bytes"))
			tt.expected(t, &extracted{
				capturedAt:  meta.CapturedAt,
				title:       meta.Title,
				description: meta.Description,
				camera:      meta.Camera,
				software:    meta.Software,
			})
		})
	}
}

type extracted struct {
	capturedAt  time.Time
	title       string
	description string
	camera      string
	software    string
}

func TestExtract_ReaderFailureDegradesToEmpty(t *testing.T) {
	e := NewWithReader(observability.NewNop(), &stubReader{err: errors.New("no exif block")})
	meta := e.Extract(strings.NewReader("not an image"))
	assert.True(t, meta.IsZero())
}

func TestExtract_MissingCapabilityDegradesToEmpty(t *testing.T) {
	e := NewWithReader(observability.NewNop(), nil)
	meta := e.Extract(strings.NewReader("whatever"))
	assert.True(t, meta.IsZero())
}

func TestExtract_PNGYieldsNothing(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))

	// Even with a reader that would return tags, PNG input short-circuits:
	// its text-chunk convention is not implemented.
	e := NewWithReader(observability.NewNop(), &stubReader{tags: map[string]string{"XPTitle": "t"}})
	meta := e.Extract(bytes.NewReader(buf.Bytes()))
	assert.True(t, meta.IsZero())
}

func TestExtract_GarbageYieldsEmpty(t *testing.T) {
	e := New(observability.NewNop())
	meta := e.Extract(strings.NewReader("garbage that is not an image at all"))
	assert.True(t, meta.IsZero())
}

func TestExtract_NilReader(t *testing.T) {
	e := New(observability.NewNop())
	assert.True(t, e.Extract(nil).IsZero())
}

func TestDecodeUTF16LE(t *testing.T) {
	// "Hi" in UTF-16LE with a trailing NUL pair, the way XP tags are stored.
	b := []byte{'H', 0, 'i', 0, 0, 0}
	assert.Equal(t, "Hi", decodeUTF16LE(b))
	assert.Equal(t, "", decodeUTF16LE(nil))
	assert.Equal(t, "", decodeUTF16LE([]byte{0}))
}
