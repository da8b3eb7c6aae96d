package artwork

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		expected string
	}{
		{
			name:     "underscores dashes and digits",
			filename: "my_art-02.jpg",
			expected: "My Art #02",
		},
		{
			name:     "single word",
			filename: "sunset.png",
			expected: "Sunset",
		},
		{
			name:     "digits glued to letters",
			filename: "character1.jpg",
			expected: "Character#1",
		},
		{
			name:     "multiple digit runs",
			filename: "trip_2024_day_3.jpeg",
			expected: "Trip #2024 Day #3",
		},
		{
			name:     "already capitalized",
			filename: "Portrait-Study.webp",
			expected: "Portrait Study",
		},
		{
			name:     "no extension",
			filename: "doodle",
			expected: "Doodle",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DeriveTitle(tt.filename))
		})
	}
}

func TestDeriveTitle_Deterministic(t *testing.T) {
	first := DeriveTitle("my_art-02.jpg")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, DeriveTitle("my_art-02.jpg"))
	}
}

func TestIsSupportedFile(t *testing.T) {
	assert.True(t, IsSupportedFile("a.jpg"))
	assert.True(t, IsSupportedFile("b.JPEG"))
	assert.True(t, IsSupportedFile("c.png"))
	assert.True(t, IsSupportedFile("d.gif"))
	assert.True(t, IsSupportedFile("e.webp"))
	assert.False(t, IsSupportedFile("f.txt"))
	assert.False(t, IsSupportedFile("g.mp4"))
	assert.False(t, IsSupportedFile("noext"))
}

func TestRawDescriptor_Validate(t *testing.T) {
	tests := []struct {
		name        string
		descriptor  RawDescriptor
		expectError error
	}{
		{
			name:       "valid",
			descriptor: RawDescriptor{Filename: "sunset.jpg"},
		},
		{
			name:        "empty filename",
			descriptor:  RawDescriptor{},
			expectError: ErrInvalidFilename,
		},
		{
			name:        "path traversal",
			descriptor:  RawDescriptor{Filename: "../etc/passwd.png"},
			expectError: ErrInvalidFilename,
		},
		{
			name:        "unsupported extension",
			descriptor:  RawDescriptor{Filename: "notes.txt"},
			expectError: ErrUnsupportedFile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.descriptor.Validate()
			if tt.expectError != nil {
				assert.ErrorIs(t, err, tt.expectError)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRecord_FormattedDate(t *testing.T) {
	r := Record{CapturedAt: time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)}
	assert.Equal(t, "June 1, 2024", r.FormattedDate())
}

func TestRecord_Caption(t *testing.T) {
	tests := []struct {
		name     string
		record   Record
		expected string
	}{
		{
			name: "all fields",
			record: Record{
				CapturedAt:  time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
				Width:       800,
				Height:      600,
				Description: "A quick sketch",
				Software:    "Krita",
				Camera:      "Canon EOS R5",
			},
			expected: "June 1, 2024 • 800 × 600 • A quick sketch • Krita • Canon EOS R5",
		},
		{
			name: "date only",
			record: Record{
				CapturedAt: time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC),
			},
			expected: "January 15, 2023",
		},
		{
			name: "absent fields skipped",
			record: Record{
				CapturedAt: time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC),
				Camera:     "Nikon D850",
			},
			expected: "January 15, 2023 • Nikon D850",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.record.Caption())
		})
	}
}

func TestMetadata_IsZero(t *testing.T) {
	assert.True(t, Metadata{}.IsZero())
	assert.False(t, Metadata{Title: "x"}.IsZero())
	assert.False(t, Metadata{CapturedAt: time.Now()}.IsZero())
}
