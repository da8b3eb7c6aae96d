package artwork

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// RawDescriptor is the minimal per-image information yielded by a metadata
// source before extraction and normalization. Only Filename is mandatory;
// manifest sources may carry explicit metadata that takes precedence over
// anything embedded in the file.
type RawDescriptor struct {
	Filename    string `json:"filename"`
	Title       string `json:"title,omitempty"`
	Date        string `json:"date,omitempty"`
	Description string `json:"description,omitempty"`
}

// Metadata holds best-effort fields recovered from an image's embedded tags.
// Any field may be absent.
type Metadata struct {
	CapturedAt  time.Time
	Title       string
	Description string
	Camera      string
	Software    string
}

// IsZero reports whether no metadata was recovered at all.
func (m Metadata) IsZero() bool {
	return m.CapturedAt.IsZero() && m.Title == "" && m.Description == "" &&
		m.Camera == "" && m.Software == ""
}

// Record is a fully resolved gallery entry. Filename is set at creation and
// never mutated; CapturedAt is always a valid timestamp after ingestion
// (extraction failure substitutes the load time rather than leaving it unset).
type Record struct {
	Filename    string    `json:"filename"`
	Src         string    `json:"src"`
	Title       string    `json:"title"`
	CapturedAt  time.Time `json:"captured_at"`
	Description string    `json:"description,omitempty"`
	Camera      string    `json:"camera,omitempty"`
	Software    string    `json:"software,omitempty"`
	Width       int       `json:"width,omitempty"`
	Height      int       `json:"height,omitempty"`
}

// LoadPass summarizes one completed collection rebuild.
type LoadPass struct {
	ID         int           `json:"id" db:"id"`
	Source     string        `json:"source" db:"source"`
	ImageCount int           `json:"image_count" db:"image_count"`
	Duration   time.Duration `json:"duration" db:"duration_ms"`
	StartedAt  time.Time     `json:"started_at" db:"started_at"`
}

// Domain errors
var (
	ErrInvalidFilename   = errors.New("invalid filename")
	ErrUnsupportedFile   = errors.New("unsupported file type")
	ErrArtworkNotFound   = errors.New("artwork not found")
	ErrNoDescriptors     = errors.New("source yielded no descriptors")
	ErrSourceUnavailable = errors.New("source unavailable")
)

const MaxFilenameLen = 255

// SupportedExtensions lists the image file extensions the gallery accepts.
var SupportedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// IsSupportedFile reports whether the filename carries a known image extension.
func IsSupportedFile(name string) bool {
	return SupportedExtensions[strings.ToLower(path.Ext(name))]
}

// Validate checks the descriptor for use as a gallery entry.
func (d *RawDescriptor) Validate() error {
	if d.Filename == "" {
		return fmt.Errorf("%w: filename cannot be empty", ErrInvalidFilename)
	}
	if len(d.Filename) > MaxFilenameLen {
		return fmt.Errorf("%w: filename too long (max %d characters)", ErrInvalidFilename, MaxFilenameLen)
	}
	if !utf8.ValidString(d.Filename) {
		return fmt.Errorf("%w: filename contains invalid UTF-8", ErrInvalidFilename)
	}
	if strings.Contains(d.Filename, "..") || strings.ContainsAny(d.Filename, "/\\") {
		return fmt.Errorf("%w: filename must not contain path separators", ErrInvalidFilename)
	}
	if !IsSupportedFile(d.Filename) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFile, d.Filename)
	}
	return nil
}

// DeriveTitle produces a display title from a filename when no explicit or
// embedded title exists: the extension is dropped, dashes and underscores
// become spaces, every run of digits gains a leading '#', and the first
// letter of each word is capitalized. "my_art-02.jpg" becomes "My Art #02".
func DeriveTitle(filename string) string {
	base := strings.TrimSuffix(filename, path.Ext(filename))
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)

	var b strings.Builder
	inDigits := false
	for _, r := range base {
		if unicode.IsDigit(r) && !inDigits {
			b.WriteRune('#')
		}
		inDigits = unicode.IsDigit(r)
		b.WriteRune(r)
	}

	words := strings.Fields(b.String())
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		if unicode.IsLetter(r) {
			words[i] = string(unicode.ToUpper(r)) + w[size:]
		}
	}
	return strings.Join(words, " ")
}

// HasDimensions reports whether the image dimensions are known.
func (r *Record) HasDimensions() bool {
	return r.Width > 0 && r.Height > 0
}

// FormattedDate renders CapturedAt as e.g. "June 1, 2024".
func (r *Record) FormattedDate() string {
	return r.CapturedAt.Format("January 2, 2006")
}

// DimensionString renders the dimensions as "800 × 600", or "" when unknown.
func (r *Record) DimensionString() string {
	if !r.HasDimensions() {
		return ""
	}
	return fmt.Sprintf("%d × %d", r.Width, r.Height)
}

// Caption assembles the modal caption: date and dimensions first, then the
// optional description, software and camera, joined with a separator. Fields
// that are absent are skipped.
func (r *Record) Caption() string {
	parts := []string{r.FormattedDate()}
	if s := r.DimensionString(); s != "" {
		parts = append(parts, s)
	}
	for _, s := range []string{r.Description, r.Software, r.Camera} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " • ")
}
