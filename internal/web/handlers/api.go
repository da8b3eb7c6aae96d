package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"art-gallery/internal/domain/artwork"
	"art-gallery/internal/gallery"

	"github.com/go-chi/chi/v5"
)

// ArtworkResponse is the JSON shape of one gallery entry.
type ArtworkResponse struct {
	Filename    string `json:"filename"`
	Title       string `json:"title"`
	Src         string `json:"src"`
	CapturedAt  string `json:"captured_at"`
	Description string `json:"description,omitempty"`
	Camera      string `json:"camera,omitempty"`
	Software    string `json:"software,omitempty"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
}

func (h *Handler) listArtworksHandler(w http.ResponseWriter, r *http.Request) {
	h.loader.EnsureLoaded(r.Context())

	if raw := r.URL.Query().Get("sort"); raw != "" {
		h.loader.SortBy(gallery.ParseSortKey(raw))
	}
	records := h.loader.Records()

	// htmx requests get card fragments, everything else gets JSON
	if r.Header.Get("HX-Request") != "" {
		h.renderCards(w, records)
	} else {
		h.renderJSON(w, records)
	}
}

func (h *Handler) refreshArtworksHandler(w http.ResponseWriter, r *http.Request) {
	count, err := h.loader.Refresh(r.Context())
	if err != nil {
		http.Error(w, "Failed to refresh gallery", http.StatusInternalServerError)
		return
	}

	if r.Header.Get("HX-Request") != "" {
		h.renderCards(w, h.loader.Records())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck // Best effort response
		"refreshed": true,
		"count":     count,
	})
}

// renderCards writes the artwork grid as HTML fragments. An empty gallery
// renders the instructional state instead of an error.
func (h *Handler) renderCards(w http.ResponseWriter, records []artwork.Record) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if len(records) == 0 {
		const empty = `<div class="empty">
			<p>No artworks found.</p>
			<p>Add images to the configured base URL or bucket, or publish an <code>images.json</code> manifest, then refresh this page.</p>
		</div>`
		if _, err := w.Write([]byte(empty)); err != nil {
			http.Error(w, "Failed to write response", http.StatusInternalServerError)
		}
		return
	}

	for _, rec := range records {
		card := fmt.Sprintf(`
			<div class="card" onclick="openModal('%s', '%s', '%s')">
				<img src="%s" alt="%s" loading="lazy">
				<div class="meta">
					<h3>%s</h3>
					<p>%s</p>
				</div>
			</div>`,
			template.JSEscapeString(rec.Src),
			template.JSEscapeString(rec.Title),
			template.JSEscapeString(rec.Caption()),
			html.EscapeString(rec.Src),
			html.EscapeString(rec.Title),
			html.EscapeString(rec.Title),
			html.EscapeString(rec.Caption()))
		if _, err := w.Write([]byte(card)); err != nil {
			http.Error(w, "Failed to write response", http.StatusInternalServerError)
			return
		}
	}
}

func (h *Handler) renderJSON(w http.ResponseWriter, records []artwork.Record) {
	artworks := make([]ArtworkResponse, 0, len(records))
	for _, rec := range records {
		artworks = append(artworks, ArtworkResponse{
			Filename:    rec.Filename,
			Title:       rec.Title,
			Src:         rec.Src,
			CapturedAt:  rec.FormattedDate(),
			Description: rec.Description,
			Camera:      rec.Camera,
			Software:    rec.Software,
			Width:       rec.Width,
			Height:      rec.Height,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{
		"artworks":    artworks,
		"total_count": len(artworks),
		"sort":        string(h.loader.Sort()),
	}); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// LoadPassResponse is the JSON shape of one recorded load pass.
type LoadPassResponse struct {
	ID         int    `json:"id"`
	Source     string `json:"source"`
	ImageCount int    `json:"image_count"`
	DurationMS int64  `json:"duration_ms"`
	StartedAt  string `json:"started_at"`
}

// listLoadPassesHandler exposes the load-pass audit log, newest first.
func (h *Handler) listLoadPassesHandler(w http.ResponseWriter, r *http.Request) {
	repo := h.container.LoadPasses()
	if repo == nil {
		http.Error(w, "Load pass auditing is not enabled", http.StatusNotFound)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	passes, err := repo.Recent(r.Context(), limit)
	if err != nil {
		http.Error(w, "Failed to query load passes", http.StatusInternalServerError)
		return
	}

	out := make([]LoadPassResponse, 0, len(passes))
	for _, p := range passes {
		out = append(out, LoadPassResponse{
			ID:         p.ID,
			Source:     p.Source,
			ImageCount: p.ImageCount,
			DurationMS: p.Duration.Milliseconds(),
			StartedAt:  p.StartedAt.Format(time.RFC3339),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{
		"load_passes": out,
		"total_count": len(out),
	}); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func (h *Handler) viewArtworkHandler(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	if decoded, err := url.PathUnescape(filename); err == nil {
		filename = decoded
	}
	if strings.ContainsAny(filename, "/\\") || !artwork.IsSupportedFile(filename) {
		http.Error(w, "Invalid artwork filename", http.StatusBadRequest)
		return
	}

	body, err := h.loader.Fetcher().Fetch(r.Context(), filename)
	if err != nil {
		if errors.Is(err, artwork.ErrArtworkNotFound) {
			http.Error(w, "Artwork not found", http.StatusNotFound)
		} else {
			http.Error(w, "Failed to fetch artwork", http.StatusBadGateway)
		}
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", contentTypeFor(filename))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := io.Copy(w, body); err != nil {
		h.log.Warn(r.Context()).
			Err(err).
			Str("filename", filename).
			Msg("artwork stream interrupted")
	}
}

func contentTypeFor(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
