package testutils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"art-gallery/internal/domain/artwork"
	"art-gallery/internal/platform/database"
)

// TestSuite provides common test utilities for integration tests
type TestSuite struct {
	Containers *TestContainers
	LoadPasses *database.LoadPassRepository
}

// SetupTestSuite initializes a complete test suite with containers and the
// load pass repository
func SetupTestSuite(ctx context.Context) (*TestSuite, error) {
	containers, err := SetupTestContainers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to setup test containers: %w", err)
	}

	return &TestSuite{
		Containers: containers,
		LoadPasses: database.NewLoadPassRepository(containers.DB),
	}, nil
}

// Cleanup cleans up all test resources
func (ts *TestSuite) Cleanup(ctx context.Context) error {
	return ts.Containers.Cleanup(ctx)
}

// ResetData clears all test data and resets the environment
func (ts *TestSuite) ResetData(ctx context.Context) error {
	if err := ts.Containers.ResetDatabase(ctx); err != nil {
		return err
	}
	return ts.Containers.FlushCache(ctx)
}

// SeedArtwork uploads a generated test image into the artwork bucket
func (ts *TestSuite) SeedArtwork(ctx context.Context, filename string) error {
	data := GenerateTestPNG(64, 48)
	return ts.Containers.Store.Put(ctx, filename, "image/png", bytes.NewReader(data), int64(len(data)))
}

// RecordTestLoadPass inserts a synthetic load pass for repository tests
func (ts *TestSuite) RecordTestLoadPass(ctx context.Context, source string, count int) (*artwork.LoadPass, error) {
	pass := &artwork.LoadPass{
		Source:     source,
		ImageCount: count,
		Duration:   time.Duration(rand.Intn(500)) * time.Millisecond,
		StartedAt:  time.Now().UTC(),
	}

	if err := ts.LoadPasses.Record(ctx, pass); err != nil {
		return nil, fmt.Errorf("failed to record test load pass: %w", err)
	}

	return pass, nil
}

// GenerateTestPNG encodes a valid PNG of the given dimensions so image
// inspection sees real width and height values
func GenerateTestPNG(width, height int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil
	}
	return buf.Bytes()
}

// MakeTestRequest creates an HTTP test request with the given parameters
func MakeTestRequest(method, url string, body io.Reader, headers map[string]string) *http.Request {
	req := httptest.NewRequest(method, url, body)

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	return req
}

// MakeJSONRequest creates an HTTP test request with JSON body
func MakeJSONRequest(method, url string, payload interface{}) *http.Request {
	var body io.Reader
	if payload != nil {
		jsonData, _ := json.Marshal(payload)
		body = bytes.NewReader(jsonData)
	}

	req := httptest.NewRequest(method, url, body)
	req.Header.Set("Content-Type", "application/json")

	return req
}

// AssertHTTPStatus checks if the HTTP response has the expected status code
func AssertHTTPStatus(t TestingInterface, resp *httptest.ResponseRecorder, expectedStatus int) {
	if resp.Code != expectedStatus {
		t.Errorf("Expected status %d, got %d. Body: %s", expectedStatus, resp.Code, resp.Body.String())
	}
}

// AssertJSONResponse checks if the response contains valid JSON and optionally validates structure
func AssertJSONResponse(t TestingInterface, resp *httptest.ResponseRecorder, target interface{}) error {
	if !strings.Contains(resp.Header().Get("Content-Type"), "application/json") {
		t.Errorf("Expected JSON response, got %s", resp.Header().Get("Content-Type"))
		return fmt.Errorf("not a JSON response")
	}

	if target != nil {
		if err := json.Unmarshal(resp.Body.Bytes(), target); err != nil {
			t.Errorf("Failed to unmarshal JSON response: %v", err)
			return err
		}
	}

	return nil
}

// TestingInterface defines the interface for testing frameworks (compatible with testing.T)
type TestingInterface interface {
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
	Helper()
}

// RandomString generates a random string of specified length
func RandomString(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}

// RandomFilename generates a random supported image filename
func RandomFilename() string {
	return fmt.Sprintf("%s.png", RandomString(8))
}
