package server

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/menta2k/sidebyside/internal/config"
	"github.com/menta2k/sidebyside/pkg/layout"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	s, err := New(config.Default(), log.New(io.Discard))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode failed: %v", err)
	}
	return buf.Bytes()
}

func multipartBody(t *testing.T, files map[string][]byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for name, data := range files {
		fw, err := mw.CreateFormFile(name, name+".png")
		if err != nil {
			t.Fatalf("CreateFormFile failed: %v", err)
		}
		fw.Write(data)
	}
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	mw.Close()
	return &body, mw.FormDataContentType()
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200, got %d", resp.StatusCode)
	}
}

func TestLayoutEndpoint(t *testing.T) {
	ts := newTestServer(t)

	body := `{"a":{"width":400,"height":300},"b":{"width":200,"height":600},"config":{"spacing":10}}`
	resp, err := http.Post(ts.URL+"/api/layout", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var l layout.Layout
	if err := json.NewDecoder(resp.Body).Decode(&l); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if l.CanvasWidth != 610 || l.CanvasHeight != 600 || l.B.X != 410 || l.A.Y != 150 {
		t.Errorf("Unexpected layout %+v", l)
	}
}

func TestLayoutEndpointInvalidSize(t *testing.T) {
	ts := newTestServer(t)

	body := `{"a":{"width":0,"height":100},"b":{"width":50,"height":50}}`
	resp, err := http.Post(ts.URL+"/api/layout", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", resp.StatusCode)
	}

	var e map[string]string
	json.NewDecoder(resp.Body).Decode(&e)
	if e["code"] != "INVALID_IMAGE_SIZE" {
		t.Errorf("Expected INVALID_IMAGE_SIZE, got %v", e)
	}
}

func TestComposeEndpoint(t *testing.T) {
	ts := newTestServer(t)

	body, ct := multipartBody(t,
		map[string][]byte{"image1": pngBytes(t, 40, 30), "image2": pngBytes(t, 20, 60)},
		map[string]string{"resize": "custom", "width": "200", "height": "100", "format": "jpeg", "name": "pair"})

	resp, err := http.Post(ts.URL+"/api/compose", ct, body)
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected 200, got %d: %s", resp.StatusCode, msg)
	}
	if got := resp.Header.Get("Content-Type"); got != "image/jpeg" {
		t.Errorf("Expected image/jpeg, got %s", got)
	}
	if got := resp.Header.Get("Content-Disposition"); !strings.Contains(got, `"pair.jpeg"`) {
		t.Errorf("Unexpected Content-Disposition %s", got)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if img.Bounds().Dx() != 200 || img.Bounds().Dy() != 100 {
		t.Errorf("Expected 200x100, got %v", img.Bounds())
	}
}

func TestComposeEndpointErrors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		files  map[string][]byte
		fields map[string]string
		status int
	}{
		{"missing image", map[string][]byte{"image1": pngBytes(t, 4, 4)}, nil, http.StatusBadRequest},
		{"not an image", map[string][]byte{"image1": pngBytes(t, 4, 4), "image2": []byte("text")}, nil, http.StatusUnsupportedMediaType},
		{"negative spacing", map[string][]byte{"image1": pngBytes(t, 4, 4), "image2": pngBytes(t, 4, 4)}, map[string]string{"spacing": "-2"}, http.StatusBadRequest},
		{"bad number", map[string][]byte{"image1": pngBytes(t, 4, 4), "image2": pngBytes(t, 4, 4)}, map[string]string{"width": "wide"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, ct := multipartBody(t, tt.files, tt.fields)
			resp, err := http.Post(ts.URL+"/api/compose", ct, body)
			if err != nil {
				t.Fatalf("POST failed: %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Errorf("Expected %d, got %d", tt.status, resp.StatusCode)
			}
		})
	}
}

func TestShareKeepsOnlyLatest(t *testing.T) {
	ts := newTestServer(t)

	share := func() map[string]string {
		body, ct := multipartBody(t,
			map[string][]byte{"image1": pngBytes(t, 10, 10), "image2": pngBytes(t, 10, 10)}, nil)
		resp, err := http.Post(ts.URL+"/api/share", ct, body)
		if err != nil {
			t.Fatalf("POST failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("Expected 201, got %d", resp.StatusCode)
		}
		var out map[string]string
		json.NewDecoder(resp.Body).Decode(&out)
		return out
	}

	first := share()
	second := share()
	if first["id"] == second["id"] {
		t.Fatal("Expected distinct share ids")
	}

	resp, err := http.Get(ts.URL + second["url"])
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected latest share to be served, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Type"); got != "image/png" {
		t.Errorf("Expected image/png, got %s", got)
	}

	for _, path := range []string{first["url"], "/api/share/not-a-uuid"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", path, resp.StatusCode)
		}
	}
}

func TestErrorCode(t *testing.T) {
	_, err := layout.Compute(layout.ImageSize{Width: 1, Height: 1}, layout.ImageSize{Width: 1, Height: 1},
		layout.Config{Policy: layout.Custom, CustomWidth: -1, CustomHeight: 10})
	if got := errorCode(err); got != "INVALID_CUSTOM_DIMENSION" {
		t.Errorf("Expected INVALID_CUSTOM_DIMENSION, got %s", got)
	}
	_, err = layout.ParsePolicy("zoom")
	if got := errorCode(err); got != "INVALID_INPUT" {
		t.Errorf("Expected INVALID_INPUT, got %s", got)
	}
}
