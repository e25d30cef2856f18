// Package server exposes composition over HTTP.
//
// Routes:
//
//	GET  /healthz
//	POST /api/layout       JSON sizes + options -> layout JSON
//	POST /api/compose      multipart image1, image2 + options -> encoded image
//	POST /api/share        same as compose, kept in memory -> {id, url}
//	GET  /api/share/{id}   the last shared image
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/menta2k/sidebyside/internal/config"
	"github.com/menta2k/sidebyside/pkg/compositor"
	"github.com/menta2k/sidebyside/pkg/layout"
	"github.com/menta2k/sidebyside/pkg/processing"
)

// Server handles composition requests
type Server struct {
	cfg        *config.Config
	logger     *log.Logger
	processor  *processing.Processor
	compositor *compositor.Compositor

	mu     sync.Mutex
	shared *sharedImage
}

// sharedImage is the single composed result kept for the share endpoint
type sharedImage struct {
	id          string
	filename    string
	contentType string
	data        []byte
	created     time.Time
}

// New creates a server from cfg
func New(cfg *config.Config, logger *log.Logger) (*Server, error) {
	filter, err := compositor.ParseFilter(cfg.Layout.Filter)
	if err != nil {
		return nil, err
	}
	return &Server{
		cfg:        cfg,
		logger:     logger,
		processor:  processing.NewProcessor(),
		compositor: compositor.NewWithFilter(filter),
	}, nil
}

// Handler returns the HTTP routes
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Route("/api", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/compose", s.handleCompose)
		r.Post("/share", s.handleShare)
		r.Get("/share/{id}", s.handleShared)
	})
	return r
}

// ListenAndServe serves until the server fails
func (s *Server) ListenAndServe() error {
	srv := &http.Server{
		Addr:        s.cfg.Server.Addr,
		Handler:     s.Handler(),
		ReadTimeout: time.Duration(s.cfg.Server.ReadTimeoutS) * time.Second,
	}
	s.logger.Info("listening", "addr", s.cfg.Server.Addr)
	return srv.ListenAndServe()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method, "path", r.URL.Path, "status", ww.Status(),
			"bytes", ww.BytesWritten(), "id", middleware.GetReqID(r.Context()),
			"elapsed", time.Since(start).Round(time.Millisecond))
	})
}

type layoutRequest struct {
	A      layout.ImageSize    `json:"a"`
	B      layout.ImageSize    `json:"b"`
	Config config.LayoutConfig `json:"config"`
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	req := layoutRequest{Config: s.cfg.Layout}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err)
		return
	}

	c := *s.cfg
	c.Layout = req.Config
	lc, err := c.LayoutConfig()
	if err != nil {
		writeError(w, http.StatusBadRequest, errorCode(err), err)
		return
	}
	l, err := layout.Compute(req.A, req.B, lc)
	if err != nil {
		writeError(w, http.StatusBadRequest, errorCode(err), err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

// composed is an encoded composition ready to be served
type composed struct {
	layout      layout.Layout
	filename    string
	contentType string
	data        []byte
}

// compose reads a multipart request and renders it. The returned status is meaningful only on error.
func (s *Server) compose(w http.ResponseWriter, r *http.Request) (*composed, int, error) {
	limit := int64(s.cfg.Server.MaxUploadMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("invalid multipart form: %w", err)
	}

	var imgs [2]image.Image
	for i, field := range []string{"image1", "image2"} {
		f, _, err := r.FormFile(field)
		if err != nil {
			return nil, http.StatusBadRequest, fmt.Errorf("missing %s: %w", field, err)
		}
		img, err := s.processor.Decode(f)
		f.Close()
		if err != nil {
			return nil, http.StatusUnsupportedMediaType, fmt.Errorf("%s: %w", field, err)
		}
		imgs[i] = s.processor.Downscale(img, s.cfg.Input.MaxDimension)
	}

	c, err := s.requestConfig(r)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	lc, err := c.LayoutConfig()
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	enc, err := c.EncodeOptions()
	if err != nil {
		return nil, http.StatusBadRequest, err
	}

	l, err := layout.Compute(layout.SizeOf(imgs[0]), layout.SizeOf(imgs[1]), lc)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	out := s.compositor.Compose(l, imgs[0], imgs[1], lc.Background)

	var buf bytes.Buffer
	if err := s.processor.Encode(&buf, out, enc); err != nil {
		return nil, http.StatusInternalServerError, fmt.Errorf("failed to encode result: %w", err)
	}
	return &composed{
		layout:      l,
		filename:    c.Output.FileName + "." + enc.Format.Extension(),
		contentType: enc.Format.ContentType(),
		data:        buf.Bytes(),
	}, http.StatusOK, nil
}

// requestConfig overlays form values on the server defaults
func (s *Server) requestConfig(r *http.Request) (config.Config, error) {
	c := *s.cfg
	str := func(key string, dst *string) {
		if v := r.FormValue(key); v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v := r.FormValue(key)
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
		return nil
	}

	str("orientation", &c.Layout.Orientation)
	str("background", &c.Layout.Background)
	str("resize", &c.Layout.Resize)
	str("format", &c.Output.FileType)
	str("name", &c.Output.FileName)
	for key, dst := range map[string]*int{
		"spacing": &c.Layout.Spacing,
		"width":   &c.Layout.OutputWidth,
		"height":  &c.Layout.OutputHeight,
		"quality": &c.Output.Quality,
	} {
		if err := num(key, dst); err != nil {
			return c, err
		}
	}
	return c, nil
}

func (s *Server) handleCompose(w http.ResponseWriter, r *http.Request) {
	res, status, err := s.compose(w, r)
	if err != nil {
		writeError(w, status, errorCode(err), err)
		return
	}
	w.Header().Set("Content-Type", res.contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.filename))
	w.Header().Set("X-Canvas-Size", fmt.Sprintf("%dx%d", res.layout.CanvasWidth, res.layout.CanvasHeight))
	w.Write(res.data)
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	res, status, err := s.compose(w, r)
	if err != nil {
		writeError(w, status, errorCode(err), err)
		return
	}

	shared := &sharedImage{
		id:          uuid.NewString(),
		filename:    res.filename,
		contentType: res.contentType,
		data:        res.data,
		created:     time.Now(),
	}
	s.mu.Lock()
	s.shared = shared
	s.mu.Unlock()

	s.logger.Info("shared", "id", shared.id, "file", shared.filename, "bytes", len(shared.data))
	writeJSON(w, http.StatusCreated, map[string]string{
		"id":       shared.id,
		"url":      s.cfg.Server.PublicURL + "/api/share/" + shared.id,
		"filename": shared.filename,
	})
}

func (s *Server) handleShared(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", fmt.Errorf("no shared image %q", id))
		return
	}

	s.mu.Lock()
	shared := s.shared
	s.mu.Unlock()

	if shared == nil || shared.id != id {
		writeError(w, http.StatusNotFound, "NOT_FOUND", fmt.Errorf("no shared image %q", id))
		return
	}
	w.Header().Set("Content-Type", shared.contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", shared.filename))
	http.ServeContent(w, r, shared.filename, shared.created, bytes.NewReader(shared.data))
}

// errorCode maps an error to a machine-readable code
func errorCode(err error) string {
	var decodeErr *processing.DecodeError
	switch {
	case errors.Is(err, layout.ErrInvalidImageSize):
		return "INVALID_IMAGE_SIZE"
	case errors.Is(err, layout.ErrInvalidSpacing):
		return "INVALID_SPACING"
	case errors.Is(err, layout.ErrInvalidCustomDimension):
		return "INVALID_CUSTOM_DIMENSION"
	case errors.Is(err, layout.ErrInvalidInput):
		return "INVALID_INPUT"
	case errors.As(err, &decodeErr):
		return "DECODE_ERROR"
	default:
		return "BAD_REQUEST"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	writeJSON(w, status, map[string]string{"code": code, "error": err.Error()})
}
