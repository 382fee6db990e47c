// Package server exposes read-only queries of a navmap.Map over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/katalvlaran/portalgrid/grid"
	"github.com/katalvlaran/portalgrid/navmap"
	"github.com/katalvlaran/portalgrid/portal"
)

// Handler serves queries against one preprocessed map.
type Handler struct {
	m      *navmap.Map
	logger *log.Logger
}

// New returns the router for m. A nil logger uses log.Default().
func New(m *navmap.Map, logger *log.Logger) http.Handler {
	if logger == nil {
		logger = log.Default()
	}
	h := &Handler{m: m, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
		r.Get("/map", h.getMap)
		r.Get("/blocks/{index}", h.getBlock)
		r.Get("/link", h.getLink)
		r.Get("/connected", h.getConnected)
	})

	return r
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"elapsed", time.Since(start))
	})
}

// mapInfo summarizes the map for GET /api/map.
type mapInfo struct {
	Width     int  `json:"width"`
	Height    int  `json:"height"`
	BlockSize int  `json:"block_size"`
	Blocks    int  `json:"blocks"`
	Portals   int  `json:"portals"`
	Edges     int  `json:"edges"`
	Diagonal  bool `json:"diagonal"`
}

func (h *Handler) getMap(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, mapInfo{
		Width:     h.m.Grid().Width(),
		Height:    h.m.Grid().Height(),
		BlockSize: h.m.Layout().BlockSize,
		Blocks:    h.m.Layout().Count(),
		Portals:   h.m.PortalCount(),
		Edges:     h.m.Graph().Len(),
		Diagonal:  h.m.Diagonal(),
	})
}

func (h *Handler) getBlock(w http.ResponseWriter, r *http.Request) {
	bi, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid block index")
		return
	}
	b, ok := h.m.Block(bi)
	if !ok {
		h.respondError(w, http.StatusNotFound, "block not found")
		return
	}
	if b.Portals == nil {
		b.Portals = []portal.Portal{}
	}
	h.respondJSON(w, http.StatusOK, b)
}

// linkResponse answers GET /api/link.
type linkResponse struct {
	Block   int             `json:"block"`
	Portals []portal.Portal `json:"portals"`
}

func (h *Handler) getLink(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	c, err := coordParam(q.Get("x"), q.Get("y"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	size, err := sizeParam(q.Get("size"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ps, err := h.m.LinkPositionAndPortals(c, size)
	if err != nil {
		h.respondQueryError(w, err)
		return
	}
	bi, _ := h.m.BlockOf(c)
	if ps == nil {
		ps = []portal.Portal{}
	}
	h.respondJSON(w, http.StatusOK, linkResponse{Block: bi, Portals: ps})
}

func (h *Handler) getConnected(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	origin, err := coordParam(q.Get("ox"), q.Get("oy"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "origin: "+err.Error())
		return
	}
	goal, err := coordParam(q.Get("gx"), q.Get("gy"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "goal: "+err.Error())
		return
	}
	size, err := sizeParam(q.Get("size"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ok, err := h.m.Connected(origin, goal, size)
	if err != nil {
		h.respondQueryError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]bool{"connected": ok})
}

var errBadCoord = errors.New("coordinates must be non-negative integers")

func coordParam(xs, ys string) (grid.Coord, error) {
	x, errX := strconv.Atoi(xs)
	y, errY := strconv.Atoi(ys)
	if errX != nil || errY != nil || x < 0 || y < 0 || x >= grid.MaxDimension || y >= grid.MaxDimension {
		return grid.Coord{}, errBadCoord
	}

	return grid.XY(x, y), nil
}

// sizeParam parses the agent size; empty means 1.
func sizeParam(s string) (int, error) {
	if s == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New("size must be an integer")
	}

	return n, nil
}

func (h *Handler) respondQueryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, navmap.ErrOutOfBounds):
		h.respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, navmap.ErrBadAgentSize):
		h.respondError(w, http.StatusBadRequest, err.Error())
	default:
		h.respondError(w, http.StatusInternalServerError, err.Error())
	}
}

// respondJSON writes a JSON response. Encoding failures go to h's logger.
func (h *Handler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("encoding JSON", "err", err)
	}
}

// respondError writes an error JSON response.
func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// ListenAndServe serves h on addr until ctx is done, then shuts down
// gracefully and returns ctx.Err().
func ListenAndServe(ctx context.Context, addr string, h http.Handler, logger *log.Logger) error {
	srv := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 5 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	if logger != nil {
		logger.Info("serving", "addr", addr)
	}

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}
