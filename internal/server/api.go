package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/rangedeck/pkg/compare"
	"github.com/matzehuels/rangedeck/pkg/errors"
	"github.com/matzehuels/rangedeck/pkg/grid"
	"github.com/matzehuels/rangedeck/pkg/layout"
	"github.com/matzehuels/rangedeck/pkg/reorder"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 64 << 10

// ComparisonResponse is the view of one comparison.
type ComparisonResponse struct {
	Key     string                  `json:"key"`
	Columns int                     `json:"columns"`
	Slots   grid.Slots              `json:"slots"`
	Presets []compare.PresetControl `json:"presets"`
	CanUndo bool                    `json:"can_undo"`
	State   layout.State            `json:"state"`
}

// DropRequest is the body of POST .../drop. With Side set the pointer
// geometry is ignored; otherwise X and Y are classified against Rect.
type DropRequest struct {
	Source string     `json:"source"`
	Index  int        `json:"index"`
	Side   *grid.Side `json:"side,omitempty"`
	X      float64    `json:"x"`
	Y      float64    `json:"y"`
	Rect   *grid.Rect `json:"rect,omitempty"`
}

// DeltaRequest is the body of the card move and resize endpoints.
type DeltaRequest struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// ZoomRequest is the body of POST .../zoom.
type ZoomRequest struct {
	Level float64 `json:"level"`
}

// ModeRequest is the body of POST .../mode.
type ModeRequest struct {
	Simple bool `json:"simple"`
}

// open resolves the comparison in the request path. The caller must Close
// the controller.
func (s *Server) open(r *http.Request) (*compare.Controller, error) {
	key := chi.URLParam(r, "key")
	if err := errors.ValidateKey(key); err != nil {
		return nil, err
	}
	items, err := s.catalog.Items(key)
	if err != nil {
		return nil, err
	}

	width := s.opts.Width
	if q := r.URL.Query().Get("width"); q != "" {
		w, err := strconv.ParseFloat(q, 64)
		if err != nil || w < 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid width %q", q)
		}
		width = w
	}

	return compare.Open(r.Context(), s.store, key, items, compare.Options{
		Columns: grid.Viewport{Width: width, Breakpoints: s.opts.Breakpoints},
		Logger:  s.logger,
	})
}

func decode(r *http.Request, v any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
	if err != nil && err != io.EOF {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

func view(c *compare.Controller) ComparisonResponse {
	st := c.State()
	return ComparisonResponse{
		Key:     c.Key(),
		Columns: c.Columns(),
		Slots:   c.Slots(),
		Presets: c.Presets(),
		CanUndo: len(st.History) > 0,
		State:   st,
	}
}

// withComparison opens the comparison, runs fn and writes the resulting
// view.
func (s *Server) withComparison(w http.ResponseWriter, r *http.Request, fn func(*compare.Controller) error) {
	c, err := s.open(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer c.Close()

	if fn != nil {
		if err := fn(c); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, view(c))
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	keys, err := s.store.Keys(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if keys == nil {
		keys = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"stored":  keys,
		"catalog": s.catalog.Keys(),
	})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	s.withComparison(w, r, nil)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if err := s.store.Delete(r.Context(), key); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDrop(w http.ResponseWriter, r *http.Request) {
	var req DropRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := errors.ValidateItemID(req.Source); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.withComparison(w, r, func(c *compare.Controller) error {
		c.DragStart(req.Source)
		switch {
		case req.Side != nil:
			c.DragOverSide(req.Index, *req.Side)
		case req.Rect != nil:
			c.DragOver(req.Index, req.X, req.Y, *req.Rect)
		default:
			c.DragOverSide(req.Index, grid.SideNone)
		}
		_, err := c.Drop(r.Context(), req.Index)
		return err
	})
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	s.withComparison(w, r, func(c *compare.Controller) error {
		_, err := c.Undo(r.Context())
		return err
	})
}

func (s *Server) handleAdjust(w http.ResponseWriter, r *http.Request) {
	s.withComparison(w, r, func(c *compare.Controller) error {
		return c.Adjust(r.Context())
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.withComparison(w, r, func(c *compare.Controller) error {
		_, err := c.Reset(r.Context())
		return err
	})
}

func (s *Server) handlePreset(w http.ResponseWriter, r *http.Request) {
	var p reorder.Preset
	if err := decode(r, &p); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := p.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.withComparison(w, r, func(c *compare.Controller) error {
		return c.ApplyPreset(r.Context(), p)
	})
}

func (s *Server) handleZoom(w http.ResponseWriter, r *http.Request) {
	var req ZoomRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.withComparison(w, r, func(c *compare.Controller) error {
		return c.SetZoom(r.Context(), req.Level)
	})
}

func (s *Server) handleMode(w http.ResponseWriter, r *http.Request) {
	var req ModeRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.withComparison(w, r, func(c *compare.Controller) error {
		return c.SetSimpleMode(r.Context(), req.Simple)
	})
}

func (s *Server) handleCardMove(w http.ResponseWriter, r *http.Request) {
	s.cardDelta(w, r, (*compare.Controller).MoveCard)
}

func (s *Server) handleCardResize(w http.ResponseWriter, r *http.Request) {
	s.cardDelta(w, r, (*compare.Controller).ResizeCard)
}

func (s *Server) cardDelta(w http.ResponseWriter, r *http.Request, apply func(*compare.Controller, context.Context, string, float64, float64) error) {
	var req DeltaRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")
	s.withComparison(w, r, func(c *compare.Controller) error {
		return apply(c, r.Context(), id, req.DX, req.DY)
	})
}

func (s *Server) handleCardFront(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.withComparison(w, r, func(c *compare.Controller) error {
		if !c.Canvas() {
			return errors.New(errors.ErrCodeUnsupported, "comparison %q is not in canvas mode", c.Key())
		}
		ok, err := c.BringToFront(r.Context(), id)
		if err != nil {
			return err
		}
		if !ok {
			return errors.New(errors.ErrCodeNotFound, "no card %q", id)
		}
		return nil
	})
}
