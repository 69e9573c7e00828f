package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/tileboard/pkg/errors"
	"github.com/matzehuels/tileboard/pkg/geometry"
	"github.com/matzehuels/tileboard/pkg/render"
	"github.com/matzehuels/tileboard/pkg/tile"
)

type boundsRequest struct {
	Bounds *geometry.Bounds `json:"bounds,omitempty"`
}

type resizeStartRequest struct {
	Handle string           `json:"handle"`
	Bounds *geometry.Bounds `json:"bounds,omitempty"`
}

type positionRequest struct {
	Top  float64 `json:"top"`
	Left float64 `json:"left"`
}

// resizeFrameRequest carries either an explicit frame or a pointer delta
// since gesture start, from which the frame is derived.
type resizeFrameRequest struct {
	Frame *geometry.ResizeFrame `json:"frame,omitempty"`
	DX    float64               `json:"dx"`
	DY    float64               `json:"dy"`
}

type selectionBody struct {
	ID *tile.ID `json:"id"`
}

type gestureResponse struct {
	Snapshot geometry.Snapshot `json:"snapshot"`
}

func tileID(r *http.Request) tile.ID {
	return tile.ID(chi.URLParam(r, "id"))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "tiles": s.canvas.Store().Len()})
}

func (s *Server) handleListTiles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.canvas.Tiles())
}

func (s *Server) handleAddTile(w http.ResponseWriter, r *http.Request) {
	t, err := s.canvas.AddTile(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleGetTile(w http.ResponseWriter, r *http.Request) {
	id := tileID(r)
	t, ok := s.canvas.Store().Get(id)
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeTileNotFound, "tile %q not found", id))
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// handleDeleteTile is idempotent: deleting a missing tile is a no-op.
func (s *Server) handleDeleteTile(w http.ResponseWriter, r *http.Request) {
	s.canvas.Delete(r.Context(), tileID(r))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetSelection(w http.ResponseWriter, r *http.Request) {
	var body selectionBody
	if id, ok := s.canvas.Selected(); ok {
		body.ID = &id
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handlePutSelection(w http.ResponseWriter, r *http.Request) {
	var body selectionBody
	if err := decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	if body.ID == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "id is required"))
		return
	}
	if !s.canvas.Select(*body.ID) {
		s.writeError(w, r, errors.New(errors.ErrCodeTileNotFound, "tile %q not found", *body.ID))
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleDeleteSelection(w http.ResponseWriter, r *http.Request) {
	s.canvas.Deselect()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDragStart(w http.ResponseWriter, r *http.Request) {
	var req boundsRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	b, err := s.resolveBounds(req.Bounds)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id := tileID(r)
	snap, ok := s.canvas.BeginDrag(r.Context(), id, b)
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeTileNotFound, "tile %q not found", id))
		return
	}
	writeJSON(w, http.StatusOK, gestureResponse{Snapshot: snap})
}

func (s *Server) handleDragMove(w http.ResponseWriter, r *http.Request) {
	s.handleDragFrame(w, r, false)
}

func (s *Server) handleDragEnd(w http.ResponseWriter, r *http.Request) {
	s.handleDragFrame(w, r, true)
}

func (s *Server) handleDragFrame(w http.ResponseWriter, r *http.Request, end bool) {
	var req positionRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := validateCoordinates("top", req.Top, "left", req.Left); err != nil {
		s.writeError(w, r, err)
		return
	}
	id := tileID(r)

	var (
		rect geometry.Rect
		ok   bool
	)
	if end {
		rect, ok = s.canvas.EndDrag(r.Context(), id, req.Top, req.Left)
	} else {
		rect, ok = s.canvas.DragTo(id, req.Top, req.Left)
	}
	if !ok {
		s.writeError(w, r, noGesture(id))
		return
	}
	writeJSON(w, http.StatusOK, rect)
}

func (s *Server) handleResizeStart(w http.ResponseWriter, r *http.Request) {
	var req resizeStartRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	h, err := geometry.ParseHandle(req.Handle)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	b, err := s.resolveBounds(req.Bounds)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id := tileID(r)
	snap, ok := s.canvas.BeginResize(r.Context(), id, h, b)
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeTileNotFound, "tile %q not found", id))
		return
	}
	writeJSON(w, http.StatusOK, gestureResponse{Snapshot: snap})
}

func (s *Server) handleResizeMove(w http.ResponseWriter, r *http.Request) {
	id := tileID(r)
	f, err := s.resizeFrame(r, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out, ok := s.canvas.Resize(id, f)
	if !ok {
		s.writeError(w, r, noGesture(id))
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleResizeEnd(w http.ResponseWriter, r *http.Request) {
	id := tileID(r)
	f, err := s.resizeFrame(r, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rect, ok := s.canvas.EndResize(r.Context(), id, f)
	if !ok {
		s.writeError(w, r, noGesture(id))
		return
	}
	writeJSON(w, http.StatusOK, rect)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	id := tileID(r)
	rect, ok := s.canvas.Cancel(r.Context(), id)
	if !ok {
		s.writeError(w, r, noGesture(id))
		return
	}
	writeJSON(w, http.StatusOK, rect)
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	var opts []render.SVGOption
	if id, ok := s.canvas.Selected(); ok {
		opts = append(opts, render.WithSelected(id))
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(render.RenderSVG(s.bounds, s.canvas.Tiles(), opts...))
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	opts := []render.JSONOption{render.WithJSONGestures(s.canvas.Gestures())}
	if id, ok := s.canvas.Selected(); ok {
		opts = append(opts, render.WithJSONSelected(id))
	}
	data, err := render.RenderJSON(s.bounds, s.canvas.Tiles(), opts...)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "render canvas"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

// resizeFrame decodes a frame request, deriving the frame from the pointer
// delta and the gesture snapshot when no explicit frame is given.
func (s *Server) resizeFrame(r *http.Request, id tile.ID) (geometry.ResizeFrame, error) {
	var req resizeFrameRequest
	if err := decode(r, &req); err != nil {
		return geometry.ResizeFrame{}, err
	}
	if req.Frame != nil {
		f := *req.Frame
		for _, c := range []struct {
			name string
			v    float64
		}{{"width", f.Width}, {"height", f.Height}} {
			if err := errors.ValidateDimension(c.name, c.v); err != nil {
				return geometry.ResizeFrame{}, err
			}
		}
		if err := validateCoordinates("translate.x", f.Translate.X, "translate.y", f.Translate.Y); err != nil {
			return geometry.ResizeFrame{}, err
		}
		return f, nil
	}

	if err := validateCoordinates("dx", req.DX, "dy", req.DY); err != nil {
		return geometry.ResizeFrame{}, err
	}
	snap, _, ok := s.canvas.Gesture(id)
	if !ok {
		return geometry.ResizeFrame{}, noGesture(id)
	}
	return geometry.PointerFrame(snap, req.DX, req.DY), nil
}

func (s *Server) resolveBounds(b *geometry.Bounds) (geometry.Bounds, error) {
	if b == nil {
		return s.bounds, nil
	}
	if err := errors.ValidateDimension("bounds.width", b.Width); err != nil {
		return geometry.Bounds{}, err
	}
	if err := errors.ValidateDimension("bounds.height", b.Height); err != nil {
		return geometry.Bounds{}, err
	}
	return *b, nil
}

func validateCoordinates(xName string, x float64, yName string, y float64) error {
	if err := errors.ValidateCoordinate(xName, x); err != nil {
		return err
	}
	return errors.ValidateCoordinate(yName, y)
}

func noGesture(id tile.ID) error {
	return errors.New(errors.ErrCodeGestureNotActive, "no gesture in progress for tile %q", id)
}
