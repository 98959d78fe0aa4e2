package server

import (
	"bytes"
	"encoding/json"
	"maps"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/noisegraph/noisegraph/pkg/errors"
	"github.com/noisegraph/noisegraph/pkg/expr"
	"github.com/noisegraph/noisegraph/pkg/graph"
	"github.com/noisegraph/noisegraph/pkg/pipeline"
	"github.com/noisegraph/noisegraph/pkg/render"
	"github.com/noisegraph/noisegraph/pkg/store"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// graphRequest is the body for saving or updating a graph.
type graphRequest struct {
	Name  string          `json:"name"`
	Graph json.RawMessage `json:"graph"`
}

func (s *Server) handleListGraphs(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.cfg.Store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if summaries == nil {
		summaries = []store.Summary{}
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleSaveGraph(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeGraphRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rec, err := store.NewRecord(req.Name, req.Graph)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.cfg.Store.Put(r.Context(), rec); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleUpdateGraph(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	req, err := s.decodeGraphRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rec, err := s.cfg.Store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Name != "" {
		rec.Name = req.Name
	}
	rec.Graph = req.Graph
	if err := s.cfg.Store.Put(r.Context(), rec); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	rec, err := s.cfg.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteGraph(w http.ResponseWriter, r *http.Request) {
	if err := s.cfg.Store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	rec, err := s.cfg.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	doc, err := s.cfg.Runner.Build(r.Context(), pipeline.Options{GraphData: rec.Graph})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := expr.MarshalDocument(doc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// sampleRequest is the body for pipeline sampling runs.
type sampleRequest struct {
	Output     string         `json:"output,omitempty"`
	Dimensions int            `json:"dimensions,omitempty"`
	Width      int            `json:"width,omitempty"`
	Height     int            `json:"height,omitempty"`
	Scale      float64        `json:"scale,omitempty"`
	Origin     [4]float64     `json:"origin,omitempty"`
	Patches    *expr.PatchSet `json:"patches,omitempty"`
	Refresh    bool           `json:"refresh,omitempty"`
}

// sampleResponse carries sampled grids plus run metadata.
type sampleResponse struct {
	GraphHash    string                    `json:"graph_hash"`
	DocumentHash string                    `json:"document_hash"`
	Grids        map[string]*pipeline.Grid `json:"grids"`
	Stats        pipeline.Stats            `json:"stats"`
	CacheInfo    pipeline.CacheInfo        `json:"cache_info"`
}

func (s *Server) handleSample(w http.ResponseWriter, r *http.Request) {
	rec, err := s.cfg.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req sampleRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.cfg.Runner.Execute(r.Context(), pipeline.Options{
		GraphData:  rec.Graph,
		Output:     req.Output,
		Dimensions: req.Dimensions,
		Width:      req.Width,
		Height:     req.Height,
		Scale:      req.Scale,
		Origin:     req.Origin,
		Patches:    req.Patches,
		Refresh:    req.Refresh,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sampleResponse{
		GraphHash:    result.GraphHash,
		DocumentHash: result.DocumentHash,
		Grids:        result.Grids,
		Stats:        result.Stats,
		CacheInfo:    result.CacheInfo,
	})
}

var renderContentTypes = map[string]string{
	pipeline.FormatDOT: "text/vnd.graphviz",
	pipeline.FormatSVG: "image/svg+xml",
	pipeline.FormatPNG: "image/png",
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := errors.ValidateRenderFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}

	rec, err := s.cfg.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	g, err := graph.ReadGraph(bytes.NewReader(rec.Graph))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	graphHash, err := pipeline.GraphHash(g)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := pipeline.Options{
		GraphData: rec.Graph,
		Formats:   []string{format},
		Detailed:  r.URL.Query().Get("detailed") == "true",
	}
	artifacts, _, err := s.cfg.Runner.RenderWithCacheInfo(r.Context(), g, graphHash, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", renderContentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

// evalResponse carries per-output values for a single coordinate.
type evalResponse struct {
	At     []float64          `json:"at"`
	Values map[string]float64 `json:"values"`
}

func (s *Server) handleEval(w http.ResponseWriter, r *http.Request) {
	at, err := parseCoordinate(r.URL.Query().Get("at"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rec, err := s.cfg.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	doc, err := s.cfg.Runner.Build(r.Context(), pipeline.Options{GraphData: rec.Graph})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	names := slices.Sorted(maps.Keys(doc.Outputs))
	if output := r.URL.Query().Get("output"); output != "" {
		if _, ok := doc.Outputs[output]; !ok {
			s.writeError(w, r, errors.New(errors.ErrCodeOutputNotFound, "graph has no output named %q", output))
			return
		}
		names = []string{output}
	}

	values := make(map[string]float64, len(names))
	for _, name := range names {
		fn, err := expr.Compile(doc.Outputs[name], len(at))
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		values[name] = fn.Eval(at)
	}
	writeJSON(w, http.StatusOK, evalResponse{At: at, Values: values})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	opts := pipeline.Options{Output: r.URL.Query().Get("output")}
	var err error
	if opts.Width, err = intQuery(r, "width"); err != nil {
		s.writeError(w, r, err)
		return
	}
	if opts.Height, err = intQuery(r, "height"); err != nil {
		s.writeError(w, r, err)
		return
	}
	if raw := r.URL.Query().Get("scale"); raw != "" {
		if opts.Scale, err = strconv.ParseFloat(raw, 64); err != nil {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid scale %q", raw))
			return
		}
	}

	rec, err := s.cfg.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.GraphData = rec.Graph

	result, err := s.cfg.Runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(result.Grids) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeOutputNotFound, "graph has no output nodes"))
		return
	}
	name := opts.Output
	if name == "" {
		name = slices.Sorted(maps.Keys(result.Grids))[0]
	}
	grid := result.Grids[name]

	data, err := render.HeightmapPNG(grid.Values, grid.Width, grid.Height)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// parseCoordinate parses a comma-separated coordinate like "1.5,0,-2" into a
// point of 2 to 4 components.
func parseCoordinate(raw string) ([]float64, error) {
	if raw == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "missing at query parameter")
	}
	parts := strings.Split(raw, ",")
	if err := errors.ValidateDimensions(len(parts)); err != nil {
		return nil, err
	}
	p := make([]float64, len(parts))
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid coordinate component %q", part)
		}
		p[i] = v
	}
	return p, nil
}

func intQuery(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid %s %q", name, raw)
	}
	return v, nil
}

// decodeGraphRequest parses and validates a save/update body: the graph
// bytes must be a structurally valid graph before they reach the store.
func (s *Server) decodeGraphRequest(r *http.Request) (*graphRequest, error) {
	var req graphRequest
	if err := s.decodeJSON(r, &req); err != nil {
		return nil, err
	}
	if len(req.Graph) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "request body missing graph")
	}
	if _, err := graph.ReadGraph(bytes.NewReader(req.Graph)); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "graph does not parse")
	}
	return &req, nil
}

func (s *Server) decodeJSON(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	body := http.MaxBytesReader(nil, r.Body, s.cfg.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}
