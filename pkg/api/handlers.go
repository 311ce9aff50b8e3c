package api

import (
	"cmp"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/csmtree/pkg/buildinfo"
	"github.com/matzehuels/csmtree/pkg/csm/canon"
	cerrors "github.com/matzehuels/csmtree/pkg/errors"
	"github.com/matzehuels/csmtree/pkg/graph"
	"github.com/matzehuels/csmtree/pkg/pipeline"
	"github.com/matzehuels/csmtree/pkg/storage"
)

type curveRequest struct {
	Tree    graph.Graph `json:"tree"`
	Refresh bool        `json:"refresh,omitempty"`
}

type curveResponse struct {
	RecordID string         `json:"record_id,omitempty"`
	TreeHash string         `json:"tree_hash"`
	Cached   bool           `json:"cached"`
	Curve    graph.CurveDoc `json:"curve"`
}

type searchRequest struct {
	Tree               graph.Graph `json:"tree"`
	Costs              []int       `json:"costs"`
	Prizes             []int       `json:"prizes"`
	Objective          string      `json:"objective,omitempty"`
	MaxCandidates      int         `json:"max_candidates,omitempty"`
	MaxSubtrees        int         `json:"max_subtrees,omitempty"`
	DedupBeforeScoring bool        `json:"dedup_before_scoring,omitempty"`
	Refresh            bool        `json:"refresh,omitempty"`
}

type searchResponse struct {
	RecordID string          `json:"record_id,omitempty"`
	TreeHash string          `json:"tree_hash"`
	Cached   bool            `json:"cached"`
	Classes  int             `json:"classes"`
	Result   graph.SearchDoc `json:"result"`
}

type isomorphicRequest struct {
	A graph.Graph `json:"a"`
	B graph.Graph `json:"b"`
}

type isomorphicResponse struct {
	Isomorphic bool   `json:"isomorphic"`
	FormA      string `json:"form_a"`
	FormB      string `json:"form_b"`
}

type renderRequest struct {
	Tree        graph.Graph `json:"tree"`
	Format      string      `json:"format,omitempty"`
	Title       string      `json:"title,omitempty"`
	Budget      *int        `json:"budget,omitempty"`
	MaxSubtrees int         `json:"max_subtrees,omitempty"`
}

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatJSON: "application/json",
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Current()})
}

func (s *Server) handleCurve(w http.ResponseWriter, r *http.Request) {
	var req curveRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	t, err := graph.ToTree(req.Tree)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := s.searchOptions()
	opts.Refresh = req.Refresh
	res, err := s.runner.Curve(r.Context(), t, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, curveResponse{
		RecordID: res.RecordID,
		TreeHash: res.TreeHash,
		Cached:   res.CacheInfo.Hit,
		Curve:    res.Doc,
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	t, err := graph.ToTree(req.Tree)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := s.searchOptions()
	opts.Costs = req.Costs
	opts.Prizes = req.Prizes
	opts.Objective = cmp.Or(req.Objective, opts.Objective)
	opts.MaxCandidates = lowerLimit(req.MaxCandidates, opts.MaxCandidates, pipeline.DefaultMaxCandidates)
	opts.MaxSubtrees = lowerLimit(req.MaxSubtrees, opts.MaxSubtrees, pipeline.DefaultMaxSubtrees)
	opts.DedupBeforeScoring = opts.DedupBeforeScoring || req.DedupBeforeScoring
	opts.Refresh = req.Refresh

	res, err := s.runner.Search(r.Context(), t, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponse{
		RecordID: res.RecordID,
		TreeHash: res.TreeHash,
		Cached:   res.CacheInfo.Hit,
		Classes:  res.Doc.Classes(),
		Result:   res.Doc,
	})
}

func (s *Server) handleIsomorphic(w http.ResponseWriter, r *http.Request) {
	var req isomorphicRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	a, err := graph.ToTree(req.A)
	if err != nil {
		s.writeError(w, r, cerrors.Wrap(cerrors.GetCode(err), err, "tree a"))
		return
	}
	b, err := graph.ToTree(req.B)
	if err != nil {
		s.writeError(w, r, cerrors.Wrap(cerrors.GetCode(err), err, "tree b"))
		return
	}
	fa, fb := canon.Encode(a), canon.Encode(b)
	writeJSON(w, http.StatusOK, isomorphicResponse{Isomorphic: fa == fb, FormA: fa, FormB: fb})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	format := cmp.Or(req.Format, pipeline.FormatSVG)
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, cerrors.Wrap(cerrors.ErrCodeInvalidInput, err, "format"))
		return
	}
	t, err := graph.ToTree(req.Tree)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := pipeline.RenderOptions{
		Formats:     []string{format},
		Title:       req.Title,
		Budget:      -1,
		MaxSubtrees: lowerLimit(req.MaxSubtrees, s.defaults.MaxSubtrees, pipeline.DefaultMaxSubtrees),
	}
	if req.Budget != nil {
		opts.Budget = *req.Budget
	}
	artifacts, err := pipeline.Render(t, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

func (s *Server) handleListResults(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, r, cerrors.New(cerrors.ErrCodeUnsupported, "result archive is disabled"))
		return
	}
	q := r.URL.Query()
	opts := storage.ListOptions{
		Kind:     storage.Kind(q.Get("kind")),
		TreeHash: q.Get("tree_hash"),
	}
	switch opts.Kind {
	case "", storage.KindCurve, storage.KindSearch:
	default:
		s.writeError(w, r, cerrors.New(cerrors.ErrCodeInvalidInput, "kind must be curve or search"))
		return
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, r, cerrors.New(cerrors.ErrCodeInvalidInput, "limit must be a non-negative integer"))
			return
		}
		opts.Limit = n
	}

	records, err := s.store.List(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if records == nil {
		records = []*storage.Record{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": records})
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, r, cerrors.New(cerrors.ErrCodeUnsupported, "result archive is disabled"))
		return
	}
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// searchOptions returns a fresh copy of the server defaults.
func (s *Server) searchOptions() pipeline.Options {
	d := s.defaults
	return pipeline.Options{
		Objective:          d.Objective,
		MaxCandidates:      d.MaxCandidates,
		MaxSubtrees:        d.MaxSubtrees,
		Workers:            d.Workers,
		DedupBeforeScoring: d.DedupBeforeScoring,
		Logger:             s.logger,
	}
}

// lowerLimit lets a request tighten a ceiling but never relax it.
// A configured zero stands for fallback and a negative value for
// "unlimited"; requests can only pass positive ceilings.
func lowerLimit(requested, configured, fallback int) int {
	if requested <= 0 {
		return configured
	}
	if configured == 0 {
		configured = fallback
	}
	if configured < 0 || requested < configured {
		return requested
	}
	return configured
}
