package server

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/matzehuels/codematrix/pkg/buildinfo"
	"github.com/matzehuels/codematrix/pkg/cache"
	"github.com/matzehuels/codematrix/pkg/config"
	"github.com/matzehuels/codematrix/pkg/errors"
	"github.com/matzehuels/codematrix/pkg/pipeline"
	"github.com/matzehuels/codematrix/pkg/render/sink"
)

// CacheHeader reports whether the response came from cache ("hit" or "miss").
const CacheHeader = "X-Cache"

var contentTypes = map[string]string{
	config.FormatSVG:  "image/svg+xml",
	config.FormatJSON: "application/json",
	config.FormatPNG:  "image/png",
	config.FormatPDF:  "application/pdf",
}

// envelope is the wrapped request form. A body without "catalog" is taken
// to be the catalog document itself.
type envelope struct {
	Catalog   json.RawMessage `json:"catalog"`
	Layout    json.RawMessage `json:"layout"`
	VizType   string          `json:"viz_type"`
	ShowEdges bool            `json:"show_edges"`
	Detailed  bool            `json:"detailed"`
	Refresh   bool            `json:"refresh"`
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request) (pipeline.Options, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return pipeline.Options{}, errors.New(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", s.maxBody)
		}
		return pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode request body")
	}

	opts := pipeline.Options{
		Document:  body,
		Source:    "request",
		Layout:    s.layout,
		VizType:   env.VizType,
		ShowEdges: env.ShowEdges,
		Detailed:  env.Detailed,
		Refresh:   env.Refresh,
		Logger:    loggerFrom(r.Context()),
	}
	if len(env.Catalog) > 0 {
		opts.Document = env.Catalog
	}
	if len(env.Layout) > 0 {
		if err := json.Unmarshal(env.Layout, &opts.Layout); err != nil {
			return pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode layout config")
		}
	}
	return opts, nil
}

func setCacheHeader(w http.ResponseWriter, hit bool) {
	if hit {
		w.Header().Set(CacheHeader, "hit")
	} else {
		w.Header().Set(CacheHeader, "miss")
	}
}

type healthResponse struct {
	Status  string         `json:"status"`
	Version buildinfo.Info `json:"version"`
	Cache   string         `json:"cache"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Version: buildinfo.Get(),
		Cache:   cache.Describe(s.runner.Cache),
	})
}

type classifyResponse struct {
	DocHash    string                  `json:"doc_hash"`
	Nodes      int                     `json:"nodes"`
	Classified int                     `json:"classified"`
	Counts     map[string]int          `json:"counts"`
	Segments   pipeline.Classification `json:"segments"`
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	opts, err := s.decode(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	cat, hash, err := s.runner.Load(ctx, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, hit, err := s.runner.ClassifyWithCacheInfo(ctx, cat, hash, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := classifyResponse{
		DocHash:    hash,
		Nodes:      cat.NodeCount(),
		Classified: c.Total(),
		Counts:     c.Counts(),
		Segments:   c,
	}
	setCacheHeader(w, hit)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	opts, err := s.decode(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if opts.IsNodelink() {
		writeError(w, r, errors.New(errors.ErrCodeInvalidVizType, "layouts exist only for the matrix view"))
		return
	}
	cat, hash, err := s.runner.Load(ctx, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	l, hit, err := s.runner.LayoutWithCacheInfo(ctx, cat, hash, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	data, err := sink.RenderJSON(l, sink.WithSource(hash))
	if err != nil {
		writeError(w, r, err)
		return
	}

	setCacheHeader(w, hit)
	w.Header().Set("Content-Type", contentTypes[config.FormatJSON])
	_, _ = w.Write(data)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := s.decode(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = config.FormatSVG
	}
	if t := q.Get("type"); t != "" {
		opts.VizType = t
	}
	opts.Formats = []string{format}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}

	setCacheHeader(w, res.CacheInfo.RenderHit)
	w.Header().Set("Content-Type", contentTypes[format])
	_, _ = w.Write(res.Artifacts[format])
}
