package inspect

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/km-arc/go-scopes/framework/container"
	"github.com/km-arc/go-scopes/framework/validation"
)

// Handler serves a read-only view of a Directory:
//
//	GET /scopes                      → every scope snapshot
//	GET /scopes/{name}               → one scope snapshot
//	GET /scopes/{name}/probe?key=K   → where K would be answered from
//	GET /root                        → the root scope snapshot
//	GET /metrics                     → Prometheus metrics (WithGatherer)
//
// Nothing here runs a factory.
type Handler struct {
	mux      chi.Router
	dir      *container.Directory
	gatherer prometheus.Gatherer
	logger   *zap.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithGatherer mounts /metrics for g.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(h *Handler) { h.gatherer = g }
}

func WithLogger(logger *zap.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// New builds the inspection handler for dir.
func New(dir *container.Directory, opts ...Option) *Handler {
	h := &Handler{dir: dir, logger: dir.Logger()}
	for _, opt := range opts {
		opt(h)
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)

	r.Get("/scopes", h.listScopes)
	r.Route("/scopes/{name}", func(r chi.Router) {
		r.Get("/", h.showScope)
		r.Get("/probe", h.probe)
	})
	r.Get("/root", h.showRoot)

	if h.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
	}

	h.mux = r
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	h.mux.ServeHTTP(w, req)
}

// ── Handlers ─────────────────────────────────────────────────────────────────

func (h *Handler) listScopes(w http.ResponseWriter, _ *http.Request) {
	newResponse(w).Success(h.dir.Snapshots())
}

func (h *Handler) showScope(w http.ResponseWriter, req *http.Request) {
	res := newResponse(w)

	reg, ok := h.registry(res, req)
	if !ok {
		return
	}
	res.Success(reg.Snapshot())
}

// probeResult answers "who would serve this key".
type probeResult struct {
	Scope        string `json:"scope"`
	Key          string `json:"key"`
	Local        bool   `json:"local"`
	Materialized bool   `json:"materialized"`
	Reachable    bool   `json:"reachable"`
	AnsweredBy   string `json:"answered_by,omitempty"`
}

func (h *Handler) probe(w http.ResponseWriter, req *http.Request) {
	res := newResponse(w)

	key := req.URL.Query().Get("key")
	v := validation.Make(map[string]string{"key": key}, validation.Rules{"key": "required|max:512"})
	if v.Fails() {
		res.ValidationError(v.Errors())
		return
	}

	reg, ok := h.registry(res, req)
	if !ok {
		return
	}

	by, reachable := reg.Reachable(key)
	res.Success(probeResult{
		Scope:        reg.Name(),
		Key:          key,
		Local:        reg.Has(key),
		Materialized: reg.Materialized(key),
		Reachable:    reachable,
		AnsweredBy:   by,
	})
}

// rootRegistry is implemented by app.Root.
type rootRegistry interface {
	Registry() *container.Registry
}

func (h *Handler) showRoot(w http.ResponseWriter, _ *http.Request) {
	res := newResponse(w)

	root, ok := h.dir.Root()
	if !ok {
		res.NotFound("No root published.")
		return
	}
	rr, ok := root.(rootRegistry)
	if !ok {
		res.NotFound("Root has no registry.")
		return
	}
	res.Success(rr.Registry().Snapshot())
}

// registry looks up the {name} param, writing the error response itself.
func (h *Handler) registry(res *response, req *http.Request) (*container.Registry, bool) {
	name := chi.URLParam(req, "name")

	v := validation.Make(map[string]string{"name": name}, validation.Rules{"name": "required|max:128|alpha_dash"})
	if v.Fails() {
		res.ValidationError(v.Errors())
		return nil, false
	}

	reg, ok := h.dir.Get(name)
	if !ok {
		res.NotFound("Scope " + name + " is not declared.")
		return nil, false
	}
	return reg, true
}

// ── Middleware ───────────────────────────────────────────────────────────────

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, req)

		h.logger.Debug("inspect request",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", req.RemoteAddr),
		)
	})
}
