package server

import (
	"net/http"

	"git.appkode.ru/pub/go/failure"
	"github.com/go-chi/chi/v5"

	"iris_api/pkg/errcodes"
	"iris_api/pkg/httpx/reply"
	"iris_api/pkg/logx"
	"iris_api/pkg/metrics"
	"iris_api/pkg/middlewarex"
)

type Options struct {
	CORSOrigins    []string
	LogFieldMaxLen int
	// MaxBodyBytes caps request bodies. Zero disables the cap.
	MaxBodyBytes        int64
	SensitiveDataMasker logx.SensitiveDataMaskerInterface
	// HTTPMetrics is optional.
	HTTPMetrics *metrics.HTTPCollector
}

// Handler builds the router with the full middleware chain.
func (s Server) Handler(opts Options) http.Handler {
	masker := opts.SensitiveDataMasker
	if masker == nil {
		masker = logx.NewSensitiveDataMasker()
	}

	r := chi.NewRouter()

	r.Use(
		middlewarex.TraceID,
		middlewarex.Logger,
		middlewarex.BodyLimit(opts.MaxBodyBytes),
		middlewarex.AccessLog(masker, opts.LogFieldMaxLen),
		middlewarex.Recovery,
		middlewarex.CORS(opts.CORSOrigins),
	)

	if opts.HTTPMetrics != nil {
		r.Use(middlewarex.Metrics(opts.HTTPMetrics))
	}

	r.NotFound(handler(func(_ http.ResponseWriter, r *http.Request) error {
		return failure.NewNotFoundError(
			"route not found: "+r.URL.Path,
			failure.WithCode(errcodes.NotFound),
		)
	}))

	s.RegisterRoutes(r)

	return r
}

func (s Server) RegisterRoutes(r chi.Router) {
	r.Get("/", handler(s.getIndex))
	r.Get("/health", handler(s.getHealth))

	r.Post("/predict", handler(s.postPredict))
	r.Post("/predict/batch", handler(s.postPredictBatch))
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}
