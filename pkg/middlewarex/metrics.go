package middlewarex

import (
	"cmp"
	"net/http"
	"strconv"
	"time"

	"github.com/zenazn/goji/web/mutil"

	"iris_api/pkg/metrics"
)

// Metrics records request count and latency per chi route pattern, so path
// parameters never explode label cardinality.
func Metrics(collector *metrics.HTTPCollector) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lw := mutil.WrapWriter(w)

			next.ServeHTTP(lw, r)

			collector.Observe(
				r.Method,
				routePattern(r),
				strconv.Itoa(cmp.Or(lw.Status(), http.StatusOK)),
				time.Since(start),
			)
		})
	}
}
