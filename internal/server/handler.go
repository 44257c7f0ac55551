package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/openlayar/layard/internal/layar"
	"github.com/openlayar/layard/internal/logger"
	"github.com/openlayar/layard/internal/observability"
)

// HandleGetPOIs serves the GetPointsOfInterest endpoint. Missing or malformed
// parameters are the only transport-level client errors; everything else is a
// success-shaped Layar body.
func HandleGetPOIs(log *slog.Logger, p *layar.Pipeline) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}

		q := r.URL.Query()
		ctx := logger.WithLayer(r.Context(), q.Get("layerName"))

		resp, err := p.Handle(ctx, q)
		if err != nil {
			var bad *layar.BadRequestError
			if errors.As(err, &bad) {
				log.WarnContext(ctx, "bad request", "param", bad.Param, "err", err)
			}
			http.Error(sw, err.Error(), http.StatusBadRequest)
			observability.ObserveHTTP(r.Method, "/layar", sw.code, time.Since(start).Seconds())
			return
		}

		if resp.ErrorCode != layar.CodeOK {
			log.DebugContext(ctx, "captured layar error",
				"code", resp.ErrorCode, "msg", resp.ErrorString)
		}
		observability.ObserveLayarResponse(resp.Layer, resp.ErrorCode)

		sw.Header().Set("Content-Type", layar.ContentType)
		if err := json.NewEncoder(sw).Encode(resp); err != nil {
			log.ErrorContext(ctx, "encode response", "err", err)
		}
		observability.ObserveHTTP(r.Method, "/layar", sw.code, time.Since(start).Seconds())
	}
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
