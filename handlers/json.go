package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/genericbro/genericbro-api/logging"
)

// Responses below this size are not worth compressing.
const compressionThreshold = 1024

// RespondWithJSON writes a JSON response, gzip-compressed when the payload
// is large enough and the client accepts it.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, code int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))

	acceptsGzip := strings.Contains(strings.ToLower(r.Header.Get("Accept-Encoding")), "gzip")
	if len(data) >= compressionThreshold && acceptsGzip {
		w.Header().Set("Content-Encoding", "gzip")
		w.WriteHeader(code)
		gz := gzip.NewWriter(w)
		defer gz.Close()
		_, _ = gz.Write(data)
		return
	}

	w.WriteHeader(code)
	_, _ = w.Write(data)
}

// RespondWithDetail writes the error contract of the original service:
// a JSON object with a single "detail" field.
func RespondWithDetail(w http.ResponseWriter, r *http.Request, code int, detail string) {
	RespondWithJSON(w, r, code, map[string]string{"detail": detail})
}
