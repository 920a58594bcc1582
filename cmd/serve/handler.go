package main

import (
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// newHandler serves dir with caching disabled and .wasm files typed as application/wasm.
func newHandler(dir string, log zerolog.Logger) http.Handler {
	fs := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(resp http.ResponseWriter, req *http.Request) {
		start := time.Now()
		resp.Header().Add("Cache-Control", "no-cache")
		if strings.HasSuffix(req.URL.Path, ".wasm") {
			resp.Header().Set("content-type", "application/wasm")
		}
		fs.ServeHTTP(resp, req)
		log.Debug().
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}
