package middleware

import (
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/rs/zerolog"
)

// NewReverseProxy forwards requests to target, dropping prefix from the path.
func NewReverseProxy(target *url.URL, prefix string, logger *zerolog.Logger) http.Handler {
	proxy := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Error().Err(err).Str("target", target.String()).Msg("proxy request failed")
			w.WriteHeader(http.StatusBadGateway)
		},
	}

	return http.StripPrefix(prefix, proxy)
}
