// Package relay implements the page relay: a CORS-enabled GET endpoint that
// fetches an event page on the browser's behalf and returns its raw HTML.
package relay

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dghubble/sling"

	"github.com/pfrederiksen/add2cal/internal/logger"
	"github.com/pfrederiksen/add2cal/internal/metrics"
)

const (
	// UpstreamUserAgent identifies relay requests to the event site
	UpstreamUserAgent = "Mozilla/5.0 (compatible; Add2Cal/1.0)"
	upstreamAccept    = "text/html,application/xhtml+xml"

	DefaultSiteDomain = "tinkerhub.org"
	DefaultMaxAge     = 300

	// DefaultMaxBodyBytes caps a relayed page; larger pages are refused with 502, never truncated.
	DefaultMaxBodyBytes = 5 << 20

	maxRedirects = 10
)

// ErrorBody is the JSON body of every relay rejection
type ErrorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// WriteError writes a JSON error body with the given status.
func WriteError(w http.ResponseWriter, status int, msg, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorBody{Error: msg, Details: details})
}

// Handler is the relay endpoint
type Handler struct {
	SiteDomain   string
	MaxAge       int
	MaxBodyBytes int64
	Client       *http.Client
	Metrics      *metrics.Metrics
	Now          func() time.Time
}

// redirectError rejects a redirect whose target fails Validate
type redirectError struct {
	status int
	msg    string
	target string
}

func (e *redirectError) Error() string {
	return fmt.Sprintf("redirect to %s refused: %s", e.target, e.msg)
}

// checkRedirect applies the host allow-list to every hop.
func (h *Handler) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return fmt.Errorf("stopped after %d redirects", maxRedirects)
	}
	if status, msg := h.Validate(req.URL.String()); status != 0 {
		return &redirectError{status: status, msg: msg, target: req.URL.String()}
	}
	return nil
}

// New creates a relay for pages whose host contains siteDomain.
func New(siteDomain string, maxAge int, timeout time.Duration) *Handler {
	if siteDomain == "" {
		siteDomain = DefaultSiteDomain
	}
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &Handler{
		SiteDomain:   siteDomain,
		MaxAge:       maxAge,
		MaxBodyBytes: DefaultMaxBodyBytes,
		Client:       NewHTTPClient(timeout),
		Now:          time.Now,
	}
}

// NewHTTPClient returns a client with bounded dial and handshake times.
func NewHTTPClient(timeout time.Duration) *http.Client {
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 60 * time.Second}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: tr}
}

func setCORS(h http.Header) {
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
}

// Validate checks a requested page URL. It returns the HTTP status and
// message to reject with, or 0 when the URL may be fetched.
func (h *Handler) Validate(raw string) (int, string) {
	if raw == "" {
		return http.StatusBadRequest, "Missing url parameter"
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return http.StatusBadRequest, "Invalid URL"
	}
	if !strings.Contains(strings.ToLower(u.Hostname()), strings.ToLower(h.SiteDomain)) {
		return http.StatusForbidden, "Only TinkerHub URLs are allowed"
	}
	return 0, ""
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	setCORS(w.Header())

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
		h.Metrics.ObserveRelay(http.StatusOK)
		return
	case http.MethodGet:
	default:
		h.reject(w, http.StatusMethodNotAllowed, "Method not allowed", "")
		return
	}

	target := r.URL.Query().Get("url")
	if status, msg := h.Validate(target); status != 0 {
		logger.Warn("relay request rejected", logger.Fields{
			"url":    target,
			"status": status,
			"reason": msg,
		})
		h.reject(w, status, msg, "")
		return
	}

	req, err := sling.New().
		Get(target).
		Set("User-Agent", UpstreamUserAgent).
		Set("Accept", upstreamAccept).
		Request()
	if err != nil {
		h.reject(w, http.StatusBadRequest, "Invalid URL", "")
		return
	}

	client := *h.Client
	client.CheckRedirect = h.checkRedirect

	start := h.Now()
	resp, err := client.Do(req.WithContext(r.Context()))
	h.Metrics.ObserveUpstream(h.Now().Sub(start))
	var redirErr *redirectError
	if errors.As(err, &redirErr) {
		logger.Warn("relay redirect rejected", logger.Fields{
			"url":    target,
			"target": redirErr.target,
			"reason": redirErr.msg,
		})
		h.reject(w, redirErr.status, redirErr.msg, "")
		return
	}
	if err != nil {
		logger.Error("relay upstream fetch failed", logger.Fields{"url": target}, err)
		h.reject(w, http.StatusInternalServerError, "Failed to fetch page", err.Error())
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Warn("relay upstream returned error status", logger.Fields{
			"url":    target,
			"status": resp.StatusCode,
		})
		h.reject(w, resp.StatusCode, "Failed to fetch: "+http.StatusText(resp.StatusCode), "")
		return
	}

	limit := h.MaxBodyBytes
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		logger.Error("relay upstream read failed", logger.Fields{"url": target}, err)
		h.reject(w, http.StatusInternalServerError, "Failed to fetch page", err.Error())
		return
	}
	if int64(len(body)) > limit {
		logger.Warn("relay upstream page too large", logger.Fields{"url": target, "limit": limit})
		h.reject(w, http.StatusBadGateway, "Failed to fetch page", fmt.Sprintf("page exceeds %d bytes", limit))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", fmt.Sprintf("s-maxage=%d, stale-while-revalidate", h.MaxAge))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
	h.Metrics.ObserveRelay(http.StatusOK)

	logger.Debug("relay served page", logger.Fields{
		"url":   target,
		"bytes": len(body),
	})
}

func (h *Handler) reject(w http.ResponseWriter, status int, msg, details string) {
	WriteError(w, status, msg, details)
	h.Metrics.ObserveRelay(status)
}
