package server

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"satchart/internal/cache"
	"satchart/internal/service"
	"satchart/internal/variant"
	"satchart/pkg/localization"
)

type Handlers struct {
	Charts *service.ChartService
	Cache  cache.Cache
	TTL    time.Duration
	// необязательный JSON с переопределениями подписей
	Labels string
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

var contentTypes = map[string]string{
	"png": "image/png",
	"pdf": "application/pdf",
}

func (s *Server) MountHandlers(h *Handlers, limit func(http.Handler) http.Handler) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/variants", h.listVariants)
	s.mux.With(limit).Get("/v1/charts/{variant}", h.getChart)
}

func selectLang(al string) string {
	if strings.HasPrefix(strings.ToLower(al), "ru") {
		return "ru"
	}
	return localization.DefaultLanguage
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func etagOf(body []byte) string {
	sum := sha1.Sum(body)
	return `"` + hex.EncodeToString(sum[:]) + `"`
}

func (h *Handlers) listVariants(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(variant.All()); err != nil {
		log.Error().Err(err).Msg("encode variants failed")
	}
}

func (h *Handlers) locale(lang string) (*localization.Locale, error) {
	loc, err := localization.NewLocale(lang)
	if err != nil {
		return nil, err
	}
	if h.Labels != "" {
		if err := loc.LoadFile(h.Labels); err != nil {
			return nil, err
		}
	}
	return loc, nil
}

func (h *Handlers) getChart(w http.ResponseWriter, r *http.Request) {
	v, err := variant.Get(chi.URLParam(r, "variant"))
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
		return
	}

	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = "png"
	}
	ctype, ok := contentTypes[format]
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("unsupported format %q", format))
		return
	}
	if s := q.Get("seed"); s != "" {
		seed, err := strconv.ParseUint(s, 10, 64)
		if err != nil || seed == 0 {
			writeProblem(w, http.StatusBadRequest, "Bad Request", "seed must be a positive integer")
			return
		}
		v = v.WithSeed(seed)
	}
	lang := q.Get("lang")
	if lang == "" {
		lang = selectLang(r.Header.Get("Accept-Language"))
	}
	loc, err := h.locale(lang)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	ctx := r.Context()
	key := fmt.Sprintf("satchart:v1:%s:%d:%s:%s", v.Name, v.Seed(), loc.Lang(), format)
	body, hit, err := h.Cache.Get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache get failed")
	}

	if !hit {
		body, err = h.render(r, v, loc, format)
		if err != nil {
			log.Error().Err(err).Str("variant", v.Name).Msg("render failed")
			writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "render failed")
			return
		}
		if err := h.Cache.Set(ctx, key, body, h.TTL); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache set failed")
		}
	}

	etag := etagOf(body)
	w.Header().Set("ETag", etag)
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", ctype)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	_, _ = w.Write(body)
}

func (h *Handlers) render(r *http.Request, v variant.Variant, loc *localization.Locale, format string) ([]byte, error) {
	a, err := h.Charts.Render(r.Context(), v, loc)
	if err != nil {
		return nil, err
	}
	switch format {
	case "png":
		return a.PNG, nil
	case "pdf":
		return h.Charts.Report(a, loc)
	}
	return nil, errors.New("unsupported format " + format)
}
