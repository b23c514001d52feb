package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/dmitrymomot/truthapi/core/handler"
	"github.com/dmitrymomot/truthapi/core/logger"
	"github.com/dmitrymomot/truthapi/core/response"
	"github.com/dmitrymomot/truthapi/internal/truth"
	"github.com/dmitrymomot/truthapi/middleware"
	"github.com/dmitrymomot/truthapi/pkg/qrcode"
	"github.com/dmitrymomot/truthapi/pkg/selection"
)

// truthResponse is the JSON form of a served truth.
type truthResponse struct {
	Truth    string `json:"truth"`
	Category string `json:"category"`
	Day      string `json:"day"`
	Weight   string `json:"weight"`
	ID       string `json:"id"`
}

// maxCategoryLen bounds the category query parameter.
const maxCategoryLen = 64

// randomTruth draws from the whole collection, or from one category when
// the category query parameter is present.
func (s *Service) randomTruth(ctx *Context) handler.Response {
	snap, err := s.store.Snapshot()
	if err != nil {
		return response.Error(err)
	}

	items := snap.Items()
	query := ctx.Request().URL.Query()
	filtered := query.Has("category")
	if filtered {
		category := strings.TrimSpace(query.Get("category"))
		if !validCategory(category) {
			return response.Error(response.ErrBadRequest.WithMessage("category must be a non-empty name without control characters"))
		}
		if items = snap.InCategory(category); len(items) == 0 {
			return response.Error(ErrUnknownCategory)
		}
		middleware.LogAttrs(ctx, logger.Category(category))
	}

	t, day, err := s.engine.SelectToday(items, snap.Table())
	if filtered && errors.Is(err, selection.ErrConfiguration) {
		// Every truth of the category weighs zero today
		err = selection.ErrNoCandidates
	}
	if err != nil {
		return response.Error(err)
	}
	return s.serveTruth(ctx, t, day)
}

func validCategory(c string) bool {
	if c == "" || len(c) > maxCategoryLen {
		return false
	}
	return !strings.ContainsFunc(c, unicode.IsControl)
}

func (s *Service) truthByID(ctx *Context) handler.Response {
	t, err := s.lookup(ctx.Param("id"))
	if err != nil {
		return response.Error(err)
	}
	return s.serveTruth(ctx, t, s.engine.Today())
}

func (s *Service) lookup(id string) (truth.Truth, error) {
	snap, err := s.store.Snapshot()
	if err != nil {
		return truth.Truth{}, err
	}
	return selection.SelectByID(snap.Items(), id)
}

// serveTruth records the served truth in the request log and negotiates the
// representation: plain text, an HTML page or JSON by default.
func (s *Service) serveTruth(ctx *Context, t truth.Truth, day time.Weekday) handler.Response {
	s.served.Add(1)
	middleware.LogAttrs(ctx, logger.TruthID(t.ID), logger.Weekday(day))

	cn := s.cfg.API.ContentNegotiation
	switch {
	case ctx.Accepts(cn.PlainTextAccept):
		return response.String(t.Text)
	case ctx.Accepts(cn.HTMLAccept):
		return response.Templ(truthPage(s.cfg.App.Name, t, day, s.cfg.API.Endpoints.Truth))
	}
	return response.JSON(truthResponse{
		Truth:    t.Text,
		Category: t.Category,
		Day:      day.String(),
		Weight:   t.Weight,
		ID:       t.ID,
	})
}

func (s *Service) truthQR(ctx *Context) handler.Response {
	t, err := s.lookup(ctx.Param("id"))
	if err != nil {
		return response.Error(err)
	}

	size := qrcode.DefaultSize
	if raw := ctx.Request().URL.Query().Get("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > qrcode.MaxSize {
			return response.Error(response.ErrBadRequest.WithMessage("size must be an integer between 1 and " + strconv.Itoa(qrcode.MaxSize)))
		}
		size = n
	}

	png, err := qrcode.Generate(s.shareURL(ctx.Request(), t.ID), size)
	if err != nil {
		return response.Error(err)
	}
	middleware.LogAttrs(ctx, logger.TruthID(t.ID))
	return response.Bytes(png, "image/png")
}

// shareURL is the absolute link to a truth, based on app.base_url or the request host.
func (s *Service) shareURL(r *http.Request, id string) string {
	base := strings.TrimSuffix(s.cfg.App.BaseURL, "/")
	if base == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		base = scheme + "://" + r.Host
	}
	return base + s.cfg.API.Endpoints.Truth + "/" + id
}

type healthResponse struct {
	Status     string `json:"status"`
	Version    string `json:"version"`
	DataLoaded bool   `json:"data_loaded"`
	TruthCount int    `json:"truth_count"`
}

func (s *Service) health(ctx *Context) handler.Response {
	resp := healthResponse{Status: "healthy", Version: s.cfg.App.Version}
	if snap, err := s.store.Snapshot(); err == nil {
		resp.DataLoaded = true
		resp.TruthCount = snap.Len()
	} else {
		resp.Status = "loading"
	}
	return response.JSON(resp)
}

func (s *Service) categories(ctx *Context) handler.Response {
	snap, err := s.store.Snapshot()
	if err != nil {
		return response.Error(err)
	}
	return response.JSON(map[string][]string{"categories": snap.Categories()})
}

type statsResponse struct {
	truth.Stats
	Served   int64     `json:"served"`
	Reloads  int64     `json:"reloads"`
	LoadedAt time.Time `json:"loaded_at"`
	Day      string    `json:"day"`
}

func (s *Service) stats(ctx *Context) handler.Response {
	snap, err := s.store.Snapshot()
	if err != nil {
		return response.Error(err)
	}
	return response.JSON(statsResponse{
		Stats:    snap.Stats(),
		Served:   s.Served(),
		Reloads:  s.store.Reloads(),
		LoadedAt: snap.LoadedAt(),
		Day:      s.engine.Today().String(),
	})
}

func (s *Service) reload(ctx *Context) handler.Response {
	if !s.cfg.API.AdminReload {
		return response.Error(ErrReloadDisabled)
	}
	snap, err := s.Reload(ctx)
	if err != nil {
		return response.Error(err)
	}
	return response.JSON(map[string]any{
		"status":      "reloaded",
		"truth_count": snap.Len(),
	})
}

func (s *Service) index(ctx *Context) handler.Response {
	count := 0
	if snap, err := s.store.Snapshot(); err == nil {
		count = snap.Len()
	}
	return response.Templ(landingPage(s.cfg.App.Name, s.cfg.App.Version, s.cfg.API.Endpoints, count))
}
