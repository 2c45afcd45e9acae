package handler

import (
	"io"
	"net/http"
	"strings"

	httputils "github.com/foomo/keel/utils/net/http"
	"github.com/netonframework/docsite/pkg/repo"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type (
	HTTP struct {
		service
		path string
	}
	HTTPOption func(*HTTP)
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

// NewHTTP returns the json api, every route is a POST on <path>/<route>
func NewHTTP(l *zap.Logger, repo *repo.Repo, opts ...HTTPOption) http.Handler {
	inst := &HTTP{
		service: service{
			l:    l.Named("http"),
			repo: repo,
		},
		path: "/docsite",
	}

	for _, opt := range opts {
		opt(inst)
	}

	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func WithPath(v string) HTTPOption {
	return func(o *HTTP) {
		o.path = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

func (h *HTTP) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputils.ServerError(h.l, w, r, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}
	if r.Body == nil {
		httputils.BadRequestServerError(h.l, w, r, errors.New("empty request body"))
		return
	}

	bytes, err := io.ReadAll(r.Body)
	if err != nil {
		httputils.BadRequestServerError(h.l, w, r, errors.Wrap(err, "failed to read incoming request"))
		return
	}

	w.Header().Set("Content-Type", "application/json")

	route := Route(strings.TrimPrefix(r.URL.Path, h.path+"/"))
	if route == RouteGetRepo {
		if err := h.repo.WriteRepoBytes(r.Context(), w); err != nil {
			h.l.Error("failed to write repo", zap.Error(err))
		}
		return
	}

	reply, errReply := h.handleRequest(r.Context(), route, bytes, sourceWebServer)
	if errReply != nil {
		http.Error(w, errReply.Error(), http.StatusInternalServerError)
		return
	}
	_, _ = w.Write(reply)
}
