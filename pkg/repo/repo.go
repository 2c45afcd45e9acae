package repo

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/netonframework/docsite/pkg/metrics"
	"github.com/netonframework/docsite/pkg/site"
	"github.com/netonframework/docsite/pkg/utils"
	"github.com/netonframework/docsite/requests"
	"github.com/netonframework/docsite/responses"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Repo holds the site config loaded from a url or a local file
type (
	Repo struct {
		l                       *zap.Logger
		source                  string
		fs                      afero.Fs
		format                  site.Format
		poll                    bool
		pollInterval            time.Duration
		watch                   bool
		watchDebounce           time.Duration
		onLoaded                func()
		loaded                  *atomic.Bool
		history                 *History
		httpClient              *http.Client
		updateInProgressChannel chan chan updateResponse
		snapshot                *Snapshot
		snapshotLock            sync.RWMutex
		jsonBuffer              *bytes.Buffer
		jsonBufferLock          sync.RWMutex
	}
	Option func(*Repo)
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

// New returns a repo for source, an http(s) url or a path on the local filesystem
func New(l *zap.Logger, source string, history *History, opts ...Option) *Repo {
	inst := &Repo{
		l:                       l.Named("repo"),
		source:                  source,
		fs:                      afero.NewOsFs(),
		loaded:                  &atomic.Bool{},
		pollInterval:            time.Minute,
		watchDebounce:           250 * time.Millisecond,
		history:                 history,
		httpClient:              http.DefaultClient,
		updateInProgressChannel: make(chan chan updateResponse),
	}

	for _, opt := range opts {
		opt(inst)
	}

	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func WithHTTPClient(v *http.Client) Option {
	return func(o *Repo) {
		o.httpClient = v
	}
}

// WithFs filesystem local sources are read from
func WithFs(v afero.Fs) Option {
	return func(o *Repo) {
		o.fs = v
	}
}

// WithFormat overrides the format derived from the source name or content type
func WithFormat(v site.Format) Option {
	return func(o *Repo) {
		o.format = v
	}
}

func WithPoll(v bool) Option {
	return func(o *Repo) {
		o.poll = v
	}
}

func WithPollInterval(v time.Duration) Option {
	return func(o *Repo) {
		o.pollInterval = v
	}
}

// WithWatch reloads a local source when it changes
func WithWatch(v bool) Option {
	return func(o *Repo) {
		o.watch = v
	}
}

func WithWatchDebounce(v time.Duration) Option {
	return func(o *Repo) {
		o.watchDebounce = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Getter
// ------------------------------------------------------------------------------------------------

func (r *Repo) Loaded() bool {
	return r.loaded.Load()
}

// Snapshot the current config, nil before the first successful load
func (r *Repo) Snapshot() *Snapshot {
	r.snapshotLock.RLock()
	defer r.snapshotLock.RUnlock()
	return r.snapshot
}

func (r *Repo) SetSnapshot(v *Snapshot) {
	r.snapshotLock.Lock()
	defer r.snapshotLock.Unlock()
	r.snapshot = v
}

// Config the current site config, nil before the first successful load
func (r *Repo) Config() *site.SiteConfig {
	if s := r.Snapshot(); s != nil {
		return s.Config
	}
	return nil
}

func (r *Repo) JSONBufferBytes() []byte {
	r.jsonBufferLock.RLock()
	defer r.jsonBufferLock.RUnlock()
	if r.jsonBuffer == nil {
		return nil
	}
	return r.jsonBuffer.Bytes()
}

func (r *Repo) SetJSONBuffer(v *bytes.Buffer) {
	r.jsonBufferLock.Lock()
	defer r.jsonBufferLock.Unlock()
	r.jsonBuffer = v
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

func (r *Repo) OnLoaded(fn func()) {
	r.onLoaded = fn
}

// GetConfig the current site config with its revision
func (r *Repo) GetConfig() (*responses.Config, error) {
	s, err := r.current()
	if err != nil {
		return nil, err
	}
	return &responses.Config{Revision: s.Revision, Config: s.Config}, nil
}

// GetNav the top level navigation and the entry active for the requested path
func (r *Repo) GetNav(req *requests.Nav) (*responses.Nav, error) {
	s, err := r.current()
	if err != nil {
		return nil, err
	}
	ret := &responses.Nav{Revision: s.Revision, Nav: s.Config.ThemeConfig.Nav}
	if req != nil && req.Path != "" {
		if active, ok := s.Config.ActiveNav(req.Path); ok {
			ret.Active = active
		}
	}
	return ret, nil
}

// GetSidebar resolves the sidebar of a path by longest prefix
func (r *Repo) GetSidebar(req *requests.Sidebar) (*responses.Sidebar, error) {
	if req == nil || req.Path == "" {
		return nil, errors.New("request path must not be empty")
	}
	s, err := r.current()
	if err != nil {
		return nil, err
	}
	ret := &responses.Sidebar{Revision: s.Revision}
	ret.Prefix, ret.Sections, ret.Found = s.Index.Lookup(site.NormalizePath(s.Config.Base, req.Path))
	r.l.Debug("resolved sidebar", zap.String("path", req.Path), zap.String("prefix", ret.Prefix), zap.Bool("found", ret.Found))
	return ret, nil
}

// GetPage the navigation context of a page: sidebar, neighbours, active nav and breadcrumb
func (r *Repo) GetPage(req *requests.Page) (*responses.Page, error) {
	if req == nil || req.Path == "" {
		return nil, errors.New("request path must not be empty")
	}
	s, err := r.current()
	if err != nil {
		return nil, err
	}
	loc := s.Config.LocateIndexed(s.Index, req.Path)
	return &responses.Page{
		Revision:   s.Revision,
		Location:   loc,
		Breadcrumb: loc.Breadcrumb(),
	}, nil
}

// WriteRepoBytes writes the current config to w wrapped as service response, e.g: {"reply": <config>}.
// It serves from the in-memory buffer, falling back to storage only when empty.
func (r *Repo) WriteRepoBytes(ctx context.Context, w io.Writer) error {
	data := r.JSONBufferBytes()
	if len(data) == 0 {
		var buf bytes.Buffer
		if err := r.history.GetCurrent(ctx, &buf); err != nil {
			return errors.Wrap(err, "failed to read config from storage")
		}
		data = buf.Bytes()
	}

	if _, err := w.Write([]byte(`{"reply":`)); err != nil {
		return errors.Wrap(err, "failed to write reply prefix")
	}
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(err, "failed to write config")
	}
	if _, err := w.Write([]byte(`}`)); err != nil {
		return errors.Wrap(err, "failed to write reply suffix")
	}
	return nil
}

// Update loads the source, restoring the last good snapshot from history when that fails
func (r *Repo) Update(ctx context.Context) (updateResponse *responses.Update) {
	floatSeconds := func(nanoSeconds int64) float64 {
		return float64(nanoSeconds) / float64(time.Second)
	}

	r.l.Info("update triggered")

	start := time.Now()
	repoRuntime, changed, err := r.tryUpdate()
	updateResponse = &responses.Update{}
	updateResponse.Stats.RepoRuntime = floatSeconds(repoRuntime)

	if err != nil {
		updateResponse.Success = false
		updateResponse.ErrorMessage = err.Error()
		updateResponse.Stats.NumberOfNavEntries = -1
		updateResponse.Stats.NumberOfSidebarPrefixes = -1
		updateResponse.Stats.NumberOfLinks = -1

		if errors.Is(err, ErrUpdateRejected) {
			metrics.UpdatesRejectedCounter.WithLabelValues().Inc()
		} else {
			r.l.Error("failed to update config", zap.Error(err))
			if r.Snapshot() == nil {
				if restoreErr := r.tryToRestoreCurrent(ctx); restoreErr != nil {
					r.l.Error("failed to restore preceding config", zap.Error(restoreErr))
				} else {
					r.l.Info("restored current config from history")
				}
			}
		}
	} else {
		updateResponse.Success = true
		if changed {
			if historyErr := r.history.Add(ctx, r.JSONBufferBytes()); historyErr != nil {
				r.l.Error("could not persist current config in history", zap.Error(historyErr))
				metrics.HistoryPersistFailedCounter.WithLabelValues().Inc()
			} else {
				r.l.Info("persisted current config to history")
			}
		}
	}
	if s := r.Snapshot(); s != nil {
		updateResponse.Revision = s.Revision
		if updateResponse.Success {
			updateResponse.Stats.NumberOfNavEntries = len(s.Config.ThemeConfig.Nav)
			updateResponse.Stats.NumberOfSidebarPrefixes = s.Index.Len()
			updateResponse.Stats.NumberOfLinks = len(s.Config.Links())
		}
	}
	updateResponse.Stats.OwnRuntime = floatSeconds(time.Since(start).Nanoseconds()) - updateResponse.Stats.RepoRuntime
	return updateResponse
}

func (r *Repo) Start(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	l := r.l.Named("start")

	up := make(chan bool, 1)
	g.Go(func() error {
		l.Debug("starting update routine")
		up <- true
		return r.UpdateRoutine(gCtx)
	})
	l.Debug("waiting for UpdateRoutine")
	<-up

	l.Debug("trying to restore previous config")
	if err := r.tryToRestoreCurrent(ctx); errors.Is(err, os.ErrNotExist) {
		l.Info("previous config does not exist")
	} else if err != nil {
		l.Warn("could not restore previous config", zap.Error(err))
	} else {
		l.Info("restored previous config")
	}

	if r.poll {
		g.Go(func() error {
			l.Debug("starting poll routine")
			return r.PollRoutine(gCtx)
		})
	}

	if r.watch {
		if utils.IsHTTPURL(r.source) {
			l.Warn("watch is only supported for local sources", zap.String("source", r.source))
		} else {
			g.Go(func() error {
				l.Debug("starting watch routine")
				return r.WatchRoutine(gCtx)
			})
		}
	}

	l.Debug("trying to update initial state")
	if resp := r.Update(ctx); !resp.Success {
		l.Error("failed to update initial state",
			zap.String("error", resp.ErrorMessage),
			zap.Float64("own_runtime", resp.Stats.OwnRuntime),
			zap.Float64("repo_runtime", resp.Stats.RepoRuntime),
		)
	}

	return g.Wait()
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (r *Repo) current() (*Snapshot, error) {
	s := r.Snapshot()
	if s == nil {
		return nil, errors.New("site config not loaded yet")
	}
	return s, nil
}
