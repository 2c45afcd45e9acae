package repo

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/netonframework/docsite/pkg/metrics"
	"github.com/netonframework/docsite/pkg/site"
	"github.com/netonframework/docsite/pkg/utils"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

var (
	json              = jsoniter.ConfigCompatibleWithStandardLibrary
	ErrUpdateRejected = errors.New("update rejected: update in progress")
)

type updateResponse struct {
	repoRuntime int64
	changed     bool
	err         error
}

func (r *Repo) PollRoutine(ctx context.Context) error {
	l := r.l.Named("routine.poll")
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			l.Debug("routine canceled", zap.Error(ctx.Err()))
			return nil
		case <-ticker.C:
			r.requestUpdate(ctx, l)
		}
	}
}

// WatchRoutine reloads a local source on change, events within the debounce window are merged
func (r *Repo) WatchRoutine(ctx context.Context) error {
	l := r.l.Named("routine.watch")
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create watcher")
	}
	defer watcher.Close()

	// editors replace files on save, so the parent dir is watched
	name := filepath.Clean(r.source)
	if err := watcher.Add(filepath.Dir(name)); err != nil {
		return errors.Wrapf(err, "failed to watch %q", filepath.Dir(name))
	}

	var (
		timer   = time.NewTimer(r.watchDebounce)
		pending bool
	)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			l.Debug("routine canceled", zap.Error(ctx.Err()))
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != name || !event.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			l.Debug("source changed", zap.String("op", event.Op.String()))
			pending = true
			timer.Reset(r.watchDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			l.Warn("watch error", zap.Error(err))
		case <-timer.C:
			if pending {
				pending = false
				r.requestUpdate(ctx, l)
			}
		}
	}
}

func (r *Repo) UpdateRoutine(ctx context.Context) error {
	l := r.l.Named("routine.update")
	for {
		select {
		case <-ctx.Done():
			l.Debug("routine canceled", zap.Error(ctx.Err()))
			return nil
		case resChan := <-r.updateInProgressChannel:
			start := time.Now()
			l := l.With(zap.String("run_id", uuid.New().String()))

			l.Info("update started")

			repoRuntime, changed, err := r.update(context.WithoutCancel(ctx))
			if err != nil {
				l.Error("update failed", zap.Error(err))
				metrics.UpdatesFailedCounter.WithLabelValues().Inc()
			} else {
				if !r.Loaded() {
					r.loaded.Store(true)
					l.Info("initial update success")
					if r.onLoaded != nil {
						r.onLoaded()
					}
				} else {
					l.Info("update success", zap.Bool("changed", changed))
				}
				metrics.UpdatesCompletedCounter.WithLabelValues().Inc()
			}

			resChan <- updateResponse{
				repoRuntime: repoRuntime,
				changed:     changed,
				err:         err,
			}

			metrics.UpdateDuration.WithLabelValues().Observe(time.Since(start).Seconds())
		}
	}
}

// requestUpdate queues an update and waits for it, used by the poll and watch routines
func (r *Repo) requestUpdate(ctx context.Context, l *zap.Logger) {
	resChan := make(chan updateResponse, 1)
	select {
	case <-ctx.Done():
		return
	case r.updateInProgressChannel <- resChan:
	}
	select {
	case <-ctx.Done():
	case response := <-resChan:
		if response.err != nil {
			l.Error("update failed", zap.Error(response.err))
			return
		}
		if s := r.Snapshot(); s != nil {
			l.Info("update success", zap.String("revision", s.Revision), zap.Bool("changed", response.changed))
		}
		if response.changed {
			if err := r.history.Add(ctx, r.JSONBufferBytes()); err != nil {
				l.Error("could not persist current config in history", zap.Error(err))
				metrics.HistoryPersistFailedCounter.WithLabelValues().Inc()
			}
		}
	}
}

// limit resources and allow only one update request at once
func (r *Repo) tryUpdate() (repoRuntime int64, changed bool, err error) {
	c := make(chan updateResponse, 1)
	select {
	case r.updateInProgressChannel <- c:
		r.l.Debug("update request added to queue")
		ur := <-c
		return ur.repoRuntime, ur.changed, ur.err
	default:
		r.l.Info("update request rejected, another update is in progress")
		return 0, false, ErrUpdateRejected
	}
}

// do not call directly, but only through the update routine
func (r *Repo) update(ctx context.Context) (repoRuntime int64, changed bool, err error) {
	start := time.Now()
	data, format, err := r.fetch(ctx)
	repoRuntime = time.Since(start).Nanoseconds()
	if err != nil {
		return repoRuntime, false, err
	}
	r.l.Debug("loading config", zap.String("source", r.source), zap.String("format", string(format)), zap.Int("length", len(data)))

	cfg, err := site.Decode(data, format)
	if err != nil {
		return repoRuntime, false, err
	}
	snapshot, canonical, err := r.accept(cfg)
	if err != nil {
		return repoRuntime, false, err
	}
	if current := r.Snapshot(); current != nil && current.Revision == snapshot.Revision {
		r.l.Info("config is up to date", zap.String("revision", current.Revision))
		return repoRuntime, false, nil
	}
	r.SetJSONBuffer(bytes.NewBuffer(canonical))
	r.SetSnapshot(snapshot)
	return repoRuntime, true, nil
}

// accept validates a decoded config and returns its snapshot and canonical json
func (r *Repo) accept(cfg *site.SiteConfig) (*Snapshot, []byte, error) {
	if err := cfg.Validate(); err != nil {
		metrics.InvalidConfigCounter.WithLabelValues().Inc()
		return nil, nil, errors.Wrap(err, "invalid site config")
	}
	snapshot, err := newSnapshot(cfg)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to compute config revision")
	}
	canonical, err := json.Marshal(cfg)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to encode config")
	}
	return snapshot, canonical, nil
}

func (r *Repo) fetch(ctx context.Context) ([]byte, site.Format, error) {
	if utils.IsHTTPURL(r.source) {
		return r.get(ctx, r.source)
	}
	format := r.format
	if format == "" {
		f, err := site.FormatFromName(r.source)
		if err != nil {
			return nil, "", err
		}
		format = f
	}
	data, err := afero.ReadFile(r.fs, r.source)
	if err != nil {
		return nil, "", errors.Wrapf(err, "failed to read %q", r.source)
	}
	return data, format, nil
}

func (r *Repo) get(ctx context.Context, url string) ([]byte, site.Format, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to create get config request")
	}
	response, err := r.httpClient.Do(req)
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to get config")
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, "", errors.Errorf("bad response code from config source %q want %d", response.Status, http.StatusOK)
	}

	data, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to read config response")
	}

	format := r.format
	if format == "" {
		if f, err := site.FormatFromName(req.URL.Path); err == nil {
			format = f
		} else {
			format = site.FormatFromContentType(response.Header.Get("Content-Type"))
		}
	}
	if format == "" {
		format = site.FormatJSON
	}
	return data, format, nil
}

func (r *Repo) tryToRestoreCurrent(ctx context.Context) error {
	buffer := &bytes.Buffer{}
	if err := r.history.GetCurrent(ctx, buffer); err != nil {
		return err
	}
	cfg, err := site.Decode(buffer.Bytes(), site.FormatJSON)
	if err != nil {
		return errors.Wrap(err, "failed to decode current config from history")
	}
	snapshot, canonical, err := r.accept(cfg)
	if err != nil {
		return err
	}
	r.SetJSONBuffer(bytes.NewBuffer(canonical))
	r.SetSnapshot(snapshot)
	return nil
}
