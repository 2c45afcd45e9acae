package build

import (
	"path"
	"path/filepath"
	"sync"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// LastUpdatedFunc returns the time a content file was last changed
type LastUpdatedFunc func(file string) (time.Time, error)

// ModTime last updated from the file modification time
func ModTime(fs afero.Fs) LastUpdatedFunc {
	return func(file string) (time.Time, error) {
		info, err := fs.Stat(path.Join("/", file))
		if err != nil {
			return time.Time{}, err
		}
		return info.ModTime(), nil
	}
}

type gitDates struct {
	l        *zap.Logger
	repo     *gogit.Repository
	prefix   string
	fallback LastUpdatedFunc
	lock     sync.Mutex
}

// GitLastUpdated last updated from the commit time of the latest commit touching a file.
// dir is the content dir on disk, files that are not committed fall back to the given func.
func GitLastUpdated(l *zap.Logger, dir string, fallback LastUpdatedFunc) (LastUpdatedFunc, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	repo, err := gogit.PlainOpenWithOptions(abs, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open git repository for %q", dir)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get worktree")
	}
	prefix, err := filepath.Rel(wt.Filesystem.Root(), abs)
	if err != nil {
		return nil, err
	}
	g := &gitDates{
		l:        l.Named("git"),
		repo:     repo,
		prefix:   filepath.ToSlash(prefix),
		fallback: fallback,
	}
	return g.lastUpdated, nil
}

func (g *gitDates) lastUpdated(file string) (time.Time, error) {
	name := path.Join(g.prefix, file)

	// go-git repositories are not safe for concurrent log walks
	g.lock.Lock()
	iter, err := g.repo.Log(&gogit.LogOptions{
		FileName: &name,
		Order:    gogit.LogOrderCommitterTime,
	})
	if err != nil {
		g.lock.Unlock()
		return g.fallback(file)
	}
	commit, err := iter.Next()
	iter.Close()
	g.lock.Unlock()

	if err != nil || commit == nil {
		g.l.Debug("no commit found, falling back", zap.String("file", name))
		return g.fallback(file)
	}
	return commit.Committer.When, nil
}
