package build

import (
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"github.com/netonframework/docsite/pkg/site"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

const (
	// PublicDir assets copied verbatim into the output root
	PublicDir = "public"
	// NotFoundSource optional source of the 404 page
	NotFoundSource = "404.md"
)

// Source a markdown file of the content tree
type Source struct {
	// File path relative to the content root, slash separated
	File   string
	Route  string
	Output string
}

// Route maps a content file onto its page route and output file.
//
//	index.md         -> /              index.html
//	guide/index.md   -> /guide/        guide/index.html
//	guide/routing.md -> /guide/routing guide/routing.html
func Route(file string) Source {
	file = strings.TrimPrefix(filepath.ToSlash(file), "/")
	return Source{
		File:   file,
		Route:  site.NormalizePath(site.PathSeparator, "/"+file),
		Output: strings.TrimSuffix(file, path.Ext(file)) + ".html",
	}
}

type excludes []glob.Glob

func compileExcludes(patterns []string) (excludes, error) {
	ret := make(excludes, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, errors.Wrapf(err, "invalid srcExclude pattern %q", pattern)
		}
		ret = append(ret, g)
	}
	return ret, nil
}

func (e excludes) Match(file string) bool {
	for _, g := range e {
		if g.Match(file) {
			return true
		}
	}
	return false
}

// collect walks the content tree and returns the markdown sources ordered by file name
func collect(fs afero.Fs, exclude excludes) ([]Source, error) {
	var ret []Source
	err := afero.Walk(fs, "/", func(name string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel := strings.TrimPrefix(filepath.ToSlash(name), "/")
		if info.IsDir() {
			if rel != "" && (strings.HasPrefix(info.Name(), ".") || rel == PublicDir || info.Name() == "node_modules") {
				return filepath.SkipDir
			}
			return nil
		}
		if path.Ext(rel) != ".md" || exclude.Match(rel) {
			return nil
		}
		ret = append(ret, Route(rel))
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to walk content")
	}
	sort.Slice(ret, func(i, j int) bool {
		return ret[i].File < ret[j].File
	})
	return ret, nil
}

// copyPublic copies the public dir into the output root and returns the number of files
func copyPublic(source, target afero.Fs) (int, error) {
	root := "/" + PublicDir
	if ok, err := afero.DirExists(source, root); err != nil || !ok {
		return 0, err
	}
	var count int
	err := afero.Walk(source, root, func(name string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		data, err := afero.ReadFile(source, name)
		if err != nil {
			return err
		}
		if err := writeFile(target, strings.TrimPrefix(filepath.ToSlash(name), root+"/"), data); err != nil {
			return err
		}
		count++
		return nil
	})
	return count, errors.Wrap(err, "failed to copy public assets")
}

func writeFile(fs afero.Fs, name string, data []byte) error {
	name = path.Join("/", name)
	if dir := path.Dir(name); dir != "/" {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "failed to create dir %q", dir)
		}
	}
	return errors.Wrapf(afero.WriteFile(fs, name, data, 0o644), "failed to write %q", name) //nolint:gosec
}
