package repo

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/netonframework/docsite/pkg/repo/mock"
	"github.com/netonframework/docsite/requests"
	"github.com/netonframework/docsite/responses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func NewTestRepo(ctx context.Context, l *zap.Logger, source, varDir string, opts ...Option) *Repo {
	h, err := NewHistory(l, HistoryWithHistoryLimit(2), HistoryWithHistoryDir(varDir))
	if err != nil {
		panic(err)
	}
	r := New(l, source, h, opts...)
	go r.Start(ctx) //nolint:errcheck
	time.Sleep(200 * time.Millisecond)
	return r
}

func copyMockFile(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(mock.Dir(), name))
	require.NoError(t, err)
	target := filepath.Join(t.TempDir(), "config"+filepath.Ext(name))
	require.NoError(t, os.WriteFile(target, data, 0o600))
	return target
}

func TestLoad404(t *testing.T) {
	var (
		l                  = zaptest.NewLogger(t)
		mockServer, varDir = mock.GetMockData(t)
		url                = mockServer.URL + "/site-no-have.json"
		r                  = NewTestRepo(t.Context(), l, url, varDir)
	)

	response := r.Update(t.Context())
	assert.False(t, response.Success, "can not get a config, if the server responds with a 404")
	assert.Equal(t, -1, response.Stats.NumberOfNavEntries)
	assert.False(t, r.Loaded())

	_, err := r.GetConfig()
	assert.Error(t, err)
}

func TestLoadBrokenConfig(t *testing.T) {
	var (
		l                  = zaptest.NewLogger(t)
		mockServer, varDir = mock.GetMockData(t)
		r                  = NewTestRepo(t.Context(), l, mockServer.URL+"/site-broken.json", varDir)
	)

	response := r.Update(t.Context())
	assert.False(t, response.Success, "how could we load a broken json")
	assert.Nil(t, r.Snapshot())
}

func TestLoadInvalidConfig(t *testing.T) {
	var (
		l                  = zaptest.NewLogger(t)
		mockServer, varDir = mock.GetMockData(t)
		r                  = NewTestRepo(t.Context(), l, mockServer.URL+"/site-invalid.json", varDir)
	)

	response := r.Update(t.Context())
	assert.False(t, response.Success)
	assert.Contains(t, response.ErrorMessage, "invalid site config")
	assert.Nil(t, r.Snapshot())
}

func TestLoadConfig(t *testing.T) {
	var (
		l                  = zaptest.NewLogger(t)
		mockServer, varDir = mock.GetMockData(t)
		r                  = NewTestRepo(t.Context(), l, mockServer.URL+"/site-ok.json", varDir)
	)
	require.True(t, r.Loaded())

	response := r.Update(t.Context())
	require.True(t, response.Success, response.ErrorMessage)
	assert.Equal(t, 3, response.Stats.NumberOfNavEntries)
	assert.Equal(t, 2, response.Stats.NumberOfSidebarPrefixes)
	assert.Equal(t, r.Snapshot().Revision, response.Revision)
	if response.Stats.OwnRuntime > response.Stats.RepoRuntime {
		t.Fatal("how could all take less time, than me alone")
	}
	if response.Stats.RepoRuntime < 0.05 {
		t.Fatal("the server was too fast")
	}
}

func TestLoadYAMLConfig(t *testing.T) {
	var (
		l                  = zaptest.NewLogger(t)
		mockServer, varDir = mock.GetMockData(t)
		r                  = NewTestRepo(t.Context(), l, mockServer.URL+"/site-ok.yaml", varDir)
	)
	require.True(t, r.Loaded())
	cfg := r.Config()
	require.NotNil(t, cfg)
	assert.Equal(t, "Neton", cfg.Title)
	lo, hi := cfg.ThemeConfig.Outline.Level.Range()
	assert.Equal(t, 2, lo)
	assert.Equal(t, 6, hi)
}

func TestUnchangedConfigIsNotPersistedTwice(t *testing.T) {
	var (
		l                  = zaptest.NewLogger(t)
		mockServer, varDir = mock.GetMockData(t)
		r                  = NewTestRepo(t.Context(), l, mockServer.URL+"/site-ok.json", varDir)
	)
	require.True(t, r.Loaded())
	revision := r.Snapshot().Revision

	for i := 0; i < 3; i++ {
		response := r.Update(t.Context())
		require.True(t, response.Success)
		assert.Equal(t, revision, response.Revision)
	}

	backups, err := r.history.Backups(t.Context())
	require.NoError(t, err)
	assert.Len(t, backups, 1)
}

func TestInvalidUpdateKeepsLastGoodConfig(t *testing.T) {
	var (
		l      = zaptest.NewLogger(t)
		source = copyMockFile(t, "site-ok.json")
		r      = NewTestRepo(t.Context(), l, source, t.TempDir())
	)
	require.True(t, r.Loaded())
	good := r.Snapshot()

	invalid, err := os.ReadFile(filepath.Join(mock.Dir(), "site-invalid.json"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(source, invalid, 0o600))

	response := r.Update(t.Context())
	assert.False(t, response.Success)
	assert.Equal(t, good.Revision, response.Revision)
	assert.Same(t, good, r.Snapshot())

	sidebar, err := r.GetSidebar(&requests.Sidebar{Path: "/guide/"})
	require.NoError(t, err)
	assert.True(t, sidebar.Found)
}

func TestConcurrentUpdatesAreRejected(t *testing.T) {
	var (
		l                  = zaptest.NewLogger(t)
		mockServer, varDir = mock.GetMockData(t)
		r                  = NewTestRepo(t.Context(), l, mockServer.URL+"/site-ok.json", varDir)
	)
	require.True(t, r.Loaded())

	const n = 4
	var (
		wg      sync.WaitGroup
		start   = make(chan struct{})
		results = make([]*responses.Update, n)
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			results[i] = r.Update(t.Context())
		}()
	}
	close(start)
	wg.Wait()

	var succeeded, rejected int
	for _, response := range results {
		switch {
		case response.Success:
			succeeded++
		case response.ErrorMessage == ErrUpdateRejected.Error():
			rejected++
		default:
			t.Errorf("unexpected update error: %s", response.ErrorMessage)
		}
	}
	assert.GreaterOrEqual(t, succeeded, 1)
	assert.GreaterOrEqual(t, rejected, 1, "the mock server is slow enough for updates to overlap")
	assert.Equal(t, n, succeeded+rejected)
}

func TestTryUpdateWhileBusy(t *testing.T) {
	l := zaptest.NewLogger(t)
	h, err := NewHistory(l, HistoryWithHistoryDir(t.TempDir()))
	require.NoError(t, err)
	// no update routine is receiving
	r := New(l, "site.json", h)

	_, _, err = r.tryUpdate()
	assert.ErrorIs(t, err, ErrUpdateRejected)
}

func TestRestoreFromHistory(t *testing.T) {
	var (
		l                  = zaptest.NewLogger(t)
		mockServer, varDir = mock.GetMockData(t)
		ok                 = NewTestRepo(t.Context(), l, mockServer.URL+"/site-ok.json", varDir)
	)
	require.True(t, ok.Loaded())

	// the source is gone, the persisted config is still served
	r := NewTestRepo(t.Context(), l, mockServer.URL+"/site-no-have.json", varDir)
	assert.False(t, r.Loaded())
	require.NotNil(t, r.Snapshot())
	assert.Equal(t, ok.Snapshot().Revision, r.Snapshot().Revision)
}

func TestGetSidebar(t *testing.T) {
	var (
		l                  = zaptest.NewLogger(t)
		mockServer, varDir = mock.GetMockData(t)
		r                  = NewTestRepo(t.Context(), l, mockServer.URL+"/site-ok.json", varDir)
	)

	_, err := r.GetSidebar(&requests.Sidebar{})
	require.Error(t, err)

	response, err := r.GetSidebar(mock.MakeSidebarRequest())
	require.NoError(t, err)
	require.True(t, response.Found)
	assert.Equal(t, "/guide/", response.Prefix)
	require.Len(t, response.Sections, 2)
	require.NotEmpty(t, response.Sections[0].Items)
	assert.Equal(t, "/guide/", response.Sections[0].Items[0].Link)

	response, err = r.GetSidebar(&requests.Sidebar{Path: "/spec"})
	require.NoError(t, err)
	assert.Equal(t, "/spec/", response.Prefix)

	response, err = r.GetSidebar(&requests.Sidebar{Path: "/api/"})
	require.NoError(t, err)
	assert.False(t, response.Found)
	assert.Empty(t, response.Sections)
}

func TestGetPage(t *testing.T) {
	var (
		l                  = zaptest.NewLogger(t)
		mockServer, varDir = mock.GetMockData(t)
		r                  = NewTestRepo(t.Context(), l, mockServer.URL+"/site-ok.json", varDir)
	)

	response, err := r.GetPage(mock.MakePageRequest())
	require.NoError(t, err)
	require.NotNil(t, response.Location)
	assert.Equal(t, []string{"Getting started", "Routing"}, response.Breadcrumb)
	require.NotNil(t, response.Location.Prev)
	assert.Equal(t, "/guide/", response.Location.Prev.Link)
	require.NotNil(t, response.Location.Next)
	assert.Equal(t, "/guide/configuration", response.Location.Next.Link)
	require.NotNil(t, response.Location.Nav)
	assert.Equal(t, "Guide", response.Location.Nav.Text)
}

func TestGetNav(t *testing.T) {
	var (
		l                  = zaptest.NewLogger(t)
		mockServer, varDir = mock.GetMockData(t)
		r                  = NewTestRepo(t.Context(), l, mockServer.URL+"/site-ok.json", varDir)
	)

	response, err := r.GetNav(mock.MakeNavRequest())
	require.NoError(t, err)
	assert.Len(t, response.Nav, 3)
	require.NotNil(t, response.Active)
	assert.Equal(t, "/guide/", response.Active.Link)

	response, err = r.GetNav(&requests.Nav{})
	require.NoError(t, err)
	assert.Nil(t, response.Active)
}

func TestWriteRepoBytes(t *testing.T) {
	var (
		l                  = zaptest.NewLogger(t)
		mockServer, varDir = mock.GetMockData(t)
		r                  = NewTestRepo(t.Context(), l, mockServer.URL+"/site-ok.json", varDir)
		wg                 sync.WaitGroup
	)

	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			r.Update(t.Context())
		}()
		go func() {
			defer wg.Done()
			var buf bytes.Buffer
			assert.NoError(t, r.WriteRepoBytes(t.Context(), &buf))
			assert.True(t, strings.HasPrefix(buf.String(), `{"reply":{`))
			assert.True(t, strings.HasSuffix(buf.String(), `}}`))
		}()
	}
	wg.Wait()
}

func TestWatch(t *testing.T) {
	var (
		l      = zaptest.NewLogger(t)
		source = copyMockFile(t, "site-ok.json")
		r      = NewTestRepo(t.Context(), l, source, t.TempDir(), WithWatch(true), WithWatchDebounce(20*time.Millisecond))
	)
	require.True(t, r.Loaded())
	revision := r.Snapshot().Revision

	data, err := os.ReadFile(source)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(source, bytes.Replace(data, []byte(`"title": "Neton"`), []byte(`"title": "Neton Docs"`), 1), 0o600))

	require.Eventually(t, func() bool {
		return r.Snapshot().Revision != revision
	}, 2*time.Second, 20*time.Millisecond)
	assert.Equal(t, "Neton Docs", r.Config().Title)
}

func BenchmarkLoadRepo(b *testing.B) {
	var (
		l                  = zaptest.NewLogger(b)
		mockServer, varDir = mock.GetMockData(b)
		r                  = NewTestRepo(b.Context(), l, mockServer.URL+"/site-ok.json", varDir)
	)

	b.ReportAllocs()
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		response := r.Update(b.Context())
		if !response.Success {
			b.Fatal("could not load valid config")
		}
	}
}
