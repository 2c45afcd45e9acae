package handler_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/netonframework/docsite/pkg/repo"
	"github.com/netonframework/docsite/pkg/repo/mock"
	"github.com/netonframework/docsite/pkg/site"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func newTestRepo(t *testing.T) (*zap.Logger, *repo.Repo) {
	t.Helper()
	mockServer, _ := mock.GetMockData(t)
	return startTestRepo(t, mockServer.URL+"/site-ok.json")
}

// newTestRepoWithConfig serves cfg from a local file
func newTestRepoWithConfig(t *testing.T, cfg *site.SiteConfig) (*zap.Logger, *repo.Repo) {
	t.Helper()
	data, err := site.Encode(cfg, site.FormatJSON)
	require.NoError(t, err)
	source := filepath.Join(t.TempDir(), "site.json")
	require.NoError(t, os.WriteFile(source, data, 0o600))
	return startTestRepo(t, source)
}

func startTestRepo(t *testing.T, source string) (*zap.Logger, *repo.Repo) {
	t.Helper()
	l := zaptest.NewLogger(t)
	h, err := repo.NewHistory(l, repo.HistoryWithHistoryDir(t.TempDir()))
	require.NoError(t, err)
	r := repo.New(l, source, h)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go r.Start(ctx) //nolint:errcheck

	require.Eventually(t, r.Loaded, 2*time.Second, 10*time.Millisecond)
	return l, r
}
