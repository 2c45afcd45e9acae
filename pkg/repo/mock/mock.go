package mock

import (
	"net/http"
	"net/http/httptest"
	"path"
	"runtime"
	"testing"
	"time"

	"github.com/netonframework/docsite/requests"
)

// Dir directory holding the mock site configs
func Dir() string {
	_, filename, _, _ := runtime.Caller(0)
	return path.Dir(filename)
}

// GetMockData serves the mock site configs, slowed down to make runtimes measurable
func GetMockData(tb testing.TB) (*httptest.Server, string) {
	tb.Helper()
	mockDir := Dir()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		time.Sleep(time.Millisecond * 50)
		mockFilename := path.Join(mockDir, req.URL.Path[1:])
		http.ServeFile(w, req, mockFilename)
	}))
	tb.Cleanup(server.Close)

	return server, tb.TempDir()
}

// MakeSidebarRequest sidebar of the guide
func MakeSidebarRequest() *requests.Sidebar {
	return &requests.Sidebar{
		Path: "/guide/routing",
	}
}

// MakePageRequest navigation context of a guide page
func MakePageRequest() *requests.Page {
	return &requests.Page{
		Path: "/guide/routing",
	}
}

func MakeNavRequest() *requests.Nav {
	return &requests.Nav{
		Path: "/guide/configuration",
	}
}
