package handler_test

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strconv"
	"testing"

	"github.com/netonframework/docsite/pkg/handler"
	"github.com/netonframework/docsite/responses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/nettest"
)

func serveSocket(t *testing.T) net.Conn {
	t.Helper()
	l, r := newTestRepo(t)
	s := handler.NewSocket(l, r)

	ln, err := nettest.NewLocalListener("tcp")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go s.Serve(conn)
		}
	}()

	conn, err := net.Dial(ln.Addr().Network(), ln.Addr().String())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// readReply reads one <length>{json} response
func readReply(t *testing.T, r *bufio.Reader) []byte {
	t.Helper()
	var length string
	for {
		b, err := r.ReadByte()
		require.NoError(t, err)
		if b == '{' {
			require.NoError(t, r.UnreadByte())
			break
		}
		length += string(b)
	}
	n, err := strconv.Atoi(length)
	require.NoError(t, err)
	data := make([]byte, n)
	_, err = io.ReadFull(r, data)
	require.NoError(t, err)
	return data
}

func TestSocketRequests(t *testing.T) {
	conn := serveSocket(t)
	reader := bufio.NewReader(conn)

	// several requests on one connection
	for _, path := range []string{"/guide/", "/spec/", "/api/"} {
		body := fmt.Sprintf(`{"path":%q}`, path)
		_, err := fmt.Fprintf(conn, "%s:%d%s", handler.RouteGetSidebar, len(body), body)
		require.NoError(t, err)

		reply := struct {
			Reply *responses.Sidebar `json:"reply"`
		}{}
		require.NoError(t, json.Unmarshal(readReply(t, reader), &reply))
		require.NotNil(t, reply.Reply)
		assert.Equal(t, path != "/api/", reply.Reply.Found, path)
		if reply.Reply.Found {
			assert.Equal(t, path, reply.Reply.Prefix)
		}
	}

	_, err := fmt.Fprintf(conn, "%s:%d%s", handler.RouteGetRepo, 2, "{}")
	require.NoError(t, err)
	assert.Equal(t, "Neton", json.Get(readReply(t, reader), "reply", "title").ToString())
}

func TestSocketInvalidHeader(t *testing.T) {
	conn := serveSocket(t)
	reader := bufio.NewReader(conn)

	_, err := fmt.Fprint(conn, "getSidebar-12{\"path\":\"/\"}")
	require.NoError(t, err)

	reply := struct {
		Reply *responses.Error `json:"reply"`
	}{}
	require.NoError(t, json.Unmarshal(readReply(t, reader), &reply))
	require.NotNil(t, reply.Reply)
	assert.Equal(t, responses.ErrorCodeBadHeader, reply.Reply.Code)
}
