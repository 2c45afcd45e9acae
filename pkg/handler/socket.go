package handler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"

	"github.com/netonframework/docsite/pkg/metrics"
	"github.com/netonframework/docsite/pkg/repo"
	"github.com/netonframework/docsite/responses"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Socket serves the json routes over a length prefixed protocol.
//
//	request:  <route>:<length>{json}
//	response: <length>{json}
//
// A connection stays open for any number of requests.
type Socket struct {
	service
}

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func NewSocket(l *zap.Logger, repo *repo.Repo) *Socket {
	inst := &Socket{
		service: service{
			l:    l.Named("socket"),
			repo: repo,
		},
	}

	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

func (h *Socket) Serve(conn net.Conn) {
	defer func() {
		if r := recover(); r != nil {
			if err, ok := r.(error); ok {
				if !errors.Is(err, io.EOF) {
					h.l.Error("panic in handle connection", zap.Error(err))
				}
			} else {
				h.l.Error("panic in handle connection", zap.String("error", fmt.Sprint(r)))
			}
		}
	}()

	remote := conn.RemoteAddr().String()
	h.l.Debug("handling connection", zap.String("remote", remote))
	metrics.NumSocketsGauge.WithLabelValues(remote).Inc()
	defer metrics.NumSocketsGauge.WithLabelValues(remote).Dec()

	var (
		headerBuffer [1]byte
		header       = ""
	)
	for {
		// read 1 byte steps until the json starts
		if _, readErr := conn.Read(headerBuffer[0:]); readErr != nil {
			h.l.Debug("looks like the client closed the connection", zap.Error(readErr))
			return
		}
		if headerBuffer[0] != '{' {
			header += string(headerBuffer[0:])
			continue
		}

		route, jsonLength, headerErr := h.extractRouteAndJSONLength(header)
		header = ""
		if headerErr != nil {
			h.l.Error("invalid request could not read header", zap.Error(headerErr))
			encodedErr, encodingErr := h.encodeReply(responses.NewError(responses.ErrorCodeBadHeader, "invalid header "+headerErr.Error()))
			if encodingErr == nil {
				h.writeResponse(conn, encodedErr)
			} else {
				h.l.Error("could not respond to invalid request", zap.Error(encodingErr))
			}
			return
		}
		if jsonLength < 1 {
			h.l.Error("can not read empty json")
			return
		}

		jsonBytes := make([]byte, jsonLength)
		jsonBytes[0] = '{'
		if _, err := io.ReadFull(conn, jsonBytes[1:]); err != nil {
			h.l.Error("could not read json - giving up with this client connection", zap.Error(err))
			return
		}
		h.l.Debug("read json", zap.Int("length", len(jsonBytes)))

		h.writeResponse(conn, h.execute(route, jsonBytes))
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (h *Socket) extractRouteAndJSONLength(header string) (route Route, jsonLength int, err error) {
	headerParts := strings.Split(header, ":")
	if len(headerParts) != 2 {
		return "", 0, errors.New("invalid header")
	}
	jsonLength, err = strconv.Atoi(headerParts[1])
	if err != nil {
		err = errors.Errorf("could not parse length in header: %q", header)
	}
	return Route(headerParts[0]), jsonLength, err
}

func (h *Socket) execute(route Route, jsonBytes []byte) (reply []byte) {
	ctx := context.Background()
	if route == RouteGetRepo {
		var b bytes.Buffer
		if err := h.repo.WriteRepoBytes(ctx, &b); err != nil {
			h.l.Error("failed to write repo", zap.Error(err))
		}
		return b.Bytes()
	}

	reply, handlingError := h.handleRequest(ctx, route, jsonBytes, sourceSocketServer)
	if handlingError != nil {
		h.l.Error("execute failed", zap.Error(handlingError))
	}
	return reply
}

func (h *Socket) writeResponse(conn net.Conn, reply []byte) {
	reply = append([]byte(strconv.Itoa(len(reply))), reply...)
	n, writeError := conn.Write(reply)
	if writeError != nil {
		h.l.Error("could not write reply", zap.Error(writeError))
		return
	}
	if n < len(reply) {
		h.l.Error("write too short",
			zap.Int("got", n),
			zap.Int("expected", len(reply)),
		)
		return
	}
	h.l.Debug("replied. waiting for next request on open connection")
}
