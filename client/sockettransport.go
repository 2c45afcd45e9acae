package client

import (
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/netonframework/docsite/pkg/handler"
	"github.com/pkg/errors"
)

type connReturn struct {
	conn net.Conn
	err  error
}

type socketTransport struct {
	connPool *connectionPool
}

// NewSocketTransport talks the length prefixed socket protocol over a pool of connections
func NewSocketTransport(server string, connectionPoolSize int, waitTimeout time.Duration) transport {
	return &socketTransport{
		connPool: newConnectionPool(server, connectionPoolSize, waitTimeout),
	}
}

func (st *socketTransport) shutdown() {
	st.connPool.drain()
}

func (st *socketTransport) call(ctx context.Context, route handler.Route, request interface{}, response interface{}) error {
	jsonBytes, err := json.Marshal(request)
	if err != nil {
		return errors.Wrap(err, "could not marshal request")
	}
	conn, err := st.connPool.get(ctx)
	if err != nil {
		return err
	}
	returnConn := func(err error) {
		st.connPool.put(connReturn{
			conn: conn,
			err:  err,
		})
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	} else {
		_ = conn.SetDeadline(time.Time{})
	}

	// write header result will be like handler:2{}
	jsonBytes = append([]byte(fmt.Sprintf("%s:%d", route, len(jsonBytes))), jsonBytes...)
	if _, err := conn.Write(jsonBytes); err != nil {
		returnConn(err)
		return errors.Wrap(err, "failed to send request")
	}

	responseBytes, err := readResponse(conn)
	if err != nil {
		returnConn(err)
		return err
	}
	returnConn(nil)
	return decodeReply(responseBytes, response)
}

// readResponse reads one <length>{json} reply
func readResponse(conn net.Conn) ([]byte, error) {
	var (
		buf    [1]byte
		header []byte
	)
	for {
		if _, err := io.ReadFull(conn, buf[:]); err != nil {
			return nil, errors.Wrap(err, "an error occurred while reading the response")
		}
		if buf[0] == '{' {
			break
		}
		header = append(header, buf[0])
	}
	responseLength, err := strconv.Atoi(string(header))
	if err != nil || responseLength < 1 {
		return nil, errors.Errorf("could not read response length %q", string(header))
	}
	responseBytes := make([]byte, responseLength)
	responseBytes[0] = '{'
	if _, err := io.ReadFull(conn, responseBytes[1:]); err != nil {
		return nil, errors.Wrap(err, "an error occurred while reading the response")
	}
	return responseBytes, nil
}
