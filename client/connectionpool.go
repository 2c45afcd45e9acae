package client

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/pkg/errors"
)

var errPoolDrained = errors.New("connection pool has been drained, client is dead")

type connectionPool struct {
	url            string
	chanConnGet    chan chan net.Conn
	chanConnReturn chan connReturn
	chanDrainPool  chan struct{}
	done           chan struct{}
	drainOnce      sync.Once
}

func newConnectionPool(url string, connectionPoolSize int, waitTimeout time.Duration) *connectionPool {
	connPool := &connectionPool{
		url:            url,
		chanConnGet:    make(chan chan net.Conn),
		chanConnReturn: make(chan connReturn),
		chanDrainPool:  make(chan struct{}),
		done:           make(chan struct{}),
	}
	go connPool.run(connectionPoolSize, waitTimeout)
	return connPool
}

// get waits for a free connection
func (c *connectionPool) get(ctx context.Context) (net.Conn, error) {
	chanConn := make(chan net.Conn, 1)
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.done:
		return nil, errPoolDrained
	case c.chanConnGet <- chanConn:
	}
	select {
	case <-ctx.Done():
		// the pool may still hand out a connection, give it back
		go func() {
			if conn := <-chanConn; conn != nil {
				c.put(connReturn{conn: conn})
			}
		}()
		return nil, ctx.Err()
	case conn := <-chanConn:
		if conn == nil {
			return nil, errors.Errorf("could not get a connection to %q", c.url)
		}
		return conn, nil
	}
}

func (c *connectionPool) put(ret connReturn) {
	select {
	case c.chanConnReturn <- ret:
	case <-c.done:
		_ = ret.conn.Close()
	}
}

func (c *connectionPool) drain() {
	c.drainOnce.Do(func() {
		close(c.chanDrainPool)
		<-c.done
	})
}

func (c *connectionPool) run(connectionPoolSize int, waitTimeout time.Duration) {
	type poolEntry struct {
		busy bool
		err  error
		conn net.Conn
	}
	type waitPoolEntry struct {
		entryTime time.Time
		chanConn  chan net.Conn
	}

	var (
		connectionPool = make([]*poolEntry, connectionPoolSize)
		waitPool       = map[int]*waitPoolEntry{}
		nextWaitID     = 0
		ticker         = time.NewTicker(waitTimeout)
	)
	defer ticker.Stop()
	for i := range connectionPool {
		connectionPool[i] = &poolEntry{}
	}

RunLoop:
	for {
		select {
		case <-c.chanDrainPool:
			for _, waitPoolEntry := range waitPool {
				waitPoolEntry.chanConn <- nil
			}
			break RunLoop
		case <-ticker.C:
		case chanReturnNextConn := <-c.chanConnGet:
			waitPool[nextWaitID] = &waitPoolEntry{
				chanConn:  chanReturnNextConn,
				entryTime: time.Now(),
			}
			nextWaitID++
		case connReturn := <-c.chanConnReturn:
			for _, poolEntry := range connectionPool {
				if connReturn.conn == poolEntry.conn {
					poolEntry.busy = false
					if connReturn.err != nil {
						poolEntry.err = connReturn.err
						_ = poolEntry.conn.Close()
						poolEntry.conn = nil
					}
				}
			}
		}
		// refill connection pool
		for _, poolEntry := range connectionPool {
			if poolEntry.conn == nil {
				newConn, errDial := net.DialTimeout("tcp", c.url, waitTimeout)
				poolEntry.err = errDial
				poolEntry.conn = newConn
			}
		}
		// redistribute available connections, oldest waiter first
		for _, poolEntry := range connectionPool {
			if len(waitPool) == 0 {
				break
			}
			if poolEntry.err == nil && poolEntry.conn != nil && !poolEntry.busy {
				oldest := -1
				for i := range waitPool {
					if oldest < 0 || i < oldest {
						oldest = i
					}
				}
				poolEntry.busy = true
				waitPool[oldest].chanConn <- poolEntry.conn
				delete(waitPool, oldest)
			}
		}
		// waitpool cleanup
		now := time.Now()
		for i, waitPoolEntry := range waitPool {
			if now.Sub(waitPoolEntry.entryTime) > waitTimeout {
				waitPoolEntry.chanConn <- nil
				delete(waitPool, i)
			}
		}
	}

	for _, poolEntry := range connectionPool {
		if poolEntry.conn != nil {
			_ = poolEntry.conn.Close()
		}
	}
	close(c.done)
}
