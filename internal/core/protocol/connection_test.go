package protocol

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/craftconn/craftconn/internal/core/observability/log"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Timeout = 50 * time.Millisecond
	cfg.ForceVersion = VersionMinecraftPi
	return cfg
}

// startServer runs a single-connection fake game server. The handler is
// invoked per received line and may write a reply to w.
func startServer(t *testing.T, handle func(line string, w io.Writer)) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		sc := bufio.NewScanner(conn)
		for sc.Scan() {
			if handle != nil {
				handle(sc.Text(), conn)
			}
		}
	}()
	return ln.Addr().String()
}

// countingConn records every write that reaches the socket.
type countingConn struct {
	net.Conn

	mu     sync.Mutex
	writes int
	sent   bytes.Buffer
}

func (c *countingConn) Write(p []byte) (int, error) {
	c.mu.Lock()
	c.writes++
	c.sent.Write(p)
	c.mu.Unlock()
	return c.Conn.Write(p)
}

func (c *countingConn) snapshot() (int, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writes, c.sent.String()
}

func dialTest(t *testing.T, addr string, cfg Config) (*Connection, *countingConn) {
	t.Helper()
	raw, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	cc := &countingConn{Conn: raw}
	c, err := New(cc, cfg, log.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, cc
}

func TestDialRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	cfg := testConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	_, err = Dial(context.Background(), cfg, log.Nop())
	require.ErrorIs(t, err, ErrDialFailed)
}

func TestRequestFailToken(t *testing.T) {
	addr := startServer(t, func(line string, w io.Writer) {
		_, _ = io.WriteString(w, "Fail\n")
	})
	c, _ := dialTest(t, addr, testConfig())

	err := c.Request("world.setBlock(0,0,0,0)")
	require.Error(t, err)
	require.True(t, IsCommandError(err))
	require.Contains(t, err.Error(), "world.setBlock(0,0,0,0)")
}

func TestRequestIgnoreErrors(t *testing.T) {
	addr := startServer(t, func(line string, w io.Writer) {
		_, _ = io.WriteString(w, "Fail\n")
	})
	cfg := testConfig()
	cfg.IgnoreErrors = true
	c, _ := dialTest(t, addr, cfg)

	require.NoError(t, c.Request("world.setBlock(0,0,0,0)"))
	require.NoError(t, c.Request("world.setBlock(0,0,0,1)"))
}

func TestRequestSilenceIsSuccess(t *testing.T) {
	addr := startServer(t, nil)
	c, _ := dialTest(t, addr, testConfig())

	start := time.Now()
	require.NoError(t, c.Request("chat.post(hello)"))
	// The bounded wait must have elapsed; silence, not skipping.
	require.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestTransact(t *testing.T) {
	addr := startServer(t, func(line string, w io.Writer) {
		if strings.HasPrefix(line, "world.getBlockWithData") {
			_, _ = io.WriteString(w, "2,0\n")
		}
	})
	c, _ := dialTest(t, addr, testConfig())

	reply, err := c.Transact("world.getBlockWithData(0,0,0)")
	require.NoError(t, err)
	require.Equal(t, "2,0", reply)
}

func TestTransactNoResponse(t *testing.T) {
	addr := startServer(t, nil)
	c, _ := dialTest(t, addr, testConfig())

	_, err := c.Transact("world.getBlockWithData(0,0,0)")
	require.ErrorIs(t, err, ErrNoResponse)
}

func TestVersionProbe(t *testing.T) {
	t.Run("raspberry-juice rejects unknown commands", func(t *testing.T) {
		addr := startServer(t, func(line string, w io.Writer) {
			if line == "foo()" {
				_, _ = io.WriteString(w, "Fail\n")
			}
		})
		cfg := testConfig()
		cfg.ForceVersion = VersionUnknown
		c, _ := dialTest(t, addr, cfg)
		require.Equal(t, VersionRaspberryJuice, c.ServerVersion())
		require.True(t, c.ServerVersion().SupportsBulkGet())
	})

	t.Run("pi edition stays silent", func(t *testing.T) {
		addr := startServer(t, nil)
		cfg := testConfig()
		cfg.ForceVersion = VersionUnknown
		c, _ := dialTest(t, addr, cfg)
		require.Equal(t, VersionMinecraftPi, c.ServerVersion())
		require.False(t, c.ServerVersion().SupportsBulkGet())
	})

	t.Run("data reply is a protocol violation", func(t *testing.T) {
		addr := startServer(t, func(line string, w io.Writer) {
			_, _ = io.WriteString(w, "bar\n")
		})
		raw, err := net.Dial("tcp", addr)
		require.NoError(t, err)
		cfg := testConfig()
		cfg.ForceVersion = VersionUnknown
		_, err = New(raw, cfg, log.Nop())
		require.Error(t, err)
	})
}

func TestBatchSingleFlush(t *testing.T) {
	addr := startServer(t, nil)
	c, cc := dialTest(t, addr, testConfig())
	before, _ := cc.snapshot()

	require.NoError(t, c.Batched(func() error {
		for _, cmd := range []string{
			"world.setBlock(0,0,0,1)",
			"world.setBlock(0,1,0,1)",
			"world.setBlock(0,2,0,1)",
			"world.setBlock(0,3,0,1)",
			"world.setBlock(0,4,0,1)",
		} {
			if err := c.Request(cmd); err != nil {
				return err
			}
		}
		return nil
	}))

	writes, sent := cc.snapshot()
	require.Equal(t, before+1, writes, "batch must flush as one write")
	require.Equal(t, 5, strings.Count(sent, "world.setBlock"))
	require.True(t, strings.HasSuffix(sent, "\n"))
}

func TestBatchDiscardOnError(t *testing.T) {
	addr := startServer(t, nil)
	c, cc := dialTest(t, addr, testConfig())
	before, _ := cc.snapshot()

	boom := errors.New("boom")
	err := c.Batched(func() error {
		_ = c.Send("world.setBlock(0,0,0,1)")
		_ = c.Send("world.setBlock(0,1,0,1)")
		return boom
	})
	require.ErrorIs(t, err, boom)

	writes, _ := cc.snapshot()
	require.Equal(t, before, writes, "discarded batch must write nothing")
}

func TestBatchIsExclusive(t *testing.T) {
	addr := startServer(t, nil)
	c, _ := dialTest(t, addr, testConfig())

	b, err := c.BatchStart()
	require.NoError(t, err)
	_, err = c.BatchStart()
	require.ErrorIs(t, err, ErrBatchStarted)
	b.Discard()

	// After discard a fresh batch may start.
	b2, err := c.BatchStart()
	require.NoError(t, err)
	require.NoError(t, b2.Commit())
}

func TestBatchGuardAfterDone(t *testing.T) {
	addr := startServer(t, nil)
	c, _ := dialTest(t, addr, testConfig())

	b, err := c.BatchStart()
	require.NoError(t, err)
	require.NoError(t, b.Send("chat.post(hi)"))
	require.Equal(t, 1, b.Len())
	require.NoError(t, b.Commit())

	require.ErrorIs(t, b.Send("chat.post(late)"), ErrBatchNotStarted)
	require.ErrorIs(t, b.Commit(), ErrBatchNotStarted)
}

func TestCloseIdempotent(t *testing.T) {
	addr := startServer(t, nil)
	c, _ := dialTest(t, addr, testConfig())

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	require.ErrorIs(t, c.Request("chat.post(hi)"), ErrClosed)
	_, err := c.Transact("player.getPos()")
	require.ErrorIs(t, err, ErrClosed)
	_, err = c.BatchStart()
	require.ErrorIs(t, err, ErrClosed)
}

func TestOrderPreserved(t *testing.T) {
	var mu sync.Mutex
	var got []string
	addr := startServer(t, func(line string, w io.Writer) {
		mu.Lock()
		got = append(got, line)
		mu.Unlock()
	})
	cfg := testConfig()
	cfg.IgnoreErrors = true
	c, _ := dialTest(t, addr, cfg)

	want := []string{"a()", "b()", "c()", "d()"}
	for _, cmd := range want {
		require.NoError(t, c.Request(cmd))
	}
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == len(want)
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, want, got)
}
