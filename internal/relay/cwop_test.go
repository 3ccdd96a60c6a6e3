package relay

import (
	"bufio"
	"fmt"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/relabs-tech/weather_logger/internal/wx"
)

// aprsServer plays the APRS-IS side of the exchange: banner, login
// response, then it captures what the client sent.
type aprsServer struct {
	addr    string
	lines   chan string
	accepts int32
}

func startAPRSServer(t *testing.T) *aprsServer {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	srv := &aprsServer{addr: ln.Addr().String(), lines: make(chan string, 4)}
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			atomic.AddInt32(&srv.accepts, 1)
			go func(c net.Conn) {
				defer c.Close()
				fmt.Fprint(c, "# aprsc 2.1.10\r\n")
				r := bufio.NewReader(c)
				login, err := r.ReadString('\n')
				if err != nil {
					return
				}
				srv.lines <- login
				fmt.Fprint(c, "# logresp unverified\r\n")
				pkt, err := r.ReadString('\n')
				if err != nil {
					return
				}
				srv.lines <- pkt
			}(conn)
		}
	}()
	return srv
}

func (s *aprsServer) next(t *testing.T) string {
	t.Helper()
	select {
	case l := <-s.lines:
		return l
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for client data")
		return ""
	}
}

func TestCWOPReport(t *testing.T) {
	srv := startAPRSServer(t)
	c := NewCWOP(srv.addr, "CW0001", "4903.50N/07201.75W", zap.NewNop().Sugar())

	require.NoError(t, c.Send(relaySample()))

	login := srv.next(t)
	assert.Equal(t, "user CW0001 pass -1 vers wxlog 1.0\r\n", login)

	pkt := srv.next(t)
	assert.Equal(t,
		"CW0001>APRS,TCPIP*:@071845z4903.50N/07201.75W_230/005g012t069r...p...P012h57b10132L512wwxlog\r\n",
		pkt)
}

func TestCWOPDottedFieldsWhenUnavailable(t *testing.T) {
	srv := startAPRSServer(t)
	c := NewCWOP(srv.addr, "CW0001", "4903.50N/07201.75W", zap.NewNop().Sugar())

	smp := &wx.Sample{
		Time: time.Date(2026, 3, 7, 18, 45, 12, 0, time.UTC),
		Wind: wx.WindVector{Speed: 5, Direction: 230},
	}
	require.NoError(t, c.Send(smp))

	srv.next(t) // login
	pkt := srv.next(t)
	assert.Equal(t,
		"CW0001>APRS,TCPIP*:@071845z4903.50N/07201.75W_230/005g000t...r...p...P...wwxlog\r\n",
		pkt)
}

func TestCWOPNegativeTemperature(t *testing.T) {
	srv := startAPRSServer(t)
	c := NewCWOP(srv.addr, "CW0001", "4903.50N/07201.75W", zap.NewNop().Sugar())

	smp := &wx.Sample{
		Time:    time.Date(2026, 1, 12, 6, 0, 0, 0, time.UTC),
		TempOut: wx.Measurement{Value: -8.3, Valid: true, Places: 1},
	}
	require.NoError(t, c.Send(smp))

	srv.next(t) // login
	pkt := srv.next(t)
	assert.Contains(t, pkt, "t-08")
}

// The network asks for at most one report per five minutes; extra
// samples are dropped quietly, without a connection.
func TestCWOPRateLimit(t *testing.T) {
	srv := startAPRSServer(t)
	c := NewCWOP(srv.addr, "CW0001", "4903.50N/07201.75W", zap.NewNop().Sugar())

	require.NoError(t, c.Send(relaySample()))
	srv.next(t)
	srv.next(t)

	require.NoError(t, c.Send(relaySample()))
	assert.Equal(t, int32(1), atomic.LoadInt32(&srv.accepts))
}
