package http

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/quantumauth-io/quantum-go-utils/log"

	"github.com/quantumauth-io/quantum-wallet/internal/quote"
)

func (s *Server) checkWSOrigin(r *http.Request) bool {
	raw := r.Header.Get("Origin")
	if raw == "" {
		return true
	}
	origin := normalizeOrigin(raw)
	if origin == "" {
		return false
	}
	_, ok := s.uiAllowedOrigins[origin]
	return ok
}

// quoteStream owns one websocket connection. Quote requests are debounced;
// only the last request within the delay is estimated.
type quoteStream struct {
	conn      *websocket.Conn
	quotes    QuoteEstimator
	debouncer *quote.Debouncer

	writeMu sync.Mutex
	mu      sync.Mutex
	seq     uint64
}

func (s *Server) handleQuoteStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("quote stream: upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	qs := &quoteStream{
		conn:      conn,
		quotes:    s.quotes,
		debouncer: quote.NewDebouncer(s.quoteDebounce),
	}
	defer qs.debouncer.Stop()

	qs.readLoop(ctx)
}

func (qs *quoteStream) readLoop(ctx context.Context) {
	for {
		_, raw, err := qs.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Info("quote stream closed", "error", err)
			}
			return
		}

		qs.mu.Lock()
		qs.seq++
		seq := qs.seq
		qs.mu.Unlock()

		var req quote.Request
		if err := json.Unmarshal(raw, &req); err != nil {
			// a cleared amount field arrives as "" and must not end the stream
			log.Info("quote stream: bad request frame", "error", err)
			qs.debouncer.Trigger(func() { qs.write(quoteStreamMessage{Seq: seq, Error: SwapQuoteFailedText}) })
			continue
		}

		qs.debouncer.Trigger(func() { qs.respond(ctx, seq, req) })
	}
}

func (qs *quoteStream) respond(ctx context.Context, seq uint64, req quote.Request) {
	if ctx.Err() != nil {
		return
	}

	msg := quoteStreamMessage{Seq: seq}
	q, err := qs.quotes.Estimate(ctx, req)
	if err != nil {
		msg.Error = SwapQuoteFailedText
	} else {
		msg.Quote = q
	}

	qs.write(msg)
}

func (qs *quoteStream) write(msg quoteStreamMessage) {
	qs.writeMu.Lock()
	defer qs.writeMu.Unlock()

	_ = qs.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := qs.conn.WriteJSON(msg); err != nil {
		log.Warn("quote stream: write failed", "error", err)
	}
}
