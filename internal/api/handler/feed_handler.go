package handler

import (
	"context"
	"time"

	ws "github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/kuroneko-hornet/homeworks/internal/api/metrics"
	"github.com/kuroneko-hornet/homeworks/internal/core/domain"
	"github.com/kuroneko-hornet/homeworks/internal/core/ports"
)

const (
	feedBufferSize   = 16
	feedPingInterval = 30 * time.Second
)

// EventSubscriber is the subscribe half of the event broker.
type EventSubscriber interface {
	Subscribe(filter ports.EventFilter, fn func(domain.ChangeEvent)) (unsubscribe func())
}

// AuthSubscriber delivers one user's sign-in and sign-out transitions.
type AuthSubscriber interface {
	Subscribe(uid string, onChange func(domain.ChangeEvent)) (unsubscribe func())
}

// FeedHandler streams change events to an open screen so it can re-fetch.
type FeedHandler struct {
	events         EventSubscriber
	auth           AuthSubscriber
	originPatterns []string
	log            zerolog.Logger
}

func NewFeedHandler(events EventSubscriber, auth AuthSubscriber, originPatterns []string, log zerolog.Logger) *FeedHandler {
	return &FeedHandler{events: events, auth: auth, originPatterns: originPatterns, log: log}
}

// Stream upgrades to a websocket. The caller receives household-wide events
// and its own auth transitions.
//
// @Summary      Live change feed (websocket)
// @Tags         feed
// @Security     BearerAuth
// @Param        access_token  query  string  false  "Token when headers cannot be set"
// @Success      101
// @Router       /v1/feed [get]
func (h *FeedHandler) Stream(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	conn, err := ws.Accept(c.Response(), c.Request(), &ws.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		// Accept already wrote the HTTP error response.
		h.log.Debug().Err(err).Msg("websocket accept failed")
		return nil
	}
	defer conn.CloseNow()

	metrics.FeedConnections.Inc()
	defer metrics.FeedConnections.Dec()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	send := make(chan domain.ChangeEvent, feedBufferSize)
	enqueue := func(ev domain.ChangeEvent) {
		select {
		case send <- ev:
		default:
			// Client buffer full; the screen catches up on the next event.
		}
	}
	defer h.events.Subscribe(feedFilter(claims.UID), enqueue)()
	defer h.auth.Subscribe(claims.UID, enqueue)()

	go h.writePump(ctx, conn, send)
	readPump(ctx, conn)

	_ = conn.Close(ws.StatusNormalClosure, "")
	return nil
}

// feedFilter selects the data events a user's screen reacts to. Auth
// transitions arrive through the auth subscription instead.
func feedFilter(uid string) ports.EventFilter {
	return func(ev domain.ChangeEvent) bool {
		switch {
		case ev.IsAuth():
			return false
		case ev.Type == domain.EventProfileChanged:
			return ev.UID == uid
		}
		return true
	}
}

// readPump discards incoming messages and returns when the connection closes.
func readPump(ctx context.Context, conn *ws.Conn) {
	for {
		if _, _, err := conn.Read(ctx); err != nil {
			return
		}
	}
}

// writePump forwards queued events and pings to detect stale connections.
func (h *FeedHandler) writePump(ctx context.Context, conn *ws.Conn, send <-chan domain.ChangeEvent) {
	ticker := time.NewTicker(feedPingInterval)
	defer ticker.Stop()

	for {
		select {
		case ev := <-send:
			if err := wsjson.Write(ctx, conn, ev); err != nil {
				h.log.Debug().Err(err).Str("event", string(ev.Type)).Msg("feed write failed")
				return
			}
		case <-ticker.C:
			if err := conn.Ping(ctx); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
