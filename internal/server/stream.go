package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
)

// streamEvents relays committed board changes as server-sent events until
// the client disconnects or the server shuts down.
func (s *Server) streamEvents(c echo.Context) error {
	if s.bus == nil {
		return echo.NewHTTPError(http.StatusNotFound, "event stream disabled")
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.Header().Set("X-Accel-Buffering", "no")
	flusher, ok := res.Writer.(http.Flusher)
	if !ok {
		return c.String(http.StatusInternalServerError, "stream unsupported")
	}

	ctx := c.Request().Context()
	ch := s.bus.Subscribe(ctx)

	s.metrics.ClientConnected()
	defer s.metrics.ClientDisconnected()

	res.WriteHeader(http.StatusOK)
	if _, err := res.Write([]byte(": connected\n\n")); err != nil {
		return nil
	}
	flusher.Flush()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.done:
			return nil
		case <-keepAlive.C:
			if _, err := res.Write([]byte(": ping\n\n")); err != nil {
				return nil
			}
			flusher.Flush()
		case event, open := <-ch:
			if !open {
				return nil
			}
			data, err := sonic.Marshal(event)
			if err != nil {
				s.logger.Error("failed to encode event", "error", err)
				continue
			}
			frame := "id: " + strconv.FormatUint(event.Revision, 10) + "\nevent: " + string(event.Type) + "\ndata: " + string(data) + "\n\n"
			if _, err := res.Write([]byte(frame)); err != nil {
				s.logger.Debug("event stream closed", "error", err)
				return nil
			}
			flusher.Flush()
			s.metrics.IncEventsSent()
		}
	}
}
