package backend

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"godam/infrastructure/metrics"
)

// PickFeed consumes the backend's live pick-event websocket.
type PickFeed struct {
	URL   string
	Token string
	Retry time.Duration

	dialer *websocket.Dialer
}

func NewPickFeed(url, token string, retry time.Duration) *PickFeed {
	if retry <= 0 {
		retry = 5 * time.Second
	}
	return &PickFeed{
		URL:    url,
		Token:  token,
		Retry:  retry,
		dialer: &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
	}
}

// Run delivers every decodable frame to handle, reconnecting after Retry
// whenever the stream drops. It returns when ctx is cancelled.
func (f *PickFeed) Run(ctx context.Context, handle func(PickEvent)) error {
	for {
		err := f.consume(ctx, handle)
		if ctx.Err() != nil {
			return nil
		}
		slog.Warn("pick feed disconnected", slog.String("url", f.URL), slog.Any("err", err))
		metrics.PickFeedReconnects.Inc()

		t := time.NewTimer(f.Retry)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil
		case <-t.C:
		}
	}
}

func (f *PickFeed) consume(ctx context.Context, handle func(PickEvent)) error {
	header := http.Header{}
	if f.Token != "" {
		header.Set("Authorization", "Bearer "+f.Token)
	}
	conn, _, err := f.dialer.DialContext(ctx, f.URL, header)
	if err != nil {
		return err
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		_ = conn.Close()
	})
	defer stop()

	slog.Info("pick feed connected", slog.String("url", f.URL))
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return errors.New("pick feed closed by backend")
			}
			return err
		}
		var ev PickEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			slog.Debug("skip undecodable pick frame", slog.Any("err", err))
			continue
		}
		if ev.PartNumber == "" {
			continue
		}
		handle(ev)
	}
}
