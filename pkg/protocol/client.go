package protocol

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/coder/websocket"

	"github.com/tqbf/doctree/pkg/render"
)

const StreamPath = "/stream"

// Dial opens a listing stream for dir on a doctree server at baseURL.
func Dial(
	ctx context.Context,
	baseURL, dir string,
	recursive bool,
	client *http.Client,
) (*render.Listing, error) {
	q := url.Values{}
	if dir != "" {
		q.Set("dir", dir)
	}
	if recursive {
		q.Set("mode", "tree")
	}
	u := strings.TrimSuffix(baseURL, "/") + StreamPath
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	conn, _, err := websocket.Dial(ctx, httpToWS(u), &websocket.DialOptions{
		HTTPClient: client,
	})
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", u, err)
	}
	defer conn.CloseNow()
	conn.SetReadLimit(1 << 20)

	l := &render.Listing{}
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return nil, fmt.Errorf("read stream: %w", err)
		}
		msg, err := ParseMessage(data)
		if err != nil {
			return nil, err
		}
		switch msg.Type {
		case TypeLine:
			l.Lines = append(l.Lines, *msg.Line)
		case TypeError:
			return nil, &RemoteError{
				Status: msg.Status, Message: msg.Message,
			}
		case TypeDone:
			if msg.Count != len(l.Lines) {
				return nil, fmt.Errorf(
					"stream ended after %d of %d lines",
					len(l.Lines), msg.Count,
				)
			}
			l.Path = msg.Path
			l.Recursive = msg.Recursive
			conn.Close(websocket.StatusNormalClosure, "")
			return l, nil
		}
	}
}

func httpToWS(u string) string {
	if rest, ok := strings.CutPrefix(u, "https://"); ok {
		return "wss://" + rest
	}
	if rest, ok := strings.CutPrefix(u, "http://"); ok {
		return "ws://" + rest
	}
	return u
}
