package web

import (
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/tqbf/doctree/pkg/protocol"
)

const streamPath = protocol.StreamPath

// handleStream renders a listing and sends it over a websocket, one
// message per line.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	req := parseRequest(r)
	req.File = ""

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		Logger(r.Context()).Debug("websocket accept", "err", err)
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	listing, err := s.Renderer.Render(ctx, req)
	if err != nil {
		status, msg := classify(err)
		Logger(ctx).Debug("stream render failed",
			"status", status, "err", err,
		)
		wsjson.Write(ctx, conn, protocol.Message{
			Type:    protocol.TypeError,
			Status:  status,
			Message: msg,
		})
		conn.Close(websocket.StatusNormalClosure, "")
		return
	}

	for _, m := range protocol.Frames(listing) {
		if err := wsjson.Write(ctx, conn, m); err != nil {
			Logger(ctx).Debug("stream write", "err", err)
			return
		}
	}
	conn.Close(websocket.StatusNormalClosure, "")
}
