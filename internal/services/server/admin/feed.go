package admin

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/net/websocket"
)

// feedPollInterval paces the activity poll behind the live feed socket.
const feedPollInterval = 2 * time.Second

// feedEvent is the wire form of one live activity event.
type feedEvent struct {
	Seq        int64  `json:"seq"`
	Actor      string `json:"actor"`
	Event      string `json:"event"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	Summary    string `json:"summary"`
	Timestamp  string `json:"timestamp"`
}

// handleFeedSocket upgrades to a websocket and streams new activity events
// until the client disconnects.
func (a *Admin) handleFeedSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(ws *websocket.Conn) {
		defer ws.Close()
		a.streamActivity(r.Context(), ws)
	}).ServeHTTP(w, r)
}

// streamActivity polls the activity journal and pushes events the client has
// not seen yet, oldest first.
func (a *Admin) streamActivity(ctx context.Context, ws *websocket.Conn) {
	var lastSeq int64
	if events, err := a.svc.Activity(ctx, 1); err == nil && len(events) > 0 {
		lastSeq = events[0].Seq
	}

	ticker := time.NewTicker(feedPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		events, err := a.svc.Activity(ctx, activityPageSize)
		if err != nil {
			continue
		}
		// Events arrive newest first; replay the unseen tail oldest first.
		for i := len(events) - 1; i >= 0; i-- {
			evt := events[i]
			if evt.Seq <= lastSeq {
				continue
			}
			payload := feedEvent{
				Seq:        evt.Seq,
				Actor:      evt.Actor,
				Event:      evt.EventName,
				EntityType: evt.EntityType,
				EntityID:   evt.EntityID,
				Summary:    evt.Summary,
				Timestamp:  evt.Timestamp.UTC().Format(time.RFC3339),
			}
			if err := websocket.JSON.Send(ws, payload); err != nil {
				return
			}
			lastSeq = evt.Seq
		}
	}
}
