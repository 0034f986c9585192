package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/amine/notehub/internal/notify"
	"github.com/amine/notehub/internal/testutil"
	ws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebSocketEndpoint(t *testing.T) {
	ts := testutil.NewTestServer(t)
	user, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	t.Run("rejects missing token", func(t *testing.T) {
		resp, err := http.Get(ts.BaseURL() + "/api/ws")
		require.NoError(t, err)
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusUnauthorized)
	})

	t.Run("rejects garbage token", func(t *testing.T) {
		_, resp, err := ws.DefaultDialer.Dial(ts.WebSocketURL("not.a.jwt"), nil)
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("delivers published reminder events", func(t *testing.T) {
		conn, _, err := ws.DefaultDialer.Dial(ts.WebSocketURL(token), nil)
		require.NoError(t, err)
		defer conn.Close()

		// Registration happens on the hub goroutine; give it a beat.
		time.Sleep(100 * time.Millisecond)

		note := testutil.NewNoteBuilder().WithOwner(user).WithName("standup").Build(t, ts.DB.DB)
		ts.Hub.Publish(user.ID, notify.Event{
			Type:     notify.EventReminderDue,
			NoteID:   note.ID,
			NoteName: note.Name,
			FiredAt:  time.Now(),
		})

		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)

		var event notify.Event
		require.NoError(t, json.Unmarshal(data, &event))
		assert.Equal(t, notify.EventReminderDue, event.Type)
		assert.Equal(t, note.ID, event.NoteID)
		assert.Equal(t, "standup", event.NoteName)
	})
}
