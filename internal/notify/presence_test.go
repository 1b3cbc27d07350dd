package notify

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"livra_back_end/internal/models"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// dialTestConn monte une vraie paire de connexions websocket (côté serveur
// pour le registre, côté client pour drainer)
func dialTestConn(t *testing.T) (server, client *websocket.Conn) {
	t.Helper()

	ch := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		ch <- c
	}))
	t.Cleanup(srv.Close)

	cl, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { cl.Close() })

	sc := <-ch
	t.Cleanup(func() { sc.Close() })
	return sc, cl
}

func TestPresence_ConcurrentSendsSameUser(t *testing.T) {
	p := NewPresence()
	server, client := dialTestConn(t)
	p.Register("user-1", server)

	const n = 32
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for i := 0; i < n; i++ {
			if _, _, err := client.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// Deux requêtes (et plus) peuvent notifier le même utilisateur en même
	// temps : toutes les écritures doivent aboutir, trames intactes
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, p.Send("user-1", models.PushEvent{Type: models.EventStatusUpdated, OrderID: "cmd-1"}))
		}()
	}
	wg.Wait()
	<-drained
}

func TestPresence_RegisterReplacesConnection(t *testing.T) {
	p := NewPresence()
	s1, _ := dialTestConn(t)
	s2, _ := dialTestConn(t)

	p.Register("user-1", s1)
	p.Register("user-1", s2)

	// Unregister de l'ancienne connexion ne débranche pas la nouvelle
	p.Unregister("user-1", s1)
	assert.True(t, p.IsOnline("user-1"))

	p.Unregister("user-1", s2)
	assert.False(t, p.IsOnline("user-1"))
}

func TestPresence_SendOfflineIsNoOp(t *testing.T) {
	p := NewPresence()
	assert.NoError(t, p.Send("fantome", models.PushEvent{Type: models.EventOrderCreated}))
}
