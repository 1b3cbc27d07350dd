// Package notify porte le double canal de notification : push temps réel
// (sans garantie) et journal durable par utilisateur (liste Redis, TTL 7j).
// Les deux effets sont indépendants et best-effort — jamais transactionnels.
package notify

import (
	"sync"

	"github.com/gorilla/websocket"
)

// client — connexion active et son verrou d'écriture. gorilla/websocket
// interdit les écritures concurrentes sur une même connexion ; deux
// requêtes peuvent pourtant notifier le même utilisateur en même temps
// (changement de statut et assignation, par exemple).
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// Presence — registre des connexions actives, propriété du processus.
// Valable pour un déploiement mono-instance ; en multi-instance il faut le
// remplacer par un registre partagé (fan-out pub/sub externe).
type Presence struct {
	mu    sync.RWMutex
	conns map[string]*client
}

func NewPresence() *Presence {
	return &Presence{conns: make(map[string]*client)}
}

func (p *Presence) Register(userID string, conn *websocket.Conn) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if old, ok := p.conns[userID]; ok && old.conn != conn {
		old.conn.Close()
	}
	p.conns[userID] = &client{conn: conn}
}

// Unregister ne retire la connexion que si c'est encore celle enregistrée,
// pour ne pas écraser une reconnexion plus récente
func (p *Presence) Unregister(userID string, conn *websocket.Conn) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if cl, ok := p.conns[userID]; ok && cl.conn == conn {
		delete(p.conns, userID)
	}
}

// Send écrit sur la connexion active de l'utilisateur ; no-op s'il n'est
// pas connecté (pas de file d'attente, pas de retry). Les écritures vers
// une même connexion sont sérialisées par son verrou.
func (p *Presence) Send(userID string, v interface{}) error {
	p.mu.RLock()
	cl := p.conns[userID]
	p.mu.RUnlock()

	if cl == nil {
		return nil
	}

	cl.mu.Lock()
	defer cl.mu.Unlock()
	return cl.conn.WriteJSON(v)
}

func (p *Presence) IsOnline(userID string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.conns[userID] != nil
}
