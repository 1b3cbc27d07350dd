// Package lock sérialise les read-modify-write « valeur entière sous une
// clé » (panier, notifications) : un mutex par clé, créé à la demande.
// Suffisant pour un déploiement mono-processus ; un déploiement multi-instance
// devrait pousser la garde dans le store (LWT côté Scylla).
package lock

import "sync"

type KeyMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewKeyMutex() *KeyMutex {
	return &KeyMutex{locks: make(map[string]*sync.Mutex)}
}

func (k *KeyMutex) Lock(key string) {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()
	m.Lock()
}

func (k *KeyMutex) Unlock(key string) {
	k.mu.Lock()
	m := k.locks[key]
	k.mu.Unlock()
	if m != nil {
		m.Unlock()
	}
}
