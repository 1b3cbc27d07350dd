// Package domain porte les erreurs métier typées, traduites en codes HTTP
// à la frontière (handlers). Elles ne sont jamais avalées, sauf par les deux
// canaux explicitement best-effort (notifications, auto-assignation).
package domain

import "errors"

var (
	ErrNotFound        = errors.New("ressource introuvable")
	ErrForbidden       = errors.New("accès refusé")
	ErrValidation      = errors.New("données invalides")
	ErrConflict        = errors.New("conflit d'état")
	ErrCrossRestaurant = errors.New("le panier contient déjà des articles d'un autre restaurant")
	ErrEmptyCart       = errors.New("le panier est vide")
	ErrStaleItem       = errors.New("un article du panier n'est plus disponible")
	ErrInvalidState    = errors.New("transition de statut invalide")
	ErrAlreadyAssigned = errors.New("commande déjà assignée à un livreur")
	ErrUnavailable     = errors.New("service de stockage indisponible")
)

// Wrap annote une erreur métier avec un détail lisible
func Wrap(sentinel error, detail string) error {
	if detail == "" {
		return sentinel
	}
	return errors.Join(sentinel, errors.New(detail))
}
