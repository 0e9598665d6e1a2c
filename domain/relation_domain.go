package domain

import "errors"

// Relation kinds. One table backs all three; the composite unique index
// on (user_id, target_id, kind) is what makes Add race-safe.
const (
	KindFavorite     = "favorite"
	KindShoppingCart = "shopping_cart"
	KindFollow       = "follow"
)

var (
	ErrAlreadyAdded   = errors.New("already added")
	ErrAlreadyRemoved = errors.New("already removed")
	ErrSelfFollow     = errors.New("cannot subscribe to yourself")
)
