package domain

import (
	"fmt"
	"strings"
)

// Store identifies one of the supported grocery providers.
type Store string

const (
	StoreColes      Store = "coles"
	StoreWoolworths Store = "woolworths"
)

// Stores lists the supported providers in a fixed order. Comparison code
// merges results in this order so tie-breaking stays deterministic.
var Stores = []Store{StoreColes, StoreWoolworths}

// ParseStore validates a caller-supplied store name at the boundary.
func ParseStore(s string) (Store, error) {
	switch Store(strings.ToLower(strings.TrimSpace(s))) {
	case StoreColes:
		return StoreColes, nil
	case StoreWoolworths:
		return StoreWoolworths, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStore, s)
	}
}

func (s Store) String() string {
	return string(s)
}
