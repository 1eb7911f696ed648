package upgrade

import (
	"errors"
	"fmt"
)

// ErrInvalidUpgradeSelection indicates a selection that is not in the current offer.
var ErrInvalidUpgradeSelection = errors.New("invalid upgrade selection")

// InvalidUpgradeSelectionError carries the rejected type and what was offered.
type InvalidUpgradeSelectionError struct {
	Type    Type
	Offered []Type
}

func (e *InvalidUpgradeSelectionError) Error() string {
	return fmt.Sprintf("upgrade %q is not in the current offer %v", e.Type, e.Offered)
}

// Is lets errors.Is match ErrInvalidUpgradeSelection.
func (e *InvalidUpgradeSelectionError) Is(target error) bool {
	return target == ErrInvalidUpgradeSelection
}
