package lifecycle

import (
	"fmt"

	"github.com/arsipa/arsipa/core"
)

// allowedTargets lists the statuses a review decision may move a document
// to. The policy is currently permissive on the source side: a reviewer may
// accept or reject a document regardless of its current status, which
// covers re-reviewing a previously rejected document.
var allowedTargets = map[core.Status]bool{
	core.StatusAccepted: true,
	core.StatusRejected: true,
}

// ValidateTransition checks whether a document may move from its current
// status to target. Centralized so the policy can be tightened in one place.
func ValidateTransition(current, target core.Status) error {
	if err := core.ValidateStatus(target); err != nil {
		return err
	}
	if !allowedTargets[target] {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, target)
	}
	return nil
}
