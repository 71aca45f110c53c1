package orchestrator

import (
	"context"

	"github.com/ipfs/go-cid"
	pinprovider "github.com/ipni/pin-provider"
	"github.com/ipni/pin-provider/audit"
)

// RemovalLog records the transition between the pin state before and after a removal,
// together with the peer and the removal outcome.  It never affects control flow.
func (o *Orchestrator) RemovalLog(ctx context.Context, before, after bool, peer string, res *pinprovider.RemovalOutcome) {
	var c cid.Cid
	if res != nil {
		c = res.Cid
	}
	o.logRemoval(ctx, c, stateOf(before), stateOf(after), peer, res)
}

func (o *Orchestrator) logRemoval(ctx context.Context, c cid.Cid, before, after pinprovider.PinState, peer string, res *pinprovider.RemovalOutcome) {
	transition := Transition(before, after)
	entry := audit.Entry{
		Peer:       peer,
		Before:     before,
		After:      after,
		Transition: transition,
	}
	if c.Defined() {
		entry.Cid = c.String()
	}
	if res != nil {
		entry.Removed = len(res.Removed)
		entry.Failed = len(res.BlockErrors)
		if err := res.Err(); err != nil {
			entry.Err = err.Error()
		}
		log.Infow(transition, "peer", peer, "cid", entry.Cid, "removed", entry.Removed, "failed", entry.Failed, "err", entry.Err)
	} else {
		log.Infow(transition, "peer", peer, "cid", entry.Cid, "result", nil)
	}

	if o.journal == nil {
		return
	}
	if _, err := o.journal.Record(ctx, entry); err != nil {
		log.Errorw("Failed to record removal in audit journal", "peer", peer, "cid", entry.Cid, "err", err)
	}
}

// Transition describes the change of pin state around a removal, e.g.
// "was pinned isn't pinned anymore".
func Transition(before, after pinprovider.PinState) string {
	var bef, aft string
	switch before {
	case pinprovider.Pinned:
		bef = "was pinned"
	case pinprovider.NotPinned:
		bef = "wasn't pinned"
	default:
		bef = "pin state was unknown"
	}
	switch after {
	case pinprovider.Pinned:
		aft = "is pinned still"
	case pinprovider.NotPinned:
		aft = "isn't pinned anymore"
	default:
		aft = "pin state is unknown"
	}
	return bef + " " + aft
}

func stateOf(pinned bool) pinprovider.PinState {
	if pinned {
		return pinprovider.Pinned
	}
	return pinprovider.NotPinned
}
