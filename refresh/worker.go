package refresh

import (
	"context"
	"time"

	"github.com/rs/xid"

	"github.com/studyglobal/fxcore/rates/types"
)

// warmPair is a registered pair and its refresh cadence
type warmPair struct {
	pair     types.Pair
	interval time.Duration
}

// scheduledRefresh is a single scheduled pair refresh job
type scheduledRefresh struct {
	at     time.Time
	pair   types.Pair
	pairID xid.ID
}

// Less is utilized to sort scheduled refreshes by their due-time (earliest == first)
func (a scheduledRefresh) Less(b scheduledRefresh) bool {
	return a.at.Before(b.at)
}

// refreshResponse is the refresh routine response
type refreshResponse struct {
	entry  types.Entry // the resolved rate
	pairID xid.ID      // the registered pair ID
}

// handleJob resolves the pair through the shared resolver.
// The resolution itself writes live results into the cache
func handleJob(
	ctx context.Context,
	resolver RateResolver,
	sr *scheduledRefresh,
	resCh chan<- *refreshResponse,
) {
	entry := resolver.ResolveRate(ctx, sr.pair.From, sr.pair.To)

	response := &refreshResponse{
		entry:  entry,
		pairID: sr.pairID,
	}

	select {
	case <-ctx.Done():
	case resCh <- response:
	}
}
