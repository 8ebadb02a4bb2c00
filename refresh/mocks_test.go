package refresh

import (
	"context"
	"time"

	"github.com/studyglobal/fxcore/currency"
	"github.com/studyglobal/fxcore/rates/types"
)

type resolveRateDelegate func(context.Context, currency.Code, currency.Code) types.Entry

type mockResolver struct {
	resolveRateFn resolveRateDelegate
}

func (m *mockResolver) ResolveRate(
	ctx context.Context,
	from, to currency.Code,
) types.Entry {
	if m.resolveRateFn != nil {
		return m.resolveRateFn(ctx, from, to)
	}

	return types.Entry{
		From:       from,
		To:         to,
		Rate:       1,
		Source:     types.SourceFallback,
		ObtainedAt: time.Now(),
	}
}
