package client

import (
	"context"

	"github.com/studyglobal/fxcore/currency"
)

type (
	nameDelegate      func() string
	fetchRateDelegate func(context.Context, currency.Code, currency.Code) (float64, error)
	probeDelegate     func(context.Context) error
)

type mockProvider struct {
	nameFn      nameDelegate
	fetchRateFn fetchRateDelegate
	probeFn     probeDelegate
}

func (m *mockProvider) Name() string {
	if m.nameFn != nil {
		return m.nameFn()
	}

	return "mock-provider"
}

func (m *mockProvider) FetchRate(
	ctx context.Context,
	from, to currency.Code,
) (float64, error) {
	if m.fetchRateFn != nil {
		return m.fetchRateFn(ctx, from, to)
	}

	return 0, nil
}

func (m *mockProvider) Probe(ctx context.Context) error {
	if m.probeFn != nil {
		return m.probeFn(ctx)
	}

	return nil
}
