package optimistic

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpeculateOrder(t *testing.T) {
	var steps []string
	err := Speculate(context.Background(),
		func() { steps = append(steps, "apply") },
		func(ctx context.Context) error { steps = append(steps, "call"); return nil },
		func(ctx context.Context, callErr error) error {
			steps = append(steps, "reconcile")
			assert.NoError(t, callErr)
			return nil
		},
	)
	assert.NoError(t, err)
	assert.Equal(t, []string{"apply", "call", "reconcile"}, steps)
}

func TestSpeculateReconcilesAfterFailure(t *testing.T) {
	callErr := errors.New("boom")
	var seen error
	reconciled := 0

	err := Speculate(context.Background(), nil,
		func(ctx context.Context) error { return callErr },
		func(ctx context.Context, err error) error {
			reconciled++
			seen = err
			return nil
		},
	)
	assert.ErrorIs(t, err, callErr)
	assert.Equal(t, 1, reconciled)
	assert.ErrorIs(t, seen, callErr)
}

func TestSpeculateJoinsErrors(t *testing.T) {
	callErr := errors.New("call")
	reloadErr := errors.New("reload")

	err := Speculate(context.Background(), nil,
		func(ctx context.Context) error { return callErr },
		func(ctx context.Context, _ error) error { return reloadErr },
	)
	assert.ErrorIs(t, err, callErr)
	assert.ErrorIs(t, err, reloadErr)

	err = Speculate(context.Background(), nil, nil,
		func(ctx context.Context, _ error) error { return reloadErr },
	)
	assert.Equal(t, reloadErr, err)
}

func TestSpeculateReconcileSurvivesCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	err := Speculate(ctx, nil,
		func(ctx context.Context) error {
			cancel()
			return ctx.Err()
		},
		func(ctx context.Context, _ error) error {
			return ctx.Err()
		},
	)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, context.Canceled, err, "reconcile context must not be cancelled")
}
