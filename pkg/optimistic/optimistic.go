// Package optimistic runs speculate-then-reconcile updates: apply a local
// change, fire the request, then always reconcile with the source of truth.
package optimistic

import (
	"context"
	"errors"
)

// Speculate applies the local change, runs call, and then runs reconcile
// whatever call returned. reconcile receives the call error and a context
// that is not cancelled with ctx, so a caller giving up mid-call still
// leaves local state reconciled. Any step may be nil.
//
// The call error is returned, joined with the reconcile error if both fail.
func Speculate(
	ctx context.Context,
	apply func(),
	call func(ctx context.Context) error,
	reconcile func(ctx context.Context, callErr error) error,
) error {
	if apply != nil {
		apply()
	}

	var callErr error
	if call != nil {
		callErr = call(ctx)
	}

	if reconcile == nil {
		return callErr
	}

	reconcileErr := reconcile(context.WithoutCancel(ctx), callErr)
	switch {
	case reconcileErr == nil:
		return callErr
	case callErr == nil:
		return reconcileErr
	default:
		return errors.Join(callErr, reconcileErr)
	}
}
