/*
Package errors provides semantic error types for the retail storage facade.

Every failure the facade returns belongs to one class that callers can branch
on with the standard errors.Is() function or the provided helper functions.

Common Errors:

	var (
	    ErrNotFound            = errors.New("not found")
	    ErrAlreadyExists       = errors.New("already exists")
	    ErrConcurrencyConflict = errors.New("concurrency conflict")
	    ErrBackendUnavailable  = errors.New("storage backend unavailable")
	    ErrBootstrapFailed     = errors.New("bootstrap failed")
	    ErrInvalidInput        = errors.New("invalid input")
	    ErrNotReady            = errors.New("storage facade not ready")
	)

Usage:

	product, err := products.Update(ctx, product)
	if err != nil {
	    if errors.IsConcurrencyConflict(err) {
	        // reload the product and apply the change again
	    }
	    return err
	}

	// Create typed errors
	err := errors.NewNotFoundError("Product", "p1")
	err := errors.NewConcurrencyConflictError("Order", "o-17")
	err := errors.NewBackendError("PutItem", "Products", sdkErr)

BackendError and BootstrapError unwrap to the error reported by the cloud SDK,
so errors.As still reaches service specific types.
*/
package errors
