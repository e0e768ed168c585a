/*
Package bootstrap provisions the storage containers the facade relies on.

A Manifest names the entity tables, object containers with their access
levels, queues, and file shares with their directories. The default manifest
is embedded:

	tables:     Products, Customers, Orders
	containers: productimages (public-blob), paymentproofs (private)
	queues:     orders-notifications, stock-updates
	shares:     contracts, with directory payments

Run applies a manifest step by step. Every step creates its resource only if
it is missing, so running it again against provisioned storage changes
nothing. A failing step stops the run:

	err := bootstrap.Run(ctx, bootstrap.DefaultManifest(), targets, log)
	var be *errors.BootstrapError
	if stderrors.As(err, &be) {
	    log.Errorf("provisioning %s %s failed", be.Step, be.Resource)
	}
*/
package bootstrap
