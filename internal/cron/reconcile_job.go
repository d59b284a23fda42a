package cron

import (
	"context"
	"errors"
)

// catalogReconciler is the slice of the listings service the job needs.
type catalogReconciler interface {
	ReconcileCatalog(ctx context.Context) error
}

// CatalogReconcileJob refreshes the catalog snapshot the gateway serves when
// the backend is unreachable.
type CatalogReconcileJob struct {
	listings catalogReconciler
}

// NewCatalogReconcileJob builds the reconcile job.
func NewCatalogReconcileJob(listings catalogReconciler) (*CatalogReconcileJob, error) {
	if listings == nil {
		return nil, errors.New("catalog reconcile job requires the listings service")
	}
	return &CatalogReconcileJob{listings: listings}, nil
}

// Name implements Job.
func (j *CatalogReconcileJob) Name() string {
	return "catalog-reconcile"
}

// Run implements Job.
func (j *CatalogReconcileJob) Run(ctx context.Context) error {
	return j.listings.ReconcileCatalog(ctx)
}
