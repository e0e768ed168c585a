/*
 * Copyright © 2025 ABC Retailors, All rights reserved.
 */

package retailstore_test

import (
	"bytes"
	"context"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abcretailors/retailstore"
	"github.com/abcretailors/retailstore/blobstore"
	blobmock "github.com/abcretailors/retailstore/blobstore/mock"
	"github.com/abcretailors/retailstore/bootstrap"
	dsmock "github.com/abcretailors/retailstore/datastore/mock"
	"github.com/abcretailors/retailstore/errors"
	filemock "github.com/abcretailors/retailstore/fileshare/mock"
	"github.com/abcretailors/retailstore/models"
	"github.com/abcretailors/retailstore/queue"
	queuemock "github.com/abcretailors/retailstore/queue/mock"
	"github.com/abcretailors/retailstore/registry"
	"github.com/abcretailors/retailstore/storagemodels"
	"github.com/abcretailors/retailstore/telemetry"
)

type fixture struct {
	facade  *retailstore.Facade
	tables  *dsmock.DataStore
	blobs   *blobmock.Backend
	queues  *queuemock.Transport
	files   *filemock.Backend
	metrics *telemetry.Metrics
}

func newFixture(t *testing.T, opts ...retailstore.Option) *fixture {
	t.Helper()
	fx := &fixture{
		tables:  dsmock.New(),
		blobs:   blobmock.New(),
		queues:  queuemock.New(),
		files:   filemock.New(),
		metrics: telemetry.NewMetrics(""),
	}
	log, _ := logtest.NewNullLogger()
	opts = append([]retailstore.Option{retailstore.WithLogger(log), retailstore.WithMetrics(fx.metrics)}, opts...)

	f, err := retailstore.New(retailstore.Backends{
		Entities: fx.tables,
		Blobs:    fx.blobs,
		Queues:   fx.queues,
		Files:    fx.files,
	}, opts...)
	require.NoError(t, err)
	fx.facade = f
	return fx
}

func newReadyFixture(t *testing.T, opts ...retailstore.Option) *fixture {
	t.Helper()
	fx := newFixture(t, opts...)
	require.NoError(t, fx.facade.Bootstrap(context.Background()))
	return fx
}

func TestNewRequiresEveryBackend(t *testing.T) {
	full := retailstore.Backends{Entities: dsmock.New(), Blobs: blobmock.New(), Queues: queuemock.New(), Files: filemock.New()}

	tests := []struct {
		name   string
		mutate func(*retailstore.Backends)
	}{
		{"entities", func(b *retailstore.Backends) { b.Entities = nil }},
		{"blobs", func(b *retailstore.Backends) { b.Blobs = nil }},
		{"queues", func(b *retailstore.Backends) { b.Queues = nil }},
		{"files", func(b *retailstore.Backends) { b.Files = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := full
			tt.mutate(&b)
			_, err := retailstore.New(b)
			assert.True(t, errors.IsValidationError(err), "got %v", err)
		})
	}
}

func TestOperationsBeforeBootstrapAreNotReady(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	products := retailstore.Entities[*models.Product](fx.facade)

	assert.False(t, fx.facade.Ready())

	_, err := products.ListAll(ctx)
	assert.ErrorIs(t, err, errors.ErrNotReady)
	_, _, err = products.Get(ctx, "Product", "p1")
	assert.ErrorIs(t, err, errors.ErrNotReady)
	_, err = products.Add(ctx, &models.Product{ProductName: "Kettle"})
	assert.ErrorIs(t, err, errors.ErrNotReady)
	_, err = products.Update(ctx, &models.Product{Metadata: storagemodels.Metadata{PartitionKey: "Product", RowKey: "p1", ETag: "x"}})
	assert.ErrorIs(t, err, errors.ErrNotReady)
	assert.ErrorIs(t, products.Delete(ctx, "Product", "p1"), errors.ErrNotReady)

	_, err = fx.facade.UploadBlob(ctx, strings.NewReader("x"), "a.png", "productimages", blobstore.Unique)
	assert.ErrorIs(t, err, errors.ErrNotReady)
	assert.ErrorIs(t, fx.facade.DeleteBlob(ctx, "a.png", "productimages"), errors.ErrNotReady)
	assert.ErrorIs(t, fx.facade.SendMessage(ctx, models.QueueStockUpdates, "x"), errors.ErrNotReady)
	_, _, err = fx.facade.ReceiveMessage(ctx, models.QueueStockUpdates)
	assert.ErrorIs(t, err, errors.ErrNotReady)
	_, err = fx.facade.RecoverMessages(ctx, models.QueueStockUpdates)
	assert.ErrorIs(t, err, errors.ErrNotReady)
	_, err = fx.facade.UploadFile(ctx, strings.NewReader("x"), 1, "a.txt", "contracts", "payments")
	assert.ErrorIs(t, err, errors.ErrNotReady)
	_, err = fx.facade.DownloadFile(ctx, "a.txt", "contracts", "payments")
	assert.ErrorIs(t, err, errors.ErrNotReady)

	assert.Empty(t, fx.tables.Tables(), "no backend call may happen before bootstrap")
}

func TestBootstrapFailureLeavesFacadeNotReady(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	fx.queues.WithCreateError(errors.NewBackendError("CreateQueue", models.QueueStockUpdates, stderrors.New("denied")))

	err := fx.facade.Bootstrap(ctx)
	require.True(t, errors.IsBootstrapFailed(err), "got %v", err)
	assert.False(t, fx.facade.Ready())

	fx.queues.WithCreateError(nil)
	require.NoError(t, fx.facade.Bootstrap(ctx))
	assert.True(t, fx.facade.Ready())
	assert.Equal(t, []string{"Customers", "Orders", "Products"}, fx.tables.Tables())
}

func TestFailedRerunRevokesReadiness(t *testing.T) {
	fx := newReadyFixture(t)
	ctx := context.Background()
	require.True(t, fx.facade.Ready())

	fx.tables.WithCreateError(errors.NewBackendError("CreateTable", "Products", stderrors.New("boom")))
	err := fx.facade.Bootstrap(ctx)
	require.True(t, errors.IsBootstrapFailed(err), "got %v", err)
	assert.False(t, fx.facade.Ready())

	_, _, err = retailstore.Entities[*models.Product](fx.facade).Get(ctx, "Product", "p1")
	assert.ErrorIs(t, err, errors.ErrNotReady)

	fx.tables.WithCreateError(nil)
	require.NoError(t, fx.facade.Bootstrap(ctx))
	assert.True(t, fx.facade.Ready())
}

func TestAddGetRoundTrip(t *testing.T) {
	fx := newReadyFixture(t)
	ctx := context.Background()
	products := retailstore.Entities[*models.Product](fx.facade)

	in := &models.Product{ProductName: "Kettle", Description: "1.7l", Price: 24.5, StockAvailable: 10}
	added, err := products.Add(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, "Product", added.PartitionKey)
	assert.NotEmpty(t, added.RowKey)
	assert.NotEmpty(t, added.ETag)
	assert.False(t, added.Timestamp.IsZero())

	got, found, err := products.Get(ctx, added.PartitionKey, added.RowKey)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, added.ProductName, got.ProductName)
	assert.Equal(t, added.Description, got.Description)
	assert.Equal(t, added.Price, got.Price)
	assert.Equal(t, added.StockAvailable, got.StockAvailable)
	assert.Equal(t, added.ETag, got.ETag)
	assert.Equal(t, 1, fx.tables.Count("Products"))
}

func TestAddExistingKeyConflicts(t *testing.T) {
	fx := newReadyFixture(t)
	ctx := context.Background()
	customers := retailstore.Entities[*models.Customer](fx.facade)

	_, err := customers.Add(ctx, &models.Customer{Metadata: storagemodels.Metadata{RowKey: "c1"}, Name: "Ana"})
	require.NoError(t, err)

	_, err = customers.Add(ctx, &models.Customer{Metadata: storagemodels.Metadata{RowKey: "c1"}, Name: "Bea"})
	assert.True(t, errors.IsAlreadyExists(err), "got %v", err)

	got, _, err := customers.Get(ctx, "Customer", "c1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)
}

// Product p1 holds 10 units. Updating to 7 with the token from the insert
// succeeds; repeating the update with that original token fails.
func TestUpdateStockScenario(t *testing.T) {
	fx := newReadyFixture(t)
	ctx := context.Background()
	products := retailstore.Entities[*models.Product](fx.facade)

	p, err := products.Add(ctx, &models.Product{Metadata: storagemodels.Metadata{RowKey: "p1"}, ProductName: "Kettle", StockAvailable: 10})
	require.NoError(t, err)
	insertToken := p.ETag

	p.StockAvailable = 7
	updated, err := products.Update(ctx, p)
	require.NoError(t, err)
	assert.NotEqual(t, insertToken, updated.ETag, "a successful update issues a new token")

	stale := &models.Product{
		Metadata:       storagemodels.Metadata{PartitionKey: "Product", RowKey: "p1", ETag: insertToken},
		ProductName:    "Kettle",
		StockAvailable: 7,
	}
	_, err = products.Update(ctx, stale)
	assert.True(t, errors.IsConcurrencyConflict(err), "got %v", err)
	assert.Equal(t, insertToken, stale.ETag, "a failed update leaves the caller's token alone")

	got, _, err := products.Get(ctx, "Product", "p1")
	require.NoError(t, err)
	assert.Equal(t, 7, got.StockAvailable)
	assert.Equal(t, updated.ETag, got.ETag)
}

func TestUpdateValidation(t *testing.T) {
	fx := newReadyFixture(t)
	ctx := context.Background()
	products := retailstore.Entities[*models.Product](fx.facade)

	_, err := products.Update(ctx, &models.Product{Metadata: storagemodels.Metadata{PartitionKey: "Product", RowKey: "p1"}})
	var ve *errors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "ETag", ve.Field)
}

func TestUpdateDeletedRecordConflicts(t *testing.T) {
	fx := newReadyFixture(t)
	ctx := context.Background()
	orders := retailstore.Entities[*models.Order](fx.facade)

	o, err := orders.Add(ctx, &models.Order{Quantity: 1, Status: models.OrderSubmitted})
	require.NoError(t, err)
	require.NoError(t, orders.Delete(ctx, o.PartitionKey, o.RowKey))

	o.Status = models.OrderShipped
	_, err = orders.Update(ctx, o)
	assert.True(t, errors.IsConcurrencyConflict(err), "got %v", err)
}

func TestDeleteThenGetIsAbsent(t *testing.T) {
	fx := newReadyFixture(t)
	ctx := context.Background()
	products := retailstore.Entities[*models.Product](fx.facade)

	p, err := products.Add(ctx, &models.Product{ProductName: "Kettle"})
	require.NoError(t, err)
	require.NoError(t, products.Delete(ctx, p.PartitionKey, p.RowKey))

	got, found, err := products.Get(ctx, p.PartitionKey, p.RowKey)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, got)

	err = products.Delete(ctx, p.PartitionKey, p.RowKey)
	assert.True(t, errors.IsNotFound(err), "got %v", err)
}

func TestListAfterInsertsAndDeletes(t *testing.T) {
	fx := newReadyFixture(t, retailstore.WithListOptions(storagemodels.WithPageSize(2)))
	ctx := context.Background()
	products := retailstore.Entities[*models.Product](fx.facade)

	empty, err := products.ListAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	const inserts, deletes = 7, 3
	var added []*models.Product
	for i := 0; i < inserts; i++ {
		p, err := products.Add(ctx, &models.Product{ProductName: "item", StockAvailable: i})
		require.NoError(t, err)
		added = append(added, p)
	}
	for _, p := range added[:deletes] {
		require.NoError(t, products.Delete(ctx, p.PartitionKey, p.RowKey))
	}

	all, err := products.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, inserts-deletes)
	for _, p := range all {
		assert.Equal(t, "Product", p.PartitionKey)
		assert.NotEmpty(t, p.ETag)
	}
}

func TestKeyValidation(t *testing.T) {
	fx := newReadyFixture(t)
	ctx := context.Background()
	products := retailstore.Entities[*models.Product](fx.facade)

	for _, key := range []string{"", "a/b", `a\b`, "a#b", "a?b", "a\tb", strings.Repeat("k", 1025)} {
		_, _, err := products.Get(ctx, "Product", key)
		assert.True(t, errors.IsValidationError(err), "key %q: got %v", key, err)
	}
	_, err := products.Add(ctx, &models.Product{Metadata: storagemodels.Metadata{RowKey: "sku#1"}})
	assert.True(t, errors.IsValidationError(err), "got %v", err)
}

func TestResolverRouting(t *testing.T) {
	fx := newReadyFixture(t)
	products := retailstore.Entities[*models.Product](fx.facade)

	for i := 0; i < 3; i++ {
		assert.Equal(t, "Products", products.Container())
	}
	assert.Equal(t, "Customers", retailstore.Entities[*models.Customer](fx.facade).Container())
	assert.Equal(t, "Orders", retailstore.Entities[*models.Order](fx.facade).Container())
	assert.Equal(t, models.KindProduct, products.Kind())
}

func TestBackendFailuresPropagate(t *testing.T) {
	fx := newReadyFixture(t)
	ctx := context.Background()
	boom := errors.NewBackendError("Scan", "Products", stderrors.New("connection reset"))
	fx.tables.WithScanError(boom)

	_, err := retailstore.Entities[*models.Product](fx.facade).ListAll(ctx)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1.0, testutil.ToFloat64(fx.metrics.Operations().WithLabelValues(telemetry.ComponentEntity, "list", "backend_unavailable")))
}

func TestQueueSendReceiveOnce(t *testing.T) {
	fx := newReadyFixture(t)
	ctx := context.Background()

	_, ok, err := fx.facade.ReceiveMessage(ctx, models.QueueStockUpdates)
	require.NoError(t, err)
	assert.False(t, ok, "empty stock-updates queue yields nothing")

	require.NoError(t, fx.facade.SendMessage(ctx, models.QueueOrderNotifications, "hello"))
	payload, ok, err := fx.facade.ReceiveMessage(ctx, models.QueueOrderNotifications)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "hello", payload)

	_, ok, err = fx.facade.ReceiveMessage(ctx, models.QueueOrderNotifications)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRecoverMessagesAfterFailedDelete(t *testing.T) {
	fx := newReadyFixture(t)
	ctx := context.Background()

	require.NoError(t, fx.facade.SendMessage(ctx, models.QueueStockUpdates, "p1"))
	fx.queues.WithDeleteError(errors.NewBackendError("Delete", models.QueueStockUpdates, stderrors.New("timeout")))
	_, _, err := fx.facade.ReceiveMessage(ctx, models.QueueStockUpdates)
	require.True(t, errors.IsBackendUnavailable(err), "got %v", err)
	fx.queues.WithDeleteError(nil)

	visible, inFlight := fx.queues.Len(models.QueueStockUpdates)
	require.Equal(t, 0, visible)
	require.Equal(t, 1, inFlight)

	moved, err := fx.facade.RecoverMessages(ctx, models.QueueStockUpdates)
	require.NoError(t, err)
	assert.Equal(t, 1, moved)
	assert.Equal(t, 1.0, testutil.ToFloat64(fx.metrics.Operations().WithLabelValues(telemetry.ComponentQueue, "recover", "ok")))

	payload, ok, err := fx.facade.ReceiveMessage(ctx, models.QueueStockUpdates)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "p1", payload)
}

func TestFileUploadCreatesDirectory(t *testing.T) {
	fx := newReadyFixture(t)
	ctx := context.Background()
	content := []byte("signed contract")

	assert.False(t, fx.files.HasDirectory("contracts", "2025"))
	name, err := fx.facade.UploadFile(ctx, bytes.NewReader(content), int64(len(content)), "contract.pdf", "contracts", "2025")
	require.NoError(t, err)
	assert.True(t, fx.files.HasDirectory("contracts", "2025"))

	got, err := fx.facade.DownloadFile(ctx, name, "contracts", "2025")
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestBlobUploads(t *testing.T) {
	fixed := time.Date(2025, 3, 1, 10, 15, 0, 0, time.UTC)
	fx := newReadyFixture(t, retailstore.WithBlobOptions(blobstore.WithClock(func() time.Time { return fixed })))
	ctx := context.Background()

	url, err := fx.facade.UploadBlob(ctx, strings.NewReader("png"), "kettle.png", "productimages", blobstore.Unique)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, blobmock.BaseURL+"productimages/"), url)
	assert.True(t, strings.HasSuffix(url, ".png"), url)

	name, err := fx.facade.UploadBlob(ctx, strings.NewReader("pdf"), "proof.pdf", "paymentproofs", blobstore.Timestamped)
	require.NoError(t, err)
	assert.Equal(t, "20250301_101500_proof.pdf", name)

	require.NoError(t, fx.facade.DeleteBlob(ctx, name, "paymentproofs"))
	require.NoError(t, fx.facade.DeleteBlob(ctx, name, "paymentproofs"))
	assert.Empty(t, fx.blobs.Names("paymentproofs"))
}

func TestCustomResolverAndManifest(t *testing.T) {
	resolver := registry.NewResolver(map[storagemodels.Kind]string{models.KindProduct: "Catalogue"}, nil)
	manifest := bootstrap.DefaultManifest()
	manifest.Tables = []string{"Catalogue"}

	fx := newReadyFixture(t, retailstore.WithResolver(resolver), retailstore.WithManifest(manifest))
	products := retailstore.Entities[*models.Product](fx.facade)

	_, err := products.Add(context.Background(), &models.Product{ProductName: "Kettle"})
	require.NoError(t, err)
	assert.Equal(t, 1, fx.tables.Count("Catalogue"))
}

// An order placed for a product decrements stock under optimistic
// concurrency and publishes both notifications.
func TestPlaceOrderFlow(t *testing.T) {
	fx := newReadyFixture(t)
	ctx := context.Background()
	products := retailstore.Entities[*models.Product](fx.facade)
	customers := retailstore.Entities[*models.Customer](fx.facade)
	orders := retailstore.Entities[*models.Order](fx.facade)

	p, err := products.Add(ctx, &models.Product{ProductName: "Kettle", Price: 20, StockAvailable: 10})
	require.NoError(t, err)
	c, err := customers.Add(ctx, &models.Customer{Name: "Ana", Surname: "Silva", Username: "ana", Email: "ana@example.com"})
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	o, err := orders.Add(ctx, models.NewOrder(c, p, 3, now))
	require.NoError(t, err)
	assert.Equal(t, 60.0, o.TotalPrice)

	previous := p.StockAvailable
	p.StockAvailable -= o.Quantity
	_, err = products.Update(ctx, p)
	require.NoError(t, err)

	placed, err := models.OrderPlaced(o, c).Encode()
	require.NoError(t, err)
	require.NoError(t, fx.facade.SendMessage(ctx, models.QueueOrderNotifications, placed))
	stock, err := models.StockUpdated(p, previous, now).Encode()
	require.NoError(t, err)
	require.NoError(t, fx.facade.SendMessage(ctx, models.QueueStockUpdates, stock))

	msg, ok, err := fx.facade.ReceiveMessage(ctx, models.QueueOrderNotifications)
	require.NoError(t, err)
	require.True(t, ok)
	id, _ := queue.Field(msg, "OrderId")
	assert.Equal(t, o.OrderID(), id)

	msg, ok, err = fx.facade.ReceiveMessage(ctx, models.QueueStockUpdates)
	require.NoError(t, err)
	require.True(t, ok)
	event, err := queue.DecodeEvent(msg)
	require.NoError(t, err)
	assert.Equal(t, "10", event["PreviousStock"])
	assert.Equal(t, "7", event["NewStock"])
}
