/*
 * Copyright © 2025 ABC Retailors, All rights reserved.
 */

package ddb

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	storeerrors "github.com/abcretailors/retailstore/errors"
	"github.com/abcretailors/retailstore/storagemodels"
)

// Attribute names of the key schema and the concurrency token.
const (
	attrPartitionKey = "PartitionKey"
	attrRowKey       = "RowKey"
	attrETag         = "ETag"
)

// defaultTableWait bounds how long CreateTable waits for a table to become ACTIVE.
const defaultTableWait = 2 * time.Minute

// API is the part of the DynamoDB client used by the store.
type API interface {
	sdk.DescribeTableAPIClient
	sdk.ScanAPIClient
	CreateTable(ctx context.Context, params *sdk.CreateTableInput, optFns ...func(*sdk.Options)) (*sdk.CreateTableOutput, error)
	GetItem(ctx context.Context, params *sdk.GetItemInput, optFns ...func(*sdk.Options)) (*sdk.GetItemOutput, error)
	PutItem(ctx context.Context, params *sdk.PutItemInput, optFns ...func(*sdk.Options)) (*sdk.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *sdk.DeleteItemInput, optFns ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error)
}

// DynamodbDataStore implements datastore.DataStore with one DynamoDB table per container.
type DynamodbDataStore struct {
	client    API
	tableWait time.Duration
	now       func() time.Time
}

// Option configures a DynamodbDataStore
type Option func(*DynamodbDataStore)

// WithTableWait sets how long CreateTable waits for the table to become ACTIVE.
func WithTableWait(d time.Duration) Option {
	return func(s *DynamodbDataStore) {
		s.tableWait = d
	}
}

// WithClock overrides the clock used for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *DynamodbDataStore) {
		s.now = now
	}
}

// NewDynamoDBClient creates a DynamoDB client from a loaded AWS configuration.
// A non-empty endpoint points the client at a local or emulated service.
func NewDynamoDBClient(cfg aws.Config, endpoint string) *sdk.Client {
	return sdk.NewFromConfig(cfg, func(o *sdk.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
}

// NewDynamodbDataStore constructs a store on top of client.
func NewDynamodbDataStore(client API, opts ...Option) *DynamodbDataStore {
	s := &DynamodbDataStore{
		client:    client,
		tableWait: defaultTableWait,
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateTable creates table with the (PartitionKey, RowKey) key schema and
// waits until it is ACTIVE. An existing table is not an error.
func (d *DynamodbDataStore) CreateTable(ctx context.Context, table string) error {
	_, err := d.client.CreateTable(ctx, &sdk.CreateTableInput{
		TableName: aws.String(table),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(attrPartitionKey), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String(attrRowKey), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(attrPartitionKey), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String(attrRowKey), KeyType: types.KeyTypeRange},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		var inUse *types.ResourceInUseException
		if !errors.As(err, &inUse) {
			return storeerrors.NewBackendError("CreateTable", table, err)
		}
	}

	// The table may still be CREATING, whether we created it or someone else did.
	waiter := sdk.NewTableExistsWaiter(d.client)
	if err := waiter.Wait(ctx, &sdk.DescribeTableInput{TableName: aws.String(table)}, d.tableWait); err != nil {
		return storeerrors.NewBackendError("DescribeTable", table, err)
	}
	return nil
}

// Scan pages through the whole table.
func (d *DynamodbDataStore) Scan(ctx context.Context, table string, opts storagemodels.ListOptions, fn func(decode storagemodels.Decoder) error) error {
	input := &sdk.ScanInput{
		TableName:      aws.String(table),
		ConsistentRead: aws.Bool(opts.ConsistentRead),
	}
	if opts.PageSize > 0 {
		input.Limit = aws.Int32(opts.PageSize)
	}

	paginator := sdk.NewScanPaginator(d.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return translateError("Scan", table, "", err)
		}
		for _, item := range page.Items {
			decode := func(out any) error {
				if err := attributevalue.UnmarshalMap(item, out); err != nil {
					return storeerrors.NewBackendError("UnmarshalMap", table, err)
				}
				return nil
			}
			if err := fn(decode); err != nil {
				return err
			}
		}
	}
	return nil
}

// Get performs a strongly consistent GetItem.
func (d *DynamodbDataStore) Get(ctx context.Context, table, partitionKey, rowKey string, out any) (bool, error) {
	res, err := d.client.GetItem(ctx, &sdk.GetItemInput{
		TableName:      aws.String(table),
		Key:            buildKey(partitionKey, rowKey),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return false, translateError("GetItem", table, compoundKey(partitionKey, rowKey), err)
	}
	if res.Item == nil {
		// Not found: not an error for point lookups
		return false, nil
	}
	if err := attributevalue.UnmarshalMap(res.Item, out); err != nil {
		return false, storeerrors.NewBackendError("UnmarshalMap", table, err)
	}
	return true, nil
}

// Insert puts rec on the condition that its key does not exist yet.
func (d *DynamodbDataStore) Insert(ctx context.Context, table string, rec storagemodels.Record) error {
	return d.conditionalPut(ctx, "PutItem", table, rec, &sdk.PutItemInput{
		ConditionExpression:      aws.String("attribute_not_exists(#pk)"),
		ExpressionAttributeNames: map[string]string{"#pk": attrPartitionKey},
	})
}

// Replace puts rec on the condition that the stored ETag equals rec's ETag.
// A missing record fails the same condition and is reported as a conflict.
func (d *DynamodbDataStore) Replace(ctx context.Context, table string, rec storagemodels.Record) error {
	expected := rec.Meta().ETag
	return d.conditionalPut(ctx, "ReplaceItem", table, rec, &sdk.PutItemInput{
		ConditionExpression:      aws.String("#etag = :etag"),
		ExpressionAttributeNames: map[string]string{"#etag": attrETag},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":etag": &types.AttributeValueMemberS{Value: string(expected)},
		},
	})
}

// conditionalPut stamps rec with a fresh token and timestamp, writes it with the
// condition carried by input and restores the previous metadata on failure.
func (d *DynamodbDataStore) conditionalPut(ctx context.Context, op, table string, rec storagemodels.Record, input *sdk.PutItemInput) error {
	meta := rec.Meta()
	previous := *meta
	meta.ETag = storagemodels.NewETag()
	meta.Timestamp = d.now()

	av, err := attributevalue.MarshalMap(rec)
	if err != nil {
		*meta = previous
		return storeerrors.NewValidationError("record", "failed to marshal: "+err.Error())
	}

	input.TableName = aws.String(table)
	input.Item = av
	if _, err := d.client.PutItem(ctx, input); err != nil {
		*meta = previous
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			if op == "PutItem" {
				return storeerrors.NewAlreadyExistsError(table, meta.Key())
			}
			return storeerrors.NewConcurrencyConflictError(table, meta.Key())
		}
		return translateError(op, table, meta.Key(), err)
	}
	return nil
}

// Delete removes the item and reports ErrNotFound when there was nothing to remove.
func (d *DynamodbDataStore) Delete(ctx context.Context, table, partitionKey, rowKey string) error {
	res, err := d.client.DeleteItem(ctx, &sdk.DeleteItemInput{
		TableName:    aws.String(table),
		Key:          buildKey(partitionKey, rowKey),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return translateError("DeleteItem", table, compoundKey(partitionKey, rowKey), err)
	}
	if len(res.Attributes) == 0 {
		return storeerrors.NewNotFoundError(table, compoundKey(partitionKey, rowKey))
	}
	return nil
}

// buildKey builds the DynamoDB primary key of a record.
func buildKey(partitionKey, rowKey string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrPartitionKey: &types.AttributeValueMemberS{Value: partitionKey},
		attrRowKey:       &types.AttributeValueMemberS{Value: rowKey},
	}
}

func compoundKey(partitionKey, rowKey string) string {
	return partitionKey + "/" + rowKey
}

// translateError wraps a DynamoDB service error as a backend failure on the given resource.
func translateError(op, table, key string, err error) error {
	if key != "" {
		return storeerrors.NewBackendError(op, table+" "+key, err)
	}
	return storeerrors.NewBackendError(op, table, err)
}
