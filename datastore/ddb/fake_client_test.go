/*
 * Copyright © 2025 ABC Retailors, All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"sort"
	"sync"

	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeClient is an in-memory stand-in for the DynamoDB API that understands
// the condition expressions issued by DynamodbDataStore.
type fakeClient struct {
	mu       sync.Mutex
	tables   map[string]map[string]map[string]types.AttributeValue
	creates  int
	failPut  error
	lastScan *sdk.ScanInput
	scans    int
}

func newFakeClient() *fakeClient {
	return &fakeClient{tables: make(map[string]map[string]map[string]types.AttributeValue)}
}

func itemKey(key map[string]types.AttributeValue) string {
	pk := key[attrPartitionKey].(*types.AttributeValueMemberS).Value
	rk := key[attrRowKey].(*types.AttributeValueMemberS).Value
	return pk + "|" + rk
}

func (f *fakeClient) CreateTable(_ context.Context, in *sdk.CreateTableInput, _ ...func(*sdk.Options)) (*sdk.CreateTableOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if _, ok := f.tables[*in.TableName]; ok {
		msg := "table already exists"
		return nil, &types.ResourceInUseException{Message: &msg}
	}
	f.tables[*in.TableName] = make(map[string]map[string]types.AttributeValue)
	return &sdk.CreateTableOutput{}, nil
}

func (f *fakeClient) DescribeTable(_ context.Context, in *sdk.DescribeTableInput, _ ...func(*sdk.Options)) (*sdk.DescribeTableOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tables[*in.TableName]; !ok {
		msg := "no table"
		return nil, &types.ResourceNotFoundException{Message: &msg}
	}
	return &sdk.DescribeTableOutput{Table: &types.TableDescription{
		TableName:   in.TableName,
		TableStatus: types.TableStatusActive,
	}}, nil
}

func (f *fakeClient) table(name string) (map[string]map[string]types.AttributeValue, error) {
	t, ok := f.tables[name]
	if !ok {
		msg := "no table " + name
		return nil, &types.ResourceNotFoundException{Message: &msg}
	}
	return t, nil
}

func (f *fakeClient) Scan(_ context.Context, in *sdk.ScanInput, _ ...func(*sdk.Options)) (*sdk.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastScan = in
	f.scans++
	t, err := f.table(*in.TableName)
	if err != nil {
		return nil, err
	}

	// Pages follow key order so that ExclusiveStartKey is meaningful.
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	start := 0
	if in.ExclusiveStartKey != nil {
		after := itemKey(in.ExclusiveStartKey)
		start = sort.SearchStrings(keys, after)
		if start < len(keys) && keys[start] == after {
			start++
		}
	}
	end := len(keys)
	if in.Limit != nil && start+int(*in.Limit) < end {
		end = start + int(*in.Limit)
	}

	out := &sdk.ScanOutput{}
	for _, k := range keys[start:end] {
		out.Items = append(out.Items, t[k])
	}
	if end < len(keys) {
		last := t[keys[end-1]]
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			attrPartitionKey: last[attrPartitionKey],
			attrRowKey:       last[attrRowKey],
		}
	}
	return out, nil
}

func (f *fakeClient) GetItem(_ context.Context, in *sdk.GetItemInput, _ ...func(*sdk.Options)) (*sdk.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, err := f.table(*in.TableName)
	if err != nil {
		return nil, err
	}
	return &sdk.GetItemOutput{Item: t[itemKey(in.Key)]}, nil
}

func (f *fakeClient) PutItem(_ context.Context, in *sdk.PutItemInput, _ ...func(*sdk.Options)) (*sdk.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPut != nil {
		return nil, f.failPut
	}
	t, err := f.table(*in.TableName)
	if err != nil {
		return nil, err
	}
	key := itemKey(in.Item)
	existing, exists := t[key]

	if in.ConditionExpression != nil {
		passed := false
		switch *in.ConditionExpression {
		case "attribute_not_exists(#pk)":
			passed = !exists
		case "#etag = :etag":
			want := in.ExpressionAttributeValues[":etag"].(*types.AttributeValueMemberS).Value
			if exists {
				got, ok := existing[attrETag].(*types.AttributeValueMemberS)
				passed = ok && got.Value == want
			}
		default:
			return nil, fmt.Errorf("fake: unsupported condition %q", *in.ConditionExpression)
		}
		if !passed {
			msg := "The conditional request failed"
			return nil, &types.ConditionalCheckFailedException{Message: &msg}
		}
	}
	t[key] = in.Item
	return &sdk.PutItemOutput{}, nil
}

func (f *fakeClient) DeleteItem(_ context.Context, in *sdk.DeleteItemInput, _ ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, err := f.table(*in.TableName)
	if err != nil {
		return nil, err
	}
	key := itemKey(in.Key)
	old := t[key]
	delete(t, key)
	return &sdk.DeleteItemOutput{Attributes: old}, nil
}
