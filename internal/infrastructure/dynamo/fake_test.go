package dynamo

import (
	"context"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeAPI is an in-memory stand-in for DynamoDB that understands the handful of
// condition expressions the repos issue.
type fakeAPI struct {
	mu     sync.Mutex
	keys   map[string]string
	tables map[string]map[string]map[string]types.AttributeValue
	err    error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		keys:   map[string]string{"users": fieldUserID, "responses": fieldOwnerID},
		tables: map[string]map[string]map[string]types.AttributeValue{},
	}
}

func (f *fakeAPI) table(name string) map[string]map[string]types.AttributeValue {
	t, ok := f.tables[name]
	if !ok {
		t = map[string]map[string]types.AttributeValue{}
		f.tables[name] = t
	}
	return t
}

func (f *fakeAPI) pkOf(table string, item map[string]types.AttributeValue) string {
	s, _ := item[f.keys[table]].(*types.AttributeValueMemberS)
	if s == nil {
		return ""
	}
	return s.Value
}

func conditionFailed() error {
	return &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
}

func (f *fakeAPI) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	name := aws.ToString(in.TableName)
	item := f.table(name)[f.pkOf(name, in.Key)]
	return &dynamodb.GetItemOutput{Item: item}, nil
}

func (f *fakeAPI) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	name := aws.ToString(in.TableName)
	tbl := f.table(name)
	pk := f.pkOf(name, in.Item)
	existing, exists := tbl[pk]

	cond := aws.ToString(in.ConditionExpression)
	switch {
	case strings.HasPrefix(cond, "attribute_not_exists"):
		if exists {
			return nil, conditionFailed()
		}
	case cond == "#v = :expected":
		if !exists {
			return nil, conditionFailed()
		}
		attr := in.ExpressionAttributeNames["#v"]
		want := in.ExpressionAttributeValues[":expected"].(*types.AttributeValueMemberN).Value
		got, _ := existing[attr].(*types.AttributeValueMemberN)
		if got == nil || got.Value != want {
			return nil, conditionFailed()
		}
	}
	tbl[pk] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeAPI) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	name := aws.ToString(in.TableName)
	tbl := f.table(name)
	pk := f.pkOf(name, in.Key)
	item, ok := tbl[pk]
	if !ok && strings.HasPrefix(aws.ToString(in.ConditionExpression), "attribute_exists") {
		return nil, conditionFailed()
	}
	if !ok {
		item = map[string]types.AttributeValue{}
		for k, v := range in.Key {
			item[k] = v
		}
		tbl[pk] = item
	}
	for nameKey, attr := range in.ExpressionAttributeNames {
		item[attr] = in.ExpressionAttributeValues[":v"+strings.TrimPrefix(nameKey, "#f")]
	}
	return &dynamodb.UpdateItemOutput{}, nil
}

func (f *fakeAPI) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	attr := in.ExpressionAttributeNames["#a"]
	want := in.ExpressionAttributeValues[":v"].(*types.AttributeValueMemberS).Value
	var items []map[string]types.AttributeValue
	for _, item := range f.table(aws.ToString(in.TableName)) {
		if s, ok := item[attr].(*types.AttributeValueMemberS); ok && s.Value == want {
			items = append(items, item)
		}
	}
	return &dynamodb.QueryOutput{Items: items}, nil
}

func (f *fakeAPI) CreateTable(_ context.Context, in *dynamodb.CreateTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	name := aws.ToString(in.TableName)
	if _, ok := f.tables[name]; ok {
		return nil, &types.ResourceInUseException{Message: aws.String("Table already exists")}
	}
	f.table(name)
	return &dynamodb.CreateTableOutput{}, nil
}
