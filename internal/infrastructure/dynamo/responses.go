package dynamo

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-questionnaire-nosql/internal/domain"
)

// responseItem is the stored shape of a domain.Response. DynamoDB map keys must
// be strings, so answers are keyed by the decimal question index.
type responseItem struct {
	OwnerID              string            `dynamodbav:"owner_id"`
	ResponseID           string            `dynamodbav:"response_id"`
	Answers              map[string]string `dynamodbav:"answers"`
	CurrentQuestionIndex int               `dynamodbav:"current_question_index"`
	IsCompleted          bool              `dynamodbav:"is_completed"`
	CompletedAt          *time.Time        `dynamodbav:"completed_at,omitempty"`
	LastUpdated          time.Time         `dynamodbav:"last_updated"`
	CreatedAt            time.Time         `dynamodbav:"created_at"`
	Version              int64             `dynamodbav:"version"`
}

func toItem(r *domain.Response) responseItem {
	answers := make(map[string]string, len(r.Answers))
	for idx, a := range r.Answers {
		answers[strconv.Itoa(idx)] = string(a)
	}
	return responseItem{
		OwnerID:              r.OwnerID,
		ResponseID:           r.ResponseID,
		Answers:              answers,
		CurrentQuestionIndex: r.CurrentQuestionIndex,
		IsCompleted:          r.IsCompleted,
		CompletedAt:          r.CompletedAt,
		LastUpdated:          r.LastUpdated,
		CreatedAt:            r.CreatedAt,
		Version:              r.Version,
	}
}

func fromItem(it responseItem) (*domain.Response, error) {
	answers := make(map[int]domain.Answer, len(it.Answers))
	for k, v := range it.Answers {
		idx, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("corrupt answer key %q for owner %s", k, it.OwnerID)
		}
		answers[idx] = domain.Answer(v)
	}
	return &domain.Response{
		ResponseID:           it.ResponseID,
		OwnerID:              it.OwnerID,
		Answers:              answers,
		CurrentQuestionIndex: it.CurrentQuestionIndex,
		IsCompleted:          it.IsCompleted,
		CompletedAt:          it.CompletedAt,
		LastUpdated:          it.LastUpdated,
		CreatedAt:            it.CreatedAt,
		Version:              it.Version,
	}, nil
}

// ResponseRepo stores one questionnaire aggregate per owner. Every write is
// conditional: Create on absence, Replace on the expected version.
type ResponseRepo struct {
	client    API
	tableName string
}

func NewResponseRepo(client API, tableName string) *ResponseRepo {
	return &ResponseRepo{client: client, tableName: tableName}
}

// Get returns domain.ErrNotFound when the owner has no aggregate yet.
func (r *ResponseRepo) Get(ctx context.Context, ownerID string) (*domain.Response, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey(fieldOwnerID, ownerID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, unavailable("get response", err)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("response not found: %w", domain.ErrNotFound)
	}
	var it responseItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return fromItem(it)
}

// Create inserts a new aggregate. If one already exists for the owner it
// returns domain.ErrConflict and leaves the stored aggregate untouched.
func (r *ResponseRepo) Create(ctx context.Context, resp *domain.Response) error {
	item, err := attributevalue.MarshalMap(toItem(resp))
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(" + fieldOwnerID + ")"),
	})
	if isConditionFailed(err) {
		return fmt.Errorf("response for %s already exists: %w", resp.OwnerID, domain.ErrConflict)
	}
	if err != nil {
		return unavailable("create response", err)
	}
	return nil
}

// Replace writes resp only if the stored version still equals expected. On
// success resp.Version is expected+1. A concurrent writer yields domain.ErrConflict.
func (r *ResponseRepo) Replace(ctx context.Context, resp *domain.Response, expected int64) error {
	next := toItem(resp)
	next.Version = expected + 1
	item, err := attributevalue.MarshalMap(next)
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.tableName),
		Item:                     item,
		ConditionExpression:      aws.String("#v = :expected"),
		ExpressionAttributeNames: map[string]string{"#v": fieldVersion},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":expected": &types.AttributeValueMemberN{Value: strconv.FormatInt(expected, 10)},
		},
	})
	if isConditionFailed(err) {
		return fmt.Errorf("response for %s changed concurrently: %w", resp.OwnerID, domain.ErrConflict)
	}
	if err != nil {
		return unavailable("replace response", err)
	}
	resp.Version = next.Version
	return nil
}
