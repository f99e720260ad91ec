package dynamo

// DynamoDB attribute names used in key, condition and update expressions.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldUserID      = "user_id"
	fieldUsername    = "username"
	fieldOwnerID     = "owner_id"
	fieldVersion     = "version"
	fieldLastLoginAt = "last_login_at"
	fieldUpdatedAt   = "updated_at"

	indexUsername = "username-index"
)
