package api_keys

type ApiKeyStatus string

// NOT_FOUND is never stored; it marks negative cache entries for
// tokens that do not exist.
const (
	ApiKeyStatusActive   ApiKeyStatus = "ACTIVE"
	ApiKeyStatusDisabled ApiKeyStatus = "DISABLED"
	ApiKeyStatusNotFound ApiKeyStatus = "NOT_FOUND"
)
