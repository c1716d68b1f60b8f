package model

// ApiKeys is the credential pair for the upstream API. Never log it and
// never put it into derived cache keys.
type ApiKeys struct {
	APIKey  string `json:"apiKey"`
	UserKey string `json:"userKey"`
}

func (k ApiKeys) IsZero() bool {
	return k.APIKey == "" || k.UserKey == ""
}
