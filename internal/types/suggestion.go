package types

// EnhancementSuggestion is an AI-generated rewrite of a single bullet.
// Suggestions are ephemeral: they live only in the suggestion engine's
// pending set and are discarded on accept or reject, never persisted.
// Protocol identity is the Original text string; the local ID exists so
// callers can disambiguate duplicates in a batch.
type EnhancementSuggestion struct {
	ID          string `json:"-"`
	Original    string `json:"original"`
	Enhanced    string `json:"enhanced"`
	Explanation string `json:"explanation,omitempty"`
}
