package models

// Term is one academic term the catalog can be queried for.
type Term struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}
