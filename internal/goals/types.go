package goals

// Goal is one user objective. Progress is free text; empty means not provided.
type Goal struct {
	ID       int64  `json:"id"`
	Text     string `json:"text"`
	Progress string `json:"progress"`
}
