package domain

// PromptMessage is one chat-style message sent to the classification provider.
type PromptMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem = "system"
	RoleUser   = "user"
)
