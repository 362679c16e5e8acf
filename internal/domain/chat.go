package domain

// Role identifies who authored a message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Fixed assistant texts shown in the chat view
const (
	Greeting   = "Hello! How can I help you today?"
	Apology    = "Sorry, the weather service is unavailable. Please try again later."
	NoResponse = "No response received."
)

// Message is one entry of a conversation. It has no identity beyond its position.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the request to send a chat message
type ChatRequest struct {
	Message string `json:"message" form:"message"`
}

// ChatState is the chat view as seen by a client
type ChatState struct {
	Messages []Message `json:"messages"`
	Loading  bool      `json:"loading"`
}

// ChatResponse is the response from a chat turn
type ChatResponse struct {
	Reply    string    `json:"reply"`
	Messages []Message `json:"messages"`
}

// GreetingMessage returns the message a fresh conversation starts with
func GreetingMessage() Message {
	return Message{Role: RoleAssistant, Content: Greeting}
}
