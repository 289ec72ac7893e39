package domain

// ChatMessage is one turn of a wellness conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatReply is the assistant's answer plus which provider produced it. When
// every provider fails the reply comes from the canned fallback table and
// ModelUsed is "fallback-response".
type ChatReply struct {
	Message        string       `json:"message"`
	ModelUsed      string       `json:"model_used"`
	EmotionContext EmotionLabel `json:"emotion_context,omitempty"`
}

// BatchDetection is the outcome of classifying several texts in one request.
type BatchDetection struct {
	Results   []ClassificationResult `json:"results"`
	TotalTime float64                `json:"total_time"`
	Count     int                    `json:"count"`
}
