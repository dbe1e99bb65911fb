package entity

import "time"

// GenerateRequest is the body of POST /generate
type GenerateRequest struct {
	Prompt      string `json:"prompt"`
	Target      string `json:"target,omitempty"`
	Model       string `json:"model,omitempty"`
	CallbackURL string `json:"callback_url,omitempty"`
}

// UsageDTO mirrors Usage for API responses
type UsageDTO struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// GenerateResponse is the success body of POST /generate
type GenerateResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Target    string    `json:"target"`
	Model     string    `json:"model"`
	Cached    bool      `json:"cached"`
	Usage     UsageDTO  `json:"usage"`
	CreatedAt time.Time `json:"created_at"`
}

// GenerationDTO is the full history view of a generation
type GenerationDTO struct {
	ID        string    `json:"id"`
	Prompt    string    `json:"prompt"`
	Target    string    `json:"target"`
	Model     string    `json:"model"`
	Status    string    `json:"status"`
	Code      *string   `json:"code,omitempty"`
	Error     *string   `json:"error,omitempty"`
	Cached    bool      `json:"cached"`
	Usage     UsageDTO  `json:"usage"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GenerationPageDTO is a paginated history response
type GenerationPageDTO struct {
	Items    []GenerationDTO `json:"items"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	Pages    int             `json:"pages"`
	Total    int             `json:"total"`
}

// ErrorResponse is the error body returned by every endpoint
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
