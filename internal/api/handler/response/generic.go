package response

type APIError struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

type Health struct {
	Status           string `json:"status"`
	OpenAIConfigured bool   `json:"openai_configured"`
	FalConfigured    bool   `json:"fal_configured"`
}

type ProvidersConfigured struct {
	Success          bool   `json:"success"`
	Message          string `json:"message"`
	OpenAIConfigured bool   `json:"openai_configured"`
	FalConfigured    bool   `json:"fal_configured"`
}
