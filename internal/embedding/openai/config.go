package openai

// Config holds configuration for the OpenAI-compatible embedding generator.
// BaseURL may contain a {model} placeholder for servers that route by path.
type Config struct {
	Enabled    bool   `env:"EMBEDDINGS_ENABLED"     envDefault:"false"`
	APIKey     string `env:"HF_TOKEN"`
	BaseURL    string `env:"EMBEDDINGS_BASE_URL"    envDefault:"https://router.huggingface.co/hf-inference/models/{model}/pipeline/feature-extraction/v1"`
	Timeout    int    `env:"EMBEDDINGS_TIMEOUT"     envDefault:"60"`
	MaxRetries int    `env:"EMBEDDINGS_MAX_RETRIES" envDefault:"2"`
}
