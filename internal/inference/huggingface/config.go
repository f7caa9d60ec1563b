package huggingface

// Config contains Hugging Face Inference settings.
type Config struct {
	Token      string `env:"HF_TOKEN"`
	BaseURL    string `env:"HF_BASE_URL"    envDefault:"https://router.huggingface.co/hf-inference/models"`
	Timeout    int    `env:"HF_TIMEOUT"     envDefault:"120"`
	MaxRetries int    `env:"HF_MAX_RETRIES" envDefault:"2"`
}
