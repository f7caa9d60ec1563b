package facilitator

// Config contains facilitator connection settings. When both CDP credentials
// are set the Coinbase Developer Platform facilitator is used instead of URL.
type Config struct {
	URL          string `env:"FACILITATOR_URL"     envDefault:"https://x402.org/facilitator"`
	CDPKeyID     string `env:"CDP_API_KEY_ID"`
	CDPKeySecret string `env:"CDP_API_KEY_SECRET"`
	Timeout      int    `env:"FACILITATOR_TIMEOUT" envDefault:"30"`
}

// UsesCDP reports whether CDP credentials are configured.
func (c Config) UsesCDP() bool {
	return c.CDPKeyID != "" && c.CDPKeySecret != ""
}
