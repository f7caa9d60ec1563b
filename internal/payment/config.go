package payment

// Config contains the payment settings of the gateway.
type Config struct {
	Network            string `env:"PAYMENT_NETWORK"             envDefault:"eip155:8453"`
	PayTo              string `env:"PAYMENT_ADDRESS"`
	ServiceDescription string `env:"PAYMENT_SERVICE_DESCRIPTION" envDefault:"HuggingFace Inference API"`
}
