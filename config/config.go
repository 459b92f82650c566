package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port      int    `env:"PORT" envDefault:"3000"`
	PgURL     string `env:"PG_URL,required"`
	PgPoolMax int    `env:"PG_POOL_MAX" envDefault:"10"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`

	// Provider REST API (charges, refunds)
	VnpayAPIBaseURL        string        `env:"VNPAY_API_BASE_URL" envDefault:"https://api.vnpay.com/v1"`
	HTTPVnpayClientTimeout time.Duration `env:"HTTP_VNPAY_CLIENT_TIMEOUT" envDefault:"20s"`

	// Checkout client (cmd/checkout)
	BackendBaseURL    string        `env:"BACKEND_BASE_URL" envDefault:"http://localhost:3000"`
	CheckoutScriptURL string        `env:"CHECKOUT_SCRIPT_URL" envDefault:"https://checkout.vnpay.com/checkout.js"`
	HTTPClientTimeout time.Duration `env:"HTTP_CLIENT_TIMEOUT" envDefault:"20s"`
}

func New() (Config, error) {
	c, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, err
	}

	return c, nil
}

// Checkout configures the checkout client harness (cmd/checkout): where the
// merchant backend lives and the transaction it should pay for.
type Checkout struct {
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info"`
	BackendBaseURL    string        `env:"BACKEND_BASE_URL" envDefault:"http://localhost:3000"`
	CheckoutScriptURL string        `env:"CHECKOUT_SCRIPT_URL" envDefault:"https://checkout.vnpay.com/checkout.js"`
	HTTPClientTimeout time.Duration `env:"HTTP_CLIENT_TIMEOUT" envDefault:"20s"`

	AcquirerID  int    `env:"ACQUIRER_ID" envDefault:"1"`
	AccessToken string `env:"ACCESS_TOKEN,required"`
	TokenID     string `env:"CARD_TOKEN_ID,required"`
	TokenEmail  string `env:"CARD_TOKEN_EMAIL"`
}

func NewCheckout() (Checkout, error) {
	c, err := env.ParseAs[Checkout]()
	if err != nil {
		return Checkout{}, err
	}

	return c, nil
}
