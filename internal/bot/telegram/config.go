package telegram

type Config struct {
	Token       string `envconfig:"TELEGRAM_TOKEN" required:"true"`
	PollTimeout int    `envconfig:"TELEGRAM_POLL_TIMEOUT" default:"60"`
	Debug       bool   `envconfig:"TELEGRAM_DEBUG" default:"false"`
}
