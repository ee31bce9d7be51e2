package email

// Config holds outbound email configuration. Tokens are optional so
// development environments can run with the dev sender instead.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL" envDefault:"info@smartbuy.app"`
	SenderName           string `env:"SENDER_NAME" envDefault:"SmartBuy"`
}
