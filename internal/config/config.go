package config

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL"`
	DatabaseURL string `env:"DATABASE_URL" envDefault:"shop.db"`

	JWT       JWT       `envPrefix:"JWT_"`
	Stripe    Stripe    `envPrefix:"STRIPE_"`
	Reconcile Reconcile `envPrefix:"RECONCILE_"`
}

type Stripe struct {
	BaseApiURL string `env:"BASE_API_URL" envDefault:"https://api.stripe.com"`
	SecretKey  string `env:"SECRET_KEY"`
}

type JWT struct {
	Secret      string `env:"SECRET"`
	ExpiryHours int    `env:"EXPIRY_HOURS" envDefault:"10"`
}

type Reconcile struct {
	// IntervalSeconds between sweeps for succeeded intents with no order.
	IntervalSeconds int `env:"INTERVAL_SECONDS" envDefault:"300"`
	// AgeThresholdSeconds an intent must exceed before it is flagged.
	AgeThresholdSeconds int `env:"AGE_THRESHOLD_SECONDS" envDefault:"900"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
