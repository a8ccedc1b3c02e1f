package app

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/omniwatch/cinema-client/internal/api"
	"github.com/omniwatch/cinema-client/internal/payment"
	"github.com/omniwatch/cinema-client/internal/session"
	appvalidator "github.com/omniwatch/cinema-client/internal/validator"
)

const version = "1.0.0"

type application struct {
	config   config
	logger   *slog.Logger
	client   *api.Client
	store    *session.Store
	auth     *session.Manager
	cards    payment.Tokenizer
	validate *validator.Validate
	stdout   io.Writer
}

type config struct {
	apiURL    string
	stripeKey string
	tokenFile string
	mockPay   bool
}

func Run() error {
	// a missing .env is fine, flags and the environment still apply
	_ = godotenv.Load()

	var cfg config

	flag.StringVar(&cfg.apiURL, "api-url", envOr("API_BASE_URL", "http://localhost:8000/api"), "Backend API base URL")
	flag.StringVar(&cfg.stripeKey, "stripe-key", os.Getenv("STRIPE_PUBLISHABLE_KEY"), "Stripe publishable key")
	flag.StringVar(&cfg.tokenFile, "token-file", "", "Token store path (defaults to the user config dir)")
	flag.BoolVar(&cfg.mockPay, "mock-payments", false, "Tokenize cards with a mock instead of Stripe")

	displayVersion := flag.Bool("version", false, "Display version and exit")

	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if cfg.tokenFile == "" {
		path, err := session.DefaultStorePath()
		if err != nil {
			return fmt.Errorf("resolving token store path: %w", err)
		}

		cfg.tokenFile = path
	}

	store := session.NewStore(session.NewFileStore(cfg.tokenFile))

	client := api.NewClient(cfg.apiURL, store, logger,
		api.WithSessionExpiredHook(func() {
			fmt.Fprintln(os.Stderr, "Your session has expired. Please log in again.")
		}),
	)

	validate := appvalidator.NewValidator()

	var cards payment.Tokenizer = payment.NewStripeTokenizer(cfg.stripeKey, validate)
	if cfg.mockPay {
		cards = &payment.MockTokenizer{}
	}

	app := &application{
		config:   cfg,
		logger:   logger,
		client:   client,
		store:    store,
		auth:     session.NewManager(store, client, logger),
		cards:    cards,
		validate: validate,
		stdout:   os.Stdout,
	}

	return app.dispatch(flag.Args())
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
