package http_server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port          int
	WebsocketPort int
	ProxyPort     int
	Timeout       time.Duration

	UseRateLimit   bool
	RateLimitRPS   float64
	RateLimitBurst int
}

func setDefaults() {
	viper.SetDefault("API_PORT", 6060)
	viper.SetDefault("WEBSOCKET_PORT", 6666)
	viper.SetDefault("WEBSOCKET_PROXY_PORT", 6767)
	viper.SetDefault("API_TIMEOUT", "60s")
	viper.SetDefault("RATE_LIMIT_RPS", 100)
	viper.SetDefault("RATE_LIMIT_BURST", 200)
	viper.SetDefault("HTTP_SERVER_READ_TIMEOUT", "10s")
	viper.SetDefault("HTTP_SERVER_WRITE_TIMEOUT", "10s")
	viper.SetDefault("HTTP_SERVER_IDLE_TIMEOUT", "60s")
	viper.SetDefault("HTTP_SERVER_READ_HEADER_TIMEOUT", "5s")
}

// ConfigFromViper. server keys with their defaults.
func ConfigFromViper(useRateLimit bool) Config {
	setDefaults()
	return Config{
		Port:           viper.GetInt("API_PORT"),
		WebsocketPort:  viper.GetInt("WEBSOCKET_PORT"),
		ProxyPort:      viper.GetInt("WEBSOCKET_PROXY_PORT"),
		Timeout:        viper.GetDuration("API_TIMEOUT"),
		UseRateLimit:   useRateLimit,
		RateLimitRPS:   viper.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst: viper.GetInt("RATE_LIMIT_BURST"),
	}
}

// New. http server on config.Port, or on config.WebsocketPort for the websocket listener.
func New(ctx context.Context, handler http.Handler, config Config, websocket bool) *http.Server {
	setDefaults()
	port := config.Port
	if websocket {
		port = config.WebsocketPort
	}

	if config.Timeout > 0 {
		handler = http.TimeoutHandler(handler, config.Timeout, "request timed out")
	}

	return &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},

		ReadTimeout:       viper.GetDuration("HTTP_SERVER_READ_TIMEOUT"),
		WriteTimeout:      config.Timeout + viper.GetDuration("HTTP_SERVER_WRITE_TIMEOUT"),
		IdleTimeout:       viper.GetDuration("HTTP_SERVER_IDLE_TIMEOUT"),
		ReadHeaderTimeout: viper.GetDuration("HTTP_SERVER_READ_HEADER_TIMEOUT"),
	}
}
