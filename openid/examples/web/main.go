package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/fedauth/openid2/openid"
	"github.com/hashicorp/go-hclog"
)

// Configuration environment variables.
const (
	envPort   = "OPENID_PORT"
	envDomain = "OPENID_DOMAIN"
)

func main() {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "openid-web",
		Level: hclog.Info,
	})

	port := os.Getenv(envPort)
	if port == "" {
		port = "8080"
	}

	var cfg *openid.Config
	var err error
	if domain := os.Getenv(envDomain); domain != "" {
		cfg, err = openid.NewGoogleFederatedConfig(domain, openid.WithLogger(logger))
	} else {
		cfg, err = openid.NewGoogleConfig(openid.WithLogger(logger))
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	p, err := openid.NewProvider(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	sc := newSessionCache()

	mux := http.NewServeMux()
	mux.Handle("/login/", LoginHandler(p, logger))
	mux.Handle("/logout/", LogoutHandler(sc))
	mux.Handle("/callback", CallbackHandler(p, sc, logger))
	mux.Handle("/", RequireAuth(sc, SecretHandler(sc)))

	logger.Info("listening", "port", port)
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
