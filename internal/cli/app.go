// Package cli is the terminal front-end: thin presentation over the client
// library, one subcommand group per area of the workflow.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/comandaapp/comanda/internal/comanda/domain"
	"github.com/comandaapp/comanda/internal/comanda/gateway"
	"github.com/comandaapp/comanda/internal/comanda/orders"
	oplogsqlite "github.com/comandaapp/comanda/internal/comanda/oplog/sqlite"
	"github.com/comandaapp/comanda/internal/comanda/session"
	"github.com/comandaapp/comanda/internal/comanda/state"
)

// app wires the client components for one CLI invocation.
type app struct {
	cfg        *Config
	gw         *gateway.Client
	session    *session.Store
	categories *state.CategoryCache
	products   *state.ProductCache
	orders     *orders.Synchronizer
	journal    *oplogsqlite.Repository
}

func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	tokens := session.NewFileTokenStore(cfg.TokenFile)
	gw := gateway.New(cfg.APIURL, tokens, gateway.WithTimeout(cfg.Timeout))

	journal, err := oplogsqlite.Open(cfg.JournalFile)
	if err != nil {
		return nil, err
	}

	products := state.NewProductCache(gw)
	return &app{
		cfg:        cfg,
		gw:         gw,
		session:    session.NewStore(gw, tokens),
		categories: state.NewCategoryCache(gw),
		products:   products,
		orders:     orders.NewSynchronizer(gw, products, journal),
		journal:    journal,
	}, nil
}

func (a *app) close() {
	if a.journal != nil {
		_ = a.journal.Close()
	}
}

// reportError prints one user-facing line per error class: validation
// next to the input, server rejections verbatim, transport failures
// marked as such.
func reportError(err error) {
	var validationErr *domain.ValidationError
	var authErr *domain.AuthError
	var reqErr *domain.RequestError
	var transportErr *domain.TransportError
	switch {
	case errors.As(err, &validationErr):
		fmt.Fprintf(os.Stderr, "invalid input: %s\n", validationErr)
	case errors.As(err, &authErr):
		fmt.Fprintf(os.Stderr, "%s\n", authErr.Message)
	case errors.As(err, &reqErr):
		fmt.Fprintf(os.Stderr, "rejected by server: %s\n", reqErr.Message)
	case errors.As(err, &transportErr):
		fmt.Fprintf(os.Stderr, "could not reach the server: %v\n", transportErr.Err)
	default:
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}
}
