// Command ledgerctl seeds the ledger and issues development tokens.
package main

import (
	"context"
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/alecthomas/kong"
	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-tracker/internal/auth"
	"github.com/carson-networks/finance-tracker/internal/config"
	"github.com/carson-networks/finance-tracker/internal/logging"
	"github.com/carson-networks/finance-tracker/internal/operator"
	"github.com/carson-networks/finance-tracker/internal/service"
	"github.com/carson-networks/finance-tracker/internal/storage"
)

// globals is shared by every command.
type globals struct {
	env    *config.Config
	logger *logrus.Logger
}

var cli struct {
	LogLevel string `name:"log-level" default:"info" help:"Log level."`

	Seed  seedCmd  `cmd:"" help:"Create the default categories and optionally demo data."`
	Token tokenCmd `cmd:"" help:"Issue a development bearer token."`
}

type seedCmd struct {
	Demo bool   `help:"Also create a demo account and transaction for --user."`
	User string `help:"User UUID owning the demo data, random when empty."`
}

func (c *seedCmd) Run(g *globals) error {
	ctx := context.Background()
	store, err := storage.NewStorage(ctx, g.env, g.logger)
	if err != nil {
		return err
	}
	defer store.Close()

	delegator := operator.NewOperatorDelegator(store, 1, g.logger)
	delegator.Start()
	defer delegator.Stop()

	location, err := time.LoadLocation(g.env.LedgerTimezone)
	if err != nil {
		return err
	}
	svc := service.NewService(store, delegator, service.Options{
		Location: location,
		Currency: g.env.LedgerCurrency,
		Logger:   g.logger,
	})

	inserted, err := svc.Category.SeedDefaults(ctx)
	if err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	g.logger.WithField("inserted", inserted).Info("ledgerctl.seed.categories")

	if !c.Demo {
		return nil
	}
	userID, err := parseUser(c.User)
	if err != nil {
		return err
	}
	created, err := svc.SeedDemo(ctx, userID)
	if err != nil {
		return fmt.Errorf("seed demo data: %w", err)
	}
	g.logger.WithFields(logrus.Fields{"userID": userID.String(), "created": created}).Info("ledgerctl.seed.demo")
	return nil
}

type tokenCmd struct {
	User string        `help:"User UUID to sign for, random when empty."`
	TTL  time.Duration `name:"ttl" help:"Token lifetime, defaults to JWT_TTL."`
}

func (c *tokenCmd) Run(g *globals) error {
	userID, err := parseUser(c.User)
	if err != nil {
		return err
	}
	ttl := g.env.JWTTTL
	if c.TTL > 0 {
		ttl = c.TTL
	}

	token, err := auth.NewAuthenticator(g.env.JWTSecret, ttl).Issue(userID)
	if err != nil {
		return err
	}
	g.logger.WithField("userID", userID.String()).Info("ledgerctl.token.issued")
	fmt.Println(token)
	return nil
}

func parseUser(value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.NewV4()
	}
	id, err := uuid.FromString(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("--user: %w", err)
	}
	return id, nil
}

func main() {
	ctx := kong.Parse(&cli, kong.Name("ledgerctl"), kong.UsageOnError())

	env, err := config.ProcessEnvironmentVariables()
	ctx.FatalIfErrorf(err)
	ctx.FatalIfErrorf(env.Validate())

	err = ctx.Run(&globals{env: env, logger: logging.SetupLogging(cli.LogLevel)})
	ctx.FatalIfErrorf(err)
}
