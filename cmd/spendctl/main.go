package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"spendlog/internal/app"
	"spendlog/internal/config"
	"spendlog/internal/intent"
	"spendlog/internal/logger"
	"spendlog/internal/middleware"
	"spendlog/internal/services"
	"spendlog/internal/store"
)

const (
	appName = "spendctl"
	appDesc = "Extract expenses, compile spending queries and issue API tokens from the command line."
)

// runContext is passed to every command's Run method.
type runContext struct {
	ctx context.Context
	cfg *config.Config
	out io.Writer
}

type cli struct {
	Extract extractCmd `cmd:"" help:"Extract a draft expense from text without saving it."`
	Compile compileCmd `cmd:"" help:"Normalize raw intent fields and print the compiled plan."`
	Query   queryCmd   `cmd:"" help:"Answer a spending question against the configured store and model."`
	Token   tokenCmd   `cmd:"" help:"Issue an API access token."`
}

type extractCmd struct {
	Text string `arg:"" help:"Expense text, e.g. \"$5.50 coffee at Starbucks\"."`
}

func (c *extractCmd) Run(rc *runContext) error {
	pipeline, err := app.NewPipeline(rc.cfg)
	if err != nil {
		return err
	}
	expenses := services.NewExpenseService(store.NewMemoryStore(), pipeline, nil, rc.cfg.DefaultCurrency, nil)
	draft, err := expenses.Extract(rc.ctx, c.Text)
	if err != nil {
		return err
	}
	return printJSON(rc.out, draft)
}

type compileCmd struct {
	Query       string `arg:"" help:"The original question text."`
	Action      string `help:"Classifier action value."`
	Timeframe   string `help:"Classifier timeframe value."`
	FilterType  string `help:"Classifier filter_type value."`
	FilterValue string `help:"Classifier filter_value value."`
}

func (c *compileCmd) raw() intent.Raw {
	raw := intent.Raw{}
	for k, v := range map[string]string{
		intent.KeyAction:      c.Action,
		intent.KeyTimeframe:   c.Timeframe,
		intent.KeyFilterType:  c.FilterType,
		intent.KeyFilterValue: c.FilterValue,
	} {
		if v != "" {
			raw[k] = v
		}
	}
	return raw
}

func (c *compileCmd) Run(rc *runContext) error {
	reports := services.NewReportService(store.NewMemoryStore(), nil, nil, nil, rc.cfg.Location(), rc.cfg.DefaultCurrency, nil)
	plan := reports.Compile(c.Query, c.raw())
	if err := printJSON(rc.out, plan); err != nil {
		return err
	}
	_, err := fmt.Fprintln(rc.out, plan.String())
	return err
}

type queryCmd struct {
	Query string `arg:"" help:"A spending question, e.g. \"how much on coffee this week\"."`
	JSON  bool   `help:"Print the full report as JSON."`
}

func (c *queryCmd) Run(rc *runContext) error {
	a, err := app.New(rc.ctx, rc.cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.Reports.Report(rc.ctx, c.Query)
	if err != nil {
		return err
	}
	if c.JSON {
		return printJSON(rc.out, report)
	}
	_, err = fmt.Fprintln(rc.out, report.Text)
	return err
}

type tokenCmd struct {
	User int64         `required:"" help:"Chat user ID the token is issued to."`
	TTL  time.Duration `name:"ttl" help:"Token lifetime. Defaults to JWT_EXPIRES_IN."`
}

func (c *tokenCmd) Run(rc *runContext) error {
	ttl := c.TTL
	if ttl <= 0 {
		ttl = rc.cfg.JWTExpirationDur
	}
	token, err := middleware.GenerateAccessToken(rc.cfg.JWTSecret, c.User, ttl)
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}
	_, err = fmt.Fprintln(rc.out, token)
	return err
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	var commands cli
	kctx := kong.Parse(&commands,
		kong.Name(appName),
		kong.Description(appDesc),
		kong.UsageOnError(),
	)

	logger.Init(os.Getenv("ENV"), os.Getenv("LOG_LEVEL"))
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		kctx.FatalIfErrorf(err)
	}

	err = kctx.Run(&runContext{ctx: context.Background(), cfg: cfg, out: os.Stdout})
	kctx.FatalIfErrorf(err)
}
