package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"github.com/maxviazov/session-limit-service/internal/app"
	"github.com/maxviazov/session-limit-service/internal/config"
	"github.com/maxviazov/session-limit-service/internal/logger"
	"github.com/maxviazov/session-limit-service/pkg/response"
)

type CLI struct {
	Globals

	Create CreateCmd `cmd:"" help:"Create a session limit"`
	Get    GetCmd    `cmd:"" help:"Show a session limit by id"`
	Update UpdateCmd `cmd:"" help:"Overwrite the limit of an existing record"`
	Delete DeleteCmd `cmd:"" help:"Delete a session limit"`
	List   ListCmd   `cmd:"" help:"List session limits"`
	Ping   PingCmd   `cmd:"" help:"Check that the store is reachable"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run parses args, wires the app from the selected config and executes one command.
// Results go to stdout, error envelopes to stderr; the return value is the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var cli CLI
	// kong exits after --help; record the code instead so run keeps control of the process.
	exited := -1
	parser, err := kong.New(&cli,
		kong.Exit(func(code int) { exited = code }),
		kong.Name("sessionlimit"),
		kong.Description("Manage configured session limits"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Writers(stdout, stderr),
	)
	if err != nil {
		fmt.Fprintf(stderr, "❌ CLI setup failed: %v\n", err)
		return response.ExitInternal
	}
	kctx, err := parser.Parse(args)
	if exited >= 0 {
		return exited
	}
	if err != nil {
		parser.Errorf("%v", err)
		return response.ExitInvalidInput
	}

	cfg, err := config.Load(cli.Config)
	if err != nil {
		fmt.Fprintf(stderr, "❌ Config loading failed: %v\n", err)
		return response.ExitInternal
	}

	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		fmt.Fprintf(stderr, "❌ Logger initialization failed: %v\n", err)
		return response.ExitInternal
	}
	appLogger = appLogger.With().Str("run_id", uuid.NewString()).Str("command", kctx.Command()).Logger()

	a, err := app.Open(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Error().Err(err).Str("driver", cfg.Storage.Driver).Msg("storage initialization failed")
		return response.WriteError(stderr, err)
	}
	defer a.Close()

	cli.Globals.ctx = ctx
	cli.Globals.app = a
	cli.Globals.out = stdout
	if err := kctx.Run(&cli.Globals); err != nil {
		return response.WriteError(stderr, err)
	}
	return response.ExitOK
}
