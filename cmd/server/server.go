package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"log/slog"

	"github.com/buildclub/mcp-server/internal/auth"
	"github.com/buildclub/mcp-server/internal/config"
	"github.com/buildclub/mcp-server/internal/handlers"
	"github.com/buildclub/mcp-server/internal/policy"
	"github.com/buildclub/mcp-server/internal/render"
	"github.com/buildclub/mcp-server/internal/util"
	"github.com/buildclub/mcp-server/pkg/buildclub"
	"github.com/buildclub/mcp-server/pkg/mcp"
)

const startupProbeAttempts = 3

func main() {
	logger := util.SetupLogger(config.LogLevel, config.Enviroment)
	logger.Info("starting MCP server",
		slog.String("version", config.VERSION),
		slog.String("environment", config.Enviroment),
		slog.String("log_level", config.LogLevel.String()),
		slog.String("api_url", config.APIURL),
		slog.Bool("assume_logged_in", config.AssumeLoggedIn),
	)

	ctx, cancelCtx := context.WithCancel(context.Background())
	defer cancelCtx()

	// setup the backend API client and check it answers at all; tool calls
	// don't depend on the probe, so an unreachable backend only warns
	api := buildclub.NewClient(config.APIURL, config.APITimeoutSeconds)
	probeBackend(ctx, api)

	// setup the tool gateway
	tools := handlers.Tools{API: api}
	gateway, err := mcp.NewServer("BuildClub", config.VERSION, tools.Definitions())
	if err != nil {
		logger.Error("failed to build tool gateway", slog.String("error", err.Error()))
		panic(err)
	}

	// scope enforcement on tools/call; unknown tools pass through so the
	// gateway can report them as such
	engine := policy.NewEngine()
	guard := func(ctx context.Context, tool string, scopes []string) error {
		required, known := engine.RequiredScope(ctx, tool)
		if !known {
			return nil
		}

		allowed, err := engine.Allow(ctx, tool, scopes)
		if err != nil {
			return err
		}
		if !allowed {
			return fmt.Errorf("insufficient scope: %q requires %q", tool, required)
		}
		return nil
	}

	// setup the consent flow against the in-memory demo provider
	provider := auth.NewDemoProvider()
	flow := auth.NewFlow(
		provider,
		auth.StaticCredentials(config.DemoEmail, config.DemoPassword),
		time.Duration(config.ProviderTimeoutSeconds)*time.Second,
	)
	renderer := render.New(config.RedirectDelayMs)

	// setup fiber + routes
	app := fiber.New(fiber.Config{
		ErrorHandler:          util.CustomErrorHandler,
		DisableStartupMessage: true,
		AppName:               "BuildClub MCP",
		ServerHeader:          fmt.Sprintf("BuildClub MCP - %s", config.VERSION),
	})
	app.Use(recover.New())

	oauthRoutes := handlers.OAuthRoutes{
		Provider:       provider,
		Flow:           flow,
		Renderer:       renderer,
		AssumeLoggedIn: config.AssumeLoggedIn,
		DemoEmail:      config.DemoEmail,
		DemoPassword:   config.DemoPassword,
	}
	providerRoutes := handlers.ProviderRoutes{Provider: provider}

	app.Get("/", oauthRoutes.Home)
	app.Get("/authorize", oauthRoutes.Authorize)
	app.Post("/approve", oauthRoutes.Approve)
	app.Post("/token", providerRoutes.Token)
	app.Post("/register", providerRoutes.Register)

	// mount the streaming tool transport behind bearer auth
	transport := mcp.NewSSETransport(gateway, guard, "/sse/message")
	bearer := handlers.RequireBearer(provider.Authenticate, mcp.LocalUserID, mcp.LocalScopes)
	app.Get("/sse", bearer, transport.HandleSSE)
	app.Post("/sse/message", bearer, transport.HandleMessage)

	// listen for system interrupts like ctrl+c
	quit := make(chan struct{})
	cleanup := func() {
		if ctx.Err() != nil {
			return
		}

		// shutdown down services gracefully
		logger.Info("service shutting down")
		transport.Close()
		if err := app.Shutdown(); err != nil {
			logger.Error("service shutdown with errors", slog.String("error", err.Error()))
		}

		// cancel the context and anything waiting for it
		cancelCtx()
		close(quit)
	}

	go util.MonitorSystemSignals(func(s os.Signal) {
		cleanup()
	})

	// start the app and handle errors
	err = app.Listen(config.ListenAddress)
	if err != nil {
		logger.Error("service exited in a non-standard way", slog.String("error", err.Error()))
		cleanup()
	}

	// wait for shutdown
	<-quit
}

func probeBackend(ctx context.Context, api *buildclub.Client) {
	var err error
	for attempt := 0; attempt < startupProbeAttempts; attempt++ {
		time.Sleep(util.DefaultBackoff(float64(100*time.Millisecond), float64(2*time.Second), attempt))

		if err = api.Ping(ctx); err == nil {
			slog.Info("backend API reachable", slog.String("api_url", config.APIURL))
			return
		}

		if errors.Is(err, context.Canceled) {
			return
		}
	}

	slog.Warn("backend API unreachable at startup", slog.String("error", err.Error()))
}
