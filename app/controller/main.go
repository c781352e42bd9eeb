package main

import (
	"fmt"
	"os"

	"conveyor/pkg/broker"
	"conveyor/pkg/client"
	"conveyor/pkg/notify"
	"conveyor/pkg/runner"
	"conveyor/pkg/scheduler"
	"conveyor/pkg/store"
	"conveyor/pkg/util/config"
	"conveyor/pkg/util/context"

	"github.com/labstack/echo/v4"
	"github.com/neko-neko/echo-logrus/v2/log"
	"github.com/pkg/errors"
)

const (
	envPort       = "PORT"
	envConfigFile = "CONFIG_FILE"
	eventsQueue   = "conveyor.ex.runs"
)

func main() {
	// Create context, echo object and set logger
	e := echo.New()
	ctx := context.Background()
	l := log.MyLogger{Logger: ctx.Logger().Logger}
	e.Logger = &l

	if path := os.Getenv(envConfigFile); path != "" {
		config.SetConfigFile(path)
	}
	if err := config.ReadInConfig(); err != nil {
		e.Logger.Fatal(errors.Wrap(err, "failed to read config"))
		os.Exit(1)
	}

	s := store.NewInMemoryStore()
	sc, err := newScheduler(ctx, s)
	if err != nil {
		e.Logger.Fatal(errors.Wrap(err, "failed to instantiate scheduler"))
		os.Exit(1)
	}

	var reporter notify.Reporter
	var notifyConf notify.Config
	if err := config.Unmarshal("report", &notifyConf); err == nil && notifyConf.URL != "" {
		reporter = notify.NewHTTPReporter(notifyConf.URL)
	}

	// Setup routes
	h := handlers{
		sc:       sc,
		store:    s,
		reporter: reporter,
	}
	e.Add(client.SubmitMethod, client.SubmitPath, h.SubmitEvent)
	e.Add(client.ListRunsMethod, client.ListRunsPath, h.ListRuns)
	e.Add(client.RunStateMethod, client.RunStatePath, h.RunState)

	e.HideBanner = true
	e.HidePort = true

	port := os.Getenv(envPort)
	if port == "" {
		port = "8080"
	}
	e.Logger.Infof("http server started on 127.0.0.1:%s", port)
	e.Logger.Fatal(e.Start(fmt.Sprintf(":%s", port)))
}

// newScheduler instantiates the execution scheduler, publishing lifecycle
// events when a broker is configured.
func newScheduler(ctx context.Context, s store.Store) (scheduler.Scheduler, error) {
	r := runner.New()

	var opts []scheduler.Option
	b, err := broker.NewFromConfig(ctx, "broker")
	if err != nil {
		// No broker configured; runs execute without event publication.
		ctx.Logger().Infof("no broker configured: %s", err)
	} else {
		opts = append(opts, scheduler.WithBroker(b, eventsQueue))
	}

	return scheduler.New(s, r, opts...), nil
}
