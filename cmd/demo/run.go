package main

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/comalice/bootnav"
	"github.com/comalice/bootnav/internal/config"
	"github.com/comalice/bootnav/internal/demo"
	"github.com/comalice/bootnav/internal/logging"
	"github.com/comalice/bootnav/internal/production"
	"github.com/comalice/bootnav/internal/telemetry"
)

func newRunCmd() *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Boot the demo application once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			file, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(config.Options{File: file, Flags: cmd.Flags()})
			if err != nil {
				return err
			}
			return runDemo(cmd, cfg, watch)
		},
	}

	f := cmd.Flags()
	f.String("policy", "", "initial navigation policy (see 'demo policies')")
	f.String("log-level", "", "log level: DEBUG, INFO, WARN or ERROR")
	f.String("log-format", "", "log format: text or json")
	f.String("trace-dir", "", "directory to save the lifecycle trace in")
	f.String("trace-format", "", "trace file format: yaml or json")
	f.String("dot", "", "write a Graphviz timeline of the run to this file")
	f.String("location", "", "initial location path")
	f.BoolVarP(&watch, "watch", "w", false, "print lifecycle events as they happen")
	return cmd
}

func runDemo(cmd *cobra.Command, cfg *config.Config, watch bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	logger, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	tp, shutdown, err := telemetry.Setup(ctx, telemetry.Options{
		ServiceName: cfg.Telemetry.ServiceName,
		Endpoint:    cfg.Telemetry.Endpoint,
	})
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		if err := shutdown(ctx); err != nil {
			logger.Warn("telemetry shutdown", "error", err)
		}
	}()

	opts := []demo.Option{demo.WithLogger(logger), demo.WithTracerProvider(tp)}
	stopWatch := func() {}
	if watch {
		events := make(chan bootnav.Event, 64)
		pub := production.NewChannelPublisher(events)
		opts = append(opts, demo.WithPublisher(pub))
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			printEvents(out, events)
		}()
		stopWatch = func() {
			_ = pub.Close()
			wg.Wait()
			if n := pub.Dropped(); n > 0 {
				logger.Warn("events dropped while watching", "count", n)
			}
		}
	}

	logger.Info("starting", "policy", cfg.InitialNavigation.String())
	res, err := demo.Run(ctx, cfg, opts...)
	// Run has stopped every publisher by the time it returns.
	stopWatch()
	if err != nil {
		return err
	}
	printSummary(out, res)
	return nil
}

func printEvents(w io.Writer, events <-chan bootnav.Event) {
	var start bootnav.Event
	for e := range events {
		if start.Time.IsZero() {
			start = e
		}
		fmt.Fprintf(w, "%8s  %-11s %s", e.Time.Sub(start.Time).Round(time.Microsecond), e.Source, e.Type)
		if p, ok := e.Data["path"]; ok {
			fmt.Fprintf(w, " %v", p)
		}
		fmt.Fprintln(w)
	}
}

func printSummary(w io.Writer, res *demo.Result) {
	fmt.Fprintf(w, "policy:   %s\n", res.Policy)
	fmt.Fprintf(w, "root:     #%d %v\n", res.Root.Handle(), res.Root.ComponentType())
	if res.Current != nil {
		fmt.Fprintf(w, "location: %s (%s, %s)\n", res.Current.Path, res.Current.Route.Component, res.Current.Trigger)
	} else {
		fmt.Fprintln(w, "location: none activated")
	}
	if res.FeedSteps > 0 {
		fmt.Fprintf(w, "script:   %d steps\n", res.FeedSteps)
	}
	fmt.Fprintf(w, "events:   %d\n", len(res.Trace.Events))
	if res.TracePath != "" {
		fmt.Fprintf(w, "trace:    %s\n", res.TracePath)
	}
}
