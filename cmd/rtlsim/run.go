// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/bradleyjkemp/memviz"
	"github.com/db47h/rtlsim"
	"github.com/db47h/rtlsim/internal/sysdesc"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const statsviewURL = "/debug/statsview"

type runOptions struct {
	config    string
	until     uint64
	workers   int
	logLevel  string
	dump      bool
	graph     string
	statsview string
}

func newRunCmd() *cobra.Command {
	var o runOptions
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a simulation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
			defer stop()
			return run(ctx, cmd.OutOrStdout(), &o)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&o.config, "config", "c", "", "System description file (YAML)")
	f.Uint64Var(&o.until, "until", 0, "Simulation time limit in ticks (default: from the system description)")
	f.IntVar(&o.workers, "workers", 1, "Number of worker goroutines; 0 uses GOMAXPROCS")
	f.StringVar(&o.logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	f.BoolVar(&o.dump, "dump", false, "Dump the final simulation state as YAML")
	f.StringVar(&o.graph, "graph", "", "Write a memviz graph of the final simulation state to this file")
	f.StringVar(&o.statsview, "statsview", "", "Serve runtime statistics at this address (e.g. localhost:12600)")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func run(ctx context.Context, w io.Writer, o *runOptions) error {
	level, err := logrus.ParseLevel(o.logLevel)
	if err != nil {
		return errors.Wrap(err, "invalid log level")
	}
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(level)

	if o.statsview != "" {
		go func() {
			viewer.SetConfiguration(viewer.WithAddr(o.statsview))
			statsview.New().Start()
		}()
		fmt.Fprintf(w, "stats server available at http://%s%s\n", o.statsview, statsviewURL)
	}

	d, err := sysdesc.LoadFile(o.config)
	if err != nil {
		return err
	}
	until := rtlsim.Time(o.until)
	if until == 0 {
		until = d.Until
	}
	if until == 0 {
		return errors.New("no simulation time limit: set until in the system description or use --until")
	}

	s := rtlsim.New(rtlsim.WithLogger(log), rtlsim.WithWorkers(o.workers))
	defer s.Dispose()
	if err = sysdesc.Build(s, d, log); err != nil {
		return err
	}
	s.Prepare()
	if err = s.Start(true); err != nil {
		return err
	}
	start := time.Now()
	steps, runErr := s.Run(ctx, until)
	elapsed := time.Since(start)
	if err = s.Stop(); err != nil {
		return err
	}
	if runErr != nil && runErr != context.Canceled {
		return runErr
	}

	snap := s.Snapshot()
	fmt.Fprintf(w, "%d steps, %d ticks (%gs simulated) in %v\n", steps, snap.Time, float64(d.Seconds(snap.Time)), elapsed)
	if o.dump {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(snap); err != nil {
			return errors.Wrap(err, "dump")
		}
		if err = enc.Close(); err != nil {
			return errors.Wrap(err, "dump")
		}
	}
	if o.graph != "" {
		f, err := os.Create(o.graph)
		if err != nil {
			return errors.Wrap(err, "graph")
		}
		memviz.Map(f, snap)
		if err = f.Close(); err != nil {
			return errors.Wrap(err, "graph")
		}
	}
	return nil
}
