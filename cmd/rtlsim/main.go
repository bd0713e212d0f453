// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command rtlsim runs simulations described in YAML system description files.
//
//	rtlsim run -c system.yaml --until 100000 --dump
//
package main

import (
	"fmt"
	"os"

	"github.com/db47h/rtlsim/internal/sysdesc"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "rtlsim",
		Short:         "Cycle based simulator for clocked RTL components",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newTypesCmd())
	return root
}

func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the component types available in system descriptions",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, t := range sysdesc.Types() {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "rtlsim:", err)
		os.Exit(1)
	}
}
