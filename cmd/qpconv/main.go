// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command qpconv absorbs special constraints of a quadratic program into its
// objective and maps solutions of the converted problem back.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type globalOptions struct {
	debug bool
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{}
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	cmd := &cobra.Command{
		Use:          "qpconv",
		Short:        "Convert special constraints of quadratic programs into penalty terms",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if g.debug {
				logger.SetLevel(logrus.DebugLevel)
			}
		},
	}
	cmd.PersistentFlags().BoolVar(&g.debug, "debug", false, "use debug log level")

	cmd.AddCommand(newConvertCmd(logger), newInterpretCmd(logger))
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
