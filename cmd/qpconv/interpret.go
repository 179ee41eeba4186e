// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/curioloop/qubo/penalty"
	"github.com/curioloop/qubo/qpfile"
)

const feasibilityTol = 1e-6

type interpretOptions struct {
	input string
	x     []float64
}

func (o *interpretOptions) bindFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.input, "file", "f", "", "original problem file (YAML or JSON)")
	fs.Float64SliceVarP(&o.x, "solution", "x", nil, "solution of the converted problem, comma separated in variable order")
}

func newInterpretCmd(logger *logrus.Logger) *cobra.Command {
	o := &interpretOptions{}
	cmd := &cobra.Command{
		Use:   "interpret",
		Short: "Map a solution of the converted problem back to the original problem",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd.OutOrStdout(), logger)
		},
	}
	o.bindFlags(cmd.Flags())
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func (o *interpretOptions) run(stdout io.Writer, logger logrus.FieldLogger) error {

	src, err := qpfile.Load(o.input)
	if err != nil {
		return err
	}
	x, err := penalty.Interpret(o.x, src)
	if err != nil {
		return err
	}

	for i, v := range src.Variables() {
		if _, err := fmt.Fprintf(stdout, "%s=%g\n", v.Name, x[i]); err != nil {
			return err
		}
	}

	log := logger.WithField("objective", src.Objective().Evaluate(x))
	if src.Feasible(x, feasibilityTol) {
		log.Info("solution is feasible")
	} else {
		log.Warn("solution violates the original problem")
	}
	return nil
}
