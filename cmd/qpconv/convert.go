// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/curioloop/qubo/penalty"
	"github.com/curioloop/qubo/qpfile"
)

type convertOptions struct {
	input   string
	output  string
	penalty float64
	check   bool
}

func (o *convertOptions) bindFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.input, "file", "f", "", "problem file to convert (YAML or JSON)")
	fs.StringVarP(&o.output, "output", "o", "-", "where to write the converted problem, - for stdout")
	fs.Float64Var(&o.penalty, "penalty", 0, "penalty multiplier, 0 estimates it from the problem")
	fs.BoolVar(&o.check, "check", false, "check that the absorbed constraints can hold together")
}

func (o *convertOptions) mode() penalty.Penalty {
	if o.penalty == 0 {
		return penalty.Auto()
	}
	return penalty.Fixed(o.penalty)
}

func newConvertCmd(logger *logrus.Logger) *cobra.Command {
	o := &convertOptions{}
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Absorb special linear constraints into the objective",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd.OutOrStdout(), logger)
		},
	}
	o.bindFlags(cmd.Flags())
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func (o *convertOptions) run(stdout io.Writer, logger logrus.FieldLogger) error {

	src, err := qpfile.Load(o.input)
	if err != nil {
		return err
	}

	conv, err := penalty.New(penalty.WithPenalty(o.mode()), penalty.WithLogger(logger))
	if err != nil {
		return err
	}
	res, err := conv.Convert(src)
	if err != nil {
		return err
	}

	log := logger.WithFields(logrus.Fields{
		"penalty":  res.Penalty,
		"absorbed": len(res.Absorbed),
		"kept":     len(res.Kept),
	})
	if res.Constrained() {
		log.Info("converted problem still has constraints")
	} else {
		log.Info("converted problem is unconstrained")
	}

	if o.check {
		_, ok, err := penalty.CheckSatisfiable(res)
		switch {
		case err != nil:
			return errors.Wrap(err, "check absorbed constraints")
		case !ok:
			logger.Warn("absorbed constraints cannot hold together, every solution of the converted problem violates one")
		default:
			logger.Info("absorbed constraints are satisfiable")
		}
	}

	if o.output == "-" {
		return qpfile.Write(stdout, res.Problem)
	}
	return qpfile.Save(o.output, res.Problem)
}
