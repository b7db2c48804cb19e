/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/
package run

import (
	"fmt"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-bersim/pkg/command"
	"jinr.ru/greenlab/go-bersim/pkg/config"
	"jinr.ru/greenlab/go-bersim/pkg/regs"
)

const (
	IterationsOptionName = "iterations"
	TrialsOptionName     = "trials"
	ThresholdOptionName  = "threshold"
	TableOptionName      = "table"
	PrecodeOptionName    = "precode"
	InterleaveOptionName = "interleave"
	ApiOptionName        = "api"
	TraceOptionName      = "trace"
)

// Options are the run flags. They are bound to the run command and to the
// root command, which runs the simulation when no subcommand is given.
type Options struct {
	iterations, interleave uint32
	threshold              uint64
	trials                 int
	tablePath              string
	precode, api, trace    bool
}

func (o *Options) AddFlags(cmd *cobra.Command) {
	cmd.Flags().Uint32VarP(&o.iterations, IterationsOptionName, "i", regs.DefaultMaxIterations,
		fmt.Sprintf("Max iterations of the decoder (%d-%d)", regs.MaxIterationsMin, regs.MaxIterationsMax))
	cmd.Flags().Uint32Var(&o.interleave, InterleaveOptionName, regs.DefaultInterleave,
		fmt.Sprintf("Interleave depth (0-%d)", regs.InterleaveMax))
	cmd.Flags().BoolVar(&o.precode, PrecodeOptionName, false, "Enable precoding")
	cmd.Flags().Uint64Var(&o.threshold, ThresholdOptionName, config.DefaultThreshold, "Frame errors to collect per trial")
	cmd.Flags().IntVar(&o.trials, TrialsOptionName, 0, "Number of table blocks to run, 0 runs all of them")
	cmd.Flags().StringVar(&o.tablePath, TableOptionName, "", "Probability table file, the built-in table is used if empty")
	cmd.Flags().BoolVar(&o.api, ApiOptionName, false, "Serve results and metrics over HTTP while running")
	cmd.Flags().BoolVar(&o.trace, TraceOptionName, false, "Log every register access at debug level")
}

// Run overrides cfg with the flags given on cmd and runs the simulation
func (o *Options) Run(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed(IterationsOptionName) {
		cfg.MaxIterations = o.iterations
	}
	if flags.Changed(InterleaveOptionName) {
		cfg.Interleave = o.interleave
	}
	if flags.Changed(PrecodeOptionName) {
		cfg.Precode = o.precode
	}
	if flags.Changed(ThresholdOptionName) {
		cfg.Threshold = o.threshold
	}
	if flags.Changed(TrialsOptionName) {
		cfg.Trials = o.trials
	}
	if flags.Changed(TableOptionName) {
		cfg.Table = o.tablePath
	}
	if flags.Changed(TraceOptionName) {
		cfg.Trace = o.trace
	}
	return command.RunSimulation(cfg, o.api)
}

// NewCommand creates the command running simulation trials. Flags
// override values from the config file only when given.
func NewCommand(cfg *config.Config) *cobra.Command {
	opts := &Options{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run simulation trials over the blocks of a probability table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.Run(cmd, cfg)
		},
	}
	opts.AddFlags(cmd)
	return cmd
}
