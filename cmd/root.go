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
package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-bersim/cmd/completion"
	"jinr.ru/greenlab/go-bersim/cmd/config"
	"jinr.ru/greenlab/go-bersim/cmd/device"
	"jinr.ru/greenlab/go-bersim/cmd/results"
	"jinr.ru/greenlab/go-bersim/cmd/run"
	"jinr.ru/greenlab/go-bersim/cmd/serve"
	"jinr.ru/greenlab/go-bersim/cmd/table"
	pkgconfig "jinr.ru/greenlab/go-bersim/pkg/config"
	"jinr.ru/greenlab/go-bersim/pkg/log"
)

const (
	LogLevelOptionName = "log-level"
	ConfigOptionName   = "config"
)

// NewRootCommand builds the command tree. Every subcommand shares cfg,
// which is loaded before any of them runs. Without a subcommand the
// simulation runs with the configured defaults and the run flags.
func NewRootCommand(out io.Writer) *cobra.Command {
	var logLevel, configPath string
	cfg := pkgconfig.NewDefaultConfig()
	runOpts := &run.Options{}
	cmd := &cobra.Command{
		Use:          "go-bersim",
		Short:        "Tool to run BER simulations on the FEC accelerator",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := pkgconfig.Load(configPath)
			if err != nil {
				return err
			}
			*cfg = *loaded
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			return log.Init(cmd.ErrOrStderr(), cfg.LogLevel)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOpts.Run(cmd, cfg)
		},
	}
	cmd.SetOut(out)
	runOpts.AddFlags(cmd)
	cmd.AddCommand(run.NewCommand(cfg))
	cmd.AddCommand(device.NewStatusCommand(cfg))
	cmd.AddCommand(device.NewResetCommand(cfg))
	cmd.AddCommand(table.NewCommand())
	cmd.AddCommand(results.NewCommand(cfg))
	cmd.AddCommand(serve.NewCommand(cfg))
	cmd.AddCommand(config.NewCommand(cfg))
	cmd.AddCommand(completion.NewCommand())
	cmd.PersistentFlags().StringVar(&logLevel, LogLevelOptionName, "", fmt.Sprintf("Log level. %s", log.HelpLevels))
	cmd.PersistentFlags().StringVar(&configPath, ConfigOptionName, "", fmt.Sprintf("Config file path (default %s)", pkgconfig.DefaultConfigPath()))
	return cmd
}
