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
package results

import (
	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-bersim/pkg/command"
	"jinr.ru/greenlab/go-bersim/pkg/config"
)

const (
	RemoteOptionName = "remote"
	FormatOptionName = "format"
)

// NewCommand creates the command group reading stored results
func NewCommand(cfg *config.Config) *cobra.Command {
	var remote bool
	cmd := &cobra.Command{
		Use:   "results",
		Short: "Show results of previous runs",
	}
	cmd.PersistentFlags().BoolVar(&remote, RemoteOptionName, false,
		"Read results from the API server of a running simulation instead of the local store")
	cmd.AddCommand(NewListCommand(cfg, &remote))
	cmd.AddCommand(NewShowCommand(cfg, &remote))
	cmd.AddCommand(NewExportCommand(cfg, &remote))
	return cmd
}

func runArg(args []string) string {
	if len(args) == 0 {
		return command.LatestRun
	}
	return args[0]
}

func NewListCommand(cfg *config.Config, remote *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			results, release, err := command.OpenResults(cfg, *remote)
			if err != nil {
				return err
			}
			defer release()
			return command.ListResults(results, cmd.OutOrStdout())
		},
	}
	return cmd
}

func NewShowCommand(cfg *config.Config, remote *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [RUN_ID]",
		Short: "Show trial results of a run, the latest one by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, release, err := command.OpenResults(cfg, *remote)
			if err != nil {
				return err
			}
			defer release()
			return command.ShowResult(results, runArg(args), cmd.OutOrStdout())
		},
	}
	return cmd
}

func NewExportCommand(cfg *config.Config, remote *bool) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export [RUN_ID]",
		Short: "Export a run with all trials, the latest one by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, release, err := command.OpenResults(cfg, *remote)
			if err != nil {
				return err
			}
			defer release()
			return command.ExportResult(results, runArg(args), format, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&format, FormatOptionName, command.FormatJSON, "Output format: json or yaml")
	return cmd
}
