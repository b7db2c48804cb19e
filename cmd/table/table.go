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
package table

import (
	"os"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-bersim/pkg/command"
)

const (
	TableOptionName  = "table"
	SNROptionName    = "snr"
	OutputOptionName = "output"
)

// NewCommand creates the probability table command group
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Inspect, validate and generate probability tables",
	}
	cmd.AddCommand(NewSNRCommand())
	cmd.AddCommand(NewCheckCommand())
	cmd.AddCommand(NewGenCommand())
	return cmd
}

func NewSNRCommand() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "snr",
		Short: "Print the SNR of every block",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return command.TableSNR(path, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&path, TableOptionName, "", "Probability table file, the built-in table is used if empty")
	return cmd
}

func NewCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check FILE",
		Short: "Validate a probability table file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return command.TableCheck(args[0], cmd.OutOrStdout())
		},
	}
	return cmd
}

func NewGenCommand() *cobra.Command {
	var (
		snrs   []float64
		output string
	)
	cmd := &cobra.Command{
		Use:     "gen",
		Short:   "Generate a probability table from target SNRs in dB",
		Example: "go-bersim table gen --snr 5,6,7,8 --output table.yaml",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return command.TableGenerate(snrs, cmd.OutOrStdout())
			}
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			defer f.Close()
			return command.TableGenerate(snrs, f)
		},
	}
	cmd.Flags().Float64SliceVar(&snrs, SNROptionName, nil, "Target SNR values in dB")
	cmd.Flags().StringVarP(&output, OutputOptionName, "o", "", "Output file, stdout if empty")
	return cmd
}
