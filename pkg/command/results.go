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
package command

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	prettytable "github.com/jedib0t/go-pretty/v6/table"
	"sigs.k8s.io/yaml"

	"jinr.ru/greenlab/go-bersim/pkg/config"
	"jinr.ru/greenlab/go-bersim/pkg/runner"
	"jinr.ru/greenlab/go-bersim/pkg/srv/ifc"
	"jinr.ru/greenlab/go-bersim/pkg/store"
)

const (
	LatestRun = "latest"

	FormatJSON = "json"
	FormatYAML = "yaml"
)

// OpenResults returns the local result store, or a client of the API
// server if remote is set. The returned function releases it.
func OpenResults(cfg *config.Config, remote bool) (ifc.Results, func(), error) {
	if remote {
		return NewApiClient(cfg.ApiConfig), func() {}, nil
	}
	s, err := store.OpenReadOnly(cfg.StoreConfig.Path)
	if err != nil {
		return nil, nil, err
	}
	return s, func() { s.Close() }, nil
}

func getRun(results ifc.Results, id string) (*runner.Summary, error) {
	if id == LatestRun {
		return results.Latest()
	}
	return results.GetRun(id)
}

func runState(sum *runner.Summary) string {
	switch {
	case sum.Cancelled:
		return "cancelled"
	case sum.Finished.IsZero():
		return "running"
	default:
		return "finished"
	}
}

// ListResults prints one line per stored run
func ListResults(results ifc.Results, out io.Writer) error {
	runs, err := results.ListRuns()
	if err != nil {
		return err
	}
	w := prettytable.NewWriter()
	w.SetOutputMirror(out)
	w.AppendHeader(prettytable.Row{"ID", "Started", "Trials", "Iterations", "Threshold", "State"})
	for _, sum := range runs {
		w.AppendRow(prettytable.Row{
			sum.ID,
			humanize.Time(sum.Started),
			sum.TrialsTotal,
			sum.Params.MaxIterations,
			humanize.Comma(int64(sum.Threshold)),
			runState(sum),
		})
	}
	w.Render()
	return nil
}

// ShowResult prints a run the way the run log shows it
func ShowResult(results ifc.Results, id string, out io.Writer) error {
	sum, err := getRun(results, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Run %s (%s)\n", sum.ID, runState(sum))
	fmt.Fprintf(out, "Table: %s\n", sum.Table)
	fmt.Fprintf(out, "Max iterations: %d interleave: %d precode: %t threshold: %d\n",
		sum.Params.MaxIterations, sum.Params.Interleave, sum.Params.PrecodeEnable, sum.Threshold)
	fmt.Fprintf(out, "Completed %d of %d trials\n", sum.Completed(), sum.TrialsTotal)
	for _, res := range sum.Trials {
		fmt.Fprintf(out, "\nSimulation %d (block %d): %s\n", res.Trial, res.Block, res.Outcome)
		if res.Report != nil {
			for _, line := range res.Report.Lines() {
				fmt.Fprintf(out, "   %s\n", line)
			}
		}
		for _, w := range res.Warnings {
			fmt.Fprintf(out, "   warning: %s\n", w)
		}
		if res.Report != nil {
			for _, w := range res.Report.Warnings {
				fmt.Fprintf(out, "   warning: %s\n", w)
			}
		}
		fmt.Fprintf(out, "CSV: %s\n", res.Snapshot.CSV())
	}
	if len(sum.Warnings) > 0 {
		fmt.Fprintln(out)
		for _, w := range sum.Warnings {
			fmt.Fprintf(out, "warning: %s\n", w)
		}
	}
	return nil
}

// ExportResult writes a run with all its trials as JSON or YAML
func ExportResult(results ifc.Results, id, format string, out io.Writer) error {
	sum, err := getRun(results, id)
	if err != nil {
		return err
	}
	var data []byte
	switch format {
	case FormatJSON:
		data, err = json.MarshalIndent(sum, "", "  ")
		data = append(data, '\n')
	case FormatYAML:
		data, err = yaml.Marshal(sum)
	default:
		return ErrFormat{Format: format}
	}
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}
