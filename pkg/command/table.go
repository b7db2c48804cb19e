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
	"fmt"
	"io"

	prettytable "github.com/jedib0t/go-pretty/v6/table"

	"jinr.ru/greenlab/go-bersim/pkg/stats"
	"jinr.ru/greenlab/go-bersim/pkg/table"
)

// TableSNR prints the SNR of every block of the table at path, or of the
// built-in table if path is empty
func TableSNR(path string, out io.Writer) error {
	t, err := table.LoadOrDefault(path)
	if err != nil {
		return err
	}
	w := prettytable.NewWriter()
	w.SetOutputMirror(out)
	w.SetTitle(t.Description)
	w.AppendHeader(prettytable.Row{"Block", "Noise variance", "SNR"})
	for i := range t.Blocks {
		b := &t.Blocks[i]
		w.AppendRow(prettytable.Row{i, fmt.Sprintf("%.4f", stats.NoiseVariance(b)), stats.SNR(b).Format("%.2f dB")})
	}
	w.Render()
	return nil
}

// TableCheck validates the table at path
func TableCheck(path string, out io.Writer) error {
	t, err := table.Load(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s: %d blocks OK\n", path, t.Len())
	return nil
}

// TableGenerate writes a table with one block per target SNR
func TableGenerate(snrs []float64, out io.Writer) error {
	if len(snrs) == 0 {
		return ErrNoSNR{}
	}
	data, err := table.Generate(snrs).Marshal()
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}
