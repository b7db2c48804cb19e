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
package serve

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"jinr.ru/greenlab/go-bersim/pkg/command"
	"jinr.ru/greenlab/go-bersim/pkg/config"
	"jinr.ru/greenlab/go-bersim/pkg/session"
)

const (
	AddressOptionName = "address"
	PortOptionName    = "port"
)

// NewCommand creates the command serving stored results over HTTP
func NewCommand(cfg *config.Config) *cobra.Command {
	var (
		address string
		port    int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored results over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed(AddressOptionName) {
				cfg.Address = address
			}
			if cmd.Flags().Changed(PortOptionName) {
				cfg.Port = port
			}
			token := session.NewToken(context.Background(), func() { atexit.Exit(1) })
			stop := token.Watch()
			defer stop()
			return command.StartApiServer(token.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&address, AddressOptionName, config.DefaultApiAddress, "Address to bind")
	cmd.Flags().IntVar(&port, PortOptionName, config.DefaultApiPort, "Port number to bind")
	return cmd
}
