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
	"context"

	"jinr.ru/greenlab/go-bersim/pkg/config"
	"jinr.ru/greenlab/go-bersim/pkg/srv/api"
	"jinr.ru/greenlab/go-bersim/pkg/store"
)

// StartApiServer serves the result store read-only until ctx is done.
// It fails with store.ErrBusy while a run holds the store.
func StartApiServer(ctx context.Context, cfg *config.Config) error {
	s, err := store.OpenReadOnly(cfg.StoreConfig.Path)
	if err != nil {
		return err
	}
	defer s.Close()
	return api.NewApiServer(ctx, cfg.ApiConfig, s, nil).Run()
}
