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

	"github.com/imroc/req"

	"jinr.ru/greenlab/go-bersim/pkg/command/ifc"
	"jinr.ru/greenlab/go-bersim/pkg/config"
	"jinr.ru/greenlab/go-bersim/pkg/runner"
	"jinr.ru/greenlab/go-bersim/pkg/srv/api"
)

// ApiClient reads results from a running API server. It is the only way
// to look at a run in progress since the run keeps the store locked.
type ApiClient struct {
	*config.ApiConfig
	ApiPrefix string
}

var _ ifc.ApiClient = &ApiClient{}

func NewApiClient(cfg *config.ApiConfig) *ApiClient {
	return &ApiClient{
		ApiConfig: cfg,
		ApiPrefix: fmt.Sprintf("http://%s:%d%s", cfg.Address, cfg.Port, api.ApiPrefix),
	}
}

func (c *ApiClient) runsUrl() string {
	return fmt.Sprintf("%s/runs", c.ApiPrefix)
}

func (c *ApiClient) runUrl(id string) string {
	return fmt.Sprintf("%s/runs/%s", c.ApiPrefix, id)
}

func (c *ApiClient) trialUrl(id string, trial int) string {
	return fmt.Sprintf("%s/runs/%s/trials/%d", c.ApiPrefix, id, trial)
}

func (c *ApiClient) get(url string, v interface{}) error {
	r, err := req.Get(url)
	if err != nil {
		return err
	}
	if r.Response().StatusCode != 200 {
		return ErrResponse{Status: r.Response().Status, Message: r.String()}
	}
	return r.ToJSON(v)
}

// ListRuns requests summaries of all stored runs
func (c *ApiClient) ListRuns() ([]*runner.Summary, error) {
	var runs []*runner.Summary
	if err := c.get(c.runsUrl(), &runs); err != nil {
		return nil, err
	}
	return runs, nil
}

// GetRun requests a run with its trials
func (c *ApiClient) GetRun(id string) (*runner.Summary, error) {
	sum := &runner.Summary{}
	if err := c.get(c.runUrl(id), sum); err != nil {
		return nil, err
	}
	return sum, nil
}

// GetTrial requests a single trial
func (c *ApiClient) GetTrial(id string, trial int) (*runner.TrialResult, error) {
	res := &runner.TrialResult{}
	if err := c.get(c.trialUrl(id, trial), res); err != nil {
		return nil, err
	}
	return res, nil
}

// Latest requests the most recent run, possibly still in progress
func (c *ApiClient) Latest() (*runner.Summary, error) {
	return c.GetRun("latest")
}
