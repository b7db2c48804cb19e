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
package config

import (
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"

	"sigs.k8s.io/yaml"

	"jinr.ru/greenlab/go-bersim/pkg/regs"
)

type HardwareConfig struct {
	DevMem      string `json:"devMem"`
	ControlBase uint64 `json:"controlBase"`
	StatsBase   uint64 `json:"statsBase"`
	Size        uint32 `json:"size"`
	Trace       bool   `json:"trace,omitempty"`
}

type RunConfig struct {
	MaxIterations uint32 `json:"maxIterations"`
	Interleave    uint32 `json:"interleave"`
	Precode       bool   `json:"precode"`
	Threshold     uint64 `json:"threshold"`
	// Trials limits the number of blocks used, 0 means the whole table
	Trials int `json:"trials,omitempty"`
	// Table is a path to a probability table, the built-in one is used if empty
	Table string `json:"table,omitempty"`
}

// Params returns the control parameters described by the run config
func (c *RunConfig) Params() regs.Params {
	return regs.Params{
		PrecodeEnable: c.Precode,
		Interleave:    c.Interleave,
		MaxIterations: c.MaxIterations,
	}
}

type StoreConfig struct {
	Path string `json:"path"`
}

type ApiConfig struct {
	Address string `json:"address"`
	Port    int    `json:"port"`
}

type Config struct {
	LogLevel        string `json:"logLevel"`
	LogDir          string `json:"logDir"`
	*HardwareConfig `json:"hardware,omitempty"`
	*RunConfig      `json:"run,omitempty"`
	*StoreConfig    `json:"store,omitempty"`
	*ApiConfig      `json:"api,omitempty"`
	filepath        string
}

func (c *Config) Path() string {
	return c.filepath
}

func (c *Config) Persist(overwrite bool) error {
	if _, err := os.Stat(c.filepath); err == nil && !overwrite {
		return ErrConfigFileExists{Path: c.filepath}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	dir := filepath.Dir(c.filepath)
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}

	return ioutil.WriteFile(c.filepath, data, 0644)
}

// LoadConfig reads the config file over the current values.
// A missing file leaves the defaults untouched.
func (c *Config) LoadConfig() error {
	data, err := ioutil.ReadFile(c.filepath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return filepath.Join(home, ConfigDir)
}

func DefaultConfigPath() string {
	return filepath.Join(homeDir(), ConfigFile)
}

func NewDefaultConfig() *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		LogDir:   filepath.Join(homeDir(), LogDir),
		HardwareConfig: &HardwareConfig{
			DevMem:      DefaultDevMem,
			ControlBase: DefaultControlBase,
			StatsBase:   DefaultStatsBase,
			Size:        DefaultWindowSize,
		},
		RunConfig: &RunConfig{
			MaxIterations: DefaultMaxIterations,
			Interleave:    DefaultInterleave,
			Threshold:     DefaultThreshold,
		},
		StoreConfig: &StoreConfig{
			Path: filepath.Join(homeDir(), StoreFile),
		},
		ApiConfig: &ApiConfig{
			Address: DefaultApiAddress,
			Port:    DefaultApiPort,
		},
		filepath: DefaultConfigPath(),
	}
}

// Load returns the defaults overlaid with the file at path
func Load(path string) (*Config, error) {
	c := NewDefaultConfig()
	if path != "" {
		c.filepath = path
	}
	if err := c.LoadConfig(); err != nil {
		return nil, err
	}
	return c, nil
}
