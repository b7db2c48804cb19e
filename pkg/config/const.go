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
	"jinr.ru/greenlab/go-bersim/pkg/hw"
	"jinr.ru/greenlab/go-bersim/pkg/regs"
)

const (
	ConfigDir  = ".go-bersim"
	ConfigFile = "config"
	LogDir     = "logs"
	StoreFile  = "results.db"

	DefaultLogLevel      = "info"
	DefaultDevMem        = hw.DefaultDevMem
	DefaultControlBase   = regs.DefaultControlBase
	DefaultStatsBase     = regs.DefaultStatsBase
	DefaultWindowSize    = regs.WindowSize
	DefaultMaxIterations = regs.DefaultMaxIterations
	DefaultInterleave    = regs.DefaultInterleave
	DefaultThreshold     = 1000
	DefaultApiAddress    = "127.0.0.1"
	DefaultApiPort       = 8000
)
