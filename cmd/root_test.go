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
package cmd_test

import (
	"bytes"
	"io/ioutil"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"jinr.ru/greenlab/go-bersim/cmd"
	"jinr.ru/greenlab/go-bersim/cmd/completion"
	"jinr.ru/greenlab/go-bersim/pkg/config"
	"jinr.ru/greenlab/go-bersim/pkg/regs"
	"jinr.ru/greenlab/go-bersim/pkg/runner"
	"jinr.ru/greenlab/go-bersim/pkg/table"
)

var _ = Describe("Root command", func() {
	var (
		dir, configPath string
		out             *bytes.Buffer
	)

	execute := func(args ...string) error {
		root := cmd.NewRootCommand(out)
		root.SetErr(&bytes.Buffer{})
		root.SetArgs(append([]string{"--config", configPath}, args...))
		return root.Execute()
	}

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		configPath = filepath.Join(dir, "config")
		out = &bytes.Buffer{}
	})

	It("should write and show the config", func() {
		Expect(execute("config", "init")).To(Succeed())
		Expect(execute("config", "init")).To(BeAssignableToTypeOf(config.ErrConfigFileExists{}))
		Expect(execute("config", "init", "--overwrite")).To(Succeed())

		Expect(ioutil.WriteFile(configPath, []byte("run:\n  maxIterations: 12\n"), 0644)).To(Succeed())
		Expect(execute("config", "show")).To(Succeed())
		Expect(out.String()).To(ContainSubstring("maxIterations: 12"))
		Expect(out.String()).To(ContainSubstring("devMem: /dev/mem"))
	})

	It("should reject invalid run arguments before touching the hardware", func() {
		err := execute("run", "--iterations", "40")
		Expect(err).To(BeAssignableToTypeOf(regs.ErrInvalidParams{}))

		err = execute("run", "-i", "0")
		Expect(err).To(BeAssignableToTypeOf(regs.ErrInvalidParams{}))

		Expect(execute("run", "--trials", "x")).To(HaveOccurred())
		Expect(execute("bogus")).To(HaveOccurred())
	})

	It("should reject invalid config values in the default mode", func() {
		Expect(ioutil.WriteFile(configPath, []byte("run:\n  maxIterations: 0\n"), 0644)).To(Succeed())
		Expect(execute()).To(BeAssignableToTypeOf(regs.ErrInvalidParams{}))
	})

	It("should accept the run flags without a subcommand", func() {
		Expect(execute("-i", "40")).To(BeAssignableToTypeOf(regs.ErrInvalidParams{}))
		Expect(execute("--interleave", "16", "--trials", "1")).To(BeAssignableToTypeOf(regs.ErrInvalidParams{}))
		Expect(execute("--threshold", "0")).To(Equal(runner.ErrThreshold{}))

		// a valid flag overrides an invalid config value
		Expect(ioutil.WriteFile(configPath, []byte("run:\n  maxIterations: 0\n  threshold: 0\n"), 0644)).To(Succeed())
		Expect(execute("-i", "5")).To(Equal(runner.ErrThreshold{}))
	})

	It("should generate and check tables", func() {
		path := filepath.Join(dir, "table.yaml")
		Expect(execute("table", "gen", "--snr", "6,9", "-o", path)).To(Succeed())
		t, err := table.Load(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(t.Len()).To(Equal(2))

		Expect(execute("table", "check", path)).To(Succeed())
		Expect(out.String()).To(ContainSubstring("2 blocks OK"))

		Expect(execute("table", "snr", "--table", path)).To(Succeed())
		Expect(out.String()).To(ContainSubstring("9.00 dB"))
	})

	It("should generate completion scripts", func() {
		Expect(execute("completion")).To(Succeed())
		Expect(out.String()).To(ContainSubstring("go-bersim"))
		Expect(execute("completion", "tcsh")).To(MatchError(completion.ErrShell{Shell: "tcsh"}))
	})

	It("should fail to read results without a store", func() {
		Expect(ioutil.WriteFile(configPath, []byte("store:\n  path: "+filepath.Join(dir, "none.db")+"\n"), 0644)).To(Succeed())
		Expect(execute("results", "list")).To(HaveOccurred())
	})
})
