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
package log_test

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"jinr.ru/greenlab/go-bersim/pkg/log"
)

var _ = Describe("Log", func() {
	var console *bytes.Buffer

	BeforeEach(func() {
		console = &bytes.Buffer{}
		Expect(log.Init(console, "info")).To(Succeed())
	})

	AfterEach(func() {
		log.Close()
	})

	It("should filter by level", func() {
		log.Debug("hidden")
		log.Info("shown %d", 1)
		log.Warning("careful")
		Expect(console.String()).NotTo(ContainSubstring("hidden"))
		Expect(console.String()).To(ContainSubstring("[go-bersim] "))
		Expect(console.String()).To(ContainSubstring("[info] shown 1"))
		Expect(console.String()).To(ContainSubstring("[warn] careful"))

		Expect(log.SetLevel("debug")).To(Succeed())
		log.Debug("visible")
		Expect(console.String()).To(ContainSubstring("[debug] visible"))
	})

	It("should reject unknown levels", func() {
		Expect(log.SetLevel("verbose")).To(MatchError(ContainSubstring(log.HelpLevels)))
	})

	It("should duplicate lines into a run log file", func() {
		dir := filepath.Join(GinkgoT().TempDir(), "logs")
		path, err := log.AddFile(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(filepath.Base(path)).To(MatchRegexp(`^run_\d{8}_\d{6}\.log$`))

		log.Info("CSV: %s", "1,2,3,4,5")
		log.Close()
		log.Info("after close")

		data, err := ioutil.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(ContainSubstring("CSV: 1,2,3,4,5"))
		Expect(string(data)).NotTo(ContainSubstring("after close"))
		Expect(console.String()).To(ContainSubstring("after close"))
	})

	It("should log what is written to Writer line by line", func() {
		fmt.Fprintf(log.Writer(), "GET /api/runs 200\n")
		lines := strings.Split(strings.TrimSpace(console.String()), "\n")
		Expect(lines).To(HaveLen(1))
		Expect(lines[0]).To(HaveSuffix("[info] GET /api/runs 200"))
	})
})
