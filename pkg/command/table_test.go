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
package command_test

import (
	"bytes"
	"io/ioutil"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"jinr.ru/greenlab/go-bersim/pkg/command"
	"jinr.ru/greenlab/go-bersim/pkg/stats"
	"jinr.ru/greenlab/go-bersim/pkg/table"
)

var _ = Describe("Table commands", func() {
	var out *bytes.Buffer

	BeforeEach(func() {
		out = &bytes.Buffer{}
	})

	It("should list SNR of the built-in table", func() {
		Expect(command.TableSNR("", out)).To(Succeed())
		Expect(out.String()).To(ContainSubstring("5.00 dB"))
		Expect(out.String()).To(ContainSubstring("14.00 dB"))
		Expect(out.String()).To(ContainSubstring("AWGN"))
	})

	It("should check table files", func() {
		t, err := table.Default()
		Expect(err).NotTo(HaveOccurred())
		data, err := t.Marshal()
		Expect(err).NotTo(HaveOccurred())
		path := filepath.Join(GinkgoT().TempDir(), "table.yaml")
		Expect(ioutil.WriteFile(path, data, 0644)).To(Succeed())

		Expect(command.TableCheck(path, out)).To(Succeed())
		Expect(out.String()).To(Equal(path + ": 18 blocks OK\n"))

		broken := strings.Replace(string(data), "0xffffffffffffffff", "0x0000000000000001", 1)
		Expect(ioutil.WriteFile(path, []byte(broken), 0644)).To(Succeed())
		err = command.TableCheck(path, out)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring(path))
	})

	It("should generate parseable tables", func() {
		Expect(command.TableGenerate([]float64{6, 12}, out)).To(Succeed())
		t, err := table.Parse(out.Bytes())
		Expect(err).NotTo(HaveOccurred())
		Expect(t.Len()).To(Equal(2))
		Expect(stats.SNR(&t.Blocks[1]).Value).To(BeNumerically("~", 12, 0.1))
	})

	It("should require target SNRs", func() {
		Expect(command.TableGenerate(nil, out)).To(MatchError(command.ErrNoSNR{}))
	})
})
