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
package store

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.etcd.io/bbolt"
	"sigs.k8s.io/yaml"

	"jinr.ru/greenlab/go-bersim/pkg/log"
	"jinr.ru/greenlab/go-bersim/pkg/runner"
)

const (
	RunsBucket   = "runs"
	TrialsBucket = "trials"
	RunKey       = "run"

	DefaultTimeout = time.Second
)

// Store keeps run summaries and trial results. Every run is a bucket
// holding the summary under RunKey and one record per trial.
type Store struct {
	DB   *bbolt.DB
	path string
}

var _ runner.Reporter = &Store{}

func open(path string, readOnly bool) (*Store, error) {
	if !readOnly {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, err
		}
	}
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: DefaultTimeout, ReadOnly: readOnly})
	if err != nil {
		if errors.Is(err, bbolt.ErrTimeout) {
			return nil, ErrBusy{Path: path, Err: err}
		}
		return nil, err
	}
	s := &Store{DB: db, path: path}
	if readOnly {
		return s, nil
	}
	if err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(RunsBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Open opens the database for writing, creating it if needed
func Open(path string) (*Store, error) {
	log.Debug("Opening result store: %s", path)
	return open(path, false)
}

// OpenReadOnly opens an existing database. Several readers may share it.
func OpenReadOnly(path string) (*Store, error) {
	log.Debug("Opening result store read only: %s", path)
	return open(path, true)
}

// Close ...
func (s *Store) Close() error {
	return s.DB.Close()
}

func (s *Store) Path() string {
	return s.path
}

func trialKey(trial int) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, uint32(trial))
	return b
}

func runBucket(tx *bbolt.Tx, id string) *bbolt.Bucket {
	runs := tx.Bucket([]byte(RunsBucket))
	if runs == nil {
		return nil
	}
	return runs.Bucket([]byte(id))
}

// PutRun stores the summary of a run. Trials are stored on their own.
func (s *Store) PutRun(sum *runner.Summary) error {
	log.Debug("Storing run: %s", sum.ID)
	record := *sum
	record.Trials = nil
	data, err := yaml.Marshal(&record)
	if err != nil {
		return err
	}
	return s.DB.Update(func(tx *bbolt.Tx) error {
		runs := tx.Bucket([]byte(RunsBucket))
		b, err := runs.CreateBucketIfNotExists([]byte(sum.ID))
		if err != nil {
			return err
		}
		if _, err := b.CreateBucketIfNotExists([]byte(TrialsBucket)); err != nil {
			return err
		}
		return b.Put([]byte(RunKey), data)
	})
}

// PutTrial stores a trial result under its run
func (s *Store) PutTrial(res *runner.TrialResult) error {
	log.Debug("Storing trial: run: %s trial: %d", res.RunID, res.Trial)
	data, err := yaml.Marshal(res)
	if err != nil {
		return err
	}
	return s.DB.Update(func(tx *bbolt.Tx) error {
		b := runBucket(tx, res.RunID)
		if b == nil {
			return ErrRunNotFound{ID: res.RunID}
		}
		return b.Bucket([]byte(TrialsBucket)).Put(trialKey(res.Trial), data)
	})
}

func readRun(b *bbolt.Bucket) (*runner.Summary, error) {
	sum := &runner.Summary{}
	if err := yaml.Unmarshal(b.Get([]byte(RunKey)), sum); err != nil {
		return nil, err
	}
	return sum, nil
}

// ListRuns returns run summaries without trials, oldest first
func (s *Store) ListRuns() ([]*runner.Summary, error) {
	var runs []*runner.Summary
	if err := s.DB.View(func(tx *bbolt.Tx) error {
		root := tx.Bucket([]byte(RunsBucket))
		if root == nil {
			return nil
		}
		return root.ForEach(func(k, v []byte) error {
			b := root.Bucket(k)
			if b == nil {
				return nil
			}
			sum, err := readRun(b)
			if err != nil {
				log.Error("Error while unmarshalling run %s: %s", k, err)
				return err
			}
			runs = append(runs, sum)
			return nil
		})
	}); err != nil {
		return nil, err
	}
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Started.Before(runs[j].Started)
	})
	return runs, nil
}

// GetRun returns a run with all its trials in order
func (s *Store) GetRun(id string) (*runner.Summary, error) {
	var sum *runner.Summary
	if err := s.DB.View(func(tx *bbolt.Tx) error {
		b := runBucket(tx, id)
		if b == nil {
			return ErrRunNotFound{ID: id}
		}
		var err error
		if sum, err = readRun(b); err != nil {
			return err
		}
		return b.Bucket([]byte(TrialsBucket)).ForEach(func(_, v []byte) error {
			res := &runner.TrialResult{}
			if err := yaml.Unmarshal(v, res); err != nil {
				return err
			}
			sum.Trials = append(sum.Trials, res)
			return nil
		})
	}); err != nil {
		return nil, err
	}
	return sum, nil
}

// GetTrial returns a single trial of a run
func (s *Store) GetTrial(id string, trial int) (*runner.TrialResult, error) {
	res := &runner.TrialResult{}
	if err := s.DB.View(func(tx *bbolt.Tx) error {
		b := runBucket(tx, id)
		if b == nil {
			return ErrRunNotFound{ID: id}
		}
		data := b.Bucket([]byte(TrialsBucket)).Get(trialKey(trial))
		if data == nil {
			return ErrTrialNotFound{RunID: id, Trial: trial}
		}
		return yaml.Unmarshal(data, res)
	}); err != nil {
		return nil, err
	}
	return res, nil
}

// Latest returns the most recently started run
func (s *Store) Latest() (*runner.Summary, error) {
	runs, err := s.ListRuns()
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, ErrRunNotFound{ID: "latest"}
	}
	return s.GetRun(runs[len(runs)-1].ID)
}

func (s *Store) BeginRun(info *runner.RunInfo) error {
	return s.PutRun(&runner.Summary{RunInfo: *info})
}

func (s *Store) Trial(res *runner.TrialResult) error {
	return s.PutTrial(res)
}

func (s *Store) EndRun(sum *runner.Summary) error {
	return s.PutRun(sum)
}
