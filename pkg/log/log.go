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

package log

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type LogLevel int

const (
	LogPrefix     = "[go-bersim] "
	ErrorPrefix   = "[error] "
	WarningPrefix = "[warn] "
	InfoPrefix    = "[info] "
	DebugPrefix   = "[debug] "
	HelpLevels    = "Must be one of: error, warning, info, debug."

	// RunLogLayout is the time layout of run log file names
	RunLogLayout = "run_20060102_150405.log"
)

const (
	ErrorLevel LogLevel = iota
	WarningLevel
	InfoLevel
	DebugLevel
)

type Logger struct {
	level LogLevel
	*log.Logger

	mu      sync.Mutex
	console io.Writer
	file    *os.File
}

var logger = &Logger{
	level:   InfoLevel,
	Logger:  log.New(os.Stderr, LogPrefix, log.LstdFlags),
	console: os.Stderr,
}

func SetLevel(strLevel string) error {
	levelMapping := map[string]LogLevel{
		"error":   ErrorLevel,
		"warning": WarningLevel,
		"info":    InfoLevel,
		"debug":   DebugLevel,
	}
	level, ok := levelMapping[strLevel]
	if !ok {
		return errors.New("Wrong log level. " + HelpLevels)
	}
	logger.level = level
	return nil
}

func Init(out io.Writer, strLevel string) error {
	logger.mu.Lock()
	logger.console = out
	logger.mu.Unlock()
	logger.resetOutput()
	return SetLevel(strLevel)
}

func (l *Logger) resetOutput() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		l.SetOutput(io.MultiWriter(l.console, l.file))
		return
	}
	l.SetOutput(l.console)
}

// AddFile duplicates every log line into a file in dir named after the
// current time. It returns the path of the file.
func AddFile(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, time.Now().Format(RunLogLayout))
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}

	logger.mu.Lock()
	old := logger.file
	logger.file = file
	logger.mu.Unlock()
	logger.resetOutput()

	if old != nil {
		old.Close()
	}
	return path, nil
}

// Close detaches and closes the log file, if any. Safe to call more than once.
func Close() {
	logger.mu.Lock()
	file := logger.file
	logger.file = nil
	logger.mu.Unlock()
	logger.resetOutput()

	if file != nil {
		file.Sync()
		file.Close()
	}
}

func Error(format string, v ...interface{}) {
	if logger.level >= ErrorLevel {
		logger.Println(fmt.Sprintf(ErrorPrefix+format, v...))
	}
}

func Warning(format string, v ...interface{}) {
	if logger.level >= WarningLevel {
		logger.Println(fmt.Sprintf(WarningPrefix+format, v...))
	}
}

func Info(format string, v ...interface{}) {
	if logger.level >= InfoLevel {
		logger.Println(fmt.Sprintf(InfoPrefix+format, v...))
	}
}

func Debug(format string, v ...interface{}) {
	if logger.level >= DebugLevel {
		logger.Println(fmt.Sprintf(DebugPrefix+format, v...))
	}
}

// Writer returns a writer that logs every line it gets at info level.
// The API server uses it for access logs.
func Writer() io.Writer {
	return writerFunc(func(p []byte) (int, error) {
		Info("%s", trimNewline(p))
		return len(p), nil
	})
}

type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) {
	return f(p)
}

func trimNewline(p []byte) string {
	if n := len(p); n > 0 && p[n-1] == '\n' {
		return string(p[:n-1])
	}
	return string(p)
}
