// Copyright 2021 Optakt Labs OÜ
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

package translator

// DefaultConfig is the default configuration for the translator.
var DefaultConfig = Config{
	EmissionCacheSize: 1024,
	Recorder:          noopRecorder{},
}

// Config contains the configuration options for the translator.
type Config struct {
	EmissionCacheSize int
	Recorder          Recorder
}

// Option is a function that modifies the translator configuration.
type Option func(*Config)

// WithEmissionCacheSize sets the number of epoch emissions the translator keeps
// in memory.
func WithEmissionCacheSize(size int) Option {
	return func(cfg *Config) {
		cfg.EmissionCacheSize = size
	}
}

// WithRecorder sets the recorder for translation statistics.
func WithRecorder(recorder Recorder) Option {
	return func(cfg *Config) {
		cfg.Recorder = recorder
	}
}
