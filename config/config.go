// Copyright 2026 Draycott Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package config loads ingestkit service configuration from YAML files
// and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds the full service configuration.
type Config struct {
	// Namespace is stamped onto every ingested chunk. Required.
	Namespace string `yaml:"namespace"`

	// BatchSize is the number of chunks buffered before a store write.
	BatchSize int `yaml:"batch_size"`

	Splitter struct {
		ChunkSize    int `yaml:"chunk_size"`
		ChunkOverlap int `yaml:"chunk_overlap"`
	} `yaml:"splitter"`

	Store struct {
		// Backend selects the vector store: memory, badger, or pgvector.
		Backend     string `yaml:"backend"`
		BadgerPath  string `yaml:"badger_path"`
		PostgresURL string `yaml:"postgres_url"`
		TableName   string `yaml:"table_name"`
		VectorDim   int    `yaml:"vector_dim"`
	} `yaml:"store"`

	Embedding struct {
		Host  string `yaml:"host"`
		Model string `yaml:"model"`
	} `yaml:"embedding"`

	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
}

// Load reads configuration from the given path. With an empty path it
// tries the default locations, falling back to built-in defaults.
// Environment variables override file values.
func Load(path string) (*Config, error) {
	if path == "" {
		locations := []string{
			"ingestkit.yaml",
			"ingestkit.yml",
			filepath.Join(os.Getenv("HOME"), ".config/ingestkit/config.yaml"),
			"/etc/ingestkit/config.yaml",
		}
		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	config := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	mergeWithEnv(config)
	applyDefaults(config)

	return config, nil
}

func applyDefaults(config *Config) {
	if config.BatchSize == 0 {
		config.BatchSize = 100
	}

	if config.Splitter.ChunkSize == 0 {
		config.Splitter.ChunkSize = 1000
	}
	if config.Splitter.ChunkOverlap == 0 {
		config.Splitter.ChunkOverlap = 200
	}

	if config.Store.Backend == "" {
		config.Store.Backend = "memory"
	}
	if config.Store.BadgerPath == "" {
		config.Store.BadgerPath = "./ingest_db"
	}
	if config.Store.TableName == "" {
		config.Store.TableName = "chunks"
	}
	if config.Store.VectorDim == 0 {
		config.Store.VectorDim = 1536
	}

	if config.Embedding.Host == "" {
		config.Embedding.Host = "http://localhost:11434/v1"
	}
	if config.Embedding.Model == "" {
		config.Embedding.Model = "embeddinggemma"
	}

	if config.Server.Addr == "" {
		config.Server.Addr = ":8080"
	}
}

func mergeWithEnv(config *Config) {
	if v := os.Getenv("INGESTKIT_NAMESPACE"); v != "" {
		config.Namespace = v
	}
	if v := os.Getenv("INGESTKIT_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.BatchSize = n
		}
	}
	if v := os.Getenv("INGESTKIT_STORE_BACKEND"); v != "" {
		config.Store.Backend = v
	}
	if v := os.Getenv("INGESTKIT_BADGER_PATH"); v != "" {
		config.Store.BadgerPath = v
	}
	if v := os.Getenv("INGESTKIT_POSTGRES_URL"); v != "" {
		config.Store.PostgresURL = v
	}
	if v := os.Getenv("INGESTKIT_EMBEDDING_HOST"); v != "" {
		config.Embedding.Host = v
	}
	if v := os.Getenv("INGESTKIT_EMBEDDING_MODEL"); v != "" {
		config.Embedding.Model = v
	}
	if v := os.Getenv("INGESTKIT_SERVER_ADDR"); v != "" {
		config.Server.Addr = v
	}
}

// ValidationError describes a single invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration and returns all problems found.
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	if c.Namespace == "" {
		errs = append(errs, ValidationError{"namespace", "must be set"})
	}
	if c.BatchSize < 1 {
		errs = append(errs, ValidationError{"batch_size", "must be at least 1"})
	}
	if c.Splitter.ChunkSize < 1 {
		errs = append(errs, ValidationError{"splitter.chunk_size", "must be at least 1"})
	}
	if c.Splitter.ChunkOverlap < 0 {
		errs = append(errs, ValidationError{"splitter.chunk_overlap", "must not be negative"})
	}

	switch c.Store.Backend {
	case "memory", "badger":
	case "pgvector":
		if c.Store.PostgresURL == "" {
			errs = append(errs, ValidationError{"store.postgres_url", "required for the pgvector backend"})
		}
	default:
		errs = append(errs, ValidationError{"store.backend", fmt.Sprintf("unknown backend %q", c.Store.Backend)})
	}

	return errs
}
