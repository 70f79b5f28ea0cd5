package server

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the engine's startup parameters.
type Config struct {
	// DBDirectory is the database directory; one directory per database.
	DBDirectory string `yaml:"db_directory"`
	// BlockSize is the size in bytes of every disk block. It must equal the
	// block size the database was created with.
	BlockSize int `yaml:"block_size"`
	// BufferSize is the number of frames in the buffer pool.
	BufferSize int `yaml:"buffer_size"`
	// LogFile is the name of the write-ahead log file.
	LogFile string `yaml:"log_file"`
}

// DefaultConfig returns the engine defaults for the given database directory.
func DefaultConfig(dbDirectory string) Config {
	return Config{
		DBDirectory: dbDirectory,
		BlockSize:   blockSize,
		BufferSize:  bufferSize,
		LogFile:     logFile,
	}
}

// LoadConfig reads a Config from a YAML file. An omitted block size, buffer
// size, or log file name falls back to the engine default; db_directory has
// no default and omitting it is an error.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("cannot read config %s: %v", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("cannot parse config %s: %v", path, err)
	}

	if cfg.BlockSize == 0 {
		cfg.BlockSize = blockSize
	}
	if cfg.BufferSize == 0 {
		cfg.BufferSize = bufferSize
	}
	if cfg.LogFile == "" {
		cfg.LogFile = logFile
	}
	if cfg.DBDirectory == "" {
		return Config{}, fmt.Errorf("config %s: db_directory is required", path)
	}
	return cfg, nil
}
