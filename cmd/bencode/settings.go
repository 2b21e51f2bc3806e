package main

import (
	"github.com/oy3o/bencode"
	"github.com/oy3o/bencode/internal/config"
	"github.com/oy3o/bencode/internal/log"
	"github.com/spf13/pflag"
)

// settings are the flags every command shares. Zero values mean "not given",
// leaving the config file or the default in charge.
type settings struct {
	configPath      string
	logLevel        string
	hex             bool
	strict          bool
	maxDepth        int
	maxStringLength int64
	internKeys      bool
}

func (s *settings) bind(fs *pflag.FlagSet) {
	fs.StringVar(&s.configPath, "config", "", "YAML configuration file")
	fs.StringVar(&s.logLevel, "log-level", "", "log level: debug, info, warn or error")
	fs.BoolVarP(&s.hex, "hex", "x", false, "treat input as hex text")
	fs.BoolVar(&s.strict, "strict", false, "reject input that is not canonical bencode")
	fs.IntVar(&s.maxDepth, "max-depth", 0, "maximum nesting of lists and dictionaries (-1 means no limit)")
	fs.Int64Var(&s.maxStringLength, "max-string-length", 0, "maximum byte string length (0 means no limit)")
	fs.BoolVar(&s.internKeys, "intern-keys", false, "share repeated dictionary keys between values")
}

// resolve loads the configuration file, applies the flags on top, and
// configures the logger.
func (s *settings) resolve() (config.Config, error) {
	cfg := config.Default()
	if s.configPath != "" {
		if err := config.Load(s.configPath, &cfg); err != nil {
			return cfg, err
		}
	}

	if s.logLevel != "" {
		cfg.LogLevel = s.logLevel
	}
	if s.strict {
		cfg.Decoder.Strict = true
	}
	if s.maxDepth != 0 {
		cfg.Decoder.MaxDepth = s.maxDepth
	}
	if s.maxStringLength != 0 {
		cfg.Decoder.MaxStringLength = s.maxStringLength
	}
	if s.internKeys {
		cfg.Decoder.InternKeys = true
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	log.ConfigureLogger(log.NewConfig(cfg.LogLevel))
	log.Debugw("configuration resolved",
		"config", s.configPath,
		"strict", cfg.Decoder.Strict,
		"max_depth", cfg.Decoder.MaxDepth,
		"max_string_length", cfg.Decoder.MaxStringLength)
	return cfg, nil
}

// decoderOptions returns the codec options of cfg.
func decoderOptions(cfg config.Config) bencode.DecoderOption {
	return bencode.WithOptions(cfg.Decoder.Options())
}
