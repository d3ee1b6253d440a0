package model

import (
	"fmt"
	"io/ioutil"

	"github.com/pelletier/go-toml"

	"github.com/zephyrtronium/dyncall"
)

// OptionsFile is the conventional name of a runtime options file.
const OptionsFile = "dyncall.toml"

type tomlConfig struct {
	Dispatch *tomlDispatch `toml:"dispatch"`
}

type tomlDispatch struct {
	CallSiteCacheSize int  `toml:"callsite-cache-size"`
	RenderLimit       int  `toml:"render-limit"`
	Trace             bool `toml:"trace"`
}

// ParseOptions reads runtime options from TOML. Settings that are absent keep
// their default values.
func ParseOptions(b []byte) (dyncall.Options, error) {
	opts := dyncall.DefaultOptions()
	var cfg tomlConfig
	if err := toml.Unmarshal(b, &cfg); err != nil {
		return opts, fmt.Errorf("dyncall: decoding options: %w", err)
	}
	if cfg.Dispatch == nil {
		return opts, nil
	}
	d := cfg.Dispatch
	if d.CallSiteCacheSize < 0 {
		return opts, fmt.Errorf("dyncall: negative callsite-cache-size %d", d.CallSiteCacheSize)
	}
	if d.RenderLimit < 0 {
		return opts, fmt.Errorf("dyncall: negative render-limit %d", d.RenderLimit)
	}
	if d.CallSiteCacheSize > 0 {
		opts.CallSiteCacheSize = d.CallSiteCacheSize
	}
	if d.RenderLimit > 0 {
		opts.RenderLimit = d.RenderLimit
	}
	opts.Trace = d.Trace
	return opts, nil
}

// LoadOptions reads runtime options from the named TOML file.
func LoadOptions(path string) (dyncall.Options, error) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return dyncall.DefaultOptions(), fmt.Errorf("dyncall: reading options: %w", err)
	}
	return ParseOptions(b)
}
