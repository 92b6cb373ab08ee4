// Package config supplies optional defaults for the CLI's --source and
// --input flags from the IPP19VM_SOURCE/IPP19VM_INPUT environment
// variables or a .ipp19vm.yaml config file, the way
// other_examples/manifests/Manu343726-cucaracha layers viper under
// cobra. Explicit command-line flags always win over these defaults.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Defaults holds whatever config/env supplied for source/input paths.
type Defaults struct {
	Source string
	Input  string
}

// Load reads .ipp19vm.yaml (if present, searched in the working
// directory and $HOME) plus IPP19VM_* environment variables. Missing
// config is not an error -- both fields are simply left empty, and the
// CLI layer falls back to its own required-flag checks.
func Load() Defaults {
	v := viper.New()
	v.SetConfigName(".ipp19vm")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME")

	v.SetEnvPrefix("IPP19VM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	_ = v.ReadInConfig() // absent config file is fine, just leaves defaults unset

	return Defaults{
		Source: v.GetString("source"),
		Input:  v.GetString("input"),
	}
}
