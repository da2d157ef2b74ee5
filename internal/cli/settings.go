package cli

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/wesleyorama2/reach/http"
	"github.com/wesleyorama2/reach/internal/config"
	"github.com/wesleyorama2/reach/internal/output"
)

// settings are the persistent flags merged with the configuration file.
type settings struct {
	env     config.Environment
	timeout time.Duration
	verbose bool
	format  output.OutputFormat
	colors  *output.ColorScheme
}

func loadSettings(cmd *cobra.Command) (*settings, error) {
	flags := cmd.Flags()
	configPath, _ := flags.GetString("config")
	envName, _ := flags.GetString("env")
	verbose, _ := flags.GetBool("verbose")
	noColor, _ := flags.GetBool("no-color")
	timeout, _ := flags.GetDuration("timeout")
	formatName, _ := flags.GetString("output")

	s := &settings{verbose: verbose}

	if configPath != "" {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		env, err := cfg.Resolve(envName)
		if err != nil {
			return nil, err
		}
		s.env = env
	} else if envName != "" {
		return nil, errors.New("--env requires --config")
	}

	if timeout <= 0 {
		var err error
		timeout, err = s.env.TimeoutDuration(http.DefaultTimeout)
		if err != nil {
			return nil, err
		}
	}
	s.timeout = timeout

	format, err := output.ParseFormat(formatName)
	if err != nil {
		return nil, err
	}
	s.format = format
	s.colors = output.NewColorScheme(noColor, cmd.OutOrStdout())
	return s, nil
}

func (s *settings) formatter() output.FormatProvider {
	return output.GetFormatter(s.format, s.verbose, s.colors)
}
