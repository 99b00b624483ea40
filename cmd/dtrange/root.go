package main

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"dtrange/internal/config"
	"dtrange/internal/daterange"
	appLog "dtrange/internal/log"
	"dtrange/internal/stepspec"
	"dtrange/internal/timepoint"
)

// flagValues holds CLI flag values; set flags override the config file.
type flagValues struct {
	configPath string
	step       string
	format     string
	timezone   string
	output     string
	layout     string
	logLevel   string
	limit      int
}

func newRootCmd() *cobra.Command {
	var fv flagValues

	root := &cobra.Command{
		Use:   "dtrange",
		Short: "Enumerate dates and timestamps between two boundaries",
		Long: "dtrange prints the points from START (inclusive) to END (exclusive), advancing by a\n" +
			"fixed duration or a calendar step such as one month.",
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&fv.configPath, "config", defaultConfigPath(), "Path to config file")
	pf.StringVar(&fv.step, "step", "", "Step notation, e.g. P1D, P1M, 1 month, @weekly, 90m, FREQ=DAILY;INTERVAL=2")
	pf.StringVar(&fv.format, "format", "", "Format of textual START/END (strftime, YYYY-MM-DD tokens or Go layout)")
	pf.StringVar(&fv.timezone, "tz", "", "IANA timezone for dates and zone-less text")
	pf.StringVar(&fv.logLevel, "log-level", "", "DEBUG, INFO, WARN or ERROR")
	pf.IntVar(&fv.limit, "limit", 0, "Maximum number of points (0 = no limit)")

	root.AddCommand(newGenCmd(&fv))
	root.AddCommand(newCheckCmd(&fv))
	root.AddCommand(newConfigCmd(&fv))
	root.AddCommand(newServeCmd(&fv))
	return root
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "dtrange.yaml"
	}
	return filepath.Join(dir, "dtrange", "config.yaml")
}

// loadConfig loads the config file and applies changed flags on top.
func loadConfig(cmd *cobra.Command, fv *flagValues) (*config.Config, error) {
	cfg, err := config.Load(fv.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	override := func(name string, dst *string, v string) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	override("step", &cfg.Step, fv.step)
	override("format", &cfg.InputFormat, fv.format)
	override("tz", &cfg.Timezone, fv.timezone)
	override("output", &cfg.Output, fv.output)
	override("layout", &cfg.OutputLayout, fv.layout)
	override("log-level", &cfg.LogLevel, fv.logLevel)
	if flags.Changed("limit") {
		cfg.Limit = fv.limit
	}

	if flags.Changed("output") {
		switch cfg.Output {
		case config.OutputText, config.OutputJSON, config.OutputICS, config.OutputRRule:
		default:
			return nil, errors.Errorf("unknown output %q", cfg.Output)
		}
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, _ := appLog.ParseLevel(cfg.LogLevel)
	appLog.SetLevel(level)

	appLog.Debug("effective config",
		"config_path", fv.configPath,
		"timezone", cfg.Timezone,
		"input_format", cfg.InputFormat,
		"output", cfg.Output,
		"step", cfg.Step,
		"limit", cfg.Limit,
	)
	return cfg, nil
}

// planFromArgs builds the range plan for START END under cfg.
func planFromArgs(cfg *config.Config, args []string) (*daterange.Plan, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	s, err := stepspec.Parse(cfg.Step)
	if err != nil {
		return nil, err
	}

	g := daterange.New(daterange.Options{Location: loc, Limit: cfg.Limit})
	return g.Plan(daterange.Request{
		Start:  boundary(args[0], loc),
		End:    boundary(args[1], loc),
		Step:   s,
		Format: cfg.InputFormat,
	})
}

// boundary maps a command line argument to a timepoint value. "now" and
// "today" are resolved against the current time in loc.
func boundary(arg string, loc *time.Location) timepoint.Value {
	switch strings.ToLower(arg) {
	case "now":
		return timepoint.At(time.Now().In(loc))
	case "today":
		return timepoint.DateOf(time.Now().In(loc))
	}
	return timepoint.Text(arg)
}
