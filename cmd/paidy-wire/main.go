// Command paidy-wire inspects and exercises the Paidy wire codecs: it lists
// the registered codec fields, decodes documents into records and checks
// that both JSON engines agree on a document.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AndrewDonelson/paidy"
	"github.com/AndrewDonelson/paidy/internal/metrics"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app is the state shared by every subcommand once flags are parsed.
type app struct {
	cfgPath string
	engine  string

	cfg      paidy.Config
	log      *zap.Logger
	counters *metrics.Counter
}

func rootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:           "paidy-wire",
		Short:         "Inspect and exercise the Paidy wire codecs",
		Version:       paidy.Version(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				a.log.Debug("counters", zap.Any("values", a.counters.Snapshot()))
				_ = a.log.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVarP(&a.cfgPath, "config", "c", "", "Config file (default: $PAIDY_CONFIG or ./paidy.yaml)")
	cmd.PersistentFlags().StringVarP(&a.engine, "engine", "e", "", "JSON engine (json, sonic); overrides config")

	cmd.AddCommand(fieldsCmd(a))
	cmd.AddCommand(decodeCmd(a))
	cmd.AddCommand(parityCmd(a))

	return cmd
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := paidy.LoadConfig(a.cfgPath)
	if err != nil {
		return err
	}
	if a.engine != "" {
		cfg.Engine = a.engine
	}

	log := setupLogger(cfg.Log, cmd.ErrOrStderr())
	a.log = log
	a.counters = &metrics.Counter{}
	cfg.Logger = paidy.NewZapLogger(log)
	cfg.Metrics = a.counters
	a.cfg = cfg
	return nil
}

// codecs builds a Codecs for engine, or for the configured engine when
// engine is empty.
func (a *app) codecs(engine string) (*paidy.Codecs, error) {
	cfg := a.cfg
	if engine != "" {
		cfg.Engine = engine
	}
	return paidy.New(cfg)
}
