package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/smallyu/go-ntcore/internal/config"
	"github.com/smallyu/go-ntcore/pkg/ntheory"
)

// app is the state shared by subcommands once the root has resolved settings.
type app struct {
	v       *viper.Viper
	cfgFile string
	params  ntheory.Parameters
	logger  *zap.Logger
}

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New(), logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "ntcore",
		Short:         "Number theory and elliptic curve toolkit",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.v, a.cfgFile)
			if err != nil {
				return err
			}
			logger, err := cfg.NewLogger()
			if err != nil {
				return err
			}
			a.params, a.logger = cfg.Parameters(), logger
			a.logger.Debug("settings resolved",
				zap.String("command", cmd.CommandPath()),
				zap.String("curve", a.params.Curve),
				zap.String("dlog_method", a.params.Method),
				zap.Int64("dlog_budget", a.params.DlogBudget),
			)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "YAML settings file")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.String("curve", "", "named curve for ec and ecdh (demo97, ecdh37, p256, secp256k1)")
	_ = a.v.BindPFlag(config.KeyLogLevel, pf.Lookup("log-level"))
	_ = a.v.BindPFlag(config.KeyCurveDefault, pf.Lookup("curve"))

	root.AddCommand(
		egcdCmd(a),
		inverseCmd(a),
		powCmd(a),
		dlogCmd(a),
		ecCmd(a),
		dhCmd(a),
		ecdhCmd(a),
		rsaCmd(a),
		elgamalCmd(a),
		hashCmd(a),
	)
	return root
}
