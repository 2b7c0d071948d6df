package cmd

import (
	"fmt"
	"os"

	"cosmossdk.io/log"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	cl "github.com/GalaChain/dex-sub000/concentrated_liquidity"
	"github.com/GalaChain/dex-sub000/clock"
	"github.com/GalaChain/dex-sub000/ledger"
	"github.com/GalaChain/dex-sub000/limitorder"
	"github.com/GalaChain/dex-sub000/tokenledger"
)

// session is the process-lifetime ledger every subcommand reads and
// writes, so chained invocations (via a wrapper shell script or a
// single `dexsimd` interactive process) build on each other's state.
// A real host has no equivalent of this: each chain transaction gets
// its own store handle. The simulator collapses that into one, the
// same way the teacher's own local test nodes keep one process-wide
// application.db for a `simd start` session.
type session struct {
	Store       ledger.Store
	Tokens      tokenledger.Subledger
	Pools       *cl.Keeper
	LimitOrders *limitorder.Keeper
}

var (
	cfgFile string
	logger  *logrus.Logger
	sess    *session
)

// Execute runs the root command, wiring viper-backed configuration and
// a request-scoped logrus logger before any subcommand's RunE fires.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "dexsimd",
		Short: "Single-process simulator for the concentrated-liquidity pool engine and limit-order engine",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			initConfig()
			initLogger()
			initSession()
			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.dexsimd.yaml)")
	root.PersistentFlags().String("log-level", "info", "logrus level: debug, info, warn, error")
	viper.BindPFlag("log-level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(
		newCreatePoolCmd(),
		newSetDexFeeConfigCmd(),
		newAddLiquidityCmd(),
		newBurnCmd(),
		newGetPositionCmd(),
		newListPositionsCmd(),
		newSwapCmd(),
		newMintCmd(),
		newPlaceOrderCmd(),
		newCancelOrderCmd(),
		newFillOrderCmd(),
		newSetLimitOrderConfigCmd(),
	)
	return root
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigName(".dexsimd")
		}
	}
	viper.SetEnvPrefix("DEXSIMD")
	viper.AutomaticEnv()
	// A missing config file is not fatal; every setting has a flag or
	// environment-variable fallback.
	_ = viper.ReadInConfig()
}

func initLogger() {
	logger = logrus.New()
	level, err := logrus.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// initSession lazily creates the process-wide ledger the first time any
// command runs. Repeated invocations within the same process (tests
// driving the cobra command directly) reuse it; a fresh `dexsimd`
// process always starts from an empty ledger, since nothing here
// persists to disk.
func initSession() {
	if sess != nil {
		return
	}
	store := ledger.NewMemStore()
	tokens := tokenledger.NewMemSubledger(store)
	sess = &session{
		Store:       store,
		Tokens:      tokens,
		Pools:       cl.NewKeeper(store, tokens, log.NewLogger(os.Stderr)),
		LimitOrders: limitorder.NewKeeper(store, log.NewLogger(os.Stderr), clock.System{}),
	}
}

func logField(cmd *cobra.Command) *logrus.Entry {
	return logger.WithField("cmd", cmd.Name())
}

func printResult(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format+"\n", args...)
}
