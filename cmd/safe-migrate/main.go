package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	safemigrate "github.com/nlordell/safe-migrate"
	"github.com/nlordell/safe-migrate/internal/term"
	"github.com/nlordell/safe-migrate/pkg/types"
)

var rootCmd = &cobra.Command{
	Use:   "safe-migrate SAFE OWNER",
	Short: "Migrate a Safe from the legacy app to the Multisig",
	Long: `safe-migrate adds a new owner to a legacy (v1.1.1) Safe using a
recovery key derived from the legacy app's seed phrase. Gas is
sponsored through the Safe relay service, so the recovery account
needs no ETH.

SAFE is the address of the Safe to migrate and OWNER the address of
the new owner to be added.`,
	Args:          cobra.ExactArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().String("network", string(safemigrate.NetworkRinkeby), "the Safe's Ethereum network (mainnet|rinkeby)")
	rootCmd.Flags().String("gas-token", "", "ERC-20 token to pay transaction gas in")
	rootCmd.Flags().String("relay-url", "", "override the Safe relay service URL")

	viper.SetEnvPrefix("SAFE_MIGRATE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	for _, flag := range []string{"network", "gas-token", "relay-url"} {
		if err := viper.BindPFlag(flag, rootCmd.Flags().Lookup(flag)); err != nil {
			panic(err)
		}
	}
}

func run(cmd *cobra.Command, args []string) error {
	safe, err := parseAddress(args[0], "Safe")
	if err != nil {
		return err
	}
	newOwner, err := parseAddress(args[1], "owner")
	if err != nil {
		return err
	}

	network, err := safemigrate.ParseNetwork(viper.GetString("network"))
	if err != nil {
		return err
	}

	var gasToken *common.Address
	if raw := viper.GetString("gas-token"); raw != "" {
		token, err := parseAddress(raw, "gas token")
		if err != nil {
			return err
		}
		gasToken = &token
	}

	migrator, err := safemigrate.NewMigrator(network, term.New(), os.Stdout)
	if err != nil {
		return err
	}
	if relayURL := viper.GetString("relay-url"); relayURL != "" {
		migrator.SetClient(safemigrate.NewClient(relayURL))
	}

	_, err = migrator.Run(cmd.Context(), safe, newOwner, gasToken)
	return err
}

func parseAddress(raw, name string) (common.Address, error) {
	if !common.IsHexAddress(raw) {
		return common.Address{}, fmt.Errorf("invalid %s address %q", name, raw)
	}
	return common.HexToAddress(raw), nil
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, types.ErrUserAborted) {
			log.Warn().Msg(err.Error())
		} else {
			log.Error().Err(err).Msg("migration failed")
		}
		os.Exit(1)
	}
}
