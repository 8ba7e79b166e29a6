package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/rental-portal/pkg/signing"
)

var withTimestamp bool

var signCmd = &cobra.Command{
	Use:   "sign key=value...",
	Short: "Print the canonical string and signature for a parameter set",
	Long: `Sign computes the provider signature for the given parameters using the
configured API secret. Parameters are sorted by key and joined as
key=value pairs separated by "&".`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSign,
}

func init() {
	signCmd.Flags().BoolVarP(&withTimestamp, "timestamp", "t", false, "Add the current unix timestamp before signing")
}

func runSign(cmd *cobra.Command, args []string) error {
	params, err := parseParams(args)
	if err != nil {
		return err
	}

	if withTimestamp {
		params["timestamp"] = signer.Timestamp()
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "canonical: %s\n", signing.Canonical(params))
	fmt.Fprintf(out, "signature: %s\n", signing.Sign(params, signer.Credentials().APISecret))
	return nil
}

func parseParams(args []string) (signing.Params, error) {
	params := make(signing.Params, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q: expected key=value", arg)
		}
		params[key] = value
	}
	return params, nil
}
