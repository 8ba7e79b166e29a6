package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/rental-portal/internal/documents"
)

var deleteAssetCmd = &cobra.Command{
	Use:   "delete-asset <secure-url|public-id>",
	Short: "Delete a provider asset by public id or delivery URL",
	Long: `Delete-asset removes an asset from the provider. When given a delivery URL
the public id is taken from its last two path segments with the file
extension removed.`,
	Args: cobra.ExactArgs(1),
	RunE: runDeleteAsset,
}

func runDeleteAsset(cmd *cobra.Command, args []string) error {
	publicID := args[0]
	if strings.HasPrefix(publicID, "http://") || strings.HasPrefix(publicID, "https://") {
		id, err := documents.ExtractPublicID(publicID)
		if err != nil {
			return err
		}
		publicID = id
	}

	if err := documents.DeleteAsset(commandContext(cmd), provider(), signer, publicID); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", publicID)
	return nil
}
