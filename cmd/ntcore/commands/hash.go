package commands

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smallyu/go-ntcore/internal/crypto/digest"
)

// hash <alg> <text>, or an HMAC tag with --key.
func hashCmd(a *app) *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:   "hash <alg> <text>",
		Short: "Digest or HMAC of a string (" + strings.Join(digest.Algorithms(), ", ") + ")",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				sum []byte
				err error
			)
			if cmd.Flags().Changed("key") {
				sum, err = digest.MAC(args[0], []byte(key), []byte(args[1]))
			} else {
				sum, err = digest.Sum(args[0], []byte(args[1]))
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(sum))
			return nil
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "HMAC key; computes a tag instead of a digest")
	return cmd
}
