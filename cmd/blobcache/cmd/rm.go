package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:   "rm <key|prefix>",
	Short: "Remove an entry or subtree",
	Long:  "Remove a single cached entry, or with --recursive everything under a logical prefix.",
	Args:  cobra.ExactArgs(1),
	RunE:  runRm,
}

func init() {
	rmCmd.Flags().Bool("url", false, "treat <key> as a URL")
	rmCmd.Flags().BoolP("recursive", "r", false, "remove the whole subtree under the prefix")
	rootCmd.AddCommand(rmCmd)
}

func runRm(cmd *cobra.Command, args []string) (err error) {
	c, err := openCache()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if recursive, _ := cmd.Flags().GetBool("recursive"); recursive {
		if err := c.RemoveSubtree(args[0]); err != nil {
			return fmt.Errorf("remove subtree failed: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Removed subtree %s\n", args[0])
		return nil
	}

	key, err := keyFromArg(cmd, args[0])
	if err != nil {
		return err
	}
	if err := c.Delete(key); err != nil {
		return fmt.Errorf("remove failed: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Removed %s\n", key.Filename())
	return nil
}
