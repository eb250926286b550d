package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aweris/blobcache"
)

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Fetch a blob",
	Long:  "Fetch the cached bytes for a key and write them to stdout or to --output.",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func init() {
	getCmd.Flags().Bool("url", false, "treat <key> as a URL")
	getCmd.Flags().StringP("output", "o", "", "write to file instead of stdout")
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) (err error) {
	key, err := keyFromArg(cmd, args[0])
	if err != nil {
		return err
	}

	c, err := openCache()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	data, err := c.Get(key)
	if errors.Is(err, blobcache.ErrNotFound) {
		return fmt.Errorf("no entry for %s", key.Identifier)
	}
	if err != nil {
		return err
	}

	if out, _ := cmd.Flags().GetString("output"); out != "" {
		return os.WriteFile(out, data, 0o644)
	}
	_, err = os.Stdout.Write(data)
	return err
}
