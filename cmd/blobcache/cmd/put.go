package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var putCmd = &cobra.Command{
	Use:   "put <key> [file]",
	Short: "Store a blob",
	Long:  "Store a file's bytes (or stdin when no file is given) under a logical path or URL key.",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runPut,
}

func init() {
	putCmd.Flags().Bool("url", false, "treat <key> as a URL")
	rootCmd.AddCommand(putCmd)
}

func runPut(cmd *cobra.Command, args []string) (err error) {
	key, err := keyFromArg(cmd, args[0])
	if err != nil {
		return err
	}

	var data []byte
	if len(args) > 1 {
		data, err = os.ReadFile(args[1])
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
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

	if err := c.Put(key, data); err != nil {
		return fmt.Errorf("put failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Stored %s (%d bytes)\n", key.Filename(), len(data))
	return nil
}
