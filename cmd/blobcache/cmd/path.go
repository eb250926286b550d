package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pathCmd = &cobra.Command{
	Use:   "path <key>",
	Short: "Print the resolved storage location",
	Long:  "Print where a logical path or URL key resolves under the cache root, for callers addressing storage directly.",
	Args:  cobra.ExactArgs(1),
	RunE:  runPath,
}

func init() {
	pathCmd.Flags().Bool("url", false, "treat <key> as a URL")
	rootCmd.AddCommand(pathCmd)
}

func runPath(cmd *cobra.Command, args []string) (err error) {
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

	fmt.Println(c.Dir(key.Filename()))
	return nil
}
