package cmd

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/mitchellh/go-homedir"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aweris/blobcache"
)

var rootCmd = &cobra.Command{
	Use:   "blobcache",
	Short: "Two-tier blob and record cache CLI",
	Long:  "CLI for inspecting and mutating a blobcache directory: store, fetch, and invalidate entries by logical path or URL.",
}

var logger = log.New(os.Stderr)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: blobcache.yaml in the user config dir)")
	rootCmd.PersistentFlags().String("dir", "", "cache directory (default: user cache dir)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug logging")

	viper.BindPFlag("dir", rootCmd.PersistentFlags().Lookup("dir"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	if cfg := rootCmd.PersistentFlags().Lookup("config").Value.String(); cfg != "" {
		viper.SetConfigFile(cfg)
	} else {
		scope := gap.NewScope(gap.User, "blobcache")
		if dirs, err := scope.ConfigDirs(); err == nil {
			for _, dir := range dirs {
				viper.AddConfigPath(dir)
			}
		}
		viper.SetConfigName("blobcache")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("BLOBCACHE")
	viper.AutomaticEnv()

	viper.ReadInConfig()

	if viper.GetBool("verbose") {
		logger.SetLevel(log.DebugLevel)
	}
}

func openCache() (*blobcache.Cache, error) {
	opts := []blobcache.Option{blobcache.WithLogger(logger)}
	if dir := viper.GetString("dir"); dir != "" {
		expanded, err := homedir.Expand(dir)
		if err != nil {
			return nil, err
		}
		opts = append(opts, blobcache.WithDir(expanded))
	}
	return blobcache.Open(opts...)
}

// keyFromArg derives a key from a logical path, or from a URL when the
// --url flag is set on the command.
func keyFromArg(cmd *cobra.Command, arg string) (blobcache.Key, error) {
	if asURL, _ := cmd.Flags().GetBool("url"); asURL {
		return blobcache.ParseURL(arg)
	}
	return blobcache.FromPath(arg), nil
}
