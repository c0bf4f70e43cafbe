package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	baseURL   string
	apiKey    string
	model     string
	maxTokens int
	noStream  bool
	noSpinner bool
	Version   = "dev"
)

var rootCmd = &cobra.Command{
	Use:     "minicode",
	Version: Version,
	Short:   "minicode - AI coding assistant",
	Long: `minicode is an interactive AI coding assistant for the terminal.
The model can read, write, and edit files, search the project, and run
shell commands, feeding the results back into the conversation.`,
	Run: func(cmd *cobra.Command, args []string) {
		startREPL()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.minicode/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "chat completions base URL (default https://api.openai.com/v1)")
	rootCmd.PersistentFlags().StringVar(&apiKey, "key", "", "API key (or set MINICODE_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&model, "model", "", "model name")
	rootCmd.PersistentFlags().IntVar(&maxTokens, "max-tokens", 0, "maximum output tokens per completion")
	rootCmd.PersistentFlags().BoolVar(&noStream, "no-stream", false, "disable streaming output (show response all at once)")
	rootCmd.PersistentFlags().BoolVar(&noSpinner, "no-spinner", false, "disable spinner animations")

	viper.BindPFlag("base_url", rootCmd.PersistentFlags().Lookup("base-url"))
	viper.BindPFlag("api_key", rootCmd.PersistentFlags().Lookup("key"))
	viper.BindPFlag("model", rootCmd.PersistentFlags().Lookup("model"))
	viper.BindPFlag("max_tokens", rootCmd.PersistentFlags().Lookup("max-tokens"))
	viper.BindPFlag("no_stream", rootCmd.PersistentFlags().Lookup("no-stream"))
	viper.BindPFlag("no_spinner", rootCmd.PersistentFlags().Lookup("no-spinner"))

	viper.SetDefault("base_url", "https://api.openai.com/v1")
	viper.SetDefault("model", "gpt-4o")
	viper.SetDefault("max_tokens", 4096)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".minicode")
		os.MkdirAll(configDir, 0755)

		viper.AddConfigPath(configDir)
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("MINICODE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
