package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/verdictx/vx/account"
	"github.com/verdictx/vx/chat"
	"github.com/verdictx/vx/internal/api"
	"github.com/verdictx/vx/internal/cli"
	"github.com/verdictx/vx/internal/configuration"
	"github.com/verdictx/vx/internal/feature"
	"github.com/verdictx/vx/server"
)

const configFilepath = "~/.config/vx/config.json"

var rootCmd = &cobra.Command{
	Use:   "vx",
	Short: "An AI legal assistant in your terminal",
}

func main() {
	config, err := configuration.Parse(configFilepath)
	if err != nil {
		panic(err)
	}

	rootCmd.AddCommand(chat.NewCmd(config))
	rootCmd.AddCommand(account.NewLoginCmd(config))
	rootCmd.AddCommand(account.NewLogoutCmd(config))
	rootCmd.AddCommand(server.NewServeCmd(config))
	rootCmd.AddCommand(newHealthCmd(config))
	rootCmd.Execute()
}

// newHealthCmd instantiates and returns the health command.
func newHealthCmd(config *configuration.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check backend connectivity",
		Long:  "Check backend connectivity",
		Args:  cobra.ExactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			client := api.NewClient(config)
			ctx, cancel := context.WithTimeout(context.Background(), time.Duration(config.RequestTimeout)*time.Second)
			defer cancel()

			for _, host := range []feature.Host{feature.HostMaster, feature.HostExtraction} {
				if err := client.Health(ctx, host); err != nil {
					cli.Error("%s: %s\n", client.BaseURL(host), err.Error())
					continue
				}
				cli.UserCommand("#%s: ok\n", client.BaseURL(host))
			}
		},
	}
	return cmd
}
