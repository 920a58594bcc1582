package main

import (
	"net/http"
	"os"
	"strings"

	"github.com/mgnsk/wasm-rig-viewer/pkg/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	v := viper.New()
	v.SetEnvPrefix("SERVE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:          "serve",
		Short:        "Serve the viewer's static files",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logging.New(logging.Config{
				Level:   v.GetString("log-level"),
				Console: true,
				App:     "serve",
			}, os.Stderr)

			dir := v.GetString("dir")
			addr := v.GetString("addr")
			log.Info().Str("dir", dir).Str("addr", addr).Msg("serving")

			return http.ListenAndServe(addr, newHandler(dir, log))
		},
	}

	cmd.Flags().String("dir", "/app/public", "directory to serve")
	cmd.Flags().String("addr", ":8080", "listen address")
	cmd.Flags().String("log-level", "info", "log level")
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		panic(err)
	}

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
