package commands

import (
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/SaeedKokash/xsd-editor-app/internal/service"
)

// ServeCmd creates the 'serve' command: runs the HTTP schema editing service.
//
// Settings come from flags, an optional xsdedit.yml in the working directory,
// and XSDEDIT_* environment variables, in that order of precedence.
func ServeCmd() *cobra.Command {
	var addr string
	var maxUpload int64
	var quirks bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the XSD editing HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadServerConfig(cmd, addr, maxUpload, quirks)
			if err != nil {
				return err
			}

			srv := service.New(cfg, slog.Default())
			slog.Info("starting server", "addr", cfg.Addr)
			return srv.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default :5000)")
	cmd.Flags().Int64Var(&maxUpload, "max-upload-bytes", 0, "Maximum upload size in bytes")
	cmd.Flags().BoolVar(&quirks, "quirks", false, "Apply known schema repairs to uploaded schemas")

	return cmd
}

func loadServerConfig(cmd *cobra.Command, addr string, maxUpload int64, quirks bool) (service.Config, error) {
	cfg := service.DefaultConfig()

	v := viper.New()
	v.SetConfigName("xsdedit")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvPrefix("XSDEDIT")

	v.SetDefault("server.addr", cfg.Addr)
	v.SetDefault("server.max_upload_bytes", cfg.MaxUploadBytes)
	v.SetDefault("server.known_quirks", cfg.KnownQuirks)
	v.SetDefault("server.read_timeout", cfg.ReadTimeout)
	v.SetDefault("server.write_timeout", cfg.WriteTimeout)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, errors.Wrap(err, "read xsdedit.yml")
		}
	}

	cfg.Addr = v.GetString("server.addr")
	cfg.MaxUploadBytes = v.GetInt64("server.max_upload_bytes")
	cfg.KnownQuirks = v.GetBool("server.known_quirks")
	cfg.ReadTimeout = v.GetDuration("server.read_timeout")
	cfg.WriteTimeout = v.GetDuration("server.write_timeout")

	// Flags win over both file and environment.
	if cmd.Flags().Changed("addr") {
		cfg.Addr = addr
	}
	if cmd.Flags().Changed("max-upload-bytes") {
		cfg.MaxUploadBytes = maxUpload
	}
	if cmd.Flags().Changed("quirks") {
		cfg.KnownQuirks = quirks
	}

	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 30 * time.Second
	}
	return cfg, nil
}
