package cmd

import (
	"net"
	"net/http"
	"os"

	"github.com/fzft/go-intset/log"
	"github.com/fzft/go-intset/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewRootCmd creates the intset-cli command.
func NewRootCmd(version string) *cobra.Command {
	cfg := &Config{}
	cmd := &cobra.Command{
		Use:   "intset-cli [flags] [command [arg ...]]",
		Short: "intset-cli is an interactive shell over in-memory integer sets.",
		Long: `intset-cli keeps named sets of uint32 keys in memory and lets you
add, remove and query keys, watch the sets grow and compact, and compare
them. With a command on the command line it runs that command and exits,
otherwise it starts an interactive prompt. Type HELP at the prompt for the
list of commands.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, cfg, args)
		},
	}
	cfg.bindFlags(cmd.Flags())
	// everything after the command name belongs to the command
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func run(cmd *cobra.Command, cfg *Config, args []string) error {
	if err := log.InitLogger(cfg.LogLevel); err != nil {
		return err
	}
	defer log.Logger.Sync()
	logStartup(cmd.Version, cfg, len(args) == 0)

	session := NewSession(cfg.Tagged)
	if cfg.MetricsAddr != "" {
		srv, err := serveMetrics(cfg.MetricsAddr, session)
		if err != nil {
			return err
		}
		defer srv.Close()
	}

	cli := &Cli{
		config:  cfg,
		session: session,
		out:     cmd.OutOrStdout(),
		raw:     cfg.rawOutput(os.Stdout),
	}
	if len(args) > 0 {
		return cli.runOnce(args)
	}
	return cli.repl()
}

func logStartup(version string, cfg *Config, interactive bool) {
	log.Logger.Info("intset-cli starting",
		zap.String("version", version),
		zap.Bool("tagged", cfg.Tagged),
		zap.Bool("interactive", interactive),
		zap.String("metrics_addr", cfg.MetricsAddr))
}

// serveMetrics exposes the session's sets on /metrics until the returned
// server is closed.
func serveMetrics(addr string, session *Session) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Logger.Error("listen error", zap.String("addr", addr), zap.Error(err))
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.NewRegistry(session), promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux}

	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Logger.Error("metrics server stopped", zap.Error(err))
		}
	}()
	log.Logger.Info("serving metrics", zap.String("addr", ln.Addr().String()))
	return srv, nil
}
