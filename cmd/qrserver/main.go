package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nhdewitt/qr-from-tcp/internal/dispatch"
	"github.com/nhdewitt/qr-from-tcp/internal/log"
	"github.com/nhdewitt/qr-from-tcp/internal/render"
	"github.com/nhdewitt/qr-from-tcp/internal/server"
	"github.com/nhdewitt/qr-from-tcp/internal/symbol"
)

const defaultAddr = "127.0.0.1:3000"

var (
	addr     string
	level    string
	shape    string
	logLevel string
	logJSON  bool
)

var rootCmd = &cobra.Command{
	Use:   "qrserver",
	Short: "Serve QR codes rendered from POSTed text",
	Long: `qrserver renders the body of each POST as a QR code.

  POST /build      text/plain block-glyph rendering
  POST /build/svg  image/svg+xml with rounded-square modules
  POST /build/png  image/png, 600px wide, rounded-square modules

Bodies larger than 64 KiB are rejected with 413.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		lvl, err := log.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		log.Init(lvl, logJSON, os.Stderr)

		ecl, err := symbol.ParseLevel(level)
		if err != nil {
			return err
		}

		sh, err := render.ParseShape(shape)
		if err != nil {
			return err
		}

		cfg := dispatch.DefaultConfig()
		cfg.Encoder = symbol.Encoder{Level: ecl}
		cfg.Shape = sh
		cfg.Instructions = dispatch.Instructions(addr)

		srv, err := server.Serve(addr, dispatch.New(cfg).Handle)
		if err != nil {
			log.Fatalf("Error starting server: %v", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s\n", srv.Addr())
		log.Infof("error-correction level %v, %v modules, body limit %d bytes", ecl, sh, cfg.Guard.Limit)

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		if err := srv.Close(); err != nil {
			log.Warnf("Error closing listener: %v", err)
		}
		log.Infof("Server gracefully stopped")
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVar(&addr, "addr", defaultAddr, "address to listen on")
	rootCmd.Flags().StringVar(&level, "level", symbol.Q.String(), "QR error-correction level (L, M, Q or H)")
	rootCmd.Flags().StringVar(&shape, "shape", render.RoundedSquare.String(), "module shape for svg and png (square, rounded-square or circle)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.Flags().BoolVar(&logJSON, "log-json", false, "log in JSON format")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
