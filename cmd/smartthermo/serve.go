package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/smartthermo/internal/config"
	"github.com/muurk/smartthermo/internal/discovery"
	"github.com/muurk/smartthermo/internal/logging"
	"github.com/muurk/smartthermo/internal/server"
	"github.com/muurk/smartthermo/internal/version"
)

// Serve command flags
var (
	serveHost     string
	servePort     int
	serveCert     string
	serveKey      string
	serveAutoSave bool
	serveID       string
	serveNoMDNS   bool
	serveNoWatch  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the configuration over HTTP",
	Long: `Serve the configuration API and the WebSocket change feed.

The server is advertised over mDNS as _smartthermo._tcp so 'smartthermo scan'
and companion apps can find it. Edits made to the config file by other
processes (including the setup menu) are picked up and pushed to connected
WebSocket clients.

Provide --cert and --key to serve over HTTPS.`,
	Example: `  # Serve on the default port
  smartthermo serve

  # Write every API change to disk immediately
  smartthermo serve --autosave

  # HTTPS on a custom port with debug logging
  smartthermo serve --port 8443 --cert cert.pem --key key.pem --log-level debug`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Listen address (empty = all interfaces)")
	serveCmd.Flags().IntVar(&servePort, "port", server.DefaultPort, "Listen port")
	serveCmd.Flags().StringVar(&serveCert, "cert", "", "Path to TLS certificate file")
	serveCmd.Flags().StringVar(&serveKey, "key", "", "Path to TLS private key file")
	serveCmd.Flags().BoolVar(&serveAutoSave, "autosave", false, "Save the config file after every change")
	serveCmd.Flags().StringVar(&serveID, "id", "", "Device ID advertised over mDNS (default: hostname)")
	serveCmd.Flags().BoolVar(&serveNoMDNS, "no-mdns", false, "Do not advertise the server over mDNS")
	serveCmd.Flags().BoolVar(&serveNoWatch, "no-watch", false, "Do not reload when the config file changes on disk")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if (serveCert == "") != (serveKey == "") {
		return fmt.Errorf("both --cert and --key must be provided together, or neither")
	}

	store, err := openStore(serveAutoSave)
	if err != nil {
		return err
	}

	srv, err := server.New(&server.Config{
		Host:     serveHost,
		Port:     servePort,
		CertPath: serveCert,
		KeyPath:  serveKey,
	}, store)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	if err := srv.Listen(); err != nil {
		return err
	}

	if !serveNoWatch {
		watcher, err := config.NewWatcher(store, 0, srv.ReportReload)
		if err != nil {
			return err
		}
		defer watcher.Stop()
	}

	if !serveNoMDNS {
		id := serveID
		if id == "" {
			id, _ = os.Hostname()
		}
		adv, err := discovery.Advertise(id, srv.Port(), version.Version)
		if err != nil {
			// The API works without discovery; clients can still connect by address.
			logging.Warn("mDNS advertisement failed", zap.Error(err))
		} else {
			defer adv.Stop()
		}
	}

	fmt.Printf("Serving %s on port %d (Ctrl+C to stop)\n", store.FilePath(), srv.Port())
	return srv.Start()
}
