package main

import (
	"fmt"
	"log"
	"os"

	"camrelay/internal/app"
	"camrelay/internal/config"

	"github.com/spf13/pflag"
)

func main() {
	var (
		envFile   = pflag.String("env-file", ".env", "Optional dotenv file loaded before the environment")
		host      = pflag.String("host", "", "Bind host (overrides HOST)")
		port      = pflag.Int("port", 0, "Bind port (overrides PORT)")
		uploadDir = pflag.String("upload-dir", "", "Upload directory (overrides UPLOAD_DIR)")
	)
	pflag.Parse()

	cfg := config.Load(*envFile)
	if *host != "" {
		cfg.Host = *host
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *uploadDir != "" {
		cfg.UploadDirectory = *uploadDir
	}

	application, err := app.NewApp(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
