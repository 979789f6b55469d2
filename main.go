package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tunecatcher/tunecatcher/internal/downloader"
	"github.com/tunecatcher/tunecatcher/internal/session"
)

// saveFolder is the download root, relative to wherever the tool is run.
const saveFolder = "Downloads"

func main() {
	root := saveFolder
	for _, dir := range []string{
		filepath.Join(root, downloader.AudioSubdir),
		filepath.Join(root, downloader.VideoSubdir),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "error: cannot create output directory %s: %v\n", dir, err)
			os.Exit(1)
		}
	}

	controller := session.NewController(root, downloader.Process)
	if err := controller.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
