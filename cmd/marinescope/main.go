// Command marinescope is a thin CLI over the species resolution and
// enrichment pipeline: ad-hoc searches, browse pages, direct taxon
// lookups, and a small JSON API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
