// Command metamodel categorizes domain models described by class
// descriptor documents.
//
//	metamodel categorize ./model
//	metamodel generate --target ./internal/meta --watch ./model
//	metamodel export --format graphql ./model
//	metamodel query --entity Animal --where name --order -name ./model
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
