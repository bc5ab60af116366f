package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/JonMunkholm/filety/internal/core"
	_ "github.com/JonMunkholm/filety/internal/core/categories" // register all categories
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
			if msg := core.MapError(err); msg.Code != "ERR000" {
				fmt.Fprintf(os.Stderr, "%s (code %s). %s\n", msg.Message, msg.Code, msg.Action)
			}
		}
		os.Exit(1)
	}
}
