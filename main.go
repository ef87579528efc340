package main

import (
	"fmt"
	"os"

	authcmd "github.com/HiraG-62/maillet/cmd/auth"
	"github.com/HiraG-62/maillet/cmd/root"
	"github.com/HiraG-62/maillet/cmd/subscriptions"
	synccmd "github.com/HiraG-62/maillet/cmd/sync"
)

func main() {
	root.Init()

	root.Cmd.AddCommand(authcmd.Cmd)
	root.Cmd.AddCommand(synccmd.Cmd)
	root.Cmd.AddCommand(subscriptions.Cmd)

	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
