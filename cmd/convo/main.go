// Command convo is a terminal chat client for convoagent. It loads an
// optional .env file, reads configuration (file, environment, flags), builds
// the selected provider adapter and runs either an interactive chat loop or a
// single question.
package main

import (
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
)

// version info injected via ldflags:
// go build -ldflags "-X main.version=0.1.0"
var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
