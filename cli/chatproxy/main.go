package main

import (
	"os"

	chatproxycmder "github.com/jessearmand/chatproxy/cmd/chatproxy"
)

func main() {
	cmd := chatproxycmder.NewChatProxyCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
