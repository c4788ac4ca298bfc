package main

import (
	"flag"

	"github.com/maniya81/whatsapp-export-chat-viewer/internal/daemon"
	"go.uber.org/fx"
)

func main() {
	addrFlag := flag.String("addr", "", "HTTP listen address (overrides config http_addr)")
	flag.Parse()

	app := fx.New(
		daemon.Module(daemon.Params{HTTPAddr: *addrFlag}),
	)

	app.Run()
}
