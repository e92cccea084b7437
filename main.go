package main

import (
	"os"

	"dayflow-api/core/logger"
	"dayflow-api/core/server"
)

func main() {
	if err := server.Run(); err != nil {
		logger.Error("Main:Server:Error", "error", err)
		os.Exit(1)
	}
}
