package main

import (
	"fmt"
	"os"
	"strings"

	"reeltalk/config"
	"reeltalk/logger"
	"reeltalk/service"
)

const CliVersion = "1.0.0"

var exit = os.Exit

func main() {
	RealMain()
}

// RealMain dispatches os.Args[1] and parses the remaining flags.
func RealMain() {
	if len(os.Args) < 2 {
		printHelp()
		exit(1)
		return
	}

	cmd := strings.ToLower(os.Args[1])
	switch cmd {
	case "help", "-h", "--help":
		printHelp()
	case "version":
		fmt.Printf("reeltalk version %s\n", CliVersion)
	case "serve", "init", "clean", "backup", "restore", "promote":
		cfg, err := config.Parse(os.Args[2:])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			exit(1)
			return
		}
		logger.InitLogger(logger.ParseLevel(cfg.LogLevel))

		if code := service.HandleCommand(cfg, append([]string{cmd}, cfg.Args...)); code != 0 {
			exit(code)
		}
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		printHelp()
		exit(1)
	}
}

func printHelp() {
	service.PrintHelp()
}
