package main

import (
	"os"

	"github.com/krishanu7/minigames-bot/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
