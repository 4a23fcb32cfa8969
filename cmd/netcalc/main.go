package main

import (
	"netcalc/internal/app"

	"github.com/charmbracelet/log"
)

func main() {
	if err := app.Run(); err != nil {
		log.Fatal("netcalc terminated", "error", err)
	}
}
