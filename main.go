package main

import (
	"os"

	"github.com/GoMenu-Admin/GoMenu-Admin/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
