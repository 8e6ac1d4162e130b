package main

import (
	"log"

	"github.com/medicloud/portal-service/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
