// Command pressroom-admin applies migrations and creates users directly
// against the database.
package main

import (
	"log"
	"os"

	"github.com/dmitrijs2005/pressroom/internal/admin"
	"github.com/dmitrijs2005/pressroom/internal/server/config"
)

func main() {
	cfg := config.LoadConfig()

	if err := admin.New(cfg, os.Stdout).App().Run(os.Args); err != nil {
		log.Fatalf("%v", err)
	}
}
