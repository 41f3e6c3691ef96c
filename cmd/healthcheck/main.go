package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/subosito/gotenv"

	"github.com/clearlane/paysettle/config"
	"github.com/clearlane/paysettle/db"
	"github.com/clearlane/paysettle/ledger/gridnode"
)

func main() {
	environment := flag.String("e", "development", "configuration environment")
	flag.Parse()

	gotenv.Load()
	config.Init(*environment)
	settings := config.Load(config.GetConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	log.Println("Testing ledger node connection...")
	client := gridnode.NewClient(gridnode.Config{RPCURL: settings.Ledger.RPCURL})
	info, err := client.ChainInfo(ctx)
	if err != nil {
		log.Fatalf("failed to reach ledger node at %s: %v", settings.Ledger.RPCURL, err)
	}
	log.Printf("Ledger node OK: network=%s height=%d", info.Network, info.Height)

	if settings.Journal.Backend == "postgres" {
		log.Println("Testing journal database connection...")
		dbConn, err := db.Connect(settings.Database.URL)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		defer dbConn.Close()

		var recorded int
		if err := dbConn.QueryRow("SELECT COUNT(*) FROM settlements").Scan(&recorded); err != nil {
			log.Fatalf("failed to query settlements table: %v", err)
		}
		log.Printf("Journal database OK: %d settlements recorded", recorded)
	}

	log.Println("All checks passed.")
}
