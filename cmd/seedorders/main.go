// Command seedorders synthesizes historical orders for an existing customer
// and appends them to the orders collection. It is operator tooling: a single
// run is one load-modify-save pass, and nothing is written when the customer
// or the products are missing.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"dollers-electro/config"
	"dollers-electro/logger"
	"dollers-electro/seed"
	"dollers-electro/store"
)

func main() {
	_ = godotenv.Load()

	var (
		email   = flag.String("email", "", "customer email to attach the orders to (required)")
		idxList = flag.String("products", "0", "comma-separated product indexes, one per line item")
		count   = flag.Int("count", 1, "number of orders to synthesize")
		daysAgo = flag.Int("days-ago", 7, "days in the past for the newest order")
		numFrom = flag.Int("number-start", 1000, "first display order number")
	)
	flag.Parse()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "usage: seedorders -email customer@example.com [-products 0,1] [-count 2] [-days-ago 7]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	indexes, err := parseIndexes(*idxList)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid -products flag")
	}

	ctx := context.Background()
	st, cleanup, err := store.Open(ctx, store.Options{
		Backend:  cfg.Store.Backend,
		DataDir:  cfg.Store.DataDir,
		Strict:   cfg.Store.Strict,
		MongoURI: cfg.Mongo.URI,
		MongoDB:  cfg.Mongo.Database,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open store")
	}
	defer cleanup()

	created, err := seed.Orders(ctx, st, log, seed.OrdersConfig{
		CustomerEmail:    *email,
		ProductIndexes:   indexes,
		Count:            *count,
		DaysAgo:          *daysAgo,
		OrderNumberStart: *numFrom,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}

	for _, o := range created {
		fmt.Printf("created order %s (%s) total %.2f\n", o.OrderNumber, o.ID, o.Total)
	}
}

func parseIndexes(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	indexes := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("not a product index: %q", p)
		}
		indexes = append(indexes, n)
	}
	return indexes, nil
}
