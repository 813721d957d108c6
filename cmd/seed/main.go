// Command seed loads demo partners and seed-flagged leads for local
// development. Seed rows are hard-deleted when removed through the API.
package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	"leadflow-service/internal/config"
	"leadflow-service/internal/db"
	"leadflow-service/internal/domain/lead"

	"github.com/joho/godotenv"
	"github.com/oklog/ulid/v2"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on system env vars")
	}
	cfg := config.Load()

	pool, err := db.ConnectDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect: %v", err)
	}
	defer pool.Close()

	ctx := context.Background()

	partners := []struct {
		name   string
		status string
		tier   string
	}{
		{"Sunrise Solar LLC", "active", "network"},
		{"Evergreen HVAC", "active", "network"},
		{"Basement Kings", "active", "general"},
		{"Dormant Insulation Co", "inactive", "general"},
	}

	partnerIDs := make([]int64, 0, len(partners))
	for _, p := range partners {
		var id int64
		err := pool.QueryRow(ctx,
			`INSERT INTO network_partners (company_name, status, tier) VALUES ($1, $2, $3) RETURNING id`,
			p.name, p.status, p.tier,
		).Scan(&id)
		if err != nil {
			log.Fatalf("failed to seed partner %q: %v", p.name, err)
		}
		partnerIDs = append(partnerIDs, id)
	}
	log.Printf("seeded %d partners", len(partnerIDs))

	now := time.Now()
	leads := []struct {
		systemType string
		channel    lead.RoutingChannel
		price      float64
		title      string
		release    time.Duration
	}{
		{"solar", lead.ChannelOpenMarket, 450, "6.2kW rooftop solar replacement", 0},
		{"hvac", lead.ChannelOpenMarket, 275, "Heat pump upgrade, 1960s ranch", 0},
		{"insulation", lead.ChannelInternalNetwork, 180, "Attic insulation after energy audit", 48 * time.Hour},
		{"windows", lead.ChannelInternalNetwork, 320, "Full window replacement quote", 0},
	}

	count := 0
	for _, l := range leads {
		var release sql.NullTime
		if l.release > 0 {
			release = sql.NullTime{Time: now.Add(l.release), Valid: true}
		}
		_, err := pool.Exec(ctx, `
			INSERT INTO leads (
				lead_reference, poster_id, system_type, routing_channel, price,
				title, network_release_at, expiration_date, status, is_seed_data
			) VALUES ($1, 1, $2, $3, $4, $5, $6, $7, 'available', TRUE)`,
			"LD-"+ulid.Make().String(), l.systemType, l.channel, l.price,
			l.title, release, now.AddDate(0, 0, cfg.LeadExpiryDays),
		)
		if err != nil {
			log.Fatalf("failed to seed lead %q: %v", l.title, err)
		}
		count++
	}

	log.Printf("seeded %d leads", count)
}
