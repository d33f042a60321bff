package main

import (
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nrahmani/invoice-dashboard/internal/config"
	"github.com/nrahmani/invoice-dashboard/internal/repository"
	"github.com/nrahmani/invoice-dashboard/pkg/pg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var customerNames = []string{
	"Delba de Oliveira",
	"Lee Robinson",
	"Hector Simpson",
	"Steven Tey",
	"Steph Dietz",
	"Michael Novotny",
	"Emil Kowalski",
	"Amy Burns",
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := config.Load(getEnvPath()); err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	writeConf := pg.Config{
		User:     config.Get().PostgresWriteUser,
		Host:     config.Get().PostgresWriteHost,
		Port:     config.Get().PostgresWritePort,
		Password: config.Get().PostgresWritePassword,
		Database: config.Get().PostgresWriteDatabase,
	}

	db, err := pg.Create(writeConf, false)
	if err != nil {
		log.Fatal().Err(err).Msg("failed connecting to pg")
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	customerIDs := make([]string, 0, len(customerNames))
	for _, name := range customerNames {
		c := &repository.CustomerEntity{
			ID:       uuid.NewString(),
			Name:     name,
			Email:    emailFor(name),
			ImageURL: "/customers/" + slugFor(name) + ".png",
		}
		if err := db.Create(c).Error; err != nil {
			log.Fatal().Err(err).Str("name", name).Msg("failed seeding customer")
		}
		customerIDs = append(customerIDs, c.ID)
		log.Info().Str("id", c.ID).Str("name", name).Msg("seeded customer")
	}

	statuses := []string{"pending", "paid"}
	for i := 0; i < 5*len(customerIDs); i++ {
		inv := &repository.InvoiceEntity{
			ID:         uuid.NewString(),
			CustomerID: customerIDs[rng.Intn(len(customerIDs))],
			Amount:     int64(rng.Intn(100_000) + 100), // cents
			Status:     statuses[rng.Intn(len(statuses))],
			Date:       time.Now().UTC().AddDate(0, 0, -rng.Intn(365)).Format("2006-01-02"),
		}
		if err := db.Create(inv).Error; err != nil {
			log.Fatal().Err(err).Msg("failed seeding invoice")
		}
	}

	log.Info().Int("customers", len(customerIDs)).Int("invoices", 5*len(customerIDs)).Msg("seed complete")
}

func emailFor(name string) string {
	return slugFor(name) + "@example.com"
}

func slugFor(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}

func getEnvPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--env=") {
			return strings.Split(v, "=")[1]
		}
	}
	if _, err := os.Stat(".env"); err == nil {
		return ".env"
	}
	return ""
}
