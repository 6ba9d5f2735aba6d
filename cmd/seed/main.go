package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/vetdesk/booking/internal/availability"
	"github.com/vetdesk/booking/internal/config"
	"github.com/vetdesk/booking/internal/db"
	"github.com/vetdesk/booking/internal/identity"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Str("service", "seed").Logger()
	log.Info().Msg("seed starting")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load error")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	seedCtx := context.Background()

	doctorIDs, err := seedDoctors(seedCtx, pool, 10)
	if err != nil {
		log.Fatal().Err(err).Msg("seed doctors")
	}
	patientIDs, err := seedPatients(seedCtx, pool, 50)
	if err != nil {
		log.Fatal().Err(err).Msg("seed patients")
	}
	if err := seedPets(seedCtx, pool, patientIDs); err != nil {
		log.Fatal().Err(err).Msg("seed pets")
	}

	// Demo tokens for poking the API and the websocket endpoint.
	tokens := identity.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	printToken(tokens, "doctor", doctorIDs[0], identity.RoleDoctor)
	printToken(tokens, "patient", patientIDs[0], identity.RoleUser)

	log.Info().Int("doctors", len(doctorIDs)).Int("patients", len(patientIDs)).Msg("seed complete")
}

func printToken(tokens *identity.TokenManager, label string, id uuid.UUID, role identity.Role) {
	token, err := tokens.Mint(identity.Identity{ID: id, Role: role})
	if err == nil {
		fmt.Printf("%s %s token: %s\n", label, id, token)
	}
}

var specialties = []string{
	"Small Animal Medicine",
	"Feline Medicine",
	"Exotic Pets",
	"Dermatology",
	"Surgery",
	"Dentistry",
	"Cardiology",
}

func seedDoctors(ctx context.Context, pool *pgxpool.Pool, count int) ([]uuid.UUID, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	weekdays := []availability.Weekday{
		availability.Monday, availability.Tuesday, availability.Wednesday,
		availability.Thursday, availability.Friday,
	}

	ids := make([]uuid.UUID, 0, count)
	for i := 0; i < count; i++ {
		id := uuid.New()

		_, err := tx.Exec(ctx, `
			INSERT INTO users (id, email, firstname, lastname, role, created_at)
			VALUES ($1, $2, $3, $4, 'doctor', now())
		`, id, gofakeit.Email(), gofakeit.FirstName(), gofakeit.LastName())
		if err != nil {
			return nil, err
		}

		// Weekday mornings plus afternoons three days a week.
		days := weekdays[:3+gofakeit.Number(0, 2)]
		times := make(map[availability.Weekday][]availability.TimeRange, len(days))
		for j, d := range days {
			ranges := []availability.TimeRange{{From: "09:00", To: "12:00"}}
			if j%2 == 0 {
				ranges = append(ranges, availability.TimeRange{From: "14:00", To: "17:00"})
			}
			times[d] = ranges
		}
		timesJSON, err := json.Marshal(times)
		if err != nil {
			return nil, err
		}
		dayNames := make([]string, len(days))
		for j, d := range days {
			dayNames[j] = string(d)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO doctor_profiles
				(doctor_id, bio, specialization, years_experience, address,
				 available_days, available_times, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		`, id, gofakeit.Sentence(12), specialties[gofakeit.Number(0, len(specialties)-1)],
			gofakeit.Number(1, 30), gofakeit.Address().Address, dayNames, timesJSON)
		if err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	return ids, tx.Commit(ctx)
}

func seedPatients(ctx context.Context, pool *pgxpool.Pool, count int) ([]uuid.UUID, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ids := make([]uuid.UUID, 0, count)
	for i := 0; i < count; i++ {
		id := uuid.New()
		_, err := tx.Exec(ctx, `
			INSERT INTO users (id, email, firstname, lastname, role, created_at)
			VALUES ($1, $2, $3, $4, 'user', now())
		`, id, gofakeit.Email(), gofakeit.FirstName(), gofakeit.LastName())
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, tx.Commit(ctx)
}

var species = []string{"dog", "cat", "bird", "other"}

func seedPets(ctx context.Context, pool *pgxpool.Pool, ownerIDs []uuid.UUID) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, ownerID := range ownerIDs {
		for i := 0; i < gofakeit.Number(1, 3); i++ {
			_, err := tx.Exec(ctx, `
				INSERT INTO pets (id, owner_id, name, species, breed, age, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, now())
			`, uuid.New(), ownerID, gofakeit.PetName(),
				species[gofakeit.Number(0, len(species)-1)], gofakeit.Dog(), gofakeit.Number(1, 15))
			if err != nil {
				return err
			}
		}
	}

	return tx.Commit(ctx)
}
