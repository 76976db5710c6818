package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HadiaEL/CABINET-MEDICAL/internal/db"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	if err := seedSpecialties(context.Background(), pool); err != nil {
		log.Fatalf("seed specialties: %v", err)
	}
	if err := seedDoctors(context.Background(), pool, 30); err != nil {
		log.Fatalf("seed doctors: %v", err)
	}
	if err := seedPatients(context.Background(), pool, 500); err != nil {
		log.Fatalf("seed patients: %v", err)
	}
	if err := seedAvailabilities(context.Background(), pool); err != nil {
		log.Fatalf("seed availabilities: %v", err)
	}

	log.Println("seed complete")
}

var specialties = []struct {
	Name        string
	Description string
}{
	{"Cardiologie", "Spécialiste des maladies cardiovasculaires"},
	{"Dermatologie", "Spécialiste des maladies de la peau"},
	{"Médecine générale", "Suivi médical de premier recours"},
	{"Orthopédie", "Spécialiste de l'appareil locomoteur"},
	{"Endocrinologie", "Spécialiste des glandes et hormones"},
	{"Neurologie", "Spécialiste du système nerveux"},
	{"Pédiatrie", "Médecine des enfants"},
	{"Psychiatrie", "Santé mentale"},
	{"Ophtalmologie", "Spécialiste des yeux"},
	{"ORL", "Oto-rhino-laryngologie"},
}

func seedSpecialties(ctx context.Context, pool *pgxpool.Pool) error {
	log.Printf("seeding %d specialties", len(specialties))

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, s := range specialties {
		_, err := tx.Exec(ctx, `
			INSERT INTO specialites (nom, description, created_at)
			VALUES ($1, $2, now())
			ON CONFLICT (nom) DO NOTHING
		`, s.Name, s.Description)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("specialties seeded")
	return nil
}

func seedDoctors(ctx context.Context, pool *pgxpool.Pool, count int) error {
	log.Printf("seeding %d doctors", count)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < count; i++ {
		_, err := tx.Exec(ctx, `
			INSERT INTO medecins (nom, prenom, email, telephone, numero_ordre, specialite_id, created_at)
			VALUES ($1, $2, $3, $4, $5,
				(SELECT id FROM specialites ORDER BY random() LIMIT 1),
				now())
		`,
			gofakeit.LastName(),
			gofakeit.FirstName(),
			gofakeit.Email(),
			gofakeit.Phone(),
			"ORD-"+gofakeit.DigitN(5),
		)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("doctors seeded")
	return nil
}

func seedPatients(ctx context.Context, pool *pgxpool.Pool, count int) error {
	log.Printf("seeding %d patients", count)

	const batchSize = 100

	for offset := 0; offset < count; offset += batchSize {
		end := offset + batchSize
		if end > count {
			end = count
		}

		tx, err := pool.Begin(ctx)
		if err != nil {
			return err
		}

		for i := offset; i < end; i++ {
			_, err := tx.Exec(ctx, `
				INSERT INTO patients (nom, prenom, email, telephone, created_at)
				VALUES ($1, $2, $3, $4, now())
			`,
				gofakeit.LastName(),
				gofakeit.FirstName(),
				gofakeit.Email(),
				gofakeit.Phone(),
			)
			if err != nil {
				_ = tx.Rollback(ctx)
				return err
			}
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		log.Printf("patients seeded: %d/%d", end, count)
	}

	log.Println("patients seeded")
	return nil
}

// seedAvailabilities gives every doctor a morning window on two random
// workdays. Windows are 09:00-12:00, so they always satisfy start < end and
// never overlap each other on distinct days.
func seedAvailabilities(ctx context.Context, pool *pgxpool.Pool) error {
	log.Println("seeding availabilities")

	_, err := pool.Exec(ctx, `
		INSERT INTO disponibilites_medecin
			(medecin_id, jour_semaine_id, heure_debut_id, heure_fin_id, actif, created_at)
		SELECT m.id, j.id,
			(SELECT id FROM heures_jour WHERE heure = '09:00'),
			(SELECT id FROM heures_jour WHERE heure = '12:00'),
			TRUE, now()
		FROM medecins m
		JOIN LATERAL (
			SELECT id FROM jours_semaine WHERE ouvrable ORDER BY random() LIMIT 2
		) j ON TRUE
		ON CONFLICT ON CONSTRAINT uk_medecin_jour_heure DO NOTHING
	`)
	if err != nil {
		return err
	}

	log.Println("availabilities seeded")
	return nil
}
