package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/chambanica/chambanica-api/config"
	"github.com/chambanica/chambanica-api/pkg/helpers"
)

type seedUser struct {
	email    string
	name     string
	phone    string
	bio      string
	rating   float64
	jobsDone int
}

type seedJob struct {
	ownerEmail  string
	title       string
	description string
	category    string
	price       int64
	location    string
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	hash, err := helpers.HashPassword("password123")
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	users := []seedUser{
		{"maria.garcia@example.ni", "María García", "8888-1234", "Plomera con 10 años de experiencia en Managua.", 4.8, 12},
		{"carlos.lopez@example.ni", "Carlos López", "8777-5678", "Electricista certificado, trabajos residenciales y comerciales.", 4.5, 8},
		{"ana.martinez@example.ni", "Ana Martínez", "8666-9012", "Servicio de limpieza profesional para hogares y oficinas.", 5.0, 20},
		{"jorge.mendez@example.ni", "Jorge Méndez", "8555-3456", "Carpintero, muebles a medida.", 0, 0},
	}

	ids := make(map[string]string, len(users))
	for _, u := range users {
		var id string
		err := db.QueryRow(`
			INSERT INTO users (email, password_hash, full_name, phone, bio, rating, completed_jobs)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (email) DO UPDATE SET full_name = EXCLUDED.full_name
			RETURNING id
		`, u.email, hash, u.name, u.phone, u.bio, u.rating, u.jobsDone).Scan(&id)
		if err != nil {
			log.Fatalf("failed to seed user %s: %v", u.email, err)
		}
		ids[u.email] = id
		fmt.Printf("seeded user: %s <%s>\n", u.name, u.email)
	}

	jobs := []seedJob{
		{"maria.garcia@example.ni", "Reparación de tubería en cocina", "Fuga de agua bajo el lavandero, se necesita reparación urgente.", "Plomería", 800, "Managua Centro"},
		{"carlos.lopez@example.ni", "Instalación de abanicos de techo", "Tres abanicos nuevos para instalar en casa de dos plantas.", "Electricidad", 1200, "Altamira"},
		{"ana.martinez@example.ni", "Limpieza profunda de casa", "Casa de 3 habitaciones antes de mudanza, incluye ventanas.", "Limpieza", 1500, "Las Colinas"},
		{"jorge.mendez@example.ni", "Mueble de cocina a medida", "Pantry de madera de 3 metros, diseño incluido.", "Carpintería", 15000, "Carretera Masaya"},
	}

	for _, j := range jobs {
		ownerID := ids[j.ownerEmail]
		var jobID string
		err := db.QueryRow(`
			INSERT INTO jobs (owner_id, owner_name, owner_rating, owner_completed_jobs,
				title, description, category, price, location)
			SELECT u.id, u.full_name, u.rating, u.completed_jobs, $2, $3, $4, $5, $6
			FROM users u WHERE u.id = $1
			RETURNING id
		`, ownerID, j.title, j.description, j.category, j.price, j.location).Scan(&jobID)
		if err != nil {
			log.Fatalf("failed to seed job %q: %v", j.title, err)
		}
		if _, err := db.Exec(`
			UPDATE users SET active_publications = active_publications + 1 WHERE id = $1
		`, ownerID); err != nil {
			log.Fatalf("failed to bump publication counter: %v", err)
		}
		fmt.Printf("seeded job: %s (C$ %d)\n", j.title, j.price)
	}

	fmt.Println("seed complete; all accounts use password \"password123\"")
}
