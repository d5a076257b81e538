package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/database"
	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/domain"
	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/repository"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "reservas.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	types := repository.NewResourceTypeRepository(db)
	resources := repository.NewResourceRepository(db)

	// ================== USERS ==================
	log.Println("Creating users...")

	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := domain.User{
		Name:         "Administrador",
		Email:        "admin@universidad.edu",
		PasswordHash: string(adminHash),
		Role:         domain.RoleAdmin,
		Active:       true,
	}
	if err := users.Create(ctx, &admin); err != nil {
		log.Fatal("admin create failed:", err)
	}
	log.Println("Admin created: admin@universidad.edu / admin123")

	studentEmails := []string{"ana@universidad.edu", "bruno@universidad.edu", "carla@universidad.edu"}
	studentNames := []string{"Ana Lopez", "Bruno Diaz", "Carla Ruiz"}
	for i, email := range studentEmails {
		hash, _ := bcrypt.GenerateFromPassword([]byte("usuario123"), bcrypt.DefaultCost)
		u := domain.User{
			Name:         studentNames[i],
			Email:        email,
			PasswordHash: string(hash),
			Role:         domain.RoleUsuario,
			Active:       true,
		}
		if err := users.Create(ctx, &u); err != nil {
			log.Fatal("user create failed:", err)
		}
	}
	log.Printf("Users created: %d (password usuario123)", len(studentEmails))

	// ================== CATALOG ==================
	log.Println("Creating resource catalog...")

	typeNames := []struct {
		name string
		desc string
	}{
		{"Aula", "Aulas para clases y tutorias"},
		{"Laboratorio", "Laboratorios de computo y ciencias"},
		{"Equipo", "Equipos audiovisuales y de laboratorio"},
	}

	typeIDs := make(map[string]int64, len(typeNames))
	for _, tn := range typeNames {
		t := domain.ResourceType{
			Name:        tn.name,
			Description: tn.desc,
			State:       domain.ResourceActive,
		}
		if err := types.Create(ctx, &t); err != nil {
			log.Fatal("resource type create failed:", err)
		}
		typeIDs[tn.name] = t.ID
	}

	seedResources := []domain.Resource{
		{TypeID: typeIDs["Aula"], Name: "Aula 101", Location: "Edificio A, piso 1", Capacity: 40, Available: true, State: domain.ResourceActive},
		{TypeID: typeIDs["Aula"], Name: "Aula Magna", Location: "Edificio Central", Capacity: 200, Available: true, State: domain.ResourceActive},
		{TypeID: typeIDs["Laboratorio"], Name: "Laboratorio de Computo 1", Location: "Edificio B, piso 2", Capacity: 25, Available: true, State: domain.ResourceActive},
		{TypeID: typeIDs["Laboratorio"], Name: "Laboratorio de Quimica", Location: "Edificio C, piso 1", Capacity: 20, Available: false, State: domain.ResourceActive},
		{TypeID: typeIDs["Equipo"], Name: "Proyector Epson X41", Location: "Almacen AV", Capacity: 1, Available: true, State: domain.ResourceActive},
	}
	for i := range seedResources {
		if err := resources.Create(ctx, &seedResources[i]); err != nil {
			log.Fatal("resource create failed:", err)
		}
	}
	log.Printf("Resources created: %d", len(seedResources))

	log.Printf("Seed completed at %s", time.Now().Format(time.RFC3339))
}
