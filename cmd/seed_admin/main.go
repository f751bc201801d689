// seed_admin aplica las migraciones y crea (o restablece) el usuario administrador.
//
// Uso: go run ./cmd/seed_admin -username admin -password <clave> [-name "Administrador"]
// Si no se pasan flags se leen ADMIN_USERNAME, ADMIN_PASSWORD y ADMIN_NAME.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/inventario-ventas/internal/application/dto"
	"github.com/jhoicas/inventario-ventas/internal/application/usecase"
	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
	"github.com/jhoicas/inventario-ventas/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-ventas/pkg/config"
	"github.com/jhoicas/inventario-ventas/pkg/logger"
)

func main() {
	username := flag.String("username", envOr("ADMIN_USERNAME", "admin"), "usuario administrador")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "contraseña (mínimo 8 caracteres)")
	name := flag.String("name", envOr("ADMIN_NAME", "Administrador"), "nombre visible")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	if err := postgres.Migrate(cfg.DB.ConnectionString(), log.Component("migrate")); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	db := postgres.NewTimeoutQuerier(pool, cfg.DB.QueryTimeout)
	users := postgres.NewUserRepository(db)
	uc := usecase.NewUserUseCase(users, postgres.NewSaleRepository(db), nil, log.Zerolog())

	existing, err := users.GetByUsername(ctx, *username)
	if err != nil {
		log.Fatal().Err(err).Msg("buscar usuario")
	}
	if existing == nil {
		out, err := uc.Create(ctx, dto.CreateUserRequest{
			Username: *username,
			Password: *password,
			Name:     *name,
			Role:     entity.RoleAdmin,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("crear administrador")
		}
		log.Info().Str("user_id", out.ID).Str("username", out.Username).Msg("administrador creado")
		return
	}

	// restablece contraseña, rol y estado del usuario existente
	hash, err := uc.HashPassword(*password)
	if err != nil {
		log.Fatal().Err(err).Msg("contraseña")
	}
	existing.PasswordHash = hash
	existing.Role = entity.RoleAdmin
	existing.Active = true
	existing.UpdatedAt = time.Now()
	if err := users.Update(ctx, existing); err != nil {
		log.Fatal().Err(err).Msg("actualizar administrador")
	}
	if err := postgres.NewSessionRepository(db).DeactivateByUser(ctx, existing.ID); err != nil {
		log.Warn().Err(err).Msg("no se pudieron cerrar las sesiones previas")
	}
	log.Info().Str("user_id", existing.ID).Str("username", existing.Username).Msg("administrador restablecido")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
