// Command seed registers a demo tenant with a few services and prints a
// bcrypt hash for the admin API key.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/crypto/bcrypt"

	"bookingbot/config"
	"bookingbot/database"
	"bookingbot/database/repository"
	"bookingbot/models"
)

type demoService struct {
	name     string
	price    float64
	duration int
}

var demoServices = []demoService{
	{"Corte feminino", 80, 60},
	{"Escova", 45, 30},
	{"Manicure", 35, 30},
	{"Coloração", 150, 90},
}

func main() {
	name := pflag.String("name", "Studio Demo", "tenant display name")
	channel := pflag.String("channel", "", "bot phone number the tenant answers on (defaults to BOT_CHANNEL_ID)")
	apiKey := pflag.String("admin-key", "", "if set, print the ADMIN_API_KEY_HASH for this key and exit")
	pflag.Parse()

	if *apiKey != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*apiKey), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Failed to hash admin key: %v", err)
		}
		fmt.Printf("ADMIN_API_KEY_HASH=%s\n", hash)
		return
	}

	config.LoadConfig()
	if *channel == "" {
		*channel = config.AppConfig.BotChannelID
	}
	if *channel == "" {
		log.Fatal("No channel given: pass --channel or set BOT_CHANNEL_ID")
	}

	database.InitDB()
	defer database.CloseDB(5 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repos := repository.NewMongoRepositories(database.DB())
	if err := repos.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	tenant := &models.Tenant{Name: *name, ChannelID: *channel, Active: true}
	if err := repos.Tenants.Create(ctx, tenant); err != nil {
		if errors.Is(err, models.ErrChannelTaken) {
			log.Fatalf("Channel %s already belongs to a tenant", *channel)
		}
		log.Fatalf("Failed to create tenant: %v", err)
	}
	log.Printf("Created tenant %s (%s) on channel %s", tenant.Name, tenant.ID, tenant.ChannelID)

	for i, s := range demoServices {
		svc := &models.Service{
			TenantID:        tenant.ID,
			Name:            s.name,
			Price:           s.price,
			DurationMinutes: s.duration,
			Active:          true,
			// Spaced so the menu keeps this order.
			CreatedAt: time.Now().UTC().Add(time.Duration(i) * time.Second),
		}
		if err := repos.Services.Create(ctx, svc); err != nil {
			log.Fatalf("Failed to create service %q: %v", s.name, err)
		}
		log.Printf("  + %s (R$ %.2f, %d min)", svc.Name, svc.Price, svc.DurationMinutes)
	}
	log.Println("Seeding complete")
}
