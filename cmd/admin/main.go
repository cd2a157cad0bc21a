package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"campusdesk/backend/internal/models"
	"campusdesk/backend/internal/storage"

	"github.com/joho/godotenv"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Out-of-band provisioning tool: first super admin, department seeding and
// emergency IP blocks without touching the HTTP surface.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		fmt.Println("DATABASE_URL is not set")
		os.Exit(1)
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     envOr("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
	})

	storageSvc := storage.NewStorageService(db, rdb)

	if len(os.Args) < 2 {
		usage()
	}

	switch os.Args[1] {
	case "create-user":
		if len(os.Args) < 5 {
			fmt.Println("Usage: admin create-user <email> <password> <role> [department]")
			os.Exit(1)
		}
		department := ""
		if len(os.Args) > 5 {
			department = os.Args[5]
		}
		if err := createUser(storageSvc, os.Args[2], os.Args[3], os.Args[4], department); err != nil {
			log.Fatalf("Error creating user: %v", err)
		}
		fmt.Printf("User %s created.\n", os.Args[2])
	case "set-role":
		if len(os.Args) < 4 {
			fmt.Println("Usage: admin set-role <email> <role> [department]")
			os.Exit(1)
		}
		department := ""
		if len(os.Args) > 4 {
			department = os.Args[4]
		}
		if err := setRole(storageSvc, os.Args[2], os.Args[3], department); err != nil {
			log.Fatalf("Error updating role: %v", err)
		}
		fmt.Printf("User %s updated.\n", os.Args[2])
	case "seed-departments":
		if err := seedDepartments(storageSvc); err != nil {
			log.Fatalf("Error seeding departments: %v", err)
		}
		fmt.Println("Default departments seeded.")
	case "block-ip":
		if len(os.Args) < 3 {
			fmt.Println("Usage: admin block-ip <ip> [duration_in_hours] [reason]")
			os.Exit(1)
		}
		var duration int
		if len(os.Args) > 3 {
			duration, err = strconv.Atoi(os.Args[3])
			if err != nil {
				fmt.Println("Invalid duration. Please provide an integer.")
				os.Exit(1)
			}
		}
		reason := "blocked via admin CLI"
		if len(os.Args) > 4 {
			reason = os.Args[4]
		}
		if err := blockIP(storageSvc, os.Args[2], duration, reason); err != nil {
			log.Fatalf("Error blocking IP: %v", err)
		}
		fmt.Printf("IP %s has been blocked.\n", os.Args[2])
	case "unblock-ip":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin unblock-ip <ip>")
			os.Exit(1)
		}
		if err := storageSvc.UnblockIP(os.Args[2]); err != nil {
			log.Fatalf("Error unblocking IP: %v", err)
		}
		fmt.Printf("IP %s has been unblocked.\n", os.Args[2])
	default:
		usage()
	}
}

func usage() {
	fmt.Println("Usage: admin <create-user|set-role|seed-departments|block-ip|unblock-ip> [args]")
	os.Exit(1)
}

func createUser(s storage.Storage, email, password, role, department string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.SaveUser(&models.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.Role(role),
		Department:   department,
		IsActive:     true,
	})
}

func setRole(s storage.Storage, email, role, department string) error {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		return err
	}
	user.Role = models.Role(role)
	if department != "" {
		user.Department = department
	}
	return s.SaveUser(user)
}

func seedDepartments(s storage.Storage) error {
	defaults := []models.Department{
		{Name: "Facilities Management", Code: "facilities_mgmt", Categories: pq.StringArray{"facilities"}, IsActive: true},
		{Name: "Academic Affairs", Code: "academic_affairs", Categories: pq.StringArray{"academic"}, IsActive: true},
		{Name: "Finance Office", Code: "finance_office", Categories: pq.StringArray{"finance"}, IsActive: true},
		{Name: "Human Resources", Code: "human_resources", Categories: pq.StringArray{"staff"}, IsActive: true},
		{Name: "Campus Security", Code: "campus_security", Categories: pq.StringArray{"security"}, IsActive: true},
	}
	for i := range defaults {
		if _, err := s.GetDepartmentByCode(defaults[i].Code); err == nil {
			continue // already seeded
		}
		if err := s.SaveDepartment(&defaults[i]); err != nil {
			return err
		}
	}
	return nil
}

func blockIP(s storage.Storage, ip string, durationHours int, reason string) error {
	block := &models.BlockedIP{IP: ip, Reason: reason, BlockedBy: "admin-cli"}
	if durationHours > 0 {
		expires := time.Now().Add(time.Duration(durationHours) * time.Hour)
		block.ExpiresAt = &expires
	}
	return s.BlockIP(block)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
