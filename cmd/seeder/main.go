package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/quocanhngo/focushub/internal/config"
	"github.com/quocanhngo/focushub/internal/model"
	"github.com/quocanhngo/focushub/internal/observability"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Common password for all seeded users
const seedPassword = "password123"

func main() {
	users := flag.Int("users", 10, "number of users to seed")
	seed := flag.Int64("seed", 42, "faker seed")
	flag.Parse()

	cfg := config.Load()
	observability.InitLogger(cfg.Log.Level, "focushub-seeder")

	db, err := gorm.Open(postgres.Open(cfg.DB.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		os.Exit(1)
	}

	s := &seeder{db: db, faker: gofakeit.New(*seed), password: string(hashed)}
	seeded := s.seedUsers(*users)
	if len(seeded) >= 3 {
		s.seedStudyRoom(seeded[0], seeded[1:3])
	}
	for _, u := range seeded {
		s.seedPersonalData(u)
	}

	slog.Info("seeding completed", "users", len(seeded), "password", seedPassword)
}

type seeder struct {
	db       *gorm.DB
	faker    *gofakeit.Faker
	password string
}

func (s *seeder) seedUsers(n int) []model.User {
	users := make([]model.User, 0, n)
	for i := 1; i <= n; i++ {
		email := fmt.Sprintf("user%d@focushub.local", i)

		var existing model.User
		if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
			users = append(users, existing)
			continue
		}

		now := time.Now()
		name := s.faker.Name()
		user := model.User{
			Name:            name,
			Email:           email,
			Password:        s.password,
			AuthProvider:    model.AuthProviderEmail,
			EmailVerifiedAt: &now,
			Avatar:          "https://api.dicebear.com/7.x/initials/svg?seed=" + strings.ReplaceAll(name, " ", "+"),
		}
		if err := s.db.Create(&user).Error; err != nil {
			slog.Warn("failed to create user", "email", email, "error", err)
			continue
		}
		slog.Info("created user", "email", email, "name", name)
		users = append(users, user)
	}
	return users
}

// seedStudyRoom creates a shared room with a deck big enough for a FlashMatch
func (s *seeder) seedStudyRoom(owner model.User, members []model.User) {
	var count int64
	s.db.Model(&model.Room{}).Where("owner_id = ? AND name = ?", owner.ID, "Study Group").Count(&count)
	if count > 0 {
		return
	}

	room := model.Room{
		Name:        "Study Group",
		Description: s.faker.Sentence(8),
		OwnerID:     owner.ID,
		InviteCode:  strings.ToUpper(s.faker.LetterN(8)),
		IsPrivate:   true,
		MaxMembers:  20,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&room).Error; err != nil {
			return err
		}
		if err := tx.Create(&model.RoomMember{RoomID: room.ID, UserID: owner.ID, Role: model.RoomRoleOwner}).Error; err != nil {
			return err
		}
		for _, m := range members {
			if err := tx.Create(&model.RoomMember{RoomID: room.ID, UserID: m.ID, Role: model.RoomRoleMember}).Error; err != nil {
				return err
			}
		}

		category := model.Category{UserID: owner.ID, RoomID: &room.ID, Name: "Capitals", Color: s.faker.HexColor()}
		if err := tx.Create(&category).Error; err != nil {
			return err
		}
		for i := 0; i < 10; i++ {
			card := model.Flashcard{
				UserID:     owner.ID,
				RoomID:     &room.ID,
				CategoryID: &category.ID,
				Front:      "Capital of " + s.faker.Country() + "?",
				Back:       s.faker.City(),
			}
			if err := tx.Create(&card).Error; err != nil {
				return err
			}
		}

		return tx.Create(&model.ChatMessage{RoomID: room.ID, UserID: owner.ID, Content: "Welcome to the study group!"}).Error
	})
	if err != nil {
		slog.Warn("failed to seed study room", "error", err)
		return
	}
	slog.Info("created study room", "invite_code", room.InviteCode, "members", len(members)+1)
}

// seedPersonalData gives a user a small personal workspace
func (s *seeder) seedPersonalData(user model.User) {
	var existing int64
	s.db.Model(&model.Goal{}).Where("user_id = ?", user.ID).Count(&existing)
	if existing > 0 {
		return
	}

	now := time.Now().UTC()
	err := s.db.Transaction(func(tx *gorm.DB) error {
		target := now.AddDate(0, 1, 0)
		goal := model.Goal{
			UserID:      user.ID,
			Title:       "Learn " + s.faker.ProgrammingLanguage(),
			Description: s.faker.Sentence(12),
			TargetDate:  &target,
			Progress:    s.faker.Number(0, 90),
		}
		if err := tx.Create(&goal).Error; err != nil {
			return err
		}

		for i := 0; i < 3; i++ {
			due := now.AddDate(0, 0, i+1)
			task := model.Task{
				UserID: user.ID,
				GoalID: &goal.ID,
				Title:  s.faker.Sentence(4),
				DueAt:  &due,
			}
			if err := tx.Create(&task).Error; err != nil {
				return err
			}
		}

		entry := model.JournalEntry{
			UserID:    user.ID,
			Title:     s.faker.Sentence(3),
			Content:   s.faker.Paragraph(1, 3, 12, " "),
			Mood:      s.faker.RandomString([]string{"happy", "calm", "tired", "focused"}),
			EntryDate: now,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		for i := 0; i < 4; i++ {
			session := model.PomodoroSession{
				UserID:          user.ID,
				Kind:            model.SessionKindFocus,
				StartedAt:       now.AddDate(0, 0, -i).Add(-2 * time.Hour),
				DurationSeconds: model.DefaultFocusMinutes * 60,
			}
			if err := tx.Create(&session).Error; err != nil {
				return err
			}
		}

		for i := 0; i < 5; i++ {
			card := model.Flashcard{UserID: user.ID, Front: s.faker.Word(), Back: s.faker.Word()}
			if err := tx.Create(&card).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		slog.Warn("failed to seed personal data", "user_id", user.ID, "error", err)
	}
}
