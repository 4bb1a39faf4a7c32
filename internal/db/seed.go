package db

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	seedCities    = []string{"Томск", "Томск", "Томск", "Новосибирск", "Омск"}
	seedGoals     = []string{"Серьезные отношения", "Дружба и общение", "Романтические встречи", "Новые знакомства", "Еще не определился(ась)"}
	seedLifestyle = []string{"Активный спортсмен", "Учеба и развитие", "Работа и карьера", "Творческий поиск", "Спокойный и размеренный", "Вечеринки и тусовки"}
	seedHabits    = []string{"Не курю и не пью", "Иногда выпиваю", "Курю иногда", "Люблю вечеринки", "Курю регулярно"}
	seedInterests = []string{"Музыка", "Кино", "Спорт", "Путешествия", "IT", "Йога", "Настолки", "Искусство", "Фотография", "Книги"}
	seedBios      = []string{
		"Люблю спорт и путешествия, ищу компанию для походов",
		"Программирование и книги, по вечерам наука и кофе",
		"Музыка и рисование, немного дизайн и много творчество",
		"Дом, уют и семья важнее всего, обожаю природа и отдых",
	}
)

// SeedTestData resets the database and populates it with demo profiles.
//
// Behavior:
//  1. Clears every table.
//  2. Creates 20 active profiles (10 male, 10 female) spread over a few cities.
//  3. Generates likes between opposite genders; every 3rd pair is mutual and
//     gets its canonical match row.
//
// Compatible with MySQL, PostgreSQL and SQLite.
func SeedTestData(db *gorm.DB, now time.Time) error {
	r := rand.New(rand.NewSource(now.UnixNano()))

	if err := clearAll(db); err != nil {
		return err
	}
	slog.Info("cleared existing data")

	profiles := make([]Profile, 0, 20)
	for i := 1; i <= 20; i++ {
		gender, target := "male", "female"
		if i > 10 {
			gender, target = "female", "male"
		}
		p := Profile{
			TelegramID:       int64(1000 + i),
			UserID:           uuid.NewString(),
			Username:         fmt.Sprintf("user%d", i),
			Name:             fmt.Sprintf("User %d", i),
			Age:              18 + r.Intn(20),
			Gender:           gender,
			TargetGender:     target,
			Bio:              seedBios[r.Intn(len(seedBios))],
			RelationshipGoal: seedGoals[r.Intn(len(seedGoals))],
			Lifestyle:        seedLifestyle[r.Intn(len(seedLifestyle))],
			Habits:           seedHabits[r.Intn(len(seedHabits))],
			City:             seedCities[r.Intn(len(seedCities))],
			IsActive:         true,
			TrustScore:       50,
			LastLikeReset:    now,
			ReferralCode:     fmt.Sprintf("SEED%04d", i),
			CreatedAt:        now.Add(-time.Duration(r.Intn(500)) * time.Hour),
		}
		if err := db.Create(&p).Error; err != nil {
			return fmt.Errorf("failed to seed profile: %w", err)
		}

		perm := r.Perm(len(seedInterests))[:2+r.Intn(4)]
		for _, idx := range perm {
			if err := db.Create(&ProfileInterest{TelegramID: p.TelegramID, Tag: seedInterests[idx]}).Error; err != nil {
				return fmt.Errorf("failed to seed interest: %w", err)
			}
		}
		photo := ProfilePhoto{TelegramID: p.TelegramID, Position: 0, Ref: fmt.Sprintf("photo-%d", i)}
		if err := db.Create(&photo).Error; err != nil {
			return fmt.Errorf("failed to seed photo: %w", err)
		}
		profiles = append(profiles, p)
	}
	slog.Info("seeded profiles", slog.Int("count", len(profiles)))

	counter := 0
	for _, actor := range profiles {
		for j := 0; j < 6; j++ {
			recipient := profiles[r.Intn(len(profiles))]
			if recipient.Gender == actor.Gender {
				continue
			}

			if err := seedLike(db, actor.TelegramID, recipient.TelegramID, now); err != nil {
				return err
			}
			if counter%3 == 0 {
				if err := seedLike(db, recipient.TelegramID, actor.TelegramID, now); err != nil {
					return err
				}
				u1, u2 := actor.TelegramID, recipient.TelegramID
				if u1 > u2 {
					u1, u2 = u2, u1
				}
				db.Clauses(clause.OnConflict{DoNothing: true}).
					Create(&Match{User1ID: u1, User2ID: u2, CreatedAt: now})
			}
			counter++
		}
	}
	slog.Info("seeded likes", slog.Int("pairs", counter))
	return nil
}

// SeedMinimalTestData inserts three profiles in Томск: 1001 and 1002 like
// each other, 1003 liked 1001.
func SeedMinimalTestData(db *gorm.DB, now time.Time) error {
	if err := clearAll(db); err != nil {
		return err
	}

	profiles := []Profile{
		{TelegramID: 1001, UserID: uuid.NewString(), Name: "user1", Age: 25, Gender: "male", TargetGender: "female", Bio: "Люблю спорт и кино", City: "Томск", IsActive: true, TrustScore: 50, ReferralCode: "MIN00001", LastLikeReset: now},
		{TelegramID: 1002, UserID: uuid.NewString(), Name: "user2", Age: 24, Gender: "female", TargetGender: "male", Bio: "Музыка и путешествия", City: "Томск", IsActive: true, TrustScore: 50, ReferralCode: "MIN00002", LastLikeReset: now},
		{TelegramID: 1003, UserID: uuid.NewString(), Name: "user3", Age: 27, Gender: "female", TargetGender: "male", Bio: "Книги, наука и кофе", City: "Томск", IsActive: true, TrustScore: 50, ReferralCode: "MIN00003", LastLikeReset: now},
	}
	if err := db.Create(&profiles).Error; err != nil {
		return err
	}

	likes := []Like{
		{FromID: 1001, ToID: 1002, CreatedAt: now},
		{FromID: 1002, ToID: 1001, CreatedAt: now},
		{FromID: 1003, ToID: 1001, CreatedAt: now},
	}
	if err := db.Create(&likes).Error; err != nil {
		return err
	}
	return db.Create(&Match{User1ID: 1001, User2ID: 1002, CreatedAt: now}).Error
}

func seedLike(db *gorm.DB, from, to int64, now time.Time) error {
	like := Like{FromID: from, ToID: to, CreatedAt: now}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error; err != nil {
		return fmt.Errorf("failed to seed like: %w", err)
	}
	return nil
}

func clearAll(db *gorm.DB) error {
	models := Models()
	for i := len(models) - 1; i >= 0; i-- {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(models[i]).Error; err != nil {
			return fmt.Errorf("failed to clear %T: %w", models[i], err)
		}
	}
	return nil
}
