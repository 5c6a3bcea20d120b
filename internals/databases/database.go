package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"gigstage_backend/internals/configs"
	applicationModel "gigstage_backend/internals/features/events/application/model"
	eventModel "gigstage_backend/internals/features/events/event/model"
	messageModel "gigstage_backend/internals/features/messages/message/model"
	notificationModel "gigstage_backend/internals/features/notifications/notification/model"
	ratingModel "gigstage_backend/internals/features/ratings/rating/model"
	userModel "gigstage_backend/internals/features/users/user/model"
)

var DB *gorm.DB

func ConnectDB() {
	log.Println("connecting to PostgreSQL...")

	sslmode := getenv("DB_SSLMODE", "require")
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=gigstage&options=-c statement_timeout=3000",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
		sslmode,
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // transaction pooling (PgBouncer) friendly
	}), &gorm.Config{
		Logger: configs.NewGormLogger(),
	})
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}
	DB = db
	log.Println("DB connected.")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func WarmUpQueries() {
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := ping(); err != nil {
			log.Printf("warm-up ping err: %v", err)
		}
	}()
}

// Migrate keeps the schema in sync with the feature models. Composite unique
// indexes (one application per user per event, one rating per rater per
// rated user per event) are declared on the models themselves.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userModel.UserModel{},
		&eventModel.EventModel{},
		&applicationModel.ApplicationModel{},
		&applicationModel.ParticipantModel{},
		&messageModel.MessageModel{},
		&ratingModel.RatingModel{},
		&notificationModel.NotificationModel{},
	)
}

func ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
