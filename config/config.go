package config

import (
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

var (
	MongoURI       string
	Port           string
	GeminiAPIKey   string
	StorageDir     string
	StorageBackend string // "disk" (default) or "s3"
	AWSRegion      string
	AWSBucketName  string
	JWTSecret      string
	SendgridFrom   string
)

// Storage subdirectories, relative to StorageDir. They double as the key
// prefixes under which files are saved and served from /media/.
const (
	UserImgDir = "usuarios"
	GarmentDir = "prendas"
	HistoryDir = "historial"
)

// LoadConfig loads environment variables from .env file
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using default values or system environment variables")
	}

	MongoURI = os.Getenv("MONGO_URI")
	if MongoURI == "" {
		MongoURI = "mongodb://localhost:27017/"
	}

	Port = os.Getenv("PORT")
	if Port == "" {
		Port = "8080"
	}

	StorageDir = os.Getenv("STORAGE_DIR")
	if StorageDir == "" {
		StorageDir = "storage"
	}

	StorageBackend = os.Getenv("STORAGE_BACKEND")
	if StorageBackend == "" {
		StorageBackend = "disk"
	}

	AWSRegion = os.Getenv("AWS_REGION")
	AWSBucketName = os.Getenv("AWS_BUCKET_NAME")

	GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	JWTSecret = os.Getenv("JWT_SECRET")

	SendgridFrom = os.Getenv("SENDGRID_FROM_EMAIL")
	if SendgridFrom == "" {
		SendgridFrom = "no-reply@zarpado.app"
	}

	for _, d := range []string{UserImgDir, GarmentDir, HistoryDir} {
		if err := os.MkdirAll(filepath.Join(StorageDir, d), 0o755); err != nil {
			log.Fatalf("Failed to create storage directory %s: %v", d, err)
		}
	}
}
