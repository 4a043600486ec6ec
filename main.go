package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/zarpado/zarpado-api/api"
	"github.com/zarpado/zarpado-api/auth"
	"github.com/zarpado/zarpado-api/config"
	"github.com/zarpado/zarpado-api/db"
	"github.com/zarpado/zarpado-api/gemini"
	"github.com/zarpado/zarpado-api/history"
	"github.com/zarpado/zarpado-api/mailer"
	"github.com/zarpado/zarpado-api/scraper"
	"github.com/zarpado/zarpado-api/storage"
	"github.com/zarpado/zarpado-api/utils"
)

func main() {
	config.LoadConfig()
	ctx := context.Background()

	client, err := db.Connect(config.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	users := db.NewUserRepo(client)
	garments := db.NewGarmentRepo(client)

	geminiClient, err := gemini.NewClient(ctx, config.GeminiAPIKey)
	if err != nil {
		log.Fatalf("Failed to create Gemini client: %v", err)
	}
	defer geminiClient.Close()

	var store storage.Store
	if config.StorageBackend == "s3" {
		s3Store, err := storage.NewS3Store(ctx, config.AWSRegion, config.AWSBucketName)
		if err != nil {
			log.Fatalf("Failed to create S3 store: %v", err)
		}
		store = s3Store
	} else {
		store = storage.NewDiskStore(config.StorageDir)
	}

	a := &api.API{
		Users:      users,
		Garments:   garments,
		Describer:  geminiClient,
		Compositor: geminiClient,
		Store:      store,
		Ledger:     history.NewLedger(users, store),
		Mailer:     mailer.New(os.Getenv("SENDGRID_API_KEY"), config.SendgridFrom),
		Importer:   scraper.New(),
	}

	identity := auth.ChainProvider{
		&auth.TokenProvider{Users: users},
		&auth.HeaderProvider{Users: users},
	}
	withIdentity := auth.Middleware(identity, false)
	requireIdentity := auth.Middleware(identity, true)

	// CORS Middleware
	corsMiddleware := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS, PUT, PATCH, DELETE")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, user_id")
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next(w, r)
		}
	}

	mux := http.NewServeMux()
	handle := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, corsMiddleware(h))
	}

	// Try-on pipeline
	handle("POST /api/probar_prenda", withIdentity(a.TryOnHandler))

	// Users
	handle("POST /api/usuarios", a.CreateUserHandler)
	handle("GET /api/usuarios", a.ListUsersHandler)
	handle("GET /api/usuarios/{user_id}", a.GetUserHandler)
	handle("PATCH /api/usuarios/{user_id}", a.UpdateUserHandler)
	handle("DELETE /api/usuarios/{user_id}", a.DeleteUserHandler)
	handle("PATCH /api/usuarios/{user_id}/profile_image", a.UploadProfileImageHandler)
	handle("GET /api/usuarios/{user_id}/historial", a.GetHistoryHandler)
	handle("DELETE /api/usuarios/{user_id}/historial/{img_idx}", a.DeleteHistoryAtHandler)
	handle("GET /api/usuarios/{user_id}/favoritos", a.GetFavoritesHandler)
	handle("POST /api/usuarios/{user_id}/favoritos", a.AddFavoriteHandler)
	handle("DELETE /api/usuarios/{user_id}/favoritos/{img_idx}", a.DeleteFavoriteAtHandler)

	// Garments
	handle("POST /api/prendas", a.CreateGarmentHandler)
	handle("GET /api/prendas", a.ListGarmentsHandler)
	handle("POST /api/prendas/importar", a.ImportGarmentHandler)
	handle("GET /api/prendas/{prenda_id}", a.GetGarmentHandler)
	handle("PATCH /api/prendas/{prenda_id}", a.UpdateGarmentHandler)
	handle("DELETE /api/prendas/{prenda_id}", a.DeleteGarmentHandler)
	handle("GET /api/prendas/tipo/{tipo}", a.ListGarmentsByTipoHandler)
	handle("GET /api/prendas/marca/{marca}", a.ListGarmentsByMarcaHandler)

	// Auth
	handle("POST /auth/signup", a.SignupHandler)
	handle("POST /auth/login", a.LoginHandler)
	handle("GET /auth/me", requireIdentity(a.MeHandler))

	// Serve stored images
	mux.Handle("/media/", http.StripPrefix("/media/", http.FileServer(http.Dir(config.StorageDir))))

	fmt.Printf("Server starting on port %s...\n", config.Port)
	if err := http.ListenAndServe(":"+config.Port, utils.LatencyMiddleware(mux)); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
