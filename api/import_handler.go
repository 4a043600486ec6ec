package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/zarpado/zarpado-api/config"
	"github.com/zarpado/zarpado-api/imageutil"
	"github.com/zarpado/zarpado-api/models"
	"github.com/zarpado/zarpado-api/utils"
)

// ImportGarmentRequest represents the payload for importing a garment from
// a product page URL.
type ImportGarmentRequest struct {
	URL  string `json:"url"`
	Tipo string `json:"tipo"`
}

// ImportGarmentHandler scrapes a product page, downloads its main image,
// normalizes it to JPEG and creates a catalog garment from it.
func (a *API) ImportGarmentHandler(w http.ResponseWriter, r *http.Request) {
	rlog := utils.NewRequestLog("[Import Garment API]")
	defer rlog.Flush()

	var req ImportGarmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, rlog, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.URL == "" {
		utils.RespondError(w, rlog, "url is required", http.StatusBadRequest)
		return
	}
	if req.Tipo == "" {
		req.Tipo = "importada"
	}
	rlog.Addf("Importing garment from %s", req.URL)

	page, err := a.Importer.FetchGarment(r.Context(), req.URL)
	if err != nil {
		utils.RespondError(w, rlog, fmt.Sprintf("Could not read product page: %v", err), http.StatusBadRequest)
		return
	}

	raw, err := a.Importer.DownloadImage(r.Context(), page.ImageURL)
	if err != nil {
		utils.RespondError(w, rlog, fmt.Sprintf("Could not download product image: %v", err), http.StatusBadGateway)
		return
	}
	jpegData, err := imageutil.EnsureJPEG(raw)
	if err != nil {
		utils.RespondError(w, rlog, "Product image is not a valid image", http.StatusBadRequest)
		return
	}

	nombre := page.Nombre
	if nombre == "" {
		nombre = "prenda importada"
	}
	key := fmt.Sprintf("%s/%s_%s_%s.jpg", config.GarmentDir, nombre, page.Marca, primitive.NewObjectID().Hex())
	if err := a.Store.Save(r.Context(), key, jpegData, "image/jpeg"); err != nil {
		utils.RespondError(w, rlog, "Failed to save garment image", http.StatusInternalServerError)
		return
	}

	garment := &models.Garment{
		Nombre:      nombre,
		Tipo:        req.Tipo,
		Descripcion: fmt.Sprintf("Importada de %s", req.URL),
		Marca:       page.Marca,
		ImagePath:   key,
		CreatedAt:   time.Now(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()
	if _, err := a.Garments.Insert(ctx, garment); err != nil {
		utils.RespondError(w, rlog, "Failed to create garment", http.StatusInternalServerError)
		return
	}
	rlog.Addf("Imported garment %s", garment.ID.Hex())
	utils.RespondJSON(w, http.StatusCreated, garment)
}
