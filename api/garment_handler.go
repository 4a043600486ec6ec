package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/zarpado/zarpado-api/config"
	"github.com/zarpado/zarpado-api/models"
	"github.com/zarpado/zarpado-api/utils"
)

// CreateGarmentHandler stores a garment photo under prendas/ and inserts
// the catalog record.
func (a *API) CreateGarmentHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		utils.RespondError(w, nil, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	nombre := r.FormValue("nombre")
	tipo := r.FormValue("tipo")
	descripcion := r.FormValue("descripcion")
	marca := r.FormValue("marca")
	if nombre == "" || tipo == "" || descripcion == "" || marca == "" {
		utils.RespondError(w, nil, "nombre, tipo, descripcion and marca are required", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.RespondError(w, nil, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		utils.RespondError(w, nil, "Failed to read file", http.StatusBadRequest)
		return
	}

	ext := filepath.Ext(header.Filename)
	if ext == "" {
		ext = ".jpg"
	}
	key := fmt.Sprintf("%s/%s_%s_%s%s", config.GarmentDir, nombre, marca, primitive.NewObjectID().Hex(), ext)

	if err := a.Store.Save(r.Context(), key, data, header.Header.Get("Content-Type")); err != nil {
		utils.RespondError(w, nil, "Failed to save garment image", http.StatusInternalServerError)
		return
	}

	garment := &models.Garment{
		Nombre:      nombre,
		Tipo:        tipo,
		Descripcion: descripcion,
		Marca:       marca,
		ImagePath:   key,
		CreatedAt:   time.Now(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()
	if _, err := a.Garments.Insert(ctx, garment); err != nil {
		utils.RespondError(w, nil, "Failed to create garment", http.StatusInternalServerError)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, garment)
}

// GetGarmentHandler returns a garment by id.
func (a *API) GetGarmentHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()
	garment, err := a.Garments.FindByID(ctx, r.PathValue("prenda_id"))
	if err != nil {
		utils.RespondError(w, nil, "Garment not found", statusFor(err))
		return
	}
	utils.RespondJSON(w, http.StatusOK, garment)
}

// ListGarmentsHandler returns the whole catalog.
func (a *API) ListGarmentsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()
	garments, err := a.Garments.List(ctx)
	if err != nil {
		utils.RespondError(w, nil, "Failed to list garments", http.StatusInternalServerError)
		return
	}
	utils.RespondJSON(w, http.StatusOK, garments)
}

// ListGarmentsByTipoHandler filters the catalog by garment type.
func (a *API) ListGarmentsByTipoHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()
	garments, err := a.Garments.ListByTipo(ctx, r.PathValue("tipo"))
	if err != nil {
		utils.RespondError(w, nil, "Failed to list garments", http.StatusInternalServerError)
		return
	}
	utils.RespondJSON(w, http.StatusOK, garments)
}

// ListGarmentsByMarcaHandler filters the catalog by brand.
func (a *API) ListGarmentsByMarcaHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()
	garments, err := a.Garments.ListByMarca(ctx, r.PathValue("marca"))
	if err != nil {
		utils.RespondError(w, nil, "Failed to list garments", http.StatusInternalServerError)
		return
	}
	utils.RespondJSON(w, http.StatusOK, garments)
}

// UpdateGarmentHandler patches garment fields and optionally replaces its
// image.
func (a *API) UpdateGarmentHandler(w http.ResponseWriter, r *http.Request) {
	garmentID := r.PathValue("prenda_id")

	fields := map[string]interface{}{}
	for _, name := range []string{"nombre", "tipo", "descripcion", "marca"} {
		if v := r.FormValue(name); v != "" {
			fields[name] = v
		}
	}

	if file, header, err := r.FormFile("file"); err == nil {
		defer file.Close()
		data, readErr := io.ReadAll(file)
		if readErr != nil {
			utils.RespondError(w, nil, "Failed to read file", http.StatusBadRequest)
			return
		}
		ext := filepath.Ext(header.Filename)
		if ext == "" {
			ext = ".jpg"
		}
		key := fmt.Sprintf("%s/%s_%s%s", config.GarmentDir, garmentID, primitive.NewObjectID().Hex(), ext)
		if err := a.Store.Save(r.Context(), key, data, header.Header.Get("Content-Type")); err != nil {
			utils.RespondError(w, nil, "Failed to save garment image", http.StatusInternalServerError)
			return
		}
		fields["image_path"] = key
	}

	if len(fields) == 0 {
		utils.RespondError(w, nil, "Nothing to update", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()
	if err := a.Garments.UpdateFields(ctx, garmentID, fields); err != nil {
		utils.RespondError(w, nil, "Garment not found", statusFor(err))
		return
	}
	garment, err := a.Garments.FindByID(ctx, garmentID)
	if err != nil {
		utils.RespondError(w, nil, "Failed to fetch garment", statusFor(err))
		return
	}
	utils.RespondJSON(w, http.StatusOK, garment)
}

// DeleteGarmentHandler removes the record and best-effort deletes its
// image file.
func (a *API) DeleteGarmentHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()

	garment, err := a.Garments.FindByID(ctx, r.PathValue("prenda_id"))
	if err != nil {
		utils.RespondError(w, nil, "Garment not found", statusFor(err))
		return
	}
	if garment.ImagePath != "" {
		if err := a.Store.Delete(r.Context(), garment.ImagePath); err != nil {
			fmt.Printf("garment delete: could not remove %s: %v\n", garment.ImagePath, err)
		}
	}
	if err := a.Garments.Delete(ctx, garment.ID.Hex()); err != nil {
		utils.RespondError(w, nil, "Garment not found", statusFor(err))
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"msg": "Garment deleted"})
}
