package api

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/zarpado/zarpado-api/config"
	"github.com/zarpado/zarpado-api/db"
	"github.com/zarpado/zarpado-api/gemini"
	"github.com/zarpado/zarpado-api/imageutil"
	"github.com/zarpado/zarpado-api/utils"
)

// TryOnHandler runs the virtual try-on pipeline: normalize both uploads,
// describe the garment, composite it onto the subject, persist the result
// and update the user's history. Every step must succeed before the next
// one starts; any failure ends the request with a step-specific status.
func (a *API) TryOnHandler(w http.ResponseWriter, r *http.Request) {
	rlog := utils.NewRequestLog("[Try-On API]")
	defer rlog.Flush()

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		utils.RespondError(w, rlog, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	userID := r.FormValue("user_id")
	if userID == "" {
		utils.RespondError(w, rlog, "user_id is required", http.StatusBadRequest)
		return
	}
	rlog.Addf("Try-On Request: UserID=%s", userID)

	garmentUpload, err := formFileBytes(r, "file_prenda")
	if err != nil {
		utils.RespondError(w, rlog, "file_prenda is required", http.StatusBadRequest)
		return
	}
	subjectUpload, err := formFileBytes(r, "file_usuario")
	if err != nil {
		utils.RespondError(w, rlog, "file_usuario is required", http.StatusBadRequest)
		return
	}

	// Confirm the user exists before spending model calls or touching
	// disk; a generated artifact must never outlive its owner lookup.
	lookupCtx, cancelLookup := context.WithTimeout(r.Context(), dbTimeout)
	defer cancelLookup()
	if _, err := a.Users.FindByID(lookupCtx, userID); err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			utils.RespondError(w, rlog, "User not found", http.StatusNotFound)
		} else {
			utils.RespondError(w, rlog, "Failed to fetch user", http.StatusInternalServerError)
		}
		return
	}

	garmentJPEG, err := imageutil.EnsureJPEG(garmentUpload)
	if err != nil {
		utils.RespondError(w, rlog, "Invalid garment image", http.StatusBadRequest)
		return
	}
	subjectJPEG, err := imageutil.EnsureJPEG(subjectUpload)
	if err != nil {
		utils.RespondError(w, rlog, "Invalid subject image", http.StatusBadRequest)
		return
	}

	describeCtx, cancelDescribe := context.WithTimeout(r.Context(), describeTimeout)
	defer cancelDescribe()
	description, err := a.Describer.DescribeGarment(describeCtx, garmentJPEG)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || describeCtx.Err() != nil {
			utils.RespondError(w, rlog, "Garment description timed out", http.StatusGatewayTimeout)
		} else {
			utils.RespondError(w, rlog, fmt.Sprintf("Failed to describe garment: %v", err), http.StatusInternalServerError)
		}
		return
	}
	rlog.Addf("Garment described (%d chars)", len(description))

	generateCtx, cancelGenerate := context.WithTimeout(r.Context(), compositeTimeout)
	defer cancelGenerate()
	composited, err := a.Compositor.GenerateComposite(generateCtx, description, garmentJPEG, subjectJPEG)
	if err != nil {
		switch {
		case errors.Is(err, gemini.ErrNoImage):
			utils.RespondError(w, rlog, "Generation returned no image", http.StatusInternalServerError)
		case errors.Is(err, context.DeadlineExceeded) || generateCtx.Err() != nil:
			utils.RespondError(w, rlog, "Composite generation timed out", http.StatusGatewayTimeout)
		default:
			utils.RespondError(w, rlog, fmt.Sprintf("Failed to generate composite: %v", err), http.StatusInternalServerError)
		}
		return
	}

	token := uuid.New()
	filename := fmt.Sprintf("%s_result_%s.jpg", userID, hex.EncodeToString(token[:]))
	key := config.HistoryDir + "/" + filename

	if err := a.Store.Save(r.Context(), key, composited, "image/jpeg"); err != nil {
		rlog.Addf("Artifact write failed: %v", err)
		utils.RespondError(w, rlog, "Failed to save generated image", http.StatusInternalServerError)
		return
	}

	historyCtx, cancelHistory := context.WithTimeout(r.Context(), dbTimeout)
	defer cancelHistory()
	entries, err := a.Ledger.Record(historyCtx, userID, key)
	if err != nil {
		// The artifact is already on disk; remove it so the failed
		// request leaves nothing behind.
		if delErr := a.Store.Delete(r.Context(), key); delErr != nil {
			rlog.Addf("Could not remove orphaned artifact %s: %v", key, delErr)
		}
		if errors.Is(err, db.ErrUserNotFound) {
			utils.RespondError(w, rlog, "User not found", http.StatusNotFound)
		} else {
			utils.RespondError(w, rlog, "Failed to update history", statusFor(err))
		}
		return
	}
	rlog.Addf("History updated (%d entries)", len(entries))

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"img_generada": a.Store.URL(r.Context(), key),
		"historial":    a.mediaURLs(r.Context(), entries),
	})
}

func formFileBytes(r *http.Request, field string) ([]byte, error) {
	file, _, err := r.FormFile(field)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}
