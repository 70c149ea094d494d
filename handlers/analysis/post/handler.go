package post

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/glamcare/analysis"
	"github.com/a-h/glamcare/models"
	"github.com/a-h/respond"
)

func New(log *slog.Logger, classifier analysis.Classifier, catalog analysis.Catalog) Handler {
	return Handler{
		log:        log,
		classifier: classifier,
		catalog:    catalog,
	}
}

type Handler struct {
	log        *slog.Logger
	classifier analysis.Classifier
	catalog    analysis.Catalog
}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req models.AnalysisPostRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		h.log.Error("failed to decode body", slog.Any("error", err))
		respond.WithJSON(w, models.ErrorResponse{Error: "failed to decode body"}, http.StatusBadRequest)
		return
	}

	image, err := decodeImage(req.Image)
	if err != nil {
		h.log.Warn("invalid image", slog.Any("error", err))
		respond.WithJSON(w, models.ErrorResponse{Error: "invalid image"}, http.StatusBadRequest)
		return
	}

	skinType, err := h.classifier.Classify(r.Context(), image)
	if err != nil {
		if errors.Is(err, analysis.ErrNoImage) {
			respond.WithJSON(w, models.ErrorResponse{Error: "image is required"}, http.StatusBadRequest)
			return
		}
		h.log.Error("failed to classify image", slog.Any("error", err))
		respond.WithJSON(w, models.ErrorResponse{Error: "failed to classify image"}, http.StatusInternalServerError)
		return
	}
	advice, ok := h.catalog[skinType]
	if !ok {
		h.log.Error("no advice for skin type", slog.String("skinType", string(skinType)))
		respond.WithJSON(w, models.ErrorResponse{Error: "failed to classify image"}, http.StatusInternalServerError)
		return
	}
	h.log.Info("skin analysed", slog.String("skinType", string(skinType)), slog.Int("imageBytes", len(image)))

	respond.WithJSON(w, models.AnalysisPostResponse{
		SkinType: string(skinType),
		Issues:   advice.Issues,
		Remedies: advice.Remedies,
		Products: advice.Products,
	}, http.StatusOK)
}

// decodeImage accepts plain base64 or a data URL such as
// "data:image/jpeg;base64,...".
func decodeImage(s string) ([]byte, error) {
	if rest, ok := strings.CutPrefix(s, "data:"); ok {
		_, data, found := strings.Cut(rest, ",")
		if !found {
			return nil, errors.New("malformed data URL")
		}
		s = data
	}
	return base64.StdEncoding.DecodeString(s)
}
