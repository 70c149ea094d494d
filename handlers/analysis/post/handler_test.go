package post

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/a-h/glamcare/analysis"
	"github.com/a-h/glamcare/models"
	"github.com/google/go-cmp/cmp"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type fixedClassifier struct {
	skinType analysis.SkinType
	err      error
	received []byte
}

func (c *fixedClassifier) Classify(ctx context.Context, image []byte) (analysis.SkinType, error) {
	c.received = image
	if len(image) == 0 {
		return "", analysis.ErrNoImage
	}
	return c.skinType, c.err
}

var testCatalog = analysis.Catalog{
	analysis.Dry: {
		Issues:   []string{"flaking"},
		Remedies: []string{"honey mask"},
		Products: []string{"ceramide cream"},
	},
}

func TestHandler(t *testing.T) {
	photo := []byte("\xff\xd8\xff fake jpeg")
	encoded := base64.StdEncoding.EncodeToString(photo)

	tests := []struct {
		name           string
		body           string
		classifier     *fixedClassifier
		expectedStatus int
		expected       models.AnalysisPostResponse
	}{
		{
			name:           "data URLs are classified",
			body:           `{"image":"data:image/jpeg;base64,` + encoded + `"}`,
			classifier:     &fixedClassifier{skinType: analysis.Dry},
			expectedStatus: http.StatusOK,
			expected: models.AnalysisPostResponse{
				SkinType: "dry",
				Issues:   []string{"flaking"},
				Remedies: []string{"honey mask"},
				Products: []string{"ceramide cream"},
			},
		},
		{
			name:           "plain base64 is classified",
			body:           `{"image":"` + encoded + `"}`,
			classifier:     &fixedClassifier{skinType: analysis.Dry},
			expectedStatus: http.StatusOK,
			expected: models.AnalysisPostResponse{
				SkinType: "dry",
				Issues:   []string{"flaking"},
				Remedies: []string{"honey mask"},
				Products: []string{"ceramide cream"},
			},
		},
		{
			name:           "missing images are a bad request",
			body:           `{}`,
			classifier:     &fixedClassifier{skinType: analysis.Dry},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid base64 is a bad request",
			body:           `{"image":"not base64!"}`,
			classifier:     &fixedClassifier{skinType: analysis.Dry},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed JSON is a bad request",
			body:           `{"image":`,
			classifier:     &fixedClassifier{skinType: analysis.Dry},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "classifier errors are a server error",
			body:           `{"image":"` + encoded + `"}`,
			classifier:     &fixedClassifier{err: errors.New("model offline")},
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "skin types missing from the catalog are a server error",
			body:           `{"image":"` + encoded + `"}`,
			classifier:     &fixedClassifier{skinType: analysis.Oily},
			expectedStatus: http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(discard, tt.classifier, testCatalog)
			req := httptest.NewRequest(http.MethodPost, "/skin-analysis", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.expectedStatus != http.StatusOK {
				var er models.ErrorResponse
				if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil || er.Error == "" {
					t.Errorf("expected an error envelope, got %q", w.Body.String())
				}
				return
			}
			var actual models.AnalysisPostResponse
			if err := json.Unmarshal(w.Body.Bytes(), &actual); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if diff := cmp.Diff(tt.expected, actual); diff != "" {
				t.Error(diff)
			}
			if string(tt.classifier.received) != string(photo) {
				t.Errorf("expected the decoded photo to be classified, got %q", tt.classifier.received)
			}
		})
	}
}
