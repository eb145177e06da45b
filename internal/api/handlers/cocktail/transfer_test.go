package cocktail

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"bar-catalog/internal/core/catalog"
	cocktailService "bar-catalog/internal/core/cocktail"
	"bar-catalog/internal/core/transfer"
	"bar-catalog/internal/infrastructure/cache"
	"bar-catalog/internal/infrastructure/config"
	"bar-catalog/internal/infrastructure/database"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, database.AutoMigrateAll(db))

	cacheSvc, err := cache.NewService(&config.CacheConfig{Enabled: false})
	require.NoError(t, err)

	cocktails := cocktailService.NewService(db, cacheSvc)
	handler := NewHandler(cocktails)
	transfers := NewTransferHandler(
		transfer.NewExportService(cocktails),
		transfer.NewMatchService(db),
		transfer.NewImportService(db, cocktails, cacheSvc),
		transfer.NewFetchService(&config.ImportConfig{
			FetchTimeout:     5 * time.Second,
			MaxDocumentBytes: 1 << 20,
		}),
	)

	router := gin.New()
	router.GET("/api/v1/cocktails/:id", handler.HandleGet)
	router.GET("/api/v1/cocktails/:id/export", transfers.HandleExport)
	router.POST("/api/v1/import/preview", transfers.HandlePreview)
	router.POST("/api/v1/import/confirm", transfers.HandleConfirm)
	return router, db
}

func seedDaiquiri(t *testing.T, db *gorm.DB) uint {
	t.Helper()
	require.NoError(t, db.Create(&catalog.Ingredient{Name: "Lime Juice"}).Error)
	var lime catalog.Ingredient
	require.NoError(t, db.Where("name = ?", "Lime Juice").First(&lime).Error)

	limeID := lime.ID
	c := catalog.Cocktail{
		Name: "Daiquiri",
		Tags: "sour",
		Ingredients: []catalog.CocktailIngredient{
			{SourceType: catalog.SourceIngredient, IngredientID: &limeID, Quantity: 1},
		},
		Instructions: []catalog.CocktailInstruction{{StepNumber: 1, Text: "Shake"}},
	}
	require.NoError(t, db.Create(&c).Error)
	return c.ID
}

func TestHandleExport(t *testing.T) {
	router, db := newTestRouter(t)
	id := seedDaiquiri(t, db)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/cocktails/%d/export", id), nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var doc transfer.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, transfer.FormatVersion, doc.FormatVersion)
	assert.Equal(t, "Daiquiri", doc.Recipe.Name)
	require.Len(t, doc.Recipe.IngredientLines, 1)
	assert.Equal(t, "Lime Juice", doc.Recipe.IngredientLines[0].SourceName)
}

func TestHandleExportMissingCocktail(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cocktails/42/export", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandlePreviewRejectsBadVersion(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{"formatVersion": 2, "recipe": {"name": "Daiquiri", "ingredientLines": [], "instructionSteps": []}}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/import/preview", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPreviewThenConfirmFlow(t *testing.T) {
	router, db := newTestRouter(t)

	doc := transfer.Document{
		FormatVersion: transfer.FormatVersion,
		Recipe: transfer.Recipe{
			Name: "Gimlet",
			IngredientLines: []transfer.IngredientLine{
				{
					SourceType:   catalog.SourceIngredient,
					SourceName:   "Lime Cordial",
					SourceDetail: transfer.SourceDetail{Ingredient: &transfer.IngredientDetail{}},
					Quantity:     0.75,
					Unit:         transfer.UnitDescriptor{Name: "Ounce", Abbreviation: "oz"},
				},
			},
			InstructionSteps: []transfer.InstructionStep{{StepNumber: 1, Text: "Stir"}},
		},
	}
	docJSON, err := json.Marshal(doc)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/import/preview", bytes.NewBuffer(docJSON))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var preview transfer.Preview
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &preview))
	require.Len(t, preview.Ingredients, 1)
	assert.Equal(t, transfer.MatchStatusMissing, preview.Ingredients[0].Status)

	confirm := map[string]interface{}{
		"document": doc,
		"resolutions": transfer.Resolutions{
			Units: map[string]transfer.UnitResolution{
				"oz": {Action: transfer.ResolutionCreate, Create: &transfer.UnitDescriptor{Name: "Ounce", Abbreviation: "oz"}},
			},
			Ingredients: map[string]transfer.IngredientResolution{
				"lime cordial": {Action: transfer.ResolutionCreate, Create: &transfer.IngredientRef{Name: "Lime Cordial"}},
			},
		},
	}
	confirmJSON, err := json.Marshal(confirm)
	require.NoError(t, err)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/import/confirm", bytes.NewBuffer(confirmJSON))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var created catalog.Cocktail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Gimlet", created.Name)
	require.Len(t, created.Ingredients, 1)
	require.NotNil(t, created.Ingredients[0].IngredientID)

	var count int64
	require.NoError(t, db.Model(&catalog.Cocktail{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestConfirmConflictReturns409(t *testing.T) {
	router, db := newTestRouter(t)
	seedDaiquiri(t, db)

	confirm := map[string]interface{}{
		"document": transfer.Document{
			FormatVersion: transfer.FormatVersion,
			Recipe:        transfer.Recipe{Name: "Daiquiri"},
		},
		"resolutions": transfer.Resolutions{},
	}
	body, err := json.Marshal(confirm)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/import/confirm", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)
}
