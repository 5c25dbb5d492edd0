package layerstore

import (
	"context"
	"log"
	"os"
	"testing"

	"vc-intel-be/internal/model"
	"vc-intel-be/pkg/database"
	"vc-intel-be/pkg/layers"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignificantTerms(t *testing.T) {
	assert.Equal(t, []string{"fund", "portfolio", "allocation"}, significantTerms("Fund portfolio allocation"))
	assert.Equal(t, []string{"the", "fund"}, significantTerms("is the fund up"))
	assert.Empty(t, significantTerms("a an of"))
	assert.Empty(t, significantTerms(""))
}

func TestTermCoverage(t *testing.T) {
	doc := model.LayerDocument{
		Title:   "Fund II portfolio allocation summary",
		Content: "Reserves policy holds 40 percent for follow-ons.",
	}

	assert.InDelta(t, 1.0, termCoverage(doc, []string{"fund", "portfolio"}), 1e-9)
	assert.InDelta(t, 0.5, termCoverage(doc, []string{"fund", "valuation"}), 1e-9)
	assert.InDelta(t, 0.0, termCoverage(doc, []string{"founder"}), 1e-9)
}

func TestKeywordLookupIntegration(t *testing.T) {
	if err := godotenv.Load("../../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	require.NoError(t, err)
	require.NoError(t, gormDB.AutoMigrate(&model.LayerDocument{}))

	doc := model.LayerDocument{
		LayerId:   layers.LayerFundOps,
		Title:     "Keyword lookup integration fixture",
		Content:   "Quarterly capital call cadence for outstanding commitments.",
		SourceTag: "fund_ops",
	}
	require.NoError(t, gormDB.Create(&doc).Error)
	t.Cleanup(func() {
		gormDB.Delete(&model.LayerDocument{}, "id = ?", doc.Id)
	})

	lookup := NewKeywordLookup(gormDB, layers.LayerFundOps)
	records, err := lookup.Lookup(context.Background(), "capital call cadence")
	require.NoError(t, err)
	require.NotEmpty(t, records)

	found := false
	for _, r := range records {
		if r.ID == doc.Id.String() {
			found = true
			assert.InDelta(t, 1.0, r.Confidence, 1e-9)
		}
	}
	assert.True(t, found, "seeded fixture should match its own terms")
}
