package main

import (
	"log"

	"vc-intel-be/internal/config"
	"vc-intel-be/internal/model"
	"vc-intel-be/pkg/database"
	"vc-intel-be/pkg/embedding"
	"vc-intel-be/pkg/layers"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type seedDoc struct {
	layerID   string
	title     string
	content   string
	sourceTag string
	metadata  string
}

// Sample corpus so a fresh environment answers queries immediately.
var seedDocs = []seedDoc{
	{
		layerID:   layers.LayerFounderIntel,
		title:     "Founder profile: Dana Whitmore (Loopware)",
		content:   "Second-time founder, previously scaled a devtools startup to acquisition. Strong technical background, weak go-to-market history. Known for fast iteration cycles and high team retention.",
		sourceTag: "founder_intel",
		metadata:  `{"company": "Loopware", "stage": "seed"}`,
	},
	{
		layerID:   layers.LayerFounderIntel,
		title:     "Founder signal digest: Q3 outbound cohort",
		content:   "Twelve founders sourced from outbound this quarter. Three show repeat-founder signal, five are first-time technical founders with strong open source track records.",
		sourceTag: "founder_intel",
		metadata:  `{"cohort": "2026-Q3"}`,
	},
	{
		layerID:   layers.LayerFundOps,
		title:     "Fund II portfolio allocation summary",
		content:   "Fund II is 64 percent deployed across 21 companies. Reserves policy holds 40 percent for follow-ons. Largest position is 8 percent of fund at current marks.",
		sourceTag: "fund_ops",
		metadata:  `{"fund": "II"}`,
	},
	{
		layerID:   layers.LayerFundOps,
		title:     "LP commitment schedule",
		content:   "Capital call cadence is quarterly. Outstanding commitments total 38M across 14 LPs; next call is scheduled for October.",
		sourceTag: "fund_ops",
		metadata:  `{"fund": "II"}`,
	},
	{
		layerID:   layers.LayerResearchLibrary,
		title:     "Benchmark study: vertical SaaS retention",
		content:   "Published benchmark across 140 vertical SaaS companies. Median net revenue retention of 104 percent, top quartile above 118 percent. Methodology based on anonymized billing data.",
		sourceTag: "research_library",
		metadata:  `{"year": 2025}`,
	},
	{
		layerID:   layers.LayerResearchLibrary,
		title:     "Research note: AI infra capex cycles",
		content:   "Academic survey of capital expenditure cycles in AI infrastructure, with a methodology section comparing depreciation schedules across hyperscalers.",
		sourceTag: "research_library",
		metadata:  `{"year": 2026}`,
	},
}

func main() {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	var provider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		provider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
	} else {
		provider = embedding.NewGeminiProvider(cfg.Ai.GeminiAPIKey)
	}

	log.Println("Seeding layer documents...")

	for _, doc := range seedDocs {
		var existing model.LayerDocument
		if err := db.Where("layer_id = ? AND title = ?", doc.layerID, doc.title).First(&existing).Error; err == nil {
			log.Printf("Document '%s' already exists, skipping...", doc.title)
			continue
		}

		vec, err := provider.Generate(doc.title+"\n"+doc.content, embedding.TaskRetrievalDocument)
		if err != nil {
			log.Printf("Error embedding '%s': %v", doc.title, err)
			continue
		}

		record := model.LayerDocument{
			LayerId:   doc.layerID,
			Title:     doc.title,
			Content:   doc.content,
			SourceTag: doc.sourceTag,
			Embedding: pgvector.NewVector(vec),
			Metadata:  datatypes.JSON([]byte(doc.metadata)),
		}
		if err := db.Create(&record).Error; err != nil {
			log.Printf("Error creating document '%s': %v", doc.title, err)
		} else {
			log.Printf("Seeded [%s] %s", doc.layerID, doc.title)
		}
	}

	log.Println("Layer document seeding completed!")
}
