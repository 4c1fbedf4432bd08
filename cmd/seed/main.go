package main

import (
	"context"
	"log"

	"github.com/fatih/color"

	"mortgage-rag-be/internal/config"
	"mortgage-rag-be/internal/repository"
	"mortgage-rag-be/internal/repository/implementation"
	"mortgage-rag-be/pkg/database"
	"mortgage-rag-be/pkg/embedding"
	"mortgage-rag-be/pkg/rag/tutor"
	"mortgage-rag-be/pkg/vectorstore"
)

type seedDoc struct {
	Namespace   string
	Title       string
	Section     string
	SourcePath  string
	AccessLevel string
	Content     string
}

// Development seed data. Each entry becomes one embedded chunk in
// document_embeddings so the retrieval pipeline has something to find
// on a fresh database.
var seedDocs = []seedDoc{
	{
		Namespace:   "default",
		Title:       "Loan Origination Overview",
		Section:     "Pipeline Stages",
		SourcePath:  "docs/origination/overview.md",
		AccessLevel: "internal",
		Content:     "A mortgage application moves through intake, processing, underwriting, conditional approval, clear to close, and funding. Underwriting evaluates the borrower's credit, capacity, and collateral against investor guidelines. Conditions issued at approval must be cleared before docs are drawn.",
	},
	{
		Namespace:   "default",
		Title:       "Loan Origination Overview",
		Section:     "Rate Locks",
		SourcePath:  "docs/origination/overview.md",
		AccessLevel: "internal",
		Content:     "A rate lock commits the lender to a price for a window, typically 30, 45, or 60 days. Extensions carry a cost in basis points per day. Locks that expire before funding reprice at worse of current market or original lock.",
	},
	{
		Namespace:   "default",
		Title:       "Servicing Handbook",
		Section:     "Escrow Analysis",
		SourcePath:  "docs/servicing/handbook.md",
		AccessLevel: "internal",
		Content:     "Servicers run an annual escrow analysis to project taxes and insurance for the coming cycle. A shortage is spread over twelve months unless the borrower pays it in a lump sum. RESPA caps the cushion at two months of escrow payments.",
	},
	{
		Namespace:   "default",
		Title:       "Compliance Primer",
		Section:     "TRID Timing",
		SourcePath:  "docs/compliance/primer.md",
		AccessLevel: "public",
		Content:     "The Loan Estimate must be delivered within three business days of application. The Closing Disclosure must be received by the borrower at least three business days before consummation. A changed circumstance can reset tolerance baselines when properly documented.",
	},
	{
		Namespace:   tutor.KBNamespace,
		Title:       "Mortgage Basics",
		Section:     "DTI",
		SourcePath:  "kb/basics/dti.md",
		AccessLevel: "public",
		Content:     "Debt-to-income ratio compares monthly debt obligations to gross monthly income. Front-end DTI covers housing costs alone; back-end DTI adds all recurring debt. Conventional guidelines generally look for back-end DTI at or below 45 percent, with exceptions for strong compensating factors.",
	},
	{
		Namespace:   tutor.KBNamespace,
		Title:       "Mortgage Basics",
		Section:     "LTV and PMI",
		SourcePath:  "kb/basics/ltv.md",
		AccessLevel: "public",
		Content:     "Loan-to-value is the loan amount divided by the lesser of purchase price or appraised value. Conventional loans above 80 percent LTV require private mortgage insurance, which can be removed once the balance amortizes to 78 percent of original value.",
	},
	{
		Namespace:   tutor.KBNamespace,
		Title:       "Secondary Market Notes",
		Section:     "GSEs and MBS",
		SourcePath:  "kb/secondary/gse.md",
		AccessLevel: "public",
		Content:     "Fannie Mae and Freddie Mac buy conforming loans and package them into mortgage-backed securities. Loans outside conforming limits or guidelines are sold to private investors or held in portfolio. Ginnie Mae guarantees securities backed by FHA and VA loans.",
	},
}

func main() {
	color.Cyan("🚀 Mortgage KB Seeder\n")

	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	var provider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		provider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
		color.Yellow("Using embedding provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		provider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		color.Yellow("Using embedding provider: GEMINI")
	}

	index := repository.NewDocumentIndex(implementation.NewDocumentEmbeddingRepository(db))

	ctx := context.Background()
	records := make([]vectorstore.Record, 0, len(seedDocs))
	for _, doc := range seedDocs {
		resp, err := provider.Generate(doc.Content, "RETRIEVAL_DOCUMENT")
		if err != nil {
			color.Red("Failed to embed %q (%s): %v", doc.Title, doc.Section, err)
			continue
		}
		records = append(records, vectorstore.Record{
			Vector: resp.Embedding.Values,
			Metadata: map[string]interface{}{
				"namespace":    doc.Namespace,
				"title":        doc.Title,
				"section":      doc.Section,
				"source":       doc.SourcePath,
				"access_level": doc.AccessLevel,
				"text":         doc.Content,
			},
		})
		color.Green("Embedded: %s / %s", doc.Title, doc.Section)
	}

	if len(records) == 0 {
		log.Fatal("Error: No documents embedded, nothing to seed")
	}

	if err := index.Upsert(ctx, records); err != nil {
		log.Fatal("Error: Failed to write embeddings:", err)
	}

	color.Cyan("\n✅ Seeded %d document chunks", len(records))
}
