// Package bootstrap wires the extraction services shared by the API server
// and the command line tool.
package bootstrap

import (
	"context"

	"go.uber.org/zap"

	"alfredoptarigan/resume-extractor/internal/config"
	"alfredoptarigan/resume-extractor/internal/services"
)

type Services struct {
	LLM      services.LLMService
	Vectors  services.QdrantService
	Text     services.TextExtractor
	Skills   services.SkillExtractor
	Profiles services.ProfileExtractor
	Matcher  services.MatchCalculator
	Ranking  services.RankingService
}

// Build creates every extraction service. A missing API key or an unreachable
// Qdrant is not fatal: the affected features degrade to their fallbacks.
func Build(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Services, error) {
	s := &Services{
		Text:    services.NewTextExtractor(log),
		Matcher: services.NewMatchCalculator(nil),
	}

	llm, err := services.NewLLMService(ctx, cfg.LLM, log)
	if err != nil {
		log.Warn("⚠️ Language model unavailable, using keyword fallbacks", zap.Error(err))
	} else {
		s.LLM = llm
		log.Info("✅ Language model initialized", zap.String("provider", cfg.LLM.Provider), zap.String("model", cfg.LLM.Model))
	}

	if cfg.Qdrant.Enabled && s.LLM != nil {
		s.Vectors = initVectors(ctx, cfg, s.LLM.EmbeddingDimensions(), log)
	}

	s.Skills = services.NewSkillExtractor(s.LLM, nil, cfg.LLM.MaxRetries, log)

	s.Profiles, err = services.NewProfileExtractor(s.LLM, s.Skills, cfg.LLM.MaxRetries, log)
	if err != nil {
		return nil, err
	}

	chunker := services.NewTextChunker(cfg.Ranking.ChunkSize, cfg.Ranking.ChunkOverlap)
	s.Ranking = services.NewRankingService(s.LLM, s.Vectors, chunker, cfg.Ranking.TopK, log)

	return s, nil
}

func initVectors(ctx context.Context, cfg *config.Config, dimensions int, log *zap.Logger) services.QdrantService {
	store, err := services.NewQdrantService(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, dimensions, log)
	if err != nil {
		log.Warn("⚠️ Qdrant unavailable, ranking uses TF-IDF", zap.Error(err))
		return nil
	}

	if err := store.InitCollection(ctx); err != nil {
		log.Warn("⚠️ Qdrant collection init failed, ranking uses TF-IDF", zap.Error(err))
		return nil
	}

	log.Info("✅ Qdrant initialized", zap.String("collection", cfg.Qdrant.Collection))
	return store
}
