package handlers

import "github.com/gofiber/fiber/v2"

type Handlers struct {
	Extract *ExtractHandler
	Skill   *SkillHandler
	Profile *ProfileHandler
	Ranking *RankingHandler
	Upload  *UploadHandler
	Analyze *AnalyzeHandler
	Result  *ResultHandler
}

// Endpoints lists every route registered by SetupRoutes.
var Endpoints = []string{
	"GET /api/v1/health",
	"POST /api/v1/extract-text",
	"POST /api/v1/extract-multiple-texts",
	"POST /api/v1/extract-skills",
	"POST /api/v1/match-skills",
	"POST /api/v1/skill-gap",
	"POST /api/v1/extract-profile",
	"POST /api/v1/job-requirements",
	"POST /api/v1/employment-gaps",
	"POST /api/v1/rank-resumes",
	"POST /api/v1/upload",
	"POST /api/v1/analyze",
	"GET /api/v1/result/:id",
}

func SetupRoutes(app *fiber.App, h Handlers) {
	api := app.Group("/api/v1")

	api.Get("/health", h.Ranking.HandleHealth)

	api.Post("/extract-text", h.Extract.HandleExtractText)
	api.Post("/extract-multiple-texts", h.Extract.HandleExtractMultiple)

	api.Post("/extract-skills", h.Skill.HandleExtractSkills)
	api.Post("/match-skills", h.Skill.HandleMatchSkills)
	api.Post("/skill-gap", h.Skill.HandleSkillGap)

	api.Post("/extract-profile", h.Profile.HandleExtractProfile)
	api.Post("/job-requirements", h.Profile.HandleJobRequirements)
	api.Post("/employment-gaps", h.Profile.HandleEmploymentGaps)

	api.Post("/rank-resumes", h.Ranking.HandleRankResumes)

	api.Post("/upload", h.Upload.HandleUpload)
	api.Post("/analyze", h.Analyze.HandleAnalyze)
	api.Get("/result/:id", h.Result.HandleGetResult)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message":   "Resume Extractor API",
			"version":   "1.0.0",
			"endpoints": Endpoints,
		})
	})
}
