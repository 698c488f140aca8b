package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-extractor/internal/models"
	"alfredoptarigan/resume-extractor/internal/services"
)

type SkillHandler struct {
	skills  services.SkillExtractor
	matcher services.MatchCalculator
}

func NewSkillHandler(skills services.SkillExtractor, matcher services.MatchCalculator) *SkillHandler {
	return &SkillHandler{
		skills:  skills,
		matcher: matcher,
	}
}

// HandleExtractSkills handles POST /extract-skills
func (h *SkillHandler) HandleExtractSkills(c *fiber.Ctx) error {
	var req models.ExtractSkillsRequest
	if err := bindJSON(c, &req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, err.Error())
	}
	if req.Type == "" {
		req.Type = "unknown"
	}

	extraction, err := h.skills.ExtractSkills(c.UserContext(), req.Text)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(models.ExtractSkillsResponse{
		Type:       req.Type,
		Skills:     extraction.Skills,
		SkillCount: len(extraction.Skills),
		Source:     extraction.Source,
	})
}

// HandleMatchSkills handles POST /match-skills
func (h *SkillHandler) HandleMatchSkills(c *fiber.Ctx) error {
	var req models.MatchSkillsRequest
	if err := bindJSON(c, &req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	if req.Weighted {
		var weighted []models.WeightedSkill
		if err := json.Unmarshal(req.JDSkills, &weighted); err != nil {
			return errorResponse(c, fiber.StatusBadRequest, "jd_skills must be a list of {skill, weight} objects")
		}
		for i := range weighted {
			if err := validateStruct(&weighted[i]); err != nil {
				return errorResponse(c, fiber.StatusBadRequest, err.Error())
			}
		}
		return c.JSON(h.matcher.CalculateWeightedMatch(weighted, req.ResumeSkills))
	}

	var jdSkills []string
	if err := json.Unmarshal(req.JDSkills, &jdSkills); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "jd_skills must be a list of strings")
	}

	return c.JSON(h.matcher.CalculateSkillMatch(jdSkills, req.ResumeSkills))
}

// HandleSkillGap handles POST /skill-gap
func (h *SkillHandler) HandleSkillGap(c *fiber.Ctx) error {
	var req models.SkillGapRequest
	if err := bindJSON(c, &req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(h.skills.AnalyzeSkillGap(c.UserContext(), req.JDSkills, req.ResumeSkills))
}
