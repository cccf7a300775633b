package http

import (
	"context"
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"keywordscope/internal/export"
	"keywordscope/internal/model"
)

var validate = validator.New()

// researchRequest is the body of POST /api/research — spec.md §6.
type researchRequest struct {
	URL           string         `json:"url" validate:"required,url"`
	Country       string         `json:"country" validate:"required,len=2"`
	Language      string         `json:"language,omitempty" validate:"omitempty,len=2"`
	LanguageLabel string         `json:"languageLabel,omitempty"`
	Options       requestOptions `json:"options,omitempty"`
}

type requestOptions struct {
	MaxPages         int    `json:"maxPages,omitempty" validate:"omitempty,min=1,max=200"`
	FollowLinks      bool   `json:"followLinks,omitempty"`
	ScrapeStrategy   string `json:"scrapeStrategy,omitempty" validate:"omitempty,oneof=auto browser http"`
	ClusterAlgorithm string `json:"clusterAlgorithm,omitempty" validate:"omitempty,oneof=kmeans dbscan semantic hybrid"`
	MinClusterSize   int    `json:"minClusterSize,omitempty" validate:"omitempty,min=1"`
	UseAI            bool   `json:"useAI,omitempty"`
}

func (o requestOptions) toModel(defaultMaxPages int) model.Options {
	maxPages := o.MaxPages
	if maxPages < 1 {
		maxPages = defaultMaxPages
	}
	return model.Options{
		MaxPages:         maxPages,
		FollowLinks:      o.FollowLinks,
		ScrapeStrategy:   o.ScrapeStrategy,
		ClusterAlgorithm: o.ClusterAlgorithm,
		MinClusterSize:   o.MinClusterSize,
		UseAI:            o.UseAI,
	}
}

// createResearchHandler implements POST /api/research.
func (s *Server) createResearchHandler(c *fiber.Ctx) error {
	var req researchRequest
	if err := c.BodyParser(&req); err != nil {
		return errJSON(c, fiber.StatusBadRequest, "InvalidInput", "malformed request body")
	}
	if err := validate.Struct(req); err != nil {
		return errJSON(c, fiber.StatusBadRequest, "InvalidInput", err.Error())
	}
	if _, err := url.ParseRequestURI(req.URL); err != nil {
		return errJSON(c, fiber.StatusBadRequest, "InvalidInput", "invalid url")
	}

	ip := c.IP()
	allowed, retryAfter, err := s.limiter.Allow(c.Context(), ip)
	if err != nil {
		s.logger.Error("rate limiter error", "error", err)
	} else if !allowed {
		return rateLimitedJSON(c, int(retryAfter.Seconds()))
	}

	language := resolveLanguage(req.Language, req.Country)
	job := s.store.Create(req.URL, req.Country, req.Language, language, req.Options.toModel(s.cfg.Scraper.MaxPagesDefault))

	go s.orchestrator.Run(context.Background(), job.ID)

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"job_id": job.ID,
		"status": job.Status,
	})
}

// getResearchHandler implements GET /api/research/:id.
func (s *Server) getResearchHandler(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return errJSON(c, fiber.StatusBadRequest, "InvalidInput", "malformed job id")
	}

	job, ok := s.store.Get(id)
	if !ok {
		return errJSON(c, fiber.StatusNotFound, "NotFound", "job not found")
	}
	return c.JSON(job)
}

// deleteResearchHandler implements DELETE /api/research/:id.
func (s *Server) deleteResearchHandler(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return errJSON(c, fiber.StatusBadRequest, "InvalidInput", "malformed job id")
	}

	job, ok := s.store.Cancel(id)
	if !ok {
		return errJSON(c, fiber.StatusNotFound, "NotFound", "job not found")
	}
	return c.JSON(fiber.Map{"message": "job cancelled", "jobId": job.ID})
}

// exportResearchHandler implements GET /api/research/:id/export.
func (s *Server) exportResearchHandler(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return errJSON(c, fiber.StatusBadRequest, "InvalidInput", "malformed job id")
	}

	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		return errJSON(c, fiber.StatusBadRequest, "InvalidInput", err.Error())
	}

	job, ok := s.store.Get(id)
	if !ok {
		return errJSON(c, fiber.StatusNotFound, "NotFound", "job not found")
	}
	if job.Status != model.StatusCompleted || job.Data == nil {
		return errJSON(c, fiber.StatusBadRequest, "InvalidInput", "job is not completed")
	}

	body, contentType, err := export.Render(format, job.Data)
	if err != nil {
		return errJSON(c, fiber.StatusInternalServerError, "Internal", err.Error())
	}

	filename := "research-" + job.ID + "." + string(format)
	c.Set(fiber.HeaderContentDisposition, "attachment; filename=\""+filename+"\"")
	c.Set(fiber.HeaderContentType, contentType)
	return c.Send(body)
}

// countriesHandler implements GET /api/research/config/countries.
func (s *Server) countriesHandler(c *fiber.Ctx) error {
	return c.JSON(supportedCountries)
}

// languagesHandler implements GET /api/research/config/languages.
func (s *Server) languagesHandler(c *fiber.Ctx) error {
	return c.JSON(supportedLanguages)
}
