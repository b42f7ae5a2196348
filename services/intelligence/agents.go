package ai

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"lefri/models"
	"lefri/utils"

	"go.uber.org/zap"
)

// ArticleSource finds constitutional articles relevant to a query.
type ArticleSource interface {
	RelevantArticles(ctx context.Context, query, country, language string, limit int) ([]string, error)
}

var documentCitations = []string{"Código Civil", "Constitución Nacional", "Jurisprudencia aplicable"}

// Coordinator routes process questions to a specialised agent.
type Coordinator struct {
	gen      TextGenerator
	articles ArticleSource
}

func NewCoordinator(gen TextGenerator, articles ArticleSource) *Coordinator {
	if gen == nil {
		gen = Unavailable()
	}
	return &Coordinator{gen: gen, articles: articles}
}

// ParseIntent maps raw classifier output to an agent kind; anything
// unrecognised is GENERAL.
func ParseIntent(raw string) string {
	intent := strings.ToUpper(strings.Trim(strings.TrimSpace(raw), "*.`\"'"))
	switch intent {
	case models.AgentResearch, models.AgentPlanning, models.AgentDocument:
		return intent
	default:
		return models.AgentGeneral
	}
}

// Chat classifies the query and answers it with the matching agent.
func (c *Coordinator) Chat(ctx context.Context, query string, p ProcessContext) models.AgentResponse {
	raw, err := c.gen.Generate(ctx, IntentPrompt(query, p))
	if err != nil {
		utils.GetLogger().Error("Coordinator intent classification failed", zap.Error(err))
		return finalize(models.AgentResponse{Response: fallbackCoordinator, Agent: models.AgentGeneral})
	}

	intent := ParseIntent(raw)
	var resp models.AgentResponse
	switch intent {
	case models.AgentResearch:
		resp = c.Research(ctx, query, p)
	case models.AgentPlanning:
		resp = c.Planning(ctx, query, p)
	case models.AgentDocument:
		resp = c.Document(ctx, query, p)
	default:
		resp = c.General(ctx, query, p)
	}
	resp.Agent = intent
	return finalize(resp)
}

func (c *Coordinator) Research(ctx context.Context, query string, p ProcessContext) models.AgentResponse {
	var articles []string
	if c.articles != nil {
		search := strings.TrimSpace(fmt.Sprintf("%s %s %s", query, p.Title, p.Description))
		found, err := c.articles.RelevantArticles(ctx, search, p.Country, p.Language, 5)
		if err != nil {
			utils.GetLogger().Warn("Research agent article lookup failed", zap.Error(err))
		}
		articles = found
	}

	text, err := c.gen.Generate(ctx, ResearchPrompt(query, p, articles))
	if err != nil {
		utils.GetLogger().Error("Research agent failed", zap.Error(err))
		return models.AgentResponse{Response: fallbackResearch, Agent: models.AgentResearch}
	}
	citations := articles
	if len(citations) > 3 {
		citations = citations[:3]
	}
	return models.AgentResponse{Response: text, Confidence: 85, Citations: citations, Agent: models.AgentResearch}
}

func (c *Coordinator) Planning(ctx context.Context, query string, p ProcessContext) models.AgentResponse {
	text, err := c.gen.Generate(ctx, PlanningPrompt(query, p))
	if err != nil {
		utils.GetLogger().Error("Planning agent failed", zap.Error(err))
		return models.AgentResponse{Response: fallbackPlanning, Agent: models.AgentPlanning}
	}
	return models.AgentResponse{
		Response:   text,
		Confidence: 90,
		NextSteps: []string{
			fmt.Sprintf("Revisar documentación para el paso %d", p.CurrentStep+1),
			"Verificar cumplimiento de requisitos legales",
			"Preparar documentos necesarios",
			"Coordinar con autoridades competentes",
		},
		Agent: models.AgentPlanning,
	}
}

func (c *Coordinator) Document(ctx context.Context, query string, p ProcessContext) models.AgentResponse {
	text, err := c.gen.Generate(ctx, DocumentPrompt(query, p))
	if err != nil {
		utils.GetLogger().Error("Document agent failed", zap.Error(err))
		return models.AgentResponse{Response: FallbackDocument, Agent: models.AgentDocument}
	}
	return models.AgentResponse{
		Response:   text,
		Confidence: 88,
		Citations:  append([]string(nil), documentCitations...),
		Agent:      models.AgentDocument,
	}
}

// General runs research and planning concurrently and merges them.
func (c *Coordinator) General(ctx context.Context, query string, p ProcessContext) models.AgentResponse {
	var research, planning models.AgentResponse
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		research = c.Research(ctx, query, p)
	}()
	go func() {
		defer wg.Done()
		planning = c.Planning(ctx, query, p)
	}()
	wg.Wait()

	combined := fmt.Sprintf("\n## Análisis Legal\n%s\n\n## Planificación del Proceso\n%s\n", research.Response, planning.Response)
	return models.AgentResponse{
		Response:   combined,
		Confidence: int(math.Round(float64(research.Confidence+planning.Confidence) / 2)),
		Citations:  append(append([]string{}, research.Citations...), planning.Citations...),
		NextSteps:  planning.NextSteps,
		Agent:      models.AgentGeneral,
	}
}

func finalize(r models.AgentResponse) models.AgentResponse {
	if r.Citations == nil {
		r.Citations = []string{}
	}
	if r.NextSteps == nil {
		r.NextSteps = []string{}
	}
	return r
}
