package ai

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"lefri/models"
)

const (
	FallbackAnswer      = "Lo siento, no pude procesar tu consulta en este momento. Por favor, intenta nuevamente."
	FallbackProcessStep = "Error generando el siguiente paso del proceso."
	FallbackDocument    = "Error en la generación de documentos. Por favor, intenta nuevamente."
	fallbackResearch    = "Error en el análisis legal. Por favor, intenta nuevamente."
	fallbackPlanning    = "Error en la planificación del proceso. Por favor, intenta nuevamente."
	fallbackCoordinator = "Error en la coordinación de agentes. Por favor, intenta nuevamente."
)

// languageName is the Spanish name of a response language.
func languageName(lang string) string {
	switch lang {
	case "es":
		return "español"
	case "en":
		return "inglés"
	default:
		return "francés"
	}
}

// agentLanguage mirrors how the agents name the language: Spanish by name,
// everything else by code.
func agentLanguage(lang string) string {
	if lang == "es" {
		return "español"
	}
	return lang
}

// LegalQuery carries everything the consultation prompt needs.
type LegalQuery struct {
	Query     string
	Country   string
	Language  string
	Articles  []string
	Documents []string
	History   []models.ConversationTurn
}

func LegalPrompt(q LegalQuery) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Eres un asistente legal especializado en las leyes de %s. \n", q.Country)
	fmt.Fprintf(&b, "Responde en %s.\n\n", languageName(q.Language))

	if len(q.History) > 0 {
		b.WriteString("Conversación previa:\n")
		for _, t := range q.History {
			role := "Usuario"
			if t.Role == "assistant" {
				role = "Asistente"
			}
			fmt.Fprintf(&b, "%s: %s\n", role, t.Content)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Consulta legal: %s\n\nPaís: %s\n\n", q.Query, q.Country)

	if len(q.Articles) > 0 {
		fmt.Fprintf(&b, "Artículos constitucionales relevantes:\n%s\n\n", strings.Join(q.Articles, "\n\n"))
	}
	if len(q.Documents) > 0 {
		fmt.Fprintf(&b, "Documentos legales relevantes:\n%s\n\n", strings.Join(q.Documents, "\n\n"))
	}

	fmt.Fprintf(&b, `Instrucciones:
1. Proporciona una respuesta legal precisa y contextualizada
2. Cita los artículos o leyes específicas cuando sea relevante
3. Incluye pasos prácticos que el usuario puede seguir
4. Si la consulta requiere asesoría especializada, recomienda consultar un abogado
5. Mantén un tono profesional pero accesible
6. Si no tienes información específica sobre %s, indícalo claramente

Respuesta:`, q.Country)
	return b.String()
}

// EmergencyContext describes who needs help and where.
type EmergencyContext struct {
	UserName string
	Location models.Location
	Language string
}

func (e EmergencyContext) place() string {
	if e.Location.Address != "" {
		return e.Location.Address
	}
	return fmt.Sprintf("%s, %s", formatCoord(e.Location.Latitude), formatCoord(e.Location.Longitude))
}

func EmergencyPrompt(e EmergencyContext) string {
	lat, lng := formatCoord(e.Location.Latitude), formatCoord(e.Location.Longitude)
	where := e.Location.Address
	if where == "" {
		where = fmt.Sprintf("Lat: %s, Lng: %s", lat, lng)
	}
	return fmt.Sprintf(`Genera un mensaje de emergencia urgente en %s.

Información:
- Persona: %s
- Ubicación: %s
- Coordenadas: %s, %s

El mensaje debe:
1. Ser claro y directo sobre la emergencia
2. Incluir la ubicación exacta
3. Pedir ayuda inmediata
4. Ser conciso (máximo 160 caracteres para WhatsApp)
5. Incluir un enlace de Google Maps: %s

Genera solo el mensaje, sin explicaciones adicionales.`,
		languageName(e.Language), e.UserName, where, lat, lng, e.Location.MapsLink())
}

// FallbackEmergencyMessage is sent when the model cannot write the alert.
func FallbackEmergencyMessage(e EmergencyContext) string {
	link := e.Location.MapsLink()
	switch e.Language {
	case "en":
		return fmt.Sprintf("🚨 EMERGENCY: %s needs immediate help! Location: %s %s", e.UserName, e.place(), link)
	case "fr":
		return fmt.Sprintf("🚨 URGENCE: %s a besoin d'aide immédiate! Localisation: %s %s", e.UserName, e.place(), link)
	default:
		return fmt.Sprintf("🚨 EMERGENCIA: %s necesita ayuda inmediata! Ubicación: %s %s", e.UserName, e.place(), link)
	}
}

// StepContext is the input of the step-content prompt. CurrentStep is 0-based.
type StepContext struct {
	ProcessType string
	CurrentStep int
	UserData    interface{}
	Language    string
}

func ProcessStepPrompt(s StepContext) string {
	data, _ := json.Marshal(s.UserData)
	return fmt.Sprintf(`Genera contenido para el paso %d del proceso legal "%s".

Idioma: %s

Datos del usuario: %s

Instrucciones:
1. Proporciona instrucciones claras y específicas para este paso
2. Lista los documentos necesarios si aplica
3. Incluye formularios o plantillas si es relevante
4. Menciona plazos legales importantes
5. Advierte sobre errores comunes
6. Formato HTML válido para mostrar en la interfaz

Genera el contenido del paso:`, s.CurrentStep+1, s.ProcessType, languageName(s.Language), data)
}

// ProcessContext is the view of a legal process the agents reason about.
type ProcessContext struct {
	ProcessID   string
	Title       string
	Type        string
	Description string
	CurrentStep int
	TotalSteps  int
	Metadata    interface{}
	Country     string
	Language    string
}

func (p ProcessContext) description() string {
	if p.Description == "" {
		return "No especificada"
	}
	return p.Description
}

func (p ProcessContext) metadataJSON() string {
	b, err := json.MarshalIndent(p.Metadata, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}

func IntentPrompt(query string, p ProcessContext) string {
	return fmt.Sprintf(`
Analiza la siguiente consulta y determina qué tipo de asistencia necesita el usuario:

CONSULTA: "%s"
CONTEXTO: Proceso legal de tipo "%s" en paso %d/%d

Opciones:
1. RESEARCH - Necesita investigación legal, interpretación de leyes, precedentes
2. PLANNING - Necesita planificación de pasos, cronogramas, organización del proceso
3. DOCUMENT - Necesita generar, revisar o estructurar documentos legales
4. GENERAL - Consulta general que requiere múltiples agentes

Responde SOLO con una de estas opciones: RESEARCH, PLANNING, DOCUMENT, o GENERAL
`, query, p.Type, p.CurrentStep, p.TotalSteps)
}

func ResearchPrompt(query string, p ProcessContext, articles []string) string {
	numbered := make([]string, len(articles))
	for i, a := range articles {
		numbered[i] = fmt.Sprintf("%d. %s", i+1, a)
	}
	return fmt.Sprintf(`
Eres un agente especializado en investigación legal. Tu misión es analizar el contexto legal específico del proceso.

CONTEXTO DEL PROCESO:
- Tipo: %s
- Título: %s
- Descripción: %s
- Paso actual: %d/%d
- País: %s
- Metadatos: %s

ARTÍCULOS CONSTITUCIONALES RELEVANTES:
%s

CONSULTA DEL USUARIO:
%s

Proporciona:
1. Análisis legal específico basado en el contexto del proceso
2. Interpretación de artículos constitucionales aplicables
3. Precedentes legales relevantes
4. Recomendaciones específicas para este caso
5. Nivel de confianza en tu análisis (0-100)

Responde en %s.
`, p.Type, p.Title, p.description(), p.CurrentStep, p.TotalSteps, p.Country, p.metadataJSON(),
		strings.Join(numbered, "\n"), query, agentLanguage(p.Language))
}

func PlanningPrompt(query string, p ProcessContext) string {
	return fmt.Sprintf(`
Eres un agente especializado en planificación de procesos legales. Tu misión es crear planes detallados y cronogramas.

CONTEXTO DEL PROCESO:
- Tipo: %s
- Título: %s
- Descripción: %s
- Paso actual: %d/%d
- País: %s
- Metadatos del caso: %s

CONSULTA DEL USUARIO:
%s

Proporciona:
1. Plan de acción específico para el siguiente paso
2. Cronograma detallado con fechas estimadas
3. Documentos necesarios para cada etapa
4. Recursos requeridos
5. Posibles obstáculos y mitigaciones
6. Próximos pasos recomendados

Responde en %s.
`, p.Type, p.Title, p.description(), p.CurrentStep, p.TotalSteps, p.Country, p.metadataJSON(),
		query, agentLanguage(p.Language))
}

func DocumentPrompt(query string, p ProcessContext) string {
	return fmt.Sprintf(`
Eres un agente especializado en generación de documentos legales. Tu misión es crear documentos formales y precisos.

CONTEXTO DEL PROCESO:
- Tipo: %s
- Título: %s
- Descripción: %s
- País: %s
- Metadatos: %s

CONSULTA DEL USUARIO:
%s

Genera:
1. Estructura del documento legal requerido
2. Contenido específico basado en el caso
3. Fundamentos legales y constitucionales
4. Formato apropiado para el tipo de documento
5. Lista de verificación para completar el documento

Responde en %s.
`, p.Type, p.Title, p.description(), p.Country, p.metadataJSON(), query, agentLanguage(p.Language))
}

func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
