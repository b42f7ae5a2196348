package models

import "fmt"

// ProcessTemplate seeds the steps of a new process of a known type.
type ProcessTemplate struct {
	Type              string        `json:"type"`
	Title             string        `json:"title"`
	Description       string        `json:"description"`
	Steps             []ProcessStep `json:"steps"`
	RequiredDocuments []string      `json:"requiredDocuments"`
	Timeline          string        `json:"timeline"`
}

func step(id, title, desc string, docs ...string) ProcessStep {
	return ProcessStep{ID: id, Title: title, Description: desc, Documents: docs, Requirements: []string{}}
}

var processTemplates = []ProcessTemplate{
	{
		Type:        "divorcio",
		Title:       "Proceso de Divorcio",
		Description: "Guía completa para el proceso de divorcio, documentos necesarios y pasos a seguir.",
		Timeline:    "3 a 6 meses",
		RequiredDocuments: []string{
			"Cédula de identidad (ambos cónyuges)",
			"Certificado de matrimonio",
			"Partidas de nacimiento de los hijos",
			"Certificado de ingresos",
		},
		Steps: []ProcessStep{
			step("1", "Recopilación de documentos personales", "Reúne cédulas, certificado de matrimonio, partidas de nacimiento de los hijos y certificado de ingresos.",
				"Cédula de identidad", "Certificado de matrimonio"),
			step("2", "Evaluación de bienes matrimoniales", "Documenta propiedades, vehículos, cuentas bancarias, inversiones y bienes muebles de valor."),
			step("3", "Acuerdo sobre hijos y pensión", "Define tenencia, régimen de visitas y pensión alimenticia."),
			step("4", "Selección de abogado", "Contrata un abogado o solicita defensoría pública."),
			step("5", "Presentación de la demanda", "Presenta la demanda o solicitud de divorcio ante la unidad judicial competente."),
			step("6", "Citación y audiencia", "Asiste a la audiencia de conciliación fijada por el juez."),
			step("7", "Sentencia", "Obtén la sentencia que declara disuelto el vínculo matrimonial."),
			step("8", "Inscripción en el Registro Civil", "Inscribe la sentencia para marginar el acta de matrimonio."),
		},
	},
	{
		Type:        "contrato",
		Title:       "Redacción de Contratos",
		Description: "Crea contratos legalmente válidos con asistencia paso a paso.",
		Timeline:    "1 a 2 semanas",
		RequiredDocuments: []string{
			"Identificación de las partes",
			"Descripción del objeto del contrato",
		},
		Steps: []ProcessStep{
			step("1", "Tipo de contrato a crear", "Selecciona si es de trabajo, arrendamiento, servicios o compraventa."),
			step("2", "Identificación de las partes", "Registra nombres, documentos de identidad y domicilios de las partes."),
			step("3", "Objeto y condiciones", "Describe el objeto, precio, plazos y forma de pago."),
			step("4", "Cláusulas especiales", "Agrega confidencialidad, penalidades y resolución de conflictos."),
			step("5", "Revisión legal", "Revisa el borrador con un abogado."),
			step("6", "Firma y reconocimiento", "Firma el contrato y reconoce las firmas ante notario si corresponde."),
		},
	},
	{
		Type:        "laboral",
		Title:       "Demanda Laboral",
		Description: "Proceso para presentar demandas por conflictos laborales.",
		Timeline:    "6 a 12 meses",
		RequiredDocuments: []string{
			"Contrato de trabajo",
			"Roles de pago",
			"Aviso de salida o despido",
		},
		Steps: []ProcessStep{
			step("1", "Descripción del conflicto", "Describe detalladamente la situación laboral."),
			step("2", "Recopilación de pruebas", "Reúne contrato, roles de pago, correos y testigos."),
			step("3", "Cálculo de liquidación", "Calcula los valores adeudados por el empleador."),
			step("4", "Reclamo administrativo", "Presenta el reclamo ante la inspección del trabajo."),
			step("5", "Mediación", "Intenta un acuerdo en el centro de mediación."),
			step("6", "Preparación de la demanda", "Redacta la demanda con tu abogado."),
			step("7", "Presentación de la demanda", "Presenta la demanda ante la unidad judicial de trabajo."),
			step("8", "Audiencia preliminar", "Asiste a la audiencia preliminar y presenta tus pruebas."),
			step("9", "Audiencia de juicio", "Participa en la audiencia definitiva."),
			step("10", "Ejecución de la sentencia", "Gestiona el cobro de los valores reconocidos."),
		},
	},
}

// ProcessTemplates returns copies of the built-in templates.
func ProcessTemplates() []ProcessTemplate {
	out := make([]ProcessTemplate, len(processTemplates))
	for i, t := range processTemplates {
		t.Steps = cloneSteps(t.Steps)
		t.RequiredDocuments = append([]string(nil), t.RequiredDocuments...)
		out[i] = t
	}
	return out
}

// TemplateFor returns the template for a process type.
func TemplateFor(processType string) (ProcessTemplate, bool) {
	for _, t := range ProcessTemplates() {
		if t.Type == processType {
			return t, true
		}
	}
	return ProcessTemplate{}, false
}

// GenericSteps builds n placeholder steps for process types without a template.
func GenericSteps(n int) []ProcessStep {
	steps := make([]ProcessStep, n)
	for i := range steps {
		steps[i] = step(fmt.Sprint(i+1), fmt.Sprintf("Paso %d", i+1), "")
	}
	return steps
}

func cloneSteps(in []ProcessStep) []ProcessStep {
	out := make([]ProcessStep, len(in))
	for i, s := range in {
		s.Documents = append([]string{}, s.Documents...)
		s.Requirements = append([]string{}, s.Requirements...)
		out[i] = s
	}
	return out
}
