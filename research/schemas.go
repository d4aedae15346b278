package research

// Output schemas for the multi-agent workflow. Each specialist's terminal
// answer is coerced into one of these shapes so the supervisor can pass
// machine-readable state between steps.

func subtopicSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":       map[string]any{"type": "string", "description": "Title of the subtopic"},
			"description": map[string]any{"type": "string", "description": "Description of the subtopic"},
		},
		"required": []string{"title", "description"},
	}
}

// PlanSchema describes the planner's output: the subtopics to research.
func PlanSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"subtopics": map[string]any{
				"type":        "array",
				"description": "List of subtopics to research",
				"items":       subtopicSchema(),
			},
		},
		"required": []string{"subtopics"},
	}
}

// RetrievalsSchema describes the retriever's output: insights and citations
// for one subtopic.
func RetrievalsSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"subtopic": subtopicSchema(),
			"insights": map[string]any{
				"type":        "array",
				"description": "List of insights from the subtopic in bullet points",
				"items":       map[string]any{"type": "string"},
			},
			"citations": map[string]any{
				"type":        "array",
				"description": "List of citations from the subtopic in APA format like; Doe, J. (2021). Title of the citation. Journal Name, 1(1), 1-10.",
				"items":       map[string]any{"type": "string"},
			},
		},
		"required": []string{"subtopic", "insights", "citations"},
	}
}

// ReflectionSchema describes the reflector's output: gaps found and
// suggested improvements.
func ReflectionSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"gaps": map[string]any{
				"type":        "array",
				"description": "List of gaps in the retrieval",
				"items":       map[string]any{"type": "string"},
			},
			"improvements": map[string]any{
				"type":        "array",
				"description": "List of improvements to the retrieval",
				"items":       map[string]any{"type": "string"},
			},
		},
		"required": []string{"gaps", "improvements"},
	}
}

// SynthesisSchema describes the synthesis agent's output: the final report.
func SynthesisSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"report": map[string]any{"type": "string", "description": "Report of the synthesis"},
		},
		"required": []string{"report"},
	}
}
