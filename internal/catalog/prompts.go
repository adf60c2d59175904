package catalog

import (
	"sort"
	"strings"

	"github.com/set-night/pagecast/internal/domain"
)

const DefaultPromptID = "analysis-en"

var promptOrder = []string{"analysis-en", "analysis-pl"}

var prompts = map[string]domain.PromptTemplate{
	"analysis-en": {
		ID:           "analysis-en",
		Name:         "Content Analysis (English)",
		Language:     "en",
		SystemPrompt: "You are an expert in analyzing web content. Your task is to analyze the provided website and present it in a concise and useful manner. Always respond in English.",
		UserPromptTemplate: `Analyze the following website:

Title: {title}
URL: {url}

Page content:
{content}

Please provide analysis in the following JSON format:

{
  "keyPoints": ["Key point 1", "Key point 2", "Key point 3"],
  "summary": "Brief summary of the page (10 sentences)",
  "sentiment": "positive|negative|neutral",
  "wordCount": number_of_words_in_content
}

The analysis should be objective and useful. Key points should contain the most important information from the page.`,
		Description: "Standard content analysis prompt in English",
	},
	"analysis-pl": {
		ID:           "analysis-pl",
		Name:         "Content Analysis (Polish)",
		Language:     "pl",
		SystemPrompt: "Jesteś ekspertem w analizie treści internetowych. Twoim zadaniem jest przeanalizowanie podanej strony internetowej i przedstawienie jej w zwięzły i użyteczny sposób. Zawsze odpowiadaj po polsku.",
		UserPromptTemplate: `Przeanalizuj następującą stronę internetową:

Tytuł: {title}
URL: {url}

Treść strony:
{content}

Proszę podaj analizę w następującym formacie JSON:

{
  "keyPoints": ["Kluczowy punkt 1", "Kluczowy punkt 2", "Kluczowy punkt 3"],
  "summary": "Krótkie podsumowanie strony (10 zdań)",
  "sentiment": "positive|negative|neutral",
  "wordCount": liczba_słów_w_treści
}

Analiza powinna być obiektywna i użyteczna. Kluczowe punkty powinny zawierać najważniejsze informacje ze strony.`,
		Description: "Standard content analysis prompt in Polish",
	},
}

func Prompts() []domain.PromptTemplate {
	out := make([]domain.PromptTemplate, 0, len(promptOrder))
	for _, id := range promptOrder {
		out = append(out, prompts[id])
	}
	return out
}

func PromptIDs() []string {
	ids := make([]string, 0, len(prompts))
	for id := range prompts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Prompt looks up a template by id. An empty id selects the default prompt.
func Prompt(id string) (domain.PromptTemplate, error) {
	if id == "" {
		id = DefaultPromptID
	}
	return FindPrompt(id)
}

// FindPrompt looks up id exactly, without the empty-id default.
func FindPrompt(id string) (domain.PromptTemplate, error) {
	p, ok := prompts[id]
	if !ok {
		return domain.PromptTemplate{}, domain.NewNotFoundError("prompt '%s' not found. Available prompts: %s",
			id, strings.Join(PromptIDs(), ", "))
	}
	return p, nil
}

func DefaultPrompt() domain.PromptTemplate {
	return prompts[DefaultPromptID]
}

// PromptsByLanguage returns templates for lang in display order.
func PromptsByLanguage(lang string) []domain.PromptTemplate {
	var out []domain.PromptTemplate
	for _, id := range promptOrder {
		if p := prompts[id]; p.Language == lang {
			out = append(out, p)
		}
	}
	return out
}

// Languages returns the distinct prompt languages in display order.
func Languages() []string {
	seen := make(map[string]bool)
	var out []string
	for _, id := range promptOrder {
		lang := prompts[id].Language
		if !seen[lang] {
			seen[lang] = true
			out = append(out, lang)
		}
	}
	return out
}

func IsLanguage(lang string) bool {
	return len(PromptsByLanguage(lang)) > 0
}
