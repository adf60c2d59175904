package handler

import (
	"fmt"
	"strings"

	"github.com/set-night/pagecast/internal/domain"
	tg "github.com/set-night/pagecast/internal/telegram"
)

var sentimentIcons = map[domain.Sentiment]string{
	domain.SentimentPositive: "😊",
	domain.SentimentNegative: "😟",
	domain.SentimentNeutral:  "😐",
}

func formatAnalysis(rec *domain.AnalysisRecord, cached bool) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "📰 %s\n\n", tg.EscapeMarkdown(rec.URL))
	fmt.Fprintf(&sb, "*Summary*\n%s\n", tg.EscapeMarkdown(rec.Analysis.Summary))

	if len(rec.Analysis.KeyPoints) > 0 {
		sb.WriteString("\n*Key points*\n")
		for _, p := range rec.Analysis.KeyPoints {
			fmt.Fprintf(&sb, "• %s\n", tg.EscapeMarkdown(p))
		}
	}

	fmt.Fprintf(&sb, "\n%s %s · %d words · 🎧 ~%ds\n",
		sentimentIcons[rec.Analysis.Sentiment], rec.Analysis.Sentiment,
		rec.Analysis.WordCount, rec.Audio.Duration)
	fmt.Fprintf(&sb, "🆔 `%s`", rec.ID)
	if cached {
		fmt.Fprintf(&sb, "\n♻️ Cached result from %s", rec.CreatedAt.Format("2006-01-02 15:04"))
	}
	return sb.String()
}

func formatHistory(records []domain.AnalysisRecord) string {
	if len(records) == 0 {
		return "📭 No analyses yet. Send me a link to start."
	}

	var sb strings.Builder
	sb.WriteString("🗂 *Your analyses*\n")
	for _, rec := range records {
		fmt.Fprintf(&sb, "\n%s %s\n%s\n`%s`\n",
			sentimentIcons[rec.Analysis.Sentiment],
			rec.CreatedAt.Format("2006-01-02 15:04"),
			tg.EscapeMarkdown(tg.Truncate(rec.URL, 80)),
			rec.ID,
		)
	}
	sb.WriteString("\nUse /show <id> or /delete <id>.")
	return sb.String()
}

func formatConfig(cfg domain.ResolvedConfig) string {
	caching := "off"
	if cfg.EnableCaching {
		caching = "on"
	}
	return fmt.Sprintf(
		"⚙️ *AI settings*\n\n"+
			"🤖 Model: `%s` (%s)\n"+
			"📝 Prompt: `%s`\n"+
			"🌐 Language: `%s`\n"+
			"📏 Max content length: *%d*\n"+
			"♻️ Caching: *%s*\n"+
			"⏱ Cache expiration: *%ds*\n\n"+
			"Change with /model, /prompt, /lang, /maxlen, /caching, /expiration.",
		cfg.Model.Key, tg.EscapeMarkdown(cfg.Model.Name),
		cfg.Prompt.ID,
		cfg.Language,
		cfg.MaxContentLength,
		caching,
		cfg.CacheExpiration,
	)
}

func formatModels(list []domain.AIModel, current string) string {
	var sb strings.Builder
	sb.WriteString("🤖 *Available models*\n")
	for _, m := range list {
		mark := ""
		if m.Key == current {
			mark = " ✅"
		}
		price := "free"
		if !m.IsFree() {
			price = fmt.Sprintf("$%s / $%s per 1M tokens",
				m.PromptPrice.String(), m.CompletionPrice.String())
		}
		fmt.Fprintf(&sb, "\n`%s`%s\n%s · %s\n%s\n",
			m.Key, mark, tg.EscapeMarkdown(m.Name), price, tg.EscapeMarkdown(m.Description))
	}
	return sb.String()
}

func formatPrompts(list []domain.PromptTemplate, current string) string {
	var sb strings.Builder
	sb.WriteString("📝 *Available prompts*\n")
	for _, p := range list {
		mark := ""
		if p.ID == current {
			mark = " ✅"
		}
		fmt.Fprintf(&sb, "\n`%s`%s (%s)\n%s\n", p.ID, mark, p.Language, tg.EscapeMarkdown(p.Description))
	}
	return sb.String()
}

func formatVoices(list []domain.Voice) string {
	if len(list) == 0 {
		return "🔇 No voices available right now."
	}
	var sb strings.Builder
	sb.WriteString("🗣 *Voices*\n")
	for _, v := range list {
		fmt.Fprintf(&sb, "\n%s · %s\n`%s`", tg.EscapeMarkdown(v.Name), v.Category, v.ID)
	}
	return sb.String()
}

// commandArgs returns the words after the command itself.
func commandArgs(text string) []string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}
	return fields[1:]
}

// findURL returns the first http(s) link in text, or text itself when it has a
// single word, so that bare hosts still get a validation message.
func findURL(text string) string {
	fields := strings.Fields(text)
	for _, f := range fields {
		lower := strings.ToLower(f)
		if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
			return f
		}
	}
	if len(fields) == 1 {
		return fields[0]
	}
	return ""
}
