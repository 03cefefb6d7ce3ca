// Package ai produces product suggestions and sales insights. When the
// OpenAI key is missing or any call fails, every path degrades to the
// rule-based fallback (most-ordered products) instead of surfacing an
// error to the caller.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/arzonmarket/arzon-bot/internal/logging"
	"github.com/arzonmarket/arzon-bot/internal/models"
	"github.com/arzonmarket/arzon-bot/internal/repo"
)

const chatModel = "gpt-4o-mini"

type Suggestion struct {
	ProductID  uint    `json:"product_id"`
	Name       string  `json:"name"`
	Price      int64   `json:"price"`
	Reason     string  `json:"reason"`
	Confidence float64 `json:"confidence"`
}

type Engine struct {
	Repo    *repo.GormRepo
	BaseURL string
	APIKey  string

	http *retryablehttp.Client
}

func NewEngine(r *repo.GormRepo, baseURL, apiKey string) *Engine {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 3 * time.Second
	rc.HTTPClient.Timeout = 30 * time.Second
	rc.Logger = nil

	return &Engine{Repo: r, BaseURL: baseURL, APIKey: apiKey, http: rc}
}

func (e *Engine) Enabled() bool { return e.APIKey != "" }

// SuggestProducts returns up to limit suggestions for the user. AI output
// feeds through only when it parses cleanly; anything else falls back.
func (e *Engine) SuggestProducts(ctx context.Context, userID int64, limit int) []Suggestion {
	l := logging.FromContext(ctx).With("component", "ai")

	if !e.Enabled() {
		return e.fallback(ctx, userID, limit)
	}

	popular, err := e.Repo.PopularProducts(ctx, 10)
	if err != nil {
		l.Error("suggest_popular_query_failed", "error", err)
		return e.fallback(ctx, userID, limit)
	}

	prompt := buildSuggestionPrompt(popular, limit)
	content, err := e.chatCompletion(ctx, "You are a product recommendation assistant for an Uzbek delivery service. Answer with a JSON array only.", prompt, 500, 0.7)
	if err != nil {
		l.Error("suggest_ai_call_failed", "error", err)
		return e.fallback(ctx, userID, limit)
	}

	var suggestions []Suggestion
	if err := json.Unmarshal([]byte(extractJSON(content)), &suggestions); err != nil || len(suggestions) == 0 {
		l.Warn("suggest_ai_parse_failed", "error", err)
		return e.fallback(ctx, userID, limit)
	}
	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}

	e.store(ctx, userID, suggestions, "ai_generated")
	return suggestions
}

// SalesInsights renders the admin analytics summary. The fallback variant
// is a plain most-ordered listing built from the same aggregates.
func (e *Engine) SalesInsights(ctx context.Context) string {
	l := logging.FromContext(ctx).With("component", "ai")

	stats, err := e.Repo.GetStats(ctx)
	if err != nil {
		l.Error("insights_stats_failed", "error", err)
		return "❌ Статистика недоступна"
	}
	popular, err := e.Repo.PopularProducts(ctx, 5)
	if err != nil {
		l.Error("insights_popular_failed", "error", err)
		popular = nil
	}

	if e.Enabled() {
		payload, _ := json.Marshal(map[string]any{
			"stats":        stats,
			"top_products": productNames(popular),
		})
		prompt := fmt.Sprintf("Analyze this delivery-service sales data and give 3 short insights and 1 promo-campaign idea, in Russian:\n%s", payload)
		content, err := e.chatCompletion(ctx, "You are a business analyst for a small delivery service.", prompt, 800, 0.3)
		if err == nil && strings.TrimSpace(content) != "" {
			return "🤖 AI Аналитика\n\n" + strings.TrimSpace(content)
		}
		l.Error("insights_ai_call_failed", "error", err)
	}

	var b strings.Builder
	b.WriteString("📊 Аналитика (без AI)\n\n")
	fmt.Fprintf(&b, "📋 Заказов всего: %d (за неделю: %d)\n", stats.TotalOrders, stats.OrdersWeek)
	fmt.Fprintf(&b, "👥 Пользователей: %d (новых за неделю: %d)\n", stats.TotalUsers, stats.NewUsersWeek)
	fmt.Fprintf(&b, "💰 Выручка: %d сум\n", stats.TotalRevenue)
	if len(popular) > 0 {
		b.WriteString("\n📈 Популярные товары:\n")
		for _, p := range popular {
			fmt.Fprintf(&b, "• %s\n", p.NameRu)
		}
	}
	return b.String()
}

// SegmentUsers breaks the user base into new/active/VIP buckets by order
// count. The AI variant adds a retention tip per segment; without it the
// counts stand alone.
func (e *Engine) SegmentUsers(ctx context.Context) string {
	l := logging.FromContext(ctx).With("component", "ai")

	segments, err := e.Repo.GetUserSegments(ctx)
	if err != nil {
		l.Error("segments_query_failed", "error", err)
		return "❌ Сегментация недоступна"
	}

	if e.Enabled() {
		prompt := fmt.Sprintf("User segments of an Uzbek food delivery service: new (no orders): %d, active (1-4 orders): %d, VIP (5+ orders): %d. Give one short retention tip per segment, in Russian.", segments.New, segments.Active, segments.VIP)
		content, err := e.chatCompletion(ctx, "You are a CRM analyst for a small delivery service.", prompt, 500, 0.5)
		if err == nil && strings.TrimSpace(content) != "" {
			return "👥 Сегментация\n\n" + strings.TrimSpace(content)
		}
		l.Error("segments_ai_call_failed", "error", err)
	}

	var b strings.Builder
	b.WriteString("👥 Сегментация (без AI)\n\n")
	fmt.Fprintf(&b, "🆕 Новые (без заказов): %d\n", segments.New)
	fmt.Fprintf(&b, "🔄 Активные (1-4 заказа): %d\n", segments.Active)
	fmt.Fprintf(&b, "⭐ VIP (5+ заказов): %d\n", segments.VIP)
	return b.String()
}

// PromoCampaign drafts a promo proposal for the admins. Without AI it
// suggests discounting the current bestsellers.
func (e *Engine) PromoCampaign(ctx context.Context) string {
	l := logging.FromContext(ctx).With("component", "ai")

	popular, err := e.Repo.PopularProducts(ctx, 5)
	if err != nil {
		l.Error("promo_popular_failed", "error", err)
		popular = nil
	}

	if e.Enabled() {
		prompt := fmt.Sprintf("Propose one promo campaign for an Uzbek food delivery service, in Russian, 4 sentences max. Bestsellers: %s", strings.Join(productNames(popular), ", "))
		content, err := e.chatCompletion(ctx, "You are a marketing assistant for a small delivery service.", prompt, 400, 0.8)
		if err == nil && strings.TrimSpace(content) != "" {
			return "🎯 Промо-кампания\n\n" + strings.TrimSpace(content)
		}
		l.Error("promo_ai_call_failed", "error", err)
	}

	var b strings.Builder
	b.WriteString("🎯 Промо-кампания (без AI)\n\n")
	if len(popular) == 0 {
		b.WriteString("Недостаточно данных о заказах для рекомендации.")
		return b.String()
	}
	b.WriteString("Скидка 10% на популярные товары:\n")
	for _, p := range popular {
		fmt.Fprintf(&b, "• %s\n", p.NameRu)
	}
	return b.String()
}

func (e *Engine) fallback(ctx context.Context, userID int64, limit int) []Suggestion {
	popular, err := e.Repo.PopularProducts(ctx, limit)
	if err != nil {
		logging.FromContext(ctx).Error("fallback_query_failed", "component", "ai", "error", err)
		return nil
	}

	suggestions := make([]Suggestion, 0, len(popular))
	for _, p := range popular {
		suggestions = append(suggestions, Suggestion{
			ProductID:  p.ID,
			Name:       p.NameUz,
			Price:      p.Price,
			Reason:     "popular",
			Confidence: 0.7,
		})
	}

	e.store(ctx, userID, suggestions, "fallback")
	return suggestions
}

func (e *Engine) store(ctx context.Context, userID int64, suggestions []Suggestion, recType string) {
	recs := make([]models.AIRecommendation, 0, len(suggestions))
	for _, s := range suggestions {
		recs = append(recs, models.AIRecommendation{
			UserID:             userID,
			ProductID:          s.ProductID,
			RecommendationType: recType,
			ConfidenceScore:    s.Confidence,
		})
	}
	if err := e.Repo.StoreRecommendations(ctx, recs); err != nil {
		logging.FromContext(ctx).Error("store_recommendations_failed", "component", "ai", "error", err)
	}
}

func (e *Engine) chatCompletion(ctx context.Context, system, user string, maxTokens int, temperature float64) (string, error) {
	body := map[string]any{
		"model": chatModel,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
		"max_tokens":  maxTokens,
		"temperature": temperature,
	}
	data, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	url := strings.TrimRight(e.BaseURL, "/") + "/v1/chat/completions"
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.APIKey)

	resp, err := e.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai: unexpected status %d", resp.StatusCode)
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("openai: empty choices")
	}
	return out.Choices[0].Message.Content, nil
}

func buildSuggestionPrompt(popular []models.Product, limit int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Recommend up to %d products from this list as a JSON array of objects with product_id, name, price, reason, confidence:\n", limit)
	for _, p := range popular {
		fmt.Fprintf(&b, "- id=%d name=%q price=%d\n", p.ID, p.NameUz, p.Price)
	}
	return b.String()
}

// extractJSON pulls the first JSON array out of a model reply that may be
// wrapped in prose or a code fence.
func extractJSON(s string) string {
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}

func productNames(products []models.Product) []string {
	names := make([]string, 0, len(products))
	for _, p := range products {
		names = append(names, p.NameRu)
	}
	return names
}
