package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/koki198977/recomiendame-coach-app-sub001/models"
)

// EmotionalState is the mood bucket the classifier assigns to a free-text
// user message.
type EmotionalState string

const (
	StateMotivated EmotionalState = "motivated"
	StateTired     EmotionalState = "tired"
	StateBurnout   EmotionalState = "burnout"
	StateSad       EmotionalState = "sad"
	StateAnxious   EmotionalState = "anxious"
	StateNeutral   EmotionalState = "neutral"
)

// moodGroups are evaluated in order; the first group with a matching term
// wins. Terms are Spanish stems so "ansioso"/"ansiosa" both hit "ansios".
var moodGroups = []struct {
	state EmotionalState
	terms []string
}{
	{StateMotivated, []string{"motivad", "con ganas", "entusiasm", "animad", "con energía", "imparable"}},
	{StateTired, []string{"cansad", "fatigad", "con sueño", "sin energía", "sin fuerzas"}},
	{StateBurnout, []string{"quemad", "agotad", "no puedo más", "no doy más", "saturad", "burnout"}},
	{StateSad, []string{"triste", "deprimid", "desanimad", "bajón", "llorar", "solo", "sola"}},
	{StateAnxious, []string{"ansios", "ansiedad", "nervios", "estresad", "estrés", "angustia", "preocupad"}},
}

// ClassifyEmotionalState maps a free-text message onto an EmotionalState by
// ordered keyword matching. Pure; defaults to neutral.
func ClassifyEmotionalState(message string) EmotionalState {
	msg := strings.ToLower(message)
	for _, g := range moodGroups {
		for _, term := range g.terms {
			if strings.Contains(msg, term) {
				return g.state
			}
		}
	}
	return StateNeutral
}

// AssistantAction is one action descriptor as the assistant backend sends it.
type AssistantAction struct {
	Title           string `json:"title"`
	Type            string `json:"type"` // "PHYSICAL" | "MENTAL" | ...
	DurationMinutes int    `json:"durationMinutes,omitempty"`
	YoutubeURL      string `json:"youtubeUrl,omitempty"`
}

type SuggestionType string

const (
	SuggestionExercise  SuggestionType = "exercise"
	SuggestionBreathing SuggestionType = "breathing"
)

// ActionSuggestion is the typed UI suggestion derived from an AssistantAction.
type ActionSuggestion struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Type            SuggestionType `json:"type"`
	DurationMinutes int            `json:"duration_minutes,omitempty"`
	VideoURL        string         `json:"video_url,omitempty"`
}

// ConvertActions maps backend action descriptors 1:1 onto typed suggestions.
// "PHYSICAL" becomes an exercise suggestion, everything else breathing; each
// suggestion gets a fresh unique id.
func ConvertActions(actions []AssistantAction) []ActionSuggestion {
	out := make([]ActionSuggestion, 0, len(actions))
	for _, a := range actions {
		typ := SuggestionBreathing
		if strings.EqualFold(a.Type, "PHYSICAL") {
			typ = SuggestionExercise
		}
		out = append(out, ActionSuggestion{
			ID:              uuid.NewString(),
			Title:           a.Title,
			Type:            typ,
			DurationMinutes: a.DurationMinutes,
			VideoURL:        a.YoutubeURL,
		})
	}
	return out
}

type RecommendationCategory string

const (
	HighlyRecommended RecommendationCategory = "highly_recommended"
	Recommended       RecommendationCategory = "recommended"
	ModerateChoice    RecommendationCategory = "moderate"
	NotRecommended    RecommendationCategory = "not_recommended"
	AvoidProduct      RecommendationCategory = "avoid"
)

// ChapiProductAnalysis is the assistant's verdict on a scanned product,
// either from the structured endpoint or mined out of a plain-text reply.
type ChapiProductAnalysis struct {
	Recommendation RecommendationCategory `json:"recommendation"`
	Score          int                    `json:"score"`
	Pros           []string               `json:"pros"`
	Cons           []string               `json:"cons"`
	PortionAdvice  string                 `json:"portion_advice"`
	TimingAdvice   string                 `json:"timing_advice"`
	PlanFit        string                 `json:"plan_fit"`
}

// ChapiService talks to the conversational-assistant backend and interprets
// its replies. The text-mining fallback lives here too, clearly separated
// from the structured path so it can be replaced wholesale.
type ChapiService struct {
	client  *http.Client
	baseURL string
}

func NewChapiService() *ChapiService {
	return &ChapiService{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: strings.TrimRight(os.Getenv("CHAPI_API_URL"), "/"),
	}
}

// NewChapiServiceWithBase is used by tests to point at a local server.
func NewChapiServiceWithBase(baseURL string, client *http.Client) *ChapiService {
	return &ChapiService{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

// ChapiReply is what the message endpoint produces for the UI.
type ChapiReply struct {
	LogID       string             `json:"log_id,omitempty"`
	Mood        EmotionalState     `json:"mood"`
	Emotion     string             `json:"emotion,omitempty"`
	Advice      string             `json:"advice"`
	Suggestions []ActionSuggestion `json:"suggestions"`
}

type chapiMessageResponse struct {
	LogID   string            `json:"logId"`
	Emotion string            `json:"emotion"`
	Advice  string            `json:"advice"`
	Actions []AssistantAction `json:"actions"`
}

// SendMessage posts the user's message to the assistant API and converts the
// response into a ChapiReply. The local mood classification runs regardless,
// so the caller has a mood even when the backend omits one.
func (c *ChapiService) SendMessage(ctx context.Context, message string) (*ChapiReply, error) {
	mood := ClassifyEmotionalState(message)

	body, err := json.Marshal(map[string]string{"message": message})
	if err != nil {
		return nil, fmt.Errorf("marshal chapi payload: %w", err)
	}

	resp, err := c.post(ctx, "/chat", body)
	if err != nil {
		return nil, err
	}

	var out chapiMessageResponse
	if err := json.Unmarshal(resp, &out); err != nil {
		return nil, fmt.Errorf("parse chapi response: %w", err)
	}

	return &ChapiReply{
		LogID:       out.LogID,
		Mood:        mood,
		Emotion:     out.Emotion,
		Advice:      out.Advice,
		Suggestions: ConvertActions(out.Actions),
	}, nil
}

// GetProductAnalysis asks the assistant for a product verdict. The structured
// endpoint is tried first; when it is unavailable the plain-text endpoint is
// mined with ParseTextAnalysis. This function never fails; worst case it
// returns the parser's all-default analysis.
func (c *ChapiService) GetProductAnalysis(ctx context.Context, product *models.Product, userCtx *RestrictionContext) *ChapiProductAnalysis {
	payload := map[string]any{
		"barcode":    product.Barcode,
		"name":       product.Name,
		"nutriments": product.Per100g,
		"nova_group": product.NovaGroup,
	}
	if userCtx != nil {
		payload["goal"] = userCtx.NutritionGoal
		payload["conditions"] = userCtx.Conditions
	}
	body, _ := json.Marshal(payload)

	if resp, err := c.post(ctx, "/product-analysis", body); err == nil {
		var out ChapiProductAnalysis
		if json.Unmarshal(resp, &out) == nil && out.Recommendation != "" {
			if out.Pros == nil {
				out.Pros = []string{}
			}
			if out.Cons == nil {
				out.Cons = []string{}
			}
			return &out
		}
	}

	// Fallback: ask for a free-text verdict and mine it.
	if resp, err := c.post(ctx, "/product-analysis/text", body); err == nil {
		var out struct {
			Text string `json:"text"`
		}
		if json.Unmarshal(resp, &out) == nil {
			return ParseTextAnalysis(out.Text)
		}
	}

	return ParseTextAnalysis("")
}

func (c *ChapiService) post(ctx context.Context, path string, body []byte) ([]byte, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("CHAPI_API_URL not set")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build chapi request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chapi request error: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read chapi response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chapi api error (%d): %s", resp.StatusCode, string(raw))
	}
	return raw, nil
}

// ─── Fallback text mining ───────────────────────────────────────────────────

var (
	scoreOutOf100Re = regexp.MustCompile(`(\d{1,3})\s*/\s*100`)
	scorePointsRe   = regexp.MustCompile(`(\d{1,3})\s+(?:points|puntos)`)
)

var categoryBaselines = map[RecommendationCategory]int{
	HighlyRecommended: 85,
	Recommended:       70,
	ModerateChoice:    50,
	NotRecommended:    30,
	AvoidProduct:      15,
}

var prosTriggers = []string{"good source", "rich in", "benefit", "high in protein", "buena fuente", "rico en", "aporta", "beneficio"}
var consTriggers = []string{"too much", "high in sugar", "high in sodium", "watch out", "excess", "cuidado", "exceso", "alto en", "demasiad"}

// ParseTextAnalysis mines a free-text assistant reply into a structured
// recommendation. It may extract nothing, but it always returns a
// structurally valid analysis and never fails.
func ParseTextAnalysis(raw string) *ChapiProductAnalysis {
	lower := strings.ToLower(raw)

	category := ModerateChoice
	switch {
	case strings.Contains(lower, "highly recommended"), strings.Contains(lower, "excellent"):
		category = HighlyRecommended
	case strings.Contains(lower, "not recommended"):
		category = NotRecommended
	case strings.Contains(lower, "avoid"):
		category = AvoidProduct
	case strings.Contains(lower, "recommended"), strings.Contains(lower, "good"):
		category = Recommended
	}

	score := categoryBaselines[category]
	if m := scoreOutOf100Re.FindStringSubmatch(lower); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			score = clampScore(v)
		}
	} else if m := scorePointsRe.FindStringSubmatch(lower); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			score = clampScore(v)
		}
	}

	analysis := &ChapiProductAnalysis{
		Recommendation: category,
		Score:          score,
		Pros:           []string{},
		Cons:           []string{},
	}

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-•* "))
		if trimmed == "" {
			continue
		}
		ll := strings.ToLower(trimmed)

		if len(analysis.Pros) < 5 && containsAny(ll, prosTriggers) {
			analysis.Pros = append(analysis.Pros, trimmed)
		} else if len(analysis.Cons) < 5 && containsAny(ll, consTriggers) {
			analysis.Cons = append(analysis.Cons, trimmed)
		}

		if analysis.PortionAdvice == "" && containsAny(ll, []string{"portion", "serving", "porción", "ración"}) {
			analysis.PortionAdvice = trimmed
		}
		if analysis.TimingAdvice == "" && containsAny(ll, []string{"morning", "breakfast", "before", "after", "mañana", "desayuno", "antes de", "después de"}) {
			analysis.TimingAdvice = trimmed
		}
		if analysis.PlanFit == "" && containsAny(ll, []string{"plan", "goal", "objetivo", "meta"}) {
			analysis.PlanFit = trimmed
		}
	}

	if analysis.PortionAdvice == "" {
		analysis.PortionAdvice = "Keep portions moderate and check the label"
	}
	if analysis.TimingAdvice == "" {
		analysis.TimingAdvice = "No specific timing, fit it where it suits your day"
	}
	if analysis.PlanFit == "" {
		analysis.PlanFit = "Review how this fits your current nutrition plan"
	}

	return analysis
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
