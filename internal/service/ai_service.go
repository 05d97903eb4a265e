package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"vivaai_backend/internal/config"
	"vivaai_backend/internal/model"
	"vivaai_backend/internal/util"
	"vivaai_backend/pkg/monitoring"
)

// AIService 统一封装 OpenAI 兼容网关：答案评分、下一题生成、教练点评。
// 网关对核心层完全不透明，失败原样上抛（包一层 ErrUpstreamService），不在这里重试。
type AIService struct {
	config config.AIConfig
	client *http.Client
}

func NewAIService(cfg config.AIConfig) *AIService {
	return &AIService{
		config: cfg,
		client: &http.Client{Timeout: cfg.RequestTimeout},
	}
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model       string          `json:"model"`
	Messages    []AIChatMessage `json:"messages"`
	Temperature float64         `json:"temperature,omitempty"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (s *AIService) chat(ctx context.Context, operation string, messages []AIChatMessage, temperature float64, maxTokens int) (string, error) {
	start := time.Now()
	content, err := s.doChat(ctx, messages, temperature, maxTokens)
	monitoring.ObserveAICall(operation, start, err)
	return content, err
}

func (s *AIService) doChat(ctx context.Context, messages []AIChatMessage, temperature float64, maxTokens int) (string, error) {
	reqBody := ChatCompletionRequest{
		Model:       s.config.Model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", util.ErrUpstreamService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: gateway status %d: %s", util.ErrUpstreamService, resp.StatusCode, string(body))
	}

	var chatResp ChatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", util.ErrUpstreamService, err)
	}
	if chatResp.Error != nil {
		return "", fmt.Errorf("%w: %s", util.ErrUpstreamService, chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}

// stripJSONFences 模型偶尔会把 JSON 包进 markdown 代码块
func stripJSONFences(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}

const evaluateSystemPrompt = `You are an expert interview evaluator. Your job is to assess candidate responses with precision and critical analysis.

STRICT RULES:
1. DO NOT give generic praise like "great answer" or "well done"
2. DO NOT ask follow-up questions
3. Focus ONLY on: relevance to the question, clarity of expression, and confidence indicators
4. Be critical but fair - identify specific weaknesses
5. Detect hesitation markers: filler words (um, uh, like), vague language, circular reasoning, or lack of specifics

SCORING CRITERIA (1-10):
- 1-3: Poor - Off-topic, unclear, or fundamentally wrong
- 4-5: Below Average - Partially relevant but lacks depth or clarity
- 6-7: Average - Addresses the question adequately with minor issues
- 8-9: Good - Clear, relevant, and demonstrates competence
- 10: Excellent - Exceptional clarity, depth, and confidence

CONFIDENCE ASSESSMENT:
- "low": Answer shows uncertainty, vagueness, or lack of conviction
- "medium": Reasonably confident but could be stronger
- "high": Demonstrates clear conviction and authority

HESITATION DETECTION:
- true: Contains filler words, vague statements, or signs of uncertainty
- false: Direct, clear, and confident delivery

You must respond with ONLY valid JSON matching this exact schema:
{
  "score": <number 1-10>,
  "confidence": "<low|medium|high>",
  "hesitation": <true|false>,
  "summary": "<one sentence explanation of the score, max 100 characters>"
}`

// EvaluateAnswer 调用评分网关评估一次作答。
// 返回值不做任何钳制，越界交给控制器的校验去拒绝
func (s *AIService) EvaluateAnswer(ctx context.Context, interviewType model.InterviewType, question, answer string) (model.AnswerEvaluation, error) {
	userPrompt := fmt.Sprintf(`Interview Type: %s
Question: %s
Candidate Answer: %s

Evaluate this response and return ONLY the JSON object.`, interviewType, question, answer)

	content, err := s.chat(ctx, "evaluate_answer", []AIChatMessage{
		{Role: "system", Content: evaluateSystemPrompt},
		{Role: "user", Content: userPrompt},
	}, 0.3, 200)
	if err != nil {
		return model.AnswerEvaluation{}, err
	}

	var eval model.AnswerEvaluation
	if err := json.Unmarshal([]byte(stripJSONFences(content)), &eval); err != nil {
		return model.AnswerEvaluation{}, fmt.Errorf("%w: malformed evaluation payload: %v", util.ErrUpstreamService, err)
	}
	return eval, nil
}

// 出题失败兜底题目，按难度区分
var fallbackQuestions = map[model.Difficulty]string{
	model.DifficultyEasy:   "What motivates you in your work?",
	model.DifficultyMedium: "Describe a time when you had to adapt to a significant change at work.",
	model.DifficultyHard:   "Tell me about a situation where you had to make a critical decision with incomplete information and significant consequences.",
}

// NextQuestion 按控制器给出的难度与语气生成下一道题。
// 网关返回空内容时退回兜底题，网关报错则原样上抛
func (s *AIService) NextQuestion(ctx context.Context, interviewType model.InterviewType, nextDifficulty model.Difficulty, tone model.Tone) (string, error) {
	systemPrompt := fmt.Sprintf(`You are an expert interviewer conducting a %s interview.

YOUR TASK: Generate exactly ONE interview question.

DIFFICULTY LEVEL: %s
- easy: Basic questions about fundamentals, simple scenarios, straightforward expectations
- medium: Situational questions requiring specific examples, moderate complexity
- hard: Complex behavioral questions, pressure scenarios, deep technical or strategic thinking

INTERVIEWER TONE: %s
- supportive: Warm, encouraging phrasing that puts candidate at ease
- neutral: Professional, direct questioning without emotional coloring
- challenging: Probing, pushing for deeper answers, slightly demanding

RULES:
1. Ask ONLY ONE question
2. Do NOT include any preamble, explanation, or follow-up
3. Do NOT number the question
4. Match the difficulty and tone exactly
5. Make the question relevant to %s
6. The question should be different from common basic questions like "tell me about yourself"

Respond with ONLY the question text, nothing else.`, interviewType, nextDifficulty, tone, interviewType)

	userPrompt := fmt.Sprintf("Generate the next %s difficulty question with a %s tone for a %s interview.",
		nextDifficulty, tone, interviewType)

	content, err := s.chat(ctx, "next_question", []AIChatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	}, 0.7, 150)
	if err != nil {
		return "", err
	}

	question := strings.Trim(content, `"'`)
	question = strings.TrimSpace(question)
	if question == "" {
		question = fallbackQuestions[nextDifficulty]
	}
	return question, nil
}

// CoachingRequest 近期表现点评的输入窗口
type CoachingRequest struct {
	LastFiveScores      []float64           `json:"lastFiveScores"`
	ConfidenceTrend     []model.Confidence  `json:"confidenceTrend"`
	HesitationFrequency float64             `json:"hesitationFrequency"` // 0~1
	InterviewType       model.InterviewType `json:"interviewType"`
}

// CoachingFeedback 基于最近5次表现生成教练点评
func (s *AIService) CoachingFeedback(ctx context.Context, req CoachingRequest) (*model.CoachingFeedback, error) {
	avgScore := 0.0
	for _, sc := range req.LastFiveScores {
		avgScore += sc
	}
	if len(req.LastFiveScores) > 0 {
		avgScore /= float64(len(req.LastFiveScores))
	}

	scoreImprovement := 0.0
	if len(req.LastFiveScores) >= 2 {
		scoreImprovement = req.LastFiveScores[len(req.LastFiveScores)-1] - req.LastFiveScores[0]
	}
	trend := "stable"
	if scoreImprovement > 0 {
		trend = "improving"
	} else if scoreImprovement < 0 {
		trend = "declining"
	}

	var highCount, lowCount int
	for _, c := range req.ConfidenceTrend {
		switch c {
		case model.ConfidenceHigh:
			highCount++
		case model.ConfidenceLow:
			lowCount++
		}
	}

	scoresJSON, _ := json.Marshal(req.LastFiveScores)
	confJSON, _ := json.Marshal(req.ConfidenceTrend)

	systemPrompt := `You are a professional interview coach analyzing a candidate's recent interview performance.
Your role is to provide supportive, professional feedback that helps them improve.

CRITICAL RULES:
- Be specific and actionable, not generic
- No empty praise like "Great job!" or "You're doing well!"
- Focus on observable patterns in the data
- Provide one clear, specific tip they can practice immediately
- Keep each field to 1-2 sentences maximum
- Be encouraging but honest about areas needing work`

	userPrompt := fmt.Sprintf(`Analyze this %s interview performance and generate coaching feedback:

Performance Data:
- Last 5 scores: %s (scale 1-10)
- Average score: %.1f
- Score trend: %s (%+.1f)
- Confidence levels: %s
- High confidence answers: %d/%d
- Low confidence answers: %d/%d
- Hesitation frequency: %.0f%% of answers showed hesitation

Return ONLY valid JSON in this exact format:
{
  "strength": "One specific strength observed from the data",
  "observation": "One key pattern or trend noticed in their performance",
  "coachingInsight": "A professional insight about what this pattern means",
  "actionableTip": "One specific, practical action they can take before their next interview"
}`,
		req.InterviewType, scoresJSON, avgScore, trend, scoreImprovement, confJSON,
		highCount, len(req.ConfidenceTrend), lowCount, len(req.ConfidenceTrend),
		req.HesitationFrequency*100)

	content, err := s.chat(ctx, "coaching_feedback", []AIChatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	}, 0.7, 0)
	if err != nil {
		return nil, err
	}

	var feedback model.CoachingFeedback
	if err := json.Unmarshal([]byte(stripJSONFences(content)), &feedback); err != nil {
		return nil, fmt.Errorf("%w: malformed coaching payload: %v", util.ErrUpstreamService, err)
	}
	return &feedback, nil
}
