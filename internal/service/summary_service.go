package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/scooter7/credo-etl/config"
	"github.com/scooter7/credo-etl/internal/dto"
	"github.com/scooter7/credo-etl/internal/pipeline"
)

// ── 摘要模块业务错误 ──

var (
	ErrSummaryDisabled = errors.New("文字摘要功能未启用")
	ErrSummaryFailed   = errors.New("生成文字摘要失败")
)

// summaryRowLimit 每张表写入提示词的最大行数
const summaryRowLimit = 50

// TextGenerator 文本生成模型
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Model() string
}

// ── Gemini 实现 ──

// GeminiGenerator 基于 Google GenAI 的文本生成
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator 创建 Gemini 客户端；未配置 API Key 时返回错误
func NewGeminiGenerator(ctx context.Context, cfg *config.AIConfig) (*GeminiGenerator, error) {
	if cfg.APIKey == "" {
		return nil, ErrSummaryDisabled
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-pro"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("创建 GenAI 客户端失败: %w", err)
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

func (g *GeminiGenerator) Model() string {
	return g.model
}

// ── SummaryService ──

// SummaryService 冲突与利用率文字摘要
type SummaryService interface {
	Summarize(ctx context.Context, id string, req *dto.SummaryRequest) (*dto.SummaryResponse, error)
}

type summaryService struct {
	store   pipeline.Store
	gen     TextGenerator
	timeout time.Duration
	logger  *zap.Logger
}

// NewSummaryService 创建 SummaryService 实例；gen 为 nil 时所有调用返回 ErrSummaryDisabled
func NewSummaryService(store pipeline.Store, gen TextGenerator, timeout time.Duration, logger *zap.Logger) SummaryService {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &summaryService{store: store, gen: gen, timeout: timeout, logger: logger}
}

func (s *summaryService) Summarize(ctx context.Context, id string, req *dto.SummaryRequest) (*dto.SummaryResponse, error) {
	if s.gen == nil {
		return nil, ErrSummaryDisabled
	}

	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sess.Analyzed() {
		return nil, fmt.Errorf("%w: 需先完成分析", pipeline.ErrStageNotReady)
	}

	notes := ""
	if req != nil {
		notes = req.Notes
	}
	prompt, err := BuildSummaryPrompt(sess, notes)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		s.logger.Error("调用文本模型失败", zap.String("session_id", id), zap.String("model", s.gen.Model()), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrSummaryFailed, err)
	}
	if strings.TrimSpace(text) == "" {
		text = "（模型未返回内容）"
	}
	return &dto.SummaryResponse{Model: s.gen.Model(), Text: text}, nil
}

// BuildSummaryPrompt 组装提示词：三张表各取前 50 行（CSV）及附加说明
func BuildSummaryPrompt(sess *pipeline.Session, notes string) (string, error) {
	var b strings.Builder
	b.WriteString("You are reviewing a university's instructional space schedule for quality problems.\n\n")

	for _, name := range []string{pipeline.TableRoomConflicts, pipeline.TableInstructorConflicts, pipeline.TableUtilization} {
		t, err := sess.Table(name)
		if err != nil {
			return "", err
		}
		snippet, err := tableCSV(t, summaryRowLimit)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "%s (first %d rows):\n%s\n", name, summaryRowLimit, snippet)
	}

	if strings.TrimSpace(notes) == "" {
		notes = "(none)"
	}
	fmt.Fprintf(&b, "Notes:\n%s\n\n", notes)
	b.WriteString("Please:\n" +
		"1. Summarize the most significant conflicts and the rooms that are clearly under- or over-used.\n" +
		"2. Recommend concrete, prioritized fixes such as room swaps or time changes.\n" +
		"3. Point out data quality problems you can infer, for example missing times or ambiguous day codes.\n" +
		"Keep the answer short and easy to scan.\n")
	return b.String(), nil
}

// tableCSV 将前 limit 行写为 CSV；空表返回 "(none)"
func tableCSV(t *pipeline.NamedTable, limit int) (string, error) {
	if len(t.Rows) == 0 {
		return "(none)\n", nil
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.Columns); err != nil {
		return "", err
	}
	for i, row := range t.Rows {
		if i >= limit {
			break
		}
		rec := make([]string, len(row))
		for j, v := range row {
			rec[j] = fmt.Sprint(v)
		}
		if err := w.Write(rec); err != nil {
			return "", err
		}
	}
	w.Flush()
	return buf.String(), w.Error()
}
