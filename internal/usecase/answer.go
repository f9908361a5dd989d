package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	_ "embed"

	"docqa/internal/port"
)

//go:embed templates/answer_prompt.txt
var answerPromptText string

// ErrGeneration marks an answer produced from a failed chat call. The
// service still returns a readable answer in that case; callers that need
// to distinguish the degraded mode check the Answer's Err field.
var ErrGeneration = errors.New("answer generation failed")

// generationErrorPrefix tags fallback answer text so it is recognizable
// to humans as well as to code.
const generationErrorPrefix = "[generation error]"

type promptData struct {
	Context  string
	Question string
}

// Answer is the outcome of one question. Err is nil for a real model
// answer and wraps ErrGeneration when Text is the fallback.
type Answer struct {
	Text    string
	Context string
	Chunks  []port.VectorResult
	Err     error
}

// AnswerService runs the full question pipeline: assemble context, render
// the prompt, call the model.
type AnswerService struct {
	assembler *ContextAssembler
	llm       port.LLM
	tmpl      *template.Template
	logger    *slog.Logger
}

func NewAnswerService(assembler *ContextAssembler, llm port.LLM, logger *slog.Logger) (*AnswerService, error) {
	if logger == nil {
		logger = slog.Default()
	}

	tmpl, err := template.New("answer_prompt").Parse(answerPromptText)
	if err != nil {
		return nil, fmt.Errorf("invalid answer prompt template: %w", err)
	}
	// Fail at construction, not on the first question, if a placeholder
	// went missing.
	if err := validatePrompt(tmpl); err != nil {
		return nil, err
	}

	return &AnswerService{
		assembler: assembler,
		llm:       llm,
		tmpl:      tmpl,
		logger:    logger,
	}, nil
}

func validatePrompt(tmpl *template.Template) error {
	var buf strings.Builder
	sentinel := promptData{Context: "\x00ctx\x00", Question: "\x00q\x00"}
	if err := tmpl.Execute(&buf, sentinel); err != nil {
		return fmt.Errorf("answer prompt template does not render: %w", err)
	}
	rendered := buf.String()
	if !strings.Contains(rendered, sentinel.Context) {
		return errors.New("answer prompt template does not reference .Context")
	}
	if !strings.Contains(rendered, sentinel.Question) {
		return errors.New("answer prompt template does not reference .Question")
	}
	return nil
}

// Answer answers one question. Retrieval failures are returned as errors;
// generation failures are folded into the answer text so a flaky model
// never takes the endpoint down.
func (s *AnswerService) Answer(ctx context.Context, question string) (Answer, error) {
	contextText, chunks, err := s.assembler.Assemble(ctx, question)
	if err != nil {
		return Answer{}, err
	}

	var buf strings.Builder
	if err := s.tmpl.Execute(&buf, promptData{Context: contextText, Question: question}); err != nil {
		return Answer{}, fmt.Errorf("failed to render prompt: %w", err)
	}
	prompt := buf.String()
	s.logger.Debug("prompt rendered", "model", s.llm.ModelName(), "prompt", prompt)

	text, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		s.logger.Error("generation failed, returning fallback answer", "model", s.llm.ModelName(), "error", err)
		return Answer{
			Text:    fmt.Sprintf("%s chat model unavailable (%s): %v", generationErrorPrefix, s.llm.ModelName(), err),
			Context: contextText,
			Chunks:  chunks,
			Err:     fmt.Errorf("%w: %v", ErrGeneration, err),
		}, nil
	}

	return Answer{
		Text:    text,
		Context: contextText,
		Chunks:  chunks,
	}, nil
}
