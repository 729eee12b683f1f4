package chat

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
	"github.com/wichananm65/storefront-backend/internal/product"
	"github.com/wichananm65/storefront-backend/internal/producttype"
	"golang.org/x/sync/errgroup"
)

const (
	historyTurns       = 6
	maxResponseProduct = 5
	contextLimit       = 20
	contextOrder       = "created desc"

	fallbackReply = "Xin lỗi, tôi không thể trả lời lúc này. Vui lòng thử lại sau! 🙏"
)

var ErrEmptyMessage = errors.New("message is required")

// Catalog is where product context comes from.
type Catalog interface {
	SearchProducts(ctx context.Context, q product.ListQuery) (product.Page, error)
	ListProductTypes(ctx context.Context) ([]producttype.ProductType, error)
}

// Completer is the completion API; *openai.Client satisfies it.
type Completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// NewGroqClient returns an OpenAI-compatible client pointed at Groq.
func NewGroqClient(apiKey, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return openai.NewClientWithConfig(cfg)
}

// HistoryEntry is one earlier turn as the storefront client sends it.
type HistoryEntry struct {
	Text   string `json:"text"`
	IsUser bool   `json:"isUser"`
}

type Request struct {
	Message string         `json:"message"`
	History []HistoryEntry `json:"history"`
}

type Response struct {
	Message  string            `json:"message"`
	Usage    *openai.Usage     `json:"usage,omitempty"`
	Products []product.Product `json:"products,omitempty"`
}

type Service struct {
	catalog Catalog
	llm     Completer
	model   string
	log     *logrus.Entry
}

func NewService(catalog Catalog, llm Completer, model string, log *logrus.Entry) *Service {
	return &Service{catalog: catalog, llm: llm, model: model, log: log}
}

// Reply answers one customer message. Catalog failures only drop context;
// completion failures are returned.
func (s *Service) Reply(ctx context.Context, req Request) (Response, error) {
	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		return Response{}, ErrEmptyMessage
	}

	var cc catalogContext
	if wantsProducts(msg) {
		cc = s.lookup(ctx, msg)
	}

	completion, err := s.llm.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		Messages:    buildMessages(buildSystemPrompt(cc), req.History, msg),
		Temperature: 0.7,
		TopP:        0.9,
		MaxTokens:   1024,
		Stream:      false,
	})
	if err != nil {
		return Response{}, fmt.Errorf("chat completion: %w", err)
	}

	res := Response{Message: fallbackReply, Usage: &completion.Usage}
	if len(completion.Choices) > 0 && completion.Choices[0].Message.Content != "" {
		res.Message = completion.Choices[0].Message.Content
	}
	if cc.products != nil && len(cc.products.Products) > 0 {
		ps := cc.products.Products
		if len(ps) > maxResponseProduct {
			ps = ps[:maxResponseProduct]
		}
		res.Products = ps
	}
	return res, nil
}

// lookup runs the product-type and product queries side by side.
func (s *Service) lookup(ctx context.Context, msg string) catalogContext {
	var cc catalogContext
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(2)

	if wantsCategories(msg) {
		g.Go(func() error {
			types, err := s.catalog.ListProductTypes(gctx)
			if err != nil {
				s.log.WithError(err).Warn("chat: product types unavailable")
				return nil
			}
			cc.types = types
			return nil
		})
	}

	name := productName(msg)
	g.Go(func() error {
		page, err := s.catalog.SearchProducts(gctx, product.ListQuery{
			Limit:  contextLimit,
			Page:   1,
			Order:  contextOrder,
			Search: name,
		})
		if err != nil {
			s.log.WithError(err).WithField("search", name).Warn("chat: products unavailable")
			return nil
		}
		cc.products = &page
		return nil
	})

	_ = g.Wait()
	return cc
}

func buildMessages(system string, history []HistoryEntry, msg string) []openai.ChatCompletionMessage {
	if len(history) > historyTurns {
		history = history[len(history)-historyTurns:]
	}
	out := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	out = append(out, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	for _, h := range history {
		role := openai.ChatMessageRoleAssistant
		if h.IsUser {
			role = openai.ChatMessageRoleUser
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: h.Text})
	}
	return append(out, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: msg})
}

// UpstreamStatus extracts the HTTP status of a failed completion call, or 0.
func UpstreamStatus(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

func statusFor(err error) int {
	switch UpstreamStatus(err) {
	case http.StatusUnauthorized:
		return http.StatusUnauthorized
	case http.StatusTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
