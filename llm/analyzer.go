// Package llm implements an LLM-backed structure analyzer for the linking
// pipeline. It renders grid previews into prompts, sends them to the Gemini
// API and decodes the JSON replies, repairing the malformed output models
// habitually produce. Every method reports failure through its error so the
// caller can fall back to heuristic detection stage by stage.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/tuteke2023/tbgllink"
)

// DefaultModel is used when GEMINI_MODEL is not set.
const DefaultModel = "gemini-2.0-flash"

// ErrNoAPIKey is returned by NewAnalyzer when GEMINI_API_KEY is not set.
var ErrNoAPIKey = errors.New("GEMINI_API_KEY environment variable not set")

// Analyzer is a Gemini-backed [tbgllink.Analyzer].
type Analyzer struct {
	client *genai.Client
	model  string
	log    zerolog.Logger
}

var _ tbgllink.Analyzer = (*Analyzer)(nil)

// NewAnalyzer creates an analyzer from the GEMINI_API_KEY and GEMINI_MODEL
// environment variables.
func NewAnalyzer(ctx context.Context, log zerolog.Logger) (*Analyzer, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = DefaultModel
	}

	return &Analyzer{client: client, model: model, log: log}, nil
}

// generate runs one JSON-mode completion and returns the raw reply text.
func (a *Analyzer) generate(ctx context.Context, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(0.1)),
		ResponseMIMEType: "application/json",
	}

	result, err := a.client.Models.GenerateContent(ctx, a.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}
	return result.Text(), nil
}

// decodeJSON repairs and unmarshals a model reply.
func decodeJSON(raw string, v any) error {
	repaired, err := jsonrepair.RepairJSON(raw)
	if err != nil {
		return fmt.Errorf("failed to repair model reply: %w", err)
	}
	if err := json.Unmarshal([]byte(repaired), v); err != nil {
		return fmt.Errorf("failed to decode model reply: %w", err)
	}
	return nil
}

type tbStructureReply struct {
	HeaderRow      int    `json:"header_row"`
	AccountCol     int    `json:"account_col"`
	AccountNameCol int    `json:"account_name_col"`
	DebitCol       int    `json:"debit_col"`
	CreditCol      int    `json:"credit_col"`
	DataStartRow   int    `json:"data_start_row"`
	Confidence     string `json:"confidence"`
}

// AnalyzeTB asks the model for the Trial Balance structure. Low-confidence
// or inconsistent replies are reported as errors so the heuristic takes
// over.
func (a *Analyzer) AnalyzeTB(ctx context.Context, tb tbgllink.Document) (tbgllink.TBStructure, error) {
	prompt := fmt.Sprintf(analyzeTBPrompt, GridPreview(tb, previewTBRows, previewTBCols))

	raw, err := a.generate(ctx, prompt)
	if err != nil {
		return tbgllink.TBStructure{}, err
	}

	var reply tbStructureReply
	if err := decodeJSON(raw, &reply); err != nil {
		return tbgllink.TBStructure{}, err
	}
	if reply.Confidence == "low" {
		return tbgllink.TBStructure{}, errors.New("model reported low confidence on TB structure")
	}

	s := tbgllink.TBStructure{
		HeaderRow:      reply.HeaderRow,
		AccountCodeCol: reply.AccountCol,
		AccountNameCol: reply.AccountNameCol,
		DebitCol:       reply.DebitCol,
		CreditCol:      reply.CreditCol,
		DataStartRow:   reply.DataStartRow,
	}
	if s.DataStartRow == 0 && s.HeaderRow > 0 {
		s.DataStartRow = s.HeaderRow + 1
	}
	if !s.Valid() {
		return tbgllink.TBStructure{}, errors.New("model reply does not describe a usable TB structure")
	}

	a.log.Debug().
		Int("header_row", s.HeaderRow).
		Int("debit_col", s.DebitCol).
		Int("credit_col", s.CreditCol).
		Msg("model resolved TB structure")
	return s, nil
}

type glSectionsReply struct {
	Accounts []struct {
		Name      string `json:"name"`
		HeaderRow int    `json:"header_row"`
	} `json:"accounts"`
	TotalAccountsFound int `json:"total_accounts_found"`
}

// AnalyzeGL asks the model for the GL account section headers. Entries with
// an empty name or an out-of-range row are dropped; an empty result is an
// error.
func (a *Analyzer) AnalyzeGL(ctx context.Context, gl tbgllink.Document) ([]tbgllink.SectionHeader, error) {
	prompt := fmt.Sprintf(analyzeGLPrompt, GridPreview(gl, previewGLRows, previewGLCols))

	raw, err := a.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var reply glSectionsReply
	if err := decodeJSON(raw, &reply); err != nil {
		return nil, err
	}

	var headers []tbgllink.SectionHeader
	for _, account := range reply.Accounts {
		name := strings.TrimSpace(account.Name)
		if name == "" || account.HeaderRow < 1 || account.HeaderRow > gl.Rows() {
			continue
		}
		headers = append(headers, tbgllink.SectionHeader{
			Name:      name,
			HeaderRow: account.HeaderRow,
		})
	}
	if len(headers) == 0 {
		return nil, errors.New("model found no GL account sections")
	}

	a.log.Debug().Int("sections", len(headers)).Msg("model segmented GL")
	return headers, nil
}

type matchReply struct {
	Matches []struct {
		TBRow      int     `json:"tb_row"`
		TBAccount  string  `json:"tb_account"`
		GLAccount  string  `json:"gl_account"`
		Confidence float64 `json:"confidence"`
	} `json:"matches"`
	UnmatchedTB []string `json:"unmatched_tb"`
}

// MatchAccounts asks the model to pair TB accounts with GL section names.
// Only matches at or above 0.8 confidence that name a known row and section
// survive; an empty result is an error.
func (a *Analyzer) MatchAccounts(ctx context.Context, accounts []tbgllink.TBAccountRow, sectionNames []string) (map[int]string, error) {
	var tbList strings.Builder
	knownRows := make(map[int]bool, len(accounts))
	for _, account := range accounts {
		fmt.Fprintf(&tbList, "Row %d: %s\n", account.Row, account.Name)
		knownRows[account.Row] = true
	}

	knownSections := make(map[string]bool, len(sectionNames))
	for _, name := range sectionNames {
		knownSections[name] = true
	}

	prompt := fmt.Sprintf(matchAccountsPrompt, tbList.String(), strings.Join(sectionNames, "\n"))

	raw, err := a.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var reply matchReply
	if err := decodeJSON(raw, &reply); err != nil {
		return nil, err
	}

	matches := make(map[int]string)
	for _, m := range reply.Matches {
		if m.Confidence < 0.8 || !knownRows[m.TBRow] || !knownSections[m.GLAccount] {
			continue
		}
		matches[m.TBRow] = m.GLAccount
	}
	if len(matches) == 0 {
		return nil, errors.New("model produced no usable matches")
	}

	a.log.Debug().Int("matches", len(matches)).Msg("model matched accounts")
	return matches, nil
}
