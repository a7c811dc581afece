package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/amishk599/offermatch/internal/ranking"
)

// Ensure SlackReporter implements Reporter.
var _ Reporter = (*SlackReporter)(nil)

// SlackReporter posts the best ranked offers to a Slack channel via an
// Incoming Webhook, as a single Block Kit message.
type SlackReporter struct {
	webhookURL string
	httpClient *http.Client
	top        int
	logger     *slog.Logger
}

// NewSlackReporter returns a reporter posting at most top offers.
func NewSlackReporter(webhookURL string, httpClient *http.Client, top int, logger *slog.Logger) *SlackReporter {
	if top < 1 {
		top = 5
	}
	return &SlackReporter{
		webhookURL: webhookURL,
		httpClient: httpClient,
		top:        top,
		logger:     logger,
	}
}

// Report sends nothing when no offer was ranked.
func (s *SlackReporter) Report(summary ranking.Summary) error {
	if len(summary.Ranked) == 0 {
		return nil
	}

	body, err := json.Marshal(buildPayload(summary, s.top))
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	status, retryAfter, err := s.post(body)
	if err != nil {
		return err
	}
	if status == http.StatusTooManyRequests {
		secs, _ := strconv.Atoi(retryAfter)
		if secs <= 0 {
			secs = 1
		}
		s.logger.Warn("slack rate limited, retrying", "retry_after_secs", secs)
		time.Sleep(time.Duration(secs) * time.Second)

		status, _, err = s.post(body)
		if err != nil {
			return fmt.Errorf("retry: %w", err)
		}
	}
	if status != http.StatusOK {
		return fmt.Errorf("slack returned %d", status)
	}

	s.logger.Info("slack report sent", "offers", min(len(summary.Ranked), s.top))
	return nil
}

func (s *SlackReporter) post(body []byte) (int, string, error) {
	resp, err := s.httpClient.Post(s.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return 0, "", fmt.Errorf("post to slack: %w", err)
	}
	defer resp.Body.Close()
	return resp.StatusCode, resp.Header.Get("Retry-After"), nil
}

// Block Kit payload types.

type slackPayload struct {
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type   string      `json:"type"`
	Text   *slackText  `json:"text,omitempty"`
	Fields []slackText `json:"fields,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func buildPayload(summary ranking.Summary, top int) slackPayload {
	blocks := []slackBlock{
		{
			Type: "header",
			Text: &slackText{Type: "plain_text", Text: fmt.Sprintf("Meilleures offres (%d sur %d)", min(top, len(summary.Ranked)), summary.Offers)},
		},
	}

	for i, r := range summary.Ranked {
		if i == top {
			break
		}
		contract := r.Offer.ContractType
		if contract == "" {
			contract = "non précisé"
		}
		blocks = append(blocks,
			slackBlock{
				Type: "section",
				Text: &slackText{Type: "mrkdwn", Text: fmt.Sprintf("*%d. %s*  (%d/100)", i+1, r.Offer.Title, r.Result.Score)},
				Fields: []slackText{
					{Type: "mrkdwn", Text: "*Contrat :*\n" + contract},
					{Type: "mrkdwn", Text: fmt.Sprintf("*Compétences :*\n%d/%d", len(r.Result.MatchedSkills), len(r.Result.MatchedSkills)+len(r.Result.MissingSkills))},
				},
			},
			slackBlock{
				Type: "section",
				Text: &slackText{Type: "mrkdwn", Text: "_" + r.Result.Explanation + "_"},
			},
		)
	}
	blocks = append(blocks, slackBlock{Type: "divider"})

	return slackPayload{Blocks: blocks}
}
