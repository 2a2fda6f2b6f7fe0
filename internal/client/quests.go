package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"questpath/internal/model"
	"questpath/internal/service"

	"github.com/goccy/go-json"
)

type questPayload struct {
	ID          flexString `json:"id"`
	MongoID     flexString `json:"_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Difficulty  string     `json:"difficulty"`
	XPReward    flexInt    `json:"xp_reward"`
	XPRewardAlt flexInt    `json:"xpReward"`
}

func (p questPayload) toModel() *model.Quest {
	id := p.ID.String()
	if id == "" {
		id = p.MongoID.String()
	}

	difficulty := model.Difficulty(strings.ToLower(strings.TrimSpace(p.Difficulty)))
	if !difficulty.Valid() {
		difficulty = model.DifficultyBeginner
	}

	reward := p.XPReward.Int()
	if reward <= 0 {
		reward = p.XPRewardAlt.Int()
	}
	if reward <= 0 {
		reward = difficulty.DefaultReward()
	}

	return &model.Quest{
		ID:          id,
		Title:       p.Title,
		Description: p.Description,
		Difficulty:  difficulty,
		XPReward:    reward,
	}
}

// ListQuests accepts either a bare list or a {"quests": [...]} envelope.
func (c *Client) ListQuests(ctx context.Context) ([]*model.Quest, error) {
	const op = "list quests"

	data, err := c.do(ctx, op, http.MethodGet, "/quests", nil, "")
	if err != nil {
		return nil, err
	}

	var payloads []questPayload
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(data, &payloads); err != nil {
			return nil, &service.NetworkError{Op: op, StatusCode: http.StatusOK, Err: err}
		}
	} else {
		if err := softError(op, data); err != nil {
			return nil, err
		}
		var env struct {
			Quests []questPayload `json:"quests"`
		}
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, &service.NetworkError{Op: op, StatusCode: http.StatusOK, Err: err}
		}
		payloads = env.Quests
	}

	quests := make([]*model.Quest, 0, len(payloads))
	for _, p := range payloads {
		q := p.toModel()
		if q.ID == "" {
			continue
		}
		quests = append(quests, q)
	}
	return quests, nil
}

type completeRequest struct {
	QuestID string `json:"quest_id"`
	UserID  string `json:"user_id"`
}

func (c *Client) ReportCompletion(ctx context.Context, userID, questID string) error {
	const op = "report completion"

	data, err := c.do(ctx, op, http.MethodPost, "/quests/complete", completeRequest{
		QuestID: questID,
		UserID:  userID,
	}, "")
	if err != nil {
		return err
	}
	return softError(op, data)
}

type workflowPayload struct {
	Success *bool           `json:"success"`
	State   string          `json:"state"`
	User    json.RawMessage `json:"user"`
}

func (c *Client) FetchWorkflowState(ctx context.Context, userID string) (*model.WorkflowSnapshot, error) {
	const op = "fetch workflow state"

	data, err := c.do(ctx, op, http.MethodGet, "/workflow/"+url.PathEscape(userID)+"/state", nil, "")
	if err != nil {
		return nil, err
	}
	if err := softError(op, data); err != nil {
		return nil, err
	}

	var payload workflowPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, &service.NetworkError{Op: op, StatusCode: http.StatusOK, Err: err}
	}

	snapshot := &model.WorkflowSnapshot{
		State: service.NormalizeWorkflowState(payload.State),
	}
	if len(payload.User) > 0 && string(payload.User) != "null" {
		user, _, err := NormalizeUser(payload.User)
		if err == nil {
			if user.ID == "" {
				user.ID = userID
			}
			snapshot.User = &user
		}
	}
	return snapshot, nil
}
