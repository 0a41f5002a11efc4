package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bday2025/tournament/go/internal/models"
	"github.com/bday2025/tournament/go/internal/roundinfo"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu          sync.Mutex
	transitions []Transition
	err         error
}

func (r *recordingNotifier) Name() string { return "recording" }

func (r *recordingNotifier) Notify(ctx context.Context, t Transition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions = append(r.transitions, t)
	return r.err
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.transitions)
}

func TestRun_OnlyTransitions(t *testing.T) {
	store := roundinfo.NewStore()
	updates, unsubscribe := store.Subscribe(8)

	failing := &recordingNotifier{err: errors.New("down")}
	rec := &recordingNotifier{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		Run(ctx, updates, failing, rec)
	}()

	dispatch := func(seq uint64, stage models.Stage) {
		store.Dispatch(roundinfo.FetchSucceeded{Seq: seq, Round: &models.Round{RoundID: 1, Number: 1, Stage: stage}, At: time.Now()})
	}
	dispatch(1, models.StageBetting)
	dispatch(2, models.StageBetting)
	store.Dispatch(roundinfo.FetchFailed{Seq: 3, Err: errors.New("timeout")})
	dispatch(4, models.StageJoust)

	require.Eventually(t, func() bool { return rec.count() == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 2, failing.count(), "a failing notifier does not stop the others")

	rec.mu.Lock()
	assert.Equal(t, models.StageJoust, rec.transitions[1].Round.Stage)
	require.NotNil(t, rec.transitions[1].Previous)
	assert.Equal(t, models.StageBetting, rec.transitions[1].Previous.Stage)
	rec.mu.Unlock()

	unsubscribe()
	<-done
	cancel()
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Round 2: betting is open", Message(Transition{Round: models.Round{Number: 2, Stage: models.StageBetting}}))
	assert.Equal(t, "The tournament is finished", Message(Transition{Round: models.Round{Number: 9, Stage: models.StageFinished}}))
	assert.Equal(t, "Round 1: warmup", Message(Transition{Round: models.Round{Number: 1, Stage: "warmup"}}))
}

type fakePublisher struct {
	subject string
	data    []byte
	err     error
}

func (f *fakePublisher) Publish(subject string, data []byte) error {
	f.subject = subject
	f.data = data
	return f.err
}

func TestNATSNotifier(t *testing.T) {
	pub := &fakePublisher{}
	n := NewNATSNotifier(pub, "bday")

	at := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	err := n.Notify(context.Background(), Transition{
		Round:      models.Round{RoundID: 4, Number: 3, Stage: models.StageBonus},
		Previous:   &models.Round{RoundID: 4, Number: 3, Stage: models.StageJoust},
		Generation: 7,
		At:         at,
	})
	require.NoError(t, err)
	assert.Equal(t, "bday.round.bonus", pub.subject)

	var env Envelope
	require.NoError(t, json.Unmarshal(pub.data, &env))
	assert.Equal(t, "RoundChanged", env.EventType)
	assert.NotEmpty(t, env.EventID)
	assert.True(t, at.Equal(env.Timestamp))

	var payload transitionPayload
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, transitionPayload{
		RoundID:       4,
		Number:        3,
		Stage:         "bonus",
		PreviousStage: "joust",
		Generation:    7,
		Message:       "Round 3: bonus time",
	}, payload)
}

func TestNATSNotifier_PublishError(t *testing.T) {
	n := NewNATSNotifier(&fakePublisher{err: errors.New("no responders")}, "")
	err := n.Notify(context.Background(), Transition{Round: models.Round{Stage: models.StageJoust}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tournament.round.joust")
}

type fakeWebhook struct {
	id, token string
	params    *discordgo.WebhookParams
}

func (f *fakeWebhook) WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.id, f.token, f.params = webhookID, token, data
	return nil, nil
}

func TestDiscordNotifier(t *testing.T) {
	hook := &fakeWebhook{}
	d := newDiscordNotifier(hook, "123", "secret", "")

	require.NoError(t, d.Notify(context.Background(), Transition{Round: models.Round{Number: 5, Stage: models.StageJoust}}))
	assert.Equal(t, "123", hook.id)
	assert.Equal(t, "secret", hook.token)
	assert.Equal(t, "Round 5: time to joust", hook.params.Content)
	assert.Equal(t, "Tournament", hook.params.Username)
}

func TestParseWebhookURL(t *testing.T) {
	id, token, err := ParseWebhookURL("https://discord.com/api/webhooks/42/abc-def")
	require.NoError(t, err)
	assert.Equal(t, "42", id)
	assert.Equal(t, "abc-def", token)

	_, _, err = ParseWebhookURL("https://discord.com/channels/42")
	assert.ErrorIs(t, err, ErrInvalidWebhook)
}
