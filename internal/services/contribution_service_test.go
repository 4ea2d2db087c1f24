package services

import (
	"aidirectory-backend/internal/database"
	"aidirectory-backend/internal/githubapi"
	"aidirectory-backend/internal/models"
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakeOpener struct {
	mu        sync.Mutex
	err       error
	failFirst int
	inputs    []githubapi.PullRequestInput
}

func (f *fakeOpener) OpenPullRequest(_ context.Context, in githubapi.PullRequestInput) (*githubapi.PullRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	if len(f.inputs) <= f.failFirst {
		return nil, errors.New("temporary failure")
	}
	return &githubapi.PullRequest{
		Number: len(f.inputs),
		URL:    "https://github.com/acme/directory/pull/" + strconv.Itoa(len(f.inputs)),
		Branch: in.Branch,
	}, nil
}

func (f *fakeOpener) calls() []githubapi.PullRequestInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]githubapi.PullRequestInput(nil), f.inputs...)
}

func useOpener(t *testing.T, o githubapi.PullRequestOpener) {
	t.Helper()
	SetPullRequestOpener(o)
	t.Cleanup(func() { SetPullRequestOpener(nil) })
}

func newSubmission(title string) *models.Prompt {
	return &models.Prompt{
		ContentBase: models.ContentBase{
			Title:   title,
			Content: "Explain the diff line by line.",
			Tags:    models.StringList{"review"},
		},
		TargetModel: "any",
	}
}

func loadContribution(t *testing.T, id uint) models.Contribution {
	t.Helper()
	var c models.Contribution
	require.NoError(t, database.DB.First(&c, id).Error)
	return c
}

func TestSubmitContributionPreconditions(t *testing.T) {
	setupTestDB(t)
	user := createUser(t, "contributor", models.RoleUser)

	_, err := SubmitContribution(user, models.ContentTypePrompt, newSubmission("Code review"))
	assert.ErrorIs(t, err, ErrContributionsDisabled)

	useOpener(t, &fakeOpener{})
	_, err = SubmitContribution(user, models.ContentTypePrompt, newSubmission("Code review"))
	assert.ErrorIs(t, err, ErrRedisUnavailable)

	setupTestRedis(t)
	_, err = SubmitContribution(user, models.ContentTypeAgent, newSubmission("Code review"))
	assert.ErrorIs(t, err, ErrInvalidContentType)

	_, err = SubmitContribution(user, models.ContentTypePrompt, newSubmission(""))
	assert.Error(t, err)
}

func TestSubmitAndProcessContribution(t *testing.T) {
	setupTestDB(t)
	mr := setupTestRedis(t)
	opener := &fakeOpener{}
	useOpener(t, opener)
	user := createUser(t, "contributor", models.RoleUser)

	item := newSubmission("Code review buddy")
	item.VoteScore = 99
	c, err := SubmitContribution(user, models.ContentTypePrompt, item)
	require.NoError(t, err)
	assert.Equal(t, models.ContributionStatusQueued, c.Status)
	assert.Equal(t, "code-review-buddy", c.Slug)
	assert.Equal(t, "content/prompts/code-review-buddy.md", c.FilePath)
	assert.NotContains(t, c.Document, "vote_score")

	queued, err := mr.List(ContributionQueueKey)
	require.NoError(t, err)
	assert.Equal(t, []string{strconv.Itoa(int(c.ID))}, queued)

	processContribution(context.Background(), c.ID)

	got := loadContribution(t, c.ID)
	assert.Equal(t, models.ContributionStatusOpened, got.Status)
	assert.Equal(t, 1, got.PRNumber)
	assert.True(t, strings.HasPrefix(got.Branch, "contrib/code-review-buddy-"))

	calls := opener.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, got.Branch, calls[0].Branch)
	assert.Equal(t, c.FilePath, calls[0].Path)
	assert.Contains(t, string(calls[0].Content), "title: Code review buddy")
	assert.Contains(t, calls[0].Body, "@contributor")

	// already opened contributions are not reprocessed
	processContribution(context.Background(), c.ID)
	assert.Len(t, opener.calls(), 1)

	page, err := ListUserContributions(user.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, c.ID, page.Items[0].ID)
}

func TestProcessContributionRetriesThenFails(t *testing.T) {
	setupTestDB(t)
	mr := setupTestRedis(t)
	opener := &fakeOpener{err: errors.New("github is down")}
	useOpener(t, opener)
	user := createUser(t, "contributor", models.RoleUser)

	c, err := SubmitContribution(user, models.ContentTypePrompt, newSubmission("Flaky"))
	require.NoError(t, err)
	mr.Del(ContributionQueueKey)

	for attempt := 1; attempt <= DefaultContributionRetries; attempt++ {
		processContribution(context.Background(), c.ID)
		got := loadContribution(t, c.ID)
		assert.Equal(t, models.ContributionStatusQueued, got.Status)
		assert.Equal(t, attempt, got.RetryCount)
		assert.Equal(t, "github is down", got.ErrorLog)
	}
	// retries wait in the delayed set instead of going straight back on the queue
	assert.False(t, mr.Exists(ContributionQueueKey))
	delayed, err := mr.ZMembers(ContributionRetryKey)
	require.NoError(t, err)
	assert.Equal(t, []string{strconv.Itoa(int(c.ID))}, delayed)
	score, err := mr.ZScore(ContributionRetryKey, strconv.Itoa(int(c.ID)))
	require.NoError(t, err)
	assert.Greater(t, score, float64(time.Now().UnixMilli()))

	promoteDueContributions(context.Background(), time.Now())
	assert.False(t, mr.Exists(ContributionQueueKey), "not due yet")

	promoteDueContributions(context.Background(), time.Now().Add(time.Hour))
	queued, err := mr.List(ContributionQueueKey)
	require.NoError(t, err)
	assert.Equal(t, []string{strconv.Itoa(int(c.ID))}, queued)
	assert.False(t, mr.Exists(ContributionRetryKey))

	processContribution(context.Background(), c.ID)
	got := loadContribution(t, c.ID)
	assert.Equal(t, models.ContributionStatusFailed, got.Status)

	calls := opener.calls()
	require.Len(t, calls, DefaultContributionRetries+1)
	assert.NotEqual(t, calls[0].Branch, calls[1].Branch, "each attempt uses a fresh branch")
}

func TestContributionWorker(t *testing.T) {
	setupTestDB(t)
	setupTestRedis(t)
	opener := &fakeOpener{}
	useOpener(t, opener)
	user := createUser(t, "contributor", models.RoleUser)

	old := contributionPollTimeout
	contributionPollTimeout = time.Second
	t.Cleanup(func() { contributionPollTimeout = old })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		StartContributionWorker(ctx)
	}()

	c, err := SubmitContribution(user, models.ContentTypePrompt, newSubmission("Worker picked"))
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		var got models.Contribution
		if err := database.DB.First(&got, c.ID).Error; err != nil {
			return false
		}
		return got.Status == models.ContributionStatusOpened
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}

func TestContributionWorkerRetriesAfterDelay(t *testing.T) {
	setupTestDB(t)
	mr := setupTestRedis(t)
	opener := &fakeOpener{failFirst: 1}
	useOpener(t, opener)
	user := createUser(t, "contributor", models.RoleUser)

	oldPoll, oldBase := contributionPollTimeout, contributionRetryBase
	contributionPollTimeout, contributionRetryBase = time.Second, 0
	t.Cleanup(func() { contributionPollTimeout, contributionRetryBase = oldPoll, oldBase })

	before := goleak.IgnoreCurrent()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	defer func() {
		cancel()
		<-done
		// drop Redis connections so only goroutines started by the worker could remain
		database.RedisClient.Close()
		database.RedisClient = nil
		mr.Close()
		goleak.VerifyNone(t, before)
	}()
	go func() {
		defer close(done)
		StartContributionWorker(ctx)
	}()

	c, err := SubmitContribution(user, models.ContentTypePrompt, newSubmission("Second time lucky"))
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		var got models.Contribution
		if err := database.DB.First(&got, c.ID).Error; err != nil {
			return false
		}
		return got.Status == models.ContributionStatusOpened && got.RetryCount == 1
	}, 5*time.Second, 50*time.Millisecond)
	assert.Len(t, opener.calls(), 2)
}

func TestSubmitContributionRejectsTakenSlugs(t *testing.T) {
	setupTestDB(t)
	setupTestRedis(t)
	useOpener(t, &fakeOpener{})
	user := createUser(t, "contributor", models.RoleUser)
	createPrompt(t, "Code review", models.ContentStatusApproved, user)

	_, err := SubmitContribution(user, models.ContentTypePrompt, newSubmission("Code review"))
	assert.ErrorIs(t, err, ErrDuplicateSlug)

	first, err := SubmitContribution(user, models.ContentTypePrompt, newSubmission("Fresh idea"))
	require.NoError(t, err)
	_, err = SubmitContribution(user, models.ContentTypePrompt, newSubmission("Fresh idea"))
	assert.ErrorIs(t, err, ErrDuplicateSlug)

	// a failed contribution frees its path
	require.NoError(t, database.DB.Model(first).Update("status", models.ContributionStatusFailed).Error)
	_, err = SubmitContribution(user, models.ContentTypePrompt, newSubmission("Fresh idea"))
	assert.NoError(t, err)
}

func TestContributionRetryDelay(t *testing.T) {
	assert.Equal(t, 30*time.Second, contributionRetryDelay(1))
	assert.Equal(t, time.Minute, contributionRetryDelay(2))
	assert.Equal(t, 2*time.Minute, contributionRetryDelay(3))
	assert.Equal(t, 30*time.Second, contributionRetryDelay(0))
}

func TestStartContributionWorkerWithoutRedis(t *testing.T) {
	database.RedisClient = nil
	done := make(chan struct{})
	go func() {
		defer close(done)
		StartContributionWorker(context.Background())
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker should return immediately without Redis")
	}
}
