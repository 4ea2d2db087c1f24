package services

import (
	"aidirectory-backend/internal/catalogfile"
	"aidirectory-backend/internal/database"
	"aidirectory-backend/internal/githubapi"
	"aidirectory-backend/internal/models"
	"aidirectory-backend/internal/utils"
	"aidirectory-backend/pkg/logger"
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	ContributionQueueKey       = "contribution_queue"
	ContributionRetryKey       = "contribution_retry"
	DefaultContributionRetries = 3
)

var (
	contributionPollTimeout = 5 * time.Second
	contributionRetryBase   = 30 * time.Second
)

// contributionRetryDelay doubles the wait with every attempt: 30s, 1m, 2m, ...
func contributionRetryDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return contributionRetryBase << (attempt - 1)
}

// promoteDueContributions moves retries whose delay has passed back onto the queue.
func promoteDueContributions(ctx context.Context, now time.Time) {
	due, err := database.RedisClient.ZRangeByScore(ctx, ContributionRetryKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(now.UnixMilli(), 10),
	}).Result()
	if err != nil {
		if ctx.Err() == nil {
			logger.Log.Warn("Reading delayed contributions failed", zap.Error(err))
		}
		return
	}
	for _, id := range due {
		// only the worker that removes the entry requeues it
		removed, err := database.RedisClient.ZRem(ctx, ContributionRetryKey, id).Result()
		if err != nil || removed == 0 {
			continue
		}
		if err := database.RedisClient.RPush(ctx, ContributionQueueKey, id).Err(); err != nil {
			logger.Log.Error("Requeueing contribution failed", zap.String("contribution_id", id), zap.Error(err))
		}
	}
}

var (
	prOpener   githubapi.PullRequestOpener
	prOpenerMu sync.RWMutex
)

// SetPullRequestOpener installs the client used by the contribution worker.
// A nil opener disables contributions.
func SetPullRequestOpener(o githubapi.PullRequestOpener) {
	prOpenerMu.Lock()
	defer prOpenerMu.Unlock()
	prOpener = o
}

func pullRequestOpener() githubapi.PullRequestOpener {
	prOpenerMu.RLock()
	defer prOpenerMu.RUnlock()
	return prOpener
}

// SubmitContribution renders item as a catalog file and queues it to be opened
// as a pull request against the content repository.
func SubmitContribution(user *models.User, t models.ContentType, item models.Content) (*models.Contribution, error) {
	if pullRequestOpener() == nil {
		return nil, ErrContributionsDisabled
	}
	if database.RedisClient == nil {
		return nil, ErrRedisUnavailable
	}
	if !t.Valid() || item == nil || item.ContentType() != t {
		return nil, ErrInvalidContentType
	}

	base := item.Base()
	base.ID = 0
	base.AuthorID = nil
	base.Author = nil
	base.Status = ""
	base.VoteScore = 0
	base.FavoriteCount = 0
	prepareContent(t, base)
	if err := utils.DefaultValidator().Validate(item); err != nil {
		return nil, err
	}
	if err := checkContributionSlug(t, base.Slug); err != nil {
		return nil, err
	}

	doc, err := catalogfile.FromContent(item)
	if err != nil {
		return nil, err
	}
	data, err := catalogfile.Render(doc)
	if err != nil {
		return nil, err
	}

	c := &models.Contribution{
		UserID:      user.ID,
		ContentType: t,
		Title:       base.Title,
		Slug:        base.Slug,
		FilePath:    catalogfile.FilePath(t, base.Slug),
		Document:    string(data),
		Status:      models.ContributionStatusQueued,
		MaxRetries:  DefaultContributionRetries,
	}
	if err := database.DB.Create(c).Error; err != nil {
		return nil, err
	}

	if err := database.RedisClient.RPush(database.Ctx, ContributionQueueKey, c.ID).Err(); err != nil {
		c.Status = models.ContributionStatusFailed
		c.ErrorLog = err.Error()
		database.DB.Omit("User").Save(c)
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	logger.Log.Info("Contribution queued",
		zap.Uint("contribution_id", c.ID),
		zap.String("type", string(t)),
		zap.String("path", c.FilePath),
		zap.String("login", user.Login),
	)
	return c, nil
}

// checkContributionSlug rejects a slug that is already in the catalog or
// claimed by a contribution that has not failed.
func checkContributionSlug(t models.ContentType, slug string) error {
	taken, err := slugTaken(database.DB, t, slug, 0)
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicateSlug
	}

	var pending int64
	err = database.DB.Model(&models.Contribution{}).
		Where("file_path = ? AND status <> ?", catalogfile.FilePath(t, slug), models.ContributionStatusFailed).
		Count(&pending).Error
	if err != nil {
		return err
	}
	if pending > 0 {
		return ErrDuplicateSlug
	}
	return nil
}

// ListUserContributions pages through a user's submissions, newest first.
func ListUserContributions(userID uint, offset, limit int) (*Page[models.Contribution], error) {
	offset, limit = NormalizePage(offset, limit)

	var total int64
	if err := database.DB.Model(&models.Contribution{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, err
	}

	var list []models.Contribution
	err := database.DB.Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return NewPage(list, offset, total), nil
}

// StartContributionWorker consumes the contribution queue until ctx is cancelled.
func StartContributionWorker(ctx context.Context) {
	if database.RedisClient == nil {
		logger.Log.Warn("Contribution worker not started: Redis is unavailable")
		return
	}
	logger.Log.Info("Contribution worker started")
	for {
		promoteDueContributions(ctx, time.Now())
		result, err := database.RedisClient.BLPop(ctx, contributionPollTimeout, ContributionQueueKey).Result()
		if err != nil {
			if ctx.Err() != nil {
				logger.Log.Info("Contribution worker stopped")
				return
			}
			if err == redis.Nil {
				continue
			}
			logger.Log.Error("Redis BLPop error", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		// result[0] is the key, result[1] is the value
		id, err := strconv.ParseUint(result[1], 10, 64)
		if err != nil {
			logger.Log.Warn("Invalid contribution ID in queue", zap.String("value", result[1]))
			continue
		}
		processContribution(ctx, uint(id))
	}
}

func processContribution(ctx context.Context, id uint) {
	var c models.Contribution
	if err := database.DB.First(&c, id).Error; err != nil {
		logger.Log.Warn("Contribution not found", zap.Uint("contribution_id", id), zap.Error(err))
		return
	}
	if c.Status == models.ContributionStatusOpened || c.Status == models.ContributionStatusFailed {
		return
	}

	opener := pullRequestOpener()
	if opener == nil {
		handleContributionFailure(&c, ErrContributionsDisabled)
		return
	}

	login := "unknown"
	if user, err := FindUserByID(c.UserID); err == nil {
		login = user.Login
	}

	c.Status = models.ContributionStatusProcessing
	c.Branch = fmt.Sprintf("contrib/%s-%s", c.Slug, uuid.NewString()[:8])
	database.DB.Omit("User").Save(&c)

	title := fmt.Sprintf("Add %s: %s", strings.ToLower(c.ContentType.Label()), c.Title)
	pr, err := opener.OpenPullRequest(ctx, githubapi.PullRequestInput{
		Branch:        c.Branch,
		Path:          c.FilePath,
		Content:       []byte(c.Document),
		CommitMessage: title,
		Title:         title,
		Body:          fmt.Sprintf("Submitted by @%s through the directory.\n\nFile: `%s`", login, c.FilePath),
	})
	if err != nil {
		logger.Log.Warn("Opening pull request failed", zap.Uint("contribution_id", c.ID), zap.Error(err))
		handleContributionFailure(&c, err)
		return
	}

	c.Status = models.ContributionStatusOpened
	c.PRNumber = pr.Number
	c.PRURL = pr.URL
	c.ErrorLog = ""
	database.DB.Omit("User").Save(&c)
	logger.Log.Info("Contribution opened", zap.Uint("contribution_id", c.ID), zap.String("pr_url", pr.URL))
}

func handleContributionFailure(c *models.Contribution, err error) {
	c.ErrorLog = err.Error()

	if c.RetryCount < c.MaxRetries {
		c.RetryCount++
		c.Status = models.ContributionStatusQueued
		delay := contributionRetryDelay(c.RetryCount)
		logger.Log.Info("Retrying contribution",
			zap.Uint("contribution_id", c.ID),
			zap.Int("attempt", c.RetryCount),
			zap.Int("max_retries", c.MaxRetries),
			zap.Duration("delay", delay),
		)
		database.DB.Omit("User").Save(c)
		if database.RedisClient != nil {
			err := database.RedisClient.ZAdd(database.Ctx, ContributionRetryKey, &redis.Z{
				Score:  float64(time.Now().Add(delay).UnixMilli()),
				Member: strconv.FormatUint(uint64(c.ID), 10),
			}).Err()
			if err != nil {
				logger.Log.Error("Scheduling contribution retry failed", zap.Uint("contribution_id", c.ID), zap.Error(err))
			}
		}
		return
	}

	c.Status = models.ContributionStatusFailed
	logger.Log.Error("Contribution failed permanently",
		zap.Uint("contribution_id", c.ID),
		zap.Int("retries", c.MaxRetries),
		zap.Error(err),
	)
	database.DB.Omit("User").Save(c)
}
