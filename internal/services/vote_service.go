package services

import (
	"aidirectory-backend/internal/database"
	"aidirectory-backend/internal/models"
	"errors"

	"gorm.io/gorm"
)

// VoteResult is the state after a vote: the new aggregate and the caller's own vote (0 when none).
type VoteResult struct {
	Score    int `json:"score"`
	UserVote int `json:"userVote"`
}

// CastVote records a +1/-1 vote. Repeating the same vote withdraws it, the
// opposite value flips it. The aggregate score moves in the same transaction.
func CastVote(userID uint, t models.ContentType, targetID uint, value int) (*VoteResult, error) {
	if value != 1 && value != -1 {
		return nil, ErrInvalidVoteValue
	}
	if !t.Valid() {
		return nil, ErrInvalidContentType
	}

	result := &VoteResult{}
	var slug string
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		item, err := contentIDExists(tx, t, targetID, PublicStatuses)
		if err != nil {
			return err
		}
		slug = item.Base().Slug

		var vote models.Vote
		err = tx.Where("user_id = ? AND target_type = ? AND target_id = ?", userID, t, targetID).First(&vote).Error

		var delta int
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			vote = models.Vote{UserID: userID, TargetType: t, TargetID: targetID, Value: value}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}
			delta = value
			result.UserVote = value
		case err != nil:
			return err
		case vote.Value == value:
			if err := tx.Delete(&vote).Error; err != nil {
				return err
			}
			delta = -value
			result.UserVote = 0
		default:
			if err := tx.Model(&vote).Update("value", value).Error; err != nil {
				return err
			}
			delta = 2 * value
			result.UserVote = value
		}

		if err := tx.Model(item).UpdateColumn("vote_score", gorm.Expr("vote_score + ?", delta)).Error; err != nil {
			return err
		}

		fresh, err := contentIDExists(tx, t, targetID, nil)
		if err != nil {
			return err
		}
		result.Score = fresh.Base().VoteScore
		return nil
	})
	if err != nil {
		return nil, err
	}

	cacheDel(contentCacheKey(t, slug))
	return result, nil
}

// GetUserVotes returns the caller's votes on the given items, keyed by item ID.
func GetUserVotes(userID uint, t models.ContentType, ids []uint) (map[uint]int, error) {
	out := map[uint]int{}
	if len(ids) == 0 {
		return out, nil
	}
	var votes []models.Vote
	err := database.DB.
		Where("user_id = ? AND target_type = ? AND target_id IN ?", userID, t, ids).
		Find(&votes).Error
	if err != nil {
		return nil, err
	}
	for _, v := range votes {
		out[v.TargetID] = v.Value
	}
	return out, nil
}
