package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
	"vivaai_backend/internal/model"
	"vivaai_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 仪表盘读取会反复拉取整个历史集合，按用户在 Redis 缓存一份，
// 新记录写入后立即失效，保证趋势计算的一致性
const interviewCacheTTL = 5 * time.Minute

type InterviewRepository struct {
	DB  *gorm.DB
	RDB *redis.Client
}

func NewInterviewRepository(db *gorm.DB, rdb *redis.Client) *InterviewRepository {
	return &InterviewRepository{DB: db, RDB: rdb}
}

func interviewCacheKey(userID uint) string {
	return fmt.Sprintf("vivaai:interviews:user:%d", userID)
}

// Create 追加一条作答记录并使该用户的集合缓存失效
func (r *InterviewRepository) Create(ctx context.Context, interview *model.Interview) error {
	if err := r.DB.Create(interview).Error; err != nil {
		return err
	}

	if r.RDB != nil {
		if err := r.RDB.Del(ctx, interviewCacheKey(interview.UserID)).Err(); err != nil {
			logger.Log.Warn("invalidate interview cache failed",
				zap.Uint("userID", interview.UserID), zap.Error(err))
		}
	}
	return nil
}

// FindAllByUser 返回用户全部作答记录，按 created_at 倒序（最新在前）
func (r *InterviewRepository) FindAllByUser(ctx context.Context, userID uint) ([]model.Interview, error) {
	key := interviewCacheKey(userID)

	if r.RDB != nil {
		cached, err := r.RDB.Get(ctx, key).Bytes()
		if err == nil {
			var interviews []model.Interview
			if jsonErr := json.Unmarshal(cached, &interviews); jsonErr == nil {
				return interviews, nil
			}
		} else if err != redis.Nil {
			logger.Log.Warn("read interview cache failed", zap.Error(err))
		}
	}

	var interviews []model.Interview
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&interviews).Error
	if err != nil {
		return nil, err
	}

	if r.RDB != nil {
		if data, jsonErr := json.Marshal(interviews); jsonErr == nil {
			if err := r.RDB.Set(ctx, key, data, interviewCacheTTL).Err(); err != nil {
				logger.Log.Warn("write interview cache failed", zap.Error(err))
			}
		}
	}

	return interviews, nil
}

// FindRecentByUser 返回最近 n 条记录，最新在前
func (r *InterviewRepository) FindRecentByUser(ctx context.Context, userID uint, n int) ([]model.Interview, error) {
	var interviews []model.Interview
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(n).
		Find(&interviews).Error
	return interviews, err
}

func (r *InterviewRepository) FindByIDAndUser(id, userID uint) (*model.Interview, error) {
	var interview model.Interview
	err := r.DB.Where("id = ? AND user_id = ?", id, userID).First(&interview).Error
	if err != nil {
		return nil, err
	}
	return &interview, nil
}

func (r *InterviewRepository) FindPageByUser(userID uint, page, limit int) ([]model.Interview, int64, error) {
	var interviews []model.Interview
	var total int64

	if err := r.DB.Model(&model.Interview{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&interviews).Error
	return interviews, total, err
}
