package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"cup-admin/internal/models"
)

type RedisCache struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisCache(addr string) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisCache{
		client: client,
		ctx:    context.Background(),
	}
}

func (c *RedisCache) SetQuiz(quiz *models.Quiz) error {
	data, err := json.Marshal(quiz)
	if err != nil {
		return err
	}

	key := "quiz:" + quiz.Slug
	return c.client.Set(c.ctx, key, data, time.Hour).Err()
}

func (c *RedisCache) GetQuiz(slug string) (*models.Quiz, error) {
	key := "quiz:" + slug
	data, err := c.client.Get(c.ctx, key).Bytes()
	if err != nil {
		return nil, err
	}

	var quiz models.Quiz
	err = json.Unmarshal(data, &quiz)
	return &quiz, err
}

func (c *RedisCache) InvalidateQuiz(slug string) error {
	return c.client.Del(c.ctx, "quiz:"+slug).Err()
}

func (c *RedisCache) SetControls(controls []models.Control) error {
	data, err := json.Marshal(controls)
	if err != nil {
		return err
	}
	return c.client.Set(c.ctx, "controls", data, time.Hour).Err()
}

func (c *RedisCache) GetControls() ([]models.Control, error) {
	data, err := c.client.Get(c.ctx, "controls").Bytes()
	if err != nil {
		return nil, err
	}
	var controls []models.Control
	err = json.Unmarshal(data, &controls)
	return controls, err
}

func (c *RedisCache) InvalidateControls() error {
	return c.client.Del(c.ctx, "controls").Err()
}

// TrackFailedLogin bumps the failed-login counter for an address and
// reports how many failures landed inside the window.
func (c *RedisCache) TrackFailedLogin(addr string, window time.Duration) (int64, error) {
	key := fmt.Sprintf("failed-login:%s", addr)
	count, err := c.client.Incr(c.ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		c.client.Expire(c.ctx, key, window)
	}
	return count, nil
}

// TrackSuspiciousAttempt counts honeypot hits per address so repeat
// probing can be called out in the alert.
func (c *RedisCache) TrackSuspiciousAttempt(addr string, window time.Duration) (int64, error) {
	key := fmt.Sprintf("suspicious:%s", addr)
	count, err := c.client.Incr(c.ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		c.client.Expire(c.ctx, key, window)
	}
	return count, nil
}
