package cache

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"tutsin-digital/configs"

	"github.com/go-redis/redis/v8"
	"github.com/patrickmn/go-cache"
)

const notificationChannel = "notification_events"

// CacheManager backs the rate limiter, the analytics overview cache, and
// cross-instance notification fanout. Redis is optional: when it is down the
// manager degrades to the in-process cache and local-only fanout.
type CacheManager struct {
	redisClient *redis.Client
	localCache  *cache.Cache
	pubSub      *redis.PubSub
	ctx         context.Context
	mu          sync.RWMutex

	listenerMu sync.RWMutex
	listener   func(payload []byte)
}

var (
	instance *CacheManager
	once     sync.Once
)

func GetCacheManager() *CacheManager {
	once.Do(func() {
		instance = &CacheManager{
			ctx:        context.Background(),
			localCache: cache.New(5*time.Minute, 10*time.Minute),
		}
		instance.initialize()
	})
	return instance
}

func (cm *CacheManager) initialize() {
	opts, err := redis.ParseURL(configs.AppConfig.RedisURL)
	if err != nil {
		opts = &redis.Options{
			Addr: configs.AppConfig.RedisURL,
		}
	}

	cm.redisClient = redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(cm.ctx, 5*time.Second)
	defer cancel()

	if err := cm.redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("Redis connection failed, using local cache only: %v", err)
		cm.redisClient = nil
	} else {
		log.Println("Redis connection established successfully")

		cm.pubSub = cm.redisClient.Subscribe(cm.ctx, notificationChannel)
		go cm.listenForNotifications()
	}
}

func (cm *CacheManager) listenForNotifications() {
	if cm.pubSub == nil {
		return
	}

	ch := cm.pubSub.Channel()
	for msg := range ch {
		cm.listenerMu.RLock()
		fn := cm.listener
		cm.listenerMu.RUnlock()
		if fn != nil {
			fn([]byte(msg.Payload))
		}
	}
}

// SetNotificationListener registers the consumer of published notification
// events (the websocket hub). Only one listener is supported.
func (cm *CacheManager) SetNotificationListener(fn func(payload []byte)) {
	cm.listenerMu.Lock()
	cm.listener = fn
	cm.listenerMu.Unlock()
}

// PublishNotification fans a notification event out to every instance. When
// Redis is absent the event is delivered to the local listener directly.
func (cm *CacheManager) PublishNotification(event interface{}) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal notification event: %v", err)
		return
	}

	if cm.redisClient == nil {
		cm.listenerMu.RLock()
		fn := cm.listener
		cm.listenerMu.RUnlock()
		if fn != nil {
			fn(data)
		}
		return
	}

	ctx, cancel := context.WithTimeout(cm.ctx, 5*time.Second)
	defer cancel()
	cm.redisClient.Publish(ctx, notificationChannel, data)
}

func (cm *CacheManager) Set(key string, value interface{}, ttl time.Duration) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	cm.localCache.Set(key, value, ttl)

	if cm.redisClient != nil {
		data, err := json.Marshal(value)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cm.ctx, 5*time.Second)
		defer cancel()

		return cm.redisClient.Set(ctx, key, data, ttl).Err()
	}

	return nil
}

func (cm *CacheManager) Get(key string, target interface{}) (bool, error) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	if val, found := cm.localCache.Get(key); found {
		data, err := json.Marshal(val)
		if err != nil {
			return false, err
		}
		return true, json.Unmarshal(data, target)
	}

	if cm.redisClient != nil {
		ctx, cancel := context.WithTimeout(cm.ctx, 5*time.Second)
		defer cancel()

		data, err := cm.redisClient.Get(ctx, key).Bytes()
		if err == redis.Nil {
			return false, nil
		} else if err != nil {
			return false, err
		}

		cm.localCache.Set(key, json.RawMessage(data), 5*time.Minute)

		return true, json.Unmarshal(data, target)
	}

	return false, nil
}

func (cm *CacheManager) Delete(key string) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	cm.localCache.Delete(key)

	if cm.redisClient != nil {
		ctx, cancel := context.WithTimeout(cm.ctx, 5*time.Second)
		defer cancel()
		return cm.redisClient.Del(ctx, key).Err()
	}

	return nil
}

// Increment backs the hourly rate-limit counters.
func (cm *CacheManager) Increment(key string, value int64) (int64, error) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.redisClient != nil {
		ctx, cancel := context.WithTimeout(cm.ctx, 5*time.Second)
		defer cancel()
		return cm.redisClient.IncrBy(ctx, key, value).Result()
	}

	var current int64
	if val, found := cm.localCache.Get(key); found {
		current = val.(int64)
	}
	current += value
	cm.localCache.Set(key, current, cache.DefaultExpiration)
	return current, nil
}

func (cm *CacheManager) IsAvailable() bool {
	return cm.redisClient != nil
}
