package apimiddleware

import (
	"sync"

	"github.com/liftout/liftout/pkg/lodb/model"
	"github.com/liftout/liftout/pkg/lodb/stor"
)

// APIKeyCache is a read-through cache from api token to user, so that every
// request doesn't cost a user lookup.
type APIKeyCache struct {
	apikeyCacheMu sync.RWMutex
	cache         map[string]*model.User
	userStor      stor.UserStor
}

func NewAPIKeyCache(userStor stor.UserStor) *APIKeyCache {
	return &APIKeyCache{
		cache:    make(map[string]*model.User),
		userStor: userStor,
	}
}

func (c *APIKeyCache) GetUserByAPIKey(apikey string) (*model.User, error) {
	c.apikeyCacheMu.RLock()

	if user, ok := c.cache[apikey]; ok {
		c.apikeyCacheMu.RUnlock()
		return user, nil
	}

	// Need to upgrade to a Write Lock
	c.apikeyCacheMu.RUnlock()
	c.apikeyCacheMu.Lock()
	defer c.apikeyCacheMu.Unlock()

	// Now that we've upgraded check again if the user exists. We do this
	// because a different thread may have acquired and created the user
	// in between us releasing the read lock and acquiring the write lock.
	if user, ok := c.cache[apikey]; ok {
		return user, nil
	}

	// User doesn't exist so retrieve from database, put into cache and return
	user, err := c.userStor.GetUserByAPIToken(apikey)
	if err != nil {
		// No user matching that key
		return nil, err
	}

	c.cache[apikey] = user
	return user, nil
}

func (c *APIKeyCache) DeleteUserByAPIKey(apikey string) {
	c.apikeyCacheMu.Lock()
	defer c.apikeyCacheMu.Unlock()
	delete(c.cache, apikey)
}
