package config

import (
	"os"
	"strconv"

	"github.com/subosito/gotenv"
)

// DotenvConfig resolves keys from the process environment, optionally seeded
// from a dotenv file. It's the Configer loapid runs with.
type DotenvConfig struct {
	DotenvPath string
}

func NewDotenvConfig(path string) *DotenvConfig {
	return &DotenvConfig{DotenvPath: path}
}

func (c *DotenvConfig) LoadFromPath(path string) error {
	c.DotenvPath = path
	return c.Load()
}

func (c *DotenvConfig) Load() error {
	return gotenv.Load(c.DotenvPath)
}

func (c *DotenvConfig) GetKey(key string) string {
	return os.Getenv(key)
}

func (c *DotenvConfig) GetKeyWithDefault(key, defaultValue string) string {
	if val := c.GetKey(key); val != "" {
		return val
	}

	return defaultValue
}

func (c *DotenvConfig) GetIntKeyWithDefault(key string, defaultValue int) int {
	intVal, err := strconv.Atoi(c.GetKey(key))
	if err != nil {
		return defaultValue
	}

	return intVal
}
