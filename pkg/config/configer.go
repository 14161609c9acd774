package config

// Configer is the read side of loapid configuration. Keys resolve from the
// process environment; Load seeds the environment from a dotenv file first.
// The accessor set is deliberately small, covering only the keys the server
// reads.
type Configer interface {
	LoadFromPath(path string) error
	Load() error
	GetKey(key string) string
	GetKeyWithDefault(key, defaultValue string) string
	GetIntKeyWithDefault(key string, defaultValue int) int
}
