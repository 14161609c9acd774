package config

import "github.com/apex/log"

var configer Configer = &DotenvConfig{}

func SetConfig(c Configer) {
	configer = c
}

func GetConfig() Configer {
	return configer
}

// MustLoadFromLiftoutDotenv loads the dotenv file named by LIFTOUT_DOTENV, or
// ".env" when unset. Missing the default file is not fatal since all keys can
// come from the environment.
func MustLoadFromLiftoutDotenv() Configer {
	path := configer.GetKeyWithDefault("LIFTOUT_DOTENV", ".env")
	if err := configer.LoadFromPath(path); err != nil {
		if configer.GetKey("LIFTOUT_DOTENV") != "" {
			log.Fatalf("Unable to load dotenv file %s: %s", path, err)
		}
	}

	return configer
}

func LoadFromPath(path string) error {
	return configer.LoadFromPath(path)
}

func Load() error {
	return configer.Load()
}

func GetKey(key string) string {
	return configer.GetKey(key)
}

func GetKeyWithDefault(key, defaultValue string) string {
	return configer.GetKeyWithDefault(key, defaultValue)
}

func GetIntKeyWithDefault(key string, defaultValue int) int {
	return configer.GetIntKeyWithDefault(key, defaultValue)
}
