package config

import "os"

func IsDebug() bool {
	return os.Getenv("ASKGARY_DEBUG") == "1"
}
